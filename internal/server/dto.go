package server

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"gijiroku/internal/store"
	"gijiroku/internal/summarizer"
)

const dateLayout = "2006-01-02"

// GenerateRequest is the body for POST /api/minutes/generate.
type GenerateRequest struct {
	Title        string   `json:"title"`
	MeetingDate  string   `json:"meeting_date"`
	Participants []string `json:"participants"`
	Text         string   `json:"text"`
	InputMode    string   `json:"input_mode"`
}

// Validate checks required fields and the closed input_mode set.
func (r GenerateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.MeetingDate, validation.Required, validation.Date(dateLayout)),
		validation.Field(&r.Text, validation.Required),
		validation.Field(&r.InputMode, validation.In(summarizer.ModeFree, summarizer.ModeBullet)),
	)
}

// SummaryResponse is the generated draft returned to the client.
type SummaryResponse struct {
	Purpose         string `json:"purpose"`
	Decisions       string `json:"decisions"`
	ActionItems     string `json:"action_items"`
	Digest          string `json:"digest"`
	TotalCharacters int    `json:"total_characters"`
}

// CreateRequest is the body for POST /api/minutes and PUT /api/minutes/{id}.
type CreateRequest struct {
	Title        string   `json:"title"`
	MeetingDate  string   `json:"meeting_date"`
	Participants []string `json:"participants"`
	RawInput     string   `json:"raw_input"`
	Purpose      string   `json:"purpose"`
	Decisions    string   `json:"decisions"`
	ActionItems  string   `json:"action_items"`
	Digest       string   `json:"digest"`
	Editor       *string  `json:"editor,omitempty"`
}

// Validate checks the create/update contract. The four sections are required
// for a persisted record.
func (r CreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.MeetingDate, validation.Required, validation.Date(dateLayout)),
		validation.Field(&r.Purpose, validation.Required),
		validation.Field(&r.Decisions, validation.Required),
		validation.Field(&r.ActionItems, validation.Required),
		validation.Field(&r.Digest, validation.Required),
	)
}

// ReminderRequest is the body for reminder and notification submissions.
type ReminderRequest struct {
	Assignee   string `json:"assignee"`
	ActionItem string `json:"action_item"`
	DueDate    string `json:"due_date"`
}

// Validate checks the reminder contract.
func (r ReminderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Assignee, validation.Required),
		validation.Field(&r.ActionItem, validation.Required),
		validation.Field(&r.DueDate, validation.Required, validation.Date(dateLayout)),
	)
}

// RecordResponse is the full record shape without history or reminders.
type RecordResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	MeetingDate  string    `json:"meeting_date"`
	Participants []string  `json:"participants"`
	Purpose      string    `json:"purpose"`
	Decisions    string    `json:"decisions"`
	ActionItems  string    `json:"action_items"`
	Digest       string    `json:"digest"`
	RawInput     string    `json:"raw_input"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ListItemResponse is the lightweight list shape, deliberately distinct from
// RecordResponse: no sections, history, or reminders.
type ListItemResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	MeetingDate  string    `json:"meeting_date"`
	Participants []string  `json:"participants"`
	CreatedAt    time.Time `json:"created_at"`
}

// VersionResponse is an immutable history snapshot.
type VersionResponse struct {
	ID          string    `json:"id"`
	Purpose     string    `json:"purpose"`
	Decisions   string    `json:"decisions"`
	ActionItems string    `json:"action_items"`
	Digest      string    `json:"digest"`
	Editor      *string   `json:"editor"`
	CreatedAt   time.Time `json:"created_at"`
}

// ReminderResponse is one reminder with its server-assigned status.
type ReminderResponse struct {
	ID         string    `json:"id"`
	Assignee   string    `json:"assignee"`
	ActionItem string    `json:"action_item"`
	DueDate    string    `json:"due_date"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// DetailResponse is the full detail contract: record plus ordered versions
// (newest first) and reminders (by due date).
type DetailResponse struct {
	RecordResponse
	Versions  []VersionResponse  `json:"versions"`
	Reminders []ReminderResponse `json:"reminders"`
}

// DiffResponse describes how one section changed between two versions.
type DiffResponse struct {
	Field    string `json:"field"`
	Previous string `json:"previous"`
	Current  string `json:"current"`
	Diff     string `json:"diff"`
}

// HistoryEntryResponse pairs a version with its diffs against the previous one.
type HistoryEntryResponse struct {
	Version VersionResponse `json:"version"`
	Diffs   []DiffResponse  `json:"diffs"`
}

func toRecordResponse(rec store.Record) RecordResponse {
	return RecordResponse{
		ID:           rec.ID,
		Title:        rec.Title,
		MeetingDate:  rec.MeetingDate,
		Participants: rec.Participants,
		Purpose:      rec.Purpose,
		Decisions:    rec.Decisions,
		ActionItems:  rec.ActionItems,
		Digest:       rec.Digest,
		RawInput:     rec.RawInput,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}
}

func toListItemResponse(row store.ListRow) ListItemResponse {
	return ListItemResponse{
		ID:           row.ID,
		Title:        row.Title,
		MeetingDate:  row.MeetingDate,
		Participants: row.Participants,
		CreatedAt:    row.CreatedAt,
	}
}

func toVersionResponse(v store.Version) VersionResponse {
	return VersionResponse{
		ID:          v.ID,
		Purpose:     v.Purpose,
		Decisions:   v.Decisions,
		ActionItems: v.ActionItems,
		Digest:      v.Digest,
		Editor:      v.Editor,
		CreatedAt:   v.CreatedAt,
	}
}

func toReminderResponse(r store.Reminder) ReminderResponse {
	return ReminderResponse{
		ID:         r.ID,
		Assignee:   r.Assignee,
		ActionItem: r.ActionItem,
		DueDate:    r.DueDate,
		Status:     r.Status,
		CreatedAt:  r.CreatedAt,
	}
}
