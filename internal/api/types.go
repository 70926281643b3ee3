// Package api is the HTTP client for the minutes backend. It mirrors the
// server's JSON contracts and surfaces backend error messages verbatim.
package api

import "time"

// Input modes accepted by the generate endpoint.
const (
	ModeFree   = "free"
	ModeBullet = "bullet"
)

// MaxTotalCharacters is the backend's combined section limit.
const MaxTotalCharacters = 1000

// ListItem is one row of the minutes list. The list shape carries no
// sections, history, or reminders.
type ListItem struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	MeetingDate  string    `json:"meeting_date"`
	Participants []string  `json:"participants"`
	CreatedAt    time.Time `json:"created_at"`
}

// Record is the full record shape returned by create and update.
type Record struct {
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

// Version is an immutable history snapshot. Editor is nil when the
// version was recorded without one.
type Version struct {
	ID          string    `json:"id"`
	Purpose     string    `json:"purpose"`
	Decisions   string    `json:"decisions"`
	ActionItems string    `json:"action_items"`
	Digest      string    `json:"digest"`
	Editor      *string   `json:"editor"`
	CreatedAt   time.Time `json:"created_at"`
}

// Reminder is one follow-up reminder with its server-assigned status.
type Reminder struct {
	ID         string    `json:"id"`
	Assignee   string    `json:"assignee"`
	ActionItem string    `json:"action_item"`
	DueDate    string    `json:"due_date"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// Detail is the full detail payload: the record plus versions ordered
// newest first and reminders ordered by due date.
type Detail struct {
	Record
	Versions  []Version  `json:"versions"`
	Reminders []Reminder `json:"reminders"`
}

// Diff describes how one section changed between two versions.
type Diff struct {
	Field    string `json:"field"`
	Previous string `json:"previous"`
	Current  string `json:"current"`
	Diff     string `json:"diff"`
}

// HistoryEntry is one version with its per-section diffs against the
// predecessor. The backend returns entries oldest first.
type HistoryEntry struct {
	Version Version `json:"version"`
	Diffs   []Diff  `json:"diffs"`
}

// GenerateRequest asks the backend to summarize raw meeting text.
type GenerateRequest struct {
	Title        string   `json:"title"`
	MeetingDate  string   `json:"meeting_date"`
	Participants []string `json:"participants"`
	Text         string   `json:"text"`
	InputMode    string   `json:"input_mode"`
}

// Summary is the structured draft produced from raw text.
type Summary struct {
	Purpose         string `json:"purpose"`
	Decisions       string `json:"decisions"`
	ActionItems     string `json:"action_items"`
	Digest          string `json:"digest"`
	TotalCharacters int    `json:"total_characters"`
}

// CreateRequest submits a finalized record. Editor is optional and only
// meaningful on updates.
type CreateRequest struct {
	Title        string   `json:"title"`
	MeetingDate  string   `json:"meeting_date"`
	Participants []string `json:"participants"`
	RawInput     string   `json:"raw_input"`
	Purpose      string   `json:"purpose"`
	Decisions    string   `json:"decisions"`
	ActionItems  string   `json:"action_items"`
	Digest       string   `json:"digest"`
	Editor       string   `json:"editor,omitempty"`
}

// ReminderRequest submits a follow-up reminder for a record.
type ReminderRequest struct {
	Assignee   string `json:"assignee"`
	ActionItem string `json:"action_item"`
	DueDate    string `json:"due_date"`
}
