// Package store persists minutes, their version history, and reminders in
// SQLite.
package store

import "time"

// Record is a persisted meeting-minutes entry with its current sections.
type Record struct {
	ID           string
	Title        string
	MeetingDate  string // YYYY-MM-DD
	Participants []string
	Purpose      string
	Decisions    string
	ActionItems  string
	Digest       string
	RawInput     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ListRow is the lightweight list shape: no sections, history, or reminders.
type ListRow struct {
	ID           string
	Title        string
	MeetingDate  string
	Participants []string
	CreatedAt    time.Time
}

// Version is an immutable snapshot of the four sections at save time.
type Version struct {
	ID          string
	RecordID    string
	Purpose     string
	Decisions   string
	ActionItems string
	Digest      string
	Editor      *string
	CreatedAt   time.Time
}

// Reminder statuses assigned by the server.
const (
	ReminderScheduled = "scheduled"
	ReminderSent      = "sent"
)

// Reminder is a follow-up notification request tied to one action item.
type Reminder struct {
	ID         string
	RecordID   string
	Assignee   string
	ActionItem string
	DueDate    string // YYYY-MM-DD
	Status     string
	CreatedAt  time.Time
}

// ListFilter narrows ListRecords. Empty fields are ignored.
type ListFilter struct {
	Title       string // substring match on title
	Participant string // substring match on the participants list
	StartDate   string // inclusive lower bound on meeting date
	EndDate     string // inclusive upper bound on meeting date
}
