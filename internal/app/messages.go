package app

import "gijiroku/internal/api"

// ListLoadedMsg carries a refreshed minutes list.
type ListLoadedMsg struct {
	Items []api.ListItem
}

// ListErrorMsg is sent when the list fetch fails.
type ListErrorMsg struct {
	Err error
}

// DetailLoadedMsg carries one record with versions and reminders.
type DetailLoadedMsg struct {
	Detail api.Detail
}

// DetailErrorMsg is sent when the detail fetch fails.
type DetailErrorMsg struct {
	Err error
}

// HistoryLoadedMsg carries a record's versions with per-section diffs.
type HistoryLoadedMsg struct {
	Entries []api.HistoryEntry
}

// HistoryErrorMsg is sent when the history fetch fails.
type HistoryErrorMsg struct {
	Err error
}

// SummaryGeneratedMsg carries a generated draft summary.
type SummaryGeneratedMsg struct {
	Summary api.Summary
}

// GenerateErrorMsg is sent when summary generation fails.
type GenerateErrorMsg struct {
	Err error
}

// RecordSavedMsg is sent after a record was created or updated.
type RecordSavedMsg struct {
	Record api.Record
}

// SaveErrorMsg is sent when saving fails. The draft stays intact.
type SaveErrorMsg struct {
	Err error
}

// ReminderSentMsg is sent after a reminder notification succeeded.
type ReminderSentMsg struct {
	Reminder api.Reminder
}

// ReminderErrorMsg is sent when the reminder submission fails.
type ReminderErrorMsg struct {
	Err error
}

// ExportDoneMsg reports a finished PDF or CSV download.
type ExportDoneMsg struct {
	Path string
}

// ExportErrorMsg is sent when an export fails.
type ExportErrorMsg struct {
	Err error
}

// ClearTransientErrorMsg clears a transient error after a timeout.
type ClearTransientErrorMsg struct{}
