// Package notify dispatches follow-up reminders for action items.
//
// Delivery is simulated with a structured log ledger; the reminder itself is
// persisted on the parent record with status "sent" so clients see it on the
// next detail fetch.
package notify

import (
	"fmt"
	"log/slog"

	"gijiroku/internal/store"
)

// Dispatcher sends reminder notifications and records them.
type Dispatcher struct {
	store *store.Store
	log   *slog.Logger
}

// NewDispatcher creates a Dispatcher writing its ledger to log.
func NewDispatcher(s *store.Store, log *slog.Logger) *Dispatcher {
	return &Dispatcher{store: s, log: log}
}

// Dispatch persists the reminder as sent and logs the delivery.
// Returns apperr.ErrNotFound when the record does not exist.
func (d *Dispatcher) Dispatch(recordID string, r store.Reminder) (store.Reminder, error) {
	saved, err := d.store.AddReminder(recordID, r, store.ReminderSent)
	if err != nil {
		return store.Reminder{}, fmt.Errorf("dispatch reminder: %w", err)
	}

	d.log.Info("reminder sent",
		slog.String("record_id", recordID),
		slog.String("assignee", saved.Assignee),
		slog.String("action_item", saved.ActionItem),
		slog.String("due_date", saved.DueDate))

	return saved, nil
}
