package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"gijiroku/internal/apperr"
)

// timeLayout is fixed-width so stored timestamps sort lexicographically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps the SQLite database holding minutes, versions, and reminders.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed creates) the database at path.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func now() time.Time { return time.Now().UTC() }

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func joinParticipants(names []string) string {
	return strings.Join(names, ",")
}

func splitParticipants(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// CreateRecord inserts a record and its initial version snapshot atomically.
// The returned record carries the assigned id and timestamps.
func (s *Store) CreateRecord(rec Record, editor *string) (Record, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return Record{}, fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	rec.ID = uuid.NewString()
	rec.CreatedAt = now()
	rec.UpdatedAt = rec.CreatedAt

	_, err = tx.Exec(`
		INSERT INTO minutes (id, title, meeting_date, participants, purpose,
			decisions, action_items, digest, raw_input, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Title, rec.MeetingDate, joinParticipants(rec.Participants),
		rec.Purpose, rec.Decisions, rec.ActionItems, rec.Digest, rec.RawInput,
		formatTime(rec.CreatedAt), formatTime(rec.UpdatedAt))
	if err != nil {
		return Record{}, fmt.Errorf("store: insert record: %w", err)
	}

	if err := insertVersion(tx, rec, editor); err != nil {
		return Record{}, err
	}
	if err := tx.Commit(); err != nil {
		return Record{}, fmt.Errorf("store: commit: %w", err)
	}
	return rec, nil
}

// UpdateRecord replaces the record's content and appends a version snapshot.
func (s *Store) UpdateRecord(id string, rec Record, editor *string) (Record, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return Record{}, fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	existing, err := getRecord(tx, id)
	if err != nil {
		return Record{}, err
	}

	rec.ID = existing.ID
	rec.CreatedAt = existing.CreatedAt
	rec.UpdatedAt = now()

	_, err = tx.Exec(`
		UPDATE minutes SET title = ?, meeting_date = ?, participants = ?,
			purpose = ?, decisions = ?, action_items = ?, digest = ?,
			raw_input = ?, updated_at = ?
		WHERE id = ?
	`, rec.Title, rec.MeetingDate, joinParticipants(rec.Participants),
		rec.Purpose, rec.Decisions, rec.ActionItems, rec.Digest, rec.RawInput,
		formatTime(rec.UpdatedAt), rec.ID)
	if err != nil {
		return Record{}, fmt.Errorf("store: update record: %w", err)
	}

	if err := insertVersion(tx, rec, editor); err != nil {
		return Record{}, err
	}
	if err := tx.Commit(); err != nil {
		return Record{}, fmt.Errorf("store: commit: %w", err)
	}
	return rec, nil
}

func insertVersion(tx *sql.Tx, rec Record, editor *string) error {
	_, err := tx.Exec(`
		INSERT INTO minutes_versions (id, minutes_id, purpose, decisions,
			action_items, digest, editor, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, uuid.NewString(), rec.ID, rec.Purpose, rec.Decisions, rec.ActionItems,
		rec.Digest, editor, formatTime(now()))
	if err != nil {
		return fmt.Errorf("store: insert version: %w", err)
	}
	return nil
}

type querier interface {
	QueryRow(query string, args ...any) *sql.Row
}

func getRecord(q querier, id string) (Record, error) {
	row := q.QueryRow(`
		SELECT id, title, meeting_date, participants, purpose, decisions,
			action_items, digest, raw_input, created_at, updated_at
		FROM minutes WHERE id = ?
	`, id)

	var rec Record
	var participants, createdAt, updatedAt string
	err := row.Scan(&rec.ID, &rec.Title, &rec.MeetingDate, &participants,
		&rec.Purpose, &rec.Decisions, &rec.ActionItems, &rec.Digest,
		&rec.RawInput, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, apperr.ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("store: scan record: %w", err)
	}
	rec.Participants = splitParticipants(participants)
	rec.CreatedAt = parseTime(createdAt)
	rec.UpdatedAt = parseTime(updatedAt)
	return rec, nil
}

// GetRecord fetches one record by id, without versions or reminders.
func (s *Store) GetRecord(id string) (Record, error) {
	return getRecord(s.db, id)
}

// ListRecords returns the list shape ordered by meeting date, newest first.
func (s *Store) ListRecords(f ListFilter) ([]ListRow, error) {
	query := `SELECT id, title, meeting_date, participants, created_at FROM minutes`
	var conds []string
	var args []any
	if f.Title != "" {
		conds = append(conds, "title LIKE ?")
		args = append(args, "%"+f.Title+"%")
	}
	if f.Participant != "" {
		conds = append(conds, "participants LIKE ?")
		args = append(args, "%"+f.Participant+"%")
	}
	if f.StartDate != "" {
		conds = append(conds, "meeting_date >= ?")
		args = append(args, f.StartDate)
	}
	if f.EndDate != "" {
		conds = append(conds, "meeting_date <= ?")
		args = append(args, f.EndDate)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY meeting_date DESC, created_at DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list records: %w", err)
	}
	defer rows.Close()

	out := []ListRow{}
	for rows.Next() {
		var r ListRow
		var participants, createdAt string
		if err := rows.Scan(&r.ID, &r.Title, &r.MeetingDate, &participants, &createdAt); err != nil {
			return nil, fmt.Errorf("store: scan list row: %w", err)
		}
		r.Participants = splitParticipants(participants)
		r.CreatedAt = parseTime(createdAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Versions returns the record's version snapshots. newestFirst matches the
// detail contract; ascending order is used for history diffs.
func (s *Store) Versions(recordID string, newestFirst bool) ([]Version, error) {
	order := "ASC"
	if newestFirst {
		order = "DESC"
	}
	rows, err := s.db.Query(`
		SELECT id, minutes_id, purpose, decisions, action_items, digest, editor, created_at
		FROM minutes_versions WHERE minutes_id = ?
		ORDER BY created_at `+order, recordID)
	if err != nil {
		return nil, fmt.Errorf("store: query versions: %w", err)
	}
	defer rows.Close()

	out := []Version{}
	for rows.Next() {
		var v Version
		var editor sql.NullString
		var createdAt string
		if err := rows.Scan(&v.ID, &v.RecordID, &v.Purpose, &v.Decisions,
			&v.ActionItems, &v.Digest, &editor, &createdAt); err != nil {
			return nil, fmt.Errorf("store: scan version: %w", err)
		}
		if editor.Valid {
			e := editor.String
			v.Editor = &e
		}
		v.CreatedAt = parseTime(createdAt)
		out = append(out, v)
	}
	return out, rows.Err()
}

// Reminders returns the record's reminders ordered by due date.
func (s *Store) Reminders(recordID string) ([]Reminder, error) {
	rows, err := s.db.Query(`
		SELECT id, minutes_id, assignee, action_item, due_date, status, created_at
		FROM reminders WHERE minutes_id = ?
		ORDER BY due_date ASC, created_at ASC
	`, recordID)
	if err != nil {
		return nil, fmt.Errorf("store: query reminders: %w", err)
	}
	defer rows.Close()

	out := []Reminder{}
	for rows.Next() {
		var r Reminder
		var createdAt string
		if err := rows.Scan(&r.ID, &r.RecordID, &r.Assignee, &r.ActionItem,
			&r.DueDate, &r.Status, &createdAt); err != nil {
			return nil, fmt.Errorf("store: scan reminder: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

// AddReminder attaches a reminder to a record with the given status.
// Returns apperr.ErrNotFound when the record does not exist.
func (s *Store) AddReminder(recordID string, r Reminder, status string) (Reminder, error) {
	if _, err := getRecord(s.db, recordID); err != nil {
		return Reminder{}, err
	}

	r.ID = uuid.NewString()
	r.RecordID = recordID
	r.Status = status
	r.CreatedAt = now()

	_, err := s.db.Exec(`
		INSERT INTO reminders (id, minutes_id, assignee, action_item, due_date, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.RecordID, r.Assignee, r.ActionItem, r.DueDate, r.Status, formatTime(r.CreatedAt))
	if err != nil {
		return Reminder{}, fmt.Errorf("store: insert reminder: %w", err)
	}
	return r, nil
}
