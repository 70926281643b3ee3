package store

const schema = `
CREATE TABLE IF NOT EXISTS minutes (
	id           TEXT PRIMARY KEY,
	title        TEXT NOT NULL,
	meeting_date TEXT NOT NULL,
	participants TEXT NOT NULL DEFAULT '',
	purpose      TEXT NOT NULL DEFAULT '',
	decisions    TEXT NOT NULL DEFAULT '',
	action_items TEXT NOT NULL DEFAULT '',
	digest       TEXT NOT NULL DEFAULT '',
	raw_input    TEXT NOT NULL DEFAULT '',
	created_at   TEXT NOT NULL,
	updated_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS minutes_versions (
	id           TEXT PRIMARY KEY,
	minutes_id   TEXT NOT NULL REFERENCES minutes(id) ON DELETE CASCADE,
	purpose      TEXT NOT NULL DEFAULT '',
	decisions    TEXT NOT NULL DEFAULT '',
	action_items TEXT NOT NULL DEFAULT '',
	digest       TEXT NOT NULL DEFAULT '',
	editor       TEXT,
	created_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS reminders (
	id          TEXT PRIMARY KEY,
	minutes_id  TEXT NOT NULL REFERENCES minutes(id) ON DELETE CASCADE,
	assignee    TEXT NOT NULL,
	action_item TEXT NOT NULL,
	due_date    TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'scheduled',
	created_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_versions_minutes ON minutes_versions(minutes_id, created_at);
CREATE INDEX IF NOT EXISTS idx_reminders_minutes ON reminders(minutes_id, due_date);
`
