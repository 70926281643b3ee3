package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"gijiroku/internal/apperr"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "minutes.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecord(title, date string, participants ...string) Record {
	return Record{
		Title:        title,
		MeetingDate:  date,
		Participants: participants,
		Purpose:      "目的",
		Decisions:    "決定",
		ActionItems:  "宿題",
		Digest:       "要旨",
		RawInput:     "元テキスト",
	}
}

func TestCreateRecordAssignsIDAndInitialVersion(t *testing.T) {
	s := testStore(t)

	editor := "tanaka"
	rec, err := s.CreateRecord(sampleRecord("定例", "2024-05-01", "Ann", "Bo"), &editor)
	if err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}
	if rec.ID == "" {
		t.Fatal("CreateRecord should assign an id")
	}

	got, err := s.GetRecord(rec.ID)
	if err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
	if diff := cmp.Diff([]string{"Ann", "Bo"}, got.Participants); diff != "" {
		t.Errorf("participants mismatch (-want +got):\n%s", diff)
	}

	versions, err := s.Versions(rec.ID, true)
	if err != nil {
		t.Fatalf("Versions: %v", err)
	}
	if len(versions) != 1 {
		t.Fatalf("versions = %d, want 1", len(versions))
	}
	if versions[0].Editor == nil || *versions[0].Editor != "tanaka" {
		t.Errorf("version editor = %v, want tanaka", versions[0].Editor)
	}
	if versions[0].Purpose != "目的" {
		t.Errorf("version purpose = %q", versions[0].Purpose)
	}
}

func TestUpdateRecordAppendsVersion(t *testing.T) {
	s := testStore(t)

	rec, err := s.CreateRecord(sampleRecord("定例", "2024-05-01"), nil)
	if err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}

	updated := rec
	updated.Decisions = "新しい決定"
	if _, err := s.UpdateRecord(rec.ID, updated, nil); err != nil {
		t.Fatalf("UpdateRecord: %v", err)
	}

	newest, err := s.Versions(rec.ID, true)
	if err != nil {
		t.Fatalf("Versions: %v", err)
	}
	if len(newest) != 2 {
		t.Fatalf("versions = %d, want 2", len(newest))
	}
	if newest[0].Decisions != "新しい決定" {
		t.Errorf("newest version decisions = %q", newest[0].Decisions)
	}

	oldest, err := s.Versions(rec.ID, false)
	if err != nil {
		t.Fatalf("Versions asc: %v", err)
	}
	if oldest[0].Decisions != "決定" {
		t.Errorf("oldest version decisions = %q", oldest[0].Decisions)
	}
}

func TestUpdateMissingRecord(t *testing.T) {
	s := testStore(t)
	_, err := s.UpdateRecord("no-such-id", sampleRecord("x", "2024-01-01"), nil)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListRecordsFilters(t *testing.T) {
	s := testStore(t)

	mustCreate := func(r Record) {
		t.Helper()
		if _, err := s.CreateRecord(r, nil); err != nil {
			t.Fatalf("CreateRecord: %v", err)
		}
	}
	mustCreate(sampleRecord("スプリントレビュー", "2024-05-01", "Ann"))
	mustCreate(sampleRecord("採用会議", "2024-05-10", "Bo"))
	mustCreate(sampleRecord("スプリント計画", "2024-06-01", "Ann", "Cy"))

	cases := []struct {
		name   string
		filter ListFilter
		want   int
	}{
		{"no filter", ListFilter{}, 3},
		{"title substring", ListFilter{Title: "スプリント"}, 2},
		{"participant", ListFilter{Participant: "Bo"}, 1},
		{"date range", ListFilter{StartDate: "2024-05-05", EndDate: "2024-05-31"}, 1},
		{"inverted range", ListFilter{StartDate: "2024-07-01", EndDate: "2024-01-01"}, 0},
		{"combined", ListFilter{Title: "スプリント", Participant: "Cy"}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rows, err := s.ListRecords(tc.filter)
			if err != nil {
				t.Fatalf("ListRecords: %v", err)
			}
			if len(rows) != tc.want {
				t.Errorf("rows = %d, want %d", len(rows), tc.want)
			}
		})
	}
}

func TestListRecordsOrderedByMeetingDateDesc(t *testing.T) {
	s := testStore(t)
	for _, d := range []string{"2024-01-02", "2024-03-04", "2024-02-03"} {
		if _, err := s.CreateRecord(sampleRecord("t", d), nil); err != nil {
			t.Fatalf("CreateRecord: %v", err)
		}
	}
	rows, err := s.ListRecords(ListFilter{})
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	want := []string{"2024-03-04", "2024-02-03", "2024-01-02"}
	for i, row := range rows {
		if row.MeetingDate != want[i] {
			t.Errorf("rows[%d].MeetingDate = %s, want %s", i, row.MeetingDate, want[i])
		}
	}
}

func TestRemindersOrderedByDueDate(t *testing.T) {
	s := testStore(t)
	rec, err := s.CreateRecord(sampleRecord("定例", "2024-05-01"), nil)
	if err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}

	for _, due := range []string{"2024-06-10", "2024-06-01", "2024-06-05"} {
		_, err := s.AddReminder(rec.ID, Reminder{
			Assignee:   "yamada",
			ActionItem: "資料更新",
			DueDate:    due,
		}, ReminderScheduled)
		if err != nil {
			t.Fatalf("AddReminder: %v", err)
		}
	}

	reminders, err := s.Reminders(rec.ID)
	if err != nil {
		t.Fatalf("Reminders: %v", err)
	}
	want := []string{"2024-06-01", "2024-06-05", "2024-06-10"}
	for i, r := range reminders {
		if r.DueDate != want[i] {
			t.Errorf("reminders[%d].DueDate = %s, want %s", i, r.DueDate, want[i])
		}
		if r.Status != ReminderScheduled {
			t.Errorf("status = %q, want scheduled", r.Status)
		}
	}
}

func TestAddReminderMissingRecord(t *testing.T) {
	s := testStore(t)
	_, err := s.AddReminder("missing", Reminder{Assignee: "a", ActionItem: "b", DueDate: "2024-01-01"}, ReminderSent)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
