package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"gijiroku/internal/notify"
	"gijiroku/internal/store"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "minutes.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewRouter(NewHandler(st, notify.NewDispatcher(st, logger)))
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createMinutes(t *testing.T, router http.Handler, title, date string) string {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/minutes", map[string]any{
		"title":        title,
		"meeting_date": date,
		"participants": []string{"Ann", "Bo"},
		"raw_input":    "元テキスト",
		"purpose":      "P",
		"decisions":    "D",
		"action_items": "A",
		"digest":       "G",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp RecordResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	return resp.ID
}

func TestGenerateSummary(t *testing.T) {
	router := testRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/minutes/generate", map[string]any{
		"title":        "定例会議",
		"meeting_date": "2024-05-01",
		"participants": []string{"Ann"},
		"text":         "目的: 進捗確認\n決定: リリース延期\n宿題: テスト更新\n概要: 順調\n",
		"input_mode":   "free",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp SummaryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Purpose == "" || resp.Decisions == "" || resp.ActionItems == "" || resp.Digest == "" {
		t.Errorf("all sections should be populated: %+v", resp)
	}
	if resp.TotalCharacters <= 0 {
		t.Errorf("TotalCharacters = %d", resp.TotalCharacters)
	}
}

func TestGenerateValidation(t *testing.T) {
	router := testRouter(t)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"missing title", map[string]any{"meeting_date": "2024-05-01", "text": "x"}},
		{"missing text", map[string]any{"title": "t", "meeting_date": "2024-05-01"}},
		{"bad date", map[string]any{"title": "t", "meeting_date": "May 1", "text": "x"}},
		{"bad mode", map[string]any{"title": "t", "meeting_date": "2024-05-01", "text": "x", "input_mode": "audio"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/api/minutes/generate", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestCreateRequiresAllSections(t *testing.T) {
	router := testRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/minutes", map[string]any{
		"title":        "定例",
		"meeting_date": "2024-05-01",
		"purpose":      "P",
		"decisions":    "",
		"action_items": "A",
		"digest":       "G",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCreateListDetailFlow(t *testing.T) {
	router := testRouter(t)
	id := createMinutes(t, router, "スプリントレビュー", "2024-05-01")

	// List returns the lightweight shape without sections.
	w := doJSON(t, router, http.MethodGet, "/api/minutes", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var items []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
	if _, ok := items[0]["purpose"]; ok {
		t.Error("list shape must not carry sections")
	}

	// Detail carries sections, versions newest-first, and reminders.
	w = doJSON(t, router, http.MethodGet, "/api/minutes/"+id, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("detail status = %d, body = %s", w.Code, w.Body.String())
	}
	var detail DetailResponse
	if err := json.Unmarshal(w.Body.Bytes(), &detail); err != nil {
		t.Fatalf("decode detail: %v", err)
	}
	if detail.Purpose != "P" {
		t.Errorf("purpose = %q", detail.Purpose)
	}
	if len(detail.Versions) != 1 {
		t.Errorf("versions = %d, want 1", len(detail.Versions))
	}
	if detail.Reminders == nil || len(detail.Reminders) != 0 {
		t.Errorf("reminders = %v, want empty slice", detail.Reminders)
	}
}

func TestListFilterQuery(t *testing.T) {
	router := testRouter(t)
	createMinutes(t, router, "スプリントレビュー", "2024-05-01")
	createMinutes(t, router, "採用会議", "2024-06-01")

	w := doJSON(t, router, http.MethodGet, "/api/minutes?title="+escape("スプリント"), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var items []ListItemResponse
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 1 || items[0].Title != "スプリントレビュー" {
		t.Errorf("items = %+v", items)
	}

	w = doJSON(t, router, http.MethodGet, "/api/minutes?start_date=2024-05-15&end_date=2024-06-15", nil)
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 1 || items[0].Title != "採用会議" {
		t.Errorf("items = %+v", items)
	}
}

func TestDetailNotFound(t *testing.T) {
	router := testRouter(t)
	w := doJSON(t, router, http.MethodGet, "/api/minutes/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	if !strings.Contains(w.Body.String(), "error") {
		t.Errorf("body = %s, want error payload", w.Body.String())
	}
}

func TestNotificationMarksSentAndReminderScheduled(t *testing.T) {
	router := testRouter(t)
	id := createMinutes(t, router, "定例", "2024-05-01")

	body := map[string]any{"assignee": "yamada", "action_item": "資料更新", "due_date": "2024-05-10"}

	w := doJSON(t, router, http.MethodPost, "/api/minutes/"+id+"/notifications", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("notify status = %d, body = %s", w.Code, w.Body.String())
	}
	var sent ReminderResponse
	if err := json.Unmarshal(w.Body.Bytes(), &sent); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sent.Status != store.ReminderSent {
		t.Errorf("status = %q, want sent", sent.Status)
	}

	w = doJSON(t, router, http.MethodPost, "/api/minutes/"+id+"/reminders", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("reminder status = %d", w.Code)
	}
	var scheduled ReminderResponse
	if err := json.Unmarshal(w.Body.Bytes(), &scheduled); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if scheduled.Status != store.ReminderScheduled {
		t.Errorf("status = %q, want scheduled", scheduled.Status)
	}
}

func TestNotificationValidation(t *testing.T) {
	router := testRouter(t)
	id := createMinutes(t, router, "定例", "2024-05-01")

	w := doJSON(t, router, http.MethodPost, "/api/minutes/"+id+"/notifications", map[string]any{
		"assignee": "", "action_item": "x", "due_date": "2024-05-10",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestUpdateAppendsHistoryWithDiffs(t *testing.T) {
	router := testRouter(t)
	id := createMinutes(t, router, "定例", "2024-05-01")

	w := doJSON(t, router, http.MethodPut, "/api/minutes/"+id, map[string]any{
		"title":        "定例",
		"meeting_date": "2024-05-01",
		"participants": []string{"Ann"},
		"raw_input":    "元テキスト",
		"purpose":      "P",
		"decisions":    "D2",
		"action_items": "A",
		"digest":       "G",
		"editor":       "tanaka",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/api/minutes/"+id+"/history", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("history status = %d", w.Code)
	}
	var entries []HistoryEntryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[1].Version.Editor == nil || *entries[1].Version.Editor != "tanaka" {
		t.Errorf("editor = %v", entries[1].Version.Editor)
	}

	var decisionsDiff string
	for _, d := range entries[1].Diffs {
		if d.Field == "decisions" {
			decisionsDiff = d.Diff
		}
	}
	if !strings.Contains(decisionsDiff, "D2") {
		t.Errorf("decisions diff = %q, want change to D2", decisionsDiff)
	}

	// Detail orders versions newest first.
	w = doJSON(t, router, http.MethodGet, "/api/minutes/"+id, nil)
	var detail DetailResponse
	if err := json.Unmarshal(w.Body.Bytes(), &detail); err != nil {
		t.Fatalf("decode detail: %v", err)
	}
	if len(detail.Versions) != 2 || detail.Versions[0].Decisions != "D2" {
		t.Errorf("versions = %+v, want newest first", detail.Versions)
	}
}

func TestExportPDF(t *testing.T) {
	router := testRouter(t)
	id := createMinutes(t, router, "定例", "2024-05-01")

	w := doJSON(t, router, http.MethodGet, "/api/minutes/"+id+"/export/pdf", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")) {
		t.Error("body should be a PDF document")
	}
}

func TestExportCSVUsesListFilter(t *testing.T) {
	router := testRouter(t)
	createMinutes(t, router, "スプリントレビュー", "2024-05-01")
	createMinutes(t, router, "採用会議", "2024-06-01")

	w := doJSON(t, router, http.MethodGet, "/api/minutes/export/csv?title="+escape("採用"), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q", ct)
	}
	body := w.Body.String()
	if !strings.Contains(body, "採用会議") || strings.Contains(body, "スプリントレビュー") {
		t.Errorf("csv body = %q, filter not applied", body)
	}
}

func TestEnforceLimitsTrimsTotal(t *testing.T) {
	long := strings.Repeat("あ", 600)
	req := enforceLimits(CreateRequest{Purpose: long, Decisions: long, ActionItems: long, Digest: long})

	total := len([]rune(req.Purpose)) + len([]rune(req.Decisions)) +
		len([]rune(req.ActionItems)) + len([]rune(req.Digest))
	if total > 1000 {
		t.Errorf("total = %d, want <= 1000", total)
	}
	if req.Purpose == "" {
		t.Error("no section should be emptied entirely")
	}
}

func escape(s string) string { return url.QueryEscape(s) }
