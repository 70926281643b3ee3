package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/pmezard/go-difflib/difflib"

	"gijiroku/internal/apperr"
	"gijiroku/internal/export"
	"gijiroku/internal/notify"
	"gijiroku/internal/store"
	"gijiroku/internal/summarizer"
)

// Handler holds API route handlers.
type Handler struct {
	store      *store.Store
	dispatcher *notify.Dispatcher
}

// NewHandler creates a new Handler.
func NewHandler(s *store.Store, d *notify.Dispatcher) *Handler {
	return &Handler{store: s, dispatcher: d}
}

// Generate handles POST /api/minutes/generate.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.InputMode == "" {
		req.InputMode = summarizer.ModeFree
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	result := summarizer.Summarize(summarizer.Input{
		Title: req.Title,
		Text:  req.Text,
		Mode:  req.InputMode,
	})
	writeJSON(w, http.StatusOK, SummaryResponse{
		Purpose:         result.Purpose,
		Decisions:       result.Decisions,
		ActionItems:     result.ActionItems,
		Digest:          result.Digest,
		TotalCharacters: result.TotalCharacters,
	})
}

// Create handles POST /api/minutes.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	req = enforceLimits(req)

	rec, err := h.store.CreateRecord(requestToRecord(req), req.Editor)
	if err != nil {
		slog.Error("create minutes failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusCreated, toRecordResponse(rec))
}

// Update handles PUT /api/minutes/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	req = enforceLimits(req)

	rec, err := h.store.UpdateRecord(id, requestToRecord(req), req.Editor)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("minutes not found"))
		} else {
			slog.Error("update minutes failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, toRecordResponse(rec))
}

// List handles GET /api/minutes.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.ListRecords(filterFromQuery(r))
	if err != nil {
		slog.Error("list minutes failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}

	items := make([]ListItemResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, toListItemResponse(row))
	}
	writeJSON(w, http.StatusOK, items)
}

// Detail handles GET /api/minutes/{id}.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.store.GetRecord(id)
	if err != nil {
		h.respondStoreError(w, id, "get minutes", err)
		return
	}
	versions, err := h.store.Versions(id, true)
	if err != nil {
		h.respondStoreError(w, id, "load versions", err)
		return
	}
	reminders, err := h.store.Reminders(id)
	if err != nil {
		h.respondStoreError(w, id, "load reminders", err)
		return
	}

	resp := DetailResponse{
		RecordResponse: toRecordResponse(rec),
		Versions:       make([]VersionResponse, 0, len(versions)),
		Reminders:      make([]ReminderResponse, 0, len(reminders)),
	}
	for _, v := range versions {
		resp.Versions = append(resp.Versions, toVersionResponse(v))
	}
	for _, rem := range reminders {
		resp.Reminders = append(resp.Reminders, toReminderResponse(rem))
	}
	writeJSON(w, http.StatusOK, resp)
}

// History handles GET /api/minutes/{id}/history: versions oldest first, each
// with per-field diffs against its predecessor.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := h.store.GetRecord(id); err != nil {
		h.respondStoreError(w, id, "get minutes", err)
		return
	}
	versions, err := h.store.Versions(id, false)
	if err != nil {
		h.respondStoreError(w, id, "load versions", err)
		return
	}

	entries := make([]HistoryEntryResponse, 0, len(versions))
	var previous *store.Version
	for i := range versions {
		current := versions[i]
		entries = append(entries, HistoryEntryResponse{
			Version: toVersionResponse(current),
			Diffs:   sectionDiffs(previous, current),
		})
		previous = &versions[i]
	}
	writeJSON(w, http.StatusOK, entries)
}

// CreateReminder handles POST /api/minutes/{id}/reminders.
func (h *Handler) CreateReminder(w http.ResponseWriter, r *http.Request) {
	h.addReminder(w, r, false)
}

// SendNotification handles POST /api/minutes/{id}/notifications.
func (h *Handler) SendNotification(w http.ResponseWriter, r *http.Request) {
	h.addReminder(w, r, true)
}

func (h *Handler) addReminder(w http.ResponseWriter, r *http.Request, dispatch bool) {
	id := chi.URLParam(r, "id")

	var req ReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	reminder := store.Reminder{
		Assignee:   req.Assignee,
		ActionItem: req.ActionItem,
		DueDate:    req.DueDate,
	}

	var saved store.Reminder
	var err error
	if dispatch {
		saved, err = h.dispatcher.Dispatch(id, reminder)
	} else {
		saved, err = h.store.AddReminder(id, reminder, store.ReminderScheduled)
	}
	if err != nil {
		h.respondStoreError(w, id, "save reminder", err)
		return
	}
	writeJSON(w, http.StatusCreated, toReminderResponse(saved))
}

// ExportPDF handles GET /api/minutes/{id}/export/pdf.
func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.store.GetRecord(id)
	if err != nil {
		h.respondStoreError(w, id, "get minutes", err)
		return
	}
	data, err := export.PDF(rec)
	if err != nil {
		slog.Error("pdf export failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=minutes-%s.pdf", id))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ExportCSV handles GET /api/minutes/export/csv with the same filter query
// as List.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.ListRecords(filterFromQuery(r))
	if err != nil {
		slog.Error("csv export failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	data, err := export.CSV(rows)
	if err != nil {
		slog.Error("csv export failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=minutes.csv")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handler) respondStoreError(w http.ResponseWriter, id, op string, err error) {
	if errors.Is(err, apperr.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorBody("minutes not found"))
		return
	}
	slog.Error(op+" failed", slog.String("id", id), slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
}

func filterFromQuery(r *http.Request) store.ListFilter {
	q := r.URL.Query()
	return store.ListFilter{
		Title:       q.Get("title"),
		Participant: q.Get("participant"),
		StartDate:   q.Get("start_date"),
		EndDate:     q.Get("end_date"),
	}
}

func requestToRecord(req CreateRequest) store.Record {
	return store.Record{
		Title:        req.Title,
		MeetingDate:  req.MeetingDate,
		Participants: req.Participants,
		Purpose:      req.Purpose,
		Decisions:    req.Decisions,
		ActionItems:  req.ActionItems,
		Digest:       req.Digest,
		RawInput:     req.RawInput,
	}
}

// enforceLimits trims each section to the character budget, then shaves the
// combined total down to it one rune at a time, round robin, so no section
// loses everything.
func enforceLimits(req CreateRequest) CreateRequest {
	sections := []*string{&req.Purpose, &req.Decisions, &req.ActionItems, &req.Digest}

	total := 0
	for _, s := range sections {
		if utf8.RuneCountInString(*s) > summarizer.MaxCharacters {
			r := []rune(*s)
			*s = string(r[:summarizer.MaxCharacters])
		}
		total += utf8.RuneCountInString(*s)
	}

	excess := total - summarizer.MaxCharacters
	for excess > 0 {
		trimmed := false
		for _, s := range sections {
			if *s == "" {
				continue
			}
			r := []rune(*s)
			*s = string(r[:len(r)-1])
			excess--
			trimmed = true
			if excess <= 0 {
				break
			}
		}
		if !trimmed {
			break
		}
	}
	return req
}

// sectionDiffs compares each of the four sections against the previous
// version. The first version diffs against empty content.
func sectionDiffs(previous *store.Version, current store.Version) []DiffResponse {
	fields := []struct {
		name string
		get  func(v store.Version) string
	}{
		{"purpose", func(v store.Version) string { return v.Purpose }},
		{"decisions", func(v store.Version) string { return v.Decisions }},
		{"action_items", func(v store.Version) string { return v.ActionItems }},
		{"digest", func(v store.Version) string { return v.Digest }},
	}

	diffs := make([]DiffResponse, 0, len(fields))
	for _, f := range fields {
		cur := f.get(current)
		if previous == nil {
			diffs = append(diffs, DiffResponse{Field: f.name, Previous: "", Current: cur, Diff: cur})
			continue
		}
		prev := f.get(*previous)
		text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(prev),
			B:        difflib.SplitLines(cur),
			FromFile: "previous",
			ToFile:   "current",
			Context:  3,
		})
		if err != nil {
			text = ""
		}
		diffs = append(diffs, DiffResponse{Field: f.name, Previous: prev, Current: cur, Diff: text})
	}
	return diffs
}
