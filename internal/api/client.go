package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// Client talks to the minutes backend. Calls carry no client-side
// timeout; cancellation comes from the caller's context.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for the backend at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

// List fetches minutes matching the filter, ordered by meeting date
// descending.
func (c *Client) List(ctx context.Context, f Filter) ([]ListItem, error) {
	var items []ListItem
	if err := c.doJSON(ctx, http.MethodGet, c.path("/api/minutes", f.Query()), nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Detail fetches one record with its versions and reminders.
func (c *Client) Detail(ctx context.Context, id string) (Detail, error) {
	var d Detail
	err := c.doJSON(ctx, http.MethodGet, c.path("/api/minutes/"+url.PathEscape(id), nil), nil, &d)
	return d, err
}

// History fetches a record's versions oldest first, each with
// per-section diffs against its predecessor.
func (c *Client) History(ctx context.Context, id string) ([]HistoryEntry, error) {
	var entries []HistoryEntry
	err := c.doJSON(ctx, http.MethodGet, c.path("/api/minutes/"+url.PathEscape(id)+"/history", nil), nil, &entries)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Generate asks the backend for a structured summary of raw text.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (Summary, error) {
	var s Summary
	err := c.doJSON(ctx, http.MethodPost, c.path("/api/minutes/generate", nil), req, &s)
	return s, err
}

// Create saves a new record and returns the stored form.
func (c *Client) Create(ctx context.Context, req CreateRequest) (Record, error) {
	var rec Record
	err := c.doJSON(ctx, http.MethodPost, c.path("/api/minutes", nil), req, &rec)
	return rec, err
}

// Update replaces a record's content, appending a version.
func (c *Client) Update(ctx context.Context, id string, req CreateRequest) (Record, error) {
	var rec Record
	err := c.doJSON(ctx, http.MethodPut, c.path("/api/minutes/"+url.PathEscape(id), nil), req, &rec)
	return rec, err
}

// Notify sends a reminder immediately. The backend records it as sent.
func (c *Client) Notify(ctx context.Context, id string, req ReminderRequest) (Reminder, error) {
	var rem Reminder
	err := c.doJSON(ctx, http.MethodPost, c.path("/api/minutes/"+url.PathEscape(id)+"/notifications", nil), req, &rem)
	return rem, err
}

// AddReminder schedules a reminder without sending it.
func (c *Client) AddReminder(ctx context.Context, id string, req ReminderRequest) (Reminder, error) {
	var rem Reminder
	err := c.doJSON(ctx, http.MethodPost, c.path("/api/minutes/"+url.PathEscape(id)+"/reminders", nil), req, &rem)
	return rem, err
}

// ExportPDF downloads a record's PDF rendering into path.
func (c *Client) ExportPDF(ctx context.Context, id, path string) error {
	return c.download(ctx, c.path("/api/minutes/"+url.PathEscape(id)+"/export/pdf", nil), path)
}

// ExportCSV downloads the filtered list as CSV into path. The filter is
// the same one List uses, so the file matches the visible list.
func (c *Client) ExportCSV(ctx context.Context, f Filter, path string) error {
	return c.download(ctx, c.path("/api/minutes/export/csv", f.Query()), path)
}

func (c *Client) path(p string, q url.Values) string {
	u := c.baseURL + p
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func (c *Client) doJSON(ctx context.Context, method, u string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s", errorMessage(resp, data))
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) download(ctx context.Context, u, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s", errorMessage(resp, data))
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// errorMessage extracts the backend's message without rewording it. The
// server wraps messages in {"error": ...}; {"detail": ...} and raw text
// bodies are tolerated so proxy errors still surface something useful.
func errorMessage(resp *http.Response, data []byte) string {
	var payload struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Detail != "" {
			return payload.Detail
		}
	}
	if msg := strings.TrimSpace(string(data)); msg != "" {
		return msg
	}
	return resp.Status
}
