package mcpserver

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"gijiroku/internal/store"
	"gijiroku/internal/summarizer"
)

func testServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "minutes.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })

	return New(st), st
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	var result *mcp.CallToolResult
	var err error

	switch name {
	case "search_minutes":
		result, err = srv.searchMinutes(ctx, req)
	case "read_minutes":
		result, err = srv.readMinutes(ctx, req)
	case "generate_summary":
		result, err = srv.generateSummary(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func seedRecord(t *testing.T, st *store.Store, title, date string) store.Record {
	t.Helper()
	rec, err := st.CreateRecord(store.Record{
		Title:        title,
		MeetingDate:  date,
		Participants: []string{"Ann"},
		Purpose:      "P",
		Decisions:    "D",
		ActionItems:  "A",
		Digest:       "G",
		RawInput:     "raw",
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return rec
}

func TestSearchMinutes(t *testing.T) {
	srv, st := testServer(t)
	seedRecord(t, st, "スプリントレビュー", "2024-05-01")
	seedRecord(t, st, "採用会議", "2024-06-01")

	res := callTool(t, srv, "search_minutes", map[string]interface{}{"title": "採用"})
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(res))
	}
	text := resultText(res)
	if !strings.Contains(text, "採用会議") || strings.Contains(text, "スプリントレビュー") {
		t.Errorf("search result = %s", text)
	}
}

func TestReadMinutes(t *testing.T) {
	srv, st := testServer(t)
	rec := seedRecord(t, st, "定例", "2024-05-01")

	res := callTool(t, srv, "read_minutes", map[string]interface{}{"id": rec.ID})
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(res))
	}

	var payload struct {
		store.Record
		Versions []store.Version `json:"versions"`
	}
	if err := json.Unmarshal([]byte(resultText(res)), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Title != "定例" || payload.Purpose != "P" {
		t.Errorf("record = %+v", payload.Record)
	}
	if len(payload.Versions) != 1 {
		t.Errorf("versions = %d, want 1", len(payload.Versions))
	}
}

func TestReadMinutesNotFound(t *testing.T) {
	srv, _ := testServer(t)

	res := callTool(t, srv, "read_minutes", map[string]interface{}{"id": "nope"})
	if !res.IsError {
		t.Error("missing record should produce a tool error")
	}
}

func TestGenerateSummaryTool(t *testing.T) {
	srv, _ := testServer(t)

	res := callTool(t, srv, "generate_summary", map[string]interface{}{
		"text": "目的: 進捗確認\n決定: リリース延期\n",
	})
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(res))
	}

	var result summarizer.Result
	if err := json.Unmarshal([]byte(resultText(res)), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Purpose == "" || result.Decisions == "" {
		t.Errorf("result = %+v", result)
	}
}

func TestGenerateSummaryRejectsUnknownMode(t *testing.T) {
	srv, _ := testServer(t)

	res := callTool(t, srv, "generate_summary", map[string]interface{}{
		"text":       "x",
		"input_mode": "audio",
	})
	if !res.IsError {
		t.Error("unknown input mode should produce a tool error")
	}
}
