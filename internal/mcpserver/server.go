// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes meeting minutes tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"gijiroku/internal/store"
	"gijiroku/internal/summarizer"
)

// Server wraps the MCP server with minutes tools.
type Server struct {
	mcp   *server.MCPServer
	store *store.Store
}

// New creates a new MCP server with all minutes tools registered.
func New(st *store.Store) *Server {
	s := &Server{store: st}

	s.mcp = server.NewMCPServer(
		"Gijiroku",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_minutes",
		mcp.WithDescription("Search meeting minutes by title substring, participant, and meeting date range. Returns matching records without their summary sections."),
		mcp.WithString("title", mcp.Description("Title substring to match")),
		mcp.WithString("participant", mcp.Description("Participant name substring to match")),
		mcp.WithString("start_date", mcp.Description("Earliest meeting date, YYYY-MM-DD")),
		mcp.WithString("end_date", mcp.Description("Latest meeting date, YYYY-MM-DD")),
	), s.searchMinutes)

	s.mcp.AddTool(mcp.NewTool("read_minutes",
		mcp.WithDescription("Read one meeting minutes record in full, including the four summary sections and edit history."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Record id")),
	), s.readMinutes)

	s.mcp.AddTool(mcp.NewTool("generate_summary",
		mcp.WithDescription("Generate a structured four-section summary (purpose, decisions, action items, digest) from raw meeting text without saving anything."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Raw meeting text")),
		mcp.WithString("input_mode", mcp.Description("free or bullet (default free)")),
	), s.generateSummary)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchMinutes(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	opt := func(key string) string {
		if v, err := req.RequireString(key); err == nil {
			return v
		}
		return ""
	}
	rows, err := s.store.ListRecords(store.ListFilter{
		Title:       opt("title"),
		Participant: opt("participant"),
		StartDate:   opt("start_date"),
		EndDate:     opt("end_date"),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(rows, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readMinutes(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rec, err := s.store.GetRecord(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	versions, err := s.store.Versions(id, true)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, _ := json.MarshalIndent(struct {
		store.Record
		Versions []store.Version `json:"versions"`
	}{Record: rec, Versions: versions}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) generateSummary(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	mode := summarizer.ModeFree
	if v, modeErr := req.RequireString("input_mode"); modeErr == nil && v != "" {
		if v != summarizer.ModeFree && v != summarizer.ModeBullet {
			return mcp.NewToolResultError(fmt.Sprintf("unknown input_mode: %s", v)), nil
		}
		mode = v
	}

	result := summarizer.Summarize(summarizer.Input{Text: text, Mode: mode})
	out, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
