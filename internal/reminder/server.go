package reminder

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	serverName    = "skye-reminders"
	serverVersion = "1.0.0"
)

// Server is the MCP server for reminder management.
type Server struct {
	mcpServer *server.MCPServer
	store     *Store
	now       func() time.Time
}

// NewServer creates a new Reminder MCP server backed by the given store.
func NewServer(store *Store) *Server {
	s := &Server{
		store: store,
		now:   time.Now,
	}

	s.mcpServer = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
	)

	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server for serving.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	// add_reminder
	s.mcpServer.AddTool(
		mcp.NewTool("add_reminder",
			mcp.WithDescription("Add a new reminder. Give either due_time or in_minutes."),
			mcp.WithString("text", mcp.Required(), mcp.Description("What to remind about")),
			mcp.WithString("due_time", mcp.Description("Due time in RFC3339 format (e.g. 2025-01-15T09:00:00+01:00)")),
			mcp.WithNumber("in_minutes", mcp.Description("Minutes from now until the reminder fires")),
		),
		s.handleAddReminder,
	)

	// list_reminders
	s.mcpServer.AddTool(
		mcp.NewTool("list_reminders",
			mcp.WithDescription("List reminders, optionally filtered by status (pending or completed)"),
			mcp.WithString("status", mcp.Description("Filter by status: pending, completed, or empty for all")),
		),
		s.handleListReminders,
	)

	// get_due_reminders
	s.mcpServer.AddTool(
		mcp.NewTool("get_due_reminders",
			mcp.WithDescription("Get all pending reminders that are due now or overdue"),
		),
		s.handleGetDueReminders,
	)

	// complete_reminder
	s.mcpServer.AddTool(
		mcp.NewTool("complete_reminder",
			mcp.WithDescription("Mark a reminder as completed"),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Reminder ID")),
		),
		s.handleCompleteReminder,
	)
}

func (s *Server) handleAddReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := strings.TrimSpace(req.GetString("text", ""))
	dueStr := req.GetString("due_time", "")
	minutes := req.GetFloat("in_minutes", -1)

	if text == "" {
		return mcp.NewToolResultError("text is required"), nil
	}

	now := s.now()
	var due time.Time
	switch {
	case dueStr != "":
		t, err := time.Parse(time.RFC3339, dueStr)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid due_time format: %v (use RFC3339)", err)), nil
		}
		due = t
	case minutes >= 0:
		due = now.Add(time.Duration(minutes * float64(time.Minute)))
	default:
		return mcp.NewToolResultError("either due_time or in_minutes is required"), nil
	}

	if due.Before(now) {
		return mcp.NewToolResultError("due_time must not be in the past"), nil
	}

	id, err := s.store.Insert(ctx, text, due, now)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add reminder: %v", err)), nil
	}

	added, err := s.store.Get(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read back reminder %d: %v", id, err)), nil
	}

	output, _ := json.MarshalIndent(added, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleListReminders(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := req.GetString("status", "")

	reminders, err := s.store.List(ctx, status)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list reminders: %v", err)), nil
	}

	if len(reminders) == 0 {
		return mcp.NewToolResultText("No reminders found."), nil
	}

	output, _ := json.MarshalIndent(reminders, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleGetDueReminders(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pending, err := s.store.Pending(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get due reminders: %v", err)), nil
	}

	now := s.now()
	var due []Reminder
	for _, r := range pending {
		if r.Due(now) {
			due = append(due, r)
		}
	}

	if len(due) == 0 {
		return mcp.NewToolResultText("No due reminders."), nil
	}

	output, _ := json.MarshalIndent(due, "", "  ")
	return mcp.NewToolResultText(string(output)), nil
}

func (s *Server) handleCompleteReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idFloat := req.GetFloat("id", -1)
	if idFloat < 0 {
		return mcp.NewToolResultError("id is required and must be a positive number"), nil
	}
	id := int64(idFloat)

	changed, err := s.store.MarkCompleted(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to complete reminder: %v", err)), nil
	}
	if !changed {
		return mcp.NewToolResultText(fmt.Sprintf("Reminder %d was already completed or does not exist.", id)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Reminder %d marked as completed.", id)), nil
}
