// Command mcp-reminder serves the assistant's reminder store over MCP.
//
// Other tools (an editor, a chat client) can add and list the same
// reminders the assistant announces.
//
// Usage:
//
//	./mcp-reminder          # Start MCP server (stdio)
//	./mcp-reminder --help   # Show help
//
// Environment:
//
//	SKYE_DB_PATH  Path to SQLite database (default: ~/.skye/skye_assistant.db)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/HNS-06/Skye-assistant/internal/config"
	"github.com/HNS-06/Skye-assistant/internal/reminder"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--help", "-h":
			printHelp()
			return
		}
	}

	dbPath := os.Getenv("SKYE_DB_PATH")
	if dbPath == "" {
		dbPath = config.GetDefaultDBPath()
	}
	dbPath = config.ExpandPath(dbPath)
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create data directory: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the protocol; logs must stay on stderr.
	zc := zap.NewProductionConfig()
	zc.OutputPaths = []string{"stderr"}
	logger, err := zc.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	store, err := reminder.NewStore(dbPath, logger)
	if err != nil {
		logger.Error("Failed to open database", zap.String("path", dbPath), zap.Error(err))
		os.Exit(1)
	}
	defer store.Close()

	s := reminder.NewServer(store)

	if err := server.ServeStdio(s.MCPServer()); err != nil {
		logger.Error("Server error", zap.Error(err))
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(`MCP Reminder Server - Skye reminders via MCP protocol

USAGE:
    mcp-reminder          Start MCP server (communicates via stdio)
    mcp-reminder --help   Show this help

ENVIRONMENT:
    SKYE_DB_PATH  Path to SQLite database file
                  Default: ~/.skye/skye_assistant.db

TOOLS:
    add_reminder       Add a reminder (text, due_time or in_minutes)
    list_reminders     List reminders (optional status filter)
    get_due_reminders  Get pending reminders that are due or overdue
    complete_reminder  Mark a reminder as completed

The running assistant announces reminders added here on its next poll.`)
}
