package ui

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPlainFormatting(t *testing.T) {
	f := NewFormatter(false)

	assert.Equal(t, "Skye: hello", f.FormatAssistant("Skye", "hello"))
	assert.Equal(t, "You: hi", f.FormatUser("hi"))
	assert.Equal(t, "⏰ Reminder: call mom", f.FormatReminder("Reminder: call mom"))
	assert.Equal(t, "Error: boom", f.FormatError(errors.New("boom")))
	assert.Equal(t, "you > ", f.FormatPrompt())
	assert.Equal(t, "| a |", f.RenderMarkdown("| a |"))
}

func TestTimestamps(t *testing.T) {
	f := NewFormatter(false).WithTimestamps(true)
	f.now = func() time.Time { return time.Date(2025, 1, 1, 7, 5, 9, 0, time.Local) }

	assert.Equal(t, "[07:05:09] Skye: ok", f.FormatAssistant("Skye", "ok"))
}

func TestColoredFormattingKeepsText(t *testing.T) {
	f := NewFormatter(true)

	assert.Contains(t, f.FormatAssistant("Skye", "hello there"), "hello there")
	assert.Contains(t, f.FormatWelcome("Skye", "text"), "Skye Assistant")
}
