package sink

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/HNS-06/Skye-assistant/internal/ui"
)

// ReminderPrefix marks lines produced by the reminder scheduler.
const ReminderPrefix = "Reminder: "

// Text prints spoken lines to a terminal writer. It is safe for concurrent
// use by the command loop and the scheduler.
type Text struct {
	mu        sync.Mutex
	out       io.Writer
	name      string
	formatter *ui.Formatter
}

// NewText returns a printer that labels lines with the assistant name.
func NewText(out io.Writer, name string, formatter *ui.Formatter) *Text {
	return &Text{out: out, name: name, formatter: formatter}
}

func (t *Text) Speak(_ context.Context, text string) error {
	line := t.formatter.FormatAssistant(t.name, text)
	if strings.HasPrefix(text, ReminderPrefix) {
		line = t.formatter.FormatReminder(text)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := fmt.Fprintln(t.out, line)
	return err
}
