package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	UserStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")). // Bright cyan
			Bold(true)

	AssistantStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114")) // Soft green

	ReminderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("215")). // Orange
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")). // Coral red
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("222")) // Warm yellow

	StatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")). // Medium gray
			Italic(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// Formatter renders assistant output for the terminal.
type Formatter struct {
	colored    bool
	timestamps bool
	now        func() time.Time
}

func NewFormatter(colored bool) *Formatter {
	return &Formatter{colored: colored, now: time.Now}
}

// WithTimestamps prefixes every assistant and reminder line with the wall clock.
func (f *Formatter) WithTimestamps(enabled bool) *Formatter {
	f.timestamps = enabled
	return f
}

func (f *Formatter) stamp() string {
	if !f.timestamps {
		return ""
	}
	ts := "[" + f.now().Format("15:04:05") + "] "
	if f.colored {
		return DimStyle.Render(ts)
	}
	return ts
}

func (f *Formatter) FormatUser(msg string) string {
	prefix := "You: "
	if f.colored {
		prefix = UserStyle.Render(prefix)
	}
	return prefix + msg
}

// FormatAssistant renders a line spoken by the assistant called name.
func (f *Formatter) FormatAssistant(name, msg string) string {
	prefix := name + ": "
	if f.colored {
		prefix = AssistantStyle.Render(prefix)
	}
	return f.stamp() + prefix + msg
}

// FormatReminder renders a fired reminder so it stands out from replies.
func (f *Formatter) FormatReminder(msg string) string {
	prefix := "⏰ "
	if f.colored {
		return f.stamp() + ReminderStyle.Render(prefix+msg)
	}
	return f.stamp() + prefix + msg
}

func (f *Formatter) FormatError(err error) string {
	prefix := "Error: "
	if f.colored {
		prefix = ErrorStyle.Render(prefix)
	}
	return prefix + err.Error()
}

func (f *Formatter) FormatInfo(info string) string {
	if f.colored {
		return InfoStyle.Render(info)
	}
	return info
}

func (f *Formatter) FormatStatus(msg string) string {
	if f.colored {
		return StatusStyle.Render(msg)
	}
	return msg
}

// FormatPrompt returns the typed-input prompt.
func (f *Formatter) FormatPrompt() string {
	if f.colored {
		promptStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("62"))
		arrowStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("114")).
			Bold(true)
		return promptStyle.Render("you") + arrowStyle.Render(" > ")
	}
	return "you > "
}

// FormatWelcome renders the startup banner.
func (f *Formatter) FormatWelcome(name, mode string) string {
	title := fmt.Sprintf("%s Assistant", name)
	modeLine := fmt.Sprintf("Input: %s", mode)
	helpLine := fmt.Sprintf("Say \"%s help\" to hear what I can do", strings.ToLower(name))

	if !f.colored {
		return strings.Join([]string{"", title, modeLine, helpLine, ""}, "\n")
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("81")).
		Bold(true)
	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1).
		Render(strings.Join([]string{
			titleStyle.Render(title),
			labelStyle.Render(modeLine),
			"",
			labelStyle.Render(helpLine),
		}, "\n"))

	return "\n" + box + "\n"
}
