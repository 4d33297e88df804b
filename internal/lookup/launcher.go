package lookup

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Runner starts an external program without waiting for it.
type Runner func(ctx context.Context, name string, args ...string) error

// StartDetached is the default Runner.
func StartDetached(_ context.Context, name string, args ...string) error {
	// Not tied to ctx: the launched program outlives the command.
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}

// Launcher opens URLs and desktop applications.
type Launcher struct {
	run    Runner
	goos   string
	apps   map[string][]string
	logger *zap.Logger
}

// NewLauncher creates a Launcher for the current OS. When enabled is false
// nothing is started, but replies are the same.
func NewLauncher(enabled bool, logger *zap.Logger) *Launcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Launcher{
		run:    StartDetached,
		goos:   runtime.GOOS,
		logger: logger.Named("launcher"),
	}
	if !enabled {
		l.run = func(_ context.Context, name string, args ...string) error {
			l.logger.Debug("Launch skipped", zap.String("program", name), zap.Strings("args", args))
			return nil
		}
	}
	l.apps = defaultApps(l.goos)
	return l
}

// WithRunner replaces the program starter.
func (l *Launcher) WithRunner(run Runner) *Launcher {
	l.run = run
	return l
}

// WithOS switches the opener and application table to another OS.
func (l *Launcher) WithOS(goos string) *Launcher {
	l.goos = goos
	l.apps = defaultApps(goos)
	return l
}

// Apps lists the application names OpenApp understands.
func (l *Launcher) Apps() []string {
	names := make([]string, 0, len(l.apps))
	for name := range l.apps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// OpenURL opens u in the default browser.
func (l *Launcher) OpenURL(ctx context.Context, u string) error {
	var err error
	switch l.goos {
	case "windows":
		err = l.run(ctx, "cmd", "/c", "start", "", u)
	case "darwin":
		err = l.run(ctx, "open", u)
	default:
		err = l.run(ctx, "xdg-open", u)
	}
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", u, err)
	}
	return nil
}

// Search opens a web search for query.
func (l *Launcher) Search(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", ErrNotFound
	}
	if err := l.OpenURL(ctx, "https://www.google.com/search?q="+url.QueryEscape(query)); err != nil {
		return "", err
	}
	return "Searching for " + query, nil
}

// Play opens YouTube results for song.
func (l *Launcher) Play(ctx context.Context, song string) (string, error) {
	song = strings.TrimSpace(song)
	if song == "" {
		return "", ErrNotFound
	}
	if err := l.OpenURL(ctx, "https://www.youtube.com/results?search_query="+url.QueryEscape(song)); err != nil {
		return "", err
	}
	return "Playing " + song + " on YouTube", nil
}

// OpenApp starts the first known application whose name appears in app.
func (l *Launcher) OpenApp(ctx context.Context, app string) (string, error) {
	lower := strings.ToLower(app)
	for _, name := range l.Apps() {
		if !strings.Contains(lower, name) {
			continue
		}
		program := l.apps[name]
		if l.goos == "windows" {
			program = append([]string{"cmd", "/c", "start", ""}, program...)
		}
		if err := l.run(ctx, program[0], program[1:]...); err != nil {
			return "", fmt.Errorf("failed to open %s: %w", name, err)
		}
		return "Opening " + name, nil
	}
	return "", ErrNotFound
}

func defaultApps(goos string) map[string][]string {
	switch goos {
	case "windows":
		return map[string][]string{
			"chrome":     {"chrome"},
			"notepad":    {"notepad"},
			"calculator": {"calc"},
			"paint":      {"mspaint"},
			"word":       {"winword"},
			"excel":      {"excel"},
			"powerpoint": {"powerpnt"},
			"command":    {"cmd"},
			"explorer":   {"explorer"},
		}
	case "darwin":
		return map[string][]string{
			"chrome":     {"open", "-a", "Google Chrome"},
			"safari":     {"open", "-a", "Safari"},
			"calculator": {"open", "-a", "Calculator"},
			"terminal":   {"open", "-a", "Terminal"},
			"notes":      {"open", "-a", "Notes"},
			"finder":     {"open", "."},
		}
	default:
		return map[string][]string{
			"chrome":     {"google-chrome"},
			"firefox":    {"firefox"},
			"calculator": {"gnome-calculator"},
			"terminal":   {"x-terminal-emulator"},
			"editor":     {"gedit"},
			"files":      {"xdg-open", "."},
		}
	}
}
