// Package sink provides the response sinks through which the assistant and
// the reminder scheduler talk to the user.
package sink

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Sink delivers text to the user. Implementations never report failures to
// the caller.
type Sink interface {
	Speak(ctx context.Context, text string)
}

// Speaker is a raw output collaborator that may fail.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// SpeakerFunc adapts a function to Speaker.
type SpeakerFunc func(ctx context.Context, text string) error

func (f SpeakerFunc) Speak(ctx context.Context, text string) error {
	return f(ctx, text)
}

type guarded struct {
	name    string
	speaker Speaker
	logger  *zap.Logger
}

// Guard turns a Speaker into a Sink. Errors and panics raised by the speaker
// are logged and swallowed.
func Guard(name string, speaker Speaker, logger *zap.Logger) Sink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &guarded{name: name, speaker: speaker, logger: logger.Named("sink")}
}

func (g *guarded) Speak(ctx context.Context, text string) {
	if text == "" {
		return
	}
	if err := g.speak(ctx, text); err != nil {
		g.logger.Warn("Speech output failed", zap.String("sink", g.name), zap.Error(err))
	}
}

func (g *guarded) speak(ctx context.Context, text string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return g.speaker.Speak(ctx, text)
}

// Multi speaks every line to each sink in order.
type Multi []Sink

func (m Multi) Speak(ctx context.Context, text string) {
	for _, s := range m {
		s.Speak(ctx, text)
	}
}

// Discard drops everything.
type Discard struct{}

func (Discard) Speak(context.Context, string) {}

// Recorder keeps every line it is asked to speak. It is the text-only
// fallback for headless runs and the sink used in tests.
type Recorder struct {
	mu    sync.Mutex
	lines []string
}

func (r *Recorder) Speak(_ context.Context, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, text)
}

// Lines returns a copy of everything spoken so far.
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}

// Reset forgets recorded lines.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = nil
}
