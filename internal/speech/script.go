package speech

import (
	"context"
	"io"
	"sync"
	"time"
)

// Step is one scripted result: either heard text or a failure.
type Step struct {
	Text string
	Err  error
}

// Script replays a fixed sequence of utterances. When the steps run out it
// reports io.EOF, or, once held open, behaves like a silent room.
type Script struct {
	mu    sync.Mutex
	steps []Step
	pos   int
	hold  bool
}

// NewScript returns a script that hears lines in order.
func NewScript(lines ...string) *Script {
	s := &Script{}
	for _, l := range lines {
		s.steps = append(s.steps, Step{Text: l})
	}
	return s
}

// Add appends steps.
func (s *Script) Add(steps ...Step) *Script {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps = append(s.steps, steps...)
	return s
}

// HoldOpen makes an exhausted script wait for timeout (or ctx) and report
// ErrNoSpeech instead of io.EOF.
func (s *Script) HoldOpen() *Script {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hold = true
	return s
}

// Remaining returns the number of unread steps.
func (s *Script) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.steps) - s.pos
}

func (s *Script) Listen(ctx context.Context, timeout, _ time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	if s.pos < len(s.steps) {
		step := s.steps[s.pos]
		s.pos++
		s.mu.Unlock()
		return step.Text, step.Err
	}
	hold := s.hold
	s.mu.Unlock()

	if !hold {
		return "", io.EOF
	}

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}
	select {
	case <-expired:
		return "", ErrNoSpeech
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
