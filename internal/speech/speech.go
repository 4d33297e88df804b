// Package speech provides the listeners that turn what the user says or
// types into command text.
package speech

import (
	"context"
	"errors"
	"time"
)

// Recognition failures. The assistant treats all of them as "heard nothing".
var (
	ErrNoSpeech           = errors.New("no speech detected")
	ErrUnintelligible     = errors.New("could not understand audio")
	ErrServiceUnavailable = errors.New("speech recognition service unavailable")
)

// Listener waits for one utterance. timeout bounds the wait for speech to
// start and phraseLimit bounds the utterance itself; zero means no limit.
// io.EOF reports that the input is closed for good.
type Listener interface {
	Listen(ctx context.Context, timeout, phraseLimit time.Duration) (string, error)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(ctx context.Context, timeout, phraseLimit time.Duration) (string, error)

func (f ListenerFunc) Listen(ctx context.Context, timeout, phraseLimit time.Duration) (string, error) {
	return f(ctx, timeout, phraseLimit)
}

// IsRecognition reports whether err is one of the recognition failures.
func IsRecognition(err error) bool {
	return errors.Is(err, ErrNoSpeech) ||
		errors.Is(err, ErrUnintelligible) ||
		errors.Is(err, ErrServiceUnavailable)
}
