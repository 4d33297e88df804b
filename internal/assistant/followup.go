package assistant

import (
	"context"
	"strings"
	"time"

	"github.com/HNS-06/Skye-assistant/internal/sink"
	"github.com/HNS-06/Skye-assistant/internal/speech"
)

// FollowUp asks one question through the sink and listens for the answer.
// Handlers use it for "For which city?" style prompts.
type FollowUp struct {
	listener    speech.Listener
	out         sink.Sink
	timeout     time.Duration
	phraseLimit time.Duration
}

func NewFollowUp(listener speech.Listener, out sink.Sink, timeout, phraseLimit time.Duration) *FollowUp {
	return &FollowUp{listener: listener, out: out, timeout: timeout, phraseLimit: phraseLimit}
}

func (f *FollowUp) Ask(ctx context.Context, question string) (string, error) {
	f.out.Speak(ctx, question)
	answer, err := f.listener.Listen(ctx, f.timeout, f.phraseLimit)
	if err != nil {
		return "", err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", speech.ErrNoSpeech
	}
	return answer, nil
}
