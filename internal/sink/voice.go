package sink

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"
)

const defaultVoiceTimeout = 30 * time.Second

// Voice renders text through an external text-to-speech program such as
// espeak-ng. The text is passed as the last argument.
type Voice struct {
	mu      sync.Mutex
	command string
	args    []string
	timeout time.Duration
}

// NewVoice returns a speaker running command with args followed by the text.
func NewVoice(command string, args []string, timeout time.Duration) *Voice {
	if timeout <= 0 {
		timeout = defaultVoiceTimeout
	}
	return &Voice{command: command, args: args, timeout: timeout}
}

// Available reports whether the TTS program can be found on PATH.
func (v *Voice) Available() bool {
	_, err := exec.LookPath(v.command)
	return err == nil
}

func (v *Voice) Speak(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	// One utterance at a time; overlapping audio is unintelligible.
	v.mu.Lock()
	defer v.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	args := append(append([]string{}, v.args...), text)
	cmd := exec.CommandContext(ctx, v.command, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", v.command, err, msg)
		}
		return fmt.Errorf("%s: %w", v.command, err)
	}
	return nil
}
