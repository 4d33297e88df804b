package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Placeholders substituted in Command arguments, in whole seconds.
const (
	TimeoutArg     = "{timeout}"
	PhraseLimitArg = "{phrase_limit}"
)

// nonSpeech matches recognizer annotations such as "[BLANK_AUDIO]" or
// "(wind blowing)".
var nonSpeech = regexp.MustCompile(`\[[^\]]*\]|\([^)]*\)`)

// Command runs an external recognizer that records from the microphone and
// prints the transcript on stdout, for example a whisper.cpp stream wrapper.
type Command struct {
	command string
	args    []string
}

// NewCommand returns a listener running command with args.
func NewCommand(command string, args []string) *Command {
	return &Command{command: command, args: args}
}

// Available reports whether the recognizer can be found on PATH.
func (c *Command) Available() bool {
	_, err := exec.LookPath(c.command)
	return err == nil
}

func (c *Command) Listen(ctx context.Context, timeout, phraseLimit time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if budget := timeout + phraseLimit; budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, budget)
		defer cancel()
	}

	args := make([]string, len(c.args))
	for i, a := range c.args {
		a = strings.ReplaceAll(a, TimeoutArg, seconds(timeout))
		args[i] = strings.ReplaceAll(a, PhraseLimitArg, seconds(phraseLimit))
	}

	cmd := exec.CommandContext(ctx, c.command, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", ErrNoSpeech
		}
		if errors.Is(ctx.Err(), context.Canceled) {
			return "", ctx.Err()
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%w: %s: %w: %s", ErrServiceUnavailable, c.command, err, msg)
		}
		return "", fmt.Errorf("%w: %s: %w", ErrServiceUnavailable, c.command, err)
	}

	text := strings.Join(strings.Fields(nonSpeech.ReplaceAllString(stdout.String(), " ")), " ")
	if text == "" {
		return "", ErrUnintelligible
	}
	return text, nil
}

func seconds(d time.Duration) string {
	return strconv.Itoa(int(d.Round(time.Second) / time.Second))
}
