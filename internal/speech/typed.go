package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/chzyer/readline"
)

// LineReader is the part of *readline.Instance the typed listener uses.
type LineReader interface {
	Readline() (string, error)
	Close() error
}

type typedLine struct {
	text string
	err  error
}

// Typed reads commands from a terminal prompt. Lines typed while nobody is
// listening are kept for the next Listen call.
type Typed struct {
	lr LineReader

	start sync.Once
	stop  sync.Once
	lines chan typedLine
	done  chan struct{}
}

// NewTyped opens a readline prompt on the terminal.
func NewTyped(prompt, historyFile string) (*Typed, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:              prompt,
		HistoryFile:         historyFile,
		InterruptPrompt:     "^C",
		EOFPrompt:           "exit",
		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to setup readline: %w", err)
	}
	return NewTypedReader(rl), nil
}

// NewTypedReader wraps an existing line reader.
func NewTypedReader(lr LineReader) *Typed {
	return &Typed{
		lr:    lr,
		lines: make(chan typedLine),
		done:  make(chan struct{}),
	}
}

func filterInput(r rune) (rune, bool) {
	switch r {
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

// Listen waits for the next typed line. phraseLimit does not apply to typed
// input.
func (t *Typed) Listen(ctx context.Context, timeout, _ time.Duration) (string, error) {
	t.start.Do(func() { go t.pump() })

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case l, ok := <-t.lines:
		if !ok {
			return "", io.EOF
		}
		if l.err != nil {
			return "", l.err
		}
		return l.text, nil
	case <-expired:
		return "", ErrNoSpeech
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (t *Typed) pump() {
	defer close(t.lines)
	for {
		text, err := t.lr.Readline()
		l := typedLine{text: strings.TrimSpace(text)}
		if err != nil {
			l = typedLine{err: io.EOF}
			if !isEOF(err) {
				l.err = fmt.Errorf("failed to read input: %w", err)
			}
		}

		select {
		case t.lines <- l:
		case <-t.done:
			return
		}
		if err != nil {
			return
		}
	}
}

func isEOF(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt)
}

// Output returns a writer that prints above the prompt without garbling it.
func (t *Typed) Output() io.Writer {
	if o, ok := t.lr.(interface{ Stdout() io.Writer }); ok {
		return o.Stdout()
	}
	return os.Stdout
}

// Close releases the terminal and stops the reader goroutine.
func (t *Typed) Close() error {
	var err error
	t.stop.Do(func() {
		close(t.done)
		err = t.lr.Close()
	})
	return err
}
