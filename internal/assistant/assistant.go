// Package assistant runs the command loop: listen, normalize, route and
// speak, with the reminder scheduler running alongside it.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/HNS-06/Skye-assistant/internal/command"
	"github.com/HNS-06/Skye-assistant/internal/intent"
	"github.com/HNS-06/Skye-assistant/internal/sink"
	"github.com/HNS-06/Skye-assistant/internal/speech"
	"github.com/HNS-06/Skye-assistant/internal/ui"
)

const (
	// IdlePrompt is spoken after a stretch of silence.
	IdlePrompt = "I'm here if you need anything."
	// ReadyLine follows the welcome line.
	ReadyLine = "I'm ready to help. Say 'help' to know what I can do."
	// Farewell is spoken when the input closes.
	Farewell = "Goodbye!"

	listenErrorPause = time.Second
)

// Runner is a background worker bound to the assistant's lifetime.
type Runner interface {
	Run(ctx context.Context) error
}

// Options tune the loop. Zero values are usable.
type Options struct {
	Name            string
	ListenTimeout   time.Duration
	PhraseLimit     time.Duration
	RequireWakeWord bool
	IdlePrompt      time.Duration
	Status          *ui.StatusDisplay
	Now             func() time.Time
	Logger          *zap.Logger
}

// Assistant owns one command session.
type Assistant struct {
	normalizer *command.Normalizer
	router     *intent.Router
	listener   speech.Listener
	out        sink.Sink
	background []Runner

	name            string
	listenTimeout   time.Duration
	phraseLimit     time.Duration
	requireWakeWord bool
	idlePrompt      time.Duration
	status          *ui.StatusDisplay
	now             func() time.Time
	logger          *zap.Logger
}

// New wires an Assistant. background workers (the reminder scheduler) run
// for as long as Run does.
func New(normalizer *command.Normalizer, router *intent.Router, listener speech.Listener, out sink.Sink,
	opts Options, background ...Runner) (*Assistant, error) {
	switch {
	case normalizer == nil:
		return nil, errors.New("assistant: normalizer is required")
	case router == nil:
		return nil, errors.New("assistant: router is required")
	case listener == nil:
		return nil, errors.New("assistant: listener is required")
	case out == nil:
		return nil, errors.New("assistant: sink is required")
	}
	if opts.IdlePrompt < 0 {
		return nil, fmt.Errorf("assistant: idle prompt must not be negative, got %s", opts.IdlePrompt)
	}

	a := &Assistant{
		normalizer:      normalizer,
		router:          router,
		listener:        listener,
		out:             out,
		background:      background,
		name:            opts.Name,
		listenTimeout:   opts.ListenTimeout,
		phraseLimit:     opts.PhraseLimit,
		requireWakeWord: opts.RequireWakeWord,
		idlePrompt:      opts.IdlePrompt,
		status:          opts.Status,
		now:             opts.Now,
		logger:          opts.Logger,
	}
	if a.name == "" {
		a.name = "Skye"
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.logger == nil {
		a.logger = zap.NewNop()
	}
	a.logger = a.logger.Named("assistant")
	return a, nil
}

// Welcome returns the greeting spoken at startup.
func (a *Assistant) Welcome() string {
	return fmt.Sprintf("Hello! I am %s, your voice assistant.", a.name)
}

// Run speaks the welcome, starts the background workers and serves commands
// until the user says goodbye, the input closes or ctx is cancelled. The
// workers are stopped before Run returns.
func (a *Assistant) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.out.Speak(ctx, a.Welcome())
	a.out.Speak(ctx, ReadyLine)

	g, gctx := errgroup.WithContext(ctx)
	for _, r := range a.background {
		g.Go(func() error { return r.Run(gctx) })
	}
	g.Go(func() error {
		defer cancel()
		return a.loop(gctx)
	})

	err := g.Wait()
	a.logger.Info("Session ended")
	return err
}

func (a *Assistant) loop(ctx context.Context) error {
	lastCommand := a.now()

	for ctx.Err() == nil {
		raw, err := a.listen(ctx)
		if errors.Is(err, io.EOF) {
			a.logger.Info("Input closed")
			a.out.Speak(ctx, Farewell)
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			if speech.IsRecognition(err) {
				a.logger.Debug("Nothing recognized", zap.Error(err))
			} else {
				a.logger.Warn("Listening failed", zap.Error(err))
				a.pause(ctx, listenErrorPause)
			}
			raw = ""
		}

		text := strings.TrimSpace(raw)
		if text == "" {
			if a.idlePrompt > 0 && a.now().Sub(lastCommand) >= a.idlePrompt {
				a.out.Speak(ctx, IdlePrompt)
				lastCommand = a.now()
			}
			continue
		}

		if a.requireWakeWord && !a.normalizer.HasWakeWord(text) {
			a.logger.Debug("Ignoring utterance without wake word", zap.String("text", text))
			continue
		}

		resp, handled := a.Handle(ctx, text)
		if !handled {
			continue
		}
		lastCommand = a.now()
		if resp.Exit {
			return nil
		}
	}
	return nil
}

// Handle normalizes one utterance, dispatches it and speaks the response.
// It reports false when nothing was left to route after normalizing.
func (a *Assistant) Handle(ctx context.Context, raw string) (intent.Response, bool) {
	text := a.normalizer.Normalize(raw)
	if text == "" {
		return intent.Response{}, false
	}

	a.logger.Debug("Command", zap.String("text", text))
	resp := a.router.Dispatch(ctx, text)
	for _, line := range resp.Lines {
		a.out.Speak(ctx, line)
	}
	return resp, true
}

func (a *Assistant) listen(ctx context.Context) (string, error) {
	if a.status != nil {
		a.status.Show("Listening...")
		defer a.status.Hide()
	}
	return a.listener.Listen(ctx, a.listenTimeout, a.phraseLimit)
}

func (a *Assistant) pause(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
