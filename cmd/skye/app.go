package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/HNS-06/Skye-assistant/internal/api"
	"github.com/HNS-06/Skye-assistant/internal/assistant"
	"github.com/HNS-06/Skye-assistant/internal/command"
	"github.com/HNS-06/Skye-assistant/internal/config"
	"github.com/HNS-06/Skye-assistant/internal/intent"
	"github.com/HNS-06/Skye-assistant/internal/lookup"
	"github.com/HNS-06/Skye-assistant/internal/reminder"
	"github.com/HNS-06/Skye-assistant/internal/scheduler"
	"github.com/HNS-06/Skye-assistant/internal/sink"
	"github.com/HNS-06/Skye-assistant/internal/skill"
	"github.com/HNS-06/Skye-assistant/internal/speech"
	"github.com/HNS-06/Skye-assistant/internal/ui"
)

// app holds what every subcommand shares: configuration, logger and the
// lazily opened reminder store.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	formatter *ui.Formatter
	store     *reminder.Store
	closers   []func() error
}

func (a *app) init(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := config.Load(opts.configPath, opts.overrides(cmd))
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	a.formatter = ui.NewFormatter(cfg.UI.ColoredOutput).WithTimestamps(cfg.UI.ShowTimestamps)
	return nil
}

// newLogger builds the process logger. Logs go to stderr (or log.file) so
// they never mix with what the assistant says on stdout.
func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		zc.OutputPaths = []string{cfg.File}
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("Cleanup failed", zap.Error(err))
		}
	}
	a.closers = nil
	a.store = nil
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func (a *app) openStore() (*reminder.Store, error) {
	if a.store != nil {
		return a.store, nil
	}

	path := a.cfg.Reminder.DBPath
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	store, err := reminder.NewStore(path, a.logger)
	if err != nil {
		return nil, fmt.Errorf("open reminder store: %w", err)
	}
	a.store = store
	a.closers = append(a.closers, store.Close)
	return store, nil
}

// encyclopedia picks the "who is" backend.
func (a *app) encyclopedia() (lookup.Lookup, error) {
	if a.cfg.Lookup.Encyclopedia != config.EncyclopediaLLM {
		return lookup.NewWikipedia(a.cfg.Lookup.WikipediaURL, a.cfg.Lookup.Timeout), nil
	}

	provider, err := api.NewProvider(a.cfg.GetProviderConfig())
	if err != nil {
		return nil, fmt.Errorf("error creating provider: %w", err)
	}
	a.closers = append(a.closers, provider.Close)
	a.logger.Info("Answering questions with LLM", zap.String("provider", provider.Name()))
	return lookup.NewLLMAnswer(provider, a.cfg.LLM.Model), nil
}

// router builds the intent table. asker may be nil when nobody can answer
// follow-up questions.
func (a *app) router(asker skill.Asker) (*intent.Router, error) {
	store, err := a.openStore()
	if err != nil {
		return nil, err
	}
	encyclopedia, err := a.encyclopedia()
	if err != nil {
		return nil, err
	}

	skills, err := skill.New(skill.Deps{
		Name:         a.cfg.Assistant.Name,
		Store:        store,
		DefaultLead:  a.cfg.Reminder.DefaultLead,
		Asker:        asker,
		Weather:      lookup.NewWeather(a.cfg.Lookup.WeatherURL, a.cfg.Lookup.Timeout),
		Encyclopedia: encyclopedia,
		Launcher:     lookup.NewLauncher(a.cfg.Lookup.Launch, a.logger),
		Logger:       a.logger,
	})
	if err != nil {
		return nil, err
	}
	return intent.NewRouter(skills.Table(), intent.WithLogger(a.logger))
}

// responseSink prints to w and, when configured, speaks through the TTS
// program as well.
func (a *app) responseSink(w io.Writer) sink.Sink {
	text := sink.Guard("text", sink.NewText(w, a.cfg.Assistant.Name, a.formatter), a.logger)
	if !a.cfg.Speech.Voice {
		return text
	}

	voice := sink.NewVoice(a.cfg.Speech.TTSCommand, a.cfg.Speech.TTSArgs, a.cfg.Speech.TTSTimeout)
	if !voice.Available() {
		a.logger.Warn("Text-to-speech program not found, responses are printed only",
			zap.String("command", a.cfg.Speech.TTSCommand))
		return text
	}
	return sink.Multi{text, sink.Guard("voice", voice, a.logger)}
}

// reminderSink is where fired reminders go: the response sink plus Telegram.
func (a *app) reminderSink(out sink.Sink) sink.Sink {
	tg := a.cfg.Notify.Telegram
	if !tg.Enabled() {
		return out
	}
	return sink.Multi{out, sink.Guard("telegram", sink.NewTelegram(tg.BotToken, tg.ChatID), a.logger)}
}

// listener returns the input source and the writer responses should go to.
// Voice input falls back to typing when the recognizer is missing.
func (a *app) listener(stdout io.Writer) (speech.Listener, io.Writer, string, error) {
	if a.cfg.Speech.Input == config.InputVoice {
		recognizer := speech.NewCommand(a.cfg.Speech.STTCommand, a.cfg.Speech.STTArgs)
		if recognizer.Available() {
			return a.echo(recognizer, stdout), stdout, config.InputVoice, nil
		}
		a.logger.Warn("Speech recognizer not found, falling back to typed input",
			zap.String("command", a.cfg.Speech.STTCommand))
		fmt.Fprintln(stdout, a.formatter.FormatError(
			fmt.Errorf("speech recognizer %q not found, type your commands instead", a.cfg.Speech.STTCommand)))
	}

	typed, err := speech.NewTyped(a.formatter.FormatPrompt(), a.cfg.UI.HistoryFile)
	if err != nil {
		return nil, nil, "", err
	}
	a.closers = append(a.closers, typed.Close)
	return typed, typed.Output(), config.InputText, nil
}

// echo prints what the recognizer heard so the user can see mistakes.
func (a *app) echo(l speech.Listener, w io.Writer) speech.Listener {
	return speech.ListenerFunc(func(ctx context.Context, timeout, phraseLimit time.Duration) (string, error) {
		text, err := l.Listen(ctx, timeout, phraseLimit)
		if err == nil && text != "" {
			fmt.Fprintln(w, a.formatter.FormatUser(text))
		}
		return text, err
	})
}

func (a *app) runAssistant(ctx context.Context, stdout io.Writer) error {
	listener, out, mode, err := a.listener(stdout)
	if err != nil {
		return err
	}
	responses := a.responseSink(out)

	// Typed answers to follow-up questions get all the time they need.
	followUpTimeout := a.cfg.Speech.ListenTimeout
	if mode == config.InputText {
		followUpTimeout = 0
	}
	router, err := a.router(assistant.NewFollowUp(listener, responses, followUpTimeout, a.cfg.Speech.PhraseLimit))
	if err != nil {
		return err
	}

	store, err := a.openStore()
	if err != nil {
		return err
	}
	sched := scheduler.New(store, a.reminderSink(responses), a.cfg.Reminder.PollInterval, a.logger)

	asst, err := assistant.New(command.NewNormalizer(a.cfg.Assistant.WakeWords), router, listener, responses,
		assistant.Options{
			Name:            a.cfg.Assistant.Name,
			ListenTimeout:   a.cfg.Speech.ListenTimeout,
			PhraseLimit:     a.cfg.Speech.PhraseLimit,
			RequireWakeWord: a.cfg.Assistant.RequireWakeWord,
			IdlePrompt:      a.cfg.Assistant.IdlePrompt,
			Status:          ui.NewStatusDisplay(a.formatter, out, mode == config.InputVoice),
			Logger:          a.logger,
		}, sched)
	if err != nil {
		return err
	}

	fmt.Fprint(out, a.formatter.FormatWelcome(a.cfg.Assistant.Name, mode))
	if err := asst.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
