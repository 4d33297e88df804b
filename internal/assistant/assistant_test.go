package assistant

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/HNS-06/Skye-assistant/internal/command"
	"github.com/HNS-06/Skye-assistant/internal/intent"
	"github.com/HNS-06/Skye-assistant/internal/reminder"
	"github.com/HNS-06/Skye-assistant/internal/scheduler"
	"github.com/HNS-06/Skye-assistant/internal/sink"
	"github.com/HNS-06/Skye-assistant/internal/skill"
	"github.com/HNS-06/Skye-assistant/internal/speech"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type counter struct{ n atomic.Int32 }

func (c *counter) handler(line string, exit bool) intent.Handler {
	return intent.HandlerFunc(func(context.Context, intent.Request) (intent.Response, error) {
		c.n.Add(1)
		return intent.Response{Lines: []string{line}, Exit: exit}, nil
	})
}

func testRouter(t *testing.T, c *counter) *intent.Router {
	t.Helper()
	r, err := intent.NewRouter([]intent.Entry{
		{Name: "greeting", Match: intent.Keywords("hello"), Handler: c.handler("Hi there!", false)},
		{Name: "exit", Match: intent.Keywords("goodbye"), Handler: c.handler("Bye!", true)},
	}, intent.WithLogger(zaptest.NewLogger(t)), intent.WithRand(rand.New(rand.NewPCG(1, 1))))
	require.NoError(t, err)
	return r
}

// worker records its lifetime.
type worker struct {
	started chan struct{}
	stopped atomic.Bool
	err     error
}

func newWorker() *worker { return &worker{started: make(chan struct{})} }

func (w *worker) Run(ctx context.Context) error {
	close(w.started)
	if w.err != nil {
		return w.err
	}
	<-ctx.Done()
	w.stopped.Store(true)
	return nil
}

func newAssistant(t *testing.T, router *intent.Router, l speech.Listener, out sink.Sink, opts Options, bg ...Runner) *Assistant {
	t.Helper()
	opts.Logger = zaptest.NewLogger(t)
	a, err := New(command.NewNormalizer([]string{"skye", "hey skye"}), router, l, out, opts, bg...)
	require.NoError(t, err)
	return a
}

func TestSilenceNeverReachesRouter(t *testing.T) {
	var c counter
	rec := &sink.Recorder{}
	script := speech.NewScript("", "   ").Add(speech.Step{Err: speech.ErrUnintelligible})

	a := newAssistant(t, testRouter(t, &c), script, rec, Options{})
	require.NoError(t, a.Run(context.Background()))

	assert.Zero(t, c.n.Load())
	assert.Equal(t, []string{a.Welcome(), ReadyLine, Farewell}, rec.Lines())
}

func TestCommandsAreNormalizedAndSpoken(t *testing.T) {
	var c counter
	rec := &sink.Recorder{}
	script := speech.NewScript("Skye, HELLO", "skye what is this", "goodbye", "hello")

	a := newAssistant(t, testRouter(t, &c), script, rec, Options{})
	require.NoError(t, a.Run(context.Background()))

	lines := rec.Lines()
	require.Len(t, lines, 5)
	assert.Equal(t, "Hi there!", lines[2])
	assert.Contains(t, lines[3], "what is this", "fallback echoes the command")
	assert.Equal(t, "Bye!", lines[4])
	assert.Equal(t, 1, script.Remaining(), "nothing is heard after goodbye")
}

func TestExitStopsBackgroundWorkers(t *testing.T) {
	var c counter
	w := newWorker()
	script := speech.NewScript("goodbye")

	a := newAssistant(t, testRouter(t, &c), script, &sink.Recorder{}, Options{}, w)
	require.NoError(t, a.Run(context.Background()))

	<-w.started
	assert.True(t, w.stopped.Load())
}

func TestWorkerFailureEndsSession(t *testing.T) {
	var c counter
	w := newWorker()
	w.err = errors.New("scheduler interval must be positive")

	a := newAssistant(t, testRouter(t, &c), speech.NewScript().HoldOpen(), &sink.Recorder{}, Options{}, w)
	err := a.Run(context.Background())
	assert.ErrorIs(t, err, w.err)
}

func TestCancelEndsSession(t *testing.T) {
	var c counter
	w := newWorker()
	ctx, cancel := context.WithCancel(context.Background())

	a := newAssistant(t, testRouter(t, &c), speech.NewScript().HoldOpen(), &sink.Recorder{}, Options{}, w)
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	<-w.started
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.True(t, w.stopped.Load())
}

func TestWakeWordGating(t *testing.T) {
	var c counter
	rec := &sink.Recorder{}
	script := speech.NewScript("hello", "hey skye hello")

	a := newAssistant(t, testRouter(t, &c), script, rec, Options{RequireWakeWord: true})
	require.NoError(t, a.Run(context.Background()))

	assert.Equal(t, int32(1), c.n.Load())
	assert.Equal(t, []string{a.Welcome(), ReadyLine, "Hi there!", Farewell}, rec.Lines())
}

func TestBareWakeWordIsIgnored(t *testing.T) {
	var c counter
	rec := &sink.Recorder{}

	a := newAssistant(t, testRouter(t, &c), speech.NewScript("skye"), rec, Options{})
	require.NoError(t, a.Run(context.Background()))

	assert.Zero(t, c.n.Load())
	assert.Len(t, rec.Lines(), 3)
}

func TestIdlePrompt(t *testing.T) {
	var c counter
	rec := &sink.Recorder{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := newAssistant(t, testRouter(t, &c), speech.NewScript().HoldOpen(), rec, Options{
		ListenTimeout: 5 * time.Millisecond,
		IdlePrompt:    20 * time.Millisecond,
	})
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	require.Eventually(t, func() bool {
		return assert.ObjectsAreEqual(IdlePrompt, last(rec.Lines()))
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func last(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return lines[len(lines)-1]
}

func TestNewValidates(t *testing.T) {
	var c counter
	n := command.NewNormalizer([]string{"skye"})
	r := testRouter(t, &c)
	l := speech.NewScript()
	out := &sink.Recorder{}

	_, err := New(nil, r, l, out, Options{})
	assert.Error(t, err)
	_, err = New(n, nil, l, out, Options{})
	assert.Error(t, err)
	_, err = New(n, r, nil, out, Options{})
	assert.Error(t, err)
	_, err = New(n, r, l, nil, Options{})
	assert.Error(t, err)
	_, err = New(n, r, l, out, Options{IdlePrompt: -time.Second})
	assert.Error(t, err)
}

func TestFollowUp(t *testing.T) {
	rec := &sink.Recorder{}
	f := NewFollowUp(speech.NewScript(" Paris ", "  "), rec, time.Second, time.Second)

	answer, err := f.Ask(context.Background(), "For which city?")
	require.NoError(t, err)
	assert.Equal(t, "Paris", answer)

	_, err = f.Ask(context.Background(), "For which city?")
	assert.ErrorIs(t, err, speech.ErrNoSpeech)
	assert.Equal(t, []string{"For which city?", "For which city?"}, rec.Lines())
}

func TestReminderEndToEnd(t *testing.T) {
	logger := zaptest.NewLogger(t)
	store, err := reminder.NewStore(":memory:", logger)
	require.NoError(t, err)
	defer store.Close()

	rec := &sink.Recorder{}
	script := speech.NewScript("skye remind me to stretch in 0 seconds", "skye what are my reminders").HoldOpen()

	skills, err := skill.New(skill.Deps{
		Store:       store,
		DefaultLead: 5 * time.Minute,
		Asker:       NewFollowUp(script, rec, time.Second, time.Second),
		Logger:      logger,
	})
	require.NoError(t, err)
	router, err := intent.NewRouter(skills.Table(), intent.WithLogger(logger))
	require.NoError(t, err)

	sched := scheduler.New(store, rec, 10*time.Millisecond, logger)
	a := newAssistant(t, router, script, rec, Options{ListenTimeout: 5 * time.Millisecond}, sched)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	require.Eventually(t, func() bool {
		for _, l := range rec.Lines() {
			if l == sink.ReminderPrefix+"stretch" {
				return true
			}
		}
		return false
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	assert.Contains(t, rec.Lines(), "Okay, I'll remind you to stretch right away.")

	all, err := store.List(context.Background(), reminder.FilterCompleted)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "stretch", all[0].Text)
	assert.True(t, all[0].Completed)
}
