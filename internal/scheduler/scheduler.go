// Package scheduler fires due reminders in the background.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/HNS-06/Skye-assistant/internal/reminder"
	"github.com/HNS-06/Skye-assistant/internal/sink"
)

// DefaultInterval is the poll interval used when none is configured.
const DefaultInterval = 5 * time.Second

// Store is the part of the reminder store the scheduler needs.
type Store interface {
	Pending(ctx context.Context) ([]reminder.Reminder, error)
	MarkCompleted(ctx context.Context, id int64) (bool, error)
}

// Scheduler polls the store and announces due reminders.
type Scheduler struct {
	store    Store
	out      sink.Sink
	interval time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// New creates a Scheduler that announces reminders through out.
func New(store Store, out sink.Sink, interval time.Duration, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		store:    store,
		out:      out,
		interval: interval,
		now:      time.Now,
		logger:   logger.Named("scheduler"),
	}
}

// WithClock replaces the wall clock used to decide which reminders are due.
func (s *Scheduler) WithClock(now func() time.Time) *Scheduler {
	s.now = now
	return s
}

// Interval returns the poll interval.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Run blocks and runs Tick on interval + immediately on start.
// It exits when ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.interval <= 0 {
		return fmt.Errorf("scheduler interval must be positive, got %s", s.interval)
	}

	s.logger.Info("Started", zap.Duration("interval", s.interval))

	// Catch anything that fell due while the process was down.
	s.Tick(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Shutting down")
			return nil
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs one poll: every pending reminder whose due time has passed is
// spoken and then marked completed. It returns the number of reminders
// completed during this tick.
func (s *Scheduler) Tick(ctx context.Context) int {
	pending, err := s.store.Pending(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error("Reading pending reminders failed, retrying next tick", zap.Error(err))
		}
		return 0
	}

	now := s.now()
	fired := 0
	for _, r := range pending {
		if !r.Due(now) {
			continue
		}
		// Anything left unfired stays pending for the next run.
		if ctx.Err() != nil {
			return fired
		}
		if s.fire(ctx, r) {
			fired++
		}
	}
	return fired
}

func (s *Scheduler) fire(ctx context.Context, r reminder.Reminder) bool {
	s.speak(ctx, sink.ReminderPrefix+r.Text)

	changed, err := s.store.MarkCompleted(ctx, r.ID)
	if err != nil {
		s.logger.Error("Marking reminder completed failed", zap.Int64("id", r.ID), zap.Error(err))
		return false
	}
	if !changed {
		s.logger.Debug("Reminder was already completed", zap.Int64("id", r.ID))
		return false
	}

	s.logger.Info("Reminder fired",
		zap.Int64("id", r.ID),
		zap.Time("due", r.DueTime),
		zap.Duration("late", s.now().Sub(r.DueTime).Round(time.Second)))
	return true
}

func (s *Scheduler) speak(ctx context.Context, text string) {
	defer func() {
		if p := recover(); p != nil {
			s.logger.Error("Response sink panicked", zap.Any("panic", p))
		}
	}()
	s.out.Speak(ctx, text)
}
