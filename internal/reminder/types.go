package reminder

import (
	"errors"
	"fmt"
	"time"
)

// Filter values accepted by List.
const (
	FilterPending   = "pending"
	FilterCompleted = "completed"
	FilterAll       = ""
)

// ErrInvalidReminder is returned by Insert when the reminder violates the
// creation invariants (empty text or a due time before creation).
var ErrInvalidReminder = errors.New("invalid reminder")

// ErrNotFound is returned by Get for an unknown id.
var ErrNotFound = errors.New("reminder not found")

// Reminder is a single timed reminder.
type Reminder struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	DueTime   time.Time `json:"due_time"`
	CreatedAt time.Time `json:"created_at"`
	Completed bool      `json:"completed"`
}

// Due reports whether the reminder should fire at now.
func (r Reminder) Due(now time.Time) bool {
	return !r.Completed && !r.DueTime.After(now)
}

// PersistenceError reports that the backing storage could not serve an
// operation.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("reminder store: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsPersistence reports whether err is (or wraps) a PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
