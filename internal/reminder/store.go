package reminder

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// timeLayout is the ISO-8601 form written to reminder_time and created_at.
const timeLayout = time.RFC3339Nano

// Older databases carry naive local timestamps without an offset.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// Store provides SQLite-backed storage for reminders. It is the only owner
// of reminder state and is safe for concurrent use.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewStore opens (or creates) the SQLite database at dbPath and
// ensures the reminders table exists. Use ":memory:" for a throwaway store.
func NewStore(dbPath string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, &PersistenceError{Op: "open", Err: err}
	}

	// A single connection serializes every operation on the table and keeps
	// an in-memory database alive for the lifetime of the store.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, &PersistenceError{Op: "set WAL mode", Err: err}
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, &PersistenceError{Op: "set busy timeout", Err: err}
	}

	if err := createTable(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, logger: logger.Named("store")}, nil
}

func createTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS reminders (
			id            INTEGER PRIMARY KEY,
			reminder      TEXT,
			reminder_time TEXT,
			created_at    TEXT,
			is_completed  INTEGER DEFAULT 0
		)
	`)
	if err != nil {
		return &PersistenceError{Op: "create table", Err: err}
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert stores a new pending reminder and returns its id.
func (s *Store) Insert(ctx context.Context, text string, due, created time.Time) (int64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, fmt.Errorf("%w: empty text", ErrInvalidReminder)
	}
	if due.Before(created) {
		return 0, fmt.Errorf("%w: due time %s is before creation %s",
			ErrInvalidReminder, due.Format(timeLayout), created.Format(timeLayout))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, &PersistenceError{Op: "insert", Err: err}
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO reminders (reminder, reminder_time, created_at, is_completed)
		VALUES (?, ?, ?, 0)
	`, text, formatTime(due), formatTime(created))
	if err != nil {
		return 0, &PersistenceError{Op: "insert", Err: err}
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, &PersistenceError{Op: "insert", Err: fmt.Errorf("get inserted id: %w", err)}
	}

	if err := tx.Commit(); err != nil {
		return 0, &PersistenceError{Op: "insert", Err: err}
	}
	return id, nil
}

// Pending returns all reminders that have not been completed yet.
func (s *Store) Pending(ctx context.Context) ([]Reminder, error) {
	return s.List(ctx, FilterPending)
}

// List returns reminders filtered by completion state.
// Pass FilterAll to list everything.
func (s *Store) List(ctx context.Context, filter string) ([]Reminder, error) {
	query := `
		SELECT id, reminder, reminder_time, created_at, is_completed
		FROM reminders`
	switch filter {
	case FilterPending:
		query += ` WHERE is_completed = 0`
	case FilterCompleted:
		query += ` WHERE is_completed = 1`
	case FilterAll:
	default:
		return nil, fmt.Errorf("unknown filter %q (use pending, completed or empty)", filter)
	}
	query += ` ORDER BY reminder_time ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &PersistenceError{Op: "list", Err: err}
	}
	defer rows.Close()

	reminders, err := s.scanReminders(rows)
	if err != nil {
		return nil, &PersistenceError{Op: "list", Err: err}
	}
	return reminders, nil
}

// Get returns a single reminder by id.
func (s *Store) Get(ctx context.Context, id int64) (*Reminder, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, reminder, reminder_time, created_at, is_completed
		FROM reminders WHERE id = ?
	`, id)

	var raw rawReminder
	if err := row.Scan(&raw.id, &raw.text, &raw.due, &raw.created, &raw.completed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
		}
		return nil, &PersistenceError{Op: "get", Err: err}
	}

	r, err := raw.decode()
	if err != nil {
		return nil, &PersistenceError{Op: "get", Err: err}
	}
	return &r, nil
}

// MarkCompleted flags a pending reminder as completed. It reports whether
// this call performed the transition; completing an already completed or
// unknown reminder is a no-op.
func (s *Store) MarkCompleted(ctx context.Context, id int64) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE reminders SET is_completed = 1 WHERE id = ? AND is_completed = 0
	`, id)
	if err != nil {
		return false, &PersistenceError{Op: "mark completed", Err: err}
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, &PersistenceError{Op: "mark completed", Err: err}
	}
	return n == 1, nil
}

type rawReminder struct {
	id        int64
	text      sql.NullString
	due       sql.NullString
	created   sql.NullString
	completed sql.NullInt64
}

func (raw rawReminder) decode() (Reminder, error) {
	due, err := parseTime(raw.due.String)
	if err != nil {
		return Reminder{}, fmt.Errorf("reminder %d: reminder_time: %w", raw.id, err)
	}
	created, err := parseTime(raw.created.String)
	if err != nil {
		return Reminder{}, fmt.Errorf("reminder %d: created_at: %w", raw.id, err)
	}

	return Reminder{
		ID:        raw.id,
		Text:      raw.text.String,
		DueTime:   due,
		CreatedAt: created,
		Completed: raw.completed.Int64 != 0,
	}, nil
}

// scanReminders reads rows into reminders, skipping rows whose timestamps
// cannot be decoded so that one bad row does not block every poll.
func (s *Store) scanReminders(rows *sql.Rows) ([]Reminder, error) {
	var reminders []Reminder
	for rows.Next() {
		var raw rawReminder
		if err := rows.Scan(&raw.id, &raw.text, &raw.due, &raw.created, &raw.completed); err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}

		r, err := raw.decode()
		if err != nil {
			s.logger.Warn("Skipping unreadable reminder", zap.Int64("id", raw.id), zap.Error(err))
			continue
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}

func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(timeLayout, s); err == nil {
		return t, nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
