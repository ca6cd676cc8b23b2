// Package history keeps a local journal of past runs in SQLite so the
// operator can see what was watched, skipped or failed across sessions.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/entrhq/coursepilot/pkg/course"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

const timeLayout = time.RFC3339Nano

// RunSummary is one row of the runs table.
type RunSummary struct {
	ID            string
	StartedAt     time.Time
	EndedAt       time.Time
	Speed         float64
	Requested     []string
	Unresolved    []string
	Interrupted   bool
	Tasks         int
	Lessons       int
	Played        int
	Skipped       int
	Failed        int
	FailedLessons int
	Watched       time.Duration
}

// UnitEvent is the recorded outcome of one video unit.
type UnitEvent struct {
	Seq         int
	Task        string
	Lesson      string
	Unit        string
	Status      course.Status
	Wait        time.Duration
	Total       int
	Elapsed     int
	Unconfirmed bool
	Error       string
}

// Store is the SQLite-backed run journal.
type Store struct {
	db *sql.DB
}

// DefaultPath returns ~/.coursepilot/history.db.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".coursepilot", "history.db"), nil
}

// Open opens (creating if needed) the journal at dbPath.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := applyPragmas(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	s := &Store{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS runs (
  id TEXT PRIMARY KEY,
  started_at TEXT NOT NULL,
  ended_at TEXT NOT NULL,
  speed REAL NOT NULL,
  requested TEXT NOT NULL,
  unresolved TEXT NOT NULL,
  interrupted INTEGER NOT NULL,
  tasks INTEGER NOT NULL,
  lessons INTEGER NOT NULL,
  played INTEGER NOT NULL,
  skipped INTEGER NOT NULL,
  failed INTEGER NOT NULL,
  failed_lessons INTEGER NOT NULL,
  watched_seconds INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS unit_events (
  run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
  seq INTEGER NOT NULL,
  task TEXT NOT NULL,
  lesson TEXT NOT NULL,
  unit TEXT NOT NULL,
  status TEXT NOT NULL,
  wait_seconds INTEGER NOT NULL,
  total_seconds INTEGER NOT NULL,
  elapsed_seconds INTEGER NOT NULL,
  unconfirmed INTEGER NOT NULL,
  error TEXT NOT NULL,
  PRIMARY KEY (run_id, seq)
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create history tables: %w", err)
	}
	return nil
}

// RecordRun writes report and all its unit outcomes in one transaction.
// Recording the same run id twice replaces the earlier record.
func (s *Store) RecordRun(ctx context.Context, report *course.RunReport) error {
	if report.RunID == "" {
		return fmt.Errorf("record run: run id is required")
	}

	requested, err := json.Marshal(nonNil(report.Requested))
	if err != nil {
		return fmt.Errorf("encode requested tasks: %w", err)
	}
	unresolved, err := json.Marshal(nonNil(report.Unresolved))
	if err != nil {
		return fmt.Errorf("encode unresolved tasks: %w", err)
	}
	counts := report.Counts()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM unit_events WHERE run_id = ?`, report.RunID); err != nil {
		return fmt.Errorf("clear unit events: %w", err)
	}

	const runStmt = `
INSERT INTO runs (id, started_at, ended_at, speed, requested, unresolved, interrupted, tasks, lessons, played, skipped, failed, failed_lessons, watched_seconds)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  started_at=excluded.started_at,
  ended_at=excluded.ended_at,
  speed=excluded.speed,
  requested=excluded.requested,
  unresolved=excluded.unresolved,
  interrupted=excluded.interrupted,
  tasks=excluded.tasks,
  lessons=excluded.lessons,
  played=excluded.played,
  skipped=excluded.skipped,
  failed=excluded.failed,
  failed_lessons=excluded.failed_lessons,
  watched_seconds=excluded.watched_seconds;
`
	_, err = tx.ExecContext(ctx, runStmt,
		report.RunID,
		report.StartTime.UTC().Format(timeLayout),
		report.EndTime.UTC().Format(timeLayout),
		report.Speed,
		string(requested),
		string(unresolved),
		boolInt(report.Interrupted),
		counts.Tasks,
		counts.Lessons,
		counts.Played,
		counts.Skipped,
		counts.Failed,
		failedLessons(report),
		int64(counts.Watched/time.Second),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	const eventStmt = `
INSERT INTO unit_events (run_id, seq, task, lesson, unit, status, wait_seconds, total_seconds, elapsed_seconds, unconfirmed, error)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`
	seq := 0
	for _, task := range report.Tasks {
		for _, lesson := range task.Lessons {
			for _, unit := range lesson.Units {
				seq++
				_, err := tx.ExecContext(ctx, eventStmt,
					report.RunID,
					seq,
					task.Name,
					lesson.Name,
					unit.Name,
					string(unit.Status),
					int64(unit.Wait/time.Second),
					unit.TotalSeconds,
					unit.ElapsedSeconds,
					boolInt(unit.Unconfirmed),
					errText(unit.Err),
				)
				if err != nil {
					return fmt.Errorf("insert unit event: %w", err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, started_at, ended_at, speed, requested, unresolved, interrupted, tasks, lessons, played, skipped, failed, failed_lessons, watched_seconds
FROM runs
ORDER BY started_at DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var (
			r                     RunSummary
			started, ended        string
			requested, unresolved string
			interrupted           int
			watched               int64
		)
		err := rows.Scan(&r.ID, &started, &ended, &r.Speed, &requested, &unresolved, &interrupted,
			&r.Tasks, &r.Lessons, &r.Played, &r.Skipped, &r.Failed, &r.FailedLessons, &watched)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if r.StartedAt, err = time.Parse(timeLayout, started); err != nil {
			return nil, fmt.Errorf("parse started_at of %s: %w", r.ID, err)
		}
		if r.EndedAt, err = time.Parse(timeLayout, ended); err != nil {
			return nil, fmt.Errorf("parse ended_at of %s: %w", r.ID, err)
		}
		if err := json.Unmarshal([]byte(requested), &r.Requested); err != nil {
			return nil, fmt.Errorf("decode requested of %s: %w", r.ID, err)
		}
		if err := json.Unmarshal([]byte(unresolved), &r.Unresolved); err != nil {
			return nil, fmt.Errorf("decode unresolved of %s: %w", r.ID, err)
		}
		r.Interrupted = interrupted != 0
		r.Watched = time.Duration(watched) * time.Second
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// RunEvents returns the unit events of run id in play order.
func (s *Store) RunEvents(ctx context.Context, id string) ([]UnitEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT seq, task, lesson, unit, status, wait_seconds, total_seconds, elapsed_seconds, unconfirmed, error
FROM unit_events
WHERE run_id = ?
ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("query unit events: %w", err)
	}
	defer rows.Close()

	var events []UnitEvent
	for rows.Next() {
		var (
			e           UnitEvent
			status      string
			wait        int64
			unconfirmed int
		)
		if err := rows.Scan(&e.Seq, &e.Task, &e.Lesson, &e.Unit, &status, &wait, &e.Total, &e.Elapsed, &unconfirmed, &e.Error); err != nil {
			return nil, fmt.Errorf("scan unit event: %w", err)
		}
		e.Status = course.Status(status)
		e.Wait = time.Duration(wait) * time.Second
		e.Unconfirmed = unconfirmed != 0
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate unit events: %w", err)
	}
	return events, nil
}

func failedLessons(report *course.RunReport) int {
	n := 0
	for _, task := range report.Tasks {
		for _, lesson := range task.Lessons {
			if lesson.Status == course.StatusFailed {
				n++
			}
		}
	}
	return n
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
