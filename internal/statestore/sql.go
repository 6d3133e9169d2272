package statestore

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rxkernel/rx/internal/event"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	goal_id TEXT NOT NULL,
	kind TEXT NOT NULL,
	payload TEXT NOT NULL,
	timestamp TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_goal_id ON events(goal_id);
`

// SQLStore is the durable event store: a single events table shared
// across every goal. database/sql pools and synchronizes access to the
// *sql.DB itself, so no additional outer mutex is layered on top — a
// second lock here would reproduce the dual-locking bug warned against
// in the design this was distilled from.
type SQLStore struct {
	db     *sql.DB
	goalID string
}

// OpenSQLStore opens (creating if absent) the sqlite database at path
// and returns a store bound to goalID.
func OpenSQLStore(ctx context.Context, path, goalID string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("statestore: open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1) // modernc.org/sqlite: one connection avoids SQLITE_BUSY under concurrent writers
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("statestore: create schema: %w", err)
	}
	return &SQLStore{db: db, goalID: goalID}, nil
}

// Load returns every event recorded for the bound goal, ordered by the
// autoincrement id (insertion order).
func (s *SQLStore) Load(ctx context.Context) ([]event.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, payload, timestamp FROM events WHERE goal_id = ? ORDER BY id ASC`, s.goalID)
	if err != nil {
		return nil, fmt.Errorf("statestore: query events: %w", err)
	}
	defer rows.Close()

	var out []event.Event
	for rows.Next() {
		var kind, payload, ts string
		if err := rows.Scan(&kind, &payload, &ts); err != nil {
			return nil, fmt.Errorf("statestore: scan event row: %w", err)
		}
		t, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("statestore: parse timestamp: %w", err)
		}
		out = append(out, event.Event{
			ID:        "", // the autoincrement id is the ordering key, not part of the payload contract
			Timestamp: t,
			Kind:      event.Kind(kind),
			Payload:   []byte(payload),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("statestore: iterate event rows: %w", err)
	}
	return out, nil
}

// Append inserts a new row for the bound goal.
func (s *SQLStore) Append(ctx context.Context, ev event.Event) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (goal_id, kind, payload, timestamp) VALUES (?, ?, ?, ?)`,
		s.goalID, string(ev.Kind), string(ev.Payload), ev.Timestamp.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("statestore: insert event: %w", err)
	}
	return nil
}

// ListGoals returns every distinct goal id this database has recorded,
// paired with the timestamp of its earliest event, newest first.
func (s *SQLStore) ListGoals(ctx context.Context) ([]GoalSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT goal_id, MIN(timestamp) FROM events GROUP BY goal_id`)
	if err != nil {
		return nil, fmt.Errorf("statestore: query goals: %w", err)
	}
	defer rows.Close()

	var out []GoalSummary
	for rows.Next() {
		var g GoalSummary
		if err := rows.Scan(&g.GoalID, &g.StartedAt); err != nil {
			return nil, fmt.Errorf("statestore: scan goal row: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("statestore: iterate goal rows: %w", err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt > out[j].StartedAt })
	return out, nil
}

// Close releases the underlying database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
