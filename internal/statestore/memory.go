package statestore

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rxkernel/rx/internal/event"
)

// MemoryStore holds a single goal's events in memory and mirrors every
// append as a JSON-lines record to logs/<goal_id>.jsonl, fsynced per
// write so a crash leaves either a whole line or nothing.
type MemoryStore struct {
	mu     sync.Mutex
	events []event.Event
	file   *os.File
}

// NewMemoryStore opens (creating if absent) logs/<goalID>.jsonl in
// append mode and returns a store bound to that single goal.
func NewMemoryStore(logsDir, goalID string) (*MemoryStore, error) {
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return nil, fmt.Errorf("statestore: create logs dir: %w", err)
	}
	path := filepath.Join(logsDir, goalID+".jsonl")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("statestore: open log file: %w", err)
	}
	return &MemoryStore{file: f}, nil
}

// LoadJSONL opens logs/<goalID>.jsonl read-only (if present), replays
// its lines into a fresh MemoryStore's in-memory vector, and then
// switches to append mode for subsequent writes — used to resume a
// goal after a crash or restart.
func LoadJSONL(logsDir, goalID string) (*MemoryStore, error) {
	path := filepath.Join(logsDir, goalID+".jsonl")
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewMemoryStore(logsDir, goalID)
		}
		return nil, fmt.Errorf("statestore: read log file: %w", err)
	}

	var events []event.Event
	sc := bufio.NewScanner(bytes.NewReader(raw))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var ev event.Event
		if err := json.Unmarshal(line, &ev); err != nil {
			return nil, fmt.Errorf("statestore: parse log line: %w", err)
		}
		events = append(events, ev)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("statestore: scan log file: %w", err)
	}

	s, err := NewMemoryStore(logsDir, goalID)
	if err != nil {
		return nil, err
	}
	s.events = events
	return s, nil
}

// Load returns the in-memory event vector in append order.
func (s *MemoryStore) Load(ctx context.Context) ([]event.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]event.Event, len(s.events))
	copy(out, s.events)
	return out, nil
}

// Append records ev in memory and mirrors it to the JSONL file before
// returning, so a reader invoked after a successful Append observes it.
func (s *MemoryStore) Append(ctx context.Context, ev event.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("statestore: marshal event: %w", err)
	}
	line = append(line, '\n')
	if _, err := s.file.Write(line); err != nil {
		return fmt.Errorf("statestore: write log: %w", err)
	}
	if err := s.file.Sync(); err != nil {
		return fmt.Errorf("statestore: fsync log: %w", err)
	}

	s.events = append(s.events, ev)
	return nil
}

// Close releases the underlying file handle.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}
