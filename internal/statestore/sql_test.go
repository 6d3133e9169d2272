package statestore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rxkernel/rx/internal/event"
)

func TestSQLStoreAppendThenLoad(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	s, err := OpenSQLStore(ctx, filepath.Join(dir, "rx_state.db"), "20260730-000000-sql-goal")
	if err != nil {
		t.Fatalf("OpenSQLStore: %v", err)
	}
	defer s.Close()

	ev, _ := event.New(event.KindGoal, event.GoalPayload{Text: "write hello"})
	if err := s.Append(ctx, ev); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 1 || got[0].Kind != event.KindGoal {
		t.Fatalf("Load = %+v, want single goal event", got)
	}
}

func TestSQLStoreListGoalsNewestFirst(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	dbPath := filepath.Join(dir, "rx_state.db")

	s1, err := OpenSQLStore(ctx, dbPath, "20260101-000000-first-goal")
	if err != nil {
		t.Fatalf("OpenSQLStore: %v", err)
	}
	ev1, _ := event.New(event.KindGoal, event.GoalPayload{Text: "first"})
	if err := s1.Append(ctx, ev1); err != nil {
		t.Fatalf("Append: %v", err)
	}
	s1.Close()

	s2, err := OpenSQLStore(ctx, dbPath, "20260201-000000-second-goal")
	if err != nil {
		t.Fatalf("OpenSQLStore: %v", err)
	}
	ev2, _ := event.New(event.KindGoal, event.GoalPayload{Text: "second"})
	if err := s2.Append(ctx, ev2); err != nil {
		t.Fatalf("Append: %v", err)
	}

	goals, err := s2.ListGoals(ctx)
	if err != nil {
		t.Fatalf("ListGoals: %v", err)
	}
	if len(goals) != 2 {
		t.Fatalf("ListGoals returned %d goals, want 2", len(goals))
	}
	if goals[0].GoalID != "20260201-000000-second-goal" {
		t.Errorf("goals[0].GoalID = %q, want newest goal first", goals[0].GoalID)
	}
	s2.Close()
}
