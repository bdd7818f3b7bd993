package review

import (
	"math"
	"testing"

	"github.com/abhisek/wrongbook/internal/store"
)

func TestScheduler_ReplaysHistory(t *testing.T) {
	items := []store.ErrorItem{
		{ID: "fresh", CreatedAt: day0.Add(days(9))},
		{ID: "practiced", CreatedAt: day0},
		{ID: "stale", CreatedAt: day0},
	}
	records := []store.PracticeRecord{
		{ErrorItemID: "practiced", Correct: true, PracticedAt: day0.Add(days(1))},
		{ErrorItemID: "practiced", Correct: true, PracticedAt: day0.Add(days(4))},
		{ErrorItemID: "practiced", Correct: true, PracticedAt: day0.Add(days(9))},
		{ErrorItemID: "stale", Correct: false, PracticedAt: day0.Add(days(1))},
		{ErrorItemID: "unknown", Correct: true, PracticedAt: day0},
	}
	s := NewScheduler(items, records)
	now := day0.Add(days(10))

	if st := s.State("practiced"); st.Stage != 3 || !st.Mastered() {
		t.Fatalf("unexpected practiced state %+v", st)
	}
	if s.State("unknown") != nil {
		t.Fatal("records of unknown items must be ignored")
	}

	due := s.Due(now)
	if len(due) != 2 || due[0] != "stale" || due[1] != "fresh" {
		t.Fatalf("expected [stale fresh], got %v", due)
	}

	stats := s.Stats(now)
	want := Stats{Total: 3, Mastered: 1, Due: 2, Overdue: 1, Attempts: 4, Correct: 3}
	if stats != want {
		t.Fatalf("Stats() = %+v, want %+v", stats, want)
	}
	if math.Abs(stats.Accuracy()-0.75) > 1e-9 {
		t.Fatalf("Accuracy() = %f, want 0.75", stats.Accuracy())
	}
}

func TestStats_EmptyNotebook(t *testing.T) {
	stats := NewScheduler(nil, nil).Stats(day0)
	if stats != (Stats{}) || stats.Accuracy() != 0 {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
}
