package review

import (
	"testing"
	"time"
)

var day0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func days(n float64) time.Duration {
	return time.Duration(n * 24 * float64(time.Hour))
}

func TestBaseIntervals(t *testing.T) {
	want := []int{1, 3, 7, 14, 30, 60}
	if len(BaseIntervals) != len(want) {
		t.Fatalf("expected %d intervals, got %d", len(want), len(BaseIntervals))
	}
	for i, v := range want {
		if BaseIntervals[i] != v {
			t.Errorf("BaseIntervals[%d] = %d, want %d", i, BaseIntervals[i], v)
		}
	}
}

func TestGraduationFollowsLadder(t *testing.T) {
	if GraduationHits != 6 {
		t.Fatalf("GraduationHits = %d, want 6", GraduationHits)
	}
	st := NewState("item", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	at := st.NextReviewDate
	for i := 0; i < GraduationHits-1; i++ {
		st.Record(true, at)
		at = st.NextReviewDate
	}
	if st.Graduated {
		t.Fatalf("graduated after %d hits", GraduationHits-1)
	}
	st.Record(true, at)
	if !st.Graduated {
		t.Fatalf("not graduated after %d hits", GraduationHits)
	}
}

func TestNewState_DueAfterOneDay(t *testing.T) {
	st := NewState("a", day0)
	if st.IsDue(day0.Add(days(0.9))) {
		t.Error("expected not due before one day")
	}
	if !st.IsDue(day0.Add(days(1))) {
		t.Error("expected due after one day")
	}
}

func TestRecord_CorrectAdvancesSchedule(t *testing.T) {
	st := NewState("a", day0)
	at := day0
	for i, want := range []int{3, 7, 14, 30, 60} {
		at = at.Add(days(1))
		st.Record(true, at)
		if got := st.NextReviewDate.Sub(at); got != days(float64(want)) {
			t.Fatalf("hit %d: next review in %s, want %d days", i+1, got, want)
		}
	}
	if st.Graduated {
		t.Fatal("graduated too early")
	}
	st.Record(true, at)
	if !st.Graduated {
		t.Fatal("expected graduation after six consecutive hits")
	}
	if st.IntervalDays() != GraduatedIntervalDays {
		t.Fatalf("expected graduated interval, got %d", st.IntervalDays())
	}
	if st.Attempts != 6 || st.CorrectAttempts != 6 {
		t.Fatalf("unexpected counts %d/%d", st.CorrectAttempts, st.Attempts)
	}
}

func TestRecord_WrongRestarts(t *testing.T) {
	st := NewState("a", day0)
	st.Record(true, day0.Add(days(1)))
	st.Record(true, day0.Add(days(4)))
	if st.Stage != 2 {
		t.Fatalf("expected stage 2, got %d", st.Stage)
	}
	wrongAt := day0.Add(days(11))
	st.Record(false, wrongAt)
	if st.Stage != 0 || st.ConsecutiveHits != 0 {
		t.Fatalf("expected reset, got stage %d hits %d", st.Stage, st.ConsecutiveHits)
	}
	if !st.NextReviewDate.Equal(wrongAt.AddDate(0, 0, 1)) {
		t.Fatalf("expected review the next day, got %s", st.NextReviewDate)
	}
	if st.Attempts != 3 || st.CorrectAttempts != 2 {
		t.Fatalf("unexpected counts %d/%d", st.CorrectAttempts, st.Attempts)
	}
}

func TestMastered(t *testing.T) {
	st := NewState("a", day0)
	for i := 0; i < MasteredHits-1; i++ {
		st.Record(true, day0)
	}
	if st.Mastered() {
		t.Fatal("mastered too early")
	}
	st.Record(true, day0)
	if !st.Mastered() {
		t.Fatal("expected mastered")
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name  string
		state State
		now   time.Time
		want  Status
	}{
		{"not due", State{Stage: 2, NextReviewDate: day0.Add(days(5))}, day0, StatusNotDue},
		{"due within grace", State{Stage: 2, NextReviewDate: day0}, day0.Add(days(3)), StatusDue},
		{"overdue past grace", State{Stage: 2, NextReviewDate: day0}, day0.Add(days(4)), StatusOverdue},
		{"stage 0 grace is half a day", State{NextReviewDate: day0}, day0.Add(days(1)), StatusOverdue},
		{"graduated not due", State{Graduated: true, NextReviewDate: day0.Add(days(30))}, day0, StatusGraduated},
		{"graduated due", State{Graduated: true, NextReviewDate: day0}, day0.Add(days(10)), StatusDue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.Status(tt.now); got != tt.want {
				t.Errorf("Status() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDaysUntilReview(t *testing.T) {
	st := State{NextReviewDate: day0.Add(108 * time.Hour)}
	if got := st.DaysUntilReview(day0); got != 5 {
		t.Errorf("DaysUntilReview() = %d, want 5", got)
	}
	if got := st.DaysUntilReview(day0.Add(days(6))); got != 0 {
		t.Errorf("DaysUntilReview() = %d, want 0", got)
	}
}
