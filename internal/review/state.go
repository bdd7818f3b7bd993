// Package review schedules spaced practice of error items and summarizes
// progress. State is derived from the practice history; nothing beyond the
// practice records is persisted.
package review

import "time"

// State is the review state of one error item.
type State struct {
	ItemID          string
	Stage           int
	ConsecutiveHits int
	Attempts        int
	CorrectAttempts int
	Graduated       bool
	LastReviewDate  time.Time
	NextReviewDate  time.Time
}

// Mastered reports whether the item has been answered correctly enough times
// in a row.
func (s *State) Mastered() bool {
	return s.ConsecutiveHits >= MasteredHits
}

// IsDue reports whether the item should be practiced at now.
func (s *State) IsDue(now time.Time) bool {
	return !now.Before(s.NextReviewDate)
}

// OverdueDays is how far past the review date now is, 0 when not due.
func (s *State) OverdueDays(now time.Time) float64 {
	if now.Before(s.NextReviewDate) {
		return 0
	}
	return now.Sub(s.NextReviewDate).Hours() / 24
}

// IntervalDays is the interval that produced NextReviewDate.
func (s *State) IntervalDays() int {
	switch {
	case s.Graduated:
		return GraduatedIntervalDays
	case s.Stage >= len(BaseIntervals):
		return BaseIntervals[len(BaseIntervals)-1]
	default:
		return BaseIntervals[s.Stage]
	}
}

// IsOverdue reports whether the item is past half an interval of grace.
func (s *State) IsOverdue(now time.Time) bool {
	if !s.IsDue(now) {
		return false
	}
	grace := time.Duration(float64(s.IntervalDays()) * 0.5 * 24 * float64(time.Hour))
	return now.After(s.NextReviewDate.Add(grace))
}

// Status is a display label for an item's schedule position.
type Status string

const (
	StatusNotDue    Status = "not_due"
	StatusDue       Status = "due"
	StatusOverdue   Status = "overdue"
	StatusGraduated Status = "graduated"
)

// Status returns the label for now.
func (s *State) Status(now time.Time) Status {
	switch {
	case s.IsOverdue(now):
		return StatusOverdue
	case s.IsDue(now):
		return StatusDue
	case s.Graduated:
		return StatusGraduated
	default:
		return StatusNotDue
	}
}

// DaysUntilReview rounds up to whole days, 0 when already due.
func (s *State) DaysUntilReview(now time.Time) int {
	if s.IsDue(now) {
		return 0
	}
	return int(s.NextReviewDate.Sub(now).Hours()/24) + 1
}

// NewState starts the schedule for an item added at createdAt.
func NewState(itemID string, createdAt time.Time) *State {
	return &State{
		ItemID:         itemID,
		LastReviewDate: createdAt,
		NextReviewDate: createdAt.AddDate(0, 0, BaseIntervals[0]),
	}
}

// Record applies one practice attempt. A correct answer advances the stage;
// a wrong one restarts the schedule.
func (s *State) Record(correct bool, at time.Time) {
	s.Attempts++
	s.LastReviewDate = at
	if !correct {
		s.Stage = 0
		s.ConsecutiveHits = 0
		s.Graduated = false
		s.NextReviewDate = at.AddDate(0, 0, BaseIntervals[0])
		return
	}

	s.CorrectAttempts++
	s.ConsecutiveHits++
	if !s.Graduated {
		s.Stage++
		if s.ConsecutiveHits >= GraduationHits {
			s.Graduated = true
		}
	}
	s.NextReviewDate = at.AddDate(0, 0, s.IntervalDays())
}
