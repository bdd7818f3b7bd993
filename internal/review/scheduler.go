package review

import (
	"sort"
	"time"

	"github.com/abhisek/wrongbook/internal/store"
)

// Scheduler holds the replayed review state of a set of items.
type Scheduler struct {
	states map[string]*State
}

// NewScheduler replays records over items. Records of unknown items are
// ignored; records must be oldest first, as the store returns them.
func NewScheduler(items []store.ErrorItem, records []store.PracticeRecord) *Scheduler {
	s := &Scheduler{states: make(map[string]*State, len(items))}
	for _, it := range items {
		s.states[it.ID] = NewState(it.ID, it.CreatedAt)
	}
	for _, rec := range records {
		if st := s.states[rec.ErrorItemID]; st != nil {
			st.Record(rec.Correct, rec.PracticedAt)
		}
	}
	return s
}

// State returns the state of one item, or nil when it is not tracked.
func (s *Scheduler) State(itemID string) *State {
	return s.states[itemID]
}

// Due returns the IDs of items due at now, most overdue first.
func (s *Scheduler) Due(now time.Time) []string {
	type due struct {
		id      string
		overdue float64
	}
	var list []due
	for id, st := range s.states {
		if st.IsDue(now) {
			list = append(list, due{id, st.OverdueDays(now)})
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].overdue != list[j].overdue {
			return list[i].overdue > list[j].overdue
		}
		return list[i].id < list[j].id
	})
	ids := make([]string, len(list))
	for i, d := range list {
		ids[i] = d.id
	}
	return ids
}

// Stats summarizes a notebook at a point in time.
type Stats struct {
	Total     int
	Mastered  int
	Due       int
	Overdue   int
	Graduated int
	Attempts  int
	Correct   int
}

// Accuracy is the share of correct attempts, 0 with no attempts.
func (st Stats) Accuracy() float64 {
	if st.Attempts == 0 {
		return 0
	}
	return float64(st.Correct) / float64(st.Attempts)
}

// Stats computes the summary at now. Overdue items also count as due.
func (s *Scheduler) Stats(now time.Time) Stats {
	var out Stats
	for _, st := range s.states {
		out.Total++
		out.Attempts += st.Attempts
		out.Correct += st.CorrectAttempts
		if st.Mastered() {
			out.Mastered++
		}
		if st.Graduated {
			out.Graduated++
		}
		if st.IsDue(now) {
			out.Due++
		}
		if st.IsOverdue(now) {
			out.Overdue++
		}
	}
	return out
}
