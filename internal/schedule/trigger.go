package schedule

import (
	"time"

	"cardkeeper/internal/civil"
)

// LogKey identifies one sent notification: which alert fired for which cycle.
type LogKey struct {
	HoursBefore int
	DueDate     civil.Date
}

// LogSet is the set of notifications already sent for a single card.
type LogSet map[LogKey]struct{}

// NewLogSet builds a LogSet from (hoursBefore, dueDate) pairs.
func NewLogSet() LogSet {
	return make(LogSet)
}

// Add records that the given alert has fired for the given cycle.
func (s LogSet) Add(hoursBefore int, dueDate civil.Date) {
	s[LogKey{HoursBefore: hoursBefore, DueDate: dueDate}] = struct{}{}
}

// Contains reports whether the given alert already fired for the given cycle.
func (s LogSet) Contains(hoursBefore int, dueDate civil.Date) bool {
	_, ok := s[LogKey{HoursBefore: hoursBefore, DueDate: dueDate}]
	return ok
}

// ShouldFire decides whether an alert with the given lead time is due to
// fire at now for the given cycle. The check is level-triggered: every
// invocation at or after the trigger instant reports true until a log
// entry lands in prior. De-duplication across runs is therefore the
// caller's log write, not this function.
func ShouldFire(hoursBefore int, cycle Cycle, now time.Time, prior LogSet) bool {
	if prior.Contains(hoursBefore, cycle.DueDate) {
		return false
	}
	trigger := cycle.Deadline.Add(-time.Duration(hoursBefore) * time.Hour)
	return !now.Before(trigger)
}
