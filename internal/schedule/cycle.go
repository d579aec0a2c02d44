// Package schedule implements the billing-cycle and reminder evaluation
// logic. Everything in this package is a pure function over its inputs:
// callers resolve "now" once, pass it in, and perform all I/O themselves.
package schedule

import (
	"time"

	"cardkeeper/internal/civil"
)

// DeadlineHour is the civil hour of day by which payment is expected.
const DeadlineHour = 17

// Cycle is one billing period for a card, identified by its due date.
// It is derived on demand and never persisted; any caller with the same
// "today" and due day computes an identical Cycle.
type Cycle struct {
	DueDate  civil.Date
	Deadline time.Time
}

// CurrentCycle computes the billing cycle a card is in as of today.
//
// The candidate due date is today's year/month with the card's due day,
// clamped to the last valid day of the month (a due day of 31 anchors to
// Feb 28/29, never spills into March). When today is strictly past the
// due day the cycle rolls forward one month, December rolling the year.
// Evaluating on the due day itself, even after the deadline hour, still
// counts as the current cycle.
func CurrentCycle(today civil.Date, dueDay int, zone *time.Location) Cycle {
	year, month := today.Year, today.Month

	day := clampDay(dueDay, year, month)
	if today.Day > day {
		month++
		if month > time.December {
			month = time.January
			year++
		}
		day = clampDay(dueDay, year, month)
	}

	dueDate := civil.Date{Year: year, Month: month, Day: day}
	return Cycle{
		DueDate:  dueDate,
		Deadline: dueDate.At(DeadlineHour, zone),
	}
}

// IsPaid reports whether this cycle has been settled, given the card's
// last-recorded payment marker. Comparison is on calendar components only.
func (c Cycle) IsPaid(lastPaid *civil.Date) bool {
	return lastPaid != nil && *lastPaid == c.DueDate
}

func clampDay(dueDay, year int, month time.Month) int {
	if max := civil.DaysInMonth(year, month); dueDay > max {
		return max
	}
	return dueDay
}
