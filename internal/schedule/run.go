package schedule

import (
	"time"

	"cardkeeper/internal/civil"
)

// CardInput is the evaluation snapshot of one card.
type CardInput struct {
	CardID      uint
	DueDay      int
	NotifyEmail bool
	NotifySms   bool
	LastPaid    *civil.Date
	Sent        LogSet
}

// UserInput groups one user's alerts with their eligible cards.
type UserInput struct {
	UserID uint
	Alerts []int // lead times in hours before the deadline
	Cards  []CardInput
}

// Snapshot is the full input of one scheduler run.
type Snapshot struct {
	Users []UserInput
}

// Decision is one "fire this notification" outcome.
type Decision struct {
	UserID      uint
	CardID      uint
	HoursBefore int
	Cycle       Cycle
}

// LogEntry is the de-duplication record the caller must persist for a Decision.
type LogEntry struct {
	CardID      uint
	HoursBefore int
	DueDate     civil.Date
}

// Result is the side-effect-free output of a run: the caller performs the
// sends and commits the log entries.
type Result struct {
	Decisions []Decision
	Logs      []LogEntry
}

// Run evaluates every user's alerts against every eligible card as of now.
//
// A card is eligible when at least one notify channel is enabled. Cards
// whose current cycle is already paid are skipped entirely. On top of the
// per-alert trigger instants, a global quiet floor holds: nothing fires
// before 17:00 civil time on the day of evaluation.
func Run(snap Snapshot, now time.Time, zone *time.Location) Result {
	var result Result

	today := civil.DateOf(now.In(zone))
	quietFloor := today.At(DeadlineHour, zone)
	if now.Before(quietFloor) {
		return result
	}

	for _, user := range snap.Users {
		if len(user.Alerts) == 0 {
			continue
		}
		for _, card := range user.Cards {
			if !card.NotifyEmail && !card.NotifySms {
				continue
			}

			cycle := CurrentCycle(today, card.DueDay, zone)
			if cycle.IsPaid(card.LastPaid) {
				continue
			}

			for _, hoursBefore := range user.Alerts {
				if !ShouldFire(hoursBefore, cycle, now, card.Sent) {
					continue
				}
				result.Decisions = append(result.Decisions, Decision{
					UserID:      user.UserID,
					CardID:      card.CardID,
					HoursBefore: hoursBefore,
					Cycle:       cycle,
				})
				result.Logs = append(result.Logs, LogEntry{
					CardID:      card.CardID,
					HoursBefore: hoursBefore,
					DueDate:     cycle.DueDate,
				})
			}
		}
	}

	return result
}
