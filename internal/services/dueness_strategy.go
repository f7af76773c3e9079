package services

// Dueness strategies decide when a completed recurring maintenance task
// comes back, one strategy per recurrence kind.

import (
	"fmt"
	"time"

	"casa/internal/core"
)

// DuenessChecker decides whether a recurring task is due again and, when it
// is, which due date the new occurrence gets.
type DuenessChecker interface {
	// IsDue reports whether the task should be reopened given its last
	// completion, the current time and its anchor date.
	IsDue(lastCompletion, now time.Time, anchor core.Date) bool
	// NextDue is the due date of the occurrence that is due at now.
	NextDue(now time.Time, anchor core.Date) core.Date
}

// DailyChecker: due on any calendar day after the last completion.
type DailyChecker struct{}

func (DailyChecker) IsDue(lastCompletion, now time.Time, _ core.Date) bool {
	if lastCompletion.IsZero() {
		return true
	}
	return lastCompletion.UTC().Format(time.DateOnly) != now.UTC().Format(time.DateOnly)
}

func (DailyChecker) NextDue(now time.Time, _ core.Date) core.Date {
	return startOfDay(now)
}

// WeeklyChecker: due 7 or more days after the last completion.
type WeeklyChecker struct{}

func (WeeklyChecker) IsDue(lastCompletion, now time.Time, _ core.Date) bool {
	if lastCompletion.IsZero() {
		return true
	}
	return now.Sub(lastCompletion) >= 7*24*time.Hour
}

func (WeeklyChecker) NextDue(now time.Time, _ core.Date) core.Date {
	return startOfDay(now)
}

// MonthlyChecker: due in a later month once the anchor's day of month is
// reached, clamped to the month's last day.
type MonthlyChecker struct{}

func (MonthlyChecker) IsDue(lastCompletion, now time.Time, anchor core.Date) bool {
	if lastCompletion.IsZero() {
		return true
	}
	if lastCompletion.Year() == now.Year() && lastCompletion.Month() == now.Month() {
		return false
	}
	return now.Day() >= clampDay(now.Year(), now.Month(), anchorDay(anchor, now))
}

func (MonthlyChecker) NextDue(now time.Time, anchor core.Date) core.Date {
	d := clampDay(now.Year(), now.Month(), anchorDay(anchor, now))
	return core.NewDate(now.Year(), int(now.Month()), d)
}

// YearlyChecker: due in a later year once the anchor's month and day are
// reached.
type YearlyChecker struct{}

func (YearlyChecker) IsDue(lastCompletion, now time.Time, anchor core.Date) bool {
	if lastCompletion.IsZero() {
		return true
	}
	if lastCompletion.Year() == now.Year() {
		return false
	}
	month := anchorMonth(anchor, now)
	switch {
	case now.Month() < month:
		return false
	case now.Month() == month:
		return now.Day() >= clampDay(now.Year(), month, anchorDay(anchor, now))
	default:
		return true
	}
}

func (YearlyChecker) NextDue(now time.Time, anchor core.Date) core.Date {
	month := anchorMonth(anchor, now)
	return core.NewDate(now.Year(), int(month), clampDay(now.Year(), month, anchorDay(anchor, now)))
}

func startOfDay(t time.Time) core.Date {
	t = t.UTC()
	return core.NewDate(t.Year(), int(t.Month()), t.Day())
}

func anchorDay(anchor core.Date, fallback time.Time) int {
	if anchor.Valid() {
		return anchor.Day()
	}
	return fallback.Day()
}

func anchorMonth(anchor core.Date, fallback time.Time) time.Month {
	if anchor.Valid() {
		return anchor.Month()
	}
	return fallback.Month()
}

// clampDay limits day to the last day of the month (Jan 31 -> Feb 28/29).
func clampDay(year int, month time.Month, day int) int {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	return min(day, last)
}

var duenessStrategies = map[core.Recurrence]DuenessChecker{
	core.RecurrenceDaily:   DailyChecker{},
	core.RecurrenceWeekly:  WeeklyChecker{},
	core.RecurrenceMonthly: MonthlyChecker{},
	core.RecurrenceYearly:  YearlyChecker{},
}

// GetDuenessChecker returns the strategy for a recurrence kind.
func GetDuenessChecker(r core.Recurrence) (DuenessChecker, error) {
	checker, ok := duenessStrategies[r]
	if !ok {
		return nil, fmt.Errorf("unknown recurrence: %s", r)
	}
	return checker, nil
}

// RegisterDuenessChecker adds or replaces a strategy.
func RegisterDuenessChecker(r core.Recurrence, checker DuenessChecker) {
	duenessStrategies[r] = checker
}
