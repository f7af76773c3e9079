package insights

import (
	"time"

	"casa/internal/core"
)

const day = 24 * time.Hour

// DaysUntil returns ceil((due - now) / 24h). ok is false when due is not a
// valid date, in which case the result must not be compared against any
// threshold.
func DaysUntil(due core.Date, now time.Time) (days int, ok bool) {
	if !due.Valid() {
		return 0, false
	}
	d := due.Sub(now)
	q, r := d/day, d%day
	if r > 0 {
		q++
	}
	return int(q), true
}

// Urgency classifies payment and renewal deadlines on the finance dashboard.
type Urgency string

const (
	UrgencyCritical Urgency = "critical"
	UrgencySoon     Urgency = "soon"
	UrgencyNormal   Urgency = "normal"
)

// Deadline thresholds, in days.
const (
	CriticalWithinDays = 7
	SoonWithinDays     = 14
)

// ClassifyDeadline maps days-until-due to an urgency. Unknown distances fall
// through to normal.
func ClassifyDeadline(days int, ok bool) Urgency {
	switch {
	case ok && days < CriticalWithinDays:
		return UrgencyCritical
	case ok && days < SoonWithinDays:
		return UrgencySoon
	default:
		return UrgencyNormal
	}
}
