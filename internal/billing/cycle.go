package billing

import (
	"time"

	"academy_backend/internal/models"
)

// NextBillingDate returns the end of the period that starts at anchor,
// or nil for non-recurring intervals. The math works on calendar
// dates, not instants, so the result is stable across timezones.
func NextBillingDate(anchor time.Time, interval models.BillingInterval) *time.Time {
	y, m, d := anchor.Date()
	anchor = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	var next time.Time
	switch interval {
	case models.BillingIntervalDaily:
		next = anchor.AddDate(0, 0, 1)
	case models.BillingIntervalWeekly:
		next = anchor.AddDate(0, 0, 7)
	case models.BillingIntervalMonthly:
		next = addMonthsClamped(anchor, 1)
	case models.BillingIntervalYearly:
		next = addMonthsClamped(anchor, 12)
	default:
		// ONCE and anything unknown: no recurrence
		return nil
	}
	return &next
}

// addMonthsClamped adds months keeping the day-of-month, clamping to
// the last valid day of the target month. Jan 31 + 1 month is Feb 28
// (or 29 in a leap year), never Mar 2 like time.AddDate would give.
func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	target := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	if last := daysIn(target.Year(), target.Month()); d > last {
		d = last
	}
	return time.Date(target.Year(), target.Month(), d, 0, 0, 0, 0, time.UTC)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// PeriodFor returns the billing period [start, end) anchored at start.
// For ONCE intervals the period collapses to the start date itself.
func PeriodFor(start time.Time, interval models.BillingInterval) (time.Time, time.Time) {
	y, m, d := start.Date()
	start = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	end := NextBillingDate(start, interval)
	if end == nil {
		return start, start
	}
	return start, *end
}
