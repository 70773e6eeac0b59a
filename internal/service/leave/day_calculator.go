package leave

import (
	"time"

	"github.com/peoplemesh/hrops-console-go/internal/domain/leave"
	"github.com/shopspring/decimal"
)

var (
	halfDay = decimal.New(5, -1)
	fullDay = decimal.NewFromInt(1)
)

// ExclusionSet is a set of calendar dates (public holidays) that do not count
// against a leave balance. Weekends are computed, not stored here.
type ExclusionSet map[string]struct{}

// NewExclusionSet builds the lookup set from the fetched holiday list.
func NewExclusionSet(holidays []leave.Holiday) ExclusionSet {
	set := make(ExclusionSet, len(holidays))
	for _, h := range holidays {
		set[h.Date.Format("2006-01-02")] = struct{}{}
	}
	return set
}

// Contains reports whether the given day is an excluded date.
func (s ExclusionSet) Contains(day time.Time) bool {
	_, ok := s[day.Format("2006-01-02")]
	return ok
}

// DayCalculator computes chargeable leave days. It is stateless and pure so
// the same computation backs live recomputation during edits and the tests.
type DayCalculator struct{}

func NewDayCalculator() *DayCalculator {
	return &DayCalculator{}
}

// CountChargeableDays walks every calendar day from start to end inclusive
// and accumulates the chargeable contribution in 0.5 day steps.
//
// Weekends and dates in excluded are skipped unless countAllDays is set, in
// which case every calendar day in the range counts. A half-day session is
// only honored on the first or last day of the range; interior days always
// contribute a full day. A single-day range consults only cfg.Start; the end
// session is ignored by convention.
func (c *DayCalculator) CountChargeableDays(
	start, end time.Time,
	cfg leave.HalfDayConfig,
	excluded ExclusionSet,
	countAllDays bool,
) decimal.Decimal {
	if start.IsZero() || end.IsZero() {
		return decimal.Zero
	}

	first := atMidnightUTC(start)
	last := atMidnightUTC(end)
	if last.Before(first) {
		return decimal.Zero
	}

	total := decimal.Zero
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		if !countAllDays {
			if isWeekend(day) || excluded.Contains(day) {
				continue
			}
		}

		switch {
		case day.Equal(first) && cfg.Start.IsHalf():
			total = total.Add(halfDay)
		case day.Equal(last) && !day.Equal(first) && cfg.End.IsHalf():
			total = total.Add(halfDay)
		default:
			total = total.Add(fullDay)
		}
	}

	return total
}

// atMidnightUTC truncates to a UTC midnight so that day iteration does not
// drift across timezones or DST boundaries.
func atMidnightUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func isWeekend(day time.Time) bool {
	wd := day.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
