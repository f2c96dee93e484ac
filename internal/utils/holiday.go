package utils

import (
	"sort"
	"time"

	cal "github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
)

// HolidayCalendar yields the observed holiday dates for a single calendar year
type HolidayCalendar interface {
	ObservedHolidays(year int) []time.Time
}

// ObservedCalendar is a HolidayCalendar backed by rickar/cal holiday definitions.
// Each holiday contributes its observed date (weekend shifts applied).
type ObservedCalendar struct {
	holidays []*cal.Holiday
}

// NewObservedCalendar builds a calendar from the given holiday definitions
func NewObservedCalendar(holidays ...*cal.Holiday) *ObservedCalendar {
	return &ObservedCalendar{holidays: holidays}
}

// USObservedHolidays is the store calendar: Independence Day (Saturday observed
// on Friday, Sunday observed on Monday) and Labor Day (first Monday of September).
var USObservedHolidays HolidayCalendar = NewObservedCalendar(us.IndependenceDay, us.LaborDay)

// ObservedHolidays returns the observed dates for year, one per holiday definition
func (c *ObservedCalendar) ObservedHolidays(year int) []time.Time {
	dates := make([]time.Time, 0, len(c.holidays))
	for _, h := range c.holidays {
		_, observed := h.Calc(year)
		if observed.IsZero() {
			// definition not in effect for this year
			continue
		}
		dates = append(dates, DateOf(observed))
	}
	return dates
}

// HolidaysBetween generates the observed holidays of every calendar year touched by
// [start, end], so a span crossing a year boundary gets each year's holidays once.
// Dates are deduplicated and sorted; callers still filter by the exact range.
func HolidaysBetween(calendar HolidayCalendar, start, end time.Time) []time.Time {
	seen := make(map[time.Time]struct{})
	var dates []time.Time
	for year := start.Year(); year <= end.Year(); year++ {
		for _, d := range calendar.ObservedHolidays(year) {
			if _, dup := seen[d]; dup {
				continue
			}
			seen[d] = struct{}{}
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
