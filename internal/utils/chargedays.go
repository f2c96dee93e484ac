package utils

import (
	"time"

	"toolrental-backend/internal/domain"
)

// ChargeDayCalculator counts billable days of a rental against a holiday calendar
type ChargeDayCalculator struct {
	holidays HolidayCalendar
}

// NewChargeDayCalculator returns a calculator using the given calendar, or the
// US observed calendar when nil
func NewChargeDayCalculator(holidays HolidayCalendar) *ChargeDayCalculator {
	if holidays == nil {
		holidays = USObservedHolidays
	}
	return &ChargeDayCalculator{holidays: holidays}
}

var defaultCalculator = NewChargeDayCalculator(USObservedHolidays)

// ChargeDays counts billable days using the US observed holiday calendar
func ChargeDays(checkoutDate, dueDate time.Time, policy domain.ChargePolicy) int {
	return defaultCalculator.ChargeDays(checkoutDate, dueDate, policy)
}

// ChargeDays counts the days in (checkoutDate, dueDate] whose weekday is billable
// under policy. The checkout day itself is never charged; the due date is.
// When holidays are not billable, every observed holiday inside the range that
// landed on a billable weekday is taken back out.
//
// dueDate must be after checkoutDate; the caller guarantees it.
func (c *ChargeDayCalculator) ChargeDays(checkoutDate, dueDate time.Time, policy domain.ChargePolicy) int {
	checkout := DateOf(checkoutDate)
	due := DateOf(dueDate)
	if !due.After(checkout) {
		panic("utils: due date must be after checkout date")
	}

	if !policy.Weekday && !policy.Weekend {
		return 0
	}
	billable := billableWeekdays(policy)

	chargeDays := 0
	for d := checkout.AddDate(0, 0, 1); !d.After(due); d = d.AddDate(0, 0, 1) {
		if billable[d.Weekday()] {
			chargeDays++
		}
	}

	if !policy.Holiday {
		for _, holiday := range HolidaysBetween(c.holidays, checkout, due) {
			if holiday.After(checkout) && !holiday.After(due) && billable[holiday.Weekday()] {
				chargeDays--
			}
		}
	}

	return chargeDays
}

func billableWeekdays(policy domain.ChargePolicy) [7]bool {
	var days [7]bool
	if policy.Weekday {
		for d := time.Monday; d <= time.Friday; d++ {
			days[d] = true
		}
	}
	if policy.Weekend {
		days[time.Saturday] = true
		days[time.Sunday] = true
	}
	return days
}
