package request

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	fullDay = decimal.NewFromInt(1)
	halfDay = decimal.NewFromFloat(0.5)
)

func isWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func validDayPart(p string) bool {
	switch p {
	case DayPartFull, DayPartMorning, DayPartAfternoon:
		return true
	}
	return false
}

// CalculateTotalDays turns a date range plus start/end day parts into a
// half-day-resolution day count. Zero means the combination is invalid
// (end before start, or a single day ending before it starts, e.g.
// afternoon followed by morning).
//
// Weekends are excluded only on the days between the first and the last:
// a request that starts or ends on a weekend day still counts that day.
func CalculateTotalDays(startDate, endDate time.Time, startPart, endPart string) decimal.Decimal {
	if !validDayPart(startPart) || !validDayPart(endPart) {
		return decimal.Zero
	}
	if endDate.Before(startDate) {
		return decimal.Zero
	}

	if startDate.Equal(endDate) {
		return singleDay(startPart, endPart)
	}

	var total decimal.Decimal

	switch startPart {
	case DayPartAfternoon:
		total = total.Add(halfDay)
	default: // full day or morning start covers the whole first day
		total = total.Add(fullDay)
	}

	for d := startDate.AddDate(0, 0, 1); d.Before(endDate); d = d.AddDate(0, 0, 1) {
		if isWeekend(d) {
			continue
		}
		total = total.Add(fullDay)
	}

	switch endPart {
	case DayPartMorning:
		total = total.Add(halfDay)
	default: // full day or afternoon end covers the whole last day
		total = total.Add(fullDay)
	}

	return total
}

func singleDay(startPart, endPart string) decimal.Decimal {
	switch {
	case startPart == DayPartFull && endPart == DayPartFull:
		return fullDay
	case startPart == DayPartMorning && endPart == DayPartMorning:
		return halfDay
	case startPart == DayPartAfternoon && endPart == DayPartAfternoon:
		return halfDay
	case startPart == DayPartMorning && endPart == DayPartAfternoon:
		return fullDay
	}
	// afternoon → morning and the full/half mixes read backwards in time
	return decimal.Zero
}
