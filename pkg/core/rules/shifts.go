package rules

import "github.com/servicodocente/dsd/pkg/core/model"

// DayShifts is the number of shifts a teacher works on one day
type DayShifts struct {
	Day    model.Weekday
	Shifts int
}

// CountShifts counts contiguous shifts in a day's blocks, which must be sorted by start time.
// The first block opens shift 1; every gap of at least gapThreshold minutes after the
// latest end seen so far opens another, so blocks nested inside longer ones never split a shift.
func CountShifts(day []TimedBlock, gapThreshold int) int {
	if len(day) == 0 {
		return 0
	}

	shifts := 1
	latestEnd := day[0].EndMinute
	for _, b := range day[1:] {
		if b.StartMinute-latestEnd >= gapThreshold {
			shifts++
		}
		latestEnd = max(latestEnd, b.EndMinute)
	}
	return shifts
}

// ShiftViolations returns the days, in weekday order, with more than maxPerDay shifts
func ShiftViolations(perDay map[model.Weekday][]TimedBlock, gapThreshold, maxPerDay int) []DayShifts {
	var violations []DayShifts
	for day := model.Monday; day <= model.Saturday; day++ {
		blocks, ok := perDay[day]
		if !ok {
			continue
		}
		if shifts := CountShifts(blocks, gapThreshold); shifts > maxPerDay {
			violations = append(violations, DayShifts{Day: day, Shifts: shifts})
		}
	}
	return violations
}
