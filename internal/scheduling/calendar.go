package scheduling

import (
	"time"

	"clinic-booking-server/internal/models"
)

// DaysWithAvailability returns the days of month that fall on one of
// weekdays and are not before today. Invalid year/month pairs yield nil.
func DaysWithAvailability(weekdays map[models.Weekday]bool, year, month int, today time.Time) []int {
	if len(weekdays) == 0 {
		return nil
	}
	if year < 1 || month < 1 || month > 12 {
		return nil
	}

	loc := today.Location()
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0)
	floor := midnight(today)

	var days []int
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		if d.Before(floor) {
			continue
		}
		if weekdays[models.WeekdayOf(d)] {
			days = append(days, d.Day())
		}
	}
	return days
}
