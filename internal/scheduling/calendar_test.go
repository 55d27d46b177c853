package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"clinic-booking-server/internal/models"
)

func TestDaysWithAvailability_EmptyWeekdays(t *testing.T) {
	assert.Nil(t, DaysWithAvailability(nil, 2025, 2, wednesdayMorning))
	assert.Nil(t, DaysWithAvailability(map[models.Weekday]bool{}, 2025, 2, wednesdayMorning))
}

func TestDaysWithAvailability_FutureMonth(t *testing.T) {
	// February 2025 starts on a Saturday.
	days := DaysWithAvailability(map[models.Weekday]bool{models.Monday: true}, 2025, 2, wednesdayMorning)

	assert.Equal(t, []int{3, 10, 17, 24}, days)
}

func TestDaysWithAvailability_CurrentMonthFromToday(t *testing.T) {
	weekdays := map[models.Weekday]bool{models.Monday: true, models.Wednesday: true}

	days := DaysWithAvailability(weekdays, 2025, 1, wednesdayMorning)

	assert.Equal(t, []int{15, 20, 22, 27, 29}, days)
}

func TestDaysWithAvailability_DecemberRollover(t *testing.T) {
	// December 2025: Wednesdays fall on 3, 10, 17, 24 and 31.
	days := DaysWithAvailability(map[models.Weekday]bool{models.Wednesday: true}, 2025, 12, wednesdayMorning)

	assert.Equal(t, []int{3, 10, 17, 24, 31}, days)
}

func TestDaysWithAvailability_InvalidMonth(t *testing.T) {
	weekdays := map[models.Weekday]bool{models.Monday: true}

	assert.Empty(t, DaysWithAvailability(weekdays, 2025, 0, wednesdayMorning))
	assert.Empty(t, DaysWithAvailability(weekdays, 2025, 13, wednesdayMorning))
}

func TestDaysWithAvailability_PastMonth(t *testing.T) {
	days := DaysWithAvailability(map[models.Weekday]bool{models.Monday: true}, 2024, 12, wednesdayMorning)

	assert.Empty(t, days)
}
