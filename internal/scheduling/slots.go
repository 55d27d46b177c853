package scheduling

import (
	"sort"
	"time"

	"clinic-booking-server/internal/models"
)

// Slot is a bookable time of day.
type Slot struct {
	Time string `json:"time"`
}

// GenerateSlots lists the bookable times of day on date.
//
// Each block on date's weekday is walked from its start in steps of
// duration while the step start is before the block end, so a trailing
// slot may run past the end of the block. Times in occupied are skipped,
// and on the current day so is anything not strictly after now. Blocks are
// walked in start order; overlapping blocks emit their shared times twice.
func GenerateSlots(date time.Time, blocks []models.WeeklyBlock, duration time.Duration, occupied map[time.Duration]bool, now time.Time) []time.Duration {
	if duration <= 0 {
		duration = models.DefaultSlotDurationMinutes * time.Minute
	}

	day := midnight(date)
	today := midnight(now.In(day.Location()))
	if day.Before(today) {
		return nil
	}
	isToday := day.Equal(today)
	weekday := models.WeekdayOf(day)

	ordered := make([]models.WeeklyBlock, 0, len(blocks))
	for _, b := range blocks {
		if b.DayOfWeek == weekday {
			ordered = append(ordered, b)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].StartTime != ordered[j].StartTime {
			return ordered[i].StartTime < ordered[j].StartTime
		}
		return ordered[i].ID < ordered[j].ID
	})

	var slots []time.Duration
	for _, b := range ordered {
		for t := b.Start(); t < b.End(); t += duration {
			if occupied[t] {
				continue
			}
			if isToday && !at(day, t).After(now) {
				continue
			}
			slots = append(slots, t)
		}
	}
	return slots
}

// OccupiedTimes collects the times of day held by active appointments.
func OccupiedTimes(appts []models.Appointment) map[time.Duration]bool {
	occupied := make(map[time.Duration]bool, len(appts))
	for _, a := range appts {
		if a.Status.IsActive() {
			occupied[clockOf(a.DateTime)] = true
		}
	}
	return occupied
}

// BlockOverlap describes two blocks on the same day that share time.
type BlockOverlap struct {
	Day   string `json:"day"`
	First string `json:"first"`
	Other string `json:"other"`
}

// OverlappingBlocks reports each pair of same-day blocks whose intervals
// intersect. Blocks are expected in day/start order.
func OverlappingBlocks(blocks []models.WeeklyBlock) []BlockOverlap {
	var overlaps []BlockOverlap
	for i := range blocks {
		for j := i + 1; j < len(blocks); j++ {
			a, b := blocks[i], blocks[j]
			if a.DayOfWeek != b.DayOfWeek {
				continue
			}
			if a.Start() < b.End() && b.Start() < a.End() {
				overlaps = append(overlaps, BlockOverlap{
					Day:   a.DayOfWeek.Code(),
					First: FormatClock(a.Start()) + "-" + FormatClock(a.End()),
					Other: FormatClock(b.Start()) + "-" + FormatClock(b.End()),
				})
			}
		}
	}
	return overlaps
}
