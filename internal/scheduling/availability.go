package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"clinic-booking-server/internal/models"
	"clinic-booking-server/internal/repository"
)

// slotDuration reads the doctor's slot length without creating a config.
func slotDuration(ctx context.Context, repo repository.Repository, doctorID string) (time.Duration, error) {
	cfg, err := repo.GetConfig(ctx, doctorID)
	if errors.Is(err, repository.ErrNotFound) {
		return models.DefaultSlotDurationMinutes * time.Minute, nil
	}
	if err != nil {
		return 0, err
	}
	return cfg.SlotDuration(), nil
}

// openSlots computes the free slots of a doctor on day using repo, which
// may be a transaction.
func openSlots(ctx context.Context, repo repository.Repository, doctorID string, day time.Time, duration time.Duration, now time.Time) ([]time.Duration, map[time.Duration]bool, error) {
	blocks, err := repo.ListBlocksForDay(ctx, doctorID, models.WeekdayOf(day))
	if err != nil {
		return nil, nil, err
	}
	if len(blocks) == 0 {
		return nil, nil, nil
	}

	booked, err := repo.ListAppointments(ctx, repository.AppointmentFilter{
		DoctorID: doctorID,
		Statuses: models.ActiveStatuses,
		From:     day,
		To:       day.AddDate(0, 0, 1),
	})
	if err != nil {
		return nil, nil, err
	}

	occupied := OccupiedTimes(booked)
	return GenerateSlots(day, blocks, duration, occupied, now), occupied, nil
}

// AvailableSlots returns the bookable times for a doctor on date (YYYY-MM-DD).
// A doctor without blocks on that weekday has no slots; that is not an error.
func (s *Service) AvailableSlots(ctx context.Context, doctorID, date string) ([]Slot, error) {
	if err := requireID("doctor id", doctorID); err != nil {
		return nil, err
	}
	day, err := ParseDate(date, s.loc)
	if err != nil {
		return nil, err
	}

	duration, err := slotDuration(ctx, s.repo, doctorID)
	if err != nil {
		return nil, s.fail("get config", err)
	}

	times, _, err := openSlots(ctx, s.repo, doctorID, day, duration, s.clock())
	if err != nil {
		return nil, s.fail("compute slots", err)
	}

	slots := make([]Slot, 0, len(times))
	for _, t := range times {
		slots = append(slots, Slot{Time: FormatClock(t)})
	}
	return slots, nil
}

func (s *Service) scheduledWeekdays(ctx context.Context, doctorID string) (map[models.Weekday]bool, error) {
	blocks, err := s.repo.ListBlocks(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	weekdays := make(map[models.Weekday]bool, 7)
	for _, b := range blocks {
		weekdays[b.DayOfWeek] = true
	}
	return weekdays, nil
}

// MonthAvailability returns the days of the month on which the doctor has at
// least one weekly block, from today onwards.
func (s *Service) MonthAvailability(ctx context.Context, doctorID string, year, month int) ([]int, error) {
	if err := requireID("doctor id", doctorID); err != nil {
		return nil, err
	}
	weekdays, err := s.scheduledWeekdays(ctx, doctorID)
	if err != nil {
		return nil, s.fail("list blocks", err)
	}
	days := DaysWithAvailability(weekdays, year, month, s.clock())
	if days == nil {
		days = []int{}
	}
	return days, nil
}

// DoctorListing is a doctor as shown to patients choosing whom to book.
type DoctorListing struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Email             string          `json:"email"`
	Modality          string          `json:"modality"`
	ConsultationPrice decimal.Decimal `json:"consultationPrice"`
	AvailableDays     []int           `json:"availableDays"`
}

// DoctorDirectory lists every doctor with their booking settings and the
// days of the given month they take appointments. A zero year or month means
// the current one.
func (s *Service) DoctorDirectory(ctx context.Context, year, month int) ([]DoctorListing, error) {
	now := s.clock()
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month must be 1-12", ErrInvalidInput)
	}

	doctors, err := s.repo.ListUsersByRole(ctx, models.RoleDoctor)
	if err != nil {
		return nil, s.fail("list doctors", err)
	}

	listings := make([]DoctorListing, 0, len(doctors))
	for _, d := range doctors {
		cfg := models.DefaultScheduleConfig(d.ID)
		stored, err := s.repo.GetConfig(ctx, d.ID)
		switch {
		case err == nil:
			cfg = *stored
		case !errors.Is(err, repository.ErrNotFound):
			return nil, s.fail("get config", err)
		}

		days, err := s.MonthAvailability(ctx, d.ID, year, month)
		if err != nil {
			return nil, err
		}

		listings = append(listings, DoctorListing{
			ID:                d.ID,
			Name:              d.FullName(),
			Email:             d.Email,
			Modality:          cfg.Modality,
			ConsultationPrice: cfg.ConsultationPrice,
			AvailableDays:     days,
		})
	}
	return listings, nil
}
