package scheduling

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"clinic-booking-server/internal/models"
	"clinic-booking-server/internal/repository"
)

// BlockInput is one interval of a day, as "HH:MM" strings.
type BlockInput struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DayScheduleInput is one day of a weekly schedule submission. The day is
// identified by Code ("lunes", "monday", ...) or, when Code is empty, by Day
// (Monday=0). A nil Active counts as active.
type DayScheduleInput struct {
	Code   string       `json:"code"`
	Day    *int         `json:"day"`
	Active *bool        `json:"active"`
	Blocks []BlockInput `json:"blocks"`
}

// ReplaceResult summarises a stored weekly schedule.
type ReplaceResult struct {
	Blocks   int            `json:"blocks"`
	Overlaps []BlockOverlap `json:"overlaps,omitempty"`
}

func (d DayScheduleInput) weekday() (models.Weekday, bool) {
	if d.Code != "" {
		return models.ParseDayCode(d.Code)
	}
	if d.Day != nil && models.Weekday(*d.Day).Valid() {
		return models.Weekday(*d.Day), true
	}
	return 0, false
}

// buildBlocks turns a submission into blocks. Inactive days, unknown day
// codes and blocks that are blank, malformed or not strictly increasing are
// skipped.
func buildBlocks(doctorID string, days []DayScheduleInput) []models.WeeklyBlock {
	var blocks []models.WeeklyBlock
	for _, day := range days {
		if day.Active != nil && !*day.Active {
			continue
		}
		weekday, ok := day.weekday()
		if !ok {
			continue
		}
		for _, in := range day.Blocks {
			if strings.TrimSpace(in.Start) == "" || strings.TrimSpace(in.End) == "" {
				continue
			}
			start, err := ParseClock(strings.TrimSpace(in.Start))
			if err != nil {
				continue
			}
			end, err := ParseClock(strings.TrimSpace(in.End))
			if err != nil {
				continue
			}
			if end <= start {
				continue
			}
			blocks = append(blocks, models.WeeklyBlock{
				DoctorID:  doctorID,
				DayOfWeek: weekday,
				StartTime: datatypes.Time(start),
				EndTime:   datatypes.Time(end),
			})
		}
	}
	sort.SliceStable(blocks, func(i, j int) bool {
		if blocks[i].DayOfWeek != blocks[j].DayOfWeek {
			return blocks[i].DayOfWeek < blocks[j].DayOfWeek
		}
		return blocks[i].StartTime < blocks[j].StartTime
	})
	return blocks
}

// ReplaceWeeklySchedule swaps the doctor's whole set of weekly blocks for
// the valid blocks in days. The delete and insert run in one transaction, so
// readers see either the old set or the new one.
func (s *Service) ReplaceWeeklySchedule(ctx context.Context, doctorID string, days []DayScheduleInput) (*ReplaceResult, error) {
	if err := requireID("doctor id", doctorID); err != nil {
		return nil, err
	}
	if _, err := s.requireUser(ctx, doctorID, models.RoleDoctor); err != nil {
		return nil, err
	}

	blocks := buildBlocks(doctorID, days)

	err := s.repo.Transact(ctx, func(tx repository.Repository) error {
		if err := tx.DeleteBlocks(ctx, doctorID); err != nil {
			return err
		}
		return tx.CreateBlocks(ctx, blocks)
	})
	if err != nil {
		return nil, s.fail("replace weekly schedule", err)
	}

	result := &ReplaceResult{Blocks: len(blocks), Overlaps: OverlappingBlocks(blocks)}
	evt := s.log.Info()
	if len(result.Overlaps) > 0 {
		evt = s.log.Warn().Int("overlaps", len(result.Overlaps))
	}
	evt.Str("doctor_id", doctorID).Int("blocks", len(blocks)).Msg("weekly schedule replaced")
	return result, nil
}

// DaySchedule is one day of a doctor's weekly schedule as shown in the
// editor.
type DaySchedule struct {
	Code   string       `json:"code"`
	Name   string       `json:"name"`
	Day    int          `json:"day"`
	Active bool         `json:"active"`
	Blocks []BlockInput `json:"blocks"`
}

var defaultEditorBlock = BlockInput{Start: "09:00", End: "17:00"}

// WeeklySchedule returns Monday..Sunday for the doctor. Days without blocks
// are inactive and carry a 09:00-17:00 suggestion.
func (s *Service) WeeklySchedule(ctx context.Context, doctorID string) ([]DaySchedule, error) {
	if err := requireID("doctor id", doctorID); err != nil {
		return nil, err
	}
	blocks, err := s.repo.ListBlocks(ctx, doctorID)
	if err != nil {
		return nil, s.fail("list blocks", err)
	}

	week := make([]DaySchedule, 7)
	for d := models.Monday; d <= models.Sunday; d++ {
		week[d] = DaySchedule{Code: d.Code(), Name: d.Name(), Day: int(d)}
	}
	for _, b := range blocks {
		if !b.DayOfWeek.Valid() {
			continue
		}
		day := &week[b.DayOfWeek]
		day.Active = true
		day.Blocks = append(day.Blocks, BlockInput{Start: FormatClock(b.Start()), End: FormatClock(b.End())})
	}
	for i := range week {
		if !week[i].Active {
			week[i].Blocks = []BlockInput{defaultEditorBlock}
		}
	}
	return week, nil
}

// GetConfig returns the doctor's booking settings, creating the defaults on
// first access.
func (s *Service) GetConfig(ctx context.Context, doctorID string) (*models.ScheduleConfig, error) {
	if err := requireID("doctor id", doctorID); err != nil {
		return nil, err
	}
	return s.ensureConfig(ctx, doctorID)
}

// ConfigInput carries new booking settings. Zero duration and empty
// modality fall back to the defaults.
type ConfigInput struct {
	DurationMinutes int             `json:"durationMinutes"`
	Modality        string          `json:"modality"`
	Price           decimal.Decimal `json:"price"`
}

const maxSlotDurationMinutes = 8 * 60

func isModality(m string) bool {
	for _, known := range models.Modalities {
		if m == known {
			return true
		}
	}
	return false
}

// UpdateConfig validates and stores the doctor's booking settings.
func (s *Service) UpdateConfig(ctx context.Context, doctorID string, in ConfigInput) (*models.ScheduleConfig, error) {
	if err := requireID("doctor id", doctorID); err != nil {
		return nil, err
	}
	if in.DurationMinutes == 0 {
		in.DurationMinutes = models.DefaultSlotDurationMinutes
	}
	if in.DurationMinutes < 1 || in.DurationMinutes > maxSlotDurationMinutes {
		return nil, fmt.Errorf("%w: duration must be between 1 and %d minutes", ErrInvalidInput, maxSlotDurationMinutes)
	}
	in.Modality = strings.ToLower(strings.TrimSpace(in.Modality))
	if in.Modality == "" {
		in.Modality = models.DefaultModality
	}
	if !isModality(in.Modality) {
		return nil, fmt.Errorf("%w: modality must be one of %s", ErrInvalidInput, strings.Join(models.Modalities, ", "))
	}
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	if _, err := s.requireUser(ctx, doctorID, models.RoleDoctor); err != nil {
		return nil, err
	}

	cfg, err := s.ensureConfig(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	cfg.SlotDurationMinutes = in.DurationMinutes
	cfg.Modality = in.Modality
	cfg.ConsultationPrice = in.Price.Round(2)
	if err := s.repo.SaveConfig(ctx, cfg); err != nil {
		return nil, s.fail("save config", err)
	}

	s.log.Info().Str("doctor_id", doctorID).Int("duration_minutes", cfg.SlotDurationMinutes).Msg("schedule config updated")
	return cfg, nil
}
