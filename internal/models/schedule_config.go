package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultSlotDurationMinutes = 30
	DefaultModality            = "presencial"
)

// Modalities accepted for a consultation.
var Modalities = []string{"presencial", "virtual", "mixta"}

// ScheduleConfig holds per-doctor booking settings.
type ScheduleConfig struct {
	BaseModel
	DoctorID            string          `gorm:"size:36;not null;uniqueIndex" json:"doctorId"`
	SlotDurationMinutes int             `gorm:"not null;default:30" json:"slotDurationMinutes"`
	Modality            string          `gorm:"size:50;default:'presencial'" json:"modality"`
	ConsultationPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"consultationPrice"`

	Doctor User `gorm:"foreignKey:DoctorID" json:"-"`
}

// DefaultScheduleConfig returns the settings a doctor starts with.
func DefaultScheduleConfig(doctorID string) ScheduleConfig {
	return ScheduleConfig{
		DoctorID:            doctorID,
		SlotDurationMinutes: DefaultSlotDurationMinutes,
		Modality:            DefaultModality,
		ConsultationPrice:   decimal.Zero,
	}
}

// SlotDuration returns the slot length, falling back to the default for
// non-positive values.
func (c ScheduleConfig) SlotDuration() time.Duration {
	if c.SlotDurationMinutes <= 0 {
		return DefaultSlotDurationMinutes * time.Minute
	}
	return time.Duration(c.SlotDurationMinutes) * time.Minute
}
