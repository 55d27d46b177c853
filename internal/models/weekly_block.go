package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Weekday numbers days from Monday=0 to Sunday=6.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayCodes = [...]string{"lunes", "martes", "miercoles", "jueves", "viernes", "sabado", "domingo"}
var weekdayNames = [...]string{"Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado", "Domingo"}

var dayCodeLookup = map[string]Weekday{
	"lunes": Monday, "martes": Tuesday, "miercoles": Wednesday, "jueves": Thursday,
	"viernes": Friday, "sabado": Saturday, "domingo": Sunday,
	"monday": Monday, "tuesday": Tuesday, "wednesday": Wednesday, "thursday": Thursday,
	"friday": Friday, "saturday": Saturday, "sunday": Sunday,
}

// WeekdayOf returns the Monday-based weekday of t.
func WeekdayOf(t time.Time) Weekday {
	return Weekday((int(t.Weekday()) + 6) % 7)
}

// ParseDayCode resolves a day code such as "lunes" or "monday".
func ParseDayCode(code string) (Weekday, bool) {
	d, ok := dayCodeLookup[strings.ToLower(strings.TrimSpace(code))]
	return d, ok
}

// Valid reports whether d is within Monday..Sunday.
func (d Weekday) Valid() bool {
	return d >= Monday && d <= Sunday
}

// Code returns the day code used by the schedule editor.
func (d Weekday) Code() string {
	if !d.Valid() {
		return ""
	}
	return weekdayCodes[d]
}

// Name returns the display name of the day.
func (d Weekday) Name() string {
	if !d.Valid() {
		return ""
	}
	return weekdayNames[d]
}

// WeeklyBlock is a recurring interval in which a doctor takes appointments.
type WeeklyBlock struct {
	BaseModel
	DoctorID  string         `gorm:"size:36;not null;index:idx_weekly_blocks_doctor_day" json:"doctorId"`
	DayOfWeek Weekday        `gorm:"not null;index:idx_weekly_blocks_doctor_day" json:"dayOfWeek"`
	StartTime datatypes.Time `gorm:"not null" json:"startTime"`
	EndTime   datatypes.Time `gorm:"not null" json:"endTime"`

	Doctor User `gorm:"foreignKey:DoctorID" json:"-"`
}

// Start returns the block start as an offset from midnight.
func (b WeeklyBlock) Start() time.Duration {
	return time.Duration(b.StartTime)
}

// End returns the block end as an offset from midnight.
func (b WeeklyBlock) End() time.Duration {
	return time.Duration(b.EndTime)
}
