package models

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// ActiveStatuses are the statuses that keep a slot occupied.
var ActiveStatuses = []AppointmentStatus{StatusPending, StatusConfirmed}

// Valid reports whether s is one of the known statuses.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsActive reports whether an appointment in this status occupies its slot.
func (s AppointmentStatus) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

// IsFinal reports whether no further transition is allowed.
func (s AppointmentStatus) IsFinal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Appointment represents a booked consultation slot
type Appointment struct {
	BaseModel
	DoctorID     string            `gorm:"size:36;not null;index:idx_appointments_doctor_time" json:"doctorId"`
	PatientID    string            `gorm:"size:36;not null;index" json:"patientId"`
	DateTime     time.Time         `gorm:"column:date_time;not null;index:idx_appointments_doctor_time" json:"dateTime"`
	Status       AppointmentStatus `gorm:"size:20;not null;default:'pending'" json:"status"`
	Modality     string            `gorm:"size:50" json:"modality"`
	PatientNotes string            `gorm:"type:text" json:"patientNotes"`
	DoctorNotes  string            `gorm:"type:text" json:"doctorNotes"`

	// ActiveSlot is set only while the appointment occupies its slot. The
	// unique index rejects a second active booking for the same doctor and
	// datetime; NULLs do not collide.
	ActiveSlot *string `gorm:"size:80;uniqueIndex" json:"-"`

	// Relations
	Patient User `gorm:"foreignKey:PatientID" json:"-"`
	Doctor  User `gorm:"foreignKey:DoctorID" json:"-"`
}

// SlotKey identifies a doctor's slot at a given minute.
func SlotKey(doctorID string, at time.Time) string {
	return doctorID + "|" + at.Format("2006-01-02T15:04:05")
}

// SetStatus changes the status and keeps ActiveSlot in sync with it.
func (a *Appointment) SetStatus(status AppointmentStatus) {
	a.Status = status
	if status.IsActive() {
		key := SlotKey(a.DoctorID, a.DateTime)
		a.ActiveSlot = &key
		return
	}
	a.ActiveSlot = nil
}
