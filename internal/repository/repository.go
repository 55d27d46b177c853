package repository

import (
	"context"
	"errors"
	"time"

	"clinic-booking-server/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// AppointmentFilter narrows ListAppointments. Zero fields are ignored; From
// is inclusive and To exclusive.
type AppointmentFilter struct {
	DoctorID  string
	PatientID string
	Statuses  []models.AppointmentStatus
	From      time.Time
	To        time.Time
}

// Repository is the durable store behind the booking core. Every method
// takes a context; multi-step writes go through Transact, whose callback
// receives a Repository bound to the transaction.
type Repository interface {
	// Transact runs fn in a transaction. Returning an error (or panicking)
	// rolls back every write made through tx.
	Transact(ctx context.Context, fn func(tx Repository) error) error

	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	ListUsersByRole(ctx context.Context, role models.Role) ([]models.User, error)

	// ListBlocks returns a doctor's blocks ordered by day, start time and id.
	ListBlocks(ctx context.Context, doctorID string) ([]models.WeeklyBlock, error)
	ListBlocksForDay(ctx context.Context, doctorID string, day models.Weekday) ([]models.WeeklyBlock, error)
	DeleteBlocks(ctx context.Context, doctorID string) error
	CreateBlocks(ctx context.Context, blocks []models.WeeklyBlock) error

	GetConfig(ctx context.Context, doctorID string) (*models.ScheduleConfig, error)
	// LockConfig reads the config row and holds a write lock on it until the
	// surrounding transaction ends.
	LockConfig(ctx context.Context, doctorID string) (*models.ScheduleConfig, error)
	SaveConfig(ctx context.Context, cfg *models.ScheduleConfig) error

	GetAppointment(ctx context.Context, id string) (*models.Appointment, error)
	// ListAppointments returns matches ordered by datetime ascending.
	ListAppointments(ctx context.Context, filter AppointmentFilter) ([]models.Appointment, error)
	CreateAppointment(ctx context.Context, appt *models.Appointment) error
	SaveAppointment(ctx context.Context, appt *models.Appointment) error
}
