package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-booking-server/internal/models"
)

func TestService_AllAppointmentsNewestFirst(t *testing.T) {
	f := newFixture(t)
	f.mondayMornings(t)
	early := f.book(t, f.patient, "2025-01-20", "09:00")
	late := f.book(t, f.other, "2025-01-27", "11:00")
	middle := f.book(t, f.other, "2025-01-20", "11:00")

	all, err := f.svc.AllAppointments(f.ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{late.ID, middle.ID, early.ID}, []string{all[0].ID, all[1].ID, all[2].ID})

	empty, err := newFixture(t).svc.AllAppointments(f.ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestService_AppointmentLookup(t *testing.T) {
	f := newFixture(t)
	f.mondayMornings(t)
	appt := f.book(t, f.patient, "2025-01-20", "09:00")

	got, err := f.svc.Appointment(f.ctx, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, appt.PatientID, got.PatientID)

	_, err = f.svc.Appointment(f.ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.Appointment(f.ctx, " ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_ClinicStats(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ReplaceWeeklySchedule(f.ctx, f.doctor.ID, []DayScheduleInput{
		{Code: "lunes", Blocks: []BlockInput{{Start: "09:00", End: "12:00"}}},
		{Code: "miercoles", Blocks: []BlockInput{{Start: "09:00", End: "17:00"}}},
	})
	require.NoError(t, err)
	f.addUser(t, "adm-1", "Alba", "Admin", models.RoleAdmin)

	f.book(t, f.patient, "2025-01-15", "14:00")
	f.book(t, f.other, "2025-01-15", "15:00")
	monday := f.book(t, f.other, "2025-01-20", "09:00")
	_, err = f.svc.CancelAsPatient(f.ctx, monday.ID, f.other)
	require.NoError(t, err)

	earlier := &models.Appointment{
		DoctorID: f.doctor.ID, PatientID: f.patient.ID,
		DateTime: time.Date(2025, 1, 13, 9, 0, 0, 0, time.UTC),
	}
	earlier.SetStatus(models.StatusCompleted)
	require.NoError(t, f.repo.CreateAppointment(f.ctx, earlier))

	stats, err := f.svc.ClinicStats(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, &ClinicStats{
		Doctors:  1,
		Patients: 2,
		Today:    2,
		ByStatus: map[string]int{"pending": 2, "confirmed": 0, "completed": 1, "cancelled": 1},
	}, stats)
}
