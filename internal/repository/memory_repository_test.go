package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"clinic-booking-server/internal/models"
)

var _ Repository = (*MemoryRepository)(nil)
var _ Repository = (*GormRepository)(nil)

func block(doctorID string, day models.Weekday, startH, endH int) models.WeeklyBlock {
	return models.WeeklyBlock{
		DoctorID:  doctorID,
		DayOfWeek: day,
		StartTime: datatypes.NewTime(startH, 0, 0, 0),
		EndTime:   datatypes.NewTime(endH, 0, 0, 0),
	}
}

func TestMemoryRepository_TransactRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	require.NoError(t, repo.CreateBlocks(ctx, []models.WeeklyBlock{block("doc", models.Monday, 9, 12)}))

	boom := errors.New("boom")
	err := repo.Transact(ctx, func(tx Repository) error {
		require.NoError(t, tx.DeleteBlocks(ctx, "doc"))
		remaining, _ := tx.ListBlocks(ctx, "doc")
		assert.Empty(t, remaining)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	blocks, err := repo.ListBlocks(ctx, "doc")
	require.NoError(t, err)
	assert.Len(t, blocks, 1)
}

func TestMemoryRepository_TransactRollsBackOnPanic(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	require.NoError(t, repo.CreateBlocks(ctx, []models.WeeklyBlock{block("doc", models.Monday, 9, 12)}))

	assert.Panics(t, func() {
		_ = repo.Transact(ctx, func(tx Repository) error {
			_ = tx.DeleteBlocks(ctx, "doc")
			panic("half way")
		})
	})

	blocks, _ := repo.ListBlocks(ctx, "doc")
	assert.Len(t, blocks, 1)
}

func TestMemoryRepository_ListBlocksOrdered(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	require.NoError(t, repo.CreateBlocks(ctx, []models.WeeklyBlock{
		block("doc", models.Tuesday, 14, 16),
		block("doc", models.Monday, 14, 18),
		block("doc", models.Monday, 8, 12),
		block("other", models.Monday, 8, 12),
	}))

	blocks, err := repo.ListBlocks(ctx, "doc")
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	assert.Equal(t, models.Monday, blocks[0].DayOfWeek)
	assert.Equal(t, 8*time.Hour, blocks[0].Start())
	assert.Equal(t, 14*time.Hour, blocks[1].Start())
	assert.Equal(t, models.Tuesday, blocks[2].DayOfWeek)

	monday, err := repo.ListBlocksForDay(ctx, "doc", models.Monday)
	require.NoError(t, err)
	assert.Len(t, monday, 2)
}

func TestMemoryRepository_ActiveSlotIsUnique(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	at := time.Date(2025, 1, 20, 9, 0, 0, 0, time.Local)

	first := &models.Appointment{DoctorID: "doc", PatientID: "p1", DateTime: at}
	first.SetStatus(models.StatusPending)
	require.NoError(t, repo.CreateAppointment(ctx, first))

	second := &models.Appointment{DoctorID: "doc", PatientID: "p2", DateTime: at}
	second.SetStatus(models.StatusPending)
	assert.ErrorIs(t, repo.CreateAppointment(ctx, second), ErrDuplicate)

	// Cancelling the first frees the slot.
	first.SetStatus(models.StatusCancelled)
	require.NoError(t, repo.SaveAppointment(ctx, first))
	require.NoError(t, repo.CreateAppointment(ctx, second))
}

func TestMemoryRepository_ListAppointmentsFilter(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	day := time.Date(2025, 1, 20, 0, 0, 0, 0, time.Local)

	for i, status := range []models.AppointmentStatus{models.StatusPending, models.StatusCancelled, models.StatusConfirmed} {
		a := &models.Appointment{DoctorID: "doc", PatientID: "p", DateTime: day.Add(time.Duration(9+i) * time.Hour)}
		a.SetStatus(status)
		require.NoError(t, repo.CreateAppointment(ctx, a))
	}
	next := &models.Appointment{DoctorID: "doc", PatientID: "p", DateTime: day.AddDate(0, 0, 1).Add(9 * time.Hour)}
	next.SetStatus(models.StatusPending)
	require.NoError(t, repo.CreateAppointment(ctx, next))

	appts, err := repo.ListAppointments(ctx, AppointmentFilter{
		DoctorID: "doc",
		Statuses: models.ActiveStatuses,
		From:     day,
		To:       day.AddDate(0, 0, 1),
	})
	require.NoError(t, err)
	require.Len(t, appts, 2)
	assert.Equal(t, 9, appts[0].DateTime.Hour())
	assert.Equal(t, 11, appts[1].DateTime.Hour())
}

func TestMemoryRepository_ConfigAndUsers(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	_, err := repo.GetConfig(ctx, "doc")
	assert.ErrorIs(t, err, ErrNotFound)

	cfg := models.DefaultScheduleConfig("doc")
	require.NoError(t, repo.SaveConfig(ctx, &cfg))
	dup := models.DefaultScheduleConfig("doc")
	assert.ErrorIs(t, repo.SaveConfig(ctx, &dup), ErrDuplicate)

	cfg.SlotDurationMinutes = 20
	require.NoError(t, repo.SaveConfig(ctx, &cfg))
	got, err := repo.LockConfig(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, 20, got.SlotDurationMinutes)

	require.NoError(t, repo.CreateUser(ctx, &models.User{Email: "a@x.io", LastName: "B", Role: models.RoleDoctor}))
	require.NoError(t, repo.CreateUser(ctx, &models.User{Email: "b@x.io", LastName: "A", Role: models.RoleDoctor}))
	assert.ErrorIs(t, repo.CreateUser(ctx, &models.User{Email: "a@x.io"}), ErrDuplicate)

	doctors, err := repo.ListUsersByRole(ctx, models.RoleDoctor)
	require.NoError(t, err)
	require.Len(t, doctors, 2)
	assert.Equal(t, "A", doctors[0].LastName)
}
