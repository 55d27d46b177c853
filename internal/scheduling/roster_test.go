package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-booking-server/internal/models"
)

func TestService_RegisterUser(t *testing.T) {
	f := newFixture(t)

	user, err := f.svc.RegisterUser(f.ctx, RosterEntry{
		Email: " Carla@Clinic.test ", FirstName: "Carla", LastName: "Castro", Role: "Doctor",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "carla@clinic.test", user.Email)
	assert.Equal(t, models.RoleDoctor, user.Role)

	_, err = f.svc.RegisterUser(f.ctx, RosterEntry{Email: "carla@clinic.test", Role: "patient"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.svc.RegisterUser(f.ctx, RosterEntry{Email: "x@clinic.test", Role: "nurse"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.RegisterUser(f.ctx, RosterEntry{Email: "not-an-email", Role: "patient"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	doctors, err := f.svc.ListUsers(f.ctx, "doctor")
	require.NoError(t, err)
	require.Len(t, doctors, 2)
	assert.Equal(t, "Alvarez", doctors[0].LastName)
	assert.Equal(t, "Castro", doctors[1].LastName)

	admins, err := f.svc.ListUsers(f.ctx, "admin")
	require.NoError(t, err)
	assert.NotNil(t, admins)
	assert.Empty(t, admins)

	_, err = f.svc.ListUsers(f.ctx, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_Profile(t *testing.T) {
	f := newFixture(t)

	user, err := f.svc.Profile(f.ctx, f.doctor)
	require.NoError(t, err)
	assert.Equal(t, "Ana Alvarez", user.FullName())

	_, err = f.svc.Profile(f.ctx, models.Actor{ID: f.doctor.ID, Role: models.RolePatient})
	assert.ErrorIs(t, err, ErrNotFound)
}
