package scheduling

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"clinic-booking-server/internal/models"
	"clinic-booking-server/internal/repository"
)

// RosterEntry mirrors a user from the identity service. ID may be empty, in
// which case one is generated.
type RosterEntry struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	Role      string
}

// RegisterUser adds a doctor, patient or admin to the roster the booking
// core checks ids against.
func (s *Service) RegisterUser(ctx context.Context, in RosterEntry) (*models.User, error) {
	role, err := models.ParseRole(in.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: email %q is not valid", ErrInvalidInput, in.Email)
	}

	user := &models.User{
		Email:     email,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Role:      role,
	}
	user.ID = strings.TrimSpace(in.ID)

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: a user with this id or email already exists", ErrConflict)
		}
		return nil, s.fail("create user", err)
	}
	s.log.Info().Str("user_id", user.ID).Str("role", string(role)).Msg("roster entry registered")
	return user, nil
}

// ListUsers returns the roster entries with the given role.
func (s *Service) ListUsers(ctx context.Context, rawRole string) ([]models.User, error) {
	role, err := models.ParseRole(rawRole)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	users, err := s.repo.ListUsersByRole(ctx, role)
	if err != nil {
		return nil, s.fail("list users", err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// Profile returns the roster entry of actor.
func (s *Service) Profile(ctx context.Context, actor models.Actor) (*models.User, error) {
	return s.requireUser(ctx, actor.ID, actor.Role)
}
