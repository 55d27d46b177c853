package scheduling

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"clinic-booking-server/internal/models"
	"clinic-booking-server/internal/repository"
)

// Service implements availability, schedule editing and booking on top of a
// Repository.
type Service struct {
	repo repository.Repository
	log  zerolog.Logger
	now  func() time.Time
	loc  *time.Location
}

// Option customises a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the timezone dates are interpreted in.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

// NewService creates a Service.
func NewService(repo repository.Repository, log zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		repo: repo,
		log:  log.With().Str("component", "scheduling").Logger(),
		now:  time.Now,
		loc:  time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) clock() time.Time {
	return s.now().In(s.loc)
}

// fail converts a repository error into a service error. Domain errors pass
// through untouched, a missing record becomes ErrNotFound and anything else
// is logged and reported as ErrPersistence.
func (s *Service) fail(op string, err error) error {
	if err == nil {
		return nil
	}
	if isDomainError(err) {
		return err
	}
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, op)
	}
	s.log.Error().Err(err).Str("op", op).Msg("store operation failed")
	return fmt.Errorf("%w: %s", ErrPersistence, op)
}

func requireID(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidInput, name)
	}
	return nil
}

// requireUser loads a user and checks its role. Unknown ids and role
// mismatches are both reported as ErrNotFound.
func (s *Service) requireUser(ctx context.Context, id string, role models.Role) (*models.User, error) {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s %s", ErrNotFound, role, id)
		}
		return nil, s.fail("get user", err)
	}
	if user.Role != role {
		return nil, fmt.Errorf("%w: %s %s", ErrNotFound, role, id)
	}
	return user, nil
}

// ensureConfig returns the doctor's config, creating the defaults on first
// access. A concurrent first access may win the insert; the row is re-read
// in that case.
func (s *Service) ensureConfig(ctx context.Context, doctorID string) (*models.ScheduleConfig, error) {
	cfg, err := s.repo.GetConfig(ctx, doctorID)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, s.fail("get config", err)
	}

	fresh := models.DefaultScheduleConfig(doctorID)
	if err := s.repo.SaveConfig(ctx, &fresh); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			cfg, err = s.repo.GetConfig(ctx, doctorID)
			return cfg, s.fail("get config", err)
		}
		return nil, s.fail("create config", err)
	}
	s.log.Info().Str("doctor_id", doctorID).Msg("created default schedule config")
	return &fresh, nil
}
