package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"clinic-booking-server/internal/models"
)

// MemoryRepository is an in-process Repository. A transaction holds the
// store mutex for its whole duration and works on a copy of the state that
// replaces the live state only when the callback succeeds.
type MemoryRepository struct {
	mu    sync.Mutex
	state *memoryState
}

// NewMemoryRepository returns an empty store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{state: newMemoryState()}
}

type memoryState struct {
	users        map[string]models.User
	blocks       map[string]models.WeeklyBlock
	configs      map[string]models.ScheduleConfig // keyed by doctor id
	appointments map[string]models.Appointment
	activeSlots  map[string]string // slot key -> appointment id
}

func newMemoryState() *memoryState {
	return &memoryState{
		users:        make(map[string]models.User),
		blocks:       make(map[string]models.WeeklyBlock),
		configs:      make(map[string]models.ScheduleConfig),
		appointments: make(map[string]models.Appointment),
		activeSlots:  make(map[string]string),
	}
}

func (s *memoryState) clone() *memoryState {
	c := newMemoryState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.blocks {
		c.blocks[k] = v
	}
	for k, v := range s.configs {
		c.configs[k] = v
	}
	for k, v := range s.appointments {
		c.appointments[k] = v
	}
	for k, v := range s.activeSlots {
		c.activeSlots[k] = v
	}
	return c
}

func (r *MemoryRepository) Transact(ctx context.Context, fn func(tx Repository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	staged := r.state.clone()
	if err := fn(&memoryTx{state: staged}); err != nil {
		return err
	}
	r.state = staged
	return nil
}

// view runs fn against the live state under the mutex.
func (r *MemoryRepository) view(fn func(tx *memoryTx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(&memoryTx{state: r.state})
}

func (r *MemoryRepository) CreateUser(ctx context.Context, user *models.User) error {
	return r.view(func(tx *memoryTx) error { return tx.CreateUser(ctx, user) })
}

func (r *MemoryRepository) GetUser(ctx context.Context, id string) (user *models.User, err error) {
	err = r.view(func(tx *memoryTx) error {
		user, err = tx.GetUser(ctx, id)
		return err
	})
	return user, err
}

func (r *MemoryRepository) ListUsersByRole(ctx context.Context, role models.Role) (users []models.User, err error) {
	err = r.view(func(tx *memoryTx) error {
		users, err = tx.ListUsersByRole(ctx, role)
		return err
	})
	return users, err
}

func (r *MemoryRepository) ListBlocks(ctx context.Context, doctorID string) (blocks []models.WeeklyBlock, err error) {
	err = r.view(func(tx *memoryTx) error {
		blocks, err = tx.ListBlocks(ctx, doctorID)
		return err
	})
	return blocks, err
}

func (r *MemoryRepository) ListBlocksForDay(ctx context.Context, doctorID string, day models.Weekday) (blocks []models.WeeklyBlock, err error) {
	err = r.view(func(tx *memoryTx) error {
		blocks, err = tx.ListBlocksForDay(ctx, doctorID, day)
		return err
	})
	return blocks, err
}

func (r *MemoryRepository) DeleteBlocks(ctx context.Context, doctorID string) error {
	return r.view(func(tx *memoryTx) error { return tx.DeleteBlocks(ctx, doctorID) })
}

func (r *MemoryRepository) CreateBlocks(ctx context.Context, blocks []models.WeeklyBlock) error {
	return r.view(func(tx *memoryTx) error { return tx.CreateBlocks(ctx, blocks) })
}

func (r *MemoryRepository) GetConfig(ctx context.Context, doctorID string) (cfg *models.ScheduleConfig, err error) {
	err = r.view(func(tx *memoryTx) error {
		cfg, err = tx.GetConfig(ctx, doctorID)
		return err
	})
	return cfg, err
}

func (r *MemoryRepository) LockConfig(ctx context.Context, doctorID string) (*models.ScheduleConfig, error) {
	return r.GetConfig(ctx, doctorID)
}

func (r *MemoryRepository) SaveConfig(ctx context.Context, cfg *models.ScheduleConfig) error {
	return r.view(func(tx *memoryTx) error { return tx.SaveConfig(ctx, cfg) })
}

func (r *MemoryRepository) GetAppointment(ctx context.Context, id string) (appt *models.Appointment, err error) {
	err = r.view(func(tx *memoryTx) error {
		appt, err = tx.GetAppointment(ctx, id)
		return err
	})
	return appt, err
}

func (r *MemoryRepository) ListAppointments(ctx context.Context, filter AppointmentFilter) (appts []models.Appointment, err error) {
	err = r.view(func(tx *memoryTx) error {
		appts, err = tx.ListAppointments(ctx, filter)
		return err
	})
	return appts, err
}

func (r *MemoryRepository) CreateAppointment(ctx context.Context, appt *models.Appointment) error {
	return r.view(func(tx *memoryTx) error { return tx.CreateAppointment(ctx, appt) })
}

func (r *MemoryRepository) SaveAppointment(ctx context.Context, appt *models.Appointment) error {
	return r.view(func(tx *memoryTx) error { return tx.SaveAppointment(ctx, appt) })
}

// memoryTx operates on a state the caller already holds the mutex for.
type memoryTx struct {
	state *memoryState
}

func stamp(base *models.BaseModel) {
	now := time.Now()
	if base.ID == "" {
		base.ID = uuid.New().String()
	}
	if base.CreatedAt.IsZero() {
		base.CreatedAt = now
	}
	base.UpdatedAt = now
}

// Transact on an open transaction joins it.
func (tx *memoryTx) Transact(ctx context.Context, fn func(tx Repository) error) error {
	return fn(tx)
}

func (tx *memoryTx) CreateUser(_ context.Context, user *models.User) error {
	if user.ID != "" {
		if _, exists := tx.state.users[user.ID]; exists {
			return ErrDuplicate
		}
	}
	for _, u := range tx.state.users {
		if u.Email == user.Email {
			return ErrDuplicate
		}
	}
	stamp(&user.BaseModel)
	tx.state.users[user.ID] = *user
	return nil
}

func (tx *memoryTx) GetUser(_ context.Context, id string) (*models.User, error) {
	u, ok := tx.state.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (tx *memoryTx) ListUsersByRole(_ context.Context, role models.Role) ([]models.User, error) {
	var users []models.User
	for _, u := range tx.state.users {
		if u.Role == role {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].LastName != users[j].LastName {
			return users[i].LastName < users[j].LastName
		}
		if users[i].FirstName != users[j].FirstName {
			return users[i].FirstName < users[j].FirstName
		}
		return users[i].ID < users[j].ID
	})
	return users, nil
}

func sortBlocks(blocks []models.WeeklyBlock) {
	sort.Slice(blocks, func(i, j int) bool {
		a, b := blocks[i], blocks[j]
		if a.DayOfWeek != b.DayOfWeek {
			return a.DayOfWeek < b.DayOfWeek
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.ID < b.ID
	})
}

func (tx *memoryTx) ListBlocks(_ context.Context, doctorID string) ([]models.WeeklyBlock, error) {
	var blocks []models.WeeklyBlock
	for _, b := range tx.state.blocks {
		if b.DoctorID == doctorID {
			blocks = append(blocks, b)
		}
	}
	sortBlocks(blocks)
	return blocks, nil
}

func (tx *memoryTx) ListBlocksForDay(ctx context.Context, doctorID string, day models.Weekday) ([]models.WeeklyBlock, error) {
	all, _ := tx.ListBlocks(ctx, doctorID)
	var blocks []models.WeeklyBlock
	for _, b := range all {
		if b.DayOfWeek == day {
			blocks = append(blocks, b)
		}
	}
	return blocks, nil
}

func (tx *memoryTx) DeleteBlocks(_ context.Context, doctorID string) error {
	for id, b := range tx.state.blocks {
		if b.DoctorID == doctorID {
			delete(tx.state.blocks, id)
		}
	}
	return nil
}

func (tx *memoryTx) CreateBlocks(_ context.Context, blocks []models.WeeklyBlock) error {
	for i := range blocks {
		stamp(&blocks[i].BaseModel)
		tx.state.blocks[blocks[i].ID] = blocks[i]
	}
	return nil
}

func (tx *memoryTx) GetConfig(_ context.Context, doctorID string) (*models.ScheduleConfig, error) {
	cfg, ok := tx.state.configs[doctorID]
	if !ok {
		return nil, ErrNotFound
	}
	return &cfg, nil
}

func (tx *memoryTx) LockConfig(ctx context.Context, doctorID string) (*models.ScheduleConfig, error) {
	return tx.GetConfig(ctx, doctorID)
}

func (tx *memoryTx) SaveConfig(_ context.Context, cfg *models.ScheduleConfig) error {
	existing, ok := tx.state.configs[cfg.DoctorID]
	if cfg.ID == "" && ok {
		return ErrDuplicate
	}
	if cfg.ID != "" && ok && existing.ID != cfg.ID {
		return ErrDuplicate
	}
	stamp(&cfg.BaseModel)
	tx.state.configs[cfg.DoctorID] = *cfg
	return nil
}

func (tx *memoryTx) GetAppointment(_ context.Context, id string) (*models.Appointment, error) {
	a, ok := tx.state.appointments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (tx *memoryTx) ListAppointments(_ context.Context, filter AppointmentFilter) ([]models.Appointment, error) {
	var appts []models.Appointment
	for _, a := range tx.state.appointments {
		if filter.DoctorID != "" && a.DoctorID != filter.DoctorID {
			continue
		}
		if filter.PatientID != "" && a.PatientID != filter.PatientID {
			continue
		}
		if len(filter.Statuses) > 0 && !hasStatus(filter.Statuses, a.Status) {
			continue
		}
		if !filter.From.IsZero() && a.DateTime.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && !a.DateTime.Before(filter.To) {
			continue
		}
		appts = append(appts, a)
	}
	sort.Slice(appts, func(i, j int) bool {
		if !appts[i].DateTime.Equal(appts[j].DateTime) {
			return appts[i].DateTime.Before(appts[j].DateTime)
		}
		return appts[i].ID < appts[j].ID
	})
	return appts, nil
}

func hasStatus(statuses []models.AppointmentStatus, s models.AppointmentStatus) bool {
	for _, candidate := range statuses {
		if candidate == s {
			return true
		}
	}
	return false
}

func (tx *memoryTx) claimSlot(appt *models.Appointment) error {
	if appt.ActiveSlot == nil {
		return nil
	}
	if owner, taken := tx.state.activeSlots[*appt.ActiveSlot]; taken && owner != appt.ID {
		return ErrDuplicate
	}
	return nil
}

func (tx *memoryTx) CreateAppointment(_ context.Context, appt *models.Appointment) error {
	if appt.ID != "" {
		if _, exists := tx.state.appointments[appt.ID]; exists {
			return ErrDuplicate
		}
	}
	stamp(&appt.BaseModel)
	if err := tx.claimSlot(appt); err != nil {
		return err
	}
	tx.state.appointments[appt.ID] = *appt
	if appt.ActiveSlot != nil {
		tx.state.activeSlots[*appt.ActiveSlot] = appt.ID
	}
	return nil
}

func (tx *memoryTx) SaveAppointment(_ context.Context, appt *models.Appointment) error {
	prev, ok := tx.state.appointments[appt.ID]
	if !ok {
		return ErrNotFound
	}
	if err := tx.claimSlot(appt); err != nil {
		return err
	}
	if prev.ActiveSlot != nil {
		delete(tx.state.activeSlots, *prev.ActiveSlot)
	}
	stamp(&appt.BaseModel)
	tx.state.appointments[appt.ID] = *appt
	if appt.ActiveSlot != nil {
		tx.state.activeSlots[*appt.ActiveSlot] = appt.ID
	}
	return nil
}
