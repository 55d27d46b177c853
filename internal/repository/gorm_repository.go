package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"clinic-booking-server/internal/models"
)

// GormRepository implements Repository on a relational database.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository wraps an open gorm connection.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

func (r *GormRepository) Transact(ctx context.Context, fn func(tx Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepository{db: tx})
	})
}

func (r *GormRepository) CreateUser(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *GormRepository) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *GormRepository) ListUsersByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Where("role = ?", role).Order("last_name asc, first_name asc").Find(&users).Error
	return users, translate(err)
}

func (r *GormRepository) ListBlocks(ctx context.Context, doctorID string) ([]models.WeeklyBlock, error) {
	var blocks []models.WeeklyBlock
	err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("day_of_week asc, start_time asc, id asc").
		Find(&blocks).Error
	return blocks, translate(err)
}

func (r *GormRepository) ListBlocksForDay(ctx context.Context, doctorID string, day models.Weekday) ([]models.WeeklyBlock, error) {
	var blocks []models.WeeklyBlock
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND day_of_week = ?", doctorID, day).
		Order("start_time asc, id asc").
		Find(&blocks).Error
	return blocks, translate(err)
}

func (r *GormRepository) DeleteBlocks(ctx context.Context, doctorID string) error {
	return translate(r.db.WithContext(ctx).Where("doctor_id = ?", doctorID).Delete(&models.WeeklyBlock{}).Error)
}

func (r *GormRepository) CreateBlocks(ctx context.Context, blocks []models.WeeklyBlock) error {
	if len(blocks) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(&blocks).Error)
}

func (r *GormRepository) GetConfig(ctx context.Context, doctorID string) (*models.ScheduleConfig, error) {
	var cfg models.ScheduleConfig
	if err := r.db.WithContext(ctx).Where("doctor_id = ?", doctorID).First(&cfg).Error; err != nil {
		return nil, translate(err)
	}
	return &cfg, nil
}

func (r *GormRepository) LockConfig(ctx context.Context, doctorID string) (*models.ScheduleConfig, error) {
	var cfg models.ScheduleConfig
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("doctor_id = ?", doctorID).
		First(&cfg).Error
	if err != nil {
		return nil, translate(err)
	}
	return &cfg, nil
}

func (r *GormRepository) SaveConfig(ctx context.Context, cfg *models.ScheduleConfig) error {
	db := r.db.WithContext(ctx).Omit(clause.Associations)
	if cfg.ID == "" {
		return translate(db.Create(cfg).Error)
	}
	return translate(db.Save(cfg).Error)
}

func (r *GormRepository) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	var appt models.Appointment
	if err := r.db.WithContext(ctx).First(&appt, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &appt, nil
}

func (r *GormRepository) ListAppointments(ctx context.Context, filter AppointmentFilter) ([]models.Appointment, error) {
	query := r.db.WithContext(ctx).Model(&models.Appointment{})
	if filter.DoctorID != "" {
		query = query.Where("doctor_id = ?", filter.DoctorID)
	}
	if filter.PatientID != "" {
		query = query.Where("patient_id = ?", filter.PatientID)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if !filter.From.IsZero() {
		query = query.Where("date_time >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("date_time < ?", filter.To)
	}

	var appts []models.Appointment
	err := query.Order("date_time asc, id asc").Find(&appts).Error
	return appts, translate(err)
}

func (r *GormRepository) CreateAppointment(ctx context.Context, appt *models.Appointment) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(appt).Error)
}

func (r *GormRepository) SaveAppointment(ctx context.Context, appt *models.Appointment) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(appt).Error)
}
