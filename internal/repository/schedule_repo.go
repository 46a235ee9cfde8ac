package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/siddardha003/BookIt-Experiences-Slots/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ScheduleRepository interface {
	FindUpcoming(ctx context.Context, experienceID uuid.UUID, from time.Time) ([]models.Schedule, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Schedule, error)
	DecrementSlots(ctx context.Context, tx *gorm.DB, id uuid.UUID, quantity int) error
	IncrementSlots(ctx context.Context, tx *gorm.DB, id uuid.UUID, quantity int) error
	Upsert(ctx context.Context, schedule *models.Schedule) error
}

type scheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) FindUpcoming(ctx context.Context, experienceID uuid.UUID, from time.Time) ([]models.Schedule, error) {
	var schedules []models.Schedule
	err := r.db.WithContext(ctx).
		Where("experience_id = ? AND date >= ?", experienceID, from).
		Order("date ASC, time ASC").
		Find(&schedules).Error
	if err != nil {
		return nil, err
	}
	return schedules, nil
}

// FindByIDForUpdate acquires a row-level lock on the schedule within the given transaction.
func (r *scheduleRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Schedule, error) {
	var schedule models.Schedule
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&schedule, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &schedule, nil
}

// DecrementSlots takes quantity slots only if that many remain.
func (r *scheduleRepository) DecrementSlots(ctx context.Context, tx *gorm.DB, id uuid.UUID, quantity int) error {
	res := tx.WithContext(ctx).
		Model(&models.Schedule{}).
		Where("id = ? AND slots_available >= ?", id, quantity).
		Update("slots_available", gorm.Expr("slots_available - ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotUpdated
	}
	return nil
}

// IncrementSlots gives quantity slots back without exceeding total_slots.
func (r *scheduleRepository) IncrementSlots(ctx context.Context, tx *gorm.DB, id uuid.UUID, quantity int) error {
	res := tx.WithContext(ctx).
		Model(&models.Schedule{}).
		Where("id = ? AND slots_available + ? <= total_slots", id, quantity).
		Update("slots_available", gorm.Expr("slots_available + ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotUpdated
	}
	return nil
}

// Upsert inserts the schedule, or moves an existing one to a new date and
// time. Capacity counters of an existing schedule are left alone.
func (r *scheduleRepository) Upsert(ctx context.Context, schedule *models.Schedule) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"date", "time"}),
	}).Create(schedule).Error
}
