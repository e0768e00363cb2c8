package repository

import (
	"context"
	"time"

	"resourcing/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DateRange is an inclusive [Start, End] filter on completion dates
type DateRange struct {
	Start time.Time
	End   time.Time
}

type CompletionRepository interface {
	// Upsert creates or overwrites the completion keyed on (task_id, date).
	// The ON CONFLICT clause makes the write atomic per key, so two
	// concurrent recordings of the same day collapse to a single row.
	Upsert(ctx context.Context, c *model.Completion) error
	FindLocked(ctx context.Context, taskID uuid.UUID, date time.Time) (*model.Completion, error)
	ListByUser(ctx context.Context, userEmail string, dateRange *DateRange) ([]model.Completion, error)
	ListAll(ctx context.Context, dateRange *DateRange) ([]model.Completion, error)
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]model.Completion, error)
}

type completionRepository struct {
	db *gorm.DB
}

func NewCompletionRepository(db *gorm.DB) CompletionRepository {
	return &completionRepository{db: db}
}

func (r *completionRepository) Upsert(ctx context.Context, c *model.Completion) error {
	return GetDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "task_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"actual_hours", "completed", "locked", "user_email", "project", "task_title", "updated_at",
		}),
	}).Create(c).Error
}

func (r *completionRepository) FindLocked(ctx context.Context, taskID uuid.UUID, date time.Time) (*model.Completion, error) {
	var c model.Completion
	err := GetDB(ctx, r.db).
		Where("task_id = ? AND date = ? AND locked = ?", taskID, date, true).
		First(&c).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *completionRepository) ListByUser(ctx context.Context, userEmail string, dateRange *DateRange) ([]model.Completion, error) {
	var completions []model.Completion
	q := GetDB(ctx, r.db).Preload("Task").Where("user_email = ?", userEmail)
	if dateRange != nil {
		q = q.Where("date >= ? AND date <= ?", dateRange.Start, dateRange.End)
	}
	if err := q.Order("date DESC").Find(&completions).Error; err != nil {
		return nil, err
	}
	return completions, nil
}

func (r *completionRepository) ListAll(ctx context.Context, dateRange *DateRange) ([]model.Completion, error) {
	var completions []model.Completion
	q := GetDB(ctx, r.db).Preload("Task")
	if dateRange != nil {
		q = q.Where("date >= ? AND date <= ?", dateRange.Start, dateRange.End)
	}
	if err := q.Order("date DESC").Find(&completions).Error; err != nil {
		return nil, err
	}
	return completions, nil
}

func (r *completionRepository) ListByTask(ctx context.Context, taskID uuid.UUID) ([]model.Completion, error) {
	var completions []model.Completion
	if err := GetDB(ctx, r.db).Where("task_id = ?", taskID).Find(&completions).Error; err != nil {
		return nil, err
	}
	return completions, nil
}
