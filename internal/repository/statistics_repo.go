package repository

import (
	"context"
	"fmt"
	"time"

	"resourcing/internal/model"

	"gorm.io/gorm"
)

// ProjectHoursRow ranks a project by hours completed against it
type ProjectHoursRow struct {
	Project        string  `json:"project"`
	CompletedHours float64 `json:"completed_hours"`
	Entries        int     `json:"entries"`
}

type StatisticsRepository interface {
	CountRequestsByStatus(ctx context.Context, status string) (int64, error)
	CountTasksByStatus(ctx context.Context, status string) (int64, error)
	SumCompletedHours(ctx context.Context, start, end time.Time) (float64, error)
	TopProjectsByCompletedHours(ctx context.Context, start, end time.Time, limit int) ([]ProjectHoursRow, error)
}

type statisticsRepository struct {
	db *gorm.DB
}

func NewStatisticsRepository(db *gorm.DB) StatisticsRepository {
	return &statisticsRepository{db: db}
}

func (r *statisticsRepository) CountRequestsByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Request{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *statisticsRepository) CountTasksByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Task{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *statisticsRepository) SumCompletedHours(ctx context.Context, start, end time.Time) (float64, error) {
	var result struct {
		Total float64
	}
	err := GetDB(ctx, r.db).Model(&model.Completion{}).
		Select("COALESCE(SUM(actual_hours), 0) as total").
		Where("completed = ? AND date >= ? AND date < ?", true, start, end).
		Scan(&result).Error
	return result.Total, err
}

func (r *statisticsRepository) TopProjectsByCompletedHours(ctx context.Context, start, end time.Time, limit int) ([]ProjectHoursRow, error) {
	var rows []ProjectHoursRow
	if err := GetDB(ctx, r.db).Table("completions").
		Select("project, COALESCE(SUM(actual_hours), 0) as completed_hours, COUNT(*) as entries").
		Where("completed = ? AND date >= ? AND date < ?", true, start, end).
		Group("project").
		Order("completed_hours DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query project hours: %w", err)
	}
	return rows, nil
}
