package service

import (
	"context"
	"time"

	"resourcing/internal/apperror"
	"resourcing/internal/model"
	"resourcing/internal/repository"
	"resourcing/pkg/dateutil"
)

// SummaryResponse aggregates the planner dashboard numbers for one week
type SummaryResponse struct {
	PendingRequests    int64                        `json:"pending_requests"`
	ApprovedTasks      int64                        `json:"approved_tasks"`
	ScheduledHoursWeek float64                      `json:"scheduled_hours_week"`
	CompletedHoursWeek float64                      `json:"completed_hours_week"`
	TopProjects        []repository.ProjectHoursRow `json:"top_projects"`
	WeekStart          time.Time                    `json:"week_start"`
	WeekEnd            time.Time                    `json:"week_end"`
}

type StatisticsService interface {
	Summary(ctx context.Context, weekStart string) (*SummaryResponse, error)
}

type statisticsService struct {
	stats repository.StatisticsRepository
	tasks repository.TaskRepository
}

func NewStatisticsService(stats repository.StatisticsRepository, tasks repository.TaskRepository) StatisticsService {
	return &statisticsService{stats: stats, tasks: tasks}
}

func (s *statisticsService) Summary(ctx context.Context, weekStart string) (*SummaryResponse, error) {
	anchor := time.Now()
	if weekStart != "" {
		parsed, err := dateutil.Parse(weekStart)
		if err != nil {
			return nil, apperror.Validation("invalid weekStart date")
		}
		anchor = parsed
	}
	start, end := dateutil.WeekWindow(anchor)

	pending, err := s.stats.CountRequestsByStatus(ctx, model.StatusPending)
	if err != nil {
		return nil, apperror.Storage("failed to count pending requests", err)
	}
	approved, err := s.stats.CountTasksByStatus(ctx, model.StatusApproved)
	if err != nil {
		return nil, apperror.Storage("failed to count approved tasks", err)
	}
	completedHours, err := s.stats.SumCompletedHours(ctx, start, end)
	if err != nil {
		return nil, apperror.Storage("failed to sum completed hours", err)
	}
	topProjects, err := s.stats.TopProjectsByCompletedHours(ctx, start, end, 5)
	if err != nil {
		return nil, apperror.Storage("failed to rank projects", err)
	}

	// Scheduled hours live inside the jsonb weekHours arrays, so they are
	// summed here rather than in SQL.
	tasks, err := s.tasks.List(ctx, repository.TaskFilter{Status: model.StatusApproved})
	if err != nil {
		return nil, apperror.Storage("failed to fetch tasks", err)
	}
	var scheduled float64
	for _, t := range tasks {
		for _, wh := range t.WeekHours {
			if dateutil.InWindow(wh.Date, start, end) {
				scheduled += wh.Hours
			}
		}
	}

	return &SummaryResponse{
		PendingRequests:    pending,
		ApprovedTasks:      approved,
		ScheduledHoursWeek: scheduled,
		CompletedHoursWeek: completedHours,
		TopProjects:        topProjects,
		WeekStart:          start,
		WeekEnd:            end,
	}, nil
}
