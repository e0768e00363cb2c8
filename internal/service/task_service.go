package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"resourcing/internal/apperror"
	"resourcing/internal/model"
	"resourcing/internal/repository"
	"resourcing/pkg/dateutil"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type TaskListQuery struct {
	Status    string
	Project   string
	WeekStart string // YYYY-MM-DD or RFC3339; expands to [weekStart, weekStart+7d)
}

// TaskRow is the read-side projection of a task listing. Approved tasks with a
// schedule are flattened to one row per weekHours entry; the composite ID is
// display-only and is never parsed back into a mutation target.
type TaskRow struct {
	model.Task
	ID            string    `json:"id"`
	Date          time.Time `json:"date"`
	ApprovedHours float64   `json:"approvedHours"`
}

// UpdateTaskDTO is the whitelisted patch for tasks. WeekHours, when present,
// replaces the entire array.
type UpdateTaskDTO struct {
	RequestedName *string         `json:"requestedName"`
	Email         *string         `json:"email" binding:"omitempty,email"`
	TaskName      *string         `json:"taskName"`
	Hours         *float64        `json:"hours" binding:"omitempty,gt=0"`
	ProjectCode   *string         `json:"projectCode"`
	Project       *string         `json:"project"`
	Requester     *string         `json:"requester"`
	Department    *string         `json:"department"`
	Notes         *string         `json:"notes"`
	Comment       *string         `json:"comment"`
	WeekHours     []WeekHourInput `json:"weekHours"`
}

// TaskDeleteResult reports a whole-task or single-day deletion
type TaskDeleteResult struct {
	Message string      `json:"message"`
	Task    *model.Task `json:"task,omitempty"`
}

// --- Interface ---

type TaskService interface {
	List(ctx context.Context, query TaskListQuery) ([]TaskRow, error)
	ListByUser(ctx context.Context, email string) ([]model.Task, error)
	Update(ctx context.Context, id string, dto UpdateTaskDTO) (*model.Task, error)
	Delete(ctx context.Context, id string, date string, actorID string) (*TaskDeleteResult, error)
}

type taskService struct {
	tasks repository.TaskRepository
	audit repository.AuditRepository
	txm   repository.TransactionManager
}

func NewTaskService(tasks repository.TaskRepository, audit repository.AuditRepository, txm repository.TransactionManager) TaskService {
	return &taskService{tasks: tasks, audit: audit, txm: txm}
}

// --- Read-side projections (pure) ---

// FilterWeek retains tasks with at least one weekHours entry inside
// [weekStart, weekStart+7d). Tasks without a schedule are dropped, matching
// the week-view the planner board renders.
func FilterWeek(tasks []model.Task, weekStart time.Time) []model.Task {
	start, end := dateutil.WeekWindow(weekStart)
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		for _, wh := range t.WeekHours {
			if dateutil.InWindow(wh.Date, start, end) {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

// Flatten expands approved tasks with a schedule into one row per weekHours
// entry. Each row keeps the full weekHours array for edit context and carries
// the entry's hours as approvedHours. Other tasks pass through unflattened.
func Flatten(tasks []model.Task) []TaskRow {
	rows := make([]TaskRow, 0, len(tasks))
	for _, t := range tasks {
		if t.Status == model.StatusApproved && len(t.WeekHours) > 0 {
			for _, wh := range t.WeekHours {
				rows = append(rows, TaskRow{
					Task:          t,
					ID:            fmt.Sprintf("%s-%s", t.ID, wh.Date.UTC().Format(time.RFC3339)),
					Date:          wh.Date,
					ApprovedHours: wh.Hours,
				})
			}
			continue
		}
		rows = append(rows, TaskRow{
			Task:          t,
			ID:            t.ID.String(),
			Date:          t.Date,
			ApprovedHours: t.ApprovedHours,
		})
	}
	return rows
}

// --- Implementation ---

func (s *taskService) List(ctx context.Context, query TaskListQuery) ([]TaskRow, error) {
	tasks, err := s.tasks.List(ctx, repository.TaskFilter{Status: query.Status, Project: query.Project})
	if err != nil {
		return nil, apperror.Storage("Failed to fetch tasks", err)
	}

	if query.WeekStart != "" {
		weekStart, parseErr := dateutil.Parse(query.WeekStart)
		if parseErr != nil {
			return nil, apperror.Validation("invalid weekStart date")
		}
		tasks = FilterWeek(tasks, weekStart)
	}

	return Flatten(tasks), nil
}

func (s *taskService) ListByUser(ctx context.Context, email string) ([]model.Task, error) {
	if email == "" {
		return nil, apperror.Validation("Email parameter is required")
	}
	tasks, err := s.tasks.ListByEmail(ctx, email)
	if err != nil {
		return nil, apperror.Storage("Failed to fetch user tasks", err)
	}
	return tasks, nil
}

func (s *taskService) Update(ctx context.Context, id string, dto UpdateTaskDTO) (*model.Task, error) {
	taskID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Validation("invalid task id")
	}

	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperror.NotFound("Task not found")
		}
		return nil, apperror.Storage("failed to load task", err)
	}

	if dto.WeekHours != nil {
		entries := make(model.WeekHourList, 0, len(dto.WeekHours))
		for _, wh := range dto.WeekHours {
			date, parseErr := dateutil.Parse(wh.Date)
			if parseErr != nil {
				return nil, apperror.Validation(fmt.Sprintf("invalid date for %s", wh.Day))
			}
			entries = append(entries, model.WeekHour{Day: wh.Day, Date: date, Hours: wh.Hours})
		}
		task.WeekHours = entries
	}

	applyIfSet := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	applyIfSet(&task.RequestedName, dto.RequestedName)
	applyIfSet(&task.Email, dto.Email)
	applyIfSet(&task.TaskName, dto.TaskName)
	applyIfSet(&task.ProjectCode, dto.ProjectCode)
	applyIfSet(&task.Project, dto.Project)
	applyIfSet(&task.Requester, dto.Requester)
	applyIfSet(&task.Department, dto.Department)
	applyIfSet(&task.Notes, dto.Notes)
	applyIfSet(&task.Comment, dto.Comment)
	if dto.Hours != nil {
		task.Hours = *dto.Hours
	}
	task.UpdatedAt = time.Now()

	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, apperror.Storage("Failed to update task", err)
	}
	return task, nil
}

func (s *taskService) Delete(ctx context.Context, id string, date string, actorID string) (*TaskDeleteResult, error) {
	taskID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Validation("invalid task id")
	}

	if date == "" {
		err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
			if delErr := s.tasks.Delete(txCtx, taskID); delErr != nil {
				if delErr == gorm.ErrRecordNotFound {
					return apperror.NotFound("Task not found")
				}
				return apperror.Storage("Failed to delete task", delErr)
			}
			return s.writeAudit(txCtx, actorID, model.ActionDeleteTask, taskID.String(), nil)
		})
		if err != nil {
			return nil, err
		}
		return &TaskDeleteResult{Message: "Task deleted successfully"}, nil
	}

	targetDate, err := dateutil.Parse(date)
	if err != nil {
		return nil, apperror.Validation("Invalid date format")
	}
	targetDay := dateutil.NormalizeDay(targetDate)

	var result *TaskDeleteResult
	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		task, findErr := s.tasks.FindByID(txCtx, taskID)
		if findErr != nil {
			if findErr == gorm.ErrRecordNotFound {
				return apperror.NotFound("Task not found")
			}
			return apperror.Storage("failed to load task", findErr)
		}

		remaining := make(model.WeekHourList, 0, len(task.WeekHours))
		for _, wh := range task.WeekHours {
			if !dateutil.SameDay(wh.Date, targetDay) {
				remaining = append(remaining, wh)
			}
		}
		if len(remaining) == len(task.WeekHours) {
			return apperror.NotFound("Date not found in task")
		}

		if len(remaining) == 0 {
			if delErr := s.tasks.Delete(txCtx, taskID); delErr != nil {
				return apperror.Storage("Failed to delete task", delErr)
			}
			if auditErr := s.writeAudit(txCtx, actorID, model.ActionDeleteTask, taskID.String(), map[string]interface{}{
				"reason": "no remaining dates",
			}); auditErr != nil {
				return auditErr
			}
			result = &TaskDeleteResult{Message: "Task deleted (no remaining dates)"}
			return nil
		}

		task.WeekHours = remaining
		task.UpdatedAt = time.Now()
		if saveErr := s.tasks.Save(txCtx, task); saveErr != nil {
			return apperror.Storage("Failed to update task", saveErr)
		}
		if auditErr := s.writeAudit(txCtx, actorID, model.ActionDeleteTaskDate, taskID.String(), map[string]interface{}{
			"date": targetDay.Format("2006-01-02"),
		}); auditErr != nil {
			return auditErr
		}
		result = &TaskDeleteResult{Message: "Date deleted successfully", Task: task}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *taskService) writeAudit(ctx context.Context, actorID, action, entityID string, details map[string]interface{}) error {
	var userID *uuid.UUID
	if parsed, err := uuid.Parse(actorID); err == nil {
		userID = &parsed
	}
	payload, _ := json.Marshal(details)
	entry := &model.AuditLog{
		UserID:   userID,
		Action:   action,
		EntityID: entityID,
		Details:  string(payload),
	}
	if err := s.audit.Log(ctx, entry); err != nil {
		return apperror.Storage("failed to write audit log", err)
	}
	return nil
}
