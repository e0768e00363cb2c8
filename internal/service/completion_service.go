package service

import (
	"context"
	"encoding/json"
	"time"

	"resourcing/internal/apperror"
	"resourcing/internal/model"
	"resourcing/internal/repository"
	"resourcing/pkg/dateutil"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type RecordCompletionDTO struct {
	Date        string   `json:"date" binding:"required"`
	ActualHours *float64 `json:"actualHours" binding:"required"` // pointer so 0 binds
	Completed   bool     `json:"completed"`
}

// RecordResult is the outcome of one daily-progress write
type RecordResult struct {
	Message    string            `json:"message"`
	Task       *model.Task       `json:"task"`
	Completion *model.Completion `json:"completion"`
	Locked     bool              `json:"locked"`
}

type CompletionRangeQuery struct {
	StartDate string
	EndDate   string
}

// --- Interface ---

// CompletionService owns the per-(task, day) ledger. Each key moves
// Unset -> Open -> Locked; nothing leaves Locked.
type CompletionService interface {
	Record(ctx context.Context, taskID string, actorID string, dto RecordCompletionDTO) (*RecordResult, error)
	ListByUser(ctx context.Context, userEmail string, query CompletionRangeQuery) ([]model.Completion, error)
	ListAll(ctx context.Context, query CompletionRangeQuery) ([]model.Completion, error)
	ListByTask(ctx context.Context, taskID string) ([]model.Completion, error)
}

type completionService struct {
	completions repository.CompletionRepository
	tasks       repository.TaskRepository
	audit       repository.AuditRepository
	txm         repository.TransactionManager
	notifier    Notifier
}

func NewCompletionService(
	completions repository.CompletionRepository,
	tasks repository.TaskRepository,
	audit repository.AuditRepository,
	txm repository.TransactionManager,
	notifier Notifier,
) CompletionService {
	return &completionService{
		completions: completions,
		tasks:       tasks,
		audit:       audit,
		txm:         txm,
		notifier:    notifier,
	}
}

// --- Implementation ---

func (s *completionService) Record(ctx context.Context, taskID string, actorID string, dto RecordCompletionDTO) (*RecordResult, error) {
	id, err := uuid.Parse(taskID)
	if err != nil {
		return nil, apperror.Validation("invalid task id")
	}

	parsed, err := dateutil.Parse(dto.Date)
	if err != nil {
		return nil, apperror.Validation("Invalid date format")
	}
	targetDay := dateutil.NormalizeDay(parsed)

	if dto.ActualHours == nil {
		return nil, apperror.Validation("Actual hours must be a number between 0 and 8")
	}
	actualHours := *dto.ActualHours
	if actualHours < 0 || actualHours > MaxDailyHours {
		return nil, apperror.Validation("Actual hours must be a number between 0 and 8")
	}

	var result RecordResult
	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		// A locked day is immutable; bail before touching anything
		existing, lockErr := s.completions.FindLocked(txCtx, id, targetDay)
		if lockErr != nil {
			return apperror.Storage("failed to check completion lock", lockErr)
		}
		if existing != nil {
			return apperror.Locked("This date is completed and locked - no further edits allowed")
		}

		task, findErr := s.tasks.FindByID(txCtx, id)
		if findErr != nil {
			if findErr == gorm.ErrRecordNotFound {
				return apperror.NotFound("Task not found")
			}
			return apperror.Storage("failed to load task", findErr)
		}

		entryIdx := -1
		for i, wh := range task.WeekHours {
			if dateutil.SameDay(wh.Date, targetDay) {
				entryIdx = i
				break
			}
		}
		if entryIdx < 0 {
			return apperror.NotFound("Date not found in task's week hours")
		}

		task.WeekHours[entryIdx].ActualHours = actualHours
		task.WeekHours[entryIdx].Completed = dto.Completed
		task.UpdatedAt = time.Now()
		if saveErr := s.tasks.Save(txCtx, task); saveErr != nil {
			return apperror.Storage("Failed to save daily progress", saveErr)
		}

		shouldLock := dto.Completed && actualHours > 0

		completion := &model.Completion{
			TaskID:      id,
			Date:        targetDay,
			ActualHours: actualHours,
			Completed:   dto.Completed,
			Locked:      shouldLock,
			UserEmail:   task.Email,
			Project:     task.Project,
			TaskTitle:   task.TaskName,
		}
		if upsertErr := s.completions.Upsert(txCtx, completion); upsertErr != nil {
			return apperror.Storage("Failed to save daily progress", upsertErr)
		}

		var actorUUID *uuid.UUID
		if parsedActor, actorErr := uuid.Parse(actorID); actorErr == nil {
			actorUUID = &parsedActor
		}
		details, _ := json.Marshal(map[string]interface{}{
			"date":         targetDay.Format("2006-01-02"),
			"actual_hours": actualHours,
			"completed":    dto.Completed,
			"locked":       shouldLock,
		})
		if auditErr := s.audit.Log(txCtx, &model.AuditLog{
			UserID:     actorUUID,
			Action:     model.ActionRecordCompletion,
			EntityID:   id.String(),
			EntityName: task.TaskName,
			Details:    string(details),
		}); auditErr != nil {
			return apperror.Storage("failed to write audit log", auditErr)
		}

		message := "Daily progress saved"
		if shouldLock {
			message = "Daily progress saved and locked"
		}
		result = RecordResult{
			Message:    message,
			Task:       task,
			Completion: completion,
			Locked:     shouldLock,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Locked && s.notifier != nil {
		s.notifier.Notify("completion_locked", result.Completion)
	}
	return &result, nil
}

// parseRange validates an optional inclusive date range; both ends or neither
func parseRange(query CompletionRangeQuery) (*repository.DateRange, error) {
	if query.StartDate == "" && query.EndDate == "" {
		return nil, nil
	}
	if query.StartDate == "" || query.EndDate == "" {
		return nil, apperror.Validation("both startDate and endDate are required for range filtering")
	}
	start, err := dateutil.Parse(query.StartDate)
	if err != nil {
		return nil, apperror.Validation("invalid startDate")
	}
	end, err := dateutil.Parse(query.EndDate)
	if err != nil {
		return nil, apperror.Validation("invalid endDate")
	}
	return &repository.DateRange{Start: start, End: end}, nil
}

func (s *completionService) ListByUser(ctx context.Context, userEmail string, query CompletionRangeQuery) ([]model.Completion, error) {
	if userEmail == "" {
		return nil, apperror.Validation("User email is required")
	}
	dateRange, err := parseRange(query)
	if err != nil {
		return nil, err
	}
	completions, err := s.completions.ListByUser(ctx, userEmail, dateRange)
	if err != nil {
		return nil, apperror.Storage("Failed to fetch completions", err)
	}
	return completions, nil
}

func (s *completionService) ListAll(ctx context.Context, query CompletionRangeQuery) ([]model.Completion, error) {
	dateRange, err := parseRange(query)
	if err != nil {
		return nil, err
	}
	completions, err := s.completions.ListAll(ctx, dateRange)
	if err != nil {
		return nil, apperror.Storage("Failed to fetch completions", err)
	}
	return completions, nil
}

func (s *completionService) ListByTask(ctx context.Context, taskID string) ([]model.Completion, error) {
	id, err := uuid.Parse(taskID)
	if err != nil {
		return nil, apperror.Validation("invalid task id")
	}
	completions, err := s.completions.ListByTask(ctx, id)
	if err != nil {
		return nil, apperror.Storage("Failed to fetch completion records", err)
	}
	return completions, nil
}
