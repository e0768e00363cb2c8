package service

import (
	"context"
	"testing"
	"time"

	"resourcing/internal/apperror"
	"resourcing/internal/model"
	"resourcing/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeCompletionRepo struct {
	upsertFn     func(ctx context.Context, c *model.Completion) error
	findLockedFn func(ctx context.Context, taskID uuid.UUID, date time.Time) (*model.Completion, error)
	listByUserFn func(ctx context.Context, userEmail string, dateRange *repository.DateRange) ([]model.Completion, error)
	listAllFn    func(ctx context.Context, dateRange *repository.DateRange) ([]model.Completion, error)
	listByTaskFn func(ctx context.Context, taskID uuid.UUID) ([]model.Completion, error)
}

func (f *fakeCompletionRepo) Upsert(ctx context.Context, c *model.Completion) error {
	return f.upsertFn(ctx, c)
}
func (f *fakeCompletionRepo) FindLocked(ctx context.Context, taskID uuid.UUID, date time.Time) (*model.Completion, error) {
	if f.findLockedFn == nil {
		return nil, nil
	}
	return f.findLockedFn(ctx, taskID, date)
}
func (f *fakeCompletionRepo) ListByUser(ctx context.Context, userEmail string, dateRange *repository.DateRange) ([]model.Completion, error) {
	return f.listByUserFn(ctx, userEmail, dateRange)
}
func (f *fakeCompletionRepo) ListAll(ctx context.Context, dateRange *repository.DateRange) ([]model.Completion, error) {
	return f.listAllFn(ctx, dateRange)
}
func (f *fakeCompletionRepo) ListByTask(ctx context.Context, taskID uuid.UUID) ([]model.Completion, error) {
	return f.listByTaskFn(ctx, taskID)
}

func hoursPtr(h float64) *float64 { return &h }

func completionFixture() (model.Task, *fakeTaskRepo) {
	task := model.Task{
		ID:       uuid.New(),
		Email:    "maya@prodesign.mu",
		Project:  "Villa Azuri",
		TaskName: "Facade study",
		Status:   model.StatusApproved,
		WeekHours: model.WeekHourList{
			{Day: "Monday", Date: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), Hours: 6},
		},
	}
	repo := &fakeTaskRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*model.Task, error) { return &task, nil },
		saveFn:     func(ctx context.Context, t *model.Task) error { return nil },
	}
	return task, repo
}

func TestCompletionService_Record_Locks(t *testing.T) {
	task, taskRepo := completionFixture()

	var upserted *model.Completion
	completions := &fakeCompletionRepo{
		upsertFn: func(ctx context.Context, c *model.Completion) error { upserted = c; return nil },
	}
	audit := &fakeAuditRepo{}
	notifier := &fakeNotifier{}

	svc := NewCompletionService(completions, taskRepo, audit, &fakeTxManager{}, notifier)

	result, err := svc.Record(context.Background(), task.ID.String(), "", RecordCompletionDTO{
		Date:        "2025-03-10",
		ActualHours: hoursPtr(5.5),
		Completed:   true,
	})
	assert.NoError(t, err)
	assert.True(t, result.Locked)
	assert.Equal(t, "Daily progress saved and locked", result.Message)

	assert.True(t, upserted.Locked)
	assert.Equal(t, 5.5, upserted.ActualHours)
	// Denormalized from the task for ledger queries
	assert.Equal(t, "maya@prodesign.mu", upserted.UserEmail)
	assert.Equal(t, "Villa Azuri", upserted.Project)

	// The task's schedule entry is patched too
	assert.Equal(t, 5.5, result.Task.WeekHours[0].ActualHours)
	assert.True(t, result.Task.WeekHours[0].Completed)

	assert.Equal(t, model.ActionRecordCompletion, audit.entries[0].Action)
	assert.Equal(t, []string{"completion_locked"}, notifier.events)
}

func TestCompletionService_Record_ZeroHoursDoesNotLock(t *testing.T) {
	task, taskRepo := completionFixture()

	completions := &fakeCompletionRepo{
		upsertFn: func(ctx context.Context, c *model.Completion) error { return nil },
	}
	notifier := &fakeNotifier{}

	svc := NewCompletionService(completions, taskRepo, &fakeAuditRepo{}, &fakeTxManager{}, notifier)

	result, err := svc.Record(context.Background(), task.ID.String(), "", RecordCompletionDTO{
		Date:        "2025-03-10",
		ActualHours: hoursPtr(0),
		Completed:   true,
	})
	assert.NoError(t, err)
	assert.False(t, result.Locked)
	assert.Equal(t, "Daily progress saved", result.Message)
	assert.Empty(t, notifier.events)
}

func TestCompletionService_Record_LockedDayRejected(t *testing.T) {
	task, taskRepo := completionFixture()

	completions := &fakeCompletionRepo{
		findLockedFn: func(ctx context.Context, taskID uuid.UUID, date time.Time) (*model.Completion, error) {
			return &model.Completion{TaskID: taskID, Date: date, Locked: true}, nil
		},
	}

	svc := NewCompletionService(completions, taskRepo, &fakeAuditRepo{}, &fakeTxManager{}, nil)

	_, err := svc.Record(context.Background(), task.ID.String(), "", RecordCompletionDTO{
		Date:        "2025-03-10",
		ActualHours: hoursPtr(3),
		Completed:   false,
	})
	assert.Error(t, err)
	assert.True(t, apperror.IsLocked(err))
	assert.Equal(t, "This date is completed and locked - no further edits allowed", apperror.From(err).Message)
}

func TestCompletionService_Record_HoursOutOfRange(t *testing.T) {
	task, taskRepo := completionFixture()

	svc := NewCompletionService(&fakeCompletionRepo{}, taskRepo, &fakeAuditRepo{}, &fakeTxManager{}, nil)

	for _, hours := range []float64{-1, 8.5} {
		_, err := svc.Record(context.Background(), task.ID.String(), "", RecordCompletionDTO{
			Date:        "2025-03-10",
			ActualHours: hoursPtr(hours),
			Completed:   false,
		})
		assert.Error(t, err)
		assert.Equal(t, "Actual hours must be a number between 0 and 8", apperror.From(err).Message)
	}
}

func TestCompletionService_Record_DateNotScheduled(t *testing.T) {
	task, taskRepo := completionFixture()

	svc := NewCompletionService(&fakeCompletionRepo{}, taskRepo, &fakeAuditRepo{}, &fakeTxManager{}, nil)

	_, err := svc.Record(context.Background(), task.ID.String(), "", RecordCompletionDTO{
		Date:        "2025-03-14",
		ActualHours: hoursPtr(2),
		Completed:   false,
	})
	assert.Error(t, err)
	assert.Equal(t, "Date not found in task's week hours", apperror.From(err).Message)
}

func TestCompletionService_Record_TimeOfDayIgnored(t *testing.T) {
	task, taskRepo := completionFixture()

	var upserted *model.Completion
	completions := &fakeCompletionRepo{
		upsertFn: func(ctx context.Context, c *model.Completion) error { upserted = c; return nil },
	}

	svc := NewCompletionService(completions, taskRepo, &fakeAuditRepo{}, &fakeTxManager{}, nil)

	// An afternoon timestamp matches the Monday entry and stores the day key
	_, err := svc.Record(context.Background(), task.ID.String(), "", RecordCompletionDTO{
		Date:        "2025-03-10T15:45:00Z",
		ActualHours: hoursPtr(4),
		Completed:   false,
	})
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), upserted.Date)
}

func TestCompletionService_ListByUser_RequiresEmail(t *testing.T) {
	svc := NewCompletionService(&fakeCompletionRepo{}, &fakeTaskRepo{}, &fakeAuditRepo{}, &fakeTxManager{}, nil)

	_, err := svc.ListByUser(context.Background(), "", CompletionRangeQuery{})
	assert.Error(t, err)
	assert.Equal(t, "User email is required", apperror.From(err).Message)
}

func TestCompletionService_ListByUser_RangeMustBeComplete(t *testing.T) {
	svc := NewCompletionService(&fakeCompletionRepo{}, &fakeTaskRepo{}, &fakeAuditRepo{}, &fakeTxManager{}, nil)

	_, err := svc.ListByUser(context.Background(), "maya@prodesign.mu", CompletionRangeQuery{StartDate: "2025-03-10"})
	assert.Error(t, err)
	assert.Equal(t, apperror.CodeValidation, apperror.From(err).Code)
}
