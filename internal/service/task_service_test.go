package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"resourcing/internal/apperror"
	"resourcing/internal/model"
	"resourcing/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func scheduledTask(status string, days ...time.Time) model.Task {
	entries := make(model.WeekHourList, 0, len(days))
	for i, d := range days {
		entries = append(entries, model.WeekHour{Day: d.Weekday().String(), Date: d, Hours: float64(i + 1)})
	}
	return model.Task{ID: uuid.New(), Status: status, WeekHours: entries}
}

func TestFlatten(t *testing.T) {
	monday := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)
	approved := scheduledTask(model.StatusApproved, monday, tuesday)
	rejected := scheduledTask(model.StatusRejected, monday)

	rows := Flatten([]model.Task{approved, rejected})

	// Approved task expands to one row per scheduled day, rejected passes through
	assert.Len(t, rows, 3)

	first := rows[0]
	assert.Equal(t, fmt.Sprintf("%s-%s", approved.ID, monday.Format(time.RFC3339)), first.ID)
	assert.Equal(t, monday, first.Date)
	assert.Equal(t, 1.0, first.ApprovedHours)
	// The full schedule is carried on every row
	assert.Len(t, first.WeekHours, 2)

	assert.Equal(t, 2.0, rows[1].ApprovedHours)
	assert.Equal(t, rejected.ID.String(), rows[2].ID)
}

func TestFlatten_ApprovedWithoutSchedule(t *testing.T) {
	task := model.Task{ID: uuid.New(), Status: model.StatusApproved}

	rows := Flatten([]model.Task{task})

	assert.Len(t, rows, 1)
	assert.Equal(t, task.ID.String(), rows[0].ID)
}

func TestFilterWeek(t *testing.T) {
	weekStart := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	inWeek := scheduledTask(model.StatusApproved, weekStart.AddDate(0, 0, 3))
	nextWeek := scheduledTask(model.StatusApproved, weekStart.AddDate(0, 0, 7))
	noSchedule := model.Task{ID: uuid.New(), Status: model.StatusApproved}

	kept := FilterWeek([]model.Task{inWeek, nextWeek, noSchedule}, weekStart)

	assert.Len(t, kept, 1)
	assert.Equal(t, inWeek.ID, kept[0].ID)
}

func TestTaskService_Delete_SingleDate(t *testing.T) {
	monday := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)
	stored := scheduledTask(model.StatusApproved, monday, tuesday)

	var saved *model.Task
	tasks := &fakeTaskRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*model.Task, error) { return &stored, nil },
		saveFn:     func(ctx context.Context, task *model.Task) error { saved = task; return nil },
	}
	audit := &fakeAuditRepo{}

	svc := NewTaskService(tasks, audit, &fakeTxManager{})

	result, err := svc.Delete(context.Background(), stored.ID.String(), "2025-03-10", "")
	assert.NoError(t, err)
	assert.Equal(t, "Date deleted successfully", result.Message)
	assert.Len(t, saved.WeekHours, 1)
	assert.True(t, saved.WeekHours[0].Date.Equal(tuesday))
	assert.Equal(t, model.ActionDeleteTaskDate, audit.entries[0].Action)
}

func TestTaskService_Delete_LastDateRemovesTask(t *testing.T) {
	monday := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	stored := scheduledTask(model.StatusApproved, monday)

	deleted := false
	tasks := &fakeTaskRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*model.Task, error) { return &stored, nil },
		deleteFn:   func(ctx context.Context, id uuid.UUID) error { deleted = true; return nil },
	}

	svc := NewTaskService(tasks, &fakeAuditRepo{}, &fakeTxManager{})

	result, err := svc.Delete(context.Background(), stored.ID.String(), "2025-03-10", "")
	assert.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, "Task deleted (no remaining dates)", result.Message)
	assert.Nil(t, result.Task)
}

func TestTaskService_Delete_DateNotScheduled(t *testing.T) {
	monday := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	stored := scheduledTask(model.StatusApproved, monday)

	tasks := &fakeTaskRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*model.Task, error) { return &stored, nil },
	}

	svc := NewTaskService(tasks, &fakeAuditRepo{}, &fakeTxManager{})

	_, err := svc.Delete(context.Background(), stored.ID.String(), "2025-03-14", "")
	assert.Error(t, err)
	assert.Equal(t, apperror.CodeNotFound, apperror.From(err).Code)
}

func TestTaskService_Delete_WholeTask(t *testing.T) {
	deleted := false
	tasks := &fakeTaskRepo{
		deleteFn: func(ctx context.Context, id uuid.UUID) error { deleted = true; return nil },
	}
	audit := &fakeAuditRepo{}

	svc := NewTaskService(tasks, audit, &fakeTxManager{})

	result, err := svc.Delete(context.Background(), uuid.New().String(), "", "")
	assert.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, "Task deleted successfully", result.Message)
	assert.Equal(t, model.ActionDeleteTask, audit.entries[0].Action)
}

func TestTaskService_List_WeekFilterAndFlatten(t *testing.T) {
	weekStart := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	inWeek := scheduledTask(model.StatusApproved, weekStart, weekStart.AddDate(0, 0, 1))
	nextWeek := scheduledTask(model.StatusApproved, weekStart.AddDate(0, 0, 10))

	tasks := &fakeTaskRepo{
		listFn: func(ctx context.Context, filter repository.TaskFilter) ([]model.Task, error) {
			return []model.Task{inWeek, nextWeek}, nil
		},
	}

	svc := NewTaskService(tasks, &fakeAuditRepo{}, &fakeTxManager{})

	rows, err := svc.List(context.Background(), TaskListQuery{WeekStart: "2025-03-10"})
	assert.NoError(t, err)
	assert.Len(t, rows, 2) // one row per day of the in-week task

	_, err = svc.List(context.Background(), TaskListQuery{WeekStart: "not-a-date"})
	assert.Error(t, err)
	assert.Equal(t, apperror.CodeValidation, apperror.From(err).Code)
}

func TestTaskService_Update_ReplacesSchedule(t *testing.T) {
	stored := scheduledTask(model.StatusApproved, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	var saved *model.Task
	tasks := &fakeTaskRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*model.Task, error) { return &stored, nil },
		saveFn:     func(ctx context.Context, task *model.Task) error { saved = task; return nil },
	}

	svc := NewTaskService(tasks, &fakeAuditRepo{}, &fakeTxManager{})

	name := "Revised concept"
	updated, err := svc.Update(context.Background(), stored.ID.String(), UpdateTaskDTO{
		TaskName: &name,
		WeekHours: []WeekHourInput{
			{Day: "Wednesday", Date: "2025-03-12", Hours: 4},
			{Day: "Thursday", Date: "2025-03-13", Hours: 6},
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, "Revised concept", updated.TaskName)
	assert.Len(t, saved.WeekHours, 2)
	assert.Equal(t, 6.0, saved.WeekHours[1].Hours)
}
