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
	"gorm.io/gorm"
)

// --- Shared fakes ---

type fakeRequestRepo struct {
	createFn   func(ctx context.Context, req *model.Request) error
	findByIDFn func(ctx context.Context, id uuid.UUID) (*model.Request, error)
	listFn     func(ctx context.Context, filter repository.RequestFilter) ([]model.Request, int64, error)
	saveFn     func(ctx context.Context, req *model.Request) error
	deleteFn   func(ctx context.Context, id uuid.UUID) error
}

func (f *fakeRequestRepo) Create(ctx context.Context, req *model.Request) error {
	return f.createFn(ctx, req)
}
func (f *fakeRequestRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Request, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeRequestRepo) List(ctx context.Context, filter repository.RequestFilter) ([]model.Request, int64, error) {
	return f.listFn(ctx, filter)
}
func (f *fakeRequestRepo) Save(ctx context.Context, req *model.Request) error {
	return f.saveFn(ctx, req)
}
func (f *fakeRequestRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return f.deleteFn(ctx, id)
}

type fakeTaskRepo struct {
	createFn      func(ctx context.Context, task *model.Task) error
	findByIDFn    func(ctx context.Context, id uuid.UUID) (*model.Task, error)
	listFn        func(ctx context.Context, filter repository.TaskFilter) ([]model.Task, error)
	listByEmailFn func(ctx context.Context, email string) ([]model.Task, error)
	saveFn        func(ctx context.Context, task *model.Task) error
	deleteFn      func(ctx context.Context, id uuid.UUID) error
}

func (f *fakeTaskRepo) Create(ctx context.Context, task *model.Task) error {
	return f.createFn(ctx, task)
}
func (f *fakeTaskRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeTaskRepo) List(ctx context.Context, filter repository.TaskFilter) ([]model.Task, error) {
	return f.listFn(ctx, filter)
}
func (f *fakeTaskRepo) ListByEmail(ctx context.Context, email string) ([]model.Task, error) {
	return f.listByEmailFn(ctx, email)
}
func (f *fakeTaskRepo) Save(ctx context.Context, task *model.Task) error {
	return f.saveFn(ctx, task)
}
func (f *fakeTaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return f.deleteFn(ctx, id)
}

type fakeAuditRepo struct {
	entries []model.AuditLog
}

func (f *fakeAuditRepo) Log(ctx context.Context, entry *model.AuditLog) error {
	f.entries = append(f.entries, *entry)
	return nil
}
func (f *fakeAuditRepo) List(ctx context.Context, page, limit int) ([]model.AuditLog, int64, error) {
	return f.entries, int64(len(f.entries)), nil
}

// fakeTxManager runs the body directly; service code must treat the callback
// context as the transaction scope.
type fakeTxManager struct{}

func (f *fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type fakeNotifier struct {
	events []string
}

func (f *fakeNotifier) Notify(event string, payload interface{}) {
	f.events = append(f.events, event)
}

func weekInputs(hours ...float64) []WeekHourInput {
	days := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	inputs := make([]WeekHourInput, 0, len(hours))
	for i, h := range hours {
		inputs = append(inputs, WeekHourInput{
			Day:   days[i%len(days)],
			Date:  time.Date(2025, 3, 10+i, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
			Hours: h,
		})
	}
	return inputs
}

// --- Tests ---

func TestRequestService_Approve(t *testing.T) {
	ctx := context.Background()
	reqID := uuid.New()

	stored := model.Request{ID: reqID, TaskName: "Facade study", Project: "Villa Azuri", Status: model.StatusPending}
	var createdTask *model.Task

	requests := &fakeRequestRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*model.Request, error) { return &stored, nil },
		saveFn:     func(ctx context.Context, req *model.Request) error { stored = *req; return nil },
	}
	tasks := &fakeTaskRepo{
		createFn: func(ctx context.Context, task *model.Task) error { createdTask = task; return nil },
	}
	audit := &fakeAuditRepo{}
	notifier := &fakeNotifier{}

	svc := NewRequestService(requests, tasks, audit, &fakeTxManager{}, notifier)

	result, err := svc.Approve(ctx, reqID.String(), uuid.New().String(), weekInputs(8, 8, 8, 8, 8))
	assert.NoError(t, err)
	assert.Equal(t, model.StatusApproved, result.Request.Status)
	assert.NotNil(t, createdTask)
	assert.Equal(t, model.StatusApproved, createdTask.Status)
	assert.Len(t, createdTask.WeekHours, 5)
	assert.Equal(t, 40.0, createdTask.WeekHours.TotalHours())
	assert.Len(t, audit.entries, 1)
	assert.Equal(t, model.ActionApproveRequest, audit.entries[0].Action)
	assert.Equal(t, []string{"request_approved"}, notifier.events)
}

func TestRequestService_Approve_WeeklyCap(t *testing.T) {
	svc := NewRequestService(&fakeRequestRepo{}, &fakeTaskRepo{}, &fakeAuditRepo{}, &fakeTxManager{}, nil)

	// 6 days x 7h = 42h > 40h
	_, err := svc.Approve(context.Background(), uuid.New().String(), "", weekInputs(7, 7, 7, 7, 7, 7))
	assert.Error(t, err)
	assert.Equal(t, "Maximum 40 hours allowed per week", apperror.From(err).Message)
}

func TestRequestService_Approve_DailyCap(t *testing.T) {
	svc := NewRequestService(&fakeRequestRepo{}, &fakeTaskRepo{}, &fakeAuditRepo{}, &fakeTxManager{}, nil)

	_, err := svc.Approve(context.Background(), uuid.New().String(), "", weekInputs(9))
	assert.Error(t, err)
	assert.Equal(t, "Maximum 8 hours allowed per day", apperror.From(err).Message)
}

func TestRequestService_Approve_EmptySchedule(t *testing.T) {
	svc := NewRequestService(&fakeRequestRepo{}, &fakeTaskRepo{}, &fakeAuditRepo{}, &fakeTxManager{}, nil)

	_, err := svc.Approve(context.Background(), uuid.New().String(), "", nil)
	assert.Error(t, err)
	assert.Equal(t, apperror.CodeValidation, apperror.From(err).Code)
}

func TestRequestService_Approve_AlreadyDecided(t *testing.T) {
	reqID := uuid.New()
	requests := &fakeRequestRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*model.Request, error) {
			return &model.Request{ID: reqID, Status: model.StatusApproved}, nil
		},
	}

	svc := NewRequestService(requests, &fakeTaskRepo{}, &fakeAuditRepo{}, &fakeTxManager{}, nil)

	_, err := svc.Approve(context.Background(), reqID.String(), "", weekInputs(4))
	assert.Error(t, err)
	ae := apperror.From(err)
	assert.Equal(t, apperror.CodeConflict, ae.Code)
	assert.Equal(t, "request is already Approved", ae.Message)
}

func TestRequestService_Reject(t *testing.T) {
	reqID := uuid.New()
	stored := model.Request{ID: reqID, TaskName: "Lighting plan", Status: model.StatusPending}
	var createdTask *model.Task

	requests := &fakeRequestRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*model.Request, error) { return &stored, nil },
		saveFn:     func(ctx context.Context, req *model.Request) error { stored = *req; return nil },
	}
	tasks := &fakeTaskRepo{
		createFn: func(ctx context.Context, task *model.Task) error { createdTask = task; return nil },
	}
	notifier := &fakeNotifier{}

	svc := NewRequestService(requests, tasks, &fakeAuditRepo{}, &fakeTxManager{}, notifier)

	result, err := svc.Reject(context.Background(), reqID.String(), "", "Project on hold")
	assert.NoError(t, err)
	assert.Equal(t, model.StatusRejected, result.Request.Status)
	assert.Equal(t, "Project on hold", result.Request.Comment)
	assert.Equal(t, model.StatusRejected, createdTask.Status)
	assert.Equal(t, "Project on hold", createdTask.Comment)
	assert.Equal(t, []string{"request_rejected"}, notifier.events)
}

func TestRequestService_Reject_CommentRequired(t *testing.T) {
	svc := NewRequestService(&fakeRequestRepo{}, &fakeTaskRepo{}, &fakeAuditRepo{}, &fakeTxManager{}, nil)

	_, err := svc.Reject(context.Background(), uuid.New().String(), "", "")
	assert.Error(t, err)
	assert.Equal(t, "Comment is required for rejection", apperror.From(err).Message)
}

func TestRequestService_List_DefaultsToPending(t *testing.T) {
	var gotFilter repository.RequestFilter
	requests := &fakeRequestRepo{
		listFn: func(ctx context.Context, filter repository.RequestFilter) ([]model.Request, int64, error) {
			gotFilter = filter
			return []model.Request{}, 0, nil
		},
	}

	svc := NewRequestService(requests, &fakeTaskRepo{}, &fakeAuditRepo{}, &fakeTxManager{}, nil)

	_, _, err := svc.List(context.Background(), ListRequestsFilter{})
	assert.NoError(t, err)
	assert.Equal(t, model.StatusPending, gotFilter.Status)
}

func TestRequestService_Delete_NotFound(t *testing.T) {
	requests := &fakeRequestRepo{
		deleteFn: func(ctx context.Context, id uuid.UUID) error { return gorm.ErrRecordNotFound },
	}

	svc := NewRequestService(requests, &fakeTaskRepo{}, &fakeAuditRepo{}, &fakeTxManager{}, nil)

	err := svc.Delete(context.Background(), uuid.New().String(), "")
	assert.Error(t, err)
	assert.Equal(t, apperror.CodeNotFound, apperror.From(err).Code)
}
