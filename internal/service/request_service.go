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

// Weekly allocation caps enforced on approval
const (
	MaxWeeklyHours = 40.0
	MaxDailyHours  = 8.0
)

// --- DTOs ---

type CreateRequestDTO struct {
	RequestedName   string  `json:"requestedName" binding:"required"`
	Email           string  `json:"email" binding:"required,email"`
	TaskName        string  `json:"taskName" binding:"required"`
	Hours           float64 `json:"hours" binding:"required,gt=0"`
	ProjectCode     string  `json:"projectCode"`
	Project         string  `json:"project" binding:"required"`
	Requester       string  `json:"requester" binding:"required"`
	Department      string  `json:"department" binding:"required"`
	Notes           string  `json:"notes"`
	TimeSlot        string  `json:"timeSlot"`
	Date            string  `json:"date"` // optional, defaults to now
	IsCustomProject bool    `json:"isCustomProject"`
}

// UpdateRequestDTO is a whitelisted patch: identity and bookkeeping fields
// (id, createdAt, status) are not representable here, so they cannot be
// smuggled in through a generic body.
type UpdateRequestDTO struct {
	RequestedName *string  `json:"requestedName"`
	Email         *string  `json:"email" binding:"omitempty,email"`
	TaskName      *string  `json:"taskName"`
	Hours         *float64 `json:"hours" binding:"omitempty,gt=0"`
	ProjectCode   *string  `json:"projectCode"`
	Project       *string  `json:"project"`
	Requester     *string  `json:"requester"`
	Department    *string  `json:"department"`
	Notes         *string  `json:"notes"`
	TimeSlot      *string  `json:"timeSlot"`
}

// WeekHourInput is one submitted day allocation
type WeekHourInput struct {
	Day   string  `json:"day" binding:"required"`
	Date  string  `json:"date" binding:"required"`
	Hours float64 `json:"hours"`
}

type ListRequestsFilter struct {
	Status  string // empty means Pending
	Project string
	MinDate string
	Page    int
	Limit   int
}

// DecisionResult carries both sides of an approve/reject: the updated request
// and the task it materialized.
type DecisionResult struct {
	Message string         `json:"message"`
	Request *model.Request `json:"request"`
	Task    *model.Task    `json:"task"`
}

// --- Interface ---

type RequestService interface {
	Submit(ctx context.Context, dto CreateRequestDTO) (*model.Request, error)
	List(ctx context.Context, filter ListRequestsFilter) ([]model.Request, int64, error)
	Update(ctx context.Context, id string, dto UpdateRequestDTO) (*model.Request, error)
	Delete(ctx context.Context, id string, actorID string) error
	Approve(ctx context.Context, id string, actorID string, weekHours []WeekHourInput) (*DecisionResult, error)
	Reject(ctx context.Context, id string, actorID string, comment string) (*DecisionResult, error)
}

// Notifier pushes best-effort events to connected websocket clients
type Notifier interface {
	Notify(event string, payload interface{})
}

type requestService struct {
	requests repository.RequestRepository
	tasks    repository.TaskRepository
	audit    repository.AuditRepository
	txm      repository.TransactionManager
	notifier Notifier
}

func NewRequestService(
	requests repository.RequestRepository,
	tasks repository.TaskRepository,
	audit repository.AuditRepository,
	txm repository.TransactionManager,
	notifier Notifier,
) RequestService {
	return &requestService{
		requests: requests,
		tasks:    tasks,
		audit:    audit,
		txm:      txm,
		notifier: notifier,
	}
}

// --- Implementation ---

func (s *requestService) Submit(ctx context.Context, dto CreateRequestDTO) (*model.Request, error) {
	date := time.Now()
	if dto.Date != "" {
		parsed, err := dateutil.Parse(dto.Date)
		if err != nil {
			return nil, apperror.Validation("invalid date format")
		}
		date = parsed
	}

	req := &model.Request{
		RequestedName:   dto.RequestedName,
		Email:           dto.Email,
		TaskName:        dto.TaskName,
		Hours:           dto.Hours,
		ProjectCode:     dto.ProjectCode,
		Project:         dto.Project,
		Requester:       dto.Requester,
		Department:      dto.Department,
		Notes:           dto.Notes,
		TimeSlot:        dto.TimeSlot,
		Status:          model.StatusPending,
		Date:            date,
		IsCustomProject: dto.IsCustomProject,
	}

	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.requests.Create(txCtx, req); createErr != nil {
			return apperror.Storage("failed to create request", createErr)
		}
		return s.writeAudit(txCtx, "", model.ActionCreateRequest, req.ID.String(), req.TaskName, map[string]interface{}{
			"project": req.Project,
			"email":   req.Email,
			"hours":   req.Hours,
		})
	})
	if err != nil {
		return nil, err
	}

	return req, nil
}

func (s *requestService) List(ctx context.Context, filter ListRequestsFilter) ([]model.Request, int64, error) {
	status := filter.Status
	if status == "" {
		status = model.StatusPending
	}

	repoFilter := repository.RequestFilter{
		Status:  status,
		Project: filter.Project,
		Page:    filter.Page,
		Limit:   filter.Limit,
	}
	if filter.MinDate != "" {
		minDate, err := dateutil.Parse(filter.MinDate)
		if err != nil {
			return nil, 0, apperror.Validation("invalid date filter")
		}
		repoFilter.MinDate = &minDate
	}
	if repoFilter.Page <= 0 {
		repoFilter.Page = 1
	}

	requests, total, err := s.requests.List(ctx, repoFilter)
	if err != nil {
		return nil, 0, apperror.Storage("failed to fetch requests", err)
	}
	return requests, total, nil
}

func (s *requestService) Update(ctx context.Context, id string, dto UpdateRequestDTO) (*model.Request, error) {
	reqID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Validation("invalid request id")
	}

	req, err := s.requests.FindByID(ctx, reqID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperror.NotFound("Request not found")
		}
		return nil, apperror.Storage("failed to load request", err)
	}

	applyIfSet := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	applyIfSet(&req.RequestedName, dto.RequestedName)
	applyIfSet(&req.Email, dto.Email)
	applyIfSet(&req.TaskName, dto.TaskName)
	applyIfSet(&req.ProjectCode, dto.ProjectCode)
	applyIfSet(&req.Project, dto.Project)
	applyIfSet(&req.Requester, dto.Requester)
	applyIfSet(&req.Department, dto.Department)
	applyIfSet(&req.Notes, dto.Notes)
	applyIfSet(&req.TimeSlot, dto.TimeSlot)
	if dto.Hours != nil {
		req.Hours = *dto.Hours
	}

	if err := s.requests.Save(ctx, req); err != nil {
		return nil, apperror.Storage("failed to update request", err)
	}
	return req, nil
}

func (s *requestService) Delete(ctx context.Context, id string, actorID string) error {
	reqID, err := uuid.Parse(id)
	if err != nil {
		return apperror.Validation("invalid request id")
	}

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.requests.Delete(txCtx, reqID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperror.NotFound("Request not found")
			}
			return apperror.Storage("failed to delete request", err)
		}
		return s.writeAudit(txCtx, actorID, model.ActionDeleteRequest, reqID.String(), "", nil)
	})
	return err
}

// validateWeekHours enforces the allocation caps and parses entry dates
func validateWeekHours(weekHours []WeekHourInput) (model.WeekHourList, error) {
	if len(weekHours) == 0 {
		return nil, apperror.Validation("Missing or invalid weekHours array")
	}

	var total float64
	entries := make(model.WeekHourList, 0, len(weekHours))
	for _, wh := range weekHours {
		if wh.Hours < 0 {
			return nil, apperror.Validation("Day hours cannot be negative")
		}
		if wh.Hours > MaxDailyHours {
			return nil, apperror.Validation("Maximum 8 hours allowed per day")
		}
		date, err := dateutil.Parse(wh.Date)
		if err != nil {
			return nil, apperror.Validation(fmt.Sprintf("invalid date for %s", wh.Day))
		}
		total += wh.Hours
		entries = append(entries, model.WeekHour{Day: wh.Day, Date: date, Hours: wh.Hours})
	}
	if total > MaxWeeklyHours {
		return nil, apperror.Validation("Maximum 40 hours allowed per week")
	}
	return entries, nil
}

func (s *requestService) Approve(ctx context.Context, id string, actorID string, weekHours []WeekHourInput) (*DecisionResult, error) {
	reqID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Validation("invalid request id")
	}

	entries, err := validateWeekHours(weekHours)
	if err != nil {
		return nil, err
	}

	var result DecisionResult
	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		req, findErr := s.requests.FindByID(txCtx, reqID)
		if findErr != nil {
			if findErr == gorm.ErrRecordNotFound {
				return apperror.NotFound("Request not found")
			}
			return apperror.Storage("failed to load request", findErr)
		}

		// One-shot transition: only Pending requests can be decided
		if req.Status != model.StatusPending {
			return apperror.Conflict(fmt.Sprintf("request is already %s", req.Status))
		}

		req.Status = model.StatusApproved
		req.WeekHours = entries
		if saveErr := s.requests.Save(txCtx, req); saveErr != nil {
			return apperror.Storage("failed to update request", saveErr)
		}

		task := &model.Task{
			RequestedName: req.RequestedName,
			Email:         req.Email,
			TaskName:      req.TaskName,
			Hours:         req.Hours,
			ProjectCode:   req.ProjectCode,
			Project:       req.Project,
			Requester:     req.Requester,
			Department:    req.Department,
			Date:          req.Date,
			Notes:         req.Notes,
			Status:        model.StatusApproved,
			WeekHours:     entries,
		}
		if createErr := s.tasks.Create(txCtx, task); createErr != nil {
			return apperror.Storage("failed to create task", createErr)
		}

		if auditErr := s.writeAudit(txCtx, actorID, model.ActionApproveRequest, req.ID.String(), req.TaskName, map[string]interface{}{
			"project":     req.Project,
			"task_id":     task.ID.String(),
			"total_hours": entries.TotalHours(),
		}); auditErr != nil {
			return auditErr
		}

		result = DecisionResult{Message: "Request approved", Request: req, Task: task}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Notify("request_approved", result.Task)
	}
	return &result, nil
}

func (s *requestService) Reject(ctx context.Context, id string, actorID string, comment string) (*DecisionResult, error) {
	reqID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Validation("invalid request id")
	}
	if comment == "" {
		return nil, apperror.Validation("Comment is required for rejection")
	}

	var result DecisionResult
	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		req, findErr := s.requests.FindByID(txCtx, reqID)
		if findErr != nil {
			if findErr == gorm.ErrRecordNotFound {
				return apperror.NotFound("Request not found")
			}
			return apperror.Storage("failed to load request", findErr)
		}

		if req.Status != model.StatusPending {
			return apperror.Conflict(fmt.Sprintf("request is already %s", req.Status))
		}

		req.Status = model.StatusRejected
		req.Comment = comment
		if saveErr := s.requests.Save(txCtx, req); saveErr != nil {
			return apperror.Storage("failed to update request", saveErr)
		}

		task := &model.Task{
			RequestedName: req.RequestedName,
			Email:         req.Email,
			TaskName:      req.TaskName,
			Hours:         req.Hours,
			ProjectCode:   req.ProjectCode,
			Project:       req.Project,
			Requester:     req.Requester,
			Department:    req.Department,
			Date:          req.Date,
			Notes:         req.Notes,
			Status:        model.StatusRejected,
			Comment:       comment,
		}
		if createErr := s.tasks.Create(txCtx, task); createErr != nil {
			return apperror.Storage("failed to create task", createErr)
		}

		if auditErr := s.writeAudit(txCtx, actorID, model.ActionRejectRequest, req.ID.String(), req.TaskName, map[string]interface{}{
			"project": req.Project,
			"comment": comment,
		}); auditErr != nil {
			return auditErr
		}

		result = DecisionResult{Message: "Request rejected", Request: req, Task: task}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Notify("request_rejected", result.Task)
	}
	return &result, nil
}

// writeAudit records an action inside the caller's transaction
func (s *requestService) writeAudit(ctx context.Context, actorID, action, entityID, entityName string, details map[string]interface{}) error {
	var userID *uuid.UUID
	if parsed, err := uuid.Parse(actorID); err == nil {
		userID = &parsed
	}
	payload, _ := json.Marshal(details)
	entry := &model.AuditLog{
		UserID:     userID,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(payload),
	}
	if err := s.audit.Log(ctx, entry); err != nil {
		return apperror.Storage("failed to write audit log", err)
	}
	return nil
}
