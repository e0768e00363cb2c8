package service

import (
	"context"

	"resourcing/internal/apperror"
	"resourcing/internal/model"
	"resourcing/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateProjectDTO struct {
	Code       string          `json:"code" binding:"required"`
	Name       string          `json:"name" binding:"required"`
	Department string          `json:"department" binding:"required,oneof=LEED BIM MEP"`
	Budget     decimal.Decimal `json:"budget" binding:"required"`
	Hours      float64         `json:"hours" binding:"required,gt=0"`
	TeamLeader string          `json:"teamLeader" binding:"required"`
	Director   string          `json:"director" binding:"required"`
	Stage      string          `json:"stage" binding:"required"`
}

type UpdateProjectDTO struct {
	Code        *string          `json:"code"`
	Name        *string          `json:"name"`
	Department  *string          `json:"department" binding:"omitempty,oneof=LEED BIM MEP"`
	Budget      *decimal.Decimal `json:"budget"`
	Hours       *float64         `json:"hours" binding:"omitempty,gt=0"`
	TeamLeader  *string          `json:"teamLeader"`
	Director    *string          `json:"director"`
	Stage       *string          `json:"stage"`
	HoursLogged *float64         `json:"hoursLogged"`
	Spent       *decimal.Decimal `json:"spent"`
}

// --- Interface ---

type ProjectService interface {
	Create(ctx context.Context, dto CreateProjectDTO) (*model.Project, error)
	List(ctx context.Context, department string) ([]model.Project, error)
	Update(ctx context.Context, id string, dto UpdateProjectDTO) (*model.Project, error)
	Delete(ctx context.Context, id string) error
}

type projectService struct {
	projects repository.ProjectRepository
}

func NewProjectService(projects repository.ProjectRepository) ProjectService {
	return &projectService{projects: projects}
}

// --- Implementation ---

func (s *projectService) Create(ctx context.Context, dto CreateProjectDTO) (*model.Project, error) {
	if !model.ValidStage(dto.Stage) {
		return nil, apperror.Validation("unknown project stage")
	}
	if !model.ValidProjectDepartment(dto.Department) {
		return nil, apperror.Validation("department cannot own projects")
	}

	project := &model.Project{
		Code:       dto.Code,
		Name:       dto.Name,
		Department: dto.Department,
		Budget:     dto.Budget,
		Hours:      dto.Hours,
		TeamLeader: dto.TeamLeader,
		Director:   dto.Director,
		Stage:      dto.Stage,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, apperror.Storage("failed to create project", err)
	}
	return project, nil
}

func (s *projectService) List(ctx context.Context, department string) ([]model.Project, error) {
	projects, err := s.projects.List(ctx, department)
	if err != nil {
		return nil, apperror.Storage("failed to fetch projects", err)
	}
	return projects, nil
}

func (s *projectService) Update(ctx context.Context, id string, dto UpdateProjectDTO) (*model.Project, error) {
	projectID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Validation("invalid project id")
	}

	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperror.NotFound("Project not found")
		}
		return nil, apperror.Storage("failed to load project", err)
	}

	if dto.Stage != nil {
		if !model.ValidStage(*dto.Stage) {
			return nil, apperror.Validation("unknown project stage")
		}
		project.Stage = *dto.Stage
	}
	if dto.Code != nil {
		project.Code = *dto.Code
	}
	if dto.Name != nil {
		project.Name = *dto.Name
	}
	if dto.Department != nil {
		if !model.ValidProjectDepartment(*dto.Department) {
			return nil, apperror.Validation("department cannot own projects")
		}
		project.Department = *dto.Department
	}
	if dto.Budget != nil {
		project.Budget = *dto.Budget
	}
	if dto.Hours != nil {
		project.Hours = *dto.Hours
	}
	if dto.TeamLeader != nil {
		project.TeamLeader = *dto.TeamLeader
	}
	if dto.Director != nil {
		project.Director = *dto.Director
	}
	if dto.HoursLogged != nil {
		project.HoursLogged = *dto.HoursLogged
	}
	if dto.Spent != nil {
		project.Spent = *dto.Spent
	}

	if err := s.projects.Save(ctx, project); err != nil {
		return nil, apperror.Storage("failed to update project", err)
	}
	return project, nil
}

func (s *projectService) Delete(ctx context.Context, id string) error {
	projectID, err := uuid.Parse(id)
	if err != nil {
		return apperror.Validation("invalid project id")
	}
	if err := s.projects.Delete(ctx, projectID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperror.NotFound("Project not found")
		}
		return apperror.Storage("failed to delete project", err)
	}
	return nil
}
