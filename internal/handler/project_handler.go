package handler

import (
	"net/http"

	"resourcing/internal/middleware"
	"resourcing/internal/model"
	"resourcing/internal/service"
	"resourcing/pkg/response"

	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	projectService service.ProjectService
}

func NewProjectHandler(projectService service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

func (h *ProjectHandler) RegisterRoutes(router *gin.RouterGroup) {
	projects := router.Group("/api/projects")
	projects.Use(middleware.RequireAuth())
	{
		projects.GET("", h.List)
		projects.POST("", middleware.RequireRole(model.RoleAdmin), h.Create)
		projects.PUT("/:id", middleware.RequireRole(model.RoleAdmin), h.Update)
		projects.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), h.Delete)
	}
}

// Create registers a project
// @Summary      Create a project
// @Description  Registers a project with code, stage, department and budget
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateProjectDTO  true  "Project Payload"
// @Success      201      {object}  response.Response{data=model.Project}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	var dto service.CreateProjectDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), dto)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, project))
}

// List returns projects, optionally filtered by department
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.projectService.List(c.Request.Context(), c.Query("department"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, projects))
}

// Update patches a project's editable fields
func (h *ProjectHandler) Update(c *gin.Context) {
	var dto service.UpdateProjectDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	project, err := h.projectService.Update(c.Request.Context(), c.Param("id"), dto)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, project))
}

// Delete removes a project
func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.projectService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Project deleted"}))
}
