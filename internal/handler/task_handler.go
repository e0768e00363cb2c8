package handler

import (
	"net/http"

	"resourcing/internal/middleware"
	"resourcing/internal/model"
	"resourcing/internal/service"
	"resourcing/pkg/response"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	taskService       service.TaskService
	completionService service.CompletionService
}

func NewTaskHandler(taskService service.TaskService, completionService service.CompletionService) *TaskHandler {
	return &TaskHandler{taskService: taskService, completionService: completionService}
}

func (h *TaskHandler) RegisterRoutes(router *gin.RouterGroup) {
	tasks := router.Group("/api/tasks")
	tasks.Use(middleware.RequireAuth())
	{
		tasks.GET("", h.List)
		tasks.GET("/user/:email", h.ListByUser)
		tasks.PUT("/:id", h.Update)
		tasks.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), h.Delete)
		tasks.POST("/:id/complete", h.RecordCompletion)
		tasks.GET("/:id/completions", h.ListCompletions)
	}
}

// List returns tasks, flattened to one row per scheduled day
// @Summary      List tasks
// @Description  Returns tasks newest-first; approved tasks with a schedule are flattened to one row per weekHours entry
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        status     query     string  false  "Status filter"
// @Param        project    query     string  false  "Project filter"
// @Param        weekStart  query     string  false  "Keep only tasks scheduled within [weekStart, weekStart+7d)"
// @Success      200        {object}  response.Response{data=[]service.TaskRow}
// @Failure      400        {object}  response.Response
// @Router       /api/tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	query := service.TaskListQuery{
		Status:    c.Query("status"),
		Project:   c.Query("project"),
		WeekStart: c.Query("weekStart"),
	}

	rows, err := h.taskService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rows))
}

// ListByUser returns a user's tasks, matched case-insensitively by email
func (h *TaskHandler) ListByUser(c *gin.Context) {
	tasks, err := h.taskService.ListByUser(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, tasks))
}

// Update patches a task's editable fields; weekHours replaces the whole array
func (h *TaskHandler) Update(c *gin.Context) {
	var dto service.UpdateTaskDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	task, err := h.taskService.Update(c.Request.Context(), c.Param("id"), dto)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, task))
}

// Delete removes a task, or a single scheduled day when ?date= is given
// @Summary      Delete a task or one scheduled day
// @Description  Without a date query the whole task is removed; with one, only the matching weekHours entry (the task itself when no days remain)
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string  true   "Task ID"
// @Param        date  query     string  false  "Scheduled day to remove"
// @Success      200   {object}  response.Response{data=service.TaskDeleteResult}
// @Failure      404   {object}  response.Response
// @Router       /api/tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	result, err := h.taskService.Delete(c.Request.Context(), c.Param("id"), c.Query("date"), actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// RecordCompletion logs daily progress against one scheduled day
// @Summary      Record daily progress
// @Description  Saves actual hours for one scheduled day; completed days with hours lock permanently
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                       true  "Task ID"
// @Param        payload  body      service.RecordCompletionDTO  true  "Progress Payload"
// @Success      200      {object}  response.Response{data=service.RecordResult}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/tasks/{id}/complete [post]
func (h *TaskHandler) RecordCompletion(c *gin.Context) {
	var dto service.RecordCompletionDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.completionService.Record(c.Request.Context(), c.Param("id"), actorID(c), dto)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// ListCompletions returns the completion ledger rows for one task
func (h *TaskHandler) ListCompletions(c *gin.Context) {
	completions, err := h.completionService.ListByTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, completions))
}
