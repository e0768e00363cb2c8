package handler

import (
	"net/http"

	"resourcing/internal/middleware"
	"resourcing/internal/model"
	"resourcing/internal/service"
	"resourcing/pkg/pagination"
	"resourcing/pkg/response"

	"github.com/gin-gonic/gin"
)

type RequestHandler struct {
	requestService service.RequestService
}

func NewRequestHandler(requestService service.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

func (h *RequestHandler) RegisterRoutes(router *gin.RouterGroup) {
	requests := router.Group("/api/requests")
	requests.Use(middleware.RequireAuth())
	{
		requests.POST("", h.Submit)
		requests.GET("", h.List)
		requests.PUT("/:id", h.Update)
		requests.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), h.Delete)
		requests.PUT("/:id/approve", middleware.RequireRole(model.RoleAdmin), h.Approve)
		requests.PUT("/:id/reject", middleware.RequireRole(model.RoleAdmin), h.Reject)
	}
}

// Submit creates a pending resource request
// @Summary      Submit a resource request
// @Description  Creates a pending request for weekly hours on a project
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateRequestDTO  true  "Request Payload"
// @Success      201      {object}  response.Response{data=model.Request}
// @Failure      400      {object}  response.Response
// @Router       /api/requests [post]
func (h *RequestHandler) Submit(c *gin.Context) {
	var dto service.CreateRequestDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	req, err := h.requestService.Submit(c.Request.Context(), dto)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, req))
}

// List returns requests filtered by status, project and minimum date
// @Summary      List resource requests
// @Description  Returns requests newest-first; status defaults to Pending
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        status   query     string  false  "Status filter (Pending/Approved/Rejected)"
// @Param        project  query     string  false  "Project filter"
// @Param        minDate  query     string  false  "Only requests created on or after this date"
// @Success      200      {object}  response.Response
// @Router       /api/requests [get]
func (h *RequestHandler) List(c *gin.Context) {
	params := pagination.Parse(c)
	filter := service.ListRequestsFilter{
		Status:  c.Query("status"),
		Project: c.Query("project"),
		MinDate: c.Query("minDate"),
		Page:    params.Page,
		Limit:   params.Limit,
	}

	requests, total, err := h.requestService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"requests":   requests,
		"pagination": pagination.MetaFor(params, total),
	}))
}

// Update patches a pending request's editable fields
func (h *RequestHandler) Update(c *gin.Context) {
	var dto service.UpdateRequestDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	req, err := h.requestService.Update(c.Request.Context(), c.Param("id"), dto)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, req))
}

// Delete removes a request
func (h *RequestHandler) Delete(c *gin.Context) {
	if err := h.requestService.Delete(c.Request.Context(), c.Param("id"), actorID(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Request deleted"}))
}

type approveRequestBody struct {
	WeekHours []service.WeekHourInput `json:"weekHours" binding:"required"`
}

type rejectRequestBody struct {
	Comment string `json:"comment"`
}

// Approve converts a pending request into an approved task with a schedule
// @Summary      Approve a resource request
// @Description  Approves a pending request with a weekly schedule (max 8h/day, 40h/week) and materializes a task
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string              true  "Request ID"
// @Param        payload  body      approveRequestBody  true  "Weekly schedule"
// @Success      200      {object}  response.Response{data=service.DecisionResult}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/requests/{id}/approve [put]
func (h *RequestHandler) Approve(c *gin.Context) {
	var body approveRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.requestService.Approve(c.Request.Context(), c.Param("id"), actorID(c), body.WeekHours)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// Reject declines a pending request with a mandatory comment
// @Summary      Reject a resource request
// @Description  Rejects a pending request; a non-empty comment is required
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string             true  "Request ID"
// @Param        payload  body      rejectRequestBody  true  "Rejection comment"
// @Success      200      {object}  response.Response{data=service.DecisionResult}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/requests/{id}/reject [put]
func (h *RequestHandler) Reject(c *gin.Context) {
	var body rejectRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		// Allow empty body — the service enforces the comment requirement
		body.Comment = ""
	}

	result, err := h.requestService.Reject(c.Request.Context(), c.Param("id"), actorID(c), body.Comment)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}
