package handler

import (
	"net/http"

	"resourcing/internal/middleware"
	"resourcing/internal/model"
	"resourcing/internal/service"
	"resourcing/pkg/response"

	"github.com/gin-gonic/gin"
)

type CompletionHandler struct {
	completionService service.CompletionService
}

func NewCompletionHandler(completionService service.CompletionService) *CompletionHandler {
	return &CompletionHandler{completionService: completionService}
}

func (h *CompletionHandler) RegisterRoutes(router *gin.RouterGroup) {
	completions := router.Group("/api/completions")
	completions.Use(middleware.RequireAuth())
	{
		completions.GET("", h.ListByUser)
		completions.GET("/all", middleware.RequireRole(model.RoleAdmin), h.ListAll)
	}
}

// ListByUser returns one user's completions, newest first
// @Summary      List a user's completions
// @Description  Returns completions for the given userEmail, optionally within an inclusive date range
// @Tags         completions
// @Produce      json
// @Security     BearerAuth
// @Param        userEmail  query     string  true   "User email"
// @Param        startDate  query     string  false  "Range start (inclusive)"
// @Param        endDate    query     string  false  "Range end (inclusive)"
// @Success      200        {object}  response.Response{data=[]model.Completion}
// @Failure      400        {object}  response.Response
// @Router       /api/completions [get]
func (h *CompletionHandler) ListByUser(c *gin.Context) {
	query := service.CompletionRangeQuery{
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
	}

	completions, err := h.completionService.ListByUser(c.Request.Context(), c.Query("userEmail"), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, completions))
}

// ListAll returns every completion, admin only
func (h *CompletionHandler) ListAll(c *gin.Context) {
	query := service.CompletionRangeQuery{
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
	}

	completions, err := h.completionService.ListAll(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, completions))
}
