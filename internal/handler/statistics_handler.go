package handler

import (
	"net/http"

	"resourcing/internal/middleware"
	"resourcing/internal/model"
	"resourcing/internal/service"
	"resourcing/pkg/response"

	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct {
	statisticsService service.StatisticsService
}

func NewStatisticsHandler(statisticsService service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService}
}

func (h *StatisticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/statistics/summary", middleware.RequireRole(model.RoleAdmin), h.Summary)
}

// Summary returns the planner dashboard numbers for one week
// @Summary      Weekly summary
// @Description  Returns pending request and approved task counts plus scheduled and completed hours for the week containing weekStart
// @Tags         statistics
// @Produce      json
// @Security     BearerAuth
// @Param        weekStart  query     string  false  "Any day in the target week, defaults to now"
// @Success      200        {object}  response.Response{data=service.SummaryResponse}
// @Failure      400        {object}  response.Response
// @Router       /api/statistics/summary [get]
func (h *StatisticsHandler) Summary(c *gin.Context) {
	summary, err := h.statisticsService.Summary(c.Request.Context(), c.Query("weekStart"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}
