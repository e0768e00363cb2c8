package handler

import (
	"net/http"

	"resourcing/internal/middleware"
	"resourcing/internal/model"
	"resourcing/internal/service"
	"resourcing/pkg/response"

	"github.com/gin-gonic/gin"
)

type MemberHandler struct {
	memberService service.MemberService
}

func NewMemberHandler(memberService service.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

func (h *MemberHandler) RegisterRoutes(router *gin.RouterGroup) {
	members := router.Group("/api/members")
	members.Use(middleware.RequireAuth())
	{
		members.GET("", h.List)
		members.POST("", middleware.RequireRole(model.RoleAdmin), h.Create)
		members.PUT("/:id", middleware.RequireRole(model.RoleAdmin), h.Update)
		members.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), h.Delete)
	}
}

// Create registers a team member
// @Summary      Create a member
// @Description  Registers a team member with a corporate email and billable rate
// @Tags         members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateMemberDTO  true  "Member Payload"
// @Success      201      {object}  response.Response{data=model.Member}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/members [post]
func (h *MemberHandler) Create(c *gin.Context) {
	var dto service.CreateMemberDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	member, err := h.memberService.Create(c.Request.Context(), dto)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, member))
}

// List returns all members
func (h *MemberHandler) List(c *gin.Context) {
	members, err := h.memberService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, members))
}

// Update patches a member's editable fields
func (h *MemberHandler) Update(c *gin.Context) {
	var dto service.UpdateMemberDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	member, err := h.memberService.Update(c.Request.Context(), c.Param("id"), dto)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, member))
}

// Delete removes a member
func (h *MemberHandler) Delete(c *gin.Context) {
	if err := h.memberService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Member deleted"}))
}
