package handler

import (
	"net/http"

	"resourcing/internal/middleware"
	"resourcing/internal/service"
	"resourcing/pkg/response"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.RefreshToken)
		auth.POST("/logout", h.Logout)
		auth.GET("/check-session", middleware.RequireAuth(), h.CheckSession)
	}
}

// Login authenticates a corporate-domain user, provisioning on first sign-in
// @Summary      Login
// @Description  Authenticates a corporate-domain email, creating the account on first login, and returns a JWT
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginRequest  true  "Login Credentials"
// @Success      200      {object}  response.Response{data=service.LoginResponse}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	res, err := h.userService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	// Set tokens as HttpOnly cookies
	middleware.SetTokenCookies(c, res.Token, res.RefreshToken)

	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

type refreshBody struct {
	RefreshToken string `json:"refreshToken"`
}

// RefreshToken exchanges a refresh token for a fresh access token
// @Summary      Refresh session
// @Description  Exchanges the refresh token (cookie or body) for a new access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  response.Response{data=service.TokenResponse}
// @Failure      401  {object}  response.Response
// @Router       /auth/refresh [post]
func (h *UserHandler) RefreshToken(c *gin.Context) {
	refreshToken, _ := c.Cookie("refresh_token")
	if refreshToken == "" {
		var body refreshBody
		if err := c.ShouldBindJSON(&body); err == nil {
			refreshToken = body.RefreshToken
		}
	}
	if refreshToken == "" {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Refresh token is missing"))
		return
	}

	res, err := h.userService.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		middleware.ClearTokenCookies(c)
		respondError(c, err)
		return
	}

	middleware.SetTokenCookies(c, res.Token, refreshToken)

	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// Logout invalidates the refresh token and clears session cookies
func (h *UserHandler) Logout(c *gin.Context) {
	refreshToken, _ := c.Cookie("refresh_token")
	if refreshToken != "" {
		if err := h.userService.Logout(c.Request.Context(), refreshToken); err != nil {
			respondError(c, err)
			return
		}
	}

	middleware.ClearTokenCookies(c)

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Logged out"}))
}

// CheckSession reports the identity baked into a still-valid access token
// @Summary      Check session
// @Description  Returns the authenticated user's email and role from the access token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /auth/check-session [get]
func (h *UserHandler) CheckSession(c *gin.Context) {
	email, _ := c.Get("userEmail")
	role, _ := c.Get("userRole")

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"email": email,
		"role":  role,
	}))
}
