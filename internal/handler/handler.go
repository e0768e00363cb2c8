package handler

import (
	"resourcing/internal/apperror"
	"resourcing/pkg/response"

	"github.com/gin-gonic/gin"
)

// respondError maps a service error onto the response envelope. Locked
// completion conflicts additionally carry the locked flag so clients can
// disable the form instead of retrying.
func respondError(c *gin.Context, err error) {
	ae := apperror.From(err)
	if apperror.IsLocked(err) {
		c.JSON(ae.HTTPStatus, response.LockedError(ae.HTTPStatus, ae.Message))
		return
	}
	c.JSON(ae.HTTPStatus, response.Error(ae.HTTPStatus, ae.Message))
}

// actorID returns the authenticated caller's id from the gin context
func actorID(c *gin.Context) string {
	userID, _ := c.Get("userID")
	userIDStr, _ := userID.(string)
	return userIDStr
}
