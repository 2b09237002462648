package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/zayyadi/paroll-sub000/internal/core/domain"
)

// userIDKey is the key used to store the authenticated user's ID in the
// standard request context.
const userIDKey = contextKey("userID")

// GetUserIDFromContext retrieves the authenticated user ID from the request
// behind a Gin context. It returns the user ID and a boolean indicating if it
// was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	return GetUserIDFromCtx(c.Request.Context())
}

// GetUserIDFromCtx retrieves the authenticated user ID from a standard
// context.
func GetUserIDFromCtx(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// ActionContextFromRequest builds the audit attribution for the current
// request: the authenticated actor when one is present, plus client IP and
// user agent. An unauthenticated request yields a system context that still
// carries the network details.
func ActionContextFromRequest(c *gin.Context) domain.ActionContext {
	actx := domain.ActionContext{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	if userID, ok := GetUserIDFromContext(c); ok {
		actx.ActorID = &userID
	}
	return actx
}
