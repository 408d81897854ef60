package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/civicwatch/infra-report-api/internal/constants"
	apierrors "github.com/civicwatch/infra-report-api/internal/errors"
	"github.com/civicwatch/infra-report-api/internal/models"
	"github.com/civicwatch/infra-report-api/internal/services"
)

// RequireAuth checks if the user is authenticated via session
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get(constants.ContextKeyUserID)

		if userID == nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// RequireUser loads the authenticated account and stores it in the context.
// Sessions referencing a deleted account are rejected.
func RequireUser(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		user, err := authService.GetUser(c.Request.Context(), userID)
		if err != nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUser, user)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

// GetCurrentUser retrieves the loaded account from context
func GetCurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}
