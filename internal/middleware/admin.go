package middleware

import (
	"github.com/gin-gonic/gin"

	apierrors "github.com/civicwatch/infra-report-api/internal/errors"
)

// RequireAdmin rejects requests from non-admin accounts. Must run after
// RequireUser.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := GetCurrentUser(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if !user.IsAdmin() {
			apierrors.Forbidden(c, "Admin access required")
			c.Abort()
			return
		}

		c.Next()
	}
}
