package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"roadassist/internal/pkg/response"
)

// RequireRole ensures the authenticated user carries the given role.
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			c.Abort()
			return
		}

		if role.(string) != requiredRole {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

func MechanicOnly() gin.HandlerFunc { return RequireRole("mechanic") }

func AdminOnly() gin.HandlerFunc { return RequireRole("admin") }
