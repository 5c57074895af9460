package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	jwtsvc "roadassist/internal/pkg/jwt"
	"roadassist/internal/pkg/response"
)

// Auth validates the Bearer token and puts user_id and role into the gin
// context for everything downstream.
func Auth(jwt *jwtsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			abortUnauthorized(c, "Missing Authorization header")
			return
		}
		if !strings.HasPrefix(h, "Bearer ") {
			abortUnauthorized(c, "Invalid Authorization header")
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		if tokenStr == "" {
			abortUnauthorized(c, "Empty token")
			return
		}

		claims, err := jwt.ValidateToken(tokenStr)
		if err != nil {
			abortUnauthorized(c, "Invalid token")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// AuthQueryToken accepts the token from the "token" query parameter as well.
// Browsers cannot set headers on websocket upgrades.
func AuthQueryToken(jwt *jwtsvc.Service) gin.HandlerFunc {
	header := Auth(jwt)
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			header(c)
			return
		}
		tokenStr := strings.TrimSpace(c.Query("token"))
		if tokenStr == "" {
			abortUnauthorized(c, "Missing token")
			return
		}
		claims, err := jwt.ValidateToken(tokenStr)
		if err != nil {
			abortUnauthorized(c, "Invalid token")
			return
		}
		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", message)
	c.Abort()
}
