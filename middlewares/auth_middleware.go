// middlewares/auth_middleware.go
package middlewares

import (
	"net/http"
	"strings"

	"nutrilog/utils"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the HS256 bearer token and stores the caller's
// uid (and email, when present) on the context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}
		if secret == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "server misconfigured: JWT_SECRET not set"})
			return
		}

		uid, email, err := utils.ParseUserID(strings.TrimPrefix(authHeader, "Bearer "), secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Set("uid", uid)
		if email != "" {
			c.Set("email", email)
		}
		c.Next()
	}
}
