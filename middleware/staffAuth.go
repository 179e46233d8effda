package middleware

import (
	"net/http"
	"strings"

	"bayassist/utils"

	"github.com/gin-gonic/gin"
)

// StaffAuthMiddleware verifies staff bearer tokens issued by the external auth
// service. This engine never issues tokens itself.
func StaffAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ValidateStaffToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		if sub, ok := claims["sub"].(string); ok {
			c.Set("staffID", sub)
		}
		c.Next()
	}
}
