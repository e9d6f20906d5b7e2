package middleware

import (
	"net/http"
	"strings"

	"github.com/AtRiskMedia/crosstrace-go/internal/infrastructure/security"
	"github.com/AtRiskMedia/crosstrace-go/pkg/config"
	"github.com/gin-gonic/gin"
)

// ServiceAuthMiddleware validates the service bearer token on mutating
// routes. When no service secret is configured the check is skipped, which
// is the standalone/dev posture.
func ServiceAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if config.ServiceJWTSecret == "" {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := security.ValidateJWT(token, config.ServiceJWTSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		if sub, ok := claims["sub"].(string); ok {
			c.Set("serviceSubject", sub)
		}
		c.Next()
	}
}
