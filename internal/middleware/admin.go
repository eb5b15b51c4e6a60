package middleware

import (
	"net/http" // HTTP status codes
	"slices"   // Role lookup

	"ecommerce_api/internal/domain" // Role names

	"github.com/gin-gonic/gin" // Gin web framework
)

// RequireRole lets the request through only when the token's role claim is one of roles.
// It must run after JWTAuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(ContextUserID); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		role := c.GetString(ContextRole)
		if !slices.Contains(roles, role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
		c.Next()
	}
}

// AdminOnlyMiddleware is RequireRole(domain.RoleAdmin)
func AdminOnlyMiddleware() gin.HandlerFunc {
	return RequireRole(domain.RoleAdmin)
}
