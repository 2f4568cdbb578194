package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Role constants to avoid string typos
const (
	RoleAdmin  = "admin"
	RoleHost   = "host"
	RoleMember = "member"
)

// RBACMiddleware checks if the caller holds one of the allowed roles
func RBACMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}

		for _, role := range allowedRoles {
			if user.Role.RoleName == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
	}
}

// IsModerator reports whether a role may review RSVPs and content
func IsModerator(roleName string) bool {
	return roleName == RoleAdmin || roleName == RoleHost
}
