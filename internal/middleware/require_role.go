package middleware

import (
	"net/http"

	"go-payroll/internal/role"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// RequireRole gates a route on the role hierarchy: the actor's role must
// rank at or above required. Record-level ownership narrowing for the
// employee role stays in the services; this only enforces the minimum rank.
func RequireRole(required role.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := ActorFrom(c)
		if !actor.Authenticated() {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication is required", nil)
			c.Abort()
			return
		}

		allowed, err := role.HasAccess(actor.Role, required)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
			c.Abort()
			return
		}

		if !allowed {
			response.Error(c, http.StatusForbidden, "FORBIDDEN",
				"You do not have permission to access this resource", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
