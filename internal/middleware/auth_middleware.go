package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"go-payroll/internal/role"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ContextEmployeeID = "employee_id"
	ContextRole       = "role"
)

// AuthMiddleware validates the bearer token (or access_token cookie) and
// places the authenticated actor in the gin and request contexts. Every
// domain route sits behind it; no domain logic runs without an actor.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		authHeader := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Token not found", nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})

		if err != nil || !token.Valid {
			code := "INVALID_TOKEN"
			message := "Invalid token"
			if err != nil && strings.Contains(err.Error(), "expired") {
				code = "TOKEN_EXPIRED"
				message = "Token has expired"
			}
			response.Error(c, http.StatusUnauthorized, code, message, nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token claims", nil)
			c.Abort()
			return
		}

		employeeID, ok := claims["employee_id"].(string)
		if !ok || employeeID == "" {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Employee ID not found in token", nil)
			c.Abort()
			return
		}

		roleClaim, _ := claims["role"].(string)
		actorRole, err := role.Parse(roleClaim)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Unknown role in token", nil)
			c.Abort()
			return
		}

		c.Set(ContextEmployeeID, employeeID)
		c.Set(ContextRole, string(actorRole))

		ctx := contextutil.WithActorID(c.Request.Context(), employeeID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// ActorFrom rebuilds the actor placed in the gin context by AuthMiddleware.
// A zero actor means the request is unauthenticated.
func ActorFrom(c *gin.Context) role.Actor {
	r, err := role.Parse(c.GetString(ContextRole))
	if err != nil {
		return role.Actor{}
	}
	return role.Actor{
		EmployeeID: c.GetString(ContextEmployeeID),
		Role:       r,
	}
}
