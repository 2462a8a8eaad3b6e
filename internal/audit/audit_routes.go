package audit

import (
	"go-payroll/internal/middleware"
	"go-payroll/internal/role"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	logs := r.Group("/audit-logs")
	logs.Use(middleware.AuthMiddleware())
	{
		logs.GET("", middleware.RequireRole(role.HRManager), handler.Recent)
	}
}
