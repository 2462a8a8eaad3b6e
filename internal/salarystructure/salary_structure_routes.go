package salarystructure

import (
	"go-payroll/internal/middleware"
	"go-payroll/internal/role"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	structures := r.Group("/salary-structures")
	structures.Use(middleware.AuthMiddleware())
	{
		structures.GET("", middleware.RequireRole(role.Employee), handler.GetAll)
		structures.GET("/current", middleware.RequireRole(role.Employee), handler.Current)
		structures.POST("", middleware.RequireRole(role.HRManager), handler.Create)
	}
}
