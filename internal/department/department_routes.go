package department

import (
	"go-payroll/internal/middleware"
	"go-payroll/internal/role"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	departments := r.Group("/departments")

	departments.Use(middleware.AuthMiddleware())

	{
		departments.GET("", middleware.RequireRole(role.HRStaff), h.GetAll)
		departments.POST("", middleware.RequireRole(role.HRManager), h.Create)
		departments.GET("/:id", middleware.RequireRole(role.HRStaff), h.GetById)
		departments.PUT("/:id", middleware.RequireRole(role.HRManager), h.Update)
		departments.DELETE("/:id", middleware.RequireRole(role.HRManager), h.Delete)
	}
}
