package employee

import (
	"go-payroll/internal/middleware"
	"go-payroll/internal/role"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	employees := r.Group("/employees")

	employees.Use(middleware.AuthMiddleware())

	{
		employees.GET("", middleware.RequireRole(role.HRStaff), h.GetAll)
		employees.GET("/options", middleware.RequireRole(role.HRStaff), h.GetOptions)
		employees.POST("", middleware.RequireRole(role.HRStaff), h.Create)
		// Record-level ownership for employee-role actors is enforced in the
		// service, so the route gate is the lowest rank.
		employees.GET("/:id", middleware.RequireRole(role.Employee), h.GetById)
		employees.PUT("/:id", middleware.RequireRole(role.HRStaff), h.Update)
	}
}
