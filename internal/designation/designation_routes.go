package designation

import (
	"go-payroll/internal/middleware"
	"go-payroll/internal/role"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	designations := r.Group("/designations")

	designations.Use(middleware.AuthMiddleware())

	{
		designations.GET("", middleware.RequireRole(role.HRStaff), h.GetAll)
		designations.POST("", middleware.RequireRole(role.HRManager), h.Create)
		designations.GET("/:id", middleware.RequireRole(role.HRStaff), h.GetById)
		designations.PUT("/:id", middleware.RequireRole(role.HRManager), h.Update)
		designations.DELETE("/:id", middleware.RequireRole(role.HRManager), h.Delete)
	}
}
