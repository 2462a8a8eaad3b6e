package payroll

import (
	"go-payroll/internal/middleware"
	"go-payroll/internal/role"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	payrolls := r.Group("/payrolls")
	payrolls.Use(middleware.AuthMiddleware())
	{
		payrolls.GET("", middleware.RequireRole(role.HRStaff), handler.GetAll)

		// Reads allow the employee role; the service narrows access to the
		// actor's own records.
		payrolls.GET("/:id", middleware.RequireRole(role.Employee), handler.GetById)
		payrolls.GET("/:id/items", middleware.RequireRole(role.Employee), handler.GetItems)
		payrolls.GET("/:id/totals", middleware.RequireRole(role.Employee), handler.Totals)

		if redisClient != nil {
			payrolls.POST(
				"",
				middleware.Idempotency(redisClient),
				middleware.RequireRole(role.HRStaff),
				handler.Create,
			)
		} else {
			payrolls.POST("", middleware.RequireRole(role.HRStaff), handler.Create)
		}
		payrolls.POST("/:id/items", middleware.RequireRole(role.HRStaff), handler.AddItem)
		payrolls.POST("/:id/approve", middleware.RequireRole(role.HRManager), handler.Approve)
		payrolls.POST("/:id/mark-paid", middleware.RequireRole(role.HRManager), handler.MarkAsPaid)
	}
}
