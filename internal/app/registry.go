package app

import (
	"go-payroll/internal/audit"
	"go-payroll/internal/department"
	"go-payroll/internal/designation"
	"go-payroll/internal/employee"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/payroll"
	"go-payroll/internal/salarystructure"
	"go-payroll/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	auditRepo := audit.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	departmentRepo := department.NewRepository(gormDB)
	designationRepo := designation.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(gormDB)
	payrollRepo := payroll.NewRepository(gormDB)
	structureRepo := salarystructure.NewRepository(gormDB)

	// --- Services ---
	recorder := audit.NewRecorder(auditRepo, zap.L())
	departmentService := department.NewService(gormDB, departmentRepo, recorder)
	designationService := designation.NewService(gormDB, designationRepo, departmentRepo, recorder)
	employeeService := employee.NewServiceWithOutbox(
		gormDB, employeeRepo, counterRepo, recorder, outboxRepo, rdb)
	structureService := salarystructure.NewService(gormDB, structureRepo, recorder)
	payrollService := payroll.NewServiceWithOutbox(
		gormDB, payrollRepo, structureService, recorder, outboxRepo)

	// --- Handlers ---
	auditHandler := audit.NewHandler(recorder)
	departmentHandler := department.NewHandler(departmentService)
	designationHandler := designation.NewHandler(designationService)
	employeeHandler := employee.NewHandler(employeeService)
	payrollHandler := payroll.NewHandlerWithRedis(payrollService, rdb)
	structureHandler := salarystructure.NewHandler(structureService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		audit.RegisterRoutes(api, auditHandler)
		department.RegisterRoutes(api, departmentHandler)
		designation.RegisterRoutes(api, designationHandler)
		employee.RegisterRoutes(api, employeeHandler)
		payroll.RegisterRoutes(api, payrollHandler, rdb)
		salarystructure.RegisterRoutes(api, structureHandler)
	}

	return nil
}
