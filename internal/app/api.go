package app

import (
	"context"

	"go-hrms/internal/attendance"
	"go-hrms/internal/balance"
	"go-hrms/internal/employee"
	"go-hrms/internal/leave"
	"go-hrms/internal/middleware"
	"go-hrms/internal/notification"
	"go-hrms/internal/od"
	"go-hrms/internal/overtime"
	"go-hrms/internal/rbac"
	"go-hrms/internal/rbac/rbac_http"

	"github.com/gin-gonic/gin"
)

// BuildAPI migrates the schema and mounts every module under /api/v1.
func BuildAPI(ctx context.Context, router *gin.Engine, in *Infra) (*Core, error) {
	if err := Migrate(in.GormDB); err != nil {
		return nil, err
	}
	core, err := buildCore(ctx, in, false)
	if err != nil {
		return nil, err
	}
	registerRoutes(router, in, core)
	in.Logger.Info("api modules registered")
	return core, nil
}

func registerRoutes(router *gin.Engine, in *Infra, core *Core) {
	log := in.Logger
	secret := in.Cfg.JWTSecret

	router.Use(middleware.RequestID())

	// --- Handlers ---
	attendanceHandler := attendance.NewHandler(core.AttendanceService, core.RBAC, log)
	balanceHandler := balance.NewHandler(core.Ledger, core.RBAC, log)
	employeeHandler := employee.NewHandler(core.EmployeeService, core.RBAC, log)
	leaveHandler := leave.NewHandler(core.LeaveService, core.RBAC, log)
	notificationHandler := notification.NewHandler(core.InboxService, log)
	odHandler := od.NewHandler(core.ODService, core.RBAC, log)
	overtimeHandler := overtime.NewHandler(core.OvertimeService, core.RBAC, log)
	rbacHandler := rbac.NewHandler(core.RBAC, log)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	api.Use(middleware.ContextLogger(log))
	{
		attendance.RegisterRoutes(api, attendanceHandler, core.RBAC, secret)
		balance.RegisterRoutes(api, balanceHandler, core.RBAC, secret)
		employee.RegisterRoutes(api, employeeHandler, core.RBAC, secret, log)
		leave.RegisterRoutes(api, leaveHandler, core.RBAC, in.Redis, secret)
		notification.RegisterRoutes(api, notificationHandler, secret)
		od.RegisterRoutes(api, odHandler, core.RBAC, secret)
		overtime.RegisterRoutes(api, overtimeHandler, core.RBAC, in.Redis, secret)
		rbac_http.RegisterRoutes(api, rbacHandler, core.RBAC, secret)
	}
}
