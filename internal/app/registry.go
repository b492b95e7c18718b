package app

import (
	"context"
	"fmt"

	"go-hrms/internal/approval"
	"go-hrms/internal/attendance"
	"go-hrms/internal/audit"
	"go-hrms/internal/balance"
	"go-hrms/internal/employee"
	"go-hrms/internal/leave"
	"go-hrms/internal/messaging/kafka"
	"go-hrms/internal/notification"
	"go-hrms/internal/od"
	"go-hrms/internal/overtime"
	"go-hrms/internal/punch"
	"go-hrms/internal/rbac"
	"go-hrms/internal/rbac/infra"
	"go-hrms/internal/shared/connection"
	"go-hrms/internal/shared/lock"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Core is the set of domain services shared by the api and the scheduler.
type Core struct {
	Auditor   audit.Recorder
	RBAC      rbac.Service
	Locker    lock.Locker
	Ledger    balance.Ledger
	Engine    approval.Engine
	Ingestor  punch.Ingestor
	Reconcile attendance.Reconciler

	AttendanceService attendance.Service
	EmployeeService   employee.Service
	LeaveService      leave.Service
	ODService         od.Service
	OvertimeService   overtime.Service
	InboxService      notification.Service
}

// buildCore wires repositories, adapters and services. The punch source is opened only when
// withSource is set since the api never reads the time clock.
func buildCore(ctx context.Context, in *Infra, withSource bool) (*Core, error) {
	cfg := in.Cfg
	log := in.Logger

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	rate, err := decimal.NewFromString(cfg.Overtime.BaseRate)
	if err != nil {
		return nil, fmt.Errorf("invalid OT_BASE_RATE %q: %w", cfg.Overtime.BaseRate, err)
	}

	// --- Repositories ---
	attendanceRepo := attendance.NewRepository(in.GormDB)
	employeeRepo := employee.NewRepository(in.GormDB)
	leaveRepo := leave.NewRepository(in.GormDB)
	notificationRepo := notification.NewRepository(in.GormDB)
	odRepo := od.NewRepository(in.GormDB)
	outboxRepo := kafka.NewOutboxRepository(in.DB)
	overtimeRepo := overtime.NewRepository(in.GormDB)
	punchRepo := punch.NewRepository(in.GormDB)
	rbacRepo := rbac.NewRepository(in.GormDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer("")
	if err != nil {
		return nil, err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer, log)
	if err := rbacService.Load(ctx); err != nil {
		return nil, err
	}

	// --- Cross-cutting ---
	auditor := audit.NewRecorder(in.GormDB, log)
	locker := lock.NewRedisLocker(in.Redis)
	notifier := notification.NewNotifier(outboxRepo,
		notification.WithTopic(cfg.Kafka.NotificationTopic),
		notification.WithNotifierLogger(log),
	)
	lookup := employee.NewLookup(employeeRepo)

	ledger := balance.NewLedger(in.DB, employee.NewBalanceStore(employeeRepo), in.Redis, auditor, balance.WithLogger(log))
	engine := approval.NewEngine(in.DB, rbacService, notifier, employee.NewDirectory(employeeRepo), auditor, log)
	engine.Register(approval.KindLeave, leave.NewApprovalStore(leaveRepo), leave.NewFinalHook(leaveRepo, ledger))
	engine.Register(approval.KindOD, od.NewApprovalStore(odRepo), approval.Hook{})
	engine.Register(approval.KindOT, overtime.NewApprovalStore(overtimeRepo), overtime.NewFinalHook(overtimeRepo, attendanceRepo, ledger))

	policy := overtime.Policy{
		EligibleDepartments: cfg.Overtime.EligibleDepartments,
		BaseRate:            rate,
		Location:            loc,
	}

	core := &Core{
		Auditor: auditor,
		RBAC:    rbacService,
		Locker:  locker,
		Ledger:  ledger,
		Engine:  engine,

		AttendanceService: attendance.NewService(attendanceRepo, log),
		EmployeeService:   employee.NewService(in.DB, employeeRepo, in.Redis, auditor, employee.WithLogger(log)),
		LeaveService:      leave.NewService(in.DB, leaveRepo, lookup, engine, auditor, leave.WithLogger(log)),
		ODService:         od.NewService(odRepo, lookup, engine, auditor, log),
		OvertimeService:   overtime.NewService(overtimeRepo, attendanceRepo, lookup, policy, engine, auditor, overtime.WithLogger(log)),
		InboxService:      notification.NewService(notificationRepo),
	}

	if !withSource {
		return core, nil
	}

	sourceDB, err := connection.ConnectSQLServerWithRetry(cfg.Punch.DSN, cfg.DB.MaxRetries)
	if err != nil {
		return nil, err
	}
	source, err := punch.NewSQLServerSource(sourceDB, cfg.Punch.Table)
	if err != nil {
		return nil, err
	}

	core.Ingestor = punch.NewIngestor(in.DB, punchRepo, source,
		punch.WithJobName(cfg.Punch.JobName),
		punch.WithLogger(log),
	)
	core.Reconcile = attendance.NewReconciler(
		in.DB,
		attendanceRepo,
		punchRepo,
		employee.NewRoster(employeeRepo),
		leave.NewLeaveContext(leaveRepo),
		locker,
		auditor,
		attendance.WithLocation(loc),
		attendance.WithParallelism(cfg.Jobs.Parallelism),
		attendance.WithPurger(core.Ingestor),
		attendance.WithLogger(log),
	)

	log.Info("core services ready", zap.String("timezone", loc.String()))
	return core, nil
}
