package overtime

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go-hrms/internal/approval"
	"go-hrms/internal/attendance"
	"go-hrms/internal/audit"
	"go-hrms/internal/balance"
	overtimeerrors "go-hrms/internal/overtime/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Departments interface {
	DepartmentOf(ctx context.Context, employeeID string) (string, error)
}

// Records looks up the attendance row a claim is made against.
type Records interface {
	FindByEmployeeAndDate(ctx context.Context, employeeID string, day time.Time) (*attendance.Record, error)
}

type Service interface {
	Create(ctx context.Context, actor approval.Actor, req CreateClaimRequest) (ClaimResponse, error)
	List(ctx context.Context, actorID string, canReadAll bool, q ListClaimsQuery) ([]ClaimResponse, error)
	GetByID(ctx context.Context, actorID string, canReadAll bool, id string) (ClaimResponse, error)
	Resolve(ctx context.Context, actor approval.Actor, id string, stage approval.Stage, decision approval.Decision) (ClaimResponse, error)
}

type service struct {
	repo        Repository
	records     Records
	departments Departments
	policy      Policy
	engine      approval.Engine
	auditor     audit.Recorder
	now         func() time.Time
	logger      *zap.Logger
}

type Option func(*service)

func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *service) {
		if logger != nil {
			s.logger = logger.Named("overtime.service")
		}
	}
}

func NewService(repo Repository, records Records, departments Departments, policy Policy, engine approval.Engine, auditor audit.Recorder, opts ...Option) Service {
	s := &service{
		repo:        repo,
		records:     records,
		departments: departments,
		policy:      policy,
		engine:      engine,
		auditor:     auditor,
		now:         time.Now,
		logger:      zap.L().Named("overtime.service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, overtimeerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func parseClaimType(v string) (*ClaimType, error) {
	switch ClaimType(strings.TrimSpace(v)) {
	case "":
		return nil, nil
	case ClaimFull:
		t := ClaimFull
		return &t, nil
	case ClaimPartial:
		t := ClaimPartial
		return &t, nil
	}
	return nil, overtimeerrors.ErrInvalidClaimType
}

func (s *service) Create(ctx context.Context, actor approval.Actor, req CreateClaimRequest) (ClaimResponse, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return ClaimResponse{}, err
	}
	claimType, err := parseClaimType(req.ClaimType)
	if err != nil {
		return ClaimResponse{}, err
	}

	department, err := s.departments.DepartmentOf(ctx, actor.EmployeeID)
	if err != nil {
		s.logger.Warn("create ot department lookup failed", zap.String("employee_id", actor.EmployeeID), zap.Error(err))
		return ClaimResponse{}, err
	}

	exists, err := s.repo.ExistsOn(ctx, actor.EmployeeID, date)
	if err != nil {
		return ClaimResponse{}, err
	}
	if exists {
		return ClaimResponse{}, overtimeerrors.ErrClaimExists
	}

	record, err := s.records.FindByEmployeeAndDate(ctx, actor.EmployeeID, date)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("create ot attendance lookup failed", zap.Error(err))
		return ClaimResponse{}, err
	}

	draft := Draft{Date: date, Hours: req.Hours, ClaimType: claimType}
	assessment, err := s.policy.Validate(draft, department, record, s.now())
	if err != nil {
		s.logger.Debug("create ot rejected",
			zap.String("employee_id", actor.EmployeeID),
			zap.String("date", req.Date),
			zap.Error(err),
		)
		return ClaimResponse{}, err
	}

	c := &Claim{
		ID:                 uuid.New(),
		EmployeeID:         actor.EmployeeID,
		Department:         department,
		Date:               date,
		Hours:              req.Hours,
		ClaimType:          assessment.ClaimType,
		CompensatoryHours:  assessment.CompensatoryHours,
		PaymentAmount:      assessment.PaymentAmount,
		ProjectName:        strings.TrimSpace(req.ProjectName),
		Description:        strings.TrimSpace(req.Description),
		AttendanceRecordID: &record.ID,
		Status:             approval.InitialStatus(actor.Role),
		CreatedByRole:      actor.Role,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		s.logger.Error("create ot persist failed", zap.Error(err))
		return ClaimResponse{}, err
	}

	s.engine.NotifySubmitted(ctx, c.subject())
	details := map[string]any{
		"date":               req.Date,
		"hours":              c.Hours.String(),
		"compensatory_hours": c.CompensatoryHours,
	}
	if c.PaymentAmount != nil {
		details["payment_amount"] = c.PaymentAmount.String()
	}
	s.auditor.Record(ctx, audit.Entry{
		Action:      "OT_CREATED",
		TargetID:    c.ID.String(),
		PerformedBy: actor.EmployeeID,
		Details:     details,
	})
	s.logger.Info("create ot success", zap.String("claim_id", c.ID.String()), zap.String("employee_id", actor.EmployeeID))
	return mapToResponse(*c), nil
}

func (s *service) List(ctx context.Context, actorID string, canReadAll bool, q ListClaimsQuery) ([]ClaimResponse, error) {
	filter := ListFilter{EmployeeID: q.EmployeeID, Overall: approval.Decision(q.Status)}
	if !canReadAll {
		filter.EmployeeID = actorID
	}
	if q.From != "" {
		from, err := parseDate(q.From)
		if err != nil {
			return nil, err
		}
		filter.From = from
	}
	if q.To != "" {
		to, err := parseDate(q.To)
		if err != nil {
			return nil, err
		}
		filter.To = to
	}

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("list ot failed", zap.Error(err))
		return nil, err
	}
	res := make([]ClaimResponse, len(rows))
	for i, c := range rows {
		res[i] = mapToResponse(c)
	}
	return res, nil
}

func (s *service) find(ctx context.Context, id string) (*Claim, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, overtimeerrors.ErrClaimNotFound
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) GetByID(ctx context.Context, actorID string, canReadAll bool, id string) (ClaimResponse, error) {
	c, err := s.find(ctx, id)
	if err != nil {
		return ClaimResponse{}, err
	}
	if !canReadAll && c.EmployeeID != actorID {
		return ClaimResponse{}, overtimeerrors.ErrClaimNotFound
	}
	return mapToResponse(*c), nil
}

func (s *service) Resolve(ctx context.Context, actor approval.Actor, id string, stage approval.Stage, decision approval.Decision) (ClaimResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return ClaimResponse{}, overtimeerrors.ErrClaimNotFound
	}
	if _, err := s.engine.Resolve(ctx, approval.ResolveCommand{
		Kind:      approval.KindOT,
		RequestID: id,
		Stage:     stage,
		Decision:  decision,
		Actor:     actor,
	}); err != nil {
		return ClaimResponse{}, err
	}

	c, err := s.find(ctx, id)
	if err != nil {
		return ClaimResponse{}, err
	}
	return mapToResponse(*c), nil
}

// NewFinalHook spends the claimed overtime once the admin approves: the linked attendance
// minutes are zeroed and any compensatory block is banked.
func NewFinalHook(repo Repository, records attendance.Repository, ledger balance.Ledger) approval.Hook {
	return approval.Hook{
		InTx: func(ctx context.Context, tx *sql.Tx, s approval.Subject, _ approval.Actor) error {
			c, err := repo.WithTx(tx).FindByID(ctx, s.ID)
			if err != nil {
				return err
			}
			if c.AttendanceRecordID != nil {
				if _, err := records.WithTx(tx).ZeroOvertime(ctx, *c.AttendanceRecordID); err != nil {
					return err
				}
			}
			if c.CompensatoryHours > 0 {
				if _, err := ledger.ApplyTx(ctx, tx, c.EmployeeID, balance.AddCompensatory(c.Date, c.CompensatoryHours)); err != nil {
					return err
				}
			}
			return nil
		},
		AfterCommit: func(ctx context.Context, s approval.Subject) {
			ledger.Invalidate(ctx, s.EmployeeID)
		},
	}
}
