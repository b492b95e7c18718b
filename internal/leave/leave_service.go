package leave

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-hrms/internal/approval"
	"go-hrms/internal/attendance"
	"go-hrms/internal/audit"
	"go-hrms/internal/balance"
	leaveerrors "go-hrms/internal/leave/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Applicants resolves the employee a leave is requested for.
type Applicants interface {
	Applicant(ctx context.Context, employeeID string) (Applicant, error)
}

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor approval.Actor, req CreateLeaveRequest) (LeaveResponse, error)
	List(ctx context.Context, actorID string, canReadAll bool, q ListLeavesQuery) ([]LeaveResponse, error)
	GetByID(ctx context.Context, actorID string, canReadAll bool, id string) (LeaveResponse, error)
	Resolve(ctx context.Context, actor approval.Actor, id string, stage approval.Stage, decision approval.Decision) (LeaveResponse, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	applicants Applicants
	engine     approval.Engine
	auditor    audit.Recorder
	now        func() time.Time
	logger     *zap.Logger
}

type Option func(*service)

func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *service) {
		if logger != nil {
			s.logger = logger.Named("leave.service")
		}
	}
}

func NewService(db *sql.DB, repo Repository, applicants Applicants, engine approval.Engine, auditor audit.Recorder, opts ...Option) Service {
	s := &service{
		db:         db,
		repo:       repo,
		applicants: applicants,
		engine:     engine,
		auditor:    auditor,
		now:        time.Now,
		logger:     zap.L().Named("leave.service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Create(ctx context.Context, actor approval.Actor, req CreateLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("create leave requested",
		zap.String("employee_id", actor.EmployeeID),
		zap.String("leave_type", req.LeaveType),
	)

	draft, err := ParseDraft(req)
	if err != nil {
		s.logger.Warn("create leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	applicant, err := s.applicants.Applicant(ctx, actor.EmployeeID)
	if err != nil {
		s.logger.Warn("create leave applicant lookup failed", zap.String("employee_id", actor.EmployeeID), zap.Error(err))
		return LeaveResponse{}, err
	}
	now := s.now()
	balance.Reset(&applicant.Account, balance.Profile{
		EmployeeType:  applicant.EmployeeType,
		DateOfJoining: applicant.DateOfJoining,
	}, now)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	overlap, err := qtx.HasOverlap(ctx, actor.EmployeeID, draft.Start, draft.End)
	if err != nil {
		s.logger.Error("create leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlap {
		s.logger.Warn("create leave overlap detected",
			zap.String("employee_id", actor.EmployeeID),
			zap.Time("start", draft.Start),
			zap.Time("end", draft.End),
		)
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	history, err := s.history(ctx, qtx, actor.EmployeeID, draft, now.UTC().Year())
	if err != nil {
		s.logger.Error("create leave history lookup failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if err := Check(draft, applicant, history, now); err != nil {
		s.logger.Warn("create leave rejected",
			zap.String("employee_id", actor.EmployeeID),
			zap.String("leave_type", string(draft.Type)),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	l := &Request{
		ID:            uuid.New(),
		EmployeeID:    actor.EmployeeID,
		Department:    applicant.Department,
		LeaveType:     draft.Type,
		Category:      draft.Type.Category(),
		Span:          draft.Span,
		StartDate:     draft.Start,
		EndDate:       draft.End,
		Session:       draft.Session,
		Reason:        req.Reason,
		Status:        approval.InitialStatus(actor.Role),
		CreatedByRole: actor.Role,
	}
	if draft.CompensatoryEntryID != "" {
		l.CompensatoryEntryID = &draft.CompensatoryEntryID
	}
	if draft.ProjectDetails != "" {
		l.ProjectDetails = &draft.ProjectDetails
	}
	if draft.RestrictedHoliday != "" {
		l.RestrictedHoliday = &draft.RestrictedHoliday
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.engine.NotifySubmitted(ctx, l.subject())
	s.auditor.Record(ctx, audit.Entry{
		Action:      "LEAVE_CREATED",
		TargetID:    l.ID.String(),
		PerformedBy: actor.EmployeeID,
		Details: map[string]any{
			"leave_type": string(l.LeaveType),
			"days":       l.Days(),
		},
	})
	s.logger.Info("create leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", actor.EmployeeID),
	)
	return mapToResponse(*l), nil
}

func (s *service) history(ctx context.Context, repo Repository, employeeID string, d Draft, year int) (History, error) {
	var h History
	switch d.Type {
	case TypeCasual, TypeRestrictedHoliday:
		adjacent, err := repo.AdjacentPaid(ctx, employeeID, d.Start, d.End)
		if err != nil {
			return h, err
		}
		for _, r := range adjacent {
			h.AdjacentPaidDays += r.Days()
		}
		if d.Type == TypeRestrictedHoliday {
			if h.RestrictedHolidayThisYear, err = repo.ExistsInYear(ctx, employeeID, TypeRestrictedHoliday, year, false); err != nil {
				return h, err
			}
		}
	case TypeMedical:
		var err error
		if h.MedicalApprovedThisYear, err = repo.ExistsInYear(ctx, employeeID, TypeMedical, year, true); err != nil {
			return h, err
		}
	}
	return h, nil
}

func (s *service) List(ctx context.Context, actorID string, canReadAll bool, q ListLeavesQuery) ([]LeaveResponse, error) {
	filter := ListFilter{EmployeeID: q.EmployeeID, Overall: approval.Decision(q.Status)}
	if !canReadAll {
		filter.EmployeeID = actorID
	}

	var err error
	if q.From != "" {
		if filter.From, err = parseDate(q.From); err != nil {
			return nil, err
		}
	}
	if q.To != "" {
		if filter.To, err = parseDate(q.To); err != nil {
			return nil, err
		}
	}

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("list leaves failed", zap.Error(err))
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetByID(ctx context.Context, actorID string, canReadAll bool, id string) (LeaveResponse, error) {
	l, err := s.find(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !canReadAll && l.EmployeeID != actorID {
		return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
	}
	return mapToResponse(*l), nil
}

func (s *service) find(ctx context.Context, id string) (*Request, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, leaveerrors.ErrLeaveNotFound
	}
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaveerrors.ErrLeaveNotFound
		}
		return nil, err
	}
	return l, nil
}

func (s *service) Resolve(ctx context.Context, actor approval.Actor, id string, stage approval.Stage, decision approval.Decision) (LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
	}

	if _, err := s.engine.Resolve(ctx, approval.ResolveCommand{
		Kind:      approval.KindLeave,
		RequestID: id,
		Stage:     stage,
		Decision:  decision,
		Actor:     actor,
	}); err != nil {
		return LeaveResponse{}, err
	}

	l, err := s.find(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	return mapToResponse(*l), nil
}

// NewFinalHook deducts the leave from the ledger inside the admin approval transaction.
func NewFinalHook(repo Repository, ledger balance.Ledger) approval.Hook {
	return approval.Hook{
		InTx: func(ctx context.Context, tx *sql.Tx, s approval.Subject, _ approval.Actor) error {
			l, err := repo.WithTx(tx).FindByID(ctx, s.ID)
			if err != nil {
				return err
			}
			op, err := LedgerOperation(*l)
			if err != nil {
				return err
			}
			_, err = ledger.ApplyTx(ctx, tx, l.EmployeeID, op)
			return err
		},
		AfterCommit: func(ctx context.Context, s approval.Subject) {
			ledger.Invalidate(ctx, s.EmployeeID)
		},
	}
}

type leaveContext struct {
	repo Repository
}

// NewLeaveContext feeds approved half-day leaves to attendance finalization.
func NewLeaveContext(repo Repository) attendance.LeaveContext {
	return leaveContext{repo: repo}
}

func (c leaveContext) ApprovedHalfDay(ctx context.Context, employeeID string, day time.Time) (*attendance.HalfDayLeave, error) {
	l, err := c.repo.ApprovedHalfDayOn(ctx, employeeID, day)
	if err != nil || l == nil || l.Session == nil {
		return nil, err
	}
	return &attendance.HalfDayLeave{Session: *l.Session}, nil
}
