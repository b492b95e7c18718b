package od

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-hrms/internal/approval"
	"go-hrms/internal/audit"
	oderrors "go-hrms/internal/od/errors"
	"go-hrms/internal/punch"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Departments interface {
	DepartmentOf(ctx context.Context, employeeID string) (string, error)
}

type Service interface {
	Create(ctx context.Context, actor approval.Actor, req CreateODRequest) (ODResponse, error)
	List(ctx context.Context, actorID string, canReadAll bool, q ListODQuery) ([]ODResponse, error)
	GetByID(ctx context.Context, actorID string, canReadAll bool, id string) (ODResponse, error)
	Resolve(ctx context.Context, actor approval.Actor, id string, stage approval.Stage, decision approval.Decision) (ODResponse, error)
}

type service struct {
	repo        Repository
	departments Departments
	engine      approval.Engine
	auditor     audit.Recorder
	logger      *zap.Logger
}

func NewService(repo Repository, departments Departments, engine approval.Engine, auditor audit.Recorder, logger ...*zap.Logger) Service {
	l := zap.L().Named("od.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("od.service")
	}
	return &service{repo: repo, departments: departments, engine: engine, auditor: auditor, logger: l}
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, oderrors.ErrInvalidDateFormat
	}
	return t, nil
}

func (s *service) Create(ctx context.Context, actor approval.Actor, req CreateODRequest) (ODResponse, error) {
	dateOut, err := parseDate(req.DateOut)
	if err != nil {
		return ODResponse{}, err
	}
	dateIn, err := parseDate(req.DateIn)
	if err != nil {
		return ODResponse{}, err
	}
	if dateOut.After(dateIn) {
		return ODResponse{}, oderrors.ErrInvalidDateRange
	}
	timeOut, ok := punch.NormalizeTime(strings.TrimSpace(req.TimeOut))
	if !ok {
		return ODResponse{}, oderrors.ErrInvalidTime
	}
	var timeIn *string
	if strings.TrimSpace(req.TimeIn) != "" {
		v, ok := punch.NormalizeTime(strings.TrimSpace(req.TimeIn))
		if !ok {
			return ODResponse{}, oderrors.ErrInvalidTime
		}
		if dateOut.Equal(dateIn) && v < timeOut {
			return ODResponse{}, oderrors.ErrInvalidDateRange
		}
		timeIn = &v
	}

	department, err := s.departments.DepartmentOf(ctx, actor.EmployeeID)
	if err != nil {
		s.logger.Warn("create od department lookup failed", zap.String("employee_id", actor.EmployeeID), zap.Error(err))
		return ODResponse{}, err
	}

	r := &Request{
		ID:             uuid.New(),
		EmployeeID:     actor.EmployeeID,
		Department:     department,
		DateOut:        dateOut,
		TimeOut:        timeOut,
		DateIn:         dateIn,
		TimeIn:         timeIn,
		Purpose:        strings.TrimSpace(req.Purpose),
		PlaceUnitVisit: strings.TrimSpace(req.PlaceUnitVisit),
		Status:         approval.InitialStatus(actor.Role),
		CreatedByRole:  actor.Role,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		s.logger.Error("create od persist failed", zap.Error(err))
		return ODResponse{}, err
	}

	s.engine.NotifySubmitted(ctx, r.subject())
	s.auditor.Record(ctx, audit.Entry{
		Action:      "OD_CREATED",
		TargetID:    r.ID.String(),
		PerformedBy: actor.EmployeeID,
		Details:     map[string]any{"place_unit_visit": r.PlaceUnitVisit},
	})
	s.logger.Info("create od success", zap.String("od_id", r.ID.String()), zap.String("employee_id", actor.EmployeeID))
	return mapToResponse(*r), nil
}

func (s *service) List(ctx context.Context, actorID string, canReadAll bool, q ListODQuery) ([]ODResponse, error) {
	filter := ListFilter{EmployeeID: q.EmployeeID, Overall: approval.Decision(q.Status)}
	if !canReadAll {
		filter.EmployeeID = actorID
	}
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("list od failed", zap.Error(err))
		return nil, err
	}
	res := make([]ODResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

func (s *service) find(ctx context.Context, id string) (*Request, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, oderrors.ErrODNotFound
	}
	r, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, oderrors.ErrODNotFound
	}
	return r, err
}

func (s *service) GetByID(ctx context.Context, actorID string, canReadAll bool, id string) (ODResponse, error) {
	r, err := s.find(ctx, id)
	if err != nil {
		return ODResponse{}, err
	}
	if !canReadAll && r.EmployeeID != actorID {
		return ODResponse{}, oderrors.ErrODNotFound
	}
	return mapToResponse(*r), nil
}

// Resolve has no final side effect for OD requests.
func (s *service) Resolve(ctx context.Context, actor approval.Actor, id string, stage approval.Stage, decision approval.Decision) (ODResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return ODResponse{}, oderrors.ErrODNotFound
	}
	if _, err := s.engine.Resolve(ctx, approval.ResolveCommand{
		Kind:      approval.KindOD,
		RequestID: id,
		Stage:     stage,
		Decision:  decision,
		Actor:     actor,
	}); err != nil {
		return ODResponse{}, err
	}

	r, err := s.find(ctx, id)
	if err != nil {
		return ODResponse{}, err
	}
	return mapToResponse(*r), nil
}
