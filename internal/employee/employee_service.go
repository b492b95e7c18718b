package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"go-hrms/internal/audit"
	"go-hrms/internal/balance"
	"go-hrms/internal/domain"
	employeeerrors "go-hrms/internal/employee/errors"
	"go-hrms/internal/shared/apperror"
	"go-hrms/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	OptionsCacheKey = "employees:options"
	optionsCacheTTL = time.Hour
)

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context) ([]EmployeeResponse, error)
	GetOptions(ctx context.Context) ([]EmployeeOptionResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	// Update edits profile fields. Callers without manage rights may only edit their own
	// profile, and only the sections that are unlocked.
	Update(ctx context.Context, actorID string, canManage bool, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	SetLocks(ctx context.Context, actorID, id string, req UpdateLocksRequest) (EmployeeResponse, error)
	Deactivate(ctx context.Context, actorID, id string) error
}

type service struct {
	db      *sql.DB
	repo    Repository
	rdb     *redis.Client
	sf      *singleflight.Group
	auditor audit.Recorder
	now     func() time.Time
	logger  *zap.Logger
}

type Option func(*service)

func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *service) {
		if logger != nil {
			s.logger = logger.Named("employee.service")
		}
	}
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, auditor audit.Recorder, opts ...Option) Service {
	s := &service{
		db:      db,
		repo:    repo,
		rdb:     rdb,
		sf:      &singleflight.Group{},
		auditor: auditor,
		now:     time.Now,
		logger:  zap.L().Named("employee.service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, employeeerrors.ErrInvalidDateOfJoining
	}
	return t, nil
}

func (s *service) Create(ctx context.Context, actorID string, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("external_id", req.ExternalID),
		zap.String("department", req.Department),
	)

	role := domain.Role(req.Role)
	if !role.Valid() {
		return EmployeeResponse{}, employeeerrors.ErrInvalidRole
	}
	joined, err := parseDate(req.DateOfJoining)
	if err != nil {
		return EmployeeResponse{}, err
	}

	empl := &Employee{
		ID:              uuid.New(),
		ExternalID:      strings.TrimSpace(req.ExternalID),
		Email:           strings.ToLower(strings.TrimSpace(req.Email)),
		FullName:        strings.TrimSpace(req.FullName),
		MobileNumber:    req.MobileNumber,
		Gender:          domain.Gender(req.Gender),
		Role:            role,
		Department:      strings.TrimSpace(req.Department),
		Designation:     req.Designation,
		EmployeeType:    domain.EmployeeType(req.EmployeeType),
		DateOfJoining:   joined,
		Active:          true,
		BasicInfoLocked: true,
		PositionLocked:  true,
		StatutoryLocked: true,
		PaymentLocked:   true,
		DocumentsLocked: true,
	}
	acc, err := balance.Initialize(empl.profile(), s.now())
	if err != nil {
		s.logger.Error("create employee initialize account failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}
	empl.Account = acc

	if err := s.repo.Create(ctx, empl); err != nil {
		s.logger.Error("create employee persist failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	s.invalidateOptions(ctx)

	s.auditor.Record(ctx, audit.Entry{
		Action:      "EMPLOYEE_CREATED",
		TargetID:    empl.ID.String(),
		PerformedBy: actorID,
		Details: map[string]any{
			"external_id":   empl.ExternalID,
			"role":          empl.Role,
			"employee_type": empl.EmployeeType,
			"paid_opening":  acc.Paid,
		},
	})
	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID.String()),
	)
	return mapToResponse(*empl), nil
}

func (s *service) GetAll(ctx context.Context) ([]EmployeeResponse, error) {
	rows, err := s.repo.FindActive(ctx)
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetOptions(ctx context.Context) ([]EmployeeOptionResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, OptionsCacheKey).Result(); err == nil {
			var resp []EmployeeOptionResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(OptionsCacheKey, func() (interface{}, error) {
		rows, err := s.repo.FindActive(ctx)
		if err != nil {
			return nil, mapRepositoryError(err)
		}
		resp := mapToOptions(rows)

		if s.rdb != nil {
			if data, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, OptionsCacheKey, data, optionsCacheTTL).Err(); err != nil {
					s.logger.Warn("employee options cache write failed", zap.Error(err))
				}
			}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]EmployeeOptionResponse), nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*empl), nil
}

// apply copies the present fields of req onto e and returns their names.
func (req UpdateEmployeeRequest) apply(e *Employee) ([]string, error) {
	var fields []string
	setString := func(name string, src *string, dst *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
			fields = append(fields, name)
		}
	}
	setString("full_name", req.FullName, &e.FullName)
	setString("email", req.Email, &e.Email)
	setString("mobile_number", req.MobileNumber, &e.MobileNumber)
	setString("department", req.Department, &e.Department)
	setString("designation", req.Designation, &e.Designation)
	setString("pan_number", req.PANNumber, &e.PANNumber)
	setString("uan_number", req.UANNumber, &e.UANNumber)
	setString("payment_type", req.PaymentType, &e.PaymentType)
	setString("bank_account_number", req.BankAccountNumber, &e.BankAccountNumber)
	setString("profile_picture", req.ProfilePicture, &e.ProfilePicture)

	if req.Gender != nil {
		e.Gender = domain.Gender(*req.Gender)
		fields = append(fields, "gender")
	}
	if req.EmployeeType != nil {
		e.EmployeeType = domain.EmployeeType(*req.EmployeeType)
		fields = append(fields, "employee_type")
	}
	if req.DateOfJoining != nil {
		joined, err := parseDate(*req.DateOfJoining)
		if err != nil {
			return nil, err
		}
		e.DateOfJoining = joined
		fields = append(fields, "date_of_joining")
	}
	e.Email = strings.ToLower(e.Email)
	return fields, nil
}

func (s *service) Update(ctx context.Context, actorID string, canManage bool, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	if !canManage && actorID != id {
		return EmployeeResponse{}, apperror.ErrForbidden
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	empl, err := qtx.FindForUpdate(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	before := *empl
	fields, err := req.apply(empl)
	if err != nil {
		return EmployeeResponse{}, err
	}
	if len(fields) == 0 {
		return EmployeeResponse{}, employeeerrors.ErrNothingToUpdate
	}
	if !canManage {
		if err := CheckUpdate(before, fields); err != nil {
			s.logger.Warn("update employee blocked by section lock",
				zap.String("employee_id", id),
				zap.Strings("fields", fields),
			)
			return EmployeeResponse{}, err
		}
	}

	if err := qtx.Update(ctx, empl); err != nil {
		s.logger.Error("update employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("update employee commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	s.invalidateOptions(ctx)

	s.auditor.Record(ctx, audit.Entry{
		Action:      "EMPLOYEE_UPDATED",
		TargetID:    id,
		PerformedBy: actorID,
		Details:     map[string]any{"fields": fields},
	})
	s.logger.Info("update employee success", zap.String("employee_id", id), zap.Strings("fields", fields))
	return mapToResponse(*empl), nil
}

func (s *service) SetLocks(ctx context.Context, actorID, id string, req UpdateLocksRequest) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("set locks begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	empl, err := qtx.FindForUpdate(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	if err := SetLocks(empl, req.Sections); err != nil {
		return EmployeeResponse{}, err
	}
	if err := qtx.Update(ctx, empl); err != nil {
		s.logger.Error("set locks persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("set locks commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.auditor.Record(ctx, audit.Entry{
		Action:      "EMPLOYEE_LOCKS_UPDATED",
		TargetID:    id,
		PerformedBy: actorID,
		Details:     map[string]any{"sections": req.Sections},
	})
	return mapToResponse(*empl), nil
}

func (s *service) Deactivate(ctx context.Context, actorID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return employeeerrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("deactivate employee begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	empl, err := qtx.FindForUpdate(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if !empl.Active {
		return nil
	}
	empl.Active = false
	if err := qtx.Update(ctx, empl); err != nil {
		s.logger.Error("deactivate employee failed", zap.Error(err))
		return mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("deactivate employee commit failed", zap.Error(err))
		return err
	}
	s.invalidateOptions(ctx)

	s.auditor.Record(ctx, audit.Entry{
		Action:      "EMPLOYEE_DEACTIVATED",
		TargetID:    id,
		PerformedBy: actorID,
	})
	s.logger.Info("deactivate employee success", zap.String("employee_id", id))
	return nil
}

func (s *service) invalidateOptions(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, OptionsCacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate employee options cache",
			zap.Error(err),
			zap.String("key", OptionsCacheKey),
		)
	}
}
