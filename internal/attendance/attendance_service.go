package attendance

import (
	"context"
	"errors"
	"time"

	attendanceerrors "go-hrms/internal/attendance/errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	List(ctx context.Context, actorID string, canReadAll bool, q ListAttendanceQuery) ([]AttendanceResponse, error)
	GetForDay(ctx context.Context, employeeID, date string) (AttendanceResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) List(ctx context.Context, actorID string, canReadAll bool, q ListAttendanceQuery) ([]AttendanceResponse, error) {
	filter := ListFilter{EmployeeID: q.EmployeeID}
	if !canReadAll {
		filter.EmployeeID = actorID
	}

	var err error
	if filter.From, err = parseOptionalDate(q.From); err != nil {
		return nil, err
	}
	if filter.To, err = parseOptionalDate(q.To); err != nil {
		return nil, err
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.From.After(filter.To) {
		return nil, attendanceerrors.ErrInvalidDateRange
	}

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("list attendance failed", zap.Error(err))
		return nil, err
	}

	res := make([]AttendanceResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

func (s *service) GetForDay(ctx context.Context, employeeID, date string) (AttendanceResponse, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidDate
	}

	rec, err := s.repo.FindByEmployeeAndDate(ctx, employeeID, day)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrRecordNotFound
		}
		return AttendanceResponse{}, err
	}
	return mapToResponse(*rec), nil
}

func parseOptionalDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, attendanceerrors.ErrInvalidDate
	}
	return t, nil
}
