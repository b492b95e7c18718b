package leave

import (
	"context"
	"database/sql"
	"time"

	"go-hrms/internal/approval"
	"go-hrms/internal/shared/connection"

	"gorm.io/gorm"
)

const notRejected = "status_hod <> 'Rejected' AND status_ceo <> 'Rejected' AND status_admin <> 'Rejected'"

type ListFilter struct {
	EmployeeID string
	Overall    approval.Decision
	From       time.Time
	To         time.Time
}

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, r *Request) error
	FindByID(ctx context.Context, id string) (*Request, error)
	List(ctx context.Context, f ListFilter) ([]Request, error)
	// HasOverlap reports a non-rejected request of the employee intersecting [start, end].
	HasOverlap(ctx context.Context, employeeID string, start, end time.Time) (bool, error)
	// AdjacentPaid lists non-rejected Casual and Restricted Holiday requests ending the day before
	// start or beginning the day after end.
	AdjacentPaid(ctx context.Context, employeeID string, start, end time.Time) ([]Request, error)
	ExistsInYear(ctx context.Context, employeeID string, t Type, year int, approvedOnly bool) (bool, error)
	// ApprovedHalfDayOn returns the half-day leave of the employee on day that the CEO approved
	// and the admin has not rejected, or nil.
	ApprovedHalfDayOn(ctx context.Context, employeeID string, day time.Time) (*Request, error)
	LockForUpdate(ctx context.Context, id string) (*Request, error)
	SaveStatus(ctx context.Context, id string, prev, next approval.Status) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return connection.Conn(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, req *Request) error {
	return r.conn(ctx).Create(req).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Request, error) {
	var req Request
	if err := r.conn(ctx).Where("id = ?", id).First(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]Request, error) {
	q := r.conn(ctx)
	if f.EmployeeID != "" {
		q = q.Where("employee_id = ?", f.EmployeeID)
	}
	if !f.From.IsZero() {
		q = q.Where("end_date >= ?", f.From.Format("2006-01-02"))
	}
	if !f.To.IsZero() {
		q = q.Where("start_date <= ?", f.To.Format("2006-01-02"))
	}
	switch f.Overall {
	case approval.Approved:
		q = q.Where("status_hod = ? AND status_ceo = ? AND status_admin = ?", approval.Approved, approval.Approved, approval.Approved)
	case approval.Rejected:
		q = q.Where("NOT (" + notRejected + ")")
	case approval.Pending:
		q = q.Where(notRejected).Where("status_admin = ?", approval.Pending)
	}

	var rows []Request
	err := q.Order("start_date DESC, created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) HasOverlap(ctx context.Context, employeeID string, start, end time.Time) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&Request{}).
		Where("employee_id = ?", employeeID).
		Where(notRejected).
		Where("NOT (end_date < ? OR start_date > ?)", start.Format("2006-01-02"), end.Format("2006-01-02")).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) AdjacentPaid(ctx context.Context, employeeID string, start, end time.Time) ([]Request, error) {
	var rows []Request
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Where("leave_type IN ?", []Type{TypeCasual, TypeRestrictedHoliday}).
		Where(notRejected).
		Where("end_date = ? OR start_date = ?",
			start.AddDate(0, 0, -1).Format("2006-01-02"),
			end.AddDate(0, 0, 1).Format("2006-01-02"),
		).
		Find(&rows).Error
	return rows, err
}

func (r *repository) ExistsInYear(ctx context.Context, employeeID string, t Type, year int, approvedOnly bool) (bool, error) {
	q := r.conn(ctx).
		Model(&Request{}).
		Where("employee_id = ?", employeeID).
		Where("leave_type = ?", t).
		Where("start_date >= ? AND start_date < ?",
			time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
			time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
		)
	if approvedOnly {
		q = q.Where("status_admin = ?", approval.Approved)
	} else {
		q = q.Where(notRejected)
	}

	var count int64
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *repository) ApprovedHalfDayOn(ctx context.Context, employeeID string, day time.Time) (*Request, error) {
	var rows []Request
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Where("span = ?", SpanHalfDay).
		Where("start_date = ?", day.Format("2006-01-02")).
		Where("status_ceo = ? AND status_admin <> ?", approval.Approved, approval.Rejected).
		Order("created_at").
		Limit(1).
		Find(&rows).Error
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}

func (r *repository) LockForUpdate(ctx context.Context, id string) (*Request, error) {
	var req Request
	if err := approval.LockRow(r.conn(ctx), &req, id); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) SaveStatus(ctx context.Context, id string, prev, next approval.Status) (bool, error) {
	return approval.GuardedStatusUpdate(r.conn(ctx), &Request{}, id, prev, next)
}

type approvalStore struct {
	repo Repository
}

// NewApprovalStore exposes leave requests to the approval engine.
func NewApprovalStore(repo Repository) approval.Store {
	return approvalStore{repo: repo}
}

func (s approvalStore) WithTx(tx *sql.Tx) approval.Store {
	return approvalStore{repo: s.repo.WithTx(tx)}
}

func (s approvalStore) LockForUpdate(ctx context.Context, id string) (approval.Subject, error) {
	req, err := s.repo.LockForUpdate(ctx, id)
	if err != nil {
		return approval.Subject{}, err
	}
	return req.subject(), nil
}

func (s approvalStore) SaveStatus(ctx context.Context, id string, prev, next approval.Status) (bool, error) {
	return s.repo.SaveStatus(ctx, id, prev, next)
}
