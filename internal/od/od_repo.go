package od

import (
	"context"
	"database/sql"

	"go-hrms/internal/approval"
	"go-hrms/internal/shared/connection"

	"gorm.io/gorm"
)

type ListFilter struct {
	EmployeeID string
	Overall    approval.Decision
}

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, r *Request) error
	FindByID(ctx context.Context, id string) (*Request, error)
	List(ctx context.Context, f ListFilter) ([]Request, error)
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
	switch f.Overall {
	case approval.Approved:
		q = q.Where("status_admin = ?", approval.Approved)
	case approval.Rejected:
		q = q.Where("? IN (status_hod, status_ceo, status_admin)", approval.Rejected)
	case approval.Pending:
		q = q.Where("? NOT IN (status_hod, status_ceo, status_admin)", approval.Rejected).
			Where("status_admin = ?", approval.Pending)
	}

	var rows []Request
	err := q.Order("date_out DESC, created_at DESC").Find(&rows).Error
	return rows, err
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
