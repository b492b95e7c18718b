package overtime

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go-hrms/internal/approval"
	overtimeerrors "go-hrms/internal/overtime/errors"
	"go-hrms/internal/shared/connection"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueClaimConstraint = "uq_ot_claims_employee_date"

type ListFilter struct {
	EmployeeID string
	Overall    approval.Decision
	From       time.Time
	To         time.Time
}

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, c *Claim) error
	FindByID(ctx context.Context, id string) (*Claim, error)
	List(ctx context.Context, f ListFilter) ([]Claim, error)
	ExistsOn(ctx context.Context, employeeID string, day time.Time) (bool, error)
	LockForUpdate(ctx context.Context, id string) (*Claim, error)
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

func (r *repository) Create(ctx context.Context, c *Claim) error {
	return mapRepositoryError(r.conn(ctx).Create(c).Error)
}

func (r *repository) FindByID(ctx context.Context, id string) (*Claim, error) {
	var c Claim
	if err := r.conn(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, mapRepositoryError(err)
	}
	return &c, nil
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]Claim, error) {
	q := r.conn(ctx)
	if f.EmployeeID != "" {
		q = q.Where("employee_id = ?", f.EmployeeID)
	}
	if !f.From.IsZero() {
		q = q.Where("date >= ?", f.From.Format("2006-01-02"))
	}
	if !f.To.IsZero() {
		q = q.Where("date <= ?", f.To.Format("2006-01-02"))
	}
	switch f.Overall {
	case approval.Approved:
		q = q.Where("status_admin = ?", approval.Approved)
	case approval.Rejected:
		q = q.Where("status_hod = ? OR status_ceo = ? OR status_admin = ?", approval.Rejected, approval.Rejected, approval.Rejected)
	case approval.Pending:
		q = q.Where("status_hod <> ? AND status_ceo <> ? AND status_admin = ?", approval.Rejected, approval.Rejected, approval.Pending)
	}

	var rows []Claim
	err := q.Order("date DESC, created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) ExistsOn(ctx context.Context, employeeID string, day time.Time) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&Claim{}).
		Where("employee_id = ? AND date = ?", employeeID, day.Format("2006-01-02")).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) LockForUpdate(ctx context.Context, id string) (*Claim, error) {
	var c Claim
	if err := approval.LockRow(r.conn(ctx), &c, id); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) SaveStatus(ctx context.Context, id string, prev, next approval.Status) (bool, error) {
	return approval.GuardedStatusUpdate(r.conn(ctx), &Claim{}, id, prev, next)
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return overtimeerrors.ErrClaimNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == uniqueClaimConstraint {
		return overtimeerrors.ErrClaimExists
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, uniqueClaimConstraint) {
		return overtimeerrors.ErrClaimExists
	}

	return err
}

type approvalStore struct {
	repo Repository
}

// NewApprovalStore exposes OT claims to the approval engine.
func NewApprovalStore(repo Repository) approval.Store {
	return approvalStore{repo: repo}
}

func (s approvalStore) WithTx(tx *sql.Tx) approval.Store {
	return approvalStore{repo: s.repo.WithTx(tx)}
}

func (s approvalStore) LockForUpdate(ctx context.Context, id string) (approval.Subject, error) {
	c, err := s.repo.LockForUpdate(ctx, id)
	if err != nil {
		return approval.Subject{}, err
	}
	return c.subject(), nil
}

func (s approvalStore) SaveStatus(ctx context.Context, id string, prev, next approval.Status) (bool, error) {
	return s.repo.SaveStatus(ctx, id, prev, next)
}
