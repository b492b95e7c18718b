package employee

import (
	"context"
	"database/sql"

	"go-hrms/internal/balance"
	"go-hrms/internal/domain"
	"go-hrms/internal/shared/connection"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var accountColumns = []string{
	"leave_paid", "leave_medical", "leave_restricted_holidays", "leave_maternity_claims",
	"leave_paternity_claims", "leave_unpaid_taken", "leave_compensatory",
	"leave_last_paid_reset", "leave_last_monthly_reset", "leave_last_medical_reset",
	"leave_last_rh_reset", "leave_last_comp_reset", "leave_medical_claim_year", "leave_rh_claim_year",
	"updated_at",
}

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *Employee) error
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindActive(ctx context.Context) ([]Employee, error)
	FindByExternalID(ctx context.Context, externalID string) (*Employee, error)
	// FindForUpdate locks the employee row until the surrounding transaction ends.
	FindForUpdate(ctx context.Context, id string) (*Employee, error)
	// FindApprovers returns active employees holding role; an empty department matches every department.
	FindApprovers(ctx context.Context, role domain.Role, department string) ([]Employee, error)
	Update(ctx context.Context, e *Employee) error
	SaveAccount(ctx context.Context, id string, a balance.Account) error
	ListActiveIDs(ctx context.Context) ([]string, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return connection.Conn(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, e *Employee) error {
	return r.conn(ctx).Create(e).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var e Employee
	err := r.conn(ctx).First(&e, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) FindActive(ctx context.Context) ([]Employee, error) {
	var rows []Employee
	err := r.conn(ctx).
		Where("active = ?", true).
		Order("full_name").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByExternalID(ctx context.Context, externalID string) (*Employee, error) {
	var e Employee
	err := r.conn(ctx).
		Where("external_id = ?", externalID).
		Where("active = ?", true).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) FindForUpdate(ctx context.Context, id string) (*Employee, error) {
	var e Employee
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&e, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) FindApprovers(ctx context.Context, role domain.Role, department string) ([]Employee, error) {
	q := r.conn(ctx).
		Where("role = ?", role).
		Where("active = ?", true)
	if department != "" {
		q = q.Where("LOWER(department) = LOWER(?)", department)
	}

	var rows []Employee
	err := q.Order("created_at").Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, e *Employee) error {
	return r.conn(ctx).Save(e).Error
}

func (r *repository) SaveAccount(ctx context.Context, id string, a balance.Account) error {
	return r.conn(ctx).
		Model(&Employee{}).
		Where("id = ?", id).
		Select(accountColumns).
		Updates(&Employee{Account: a}).Error
}

func (r *repository) ListActiveIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.conn(ctx).
		Model(&Employee{}).
		Where("active = ?", true).
		Order("id").
		Pluck("id", &ids).Error
	return ids, err
}
