package attendance

import (
	"context"
	"database/sql"
	"time"

	"go-hrms/internal/approval"
	"go-hrms/internal/shared/connection"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ListFilter struct {
	EmployeeID string
	From       time.Time
	To         time.Time
}

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*Record, error)
	FindByEmployeeAndDate(ctx context.Context, employeeID string, day time.Time) (*Record, error)
	EmployeeIDsOn(ctx context.Context, day time.Time) ([]string, error)
	// CreateIfAbsent inserts records whose (employee, date) has no row yet.
	CreateIfAbsent(ctx context.Context, records []Record) (int64, error)
	Save(ctx context.Context, r *Record) error
	ZeroOvertime(ctx context.Context, id uuid.UUID) (int64, error)
	// ListUnclaimedOvertime returns records up to the given day carrying overtime that no live claim
	// references. A claim rejected at any stage no longer protects the overtime.
	ListUnclaimedOvertime(ctx context.Context, onOrBefore time.Time) ([]Record, error)
	List(ctx context.Context, f ListFilter) ([]Record, error)
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

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Record, error) {
	var rec Record
	if err := r.conn(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repository) FindByEmployeeAndDate(ctx context.Context, employeeID string, day time.Time) (*Record, error) {
	var rec Record
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Where("date = ?", day.Format("2006-01-02")).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repository) EmployeeIDsOn(ctx context.Context, day time.Time) ([]string, error) {
	var ids []string
	err := r.conn(ctx).
		Model(&Record{}).
		Where("date = ?", day.Format("2006-01-02")).
		Pluck("employee_id", &ids).Error
	return ids, err
}

func (r *repository) CreateIfAbsent(ctx context.Context, records []Record) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}
	res := r.conn(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "employee_id"}, {Name: "date"}},
			DoNothing: true,
		}).
		Create(&records)
	return res.RowsAffected, res.Error
}

func (r *repository) Save(ctx context.Context, rec *Record) error {
	return r.conn(ctx).Save(rec).Error
}

func (r *repository) ZeroOvertime(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.conn(ctx).
		Model(&Record{}).
		Where("id = ? AND overtime_minutes > 0", id).
		Updates(map[string]any{"overtime_minutes": 0, "updated_at": time.Now()})
	return res.RowsAffected, res.Error
}

func (r *repository) ListUnclaimedOvertime(ctx context.Context, onOrBefore time.Time) ([]Record, error) {
	var rows []Record
	err := r.conn(ctx).
		Where("overtime_minutes > 0").
		Where("date <= ?", onOrBefore.Format("2006-01-02")).
		Where(`NOT EXISTS (
			SELECT 1 FROM ot_claims c
			WHERE c.employee_id = attendance_records.employee_id AND c.date = attendance_records.date
				AND c.status_hod <> ? AND c.status_ceo <> ? AND c.status_admin <> ?
		)`, approval.Rejected, approval.Rejected, approval.Rejected).
		Order("date, employee_id").
		Find(&rows).Error
	return rows, err
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]Record, error) {
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
	var rows []Record
	err := q.Order("date DESC, employee_id").Find(&rows).Error
	return rows, err
}
