package notification

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ListFilter struct {
	EmployeeID string
	UnreadOnly bool
	Limit      int
}

type Repository interface {
	// Create is a no-op when a row with the same id already exists.
	Create(ctx context.Context, n *Notification) error
	List(ctx context.Context, f ListFilter) ([]Notification, error)
	CountUnread(ctx context.Context, employeeID string) (int64, error)
	MarkRead(ctx context.Context, employeeID, id string) (bool, error)
	MarkAllRead(ctx context.Context, employeeID string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, n *Notification) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(n).Error
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]Notification, error) {
	q := r.db.WithContext(ctx).Where("employee_id = ?", f.EmployeeID)
	if f.UnreadOnly {
		q = q.Where("read = ?", false)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var rows []Notification
	err := q.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) CountUnread(ctx context.Context, employeeID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("employee_id = ? AND read = ?", employeeID, false).
		Count(&n).Error
	return n, err
}

// MarkRead reports false when no notification with id belongs to employeeID.
func (r *repository) MarkRead(ctx context.Context, employeeID, id string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("id = ? AND employee_id = ?", id, employeeID).
		Update("read", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) MarkAllRead(ctx context.Context, employeeID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("employee_id = ? AND read = ?", employeeID, false).
		Update("read", true)
	return res.RowsAffected, res.Error
}
