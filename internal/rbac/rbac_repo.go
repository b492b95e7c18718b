package rbac

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=rbac_repo.go -destination=mock/rbac_repo_mock.go -package=mock
type Repository interface {
	// ListPolicies returns grants stored on top of the built-in policy table.
	ListPolicies(ctx context.Context) ([]PolicyRow, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

type PolicyRow struct {
	Role     string
	Resource string
	Action   string
}

func (PolicyRow) TableName() string {
	return "role_permissions"
}

func (r *repository) ListPolicies(ctx context.Context) ([]PolicyRow, error) {
	var result []PolicyRow
	err := r.db.WithContext(ctx).
		Select("role, resource, action").
		Order("role, resource, action").
		Find(&result).Error
	return result, err
}
