package approval

import (
	"context"
	"database/sql"
	"errors"
	"time"

	approvalerrors "go-hrms/internal/approval/errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Subject is the kind-independent view of a request the engine works on.
type Subject struct {
	ID         string
	Kind       Kind
	EmployeeID string
	Department string
	Status     Status
	Summary    string
}

// Store is supplied by each request kind.
type Store interface {
	WithTx(tx *sql.Tx) Store
	// LockForUpdate reads the request and holds its row lock until the transaction ends.
	LockForUpdate(ctx context.Context, id string) (Subject, error)
	// SaveStatus writes next only while the stored status still equals prev.
	SaveStatus(ctx context.Context, id string, prev, next Status) (bool, error)
}

// LockRow loads dest by primary key with SELECT ... FOR UPDATE.
func LockRow(conn *gorm.DB, dest any, id string) error {
	err := conn.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return approvalerrors.ErrRequestNotFound
	}
	return err
}

// GuardedStatusUpdate is the optimistic half of a transition: the row is updated only if
// no other writer resolved a stage since it was read.
func GuardedStatusUpdate(conn *gorm.DB, model any, id string, prev, next Status) (bool, error) {
	res := conn.Model(model).
		Where("id = ?", id).
		Where("status_hod = ? AND status_ceo = ? AND status_admin = ?", prev.HOD, prev.CEO, prev.Admin).
		Updates(map[string]any{
			"status_hod":   next.HOD,
			"status_ceo":   next.CEO,
			"status_admin": next.Admin,
			"updated_at":   time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
