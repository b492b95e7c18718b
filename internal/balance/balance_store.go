package balance

import (
	"context"
	"database/sql"
)

// Holder is an employee's account together with the attributes the reset engine needs.
type Holder struct {
	EmployeeID string
	Profile    Profile
	Account    Account
}

//go:generate mockgen -source=balance_store.go -destination=mock/balance_store_mock.go -package=mock
type Store interface {
	WithTx(tx *sql.Tx) Store
	Get(ctx context.Context, employeeID string) (*Holder, error)
	// GetForUpdate locks the employee row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, employeeID string) (*Holder, error)
	Save(ctx context.Context, employeeID string, a Account) error
	ListActiveIDs(ctx context.Context) ([]string, error)
}
