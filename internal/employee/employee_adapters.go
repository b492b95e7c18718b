package employee

import (
	"context"
	"database/sql"
	"errors"

	"go-hrms/internal/approval"
	"go-hrms/internal/attendance"
	"go-hrms/internal/balance"
	"go-hrms/internal/domain"
	"go-hrms/internal/leave"

	"gorm.io/gorm"
)

type roster struct {
	repo Repository
}

// NewRoster maps time-clock user ids to active employees for attendance.
func NewRoster(repo Repository) attendance.Roster {
	return roster{repo: repo}
}

func (r roster) ActiveMembers(ctx context.Context) ([]attendance.Member, error) {
	rows, err := r.repo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	members := make([]attendance.Member, len(rows))
	for i, e := range rows {
		members[i] = attendance.Member{EmployeeID: e.ID.String(), ExternalID: e.ExternalID}
	}
	return members, nil
}

func (r roster) MemberByExternalID(ctx context.Context, externalID string) (attendance.Member, bool, error) {
	e, err := r.repo.FindByExternalID(ctx, externalID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return attendance.Member{}, false, nil
	}
	if err != nil {
		return attendance.Member{}, false, err
	}
	return attendance.Member{EmployeeID: e.ID.String(), ExternalID: e.ExternalID}, true, nil
}

type directory struct {
	repo Repository
}

// NewDirectory resolves who must act on a pending stage: the department heads of the
// requester's department, then every CEO, then every admin.
func NewDirectory(repo Repository) approval.Directory {
	return directory{repo: repo}
}

func (d directory) Approvers(ctx context.Context, stage approval.Stage, department string) ([]string, error) {
	role := stage.Role()
	if role == "" {
		return nil, nil
	}
	if role != domain.RoleHOD {
		department = ""
	}
	rows, err := d.repo.FindApprovers(ctx, role, department)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(rows))
	for i, e := range rows {
		ids[i] = e.ID.String()
	}
	return ids, nil
}

type balanceStore struct {
	repo Repository
}

// NewBalanceStore persists leave accounts in their employee rows.
func NewBalanceStore(repo Repository) balance.Store {
	return balanceStore{repo: repo}
}

func (s balanceStore) WithTx(tx *sql.Tx) balance.Store {
	return balanceStore{repo: s.repo.WithTx(tx)}
}

func holder(e *Employee) *balance.Holder {
	return &balance.Holder{EmployeeID: e.ID.String(), Profile: e.profile(), Account: e.Account}
}

func (s balanceStore) Get(ctx context.Context, employeeID string) (*balance.Holder, error) {
	e, err := s.repo.FindByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return holder(e), nil
}

func (s balanceStore) GetForUpdate(ctx context.Context, employeeID string) (*balance.Holder, error) {
	e, err := s.repo.FindForUpdate(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return holder(e), nil
}

func (s balanceStore) Save(ctx context.Context, employeeID string, a balance.Account) error {
	return s.repo.SaveAccount(ctx, employeeID, a)
}

func (s balanceStore) ListActiveIDs(ctx context.Context) ([]string, error) {
	return s.repo.ListActiveIDs(ctx)
}

// Lookup answers the per-module employee questions of leave, OD and OT.
type Lookup struct {
	repo Repository
}

func NewLookup(repo Repository) Lookup {
	return Lookup{repo: repo}
}

var _ leave.Applicants = Lookup{}

func (l Lookup) find(ctx context.Context, employeeID string) (*Employee, error) {
	e, err := l.repo.FindByID(ctx, employeeID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return e, nil
}

func (l Lookup) Applicant(ctx context.Context, employeeID string) (leave.Applicant, error) {
	e, err := l.find(ctx, employeeID)
	if err != nil {
		return leave.Applicant{}, err
	}
	return leave.Applicant{
		EmployeeID:    e.ID.String(),
		Department:    e.Department,
		Gender:        e.Gender,
		EmployeeType:  e.EmployeeType,
		DateOfJoining: e.DateOfJoining,
		Account:       e.Account,
	}, nil
}

func (l Lookup) DepartmentOf(ctx context.Context, employeeID string) (string, error) {
	e, err := l.find(ctx, employeeID)
	if err != nil {
		return "", err
	}
	return e.Department, nil
}
