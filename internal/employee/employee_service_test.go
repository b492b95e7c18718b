package employee_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"go-hrms/internal/audit"
	"go-hrms/internal/domain"
	"go-hrms/internal/employee"
	employeeerrors "go-hrms/internal/employee/errors"
	employeeMock "go-hrms/internal/employee/mock"
	"go-hrms/internal/shared/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

var serviceNow = time.Date(2026, 6, 10, 9, 0, 0, 0, time.UTC)

type recordingAuditor struct{ actions []string }

func (r *recordingAuditor) Record(_ context.Context, e audit.Entry) {
	r.actions = append(r.actions, e.Action)
}

type serviceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   employee.Service
	repo      *employeeMock.MockRepository
	redismock redismock.ClientMock
	auditor   *recordingAuditor
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, _ := sqlmock.New()
	dbRedis, redisMock := redismock.NewClientMock()
	repo := employeeMock.NewMockRepository(ctrl)
	auditor := &recordingAuditor{}

	svc := employee.NewService(db, repo, dbRedis, auditor,
		employee.WithClock(func() time.Time { return serviceNow }))

	return &serviceDeps{
		db:        db,
		sqlMock:   sqlMock,
		service:   svc,
		repo:      repo,
		redismock: redisMock,
		auditor:   auditor,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func createRequest() employee.CreateEmployeeRequest {
	return employee.CreateEmployeeRequest{
		ExternalID:    "1042",
		FullName:      "Asha Rao",
		Email:         "Asha.Rao@example.com",
		Gender:        "Female",
		Role:          "Employee",
		EmployeeType:  "Confirmed",
		Department:    "Production",
		DateOfJoining: "2024-03-01",
	}
}

func TestEmployeeService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success initializes the leave account", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, e *employee.Employee) error {
				assert.Equal(t, "asha.rao@example.com", e.Email)
				assert.True(t, e.Active)
				assert.True(t, e.PaymentLocked)
				assert.Equal(t, domain.EmployeeConfirmed, e.EmployeeType)
				assert.NotNil(t, e.Account.LastPaidReset)
				assert.Greater(t, e.Account.Medical, 0.0)
				return nil
			})
		deps.redismock.ExpectDel(employee.OptionsCacheKey).SetVal(1)

		resp, err := deps.service.Create(ctx, "admin-1", createRequest())

		assert.NoError(t, err)
		assert.Equal(t, "1042", resp.ExternalID)
		assert.Empty(t, resp.EditableFields)
		assert.Equal(t, []string{"EMPLOYEE_CREATED"}, deps.auditor.actions)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("duplicate time-clock id", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_employees_external_id"})

		_, err := deps.service.Create(ctx, "admin-1", createRequest())

		assert.ErrorIs(t, err, employeeerrors.ErrExternalIDAlreadyExists)
		assert.Empty(t, deps.auditor.actions)
	})

	t.Run("invalid joining date", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		req := createRequest()
		req.DateOfJoining = "01-03-2024"

		_, err := deps.service.Create(ctx, "admin-1", req)

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidDateOfJoining)
	})
}

func TestEmployeeService_Update(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	designation := "Line Lead"
	mobile := "9800000000"

	current := func() *employee.Employee {
		e := lockedEmployee()
		e.ID = id
		e.BasicInfoLocked = false
		return &e
	}

	t.Run("self edit of an unlocked section", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindForUpdate(ctx, id.String()).Return(current(), nil)
		deps.repo.EXPECT().
			Update(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, e *employee.Employee) error {
				assert.Equal(t, mobile, e.MobileNumber)
				return nil
			})
		deps.redismock.ExpectDel(employee.OptionsCacheKey).SetVal(1)

		resp, err := deps.service.Update(ctx, id.String(), false, id.String(),
			employee.UpdateEmployeeRequest{MobileNumber: &mobile})

		assert.NoError(t, err)
		assert.Equal(t, mobile, resp.MobileNumber)
		assert.Equal(t, []string{"EMPLOYEE_UPDATED"}, deps.auditor.actions)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("self edit of a locked section", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindForUpdate(ctx, id.String()).Return(current(), nil)

		_, err := deps.service.Update(ctx, id.String(), false, id.String(),
			employee.UpdateEmployeeRequest{MobileNumber: &mobile, Designation: &designation})

		assert.ErrorIs(t, err, employeeerrors.ErrSectionLocked)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("manager ignores locks", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindForUpdate(ctx, id.String()).Return(current(), nil)
		deps.repo.EXPECT().Update(ctx, gomock.Any()).Return(nil)
		deps.redismock.ExpectDel(employee.OptionsCacheKey).SetVal(1)

		resp, err := deps.service.Update(ctx, "admin-1", true, id.String(),
			employee.UpdateEmployeeRequest{Designation: &designation})

		assert.NoError(t, err)
		assert.Equal(t, designation, resp.Designation)
	})

	t.Run("someone else's profile", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Update(ctx, uuid.NewString(), false, id.String(),
			employee.UpdateEmployeeRequest{MobileNumber: &mobile})

		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("empty body", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindForUpdate(ctx, id.String()).Return(current(), nil)

		_, err := deps.service.Update(ctx, "admin-1", true, id.String(), employee.UpdateEmployeeRequest{})

		assert.ErrorIs(t, err, employeeerrors.ErrNothingToUpdate)
	})
}

func TestEmployeeService_SetLocks(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	deps := setupServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, true)
	deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
	deps.repo.EXPECT().FindForUpdate(ctx, id.String()).DoAndReturn(func(context.Context, string) (*employee.Employee, error) {
		e := lockedEmployee()
		e.ID = id
		return &e, nil
	})
	deps.repo.EXPECT().
		Update(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, e *employee.Employee) error {
			assert.False(t, e.StatutoryLocked)
			assert.True(t, e.PaymentLocked)
			return nil
		})

	resp, err := deps.service.SetLocks(ctx, "admin-1", id.String(), employee.UpdateLocksRequest{
		Sections: map[employee.Section]bool{employee.SectionStatutory: false},
	})

	assert.NoError(t, err)
	assert.Equal(t, []string{"pan_number", "uan_number"}, resp.EditableFields)
	assert.Equal(t, []string{"EMPLOYEE_LOCKS_UPDATED"}, deps.auditor.actions)
}

func TestEmployeeService_GetOptions(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	options := []employee.EmployeeOptionResponse{
		{ID: id.String(), FullName: "Asha Rao", Department: "Production", Role: "HOD"},
	}
	cached, _ := json.Marshal(options)

	t.Run("cache hit", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.redismock.ExpectGet(employee.OptionsCacheKey).SetVal(string(cached))

		resp, err := deps.service.GetOptions(ctx)

		assert.NoError(t, err)
		assert.Equal(t, options, resp)
	})

	t.Run("cache miss loads and stores", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.redismock.ExpectGet(employee.OptionsCacheKey).RedisNil()
		deps.repo.EXPECT().FindActive(ctx).Return([]employee.Employee{
			{ID: id, FullName: "Asha Rao", Department: "Production", Role: domain.RoleHOD},
		}, nil)
		deps.redismock.ExpectSet(employee.OptionsCacheKey, cached, time.Hour).SetVal("OK")

		resp, err := deps.service.GetOptions(ctx)

		assert.NoError(t, err)
		assert.Equal(t, options, resp)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})
}

func TestEmployeeService_Deactivate(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("active employee", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindForUpdate(ctx, id.String()).Return(&employee.Employee{ID: id, Active: true}, nil)
		deps.repo.EXPECT().
			Update(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, e *employee.Employee) error {
				assert.False(t, e.Active)
				return nil
			})
		deps.redismock.ExpectDel(employee.OptionsCacheKey).SetVal(1)

		assert.NoError(t, deps.service.Deactivate(ctx, "admin-1", id.String()))
		assert.Equal(t, []string{"EMPLOYEE_DEACTIVATED"}, deps.auditor.actions)
	})

	t.Run("already inactive is a no-op", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindForUpdate(ctx, id.String()).Return(&employee.Employee{ID: id}, nil)

		assert.NoError(t, deps.service.Deactivate(ctx, "admin-1", id.String()))
		assert.Empty(t, deps.auditor.actions)
	})
}
