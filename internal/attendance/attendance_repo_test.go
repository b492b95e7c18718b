package attendance_test

import (
	"context"
	"testing"
	"time"

	"go-hrms/internal/attendance"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newGormMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	assert.NoError(t, err)
	return db, mock
}

func TestRepository_ListUnclaimedOvertime(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	t.Run("rejected claims do not shield overtime", func(t *testing.T) {
		db, mock := newGormMock(t)
		repo := attendance.NewRepository(db)

		mock.ExpectQuery(`FROM "attendance_records"`).
			WithArgs("2026-03-02", "Rejected", "Rejected", "Rejected").
			WillReturnRows(sqlmock.NewRows([]string{"employee_id", "overtime_minutes"}).
				AddRow("emp-1", 90))

		rows, err := repo.ListUnclaimedOvertime(ctx, day)

		assert.NoError(t, err)
		assert.Len(t, rows, 1)
		assert.Equal(t, 90, rows[0].OvertimeMinutes)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("only live claims are excluded", func(t *testing.T) {
		db, mock := newGormMock(t)
		repo := attendance.NewRepository(db)

		mock.ExpectQuery(`c\.status_hod <> \$2 AND c\.status_ceo <> \$3 AND c\.status_admin <> \$4`).
			WillReturnRows(sqlmock.NewRows([]string{"employee_id", "overtime_minutes"}))

		rows, err := repo.ListUnclaimedOvertime(ctx, day)

		assert.NoError(t, err)
		assert.Empty(t, rows)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
