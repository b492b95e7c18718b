package punch

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=punch_source.go -destination=mock/punch_source_mock.go -package=mock
type Source interface {
	// FetchSince returns every row logged on or after the calendar date of since.
	FetchSince(ctx context.Context, since time.Time) ([]SourceRow, error)
	Ping(ctx context.Context) error
}

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

type sqlServerSource struct {
	db    *gorm.DB
	table string
}

// NewSQLServerSource reads the device table (UserID, LogDate, LogTime, Direction) through a
// gorm handle opened with the sqlserver driver.
func NewSQLServerSource(db *gorm.DB, table string) (Source, error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid punch table name %q", table)
	}
	return &sqlServerSource{db: db, table: table}, nil
}

func (s *sqlServerSource) FetchSince(ctx context.Context, since time.Time) ([]SourceRow, error) {
	rows, err := s.db.WithContext(ctx).
		Table(s.table).
		Select("UserID, LogDate, LogTime, Direction").
		Where("LogDate >= ?", since.UTC().Format("2006-01-02")).
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SourceRow
	for rows.Next() {
		var (
			userID    sql.NullString
			logDate   sql.NullTime
			logTime   any
			direction sql.NullString
		)
		if err := rows.Scan(&userID, &logDate, &logTime, &direction); err != nil {
			return nil, err
		}
		out = append(out, SourceRow{
			UserID:    userID.String,
			LogDate:   logDate.Time,
			LogTime:   logTime,
			Direction: direction.String,
		})
	}
	return out, rows.Err()
}

func (s *sqlServerSource) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
