package punch

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-hrms/internal/shared/connection"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const insertBatchSize = 500

//go:generate mockgen -source=punch_repo.go -destination=mock/punch_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	GetWatermark(ctx context.Context, jobName string) (time.Time, bool, error)
	SaveWatermark(ctx context.Context, jobName string, at time.Time) error
	// InsertNew stores events whose uniqueness key is not present yet and returns how many were new.
	InsertNew(ctx context.Context, events []RawPunchEvent) (int64, error)
	ListUnprocessedBefore(ctx context.Context, day time.Time) ([]RawPunchEvent, error)
	ListOn(ctx context.Context, day time.Time) ([]RawPunchEvent, error)
	MarkProcessed(ctx context.Context, ids []uuid.UUID) error
	PurgeProcessedBefore(ctx context.Context, day time.Time) (int64, error)
	Ping(ctx context.Context) error
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

func (r *repository) GetWatermark(ctx context.Context, jobName string) (time.Time, bool, error) {
	var w SyncWatermark
	err := r.conn(ctx).Where("job_name = ?", jobName).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return w.LastSyncedAt, true, nil
}

func (r *repository) SaveWatermark(ctx context.Context, jobName string, at time.Time) error {
	return r.conn(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "job_name"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_synced_at", "updated_at"}),
		}).
		Create(&SyncWatermark{JobName: jobName, LastSyncedAt: at}).Error
}

func (r *repository) InsertNew(ctx context.Context, events []RawPunchEvent) (int64, error) {
	if len(events) == 0 {
		return 0, nil
	}
	res := r.conn(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_id"}, {Name: "date"}, {Name: "time"}},
			DoNothing: true,
		}).
		CreateInBatches(events, insertBatchSize)
	return res.RowsAffected, res.Error
}

func (r *repository) ListUnprocessedBefore(ctx context.Context, day time.Time) ([]RawPunchEvent, error) {
	var events []RawPunchEvent
	err := r.conn(ctx).
		Where("processed = ? AND date < ?", false, day).
		Order("external_id, date, time").
		Find(&events).Error
	return events, err
}

func (r *repository) ListOn(ctx context.Context, day time.Time) ([]RawPunchEvent, error) {
	var events []RawPunchEvent
	err := r.conn(ctx).
		Where("date = ?", day).
		Order("external_id, time").
		Find(&events).Error
	return events, err
}

func (r *repository) MarkProcessed(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.conn(ctx).
		Model(&RawPunchEvent{}).
		Where("id IN ?", ids).
		Update("processed", true).Error
}

func (r *repository) PurgeProcessedBefore(ctx context.Context, day time.Time) (int64, error) {
	res := r.conn(ctx).
		Where("processed = ? AND date < ?", true, day).
		Delete(&RawPunchEvent{})
	return res.RowsAffected, res.Error
}

func (r *repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
