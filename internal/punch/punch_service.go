package punch

import (
	"context"
	"database/sql"
	"errors"
	"time"

	puncherrors "go-hrms/internal/punch/errors"
	"go-hrms/internal/shared/apperror"

	"go.uber.org/zap"
)

const DefaultJobName = "attendanceSync"

//go:generate mockgen -source=punch_service.go -destination=mock/punch_service_mock.go -package=mock
type Ingestor interface {
	Sync(ctx context.Context) (SyncResult, error)
	// Ready reports whether both the device source and the punch store answer.
	Ready(ctx context.Context) error
	PurgeProcessed(ctx context.Context) (int64, error)
	Watermark(ctx context.Context) (time.Time, error)
}

type ingestor struct {
	db      *sql.DB
	repo    Repository
	source  Source
	jobName string
	now     func() time.Time
	logger  *zap.Logger
}

type Option func(*ingestor)

func WithJobName(name string) Option {
	return func(i *ingestor) {
		if name != "" {
			i.jobName = name
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(i *ingestor) { i.now = now }
}

func WithLogger(logger *zap.Logger) Option {
	return func(i *ingestor) {
		if logger != nil {
			i.logger = logger.Named("punch.ingestor")
		}
	}
}

func NewIngestor(db *sql.DB, repo Repository, source Source, opts ...Option) Ingestor {
	i := &ingestor{
		db:      db,
		repo:    repo,
		source:  source,
		jobName: DefaultJobName,
		now:     time.Now,
		logger:  zap.L().Named("punch.ingestor"),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func (i *ingestor) Sync(ctx context.Context) (SyncResult, error) {
	since, err := i.Watermark(ctx)
	if err != nil {
		return SyncResult{}, err
	}

	fetchedAt := i.now()
	rows, err := i.source.FetchSince(ctx, since)
	if err != nil {
		i.logger.Warn("punch source fetch failed", zap.Time("since", since), zap.Error(err))
		return SyncResult{Watermark: since}, apperror.Transient(err, puncherrors.ErrSourceUnavailable.Message)
	}

	events, dropped := Normalize(rows)
	events = Dedupe(events)
	if dropped > 0 {
		i.logger.Warn("punch rows dropped", zap.Int("dropped", dropped))
	}

	result := SyncResult{Fetched: len(rows), Dropped: dropped, Watermark: since}

	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		i.logger.Error("sync punches begin tx failed", zap.Error(err))
		return result, err
	}
	defer tx.Rollback()

	qtx := i.repo.WithTx(tx)
	stored, err := qtx.InsertNew(ctx, events)
	if err != nil {
		i.logger.Error("store punch events failed", zap.Int("events", len(events)), zap.Error(err))
		return result, err
	}

	// The watermark commits together with the events it covers.
	if stored > 0 {
		if err := qtx.SaveWatermark(ctx, i.jobName, fetchedAt); err != nil {
			i.logger.Error("advance watermark failed", zap.Error(err))
			return result, err
		}
	}

	if err := tx.Commit(); err != nil {
		i.logger.Error("sync punches commit failed", zap.Error(err))
		return result, err
	}

	result.Stored = stored
	if stored > 0 {
		result.Watermark = fetchedAt
	}

	i.logger.Info("punch sync finished",
		zap.String("job", i.jobName),
		zap.Int("fetched", result.Fetched),
		zap.Int("dropped", result.Dropped),
		zap.Int64("stored", result.Stored),
		zap.Time("watermark", result.Watermark),
	)
	return result, nil
}

func (i *ingestor) Watermark(ctx context.Context) (time.Time, error) {
	at, found, err := i.repo.GetWatermark(ctx, i.jobName)
	if err != nil {
		i.logger.Error("read watermark failed", zap.String("job", i.jobName), zap.Error(err))
		return time.Time{}, err
	}
	if !found {
		return time.Unix(0, 0).UTC(), nil
	}
	return at, nil
}

func (i *ingestor) Ready(ctx context.Context) error {
	var errs []error
	if err := i.source.Ping(ctx); err != nil {
		errs = append(errs, apperror.Transient(err, puncherrors.ErrSourceUnavailable.Message))
	}
	if err := i.repo.Ping(ctx); err != nil {
		errs = append(errs, apperror.Transient(err, puncherrors.ErrStoreUnavailable.Message))
	}
	return errors.Join(errs...)
}

// PurgeProcessed deletes processed events dated before the watermark's day. Events of the
// watermark day itself are kept so the next sync, which re-reads that day, skips them.
func (i *ingestor) PurgeProcessed(ctx context.Context) (int64, error) {
	at, found, err := i.repo.GetWatermark(ctx, i.jobName)
	if err != nil || !found {
		return 0, err
	}

	n, err := i.repo.PurgeProcessedBefore(ctx, DateOf(at.UTC()))
	if err != nil {
		i.logger.Error("purge processed punches failed", zap.Error(err))
		return 0, err
	}
	if n > 0 {
		i.logger.Info("processed punches purged", zap.Int64("deleted", n))
	}
	return n, nil
}
