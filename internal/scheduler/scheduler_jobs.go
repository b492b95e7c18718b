package scheduler

import (
	"context"
	"fmt"
	"time"

	"go-hrms/internal/attendance"
	"go-hrms/internal/punch"

	"go.uber.org/zap"
)

const (
	JobSyncMorning   = "attendance-sync-morning"
	JobSyncAfternoon = "attendance-sync-afternoon"
	JobArrivals      = "arrivals-and-absence"
	JobFinalize      = "attendance-finalize"
	JobOTSweep       = "unclaimed-ot-sweep"
	JobLeaveReset    = "leave-reset"
)

type Syncer interface {
	Sync(ctx context.Context) (punch.SyncResult, error)
}

type Resetter interface {
	ResetAll(ctx context.Context) (int, error)
}

type Specs struct {
	SyncMorning   string
	SyncAfternoon string
	Arrivals      string
	Finalize      string
	OTSweep       string
	LeaveReset    string
}

type Deps struct {
	// SyncLock is the lock name shared by both sync runs, the watermark job name.
	SyncLock   string
	Ingestor   Syncer
	Reconciler attendance.Reconciler
	Ledger     Resetter
	Now        func() time.Time
	Logger     *zap.Logger
}

// Jobs binds the batch entry points to their schedules. The morning sync is followed by
// finalization of earlier days and then the arrivals and absence pass.
// Finalize and arrivals only get their own cron entry when a spec is set.
func Jobs(specs Specs, d Deps) []Job {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	log := zap.L().Named("scheduler.jobs")
	if d.Logger != nil {
		log = d.Logger.Named("scheduler.jobs")
	}

	syncLock := d.SyncLock
	if syncLock == "" {
		syncLock = JobSyncMorning
	}

	sync := func(ctx context.Context) error {
		res, err := d.Ingestor.Sync(ctx)
		if err != nil {
			return err
		}
		log.Info("punch sync done",
			zap.Int("fetched", res.Fetched),
			zap.Int("dropped", res.Dropped),
			zap.Int64("stored", res.Stored),
			zap.Time("watermark", res.Watermark),
		)
		return nil
	}

	return []Job{
		{
			Name: JobSyncMorning,
			Spec: specs.SyncMorning,
			Lock: syncLock,
			Then: []string{JobFinalize, JobArrivals},
			Run:  sync,
		},
		{Name: JobSyncAfternoon, Spec: specs.SyncAfternoon, Lock: syncLock, Run: sync},
		{Name: JobArrivals, Spec: specs.Arrivals, Run: func(ctx context.Context) error {
			today := now()
			arrived, err := d.Reconciler.RecordArrivals(ctx, today)
			if err != nil {
				return err
			}
			absent, err := d.Reconciler.MarkAbsent(ctx, today)
			if err != nil {
				return err
			}
			log.Info("arrivals and absence done", zap.Int("arrived", arrived), zap.Int("absent", absent))
			return nil
		}},
		{Name: JobFinalize, Spec: specs.Finalize, Run: func(ctx context.Context) error {
			res, err := d.Reconciler.FinalizePending(ctx, now())
			if err != nil {
				return err
			}
			log.Info("attendance finalize done",
				zap.Int("employees", res.Employees),
				zap.Int("days", res.Days),
				zap.Int("unknown", res.Unknown),
				zap.Int("failed", res.Failed),
			)
			if res.Failed > 0 {
				return fmt.Errorf("finalize failed for %d employees", res.Failed)
			}
			return nil
		}},
		{Name: JobOTSweep, Spec: specs.OTSweep, Run: func(ctx context.Context) error {
			n, err := d.Reconciler.SweepUnclaimedOvertime(ctx, now())
			if err != nil {
				return err
			}
			log.Info("unclaimed overtime sweep done", zap.Int("forfeited", n))
			return nil
		}},
		{Name: JobLeaveReset, Spec: specs.LeaveReset, Run: func(ctx context.Context) error {
			n, err := d.Ledger.ResetAll(ctx)
			log.Info("leave reset done", zap.Int("reset", n))
			return err
		}},
	}
}
