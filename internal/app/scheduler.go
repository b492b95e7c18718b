package app

import (
	"context"
	"time"

	"go-hrms/internal/bootstrap"
	"go-hrms/internal/scheduler"

	"go.uber.org/zap"
)

// RunScheduler hosts the batch jobs on cron until a shutdown signal arrives.
func RunScheduler(in *Infra) error {
	logger := in.Logger.Named("app.scheduler")
	cfg := in.Cfg

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	core, err := buildCore(ctx, in, true)
	if err != nil {
		return err
	}
	if err := core.Ingestor.Ready(ctx); err != nil {
		logger.Warn("punch source not reachable at startup, sync jobs will retry", zap.Error(err))
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	runner := scheduler.NewRunner(scheduler.RetryPolicy{
		MaxRetries:     cfg.Jobs.MaxRetries,
		Delay:          cfg.Jobs.RetryDelay,
		AlertThreshold: cfg.Jobs.AlertThreshold,
	}, scheduler.WithRunnerLogger(in.Logger))

	s := scheduler.New(runner, core.Locker,
		scheduler.WithLocation(loc),
		scheduler.WithLockTTL(cfg.Jobs.LockTTL),
		scheduler.WithLogger(in.Logger),
	)
	jobs := scheduler.Jobs(scheduler.Specs{
		SyncMorning:   cfg.Cron.SyncMorning,
		SyncAfternoon: cfg.Cron.SyncAfternoon,
		Arrivals:      cfg.Cron.Arrivals,
		Finalize:      cfg.Cron.Finalize,
		OTSweep:       cfg.Cron.OTSweep,
		LeaveReset:    cfg.Cron.LeaveReset,
	}, scheduler.Deps{
		SyncLock:   cfg.Punch.JobName,
		Ingestor:   core.Ingestor,
		Reconciler: core.Reconcile,
		Ledger:     core.Ledger,
		Logger:     in.Logger,
	})
	if err := s.Register(jobs...); err != nil {
		return err
	}

	s.Start(ctx)

	sig := bootstrap.WaitForSignal()
	logger.Info("scheduler shutting down", zap.String("signal", sig.String()))
	cancel()

	stopCtx, stop := context.WithTimeout(context.Background(), 30*time.Second)
	defer stop()
	s.Stop(stopCtx)

	for _, st := range s.Stats() {
		logger.Info("job stats",
			zap.String("job", st.Name),
			zap.Int("runs", st.Runs),
			zap.Int("consecutive_failures", st.ConsecutiveFailures),
			zap.Time("last_success", st.LastSuccess),
		)
	}
	return nil
}
