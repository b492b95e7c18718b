package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-hrms/internal/shared/lock"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var ErrUnknownJob = errors.New("unknown job")

// Job is a named batch entry point. An empty Spec leaves the job off the cron table, so it only
// runs when triggered directly or as a follow-up. Jobs sharing a Lock never overlap. Then names
// jobs triggered in order after a successful run.
type Job struct {
	Name string
	Spec string
	Lock string
	Then []string
	Run  func(ctx context.Context) error
}

func (j Job) lockName() string {
	if j.Lock != "" {
		return j.Lock
	}
	return j.Name
}

type Scheduler struct {
	runner  *Runner
	locker  lock.Locker
	lockTTL time.Duration
	loc     *time.Location
	sf      singleflight.Group
	cron    *cron.Cron
	jobs    map[string]Job
	order   []string
	base    context.Context
	logger  *zap.Logger
}

type Option func(*Scheduler)

func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithLockTTL(ttl time.Duration) Option {
	return func(s *Scheduler) {
		if ttl > 0 {
			s.lockTTL = ttl
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l.Named("scheduler")
		}
	}
}

func New(runner *Runner, locker lock.Locker, opts ...Option) *Scheduler {
	s := &Scheduler{
		runner:  runner,
		locker:  locker,
		lockTTL: 30 * time.Minute,
		loc:     time.Local,
		jobs:    make(map[string]Job),
		base:    context.Background(),
		logger:  zap.L().Named("scheduler"),
	}
	for _, opt := range opts {
		opt(s)
	}

	cl := cronLogger{s.logger.Sugar()}
	s.cron = cron.New(
		cron.WithLocation(s.loc),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		cron.WithLogger(cl),
	)
	return s
}

// Register adds jobs to the cron table. It must be called before Start.
func (s *Scheduler) Register(jobs ...Job) error {
	for _, j := range jobs {
		if _, dup := s.jobs[j.Name]; dup {
			return fmt.Errorf("job %q registered twice", j.Name)
		}
		for _, next := range j.Then {
			if next == j.Name {
				return fmt.Errorf("job %q lists itself as a follow-up", j.Name)
			}
		}
		name := j.Name
		if j.Spec != "" {
			if _, err := s.cron.AddFunc(j.Spec, func() { s.Trigger(s.base, name) }); err != nil {
				return fmt.Errorf("schedule job %q (%s): %w", j.Name, j.Spec, err)
			}
		}
		s.jobs[j.Name] = j
		s.order = append(s.order, j.Name)
		s.logger.Info("job registered",
			zap.String("job", j.Name),
			zap.String("spec", j.Spec),
			zap.String("lock", j.lockName()),
			zap.Strings("then", j.Then),
		)
	}
	return nil
}

// Trigger runs the named job now unless another run holds its lock. It reports whether the
// job ran and succeeded. Follow-ups run only after success, once the job lock is released.
func (s *Scheduler) Trigger(ctx context.Context, name string) (bool, error) {
	job, ok := s.jobs[name]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}

	v, _, _ := s.sf.Do(name, func() (any, error) {
		ok := s.exclusive(ctx, job)
		if ok {
			s.followUp(ctx, job)
		}
		return ok, nil
	})
	return v.(bool), nil
}

func (s *Scheduler) followUp(ctx context.Context, job Job) {
	for _, next := range job.Then {
		if ctx.Err() != nil {
			return
		}
		if _, err := s.Trigger(ctx, next); err != nil {
			s.logger.Error("follow-up job not registered",
				zap.String("job", job.Name),
				zap.String("follow_up", next),
				zap.Error(err),
			)
		}
	}
}

func (s *Scheduler) exclusive(ctx context.Context, job Job) bool {
	log := s.logger.With(zap.String("job", job.Name))

	unlock, ok, err := s.locker.TryLock(ctx, lock.JobKey(job.lockName()), s.lockTTL)
	if err != nil {
		log.Error("acquire job lock failed, skipping cycle", zap.Error(err))
		return false
	}
	if !ok {
		log.Info("job already running elsewhere, skipping cycle")
		return false
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			log.Warn("release job lock failed", zap.Error(err))
		}
	}()

	return s.runner.Run(ctx, job.Name, job.Run)
}

func (s *Scheduler) Jobs() []string {
	return append([]string(nil), s.order...)
}

func (s *Scheduler) Stats() []JobStats {
	return s.runner.Stats()
}

// Start runs the cron loop in the background. Jobs triggered by cron use ctx.
func (s *Scheduler) Start(ctx context.Context) {
	s.base = ctx
	s.cron.Start()
	s.logger.Info("scheduler started", zap.Int("jobs", len(s.jobs)), zap.String("location", s.loc.String()))
}

// Stop stops scheduling and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out with jobs still running")
	}
}

type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
