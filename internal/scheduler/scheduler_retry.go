package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

type RetryPolicy struct {
	MaxRetries     int
	Delay          time.Duration
	AlertThreshold int
}

type JobStats struct {
	Name                string        `json:"name"`
	LastRun             time.Time     `json:"lastRun"`
	LastSuccess         time.Time     `json:"lastSuccess"`
	LastFailure         time.Time     `json:"lastFailure"`
	LastError           string        `json:"lastError,omitempty"`
	ConsecutiveFailures int           `json:"consecutiveFailures"`
	Runs                int           `json:"runs"`
	Duration            time.Duration `json:"duration"`
}

// Runner applies a RetryPolicy to named jobs and tracks consecutive failed cycles per name.
type Runner struct {
	policy RetryPolicy
	mu     sync.Mutex
	stats  map[string]*JobStats
	now    func() time.Time
	sleep  func(ctx context.Context, d time.Duration) error
	logger *zap.Logger
}

type RunnerOption func(*Runner)

func WithRunnerClock(now func() time.Time) RunnerOption {
	return func(r *Runner) { r.now = now }
}

func WithSleep(fn func(ctx context.Context, d time.Duration) error) RunnerOption {
	return func(r *Runner) { r.sleep = fn }
}

func WithRunnerLogger(l *zap.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l.Named("scheduler.runner")
		}
	}
}

func NewRunner(policy RetryPolicy, opts ...RunnerOption) *Runner {
	if policy.MaxRetries < 1 {
		policy.MaxRetries = 1
	}
	if policy.AlertThreshold < 1 {
		policy.AlertThreshold = 1
	}
	r := &Runner{
		policy: policy,
		stats:  make(map[string]*JobStats),
		now:    time.Now,
		sleep:  sleepCtx,
		logger: zap.L().Named("scheduler.runner"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Run executes fn up to MaxRetries times with a fixed delay between attempts and reports
// whether one attempt succeeded. Panics count as failed attempts.
func (r *Runner) Run(ctx context.Context, name string, fn func(ctx context.Context) error) bool {
	log := r.logger.With(zap.String("job", name))
	start := r.now()

	var lastErr error
	for attempt := 1; attempt <= r.policy.MaxRetries; attempt++ {
		lastErr = safeCall(ctx, fn)
		if lastErr == nil {
			r.succeeded(name, start)
			log.Info("job completed", zap.Int("attempt", attempt), zap.Duration("took", r.now().Sub(start)))
			return true
		}

		log.Warn("job attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max", r.policy.MaxRetries),
			zap.Error(lastErr),
		)
		if attempt == r.policy.MaxRetries {
			break
		}
		if err := r.sleep(ctx, r.policy.Delay); err != nil {
			lastErr = err
			break
		}
	}

	failures := r.failed(name, start, lastErr)
	log.Error("job cycle failed, skipping until next run",
		zap.Int("consecutive_failures", failures),
		zap.Error(lastErr),
	)
	if failures >= r.policy.AlertThreshold {
		log.Error("job failure alert",
			zap.Int("consecutive_failures", failures),
			zap.Int("threshold", r.policy.AlertThreshold),
		)
	}
	return false
}

func safeCall(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("job panicked: %v", p)
		}
	}()
	return fn(ctx)
}

func (r *Runner) entry(name string) *JobStats {
	s, ok := r.stats[name]
	if !ok {
		s = &JobStats{Name: name}
		r.stats[name] = s
	}
	return s
}

func (r *Runner) succeeded(name string, start time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.entry(name)
	now := r.now()
	s.Runs++
	s.LastRun = now
	s.LastSuccess = now
	s.LastError = ""
	s.ConsecutiveFailures = 0
	s.Duration = now.Sub(start)
}

func (r *Runner) failed(name string, start time.Time, err error) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.entry(name)
	now := r.now()
	s.Runs++
	s.LastRun = now
	s.LastFailure = now
	if err != nil {
		s.LastError = err.Error()
	}
	s.ConsecutiveFailures++
	s.Duration = now.Sub(start)
	return s.ConsecutiveFailures
}

// Failures returns the consecutive failed cycles recorded for name.
func (r *Runner) Failures(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.stats[name]; ok {
		return s.ConsecutiveFailures
	}
	return 0
}

func (r *Runner) Stats() []JobStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]JobStats, 0, len(r.stats))
	for _, s := range r.stats {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
