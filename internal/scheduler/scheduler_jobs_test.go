package scheduler_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-hrms/internal/attendance"
	"go-hrms/internal/punch"
	"go-hrms/internal/scheduler"

	"github.com/stretchr/testify/assert"
)

type fakeSyncer struct {
	syncFn func(ctx context.Context) (punch.SyncResult, error)
	calls  int
}

func (f *fakeSyncer) Sync(ctx context.Context) (punch.SyncResult, error) {
	f.calls++
	if f.syncFn != nil {
		return f.syncFn(ctx)
	}
	return punch.SyncResult{}, nil
}

type fakeReconciler struct {
	markAbsentFn     func(ctx context.Context, day time.Time) (int, error)
	recordArrivalsFn func(ctx context.Context, day time.Time) (int, error)
	finalizeFn       func(ctx context.Context, today time.Time) (attendance.FinalizeResult, error)
	sweepFn          func(ctx context.Context, now time.Time) (int, error)
	calls            []string
}

func (f *fakeReconciler) MarkAbsent(ctx context.Context, day time.Time) (int, error) {
	f.calls = append(f.calls, "absent")
	if f.markAbsentFn != nil {
		return f.markAbsentFn(ctx, day)
	}
	return 0, nil
}

func (f *fakeReconciler) RecordArrivals(ctx context.Context, day time.Time) (int, error) {
	f.calls = append(f.calls, "arrivals")
	if f.recordArrivalsFn != nil {
		return f.recordArrivalsFn(ctx, day)
	}
	return 0, nil
}

func (f *fakeReconciler) FinalizePending(ctx context.Context, today time.Time) (attendance.FinalizeResult, error) {
	f.calls = append(f.calls, "finalize")
	if f.finalizeFn != nil {
		return f.finalizeFn(ctx, today)
	}
	return attendance.FinalizeResult{}, nil
}

func (f *fakeReconciler) SweepUnclaimedOvertime(ctx context.Context, now time.Time) (int, error) {
	f.calls = append(f.calls, "sweep")
	if f.sweepFn != nil {
		return f.sweepFn(ctx, now)
	}
	return 0, nil
}

type fakeResetter struct{ n int }

func (f *fakeResetter) ResetAll(context.Context) (int, error) {
	f.n++
	return 10, nil
}

func jobByName(jobs []scheduler.Job, name string) scheduler.Job {
	for _, j := range jobs {
		if j.Name == name {
			return j
		}
	}
	return scheduler.Job{}
}

func TestJobs(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	specs := scheduler.Specs{
		SyncMorning:   "30 9 * * *",
		SyncAfternoon: "0 14 * * *",
		Arrivals:      "30 9 * * *",
		Finalize:      "15 0 * * *",
		OTSweep:       "30 0 * * *",
		LeaveReset:    "5 0 * * *",
	}

	setup := func() (*fakeSyncer, *fakeReconciler, *fakeResetter, []scheduler.Job) {
		syncer, rec, resetter := &fakeSyncer{}, &fakeReconciler{}, &fakeResetter{}
		jobs := scheduler.Jobs(specs, scheduler.Deps{
			SyncLock:   "attendanceSync",
			Ingestor:   syncer,
			Reconciler: rec,
			Ledger:     resetter,
			Now:        func() time.Time { return now },
		})
		return syncer, rec, resetter, jobs
	}

	t.Run("six jobs with their schedules", func(t *testing.T) {
		_, _, _, jobs := setup()
		assert.Len(t, jobs, 6)
		assert.Equal(t, "0 14 * * *", jobByName(jobs, scheduler.JobSyncAfternoon).Spec)
		assert.Equal(t, "5 0 * * *", jobByName(jobs, scheduler.JobLeaveReset).Spec)
	})

	t.Run("morning sync leads into finalize then arrivals", func(t *testing.T) {
		_, _, _, jobs := setup()
		morning := jobByName(jobs, scheduler.JobSyncMorning)
		assert.Equal(t, []string{scheduler.JobFinalize, scheduler.JobArrivals}, morning.Then)
		assert.Empty(t, jobByName(jobs, scheduler.JobSyncAfternoon).Then)
	})

	t.Run("sync jobs share the watermark lock", func(t *testing.T) {
		_, _, _, jobs := setup()
		assert.Equal(t, "attendanceSync", jobByName(jobs, scheduler.JobSyncMorning).Lock)
		assert.Equal(t, "attendanceSync", jobByName(jobs, scheduler.JobSyncAfternoon).Lock)
	})

	t.Run("both sync jobs call the ingestor", func(t *testing.T) {
		syncer, _, _, jobs := setup()
		assert.NoError(t, jobByName(jobs, scheduler.JobSyncMorning).Run(ctx))
		assert.NoError(t, jobByName(jobs, scheduler.JobSyncAfternoon).Run(ctx))
		assert.Equal(t, 2, syncer.calls)
	})

	t.Run("sync failure is returned for retry", func(t *testing.T) {
		syncer, _, _, jobs := setup()
		syncer.syncFn = func(context.Context) (punch.SyncResult, error) {
			return punch.SyncResult{}, errors.New("source unreachable")
		}
		assert.Error(t, jobByName(jobs, scheduler.JobSyncMorning).Run(ctx))
	})

	t.Run("arrivals then absence for today", func(t *testing.T) {
		_, rec, _, jobs := setup()
		var days []time.Time
		rec.recordArrivalsFn = func(_ context.Context, d time.Time) (int, error) { days = append(days, d); return 3, nil }
		rec.markAbsentFn = func(_ context.Context, d time.Time) (int, error) { days = append(days, d); return 1, nil }

		assert.NoError(t, jobByName(jobs, scheduler.JobArrivals).Run(ctx))
		assert.Equal(t, []string{"arrivals", "absent"}, rec.calls)
		assert.Equal(t, []time.Time{now, now}, days)
	})

	t.Run("arrival failure skips absence", func(t *testing.T) {
		_, rec, _, jobs := setup()
		rec.recordArrivalsFn = func(context.Context, time.Time) (int, error) { return 0, errors.New("boom") }

		assert.Error(t, jobByName(jobs, scheduler.JobArrivals).Run(ctx))
		assert.Equal(t, []string{"arrivals"}, rec.calls)
	})

	t.Run("partial finalize failure is reported", func(t *testing.T) {
		_, rec, _, jobs := setup()
		rec.finalizeFn = func(context.Context, time.Time) (attendance.FinalizeResult, error) {
			return attendance.FinalizeResult{Employees: 4, Days: 6, Failed: 1}, nil
		}
		assert.Error(t, jobByName(jobs, scheduler.JobFinalize).Run(ctx))
	})

	t.Run("sweep and reset", func(t *testing.T) {
		_, rec, resetter, jobs := setup()
		assert.NoError(t, jobByName(jobs, scheduler.JobOTSweep).Run(ctx))
		assert.NoError(t, jobByName(jobs, scheduler.JobLeaveReset).Run(ctx))
		assert.Equal(t, []string{"sweep"}, rec.calls)
		assert.Equal(t, 1, resetter.n)
	})
}
