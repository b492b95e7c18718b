package attendance

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"time"

	"go-hrms/internal/audit"
	"go-hrms/internal/punch"
	"go-hrms/internal/shared/lock"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type Roster interface {
	ActiveMembers(ctx context.Context) ([]Member, error)
	MemberByExternalID(ctx context.Context, externalID string) (Member, bool, error)
}

type LeaveContext interface {
	// ApprovedHalfDay returns the approved half-day leave of the employee on day, or nil.
	ApprovedHalfDay(ctx context.Context, employeeID string, day time.Time) (*HalfDayLeave, error)
}

type Purger interface {
	PurgeProcessed(ctx context.Context) (int64, error)
}

type FinalizeResult struct {
	Employees int `json:"employees"`
	Days      int `json:"days"`
	Unknown   int `json:"unknown"`
	Failed    int `json:"failed"`
}

//go:generate mockgen -source=attendance_reconciler.go -destination=mock/attendance_reconciler_mock.go -package=mock
type Reconciler interface {
	MarkAbsent(ctx context.Context, day time.Time) (int, error)
	RecordArrivals(ctx context.Context, day time.Time) (int, error)
	FinalizePending(ctx context.Context, today time.Time) (FinalizeResult, error)
	SweepUnclaimedOvertime(ctx context.Context, now time.Time) (int, error)
}

type reconciler struct {
	db          *sql.DB
	repo        Repository
	punches     punch.Repository
	roster      Roster
	leaves      LeaveContext
	locker      lock.Locker
	auditor     audit.Recorder
	purger      Purger
	loc         *time.Location
	parallelism int
	lockTTL     time.Duration
	logger      *zap.Logger
}

type Option func(*reconciler)

func WithLocation(loc *time.Location) Option {
	return func(r *reconciler) {
		if loc != nil {
			r.loc = loc
		}
	}
}

func WithParallelism(n int) Option {
	return func(r *reconciler) {
		if n > 0 {
			r.parallelism = n
		}
	}
}

func WithLockTTL(ttl time.Duration) Option {
	return func(r *reconciler) {
		if ttl > 0 {
			r.lockTTL = ttl
		}
	}
}

func WithPurger(p Purger) Option {
	return func(r *reconciler) { r.purger = p }
}

func WithLogger(logger *zap.Logger) Option {
	return func(r *reconciler) {
		if logger != nil {
			r.logger = logger.Named("attendance.reconciler")
		}
	}
}

func NewReconciler(
	db *sql.DB,
	repo Repository,
	punches punch.Repository,
	roster Roster,
	leaves LeaveContext,
	locker lock.Locker,
	auditor audit.Recorder,
	opts ...Option,
) Reconciler {
	r := &reconciler{
		db:          db,
		repo:        repo,
		punches:     punches,
		roster:      roster,
		leaves:      leaves,
		locker:      locker,
		auditor:     auditor,
		loc:         time.UTC,
		parallelism: 8,
		lockTTL:     time.Minute,
		logger:      zap.L().Named("attendance.reconciler"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *reconciler) MarkAbsent(ctx context.Context, day time.Time) (int, error) {
	date := DateIn(day, r.loc)

	members, err := r.roster.ActiveMembers(ctx)
	if err != nil {
		r.logger.Error("load active employees failed", zap.Error(err))
		return 0, err
	}

	events, err := r.punches.ListOn(ctx, date)
	if err != nil {
		r.logger.Error("load punches of day failed", zap.Error(err))
		return 0, err
	}
	punched := make(map[string]struct{}, len(events))
	for _, e := range events {
		punched[e.ExternalID] = struct{}{}
	}

	existing, err := r.repo.EmployeeIDsOn(ctx, date)
	if err != nil {
		r.logger.Error("load records of day failed", zap.Error(err))
		return 0, err
	}
	recorded := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		recorded[id] = struct{}{}
	}

	var records []Record
	for _, m := range members {
		if _, ok := punched[m.ExternalID]; ok {
			continue
		}
		if _, ok := recorded[m.EmployeeID]; ok {
			continue
		}
		records = append(records, Record{
			ID:         uuid.New(),
			EmployeeID: m.EmployeeID,
			Date:       date,
			Status:     StatusAbsent,
		})
	}

	n, err := r.repo.CreateIfAbsent(ctx, records)
	if err != nil {
		r.logger.Error("mark absent failed", zap.Time("date", date), zap.Error(err))
		return 0, err
	}

	for _, rec := range records {
		r.auditor.Record(ctx, audit.Entry{
			Action:      "ATTENDANCE_MARKED_ABSENT",
			TargetID:    rec.EmployeeID,
			PerformedBy: audit.SystemActor,
			Details:     map[string]any{"date": date.Format("2006-01-02")},
		})
	}

	r.logger.Info("absence marking finished", zap.Time("date", date), zap.Int64("marked", n))
	return int(n), nil
}

// RecordArrivals opens a provisional Present record for employees who punched on day. The
// events stay unprocessed so finalization closes the record once the day is over.
func (r *reconciler) RecordArrivals(ctx context.Context, day time.Time) (int, error) {
	date := DateIn(day, r.loc)

	events, err := r.punches.ListOn(ctx, date)
	if err != nil {
		r.logger.Error("load punches of day failed", zap.Error(err))
		return 0, err
	}

	first := make(map[string]string)
	var order []string
	for _, e := range events {
		t, ok := first[e.ExternalID]
		if !ok {
			order = append(order, e.ExternalID)
		}
		if !ok || e.Time < t {
			first[e.ExternalID] = e.Time
		}
	}

	var records []Record
	for _, extID := range order {
		m, found, err := r.roster.MemberByExternalID(ctx, extID)
		if err != nil {
			return 0, err
		}
		if !found {
			r.logger.Warn("punch from unknown employee", zap.String("external_id", extID))
			continue
		}
		timeIn := first[extID]
		records = append(records, Record{
			ID:         uuid.New(),
			EmployeeID: m.EmployeeID,
			Date:       date,
			TimeIn:     &timeIn,
			Status:     StatusPresent,
		})
	}

	n, err := r.repo.CreateIfAbsent(ctx, records)
	if err != nil {
		r.logger.Error("record arrivals failed", zap.Time("date", date), zap.Error(err))
		return 0, err
	}

	r.logger.Info("arrivals recorded", zap.Time("date", date), zap.Int64("created", n))
	return int(n), nil
}

func (r *reconciler) FinalizePending(ctx context.Context, today time.Time) (FinalizeResult, error) {
	cutoff := DateIn(today, r.loc)

	events, err := r.punches.ListUnprocessedBefore(ctx, cutoff)
	if err != nil {
		r.logger.Error("load unprocessed punches failed", zap.Error(err))
		return FinalizeResult{}, err
	}

	byEmployee := make(map[string]map[time.Time][]punch.RawPunchEvent)
	for _, e := range events {
		days, ok := byEmployee[e.ExternalID]
		if !ok {
			days = make(map[time.Time][]punch.RawPunchEvent)
			byEmployee[e.ExternalID] = days
		}
		d := punch.DateOf(e.Date)
		days[d] = append(days[d], e)
	}

	var (
		mu     sync.Mutex
		result FinalizeResult
		errs   []error
	)
	g := new(errgroup.Group)
	g.SetLimit(r.parallelism)

	for extID, days := range byEmployee {
		g.Go(func() error {
			finalized, known, err := r.finalizeEmployee(ctx, extID, days)

			mu.Lock()
			defer mu.Unlock()
			result.Days += finalized
			switch {
			case err != nil:
				result.Failed++
				errs = append(errs, err)
			case !known:
				result.Unknown++
			default:
				result.Employees++
			}
			return nil
		})
	}
	_ = g.Wait()

	if r.purger != nil {
		if _, err := r.purger.PurgeProcessed(ctx); err != nil {
			r.logger.Warn("purge after finalization failed", zap.Error(err))
		}
	}

	r.logger.Info("finalization finished",
		zap.Time("before", cutoff),
		zap.Int("employees", result.Employees),
		zap.Int("days", result.Days),
		zap.Int("unknown", result.Unknown),
		zap.Int("failed", result.Failed),
	)
	return result, errors.Join(errs...)
}

func (r *reconciler) finalizeEmployee(ctx context.Context, externalID string, days map[time.Time][]punch.RawPunchEvent) (int, bool, error) {
	m, found, err := r.roster.MemberByExternalID(ctx, externalID)
	if err != nil {
		return 0, false, err
	}
	if !found {
		r.logger.Warn("punches left unprocessed for unknown employee", zap.String("external_id", externalID))
		return 0, false, nil
	}

	unlock, err := r.locker.Lock(ctx, lock.EmployeeKey(m.EmployeeID), r.lockTTL)
	if err != nil {
		r.logger.Error("acquire employee lock failed", zap.String("employee_id", m.EmployeeID), zap.Error(err))
		return 0, true, err
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			r.logger.Warn("release employee lock failed", zap.String("employee_id", m.EmployeeID), zap.Error(err))
		}
	}()

	dates := make([]time.Time, 0, len(days))
	for d := range days {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	finalized := 0
	for _, d := range dates {
		if err := r.finalizeDay(ctx, m.EmployeeID, d, days[d]); err != nil {
			r.logger.Error("finalize employee day failed",
				zap.String("employee_id", m.EmployeeID),
				zap.Time("date", d),
				zap.Error(err),
			)
			return finalized, true, err
		}
		finalized++
	}
	return finalized, true, nil
}

func (r *reconciler) finalizeDay(ctx context.Context, employeeID string, day time.Time, events []punch.RawPunchEvent) error {
	leave, err := r.leaves.ApprovedHalfDay(ctx, employeeID, day)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := r.repo.WithTx(tx)
	rec, err := qtx.FindByEmployeeAndDate(ctx, employeeID, day)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	recomputed := false
	if rec == nil || !rec.Finalized() {
		times := make([]string, len(events))
		for i, e := range events {
			times[i] = e.Time
		}
		if rec == nil {
			rec = &Record{ID: uuid.New(), EmployeeID: employeeID, Date: day}
		}
		rec.apply(Derive(times, leave, day.Weekday()))
		if err := qtx.Save(ctx, rec); err != nil {
			return err
		}
		recomputed = true
	}

	ids := make([]uuid.UUID, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	if err := r.punches.WithTx(tx).MarkProcessed(ctx, ids); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	if recomputed {
		details := map[string]any{
			"date":             day.Format("2006-01-02"),
			"status":           string(rec.Status),
			"overtime_minutes": rec.OvertimeMinutes,
		}
		if rec.HalfDayPart != nil {
			details["half_day_part"] = string(*rec.HalfDayPart)
		}
		r.auditor.Record(ctx, audit.Entry{
			Action:      "ATTENDANCE_FINALIZED",
			TargetID:    employeeID,
			PerformedBy: audit.SystemActor,
			Details:     details,
		})
	}
	return nil
}

// SweepUnclaimedOvertime forfeits overtime of days whose claim deadline has passed without a claim.
func (r *reconciler) SweepUnclaimedOvertime(ctx context.Context, now time.Time) (int, error) {
	// A day's deadline is the end of the next day, so everything two or more days back has expired.
	lastExpired := DateIn(now, r.loc).AddDate(0, 0, -2)

	rows, err := r.repo.ListUnclaimedOvertime(ctx, lastExpired)
	if err != nil {
		r.logger.Error("load unclaimed overtime failed", zap.Error(err))
		return 0, err
	}

	var (
		count int
		errs  []error
	)
	for _, rec := range rows {
		if !now.After(ClaimDeadline(rec.Date, r.loc)) {
			continue
		}
		zeroed, err := r.forfeit(ctx, rec)
		if err != nil {
			r.logger.Error("forfeit overtime failed", zap.String("record_id", rec.ID.String()), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		if zeroed {
			count++
		}
	}

	r.logger.Info("unclaimed overtime sweep finished", zap.Int("candidates", len(rows)), zap.Int("forfeited", count))
	return count, errors.Join(errs...)
}

func (r *reconciler) forfeit(ctx context.Context, rec Record) (bool, error) {
	unlock, err := r.locker.Lock(ctx, lock.EmployeeKey(rec.EmployeeID), r.lockTTL)
	if err != nil {
		return false, err
	}
	defer func() { _ = unlock(context.WithoutCancel(ctx)) }()

	n, err := r.repo.ZeroOvertime(ctx, rec.ID)
	if err != nil || n == 0 {
		return false, err
	}

	r.auditor.Record(ctx, audit.Entry{
		Action:      "OT_FORFEITED",
		TargetID:    rec.EmployeeID,
		PerformedBy: audit.SystemActor,
		Details: map[string]any{
			"record_id":        rec.ID.String(),
			"date":             rec.Date.Format("2006-01-02"),
			"overtime_minutes": rec.OvertimeMinutes,
		},
	})
	return true, nil
}
