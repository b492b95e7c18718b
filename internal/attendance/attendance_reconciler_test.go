package attendance

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"go-hrms/internal/audit"
	"go-hrms/internal/punch"
	"go-hrms/internal/shared/lock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	mu      sync.Mutex
	records map[string]*Record

	createIfAbsentFn        func(ctx context.Context, records []Record) (int64, error)
	listUnclaimedOvertimeFn func(ctx context.Context, onOrBefore time.Time) ([]Record, error)
	zeroOvertimeFn          func(ctx context.Context, id uuid.UUID) (int64, error)
	listFn                  func(ctx context.Context, f ListFilter) ([]Record, error)
	saves                   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: map[string]*Record{}}
}

func recordKey(employeeID string, day time.Time) string {
	return employeeID + "|" + day.Format("2006-01-02")
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f }

func (f *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (*Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.ID == id {
			c := *r
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) FindByEmployeeAndDate(ctx context.Context, employeeID string, day time.Time) (*Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.records[recordKey(employeeID, day)]; ok {
		c := *r
		return &c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) EmployeeIDsOn(ctx context.Context, day time.Time) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []string
	for _, r := range f.records {
		if r.Date.Equal(day) {
			ids = append(ids, r.EmployeeID)
		}
	}
	return ids, nil
}

func (f *fakeRepo) CreateIfAbsent(ctx context.Context, records []Record) (int64, error) {
	if f.createIfAbsentFn != nil {
		return f.createIfAbsentFn(ctx, records)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for i := range records {
		k := recordKey(records[i].EmployeeID, records[i].Date)
		if _, ok := f.records[k]; ok {
			continue
		}
		r := records[i]
		f.records[k] = &r
		n++
	}
	return n, nil
}

func (f *fakeRepo) Save(ctx context.Context, r *Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := *r
	f.records[recordKey(r.EmployeeID, r.Date)] = &c
	f.saves++
	return nil
}

func (f *fakeRepo) ZeroOvertime(ctx context.Context, id uuid.UUID) (int64, error) {
	return f.zeroOvertimeFn(ctx, id)
}

func (f *fakeRepo) ListUnclaimedOvertime(ctx context.Context, onOrBefore time.Time) ([]Record, error) {
	return f.listUnclaimedOvertimeFn(ctx, onOrBefore)
}

func (f *fakeRepo) List(ctx context.Context, filter ListFilter) ([]Record, error) {
	return f.listFn(ctx, filter)
}

type fakePunches struct {
	punch.Repository

	events    []punch.RawPunchEvent
	processed map[uuid.UUID]bool
	mu        sync.Mutex
}

func (f *fakePunches) WithTx(tx *sql.Tx) punch.Repository { return f }

func (f *fakePunches) ListUnprocessedBefore(ctx context.Context, day time.Time) ([]punch.RawPunchEvent, error) {
	var out []punch.RawPunchEvent
	for _, e := range f.events {
		if !e.Processed && e.Date.Before(day) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakePunches) ListOn(ctx context.Context, day time.Time) ([]punch.RawPunchEvent, error) {
	var out []punch.RawPunchEvent
	for _, e := range f.events {
		if e.Date.Equal(day) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakePunches) MarkProcessed(ctx context.Context, ids []uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.processed == nil {
		f.processed = map[uuid.UUID]bool{}
	}
	for _, id := range ids {
		f.processed[id] = true
	}
	return nil
}

type fakeRoster struct {
	members []Member
}

func (f *fakeRoster) ActiveMembers(ctx context.Context) ([]Member, error) {
	return f.members, nil
}

func (f *fakeRoster) MemberByExternalID(ctx context.Context, externalID string) (Member, bool, error) {
	for _, m := range f.members {
		if m.ExternalID == externalID {
			return m, true, nil
		}
	}
	return Member{}, false, nil
}

type fakeLeaves struct {
	leaves map[string]*HalfDayLeave
}

func (f *fakeLeaves) ApprovedHalfDay(ctx context.Context, employeeID string, day time.Time) (*HalfDayLeave, error) {
	return f.leaves[recordKey(employeeID, day)], nil
}

type fakeLocker struct {
	mu   sync.Mutex
	keys []string
}

func (f *fakeLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (lock.Unlock, bool, error) {
	u, err := f.Lock(ctx, key, ttl)
	return u, err == nil, err
}

func (f *fakeLocker) Lock(ctx context.Context, key string, ttl time.Duration) (lock.Unlock, error) {
	f.mu.Lock()
	f.keys = append(f.keys, key)
	f.mu.Unlock()
	return func(context.Context) error { return nil }, nil
}

type recordingAuditor struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (r *recordingAuditor) Record(_ context.Context, e audit.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

type purgerFunc func(ctx context.Context) (int64, error)

func (f purgerFunc) PurgeProcessed(ctx context.Context) (int64, error) { return f(ctx) }

type reconcilerDeps struct {
	db      *sql.DB
	mock    sqlmock.Sqlmock
	repo    *fakeRepo
	punches *fakePunches
	roster  *fakeRoster
	leaves  *fakeLeaves
	locker  *fakeLocker
	auditor *recordingAuditor
	purged  bool
	rec     Reconciler
}

func setupReconcilerTest(t *testing.T) *reconcilerDeps {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	deps := &reconcilerDeps{
		db:      db,
		mock:    mock,
		repo:    newFakeRepo(),
		punches: &fakePunches{},
		roster: &fakeRoster{members: []Member{
			{EmployeeID: "emp-a", ExternalID: "101"},
			{EmployeeID: "emp-b", ExternalID: "102"},
			{EmployeeID: "emp-c", ExternalID: "103"},
		}},
		leaves:  &fakeLeaves{leaves: map[string]*HalfDayLeave{}},
		locker:  &fakeLocker{},
		auditor: &recordingAuditor{},
	}
	deps.rec = NewReconciler(db, deps.repo, deps.punches, deps.roster, deps.leaves, deps.locker, deps.auditor,
		WithParallelism(1),
		WithPurger(purgerFunc(func(ctx context.Context) (int64, error) {
			deps.purged = true
			return 0, nil
		})),
	)
	return deps
}

func punchAt(extID string, day time.Time, clock string) punch.RawPunchEvent {
	return punch.RawPunchEvent{ID: uuid.New(), ExternalID: extID, Date: day, Time: clock}
}

var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func TestReconciler_FinalizePending(t *testing.T) {
	ctx := context.Background()

	t.Run("derives records and marks events processed", func(t *testing.T) {
		deps := setupReconcilerTest(t)
		defer deps.db.Close()

		deps.punches.events = []punch.RawPunchEvent{
			punchAt("101", monday, "09:00:00"),
			punchAt("101", monday, "18:00:00"),
			punchAt("102", monday, "14:00:00"),
			punchAt("102", monday, "17:30:00"),
			punchAt("999", monday, "09:00:00"),
			punchAt("101", monday.AddDate(0, 0, 1), "09:00:00"),
		}
		deps.leaves.leaves[recordKey("emp-b", monday)] = &HalfDayLeave{Session: SessionForenoon}
		deps.mock.MatchExpectationsInOrder(false)
		expectTx(t, deps.mock, true)
		expectTx(t, deps.mock, true)

		res, err := deps.rec.FinalizePending(ctx, monday.AddDate(0, 0, 1).Add(10*time.Hour))

		assert.NoError(t, err)
		assert.Equal(t, FinalizeResult{Employees: 2, Days: 2, Unknown: 1}, res)

		a, _ := deps.repo.FindByEmployeeAndDate(ctx, "emp-a", monday)
		assert.Equal(t, StatusPresent, a.Status)
		assert.Equal(t, 30, a.OvertimeMinutes)

		b, _ := deps.repo.FindByEmployeeAndDate(ctx, "emp-b", monday)
		assert.Equal(t, StatusHalfDay, b.Status)
		assert.Equal(t, "14:00:00", *b.TimeIn)
		assert.Equal(t, PartSecond, *b.HalfDayPart)

		assert.Len(t, deps.punches.processed, 4)
		assert.ElementsMatch(t, []string{lock.EmployeeKey("emp-a"), lock.EmployeeKey("emp-b")}, deps.locker.keys)
		assert.Len(t, deps.auditor.entries, 2)
		assert.True(t, deps.purged)
		assert.NoError(t, deps.mock.ExpectationsWereMet())
	})

	t.Run("finalized day is not recomputed", func(t *testing.T) {
		deps := setupReconcilerTest(t)
		defer deps.db.Close()

		in, out := "08:00:00", "20:00:00"
		deps.repo.records[recordKey("emp-a", monday)] = &Record{
			ID: uuid.New(), EmployeeID: "emp-a", Date: monday,
			TimeIn: &in, TimeOut: &out, Status: StatusPresent, OvertimeMinutes: 210,
		}
		deps.punches.events = []punch.RawPunchEvent{
			punchAt("101", monday, "09:00:00"),
			punchAt("101", monday, "10:00:00"),
		}
		expectTx(t, deps.mock, true)

		_, err := deps.rec.FinalizePending(ctx, monday.AddDate(0, 0, 1))

		assert.NoError(t, err)
		assert.Zero(t, deps.repo.saves)
		a, _ := deps.repo.FindByEmployeeAndDate(ctx, "emp-a", monday)
		assert.Equal(t, 210, a.OvertimeMinutes)
		assert.Len(t, deps.punches.processed, 2)
		assert.Empty(t, deps.auditor.entries)
	})

	t.Run("provisional arrival is closed", func(t *testing.T) {
		deps := setupReconcilerTest(t)
		defer deps.db.Close()

		in := "09:00:00"
		deps.repo.records[recordKey("emp-a", monday)] = &Record{
			ID: uuid.New(), EmployeeID: "emp-a", Date: monday, TimeIn: &in, Status: StatusPresent,
		}
		deps.punches.events = []punch.RawPunchEvent{
			punchAt("101", monday, "09:00:00"),
			punchAt("101", monday, "11:00:00"),
		}
		expectTx(t, deps.mock, true)

		_, err := deps.rec.FinalizePending(ctx, monday.AddDate(0, 0, 1))

		assert.NoError(t, err)
		a, _ := deps.repo.FindByEmployeeAndDate(ctx, "emp-a", monday)
		assert.Equal(t, StatusHalfDay, a.Status)
		assert.Equal(t, "11:00:00", *a.TimeOut)
	})

	t.Run("today is left alone", func(t *testing.T) {
		deps := setupReconcilerTest(t)
		defer deps.db.Close()

		deps.punches.events = []punch.RawPunchEvent{punchAt("101", monday, "09:00:00")}

		res, err := deps.rec.FinalizePending(ctx, monday.Add(15*time.Hour))

		assert.NoError(t, err)
		assert.Equal(t, FinalizeResult{}, res)
		assert.Empty(t, deps.punches.processed)
	})
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestReconciler_MarkAbsent(t *testing.T) {
	deps := setupReconcilerTest(t)
	defer deps.db.Close()

	deps.punches.events = []punch.RawPunchEvent{punchAt("101", monday, "09:10:00")}
	deps.repo.records[recordKey("emp-b", monday)] = &Record{ID: uuid.New(), EmployeeID: "emp-b", Date: monday, Status: StatusPresent}

	n, err := deps.rec.MarkAbsent(context.Background(), monday.Add(9*time.Hour+30*time.Minute))

	assert.NoError(t, err)
	assert.Equal(t, 1, n)
	c, _ := deps.repo.FindByEmployeeAndDate(context.Background(), "emp-c", monday)
	assert.Equal(t, StatusAbsent, c.Status)
	assert.Nil(t, c.TimeIn)
	assert.Nil(t, c.TimeOut)
	assert.Zero(t, c.OvertimeMinutes)
	assert.Equal(t, "ATTENDANCE_MARKED_ABSENT", deps.auditor.entries[0].Action)

	again, err := deps.rec.MarkAbsent(context.Background(), monday.Add(10*time.Hour))
	assert.NoError(t, err)
	assert.Zero(t, again)
}

func TestReconciler_RecordArrivals(t *testing.T) {
	deps := setupReconcilerTest(t)
	defer deps.db.Close()

	deps.punches.events = []punch.RawPunchEvent{
		punchAt("101", monday, "09:40:00"),
		punchAt("101", monday, "09:05:00"),
		punchAt("555", monday, "09:00:00"),
	}

	n, err := deps.rec.RecordArrivals(context.Background(), monday.Add(9*time.Hour+30*time.Minute))

	assert.NoError(t, err)
	assert.Equal(t, 1, n)
	a, _ := deps.repo.FindByEmployeeAndDate(context.Background(), "emp-a", monday)
	assert.Equal(t, "09:05:00", *a.TimeIn)
	assert.Nil(t, a.TimeOut)
	assert.Empty(t, deps.punches.processed)
}

func TestReconciler_SweepUnclaimedOvertime(t *testing.T) {
	t.Run("forfeits past the deadline", func(t *testing.T) {
		deps := setupReconcilerTest(t)
		defer deps.db.Close()

		rec := Record{ID: uuid.New(), EmployeeID: "emp-a", Date: monday, OvertimeMinutes: 45}
		deps.repo.listUnclaimedOvertimeFn = func(ctx context.Context, onOrBefore time.Time) ([]Record, error) {
			assert.Equal(t, monday.AddDate(0, 0, 1), onOrBefore)
			return []Record{rec}, nil
		}
		deps.repo.zeroOvertimeFn = func(ctx context.Context, id uuid.UUID) (int64, error) {
			assert.Equal(t, rec.ID, id)
			return 1, nil
		}

		n, err := deps.rec.SweepUnclaimedOvertime(context.Background(), monday.AddDate(0, 0, 3).Add(30*time.Minute))

		assert.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.Equal(t, "OT_FORFEITED", deps.auditor.entries[0].Action)
	})

	t.Run("store failure is reported", func(t *testing.T) {
		deps := setupReconcilerTest(t)
		defer deps.db.Close()

		deps.repo.listUnclaimedOvertimeFn = func(ctx context.Context, onOrBefore time.Time) ([]Record, error) {
			return []Record{{ID: uuid.New(), EmployeeID: "emp-a", Date: monday, OvertimeMinutes: 45}}, nil
		}
		deps.repo.zeroOvertimeFn = func(ctx context.Context, id uuid.UUID) (int64, error) {
			return 0, errors.New("db down")
		}

		n, err := deps.rec.SweepUnclaimedOvertime(context.Background(), monday.AddDate(0, 0, 5))

		assert.Error(t, err)
		assert.Zero(t, n)
		assert.Empty(t, deps.auditor.entries)
	})
}
