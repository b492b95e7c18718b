package balance

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go-hrms/internal/audit"
	balanceerrors "go-hrms/internal/balance/errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const balanceCacheTTL = 10 * time.Minute

func CacheKey(employeeID string) string {
	return "balance:" + employeeID
}

//go:generate mockgen -source=balance_service.go -destination=mock/balance_service_mock.go -package=mock
type Ledger interface {
	Apply(ctx context.Context, employeeID string, op Operation, actor string) (Account, error)
	// ApplyTx runs inside the caller's transaction. The caller audits the surrounding
	// transition and calls Invalidate once it has committed.
	ApplyTx(ctx context.Context, tx *sql.Tx, employeeID string, op Operation) (Account, error)
	Balance(ctx context.Context, employeeID string) (BalanceResponse, error)
	Invalidate(ctx context.Context, employeeID string)
	ResetAll(ctx context.Context) (int, error)
}

type ledger struct {
	db      *sql.DB
	store   Store
	rdb     *redis.Client
	sf      *singleflight.Group
	auditor audit.Recorder
	now     func() time.Time
	logger  *zap.Logger
}

type Option func(*ledger)

func WithClock(now func() time.Time) Option {
	return func(l *ledger) { l.now = now }
}

func WithLogger(logger *zap.Logger) Option {
	return func(l *ledger) {
		if logger != nil {
			l.logger = logger.Named("balance.ledger")
		}
	}
}

func NewLedger(db *sql.DB, store Store, rdb *redis.Client, auditor audit.Recorder, opts ...Option) Ledger {
	l := &ledger{
		db:      db,
		store:   store,
		rdb:     rdb,
		sf:      &singleflight.Group{},
		auditor: auditor,
		now:     time.Now,
		logger:  zap.L().Named("balance.ledger"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *ledger) Apply(ctx context.Context, employeeID string, op Operation, actor string) (Account, error) {
	l.logger.Debug("apply balance operation requested",
		zap.String("employee_id", employeeID),
		zap.String("op", string(op.Kind)),
	)

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		l.logger.Error("apply balance operation begin tx failed", zap.Error(err))
		return Account{}, err
	}
	defer tx.Rollback()

	acc, err := l.apply(ctx, l.store.WithTx(tx), employeeID, op)
	if err != nil {
		return Account{}, err
	}

	if err := tx.Commit(); err != nil {
		l.logger.Error("apply balance operation commit failed", zap.String("employee_id", employeeID), zap.Error(err))
		return Account{}, err
	}

	l.Invalidate(ctx, employeeID)
	l.auditor.Record(ctx, audit.Entry{
		Action:      "BALANCE_" + string(op.Kind),
		TargetID:    employeeID,
		PerformedBy: actor,
		Details:     operationDetails(op),
	})
	l.logger.Info("apply balance operation success",
		zap.String("employee_id", employeeID),
		zap.String("op", string(op.Kind)),
	)
	return acc, nil
}

func (l *ledger) ApplyTx(ctx context.Context, tx *sql.Tx, employeeID string, op Operation) (Account, error) {
	return l.apply(ctx, l.store.WithTx(tx), employeeID, op)
}

func (l *ledger) apply(ctx context.Context, store Store, employeeID string, op Operation) (Account, error) {
	h, err := store.GetForUpdate(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Account{}, balanceerrors.ErrAccountNotFound
		}
		l.logger.Error("load leave account failed", zap.String("employee_id", employeeID), zap.Error(err))
		return Account{}, err
	}

	now := l.now()
	acc := h.Account.clone()
	Reset(&acc, h.Profile, now)

	if err := op.ApplyTo(&acc, now); err != nil {
		l.logger.Warn("balance operation rejected",
			zap.String("employee_id", employeeID),
			zap.String("op", string(op.Kind)),
			zap.Error(err),
		)
		return Account{}, err
	}

	if err := store.Save(ctx, employeeID, acc); err != nil {
		l.logger.Error("save leave account failed", zap.String("employee_id", employeeID), zap.Error(err))
		return Account{}, err
	}
	return acc, nil
}

func (l *ledger) Balance(ctx context.Context, employeeID string) (BalanceResponse, error) {
	key := CacheKey(employeeID)

	if l.rdb != nil {
		if cached, err := l.rdb.Get(ctx, key).Result(); err == nil {
			var resp BalanceResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			l.logger.Warn("balance cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	v, err, _ := l.sf.Do(key, func() (interface{}, error) {
		h, err := l.store.Get(ctx, employeeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, balanceerrors.ErrAccountNotFound
			}
			return nil, err
		}

		acc := h.Account.clone()
		Reset(&acc, h.Profile, l.now())
		resp := mapToResponse(employeeID, acc)

		if l.rdb != nil {
			if data, err := json.Marshal(resp); err == nil {
				if err := l.rdb.Set(ctx, key, data, balanceCacheTTL).Err(); err != nil {
					l.logger.Warn("balance cache write failed", zap.String("key", key), zap.Error(err))
				}
			}
		}
		return resp, nil
	})
	if err != nil {
		return BalanceResponse{}, err
	}
	return v.(BalanceResponse), nil
}

func (l *ledger) Invalidate(ctx context.Context, employeeID string) {
	if l.rdb == nil {
		return
	}
	if err := l.rdb.Del(ctx, CacheKey(employeeID)).Err(); err != nil {
		l.logger.Warn("balance cache invalidate failed", zap.String("employee_id", employeeID), zap.Error(err))
	}
}

// ResetAll persists period resets for every active employee. Failures of single employees
// do not stop the batch; they are joined into the returned error.
func (l *ledger) ResetAll(ctx context.Context) (int, error) {
	ids, err := l.store.ListActiveIDs(ctx)
	if err != nil {
		l.logger.Error("list active employees failed", zap.Error(err))
		return 0, err
	}

	var (
		count int
		errs  []error
	)
	for _, id := range ids {
		changed, err := l.resetOne(ctx, id)
		if err != nil {
			l.logger.Error("reset leave account failed", zap.String("employee_id", id), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		if changed {
			count++
			l.Invalidate(ctx, id)
			l.auditor.Record(ctx, audit.Entry{
				Action:      "BALANCE_RESET",
				TargetID:    id,
				PerformedBy: audit.SystemActor,
			})
		}
	}

	l.logger.Info("leave reset finished", zap.Int("employees", len(ids)), zap.Int("reset", count))
	return count, errors.Join(errs...)
}

func (l *ledger) resetOne(ctx context.Context, employeeID string) (bool, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	store := l.store.WithTx(tx)
	h, err := store.GetForUpdate(ctx, employeeID)
	if err != nil {
		return false, err
	}

	acc := h.Account.clone()
	if !Reset(&acc, h.Profile, l.now()) {
		return false, nil
	}
	if err := store.Save(ctx, employeeID, acc); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

func operationDetails(op Operation) map[string]any {
	d := map[string]any{"op": string(op.Kind)}
	if op.Days != 0 {
		d["days"] = op.Days
	}
	if op.Hours != 0 {
		d["hours"] = op.Hours
		d["date"] = op.Date.Format("2006-01-02")
	}
	if op.EntryID != "" {
		d["entry_id"] = op.EntryID
	}
	return d
}
