package lock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrNotAcquired = errors.New("lock not acquired")

// releaseScript deletes the key only while it still holds our token.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then return redis.call("DEL", KEYS[1]) else return 0 end`

type Unlock func(ctx context.Context) error

type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (Unlock, bool, error)
	Lock(ctx context.Context, key string, ttl time.Duration) (Unlock, error)
}

type redisLocker struct {
	rdb          *redis.Client
	pollInterval time.Duration
	newToken     func() string
}

type Option func(*redisLocker)

func WithPollInterval(d time.Duration) Option {
	return func(l *redisLocker) { l.pollInterval = d }
}

func WithTokenFunc(fn func() string) Option {
	return func(l *redisLocker) { l.newToken = fn }
}

func NewRedisLocker(rdb *redis.Client, opts ...Option) Locker {
	l := &redisLocker{
		rdb:          rdb,
		pollInterval: 50 * time.Millisecond,
		newToken:     func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *redisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (Unlock, bool, error) {
	token := l.newToken()
	ok, err := l.rdb.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	return func(ctx context.Context) error {
		return l.rdb.Eval(ctx, releaseScript, []string{key}, token).Err()
	}, true, nil
}

// Lock blocks until the key is acquired or ctx is done.
func (l *redisLocker) Lock(ctx context.Context, key string, ttl time.Duration) (Unlock, error) {
	for {
		unlock, ok, err := l.TryLock(ctx, key, ttl)
		if err != nil {
			return nil, err
		}
		if ok {
			return unlock, nil
		}

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrNotAcquired, ctx.Err())
		case <-time.After(l.pollInterval):
		}
	}
}

func JobKey(name string) string {
	return "lock:job:" + name
}

func EmployeeKey(employeeID string) string {
	return "lock:employee:" + employeeID
}
