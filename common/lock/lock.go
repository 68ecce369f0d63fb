// Package lock provides per-key mutual exclusion visible across worker
// processes, backed by Redis.
package lock

import (
	"context"
	"time"

	"github.com/bsm/redislock"
	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

// ErrBusy is returned when a lock could not be obtained within the retry
// budget. Callers should surface it as a retryable failure instead of
// blocking the request forever.
var ErrBusy = errors.New("lock busy")

// Key is a stable, typed lock name. Construct keys through the helpers
// below so unrelated entities can never collide on a stringified id.
type Key string

func RequirementKey(id string) Key {
	return Key("coursehub:lock:requirement:" + id)
}

func TaskKey(id string) Key {
	return Key("coursehub:lock:task:" + id)
}

type Locker struct {
	client *redislock.Client

	TTL           time.Duration
	RetryInterval time.Duration
	RetryLimit    int
}

func New(rdb *redis.Client) *Locker {
	return &Locker{
		client:        redislock.New(rdb),
		TTL:           10 * time.Second,
		RetryInterval: 100 * time.Millisecond,
		RetryLimit:    50,
	}
}

// WithLock runs fn while holding key. The acquisition is bounded: after the
// retry budget is spent the caller gets ErrBusy rather than an unbounded
// wait on a stuck holder.
func (l *Locker) WithLock(ctx context.Context, key Key, fn func(ctx context.Context) error) error {
	opt := &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(l.RetryInterval), l.RetryLimit),
	}
	lk, err := l.client.Obtain(ctx, string(key), l.TTL, opt)
	if err != nil {
		if errors.Is(err, redislock.ErrNotObtained) {
			return errors.Wrap(ErrBusy, string(key))
		}
		return err
	}
	defer func() { _ = lk.Release(ctx) }()
	return fn(ctx)
}
