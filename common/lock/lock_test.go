package lock

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyConstruction(t *testing.T) {
	rid := RequirementKey("63f0aa11bb22cc33dd44ee55")
	tid := TaskKey("63f0aa11bb22cc33dd44ee55")
	assert.Equal(t, Key("coursehub:lock:requirement:63f0aa11bb22cc33dd44ee55"), rid)
	assert.Equal(t, Key("coursehub:lock:task:63f0aa11bb22cc33dd44ee55"), tid)
	// same id, different entity kinds, must not collide
	assert.NotEqual(t, rid, tid)
}

func testClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("COURSEHUB_TEST_REDIS")
	if addr == "" {
		t.Skip("COURSEHUB_TEST_REDIS not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis not reachable: %s", err)
	}
	return rdb
}

func TestWithLockMutualExclusion(t *testing.T) {
	rdb := testClient(t)
	defer rdb.Close()

	l := New(rdb)
	key := TaskKey("lock-test")

	var inside, max int
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := l.WithLock(context.Background(), key, func(ctx context.Context) error {
				mu.Lock()
				inside++
				if inside > max {
					max = inside
				}
				mu.Unlock()
				time.Sleep(10 * time.Millisecond)
				mu.Lock()
				inside--
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, max)
}

func TestWithLockBusy(t *testing.T) {
	rdb := testClient(t)
	defer rdb.Close()

	l := New(rdb)
	l.RetryInterval = 5 * time.Millisecond
	l.RetryLimit = 2
	key := TaskKey("busy-test")

	release := make(chan struct{})
	held := make(chan struct{})
	go func() {
		_ = l.WithLock(context.Background(), key, func(ctx context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held
	err := l.WithLock(context.Background(), key, func(ctx context.Context) error { return nil })
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBusy)
	close(release)
}
