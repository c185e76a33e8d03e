package shared

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// PeriodLockKey builds the redis key for the saldo awal critical section.
// A cooperative has one live snapshot, so one key serialises every
// read-compute-write cycle over it.
func PeriodLockKey() string {
	return "koperasi:period:saldo-awal:lock"
}

// ErrLockNotAcquired indicates another editor holds the period lock.
var ErrLockNotAcquired = errors.New("shared: period lock not acquired")

// releaseScript deletes the lock only when the caller still owns it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisMutex is a SET NX lock with a TTL and bounded retries. The ledger
// engine itself is a set of pure functions; mutual exclusion around
// snapshot writes lives at this service boundary instead.
type RedisMutex struct {
	client *redis.Client
	ttl    time.Duration
	retry  time.Duration
	tries  int
}

// NewRedisMutex constructs a RedisMutex with default timing.
func NewRedisMutex(client *redis.Client) *RedisMutex {
	return &RedisMutex{client: client, ttl: 10 * time.Second, retry: 50 * time.Millisecond, tries: 20}
}

// WithLock runs fn while holding the named lock. Acquisition retries for
// roughly one second before giving up with ErrLockNotAcquired.
func (m *RedisMutex) WithLock(ctx context.Context, key string, fn func(context.Context) error) error {
	token := uuid.NewString()
	acquired := false
	for i := 0; i < m.tries; i++ {
		ok, err := m.client.SetNX(ctx, key, token, m.ttl).Result()
		if err != nil {
			return err
		}
		if ok {
			acquired = true
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.retry):
		}
	}
	if !acquired {
		return ErrLockNotAcquired
	}
	defer func() {
		_ = releaseScript.Run(context.WithoutCancel(ctx), m.client, []string{key}, token).Err()
	}()
	return fn(ctx)
}
