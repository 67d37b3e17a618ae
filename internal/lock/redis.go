// Package lock serializes engine writes per owner. Pattern and series
// uniqueness is normally enforced by unique indexes in Postgres; an owner
// lock is the alternative for deployments where the store cannot provide
// one, turning concurrent lookup-then-insert races into a serialized queue.
package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// OwnerLocker acquires an exclusive per-owner lease. The returned release
// function is safe to call exactly once, typically via defer.
type OwnerLocker interface {
	Lock(ctx context.Context, ownerID uuid.UUID) (release func(), err error)
}

const (
	// DefaultLeaseTTL bounds how long a crashed holder can block an owner
	DefaultLeaseTTL = 10 * time.Second
	// DefaultRetryDelay is the poll interval while waiting for a lease
	DefaultRetryDelay = 25 * time.Millisecond
)

// releaseScript deletes the lease only while we still hold it, so an
// expired lease taken over by another writer is never deleted from under
// them.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisLocker implements OwnerLocker with a SET NX lease in Redis
type RedisLocker struct {
	client     *redis.Client
	leaseTTL   time.Duration
	retryDelay time.Duration
}

// NewRedisLocker connects to Redis and returns a per-owner locker
func NewRedisLocker(redisURL string) (*RedisLocker, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisLocker{
		client:     client,
		leaseTTL:   DefaultLeaseTTL,
		retryDelay: DefaultRetryDelay,
	}, nil
}

// Lock blocks until the owner lease is acquired or ctx is done
func (l *RedisLocker) Lock(ctx context.Context, ownerID uuid.UUID) (func(), error) {
	key := ownerKey(ownerID)
	token := uuid.NewString()

	for {
		acquired, err := l.client.SetNX(ctx, key, token, l.leaseTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire owner lock: %w", err)
		}
		if acquired {
			break
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("owner lock wait cancelled: %w", ctx.Err())
		case <-time.After(l.retryDelay):
		}
	}

	release := func() {
		// Release with a fresh context: the caller's ctx may already be done.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err()
	}
	return release, nil
}

// Close closes the Redis connection
func (l *RedisLocker) Close() error {
	return l.client.Close()
}

func ownerKey(ownerID uuid.UUID) string {
	return "flowplan:owner_lock:" + ownerID.String()
}
