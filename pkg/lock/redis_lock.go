package lock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

const lockPrefix = "lock:"

// RedisLock is a best-effort distributed lock over SETNX with owner
// tokens, used to keep two synchronizer instances from writing the same
// index profile at once.
type RedisLock struct {
	client  *redis.Client
	ownerId string
	ttl     time.Duration
}

func NewRedisLock(client *redis.Client, ttl time.Duration) *RedisLock {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &RedisLock{
		client:  client,
		ownerId: generateOwnerId(),
		ttl:     ttl,
	}
}

func generateOwnerId() string {
	hostname, _ := os.Hostname()
	randomBytes := make([]byte, 8)
	_, _ = rand.Read(randomBytes)
	return fmt.Sprintf("%s:%d:%s", hostname, os.Getpid(), hex.EncodeToString(randomBytes))
}

// releaseScript deletes the lock only when the owner token matches, so
// an expired lock reacquired by another instance is never released here.
var releaseScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

// Acquire attempts to take the named lock. The returned release func is
// safe to call after the lock has expired.
func (l *RedisLock) Acquire(ctx context.Context, key string) (func(), bool, error) {
	fullKey := lockPrefix + key
	acquired, err := l.client.SetNX(ctx, fullKey, l.ownerId, l.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	if !acquired {
		return nil, false, nil
	}

	release := func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, _ = releaseScript.Run(releaseCtx, l.client, []string{fullKey}, l.ownerId).Result()
	}
	return release, true, nil
}
