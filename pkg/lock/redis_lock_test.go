package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLock(t *testing.T) (*RedisLock, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLock(client, time.Minute), mr
}

func TestRedisLock_AcquireAndRelease(t *testing.T) {
	lock, _ := newTestLock(t)
	ctx := context.Background()

	release, acquired, err := lock.Acquire(ctx, "profile-a")
	if err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}
	if !acquired {
		t.Fatal("expected lock to be acquired")
	}

	// Held lock blocks a second acquisition.
	_, again, err := lock.Acquire(ctx, "profile-a")
	if err != nil {
		t.Fatalf("second Acquire returned error: %v", err)
	}
	if again {
		t.Fatal("expected second acquisition to fail while held")
	}

	release()

	_, reacquired, err := lock.Acquire(ctx, "profile-a")
	if err != nil {
		t.Fatalf("Acquire after release returned error: %v", err)
	}
	if !reacquired {
		t.Fatal("expected lock to be acquirable after release")
	}
}

func TestRedisLock_IndependentKeys(t *testing.T) {
	lock, _ := newTestLock(t)
	ctx := context.Background()

	_, a, err := lock.Acquire(ctx, "profile-a")
	if err != nil || !a {
		t.Fatalf("expected profile-a acquired, got %v, err %v", a, err)
	}
	_, b, err := lock.Acquire(ctx, "profile-b")
	if err != nil || !b {
		t.Fatalf("expected profile-b acquired, got %v, err %v", b, err)
	}
}

func TestRedisLock_ReleaseIgnoresForeignOwner(t *testing.T) {
	lock, mr := newTestLock(t)
	ctx := context.Background()

	release, acquired, err := lock.Acquire(ctx, "profile-a")
	if err != nil || !acquired {
		t.Fatalf("expected acquisition, got %v, err %v", acquired, err)
	}

	// Simulate expiry plus takeover by another instance.
	mr.FastForward(2 * time.Minute)
	if err := mr.Set("lock:profile-a", "other-owner"); err != nil {
		t.Fatalf("seeding foreign lock failed: %v", err)
	}

	release()

	got, err := mr.Get("lock:profile-a")
	if err != nil {
		t.Fatalf("lock key missing after foreign-owner release: %v", err)
	}
	if got != "other-owner" {
		t.Errorf("expected foreign lock untouched, got %q", got)
	}
}
