package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

func TestCacheSetAndGet(t *testing.T) {
	client, _ := newTestRedisClient(t)
	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "profit:all", `{"count":3}`, time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	val, err := cache.Get(ctx, "profit:all")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	if val != `{"count":3}` {
		t.Fatalf("expected cached payload, got %s", val)
	}
}

func TestCacheMissAfterExpiry(t *testing.T) {
	client, mr := newTestRedisClient(t)
	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "profit:all", "stale", 30*time.Second); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	mr.FastForward(time.Minute)

	if _, err := cache.Get(ctx, "profit:all"); !errors.Is(err, redislib.Nil) {
		t.Fatalf("expected redis.Nil for expired key, got %v", err)
	}
}

func TestCacheDelete(t *testing.T) {
	client, _ := newTestRedisClient(t)
	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "profit:all", "payload", time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if err := cache.Delete(ctx, "profit:all"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := cache.Get(ctx, "profit:all"); !errors.Is(err, redislib.Nil) {
		t.Fatalf("expected redis.Nil for deleted key, got %v", err)
	}
}
