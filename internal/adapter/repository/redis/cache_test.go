package redis

import (
	"context"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

func TestCacheSetAndGet(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "balances:alice", []byte(`[{"counterparty_id":"bob"}]`), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	val, err := cache.Get(ctx, "balances:alice")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	if string(val) != `[{"counterparty_id":"bob"}]` {
		t.Fatalf("unexpected value: %s", val)
	}
}

func TestCacheGetMissingKey(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewCache(client)

	if _, err := cache.Get(context.Background(), "missing"); err != redislib.Nil {
		t.Fatalf("expected redis.Nil for missing key, got %v", err)
	}
}

func TestCacheDelete(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "balances:alice", []byte("x"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if err := cache.Delete(ctx, "balances:alice"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := cache.Get(ctx, "balances:alice"); err == nil {
		t.Fatalf("expected error getting deleted key")
	}
}

func TestCacheKeysArePrefixed(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "balances:alice", []byte("x"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if !mr.Exists("cache:balances:alice") {
		t.Fatalf("expected prefixed key in redis, keys: %v", mr.Keys())
	}
}
