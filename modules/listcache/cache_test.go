package listcache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sumansasma/photo-server/internal/testlog"
)

// getTestRedisAddr returns the Redis address used by tests that need a server.
func getTestRedisAddr() string {
	if addr := os.Getenv("TEST_REDIS_ADDR"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

// setupTestCache creates a Redis-backed cache or skips the test.
func setupTestCache(t *testing.T, prefix string) *RedisCache {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: getTestRedisAddr()})
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("Redis not available at %s: %v", getTestRedisAddr(), err)
	}

	cache := NewRedisCache(client, prefix, time.Minute)
	t.Cleanup(func() {
		client.Del(ctx, prefix+"photos")
		client.Close()
	})
	return cache
}

func TestRedisCache_GetSetDelete(t *testing.T) {
	cache := setupTestCache(t, "test-listcache:")
	ctx := context.Background()

	var got []string
	found, err := cache.Get(ctx, "photos", &got)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found {
		t.Fatal("expected miss on empty cache")
	}

	want := []string{"1.png", "2.jpg"}
	if err := cache.Set(ctx, "photos", want); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	found, err = cache.Get(ctx, "photos", &got)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !found {
		t.Fatal("expected hit after Set")
	}
	if len(got) != 2 || got[0] != "1.png" || got[1] != "2.jpg" {
		t.Errorf("Get() = %v, want %v", got, want)
	}

	if err := cache.Delete(ctx, "photos"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	found, _ = cache.Get(ctx, "photos", &got)
	if found {
		t.Error("expected miss after Delete")
	}

	stats := cache.Stats()
	if stats.Hits != 1 || stats.Misses != 2 || stats.Sets != 1 || stats.Deletes != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestNopCache(t *testing.T) {
	ctx := context.Background()
	var c Cache = NopCache{}

	if err := c.Set(ctx, "photos", []string{"a.png"}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	var got []string
	found, err := c.Get(ctx, "photos", &got)
	if err != nil || found {
		t.Errorf("Get() = (%v, %v), want (false, nil)", found, err)
	}
	if err := c.Delete(ctx, "photos"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
}

func TestModule_DisabledWithoutAddress(t *testing.T) {
	ctx := context.Background()
	m := NewModule("", time.Minute, testlog.Discard{})

	if m.Name() != "listcache" {
		t.Errorf("Name() = %q, want %q", m.Name(), "listcache")
	}
	if err := m.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if _, ok := m.Cache().(NopCache); !ok {
		t.Errorf("expected NopCache, got %T", m.Cache())
	}
	health := m.Health(ctx)
	if !health.Healthy || health.Message != "disabled" {
		t.Errorf("unexpected health: %+v", health)
	}
	if err := m.Stop(ctx); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}

func TestModule_UnreachableRedis(t *testing.T) {
	// Port 1 is never a Redis server; Start must fail instead of serving stale data.
	m := NewModule("127.0.0.1:1", time.Minute, testlog.Discard{})
	if err := m.Start(context.Background()); err == nil {
		t.Fatal("expected error connecting to unreachable Redis")
	}
}
