package listcache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "photo-server:"

// Module provides the list cache as a mono module. With an empty Redis
// address it serves a NopCache and never touches the network.
type Module struct {
	redisAddr string
	ttl       time.Duration
	client    *redis.Client
	cache     Cache
	logger    types.Logger
}

// Compile-time interface checks
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new cache module.
func NewModule(redisAddr string, ttl time.Duration, logger types.Logger) *Module {
	return &Module{
		redisAddr: redisAddr,
		ttl:       ttl,
		logger:    logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "listcache"
}

// Start connects to Redis when an address is configured.
func (m *Module) Start(ctx context.Context) error {
	if m.redisAddr == "" {
		m.cache = NopCache{}
		m.logger.Info("List cache disabled")
		return nil
	}

	m.client = redis.NewClient(&redis.Options{
		Addr:         m.redisAddr,
		PoolSize:     20,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := m.client.Ping(ctx).Err(); err != nil {
		m.client.Close()
		m.client = nil
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	m.cache = NewRedisCache(m.client, keyPrefix, m.ttl)
	m.logger.Info("List cache connected", "addr", m.redisAddr, "ttl", m.ttl.String())
	return nil
}

// Stop closes the Redis connection.
func (m *Module) Stop(_ context.Context) error {
	if m.client != nil {
		if err := m.client.Close(); err != nil {
			return fmt.Errorf("failed to close Redis connection: %w", err)
		}
	}
	m.logger.Info("List cache stopped")
	return nil
}

// Health reports the Redis connection state and cache counters.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	switch c := m.cache.(type) {
	case nil:
		return mono.HealthStatus{Healthy: false, Message: "cache not initialized"}
	case NopCache:
		return mono.HealthStatus{Healthy: true, Message: "disabled"}
	case *RedisCache:
		if err := c.Ping(ctx); err != nil {
			return mono.HealthStatus{
				Healthy: false,
				Message: fmt.Sprintf("redis ping failed: %v", err),
			}
		}
		return mono.HealthStatus{
			Healthy: true,
			Message: "operational",
			Details: map[string]any{"addr": m.redisAddr, "stats": c.Stats()},
		}
	default:
		return mono.HealthStatus{Healthy: true, Message: "operational"}
	}
}

// Cache returns the cache. It is nil until Start succeeds.
func (m *Module) Cache() Cache {
	return m.cache
}
