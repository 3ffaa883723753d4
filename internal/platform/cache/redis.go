// Package cache provides an optional Redis-backed existence cache for catalog
// entries. Entry existence checks run on every order line save, so a hit here
// saves one catalog read per line; a miss, an error, or a disabled cache all
// simply fall through to the repository.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sdrt-erp/budget-ledger/internal/config"
)

const entryKeyPrefix = "catalog:entry:"

// CatalogCache caches catalog entry existence. A nil client means caching is
// disabled and every lookup reports a miss.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCatalogCache connects to Redis when an address is configured. Connection
// failures disable the cache rather than failing startup; the catalog works
// without it.
func NewCatalogCache(ctx context.Context, logger *slog.Logger, cfg *config.RedisConfig) *CatalogCache {
	c := &CatalogCache{ttl: cfg.TTL, logger: logger}
	if cfg.Addr == "" {
		logger.Info("Catalog cache disabled, no Redis address configured")
		return c
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.Addr})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Failed to connect to Redis, catalog cache disabled", "addr", cfg.Addr, "error", err)
		return c
	}

	logger.Info("Connected to Redis", "addr", cfg.Addr)
	c.client = client
	return c
}

// Enabled reports whether a Redis client is connected.
func (c *CatalogCache) Enabled() bool {
	return c != nil && c.client != nil
}

// EntryExists reports whether the entry's existence is cached. False means
// unknown, not absent; callers must fall back to the repository.
func (c *CatalogCache) EntryExists(ctx context.Context, code string) bool {
	if !c.Enabled() {
		return false
	}
	n, err := c.client.Exists(ctx, entryKeyPrefix+code).Result()
	if err != nil {
		c.logger.Debug("Catalog cache lookup failed", "code", code, "error", err)
		return false
	}
	return n > 0
}

// MarkEntryExists records that an entry exists. Errors are logged and
// swallowed; the cache is advisory.
func (c *CatalogCache) MarkEntryExists(ctx context.Context, code string) {
	if !c.Enabled() {
		return
	}
	if err := c.client.Set(ctx, entryKeyPrefix+code, "1", c.ttl).Err(); err != nil {
		c.logger.Debug("Catalog cache write failed", "code", code, "error", err)
	}
}

// Close releases the Redis connection if one was established.
func (c *CatalogCache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}
