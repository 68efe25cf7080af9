// Package cache holds the Redis read-through cache for catalog listings.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "catalog:"

// Scopes group cached keys that are invalidated together
const (
	ScopeCategories    = "categories"
	ScopeSubCategories = "subcategories"
	ScopeOfferTags     = "offer_tags"
)

// Catalog caches catalog reads. Implementations fail open: a cache error is
// reported as a miss and never surfaces to the caller.
//
// Get pins the scope version it looked under into the returned Slot, and Set
// writes only to that slot. A read that races with an invalidation therefore
// lands under the retired version and is never served.
type Catalog interface {
	Get(ctx context.Context, scope, key string, dest any) (Slot, bool)
	Set(ctx context.Context, slot Slot, value any)
	Invalidate(ctx context.Context, scopes ...string)
}

// Slot is a cache entry key bound to one scope version. The zero Slot
// discards writes.
type Slot struct {
	entry string
}

// RedisCatalog stores entries under "catalog:<scope>:v<version>:<key>". Bumping a
// scope's version orphans every entry written under the previous version; the
// orphans expire with their TTL.
type RedisCatalog struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisCatalog creates a catalog cache backed by client
func NewRedisCatalog(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisCatalog {
	return &RedisCatalog{client: client, ttl: ttl, logger: logger}
}

func versionKey(scope string) string {
	return keyPrefix + scope + ":version"
}

func (c *RedisCatalog) version(ctx context.Context, scope string) (int64, error) {
	ver, err := c.client.Get(ctx, versionKey(scope)).Int64()
	if err == nil {
		return ver, nil
	}
	if !errors.Is(err, redis.Nil) {
		return 0, err
	}

	if err := c.client.SetNX(ctx, versionKey(scope), 1, 0).Err(); err != nil {
		return 0, err
	}
	return c.client.Get(ctx, versionKey(scope)).Int64()
}

func (c *RedisCatalog) entryKey(ctx context.Context, scope, key string) (string, error) {
	ver, err := c.version(ctx, scope)
	if err != nil {
		return "", fmt.Errorf("failed to read cache version: %w", err)
	}
	return fmt.Sprintf("%s%s:v%d:%s", keyPrefix, scope, ver, key), nil
}

// Get decodes the cached value into dest and reports whether it was found.
// On a miss the returned Slot is where the freshly loaded value belongs.
func (c *RedisCatalog) Get(ctx context.Context, scope, key string, dest any) (Slot, bool) {
	entry, err := c.entryKey(ctx, scope, key)
	if err != nil {
		c.logger.Warn("Catalog cache unavailable", zap.String("scope", scope), zap.Error(err))
		return Slot{}, false
	}
	slot := Slot{entry: entry}

	raw, err := c.client.Get(ctx, entry).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Failed to read catalog cache", zap.String("key", entry), zap.Error(err))
		}
		return slot, false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		c.logger.Warn("Failed to decode catalog cache entry", zap.String("key", entry), zap.Error(err))
		return slot, false
	}

	return slot, true
}

// Set stores value in slot, under the version Get observed
func (c *RedisCatalog) Set(ctx context.Context, slot Slot, value any) {
	entry := slot.entry
	if entry == "" {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("Failed to encode catalog cache entry", zap.String("key", entry), zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, entry, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("Failed to write catalog cache", zap.String("key", entry), zap.Error(err))
	}
}

// Invalidate bumps the version of every scope given
func (c *RedisCatalog) Invalidate(ctx context.Context, scopes ...string) {
	for _, scope := range scopes {
		ver, err := c.client.Incr(ctx, versionKey(scope)).Result()
		if err != nil {
			c.logger.Error("Failed to invalidate catalog cache", zap.String("scope", scope), zap.Error(err))
			continue
		}
		c.logger.Debug("Catalog cache invalidated", zap.String("scope", scope), zap.Int64("version", ver))
	}
}

// Noop is the Catalog used when Redis is disabled
type Noop struct{}

func (Noop) Get(context.Context, string, string, any) (Slot, bool) { return Slot{}, false }
func (Noop) Set(context.Context, Slot, any)                        {}
func (Noop) Invalidate(context.Context, ...string)                 {}
