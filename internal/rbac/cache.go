package rbac

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const keysCachePrefix = "rbac:keys:"

// KeysCache stores effective permission keys per role in Redis. The
// cache is only ever refreshed through explicit invalidation on grant
// mutation, so a hit always reflects a committed grant state.
type KeysCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewKeysCache instantiates the cache helper.
func NewKeysCache(client *redis.Client, ttl time.Duration) *KeysCache {
	return &KeysCache{client: client, ttl: ttl}
}

// Get loads the cached key set. Any error counts as a miss.
func (c *KeysCache) Get(ctx context.Context, roleKey string) ([]string, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, keysCachePrefix+roleKey).Bytes()
	if err != nil {
		return nil, false
	}
	var keys []string
	if err := json.Unmarshal(raw, &keys); err != nil {
		return nil, false
	}
	return keys, true
}

// Set stores the key set. Failures are silent; the next read falls
// through to the repository.
func (c *KeysCache) Set(ctx context.Context, roleKey string, keys []string) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(keys)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, keysCachePrefix+roleKey, raw, c.ttl).Err()
}

// Invalidate drops the cached key set for a role.
func (c *KeysCache) Invalidate(ctx context.Context, roleKey string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, keysCachePrefix+roleKey).Err()
}
