// internal/pkg/entcache/cache.go
package entcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"incluso-service/internal/entitlement"

	"github.com/redis/go-redis/v9"
)

const defaultTTL = 60 * time.Second

// Cache is a short-lived redis cache of computed entitlement views. Every
// subscription mutation (management surface or reconciler) invalidates the
// account's entry; a stale read is bounded by the TTL either way.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a Cache. A nil client yields a no-op cache, which keeps tests
// and single-binary development setups free of a redis dependency.
func New(client *redis.Client) *Cache {
	return &Cache{client: client, ttl: defaultTTL}
}

func key(accountID int64) string {
	return fmt.Sprintf("entitlement:%d", accountID)
}

// Get returns the cached view for an account, or nil on miss.
func (c *Cache) Get(ctx context.Context, accountID int64) *entitlement.View {
	if c == nil || c.client == nil {
		return nil
	}

	data, err := c.client.Get(ctx, key(accountID)).Bytes()
	if err != nil {
		return nil // miss or redis unavailable; fall through to the store
	}

	var view entitlement.View
	if err := json.Unmarshal(data, &view); err != nil {
		return nil
	}
	return &view
}

// Set stores the view for an account.
func (c *Cache) Set(ctx context.Context, view *entitlement.View) {
	if c == nil || c.client == nil || view == nil {
		return
	}

	data, err := json.Marshal(view)
	if err != nil {
		return
	}
	c.client.Set(ctx, key(view.AccountID), data, c.ttl)
}

// Invalidate drops the cached view for an account.
func (c *Cache) Invalidate(ctx context.Context, accountID int64) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, key(accountID))
}
