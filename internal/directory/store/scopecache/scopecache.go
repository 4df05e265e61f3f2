// Package scopecache decorates a ScopeReader with a short-TTL Redis cache.
// Only structural ancestry (country, region, club, and club-scoped
// operational rows) is cached; grant rows and principals are always read
// through, since role data must stay fresh per decision.
package scopecache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"clubdir/internal/directory/models"
	"clubdir/internal/directory/ports"
	id "clubdir/pkg/domain"
)

const keyPrefix = "clubdir:scope:"

// Cache wraps a ScopeReader with Redis-backed chain lookups.
type Cache struct {
	next   ports.ScopeReader
	client redis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

// Option configures the Cache.
type Option func(*Cache)

// WithLogger sets a logger for cache anomalies.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// New builds the decorator. TTL bounds how stale a chain may get after a
// club is moved between regions.
func New(next ports.ScopeReader, client redis.Cmdable, ttl time.Duration, opts ...Option) *Cache {
	c := &Cache{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type cachedRef struct {
	Type  string        `json:"type"`
	ID    string        `json:"id"`
	Chain id.ScopeChain `json:"chain"`
}

func cacheable(resourceType id.ResourceType) bool {
	switch resourceType {
	case id.TypeCountry, id.TypeRegion, id.TypeClub:
		return true
	}
	return resourceType.IsOperational()
}

// GetScopeChain serves structural chains from Redis when possible. Cache
// failures degrade to the underlying reader; they never fail a decision.
func (c *Cache) GetScopeChain(ctx context.Context, resourceType id.ResourceType, resourceID id.ResourceID) (models.ResourceRef, error) {
	if !cacheable(resourceType) {
		return c.next.GetScopeChain(ctx, resourceType, resourceID)
	}

	key := cacheKey(resourceType, resourceID)
	if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var cached cachedRef
		if err := json.Unmarshal(raw, &cached); err == nil {
			return models.ResourceRef{Type: resourceType, ID: resourceID, Chain: cached.Chain}, nil
		}
		// Corrupt entry; drop it and fall through to the store.
		c.client.Del(ctx, key)
	}

	ref, err := c.next.GetScopeChain(ctx, resourceType, resourceID)
	if err != nil {
		return models.ResourceRef{}, err
	}

	payload, err := json.Marshal(cachedRef{
		Type:  resourceType.String(),
		ID:    resourceID.String(),
		Chain: ref.Chain,
	})
	if err == nil {
		if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.logger.Warn("scope cache write failed", "key", key, "error", err)
		}
	}
	return ref, nil
}

// Invalidate drops a cached chain, for hosts that move clubs between
// regions and want immediate consistency.
func (c *Cache) Invalidate(ctx context.Context, resourceType id.ResourceType, resourceID id.ResourceID) error {
	return c.client.Del(ctx, cacheKey(resourceType, resourceID)).Err()
}

func cacheKey(resourceType id.ResourceType, resourceID id.ResourceID) string {
	return fmt.Sprintf("%s%s:%s", keyPrefix, resourceType, resourceID)
}
