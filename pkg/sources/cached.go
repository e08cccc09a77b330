package sources

import (
	"context"
	"slices"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/agentstation/shelf/pkg/catalogs"
	"github.com/agentstation/shelf/pkg/constants"
)

const itemsKey = "items"

// Cached serves a source's last successful fetch until its TTL expires.
// Failed fetches are never cached.
type Cached struct {
	source Source
	store  *gocache.Cache
}

// NewCached decorates source with a TTL cache. A non-positive ttl uses
// constants.CacheTTL.
func NewCached(source Source, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = constants.CacheTTL
	}
	return &Cached{
		source: source,
		store:  gocache.New(ttl, constants.CacheCleanupInterval),
	}
}

// ID implements Source.
func (c *Cached) ID() string { return c.source.ID() }

// Fetch implements Source.
func (c *Cached) Fetch(ctx context.Context) ([]catalogs.Item, error) {
	if cached, ok := c.store.Get(itemsKey); ok {
		return slices.Clone(cached.([]catalogs.Item)), nil
	}
	items, err := c.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	c.store.Set(itemsKey, slices.Clone(items), gocache.DefaultExpiration)
	return items, nil
}

// Invalidate drops the cached fetch so the next Fetch reaches the source.
func (c *Cached) Invalidate() {
	c.store.Flush()
}
