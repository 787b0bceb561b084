package catalog

import (
	"context"
	"sync"
	"time"

	"savoria/models"

	"go.uber.org/zap"
)

// staleGrace is how long past the TTL a previous snapshot may still be
// served after a failed rebuild. Serving stale-but-present beats
// serving an empty menu mid-conversation; once the grace window closes
// the cache degrades to empty until the remote recovers.
const staleGrace = 15 * time.Minute

// Cache holds the periodically refreshed catalog snapshot. The snapshot
// is immutable once stored and replaced wholesale: readers observe
// either the fully-old or the fully-new snapshot, never a mix.
type Cache struct {
	src    Source
	ttl    time.Duration
	logger *zap.Logger

	mu   sync.RWMutex
	snap *models.CatalogSnapshot

	refreshMu sync.Mutex

	// now is swappable so tests can drive the TTL clock.
	now func() time.Time
}

// NewCache builds a Cache over the given source.
func NewCache(src Source, ttl time.Duration, logger *zap.Logger) *Cache {
	return &Cache{
		src:    src,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// Snapshot returns a non-stale snapshot when the remote is reachable.
// On total failure it returns the previous snapshot while inside the
// grace window, and an empty snapshot otherwise; it never returns nil.
func (c *Cache) Snapshot(ctx context.Context) *models.CatalogSnapshot {
	if s := c.current(); s != nil && s.Age(c.now()) < c.ttl {
		return s
	}

	if err := c.refreshIfStale(ctx); err != nil {
		c.logger.Warn("catalog refresh failed", zap.Error(err))
		if s := c.current(); s != nil && s.Age(c.now()) < c.ttl+staleGrace {
			c.logger.Info("serving stale catalog snapshot within grace window",
				zap.Duration("age", s.Age(c.now())))
			return s
		}
		return &models.CatalogSnapshot{FetchedAt: c.now()}
	}
	return c.current()
}

// refreshIfStale rebuilds only when the snapshot is still stale after
// acquiring the refresh lock: a caller that waited out another refresh
// adopts the winner's fresh snapshot instead of rebuilding again.
func (c *Cache) refreshIfStale(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	if s := c.current(); s != nil && s.Age(c.now()) < c.ttl {
		return nil
	}
	return c.rebuild(ctx)
}

// Refresh rebuilds the snapshot unconditionally and returns the new
// snapshot. Used by the admin refresh endpoint and the periodic
// re-warm worker.
func (c *Cache) Refresh(ctx context.Context) (*models.CatalogSnapshot, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()
	if err := c.rebuild(ctx); err != nil {
		return nil, err
	}
	return c.current(), nil
}

func (c *Cache) rebuild(ctx context.Context) error {
	items, err := c.src.Fetch(ctx)
	if err != nil {
		return err
	}

	snap := &models.CatalogSnapshot{Items: items, FetchedAt: c.now()}
	c.mu.Lock()
	c.snap = snap
	c.mu.Unlock()

	c.logger.Info("catalog snapshot rebuilt", zap.Int("items", len(items)))
	return nil
}

func (c *Cache) current() *models.CatalogSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}
