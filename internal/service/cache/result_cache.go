package cache

import (
	"context"
	"strings"
	"time"

	"StockCast/internal/domain/models"
	pkgcache "StockCast/pkg/cache"
)

// ResultCache stores full-horizon prediction results per symbol with TTL
// expiry. Keys are case-insensitive on symbol. Entries are immutable once
// written; a recompute-and-overwrite race duplicates work but never
// corrupts data.
type ResultCache struct {
	store pkgcache.Service
	ttl   time.Duration
}

// NewResultCache wraps a cache backend with prediction-result semantics.
func NewResultCache(store pkgcache.Service, ttl time.Duration) *ResultCache {
	return &ResultCache{store: store, ttl: ttl}
}

// Get returns the cached result for a symbol, or ok=false on miss or
// expiry. Backend failures degrade to a miss: the pipeline can always
// recompute.
func (c *ResultCache) Get(ctx context.Context, symbol string) (*models.PredictionResult, bool) {
	var result models.PredictionResult
	if err := c.store.Get(ctx, key(symbol), &result); err != nil {
		return nil, false
	}
	return &result, true
}

// Set stores a freshly computed result for the configured TTL.
func (c *ResultCache) Set(ctx context.Context, symbol string, result *models.PredictionResult) error {
	return c.store.Set(ctx, key(symbol), result, c.ttl)
}

// Size reports the current entry count for /health.
func (c *ResultCache) Size(ctx context.Context) int64 {
	n, err := c.store.Size(ctx)
	if err != nil {
		return 0
	}
	return n
}

// Close releases the underlying backend.
func (c *ResultCache) Close() error {
	return c.store.Close()
}

func key(symbol string) string {
	return "prediction:" + strings.ToUpper(symbol)
}
