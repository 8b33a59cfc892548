package cache

import (
	"context"
	"testing"
	"time"

	"StockCast/internal/domain/models"
	pkgcache "StockCast/pkg/cache"
)

func newTestCache(t *testing.T) *ResultCache {
	t.Helper()
	store := pkgcache.NewMemoryCache(
		pkgcache.WithMaxSize(100),
		pkgcache.WithCleanupInterval(time.Minute),
	)
	t.Cleanup(func() { store.Close() })
	return NewResultCache(store, time.Minute)
}

func TestResultCacheRoundTrip(t *testing.T) {
	rc := newTestCache(t)
	ctx := context.Background()

	result := &models.PredictionResult{
		Symbol:       "RELIANCE",
		CurrentPrice: 2500,
		Predictions: map[string]models.HorizonPrediction{
			"next_1d": {Price: 2510, ChangePct: 0.4, Confidence: [2]float64{2490, 2530}},
		},
	}
	if err := rc.Set(ctx, "RELIANCE", result); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, ok := rc.Get(ctx, "RELIANCE")
	if !ok {
		t.Fatalf("expected hit")
	}
	if got.Symbol != "RELIANCE" || got.CurrentPrice != 2500 {
		t.Fatalf("unexpected result %+v", got)
	}
	if got.Predictions["next_1d"].Price != 2510 {
		t.Fatalf("unexpected horizon %+v", got.Predictions["next_1d"])
	}
}

func TestResultCacheCaseInsensitiveSymbol(t *testing.T) {
	rc := newTestCache(t)
	ctx := context.Background()

	if err := rc.Set(ctx, "tcs", &models.PredictionResult{Symbol: "tcs"}); err != nil {
		t.Fatalf("set: %v", err)
	}

	for _, sym := range []string{"TCS", "tcs", "Tcs"} {
		if _, ok := rc.Get(ctx, sym); !ok {
			t.Fatalf("expected hit for %q", sym)
		}
	}
	if rc.Size(ctx) != 1 {
		t.Fatalf("size = %d, want 1", rc.Size(ctx))
	}
}

func TestResultCacheMiss(t *testing.T) {
	rc := newTestCache(t)
	if _, ok := rc.Get(context.Background(), "ABSENT"); ok {
		t.Fatalf("expected miss")
	}
}

func TestResultCacheExpiry(t *testing.T) {
	store := pkgcache.NewMemoryCache(
		pkgcache.WithMaxSize(100),
		pkgcache.WithCleanupInterval(time.Hour),
	)
	t.Cleanup(func() { store.Close() })
	rc := NewResultCache(store, 10*time.Millisecond)
	ctx := context.Background()

	if err := rc.Set(ctx, "INFY", &models.PredictionResult{Symbol: "INFY"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	if _, ok := rc.Get(ctx, "INFY"); ok {
		t.Fatalf("expected expiry")
	}
}
