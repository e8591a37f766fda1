package cli

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"geo-quiz-service/internal/catalog"
	"geo-quiz-service/internal/domain"
	"geo-quiz-service/internal/infra/memory"
	"github.com/rs/zerolog"
)

type countingInfo struct{ calls atomic.Int32 }

func (c *countingInfo) FetchCountries(context.Context) ([]domain.CountryInfo, error) {
	c.calls.Add(1)
	return []domain.CountryInfo{{Code: "FRA", Name: "France", Capitals: []string{"Paris"}}}, nil
}

type countingShapes struct{ calls atomic.Int32 }

func (c *countingShapes) LoadShapes(context.Context) ([]domain.CountryShape, error) {
	c.calls.Add(1)
	return []domain.CountryShape{{Code: "FRA", Name: "France"}}, nil
}

func TestKeepCatalogFreshReusesCachedInfo(t *testing.T) {
	info := &countingInfo{}
	shapes := &countingShapes{}
	feeds := catalog.Feeds{Shapes: shapes, Info: memory.NewCountryCache(info, time.Hour)}
	cat := catalog.New()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		keepCatalogFresh(ctx, cat, feeds, 5*time.Millisecond, zerolog.Nop())
	}()

	deadline := time.Now().Add(2 * time.Second)
	for shapes.calls.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}
	cancel()
	<-done

	if shapes.calls.Load() < 3 {
		t.Fatalf("expected repeated populates, got %d", shapes.calls.Load())
	}
	if info.calls.Load() != 1 {
		t.Fatalf("refreshes within the TTL must hit the cache, upstream called %d times", info.calls.Load())
	}
	if rec, ok := cat.Record("FRA"); !ok || rec.Capital != "Paris" {
		t.Fatalf("expected populated catalog, got %+v ok=%v", rec, ok)
	}
}

func TestKeepCatalogFreshOnce(t *testing.T) {
	shapes := &countingShapes{}
	keepCatalogFresh(context.Background(), catalog.New(), catalog.Feeds{Shapes: shapes}, 0, zerolog.Nop())
	if shapes.calls.Load() != 1 {
		t.Fatalf("expected a single populate, got %d", shapes.calls.Load())
	}
}
