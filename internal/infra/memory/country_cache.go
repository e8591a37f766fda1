package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"geo-quiz-service/internal/catalog"
	"geo-quiz-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

const countriesKey = "countries"

// CountryCache keeps the last info feed result for a TTL so repeated catalog
// refreshes do not hit the upstream source every time.
type CountryCache struct {
	feed  catalog.InfoFeed
	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group

	mu        sync.RWMutex
	rnd       *rand.Rand
	countries []domain.CountryInfo
	expiresAt time.Time
}

func NewCountryCache(feed catalog.InfoFeed, ttl time.Duration) *CountryCache {
	return &CountryCache{
		feed:  feed,
		ttl:   ttl,
		clock: time.Now,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *CountryCache) FetchCountries(ctx context.Context) ([]domain.CountryInfo, error) {
	if countries, ok := c.cached(c.clock()); ok {
		return countries, nil
	}

	result, err, _ := c.sf.Do(countriesKey, func() (interface{}, error) {
		now := c.clock()
		if countries, ok := c.cached(now); ok {
			return countries, nil
		}

		countries, err := c.feed.FetchCountries(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.countries = countries
		c.expiresAt = now.Add(c.ttlWithJitterLocked())
		c.mu.Unlock()
		return countries, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.CountryInfo), nil
}

// Invalidate drops the cached result.
func (c *CountryCache) Invalidate() {
	c.mu.Lock()
	c.countries = nil
	c.expiresAt = time.Time{}
	c.mu.Unlock()
}

func (c *CountryCache) cached(now time.Time) ([]domain.CountryInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.countries != nil && c.expiresAt.After(now) {
		return c.countries, true
	}
	return nil, false
}

func (c *CountryCache) ttlWithJitterLocked() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// up to 10% jitter so replicas do not refresh in lockstep
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

// StaticCountries is an info feed backed by a fixed list (useful for tests/demos).
type StaticCountries struct {
	countries []domain.CountryInfo
}

func NewStaticCountries(countries []domain.CountryInfo) *StaticCountries {
	return &StaticCountries{countries: countries}
}

func (s *StaticCountries) FetchCountries(_ context.Context) ([]domain.CountryInfo, error) {
	if len(s.countries) == 0 {
		return nil, domain.ErrFeedUnavailable
	}
	out := make([]domain.CountryInfo, len(s.countries))
	copy(out, s.countries)
	return out, nil
}
