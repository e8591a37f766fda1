package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sort"
	"sync"
	"time"

	"geo-quiz-service/internal/catalog"
	"geo-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const countriesKey = "geo:countries"

// CountryCache caches the info feed in Redis and falls back to the feed on a miss.
// Countries are stored as: HSET geo:countries {code} {json}
type CountryCache struct {
	client *redis.Client
	feed   catalog.InfoFeed
	ttl    time.Duration
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewCountryCache(client *redis.Client, feed catalog.InfoFeed, ttl time.Duration) *CountryCache {
	return &CountryCache{
		client: client,
		feed:   feed,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *CountryCache) FetchCountries(ctx context.Context) ([]domain.CountryInfo, error) {
	if countries, ok := c.readCache(ctx); ok {
		return countries, nil
	}

	result, err, _ := c.sf.Do(countriesKey, func() (interface{}, error) {
		// Re-check cache in case another replica filled it.
		if countries, ok := c.readCache(ctx); ok {
			return countries, nil
		}

		countries, err := c.feed.FetchCountries(ctx)
		if err != nil {
			return nil, err
		}
		c.writeCache(ctx, countries)
		return countries, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.CountryInfo), nil
}

// Invalidate removes the cached hash.
func (c *CountryCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, countriesKey).Err()
}

func (c *CountryCache) readCache(ctx context.Context) ([]domain.CountryInfo, bool) {
	raw, err := c.client.HGetAll(ctx, countriesKey).Result()
	if err != nil || len(raw) == 0 {
		return nil, false
	}

	codes := make([]string, 0, len(raw))
	for code := range raw {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	countries := make([]domain.CountryInfo, 0, len(raw))
	for _, code := range codes {
		var info domain.CountryInfo
		if err := json.Unmarshal([]byte(raw[code]), &info); err != nil {
			continue
		}
		countries = append(countries, info)
	}
	return countries, len(countries) > 0
}

func (c *CountryCache) writeCache(ctx context.Context, countries []domain.CountryInfo) {
	pipe := c.client.Pipeline()
	for _, info := range countries {
		if info.Code == "" {
			continue
		}
		payload, err := json.Marshal(info)
		if err != nil {
			continue
		}
		pipe.HSet(ctx, countriesKey, info.Code, payload)
	}
	if ttl := c.ttlWithJitter(); ttl > 0 {
		pipe.Expire(ctx, countriesKey, ttl)
	}
	_, _ = pipe.Exec(ctx)
}

func (c *CountryCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
