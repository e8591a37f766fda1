package cli

import (
	"context"
	"time"

	"geo-quiz-service/internal/catalog"
	"geo-quiz-service/internal/config"
	"geo-quiz-service/internal/infra/geodata"
	"geo-quiz-service/internal/infra/memory"
	pgstore "geo-quiz-service/internal/infra/postgres"
	rediscache "geo-quiz-service/internal/infra/redis"
	"geo-quiz-service/internal/infra/restcountries"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// backends holds the optional shared infrastructure a command connected to.
type backends struct {
	redis *redis.Client
	pool  *pgxpool.Pool
}

func connectBackends(ctx context.Context, cfg config.Config) (backends, error) {
	var b backends
	if cfg.Redis.Addr != "" {
		b.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			b.close()
			return backends{}, err
		}
		b.pool = pool
	}
	return b, nil
}

func (b backends) close() {
	if b.redis != nil {
		_ = b.redis.Close()
	}
	if b.pool != nil {
		b.pool.Close()
	}
}

// newFeeds picks the info source (Postgres when configured, else the REST
// API) and puts a cache in front of it. The Redis cache is shared across
// restarts and instances; the in-memory one only pays off for a process that
// populates more than once, see keepCatalogFresh.
func newFeeds(cfg config.Config, b backends, shapes *geodata.Shapes, logger zerolog.Logger) catalog.Feeds {
	var info catalog.InfoFeed
	if b.pool != nil {
		info = pgstore.NewCountryLoader(b.pool)
	} else {
		info = restcountries.NewClient(cfg.Data.CountriesURL,
			restcountries.WithTimeout(config.TTLDuration(cfg.Data.Timeout, 30*time.Second)),
			restcountries.WithLogger(logger))
	}

	ttl := config.TTLDuration(cfg.Data.TTL, time.Hour)
	if b.redis != nil {
		info = rediscache.NewCountryCache(b.redis, info, ttl)
	} else {
		info = memory.NewCountryCache(info, ttl)
	}

	return catalog.Feeds{
		Shapes: shapes,
		Info:   info,
		Pool:   geodata.NewPoolFile(cfg.Data.Pool),
	}
}

// keepCatalogFresh populates the catalog and then repopulates it every period
// until ctx is done. Refreshes within the info cache TTL reuse the cached
// countries, so only the shape and pool files are reread. A non-positive
// period populates once.
func keepCatalogFresh(ctx context.Context, cat *catalog.Catalog, feeds catalog.Feeds, every time.Duration, logger zerolog.Logger) {
	catalog.Populate(ctx, cat, feeds, logger)
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			report := catalog.Populate(ctx, cat, feeds, logger)
			logger.Debug().Int("countries", report.Countries).Strs("failed", report.Failed).Msg("catalog refreshed")
		}
	}
}
