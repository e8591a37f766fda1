package catalog

import (
	"context"
	"errors"
	"strings"

	"geo-quiz-service/internal/domain"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ShapeFeed supplies the border/shape dataset.
type ShapeFeed interface {
	LoadShapes(ctx context.Context) ([]domain.CountryShape, error)
}

// InfoFeed supplies the per-country info dataset.
type InfoFeed interface {
	FetchCountries(ctx context.Context) ([]domain.CountryInfo, error)
}

// PoolFeed supplies the optional curated pool of codes.
type PoolFeed interface {
	LoadPool(ctx context.Context) ([]string, error)
}

// Feeds groups the data sources a catalog is built from. Any of them may be nil.
type Feeds struct {
	Shapes ShapeFeed
	Info   InfoFeed
	Pool   PoolFeed
}

// Report summarizes a Populate run.
type Report struct {
	Shapes    int
	Countries int
	Pool      int
	Failed    []string
}

// Populate fetches all feeds concurrently and applies whatever arrived: names
// first so borders can resolve, then records, then the pool. A failing feed is
// logged and skipped; the catalog keeps whatever data the others produced.
func Populate(ctx context.Context, cat *Catalog, feeds Feeds, logger zerolog.Logger) Report {
	var (
		shapes   []domain.CountryShape
		infos    []domain.CountryInfo
		pool     []string
		shapeErr = domain.ErrFeedUnavailable
		infoErr  = domain.ErrFeedUnavailable
		poolErr  = domain.ErrFeedUnavailable
	)

	var g errgroup.Group
	if feeds.Shapes != nil {
		g.Go(func() error {
			shapes, shapeErr = feeds.Shapes.LoadShapes(ctx)
			return nil
		})
	}
	if feeds.Info != nil {
		g.Go(func() error {
			infos, infoErr = feeds.Info.FetchCountries(ctx)
			return nil
		})
	}
	if feeds.Pool != nil {
		g.Go(func() error {
			pool, poolErr = feeds.Pool.LoadPool(ctx)
			return nil
		})
	}
	_ = g.Wait()

	var report Report
	shapeBorders := make(map[string][]any)

	if shapeErr != nil {
		logFeedFailure(logger, "shapes", shapeErr)
		report.Failed = append(report.Failed, "shapes")
	} else {
		for _, s := range shapes {
			if strings.TrimSpace(s.Code) == "" {
				continue
			}
			cat.SetDisplayName(s.Code, s.Name)
			if len(s.Borders) > 0 {
				shapeBorders[normalizeCode(s.Code)] = s.Borders
			}
			report.Shapes++
		}
	}

	if infoErr != nil {
		logFeedFailure(logger, "countries", infoErr)
		report.Failed = append(report.Failed, "countries")
	} else {
		for _, info := range infos {
			cat.setDisplayNameIfMissing(info.Code, info.Name)
		}
		for _, info := range infos {
			if strings.TrimSpace(info.Code) == "" {
				continue
			}
			if info.Borders == nil {
				info.Borders = shapeBorders[normalizeCode(info.Code)]
			}
			cat.Upsert(info.Code, RecordFromInfo(info, cat.ResolveBorders))
			report.Countries++
		}
	}

	if poolErr != nil {
		if errors.Is(poolErr, domain.ErrFeedUnavailable) {
			logger.Debug().Msg("no country pool configured, using uniform selection")
		} else {
			logFeedFailure(logger, "pool", poolErr)
			report.Failed = append(report.Failed, "pool")
		}
	} else {
		upper := make([]string, 0, len(pool))
		for _, code := range pool {
			upper = append(upper, strings.ToUpper(code))
		}
		cat.SetPool(upper)
		report.Pool = cat.PoolSize()
	}

	logger.Info().
		Int("shapes", report.Shapes).
		Int("countries", report.Countries).
		Int("pool", report.Pool).
		Strs("failed", report.Failed).
		Msg("country catalog populated")
	return report
}

func logFeedFailure(logger zerolog.Logger, feed string, err error) {
	logger.Warn().Err(err).Str("feed", feed).Msg("data feed failed, continuing with partial data")
}
