package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"geo-quiz-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// CountryLoader loads country info JSONB from Postgres.
type CountryLoader struct {
	pool *pgxpool.Pool
}

func NewCountryLoader(pool *pgxpool.Pool) *CountryLoader {
	return &CountryLoader{pool: pool}
}

func (l *CountryLoader) FetchCountries(ctx context.Context) ([]domain.CountryInfo, error) {
	rows, err := l.pool.Query(ctx, `SELECT data FROM countries ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("load countries: %w", err)
	}
	defer rows.Close()

	var countries []domain.CountryInfo
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan country: %w", err)
		}
		var info domain.CountryInfo
		if err := json.Unmarshal(raw, &info); err != nil {
			return nil, fmt.Errorf("unmarshal country: %w", err)
		}
		countries = append(countries, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load countries: %w", err)
	}
	if len(countries) == 0 {
		return nil, domain.ErrFeedUnavailable
	}
	return countries, nil
}

// LoadCountry returns a single stored country.
func (l *CountryLoader) LoadCountry(ctx context.Context, code string) (domain.CountryInfo, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM countries WHERE code=$1`, code).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.CountryInfo{}, domain.ErrCountryNotFound
	}
	if err != nil {
		return domain.CountryInfo{}, fmt.Errorf("load country %s: %w", code, err)
	}
	var info domain.CountryInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return domain.CountryInfo{}, fmt.Errorf("unmarshal country: %w", err)
	}
	return info, nil
}
