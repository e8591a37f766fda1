package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"geo-quiz-service/internal/domain"
	"github.com/uptrace/bun"
)

type countryRow struct {
	bun.BaseModel `bun:"table:countries"`

	Code      string             `bun:"code,pk"`
	Data      domain.CountryInfo `bun:"data,type:jsonb"`
	UpdatedAt time.Time          `bun:"updated_at,notnull"`
}

// CountryWriter stores country info through bun.
type CountryWriter struct {
	db    *bun.DB
	clock func() time.Time
}

func NewCountryWriter(db *bun.DB) *CountryWriter {
	return &CountryWriter{db: db, clock: time.Now}
}

// Upsert inserts or replaces the given countries and returns how many were written.
// Entries without a code are skipped.
func (w *CountryWriter) Upsert(ctx context.Context, countries []domain.CountryInfo) (int, error) {
	now := w.clock().UTC()
	rows := make([]countryRow, 0, len(countries))
	for _, info := range countries {
		code := strings.ToUpper(strings.TrimSpace(info.Code))
		if code == "" {
			continue
		}
		info.Code = code
		rows = append(rows, countryRow{Code: code, Data: info, UpdatedAt: now})
	}
	if len(rows) == 0 {
		return 0, nil
	}

	_, err := w.db.NewInsert().
		Model(&rows).
		On("CONFLICT (code) DO UPDATE").
		Set("data = EXCLUDED.data").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("upsert countries: %w", err)
	}
	return len(rows), nil
}

// Count returns the number of stored countries.
func (w *CountryWriter) Count(ctx context.Context) (int, error) {
	return w.db.NewSelect().Model((*countryRow)(nil)).Count(ctx)
}
