package catalog

import (
	"strings"

	"geo-quiz-service/internal/domain"
	"github.com/dustin/go-humanize"
)

// RecordFromInfo normalizes an info-feed entry into a display-ready record.
// Absent fields become domain.Unknown; numeric fields are checked for presence
// rather than zero so a population of 0 is kept as "0". resolve turns the raw
// border codes into names and may be nil.
func RecordFromInfo(info domain.CountryInfo, resolve func(raw any) string) domain.CountryRecord {
	rec := domain.CountryRecord{
		Code:       orUnknown(info.Code),
		Name:       orUnknown(info.Name),
		Capital:    domain.Unknown,
		Region:     orUnknown(info.Region),
		Population: domain.Unknown,
		Area:       domain.Unknown,
		Languages:  joinOrUnknown(info.Languages),
		Currencies: joinOrUnknown(info.Currencies),
		Timezones:  joinOrUnknown(info.Timezones),
		Borders:    domain.NoBorders,
	}
	if len(info.Capitals) > 0 && strings.TrimSpace(info.Capitals[0]) != "" {
		rec.Capital = info.Capitals[0]
	}
	if info.Population != nil {
		rec.Population = humanize.Comma(*info.Population)
	}
	if info.Area != nil {
		rec.Area = humanize.Commaf(*info.Area) + " km"
	}
	if resolve != nil {
		rec.Borders = resolve(info.Borders)
	}
	return rec
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return domain.Unknown
	}
	return s
}

func joinOrUnknown(values []string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		return domain.Unknown
	}
	return strings.Join(parts, ", ")
}
