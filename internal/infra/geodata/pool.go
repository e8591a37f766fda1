package geodata

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"geo-quiz-service/internal/domain"
)

// PoolFile is the optional curated list of guessable codes, stored as a JSON array.
type PoolFile struct {
	path string
}

func NewPoolFile(path string) *PoolFile {
	return &PoolFile{path: path}
}

func (p *PoolFile) LoadPool(ctx context.Context) ([]string, error) {
	if p.path == "" {
		return nil, domain.ErrFeedUnavailable
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("read pool: %w", err)
	}
	return ParsePool(data)
}

// ParsePool decodes a JSON array of codes and uppercases every entry. Anything
// other than an array yields an empty pool.
func ParsePool(data []byte) ([]string, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse pool: %w", err)
	}
	items, ok := raw.([]any)
	if !ok {
		return []string{}, nil
	}

	codes := make([]string, 0, len(items))
	for _, item := range items {
		var code string
		switch v := item.(type) {
		case string:
			code = v
		case nil:
			continue
		default:
			code = fmt.Sprint(v)
		}
		if code = strings.ToUpper(strings.TrimSpace(code)); code != "" {
			codes = append(codes, code)
		}
	}
	return codes, nil
}
