// Package geodata reads the map datasets served next to the front-end: the
// GeoJSON country borders and the optional pool of guessable codes.
package geodata

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"geo-quiz-service/internal/domain"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

type feature struct {
	code  string
	bound orb.Bound
	geom  orb.Geometry
}

// Shapes is the border/shape feed. Once loaded it also answers which country
// contains a point.
type Shapes struct {
	path string

	mu       sync.RWMutex
	features []feature
}

func NewShapes(path string) *Shapes {
	return &Shapes{path: path}
}

// LoadShapes reads and indexes the GeoJSON file.
func (s *Shapes) LoadShapes(ctx context.Context) ([]domain.CountryShape, error) {
	if s.path == "" {
		return nil, domain.ErrFeedUnavailable
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read shapes: %w", err)
	}
	return s.Parse(data)
}

// Parse indexes a GeoJSON feature collection and returns its shapes.
// Features without an iso_a3 property are kept under the Unknown code.
func (s *Shapes) Parse(data []byte) ([]domain.CountryShape, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse shapes: %w", err)
	}

	shapes := make([]domain.CountryShape, 0, len(fc.Features))
	features := make([]feature, 0, len(fc.Features))
	for _, f := range fc.Features {
		code := strings.TrimSpace(f.Properties.MustString("iso_a3", ""))
		if code == "" {
			code = domain.Unknown
		}
		shape := domain.CountryShape{
			Code: code,
			Name: strings.TrimSpace(f.Properties.MustString("name", "")),
		}
		if borders, ok := f.Properties["borders"].([]interface{}); ok {
			shape.Borders = borders
		}
		shapes = append(shapes, shape)

		if f.Geometry == nil {
			continue
		}
		features = append(features, feature{code: code, bound: f.Geometry.Bound(), geom: f.Geometry})
	}

	s.mu.Lock()
	s.features = features
	s.mu.Unlock()
	return shapes, nil
}

// Locate returns the code of the country containing the point.
func (s *Shapes) Locate(lat, lng float64) (string, bool) {
	point := orb.Point{lng, lat}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.features {
		if f.code == domain.Unknown || !f.bound.Contains(point) {
			continue
		}
		if contains(f.geom, point) {
			return f.code, true
		}
	}
	return "", false
}

func contains(geom orb.Geometry, point orb.Point) bool {
	switch g := geom.(type) {
	case orb.Polygon:
		return planar.PolygonContains(g, point)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(g, point)
	case orb.Collection:
		for _, part := range g {
			if contains(part, point) {
				return true
			}
		}
	}
	return false
}
