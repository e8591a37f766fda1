package geodata

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"geo-quiz-service/internal/domain"
)

const sampleGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"iso_a3": "AAA", "name": "Squareland", "borders": ["BBB"]},
      "geometry": {"type": "Polygon", "coordinates": [[[0,0],[10,0],[10,10],[0,10],[0,0]]]}
    },
    {
      "type": "Feature",
      "properties": {"iso_a3": "BBB", "name": "Islands"},
      "geometry": {"type": "MultiPolygon", "coordinates": [
        [[[20,0],[25,0],[25,5],[20,5],[20,0]]],
        [[[30,0],[35,0],[35,5],[30,5],[30,0]]]
      ]}
    },
    {
      "type": "Feature",
      "properties": {"name": "Disputed"},
      "geometry": {"type": "Polygon", "coordinates": [[[-10,-10],[-5,-10],[-5,-5],[-10,-5],[-10,-10]]]}
    }
  ]
}`

func TestParseShapes(t *testing.T) {
	shapes, err := NewShapes("").Parse([]byte(sampleGeoJSON))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(shapes) != 3 {
		t.Fatalf("expected 3 shapes, got %d", len(shapes))
	}
	if shapes[0].Code != "AAA" || shapes[0].Name != "Squareland" || len(shapes[0].Borders) != 1 {
		t.Fatalf("unexpected first shape %+v", shapes[0])
	}
	if shapes[2].Code != domain.Unknown {
		t.Fatalf("missing iso_a3 should become Unknown, got %q", shapes[2].Code)
	}
}

func TestLocate(t *testing.T) {
	s := NewShapes("")
	if _, err := s.Parse([]byte(sampleGeoJSON)); err != nil {
		t.Fatalf("parse: %v", err)
	}

	cases := []struct {
		name     string
		lat, lng float64
		want     string
		ok       bool
	}{
		{name: "inside polygon", lat: 5, lng: 5, want: "AAA", ok: true},
		{name: "second island", lat: 2, lng: 32, want: "BBB", ok: true},
		{name: "between islands", lat: 2, lng: 28},
		{name: "open sea", lat: 50, lng: 50},
		{name: "unknown feature", lat: -7, lng: -7},
	}
	for _, tc := range cases {
		got, ok := s.Locate(tc.lat, tc.lng)
		if got != tc.want || ok != tc.ok {
			t.Errorf("%s: Locate(%v, %v) = %q, %v", tc.name, tc.lat, tc.lng, got, ok)
		}
	}
}

func TestLoadShapesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.geo.json")
	if err := os.WriteFile(path, []byte(sampleGeoJSON), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	s := NewShapes(path)
	shapes, err := s.LoadShapes(context.Background())
	if err != nil || len(shapes) != 3 {
		t.Fatalf("load: %d shapes, err=%v", len(shapes), err)
	}
	if code, ok := s.Locate(1, 1); !ok || code != "AAA" {
		t.Fatalf("expected AAA after load, got %q", code)
	}

	if _, err := NewShapes("").LoadShapes(context.Background()); !errors.Is(err, domain.ErrFeedUnavailable) {
		t.Fatalf("expected unavailable feed, got %v", err)
	}
	if _, err := NewShapes(filepath.Join(t.TempDir(), "missing.json")).LoadShapes(context.Background()); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
