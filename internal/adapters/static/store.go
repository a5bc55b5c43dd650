// Package static serves building footprints from in-memory data: the
// embedded campus dataset, a JSON file, or an ESRI shapefile.
package static

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/samirrijal/campusnav/internal/core/domain"
)

// ErrNoBuildings is returned when a source yields no buildings.
var ErrNoBuildings = errors.New("no buildings in source")

//go:embed data/buildings.json
var embedded []byte

// Store is an immutable, ordered polygon store.
type Store struct {
	buildings []domain.Building
}

// New validates buildings and wraps them in a Store. Order is preserved.
func New(buildings []domain.Building) (*Store, error) {
	if len(buildings) == 0 {
		return nil, ErrNoBuildings
	}

	seen := make(map[string]bool, len(buildings))
	out := make([]domain.Building, 0, len(buildings))
	for i, b := range buildings {
		b.Name = strings.TrimSpace(b.Name)
		if b.Name == "" {
			return nil, fmt.Errorf("building %d: name is required", i)
		}
		if b.ID != "" {
			if seen[b.ID] {
				return nil, fmt.Errorf("building %d: duplicate id %q", i, b.ID)
			}
			seen[b.ID] = true
		}
		if len(b.Boundaries) == 0 {
			return nil, fmt.Errorf("building %d (%s): no boundary points", i, b.Name)
		}
		// Degenerate footprints are kept; they never contain a point.
		if len(b.Boundaries) < 3 {
			slog.Warn("building footprint has fewer than 3 vertices", "building", b.Name, "vertices", len(b.Boundaries))
		}
		b.Boundaries = append([]domain.Coordinate(nil), b.Boundaries...)
		out = append(out, b)
	}

	return &Store{buildings: out}, nil
}

// Default returns the store backed by the embedded campus dataset.
func Default() (*Store, error) {
	return Load(bytes.NewReader(embedded))
}

// Load decodes a JSON array of buildings from r.
func Load(r io.Reader) (*Store, error) {
	var buildings []domain.Building
	if err := json.NewDecoder(r).Decode(&buildings); err != nil {
		return nil, fmt.Errorf("decode buildings: %w", err)
	}
	return New(buildings)
}

// LoadFile reads a JSON building file from disk.
func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open buildings file: %w", err)
	}
	defer f.Close()

	s, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// List returns a copy of the buildings in source order.
func (s *Store) List(ctx context.Context) ([]domain.Building, error) {
	out := make([]domain.Building, len(s.buildings))
	copy(out, s.buildings)
	return out, nil
}

// Len reports the number of buildings.
func (s *Store) Len() int {
	return len(s.buildings)
}
