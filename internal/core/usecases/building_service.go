package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/samirrijal/campusnav/internal/core/domain"
	"github.com/samirrijal/campusnav/internal/core/geometry"
	"github.com/samirrijal/campusnav/internal/core/ports"
	"github.com/samirrijal/campusnav/internal/pkg/geospatial"
	"github.com/samirrijal/campusnav/internal/pkg/metrics"
)

// ErrInvalidCoordinate is returned for non-finite or out-of-range coordinates.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

const buildingsCacheKey = "buildings:all"

// ValidateCoordinate checks that c is finite and within WGS 84 ranges.
// The geometry package assumes valid input, so entry points call this first.
func ValidateCoordinate(c domain.Coordinate) error {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lon, 0) {
		return fmt.Errorf("%w: not finite", ErrInvalidCoordinate)
	}
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("%w: latitude %f out of range", ErrInvalidCoordinate, c.Lat)
	}
	if c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("%w: longitude %f out of range", ErrInvalidCoordinate, c.Lon)
	}
	return nil
}

// BuildingService resolves coordinates against the campus polygon store.
type BuildingService struct {
	store ports.BuildingStore
	cache ports.CacheService
}

// NewBuildingService creates a new BuildingService. cache may be nil.
func NewBuildingService(store ports.BuildingStore, cache ports.CacheService) *BuildingService {
	return &BuildingService{store: store, cache: cache}
}

// List returns every building in store order.
func (s *BuildingService) List(ctx context.Context) ([]domain.Building, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, buildingsCacheKey); err == nil {
			var buildings []domain.Building
			if err := json.Unmarshal(data, &buildings); err == nil {
				metrics.CacheHits.WithLabelValues("buildings").Inc()
				return buildings, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("buildings").Inc()
	}

	buildings, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list buildings: %w", err)
	}
	metrics.BuildingsLoaded.Set(float64(len(buildings)))

	// Footprints only change on import, which invalidates the key.
	if s.cache != nil {
		if data, err := json.Marshal(buildings); err == nil {
			_ = s.cache.Set(ctx, buildingsCacheKey, data, 600)
		}
	}

	return buildings, nil
}

// Invalidate drops the cached building list.
func (s *BuildingService) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, buildingsCacheKey)
}

// Markers returns one map marker per building, pinned at its centroid,
// in store order.
func (s *BuildingService) Markers(ctx context.Context) ([]domain.BuildingMarker, error) {
	buildings, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	markers := make([]domain.BuildingMarker, 0, len(buildings))
	for _, b := range buildings {
		markers = append(markers, domain.BuildingMarker{
			Name:     b.Name,
			Address:  b.Address,
			Centroid: geometry.PolygonCenter(b.Boundaries),
		})
	}
	return markers, nil
}

// Enclosing returns the first building containing point, or nil.
func (s *BuildingService) Enclosing(ctx context.Context, point domain.Coordinate) (*domain.Building, error) {
	buildings, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	b, ok := geometry.EnclosingBuilding(point, buildings)
	if !ok {
		return nil, nil
	}
	return &b, nil
}

// FindEnclosing returns the centroid of the building containing point.
// The bool is false when no building contains it.
func (s *BuildingService) FindEnclosing(ctx context.Context, point domain.Coordinate) (domain.Coordinate, bool, error) {
	buildings, err := s.List(ctx)
	if err != nil {
		return domain.Coordinate{}, false, err
	}
	c, ok := geometry.FindEnclosingBuilding(point, buildings)
	return c, ok, nil
}

// IsUserInBuilding is FindEnclosing for a caller-supplied current location.
func (s *BuildingService) IsUserInBuilding(ctx context.Context, location domain.Coordinate) (domain.Coordinate, bool, error) {
	return s.FindEnclosing(ctx, location)
}

// Snap replaces point with its enclosing building's centroid, if any.
// The bool reports whether a building matched.
func (s *BuildingService) Snap(ctx context.Context, point domain.Coordinate) (domain.Coordinate, bool, error) {
	c, ok, err := s.FindEnclosing(ctx, point)
	if err != nil {
		return domain.Coordinate{}, false, err
	}
	if !ok {
		metrics.SnapsTotal.WithLabelValues("passthrough").Inc()
		return point, false, nil
	}
	metrics.SnapsTotal.WithLabelValues("snapped").Inc()
	return c, true, nil
}

// Nearby returns buildings whose centroid lies within radiusMeters of point,
// closest first.
func (s *BuildingService) Nearby(ctx context.Context, point domain.Coordinate, radiusMeters float64, limit int) ([]domain.NearbyBuilding, error) {
	if radiusMeters <= 0 {
		return nil, fmt.Errorf("radius must be positive")
	}
	if limit <= 0 || limit > 50 {
		limit = 50
	}

	buildings, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	box := domain.BoundingBox{}
	box.MinLat, box.MinLon, box.MaxLat, box.MaxLon = geospatial.BoundingBox(point.Lat, point.Lon, radiusMeters)

	var nearby []domain.NearbyBuilding
	for _, b := range buildings {
		c := geometry.PolygonCenter(b.Boundaries)
		if !box.Contains(c) {
			continue
		}
		d := geospatial.Haversine(point.Lat, point.Lon, c.Lat, c.Lon)
		if d > radiusMeters {
			continue
		}
		nearby = append(nearby, domain.NearbyBuilding{Building: b, Centroid: c, Distance: d})
	}

	sort.SliceStable(nearby, func(i, j int) bool { return nearby[i].Distance < nearby[j].Distance })
	if len(nearby) > limit {
		nearby = nearby[:limit]
	}
	return nearby, nil
}

// Search matches buildings by case-insensitive substring of name or address.
func (s *BuildingService) Search(ctx context.Context, query string, limit int) ([]domain.Building, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query must not be empty")
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	buildings, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	var matches []domain.Building
	for _, b := range buildings {
		if strings.Contains(strings.ToLower(b.Name), q) || strings.Contains(strings.ToLower(b.Address), q) {
			matches = append(matches, b)
			if len(matches) == limit {
				break
			}
		}
	}
	return matches, nil
}
