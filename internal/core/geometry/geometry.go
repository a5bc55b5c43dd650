// Package geometry resolves raw coordinates against campus building
// footprints: containment, centroids, snapping and shuttle applicability.
//
// Every function is pure. Buildings are passed in by the caller, so the
// package holds no state and is safe for concurrent use.
package geometry

import (
	"github.com/samirrijal/campusnav/internal/core/domain"
	"github.com/samirrijal/campusnav/internal/pkg/geospatial"
)

// BoundingBoxOf returns the min/max latitude and longitude of boundaries.
// A single point yields a degenerate box; an empty slice yields the zero box.
func BoundingBoxOf(boundaries []domain.Coordinate) domain.BoundingBox {
	if len(boundaries) == 0 {
		return domain.BoundingBox{}
	}

	box := domain.BoundingBox{
		MinLat: boundaries[0].Lat,
		MaxLat: boundaries[0].Lat,
		MinLon: boundaries[0].Lon,
		MaxLon: boundaries[0].Lon,
	}
	for _, c := range boundaries[1:] {
		if c.Lat < box.MinLat {
			box.MinLat = c.Lat
		}
		if c.Lat > box.MaxLat {
			box.MaxLat = c.Lat
		}
		if c.Lon < box.MinLon {
			box.MinLon = c.Lon
		}
		if c.Lon > box.MaxLon {
			box.MaxLon = c.Lon
		}
	}
	return box
}

// PointInPolygon reports whether point lies inside the closed polygon
// described by boundaries, using the crossing-number test.
//
// Points outside the bounding box are rejected up front. Polygons with fewer
// than three vertices are never inside. A point exactly on an edge may land
// either way.
func PointInPolygon(point domain.Coordinate, boundaries []domain.Coordinate) bool {
	if len(boundaries) == 0 || !BoundingBoxOf(boundaries).Contains(point) {
		return false
	}
	return crossingNumber(point, boundaries)
}

// crossingNumber casts a ray along the latitude axis at the point's longitude
// and toggles on every edge it crosses.
func crossingNumber(point domain.Coordinate, boundaries []domain.Coordinate) bool {
	x, y := point.Lat, point.Lon
	inside := false

	n := len(boundaries)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := boundaries[i].Lat, boundaries[i].Lon
		xj, yj := boundaries[j].Lat, boundaries[j].Lon

		// yi != yj whenever the first clause holds, so the division is safe.
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

// PolygonCenter returns the vertex centroid (arithmetic mean of the vertices),
// not the area-weighted centroid. An empty slice yields the zero coordinate.
func PolygonCenter(boundaries []domain.Coordinate) domain.Coordinate {
	if len(boundaries) == 0 {
		return domain.Coordinate{}
	}

	var sumLat, sumLon float64
	for _, c := range boundaries {
		sumLat += c.Lat
		sumLon += c.Lon
	}
	n := float64(len(boundaries))
	return domain.Coordinate{Lat: sumLat / n, Lon: sumLon / n}
}

// FindEnclosingBuilding returns the centroid of the first building, in the
// given order, whose footprint contains point. Overlapping footprints are
// resolved by order alone.
func FindEnclosingBuilding(point domain.Coordinate, buildings []domain.Building) (domain.Coordinate, bool) {
	if b, ok := EnclosingBuilding(point, buildings); ok {
		return PolygonCenter(b.Boundaries), true
	}
	return domain.Coordinate{}, false
}

// IsUserInBuilding is FindEnclosingBuilding under the name the map screens use.
func IsUserInBuilding(point domain.Coordinate, buildings []domain.Building) (domain.Coordinate, bool) {
	return FindEnclosingBuilding(point, buildings)
}

// EnclosingBuilding returns the first building whose footprint contains point.
func EnclosingBuilding(point domain.Coordinate, buildings []domain.Building) (domain.Building, bool) {
	for _, b := range buildings {
		if PointInPolygon(point, b.Boundaries) {
			return b, true
		}
	}
	return domain.Building{}, false
}

// SnapToNearestBuilding replaces point with the centroid of its enclosing
// building, or returns it unchanged when no building contains it.
func SnapToNearestBuilding(point domain.Coordinate, buildings []domain.Building) domain.Coordinate {
	if c, ok := FindEnclosingBuilding(point, buildings); ok {
		return c
	}
	return point
}

// DistanceBetween returns the great-circle distance between a and b, or an
// unknown distance when either is nil.
func DistanceBetween(a, b *domain.Coordinate) domain.Distance {
	if a == nil || b == nil {
		return domain.UnknownDistance()
	}
	return domain.KnownDistance(geospatial.HaversineKm(a.Lat, a.Lon, b.Lat, b.Lon))
}

// HaversineDistanceKm is DistanceBetween with a missing endpoint reported as
// domain.DistanceSentinelKm.
func HaversineDistanceKm(a, b *domain.Coordinate) float64 {
	return DistanceBetween(a, b).OrSentinel()
}

// IsShuttleRouteApplicable reports whether a route from origin to destination
// runs between the two shuttle campuses. Both endpoints are snapped first and
// each must be within domain.ShuttleProximityKm of a different campus.
func IsShuttleRouteApplicable(origin, destination *domain.Coordinate, buildings []domain.Building) bool {
	if origin == nil || destination == nil {
		return false
	}

	from := SnapToNearestBuilding(*origin, buildings)
	to := SnapToNearestBuilding(*destination, buildings)

	sgw := domain.CampusSGW.Location
	loy := domain.CampusLoyola.Location

	near := func(p, campus domain.Coordinate) bool {
		return DistanceBetween(&p, &campus).Within(domain.ShuttleProximityKm)
	}

	return (near(from, sgw) && near(to, loy)) || (near(from, loy) && near(to, sgw))
}
