package geospatial

import (
	"math"
	"testing"
)

func TestHaversine_SamePoint(t *testing.T) {
	if d := Haversine(45.4953534, -73.578549, 45.4953534, -73.578549); d != 0 {
		t.Errorf("expected 0, got %f", d)
	}
}

func TestHaversineKm_OneDegreeLatitude(t *testing.T) {
	// One degree of latitude is ~111.19 km on a 6371 km sphere.
	d := HaversineKm(0, 0, 1, 0)
	if math.Abs(d-111.195) > 0.01 {
		t.Errorf("expected ~111.195 km, got %f", d)
	}
}

func TestHaversine_MetersMatchesKm(t *testing.T) {
	km := HaversineKm(45.4953534, -73.578549, 45.4582, -73.6405)
	m := Haversine(45.4953534, -73.578549, 45.4582, -73.6405)
	if math.Abs(m-km*1000) > 1e-6 {
		t.Errorf("meters %f != km*1000 %f", m, km*1000)
	}
	// SGW to Loyola is a little over 6 km.
	if km < 6 || km > 7 {
		t.Errorf("expected 6-7 km between campuses, got %f", km)
	}
}

func TestBoundingBox_ContainsRadius(t *testing.T) {
	lat, lon := 45.4953534, -73.578549
	minLat, minLon, maxLat, maxLon := BoundingBox(lat, lon, 500)

	if !(minLat < lat && lat < maxLat && minLon < lon && lon < maxLon) {
		t.Fatalf("center not inside box: %f %f %f %f", minLat, minLon, maxLat, maxLon)
	}

	// Box edges sit at ~500 m from the center.
	north := Haversine(lat, lon, maxLat, lon)
	east := Haversine(lat, lon, lat, maxLon)
	if math.Abs(north-500) > 5 {
		t.Errorf("north edge at %f m", north)
	}
	if math.Abs(east-500) > 5 {
		t.Errorf("east edge at %f m", east)
	}
}
