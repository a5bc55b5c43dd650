package domain

import (
	"strings"
	"time"
)

// Building is a named campus building with its footprint polygon.
// Boundaries are implicitly closed: the last vertex connects back to the first.
type Building struct {
	ID          string       `json:"id,omitempty"`
	Name        string       `json:"name"`
	Address     string       `json:"address"`
	Description string       `json:"description,omitempty"`
	Boundaries  []Coordinate `json:"boundaries"`
}

// BuildingMarker pairs a building with the point used to pin it on a map.
type BuildingMarker struct {
	Name     string     `json:"name"`
	Address  string     `json:"address"`
	Centroid Coordinate `json:"centroid"`
}

// NearbyBuilding is a building whose centroid lies within a search radius.
type NearbyBuilding struct {
	Building Building   `json:"building"`
	Centroid Coordinate `json:"centroid"`
	Distance float64    `json:"distance"` // meters
}

// Campus is one of the fixed campuses served by the inter-campus shuttle.
type Campus struct {
	Code     string     `json:"code"`
	Name     string     `json:"name"`
	Location Coordinate `json:"location"`
}

// ShuttleKind tells buses apart from stations in the shuttle feed.
type ShuttleKind string

const (
	ShuttleBus     ShuttleKind = "bus"
	ShuttleStation ShuttleKind = "station"
	ShuttleUnknown ShuttleKind = "unknown"
)

// ShuttlePoint is a single marker from the shuttle position feed.
type ShuttlePoint struct {
	ID         string    `json:"id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	IconImage  string    `json:"iconImage"`
	ReceivedAt time.Time `json:"received_at"`
}

// Kind classifies the point by its id prefix: BUS* is a bus, GP* a station.
func (p ShuttlePoint) Kind() ShuttleKind {
	switch {
	case strings.HasPrefix(p.ID, "BUS"):
		return ShuttleBus
	case strings.HasPrefix(p.ID, "GP"):
		return ShuttleStation
	default:
		return ShuttleUnknown
	}
}

// Location returns the point as a Coordinate.
func (p ShuttlePoint) Location() Coordinate {
	return Coordinate{Lat: p.Latitude, Lon: p.Longitude}
}

// TravelMode is the transport mode requested for directions.
type TravelMode string

const (
	ModeWalking   TravelMode = "walking"
	ModeDriving   TravelMode = "driving"
	ModeTransit   TravelMode = "transit"
	ModeBicycling TravelMode = "bicycling"
)

// Valid reports whether m is a supported travel mode.
func (m TravelMode) Valid() bool {
	switch m {
	case ModeWalking, ModeDriving, ModeTransit, ModeBicycling:
		return true
	}
	return false
}

// RoutePlan is the geometry-side preparation of a directions request.
// Origin and Destination are already snapped to building centroids.
type RoutePlan struct {
	Origin              Coordinate `json:"origin"`
	Destination         Coordinate `json:"destination"`
	OriginBuilding      string     `json:"origin_building,omitempty"`
	DestinationBuilding string     `json:"destination_building,omitempty"`
	Mode                TravelMode `json:"mode"`
	Distance            Distance   `json:"distance"`
	ShuttleApplicable   bool       `json:"shuttle_applicable"`
}
