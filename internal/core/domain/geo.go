package domain

// Coordinate represents a geographic point (WGS 84, no projection correction).
type Coordinate struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

// BoundingBox is the axis-aligned box enclosing a set of coordinates.
type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}

// Contains reports whether c lies inside the box, edges included.
func (b BoundingBox) Contains(c Coordinate) bool {
	return c.Lat >= b.MinLat && c.Lat <= b.MaxLat &&
		c.Lon >= b.MinLon && c.Lon <= b.MaxLon
}

// DistanceSentinelKm is returned by the legacy distance API when an endpoint
// is missing. Threshold checks treat it as "far away".
const DistanceSentinelKm = 9999.0

// Distance is a great-circle distance that may be unknown.
type Distance struct {
	Km    float64 `json:"km"`
	Known bool    `json:"known"`
}

// KnownDistance wraps a computed distance.
func KnownDistance(km float64) Distance {
	return Distance{Km: km, Known: true}
}

// UnknownDistance is the distance between points that are not both present.
func UnknownDistance() Distance {
	return Distance{}
}

// Within reports whether the distance is known and strictly below km.
func (d Distance) Within(km float64) bool {
	return d.Known && d.Km < km
}

// OrSentinel returns Km, or DistanceSentinelKm when the distance is unknown.
func (d Distance) OrSentinel() float64 {
	if !d.Known {
		return DistanceSentinelKm
	}
	return d.Km
}
