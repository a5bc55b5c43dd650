package domain

// ShuttleProximityKm is how close both route endpoints must be to opposite
// campuses for the shuttle to be relevant.
const ShuttleProximityKm = 0.5

var (
	// CampusSGW is the Sir George Williams (downtown) campus.
	CampusSGW = Campus{
		Code:     "SGW",
		Name:     "Sir George Williams",
		Location: Coordinate{Lat: 45.4953534, Lon: -73.578549},
	}

	// CampusLoyola is the Loyola campus.
	CampusLoyola = Campus{
		Code:     "LOY",
		Name:     "Loyola",
		Location: Coordinate{Lat: 45.4582, Lon: -73.6405},
	}
)

// Campuses returns the shuttle-served campuses.
func Campuses() []Campus {
	return []Campus{CampusSGW, CampusLoyola}
}
