package usecases

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/samirrijal/campusnav/internal/core/domain"
	"github.com/samirrijal/campusnav/internal/core/geometry"
	"github.com/samirrijal/campusnav/internal/pkg/metrics"
)

// ErrUnsupportedMode is returned for travel modes outside the supported set.
var ErrUnsupportedMode = errors.New("unsupported travel mode")

// DirectionsService prepares directions requests: it snaps endpoints to
// buildings and decides whether shuttle information applies.
//
// The caller owns the current location and passes it in; the service keeps
// no location state.
type DirectionsService struct {
	buildings *BuildingService
}

// NewDirectionsService creates a new DirectionsService.
func NewDirectionsService(buildings *BuildingService) *DirectionsService {
	return &DirectionsService{buildings: buildings}
}

// IsShuttleRouteApplicable reports whether a route between origin and
// destination runs between the two shuttle campuses. Nil endpoints yield false.
func (s *DirectionsService) IsShuttleRouteApplicable(ctx context.Context, origin, destination *domain.Coordinate) (bool, error) {
	if origin == nil || destination == nil {
		metrics.ShuttleChecks.WithLabelValues("missing_endpoint").Inc()
		return false, nil
	}

	buildings, err := s.buildings.List(ctx)
	if err != nil {
		return false, err
	}

	ok := geometry.IsShuttleRouteApplicable(origin, destination, buildings)
	metrics.ShuttleChecks.WithLabelValues(strconv.FormatBool(ok)).Inc()
	return ok, nil
}

// Distance is the great-circle distance between two optional points.
// It is unknown when either is nil.
func (s *DirectionsService) Distance(from, to *domain.Coordinate) domain.Distance {
	return geometry.DistanceBetween(from, to)
}

// PlanRoute snaps both endpoints and annotates the route with its straight
// line distance and shuttle applicability. mode defaults to walking.
func (s *DirectionsService) PlanRoute(ctx context.Context, origin, destination *domain.Coordinate, mode domain.TravelMode) (*domain.RoutePlan, error) {
	if origin == nil {
		return nil, fmt.Errorf("origin is required")
	}
	if destination == nil {
		return nil, fmt.Errorf("destination is required")
	}
	if mode == "" {
		mode = domain.ModeWalking
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("%w %q", ErrUnsupportedMode, mode)
	}

	buildings, err := s.buildings.List(ctx)
	if err != nil {
		return nil, err
	}

	plan := &domain.RoutePlan{
		Origin:      geometry.SnapToNearestBuilding(*origin, buildings),
		Destination: geometry.SnapToNearestBuilding(*destination, buildings),
		Mode:        mode,
	}
	if b, ok := geometry.EnclosingBuilding(*origin, buildings); ok {
		plan.OriginBuilding = b.Name
	}
	if b, ok := geometry.EnclosingBuilding(*destination, buildings); ok {
		plan.DestinationBuilding = b.Name
	}

	plan.Distance = geometry.DistanceBetween(&plan.Origin, &plan.Destination)
	plan.ShuttleApplicable = geometry.IsShuttleRouteApplicable(origin, destination, buildings)
	metrics.ShuttleChecks.WithLabelValues(strconv.FormatBool(plan.ShuttleApplicable)).Inc()

	return plan, nil
}
