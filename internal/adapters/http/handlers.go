package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/campusnav/internal/core/domain"
	"github.com/samirrijal/campusnav/internal/core/geometry"
	"github.com/samirrijal/campusnav/internal/core/usecases"
)

const (
	maxSearchLength     = 200
	defaultNearbyRadius = 500.0
	maxNearbyRadius     = 10000.0
	maxShuttleBatch     = 500
)

// ListCampusesHandler returns the shuttle-served campuses.
func ListCampusesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"data": domain.Campuses()})
	}
}

// ListBuildingsHandler returns building footprints, paginated.
func ListBuildingsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		buildings, err := deps.Buildings.List(c.UserContext())
		if err != nil {
			return errInternal(c, err)
		}

		offset, limit := pageParams(c, 100, 500)
		page, pg := paginate(buildings, offset, limit)
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: page, Pagination: pg})
	}
}

// MarkersHandler returns one map marker per building.
func MarkersHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		markers, err := deps.Buildings.Markers(c.UserContext())
		if err != nil {
			return errInternal(c, err)
		}
		return c.JSON(fiber.Map{"data": markers})
	}
}

// SearchBuildingsHandler matches buildings by name or address.
func SearchBuildingsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := strings.TrimSpace(c.Query("q"))
		if q == "" {
			return errBadRequest(c, "q is required")
		}
		if len(q) > maxSearchLength {
			return errBadRequest(c, "q must be at most 200 characters")
		}

		matches, err := deps.Buildings.Search(c.UserContext(), q, c.QueryInt("limit", 20))
		if err != nil {
			return errInternal(c, err)
		}
		if matches == nil {
			matches = []domain.Building{}
		}
		return c.JSON(fiber.Map{"data": matches})
	}
}

// NearbyBuildingsHandler returns buildings within radius meters of lat/lon.
func NearbyBuildingsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := requiredCoordinate(c, "lat", "lon")
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		radius := c.QueryFloat("radius", defaultNearbyRadius)
		if radius <= 0 || radius > maxNearbyRadius {
			return errBadRequest(c, "radius must be in (0, 10000] meters")
		}

		nearby, err := deps.Buildings.Nearby(c.UserContext(), p, radius, c.QueryInt("limit", 20))
		if err != nil {
			return errInternal(c, err)
		}
		if nearby == nil {
			nearby = []domain.NearbyBuilding{}
		}
		return c.JSON(fiber.Map{"data": nearby})
	}
}

// EnclosingBuildingHandler returns the building containing lat/lon and its
// centroid, or 404 when the point is outdoors.
func EnclosingBuildingHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := requiredCoordinate(c, "lat", "lon")
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		b, err := deps.Buildings.Enclosing(c.UserContext(), p)
		if err != nil {
			return errInternal(c, err)
		}
		if b == nil {
			return errNotFound(c, "no building contains this point")
		}
		return c.JSON(fiber.Map{"building": b, "centroid": geometry.PolygonCenter(b.Boundaries)})
	}
}

// InBuildingHandler answers whether the caller's location is indoors.
func InBuildingHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := requiredCoordinate(c, "lat", "lon")
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		centroid, inside, err := deps.Buildings.IsUserInBuilding(c.UserContext(), p)
		if err != nil {
			return errInternal(c, err)
		}
		resp := fiber.Map{"inside": inside}
		if inside {
			resp["centroid"] = centroid
		}
		return c.JSON(resp)
	}
}

// SnapHandler snaps lat/lon to its enclosing building's centroid.
func SnapHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := requiredCoordinate(c, "lat", "lon")
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		snapped, ok, err := deps.Buildings.Snap(c.UserContext(), p)
		if err != nil {
			return errInternal(c, err)
		}
		return c.JSON(fiber.Map{
			"latitude":  snapped.Lat,
			"longitude": snapped.Lon,
			"snapped":   ok,
		})
	}
}

// DistanceHandler returns the great-circle distance between two optional
// points. A missing endpoint yields the 9999 km sentinel with known=false.
func DistanceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, err := coordinateParam(c, "from_lat", "from_lon")
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		to, err := coordinateParam(c, "to_lat", "to_lon")
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		d := deps.Directions.Distance(from, to)
		return c.JSON(fiber.Map{"distance_km": d.OrSentinel(), "known": d.Known})
	}
}

// PlanRouteHandler snaps both endpoints and annotates the route.
func PlanRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		origin, err := coordinateParam(c, "origin_lat", "origin_lon")
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		dest, err := coordinateParam(c, "dest_lat", "dest_lon")
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		plan, err := deps.Directions.PlanRoute(c.UserContext(), origin, dest, domain.TravelMode(c.Query("mode")))
		if err != nil {
			if origin == nil || dest == nil || errors.Is(err, usecases.ErrUnsupportedMode) {
				return errBadRequest(c, err.Error())
			}
			return errInternal(c, err)
		}
		return c.JSON(plan)
	}
}

// ShuttleApplicableHandler reports whether the inter-campus shuttle serves
// a route between origin and destination.
func ShuttleApplicableHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		origin, err := coordinateParam(c, "origin_lat", "origin_lon")
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		dest, err := coordinateParam(c, "dest_lat", "dest_lon")
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		ok, err := deps.Directions.IsShuttleRouteApplicable(c.UserContext(), origin, dest)
		if err != nil {
			return errInternal(c, err)
		}
		return c.JSON(fiber.Map{"applicable": ok})
	}
}

// IngestShuttleHandler accepts a batch of shuttle feed points.
func IngestShuttleHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var points []domain.ShuttlePoint
		if err := c.BodyParser(&points); err != nil {
			return errBadRequest(c, "body must be a JSON array of shuttle points")
		}
		if len(points) > maxShuttleBatch {
			return newError(c, fiber.StatusRequestEntityTooLarge, "too_large", "at most 500 points per request")
		}

		accepted, err := deps.Shuttle.Ingest(c.UserContext(), points)
		if err != nil {
			return errUnavailable(c, "shuttle feed unavailable")
		}
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"accepted": accepted,
			"rejected": len(points) - accepted,
		})
	}
}

// ShuttlePositionsHandler returns the latest shuttle snapshot, optionally
// filtered by kind.
func ShuttlePositionsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind := domain.ShuttleKind(c.Query("kind"))
		switch kind {
		case "", domain.ShuttleBus, domain.ShuttleStation:
		default:
			return errBadRequest(c, "kind must be bus or station")
		}

		points, err := deps.Shuttle.Latest(c.UserContext(), kind)
		if err != nil {
			return errInternal(c, err)
		}
		if points == nil {
			points = []domain.ShuttlePoint{}
		}
		return c.JSON(fiber.Map{"data": points})
	}
}
