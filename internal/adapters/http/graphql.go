package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/campusnav/internal/core/domain"
	"github.com/samirrijal/campusnav/internal/core/geometry"
	"github.com/samirrijal/campusnav/internal/core/usecases"
)

// coordinateArgs reads a required lat/lon argument pair and validates it.
func coordinateArgs(args map[string]interface{}, latKey, lonKey string) (domain.Coordinate, error) {
	lat, _ := args[latKey].(float64)
	lon, _ := args[lonKey].(float64)
	p := domain.Coordinate{Lat: lat, Lon: lon}
	return p, usecases.ValidateCoordinate(p)
}

// optionalCoordinateArgs is coordinateArgs for endpoints that may be absent.
func optionalCoordinateArgs(args map[string]interface{}, latKey, lonKey string) (*domain.Coordinate, error) {
	_, hasLat := args[latKey]
	_, hasLon := args[lonKey]
	if !hasLat && !hasLon {
		return nil, nil
	}
	if hasLat != hasLon {
		return nil, fmt.Errorf("%s and %s must be given together", latKey, lonKey)
	}
	p, err := coordinateArgs(args, latKey, lonKey)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// buildSchema creates the GraphQL schema wired to our services. Object
// fields resolve through the json tags of the domain types.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"latitude":  &graphql.Field{Type: graphql.Float},
			"longitude": &graphql.Field{Type: graphql.Float},
		},
	})

	buildingType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Building",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.String},
			"name":        &graphql.Field{Type: graphql.String},
			"address":     &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
			"boundaries":  &graphql.Field{Type: graphql.NewList(geoPointType)},
			"centroid": &graphql.Field{
				Type: geoPointType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					switch b := p.Source.(type) {
					case domain.Building:
						return geometry.PolygonCenter(b.Boundaries), nil
					case *domain.Building:
						return geometry.PolygonCenter(b.Boundaries), nil
					}
					return nil, nil
				},
			},
		},
	})

	markerType := graphql.NewObject(graphql.ObjectConfig{
		Name: "BuildingMarker",
		Fields: graphql.Fields{
			"name":     &graphql.Field{Type: graphql.String},
			"address":  &graphql.Field{Type: graphql.String},
			"centroid": &graphql.Field{Type: geoPointType},
		},
	})

	nearbyType := graphql.NewObject(graphql.ObjectConfig{
		Name: "NearbyBuilding",
		Fields: graphql.Fields{
			"building": &graphql.Field{Type: buildingType},
			"centroid": &graphql.Field{Type: geoPointType},
			"distance": &graphql.Field{Type: graphql.Float, Description: "Meters from the query point"},
		},
	})

	distanceType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Distance",
		Fields: graphql.Fields{
			"km":    &graphql.Field{Type: graphql.Float},
			"known": &graphql.Field{Type: graphql.Boolean},
		},
	})

	shuttlePointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ShuttlePoint",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.String},
			"latitude":  &graphql.Field{Type: graphql.Float},
			"longitude": &graphql.Field{Type: graphql.Float},
			"iconImage": &graphql.Field{Type: graphql.String},
			"kind": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if sp, ok := p.Source.(domain.ShuttlePoint); ok {
						return string(sp.Kind()), nil
					}
					return nil, nil
				},
			},
		},
	})

	pointArgs := graphql.FieldConfigArgument{
		"lat": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
		"lon": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
	}
	routeArgs := graphql.FieldConfigArgument{
		"originLat": &graphql.ArgumentConfig{Type: graphql.Float},
		"originLon": &graphql.ArgumentConfig{Type: graphql.Float},
		"destLat":   &graphql.ArgumentConfig{Type: graphql.Float},
		"destLon":   &graphql.ArgumentConfig{Type: graphql.Float},
	}
	routeEndpoints := func(args map[string]interface{}) (*domain.Coordinate, *domain.Coordinate, error) {
		origin, err := optionalCoordinateArgs(args, "originLat", "originLon")
		if err != nil {
			return nil, nil, err
		}
		dest, err := optionalCoordinateArgs(args, "destLat", "destLon")
		return origin, dest, err
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"buildings": &graphql.Field{
				Type:        graphql.NewList(buildingType),
				Description: "All campus buildings in display order",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Buildings.List(p.Context)
				},
			},
			"markers": &graphql.Field{
				Type:        graphql.NewList(markerType),
				Description: "One map marker per building, at its centroid",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Buildings.Markers(p.Context)
				},
			},
			"enclosingBuilding": &graphql.Field{
				Type:        buildingType,
				Description: "The building containing a point, or null",
				Args:        pointArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					pt, err := coordinateArgs(p.Args, "lat", "lon")
					if err != nil {
						return nil, err
					}
					b, err := deps.Buildings.Enclosing(p.Context, pt)
					if err != nil || b == nil {
						return nil, err
					}
					return *b, nil
				},
			},
			"snap": &graphql.Field{
				Type:        geoPointType,
				Description: "Snap a point to its enclosing building's centroid",
				Args:        pointArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					pt, err := coordinateArgs(p.Args, "lat", "lon")
					if err != nil {
						return nil, err
					}
					snapped, _, err := deps.Buildings.Snap(p.Context, pt)
					return snapped, err
				},
			},
			"nearbyBuildings": &graphql.Field{
				Type:        graphql.NewList(nearbyType),
				Description: "Buildings whose centroid is within radius meters",
				Args: graphql.FieldConfigArgument{
					"lat":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: defaultNearbyRadius},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					pt, err := coordinateArgs(p.Args, "lat", "lon")
					if err != nil {
						return nil, err
					}
					radius := p.Args["radius"].(float64)
					if radius <= 0 || radius > maxNearbyRadius {
						return nil, fmt.Errorf("radius must be in (0, 10000] meters")
					}
					return deps.Buildings.Nearby(p.Context, pt, radius, p.Args["limit"].(int))
				},
			},
			"distance": &graphql.Field{
				Type:        distanceType,
				Description: "Great-circle distance; unknown when an endpoint is missing",
				Args:        routeArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					origin, dest, err := routeEndpoints(p.Args)
					if err != nil {
						return nil, err
					}
					return deps.Directions.Distance(origin, dest), nil
				},
			},
			"shuttleApplicable": &graphql.Field{
				Type:        graphql.Boolean,
				Description: "Whether the inter-campus shuttle serves the route",
				Args:        routeArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					origin, dest, err := routeEndpoints(p.Args)
					if err != nil {
						return nil, err
					}
					return deps.Directions.IsShuttleRouteApplicable(p.Context, origin, dest)
				},
			},
			"shuttlePositions": &graphql.Field{
				Type:        graphql.NewList(shuttlePointType),
				Description: "Latest shuttle buses and stations",
				Args: graphql.FieldConfigArgument{
					"kind": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					kind := domain.ShuttleKind(p.Args["kind"].(string))
					return deps.Shuttle.Latest(p.Context, kind)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil || req.Query == "" {
			return errBadRequest(c, "body must be a JSON object with a query")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})
		return c.JSON(result)
	}
}
