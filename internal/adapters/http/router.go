package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/samirrijal/campusnav/internal/pkg/metrics"
	"github.com/samirrijal/campusnav/internal/pkg/telemetry"
)

const (
	defaultRateLimit = 120
	requestTimeout   = 10 * time.Second
)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(telemetry.Middleware())
	app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(RequestLogger())
	app.Use(AccessLog())

	max := deps.RateLimit
	if max <= 0 {
		max = defaultRateLimit
	}
	app.Use(limiter.New(limiter.Config{
		Max:        max,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: errTooManyRequests,
	}))

	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(CachingMiddleware())
	app.Use(DeprecationMiddleware(deprecatedRoutes))

	app.Get("/health", HealthHandler())
	app.Get("/ready", ReadyHandler(deps))

	v1 := app.Group("/v1")
	get := func(path string, h fiber.Handler) {
		v1.Get(path, timeout.NewWithContext(h, requestTimeout))
	}
	get("/campuses", ListCampusesHandler())
	get("/buildings", ListBuildingsHandler(deps))
	get("/buildings/markers", MarkersHandler(deps))
	get("/buildings/search", SearchBuildingsHandler(deps))
	get("/buildings/nearby", NearbyBuildingsHandler(deps))
	get("/buildings/enclosing", EnclosingBuildingHandler(deps))
	get("/geometry/in-building", InBuildingHandler(deps))
	get("/geometry/snap", SnapHandler(deps))
	get("/geometry/distance", DistanceHandler(deps))
	get("/directions", PlanRouteHandler(deps))
	get("/shuttle/applicable", ShuttleApplicableHandler(deps))
	get("/shuttle/positions", ShuttlePositionsHandler(deps))
	v1.Post("/shuttle/positions", timeout.NewWithContext(IngestShuttleHandler(deps), requestTimeout))

	app.Post("/graphql", GraphQLHandler(deps))

	SetupDocs(app)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
}
