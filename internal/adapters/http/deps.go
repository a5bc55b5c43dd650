package http

import (
	"context"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/campusnav/internal/core/usecases"
)

// Pinger is a backing service that can report its health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Buildings  *usecases.BuildingService
	Directions *usecases.DirectionsService
	Shuttle    *usecases.ShuttleService
	NATS       *nats.Conn
	DB         Pinger // nil when buildings are served from static data
	Cache      Pinger
	RateLimit  int // requests per minute per IP; 0 uses the default
}
