package ports

import (
	"context"

	"github.com/samirrijal/campusnav/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishShuttlePoint(ctx context.Context, p *domain.ShuttlePoint) error
	PublishBroadcast(ctx context.Context, data []byte) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeShuttlePoints(ctx context.Context, handler func(ctx context.Context, p *domain.ShuttlePoint) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
