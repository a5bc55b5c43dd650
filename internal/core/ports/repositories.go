package ports

import (
	"context"

	"github.com/samirrijal/campusnav/internal/core/domain"
)

// BuildingStore is the read side of the polygon store.
// List returns every building in store order; the order is stable.
type BuildingStore interface {
	List(ctx context.Context) ([]domain.Building, error)
}

// BuildingRepository persists buildings.
type BuildingRepository interface {
	BuildingStore
	UpsertBatch(ctx context.Context, buildings []domain.Building) error
	Count(ctx context.Context) (int, error)
}
