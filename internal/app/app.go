// Package app wires adapters from configuration for the commands.
package app

import (
	"context"
	"fmt"
	"log/slog"

	natsadapter "github.com/samirrijal/campusnav/internal/adapters/nats"
	"github.com/samirrijal/campusnav/internal/adapters/postgres"
	"github.com/samirrijal/campusnav/internal/adapters/static"
	"github.com/samirrijal/campusnav/internal/adapters/valkey"
	"github.com/samirrijal/campusnav/internal/core/ports"
	"github.com/samirrijal/campusnav/internal/pkg/config"
)

// Backends holds the optional backing services. Nil fields are unavailable.
type Backends struct {
	DB        *postgres.DB
	Cache     *valkey.Cache
	Publisher *natsadapter.Publisher
}

// CacheService returns the cache as a port, or a nil interface.
func (b *Backends) CacheService() ports.CacheService {
	if b.Cache == nil {
		return nil
	}
	return b.Cache
}

// EventPublisher returns the publisher as a port, or a nil interface.
func (b *Backends) EventPublisher() ports.EventPublisher {
	if b.Publisher == nil {
		return nil
	}
	return b.Publisher
}

// Close releases every open backend.
func (b *Backends) Close() {
	if b.Publisher != nil {
		b.Publisher.Close()
	}
	if b.Cache != nil {
		b.Cache.Close()
	}
	if b.DB != nil {
		b.DB.Close()
	}
}

// BuildingStore opens the polygon store selected by cfg.Buildings.Source.
// The postgres source also sets b.DB.
func (b *Backends) BuildingStore(ctx context.Context, cfg *config.Config) (ports.BuildingStore, error) {
	switch cfg.Buildings.Source {
	case config.SourceEmbedded, "":
		return static.Default()
	case config.SourceFile:
		return static.LoadFile(cfg.Buildings.Path)
	case config.SourceShapefile:
		return static.LoadShapefile(cfg.Buildings.Path)
	case config.SourcePostgres:
		if b.DB == nil {
			db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
			if err != nil {
				return nil, fmt.Errorf("database: %w", err)
			}
			b.DB = db
		}
		return postgres.NewBuildingRepo(b.DB), nil
	}
	return nil, fmt.Errorf("unknown building source %q", cfg.Buildings.Source)
}

// ConnectOptional dials Valkey and NATS when configured. Failures are
// logged and leave the backend nil.
func (b *Backends) ConnectOptional(cfg *config.Config) {
	if cfg.Valkey.Addr != "" {
		cache, err := valkey.New(cfg.Valkey.Addr, cfg.Valkey.Password, cfg.Valkey.DB)
		if err != nil {
			slog.Warn("valkey unavailable, caching disabled", "error", err)
		} else {
			b.Cache = cache
		}
	}
	if cfg.NATS.URL != "" {
		pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable, shuttle points recorded directly", "error", err)
		} else {
			b.Publisher = pub
		}
	}
}
