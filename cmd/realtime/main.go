package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	natsadapter "github.com/samirrijal/campusnav/internal/adapters/nats"
	"github.com/samirrijal/campusnav/internal/adapters/valkey"
	"github.com/samirrijal/campusnav/internal/core/domain"
	"github.com/samirrijal/campusnav/internal/core/usecases"
	"github.com/samirrijal/campusnav/internal/pkg/config"
	"github.com/samirrijal/campusnav/internal/pkg/logging"
)

// realtime consumes shuttle points from JetStream and keeps the latest
// snapshot in Valkey for the API to serve.
func main() {
	cfg, err := config.Load("campusnav-realtime")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format, cfg.Telemetry.ServiceName)

	if cfg.NATS.URL == "" || cfg.Valkey.Addr == "" {
		log.Fatal("realtime needs both CAMPUSNAV_NATS_URL and CAMPUSNAV_VALKEY_ADDR")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cache, err := valkey.New(cfg.Valkey.Addr, cfg.Valkey.Password, cfg.Valkey.DB)
	if err != nil {
		log.Fatalf("valkey: %v", err)
	}
	defer cache.Close()

	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer sub.Close()

	shuttle := usecases.NewShuttleService(nil, cache)
	err = sub.SubscribeShuttlePoints(ctx, func(ctx context.Context, p *domain.ShuttlePoint) error {
		if err := shuttle.Record(ctx, p); err != nil {
			slog.Error("record shuttle point", "id", p.ID, "error", err)
			return err
		}
		slog.Debug("shuttle point recorded", "id", p.ID, "kind", p.Kind())
		return nil
	})
	if err != nil {
		log.Fatalf("subscribe: %v", err)
	}
	slog.Info("realtime recorder started", "subjects", natsadapter.ShuttleSubjects)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutting down realtime recorder", "signal", sig.String())
}
