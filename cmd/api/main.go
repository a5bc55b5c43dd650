package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/campusnav/internal/adapters/http"
	natsadapter "github.com/samirrijal/campusnav/internal/adapters/nats"
	"github.com/samirrijal/campusnav/internal/app"
	"github.com/samirrijal/campusnav/internal/core/usecases"
	"github.com/samirrijal/campusnav/internal/pkg/config"
	"github.com/samirrijal/campusnav/internal/pkg/logging"
	"github.com/samirrijal/campusnav/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("campusnav-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format, cfg.Telemetry.ServiceName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPEndpoint, cfg.Telemetry.SampleRatio)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	var backends app.Backends
	defer backends.Close()

	store, err := backends.BuildingStore(ctx, cfg)
	if err != nil {
		log.Fatalf("buildings: %v", err)
	}
	backends.ConnectOptional(cfg)

	// Raw connection for the WebSocket relay.
	var natsConn *nats.Conn
	if cfg.NATS.URL != "" {
		if natsConn, err = natsadapter.RawConn(cfg.NATS.URL); err != nil {
			slog.Warn("nats ws conn unavailable", "error", err)
		} else {
			defer natsConn.Close()
		}
	}

	buildingSvc := usecases.NewBuildingService(store, backends.CacheService())
	deps := &http.Dependencies{
		Buildings:  buildingSvc,
		Directions: usecases.NewDirectionsService(buildingSvc),
		Shuttle:    usecases.NewShuttleService(backends.EventPublisher(), backends.CacheService()),
		NATS:       natsConn,
		RateLimit:  cfg.Server.RateLimit,
	}
	if backends.DB != nil {
		deps.DB = backends.DB
		go reportPoolMetrics(ctx, backends.DB.ReportPoolMetrics)
	}
	if backends.Cache != nil {
		deps.Cache = backends.Cache
	}

	markers, err := buildingSvc.Markers(ctx)
	if err != nil {
		log.Fatalf("load buildings: %v", err)
	}
	slog.Info("buildings loaded", "source", cfg.Buildings.Source, "count", len(markers))

	server := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024,
		AppName:      "Campus Navigation API",
	})
	server.Use(recover.New())
	server.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
		MaxAge:       3600,
	}))

	http.SetupRoutes(server, deps)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := server.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received, draining connections", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}
	slog.Info("server stopped")
}

// reportPoolMetrics refreshes the pool gauges until ctx ends.
func reportPoolMetrics(ctx context.Context, report func()) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		report()
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
