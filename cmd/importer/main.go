package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"time"

	"go.temporal.io/sdk/client"
	tlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"

	"github.com/samirrijal/campusnav/internal/adapters/postgres"
	"github.com/samirrijal/campusnav/internal/adapters/valkey"
	"github.com/samirrijal/campusnav/internal/core/ports"
	"github.com/samirrijal/campusnav/internal/core/usecases"
	"github.com/samirrijal/campusnav/internal/pkg/config"
	"github.com/samirrijal/campusnav/internal/pkg/logging"
	"github.com/samirrijal/campusnav/internal/workflows"
)

// importer runs the building import worker. With -start or -source it
// instead starts one import run against a running worker and waits for it.
func main() {
	start := flag.String("start", "", "start an import from this path and wait for it")
	source := flag.String("source", config.SourceShapefile, "source format for -start: embedded, file or shapefile")
	flag.Parse()

	cfg, err := config.Load("campusnav-importer")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format, cfg.Telemetry.ServiceName)

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    tlog.NewStructuredLogger(logger),
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	if flagPassed("start") || flagPassed("source") {
		runOnce(c, cfg.Temporal.TaskQueue, workflows.BuildingImportInput{Source: *source, Path: *start})
		return
	}

	if err := cfg.RequireDatabase(); err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()
	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()
	repo := postgres.NewBuildingRepo(db)

	var cache ports.CacheService
	if cfg.Valkey.Addr != "" {
		vc, err := valkey.New(cfg.Valkey.Addr, cfg.Valkey.Password, cfg.Valkey.DB)
		if err != nil {
			slog.Warn("valkey unavailable, cache invalidation skipped", "error", err)
		} else {
			defer vc.Close()
			cache = vc
		}
	}

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})
	w.RegisterWorkflow(workflows.BuildingImportWorkflow)
	w.RegisterActivity(&workflows.BuildingImportActivities{
		Repo:      repo,
		Buildings: usecases.NewBuildingService(repo, cache),
	})

	slog.Info("import worker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}

func runOnce(c client.Client, taskQueue string, input workflows.BuildingImportInput) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	run, err := c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        fmt.Sprintf("building-import-%d", time.Now().Unix()),
		TaskQueue: taskQueue,
	}, workflows.BuildingImportWorkflow, input)
	if err != nil {
		log.Fatalf("start import: %v", err)
	}
	slog.Info("import started", "workflow_id", run.GetID(), "run_id", run.GetRunID())

	var result workflows.BuildingImportResult
	if err := run.Get(ctx, &result); err != nil {
		log.Fatalf("import failed: %v", err)
	}
	slog.Info("import finished", "imported", result.Imported, "skipped", len(result.Skipped))
	for _, s := range result.Skipped {
		slog.Warn("skipped building", "reason", s)
	}
}

func flagPassed(name string) bool {
	passed := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			passed = true
		}
	})
	return passed
}
