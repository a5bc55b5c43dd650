package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/samirrijal/campusnav/internal/adapters/postgres"
	"github.com/samirrijal/campusnav/internal/pkg/config"
	"github.com/samirrijal/campusnav/internal/pkg/logging"
	"github.com/samirrijal/campusnav/migrations"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|list>")
	}

	cfg, err := config.Load("campusnav-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, "text", "")

	all, err := migrations.All()
	if err != nil {
		log.Fatalf("load migrations: %v", err)
	}

	switch os.Args[1] {
	case "list":
		for _, m := range all {
			slog.Info("migration", "name", m.Name)
		}
	case "up":
		if err := cfg.RequireDatabase(); err != nil {
			log.Fatal(err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		db, err := postgres.New(ctx, cfg.Database.DSN(), 1)
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		defer db.Close()

		for _, m := range all {
			if _, err := db.Pool.Exec(ctx, m.SQL); err != nil {
				log.Fatalf("exec %s: %v", m.Name, err)
			}
			slog.Info("applied", "migration", m.Name)
		}
		slog.Info("all migrations applied", "count", len(all))
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}
