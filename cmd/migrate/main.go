package main

// Run database migrations:
//   go run ./cmd/migrate

import (
	"context"
	"os"

	"packaging-backend/internal/shared/config"
	"packaging-backend/internal/shared/storage/db"
	"packaging-backend/internal/shared/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		telemetry.Error("config.invalid", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	telemetry.Configure(cfg.Log.Level, cfg.Log.Format)
	ctx := context.Background()

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		telemetry.Error("migrate.connect_failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"error": err.Error()})
		sqlDB.Close()
		os.Exit(1)
	}
	telemetry.Info("migrate.done", nil)
}
