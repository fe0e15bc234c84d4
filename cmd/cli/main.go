package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/akeren/waitlist-foundry/config"
	"github.com/akeren/waitlist-foundry/internal/log"
	"github.com/akeren/waitlist-foundry/pkg/migrations"
	"github.com/akeren/waitlist-foundry/pkg/utils"
)

func main() {
	logger := log.NewLoggerFromEnv()

	config.InitializeEnvFile(logger) // Load envs early for CLI consistency

	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "migrate":
		if err := runMigrate(logger); err != nil {
			logger.Error("Database migration failed", "error", err.Error())
			os.Exit(1)
		}
		logger.Info("Database migrations completed")
		return

	case "export":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		if err := runExport(ctx, logger, args[1:]); err != nil {
			logger.Error("Waitlist export failed", "error", err.Error())
			os.Exit(1)
		}
		return

	case "help", "-h", "--help":
		printUsage()
		return

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func runMigrate(logger *log.Logger) error {
	storeCfg := config.NewStoreConfig()
	if storeCfg.Backend != config.StorePostgres && storeCfg.Backend != config.StoreSQLite {
		return fmt.Errorf("WAITLIST_STORE=%q has no SQL schema to migrate", storeCfg.Backend)
	}

	db, err := config.NewDatabase(logger, &config.DBConfig{Dialect: storeCfg.Backend, SQLitePath: storeCfg.SQLitePath})
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get SQL DB instance: %w", err)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			logger.Warn("Failed to close SQL DB after migration", "error", err.Error())
		}
	}()

	migrationsDir := utils.GetEnvTrimmedOrDefault("MIGRATIONS_DIR", "migrations/"+storeCfg.Backend)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	return migrations.Up(ctx, sqlDB, migrations.Config{
		Dir:     migrationsDir,
		Dialect: storeCfg.Backend,
		Logger:  logger,
	})
}

func printUsage() {
	fmt.Println("Usage: cli <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  migrate                          Apply SQL migrations for WAITLIST_STORE=postgres|sqlite and exit")
	fmt.Println("  export [--out path|gs://b/o]     Write every waitlist entry as CSV (stdout by default)")
}
