package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bookbot/internal/config"
	"bookbot/internal/database"
	"bookbot/internal/logger"

	"go.uber.org/zap"
)

func main() {
	direction := flag.String("direction", "up", "migration direction: up or down")
	password := flag.String("password", "", "root password, required for down")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg.PGLink, database.DefaultRetry, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	switch *direction {
	case "up":
		err = database.Migrate(db, cfg.MigrationsPath, log)
	case "down":
		err = database.Rollback(db, cfg.MigrationsPath, *password, cfg.RootPass, log)
	default:
		log.Fatal("Unknown migration direction", zap.String("direction", *direction))
	}
	if err != nil {
		log.Fatal("Migration failed", zap.String("direction", *direction), zap.Error(err))
	}
}
