package main

import (
	"flag"
	"log"

	"quizhub/internal/config"
	"quizhub/internal/database"
	"quizhub/internal/logger"

	"go.uber.org/zap"
)

// Usage: migrate [up|down]. Defaults to up.
func main() {
	flag.Parse()
	direction := flag.Arg(0)
	if direction == "" {
		direction = "up"
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer logger.Sync()

	switch direction {
	case "up":
		err = database.RunMigrations(cfg.GetDSN())
	case "down":
		err = database.RollbackMigrations(cfg.GetDSN())
	default:
		l.Fatal("Unknown migration direction, expected up or down", zap.String("direction", direction))
	}
	if err != nil {
		l.Fatal("Migration failed", zap.String("direction", direction), zap.Error(err))
	}
	l.Info("Migrations applied", zap.String("direction", direction))
}
