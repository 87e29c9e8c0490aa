package database

import (
	"context"
	"fmt"
	"time"

	"quizhub/internal/config"
	"quizhub/internal/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	"go.uber.org/zap"
)

// NewSQLXPostgresDB opens the connection pool and verifies it with a ping.
func NewSQLXPostgresDB(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres database: %w", err)
	}
	if cfg.DB.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.DB.MaxOpenConns)
		db.SetMaxIdleConns(cfg.DB.MaxOpenConns / 2)
	}
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres database: %w", err)
	}

	logger.Get().Info("Connected to postgres",
		zap.String("host", cfg.DB.Host),
		zap.String("database", cfg.DB.DBName))
	return db, nil
}
