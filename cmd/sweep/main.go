// Command sweep runs one deletion sweep and one identity cleanup relay pass.
// It is meant for cron when the in-process sweeper is disabled.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"quizhub/internal/adapter"
	"quizhub/internal/cache"
	"quizhub/internal/config"
	"quizhub/internal/database"
	"quizhub/internal/domain"
	"quizhub/internal/identity"
	"quizhub/internal/logger"
	"quizhub/internal/metrics"
	"quizhub/internal/repository"
	"quizhub/internal/service"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup happens before exit.
func run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer logger.Sync()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN, Environment: cfg.Sentry.Environment}); err != nil {
			l.Error("Sentry init failed", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	db, err := database.NewSQLXPostgresDB(ctx, cfg)
	if err != nil {
		l.Error("Failed to connect to database", zap.Error(err))
		return 1
	}
	defer db.Close()

	var profileCache domain.Cache
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		l.Warn("Redis unavailable, profile cache will not be invalidated", zap.Error(err))
	} else {
		defer redisClient.Close()
		profileCache = adapter.NewRedisCacheAdapter(redisClient)
	}

	users := repository.NewSQLXUserRepository(db)
	outbox := repository.NewSQLXIdentityOutbox(db)
	relay := service.NewOutboxRelay(outbox, identity.NewAdminClient(ctx, cfg.Identity), metrics.Nop{}, cfg.Deletion.OutboxBatchSize)
	deletion := service.NewDeletionService(
		repository.NewTransactionManagerAdapter(db),
		users,
		repository.NewQuizDatabaseAdapter(db),
		repository.NewSQLXFriendshipRepository(db),
		outbox,
		relay,
		profileCache,
		metrics.Nop{},
		cfg.Deletion.GracePeriod,
	)
	sweep := service.NewSweepService(users, deletion, metrics.Nop{}, cfg.Deletion.SweepConcurrency)

	now := time.Now()
	result, err := sweep.Run(ctx, now)
	if err != nil {
		l.Error("Sweep failed", zap.Error(err))
		return 1
	}
	for _, o := range result.Outcomes {
		if o.Err != nil {
			l.Warn("Deletion failed", zap.String("user_id", o.UserID), zap.Error(o.Err))
		}
	}

	relayed, err := relay.RelayDue(ctx, now)
	if err != nil {
		l.Error("Outbox relay failed", zap.Error(err))
	}

	fmt.Printf("processed=%d failed=%d skipped=%d identity_cleanups=%d\n", result.Processed, result.Failed, result.Skipped, relayed.Delivered)
	if result.Failed > 0 {
		return 1
	}
	return 0
}
