// Command purge_identities deletes every account at the identity provider.
// It is used to reset a development tenant before reseeding and refuses to
// run anywhere else.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"quizhub/internal/config"
	"quizhub/internal/identity"
	"quizhub/internal/logger"

	"go.uber.org/zap"
)

const listPageSize = 1000

func main() {
	if env := os.Getenv("ENV"); env != "development" {
		log.Fatalf("Refusing to purge identities with ENV=%q; set ENV=development", env)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	admin := identity.NewAdminClient(ctx, cfg.Identity)
	accounts, err := identity.ListAllAccounts(ctx, admin, listPageSize)
	if err != nil {
		l.Fatal("Failed to list identity accounts", zap.Error(err))
	}
	if len(accounts) == 0 {
		fmt.Println("No identity accounts to delete")
		return
	}

	ids := make([]string, 0, len(accounts))
	for _, a := range accounts {
		ids = append(ids, a.AuthID)
	}
	if err := admin.DeleteAccounts(ctx, ids); err != nil {
		l.Fatal("Failed to delete identity accounts", zap.Int("count", len(ids)), zap.Error(err))
	}
	fmt.Printf("Deleted %d identity accounts\n", len(ids))
}
