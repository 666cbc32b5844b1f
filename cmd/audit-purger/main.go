package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	custodypostgres "github.com/metalsdesk/admin-api/internal/domains/custody/adapters/persistence/postgres"
	platformpostgres "github.com/metalsdesk/admin-api/internal/platform/postgres"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, cleanup := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot purge audit log")
	}

	store := custodypostgres.NewAuditStore(db, retentionFromEnv())
	purged, err := store.PurgeExpired(ctx)
	if err != nil {
		log.Fatalf("failed to purge audit log: %v", err)
	}
	log.Printf("audit purge completed, removed %d rows", purged)
}

func retentionFromEnv() time.Duration {
	raw := strings.TrimSpace(os.Getenv("AUDIT_RETENTION_DAYS"))
	if raw == "" {
		return custodypostgres.DefaultAuditRetention
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days <= 0 {
		return custodypostgres.DefaultAuditRetention
	}
	return time.Duration(days) * 24 * time.Hour
}
