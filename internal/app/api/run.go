package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	accountsmemory "github.com/metalsdesk/admin-api/internal/domains/accounts/adapters/memory"
	accountspostgres "github.com/metalsdesk/admin-api/internal/domains/accounts/adapters/persistence/postgres"
	accountsapp "github.com/metalsdesk/admin-api/internal/domains/accounts/application"
	accountsports "github.com/metalsdesk/admin-api/internal/domains/accounts/ports"
	catalogmemory "github.com/metalsdesk/admin-api/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/metalsdesk/admin-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/metalsdesk/admin-api/internal/domains/catalog/application"
	catalogports "github.com/metalsdesk/admin-api/internal/domains/catalog/ports"
	custodymemory "github.com/metalsdesk/admin-api/internal/domains/custody/adapters/memory"
	custodyobs "github.com/metalsdesk/admin-api/internal/domains/custody/adapters/observability"
	custodypostgres "github.com/metalsdesk/admin-api/internal/domains/custody/adapters/persistence/postgres"
	custodyapp "github.com/metalsdesk/admin-api/internal/domains/custody/application"
	custodyports "github.com/metalsdesk/admin-api/internal/domains/custody/ports"
	"github.com/metalsdesk/admin-api/internal/platform/migrations"
	platformobservability "github.com/metalsdesk/admin-api/internal/platform/observability"
	platformpostgres "github.com/metalsdesk/admin-api/internal/platform/postgres"
)

// Run boots the admin HTTP API with observability and repositories wired.
func Run(ctx context.Context) error {
	const serviceName = "metalsdesk-admin-api"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	db, cleanupDB := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanupDB()
	if db != nil {
		if err := migrations.Run(db); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
	}

	custodyRepo := buildCustodyRepository(db, logger)
	custodyService := custodyobs.New(
		custodyapp.NewService(custodyRepo),
		custodyobs.WithLogger(logger),
		custodyobs.WithTracer(instruments.Tracer("internal.custody.application")),
		custodyobs.WithMeter(instruments.Meter("internal.custody.application")),
	)

	catalogService := catalogapp.NewService(buildCatalogRepository(db, logger))
	accountsService := accountsapp.NewService(
		buildAccountsRepository(db, logger),
		[]byte(cfg.JWTSecret),
		cfg.JWTTTL,
	)

	router := NewRouter(serviceName, accountsService, custodyService, catalogService)
	addr := ":" + cfg.Port
	logger.Info("admin API listening", slog.String("addr", addr), slog.String("environment", cfg.Environment))
	if err := router.Run(addr); err != nil {
		logger.Error("admin API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

func buildCustodyRepository(db *gorm.DB, logger *slog.Logger) custodyports.Repository {
	if db == nil {
		logger.Warn("custody repository running in-memory")
		return custodymemory.NewRepository()
	}
	return custodypostgres.NewRepository(db)
}

func buildCatalogRepository(db *gorm.DB, logger *slog.Logger) catalogports.Repository {
	if db == nil {
		logger.Warn("catalog repository running in-memory")
		return catalogmemory.NewRepository()
	}
	return catalogpostgres.NewRepository(db)
}

func buildAccountsRepository(db *gorm.DB, logger *slog.Logger) accountsports.Repository {
	if db == nil {
		logger.Warn("accounts repository running in-memory")
		return accountsmemory.NewRepository()
	}
	return accountspostgres.NewRepository(db)
}
