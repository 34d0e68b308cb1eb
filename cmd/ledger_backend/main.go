package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/SscSPs/ledger_invoicing_app/internal/core/services"
	"github.com/SscSPs/ledger_invoicing_app/internal/handlers"
	"github.com/SscSPs/ledger_invoicing_app/internal/middleware"
	"github.com/SscSPs/ledger_invoicing_app/internal/platform/config"
	"github.com/SscSPs/ledger_invoicing_app/internal/platform/storage"
	"github.com/SscSPs/ledger_invoicing_app/internal/utils"
	"github.com/gin-gonic/gin"
)

// @title Ledger Invoicing API
// @version 1.0
// @description Invoices, customer ledgers and paginated statements.

// @host localhost:8080
// @BasePath /api/v1
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos, closeStore, err := storage.Open(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to open store", slog.String("driver", cfg.StorageDriver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	if err := handlers.RegisterValidators(); err != nil {
		logger.Error("Failed to register validators", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rateLimiter, err := middleware.NewMemoryLimiter(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid rate limit", slog.String("rate", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)
	defer posthogClient.Close()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	handlers.ConfigureEngine(r)

	// Global middleware (logging, recovery, CORS, actor)
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		middleware.CORS(cfg.CORSAllowedOrigins),
		middleware.ActorMiddleware(),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	serviceContainer := services.NewServiceContainer(cfg, repos)
	handlers.RegisterRoutes(r, cfg, serviceContainer,
		middleware.RateLimit(rateLimiter),
		middleware.PosthogMiddleware(posthogClient, cfg.OrgPrefix),
	)

	logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageDriver))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
