package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/familia-ledger/internal/api"
	"github.com/familia-ledger/internal/api/service"
	"github.com/familia-ledger/internal/auth"
	"github.com/familia-ledger/internal/config"
	"github.com/familia-ledger/internal/data/mongo"
	"github.com/familia-ledger/internal/data/postgres"
	"github.com/familia-ledger/internal/logger"
	"github.com/familia-ledger/internal/mutation"
	"github.com/familia-ledger/internal/platform/messaging/producers"
	"github.com/familia-ledger/internal/platform/persistence"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("api")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// Initialize token manager
	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		log.Error("Failed to initialize token manager", "error", err)
		os.Exit(1)
	}

	// Initialize databases with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	// Initialize the change feed producer
	eventProducer, err := producers.NewLedgerEventProducer(appCtx, log, &cfg.Kafka, cfg.WorkerPool.Size)
	if err != nil {
		log.Error("Failed to initialize change feed producer", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	ledgerRepo := postgres.NewLedgerRepository(log, postgresDB)
	accountRepo := postgres.NewAccountRepository(log, postgresDB)
	institutionRepo := postgres.NewInstitutionRepository(log, postgresDB)
	categoryRepo := postgres.NewCategoryRepository(log, postgresDB)
	auditRepo := mongo.NewAuditRepository(log, mongoDB.Database())

	// Initialize the mutation coordinator and services
	coordinator := mutation.NewCoordinator(ledgerRepo, auditRepo, eventProducer, log)
	services := api.Services{
		Ledger:   service.NewLedgerService(coordinator, ledgerRepo),
		Summary:  service.NewSummaryService(ledgerRepo, accountRepo),
		Insights: service.NewInsightsService(ledgerRepo, accountRepo, categoryRepo),
		Account:  service.NewAccountService(accountRepo, institutionRepo, ledgerRepo),
		Category: service.NewCategoryService(categoryRepo, ledgerRepo),
		Audit:    service.NewAuditService(auditRepo),
	}

	// Initialize REST server
	server := api.NewServer(log, cfg, tokens, services)
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Shutdown HTTP server first so no new mutations arrive
	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	// Let in-flight change feed publishes drain
	if err = eventProducer.Close(); err != nil {
		log.Error("Error closing change feed producer", "error", err)
	}

	postgresDB.Close()

	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("Server shutdown completed with errors")
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
