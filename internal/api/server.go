package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/familia-ledger/internal/api/handler"
	"github.com/familia-ledger/internal/api/service"
	"github.com/familia-ledger/internal/auth"
	"github.com/familia-ledger/internal/config"
)

// Services bundles the application services the HTTP layer exposes
type Services struct {
	Ledger   service.LedgerService
	Summary  service.SummaryService
	Insights service.InsightsService
	Account  service.AccountService
	Category service.CategoryService
	Audit    service.AuditService
}

// Server handles HTTP requests and manages the application's lifecycle
type Server struct {
	logger     *slog.Logger
	httpServer *http.Server
	httpRouter *gin.Engine
}

// NewServer creates and configures a new HTTP server with the given services
func NewServer(log *slog.Logger, cfg *config.Config, tokens *auth.TokenManager, services Services) *Server {
	if cfg.Application.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	httpRouter := gin.New()

	ledgerHandler := handler.NewLedgerHandler(log, services.Ledger)
	summaryHandler := handler.NewSummaryHandler(log, services.Summary)
	insightsHandler := handler.NewInsightsHandler(log, services.Insights)
	accountHandler := handler.NewAccountHandler(log, services.Account)
	institutionHandler := handler.NewInstitutionHandler(log, services.Account)
	categoryHandler := handler.NewCategoryHandler(log, services.Category)
	auditHandler := handler.NewAuditHandler(log, services.Audit)

	setupRouter(log, httpRouter, tokens,
		ledgerHandler, summaryHandler, insightsHandler, accountHandler,
		institutionHandler, categoryHandler, auditHandler)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      httpRouter,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		logger:     log,
		httpServer: httpServer,
		httpRouter: httpRouter,
	}
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server with a timeout
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.httpServer.WriteTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop HTTP server: %w", err)
	}

	return nil
}
