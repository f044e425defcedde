package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/familia-ledger/internal/api/handler"
	"github.com/familia-ledger/internal/api/middleware"
	"github.com/familia-ledger/internal/auth"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	tokens *auth.TokenManager,
	ledgerHandler *handler.LedgerHandler,
	summaryHandler *handler.SummaryHandler,
	insightsHandler *handler.InsightsHandler,
	accountHandler *handler.AccountHandler,
	institutionHandler *handler.InstitutionHandler,
	categoryHandler *handler.CategoryHandler,
	auditHandler *handler.AuditHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints, all behind the bearer token
	v1 := r.Group("/api/v1")
	v1.Use(middleware.Auth(tokens))
	{
		// Ledger operations
		entries := v1.Group("/entries")
		{
			entries.POST("", ledgerHandler.Create)
			entries.GET("", ledgerHandler.List)
			entries.GET("/:id", ledgerHandler.GetByID)
			entries.PUT("/:id", ledgerHandler.Update)
			entries.DELETE("/:id", ledgerHandler.Delete)
		}

		// Period aggregate and spending breakdowns
		v1.GET("/summary", summaryHandler.Get)
		v1.GET("/insights", insightsHandler.Get)

		// Payment instruments
		accounts := v1.Group("/accounts")
		{
			accounts.POST("", accountHandler.Create)
			accounts.GET("", accountHandler.List)
			accounts.GET("/:id", accountHandler.GetByID)
			accounts.PUT("/:id", accountHandler.Update)
			accounts.DELETE("/:id", accountHandler.Delete)
			accounts.POST("/:id/deactivate", accountHandler.Deactivate)
			accounts.GET("/:id/balance", accountHandler.Balance)
			accounts.GET("/:id/statement", accountHandler.Statement)
		}

		// Institutions
		institutions := v1.Group("/institutions")
		{
			institutions.POST("", institutionHandler.Create)
			institutions.GET("", institutionHandler.List)
			institutions.PUT("/:id", institutionHandler.Update)
			institutions.DELETE("/:id", institutionHandler.Delete)
		}

		// Categories
		categories := v1.Group("/categories")
		{
			categories.POST("", categoryHandler.Create)
			categories.GET("", categoryHandler.List)
			categories.PUT("/:id", categoryHandler.Update)
			categories.DELETE("/:id", categoryHandler.Delete)
		}

		// Audit trail
		audit := v1.Group("/audit")
		{
			audit.GET("/deletions", auditHandler.Deletions)
			audit.GET("/updates", auditHandler.Updates)
			audit.GET("/reasons", auditHandler.Reasons)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
