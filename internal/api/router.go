package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/statement-ledger/internal/api/handler"
	"github.com/statement-ledger/internal/api/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	userHandler *handler.UserHandler,
	statementHandler *handler.StatementHandler,
	archiveHandler *handler.ArchiveHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		users := v1.Group("/users")
		{
			users.POST("", userHandler.Create)
			users.GET("/:user_id", userHandler.GetByID)

			// Ledger operations scoped to their owner
			users.POST("/:user_id/deposits", statementHandler.Deposit)
			users.POST("/:user_id/withdrawals", statementHandler.Withdraw)
			users.POST("/:user_id/transfers", statementHandler.Transfer)
			users.GET("/:user_id/balance", statementHandler.GetBalance)
			users.GET("/:user_id/statements/:statement_id", statementHandler.GetOperation)

			// Archive read model, fed from the event stream
			users.GET("/:user_id/archive", archiveHandler.GetUserArchive)
		}

		v1.GET("/archive", archiveHandler.GetByTimeRange)
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
