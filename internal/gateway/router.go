package gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sdrt-erp/budget-ledger/internal/gateway/handler"
	"github.com/sdrt-erp/budget-ledger/internal/gateway/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	budgetHandler *handler.BudgetHandler,
	procurementHandler *handler.ProcurementHandler,
	catalogHandler *handler.CatalogHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Budget ledger operations
		budgets := v1.Group("/budgets")
		{
			budgets.POST("", budgetHandler.Create)
			budgets.GET("", budgetHandler.List)
			budgets.GET("/:code", budgetHandler.GetByCode)
			budgets.GET("/:code/commitments", budgetHandler.GetCommitments)
		}

		// Commitment preview and validation
		commitments := v1.Group("/commitments")
		{
			commitments.POST("/preview", procurementHandler.PreviewLines)
			commitments.POST("/validate", procurementHandler.ValidateCommitment)
		}

		// Order lifecycle operations
		orders := v1.Group("/orders")
		{
			orders.POST("/:id/submit", procurementHandler.SubmitOrder)
			orders.POST("/:id/cancel", procurementHandler.CancelOrder)
			orders.POST("/:id/repair-lines", procurementHandler.RepairLines)
		}

		// Catalog reconciliation operations
		catalogGroup := v1.Group("/catalog")
		{
			catalogGroup.POST("/entries", catalogHandler.EnsureEntry)
			catalogGroup.PATCH("/entries/:code/direction-label", catalogHandler.BackfillDirectionLabel)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
