package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sdrt-erp/budget-ledger/internal/config"
	"github.com/sdrt-erp/budget-ledger/internal/gateway/handler"
	"github.com/sdrt-erp/budget-ledger/internal/gateway/service"
)

// Server handles HTTP requests and manages the application's lifecycle
type Server struct {
	logger     *slog.Logger
	httpServer *http.Server
	httpRouter *gin.Engine
}

// NewServer creates and configures a new HTTP server with the given services
func NewServer(
	log *slog.Logger,
	cfg *config.Config,
	ledgerService service.LedgerService,
	commitmentService service.CommitmentService,
	catalogService service.CatalogService,
) *Server {
	if cfg.Application.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	httpRouter := gin.New()

	budgetHandler := handler.NewBudgetHandler(log, ledgerService, commitmentService)
	procurementHandler := handler.NewProcurementHandler(log, commitmentService, catalogService)
	catalogHandler := handler.NewCatalogHandler(log, catalogService)

	setupRouter(log, httpRouter, budgetHandler, procurementHandler, catalogHandler)

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
