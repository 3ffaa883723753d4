package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/sdrt-erp/budget-ledger/internal/domain/catalog"
	"github.com/sdrt-erp/budget-ledger/internal/gateway/service"
)

// CatalogHandler handles HTTP requests for catalog reconciliation operations
type CatalogHandler struct {
	catalogService service.CatalogService
	logger         *slog.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(logger *slog.Logger, catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// EnsureEntry gets or creates the catalog entry backing an analytic code.
// Provisioning problems are reported as warnings in the payload, not as
// failed requests.
func (h *CatalogHandler) EnsureEntry(c *gin.Context) {
	var req EnsureEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	entry, warnings, err := h.catalogService.EnsureEntry(c.Request.Context(), req.Code, req.Description)
	if err != nil {
		if errors.Is(err, catalog.ErrEmptyCode) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to ensure catalog entry", "code", req.Code, "error", err)
		RespondInternalError(c)
		return
	}

	if entry == nil {
		RespondOK(c, CatalogEntryResponse{Code: req.Code, Warnings: mapWarnings(warnings)})
		return
	}

	RespondOK(c, mapEntryToResponse(entry, warnings))
}

// BackfillDirectionLabel sets the direction label on an entry when it differs
// from the stored value
func (h *CatalogHandler) BackfillDirectionLabel(c *gin.Context) {
	code := c.Param("code")

	var req BackfillDirectionLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	updated, err := h.catalogService.BackfillDirectionLabel(c.Request.Context(), code, req.DirectionLabel)
	if err != nil {
		if errors.Is(err, catalog.ErrEntryNotFound{}) {
			RespondNotFound(c, "Catalog entry not found")
			return
		}
		h.logger.Error("Failed to backfill direction label", "code", code, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, gin.H{"code": code, "updated": updated})
}

// mapEntryToResponse maps a catalog entry to a response DTO
func mapEntryToResponse(entry *catalog.Entry, warnings []catalog.Warning) CatalogEntryResponse {
	return CatalogEntryResponse{
		Code:           entry.Code,
		DisplayName:    entry.DisplayName,
		UnitOfMeasure:  entry.UnitOfMeasure,
		Category:       entry.Category,
		Purchasable:    entry.Purchasable,
		Stockable:      entry.Stockable,
		ExpenseAccount: entry.ExpenseAccount,
		DirectionLabel: entry.DirectionLabel,
		Warnings:       mapWarnings(warnings),
	}
}
