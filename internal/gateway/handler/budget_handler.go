package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/sdrt-erp/budget-ledger/internal/domain/budget"
	"github.com/sdrt-erp/budget-ledger/internal/domain/catalog"
	"github.com/sdrt-erp/budget-ledger/internal/domain/commitment"
	"github.com/sdrt-erp/budget-ledger/internal/gateway/service"
)

// BudgetHandler handles HTTP requests for budget ledger operations
type BudgetHandler struct {
	ledgerService     service.LedgerService
	commitmentService service.CommitmentService
	logger            *slog.Logger
}

// NewBudgetHandler creates a new budget handler
func NewBudgetHandler(logger *slog.Logger, ledgerService service.LedgerService, commitmentService service.CommitmentService) *BudgetHandler {
	return &BudgetHandler{
		ledgerService:     ledgerService,
		commitmentService: commitmentService,
		logger:            logger,
	}
}

// Create handles creation of a new budget, synthesizing the analytic code
// from the submitted segments
func (h *BudgetHandler) Create(c *gin.Context) {
	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	total, err := decimal.NewFromString(req.Total)
	if err != nil {
		h.logger.Error("Invalid total amount", "total", req.Total, "error", err)
		RespondBadRequest(c, "Invalid total amount")
		return
	}

	segments := budget.Segments{
		Direction: req.Direction,
		Program:   req.Program,
		Project:   req.Project,
		Agreement: req.Agreement,
		OrgUnit:   req.OrgUnit,
		Action:    req.Action,
		Account:   req.Account,
		Free1:     req.Free1,
		Free2:     req.Free2,
		Free3:     req.Free3,
	}

	b, warnings, err := h.ledgerService.CreateBudget(c.Request.Context(), segments, total, req.Description, req.DirectionLabel)
	if err != nil {
		var duplicateErr budget.ErrDuplicateCode
		var tooLongErr budget.ErrCodeTooLong
		switch {
		case errors.As(err, &duplicateErr):
			h.logger.Warn("Attempt to create duplicate budget", "analytic_code", duplicateErr.Code)
			RespondConflict(c, "Budget with this analytic code already exists")
		case errors.As(err, &tooLongErr):
			RespondBadRequest(c, err.Error())
		case errors.Is(err, budget.ErrNegativeTotal):
			RespondBadRequest(c, err.Error())
		default:
			h.logger.Error("Failed to create budget", "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondCreated(c, mapBudgetToResponse(b, warnings))
}

// GetByCode retrieves a budget by its analytic code, returning 404 if not found
func (h *BudgetHandler) GetByCode(c *gin.Context) {
	code := c.Param("code")

	b, err := h.ledgerService.GetBudget(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, budget.ErrBudgetNotFound{}) {
			RespondNotFound(c, "Budget not found")
			return
		}
		h.logger.Error("Failed to get budget", "analytic_code", code, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapBudgetToResponse(b, nil))
}

// List retrieves a paginated budget listing ordered by analytic code
func (h *BudgetHandler) List(c *gin.Context) {
	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		h.logger.Error("Invalid pagination parameters", "error", err)
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	budgets, total, err := h.ledgerService.ListBudgets(c.Request.Context(), pagination.Page, pagination.PerPage)
	if err != nil {
		h.logger.Error("Failed to list budgets", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]BudgetResponse, 0, len(budgets))
	for _, b := range budgets {
		responses = append(responses, mapBudgetToResponse(b, nil))
	}

	RespondWithPaginatedData(c, http.StatusOK, responses, pagination.Page, pagination.PerPage, int(total))
}

// GetCommitments retrieves the paginated commitment audit trail for a budget
func (h *BudgetHandler) GetCommitments(c *gin.Context) {
	code := c.Param("code")

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		h.logger.Error("Invalid pagination parameters", "error", err)
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	entries, total, err := h.commitmentService.GetCommitmentsByCode(c.Request.Context(), code, pagination.Page, pagination.PerPage)
	if err != nil {
		h.logger.Error("Failed to get commitments", "analytic_code", code, "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]CommitmentEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, mapCommitmentEntryToResponse(entry))
	}

	RespondWithPaginatedData(c, http.StatusOK, responses, pagination.Page, pagination.PerPage, int(total))
}

// mapBudgetToResponse maps a budget entity to a budget response DTO
func mapBudgetToResponse(b *budget.Budget, warnings []catalog.Warning) BudgetResponse {
	return BudgetResponse{
		AnalyticCode:   b.AnalyticCode,
		Total:          b.Total.String(),
		Committed:      b.Committed.String(),
		Available:      b.Available.String(),
		Description:    b.Description,
		DirectionLabel: b.DirectionLabel,
		Warnings:       mapWarnings(warnings),
		CreatedAt:      b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      b.UpdatedAt.Format(time.RFC3339),
	}
}

// mapCommitmentEntryToResponse maps a commitment entry to a response DTO
func mapCommitmentEntryToResponse(entry *commitment.Entry) CommitmentEntryResponse {
	return CommitmentEntryResponse{
		ID:             entry.ID.String(),
		AnalyticCode:   entry.AnalyticCode,
		OrderID:        entry.OrderID,
		Kind:           string(entry.Kind),
		Amount:         entry.Amount,
		CommittedAfter: entry.CommittedAfter,
		AvailableAfter: entry.AvailableAfter,
		CorrelationID:  entry.CorrelationID,
		CreatedAt:      entry.CreatedAt.Format(time.RFC3339),
	}
}

// mapWarnings maps catalog warnings to their response DTOs
func mapWarnings(warnings []catalog.Warning) []WarningResponse {
	if len(warnings) == 0 {
		return nil
	}
	responses := make([]WarningResponse, len(warnings))
	for i, w := range warnings {
		responses[i] = WarningResponse{Code: w.Code, Reason: w.Reason}
	}
	return responses
}
