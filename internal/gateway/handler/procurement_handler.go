package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/sdrt-erp/budget-ledger/internal/domain/procurement"
	"github.com/sdrt-erp/budget-ledger/internal/gateway/middleware"
	"github.com/sdrt-erp/budget-ledger/internal/gateway/service"
)

// ProcurementHandler handles HTTP requests for order lifecycle and
// commitment validation operations
type ProcurementHandler struct {
	commitmentService service.CommitmentService
	catalogService    service.CatalogService
	logger            *slog.Logger
}

// NewProcurementHandler creates a new procurement handler
func NewProcurementHandler(logger *slog.Logger, commitmentService service.CommitmentService, catalogService service.CatalogService) *ProcurementHandler {
	return &ProcurementHandler{
		commitmentService: commitmentService,
		catalogService:    catalogService,
		logger:            logger,
	}
}

// PreviewLines expands requisitions into projected order lines
func (h *ProcurementHandler) PreviewLines(c *gin.Context) {
	var req PreviewLinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	lines, err := h.commitmentService.PreviewLines(c.Request.Context(), req.RequisitionIDs)
	if err != nil {
		if errors.Is(err, procurement.ErrRequisitionNotFound{}) {
			RespondNotFound(c, "Requisition not found")
			return
		}
		if errors.Is(err, procurement.ErrNegativeEstimate) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to preview lines", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]LineResponse, 0, len(lines))
	for _, line := range lines {
		responses = append(responses, mapProjectionToResponse(line))
	}

	RespondOK(c, responses)
}

// ValidateCommitment checks prospective order lines against available budget.
// All violations come back at once in a 422 payload.
func (h *ProcurementHandler) ValidateCommitment(c *gin.Context) {
	var req ValidateCommitmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	lines, err := mapLineRequests(req.Lines)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	if err := h.commitmentService.ValidateCommitment(c.Request.Context(), req.OrderID, lines); err != nil {
		h.respondCommitmentError(c, err)
		return
	}

	RespondOK(c, gin.H{"valid": true})
}

// SubmitOrder transitions a draft order to submitted, engaging budgets
func (h *ProcurementHandler) SubmitOrder(c *gin.Context) {
	orderID := c.Param("id")
	correlationID := middleware.GetCorrelationID(c)

	if err := h.commitmentService.SubmitOrder(c.Request.Context(), orderID, correlationID); err != nil {
		h.respondOrderError(c, err)
		return
	}

	RespondOK(c, gin.H{"order_id": orderID, "status": string(procurement.StatusSubmitted)})
}

// CancelOrder transitions a submitted order to cancelled, releasing budgets
func (h *ProcurementHandler) CancelOrder(c *gin.Context) {
	orderID := c.Param("id")
	correlationID := middleware.GetCorrelationID(c)

	if err := h.commitmentService.CancelOrder(c.Request.Context(), orderID, correlationID); err != nil {
		h.respondOrderError(c, err)
		return
	}

	RespondOK(c, gin.H{"order_id": orderID, "status": string(procurement.StatusCancelled)})
}

// RepairLines rewrites broken item codes on an order's lines
func (h *ProcurementHandler) RepairLines(c *gin.Context) {
	orderID := c.Param("id")

	repaired, warnings, err := h.catalogService.RepairOrderLines(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, procurement.ErrOrderNotFound{}) {
			RespondNotFound(c, "Order not found")
			return
		}
		h.logger.Error("Failed to repair order lines", "order_id", orderID, "error", err)
		RespondInternalError(c)
		return
	}

	response := RepairLinesResponse{Warnings: mapWarnings(warnings)}
	for _, line := range repaired {
		response.Repaired = append(response.Repaired, mapOrderLineToResponse(line))
	}

	RespondOK(c, response)
}

// respondOrderError maps submit/cancel failures onto the HTTP surface
func (h *ProcurementHandler) respondOrderError(c *gin.Context, err error) {
	var transitionErr procurement.ErrInvalidTransition
	switch {
	case errors.Is(err, procurement.ErrOrderNotFound{}):
		RespondNotFound(c, "Order not found")
	case errors.As(err, &transitionErr):
		RespondConflict(c, err.Error())
	default:
		h.respondCommitmentError(c, err)
	}
}

// respondCommitmentError maps validation failures onto the HTTP surface
func (h *ProcurementHandler) respondCommitmentError(c *gin.Context, err error) {
	var exceededErr service.ErrBudgetExceeded
	if errors.As(err, &exceededErr) {
		details := make([]ViolationResponse, len(exceededErr.Violations))
		for i, v := range exceededErr.Violations {
			details[i] = ViolationResponse{
				AnalyticCode: v.Code,
				Required:     v.Required.String(),
				Available:    v.Available.String(),
			}
		}
		RespondUnprocessable(c, "BUDGET_EXCEEDED", exceededErr.Error(), details)
		return
	}

	h.logger.Error("Commitment operation failed", "error", err)
	RespondInternalError(c)
}

// mapLineRequests parses the decimal string fields of incoming lines
func mapLineRequests(reqs []LineRequest) ([]service.LineProjection, error) {
	lines := make([]service.LineProjection, 0, len(reqs))
	for _, req := range reqs {
		quantity, err := decimal.NewFromString(req.Quantity)
		if err != nil {
			return nil, errors.New("invalid quantity: " + req.Quantity)
		}
		rate, err := decimal.NewFromString(req.UnitRate)
		if err != nil {
			return nil, errors.New("invalid unit rate: " + req.UnitRate)
		}

		line := service.LineProjection{
			AnalyticCode:  req.AnalyticCode,
			Description:   req.Description,
			Quantity:      quantity,
			UnitRate:      rate,
			UnitOfMeasure: req.UnitOfMeasure,
		}
		if req.ScheduleDate != "" {
			scheduleDate, err := time.Parse("2006-01-02", req.ScheduleDate)
			if err != nil {
				return nil, errors.New("invalid schedule date: " + req.ScheduleDate)
			}
			line.ScheduleDate = scheduleDate
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// mapProjectionToResponse maps a line projection to a response DTO
func mapProjectionToResponse(line service.LineProjection) LineResponse {
	response := LineResponse{
		AnalyticCode:  line.AnalyticCode,
		Description:   line.Description,
		Quantity:      line.Quantity.String(),
		UnitRate:      line.UnitRate.String(),
		Amount:        line.Amount().String(),
		UnitOfMeasure: line.UnitOfMeasure,
	}
	if !line.ScheduleDate.IsZero() {
		response.ScheduleDate = line.ScheduleDate.Format("2006-01-02")
	}
	return response
}

// mapOrderLineToResponse maps a persisted order line to a response DTO
func mapOrderLineToResponse(line procurement.OrderLine) LineResponse {
	response := LineResponse{
		ItemCode:      line.ItemCode,
		AnalyticCode:  line.AnalyticCode,
		Description:   line.Description,
		Quantity:      line.Quantity.String(),
		UnitRate:      line.UnitRate.String(),
		Amount:        line.Amount.String(),
		UnitOfMeasure: line.UnitOfMeasure,
	}
	if line.ScheduleDate != nil {
		response.ScheduleDate = line.ScheduleDate.Format("2006-01-02")
	}
	return response
}
