package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/sdrt-erp/budget-ledger/internal/domain/budget"
	"github.com/sdrt-erp/budget-ledger/internal/domain/commitment"
	"github.com/sdrt-erp/budget-ledger/internal/domain/outbox"
	"github.com/sdrt-erp/budget-ledger/internal/domain/procurement"
	"github.com/sdrt-erp/budget-ledger/internal/platform/persistence"
)

// CommitmentServiceImpl implements the CommitmentService interface
type CommitmentServiceImpl struct {
	db              persistence.TxRunner
	budgetRepo      budget.Repository
	orderRepo       procurement.OrderRepository
	requisitionRepo procurement.RequisitionRepository
	outboxRepo      outbox.Repository
	commitmentRepo  commitment.Repository
	defaultUOM      string
	logger          *slog.Logger
}

// NewCommitmentService creates a new commitment service
func NewCommitmentService(
	logger *slog.Logger,
	db persistence.TxRunner,
	budgetRepo budget.Repository,
	orderRepo procurement.OrderRepository,
	requisitionRepo procurement.RequisitionRepository,
	outboxRepo outbox.Repository,
	commitmentRepo commitment.Repository,
	defaultUOM string,
) CommitmentService {
	return &CommitmentServiceImpl{
		db:              db,
		budgetRepo:      budgetRepo,
		orderRepo:       orderRepo,
		requisitionRepo: requisitionRepo,
		outboxRepo:      outboxRepo,
		commitmentRepo:  commitmentRepo,
		defaultUOM:      defaultUOM,
		logger:          logger,
	}
}

// PreviewLines expands requisition lines into order line projections. Each
// line's estimate is recomputed from quantity and effective rate; the unit of
// measure falls back to the configured default when the source carries none.
func (s *CommitmentServiceImpl) PreviewLines(ctx context.Context, requisitionIDs []string) ([]LineProjection, error) {
	var projections []LineProjection
	for _, id := range requisitionIDs {
		req, err := s.requisitionRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		scheduleDate := req.EffectiveScheduleDate()
		for _, line := range req.Lines {
			line.UnitRate = line.EffectiveRate()
			if err := line.RecomputeEstimate(); err != nil {
				return nil, fmt.Errorf("requisition %s, code %q: %w", id, line.AnalyticCode, err)
			}
			uom := line.UnitOfMeasure
			if uom == "" {
				uom = s.defaultUOM
			}
			projections = append(projections, LineProjection{
				AnalyticCode:  line.AnalyticCode,
				Description:   line.Description,
				Quantity:      line.Quantity,
				UnitRate:      line.UnitRate,
				UnitOfMeasure: uom,
				ScheduleDate:  scheduleDate,
			})
		}
	}
	return projections, nil
}

// ValidateCommitment checks the projected amounts against available budget.
// When orderID names an existing draft order, its persisted line amounts are
// added on top of the projections so re-validating a draft about to grow does
// not pass on stale numbers. All violations are aggregated; a missing budget
// is itself a violation with zero available.
func (s *CommitmentServiceImpl) ValidateCommitment(ctx context.Context, orderID string, lines []LineProjection) error {
	required := make(map[string]decimal.Decimal)
	var codes []string

	add := func(code string, amount decimal.Decimal) {
		if code == "" || amount.IsZero() {
			return
		}
		if _, ok := required[code]; !ok {
			codes = append(codes, code)
		}
		required[code] = required[code].Add(amount)
	}

	for _, line := range lines {
		add(line.AnalyticCode, line.Amount())
	}

	if orderID != "" {
		order, err := s.orderRepo.GetByID(ctx, orderID)
		if err != nil && !errors.Is(err, procurement.ErrOrderNotFound{}) {
			return err
		}
		if order != nil && order.Status == procurement.StatusDraft {
			for _, line := range order.Lines {
				add(line.AnalyticCode, line.Amount)
			}
		}
	}

	var violations []Violation
	for _, code := range codes {
		req := required[code]
		b, err := s.budgetRepo.GetByCode(ctx, code)
		if err != nil {
			if errors.Is(err, budget.ErrBudgetNotFound{}) {
				violations = append(violations, Violation{Code: code, Required: req, Available: decimal.Zero})
				continue
			}
			return err
		}
		if req.GreaterThan(b.Available.Add(budget.Epsilon)) {
			violations = append(violations, Violation{Code: code, Required: req, Available: b.Available})
		}
	}

	if len(violations) > 0 {
		return ErrBudgetExceeded{Violations: violations}
	}
	return nil
}

// SubmitOrder engages budgets for a draft order. The state transition, every
// budget delta, the commitment outbox records, and the status write all land
// in one transaction; a single violation or missing write rolls everything
// back.
func (s *CommitmentServiceImpl) SubmitOrder(ctx context.Context, orderID, correlationID string) error {
	logger := s.logger
	if correlationID != "" {
		logger = s.logger.With("correlation_id", correlationID)
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	if err := s.ValidateCommitment(ctx, "", projectOrderLines(order)); err != nil {
		return err
	}

	if err := order.Submit(); err != nil {
		return err
	}

	err = s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if err := s.applyDeltas(ctx, tx, order, commitment.KindEngage, correlationID, logger); err != nil {
			return err
		}
		return s.orderRepo.WithTx(tx).UpdateStatus(ctx, order.ID, order.Status)
	})
	if err != nil {
		return err
	}

	logger.Info("Order submitted", "order_id", order.ID, "lines", len(order.Lines))
	return nil
}

// CancelOrder releases the budgets engaged by a submitted order. Budgets that
// disappeared since submission are skipped; clamping in the domain layer means
// an already-released budget silently stays at zero.
func (s *CommitmentServiceImpl) CancelOrder(ctx context.Context, orderID, correlationID string) error {
	logger := s.logger
	if correlationID != "" {
		logger = s.logger.With("correlation_id", correlationID)
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	if err := order.Cancel(); err != nil {
		return err
	}

	err = s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if err := s.applyDeltas(ctx, tx, order, commitment.KindDisengage, correlationID, logger); err != nil {
			return err
		}
		return s.orderRepo.WithTx(tx).UpdateStatus(ctx, order.ID, order.Status)
	})
	if err != nil {
		return err
	}

	logger.Info("Order cancelled", "order_id", order.ID, "lines", len(order.Lines))
	return nil
}

// GetCommitmentsByCode retrieves the paginated audit trail for a budget
func (s *CommitmentServiceImpl) GetCommitmentsByCode(ctx context.Context, code string, page, perPage int) ([]*commitment.Entry, int64, error) {
	offset := (page - 1) * perPage

	entries, err := s.commitmentRepo.GetByAnalyticCode(ctx, code, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.commitmentRepo.CountByAnalyticCode(ctx, code)
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// applyDeltas walks the order lines and moves each amount against its budget
// under a row lock. Lines without an analytic code or with a zero amount are
// skipped, as are lines whose budget no longer exists.
func (s *CommitmentServiceImpl) applyDeltas(ctx context.Context, tx pgx.Tx, order *procurement.Order, kind commitment.Kind, correlationID string, logger *slog.Logger) error {
	budgetRepo := s.budgetRepo.WithTx(tx)
	outboxRepo := s.outboxRepo.WithTx(tx)

	for _, line := range order.Lines {
		if line.AnalyticCode == "" || line.Amount.IsZero() {
			continue
		}

		delta := line.Amount
		if kind == commitment.KindDisengage {
			delta = delta.Neg()
		}

		b, err := budgetRepo.LockByCode(ctx, line.AnalyticCode)
		if err != nil {
			if errors.Is(err, budget.ErrBudgetNotFound{}) {
				logger.Warn("Budget missing during commitment, skipping line",
					"order_id", order.ID,
					"analytic_code", line.AnalyticCode,
					"kind", string(kind),
				)
				continue
			}
			return err
		}

		b.ApplyDelta(delta)
		b.UpdatedAt = time.Now()
		if err := budgetRepo.UpdateAmounts(ctx, b); err != nil {
			return err
		}

		entry := commitment.NewEntry(line.AnalyticCode, order.ID, kind, line.Amount, b.Committed, b.Available, correlationID)
		message, err := outbox.NewMessage(entry)
		if err != nil {
			return err
		}
		if err := outboxRepo.Create(ctx, message); err != nil {
			return err
		}
	}

	return nil
}

func projectOrderLines(order *procurement.Order) []LineProjection {
	projections := make([]LineProjection, 0, len(order.Lines))
	for _, line := range order.Lines {
		p := LineProjection{
			AnalyticCode:  line.AnalyticCode,
			Description:   line.Description,
			Quantity:      line.Quantity,
			UnitRate:      line.UnitRate,
			UnitOfMeasure: line.UnitOfMeasure,
		}
		if line.ScheduleDate != nil {
			p.ScheduleDate = *line.ScheduleDate
		}
		projections = append(projections, p)
	}
	return projections
}
