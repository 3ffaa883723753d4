package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/sdrt-erp/budget-ledger/internal/domain/procurement"
	"github.com/sdrt-erp/budget-ledger/internal/platform/persistence"
)

// RequisitionRepository implements procurement.RequisitionRepository for
// PostgreSQL. Requisitions are read-only to this service.
type RequisitionRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewRequisitionRepository creates a new PostgreSQL requisition repository
func NewRequisitionRepository(logger *slog.Logger, db *persistence.PostgresDB) procurement.RequisitionRepository {
	return &RequisitionRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// GetByID retrieves a requisition and all of its lines
func (r *RequisitionRepository) GetByID(ctx context.Context, id string) (*procurement.Requisition, error) {
	query := `
		SELECT id, schedule_date, transaction_date
		FROM requisitions
		WHERE id = $1
	`

	var req procurement.Requisition
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&req.ID,
		&req.ScheduleDate,
		&req.TransactionDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, procurement.ErrRequisitionNotFound{ID: id}
		}
		r.logger.Error("Failed to get requisition", "requisition_id", id, "error", err)
		return nil, fmt.Errorf("failed to get requisition: %w", err)
	}

	lines, err := r.getLines(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Lines = lines

	return &req, nil
}

func (r *RequisitionRepository) getLines(ctx context.Context, requisitionID string) ([]procurement.RequisitionLine, error) {
	query := `
		SELECT analytic_code, description, quantity, unit_rate, estimate, unit_of_measure
		FROM requisition_lines
		WHERE requisition_id = $1
		ORDER BY idx ASC
	`

	rows, err := r.querier.Query(ctx, query, requisitionID)
	if err != nil {
		r.logger.Error("Failed to get requisition lines", "requisition_id", requisitionID, "error", err)
		return nil, fmt.Errorf("failed to get requisition lines: %w", err)
	}
	defer rows.Close()

	var lines []procurement.RequisitionLine
	for rows.Next() {
		var line procurement.RequisitionLine
		if err := rows.Scan(
			&line.AnalyticCode,
			&line.Description,
			&line.Quantity,
			&line.UnitRate,
			&line.Estimate,
			&line.UnitOfMeasure,
		); err != nil {
			return nil, fmt.Errorf("failed to scan requisition line: %w", err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over requisition lines: %w", err)
	}

	return lines, nil
}
