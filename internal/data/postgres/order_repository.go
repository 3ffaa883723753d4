package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sdrt-erp/budget-ledger/internal/domain/procurement"
	"github.com/sdrt-erp/budget-ledger/internal/platform/persistence"
)

// OrderRepository implements procurement.OrderRepository for PostgreSQL
type OrderRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewOrderRepository creates a new PostgreSQL purchase order repository
func NewOrderRepository(logger *slog.Logger, db *persistence.PostgresDB) procurement.OrderRepository {
	return &OrderRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx returns a repository bound to the given transaction
func (r *OrderRepository) WithTx(tx pgx.Tx) procurement.OrderRepository {
	return &OrderRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// GetByID retrieves a purchase order and all of its lines
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*procurement.Order, error) {
	query := `
		SELECT id, supplier, status, created_at, updated_at
		FROM purchase_orders
		WHERE id = $1
	`

	var order procurement.Order
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&order.ID,
		&order.Supplier,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, procurement.ErrOrderNotFound{ID: id}
		}
		r.logger.Error("Failed to get purchase order", "order_id", id, "error", err)
		return nil, fmt.Errorf("failed to get purchase order: %w", err)
	}

	lines, err := r.getLines(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Lines = lines

	return &order, nil
}

// UpdateStatus transitions the order status. The domain layer validates the
// transition; this only persists it.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status procurement.OrderStatus) error {
	query := `
		UPDATE purchase_orders
		SET status = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := r.querier.Exec(ctx, query, status, time.Now(), id)
	if err != nil {
		r.logger.Error("Failed to update order status", "order_id", id, "status", status, "error", err)
		return fmt.Errorf("failed to update order status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return procurement.ErrOrderNotFound{ID: id}
	}

	return nil
}

// UpdateLineReference patches the item code and unit of measure on an order
// line after repair. No other line fields are writable from this service.
func (r *OrderRepository) UpdateLineReference(ctx context.Context, line *procurement.OrderLine) error {
	query := `
		UPDATE purchase_order_lines
		SET item_code = $1, unit_of_measure = $2
		WHERE id = $3
	`

	result, err := r.querier.Exec(ctx, query, line.ItemCode, line.UnitOfMeasure, line.ID)
	if err != nil {
		r.logger.Error("Failed to update order line reference", "line_id", line.ID, "error", err)
		return fmt.Errorf("failed to update order line reference: %w", err)
	}

	if result.RowsAffected() == 0 {
		return procurement.ErrOrderNotFound{ID: line.OrderID}
	}

	return nil
}

func (r *OrderRepository) getLines(ctx context.Context, orderID string) ([]procurement.OrderLine, error) {
	query := `
		SELECT id, order_id, item_code, analytic_code, description, quantity,
			unit_rate, amount, unit_of_measure, schedule_date
		FROM purchase_order_lines
		WHERE order_id = $1
		ORDER BY id ASC
	`

	rows, err := r.querier.Query(ctx, query, orderID)
	if err != nil {
		r.logger.Error("Failed to get order lines", "order_id", orderID, "error", err)
		return nil, fmt.Errorf("failed to get order lines: %w", err)
	}
	defer rows.Close()

	var lines []procurement.OrderLine
	for rows.Next() {
		var line procurement.OrderLine
		if err := rows.Scan(
			&line.ID,
			&line.OrderID,
			&line.ItemCode,
			&line.AnalyticCode,
			&line.Description,
			&line.Quantity,
			&line.UnitRate,
			&line.Amount,
			&line.UnitOfMeasure,
			&line.ScheduleDate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over order lines: %w", err)
	}

	return lines, nil
}
