package handler

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/sdrt-erp/budget-ledger/internal/domain/budget"
	"github.com/sdrt-erp/budget-ledger/internal/domain/catalog"
	"github.com/sdrt-erp/budget-ledger/internal/domain/commitment"
	"github.com/sdrt-erp/budget-ledger/internal/domain/procurement"
	"github.com/sdrt-erp/budget-ledger/internal/gateway/service"
)

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) CreateBudget(ctx context.Context, segments budget.Segments, total decimal.Decimal, description, directionLabel string) (*budget.Budget, []catalog.Warning, error) {
	args := m.Called(ctx, segments, total, description, directionLabel)
	var b *budget.Budget
	if args.Get(0) != nil {
		b = args.Get(0).(*budget.Budget)
	}
	var warnings []catalog.Warning
	if args.Get(1) != nil {
		warnings = args.Get(1).([]catalog.Warning)
	}
	return b, warnings, args.Error(2)
}

func (m *MockLedgerService) GetBudget(ctx context.Context, code string) (*budget.Budget, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*budget.Budget), args.Error(1)
}

func (m *MockLedgerService) ListBudgets(ctx context.Context, page, perPage int) ([]*budget.Budget, int64, error) {
	args := m.Called(ctx, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*budget.Budget), args.Get(1).(int64), args.Error(2)
}

type MockCommitmentService struct {
	mock.Mock
}

func (m *MockCommitmentService) PreviewLines(ctx context.Context, requisitionIDs []string) ([]service.LineProjection, error) {
	args := m.Called(ctx, requisitionIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.LineProjection), args.Error(1)
}

func (m *MockCommitmentService) ValidateCommitment(ctx context.Context, orderID string, lines []service.LineProjection) error {
	args := m.Called(ctx, orderID, lines)
	return args.Error(0)
}

func (m *MockCommitmentService) SubmitOrder(ctx context.Context, orderID, correlationID string) error {
	args := m.Called(ctx, orderID, correlationID)
	return args.Error(0)
}

func (m *MockCommitmentService) CancelOrder(ctx context.Context, orderID, correlationID string) error {
	args := m.Called(ctx, orderID, correlationID)
	return args.Error(0)
}

func (m *MockCommitmentService) GetCommitmentsByCode(ctx context.Context, code string, page, perPage int) ([]*commitment.Entry, int64, error) {
	args := m.Called(ctx, code, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*commitment.Entry), args.Get(1).(int64), args.Error(2)
}

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) EnsureEntry(ctx context.Context, code, description string) (*catalog.Entry, []catalog.Warning, error) {
	args := m.Called(ctx, code, description)
	var entry *catalog.Entry
	if args.Get(0) != nil {
		entry = args.Get(0).(*catalog.Entry)
	}
	var warnings []catalog.Warning
	if args.Get(1) != nil {
		warnings = args.Get(1).([]catalog.Warning)
	}
	return entry, warnings, args.Error(2)
}

func (m *MockCatalogService) RepairOrderLines(ctx context.Context, orderID string) ([]procurement.OrderLine, []catalog.Warning, error) {
	args := m.Called(ctx, orderID)
	var lines []procurement.OrderLine
	if args.Get(0) != nil {
		lines = args.Get(0).([]procurement.OrderLine)
	}
	var warnings []catalog.Warning
	if args.Get(1) != nil {
		warnings = args.Get(1).([]catalog.Warning)
	}
	return lines, warnings, args.Error(2)
}

func (m *MockCatalogService) BackfillDirectionLabel(ctx context.Context, code, label string) (bool, error) {
	args := m.Called(ctx, code, label)
	return args.Bool(0), args.Error(1)
}

func (m *MockCatalogService) PlaceholderEntry(ctx context.Context) (*catalog.Entry, []catalog.Warning, error) {
	args := m.Called(ctx)
	var entry *catalog.Entry
	if args.Get(0) != nil {
		entry = args.Get(0).(*catalog.Entry)
	}
	var warnings []catalog.Warning
	if args.Get(1) != nil {
		warnings = args.Get(1).([]catalog.Warning)
	}
	return entry, warnings, args.Error(2)
}
