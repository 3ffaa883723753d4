package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"github.com/sdrt-erp/budget-ledger/internal/domain/budget"
	"github.com/sdrt-erp/budget-ledger/internal/domain/catalog"
	"github.com/sdrt-erp/budget-ledger/internal/domain/commitment"
	"github.com/sdrt-erp/budget-ledger/internal/domain/outbox"
	"github.com/sdrt-erp/budget-ledger/internal/domain/procurement"
)

// fakeTxRunner runs the transactional closure inline with a nil transaction.
// Mock repositories are wired to return themselves from WithTx(nil).
type fakeTxRunner struct {
	err error
}

func (f *fakeTxRunner) ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type MockBudgetRepository struct {
	mock.Mock
}

func (m *MockBudgetRepository) Create(ctx context.Context, b *budget.Budget) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBudgetRepository) GetByCode(ctx context.Context, code string) (*budget.Budget, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*budget.Budget), args.Error(1)
}

func (m *MockBudgetRepository) Exists(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockBudgetRepository) UpdateAmounts(ctx context.Context, b *budget.Budget) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBudgetRepository) List(ctx context.Context, limit, offset int) ([]*budget.Budget, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*budget.Budget), args.Error(1)
}

func (m *MockBudgetRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBudgetRepository) LockByCode(ctx context.Context, code string) (*budget.Budget, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*budget.Budget), args.Error(1)
}

func (m *MockBudgetRepository) WithTx(tx pgx.Tx) budget.Repository {
	args := m.Called(tx)
	return args.Get(0).(budget.Repository)
}

type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) Create(ctx context.Context, entry *catalog.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockCatalogRepository) GetByCode(ctx context.Context, code string) (*catalog.Entry, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Entry), args.Error(1)
}

func (m *MockCatalogRepository) Exists(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockCatalogRepository) UpdateDirectionLabel(ctx context.Context, code, label string) error {
	args := m.Called(ctx, code, label)
	return args.Error(0)
}

func (m *MockCatalogRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCatalogRepository) WithTx(tx pgx.Tx) catalog.Repository {
	args := m.Called(tx)
	return args.Get(0).(catalog.Repository)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id string) (*procurement.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id string, status procurement.OrderStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateLineReference(ctx context.Context, line *procurement.OrderLine) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}

func (m *MockOrderRepository) WithTx(tx pgx.Tx) procurement.OrderRepository {
	args := m.Called(tx)
	return args.Get(0).(procurement.OrderRepository)
}

type MockRequisitionRepository struct {
	mock.Mock
}

func (m *MockRequisitionRepository) GetByID(ctx context.Context, id string) (*procurement.Requisition, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.Requisition), args.Error(1)
}

type MockOutboxRepository struct {
	mock.Mock
}

func (m *MockOutboxRepository) Create(ctx context.Context, message *outbox.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockOutboxRepository) GetPending(ctx context.Context, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *MockOutboxRepository) UpdateStatus(ctx context.Context, id int64, status outbox.Status) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockOutboxRepository) IncrementAttempts(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOutboxRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOutboxRepository) GetByEntryID(ctx context.Context, entryID uuid.UUID) (*outbox.Message, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbox.Message), args.Error(1)
}

func (m *MockOutboxRepository) WithTx(tx pgx.Tx) outbox.Repository {
	args := m.Called(tx)
	return args.Get(0).(outbox.Repository)
}

type MockCommitmentRepository struct {
	mock.Mock
}

func (m *MockCommitmentRepository) Create(ctx context.Context, entry *commitment.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockCommitmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*commitment.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commitment.Entry), args.Error(1)
}

func (m *MockCommitmentRepository) GetByAnalyticCode(ctx context.Context, analyticCode string, limit, offset int) ([]*commitment.Entry, error) {
	args := m.Called(ctx, analyticCode, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*commitment.Entry), args.Error(1)
}

func (m *MockCommitmentRepository) CountByAnalyticCode(ctx context.Context, analyticCode string) (int64, error) {
	args := m.Called(ctx, analyticCode)
	return args.Get(0).(int64), args.Error(1)
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
