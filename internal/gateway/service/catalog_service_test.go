package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sdrt-erp/budget-ledger/internal/config"
	"github.com/sdrt-erp/budget-ledger/internal/domain/catalog"
	"github.com/sdrt-erp/budget-ledger/internal/domain/procurement"
	"github.com/sdrt-erp/budget-ledger/internal/platform/cache"
)

func testCatalogConfig() *config.CatalogConfig {
	return &config.CatalogConfig{
		PlaceholderCode:       "BUDGET-LINE",
		DefaultUnitOfMeasure:  "Unit",
		DefaultCategory:       "All Item Groups",
		DefaultExpenseAccount: "6061 - Supplies",
	}
}

func newCatalogService(catalogRepo *MockCatalogRepository, orderRepo *MockOrderRepository) CatalogService {
	logger := testServiceLogger()
	return NewCatalogService(
		logger,
		catalogRepo,
		new(MockBudgetRepository),
		orderRepo,
		cache.NewCatalogCache(context.Background(), logger, &config.RedisConfig{}),
		testCatalogConfig(),
	)
}

func TestCatalogServiceImpl_EnsureEntry(t *testing.T) {
	ctx := context.Background()

	t.Run("ExistingEntryWins", func(t *testing.T) {
		catalogRepo := new(MockCatalogRepository)
		svc := newCatalogService(catalogRepo, new(MockOrderRepository))

		existing := &catalog.Entry{Code: testCode, DisplayName: "Already here"}
		catalogRepo.On("GetByCode", ctx, testCode).Return(existing, nil).Once()

		entry, warnings, err := svc.EnsureEntry(ctx, testCode, "Different description")

		assert.NoError(t, err)
		assert.Empty(t, warnings)
		assert.Equal(t, existing, entry)
		// One store read resolves the entry; the existence cache never adds a second.
		catalogRepo.AssertNumberOfCalls(t, "GetByCode", 1)
		catalogRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("CreatesWithDefaults", func(t *testing.T) {
		catalogRepo := new(MockCatalogRepository)
		svc := newCatalogService(catalogRepo, new(MockOrderRepository))

		catalogRepo.On("GetByCode", ctx, testCode).Return(nil, catalog.ErrEntryNotFound{Code: testCode}).Once()
		catalogRepo.On("Create", ctx, mock.MatchedBy(func(e *catalog.Entry) bool {
			return e.Code == testCode &&
				e.DisplayName == "Operating supplies" &&
				e.UnitOfMeasure == "Unit" &&
				e.Category == "All Item Groups" &&
				e.ExpenseAccount == "6061 - Supplies" &&
				e.Purchasable && !e.Stockable
		})).Return(nil).Once()

		entry, warnings, err := svc.EnsureEntry(ctx, testCode, "Operating supplies")

		assert.NoError(t, err)
		assert.Empty(t, warnings)
		require.NotNil(t, entry)
		assert.Equal(t, testCode, entry.Code)
		catalogRepo.AssertExpectations(t)
	})

	t.Run("CreateFailureIsWarning", func(t *testing.T) {
		catalogRepo := new(MockCatalogRepository)
		svc := newCatalogService(catalogRepo, new(MockOrderRepository))

		catalogRepo.On("GetByCode", ctx, testCode).Return(nil, catalog.ErrEntryNotFound{Code: testCode}).Once()
		catalogRepo.On("Create", ctx, mock.Anything).Return(errors.New("insert failed")).Once()

		entry, warnings, err := svc.EnsureEntry(ctx, testCode, "Operating supplies")

		assert.NoError(t, err)
		assert.Nil(t, entry)
		require.Len(t, warnings, 1)
		assert.Equal(t, testCode, warnings[0].Code)
		assert.Contains(t, warnings[0].Reason, "insert failed")
	})

	t.Run("LostCreateRaceReturnsWinner", func(t *testing.T) {
		catalogRepo := new(MockCatalogRepository)
		svc := newCatalogService(catalogRepo, new(MockOrderRepository))

		winner := &catalog.Entry{Code: testCode, DisplayName: "Winner"}
		catalogRepo.On("GetByCode", ctx, testCode).Return(nil, catalog.ErrEntryNotFound{Code: testCode}).Once()
		catalogRepo.On("Create", ctx, mock.Anything).Return(catalog.ErrDuplicateEntry{Code: testCode}).Once()
		catalogRepo.On("GetByCode", ctx, testCode).Return(winner, nil).Once()

		entry, warnings, err := svc.EnsureEntry(ctx, testCode, "Loser")

		assert.NoError(t, err)
		assert.Empty(t, warnings)
		assert.Equal(t, winner, entry)
		catalogRepo.AssertExpectations(t)
	})

	t.Run("EmptyCodeRejected", func(t *testing.T) {
		svc := newCatalogService(new(MockCatalogRepository), new(MockOrderRepository))

		entry, warnings, err := svc.EnsureEntry(ctx, "", "whatever")

		assert.Nil(t, entry)
		assert.Empty(t, warnings)
		assert.ErrorIs(t, err, catalog.ErrEmptyCode)
	})
}

func TestCatalogServiceImpl_RepairOrderLines(t *testing.T) {
	ctx := context.Background()

	repairableOrder := func(itemCode, analyticCode string) *procurement.Order {
		return &procurement.Order{
			ID:     "PO-0001",
			Status: procurement.StatusDraft,
			Lines: []procurement.OrderLine{
				{
					ID:           1,
					OrderID:      "PO-0001",
					ItemCode:     itemCode,
					AnalyticCode: analyticCode,
					Description:  "Printer paper",
					Quantity:     decimal.NewFromInt(10),
					UnitRate:     decimal.NewFromInt(25),
					Amount:       decimal.NewFromInt(250),
				},
			},
		}
	}

	t.Run("NumericCodeRewrittenToAnalyticCode", func(t *testing.T) {
		catalogRepo := new(MockCatalogRepository)
		orderRepo := new(MockOrderRepository)
		svc := newCatalogService(catalogRepo, orderRepo)

		orderRepo.On("GetByID", ctx, "PO-0001").Return(repairableOrder("12345", testCode), nil).Once()
		catalogRepo.On("GetByCode", ctx, testCode).Return(&catalog.Entry{Code: testCode}, nil).Once()
		orderRepo.On("UpdateLineReference", ctx, mock.MatchedBy(func(line *procurement.OrderLine) bool {
			return line.ItemCode == testCode && line.UnitOfMeasure == "Unit"
		})).Return(nil).Once()

		repaired, warnings, err := svc.RepairOrderLines(ctx, "PO-0001")

		assert.NoError(t, err)
		assert.Empty(t, warnings)
		require.Len(t, repaired, 1)
		assert.Equal(t, testCode, repaired[0].ItemCode)
		orderRepo.AssertExpectations(t)
	})

	t.Run("EmptyCodeWithoutAnalyticCodeGetsPlaceholder", func(t *testing.T) {
		catalogRepo := new(MockCatalogRepository)
		orderRepo := new(MockOrderRepository)
		svc := newCatalogService(catalogRepo, orderRepo)

		orderRepo.On("GetByID", ctx, "PO-0001").Return(repairableOrder("", ""), nil).Once()
		catalogRepo.On("GetByCode", ctx, "BUDGET-LINE").Return(&catalog.Entry{Code: "BUDGET-LINE"}, nil).Once()
		orderRepo.On("UpdateLineReference", ctx, mock.MatchedBy(func(line *procurement.OrderLine) bool {
			return line.ItemCode == "BUDGET-LINE"
		})).Return(nil).Once()

		repaired, warnings, err := svc.RepairOrderLines(ctx, "PO-0001")

		assert.NoError(t, err)
		assert.Empty(t, warnings)
		require.Len(t, repaired, 1)
		assert.Equal(t, "BUDGET-LINE", repaired[0].ItemCode)
	})

	t.Run("ResolvableCodeLeftAlone", func(t *testing.T) {
		catalogRepo := new(MockCatalogRepository)
		orderRepo := new(MockOrderRepository)
		svc := newCatalogService(catalogRepo, orderRepo)

		orderRepo.On("GetByID", ctx, "PO-0001").Return(repairableOrder("ITEM-7", testCode), nil).Once()
		catalogRepo.On("Exists", ctx, "ITEM-7").Return(true, nil).Once()

		repaired, warnings, err := svc.RepairOrderLines(ctx, "PO-0001")

		assert.NoError(t, err)
		assert.Empty(t, warnings)
		assert.Empty(t, repaired)
		orderRepo.AssertNotCalled(t, "UpdateLineReference", mock.Anything, mock.Anything)
	})

	t.Run("ProvisioningWarningFallsBackToPlaceholder", func(t *testing.T) {
		catalogRepo := new(MockCatalogRepository)
		orderRepo := new(MockOrderRepository)
		svc := newCatalogService(catalogRepo, orderRepo)

		orderRepo.On("GetByID", ctx, "PO-0001").Return(repairableOrder("", testCode), nil).Once()
		catalogRepo.On("GetByCode", ctx, testCode).Return(nil, catalog.ErrEntryNotFound{Code: testCode}).Once()
		catalogRepo.On("Create", ctx, mock.MatchedBy(func(e *catalog.Entry) bool {
			return e.Code == testCode
		})).Return(errors.New("insert failed")).Once()
		catalogRepo.On("GetByCode", ctx, "BUDGET-LINE").Return(&catalog.Entry{Code: "BUDGET-LINE"}, nil).Once()
		orderRepo.On("UpdateLineReference", ctx, mock.MatchedBy(func(line *procurement.OrderLine) bool {
			return line.ItemCode == "BUDGET-LINE"
		})).Return(nil).Once()

		repaired, warnings, err := svc.RepairOrderLines(ctx, "PO-0001")

		assert.NoError(t, err)
		require.Len(t, warnings, 1)
		assert.Equal(t, testCode, warnings[0].Code)
		require.Len(t, repaired, 1)
		assert.Equal(t, "BUDGET-LINE", repaired[0].ItemCode)
	})

	t.Run("OrderNotFound", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		svc := newCatalogService(new(MockCatalogRepository), orderRepo)

		orderRepo.On("GetByID", ctx, "PO-0404").Return(nil, procurement.ErrOrderNotFound{ID: "PO-0404"}).Once()

		repaired, warnings, err := svc.RepairOrderLines(ctx, "PO-0404")

		assert.Nil(t, repaired)
		assert.Nil(t, warnings)
		assert.ErrorIs(t, err, procurement.ErrOrderNotFound{ID: "PO-0404"})
	})
}

func TestCatalogServiceImpl_BackfillDirectionLabel(t *testing.T) {
	ctx := context.Background()

	t.Run("UpdatesWhenDifferent", func(t *testing.T) {
		catalogRepo := new(MockCatalogRepository)
		svc := newCatalogService(catalogRepo, new(MockOrderRepository))

		catalogRepo.On("GetByCode", ctx, testCode).Return(&catalog.Entry{Code: testCode, DirectionLabel: "Old"}, nil).Once()
		catalogRepo.On("UpdateDirectionLabel", ctx, testCode, "Direction One").Return(nil).Once()

		updated, err := svc.BackfillDirectionLabel(ctx, testCode, "Direction One")

		assert.NoError(t, err)
		assert.True(t, updated)
		catalogRepo.AssertExpectations(t)
	})

	t.Run("NoOpWhenEqual", func(t *testing.T) {
		catalogRepo := new(MockCatalogRepository)
		svc := newCatalogService(catalogRepo, new(MockOrderRepository))

		catalogRepo.On("GetByCode", ctx, testCode).Return(&catalog.Entry{Code: testCode, DirectionLabel: "Direction One"}, nil).Once()

		updated, err := svc.BackfillDirectionLabel(ctx, testCode, "Direction One")

		assert.NoError(t, err)
		assert.False(t, updated)
		catalogRepo.AssertNotCalled(t, "UpdateDirectionLabel", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("EntryMissing", func(t *testing.T) {
		catalogRepo := new(MockCatalogRepository)
		svc := newCatalogService(catalogRepo, new(MockOrderRepository))

		catalogRepo.On("GetByCode", ctx, testCode).Return(nil, catalog.ErrEntryNotFound{Code: testCode}).Once()

		updated, err := svc.BackfillDirectionLabel(ctx, testCode, "Direction One")

		assert.False(t, updated)
		assert.ErrorIs(t, err, catalog.ErrEntryNotFound{Code: testCode})
	})
}

func TestCatalogServiceImpl_PlaceholderEntry(t *testing.T) {
	ctx := context.Background()

	catalogRepo := new(MockCatalogRepository)
	svc := newCatalogService(catalogRepo, new(MockOrderRepository))

	catalogRepo.On("GetByCode", ctx, "BUDGET-LINE").Return(nil, catalog.ErrEntryNotFound{Code: "BUDGET-LINE"}).Once()
	catalogRepo.On("Create", ctx, mock.MatchedBy(func(e *catalog.Entry) bool {
		return e.Code == "BUDGET-LINE" && e.DisplayName == "Budget line" && !e.Stockable
	})).Return(nil).Once()

	entry, warnings, err := svc.PlaceholderEntry(ctx)

	assert.NoError(t, err)
	assert.Empty(t, warnings)
	require.NotNil(t, entry)
	assert.Equal(t, "BUDGET-LINE", entry.Code)
	catalogRepo.AssertExpectations(t)
}

func TestIsNumericOnly(t *testing.T) {
	assert.True(t, isNumericOnly("12345"))
	assert.False(t, isNumericOnly(""))
	assert.False(t, isNumericOnly("ITEM-7"))
	assert.False(t, isNumericOnly("12a45"))
	assert.False(t, isNumericOnly(testCode))
}
