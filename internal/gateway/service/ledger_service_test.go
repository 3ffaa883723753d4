package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sdrt-erp/budget-ledger/internal/domain/budget"
	"github.com/sdrt-erp/budget-ledger/internal/domain/catalog"
)

func testSegments() budget.Segments {
	return budget.Segments{
		Direction: "D1",
		Program:   "P1",
		OrgUnit:   "U1",
		Account:   "6061",
	}
}

func TestLedgerServiceImpl_CreateBudget(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		budgetRepo := new(MockBudgetRepository)
		catalogSvc := new(MockCatalogService)
		svc := NewLedgerService(testServiceLogger(), budgetRepo, catalogSvc)

		budgetRepo.On("Create", ctx, mock.MatchedBy(func(b *budget.Budget) bool {
			return b.AnalyticCode == testCode &&
				b.Total.Equal(decimal.NewFromInt(1000)) &&
				b.Committed.IsZero() &&
				b.Available.Equal(decimal.NewFromInt(1000))
		})).Return(nil).Once()
		catalogSvc.On("EnsureEntry", ctx, testCode, "Operating supplies").Return(&catalog.Entry{Code: testCode}, nil, nil).Once()

		b, warnings, err := svc.CreateBudget(ctx, testSegments(), decimal.NewFromInt(1000), "Operating supplies", "Direction One")

		assert.NoError(t, err)
		assert.Empty(t, warnings)
		require.NotNil(t, b)
		assert.Equal(t, testCode, b.AnalyticCode)
		assert.Equal(t, "Direction One", b.DirectionLabel)
		budgetRepo.AssertExpectations(t)
		catalogSvc.AssertExpectations(t)
	})

	t.Run("DuplicateCode", func(t *testing.T) {
		budgetRepo := new(MockBudgetRepository)
		catalogSvc := new(MockCatalogService)
		svc := NewLedgerService(testServiceLogger(), budgetRepo, catalogSvc)

		budgetRepo.On("Create", ctx, mock.Anything).Return(budget.ErrDuplicateCode{Code: testCode}).Once()

		b, warnings, err := svc.CreateBudget(ctx, testSegments(), decimal.NewFromInt(1000), "Operating supplies", "")

		assert.Nil(t, b)
		assert.Empty(t, warnings)
		assert.ErrorIs(t, err, budget.ErrDuplicateCode{Code: testCode})
		catalogSvc.AssertNotCalled(t, "EnsureEntry", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("NegativeTotal", func(t *testing.T) {
		budgetRepo := new(MockBudgetRepository)
		svc := NewLedgerService(testServiceLogger(), budgetRepo, new(MockCatalogService))

		b, warnings, err := svc.CreateBudget(ctx, testSegments(), decimal.NewFromInt(-5), "x", "")

		assert.Nil(t, b)
		assert.Empty(t, warnings)
		assert.ErrorIs(t, err, budget.ErrNegativeTotal)
		budgetRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("ProvisioningWarningDoesNotAbort", func(t *testing.T) {
		budgetRepo := new(MockBudgetRepository)
		catalogSvc := new(MockCatalogService)
		svc := NewLedgerService(testServiceLogger(), budgetRepo, catalogSvc)

		warning := catalog.Warning{Code: testCode, Reason: "insert failed"}
		budgetRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		catalogSvc.On("EnsureEntry", ctx, testCode, "Operating supplies").Return(nil, []catalog.Warning{warning}, nil).Once()

		b, warnings, err := svc.CreateBudget(ctx, testSegments(), decimal.NewFromInt(1000), "Operating supplies", "")

		assert.NoError(t, err)
		require.NotNil(t, b)
		require.Len(t, warnings, 1)
		assert.Equal(t, warning, warnings[0])
	})

	t.Run("ProvisioningErrorBecomesWarning", func(t *testing.T) {
		budgetRepo := new(MockBudgetRepository)
		catalogSvc := new(MockCatalogService)
		svc := NewLedgerService(testServiceLogger(), budgetRepo, catalogSvc)

		budgetRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		catalogSvc.On("EnsureEntry", ctx, testCode, "Operating supplies").Return(nil, nil, errors.New("catalog down")).Once()

		b, warnings, err := svc.CreateBudget(ctx, testSegments(), decimal.NewFromInt(1000), "Operating supplies", "")

		assert.NoError(t, err)
		require.NotNil(t, b)
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0].Reason, "catalog down")
	})
}

func TestLedgerServiceImpl_GetBudget(t *testing.T) {
	ctx := context.Background()
	budgetRepo := new(MockBudgetRepository)
	svc := NewLedgerService(testServiceLogger(), budgetRepo, new(MockCatalogService))

	expected := fundedBudget(decimal.NewFromInt(1000), decimal.NewFromInt(100))
	budgetRepo.On("GetByCode", ctx, testCode).Return(expected, nil).Once()

	b, err := svc.GetBudget(ctx, testCode)

	assert.NoError(t, err)
	assert.Equal(t, expected, b)
	budgetRepo.AssertExpectations(t)
}

func TestLedgerServiceImpl_ListBudgets(t *testing.T) {
	ctx := context.Background()

	t.Run("Paginates", func(t *testing.T) {
		budgetRepo := new(MockBudgetRepository)
		svc := NewLedgerService(testServiceLogger(), budgetRepo, new(MockCatalogService))

		expected := []*budget.Budget{fundedBudget(decimal.NewFromInt(1000), decimal.Zero)}
		budgetRepo.On("List", ctx, 50, 50).Return(expected, nil).Once()
		budgetRepo.On("Count", ctx).Return(int64(51), nil).Once()

		budgets, total, err := svc.ListBudgets(ctx, 2, 50)

		assert.NoError(t, err)
		assert.Equal(t, expected, budgets)
		assert.Equal(t, int64(51), total)
		budgetRepo.AssertExpectations(t)
	})

	t.Run("ListError", func(t *testing.T) {
		budgetRepo := new(MockBudgetRepository)
		svc := NewLedgerService(testServiceLogger(), budgetRepo, new(MockCatalogService))

		dbErr := errors.New("list failed")
		budgetRepo.On("List", ctx, 50, 0).Return(nil, dbErr).Once()

		budgets, total, err := svc.ListBudgets(ctx, 1, 50)

		assert.Nil(t, budgets)
		assert.Zero(t, total)
		assert.ErrorIs(t, err, dbErr)
	})
}
