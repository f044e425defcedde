package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/familia-ledger/internal/domain/account"
	"github.com/familia-ledger/internal/domain/category"
	"github.com/familia-ledger/internal/domain/ledger"
	"github.com/familia-ledger/internal/domain/shared"
)

func newInsightsService(ledgerRepo *MockLedgerRepository, accountRepo *MockAccountRepository, categoryRepo *MockCategoryRepository, now time.Time) *InsightsServiceImpl {
	svc := NewInsightsService(ledgerRepo, accountRepo, categoryRepo).(*InsightsServiceImpl)
	svc.now = func() time.Time { return now }
	return svc
}

func TestInsightsService_MonthBreakdown(t *testing.T) {
	ledgerRepo := new(MockLedgerRepository)
	accountRepo := new(MockAccountRepository)
	categoryRepo := new(MockCategoryRepository)
	now := time.Date(2026, time.March, 18, 15, 0, 0, 0, time.UTC)
	svc := newInsightsService(ledgerRepo, accountRepo, categoryRepo, now)

	ownerID := uuid.New()
	instID := uuid.New()
	checkingID := uuid.New()
	cardID := uuid.New()
	walletID := uuid.New()
	mercadoID := uuid.New()
	transporteID := uuid.New()
	salarioID := uuid.New()

	currentWindow := ledger.Filter{
		From: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, time.March, 18, 0, 0, 0, 0, time.UTC),
	}
	previousWindow := ledger.Filter{
		From: time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, time.February, 18, 0, 0, 0, 0, time.UTC),
	}

	ledgerRepo.On("List", mock.Anything, currentWindow).Return([]*ledger.Entry{
		{ID: uuid.New(), Kind: shared.EntryKindIncome, Amount: 500000, CategoryID: &salarioID, SourceAccountID: checkingID},
		{ID: uuid.New(), Kind: shared.EntryKindExpense, Amount: 80000, CategoryID: &mercadoID, SourceAccountID: checkingID},
		{ID: uuid.New(), Kind: shared.EntryKindExpense, Amount: 40000, CategoryID: &mercadoID, SourceAccountID: cardID},
		{ID: uuid.New(), Kind: shared.EntryKindExpense, Amount: 10000, CategoryID: &transporteID, SourceAccountID: walletID},
	}, nil)
	ledgerRepo.On("List", mock.Anything, previousWindow).Return([]*ledger.Entry{
		{ID: uuid.New(), Kind: shared.EntryKindExpense, Amount: 200000, CategoryID: &mercadoID, SourceAccountID: checkingID},
	}, nil)
	accountRepo.On("List", mock.Anything, false).Return([]*account.Account{
		{ID: checkingID, Type: shared.AccountTypeChecking, InstitutionID: &instID, OwnerID: &ownerID},
		{ID: cardID, Type: shared.AccountTypeCredit, InstitutionID: &instID, OwnerID: &ownerID},
		{ID: walletID, Type: shared.AccountTypeCash},
	}, nil)
	categoryRepo.On("List", mock.Anything).Return([]*category.Category{
		{ID: mercadoID, Name: "Mercado", Kind: shared.EntryKindExpense},
		{ID: transporteID, Name: "Transporte", Kind: shared.EntryKindExpense},
		{ID: salarioID, Name: "Salário", Kind: shared.EntryKindIncome},
	}, nil)

	result, err := svc.Insights(context.Background(), "m", ledger.Filter{})

	require.NoError(t, err)
	assert.Equal(t, "Acumulado do Mês", result.Label)
	assert.Equal(t, currentWindow.From, result.Window.Start)
	assert.Equal(t, currentWindow.To, result.Window.End)

	assert.Equal(t, int64(500000), result.Totals.Receitas)
	assert.Equal(t, int64(90000), result.Totals.DespesasPagas)
	assert.Equal(t, int64(40000), result.Totals.DespesasCartao)

	require.Len(t, result.ExpensesByCategory, 2)
	assert.Equal(t, CategoryInsight{CategoryID: mercadoID, Name: "Mercado", Total: 120000}, result.ExpensesByCategory[0])
	assert.Equal(t, CategoryInsight{CategoryID: transporteID, Name: "Transporte", Total: 10000}, result.ExpensesByCategory[1])
	require.Len(t, result.IncomeByCategory, 1)
	assert.Equal(t, CategoryInsight{CategoryID: salarioID, Name: "Salário", Total: 500000}, result.IncomeByCategory[0])

	assert.Equal(t, int64(80000), result.Methods.Debito)
	assert.Equal(t, int64(40000), result.Methods.Cartao)
	assert.Equal(t, int64(10000), result.Methods.Dinheiro)

	require.Len(t, result.TopExpenses, 3)
	assert.Equal(t, int64(80000), result.TopExpenses[0].Amount)
	assert.Equal(t, int64(40000), result.TopExpenses[1].Amount)
	assert.Equal(t, int64(10000), result.TopExpenses[2].Amount)

	// 130000 spent out of 500000 earned
	assert.InDelta(t, 0.74, result.SavingsRate, 1e-9)
	assert.Equal(t, int64(200000), result.PreviousExpenses)

	ledgerRepo.AssertExpectations(t)
}

func TestInsightsService_NoWindowSkipsComparison(t *testing.T) {
	ledgerRepo := new(MockLedgerRepository)
	accountRepo := new(MockAccountRepository)
	categoryRepo := new(MockCategoryRepository)
	svc := newInsightsService(ledgerRepo, accountRepo, categoryRepo, time.Now())

	ledgerRepo.On("List", mock.Anything, ledger.Filter{}).Return([]*ledger.Entry{}, nil)
	accountRepo.On("List", mock.Anything, false).Return([]*account.Account{}, nil)
	categoryRepo.On("List", mock.Anything).Return([]*category.Category{}, nil)

	result, err := svc.Insights(context.Background(), "", ledger.Filter{})

	require.NoError(t, err)
	assert.Zero(t, result.PreviousExpenses)
	assert.Zero(t, result.SavingsRate)
	assert.Empty(t, result.TopExpenses)
	// An unbounded query has no "one month earlier" to compare against
	ledgerRepo.AssertNumberOfCalls(t, "List", 1)
}
