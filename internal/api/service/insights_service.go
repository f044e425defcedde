package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/familia-ledger/internal/balance"
	"github.com/familia-ledger/internal/domain/account"
	"github.com/familia-ledger/internal/domain/category"
	"github.com/familia-ledger/internal/domain/ledger"
	"github.com/familia-ledger/internal/domain/shared"
	"github.com/familia-ledger/internal/period"
)

// topExpenseCount caps the largest-expense list on the insights screen
const topExpenseCount = 3

// InsightsServiceImpl implements the InsightsService interface
type InsightsServiceImpl struct {
	ledgerRepo   ledger.Repository
	accountRepo  account.Repository
	categoryRepo category.Repository
	now          func() time.Time
}

// NewInsightsService creates a new insights service
func NewInsightsService(ledgerRepo ledger.Repository, accountRepo account.Repository, categoryRepo category.Repository) InsightsService {
	return &InsightsServiceImpl{
		ledgerRepo:   ledgerRepo,
		accountRepo:  accountRepo,
		categoryRepo: categoryRepo,
		now:          time.Now,
	}
}

// Insights derives the spending breakdowns over the filtered ledger: per-
// category totals, payment-method buckets, the largest expenses, the
// month-over-month despesa comparison and the savings rate. Everything is
// recomputed from the entry set per call, like the balances.
func (s *InsightsServiceImpl) Insights(ctx context.Context, shortcut string, filter ledger.Filter) (*InsightsResult, error) {
	result := &InsightsResult{
		Window: period.Window{Start: filter.From, End: filter.To},
	}

	token := strings.ToLower(strings.TrimSpace(shortcut))
	if token != "" {
		if window, ok := period.Resolve(token, s.now()); ok {
			result.Window = window
			result.Label = period.DisplayNames[token]
			filter.From = window.Start
			filter.To = window.End
		}
	}

	entries, err := s.ledgerRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	// Deactivated accounts stay in the type map; historic entries still
	// reference them
	accounts, err := s.accountRepo.List(ctx, false)
	if err != nil {
		return nil, err
	}
	types := make(map[uuid.UUID]shared.AccountType, len(accounts))
	var cardIDs []uuid.UUID
	for _, acc := range accounts {
		types[acc.ID] = acc.Type
		if acc.Type == shared.AccountTypeCredit {
			cardIDs = append(cardIDs, acc.ID)
		}
	}
	typeOf := func(id uuid.UUID) (shared.AccountType, bool) {
		t, ok := types[id]
		return t, ok
	}
	isCard := balance.CardSet(cardIDs)

	result.Totals = balance.Summarize(entries, isCard)

	names, err := s.categoryNames(ctx)
	if err != nil {
		return nil, err
	}
	expenses, incomes := balance.CategoryBreakdown(entries)
	result.ExpensesByCategory = resolveNames(expenses, names)
	result.IncomeByCategory = resolveNames(incomes, names)

	result.Methods = balance.BucketByMethod(entries, typeOf)
	result.TopExpenses = balance.TopExpenses(entries, topExpenseCount)
	result.SavingsRate = balance.SavingsRate(result.Totals.Receitas, result.Totals.DespesasPagas+result.Totals.DespesasCartao)

	if !filter.From.IsZero() && !filter.To.IsZero() {
		previous := filter
		previous.From = filter.From.AddDate(0, -1, 0)
		previous.To = filter.To.AddDate(0, -1, 0)

		previousEntries, err := s.ledgerRepo.List(ctx, previous)
		if err != nil {
			return nil, err
		}
		previousTotals := balance.Summarize(previousEntries, isCard)
		result.PreviousExpenses = previousTotals.DespesasPagas + previousTotals.DespesasCartao
	}

	return result, nil
}

func (s *InsightsServiceImpl) categoryNames(ctx context.Context) (map[uuid.UUID]string, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(categories))
	for _, cat := range categories {
		names[cat.ID] = cat.Name
	}
	return names, nil
}

func resolveNames(totals []balance.CategoryTotal, names map[uuid.UUID]string) []CategoryInsight {
	out := make([]CategoryInsight, 0, len(totals))
	for _, t := range totals {
		out = append(out, CategoryInsight{
			CategoryID: t.CategoryID,
			Name:       names[t.CategoryID],
			Total:      t.Total,
		})
	}
	return out
}
