package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/familia-ledger/internal/balance"
	"github.com/familia-ledger/internal/domain/account"
	"github.com/familia-ledger/internal/domain/ledger"
	"github.com/familia-ledger/internal/domain/shared"
	"github.com/familia-ledger/internal/period"
)

// SummaryServiceImpl implements the SummaryService interface
type SummaryServiceImpl struct {
	ledgerRepo  ledger.Repository
	accountRepo account.Repository
	now         func() time.Time
}

// NewSummaryService creates a new summary service
func NewSummaryService(ledgerRepo ledger.Repository, accountRepo account.Repository) SummaryService {
	return &SummaryServiceImpl{
		ledgerRepo:  ledgerRepo,
		accountRepo: accountRepo,
		now:         time.Now,
	}
}

// Summarize aggregates the filtered ledger. A recognized shortcut
// overrides the filter's explicit window; an unrecognized one leaves it
// untouched and carries no label.
func (s *SummaryServiceImpl) Summarize(ctx context.Context, shortcut string, filter ledger.Filter) (*SummaryResult, error) {
	result := &SummaryResult{
		Window: period.Window{Start: filter.From, End: filter.To},
	}

	// Resolve trims and lowercases, so the label lookup must use the
	// same canonical token
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

	cards, err := s.cardSet(ctx)
	if err != nil {
		return nil, err
	}

	result.Totals = balance.Summarize(entries, cards)
	return result, nil
}

// cardSet builds the credit card predicate from the full account list,
// deactivated cards included, since historic entries still reference them
func (s *SummaryServiceImpl) cardSet(ctx context.Context) (func(uuid.UUID) bool, error) {
	accounts, err := s.accountRepo.List(ctx, false)
	if err != nil {
		return nil, err
	}

	var cardIDs []uuid.UUID
	for _, acc := range accounts {
		if acc.Type == shared.AccountTypeCredit {
			cardIDs = append(cardIDs, acc.ID)
		}
	}

	return balance.CardSet(cardIDs), nil
}
