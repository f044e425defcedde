package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/familia-ledger/internal/domain/ledger"
	"github.com/familia-ledger/internal/domain/shared"
)

// LedgerServiceImpl implements the LedgerService interface. Reads go
// straight to the repository; every write goes through the coordinator.
type LedgerServiceImpl struct {
	coordinator MutationCoordinator
	ledgerRepo  ledger.Repository
}

// NewLedgerService creates a new ledger service
func NewLedgerService(coordinator MutationCoordinator, ledgerRepo ledger.Repository) LedgerService {
	return &LedgerServiceImpl{
		coordinator: coordinator,
		ledgerRepo:  ledgerRepo,
	}
}

// CreateEntry records a new entry, optionally split into installments
func (s *LedgerServiceImpl) CreateEntry(ctx context.Context, actor shared.Actor, draft ledger.Draft, installments int) ([]*ledger.Entry, error) {
	return s.coordinator.Create(ctx, actor, draft, installments)
}

// GetEntry retrieves an entry by its ID
func (s *LedgerServiceImpl) GetEntry(ctx context.Context, id uuid.UUID) (*ledger.Entry, error) {
	return s.ledgerRepo.GetByID(ctx, id)
}

// ListEntries returns the entries matching the filter
func (s *LedgerServiceImpl) ListEntries(ctx context.Context, filter ledger.Filter) ([]*ledger.Entry, error) {
	return s.ledgerRepo.List(ctx, filter)
}

// UpdateEntry edits an entry through the audit protocol
func (s *LedgerServiceImpl) UpdateEntry(ctx context.Context, actor shared.Actor, id uuid.UUID, upd ledger.Update, reason string) (*ledger.Entry, error) {
	return s.coordinator.Update(ctx, actor, id, upd, reason)
}

// DeleteEntry removes an entry through the audit protocol
func (s *LedgerServiceImpl) DeleteEntry(ctx context.Context, actor shared.Actor, id uuid.UUID, reason string) error {
	return s.coordinator.Delete(ctx, actor, id, reason)
}
