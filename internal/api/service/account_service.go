package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/familia-ledger/internal/balance"
	"github.com/familia-ledger/internal/domain/account"
	"github.com/familia-ledger/internal/domain/ledger"
	"github.com/familia-ledger/internal/domain/shared"
	"github.com/familia-ledger/internal/period"
)

// ErrNotOwner indicates the actor does not own the account they tried to
// change. Cash pools are shared and exempt.
var ErrNotOwner = errors.New("account can only be changed by its owner")

// AccountServiceImpl implements the AccountService interface
type AccountServiceImpl struct {
	accountRepo     account.Repository
	institutionRepo account.InstitutionRepository
	ledgerRepo      ledger.Repository
}

// NewAccountService creates a new account service
func NewAccountService(accountRepo account.Repository, institutionRepo account.InstitutionRepository, ledgerRepo ledger.Repository) AccountService {
	return &AccountServiceImpl{
		accountRepo:     accountRepo,
		institutionRepo: institutionRepo,
		ledgerRepo:      ledgerRepo,
	}
}

// CreateAccount validates the per-type rules and stores the instrument.
// Bank-linked types must reference an existing institution.
func (s *AccountServiceImpl) CreateAccount(ctx context.Context, actor shared.Actor, p account.Params) (*account.Account, error) {
	if p.InstitutionID != nil {
		if _, err := s.institutionRepo.GetByID(ctx, *p.InstitutionID); err != nil {
			return nil, err
		}
	}

	acc, err := account.NewAccount(p, actor.ID, actor.DisplayName)
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.Create(ctx, acc); err != nil {
		return nil, err
	}

	return acc, nil
}

// GetAccount retrieves an account by its ID
func (s *AccountServiceImpl) GetAccount(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	return s.accountRepo.GetByID(ctx, id)
}

// ListAccounts returns accounts ordered by type then name
func (s *AccountServiceImpl) ListAccounts(ctx context.Context, activeOnly bool) ([]*account.Account, error) {
	return s.accountRepo.List(ctx, activeOnly)
}

// UpdateAccount applies the editable fields to an existing account. Only
// the owner may edit; cash pools are editable by anyone in the family.
func (s *AccountServiceImpl) UpdateAccount(ctx context.Context, actor shared.Actor, id uuid.UUID, p account.Params) (*account.Account, error) {
	acc, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !acc.EditableBy(actor.ID) {
		return nil, ErrNotOwner
	}

	// Rebuild through the constructor so per-type rules are re-validated,
	// then keep the original identity.
	p.Type = acc.Type
	rebuilt, err := account.NewAccount(p, actor.ID, acc.OwnerName)
	if err != nil {
		return nil, err
	}
	rebuilt.ID = acc.ID
	rebuilt.OwnerID = acc.OwnerID
	rebuilt.OwnerName = acc.OwnerName
	rebuilt.Active = acc.Active
	rebuilt.CreatedAt = acc.CreatedAt
	rebuilt.UpdatedAt = time.Now()

	if err := s.accountRepo.Update(ctx, rebuilt); err != nil {
		return nil, err
	}

	return rebuilt, nil
}

// DeleteAccount physically removes an unreferenced account. A dependency
// count runs first so a referenced account surfaces ErrAccountInUse before
// the delete is attempted; the foreign keys remain the backstop.
func (s *AccountServiceImpl) DeleteAccount(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	acc, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !acc.EditableBy(actor.ID) {
		return ErrNotOwner
	}

	count, err := s.ledgerRepo.CountByAccountID(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return account.ErrAccountInUse{AccountID: id}
	}

	return s.accountRepo.Delete(ctx, id)
}

// DeactivateAccount soft-disables the account so historic entries keep
// resolving while the account stops appearing in pickers
func (s *AccountServiceImpl) DeactivateAccount(ctx context.Context, actor shared.Actor, id uuid.UUID) (*account.Account, error) {
	acc, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !acc.EditableBy(actor.ID) {
		return nil, ErrNotOwner
	}

	acc.Deactivate()
	if err := s.accountRepo.Update(ctx, acc); err != nil {
		return nil, err
	}

	return acc, nil
}

// CashBalance derives the signed balance from the entry set; nothing is
// read from a stored balance column because none exists
func (s *AccountServiceImpl) CashBalance(ctx context.Context, accountID uuid.UUID, window *period.Window) (int64, error) {
	entries, err := s.entriesFor(ctx, accountID, window)
	if err != nil {
		return 0, err
	}
	return balance.CashBalance(accountID, entries), nil
}

// StatementBalance derives a credit card's open invoice over the window
func (s *AccountServiceImpl) StatementBalance(ctx context.Context, cardID uuid.UUID, window *period.Window) (int64, error) {
	entries, err := s.entriesFor(ctx, cardID, window)
	if err != nil {
		return 0, err
	}
	return balance.StatementBalance(cardID, entries), nil
}

func (s *AccountServiceImpl) entriesFor(ctx context.Context, accountID uuid.UUID, window *period.Window) ([]*ledger.Entry, error) {
	filter := ledger.Filter{AccountID: accountID}
	if window != nil {
		filter.From = window.Start
		filter.To = window.End
	}
	return s.ledgerRepo.List(ctx, filter)
}

// CreateInstitution stores a new institution
func (s *AccountServiceImpl) CreateInstitution(ctx context.Context, name string) (*account.Institution, error) {
	inst, err := account.NewInstitution(name)
	if err != nil {
		return nil, err
	}
	if err := s.institutionRepo.Create(ctx, inst); err != nil {
		return nil, err
	}
	return inst, nil
}

// ListInstitutions returns institutions ordered by name
func (s *AccountServiceImpl) ListInstitutions(ctx context.Context, activeOnly bool) ([]*account.Institution, error) {
	return s.institutionRepo.List(ctx, activeOnly)
}

// UpdateInstitution renames an institution
func (s *AccountServiceImpl) UpdateInstitution(ctx context.Context, id uuid.UUID, name string) (*account.Institution, error) {
	inst, err := s.institutionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, account.ErrEmptyName
	}

	inst.Name = name
	inst.UpdatedAt = time.Now()
	if err := s.institutionRepo.Update(ctx, inst); err != nil {
		return nil, err
	}

	return inst, nil
}

// DeleteInstitution removes an institution with no dependent instruments;
// one that is still referenced is deactivated instead
func (s *AccountServiceImpl) DeleteInstitution(ctx context.Context, id uuid.UUID) error {
	count, err := s.accountRepo.CountByInstitutionID(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		inst, err := s.institutionRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		inst.Deactivate()
		return s.institutionRepo.Update(ctx, inst)
	}

	return s.institutionRepo.Delete(ctx, id)
}
