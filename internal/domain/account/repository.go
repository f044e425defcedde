package account

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines account persistence operations
type Repository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// List returns all accounts ordered by type then name. When activeOnly
	// is set, deactivated accounts are omitted.
	List(ctx context.Context, activeOnly bool) ([]*Account, error)

	Update(ctx context.Context, account *Account) error

	// Delete physically removes the account. Returns ErrAccountInUse when
	// ledger entries still reference it; the caller should offer
	// deactivation instead.
	Delete(ctx context.Context, id uuid.UUID) error

	CountByInstitutionID(ctx context.Context, institutionID uuid.UUID) (int64, error)
}

// InstitutionRepository defines institution persistence operations
type InstitutionRepository interface {
	Create(ctx context.Context, institution *Institution) error
	GetByID(ctx context.Context, id uuid.UUID) (*Institution, error)
	List(ctx context.Context, activeOnly bool) ([]*Institution, error)
	Update(ctx context.Context, institution *Institution) error

	// Delete physically removes the institution. Returns
	// ErrInstitutionInUse when instruments still reference it.
	Delete(ctx context.Context, id uuid.UUID) error
}

// ErrAccountNotFound indicates a missing account
type ErrAccountNotFound struct {
	AccountID uuid.UUID
}

func (e ErrAccountNotFound) Error() string {
	return "account not found: " + e.AccountID.String()
}

// ErrAccountInUse indicates the account is still referenced by ledger
// entries and can only be deactivated, not deleted
type ErrAccountInUse struct {
	AccountID uuid.UUID
}

func (e ErrAccountInUse) Error() string {
	return "account still referenced by ledger entries: " + e.AccountID.String()
}

// ErrInstitutionNotFound indicates a missing institution
type ErrInstitutionNotFound struct {
	InstitutionID uuid.UUID
}

func (e ErrInstitutionNotFound) Error() string {
	return "institution not found: " + e.InstitutionID.String()
}

// ErrInstitutionInUse indicates the institution still has dependent
// payment instruments
type ErrInstitutionInUse struct {
	InstitutionID uuid.UUID
}

func (e ErrInstitutionInUse) Error() string {
	return "institution still has dependent instruments: " + e.InstitutionID.String()
}
