package account

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/familia-ledger/internal/domain/shared"
)

// Common errors
var (
	ErrEmptyName           = errors.New("account name cannot be empty")
	ErrInvalidType         = errors.New("account type must be corrente, credito or dinheiro")
	ErrMissingInstitution  = errors.New("bank-linked accounts require an institution")
	ErrMissingOwner        = errors.New("bank-linked accounts require an owning user")
	ErrInvalidStatementDay = errors.New("statement days must be between 1 and 31")
	ErrMissingPixKey       = errors.New("pix accounts require a key type and key")
)

// Account represents a payment instrument: a bank-linked checking account,
// a credit card, or a shared physical-cash pool. Cash pools have no single
// owner and carry the shared family name.
type Account struct {
	ID                uuid.UUID              `json:"id"`
	Name              string                 `json:"name"`
	Type              shared.AccountType     `json:"type"`
	Subtype           shared.CheckingSubtype `json:"subtype,omitempty"` // checking only
	InstitutionID     *uuid.UUID             `json:"institution_id,omitempty"`
	LastDigits        string                 `json:"last_digits,omitempty"`
	PixKeyType        string                 `json:"pix_key_type,omitempty"`
	PixKey            string                 `json:"pix_key,omitempty"`
	StatementCloseDay int                    `json:"statement_close_day,omitempty"` // credit only, 1-31
	StatementDueDay   int                    `json:"statement_due_day,omitempty"`   // credit only, 1-31
	OwnerID           *uuid.UUID             `json:"owner_id,omitempty"`            // nil for cash pools
	OwnerName         string                 `json:"owner_name"`
	Active            bool                   `json:"active"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
}

// Params carries the caller-supplied fields for creating or editing an
// account. Irrelevant fields for the chosen type are cleared, mirroring the
// per-type form rules.
type Params struct {
	Name              string
	Type              shared.AccountType
	Subtype           shared.CheckingSubtype
	InstitutionID     *uuid.UUID
	LastDigits        string
	PixKeyType        string
	PixKey            string
	StatementCloseDay int
	StatementDueDay   int
}

// NewAccount validates the per-type field rules and returns a new account.
// Cash pools are shared: ownerID is dropped and the family name is used.
func NewAccount(p Params, ownerID uuid.UUID, ownerName string) (*Account, error) {
	if p.Name == "" {
		return nil, ErrEmptyName
	}
	if !p.Type.Valid() {
		return nil, ErrInvalidType
	}

	acc := &Account{
		ID:        uuid.New(),
		Name:      p.Name,
		Type:      p.Type,
		Active:    true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	switch p.Type {
	case shared.AccountTypeCash:
		acc.OwnerName = shared.CashPoolOwnerName

	case shared.AccountTypeCredit:
		if p.InstitutionID == nil {
			return nil, ErrMissingInstitution
		}
		if p.StatementCloseDay < 1 || p.StatementCloseDay > 31 || p.StatementDueDay < 1 || p.StatementDueDay > 31 {
			return nil, ErrInvalidStatementDay
		}
		if ownerID == uuid.Nil {
			return nil, ErrMissingOwner
		}
		acc.InstitutionID = p.InstitutionID
		acc.LastDigits = p.LastDigits
		acc.StatementCloseDay = p.StatementCloseDay
		acc.StatementDueDay = p.StatementDueDay
		acc.OwnerID = &ownerID
		acc.OwnerName = ownerName

	case shared.AccountTypeChecking:
		if p.InstitutionID == nil {
			return nil, ErrMissingInstitution
		}
		if ownerID == uuid.Nil {
			return nil, ErrMissingOwner
		}
		subtype := p.Subtype
		if subtype == "" {
			subtype = shared.CheckingSubtypeDebit
		}
		acc.Subtype = subtype
		acc.InstitutionID = p.InstitutionID
		acc.OwnerID = &ownerID
		acc.OwnerName = ownerName
		if subtype == shared.CheckingSubtypePix {
			if p.PixKeyType == "" || p.PixKey == "" {
				return nil, ErrMissingPixKey
			}
			acc.PixKeyType = p.PixKeyType
			acc.PixKey = p.PixKey
		} else {
			acc.LastDigits = p.LastDigits
		}
	}

	return acc, nil
}

// EditableBy reports whether the user may edit or delete this account.
// Cash pools are shared and editable by any family member.
func (a *Account) EditableBy(userID uuid.UUID) bool {
	if a.Type == shared.AccountTypeCash {
		return true
	}
	return a.OwnerID != nil && *a.OwnerID == userID
}

// Deactivate soft-disables the account so it stops appearing in pickers
// while historic entries keep resolving. There is no physical delete once
// the account is referenced by the ledger.
func (a *Account) Deactivate() {
	a.Active = false
	a.UpdatedAt = time.Now()
}

// Institution groups payment instruments under one legal bank entity
type Institution struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewInstitution creates an active institution with the given name
func NewInstitution(name string) (*Institution, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	return &Institution{
		ID:        uuid.New(),
		Name:      name,
		Active:    true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}, nil
}

// Deactivate soft-disables the institution once it has dependent
// instruments, instead of deleting it.
func (i *Institution) Deactivate() {
	i.Active = false
	i.UpdatedAt = time.Now()
}
