package category

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/familia-ledger/internal/domain/shared"
)

var (
	ErrEmptyName   = errors.New("category name cannot be empty")
	ErrInvalidKind = errors.New("category kind must be receita or despesa")
)

// Category labels income and expense entries. Transfers carry no category.
type Category struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	Kind      shared.EntryKind `json:"kind"`
	CreatedAt time.Time        `json:"created_at"`
}

// NewCategory creates a category for the given kind
func NewCategory(name string, kind shared.EntryKind) (*Category, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if kind != shared.EntryKindIncome && kind != shared.EntryKindExpense {
		return nil, ErrInvalidKind
	}
	return &Category{
		ID:        uuid.New(),
		Name:      name,
		Kind:      kind,
		CreatedAt: time.Now(),
	}, nil
}

// Repository defines category persistence operations
type Repository interface {
	Create(ctx context.Context, category *Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
	Update(ctx context.Context, category *Category) error

	// Delete physically removes the category. Returns ErrCategoryInUse
	// when ledger entries still reference it.
	Delete(ctx context.Context, id uuid.UUID) error
}

// ErrCategoryNotFound indicates a missing category
type ErrCategoryNotFound struct {
	CategoryID uuid.UUID
}

func (e ErrCategoryNotFound) Error() string {
	return "category not found: " + e.CategoryID.String()
}

// ErrCategoryInUse indicates the category is still referenced by ledger
// entries
type ErrCategoryInUse struct {
	CategoryID uuid.UUID
}

func (e ErrCategoryInUse) Error() string {
	return "category still referenced by ledger entries: " + e.CategoryID.String()
}
