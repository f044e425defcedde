package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/familia-ledger/internal/domain/shared"
)

// Filter narrows a ledger listing. Zero values mean "no constraint".
type Filter struct {
	From        time.Time
	To          time.Time
	Kinds       []shared.EntryKind
	AuthorNames []string
	AccountID   uuid.UUID
}

// Repository manages ledger entry persistence
type Repository interface {
	Create(ctx context.Context, entry *Entry) error

	// CreateBatch inserts the entries of one installment split in order.
	// On failure it returns the number of entries that were persisted
	// before the error; the caller surfaces the partial batch rather
	// than rolling it back.
	CreateBatch(ctx context.Context, entries []*Entry) (int, error)

	GetByID(ctx context.Context, id uuid.UUID) (*Entry, error)
	List(ctx context.Context, filter Filter) ([]*Entry, error)
	CountByAccountID(ctx context.Context, accountID uuid.UUID) (int64, error)
	CountByCategoryID(ctx context.Context, categoryID uuid.UUID) (int64, error)
	Update(ctx context.Context, entry *Entry) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ErrEntryNotFound indicates a missing ledger entry
type ErrEntryNotFound struct {
	EntryID uuid.UUID
}

func (e ErrEntryNotFound) Error() string {
	return "ledger entry not found: " + e.EntryID.String()
}

// Is implements the errors.Is interface for ErrEntryNotFound
func (e ErrEntryNotFound) Is(target error) bool {
	t, ok := target.(ErrEntryNotFound)
	if !ok {
		return false
	}
	// An empty target ID matches any ErrEntryNotFound
	if t.EntryID == uuid.Nil {
		return true
	}
	return e.EntryID == t.EntryID
}
