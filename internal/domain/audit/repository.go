package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/familia-ledger/internal/domain/shared"
)

// Filter narrows audit trail listings. Zero values mean "no constraint".
type Filter struct {
	Action      shared.AuditAction
	Month       time.Time // any instant within the wanted month
	Kind        shared.EntryKind
	AuthorNames []string
}

// Repository manages append-only audit record persistence. There are
// deliberately no update or delete operations.
type Repository interface {
	// Create persists the record. The write must be acknowledged before
	// the caller touches the ledger.
	Create(ctx context.Context, record *Record) error

	List(ctx context.Context, filter Filter) ([]*Record, error)

	// ListByActorSince returns the actor's records recorded at or after
	// the given instant, oldest first. Used for frequent-reason
	// suggestions.
	ListByActorSince(ctx context.Context, actorID uuid.UUID, since time.Time) ([]*Record, error)
}
