package audit

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/familia-ledger/internal/domain/ledger"
	"github.com/familia-ledger/internal/domain/shared"
)

// ErrEmptyReason indicates a missing mutation reason; every audit record
// requires one.
var ErrEmptyReason = errors.New("audit reason cannot be empty")

// Record is an immutable pre-mutation snapshot of a ledger entry, plus the
// actor who mutated it and why. Records are append-only: the application
// creates them and never updates or deletes them.
type Record struct {
	ID     uuid.UUID          `json:"id" bson:"_id"`
	Action shared.AuditAction `json:"action" bson:"action"`

	// Prior field values, copied verbatim from the entry at the instant
	// before the mutation.
	EntryID                   uuid.UUID        `json:"entry_id" bson:"entry_id"`
	PriorKind                 shared.EntryKind `json:"prior_kind" bson:"prior_kind"`
	PriorAmount               int64            `json:"prior_amount" bson:"prior_amount"`
	PriorOccurredOn           time.Time        `json:"prior_occurred_on" bson:"prior_occurred_on"`
	PriorDescription          string           `json:"prior_description" bson:"prior_description"`
	PriorCategoryID           *uuid.UUID       `json:"prior_category_id,omitempty" bson:"prior_category_id,omitempty"`
	PriorSourceAccountID      uuid.UUID        `json:"prior_source_account_id" bson:"prior_source_account_id"`
	PriorDestinationAccountID *uuid.UUID       `json:"prior_destination_account_id,omitempty" bson:"prior_destination_account_id,omitempty"`
	AuthorID                  uuid.UUID        `json:"author_id" bson:"author_id"`
	AuthorName                string           `json:"author_name" bson:"author_name"`

	// Identity of the user who performed the mutation, under the name
	// they had at that moment.
	ActorID    uuid.UUID `json:"actor_id" bson:"actor_id"`
	ActorName  string    `json:"actor_name" bson:"actor_name"`
	Reason     string    `json:"reason" bson:"reason"`
	RecordedAt time.Time `json:"recorded_at" bson:"recorded_at"`
}

// NewDeletionRecord snapshots an entry about to be deleted
func NewDeletionRecord(prior *ledger.Entry, actorID uuid.UUID, actorName, reason string) (*Record, error) {
	return newRecord(shared.AuditActionDeletion, prior, actorID, actorName, reason)
}

// NewUpdateRecord snapshots an entry about to be updated
func NewUpdateRecord(prior *ledger.Entry, actorID uuid.UUID, actorName, reason string) (*Record, error) {
	return newRecord(shared.AuditActionUpdate, prior, actorID, actorName, reason)
}

func newRecord(action shared.AuditAction, prior *ledger.Entry, actorID uuid.UUID, actorName, reason string) (*Record, error) {
	if reason == "" {
		return nil, ErrEmptyReason
	}
	return &Record{
		ID:                        uuid.New(),
		Action:                    action,
		EntryID:                   prior.ID,
		PriorKind:                 prior.Kind,
		PriorAmount:               prior.Amount,
		PriorOccurredOn:           prior.OccurredOn,
		PriorDescription:          prior.Description,
		PriorCategoryID:           prior.CategoryID,
		PriorSourceAccountID:      prior.SourceAccountID,
		PriorDestinationAccountID: prior.DestinationAccountID,
		AuthorID:                  prior.AuthorID,
		AuthorName:                prior.AuthorName,
		ActorID:                   actorID,
		ActorName:                 actorName,
		Reason:                    reason,
		RecordedAt:                time.Now(),
	}, nil
}
