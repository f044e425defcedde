package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/familia-ledger/internal/domain/shared"
)

// ValidationError reports a structurally invalid entry, naming the field
// that violated a kind-specific rule. No I/O has happened when one is
// returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid entry: field %q %s", e.Field, e.Reason)
}

// Entry represents a single recorded income, expense, or transfer event.
// Amounts are stored in centavos (integer minor units); balances are never
// stored, only derived from the full set of entries.
type Entry struct {
	ID                   uuid.UUID        `json:"id"`
	Kind                 shared.EntryKind `json:"kind"`
	Amount               int64            `json:"amount"` // centavos, always > 0
	OccurredOn           time.Time        `json:"occurred_on"`
	Description          string           `json:"description"`
	CategoryID           *uuid.UUID       `json:"category_id,omitempty"`
	SourceAccountID      uuid.UUID        `json:"source_account_id"`
	DestinationAccountID *uuid.UUID       `json:"destination_account_id,omitempty"`
	AuthorID             uuid.UUID        `json:"author_id"`
	AuthorName           string           `json:"author_name"` // frozen at creation time
	CreatedAt            time.Time        `json:"created_at"`
}

// Draft carries the caller-supplied fields of a candidate entry
type Draft struct {
	Kind                 shared.EntryKind
	Amount               int64
	OccurredOn           time.Time
	Description          string
	CategoryID           *uuid.UUID
	SourceAccountID      uuid.UUID
	DestinationAccountID *uuid.UUID
}

// NewEntry validates a draft against the kind-specific rules and returns a
// value object ready for persistence. The author identity is captured
// verbatim; the name stays frozen even if the user later renames.
func NewEntry(draft Draft, authorID uuid.UUID, authorName string) (*Entry, error) {
	if !draft.Kind.Valid() {
		return nil, &ValidationError{Field: "kind", Reason: "must be receita, despesa or transferencia"}
	}
	if draft.Amount <= 0 {
		return nil, &ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if draft.OccurredOn.IsZero() {
		return nil, &ValidationError{Field: "occurred_on", Reason: "must be a valid calendar date"}
	}
	if draft.Description == "" {
		return nil, &ValidationError{Field: "description", Reason: "is required"}
	}
	if draft.SourceAccountID == uuid.Nil {
		return nil, &ValidationError{Field: "source_account_id", Reason: "is required"}
	}

	switch draft.Kind {
	case shared.EntryKindTransfer:
		if draft.CategoryID != nil {
			return nil, &ValidationError{Field: "category_id", Reason: "must be empty for transfers"}
		}
		if draft.DestinationAccountID == nil || *draft.DestinationAccountID == uuid.Nil {
			return nil, &ValidationError{Field: "destination_account_id", Reason: "is required for transfers"}
		}
		if *draft.DestinationAccountID == draft.SourceAccountID {
			return nil, &ValidationError{Field: "destination_account_id", Reason: "must differ from the source account"}
		}
	default:
		if draft.CategoryID == nil || *draft.CategoryID == uuid.Nil {
			return nil, &ValidationError{Field: "category_id", Reason: "is required"}
		}
		if draft.DestinationAccountID != nil {
			return nil, &ValidationError{Field: "destination_account_id", Reason: "must be empty unless the entry is a transfer"}
		}
	}

	if authorID == uuid.Nil {
		return nil, &ValidationError{Field: "author_id", Reason: "is required"}
	}

	return &Entry{
		ID:                   uuid.New(),
		Kind:                 draft.Kind,
		Amount:               draft.Amount,
		OccurredOn:           NormalizeDate(draft.OccurredOn),
		Description:          draft.Description,
		CategoryID:           draft.CategoryID,
		SourceAccountID:      draft.SourceAccountID,
		DestinationAccountID: draft.DestinationAccountID,
		AuthorID:             authorID,
		AuthorName:           authorName,
		CreatedAt:            time.Now(),
	}, nil
}

// Update carries the editable fields of an existing entry. Kind, accounts,
// author and creation time are immutable after the fact.
type Update struct {
	Amount      int64
	OccurredOn  time.Time
	Description string
	CategoryID  *uuid.UUID
}

// Apply returns a copy of the entry with the update applied, revalidating
// the fields an edit may touch. The receiver is left untouched.
func (e *Entry) Apply(u Update) (*Entry, error) {
	if u.Amount <= 0 {
		return nil, &ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if u.OccurredOn.IsZero() {
		return nil, &ValidationError{Field: "occurred_on", Reason: "must be a valid calendar date"}
	}
	if u.Description == "" {
		return nil, &ValidationError{Field: "description", Reason: "is required"}
	}
	if e.Kind == shared.EntryKindTransfer {
		if u.CategoryID != nil {
			return nil, &ValidationError{Field: "category_id", Reason: "must be empty for transfers"}
		}
	} else if u.CategoryID == nil || *u.CategoryID == uuid.Nil {
		return nil, &ValidationError{Field: "category_id", Reason: "is required"}
	}

	updated := *e
	updated.Amount = u.Amount
	updated.OccurredOn = NormalizeDate(u.OccurredOn)
	updated.Description = u.Description
	updated.CategoryID = u.CategoryID
	return &updated, nil
}

// NormalizeDate strips the time component; occurred_on is a calendar date,
// distinct from the creation timestamp.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
