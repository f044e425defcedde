// Package mutation coordinates every write against the ledger. A mutation
// walks a fixed state machine: Proposed, Validated, AuditWritten,
// Committed, with any failure terminating in Aborted. Updates and deletes
// must land an audit snapshot before the ledger row is touched.
package mutation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/familia-ledger/internal/domain/audit"
	"github.com/familia-ledger/internal/domain/ledger"
	"github.com/familia-ledger/internal/domain/shared"
)

// Events receives post-commit notifications. Delivery is best-effort and
// must never block or fail a committed mutation.
type Events interface {
	EntriesCreated(ctx context.Context, entries []*ledger.Entry, actor shared.Actor)
	EntryUpdated(ctx context.Context, entry *ledger.Entry, actor shared.Actor)
	EntryDeleted(ctx context.Context, entryID uuid.UUID, actor shared.Actor)
}

// Coordinator drives ledger mutations through the audit-before-mutation
// protocol.
type Coordinator struct {
	entries ledger.Repository
	audits  audit.Repository
	events  Events
	log     *slog.Logger
}

// NewCoordinator creates a mutation coordinator. events may be nil, which
// disables change notifications.
func NewCoordinator(entries ledger.Repository, audits audit.Repository, events Events, log *slog.Logger) *Coordinator {
	return &Coordinator{
		entries: entries,
		audits:  audits,
		events:  events,
		log:     log,
	}
}

// Create validates and persists a new entry. installments must be >= 1;
// when it is greater than 1 the draft must be an expense and its amount is
// split into near-equal centavo shares (remainder on the last share), one
// entry per consecutive month with the day-of-month clamped to shorter
// months and a " (i/N)" suffix on each description.
//
// Creation needs no audit record; the audit protocol covers only updates
// and deletes. A partially persisted batch is returned together with a
// *BatchError so the caller can show exactly how far it got.
func (c *Coordinator) Create(ctx context.Context, actor shared.Actor, draft ledger.Draft, installments int) ([]*ledger.Entry, error) {
	if installments < 1 {
		return nil, &ledger.ValidationError{Field: "installments", Reason: "must be at least 1"}
	}
	if installments > 1 && draft.Kind != shared.EntryKindExpense {
		return nil, &ledger.ValidationError{Field: "installments", Reason: "only expenses can be split"}
	}

	if installments == 1 {
		entry, err := ledger.NewEntry(draft, actor.ID, actor.DisplayName)
		if err != nil {
			return nil, err
		}
		if err := c.entries.Create(ctx, entry); err != nil {
			return nil, &PersistenceError{EntryID: entry.ID, Cause: err}
		}
		c.log.Info("ledger entry created",
			"entry_id", entry.ID,
			"kind", entry.Kind,
			"amount", entry.Amount,
			"actor_id", actor.ID)
		c.publishCreated(ctx, []*ledger.Entry{entry}, actor)
		return []*ledger.Entry{entry}, nil
	}

	// Validate every installment before persisting any of them.
	shares := SplitAmount(draft.Amount, installments)
	entries := make([]*ledger.Entry, 0, installments)
	for i := 0; i < installments; i++ {
		d := draft
		d.Amount = shares[i]
		d.OccurredOn = addMonthsClamped(draft.OccurredOn, i)
		d.Description = fmt.Sprintf("%s (%d/%d)", draft.Description, i+1, installments)
		entry, err := ledger.NewEntry(d, actor.ID, actor.DisplayName)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	inserted, err := c.entries.CreateBatch(ctx, entries)
	if err != nil {
		c.log.Error("installment batch partially persisted",
			"inserted", inserted,
			"total", installments,
			"actor_id", actor.ID,
			"error", err)
		persisted := entries[:inserted]
		c.publishCreated(ctx, persisted, actor)
		return persisted, &BatchError{Inserted: inserted, Total: installments, Cause: err}
	}

	c.log.Info("installment batch created",
		"installments", installments,
		"total_amount", draft.Amount,
		"actor_id", actor.ID)
	c.publishCreated(ctx, entries, actor)
	return entries, nil
}

// Update applies an edit to an existing entry. Only the original author
// may edit, and the pre-edit snapshot must be acknowledged by the audit
// store before the row changes.
func (c *Coordinator) Update(ctx context.Context, actor shared.Actor, entryID uuid.UUID, upd ledger.Update, reason string) (*ledger.Entry, error) {
	prior, err := c.entries.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	updated, err := prior.Apply(upd)
	if err != nil {
		return nil, err
	}

	if prior.AuthorID != actor.ID {
		c.log.Warn("update rejected: actor is not the author",
			"entry_id", entryID,
			"actor_id", actor.ID)
		return nil, &AuthorizationError{EntryID: entryID, ActorID: actor.ID}
	}

	record, err := audit.NewUpdateRecord(prior, actor.ID, actor.DisplayName, reason)
	if err != nil {
		return nil, err
	}
	if err := c.audits.Create(ctx, record); err != nil {
		c.log.Error("audit write failed, update aborted",
			"entry_id", entryID,
			"actor_id", actor.ID,
			"error", err)
		return nil, &AuditWriteError{EntryID: entryID, Cause: err}
	}

	if err := c.entries.Update(ctx, updated); err != nil {
		c.log.Error("ledger update failed after audit write",
			"entry_id", entryID,
			"audit_record_id", record.ID,
			"error", err)
		return nil, &PersistenceError{EntryID: entryID, Cause: err}
	}

	c.log.Info("ledger entry updated",
		"entry_id", entryID,
		"actor_id", actor.ID,
		"audit_record_id", record.ID)
	if c.events != nil {
		c.events.EntryUpdated(ctx, updated, actor)
	}
	return updated, nil
}

// Delete removes an entry after snapshotting it. Same protocol as Update:
// author-only, audit acknowledged first, persistence failure surfaced.
func (c *Coordinator) Delete(ctx context.Context, actor shared.Actor, entryID uuid.UUID, reason string) error {
	prior, err := c.entries.GetByID(ctx, entryID)
	if err != nil {
		return err
	}

	if prior.AuthorID != actor.ID {
		c.log.Warn("delete rejected: actor is not the author",
			"entry_id", entryID,
			"actor_id", actor.ID)
		return &AuthorizationError{EntryID: entryID, ActorID: actor.ID}
	}

	record, err := audit.NewDeletionRecord(prior, actor.ID, actor.DisplayName, reason)
	if err != nil {
		return err
	}
	if err := c.audits.Create(ctx, record); err != nil {
		c.log.Error("audit write failed, delete aborted",
			"entry_id", entryID,
			"actor_id", actor.ID,
			"error", err)
		return &AuditWriteError{EntryID: entryID, Cause: err}
	}

	if err := c.entries.Delete(ctx, entryID); err != nil {
		c.log.Error("ledger delete failed after audit write",
			"entry_id", entryID,
			"audit_record_id", record.ID,
			"error", err)
		return &PersistenceError{EntryID: entryID, Cause: err}
	}

	c.log.Info("ledger entry deleted",
		"entry_id", entryID,
		"actor_id", actor.ID,
		"audit_record_id", record.ID)
	if c.events != nil {
		c.events.EntryDeleted(ctx, entryID, actor)
	}
	return nil
}

func (c *Coordinator) publishCreated(ctx context.Context, entries []*ledger.Entry, actor shared.Actor) {
	if c.events == nil || len(entries) == 0 {
		return
	}
	c.events.EntriesCreated(ctx, entries, actor)
}

// SplitAmount divides total centavos into n near-equal shares that sum
// exactly to total. The integer remainder lands on the last share.
func SplitAmount(total int64, n int) []int64 {
	base := total / int64(n)
	shares := make([]int64, n)
	for i := range shares {
		shares[i] = base
	}
	shares[n-1] += total - base*int64(n)
	return shares
}

// addMonthsClamped moves a date forward by whole months, keeping the
// day-of-month but clamping to the last day of shorter months. AddDate
// alone would normalize Jan 31 + 1 month into March.
func addMonthsClamped(d time.Time, months int) time.Time {
	first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	day := d.Day()
	if last := first.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}
