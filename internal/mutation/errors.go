package mutation

import (
	"fmt"

	"github.com/google/uuid"
)

// State tracks a mutation request through the coordinator. Every request
// either reaches StateCommitted or terminates in StateAborted with one of
// the typed errors below.
type State string

const (
	StateProposed     State = "proposed"
	StateValidated    State = "validated"
	StateAuditWritten State = "audit_written"
	StateCommitted    State = "committed"
	StateAborted      State = "aborted"
)

// AuthorizationError indicates the actor is not the entry's original
// author. The request never reaches the audit step.
type AuthorizationError struct {
	EntryID uuid.UUID
	ActorID uuid.UUID
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("actor %s is not the author of entry %s", e.ActorID, e.EntryID)
}

// AuditWriteError indicates the pre-mutation snapshot could not be
// persisted. The ledger was left untouched.
type AuditWriteError struct {
	EntryID uuid.UUID
	Cause   error
}

func (e *AuditWriteError) Error() string {
	return fmt.Sprintf("audit write failed for entry %s: %v", e.EntryID, e.Cause)
}

func (e *AuditWriteError) Unwrap() error { return e.Cause }

// PersistenceError indicates the ledger mutation failed after the audit
// record was already written. The resulting inconsistency (an audit record
// for a mutation that did not happen) is surfaced, never silently retried:
// mutations are not idempotent and a blind retry risks double-application.
type PersistenceError struct {
	EntryID uuid.UUID
	Cause   error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("ledger mutation failed after audit write for entry %s: %v", e.EntryID, e.Cause)
}

func (e *PersistenceError) Unwrap() error { return e.Cause }

// BatchError reports a partially persisted installment batch. There is no
// distributed transaction across entries; the caller is told how far the
// batch got and may clean up manually.
type BatchError struct {
	Inserted int
	Total    int
	Cause    error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("installment batch partially persisted (%d of %d): %v", e.Inserted, e.Total, e.Cause)
}

func (e *BatchError) Unwrap() error { return e.Cause }
