package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/familia-ledger/internal/balance"
	"github.com/familia-ledger/internal/domain/account"
	"github.com/familia-ledger/internal/domain/audit"
	"github.com/familia-ledger/internal/domain/category"
	"github.com/familia-ledger/internal/domain/ledger"
	"github.com/familia-ledger/internal/domain/shared"
	"github.com/familia-ledger/internal/period"
)

// MutationCoordinator drives writes through the audit-before-mutation
// protocol. Satisfied by *mutation.Coordinator.
type MutationCoordinator interface {
	Create(ctx context.Context, actor shared.Actor, draft ledger.Draft, installments int) ([]*ledger.Entry, error)
	Update(ctx context.Context, actor shared.Actor, entryID uuid.UUID, upd ledger.Update, reason string) (*ledger.Entry, error)
	Delete(ctx context.Context, actor shared.Actor, entryID uuid.UUID, reason string) error
}

// LedgerService defines the interface for ledger entry operations
type LedgerService interface {
	// CreateEntry records a new entry, optionally split into installments
	CreateEntry(ctx context.Context, actor shared.Actor, draft ledger.Draft, installments int) ([]*ledger.Entry, error)

	GetEntry(ctx context.Context, id uuid.UUID) (*ledger.Entry, error)
	ListEntries(ctx context.Context, filter ledger.Filter) ([]*ledger.Entry, error)

	// UpdateEntry and DeleteEntry require the actor to be the entry's
	// author and a non-empty reason for the audit trail.
	UpdateEntry(ctx context.Context, actor shared.Actor, id uuid.UUID, upd ledger.Update, reason string) (*ledger.Entry, error)
	DeleteEntry(ctx context.Context, actor shared.Actor, id uuid.UUID, reason string) error
}

// AccountService defines the interface for payment instrument and
// institution operations
type AccountService interface {
	CreateAccount(ctx context.Context, actor shared.Actor, p account.Params) (*account.Account, error)
	GetAccount(ctx context.Context, id uuid.UUID) (*account.Account, error)
	ListAccounts(ctx context.Context, activeOnly bool) ([]*account.Account, error)
	UpdateAccount(ctx context.Context, actor shared.Actor, id uuid.UUID, p account.Params) (*account.Account, error)

	// DeleteAccount physically removes an unreferenced account. Returns
	// ErrAccountInUse when ledger entries still point at it; the caller
	// should fall back to DeactivateAccount.
	DeleteAccount(ctx context.Context, actor shared.Actor, id uuid.UUID) error
	DeactivateAccount(ctx context.Context, actor shared.Actor, id uuid.UUID) (*account.Account, error)

	// CashBalance derives the signed balance of a bank-linked account or
	// cash pool over the optional window.
	CashBalance(ctx context.Context, accountID uuid.UUID, window *period.Window) (int64, error)

	// StatementBalance derives a credit card's open invoice over the
	// optional window.
	StatementBalance(ctx context.Context, cardID uuid.UUID, window *period.Window) (int64, error)

	CreateInstitution(ctx context.Context, name string) (*account.Institution, error)
	ListInstitutions(ctx context.Context, activeOnly bool) ([]*account.Institution, error)
	UpdateInstitution(ctx context.Context, id uuid.UUID, name string) (*account.Institution, error)

	// DeleteInstitution removes an institution with no dependent
	// instruments; otherwise it is deactivated and returned alive.
	DeleteInstitution(ctx context.Context, id uuid.UUID) error
}

// CategoryService defines the interface for category operations
type CategoryService interface {
	CreateCategory(ctx context.Context, name string, kind shared.EntryKind) (*category.Category, error)
	ListCategories(ctx context.Context) ([]*category.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, name string) (*category.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

// AuditService defines the interface for audit trail queries
type AuditService interface {
	ListDeletions(ctx context.Context, filter audit.Filter) ([]*audit.Record, error)
	ListUpdates(ctx context.Context, filter audit.Filter) ([]*audit.Record, error)

	// FrequentReasons returns up to the actor's three most used mutation
	// reasons from the last thirty days, for quick-fill suggestions.
	FrequentReasons(ctx context.Context, actorID uuid.UUID) ([]string, error)
}

// SummaryResult carries the derived period aggregate together with the
// window it covers
type SummaryResult struct {
	Window period.Window   `json:"window"`
	Label  string          `json:"label,omitempty"`
	Totals balance.Summary `json:"totals"`
}

// SummaryService derives period aggregates over the filtered ledger
type SummaryService interface {
	// Summarize resolves the shortcut (if any) against "now", falling
	// back to the explicit filter window, and aggregates the matching
	// entries.
	Summarize(ctx context.Context, shortcut string, filter ledger.Filter) (*SummaryResult, error)
}

// CategoryInsight is a per-category total with the category's display name
// resolved
type CategoryInsight struct {
	CategoryID uuid.UUID `json:"category_id"`
	Name       string    `json:"name"`
	Total      int64     `json:"total"`
}

// InsightsResult carries the derived spending breakdowns for a window
type InsightsResult struct {
	Window period.Window   `json:"window"`
	Label  string          `json:"label,omitempty"`
	Totals balance.Summary `json:"totals"`

	ExpensesByCategory []CategoryInsight     `json:"expenses_by_category"`
	IncomeByCategory   []CategoryInsight     `json:"income_by_category"`
	Methods            balance.MethodBuckets `json:"methods"`
	TopExpenses        []*ledger.Entry       `json:"top_expenses"`

	// PreviousExpenses is the total despesa of the same window shifted
	// back one month, for the month-over-month comparison. Zero when the
	// request carries no window.
	PreviousExpenses int64   `json:"previous_expenses"`
	SavingsRate      float64 `json:"savings_rate"`
}

// InsightsService derives category, payment-method and trend breakdowns
// over the filtered ledger
type InsightsService interface {
	Insights(ctx context.Context, shortcut string, filter ledger.Filter) (*InsightsResult, error)
}
