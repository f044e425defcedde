// Package balance derives account balances and period aggregates from the
// ledger. Nothing here is persisted: a balance is always a pure sum over
// the entry set, so a cached figure can never drift from the ledger of
// truth. All functions are order-independent and free of I/O.
package balance

import (
	"github.com/google/uuid"

	"github.com/familia-ledger/internal/domain/ledger"
	"github.com/familia-ledger/internal/domain/shared"
)

// CashBalance computes the signed balance of a bank-linked account or cash
// pool: incomes add, expenses subtract, transfers move value between the
// two legs. An account with no matching entries yields 0.
func CashBalance(accountID uuid.UUID, entries []*ledger.Entry) int64 {
	var total int64
	for _, e := range entries {
		switch e.Kind {
		case shared.EntryKindIncome:
			if e.SourceAccountID == accountID {
				total += e.Amount
			}
		case shared.EntryKindExpense:
			if e.SourceAccountID == accountID {
				total -= e.Amount
			}
		case shared.EntryKindTransfer:
			if e.SourceAccountID == accountID {
				total -= e.Amount
			}
			if e.DestinationAccountID != nil && *e.DestinationAccountID == accountID {
				total += e.Amount
			}
		}
	}
	return total
}

// StatementBalance computes a credit card's open invoice over an already
// window-filtered entry set: expenses charged to the card, minus transfers
// into the card (statement payments). This is not a lifetime figure; it is
// recomputed per active date filter.
func StatementBalance(cardID uuid.UUID, entries []*ledger.Entry) int64 {
	var owed int64
	for _, e := range entries {
		switch e.Kind {
		case shared.EntryKindExpense:
			if e.SourceAccountID == cardID {
				owed += e.Amount
			}
		case shared.EntryKindTransfer:
			if e.DestinationAccountID != nil && *e.DestinationAccountID == cardID {
				owed -= e.Amount
			}
		}
	}
	return owed
}

// Summary aggregates a filtered entry set. Card spend sits in its own
// bucket because charging a card is not a cash outflow until the statement
// is paid via a transfer.
type Summary struct {
	Receitas       int64 `json:"receitas"`
	DespesasPagas  int64 `json:"despesas_pagas"`
	DespesasCartao int64 `json:"despesas_cartao"`
	Saldo          int64 `json:"saldo"`
}

// Summarize computes the period aggregate over a filtered entry set.
// isCard reports whether an account is a credit card; card legs of a
// transfer never move cash saldo, while legs on real cash/bank accounts
// do.
func Summarize(entries []*ledger.Entry, isCard func(uuid.UUID) bool) Summary {
	var s Summary
	for _, e := range entries {
		switch e.Kind {
		case shared.EntryKindIncome:
			s.Receitas += e.Amount
		case shared.EntryKindExpense:
			if isCard(e.SourceAccountID) {
				s.DespesasCartao += e.Amount
			} else {
				s.DespesasPagas += e.Amount
			}
		case shared.EntryKindTransfer:
			if !isCard(e.SourceAccountID) {
				s.Saldo -= e.Amount
			}
			if e.DestinationAccountID != nil && !isCard(*e.DestinationAccountID) {
				s.Saldo += e.Amount
			}
		}
	}
	s.Saldo += s.Receitas - s.DespesasPagas
	return s
}

// CardSet builds an isCard predicate from a list of card account IDs
func CardSet(cardIDs []uuid.UUID) func(uuid.UUID) bool {
	set := make(map[uuid.UUID]struct{}, len(cardIDs))
	for _, id := range cardIDs {
		set[id] = struct{}{}
	}
	return func(id uuid.UUID) bool {
		_, ok := set[id]
		return ok
	}
}
