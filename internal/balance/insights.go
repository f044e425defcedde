package balance

import (
	"sort"

	"github.com/google/uuid"

	"github.com/familia-ledger/internal/domain/ledger"
	"github.com/familia-ledger/internal/domain/shared"
)

// CategoryTotal is a per-category amount aggregate
type CategoryTotal struct {
	CategoryID uuid.UUID
	Total      int64
}

// CategoryBreakdown sums the entry set per category, expenses and incomes
// separately, largest first. Transfers carry no category and are skipped.
// Ties break on the category ID so the ordering is stable across calls.
func CategoryBreakdown(entries []*ledger.Entry) (expenses, incomes []CategoryTotal) {
	expenseTotals := make(map[uuid.UUID]int64)
	incomeTotals := make(map[uuid.UUID]int64)

	for _, e := range entries {
		if e.CategoryID == nil {
			continue
		}
		switch e.Kind {
		case shared.EntryKindExpense:
			expenseTotals[*e.CategoryID] += e.Amount
		case shared.EntryKindIncome:
			incomeTotals[*e.CategoryID] += e.Amount
		}
	}

	return sortedTotals(expenseTotals), sortedTotals(incomeTotals)
}

func sortedTotals(totals map[uuid.UUID]int64) []CategoryTotal {
	out := make([]CategoryTotal, 0, len(totals))
	for id, total := range totals {
		out = append(out, CategoryTotal{CategoryID: id, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].CategoryID.String() < out[j].CategoryID.String()
	})
	return out
}

// MethodBuckets splits expense spend by the instrument it was charged to
type MethodBuckets struct {
	Debito   int64 `json:"debito"`   // checking accounts (débito or pix)
	Cartao   int64 `json:"cartao"`   // credit cards
	Dinheiro int64 `json:"dinheiro"` // cash pools
}

// BucketByMethod sums expenses per source-account type. typeOf resolves an
// account ID to its type; entries whose account cannot be resolved are
// skipped rather than guessed into a bucket.
func BucketByMethod(entries []*ledger.Entry, typeOf func(uuid.UUID) (shared.AccountType, bool)) MethodBuckets {
	var b MethodBuckets
	for _, e := range entries {
		if e.Kind != shared.EntryKindExpense {
			continue
		}
		accType, ok := typeOf(e.SourceAccountID)
		if !ok {
			continue
		}
		switch accType {
		case shared.AccountTypeChecking:
			b.Debito += e.Amount
		case shared.AccountTypeCredit:
			b.Cartao += e.Amount
		case shared.AccountTypeCash:
			b.Dinheiro += e.Amount
		}
	}
	return b
}

// TopExpenses returns up to n largest expense entries, amount descending.
// Equal amounts keep their input order.
func TopExpenses(entries []*ledger.Entry, n int) []*ledger.Entry {
	var expenses []*ledger.Entry
	for _, e := range entries {
		if e.Kind == shared.EntryKindExpense {
			expenses = append(expenses, e)
		}
	}
	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].Amount > expenses[j].Amount
	})
	if len(expenses) > n {
		expenses = expenses[:n]
	}
	return expenses
}

// SavingsRate returns the saved share of income, (receitas - despesas) /
// receitas. A period without income yields 0; overspending yields a
// negative rate.
func SavingsRate(receitas, despesas int64) float64 {
	if receitas == 0 {
		return 0
	}
	return float64(receitas-despesas) / float64(receitas)
}
