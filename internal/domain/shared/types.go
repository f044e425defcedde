package shared

// EntryKind defines the kinds of ledger entries
type EntryKind string

const (
	EntryKindIncome   EntryKind = "receita"
	EntryKindExpense  EntryKind = "despesa"
	EntryKindTransfer EntryKind = "transferencia"
)

// Valid reports whether the kind is one of the three supported variants
func (k EntryKind) Valid() bool {
	switch k {
	case EntryKindIncome, EntryKindExpense, EntryKindTransfer:
		return true
	}
	return false
}

// AccountType defines the supported payment instrument types
type AccountType string

const (
	AccountTypeChecking AccountType = "corrente"
	AccountTypeCredit   AccountType = "credito"
	AccountTypeCash     AccountType = "dinheiro"
)

// Valid reports whether the account type is supported
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeChecking, AccountTypeCredit, AccountTypeCash:
		return true
	}
	return false
}

// CheckingSubtype distinguishes how a checking account is charged
type CheckingSubtype string

const (
	CheckingSubtypeDebit CheckingSubtype = "debito"
	CheckingSubtypePix   CheckingSubtype = "pix"
)

// AuditAction defines the mutation kinds recorded in the audit trail
type AuditAction string

const (
	AuditActionDeletion AuditAction = "exclusao"
	AuditActionUpdate   AuditAction = "atualizacao"
)

// CashPoolOwnerName is the denormalized author name used for shared cash
// pools, which have no single owning user.
const CashPoolOwnerName = "Família"
