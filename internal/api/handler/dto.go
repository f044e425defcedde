package handler

// CreateEntryRequest represents a request to record a new ledger entry.
// Amounts arrive as decimal strings ("1234,56" or "1234.56") and are
// converted to centavos at the boundary.
type CreateEntryRequest struct {
	Kind                 string `json:"kind" binding:"required,oneof=receita despesa transferencia"`
	Amount               string `json:"amount" binding:"required"`
	OccurredOn           string `json:"occurred_on" binding:"required"`
	Description          string `json:"description" binding:"required"`
	CategoryID           string `json:"category_id,omitempty" binding:"omitempty,uuid"`
	SourceAccountID      string `json:"source_account_id" binding:"required,uuid"`
	DestinationAccountID string `json:"destination_account_id,omitempty" binding:"omitempty,uuid"`
	Installments         int    `json:"installments,omitempty" binding:"omitempty,min=1"`
}

// UpdateEntryRequest represents a request to edit an entry. Reason and the
// literal confirmation phrase "atualizar" are required before anything is
// touched.
type UpdateEntryRequest struct {
	Amount       string `json:"amount" binding:"required"`
	OccurredOn   string `json:"occurred_on" binding:"required"`
	Description  string `json:"description" binding:"required"`
	CategoryID   string `json:"category_id,omitempty" binding:"omitempty,uuid"`
	Reason       string `json:"reason" binding:"required"`
	Confirmation string `json:"confirmation" binding:"required"`
}

// DeleteEntryRequest represents a request to delete an entry, carrying the
// reason for the audit trail and the confirmation phrase "excluir"
type DeleteEntryRequest struct {
	Reason       string `json:"reason" binding:"required"`
	Confirmation string `json:"confirmation" binding:"required"`
}

// EntryResponse represents a ledger entry in API responses
type EntryResponse struct {
	ID                   string `json:"id"`
	Kind                 string `json:"kind"`
	Amount               int64  `json:"amount"`
	AmountDisplay        string `json:"amount_display"`
	OccurredOn           string `json:"occurred_on"`
	Description          string `json:"description"`
	CategoryID           string `json:"category_id,omitempty"`
	SourceAccountID      string `json:"source_account_id"`
	DestinationAccountID string `json:"destination_account_id,omitempty"`
	AuthorID             string `json:"author_id"`
	AuthorName           string `json:"author_name"`
	CreatedAt            string `json:"created_at"`
}

// EntryListResponse represents a list of entries in API responses
type EntryListResponse struct {
	Entries []EntryResponse `json:"entries"`
}

// ListEntriesParams represents the query filters of an entry listing. A
// recognized period shortcut takes precedence over start/end.
type ListEntriesParams struct {
	Start     string   `form:"start"`
	End       string   `form:"end"`
	Period    string   `form:"period"`
	Kinds     []string `form:"kind"`
	Authors   []string `form:"author"`
	AccountID string   `form:"account_id" binding:"omitempty,uuid"`
}

// CreateAccountRequest represents a request to register a payment instrument
type CreateAccountRequest struct {
	Name              string `json:"name" binding:"required"`
	Type              string `json:"type" binding:"required,oneof=corrente credito dinheiro"`
	Subtype           string `json:"subtype,omitempty" binding:"omitempty,oneof=debito pix"`
	InstitutionID     string `json:"institution_id,omitempty" binding:"omitempty,uuid"`
	LastDigits        string `json:"last_digits,omitempty"`
	PixKeyType        string `json:"pix_key_type,omitempty"`
	PixKey            string `json:"pix_key,omitempty"`
	StatementCloseDay int    `json:"statement_close_day,omitempty" binding:"omitempty,min=1,max=31"`
	StatementDueDay   int    `json:"statement_due_day,omitempty" binding:"omitempty,min=1,max=31"`
}

// UpdateAccountRequest represents a request to edit an account. The type is
// fixed at creation.
type UpdateAccountRequest struct {
	Name              string `json:"name" binding:"required"`
	Subtype           string `json:"subtype,omitempty" binding:"omitempty,oneof=debito pix"`
	InstitutionID     string `json:"institution_id,omitempty" binding:"omitempty,uuid"`
	LastDigits        string `json:"last_digits,omitempty"`
	PixKeyType        string `json:"pix_key_type,omitempty"`
	PixKey            string `json:"pix_key,omitempty"`
	StatementCloseDay int    `json:"statement_close_day,omitempty" binding:"omitempty,min=1,max=31"`
	StatementDueDay   int    `json:"statement_due_day,omitempty" binding:"omitempty,min=1,max=31"`
}

// AccountResponse represents a payment instrument in API responses
type AccountResponse struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Type              string `json:"type"`
	Subtype           string `json:"subtype,omitempty"`
	InstitutionID     string `json:"institution_id,omitempty"`
	LastDigits        string `json:"last_digits,omitempty"`
	PixKeyType        string `json:"pix_key_type,omitempty"`
	PixKey            string `json:"pix_key,omitempty"`
	StatementCloseDay int    `json:"statement_close_day,omitempty"`
	StatementDueDay   int    `json:"statement_due_day,omitempty"`
	OwnerID           string `json:"owner_id,omitempty"`
	OwnerName         string `json:"owner_name"`
	Active            bool   `json:"active"`
	CreatedAt         string `json:"created_at"`
	UpdatedAt         string `json:"updated_at"`
}

// AccountListResponse represents a list of accounts in API responses
type AccountListResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// BalanceWindowParams represents the optional date window of a balance or
// statement query
type BalanceWindowParams struct {
	Start  string `form:"start"`
	End    string `form:"end"`
	Period string `form:"period"`
}

// BalanceResponse represents a derived balance in API responses. Nothing is
// read from storage; the figure is recomputed from the entry set per call.
type BalanceResponse struct {
	AccountID      string `json:"account_id"`
	Balance        int64  `json:"balance"`
	BalanceDisplay string `json:"balance_display"`
	WindowStart    string `json:"window_start,omitempty"`
	WindowEnd      string `json:"window_end,omitempty"`
}

// InstitutionRequest represents a request to create or rename an institution
type InstitutionRequest struct {
	Name string `json:"name" binding:"required"`
}

// InstitutionResponse represents an institution in API responses
type InstitutionResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
	Kind string `json:"kind" binding:"required,oneof=receita despesa"`
}

// UpdateCategoryRequest represents a request to rename a category
type UpdateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	CreatedAt string `json:"created_at"`
}

// AuditListParams represents the query filters of an audit trail listing
type AuditListParams struct {
	Month   string   `form:"month"` // YYYY-MM
	Kind    string   `form:"kind" binding:"omitempty,oneof=receita despesa transferencia"`
	Authors []string `form:"author"`
}

// AuditRecordResponse represents an audit record in API responses, carrying
// the full pre-mutation snapshot
type AuditRecordResponse struct {
	ID                        string `json:"id"`
	Action                    string `json:"action"`
	EntryID                   string `json:"entry_id"`
	PriorKind                 string `json:"prior_kind"`
	PriorAmount               int64  `json:"prior_amount"`
	PriorAmountDisplay        string `json:"prior_amount_display"`
	PriorOccurredOn           string `json:"prior_occurred_on"`
	PriorDescription          string `json:"prior_description"`
	PriorCategoryID           string `json:"prior_category_id,omitempty"`
	PriorSourceAccountID      string `json:"prior_source_account_id"`
	PriorDestinationAccountID string `json:"prior_destination_account_id,omitempty"`
	AuthorName                string `json:"author_name"`
	ActorID                   string `json:"actor_id"`
	ActorName                 string `json:"actor_name"`
	Reason                    string `json:"reason"`
	RecordedAt                string `json:"recorded_at"`
}

// AuditListResponse represents a list of audit records in API responses
type AuditListResponse struct {
	Records []AuditRecordResponse `json:"records"`
}

// ReasonsResponse represents the frequent-reason suggestions for the
// authenticated user
type ReasonsResponse struct {
	Reasons []string `json:"reasons"`
}

// SummaryParams represents the query filters of a summary request
type SummaryParams struct {
	Start   string   `form:"start"`
	End     string   `form:"end"`
	Period  string   `form:"period"`
	Kinds   []string `form:"kind"`
	Authors []string `form:"author"`
}

// InsightsParams represents the query filters of an insights request
type InsightsParams struct {
	Start   string   `form:"start"`
	End     string   `form:"end"`
	Period  string   `form:"period"`
	Kinds   []string `form:"kind"`
	Authors []string `form:"author"`
}

// CategoryTotalResponse represents a per-category aggregate in API responses
type CategoryTotalResponse struct {
	CategoryID   string `json:"category_id"`
	Name         string `json:"name"`
	Total        int64  `json:"total"`
	TotalDisplay string `json:"total_display"`
}

// MethodBucketsResponse represents the payment-method split of expense
// spend in API responses
type MethodBucketsResponse struct {
	Debito          int64  `json:"debito"`
	DebitoDisplay   string `json:"debito_display"`
	Cartao          int64  `json:"cartao"`
	CartaoDisplay   string `json:"cartao_display"`
	Dinheiro        int64  `json:"dinheiro"`
	DinheiroDisplay string `json:"dinheiro_display"`
}

// InsightsResponse represents the spending breakdown of a window in API
// responses
type InsightsResponse struct {
	WindowStart string `json:"window_start,omitempty"`
	WindowEnd   string `json:"window_end,omitempty"`
	Label       string `json:"label,omitempty"`

	Receitas        int64  `json:"receitas"`
	ReceitasDisplay string `json:"receitas_display"`
	Despesas        int64  `json:"despesas"`
	DespesasDisplay string `json:"despesas_display"`
	Saldo           int64  `json:"saldo"`
	SaldoDisplay    string `json:"saldo_display"`

	ExpensesByCategory []CategoryTotalResponse `json:"expenses_by_category"`
	IncomeByCategory   []CategoryTotalResponse `json:"income_by_category"`
	Methods            MethodBucketsResponse   `json:"methods"`
	TopExpenses        []EntryResponse         `json:"top_expenses"`

	PreviousExpenses        int64   `json:"previous_expenses"`
	PreviousExpensesDisplay string  `json:"previous_expenses_display"`
	SavingsRate             float64 `json:"savings_rate"`
}

// SummaryResponse represents a period aggregate in API responses
type SummaryResponse struct {
	WindowStart           string `json:"window_start,omitempty"`
	WindowEnd             string `json:"window_end,omitempty"`
	Label                 string `json:"label,omitempty"`
	Receitas              int64  `json:"receitas"`
	ReceitasDisplay       string `json:"receitas_display"`
	DespesasPagas         int64  `json:"despesas_pagas"`
	DespesasPagasDisplay  string `json:"despesas_pagas_display"`
	DespesasCartao        int64  `json:"despesas_cartao"`
	DespesasCartaoDisplay string `json:"despesas_cartao_display"`
	Saldo                 int64  `json:"saldo"`
	SaldoDisplay          string `json:"saldo_display"`
}
