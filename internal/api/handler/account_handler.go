package handler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/familia-ledger/internal/api/middleware"
	"github.com/familia-ledger/internal/api/service"
	"github.com/familia-ledger/internal/domain/account"
	"github.com/familia-ledger/internal/domain/shared"
	"github.com/familia-ledger/internal/money"
	"github.com/familia-ledger/internal/period"
)

// AccountHandler handles HTTP requests for payment instrument operations
type AccountHandler struct {
	accountService service.AccountService
	logger         *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(logger *slog.Logger, accountService service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		logger:         logger,
	}
}

// Create handles registration of a new payment instrument
func (h *AccountHandler) Create(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	params := accountParams(req.Name, shared.AccountType(req.Type), req.Subtype,
		req.InstitutionID, req.LastDigits, req.PixKeyType, req.PixKey,
		req.StatementCloseDay, req.StatementDueDay)

	acc, err := h.accountService.CreateAccount(c.Request.Context(), actor, params)
	if err != nil {
		if errors.As(err, &account.ErrInstitutionNotFound{}) {
			RespondBadRequest(c, "Institution not found")
			return
		}
		if isAccountRuleError(err) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to create account", "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapAccountToResponse(acc))
}

// GetByID retrieves an account by its ID, returning 404 if not found
func (h *AccountHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	acc, err := h.accountService.GetAccount(c.Request.Context(), id)
	if err != nil {
		if errors.As(err, &account.ErrAccountNotFound{}) {
			RespondNotFound(c, "Account not found")
			return
		}
		h.logger.Error("Failed to get account", "id", id, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapAccountToResponse(acc))
}

// List returns accounts ordered by type then name. ?active=true omits
// deactivated instruments.
func (h *AccountHandler) List(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), activeOnly)
	if err != nil {
		h.logger.Error("Failed to list accounts", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		responses[i] = mapAccountToResponse(acc)
	}
	RespondOK(c, AccountListResponse{Accounts: responses})
}

// Update edits an account's editable fields. Only the owner may edit; cash
// pools are shared.
func (h *AccountHandler) Update(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	params := accountParams(req.Name, "", req.Subtype,
		req.InstitutionID, req.LastDigits, req.PixKeyType, req.PixKey,
		req.StatementCloseDay, req.StatementDueDay)

	acc, err := h.accountService.UpdateAccount(c.Request.Context(), actor, id, params)
	if err != nil {
		h.respondAccountError(c, err, id)
		return
	}

	RespondOK(c, mapAccountToResponse(acc))
}

// Delete physically removes an unreferenced account. When ledger entries
// still point at it the delete is refused with 409 and the caller is
// expected to offer deactivation instead.
func (h *AccountHandler) Delete(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	if err := h.accountService.DeleteAccount(c.Request.Context(), actor, id); err != nil {
		if errors.As(err, &account.ErrAccountInUse{}) {
			RespondConflict(c, "Account still has ledger entries; deactivate it instead")
			return
		}
		h.respondAccountError(c, err, id)
		return
	}

	RespondNoContent(c)
}

// Deactivate soft-disables the account
func (h *AccountHandler) Deactivate(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	acc, err := h.accountService.DeactivateAccount(c.Request.Context(), actor, id)
	if err != nil {
		h.respondAccountError(c, err, id)
		return
	}

	RespondOK(c, mapAccountToResponse(acc))
}

// Balance derives the cash balance of a bank-linked account or cash pool
// over the optional window
func (h *AccountHandler) Balance(c *gin.Context) {
	h.respondDerivedBalance(c, h.accountService.CashBalance)
}

// Statement derives a credit card's open invoice over the optional window
func (h *AccountHandler) Statement(c *gin.Context) {
	h.respondDerivedBalance(c, h.accountService.StatementBalance)
}

func (h *AccountHandler) respondDerivedBalance(c *gin.Context, derive func(ctx context.Context, id uuid.UUID, window *period.Window) (int64, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	var params BalanceWindowParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}
	window, err := resolveWindow(params)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	total, err := derive(c.Request.Context(), id, window)
	if err != nil {
		if errors.As(err, &account.ErrAccountNotFound{}) {
			RespondNotFound(c, "Account not found")
			return
		}
		h.logger.Error("Failed to derive balance", "id", id, "error", err)
		RespondInternalError(c)
		return
	}

	resp := BalanceResponse{
		AccountID:      id.String(),
		Balance:        total,
		BalanceDisplay: money.Format(total),
	}
	if window != nil {
		resp.WindowStart = window.Start.Format(dateLayout)
		resp.WindowEnd = window.End.Format(dateLayout)
	}
	RespondOK(c, resp)
}

func (h *AccountHandler) respondAccountError(c *gin.Context, err error, id uuid.UUID) {
	if errors.As(err, &account.ErrAccountNotFound{}) {
		RespondNotFound(c, "Account not found")
		return
	}
	if errors.Is(err, service.ErrNotOwner) {
		RespondForbidden(c, "Only the owner can change this account")
		return
	}
	if isAccountRuleError(err) {
		RespondBadRequest(c, err.Error())
		return
	}
	h.logger.Error("Account operation failed", "id", id, "error", err)
	RespondInternalError(c)
}

// isAccountRuleError reports whether the error is one of the per-type field
// rule violations from account.NewAccount
func isAccountRuleError(err error) bool {
	return errors.Is(err, account.ErrEmptyName) ||
		errors.Is(err, account.ErrInvalidType) ||
		errors.Is(err, account.ErrMissingInstitution) ||
		errors.Is(err, account.ErrMissingOwner) ||
		errors.Is(err, account.ErrInvalidStatementDay) ||
		errors.Is(err, account.ErrMissingPixKey)
}

// resolveWindow turns the optional window params into a period window. A
// recognized shortcut wins over explicit dates; no params mean no window.
func resolveWindow(params BalanceWindowParams) (*period.Window, error) {
	if params.Period != "" {
		if window, ok := period.Resolve(params.Period, time.Now()); ok {
			return &window, nil
		}
	}
	if params.Start == "" && params.End == "" {
		return nil, nil
	}

	window := &period.Window{}
	if params.Start != "" {
		start, err := time.Parse(dateLayout, params.Start)
		if err != nil {
			return nil, errors.New("invalid start date, expected YYYY-MM-DD")
		}
		window.Start = start
	}
	if params.End != "" {
		end, err := time.Parse(dateLayout, params.End)
		if err != nil {
			return nil, errors.New("invalid end date, expected YYYY-MM-DD")
		}
		window.End = end
	}
	return window, nil
}

func accountParams(name string, accType shared.AccountType, subtype, institutionID, lastDigits, pixKeyType, pixKey string, closeDay, dueDay int) account.Params {
	params := account.Params{
		Name:              name,
		Type:              accType,
		Subtype:           shared.CheckingSubtype(subtype),
		LastDigits:        lastDigits,
		PixKeyType:        pixKeyType,
		PixKey:            pixKey,
		StatementCloseDay: closeDay,
		StatementDueDay:   dueDay,
	}
	if institutionID != "" {
		id := uuid.MustParse(institutionID)
		params.InstitutionID = &id
	}
	return params
}

// mapAccountToResponse maps an account entity to its response DTO
func mapAccountToResponse(acc *account.Account) AccountResponse {
	resp := AccountResponse{
		ID:                acc.ID.String(),
		Name:              acc.Name,
		Type:              string(acc.Type),
		Subtype:           string(acc.Subtype),
		LastDigits:        acc.LastDigits,
		PixKeyType:        acc.PixKeyType,
		PixKey:            acc.PixKey,
		StatementCloseDay: acc.StatementCloseDay,
		StatementDueDay:   acc.StatementDueDay,
		OwnerName:         acc.OwnerName,
		Active:            acc.Active,
		CreatedAt:         acc.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         acc.UpdatedAt.Format(time.RFC3339),
	}
	if acc.InstitutionID != nil {
		resp.InstitutionID = acc.InstitutionID.String()
	}
	if acc.OwnerID != nil {
		resp.OwnerID = acc.OwnerID.String()
	}
	return resp
}
