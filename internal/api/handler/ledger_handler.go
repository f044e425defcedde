package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/familia-ledger/internal/api/middleware"
	"github.com/familia-ledger/internal/api/service"
	"github.com/familia-ledger/internal/domain/ledger"
	"github.com/familia-ledger/internal/domain/shared"
	"github.com/familia-ledger/internal/money"
	"github.com/familia-ledger/internal/mutation"
	"github.com/familia-ledger/internal/period"
)

// dateLayout is the wire format of calendar dates
const dateLayout = "2006-01-02"

// Confirmation phrases typed by the user before a destructive action
const (
	confirmUpdate = "atualizar"
	confirmDelete = "excluir"
)

// LedgerHandler handles HTTP requests for ledger entry operations
type LedgerHandler struct {
	ledgerService service.LedgerService
	logger        *slog.Logger
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(logger *slog.Logger, ledgerService service.LedgerService) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
		logger:        logger,
	}
}

// Create handles creation of a new entry, optionally split into monthly
// installments
func (h *LedgerHandler) Create(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	amount, err := money.Parse(req.Amount)
	if err != nil {
		RespondBadRequest(c, "Invalid amount: "+err.Error())
		return
	}
	occurredOn, err := time.Parse(dateLayout, req.OccurredOn)
	if err != nil {
		RespondBadRequest(c, "Invalid occurred_on date, expected YYYY-MM-DD")
		return
	}

	draft := ledger.Draft{
		Kind:            shared.EntryKind(req.Kind),
		Amount:          amount,
		OccurredOn:      occurredOn,
		Description:     req.Description,
		SourceAccountID: uuid.MustParse(req.SourceAccountID),
	}
	if req.CategoryID != "" {
		id := uuid.MustParse(req.CategoryID)
		draft.CategoryID = &id
	}
	if req.DestinationAccountID != "" {
		id := uuid.MustParse(req.DestinationAccountID)
		draft.DestinationAccountID = &id
	}

	installments := req.Installments
	if installments == 0 {
		installments = 1
	}

	entries, err := h.ledgerService.CreateEntry(c.Request.Context(), actor, draft, installments)
	if err != nil {
		var validationErr *ledger.ValidationError
		if errors.As(err, &validationErr) {
			RespondBadRequest(c, validationErr.Error())
			return
		}
		var batchErr *mutation.BatchError
		if errors.As(err, &batchErr) {
			// Some installments were persisted before the failure; tell the
			// caller exactly how far the batch got instead of pretending it
			// was rolled back.
			h.logger.Error("Installment batch partially persisted",
				"inserted", batchErr.Inserted, "total", batchErr.Total, "error", batchErr)
			response := NewResponse(mapEntriesToResponse(entries))
			response.Error = &ErrorInfo{Code: "PARTIAL_BATCH", Message: batchErr.Error()}
			response.CorrelationID = middleware.GetCorrelationID(c)
			c.JSON(http.StatusInternalServerError, response)
			return
		}
		h.logger.Error("Failed to create entry", "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapEntriesToResponse(entries))
}

// GetByID retrieves an entry by its ID, returning 404 if not found
func (h *LedgerHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid entry ID")
		return
	}

	entry, err := h.ledgerService.GetEntry(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ledger.ErrEntryNotFound{}) {
			RespondNotFound(c, "Entry not found")
			return
		}
		h.logger.Error("Failed to get entry", "id", id, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapEntryToResponse(entry))
}

// List returns the entries matching the query filters. A recognized period
// shortcut overrides the explicit start/end dates.
func (h *LedgerHandler) List(c *gin.Context) {
	var params ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	filter, err := buildEntryFilter(params)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	entries, err := h.ledgerService.ListEntries(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list entries", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, EntryListResponse{Entries: mapEntriesToResponse(entries)})
}

// Update edits an entry through the audit protocol. The actor must be the
// entry's author and must supply a reason plus the confirmation phrase.
func (h *LedgerHandler) Update(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid entry ID")
		return
	}

	var req UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if !confirmed(req.Confirmation, confirmUpdate) {
		RespondBadRequest(c, `Confirmation phrase must be "atualizar"`)
		return
	}

	amount, err := money.Parse(req.Amount)
	if err != nil {
		RespondBadRequest(c, "Invalid amount: "+err.Error())
		return
	}
	occurredOn, err := time.Parse(dateLayout, req.OccurredOn)
	if err != nil {
		RespondBadRequest(c, "Invalid occurred_on date, expected YYYY-MM-DD")
		return
	}

	upd := ledger.Update{
		Amount:      amount,
		OccurredOn:  occurredOn,
		Description: req.Description,
	}
	if req.CategoryID != "" {
		catID := uuid.MustParse(req.CategoryID)
		upd.CategoryID = &catID
	}

	entry, err := h.ledgerService.UpdateEntry(c.Request.Context(), actor, id, upd, req.Reason)
	if err != nil {
		h.respondMutationError(c, err, "update")
		return
	}

	RespondOK(c, mapEntryToResponse(entry))
}

// Delete removes an entry through the audit protocol
func (h *LedgerHandler) Delete(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid entry ID")
		return
	}

	var req DeleteEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if !confirmed(req.Confirmation, confirmDelete) {
		RespondBadRequest(c, `Confirmation phrase must be "excluir"`)
		return
	}

	if err := h.ledgerService.DeleteEntry(c.Request.Context(), actor, id, req.Reason); err != nil {
		h.respondMutationError(c, err, "delete")
		return
	}

	RespondNoContent(c)
}

// respondMutationError maps coordinator failures onto HTTP statuses
func (h *LedgerHandler) respondMutationError(c *gin.Context, err error, op string) {
	var validationErr *ledger.ValidationError
	if errors.As(err, &validationErr) {
		RespondBadRequest(c, validationErr.Error())
		return
	}
	var authErr *mutation.AuthorizationError
	if errors.As(err, &authErr) {
		RespondForbidden(c, "Only the author of an entry can change it")
		return
	}
	if errors.Is(err, ledger.ErrEntryNotFound{}) {
		RespondNotFound(c, "Entry not found")
		return
	}
	var auditErr *mutation.AuditWriteError
	if errors.As(err, &auditErr) {
		h.logger.Error("Audit write failed, entry untouched", "op", op, "error", err)
		RespondWithError(c, http.StatusInternalServerError, "AUDIT_WRITE_FAILED",
			"The audit record could not be written; the entry was not changed")
		return
	}
	var persistErr *mutation.PersistenceError
	if errors.As(err, &persistErr) {
		h.logger.Error("Ledger mutation failed after audit write", "op", op, "error", err)
		RespondWithError(c, http.StatusInternalServerError, "MUTATION_FAILED",
			"The change could not be persisted; an audit record was already written")
		return
	}
	h.logger.Error("Entry mutation failed", "op", op, "error", err)
	RespondInternalError(c)
}

// confirmed reports whether the typed phrase matches the expected one,
// ignoring case and surrounding whitespace
func confirmed(typed, expected string) bool {
	return strings.EqualFold(strings.TrimSpace(typed), expected)
}

// buildEntryFilter converts listing query params into a repository filter
func buildEntryFilter(params ListEntriesParams) (ledger.Filter, error) {
	var filter ledger.Filter

	if params.Period != "" {
		if window, ok := period.Resolve(params.Period, time.Now()); ok {
			filter.From = window.Start
			filter.To = window.End
		}
	}
	if filter.From.IsZero() && params.Start != "" {
		from, err := time.Parse(dateLayout, params.Start)
		if err != nil {
			return ledger.Filter{}, errors.New("invalid start date, expected YYYY-MM-DD")
		}
		filter.From = from
	}
	if filter.To.IsZero() && params.End != "" {
		to, err := time.Parse(dateLayout, params.End)
		if err != nil {
			return ledger.Filter{}, errors.New("invalid end date, expected YYYY-MM-DD")
		}
		filter.To = to
	}

	for _, kind := range params.Kinds {
		k := shared.EntryKind(kind)
		if !k.Valid() {
			return ledger.Filter{}, errors.New("invalid kind: " + kind)
		}
		filter.Kinds = append(filter.Kinds, k)
	}
	filter.AuthorNames = params.Authors

	if params.AccountID != "" {
		id, err := uuid.Parse(params.AccountID)
		if err != nil {
			return ledger.Filter{}, errors.New("invalid account_id")
		}
		filter.AccountID = id
	}

	return filter, nil
}

// mapEntryToResponse maps a ledger entry to its response DTO
func mapEntryToResponse(entry *ledger.Entry) EntryResponse {
	resp := EntryResponse{
		ID:              entry.ID.String(),
		Kind:            string(entry.Kind),
		Amount:          entry.Amount,
		AmountDisplay:   money.Format(entry.Amount),
		OccurredOn:      entry.OccurredOn.Format(dateLayout),
		Description:     entry.Description,
		SourceAccountID: entry.SourceAccountID.String(),
		AuthorID:        entry.AuthorID.String(),
		AuthorName:      entry.AuthorName,
		CreatedAt:       entry.CreatedAt.Format(time.RFC3339),
	}
	if entry.CategoryID != nil {
		resp.CategoryID = entry.CategoryID.String()
	}
	if entry.DestinationAccountID != nil {
		resp.DestinationAccountID = entry.DestinationAccountID.String()
	}
	return resp
}

func mapEntriesToResponse(entries []*ledger.Entry) []EntryResponse {
	responses := make([]EntryResponse, len(entries))
	for i, entry := range entries {
		responses[i] = mapEntryToResponse(entry)
	}
	return responses
}
