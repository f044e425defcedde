package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/familia-ledger/internal/api/middleware"
	"github.com/familia-ledger/internal/api/service"
	"github.com/familia-ledger/internal/domain/audit"
	"github.com/familia-ledger/internal/domain/shared"
	"github.com/familia-ledger/internal/money"
)

// monthLayout is the wire format of audit month filters
const monthLayout = "2006-01"

// AuditHandler handles HTTP requests for audit trail queries
type AuditHandler struct {
	auditService service.AuditService
	logger       *slog.Logger
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(logger *slog.Logger, auditService service.AuditService) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
		logger:       logger,
	}
}

// Deletions lists deletion snapshots matching the query filters
func (h *AuditHandler) Deletions(c *gin.Context) {
	h.respondAuditList(c, h.auditService.ListDeletions)
}

// Updates lists pre-edit snapshots matching the query filters
func (h *AuditHandler) Updates(c *gin.Context) {
	h.respondAuditList(c, h.auditService.ListUpdates)
}

func (h *AuditHandler) respondAuditList(c *gin.Context, list func(ctx context.Context, filter audit.Filter) ([]*audit.Record, error)) {
	var params AuditListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	filter := audit.Filter{
		Kind:        shared.EntryKind(params.Kind),
		AuthorNames: params.Authors,
	}
	if params.Month != "" {
		month, err := time.Parse(monthLayout, params.Month)
		if err != nil {
			RespondBadRequest(c, "Invalid month, expected YYYY-MM")
			return
		}
		filter.Month = month
	}

	records, err := list(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list audit records", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]AuditRecordResponse, len(records))
	for i, record := range records {
		responses[i] = mapAuditRecordToResponse(record)
	}
	RespondOK(c, AuditListResponse{Records: responses})
}

// Reasons returns the authenticated user's frequent mutation reasons for
// quick-fill suggestions
func (h *AuditHandler) Reasons(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	reasons, err := h.auditService.FrequentReasons(c.Request.Context(), actor.ID)
	if err != nil {
		h.logger.Error("Failed to load frequent reasons", "error", err)
		RespondInternalError(c)
		return
	}
	if reasons == nil {
		reasons = []string{}
	}

	RespondOK(c, ReasonsResponse{Reasons: reasons})
}

// mapAuditRecordToResponse maps an audit record to its response DTO
func mapAuditRecordToResponse(record *audit.Record) AuditRecordResponse {
	resp := AuditRecordResponse{
		ID:                   record.ID.String(),
		Action:               string(record.Action),
		EntryID:              record.EntryID.String(),
		PriorKind:            string(record.PriorKind),
		PriorAmount:          record.PriorAmount,
		PriorAmountDisplay:   money.Format(record.PriorAmount),
		PriorOccurredOn:      record.PriorOccurredOn.Format(dateLayout),
		PriorDescription:     record.PriorDescription,
		PriorSourceAccountID: record.PriorSourceAccountID.String(),
		AuthorName:           record.AuthorName,
		ActorID:              record.ActorID.String(),
		ActorName:            record.ActorName,
		Reason:               record.Reason,
		RecordedAt:           record.RecordedAt.Format(time.RFC3339),
	}
	if record.PriorCategoryID != nil {
		resp.PriorCategoryID = record.PriorCategoryID.String()
	}
	if record.PriorDestinationAccountID != nil {
		resp.PriorDestinationAccountID = record.PriorDestinationAccountID.String()
	}
	return resp
}
