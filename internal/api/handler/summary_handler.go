package handler

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/familia-ledger/internal/api/service"
	"github.com/familia-ledger/internal/domain/ledger"
	"github.com/familia-ledger/internal/domain/shared"
	"github.com/familia-ledger/internal/money"
)

// SummaryHandler handles HTTP requests for period aggregates
type SummaryHandler struct {
	summaryService service.SummaryService
	logger         *slog.Logger
}

// NewSummaryHandler creates a new summary handler
func NewSummaryHandler(logger *slog.Logger, summaryService service.SummaryService) *SummaryHandler {
	return &SummaryHandler{
		summaryService: summaryService,
		logger:         logger,
	}
}

// Get derives the period aggregate over the filtered ledger
func (h *SummaryHandler) Get(c *gin.Context) {
	var params SummaryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	var filter ledger.Filter
	if params.Start != "" {
		from, err := time.Parse(dateLayout, params.Start)
		if err != nil {
			RespondBadRequest(c, "Invalid start date, expected YYYY-MM-DD")
			return
		}
		filter.From = from
	}
	if params.End != "" {
		to, err := time.Parse(dateLayout, params.End)
		if err != nil {
			RespondBadRequest(c, "Invalid end date, expected YYYY-MM-DD")
			return
		}
		filter.To = to
	}
	for _, kind := range params.Kinds {
		k := shared.EntryKind(kind)
		if !k.Valid() {
			RespondBadRequest(c, "Invalid kind: "+kind)
			return
		}
		filter.Kinds = append(filter.Kinds, k)
	}
	filter.AuthorNames = params.Authors

	result, err := h.summaryService.Summarize(c.Request.Context(), params.Period, filter)
	if err != nil {
		h.logger.Error("Failed to summarize period", "error", err)
		RespondInternalError(c)
		return
	}

	resp := SummaryResponse{
		Label:                 result.Label,
		Receitas:              result.Totals.Receitas,
		ReceitasDisplay:       money.Format(result.Totals.Receitas),
		DespesasPagas:         result.Totals.DespesasPagas,
		DespesasPagasDisplay:  money.Format(result.Totals.DespesasPagas),
		DespesasCartao:        result.Totals.DespesasCartao,
		DespesasCartaoDisplay: money.Format(result.Totals.DespesasCartao),
		Saldo:                 result.Totals.Saldo,
		SaldoDisplay:          money.Format(result.Totals.Saldo),
	}
	if !result.Window.Start.IsZero() {
		resp.WindowStart = result.Window.Start.Format(dateLayout)
	}
	if !result.Window.End.IsZero() {
		resp.WindowEnd = result.Window.End.Format(dateLayout)
	}

	RespondOK(c, resp)
}
