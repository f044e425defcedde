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

// InsightsHandler handles HTTP requests for spending breakdowns
type InsightsHandler struct {
	insightsService service.InsightsService
	logger          *slog.Logger
}

// NewInsightsHandler creates a new insights handler
func NewInsightsHandler(logger *slog.Logger, insightsService service.InsightsService) *InsightsHandler {
	return &InsightsHandler{
		insightsService: insightsService,
		logger:          logger,
	}
}

// Get derives the category, payment-method and trend breakdowns over the
// filtered ledger
func (h *InsightsHandler) Get(c *gin.Context) {
	var params InsightsParams
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

	result, err := h.insightsService.Insights(c.Request.Context(), params.Period, filter)
	if err != nil {
		h.logger.Error("Failed to derive insights", "error", err)
		RespondInternalError(c)
		return
	}

	despesas := result.Totals.DespesasPagas + result.Totals.DespesasCartao
	resp := InsightsResponse{
		Label:                   result.Label,
		Receitas:                result.Totals.Receitas,
		ReceitasDisplay:         money.Format(result.Totals.Receitas),
		Despesas:                despesas,
		DespesasDisplay:         money.Format(despesas),
		Saldo:                   result.Totals.Saldo,
		SaldoDisplay:            money.Format(result.Totals.Saldo),
		ExpensesByCategory:      mapCategoryInsights(result.ExpensesByCategory),
		IncomeByCategory:        mapCategoryInsights(result.IncomeByCategory),
		TopExpenses:             mapEntriesToResponse(result.TopExpenses),
		PreviousExpenses:        result.PreviousExpenses,
		PreviousExpensesDisplay: money.Format(result.PreviousExpenses),
		SavingsRate:             result.SavingsRate,
	}
	resp.Methods = MethodBucketsResponse{
		Debito:          result.Methods.Debito,
		DebitoDisplay:   money.Format(result.Methods.Debito),
		Cartao:          result.Methods.Cartao,
		CartaoDisplay:   money.Format(result.Methods.Cartao),
		Dinheiro:        result.Methods.Dinheiro,
		DinheiroDisplay: money.Format(result.Methods.Dinheiro),
	}
	if !result.Window.Start.IsZero() {
		resp.WindowStart = result.Window.Start.Format(dateLayout)
	}
	if !result.Window.End.IsZero() {
		resp.WindowEnd = result.Window.End.Format(dateLayout)
	}

	RespondOK(c, resp)
}

func mapCategoryInsights(insights []service.CategoryInsight) []CategoryTotalResponse {
	out := make([]CategoryTotalResponse, 0, len(insights))
	for _, ins := range insights {
		out = append(out, CategoryTotalResponse{
			CategoryID:   ins.CategoryID.String(),
			Name:         ins.Name,
			Total:        ins.Total,
			TotalDisplay: money.Format(ins.Total),
		})
	}
	return out
}
