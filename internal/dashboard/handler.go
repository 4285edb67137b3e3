package dashboard

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/frahmantamala/finance-dashboard/internal"
	"github.com/frahmantamala/finance-dashboard/internal/budget"
	"github.com/frahmantamala/finance-dashboard/internal/core/ledger"
	"github.com/frahmantamala/finance-dashboard/internal/transaction"
	"github.com/frahmantamala/finance-dashboard/internal/transport"
)

type ServiceAPI interface {
	Today() time.Time
	Summary(ctx context.Context, filter transaction.Filter) (*Summary, error)
	Breakdown(ctx context.Context, filter transaction.Filter, t ledger.Type) (*Breakdown, error)
	History(ctx context.Context, filter transaction.Filter) ([]ChartPoint, error)
	Trend(ctx context.Context, filter transaction.Filter, t ledger.Type, window int) (*TrendResult, error)
	Forecast(ctx context.Context, filter transaction.Filter, t ledger.Type, days int) (*ForecastResult, error)
	ForecastCategory(ctx context.Context, filter transaction.Filter, t ledger.Type, categoryID int64, days int) (*ForecastResult, error)
	Budgets(ctx context.Context, userID int64, period budget.Period) (*BudgetsResult, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

type HistoryResponse struct {
	Points []ChartPoint `json:"points"`
}

// filter resolves the session user and the shared query parameters, writing
// the error response itself when either fails.
func (h *Handler) filter(w http.ResponseWriter, r *http.Request) (transaction.Filter, bool) {
	userID, ok := h.SessionUserID(w, r)
	if !ok {
		return transaction.Filter{}, false
	}
	filter, err := ParseQuery(r.URL.Query(), userID, h.Service.Today())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return transaction.Filter{}, false
	}
	return filter, true
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.filter(w, r)
	if !ok {
		return
	}
	summary, err := h.Service.Summary(r.Context(), filter)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) GetBreakdown(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.filter(w, r)
	if !ok {
		return
	}
	breakdown, err := h.Service.Breakdown(r.Context(), filter, filter.Type)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, breakdown)
}

func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.filter(w, r)
	if !ok {
		return
	}
	points, err := h.Service.History(r.Context(), filter)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, HistoryResponse{Points: points})
}

func (h *Handler) GetTrend(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.filter(w, r)
	if !ok {
		return
	}
	window, err := intParam(r, "window", 1, 365)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	result, err := h.Service.Trend(r.Context(), filter, filter.Type, window)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}

// GetForecast projects every category, or only category_id when it is given.
func (h *Handler) GetForecast(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.filter(w, r)
	if !ok {
		return
	}
	days, err := intParam(r, "days", 1, 3650)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var result *ForecastResult
	if filter.CategoryID > 0 {
		result, err = h.Service.ForecastCategory(r.Context(), filter, filter.Type, filter.CategoryID, days)
	} else {
		result, err = h.Service.Forecast(r.Context(), filter, filter.Type, days)
	}
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) GetBudgets(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.SessionUserID(w, r)
	if !ok {
		return
	}
	period, err := budget.ParsePeriod(r.URL.Query())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	result, err := h.Service.Budgets(r.Context(), userID, period)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}

// intParam reads an optional bounded integer query parameter, returning 0 when absent.
func intParam(r *http.Request, name string, lo, hi int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < lo || n > hi {
		return 0, internal.NewValidationFieldError(name, name+" must be a number between "+strconv.Itoa(lo)+" and "+strconv.Itoa(hi), internal.ErrCodeValidationFailed)
	}
	return n, nil
}
