package budget

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	errors "github.com/frahmantamala/finance-dashboard/internal"
	"github.com/frahmantamala/finance-dashboard/internal/transport"
)

type ServiceAPI interface {
	Set(ctx context.Context, userID int64, dto SetBudgetDTO) (*Budget, error)
	List(ctx context.Context, userID int64, period Period) ([]*Budget, error)
	Delete(ctx context.Context, userID, id int64) error
	Compare(ctx context.Context, userID int64, period Period) ([]*Comparison, error)
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

// SetBudget handles PUT /budgets.
func (h *Handler) SetBudget(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.SessionUserID(w, r)
	if !ok {
		return
	}

	var dto SetBudgetDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	b, err := h.Service.Set(r.Context(), userID, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, b.ToResponse())
}

func (h *Handler) GetBudgets(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.SessionUserID(w, r)
	if !ok {
		return
	}
	period, err := ParsePeriod(r.URL.Query())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	budgets, err := h.Service.List(r.Context(), userID, period)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	resp := BudgetsResponse{Budgets: make([]BudgetResponse, 0, len(budgets))}
	for _, b := range budgets {
		resp.Budgets = append(resp.Budgets, b.ToResponse())
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.SessionUserID(w, r)
	if !ok {
		return
	}
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	if err := h.Service.Delete(r.Context(), userID, id); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CompareBudgets handles GET /budgets/compare?month=&year=.
func (h *Handler) CompareBudgets(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.SessionUserID(w, r)
	if !ok {
		return
	}
	period, err := ParsePeriod(r.URL.Query())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	comparisons, err := h.Service.Compare(r.Context(), userID, period)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, NewComparisonsResponse(period, comparisons))
}

func NewComparisonsResponse(period Period, comparisons []*Comparison) ComparisonsResponse {
	resp := ComparisonsResponse{
		Month:       period.Month,
		Year:        period.Year,
		Comparisons: make([]ComparisonResponse, 0, len(comparisons)),
	}
	for _, c := range comparisons {
		resp.Comparisons = append(resp.Comparisons, c.ToResponse())
		resp.Month, resp.Year = c.Month, c.Year
	}
	return resp
}

// ParsePeriod reads optional month and year query parameters.
func ParsePeriod(q url.Values) (Period, error) {
	var p Period
	for _, f := range []struct {
		name string
		dst  *int
	}{{"month", &p.Month}, {"year", &p.Year}} {
		raw := q.Get(f.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return p, errors.NewValidationFieldError(f.name, f.name+" must be a number", errors.ErrCodeInvalidPeriod)
		}
		*f.dst = n
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}
