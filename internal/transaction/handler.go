package transaction

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	errors "github.com/frahmantamala/finance-dashboard/internal"
	"github.com/frahmantamala/finance-dashboard/internal/core/ledger"
	"github.com/frahmantamala/finance-dashboard/internal/core/schedule"
	"github.com/frahmantamala/finance-dashboard/internal/transport"
)

type ServiceAPI interface {
	Record(ctx context.Context, userID int64, dto CreateTransactionDTO) (*RecordResult, error)
	Get(ctx context.Context, userID, id int64) (*Transaction, error)
	List(ctx context.Context, filter Filter) ([]*Transaction, int64, error)
	Update(ctx context.Context, userID, id int64, dto UpdateTransactionDTO) (*Transaction, error)
	Delete(ctx context.Context, userID, id int64) error
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

func (h *Handler) RecordTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.SessionUserID(w, r)
	if !ok {
		return
	}

	var dto CreateTransactionDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	result, err := h.Service.Record(r.Context(), userID, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, RecordResponse{
		Transaction:  result.Transaction.ToResponse(),
		RecurrenceID: result.RecurrenceID,
		Occurrences:  result.Occurrences,
	})
}

// GetTransactions handles GET /transactions with type, category_id, from, to,
// month, year, recurring, limit and offset query parameters.
func (h *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.SessionUserID(w, r)
	if !ok {
		return
	}

	filter, err := ParseFilter(r.URL.Query())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	filter.UserID = userID
	filter.Limit, filter.Offset = h.ParsePagination(r)

	items, total, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	resp := ListResponse{
		Transactions: make([]TransactionResponse, 0, len(items)),
		Total:        total,
		Limit:        filter.Limit,
		Offset:       filter.Offset,
	}
	for _, t := range items {
		resp.Transactions = append(resp.Transactions, t.ToResponse())
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.SessionUserID(w, r)
	if !ok {
		return
	}
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	t, err := h.Service.Get(r.Context(), userID, id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, t.ToResponse())
}

func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.SessionUserID(w, r)
	if !ok {
		return
	}
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var dto UpdateTransactionDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	t, err := h.Service.Update(r.Context(), userID, id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, t.ToResponse())
}

func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
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

// ParseFilter reads the filtering query parameters shared by the listing and
// dashboard endpoints. month and year select a calendar month and win over from and to.
func ParseFilter(q url.Values) (Filter, error) {
	var f Filter

	if raw := q.Get("type"); raw != "" {
		t, err := ledger.ParseType(raw)
		if err != nil {
			return f, errors.NewValidationFieldError("type", err.Error(), errors.ErrCodeInvalidType)
		}
		f.Type = t
	}

	if raw := q.Get("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return f, errors.NewValidationFieldError("category_id", "invalid category_id", errors.ErrCodeInvalidCategory)
		}
		f.CategoryID = id
	}

	if raw := q.Get("from"); raw != "" {
		d, err := schedule.ParseDate(raw)
		if err != nil {
			return f, errors.NewValidationFieldError("from", err.Error(), errors.ErrCodeInvalidDate)
		}
		f.From = &d.Time
	}
	if raw := q.Get("to"); raw != "" {
		d, err := schedule.ParseDate(raw)
		if err != nil {
			return f, errors.NewValidationFieldError("to", err.Error(), errors.ErrCodeInvalidDate)
		}
		f.To = &d.Time
	}

	month, year := q.Get("month"), q.Get("year")
	if month != "" || year != "" {
		m, errM := strconv.Atoi(month)
		y, errY := strconv.Atoi(year)
		if errM != nil || errY != nil || m < 1 || m > 12 || y < 1970 || y > 9999 {
			return f, errors.NewValidationError("month and year must be given together as 1-12 and a four digit year", errors.ErrCodeInvalidPeriod)
		}
		from, to := MonthRange(y, m)
		f.From, f.To = &from, &to
	}

	if raw := q.Get("recurring"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return f, errors.NewValidationFieldError("recurring", "recurring must be true or false", errors.ErrCodeValidationFailed)
		}
		f.Recurring = &b
	}

	return f, nil
}
