package recurrence

import (
	"context"
	"net/http"
	"time"

	"github.com/frahmantamala/finance-dashboard/internal/core/schedule"
	"github.com/frahmantamala/finance-dashboard/internal/transport"
)

type ServiceAPI interface {
	Create(ctx context.Context, userID int64, dto CreateRuleDTO) (*CreateResult, error)
	List(ctx context.Context, userID int64) ([]*Rule, error)
	Get(ctx context.Context, userID, id int64) (*Rule, error)
	Deactivate(ctx context.Context, userID, id int64) (*Rule, error)
	GenerateForUser(ctx context.Context, userID int64, asOf time.Time) (*GenerateResult, error)
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

func (h *Handler) CreateRecurrence(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.SessionUserID(w, r)
	if !ok {
		return
	}

	var dto CreateRuleDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	result, err := h.Service.Create(r.Context(), userID, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, CreateResponse{
		Recurrence:  result.Rule.ToResponse(),
		Occurrences: result.Occurrences,
	})
}

func (h *Handler) GetRecurrences(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.SessionUserID(w, r)
	if !ok {
		return
	}

	rules, err := h.Service.List(r.Context(), userID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	resp := RulesResponse{Recurrences: make([]RuleResponse, 0, len(rules))}
	for _, rule := range rules {
		resp.Recurrences = append(resp.Recurrences, rule.ToResponse())
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetRecurrence(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.SessionUserID(w, r)
	if !ok {
		return
	}
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	rule, err := h.Service.Get(r.Context(), userID, id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, rule.ToResponse())
}

func (h *Handler) DeactivateRecurrence(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.SessionUserID(w, r)
	if !ok {
		return
	}
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	rule, err := h.Service.Deactivate(r.Context(), userID, id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, rule.ToResponse())
}

// GenerateRecurrences fills the caller's missing occurrences. The body is optional.
func (h *Handler) GenerateRecurrences(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.SessionUserID(w, r)
	if !ok {
		return
	}

	var dto GenerateDTO
	if r.ContentLength != 0 {
		if err := h.DecodeJSON(r, &dto); err != nil {
			h.HandleServiceError(w, r, err)
			return
		}
	}

	result, err := h.Service.GenerateForUser(r.Context(), userID, dto.AsOf.Time)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, GenerateResponse{
		AsOf:     schedule.NewDate(result.AsOf),
		Rules:    result.Rules,
		Inserted: result.Inserted,
		Skipped:  result.Skipped,
	})
}
