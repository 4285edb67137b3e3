package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/finance-dashboard/internal"
	"github.com/frahmantamala/finance-dashboard/pkg/logger"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
	maxBodyBytes = 1 << 20
)

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes a bare error response for failures raised by the transport itself.
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.Logger.Warn("http error", "status", status, "message", message)
	h.WriteJSON(w, status, internal.Response{Error: &internal.AppError{
		Type:    errorTypeForStatus(status),
		Code:    internal.ErrorCode(strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))),
		Message: message,
	}})
}

// HandleServiceError writes err as an AppError response. Errors that are not
// AppErrors are logged and hidden behind a generic 500.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := internal.IsAppError(err)
	if !ok {
		appErr = internal.NewInternalError("Internal server error", err)
	}

	log := logger.From(r.Context())
	if appErr.StatusCode >= http.StatusInternalServerError {
		log.Error("request failed", "path", r.URL.Path, "error", appErr.Error())
	} else {
		log.Debug("request rejected", "path", r.URL.Path, "code", appErr.Code, "message", appErr.GetDetailedMessage())
	}

	status, body := appErr.ToHTTPResponse()
	h.WriteJSON(w, status, body)
}

// DecodeJSON decodes the request body into dst, rejecting unknown fields.
func (h *BaseHandler) DecodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return internal.NewValidationError("Request body is required", internal.ErrCodeValidationFailed)
		}
		return internal.NewValidationError(fmt.Sprintf("Invalid request body: %v", err), internal.ErrCodeValidationFailed)
	}
	return nil
}

// ParseIDParam reads a positive integer path parameter.
func (h *BaseHandler) ParseIDParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, internal.NewValidationFieldError(name, fmt.Sprintf("invalid %s", name), internal.ErrCodeValidationFailed)
	}
	return id, nil
}

// ParsePagination reads limit and offset, applying DefaultLimit and MaxLimit.
func (h *BaseHandler) ParsePagination(r *http.Request) (int, int) {
	limit, offset := DefaultLimit, 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = min(n, MaxLimit)
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ""
	}

	return authHeader[7:]
}

// SessionUserID returns the authenticated user id or writes a 401.
func (h *BaseHandler) SessionUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	session, ok := internal.SessionFromContext(r.Context())
	if !ok || session.UserID <= 0 {
		h.HandleServiceError(w, r, internal.NewUnauthorizedError("Authentication required", internal.ErrCodeUnauthorizedAccess))
		return 0, false
	}
	return session.UserID, true
}

func errorTypeForStatus(status int) internal.ErrorType {
	switch {
	case status == http.StatusUnauthorized:
		return internal.ErrorTypeUnauthorized
	case status == http.StatusForbidden:
		return internal.ErrorTypeForbidden
	case status == http.StatusNotFound:
		return internal.ErrorTypeNotFound
	case status == http.StatusConflict:
		return internal.ErrorTypeConflict
	case status >= 500:
		return internal.ErrorTypeInternal
	}
	return internal.ErrorTypeValidation
}
