package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/finance-dashboard/internal"
	"github.com/frahmantamala/finance-dashboard/pkg/logger"
)

// RequirePermissions lets the request through only when the session holds one of
// permissions. It must run after the auth middleware has attached the session.
func RequirePermissions(permissions ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := internal.SessionFromContext(r.Context())
			if !ok || session.UserID == 0 {
				writeAppError(w, internal.NewUnauthorizedError("Authentication required", internal.ErrCodeUnauthorizedAccess))
				return
			}

			if !session.HasAnyPermission(permissions...) {
				logger.From(r.Context()).Warn("access denied: missing permission",
					slog.Int64("user_id", session.UserID),
					slog.Any("required_permissions", permissions),
					slog.Any("user_permissions", session.Permissions))
				writeAppError(w, internal.ErrInsufficientRights)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeAppError(w http.ResponseWriter, appErr *internal.AppError) {
	status, body := appErr.ToHTTPResponse()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
