package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/frahmantamala/finance-dashboard/internal"
	"github.com/frahmantamala/finance-dashboard/pkg/logger"
)

// RecoveryMiddleware turns a handler panic into a 500 INTERNAL_ERROR body.
// The request logger is preferred so the entry carries the trace id; base is the fallback.
func RecoveryMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				log := base
				if TraceID(r.Context()) != "" || log == nil {
					log = logger.From(r.Context())
				}
				log.Error("panic recovered",
					"panic", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()))

				writeAppError(w, internal.NewInternalError("Internal server error", nil))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
