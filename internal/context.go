package internal

import "context"

type ctxKey string

const ContextSessionKey ctxKey = "session"

const (
	PermissionAdmin            = "admin"
	PermissionManageCategories = "manage_categories"
)

// Session is the request-scoped identity of the caller.
type Session struct {
	UserID      int64
	Email       string
	Permissions []string
}

// HasAnyPermission reports whether the session holds one of required.
func (s *Session) HasAnyPermission(required ...string) bool {
	for _, have := range s.Permissions {
		for _, want := range required {
			if have == want {
				return true
			}
		}
	}
	return false
}

func ContextWithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, ContextSessionKey, session)
}

func SessionFromContext(ctx context.Context) (*Session, bool) {
	if ctx == nil {
		return nil, false
	}
	session, ok := ctx.Value(ContextSessionKey).(*Session)
	if !ok || session == nil {
		return nil, false
	}
	return session, true
}

// IsAuthenticated reports whether a session with a user is attached to ctx.
func IsAuthenticated(ctx context.Context) bool {
	session, ok := SessionFromContext(ctx)
	return ok && session.UserID > 0
}

// UserIDFromContext returns the session user id, or 0 when unauthenticated.
func UserIDFromContext(ctx context.Context) int64 {
	if session, ok := SessionFromContext(ctx); ok {
		return session.UserID
	}
	return 0
}
