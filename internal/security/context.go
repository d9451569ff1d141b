package security

import (
	"context"
	"strings"

	"github.com/abrilheiland03/alquilerDeAutos-sub000/internal/domain"
)

type sessionKey struct{}

// WithSession attaches the caller's session to ctx
func WithSession(ctx context.Context, s *domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the session stored by WithSession, or nil
func SessionFromContext(ctx context.Context) *domain.Session {
	s, _ := ctx.Value(sessionKey{}).(*domain.Session)
	return s
}

// TokenFromContext returns the bearer token of the active session in ctx
func TokenFromContext(ctx context.Context) string {
	s := SessionFromContext(ctx)
	if !s.Active() {
		return ""
	}
	return s.Token
}

// BearerToken strips the "Bearer " prefix from an Authorization header value
func BearerToken(header string) (string, bool) {
	if len(header) > 7 && strings.ToUpper(header[0:7]) == "BEARER " {
		return strings.TrimSpace(header[7:]), true
	}
	return "", false
}
