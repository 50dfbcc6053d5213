package session

import (
	"context"

	"github.com/AchilleasB/school-portal/portal-service/internal/core/domain"
)

type contextKey string

const sessionKey contextKey = "session"

func WithSession(ctx context.Context, sess *domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// FromContext returns the request's session, or nil for anonymous requests.
func FromContext(ctx context.Context) *domain.Session {
	sess, _ := ctx.Value(sessionKey).(*domain.Session)
	return sess
}
