package internal

import (
	"context"
	"time"
)

type ctxKey string

const (
	ContextUserKey    ctxKey = "userID"
	ContextSessionKey ctxKey = "session"
)

// Session is the signed-in principal attached to a request by the auth guard.
type Session struct {
	ID        string
	UserID    string
	Email     string
	ExpiresAt time.Time
}

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if userID, ok := ctx.Value(ContextUserKey).(string); ok {
		return userID
	}
	return ""
}

func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ContextUserKey, userID)
}

func ContextWithSession(ctx context.Context, s *Session) context.Context {
	ctx = context.WithValue(ctx, ContextSessionKey, s)
	if s != nil {
		ctx = ContextWithUserID(ctx, s.UserID)
	}
	return ctx
}

func SessionFromContext(ctx context.Context) (*Session, bool) {
	if ctx == nil {
		return nil, false
	}
	s, ok := ctx.Value(ContextSessionKey).(*Session)
	return s, ok && s != nil
}

// IsAuthenticated depends only on the session stored in ctx.
func IsAuthenticated(ctx context.Context) bool {
	_, ok := SessionFromContext(ctx)
	return ok
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
