package middleware

import (
	"context"
	"net/http"

	"github.com/Thiagomartinsvieira/document-management-employees/internal"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/transport"
	"github.com/Thiagomartinsvieira/document-management-employees/pkg/logger"
)

// SessionAuthorizer resolves an access token into a live session.
type SessionAuthorizer interface {
	Authorize(ctx context.Context, accessToken string) (*internal.Session, error)
}

// RequireSession rejects requests without a valid, unrevoked session and
// stores the session in the request context for handlers downstream.
func RequireSession(authz SessionAuthorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := transport.ExtractToken(r)

			session, err := authz.Authorize(r.Context(), token)
			if err != nil {
				transport.NewBaseHandler(logger.From(r.Context())).WriteAppError(w, err)
				return
			}

			ctx := internal.ContextWithSession(r.Context(), session)
			ctx = logger.With(ctx, "session_id", session.ID, "user_id", session.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
