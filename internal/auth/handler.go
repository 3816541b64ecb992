package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Thiagomartinsvieira/document-management-employees/internal"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/i18n"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/transport"
	"github.com/Thiagomartinsvieira/document-management-employees/pkg/logger"
)

type ServiceAPI interface {
	Register(ctx context.Context, dto RegisterDTO) (*AuthSession, error)
	Login(ctx context.Context, dto LoginDTO) (*AuthSession, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthSession, error)
	Logout(ctx context.Context, session *internal.Session) error
}

type Handler struct {
	*transport.BaseHandler
	Service       ServiceAPI
	Messages      *i18n.Messages
	SecureCookies bool
}

// SessionResponse is an issued session plus the notice shown to the user.
type SessionResponse struct {
	*AuthSession
	Message string `json:"message,omitempty"`
}

func NewHandler(svc ServiceAPI, messages *i18n.Messages, secureCookies bool) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	if messages == nil {
		messages = i18n.MustFor(i18n.LocaleEnglish)
	}
	return &Handler{
		BaseHandler:   transport.NewBaseHandler(lg),
		Service:       svc,
		Messages:      messages,
		SecureCookies: secureCookies,
	}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, err)
		return
	}

	session, err := h.Service.Register(r.Context(), dto)
	if err != nil {
		if errors.Is(err, internal.ErrPasswordMismatch) {
			err = internal.NewValidationError(h.Messages.Get(i18n.NoticePasswordMismatch), internal.ErrCodePasswordMismatch)
		}
		h.WriteAppError(w, err)
		return
	}

	h.setSessionCookie(w, session)
	h.WriteJSON(w, http.StatusCreated, SessionResponse{AuthSession: session, Message: h.Messages.Get(i18n.NoticeUserRegistered)})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, err)
		return
	}

	session, err := h.Service.Login(r.Context(), dto)
	if err != nil {
		h.Logger.Warn("authentication failed", "error", err)
		h.WriteAppError(w, err)
		return
	}

	h.setSessionCookie(w, session)
	h.WriteJSON(w, http.StatusOK, SessionResponse{AuthSession: session, Message: h.Messages.Get(i18n.NoticeUserLoggedIn)})
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, err)
		return
	}

	session, err := h.Service.Refresh(r.Context(), dto.RefreshToken)
	if err != nil {
		h.Logger.Warn("token refresh failed", "error", err)
		h.WriteAppError(w, err)
		return
	}

	h.setSessionCookie(w, session)
	h.WriteJSON(w, http.StatusOK, session)
}

// Logout must run behind the session guard.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	session, ok := internal.SessionFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, internal.ErrMissingToken)
		return
	}

	if err := h.Service.Logout(r.Context(), session); err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, s *AuthSession) {
	http.SetCookie(w, &http.Cookie{
		Name:     transport.SessionCookieName,
		Value:    s.AccessToken,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     transport.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
