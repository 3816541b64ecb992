package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Thiagomartinsvieira/document-management-employees/internal"
	"github.com/Thiagomartinsvieira/document-management-employees/pkg/logger"
)

// SessionCookieName is the cookie that carries the access token for browser clients.
const SessionCookieName = "userToken"

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes a plain error response for transport-level failures
// (malformed body, missing parameter).
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	code := internal.ErrCodeInvalidRequest
	kind := internal.ErrorTypeValidation
	if status == http.StatusUnauthorized {
		code, kind = internal.ErrCodeMissingToken, internal.ErrorTypeAuth
	} else if status >= http.StatusInternalServerError {
		code, kind = internal.ErrCodeProviderFailure, internal.ErrorTypeUnknownProvider
	}
	h.WriteAppError(w, &internal.AppError{Type: kind, Code: code, Message: message, StatusCode: status})
}

// WriteAppError writes err in the {"error": {...}} envelope with the status of its kind.
func (h *BaseHandler) WriteAppError(w http.ResponseWriter, err error) {
	status, resp := internal.ToResponse(err)
	if status >= http.StatusInternalServerError {
		h.Logger.Error("http error", "status", status, "error", err)
	} else {
		h.Logger.Warn("http error", "status", status, "error", err)
	}
	h.WriteJSON(w, status, resp)
}

// DecodeJSON decodes the request body into dst.
func (h *BaseHandler) DecodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return internal.NewValidationError("invalid request body", internal.ErrCodeInvalidRequest).WithCause(err)
	}
	return nil
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	return ExtractToken(r)
}

// ExtractToken reads the bearer token, falling back to the session cookie.
func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	if c, err := r.Cookie(SessionCookieName); err == nil {
		return c.Value
	}
	return ""
}
