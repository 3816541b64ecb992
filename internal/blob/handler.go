package blob

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Thiagomartinsvieira/document-management-employees/internal/transport"
	"github.com/Thiagomartinsvieira/document-management-employees/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Open(ctx context.Context, key string) (*Object, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// ServeFile streams the blob addressed by the wildcard part of the path.
func (h *Handler) ServeFile(w http.ResponseWriter, r *http.Request) {
	key, err := url.PathUnescape(strings.TrimPrefix(chi.URLParam(r, "*"), "/"))
	if err != nil {
		h.WriteAppError(w, ErrInvalidBlobKey)
		return
	}

	obj, err := h.Service.Open(r.Context(), key)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", obj.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(obj.Data)))
	if !obj.UpdatedAt.IsZero() {
		w.Header().Set("Last-Modified", obj.UpdatedAt.UTC().Format(http.TimeFormat))
	}
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(obj.Data); err != nil {
		h.Logger.Error("ServeFile: failed to write body", "error", err, "blob_key", key)
	}
}
