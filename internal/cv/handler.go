package cv

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/Thiagomartinsvieira/document-management-employees/internal"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/employee"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/transport"
	"github.com/Thiagomartinsvieira/document-management-employees/pkg/logger"
	"github.com/go-chi/chi"
)

// ArchiveURLHeader carries the archived copy's URL on export responses.
// ArchiveNoticeHeader carries the notice shown when there is none.
const (
	ArchiveURLHeader    = "X-CV-Archive-URL"
	ArchiveNoticeHeader = "X-CV-Archive-Notice"
)

type ServiceAPI interface {
	Preview(ctx context.Context, id string, e *employee.Employee) *Document
	Export(ctx context.Context, id string, e *employee.Employee) (*Export, error)
	Archive(ctx context.Context, id string) (string, error)
	ArchiveURL(ctx context.Context, id string) (string, error)
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

func (h *Handler) Routes(r chi.Router) {
	r.Post("/{id}/preview", h.Preview)
	r.Post("/{id}/export", h.Export)
	r.Get("/{id}/archive", h.GetArchive)
	r.Post("/{id}/archive", h.CreateArchive)
}

type PreviewResponse struct {
	Document *Document `json:"document"`
	Text     string    `json:"text"`
}

// Preview renders the record sent in the body. An empty body stands for a
// page opened without navigation state.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	e, err := h.decodeNavigationState(r)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	doc := h.Service.Preview(r.Context(), chi.URLParam(r, "id"), e)
	h.WriteJSON(w, http.StatusOK, PreviewResponse{Document: doc, Text: doc.Text()})
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	e, err := h.decodeNavigationState(r)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	out, err := h.Service.Export(r.Context(), chi.URLParam(r, "id"), e)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.Document.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(out.PDF)))
	if out.ArchiveURL != "" {
		w.Header().Set(ArchiveURLHeader, out.ArchiveURL)
	}
	if out.ArchiveNotice != "" {
		w.Header().Set(ArchiveNoticeHeader, mime.QEncoding.Encode("utf-8", out.ArchiveNotice))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out.PDF); err != nil {
		h.Logger.Error("Export: failed to write body", "error", err)
	}
}

func (h *Handler) GetArchive(w http.ResponseWriter, r *http.Request) {
	url, err := h.Service.ArchiveURL(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (h *Handler) CreateArchive(w http.ResponseWriter, r *http.Request) {
	url, err := h.Service.Archive(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, map[string]string{"url": url})
}

func (h *Handler) decodeNavigationState(r *http.Request) (*employee.Employee, error) {
	if r.Body == nil {
		return nil, nil
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, internal.NewValidationError("invalid request body", internal.ErrCodeInvalidRequest).WithCause(err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte("{}")) {
		return nil, nil
	}

	var e employee.Employee
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, internal.NewValidationError("invalid request body", internal.ErrCodeInvalidRequest).WithCause(err)
	}
	return &e, nil
}
