package employee

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Thiagomartinsvieira/document-management-employees/internal/transport"
	"github.com/Thiagomartinsvieira/document-management-employees/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	List(ctx context.Context) ([]*Employee, error)
	Get(ctx context.Context, id string) (*Employee, error)
	Create(ctx context.Context, draft *Draft) (string, error)
	Update(ctx context.Context, id string, patch Patch) (*Employee, error)
	Replace(ctx context.Context, id string, draft *Draft) (*Employee, error)
	Delete(ctx context.Context, id string) error
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

type createResponse struct {
	ID string `json:"id"`
}

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Service.List(r.Context())
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"employees": employees,
	})
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	e, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var draft Draft
	if err := h.DecodeJSON(r, &draft); err != nil {
		h.WriteAppError(w, err)
		return
	}

	id, err := h.Service.Create(r.Context(), &draft)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	logger.From(r.Context()).Info("CreateEmployee: employee registered", "employee_id", id)
	h.WriteJSON(w, http.StatusCreated, createResponse{ID: id})
}

func (h *Handler) PatchEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch Patch
	if err := h.DecodeJSON(r, &patch); err != nil {
		h.WriteAppError(w, err)
		return
	}

	e, err := h.Service.Update(r.Context(), id, patch)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) ReplaceEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var draft Draft
	if err := h.DecodeJSON(r, &draft); err != nil {
		h.WriteAppError(w, err)
		return
	}

	e, err := h.Service.Replace(r.Context(), id, &draft)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Routes mounts the employee endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.ListEmployees)
	r.Post("/", h.CreateEmployee)
	r.Get("/{id}", h.GetEmployee)
	r.Patch("/{id}", h.PatchEmployee)
	r.Put("/{id}", h.ReplaceEmployee)
	r.Delete("/{id}", h.DeleteEmployee)
}
