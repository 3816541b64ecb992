package dashboard

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/Thiagomartinsvieira/document-management-employees/internal"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/cv"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/employee"
	"github.com/Thiagomartinsvieira/document-management-employees/internal/transport"
	"github.com/Thiagomartinsvieira/document-management-employees/pkg/logger"
	"github.com/go-chi/chi"
)

// MaxPictureSize caps multipart uploads of profile pictures.
const MaxPictureSize = 5 << 20

// CVPreviewer renders the CV page from navigation state.
type CVPreviewer interface {
	Preview(ctx context.Context, id string, e *employee.Employee) *cv.Document
}

type Handler struct {
	*transport.BaseHandler
	Registry *Registry
	CV       CVPreviewer
}

func NewHandler(registry *Registry, previewer CVPreviewer) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Registry:    registry,
		CV:          previewer,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.GetView)
	r.Post("/refresh", h.Refresh)
	r.Post("/employees", h.CreateEmployee)

	r.Post("/employees/{id}/promote/open", h.OpenPromote)
	r.Post("/promote/close", h.ClosePromote)
	r.Post("/employees/{id}/promote", h.Promote)
	r.Post("/employees/{id}/terminate", h.Terminate)
	r.Delete("/employees/{id}", h.Remove)
	r.Get("/employees/{id}/cv", h.PreviewCV)

	r.Post("/edit/new", h.BeginCreate)
	r.Post("/employees/{id}/edit", h.BeginEdit)
	r.Patch("/edit", h.SetField)
	r.Post("/edit/toggle-terminated", h.ToggleTerminated)
	r.Put("/edit/picture", h.SetPicture)
	r.Post("/edit/submit", h.SubmitEdit)
	r.Delete("/edit", h.CancelEdit)
}

func (h *Handler) controller(w http.ResponseWriter, r *http.Request) (*Controller, bool) {
	s, ok := internal.SessionFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, internal.ErrMissingToken)
		return nil, false
	}
	return h.Registry.For(s.ID), true
}

func (h *Handler) writeView(w http.ResponseWriter, status int, c *Controller) {
	h.WriteJSON(w, status, c.View())
}

func (h *Handler) GetView(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	if c.State() == StateIdle {
		if err := c.Refresh(r.Context()); err != nil {
			h.WriteAppError(w, err)
			return
		}
	}
	h.writeView(w, http.StatusOK, c)
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	if err := c.Refresh(r.Context()); err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.writeView(w, http.StatusOK, c)
}

type createResponse struct {
	ID   string `json:"id"`
	View View   `json:"view"`
}

// CreateEmployee accepts either a JSON draft or a multipart form with the
// draft JSON in the "employee" field and an optional "profilePicture" file.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}

	draft, err := h.decodeDraft(r)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	id, err := c.Create(r.Context(), draft)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	logger.From(r.Context()).Info("CreateEmployee: employee registered from dashboard", "employee_id", id)
	h.WriteJSON(w, http.StatusCreated, createResponse{ID: id, View: c.View()})
}

func (h *Handler) decodeDraft(r *http.Request) (*employee.Draft, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var draft employee.Draft
		if err := h.DecodeJSON(r, &draft); err != nil {
			return nil, err
		}
		return &draft, nil
	}

	if err := r.ParseMultipartForm(MaxPictureSize); err != nil {
		return nil, internal.NewValidationError("invalid multipart form", internal.ErrCodeInvalidRequest).WithCause(err)
	}
	var draft employee.Draft
	if raw := r.FormValue("employee"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &draft); err != nil {
			return nil, internal.NewValidationError("invalid employee field", internal.ErrCodeInvalidRequest).WithCause(err)
		}
	}
	picture, err := readPicture(r)
	if err != nil {
		return nil, err
	}
	draft.ProfilePicture = picture
	return &draft, nil
}

// readPicture returns the "profilePicture" file of a parsed multipart form,
// or nil when none was sent.
func readPicture(r *http.Request) (*employee.Attachment, error) {
	file, header, err := r.FormFile("profilePicture")
	if err == http.ErrMissingFile {
		return nil, nil
	}
	if err != nil {
		return nil, internal.NewValidationError("invalid profile picture", internal.ErrCodeInvalidRequest).WithCause(err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxPictureSize+1))
	if err != nil {
		return nil, internal.NewUploadError("Failed to read profile picture", err)
	}
	if len(data) > MaxPictureSize {
		return nil, internal.NewValidationFieldError("profilePicture", "profile picture is too large", internal.ErrCodeValidationFailed)
	}
	return &employee.Attachment{
		FileName:    filepath.Base(header.Filename),
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func (h *Handler) OpenPromote(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	modal, err := c.OpenPromote(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, modal)
}

func (h *Handler) ClosePromote(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	c.ClosePromote()
	h.writeView(w, http.StatusOK, c)
}

func (h *Handler) Promote(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	var p employee.Promotion
	if err := h.DecodeJSON(r, &p); err != nil {
		h.WriteAppError(w, err)
		return
	}
	if err := c.Promote(r.Context(), chi.URLParam(r, "id"), p); err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.writeView(w, http.StatusOK, c)
}

func (h *Handler) Terminate(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	if err := c.Terminate(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.writeView(w, http.StatusOK, c)
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	if err := c.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.writeView(w, http.StatusOK, c)
}

// PreviewCV renders the CV of a listed employee. An id that is not on the
// dashboard renders as an empty page, like a CV page opened directly.
func (h *Handler) PreviewCV(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	e, _ := c.Employee(id)
	doc := h.CV.Preview(r.Context(), id, e)
	h.WriteJSON(w, http.StatusOK, cv.PreviewResponse{Document: doc, Text: doc.Text()})
}

func (h *Handler) BeginCreate(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	h.WriteJSON(w, http.StatusOK, c.BeginCreate())
}

func (h *Handler) BeginEdit(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	draft, err := c.BeginEdit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, draft)
}

type setFieldRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (h *Handler) SetField(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	var req setFieldRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.WriteAppError(w, err)
		return
	}
	draft, err := c.SetField(req.Field, req.Value)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, draft)
}

func (h *Handler) ToggleTerminated(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	draft, err := c.ToggleTerminated()
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, draft)
}

func (h *Handler) SetPicture(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	if err := r.ParseMultipartForm(MaxPictureSize); err != nil {
		h.WriteAppError(w, internal.NewValidationError("invalid multipart form", internal.ErrCodeInvalidRequest).WithCause(err))
		return
	}
	picture, err := readPicture(r)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	if err := c.SetPicture(picture); err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.writeView(w, http.StatusOK, c)
}

func (h *Handler) SubmitEdit(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	id, err := c.SubmitEdit(r.Context())
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, createResponse{ID: id, View: c.View()})
}

func (h *Handler) CancelEdit(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	c.CancelEdit()
	w.WriteHeader(http.StatusNoContent)
}
