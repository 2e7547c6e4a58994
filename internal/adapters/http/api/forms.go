package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/betterrest/internal/adapters/repository"
	service "github.com/okian/betterrest/internal/app"
	"github.com/okian/betterrest/internal/domain/form"
	"github.com/okian/betterrest/internal/domain/types"
)

// FormDependencies defines the interface for live form operations.
type FormDependencies interface {
	OpenForm(ctx context.Context) (string, form.State, error)
	ChangeForm(ctx context.Context, id, changeID string, c form.Change) (service.ChangeResult, error)
	Form(ctx context.Context, id string) (form.State, error)
	CloseForm(ctx context.Context, id string) error
}

// FormsHandler handles live form requests.
type FormsHandler struct {
	deps FormDependencies
}

// NewFormsHandler creates a new forms handler.
func NewFormsHandler(deps FormDependencies) *FormsHandler {
	return &FormsHandler{deps: deps}
}

// HandleCreateForm handles POST /forms requests.
func (h *FormsHandler) HandleCreateForm(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_form"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	id, state, err := h.deps.OpenForm(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrInternal, err))
		return
	}
	w.Header().Set("Location", "/forms/"+id)
	writeJSON(w, http.StatusCreated, types.FromState(id, state))
}

// HandleForm handles GET, PATCH and DELETE /forms/{id} requests.
func (h *FormsHandler) HandleForm(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/forms/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind("api.form", ErrBadRequest))
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPatch:
		h.patch(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

func (h *FormsHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	const op = "api.get_form"
	state, err := h.deps.Form(r.Context(), id)
	if err != nil {
		writeFormError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, types.FromState(id, state))
}

func (h *FormsHandler) patch(w http.ResponseWriter, r *http.Request, id string) {
	const op = "api.patch_form"
	var req inputsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	c, err := req.change()
	if err == nil && c.Empty() {
		err = errEmptyChange
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	res, err := h.deps.ChangeForm(r.Context(), id, strings.TrimSpace(req.ChangeID), c)
	if err != nil {
		writeFormError(w, op, err)
		return
	}
	out := types.FromState(id, res.State)
	out.Recalculations = &res.Recalculations
	out.Duplicate = res.Duplicate
	writeJSON(w, http.StatusOK, out)
}

func (h *FormsHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	const op = "api.delete_form"
	if err := h.deps.CloseForm(r.Context(), id); err != nil {
		writeFormError(w, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeFormError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, repository.ErrFormNotFound) {
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
		return
	}
	writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrInternal, err))
}
