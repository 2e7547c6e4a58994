package api

import (
	"net/http"

	"github.com/okian/betterrest/internal/domain/types"
)

// ModelDependencies defines the interface for model introspection.
type ModelDependencies interface {
	ModelInfo() types.ModelInfo
}

// ModelHandler handles model requests.
type ModelHandler struct {
	deps ModelDependencies
}

// NewModelHandler creates a new model handler.
func NewModelHandler(deps ModelDependencies) *ModelHandler {
	return &ModelHandler{deps: deps}
}

// HandleGetModel handles GET /model requests.
func (h *ModelHandler) HandleGetModel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.ModelInfo())
}
