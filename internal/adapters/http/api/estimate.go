package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/okian/betterrest/internal/domain/estimator"
	"github.com/okian/betterrest/internal/domain/model"
	"github.com/okian/betterrest/internal/domain/types"
)

// EstimateDependencies defines the interface for one-shot estimates.
type EstimateDependencies interface {
	Estimate(ctx context.Context, in model.Inputs) (estimator.Result, error)
}

// EstimateHandler handles estimate requests.
type EstimateHandler struct {
	deps EstimateDependencies
}

// NewEstimateHandler creates a new estimate handler.
func NewEstimateHandler(deps EstimateDependencies) *EstimateHandler {
	return &EstimateHandler{deps: deps}
}

// HandlePostEstimate handles POST /estimate requests. A calculation failure
// is a displayable result and is returned with 200.
func (h *EstimateHandler) HandlePostEstimate(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_estimate"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req inputsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	in, err := req.inputs()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	res, err := h.deps.Estimate(r.Context(), in)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrInternal, err))
		return
	}
	writeJSON(w, http.StatusOK, types.FromResult(res))
}
