// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	service "github.com/okian/betterrest/internal/app"
	"github.com/okian/betterrest/internal/domain/estimator"
	"github.com/okian/betterrest/internal/domain/form"
	"github.com/okian/betterrest/internal/domain/model"
	"github.com/okian/betterrest/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Estimate(ctx context.Context, in model.Inputs) (estimator.Result, error)

	OpenForm(ctx context.Context) (string, form.State, error)
	ChangeForm(ctx context.Context, id, changeID string, c form.Change) (service.ChangeResult, error)
	Form(ctx context.Context, id string) (form.State, error)
	CloseForm(ctx context.Context, id string) error

	ModelInfo() types.ModelInfo
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	modelHandler    *ModelHandler
	estimateHandler *EstimateHandler
	formsHandler    *FormsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		modelHandler:    NewModelHandler(deps),
		estimateHandler: NewEstimateHandler(deps),
		formsHandler:    NewFormsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/model", MetricsMiddleware(s.modelHandler.HandleGetModel, "model"))
	mux.HandleFunc("/estimate", MetricsMiddleware(s.estimateHandler.HandlePostEstimate, "estimate"))
	mux.HandleFunc("/forms", MetricsMiddleware(s.formsHandler.HandleCreateForm, "forms"))
	mux.HandleFunc("/forms/", MetricsMiddleware(s.formsHandler.HandleForm, "form"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
