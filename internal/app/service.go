// Package service wires the bedtime estimator, the live form store and the
// change deduper behind the operations the presentation layers call.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/betterrest/internal/adapters/repository"
	"github.com/okian/betterrest/internal/domain/dedupe"
	"github.com/okian/betterrest/internal/domain/estimator"
	"github.com/okian/betterrest/internal/domain/form"
	"github.com/okian/betterrest/internal/domain/model"
	"github.com/okian/betterrest/internal/domain/predictor"
	"github.com/okian/betterrest/internal/domain/types"
	"github.com/okian/betterrest/pkg/logger"
	"github.com/okian/betterrest/pkg/metrics"
)

// ErrNotStarted is returned by operations called before Start.
var ErrNotStarted = errors.New("service not started")

// ChangeResult is the outcome of ChangeForm.
type ChangeResult struct {
	State          form.State
	Recalculations int
	Duplicate      bool
}

// Service implements the API dependencies for the bedtime estimator.
type Service struct {
	mu sync.RWMutex

	// Core components
	predictor *predictor.Linear
	estimator *estimator.Estimator
	forms     repository.Store
	deduper   dedupe.Deduper

	// Configuration
	loader      predictor.Loader
	modelSource string
	formTTL     time.Duration
	maxForms    int
	dedupeSize  int

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithModelLoader sets where the coefficients come from. source is reported
// by ModelInfo.
func WithModelLoader(loader predictor.Loader, source string) Option {
	return func(s *Service) {
		if loader != nil {
			s.loader = loader
			s.modelSource = source
		}
	}
}

// WithFormTTL sets how long an untouched form is kept.
func WithFormTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.formTTL = ttl
		}
	}
}

// WithMaxForms bounds the number of live forms.
func WithMaxForms(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxForms = n
		}
	}
}

// WithDedupeSize sets the size of the change deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		formTTL:    30 * time.Minute,
		maxForms:   10_000,
		dedupeSize: 50_000,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the model and builds the components. A model that fails to
// load does not fail Start: estimates then report a calculation error. The
// coefficients are never reloaded, not even by Stop followed by Start.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting bedtime service...")

	// The model is loaded on the first Start only; a restart keeps it.
	if s.predictor == nil {
		s.predictor = predictor.New(ctx, s.loader, predictor.WithSource(s.modelSource))
		if err := s.predictor.Err(); err != nil {
			s.logger.Error(ctx, "model unavailable, estimates will fail",
				logger.String("source", s.modelSource),
				logger.Error(err),
			)
		} else {
			s.logger.Info(ctx, "model loaded", logger.String("source", s.modelSource))
		}
		s.estimator = estimator.New(s.predictor, estimator.WithLogger(s.logger.Named("estimator")))
	}
	metrics.UpdateModelLoaded(s.predictor.Ready())

	s.forms = repository.NewOtterStore(
		repository.WithTTL(s.formTTL),
		repository.WithMaxForms(s.maxForms),
	)
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)

	s.started = true
	s.logger.Info(ctx, "bedtime service started",
		logger.Duration("formTTL", s.formTTL),
		logger.Int("maxForms", s.maxForms),
		logger.Int("dedupeSize", s.dedupeSize),
	)

	return nil
}

// Stop marks the service stopped. Open forms are dropped.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping bedtime service...")
	s.forms = nil
	s.deduper = nil
	s.started = false
	metrics.UpdateOpenForms(0)
	s.logger.Info(context.Background(), "bedtime service stopped")
}

// components returns the live components or ErrNotStarted.
func (s *Service) components() (*estimator.Estimator, repository.Store, dedupe.Deduper, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, nil, nil, ErrNotStarted
	}
	return s.estimator, s.forms, s.deduper, nil
}

// Estimate runs a one-shot estimate.
func (s *Service) Estimate(ctx context.Context, in model.Inputs) (estimator.Result, error) {
	est, _, _, err := s.components()
	if err != nil {
		return estimator.Result{}, err
	}
	return est.Estimate(ctx, in), nil
}

// OpenForm creates a form with the default inputs and runs its initial
// estimate.
func (s *Service) OpenForm(ctx context.Context) (string, form.State, error) {
	est, forms, _, err := s.components()
	if err != nil {
		return "", form.State{}, err
	}

	id := uuid.NewString()
	f := form.New(ctx, est, model.DefaultInputs(), form.WithLogger(s.logger.Named("form")))
	forms.Put(ctx, id, f)

	metrics.RecordFormOpened()
	metrics.UpdateOpenForms(forms.Count(ctx))
	s.logger.Debug(ctx, "form opened", logger.String("id", id))
	return id, f.Snapshot(), nil
}

// ChangeForm applies c to form id. When changeID is not empty a repeated
// change is detected and reported as a duplicate without recalculating.
func (s *Service) ChangeForm(ctx context.Context, id, changeID string, c form.Change) (ChangeResult, error) {
	_, forms, deduper, err := s.components()
	if err != nil {
		return ChangeResult{}, err
	}

	f, err := forms.Get(ctx, id)
	if err != nil {
		return ChangeResult{}, err
	}

	key := id + "/" + changeID
	if changeID != "" && deduper.SeenAndRecord(ctx, key) {
		metrics.RecordDuplicateChange()
		s.logger.Debug(ctx, "duplicate change ignored",
			logger.String("id", id),
			logger.String("changeID", changeID),
		)
		return ChangeResult{State: f.Snapshot(), Duplicate: true}, nil
	}

	state, n := f.Apply(ctx, c)
	// A form in use does not time out. Touch fails when the form was closed
	// while the change ran; the change id is released with it.
	if err := forms.Touch(ctx, id); err != nil {
		if changeID != "" {
			deduper.Unrecord(ctx, key)
		}
		s.logger.Debug(ctx, "form closed during change", logger.String("id", id))
		return ChangeResult{}, err
	}
	return ChangeResult{State: state, Recalculations: n}, nil
}

// Form returns the current state of form id.
func (s *Service) Form(ctx context.Context, id string) (form.State, error) {
	_, forms, _, err := s.components()
	if err != nil {
		return form.State{}, err
	}
	f, err := forms.Get(ctx, id)
	if err != nil {
		return form.State{}, err
	}
	return f.Snapshot(), nil
}

// CloseForm discards form id.
func (s *Service) CloseForm(ctx context.Context, id string) error {
	_, forms, _, err := s.components()
	if err != nil {
		return err
	}
	if err := forms.Delete(ctx, id); err != nil {
		return err
	}
	metrics.RecordFormClosed()
	metrics.UpdateOpenForms(forms.Count(ctx))
	return nil
}

// ModelInfo describes the loaded coefficient set.
func (s *Service) ModelInfo() types.ModelInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info := types.ModelInfo{Source: s.modelSource}
	if s.predictor == nil {
		info.Error = ErrNotStarted.Error()
		return info
	}
	coef, err := s.predictor.Coefficients()
	if err != nil {
		info.Error = err.Error()
		return info
	}
	info.Loaded = true
	info.Coefficients = &coef
	return info
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":    s.started,
		"formTTL":    s.formTTL.String(),
		"maxForms":   s.maxForms,
		"dedupeSize": s.dedupeSize,
	}

	if s.started {
		openForms := s.forms.Count(context.Background())
		stats["modelLoaded"] = s.predictor.Ready()
		stats["openForms"] = openForms
		stats["recordedChanges"] = s.deduper.Size()

		metrics.UpdateOpenForms(openForms)
	}

	return stats
}
