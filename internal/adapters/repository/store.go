// Package repository keeps live forms in memory between HTTP requests.
package repository

import (
	"context"
	"time"

	"github.com/maypok86/otter/v2"
	"github.com/okian/betterrest/internal/domain/form"
)

const (
	defaultMaxForms = 10_000
	defaultTTL      = 30 * time.Minute
)

// Store provides access to open forms by id.
type Store interface {
	// Put stores f under id and restarts its expiry.
	Put(ctx context.Context, id string, f *form.Form)
	// Touch restarts the expiry of id without recreating it. It returns
	// ErrFormNotFound when id was deleted or has expired.
	Touch(ctx context.Context, id string) error
	// Get returns ErrFormNotFound for unknown or expired ids.
	Get(ctx context.Context, id string) (*form.Form, error)
	// Delete returns ErrFormNotFound when nothing was stored under id.
	Delete(ctx context.Context, id string) error
	// Count is approximate while evictions are pending.
	Count(ctx context.Context) int
}

// OtterStore is a bounded Store whose entries expire after a period without
// writes.
type OtterStore struct {
	cache    *otter.Cache[string, *form.Form]
	maxForms int
	ttl      time.Duration
}

// NewOtterStore creates an OtterStore.
func NewOtterStore(opts ...Option) *OtterStore {
	s := &OtterStore{
		maxForms: defaultMaxForms,
		ttl:      defaultTTL,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.cache = otter.Must(&otter.Options[string, *form.Form]{
		MaximumSize:      s.maxForms,
		InitialCapacity:  min(s.maxForms, 1024),
		ExpiryCalculator: otter.ExpiryWriting[string, *form.Form](s.ttl),
	})
	return s
}

func (s *OtterStore) Put(_ context.Context, id string, f *form.Form) {
	s.cache.Set(id, f)
}

func (s *OtterStore) Touch(_ context.Context, id string) error {
	_, ok := s.cache.ComputeIfPresent(id, func(f *form.Form) (*form.Form, otter.ComputeOp) {
		return f, otter.WriteOp
	})
	if !ok {
		return ErrFormNotFound
	}
	return nil
}

func (s *OtterStore) Get(_ context.Context, id string) (*form.Form, error) {
	f, ok := s.cache.GetIfPresent(id)
	if !ok {
		return nil, ErrFormNotFound
	}
	return f, nil
}

func (s *OtterStore) Delete(_ context.Context, id string) error {
	if _, ok := s.cache.Invalidate(id); !ok {
		return ErrFormNotFound
	}
	return nil
}

func (s *OtterStore) Count(_ context.Context) int {
	return s.cache.EstimatedSize()
}
