// Package cluster is the remote full-text cluster backend. The integration is
// not wired yet: every operation reports a distinguishable unavailability
// instead of silently falling back to another backend — callers must know the
// preferred backend is inert rather than be served wrong data.
package cluster

import (
	"context"

	"go.uber.org/zap"

	"github.com/pulseworks/searchd/internal/domain"
)

const name = "remote-cluster"

// Store fails fast on every call. Kept as a named variant so configuration
// selecting it is not a boot error, only an explicit per-request outcome.
type Store struct {
	url    string
	logger *zap.Logger
}

// New creates the remote-cluster placeholder. url may be empty.
func New(url string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{url: url, logger: logger}
}

func (s *Store) unavailable() error {
	if s.url == "" {
		return domain.NewBackendUnavailable(name, "no endpoint configured")
	}
	return domain.NewBackendUnavailable(name, "integration not yet available")
}

// Upsert always reports unavailability.
func (s *Store) Upsert(_ context.Context, _ []domain.Document, _ string) (int, error) {
	return 0, s.unavailable()
}

// Query always reports unavailability.
func (s *Store) Query(_ context.Context, _ string, _ int) ([]domain.SearchResult, error) {
	return nil, s.unavailable()
}

// Stats always reports unavailability.
func (s *Store) Stats(_ context.Context) (domain.Stats, error) {
	return domain.Stats{}, s.unavailable()
}

// Name returns the backend identity.
func (s *Store) Name() string { return name }

// Ready reports the same unavailability surfaced by operations.
func (s *Store) Ready(_ context.Context) error { return s.unavailable() }

// Close is a no-op.
func (s *Store) Close() error { return nil }
