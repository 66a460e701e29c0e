// Package backend defines the document store contract and the factory that
// resolves the active backend from configuration, once, at process start.
package backend

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pulseworks/searchd/internal/backend/cluster"
	"github.com/pulseworks/searchd/internal/backend/memory"
	"github.com/pulseworks/searchd/internal/backend/sqlfts"
	"github.com/pulseworks/searchd/internal/domain"
)

// Kind names a backend implementation. The set is closed: selecting anything
// else fails at boot, not per request.
type Kind string

const (
	// KindMemory is the process-local term-overlap store.
	KindMemory Kind = "memory"
	// KindFTS is the disk-backed SQLite FTS5 store.
	KindFTS Kind = "persistent-fts"
	// KindCluster is the remote full-text cluster. Not integrated yet; every
	// operation reports unavailability instead of falling back.
	KindCluster Kind = "remote-cluster"
)

// Store is the capability contract every backend satisfies. Side effects are
// confined to the backend's own storage.
type Store interface {
	// Upsert inserts or replaces documents by id and returns the number of
	// documents processed. Repeated calls with identical documents leave the
	// store in the same observable state.
	Upsert(ctx context.Context, docs []domain.Document, indexName string) (int, error)

	// Query returns at most limit results, sorted by descending score with
	// ties broken by insertion order. An empty store or empty query text
	// yields an empty slice, never an error.
	Query(ctx context.Context, text string, limit int) ([]domain.SearchResult, error)

	// Stats reports the current document count.
	Stats(ctx context.Context) (domain.Stats, error)

	// Name identifies the backend in response envelopes and logs.
	Name() string

	// Ready reports whether the backend can serve requests.
	Ready(ctx context.Context) error

	Close() error
}

// Compile-time checks that every variant satisfies the contract.
var (
	_ Store = (*memory.Store)(nil)
	_ Store = (*sqlfts.Store)(nil)
	_ Store = (*cluster.Store)(nil)
)

// Config selects and parameterizes the backend. Resolved once at boot; the
// chosen backend is immutable for the process lifetime.
type Config struct {
	Driver Kind
	Path   string // SQLite file for persistent-fts
	URL    string // endpoint for remote-cluster
}

// New constructs the configured backend. Unknown drivers are a boot failure.
func New(cfg Config, logger *zap.Logger) (Store, error) {
	switch cfg.Driver {
	case KindMemory:
		return memory.New(logger), nil
	case KindFTS:
		s, err := sqlfts.New(cfg.Path, logger)
		if err != nil {
			return nil, fmt.Errorf("create persistent-fts backend: %w", err)
		}
		return s, nil
	case KindCluster:
		return cluster.New(cfg.URL, logger), nil
	default:
		return nil, fmt.Errorf("unknown backend driver %q", cfg.Driver)
	}
}
