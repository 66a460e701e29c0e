package search

import (
	"context"

	"github.com/pulseworks/searchd/internal/domain"
)

// DocumentStore is the slice of the backend contract the facade depends on.
// The concrete backend is resolved once at startup and injected here.
type DocumentStore interface {
	Upsert(ctx context.Context, docs []domain.Document, indexName string) (int, error)
	Query(ctx context.Context, text string, limit int) ([]domain.SearchResult, error)
	Stats(ctx context.Context) (domain.Stats, error)
	Name() string
}
