// Package search is the query/upsert facade: it validates requests,
// dispatches to the active backend and assembles uniform response envelopes.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pulseworks/searchd/internal/domain"
	"github.com/pulseworks/searchd/internal/metrics"
)

const (
	// DefaultLimit is used when a query request carries no limit.
	DefaultLimit = 10
	// DefaultIndexName is echoed when an upsert request names no index.
	DefaultIndexName = "global_agent_docs"
)

// QueryRequest is a search request. A nil Limit means "use the default";
// an explicit limit is clamped to >= 0.
type QueryRequest struct {
	Query string
	Limit *int
}

// QueryResponse is the uniform query envelope.
type QueryResponse struct {
	Results []domain.SearchResult
	Total   int
	Query   string
	Backend string
	TookMs  int64
}

// UpsertRequest carries zero or more documents for an index.
type UpsertRequest struct {
	Documents []domain.Document
	IndexName string
}

// UpsertResponse is the uniform upsert envelope.
type UpsertResponse struct {
	Status             string
	DocumentsProcessed int
	IndexName          string
	Backend            string
	Message            string
}

// StatsResponse reports the backend identity and its document count.
type StatsResponse struct {
	Backend       string
	DocumentCount int
}

// Service dispatches to the active backend. The backend never changes for
// the process lifetime, and a backend-unavailable outcome is propagated
// verbatim — no alternate backend is tried.
type Service struct {
	store        DocumentStore
	defaultLimit int
	defaultIndex string
	logger       *zap.Logger
}

// New creates the facade service.
func New(store DocumentStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:        store,
		defaultLimit: DefaultLimit,
		defaultIndex: DefaultIndexName,
		logger:       logger,
	}
}

// WithDefaults overrides the default limit and index name from configuration.
func (s *Service) WithDefaults(limit int, indexName string) *Service {
	if limit > 0 {
		s.defaultLimit = limit
	}
	if indexName != "" {
		s.defaultIndex = indexName
	}
	return s
}

// Query runs a search against the active backend. An empty query string is
// not invalid: backends answer it with empty results.
func (s *Service) Query(ctx context.Context, req QueryRequest) (QueryResponse, error) {
	limit := s.defaultLimit
	if req.Limit != nil {
		limit = *req.Limit
		if limit < 0 {
			limit = 0
		}
	}

	backend := s.store.Name()
	start := time.Now()
	results, err := s.store.Query(ctx, req.Query, limit)
	took := time.Since(start)
	metrics.SearchQueryDuration.WithLabelValues(backend).Observe(took.Seconds())

	if err != nil {
		if errors.Is(err, domain.ErrBackendUnavailable) {
			metrics.SearchQueriesTotal.WithLabelValues(backend, "unavailable").Inc()
			metrics.BackendUnavailableTotal.WithLabelValues(backend).Inc()
			return QueryResponse{}, err
		}
		metrics.SearchQueriesTotal.WithLabelValues(backend, "error").Inc()
		return QueryResponse{}, fmt.Errorf("query backend %s: %w", backend, err)
	}
	metrics.SearchQueriesTotal.WithLabelValues(backend, "ok").Inc()

	if results == nil {
		results = []domain.SearchResult{}
	}

	s.logger.Debug("query served",
		zap.String("backend", backend),
		zap.Int("results", len(results)),
		zap.Duration("took", took),
	)

	return QueryResponse{
		Results: results,
		Total:   len(results),
		Query:   req.Query,
		Backend: backend,
		TookMs:  took.Milliseconds(),
	}, nil
}

// Upsert stores documents in the active backend. Documents without an id get
// one derived from their content, so identical unnamed content converges to
// a single record. Zero documents is valid and processes nothing.
func (s *Service) Upsert(ctx context.Context, req UpsertRequest) (UpsertResponse, error) {
	indexName := req.IndexName
	if indexName == "" {
		indexName = s.defaultIndex
	}

	docs := make([]domain.Document, len(req.Documents))
	for i, doc := range req.Documents {
		if doc.ID == "" {
			doc.ID = domain.DeriveID(doc.Content)
		}
		docs[i] = doc
	}

	backend := s.store.Name()
	count, err := s.store.Upsert(ctx, docs, indexName)
	if err != nil {
		if errors.Is(err, domain.ErrBackendUnavailable) {
			metrics.BackendUnavailableTotal.WithLabelValues(backend).Inc()
			return UpsertResponse{}, err
		}
		return UpsertResponse{}, fmt.Errorf("upsert to backend %s: %w", backend, err)
	}
	metrics.DocumentsUpsertedTotal.WithLabelValues(backend).Add(float64(count))

	return UpsertResponse{
		Status:             "success",
		DocumentsProcessed: count,
		IndexName:          indexName,
		Backend:            backend,
		Message:            fmt.Sprintf("Successfully processed %d documents", count),
	}, nil
}

// Stats reports the backend's document count.
func (s *Service) Stats(ctx context.Context) (StatsResponse, error) {
	st, err := s.store.Stats(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrBackendUnavailable) {
			return StatsResponse{}, err
		}
		return StatsResponse{}, fmt.Errorf("stats from backend %s: %w", s.store.Name(), err)
	}
	return StatsResponse{
		Backend:       s.store.Name(),
		DocumentCount: st.DocumentCount,
	}, nil
}
