package searchd

import (
	"context"
	"fmt"

	"github.com/pulseworks/searchd/internal/backend"
	"github.com/pulseworks/searchd/internal/domain"
	healthuc "github.com/pulseworks/searchd/internal/usecase/health"
	searchuc "github.com/pulseworks/searchd/internal/usecase/search"
)

// Document is a unit of indexed text. An empty ID is derived from the
// content, so identical unnamed content converges to a single record.
type Document struct {
	ID       string
	Content  string
	Metadata map[string]any
}

// SearchResult is a single search hit; Score increases with relevance.
type SearchResult struct {
	ID       string
	Content  string
	Score    float64
	Metadata map[string]any
}

// QueryResult is the query envelope.
type QueryResult struct {
	Results []SearchResult
	Total   int
	Query   string
	Backend string
	TookMs  int64
}

// UpsertResult is the upsert envelope.
type UpsertResult struct {
	Status             string
	DocumentsProcessed int
	IndexName          string
	Backend            string
	Message            string
}

// Stats reports the backend identity and its document count.
type Stats struct {
	Backend       string
	DocumentCount int
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded"
	Checks map[string]string // backend → "ok"/"error"
}

// Client is the embedded searchd entry point. The backend is chosen once at
// construction and stays fixed for the client lifetime.
type Client struct {
	store     backend.Store
	searchSvc *searchuc.Service
	healthSvc *healthuc.Service
}

// New creates a Client. The default backend is memory.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{driver: backend.KindMemory}
	for _, o := range opts {
		o.apply(cfg)
	}

	store, err := backend.New(backend.Config{
		Driver: cfg.driver,
		Path:   cfg.path,
		URL:    cfg.url,
	}, cfg.logger)
	if err != nil {
		return nil, fmt.Errorf("searchd: create backend: %w", err)
	}

	searchSvc := searchuc.New(store, cfg.logger).
		WithDefaults(cfg.defaultLimit, cfg.indexName)

	return &Client{
		store:     store,
		searchSvc: searchSvc,
		healthSvc: healthuc.New(store),
	}, nil
}

// Close releases all resources.
func (c *Client) Close() error {
	return c.store.Close()
}

// Query searches the index. limit <= 0 means the configured default.
func (c *Client) Query(ctx context.Context, query string, limit int) (QueryResult, error) {
	req := searchuc.QueryRequest{Query: query}
	if limit > 0 {
		req.Limit = &limit
	}

	resp, err := c.searchSvc.Query(ctx, req)
	if err != nil {
		return QueryResult{}, fmt.Errorf("searchd: query: %w", err)
	}

	results := make([]SearchResult, len(resp.Results))
	for i, r := range resp.Results {
		results[i] = SearchResult{
			ID:       r.ID,
			Content:  r.Content,
			Score:    r.Score,
			Metadata: r.Metadata,
		}
	}
	return QueryResult{
		Results: results,
		Total:   resp.Total,
		Query:   resp.Query,
		Backend: resp.Backend,
		TookMs:  resp.TookMs,
	}, nil
}

// Upsert inserts or replaces documents. indexName may be empty to use the
// configured default; zero documents is valid.
func (c *Client) Upsert(ctx context.Context, docs []Document, indexName string) (UpsertResult, error) {
	payload := make([]domain.Document, len(docs))
	for i, d := range docs {
		payload[i] = domain.Document{ID: d.ID, Content: d.Content, Metadata: d.Metadata}
	}

	resp, err := c.searchSvc.Upsert(ctx, searchuc.UpsertRequest{
		Documents: payload,
		IndexName: indexName,
	})
	if err != nil {
		return UpsertResult{}, fmt.Errorf("searchd: upsert: %w", err)
	}
	return UpsertResult{
		Status:             resp.Status,
		DocumentsProcessed: resp.DocumentsProcessed,
		IndexName:          resp.IndexName,
		Backend:            resp.Backend,
		Message:            resp.Message,
	}, nil
}

// Stats reports the document count of the active backend.
func (c *Client) Stats(ctx context.Context) (Stats, error) {
	resp, err := c.searchSvc.Stats(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("searchd: stats: %w", err)
	}
	return Stats{Backend: resp.Backend, DocumentCount: resp.DocumentCount}, nil
}

// Health checks the health of the active backend.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}
