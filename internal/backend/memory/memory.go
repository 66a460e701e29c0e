// Package memory implements the process-local document store. It scores by
// naive term overlap and lives exactly as long as the process — a demo-grade
// approximation, not production ranking.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pulseworks/searchd/internal/domain"
)

// Store holds documents in a mutex-guarded map. Instances are injectable so
// each test can own an isolated store.
type Store struct {
	mu     sync.RWMutex
	docs   map[string]domain.Document
	order  []string // insertion order; re-upsert keeps the original slot
	logger *zap.Logger
}

// New creates an empty in-memory store.
func New(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		docs:   make(map[string]domain.Document),
		logger: logger,
	}
}

// Upsert replaces documents by id. Each document is stamped with an
// indexing timestamp in metadata (informational only, not used by scoring).
func (s *Store) Upsert(_ context.Context, docs []domain.Document, indexName string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, doc := range docs {
		meta := make(map[string]any, len(doc.Metadata)+1)
		for k, v := range doc.Metadata {
			meta[k] = v
		}
		meta["indexed_at"] = now
		doc.Metadata = meta

		if _, exists := s.docs[doc.ID]; !exists {
			s.order = append(s.order, doc.ID)
		}
		s.docs[doc.ID] = doc
	}

	s.logger.Debug("memory upsert",
		zap.Int("documents", len(docs)),
		zap.String("index_name", indexName),
		zap.Int("document_count", len(s.docs)),
	)
	return len(docs), nil
}

// Query scores each document as the fraction of query terms present as a
// substring of the lowercased content. Zero-score documents are excluded;
// ties keep insertion order.
func (s *Store) Query(_ context.Context, text string, limit int) ([]domain.SearchResult, error) {
	terms := strings.Fields(strings.ToLower(text))
	if len(terms) == 0 || limit <= 0 {
		return []domain.SearchResult{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]domain.SearchResult, 0, len(s.order))
	for _, id := range s.order {
		doc := s.docs[id]
		content := strings.ToLower(doc.Content)

		matched := 0
		for _, term := range terms {
			if strings.Contains(content, term) {
				matched++
			}
		}
		if matched == 0 {
			continue
		}

		results = append(results, domain.SearchResult{
			ID:       doc.ID,
			Content:  doc.Content,
			Score:    float64(matched) / float64(len(terms)),
			Metadata: doc.Metadata,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Stats reports the number of stored documents.
func (s *Store) Stats(_ context.Context) (domain.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Stats{DocumentCount: len(s.docs)}, nil
}

// Name returns the backend identity.
func (s *Store) Name() string { return "memory" }

// Ready always succeeds: the store needs no external resource.
func (s *Store) Ready(_ context.Context) error { return nil }

// Close is a no-op; the store vanishes with the process.
func (s *Store) Close() error { return nil }
