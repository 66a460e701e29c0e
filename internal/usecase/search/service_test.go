package search

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pulseworks/searchd/internal/domain"
)

type mockStore struct {
	name string

	queryResults []domain.SearchResult
	queryErr     error
	lastQuery    string
	lastLimit    int

	upsertErr     error
	lastDocs      []domain.Document
	lastIndexName string

	stats    domain.Stats
	statsErr error
}

func (m *mockStore) Upsert(_ context.Context, docs []domain.Document, indexName string) (int, error) {
	m.lastDocs = docs
	m.lastIndexName = indexName
	if m.upsertErr != nil {
		return 0, m.upsertErr
	}
	return len(docs), nil
}

func (m *mockStore) Query(_ context.Context, text string, limit int) ([]domain.SearchResult, error) {
	m.lastQuery = text
	m.lastLimit = limit
	return m.queryResults, m.queryErr
}

func (m *mockStore) Stats(_ context.Context) (domain.Stats, error) {
	return m.stats, m.statsErr
}

func (m *mockStore) Name() string {
	if m.name == "" {
		return "memory"
	}
	return m.name
}

func intPtr(v int) *int { return &v }

func TestQuery_DefaultLimit(t *testing.T) {
	store := &mockStore{}
	svc := New(store, nil)

	_, err := svc.Query(context.Background(), QueryRequest{Query: "overdue"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if store.lastLimit != DefaultLimit {
		t.Errorf("expected default limit %d, got %d", DefaultLimit, store.lastLimit)
	}
}

func TestQuery_ExplicitLimitAndNegativeClamp(t *testing.T) {
	tests := []struct {
		name     string
		limit    int
		expected int
	}{
		{"explicit", 5, 5},
		{"zero", 0, 0},
		{"negative clamped", -3, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := &mockStore{}
			svc := New(store, nil)

			_, err := svc.Query(context.Background(), QueryRequest{Query: "overdue", Limit: intPtr(tc.limit)})
			if err != nil {
				t.Fatalf("query: %v", err)
			}
			if store.lastLimit != tc.expected {
				t.Errorf("expected limit %d, got %d", tc.expected, store.lastLimit)
			}
		})
	}
}

func TestQuery_Envelope(t *testing.T) {
	store := &mockStore{
		queryResults: []domain.SearchResult{
			{ID: "d1", Content: "invoice overdue payment", Score: 1.0},
		},
	}
	svc := New(store, nil)

	resp, err := svc.Query(context.Background(), QueryRequest{Query: "overdue"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if resp.Total != 1 {
		t.Errorf("expected total 1, got %d", resp.Total)
	}
	if resp.Query != "overdue" {
		t.Errorf("expected query echoed, got %q", resp.Query)
	}
	if resp.Backend != "memory" {
		t.Errorf("expected backend memory, got %q", resp.Backend)
	}
	if resp.TookMs < 0 {
		t.Errorf("expected non-negative took_ms, got %d", resp.TookMs)
	}
}

func TestQuery_NilResultsBecomeEmptySlice(t *testing.T) {
	store := &mockStore{queryResults: nil}
	svc := New(store, nil)

	resp, err := svc.Query(context.Background(), QueryRequest{Query: "nothing"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if resp.Results == nil {
		t.Error("expected empty slice, got nil")
	}
	if resp.Total != 0 {
		t.Errorf("expected total 0, got %d", resp.Total)
	}
}

func TestQuery_BackendUnavailablePropagatedVerbatim(t *testing.T) {
	unavailable := domain.NewBackendUnavailable("remote-cluster", "integration not yet available")
	store := &mockStore{name: "remote-cluster", queryErr: unavailable}
	svc := New(store, nil)

	_, err := svc.Query(context.Background(), QueryRequest{Query: "overdue"})
	if !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
	// Propagated as-is, not re-wrapped.
	if err != unavailable {
		t.Errorf("expected the backend error verbatim, got %v", err)
	}
}

func TestQuery_OtherErrorsWrapped(t *testing.T) {
	cause := errors.New("disk read failed")
	store := &mockStore{queryErr: cause}
	svc := New(store, nil)

	_, err := svc.Query(context.Background(), QueryRequest{Query: "overdue"})
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	if !strings.Contains(err.Error(), "memory") {
		t.Errorf("expected error to name the backend, got %q", err.Error())
	}
}

func TestUpsert_DerivesMissingIDs(t *testing.T) {
	store := &mockStore{}
	svc := New(store, nil)

	resp, err := svc.Upsert(context.Background(), UpsertRequest{
		Documents: []domain.Document{
			{Content: "no id given"},
			{ID: "explicit", Content: "keeps its id"},
		},
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if resp.DocumentsProcessed != 2 {
		t.Errorf("expected 2 processed, got %d", resp.DocumentsProcessed)
	}
	if store.lastDocs[0].ID != domain.DeriveID("no id given") {
		t.Errorf("expected derived id, got %q", store.lastDocs[0].ID)
	}
	if store.lastDocs[1].ID != "explicit" {
		t.Errorf("expected explicit id kept, got %q", store.lastDocs[1].ID)
	}
}

func TestUpsert_DefaultIndexName(t *testing.T) {
	store := &mockStore{}
	svc := New(store, nil)

	resp, err := svc.Upsert(context.Background(), UpsertRequest{
		Documents: []domain.Document{{ID: "d1", Content: "alpha"}},
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if store.lastIndexName != DefaultIndexName {
		t.Errorf("expected default index name, got %q", store.lastIndexName)
	}
	if resp.IndexName != DefaultIndexName {
		t.Errorf("expected default index name echoed, got %q", resp.IndexName)
	}
}

func TestUpsert_Envelope(t *testing.T) {
	store := &mockStore{}
	svc := New(store, nil)

	resp, err := svc.Upsert(context.Background(), UpsertRequest{
		Documents: []domain.Document{{ID: "d1", Content: "alpha"}},
		IndexName: "custom",
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if resp.Status != "success" {
		t.Errorf("expected status success, got %q", resp.Status)
	}
	if resp.IndexName != "custom" {
		t.Errorf("expected custom index name, got %q", resp.IndexName)
	}
	if resp.Message != "Successfully processed 1 documents" {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

func TestUpsert_ZeroDocuments(t *testing.T) {
	store := &mockStore{}
	svc := New(store, nil)

	resp, err := svc.Upsert(context.Background(), UpsertRequest{})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if resp.DocumentsProcessed != 0 {
		t.Errorf("expected 0 processed, got %d", resp.DocumentsProcessed)
	}
	if resp.Status != "success" {
		t.Errorf("expected status success, got %q", resp.Status)
	}
}

func TestUpsert_BackendUnavailablePropagatedVerbatim(t *testing.T) {
	unavailable := domain.NewBackendUnavailable("remote-cluster", "no endpoint configured")
	store := &mockStore{name: "remote-cluster", upsertErr: unavailable}
	svc := New(store, nil)

	_, err := svc.Upsert(context.Background(), UpsertRequest{
		Documents: []domain.Document{{ID: "d1", Content: "alpha"}},
	})
	if err != unavailable {
		t.Errorf("expected the backend error verbatim, got %v", err)
	}
}

func TestWithDefaults(t *testing.T) {
	store := &mockStore{}
	svc := New(store, nil).WithDefaults(25, "team_docs")

	if _, err := svc.Query(context.Background(), QueryRequest{Query: "alpha"}); err != nil {
		t.Fatalf("query: %v", err)
	}
	if store.lastLimit != 25 {
		t.Errorf("expected configured limit 25, got %d", store.lastLimit)
	}

	if _, err := svc.Upsert(context.Background(), UpsertRequest{Documents: []domain.Document{{ID: "d1", Content: "alpha"}}}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if store.lastIndexName != "team_docs" {
		t.Errorf("expected configured index name, got %q", store.lastIndexName)
	}
}

func TestStats(t *testing.T) {
	store := &mockStore{stats: domain.Stats{DocumentCount: 42}}
	svc := New(store, nil)

	resp, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if resp.DocumentCount != 42 {
		t.Errorf("expected 42 documents, got %d", resp.DocumentCount)
	}
	if resp.Backend != "memory" {
		t.Errorf("expected backend memory, got %q", resp.Backend)
	}
}

func TestStats_BackendUnavailable(t *testing.T) {
	store := &mockStore{name: "remote-cluster", statsErr: domain.NewBackendUnavailable("remote-cluster", "no endpoint configured")}
	svc := New(store, nil)

	_, err := svc.Stats(context.Background())
	if !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Errorf("expected ErrBackendUnavailable, got %v", err)
	}
}
