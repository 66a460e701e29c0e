package searchd

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func newMemoryClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	c, err := New(opts...)
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestClient_DefaultBackendIsMemory(t *testing.T) {
	c := newMemoryClient(t)

	stats, err := c.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Backend != "memory" {
		t.Errorf("expected memory backend, got %q", stats.Backend)
	}
}

func TestClient_UpsertAndQuery(t *testing.T) {
	c := newMemoryClient(t)
	ctx := context.Background()

	up, err := c.Upsert(ctx, []Document{
		{ID: "d1", Content: "invoice overdue payment"},
		{ID: "d2", Content: "weekly status report"},
	}, "")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if up.DocumentsProcessed != 2 {
		t.Errorf("expected 2 processed, got %d", up.DocumentsProcessed)
	}
	if up.IndexName != "global_agent_docs" {
		t.Errorf("expected default index name, got %q", up.IndexName)
	}

	res, err := c.Query(ctx, "overdue", 0)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if res.Total != 1 {
		t.Fatalf("expected 1 result, got %d", res.Total)
	}
	if res.Results[0].ID != "d1" {
		t.Errorf("expected d1, got %q", res.Results[0].ID)
	}
}

func TestClient_DerivedIDsCollapseIdenticalContent(t *testing.T) {
	c := newMemoryClient(t)
	ctx := context.Background()

	_, err := c.Upsert(ctx, []Document{
		{Content: "same content"},
		{Content: "same content"},
	}, "")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	stats, err := c.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.DocumentCount != 1 {
		t.Errorf("expected 1 document, got %d", stats.DocumentCount)
	}
}

func TestClient_SQLiteBackend(t *testing.T) {
	c := newMemoryClient(t, WithSQLite(filepath.Join(t.TempDir(), "fts.db")))
	ctx := context.Background()

	if _, err := c.Upsert(ctx, []Document{{ID: "d1", Content: "he kept running"}}, ""); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	res, err := c.Query(ctx, "runs", 10)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if res.Total != 1 {
		t.Errorf("expected stemmed match, got %d results", res.Total)
	}
	if res.Backend != "persistent-fts" {
		t.Errorf("expected persistent-fts backend, got %q", res.Backend)
	}
}

func TestClient_RemoteClusterFailsFast(t *testing.T) {
	c := newMemoryClient(t, WithRemoteCluster("http://cluster.internal:9200"))
	ctx := context.Background()

	if _, err := c.Query(ctx, "overdue", 10); !errors.Is(err, ErrBackendUnavailable) {
		t.Errorf("query: expected ErrBackendUnavailable, got %v", err)
	}
	if _, err := c.Upsert(ctx, []Document{{Content: "alpha"}}, ""); !errors.Is(err, ErrBackendUnavailable) {
		t.Errorf("upsert: expected ErrBackendUnavailable, got %v", err)
	}

	health := c.Health(ctx)
	if health.Status != "degraded" {
		t.Errorf("expected degraded health, got %q", health.Status)
	}
	if health.Checks["remote-cluster"] != "error" {
		t.Errorf("expected remote-cluster check error, got %v", health.Checks)
	}
}

func TestClient_ConfiguredDefaults(t *testing.T) {
	c := newMemoryClient(t, WithDefaultLimit(1), WithIndexName("team_docs"))
	ctx := context.Background()

	up, err := c.Upsert(ctx, []Document{
		{ID: "d1", Content: "alpha one"},
		{ID: "d2", Content: "alpha two"},
	}, "")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if up.IndexName != "team_docs" {
		t.Errorf("expected configured index name, got %q", up.IndexName)
	}

	// limit 0 means "use the configured default", which is 1 here.
	res, err := c.Query(ctx, "alpha", 0)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if res.Total != 1 {
		t.Errorf("expected configured default limit 1 applied, got %d results", res.Total)
	}
}

func TestClient_Health(t *testing.T) {
	c := newMemoryClient(t)

	health := c.Health(context.Background())
	if health.Status != "ok" {
		t.Errorf("expected ok health, got %q", health.Status)
	}
	if health.Checks["memory"] != "ok" {
		t.Errorf("expected memory check ok, got %v", health.Checks)
	}
}
