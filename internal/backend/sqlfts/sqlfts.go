// Package sqlfts implements the persistent full-text backend on SQLite FTS5.
// Content is indexed with the porter tokenizer so query terms match
// morphological variants, and ranking uses the engine's bm25() function.
package sqlfts

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // pure Go SQLite driver, no CGO

	"github.com/pulseworks/searchd/internal/domain"
)

// Store is a disk-backed document store. The FTS5 schema is created lazily on
// the first write so read-only processes never pay index-creation cost.
type Store struct {
	db     *sql.DB
	path   string
	logger *zap.Logger

	mu          sync.Mutex
	schemaReady bool
}

// New opens (or creates) the SQLite database at path. An empty path opens an
// in-memory database, used by tests.
func New(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	dsn := ":memory:"
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
		dsn = path
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Single writer prevents SQLITE_BUSY under concurrent upserts; readers
	// queue on the pool instead of failing.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// WAL must be set via PRAGMA for modernc.org/sqlite; DSN params are ignored.
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	return &Store{db: db, path: path, logger: logger}, nil
}

// ensureSchema creates the FTS5 table if absent. Safe to call from concurrent
// upserts: CREATE VIRTUAL TABLE IF NOT EXISTS is idempotent and calls are
// serialized on the mutex.
func (s *Store) ensureSchema(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schemaReady {
		return nil
	}

	const schema = `
	CREATE VIRTUAL TABLE IF NOT EXISTS documents USING fts5(
		id UNINDEXED,
		content,
		metadata UNINDEXED,
		tokenize='porter unicode61'
	);`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create fts5 table: %w", err)
	}
	s.schemaReady = true
	return nil
}

// schemaExists reports whether the FTS5 table is present without creating it.
func (s *Store) schemaExists(ctx context.Context) (bool, error) {
	s.mu.Lock()
	if s.schemaReady {
		s.mu.Unlock()
		return true, nil
	}
	s.mu.Unlock()

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'documents'`,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("query schema: %w", err)
	}
	return count > 0, nil
}

// Upsert replaces documents by id. FTS5 tables have no REPLACE, so each id is
// deleted then inserted inside a single transaction per batch — a reused id
// never accumulates duplicate index entries.
func (s *Store) Upsert(ctx context.Context, docs []domain.Document, indexName string) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	if err := s.ensureSchema(ctx); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	deleteStmt, err := tx.PrepareContext(ctx, `DELETE FROM documents WHERE id = ?`)
	if err != nil {
		return 0, fmt.Errorf("prepare delete: %w", err)
	}
	defer deleteStmt.Close()

	insertStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO documents(id, content, metadata) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer insertStmt.Close()

	for _, doc := range docs {
		meta, err := json.Marshal(doc.Metadata)
		if err != nil {
			return 0, fmt.Errorf("marshal metadata for %s: %w", doc.ID, err)
		}
		if _, err := deleteStmt.ExecContext(ctx, doc.ID); err != nil {
			return 0, fmt.Errorf("delete existing document %s: %w", doc.ID, err)
		}
		if _, err := insertStmt.ExecContext(ctx, doc.ID, doc.Content, string(meta)); err != nil {
			return 0, fmt.Errorf("insert document %s: %w", doc.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit upsert: %w", err)
	}

	s.logger.Debug("fts upsert",
		zap.Int("documents", len(docs)),
		zap.String("index_name", indexName),
	)
	return len(docs), nil
}

// Query matches the text against the FTS5 index. bm25() returns lower values
// for better matches, so the externally visible score is the negation —
// monotonically increasing with relevance like every other backend.
func (s *Store) Query(ctx context.Context, text string, limit int) ([]domain.SearchResult, error) {
	expr := matchExpr(text)
	if expr == "" || limit <= 0 {
		return []domain.SearchResult{}, nil
	}

	exists, err := s.schemaExists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return []domain.SearchResult{}, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content, metadata, bm25(documents) AS rank
		FROM documents
		WHERE documents MATCH ?
		ORDER BY rank, rowid
		LIMIT ?`, expr, limit)
	if err != nil {
		return nil, fmt.Errorf("fts query: %w", err)
	}
	defer rows.Close()

	results := []domain.SearchResult{}
	for rows.Next() {
		var (
			id, content, meta string
			rank              float64
		)
		if err := rows.Scan(&id, &content, &meta, &rank); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}

		var metadata map[string]any
		if meta != "" {
			if err := json.Unmarshal([]byte(meta), &metadata); err != nil {
				return nil, fmt.Errorf("unmarshal metadata for %s: %w", id, err)
			}
		}

		results = append(results, domain.SearchResult{
			ID:       id,
			Content:  content,
			Score:    -rank,
			Metadata: metadata,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return results, nil
}

// Stats reports the document count; zero when the schema has not been
// created yet.
func (s *Store) Stats(ctx context.Context) (domain.Stats, error) {
	exists, err := s.schemaExists(ctx)
	if err != nil {
		return domain.Stats{}, err
	}
	if !exists {
		return domain.Stats{}, nil
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count); err != nil {
		return domain.Stats{}, fmt.Errorf("count documents: %w", err)
	}
	return domain.Stats{DocumentCount: count}, nil
}

// Name returns the backend identity.
func (s *Store) Name() string { return "persistent-fts" }

// Ready checks database connectivity.
func (s *Store) Ready(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

// Close checkpoints the WAL and closes the database.
func (s *Store) Close() error {
	_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	return s.db.Close()
}

// matchExpr builds an FTS5 MATCH expression from free text. Each term is
// quoted so user input cannot inject FTS5 query syntax.
func matchExpr(text string) string {
	terms := strings.Fields(strings.ToLower(text))
	if len(terms) == 0 {
		return ""
	}
	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = `"` + strings.ReplaceAll(t, `"`, `""`) + `"`
	}
	return strings.Join(quoted, " ")
}
