package searchd

import (
	"go.uber.org/zap"

	"github.com/pulseworks/searchd/internal/backend"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver backend.Kind
	path   string
	url    string

	defaultLimit int
	indexName    string

	logger *zap.Logger
}

// WithMemory selects the process-local in-memory backend (the default).
func WithMemory() Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = backend.KindMemory
	})
}

// WithSQLite selects the persistent full-text backend stored at path.
// An empty path keeps the index in memory (useful for tests).
func WithSQLite(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = backend.KindFTS
		c.path = path
	})
}

// WithRemoteCluster selects the remote cluster backend. Until the
// integration lands, every operation reports ErrBackendUnavailable.
func WithRemoteCluster(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = backend.KindCluster
		c.url = url
	})
}

// WithDefaultLimit sets the result limit used when Query is called with
// limit <= 0. Default: 10.
func WithDefaultLimit(limit int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultLimit = limit
	})
}

// WithIndexName sets the index name echoed by Upsert when none is given.
// Default: "global_agent_docs".
func WithIndexName(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.indexName = name
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}
