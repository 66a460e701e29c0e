package domain

import (
	"crypto/sha256"
	"encoding/hex"
)

// Document is a unit of indexed text. Metadata is opaque to every backend.
type Document struct {
	ID       string
	Content  string
	Metadata map[string]any
}

// SearchResult is a single search hit. Score increases with relevance on
// every backend, regardless of the backend's native rank convention.
type SearchResult struct {
	ID       string
	Content  string
	Score    float64
	Metadata map[string]any
}

// Stats describes the current size of a backend's store.
type Stats struct {
	DocumentCount int
}

// DeriveID computes a stable document id from the raw content bytes.
// Callers that omit an explicit id get the same record for identical
// content instead of duplicates.
func DeriveID(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
