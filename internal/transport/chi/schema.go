package chi

// Static JSON-Schema-shaped descriptors for the request bodies, served from
// /schema/query and /schema/upsert. Used by tools and agents for discovery;
// stable and versionless.
var querySchema = map[string]any{
	"name":        "search.query",
	"description": "Search documents using hybrid retrieval (BM25 + semantic)",
	"inputSchema": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query":   map[string]any{"type": "string", "description": "Search query"},
			"limit":   map[string]any{"type": "integer", "description": "Maximum results", "default": 10},
			"filters": map[string]any{"type": "object", "description": "Search filters"},
			"context": map[string]any{"type": "object", "description": "Additional context"},
		},
		"required": []string{"query"},
	},
}

var upsertSchema = map[string]any{
	"name":        "search.upsert",
	"description": "Add or update documents in the search index",
	"inputSchema": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"documents": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "object"},
				"description": "Documents to upsert",
			},
			"index_name": map[string]any{
				"type":        "string",
				"description": "Index name",
				"default":     "global_agent_docs",
			},
		},
		"required": []string{"documents"},
	},
}
