package config

// MemoryConfig configures the persistent memory store.
type MemoryConfig struct {
	// DatabasePath overrides the default <workspace>/.hydra/memory.db.
	DatabasePath string `json:"database_path,omitempty"`

	// MaxEntries caps stored memories. Lowest-importance entries are
	// evicted first once the cap is hit.
	MaxEntries int `json:"max_entries,omitempty"`

	// MaxContentChars caps a single memory's content length.
	MaxContentChars int `json:"max_content_chars,omitempty"`

	// Knowledge graph caps.
	MaxGraphNodes int `json:"max_graph_nodes,omitempty"`
	MaxGraphEdges int `json:"max_graph_edges,omitempty"`

	// EmbeddingProvider selects recall ranking: "genai", "ollama" or
	// "keyword" (no embeddings, substring scoring only).
	EmbeddingProvider string `json:"embedding_provider,omitempty"`

	// EmbeddingModel names the model used by the embedding provider.
	EmbeddingModel string `json:"embedding_model,omitempty"`
}

// DefaultMemoryConfig returns the default memory caps.
func DefaultMemoryConfig() MemoryConfig {
	return MemoryConfig{
		MaxEntries:        1000,
		MaxContentChars:   10000,
		MaxGraphNodes:     500,
		MaxGraphEdges:     1000,
		EmbeddingProvider: "keyword",
		EmbeddingModel:    "gemini-embedding-001",
	}
}
