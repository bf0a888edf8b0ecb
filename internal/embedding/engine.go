// Package embedding generates vector embeddings for memory recall.
// Backends: Google GenAI (cloud) and Ollama (local).
package embedding

import (
	"context"
	"fmt"
	"math"
	"sort"

	"hydra/internal/config"
	"hydra/internal/logging"
)

// Engine generates vector embeddings for text.
type Engine interface {
	// Embed generates an embedding for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Name returns the engine name.
	Name() string
}

// NewEngine creates an embedding engine from memory config. Provider
// "keyword" (or empty) returns nil: recall then falls back to substring
// scoring with no embeddings at all.
func NewEngine(cfg config.MemoryConfig, llmCfg config.LLMConfig) (Engine, error) {
	switch cfg.EmbeddingProvider {
	case "", "keyword":
		return nil, nil
	case "genai":
		logging.Memory("[Embedding] Initializing GenAI engine: model=%s", cfg.EmbeddingModel)
		return NewGenAIEngine(llmCfg.GeminiAPIKey, cfg.EmbeddingModel)
	case "ollama":
		logging.Memory("[Embedding] Initializing Ollama engine: endpoint=%s model=%s", llmCfg.OllamaBaseURL, cfg.EmbeddingModel)
		return NewOllamaEngine(llmCfg, cfg.EmbeddingModel), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s (use 'genai', 'ollama' or 'keyword')", cfg.EmbeddingProvider)
	}
}

// CosineSimilarity calculates the cosine similarity between two vectors.
// Returns a value between -1 and 1, where 1 means identical.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vectors must have the same length: %d != %d", len(a), len(b))
	}

	var dotProduct, aMagnitude, bMagnitude float64
	for i := 0; i < len(a); i++ {
		dotProduct += float64(a[i] * b[i])
		aMagnitude += float64(a[i] * a[i])
		bMagnitude += float64(b[i] * b[i])
	}

	if aMagnitude == 0 || bMagnitude == 0 {
		return 0, nil
	}
	return dotProduct / (math.Sqrt(aMagnitude) * math.Sqrt(bMagnitude)), nil
}

// SimilarityResult is one ranked entry from FindTopK.
type SimilarityResult struct {
	Index      int
	Similarity float64
}

// FindTopK ranks the corpus vectors by cosine similarity to the query and
// returns the top K. Vectors with mismatched dimensions are skipped.
func FindTopK(query []float32, corpus [][]float32, k int) []SimilarityResult {
	if k <= 0 {
		k = 10
	}

	results := make([]SimilarityResult, 0, len(corpus))
	skipped := 0
	for i, vec := range corpus {
		similarity, err := CosineSimilarity(query, vec)
		if err != nil {
			skipped++
			continue
		}
		results = append(results, SimilarityResult{Index: i, Similarity: similarity})
	}
	if skipped > 0 {
		logging.MemoryDebug("[Embedding] FindTopK: skipped %d vectors due to dimension mismatch", skipped)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if len(results) > k {
		results = results[:k]
	}
	return results
}
