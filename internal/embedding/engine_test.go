package embedding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hydra/internal/config"
)

func TestCosineSimilarity(t *testing.T) {
	sim, err := CosineSimilarity([]float32{1, 0}, []float32{1, 0})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sim, 0.001)

	sim, err = CosineSimilarity([]float32{1, 0}, []float32{0, 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, sim, 0.001)

	sim, err = CosineSimilarity([]float32{1, 0}, []float32{-1, 0})
	require.NoError(t, err)
	assert.InDelta(t, -1.0, sim, 0.001)
}

func TestCosineSimilarityMismatchedDims(t *testing.T) {
	_, err := CosineSimilarity([]float32{1, 0}, []float32{1, 0, 0})
	assert.Error(t, err)
}

func TestCosineSimilarityZeroVector(t *testing.T) {
	sim, err := CosineSimilarity([]float32{0, 0}, []float32{1, 0})
	require.NoError(t, err)
	assert.Equal(t, 0.0, sim)
}

func TestFindTopK(t *testing.T) {
	query := []float32{1, 0}
	corpus := [][]float32{
		{0, 1},       // orthogonal
		{1, 0},       // identical
		{0.9, 0.1},   // close
		{1, 0, 0},    // wrong dims, skipped
		{-1, 0},      // opposite
	}

	results := FindTopK(query, corpus, 2)
	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].Index)
	assert.Equal(t, 2, results[1].Index)
}

func TestFindTopKDefaultK(t *testing.T) {
	results := FindTopK([]float32{1}, [][]float32{{1}, {0.5}}, 0)
	assert.Len(t, results, 2)
}

func TestNewEngineKeywordProviderIsNil(t *testing.T) {
	engine, err := NewEngine(config.MemoryConfig{EmbeddingProvider: "keyword"}, config.LLMConfig{})
	require.NoError(t, err)
	assert.Nil(t, engine)
}

func TestNewEngineUnknownProvider(t *testing.T) {
	_, err := NewEngine(config.MemoryConfig{EmbeddingProvider: "weaviate"}, config.LLMConfig{})
	assert.Error(t, err)
}

func TestNewEngineGenAIRequiresKey(t *testing.T) {
	_, err := NewEngine(config.MemoryConfig{EmbeddingProvider: "genai"}, config.LLMConfig{})
	assert.Error(t, err)
}

func TestOllamaEngineEmbed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embeddings", r.URL.Path)
		w.Write([]byte(`{"embedding":[0.5,0.25]}`))
	}))
	defer server.Close()

	engine := NewOllamaEngine(config.LLMConfig{OllamaBaseURL: server.URL}, "nomic-embed-text")
	vec, err := engine.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.25}, vec)
	assert.Equal(t, "ollama:nomic-embed-text", engine.Name())
}
