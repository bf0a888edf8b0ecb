package embedding

import (
	"context"
	"fmt"

	"hydra/internal/config"
	"hydra/internal/llm"
)

// OllamaEngine generates embeddings through a local Ollama server.
type OllamaEngine struct {
	client *llm.OllamaClient
	model  string
}

// NewOllamaEngine creates an Ollama embedding engine.
func NewOllamaEngine(cfg config.LLMConfig, model string) *OllamaEngine {
	if model == "" {
		model = "nomic-embed-text"
	}
	return &OllamaEngine{
		client: llm.NewOllamaClient(cfg),
		model:  model,
	}
}

// Embed generates an embedding for a single text.
func (e *OllamaEngine) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.client.EmbedWithModel(ctx, e.model, text)
}

// Name returns the engine name.
func (e *OllamaEngine) Name() string {
	return fmt.Sprintf("ollama:%s", e.model)
}
