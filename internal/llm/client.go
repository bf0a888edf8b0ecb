// Package llm provides the model provider clients used by the swarm
// pipeline. Providers are grouped into execution classes so the engine
// can enforce per-class concurrency budgets.
package llm

import "context"

// Class identifies the execution class of a provider. Local models run on
// the operator's machine, cloud models behind a metered API.
type Class string

const (
	ClassLocal Class = "local"
	ClassCloud Class = "cloud"
)

// Request is a single completion request.
type Request struct {
	Model        string
	SystemPrompt string
	Prompt       string
	Temperature  float64
	MaxTokens    int
}

// Client is the minimal completion surface the pipeline depends on.
// Implementations must be safe for concurrent use.
type Client interface {
	// Generate sends a prompt and returns the completion text.
	Generate(ctx context.Context, req Request) (string, error)

	// Name identifies the provider for logging.
	Name() string

	// Class returns the execution class for budget accounting.
	Class() Class
}

// EmbeddingClient is implemented by providers that can produce vector
// embeddings in addition to completions.
type EmbeddingClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
