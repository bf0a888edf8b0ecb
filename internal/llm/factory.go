package llm

import (
	"context"

	"hydra/internal/config"
)

// Providers bundles the configured clients by execution class.
type Providers struct {
	Cloud Client
	Local Client
}

// NewProviders builds the default provider set from config: Gemini for the
// cloud class, Ollama for the local class.
func NewProviders(cfg config.LLMConfig) Providers {
	return Providers{
		Cloud: NewGeminiClient(cfg),
		Local: NewOllamaClient(cfg),
	}
}

// For returns the client for an execution class. Unknown classes fall back
// to the cloud client.
func (p Providers) For(class Class) Client {
	if class == ClassLocal && p.Local != nil {
		return p.Local
	}
	return p.Cloud
}

// ProbeLocal drops the local client when it reports itself unreachable,
// so For(ClassLocal) serves the cloud client instead of letting every
// local-class task fail through its full retry budget. Class slot
// accounting is unaffected; the task still occupies a local slot.
func (p Providers) ProbeLocal(ctx context.Context) Providers {
	type availability interface {
		Available(ctx context.Context) bool
	}
	if a, ok := p.Local.(availability); ok && !a.Available(ctx) {
		p.Local = nil
	}
	return p
}
