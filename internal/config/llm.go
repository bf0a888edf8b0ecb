package config

// LLMConfig configures the model providers.
type LLMConfig struct {
	// Gemini (cloud class)
	GeminiAPIKey  string `json:"gemini_api_key,omitempty"`
	GeminiBaseURL string `json:"gemini_base_url,omitempty"`
	FastModel     string `json:"fast_model,omitempty"`    // cheap model for classification
	QualityModel  string `json:"quality_model,omitempty"` // planning/synthesis model
	JudgeModel    string `json:"judge_model,omitempty"`   // verification judge

	// Ollama / llama.cpp (local class)
	OllamaBaseURL string `json:"ollama_base_url,omitempty"`
	LocalModel    string `json:"local_model,omitempty"`

	// Per-call timeout in seconds.
	TimeoutSeconds int `json:"timeout_seconds,omitempty"`

	// MaxOutputTokens caps completion size for pipeline calls.
	MaxOutputTokens int `json:"max_output_tokens,omitempty"`
}

// DefaultLLMConfig returns sensible provider defaults.
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		GeminiBaseURL:   "https://generativelanguage.googleapis.com/v1beta",
		FastModel:       "gemini-2.0-flash",
		QualityModel:    "gemini-2.5-pro",
		JudgeModel:      "gemini-2.0-flash",
		OllamaBaseURL:   "http://localhost:11434",
		LocalModel:      "llama3.1",
		TimeoutSeconds:  120,
		MaxOutputTokens: 8192,
	}
}
