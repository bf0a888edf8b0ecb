// Package config loads hydra configuration from .hydra/config.json with
// HYDRA_* environment overrides. Each pipeline concern has its own config
// struct with a Default* constructor.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds all hydra configuration.
type Config struct {
	LLM          LLMConfig          `json:"llm"`
	Execution    ExecutionConfig    `json:"execution"`
	Verification VerificationConfig `json:"verification"`
	Healing      HealingConfig      `json:"healing"`
	Memory       MemoryConfig       `json:"memory"`
	Logging      LoggingConfig      `json:"logging"`
}

// LoggingConfig controls the categorized file logger.
type LoggingConfig struct {
	DebugMode  bool            `json:"debug_mode"`
	Categories map[string]bool `json:"categories,omitempty"`
	Level      string          `json:"level,omitempty"`
}

// Default returns the full default configuration.
func Default() Config {
	return Config{
		LLM:          DefaultLLMConfig(),
		Execution:    DefaultExecutionConfig(),
		Verification: DefaultVerificationConfig(),
		Healing:      DefaultHealingConfig(),
		Memory:       DefaultMemoryConfig(),
		Logging:      LoggingConfig{Level: "info"},
	}
}

// Load reads config from <workspace>/.hydra/config.json, falling back to
// defaults when the file is absent. A malformed file is an error; a missing
// one is not. Environment overrides are applied last.
func Load(workspace string) (Config, error) {
	cfg := Default()

	path := filepath.Join(workspace, ".hydra", "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(&cfg)
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes config to <workspace>/.hydra/config.json.
func Save(workspace string, cfg Config) error {
	dir := filepath.Join(workspace, ".hydra")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// applyEnvOverrides applies HYDRA_* environment variables on top of the
// loaded config. Only the knobs an operator realistically flips at runtime
// get overrides.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HYDRA_GEMINI_API_KEY"); v != "" {
		cfg.LLM.GeminiAPIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" && cfg.LLM.GeminiAPIKey == "" {
		cfg.LLM.GeminiAPIKey = v
	}
	if v := os.Getenv("HYDRA_OLLAMA_URL"); v != "" {
		cfg.LLM.OllamaBaseURL = v
	}
	if v := os.Getenv("HYDRA_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Logging.DebugMode = b
		}
	}
	if v := os.Getenv("HYDRA_MAX_CONCURRENT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Execution.MaxConcurrent = n
		}
	}
}
