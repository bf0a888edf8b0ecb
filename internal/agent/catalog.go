package agent

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"hydra/internal/logging"
)

// LoadDirectory builds the agent directory, preferring a catalog file at
// <workspace>/.hydra/agents.yaml over the built-in personas. A missing
// file means the built-ins; a malformed file is a configuration error.
func LoadDirectory(workspace string) (*Directory, error) {
	path := filepath.Join(workspace, ".hydra", "agents.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewDirectory(nil)
		}
		return nil, fmt.Errorf("failed to read agent catalog: %w", err)
	}

	var catalog struct {
		Agents []Agent `yaml:"agents"`
	}
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse agent catalog %s: %w", path, err)
	}

	logging.Boot("[Agent] Loaded %d agents from %s", len(catalog.Agents), path)
	return NewDirectory(catalog.Agents)
}
