package logging

import (
	"os"
	"path/filepath"
	"testing"
)

func resetState() {
	CloseAll()
	loggers = make(map[Category]*Logger)
	logsDir = ""
	workspace = ""
	configLoaded = false
	config = loggingConfig{}
}

// TestCategoriesLog tests that categories create log files when debug_mode is true
func TestCategoriesLog(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "logging_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	configDir := filepath.Join(tempDir, ".hydra")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}

	configContent := `{
		"logging": {
			"level": "debug",
			"debug_mode": true,
			"categories": {
				"boot": true,
				"swarm": true,
				"exec": true,
				"verify": true
			}
		}
	}`

	configPath := filepath.Join(configDir, "config.json")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	resetState()
	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}

	if !IsDebugMode() {
		t.Error("Expected debug mode to be enabled")
	}

	Swarm("mission started: %s", "test")
	Exec("task %d dispatched", 1)
	Verify("phase %s verdict computed", "A")
	CloseAll()

	entries, err := os.ReadDir(filepath.Join(tempDir, ".hydra", "logs"))
	if err != nil {
		t.Fatalf("Failed to read logs dir: %v", err)
	}
	if len(entries) == 0 {
		t.Error("Expected log files to be created")
	}
}

// TestProductionModeNoLogs verifies no files are written without a config.
func TestProductionModeNoLogs(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "logging_prod_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	resetState()
	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}

	if IsDebugMode() {
		t.Error("Expected production mode with no config file")
	}

	// These must be silent no-ops.
	Boot("should not be written")
	ExecError("should not be written either")

	if _, err := os.Stat(filepath.Join(tempDir, ".hydra", "logs")); !os.IsNotExist(err) {
		t.Error("Expected no logs directory in production mode")
	}
}

// TestCategoryFilter verifies disabled categories return no-op loggers.
func TestCategoryFilter(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "logging_filter_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	configDir := filepath.Join(tempDir, ".hydra")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	configContent := `{"logging": {"level": "debug", "debug_mode": true, "categories": {"heal": false}}}`
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	resetState()
	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}

	if IsCategoryEnabled(CategoryHeal) {
		t.Error("Expected heal category to be disabled")
	}
	if !IsCategoryEnabled(CategoryExec) {
		t.Error("Expected exec category to default to enabled")
	}
}
