package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"hydra/internal/config"
	"hydra/internal/llm"
	"hydra/internal/logging"
)

var (
	// Global flags
	verbose   bool
	workspace string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "hydra",
	Short: "hydra - multi-agent swarm orchestrator",
	Long: `hydra orchestrates a swarm of specialized LLM agents to accomplish a
single objective: classify difficulty, plan a task DAG, execute it in
parallel under concurrency budgets, verify every phase with a judge
model, repair failures, and synthesize a final answer.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		if err := logging.Initialize(workspace); err != nil {
			logger.Warn("file logging disabled", zap.Error(err))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
}

const version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and provider status",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("hydra %s\n", version)

		cfg, err := config.Load(workspace)
		if err != nil {
			return err
		}
		if cfg.LLM.GeminiAPIKey != "" {
			fmt.Println("✓ Gemini API key configured")
		} else {
			fmt.Println("✗ Gemini API key not configured")
		}
		if llm.NewOllamaClient(cfg.LLM).Available(cmd.Context()) {
			fmt.Printf("✓ Ollama reachable at %s\n", cfg.LLM.OllamaBaseURL)
		} else {
			fmt.Printf("✗ Ollama not reachable at %s\n", cfg.LLM.OllamaBaseURL)
		}
		return nil
	},
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", ".", "workspace directory (holds .hydra)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(agentsCmd)
	rootCmd.AddCommand(memoryCmd)
	rootCmd.AddCommand(missionsCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
