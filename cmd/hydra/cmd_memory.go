package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hydra/internal/config"
	"hydra/internal/embedding"
	"hydra/internal/memory"
)

var (
	rememberCategory string
	rememberTags     []string
	rememberWeight   float64
	searchCategory   string
	searchLimit      int
)

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Inspect and edit mission memory",
}

var memoryRememberCmd = &cobra.Command{
	Use:   "remember [content]",
	Short: "Store a memory entry",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openMemoryStore()
		if err != nil {
			return err
		}
		defer store.Close()

		content := strings.Join(args, " ")
		if err := store.Remember(cmd.Context(), content, rememberCategory, rememberTags, rememberWeight); err != nil {
			return err
		}
		count, err := store.Count(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("remembered (%d entries total)\n", count)
		return nil
	},
}

var memorySearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search stored memories",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openMemoryStore()
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.Search(cmd.Context(), strings.Join(args, " "), searchLimit, searchCategory)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("no matching memories")
			return nil
		}
		for _, e := range entries {
			meta := fmt.Sprintf("%s  importance %.2f  %s", e.Category, e.Importance, e.CreatedAt.Format("2006-01-02"))
			if len(e.Tags) > 0 {
				meta += "  [" + strings.Join(e.Tags, ", ") + "]"
			}
			fmt.Printf("%s\n  %s\n", dimStyle.Render(meta), e.Content)
		}
		return nil
	},
}

func openMemoryStore() (*memory.Store, error) {
	cfg, err := config.Load(workspace)
	if err != nil {
		return nil, err
	}
	engine, err := embedding.NewEngine(cfg.Memory, cfg.LLM)
	if err != nil {
		logger.Warn("embedding engine unavailable, using keyword recall", zap.Error(err))
	}
	return memory.NewStore(workspace, cfg.Memory, engine)
}

func init() {
	memoryRememberCmd.Flags().StringVar(&rememberCategory, "category", "note", "memory category")
	memoryRememberCmd.Flags().StringSliceVar(&rememberTags, "tag", nil, "tags to attach (repeatable)")
	memoryRememberCmd.Flags().Float64Var(&rememberWeight, "importance", 0.5, "importance from 0 to 1, drives eviction order")

	memorySearchCmd.Flags().IntVar(&searchLimit, "limit", 10, "maximum results")
	memorySearchCmd.Flags().StringVar(&searchCategory, "category", "", "restrict to one category")

	memoryCmd.AddCommand(memoryRememberCmd)
	memoryCmd.AddCommand(memorySearchCmd)
}
