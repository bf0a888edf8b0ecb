package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"hydra/internal/agent"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List the agent catalog",
	Long: `Lists the agent personas available for task routing, including any
overrides loaded from .hydra/agents.yaml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		agents, err := agent.LoadDirectory(workspace)
		if err != nil {
			return err
		}

		nameStyle := titleStyle
		for _, name := range agents.Names() {
			a, err := agents.Lookup(name)
			if err != nil {
				continue
			}
			fmt.Printf("%s  %s\n", nameStyle.Render(a.Name), dimStyle.Render(fmt.Sprintf("%s / %s / temp %.1f", a.Class, a.DefaultModel, a.DefaultTemperature)))
			fmt.Printf("  %s\n", a.Role)
			if len(a.SpecialtyPatterns) > 0 {
				fmt.Printf("  %s\n", dimStyle.Render("matches: "+strings.Join(a.SpecialtyPatterns, ", ")))
			}
			fmt.Println()
		}
		return nil
	},
}
