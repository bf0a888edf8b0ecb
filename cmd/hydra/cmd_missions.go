package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hydra/internal/swarm"
)

var missionsCmd = &cobra.Command{
	Use:   "missions",
	Short: "List and inspect saved missions",
}

var missionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved missions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := swarm.ListMissions(workspace)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			fmt.Println("no saved missions")
			return nil
		}
		for _, id := range ids {
			mission, err := swarm.LoadMission(workspace, id)
			if err != nil {
				fmt.Printf("%s  %s\n", id, dimStyle.Render("unreadable: "+err.Error()))
				continue
			}
			fmt.Printf("%s  %s  %3d  %s\n",
				id,
				verdictStyle(mission.Verdict.OverallVerdict).Render(string(mission.Verdict.OverallVerdict)),
				mission.Verdict.OverallScore,
				dimStyle.Render(mission.Objective))
		}
		return nil
	},
}

var missionsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a saved mission",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mission, err := swarm.LoadMission(workspace, args[0])
		if err != nil {
			return err
		}
		fmt.Println(renderMission(mission))
		return nil
	},
}

func init() {
	missionsCmd.AddCommand(missionsListCmd)
	missionsCmd.AddCommand(missionsShowCmd)
}
