package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hydra/internal/agent"
	"hydra/internal/config"
	"hydra/internal/embedding"
	"hydra/internal/llm"
	"hydra/internal/memory"
	"hydra/internal/swarm"
)

var (
	saveMission bool
	jsonOutput  bool
)

var runCmd = &cobra.Command{
	Use:   "run [objective]",
	Short: "Run a mission for a single objective",
	Long: `Runs the full swarm pipeline for an objective and prints the
synthesized answer with the mission verdict.

Example:
  hydra run "compare message brokers and recommend one for event sourcing"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMission,
}

func init() {
	runCmd.Flags().BoolVar(&saveMission, "save", true, "save the mission record under .hydra/missions")
	runCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the raw mission record as JSON")
}

func runMission(cmd *cobra.Command, args []string) error {
	objective := strings.Join(args, " ")

	cfg, err := config.Load(workspace)
	if err != nil {
		return err
	}
	agents, err := agent.LoadDirectory(workspace)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	providers := llm.NewProviders(cfg.LLM).ProbeLocal(ctx)
	if providers.Local == nil {
		logger.Warn("local provider unreachable, routing local-class tasks to cloud",
			zap.String("ollama_url", cfg.LLM.OllamaBaseURL))
	}

	var mem swarm.Memory
	engine, err := embedding.NewEngine(cfg.Memory, cfg.LLM)
	if err != nil {
		logger.Warn("embedding engine unavailable, memory recall degrades to keywords", zap.Error(err))
	}
	store, err := memory.NewStore(workspace, cfg.Memory, engine)
	if err != nil {
		logger.Warn("memory store unavailable, running without memory", zap.Error(err))
	} else {
		defer store.Close()
		mem = store
	}

	orchestrator := swarm.NewOrchestrator(providers, agents, cfg, mem)
	logger.Info("mission starting", zap.String("objective", objective))

	mission, err := orchestrator.Run(ctx, objective)
	if err != nil {
		return err
	}

	if saveMission {
		if path, err := swarm.SaveMission(workspace, mission); err != nil {
			logger.Warn("failed to save mission", zap.Error(err))
		} else {
			logger.Info("mission saved", zap.String("path", path))
		}
	}

	if jsonOutput {
		data, err := json.MarshalIndent(mission, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	} else {
		fmt.Println(renderMission(mission))
	}

	if mission.State == swarm.StateAborted {
		return fmt.Errorf("mission aborted: %s", mission.Verdict.AbortReason)
	}
	return nil
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	passStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	reviewStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	failStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	sectionStyle = lipgloss.NewStyle().Bold(true)
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func verdictStyle(v swarm.Verdict) lipgloss.Style {
	switch v {
	case swarm.VerdictPass:
		return passStyle
	case swarm.VerdictFail:
		return failStyle
	default:
		return reviewStyle
	}
}

func renderMission(mission *swarm.MissionResult) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Mission "+mission.ID) + "\n")
	b.WriteString(dimStyle.Render(mission.Objective) + "\n\n")

	b.WriteString(sectionStyle.Render("Phases") + "\n")
	for _, p := range mission.Verdict.Phases {
		line := fmt.Sprintf("  %s  %3d  %s", p.Phase, p.Score, verdictStyle(p.Verdict).Render(string(p.Verdict)))
		if len(p.Issues) > 0 {
			line += dimStyle.Render("  " + strings.Join(p.Issues, "; "))
		}
		b.WriteString(line + "\n")
	}

	if mission.Healing != nil {
		b.WriteString(fmt.Sprintf("\n%s repaired %d tasks in %d cycles (%.0f%% -> %.0f%%)\n",
			sectionStyle.Render("Healing"),
			len(mission.Healing.RepairedTasks), mission.Healing.RepairCycles,
			mission.Healing.SuccessRateBefore*100, mission.Healing.SuccessRateAfter*100))
	}

	overall := fmt.Sprintf("%s  score %d",
		verdictStyle(mission.Verdict.OverallVerdict).Render(string(mission.Verdict.OverallVerdict)),
		mission.Verdict.OverallScore)
	if mission.Verdict.Aborted {
		overall += dimStyle.Render("  (aborted: " + mission.Verdict.AbortReason + ")")
	}
	b.WriteString("\n" + boxStyle.Render(overall) + "\n")
	if mission.Verdict.Summary != "" {
		b.WriteString(dimStyle.Render(mission.Verdict.Summary) + "\n")
	}
	for _, issue := range mission.Verdict.CriticalIssues {
		b.WriteString(failStyle.Render("! ") + issue + "\n")
	}

	if mission.Synthesis != "" {
		b.WriteString("\n" + sectionStyle.Render("Answer") + "\n")
		b.WriteString(mission.Synthesis + "\n")
	}
	return b.String()
}
