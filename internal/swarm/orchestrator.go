package swarm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"hydra/internal/agent"
	"hydra/internal/config"
	"hydra/internal/llm"
	"hydra/internal/logging"
)

// Memory is the orchestrator's view of the mission memory. Writes are
// fire-and-forget: a memory failure never aborts a mission.
type Memory interface {
	Remember(ctx context.Context, content, category string, tags []string, importance float64) error
}

// Orchestrator drives the phase state machine:
// PRE_A -> A -> B -> (C)? -> D -> DONE, with ABORTED reachable from any
// phase on a gating verdict.
type Orchestrator struct {
	classifier *Classifier
	planner    *Planner
	engine     *Engine
	verifier   *Verifier
	healer     *Healer
	providers  llm.Providers
	memory     Memory
	cfg        config.Config
}

// NewOrchestrator wires the full pipeline from config. memory may be nil.
func NewOrchestrator(providers llm.Providers, agents *agent.Directory, cfg config.Config, memory Memory) *Orchestrator {
	engine := NewEngine(providers, agents, cfg.Execution, cfg.LLM)
	return &Orchestrator{
		classifier: NewClassifier(providers.Cloud, cfg.LLM),
		planner:    NewPlanner(providers.Cloud, agents, cfg.LLM),
		engine:     engine,
		verifier:   NewVerifier(providers.Cloud, cfg.Verification, cfg.LLM),
		healer:     NewHealer(engine, cfg.Healing),
		providers:  providers,
		memory:     memory,
		cfg:        cfg,
	}
}

const maxObjectiveChars = 1000

// dangerous shell metacharacters rejected from objectives. Objectives are
// never executed, but they get interpolated into prompts and filenames.
const dangerousObjectiveChars = "`$\\;|&<>"

// SanitizeObjective validates a raw objective string.
func SanitizeObjective(objective string) (string, error) {
	objective = strings.TrimSpace(objective)
	if objective == "" {
		return "", fmt.Errorf("objective is empty")
	}
	if len(objective) > maxObjectiveChars {
		return "", fmt.Errorf("objective exceeds %d characters", maxObjectiveChars)
	}
	if i := strings.IndexAny(objective, dangerousObjectiveChars); i >= 0 {
		return "", fmt.Errorf("objective contains forbidden character %q", objective[i])
	}
	return objective, nil
}

// Run executes a full mission. The returned MissionResult always carries
// a MissionVerdict, even when the pipeline aborts mid-way; only a bad
// objective or a structurally failed Phase B is a hard error.
func (o *Orchestrator) Run(ctx context.Context, objective string) (*MissionResult, error) {
	objective, err := SanitizeObjective(objective)
	if err != nil {
		return nil, err
	}

	mission := &MissionResult{
		ID:        uuid.NewString(),
		Objective: objective,
		State:     StatePreA,
		StartedAt: time.Now().UTC(),
	}
	var phases []PhaseVerdict

	logging.Swarm("[Orchestrator] mission %s started: %s", mission.ID, truncate(objective, 80))

	// PRE_A: classification. Cannot fail; the heuristic always answers.
	mission.Classification = o.classifier.Classify(ctx, objective)
	o.remember(ctx, fmt.Sprintf("objective %q classified %s (%s)", truncate(objective, 120),
		mission.Classification.Difficulty, mission.Classification.Reasoning),
		"classification", nil, 0.3)

	// Phase A: planning.
	mission.State = StateA
	mission.Plan = o.planner.Plan(ctx, objective, mission.Classification)
	verdictA := o.verifier.VerifyPhaseA(ctx, mission.Plan, objective)
	phases = append(phases, verdictA)
	if !o.verifier.ShouldContinue(verdictA) {
		return o.abort(mission, phases, "plan verification gated the mission"), nil
	}

	// Phase B: execution.
	mission.State = StateB
	results, err := o.engine.Execute(ctx, mission.Plan, mission.Classification)
	if err != nil {
		return nil, fmt.Errorf("execution failed: %w", err)
	}
	mission.Results = results
	verdictB := o.verifier.VerifyPhaseB(ctx, mission.Results, mission.Plan, objective)
	phases = append(phases, verdictB)
	if !o.verifier.ShouldContinue(verdictB) {
		return o.abort(mission, phases, "execution verification gated the mission"), nil
	}

	// Phase C: healing, entered only when Phase B signals need. A skipped
	// Phase C is excluded from verdict weighting.
	if o.healer.Needed(verdictB, mission.Plan, mission.Results) {
		mission.State = StateC
		healing, healed := o.healer.Heal(ctx, mission.Plan, mission.Results, mission.Classification)
		mission.Healing = healing
		mission.Results = healed
		for _, lesson := range healing.LessonsLearned {
			o.remember(ctx, lesson, "lesson", []string{"healing"}, 0.7)
		}
		verdictC := o.verifier.VerifyPhaseC(ctx, healing, objective)
		phases = append(phases, verdictC)
		if !o.verifier.ShouldContinue(verdictC) {
			return o.abort(mission, phases, "healing verification gated the mission"), nil
		}
	} else {
		logging.Swarm("[Orchestrator] mission %s: healing not needed (score=%d rate=%.0f%%)",
			mission.ID, verdictB.Score, SuccessRate(mission.Plan, mission.Results)*100)
	}

	// Phase D: synthesis.
	mission.State = StateD
	mission.Synthesis = o.synthesize(ctx, mission)
	verdictD := o.verifier.VerifyPhaseD(ctx, mission.Synthesis, mission.Results, objective)
	phases = append(phases, verdictD)
	if !o.verifier.ShouldContinue(verdictD) {
		return o.abort(mission, phases, "synthesis verification gated the mission"), nil
	}

	mission.State = StateDone
	mission.Verdict = o.verifier.MissionVerdictFrom(phases)
	mission.FinishedAt = time.Now().UTC()
	o.remember(ctx, fmt.Sprintf("mission %q finished %s with score %d", truncate(objective, 120),
		mission.Verdict.OverallVerdict, mission.Verdict.OverallScore),
		"mission", nil, 0.5)

	logging.Swarm("[Orchestrator] mission %s done: verdict=%s score=%d",
		mission.ID, mission.Verdict.OverallVerdict, mission.Verdict.OverallScore)
	return mission, nil
}

// abort finalizes a gated mission with the verdicts recorded so far.
func (o *Orchestrator) abort(mission *MissionResult, phases []PhaseVerdict, reason string) *MissionResult {
	gatedPhase := mission.State
	mission.State = StateAborted
	mission.Verdict = o.verifier.MissionVerdictFrom(phases)
	mission.Verdict.Aborted = true
	mission.Verdict.AbortReason = reason
	mission.FinishedAt = time.Now().UTC()
	logging.SwarmWarn("[Orchestrator] mission %s aborted in phase %s: %s", mission.ID, gatedPhase, reason)
	return mission
}

// synthesize builds the final answer from the latest task outputs. On a
// model failure the raw successful outputs are concatenated so the caller
// still gets the evidence.
func (o *Orchestrator) synthesize(ctx context.Context, mission *MissionResult) string {
	client := o.providers.Cloud
	if client != nil {
		resp, err := client.Generate(ctx, llm.Request{
			Model:       o.cfg.LLM.QualityModel,
			Prompt:      buildSynthesisPrompt(mission.Objective, mission.Plan, mission.Results),
			Temperature: agent.Temperature(agent.TaskTypeGeneral, agent.PhaseSynthesis),
			MaxTokens:   o.cfg.LLM.MaxOutputTokens,
		})
		if err == nil && strings.TrimSpace(resp) != "" {
			return resp
		}
		logging.SwarmWarn("[Orchestrator] synthesis call failed, concatenating raw outputs: %v", err)
	}

	var b strings.Builder
	latest := LatestResults(mission.Results)
	for _, t := range mission.Plan.Tasks {
		if r, ok := latest[t.ID]; ok && r.Success {
			b.WriteString(r.Content)
			b.WriteString("\n\n")
		}
	}
	return strings.TrimSpace(b.String())
}

// remember writes to mission memory, swallowing failures.
func (o *Orchestrator) remember(ctx context.Context, content, category string, tags []string, importance float64) {
	if o.memory == nil {
		return
	}
	if err := o.memory.Remember(ctx, content, category, tags, importance); err != nil {
		logging.MemoryError("[Orchestrator] memory write failed (ignored): %v", err)
	}
}
