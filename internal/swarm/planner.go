package swarm

import (
	"context"
	"strings"

	"hydra/internal/agent"
	"hydra/internal/config"
	"hydra/internal/jsonx"
	"hydra/internal/llm"
	"hydra/internal/logging"
)

// Planner turns an objective plus its classification into a validated
// task DAG. A structurally broken model plan is rejected, not executed;
// planning failure falls back to a single generalist task so the
// pipeline never stalls on an empty plan.
type Planner struct {
	client llm.Client
	agents *agent.Directory
	cfg    config.LLMConfig
}

// NewPlanner creates a planner backed by the quality model.
func NewPlanner(client llm.Client, agents *agent.Directory, cfg config.LLMConfig) *Planner {
	return &Planner{client: client, agents: agents, cfg: cfg}
}

// Plan produces a validated plan. Never returns an error: every failure
// path ends in the fallback plan.
func (p *Planner) Plan(ctx context.Context, objective string, classification TaskClassification) *Plan {
	if p.client == nil {
		return p.FallbackPlan(objective, classification)
	}

	resp, err := p.client.Generate(ctx, llm.Request{
		Model:       p.modelForTier(classification.RecommendedModelTier),
		Prompt:      buildPlanPrompt(objective, classification, p.agents.Names()),
		Temperature: agent.Temperature(agent.TaskTypeGeneral, agent.PhasePlan),
		MaxTokens:   p.cfg.MaxOutputTokens,
	})
	if err != nil {
		logging.PlanWarn("[Planner] model call failed, using fallback plan: %v", err)
		return p.FallbackPlan(objective, classification)
	}

	plan, err := p.parsePlan(resp, objective, classification)
	if err != nil {
		logging.PlanWarn("[Planner] rejected model plan: %v", err)
		return p.FallbackPlan(objective, classification)
	}

	logging.Plan("[Planner] produced %d tasks for objective (difficulty=%s)", len(plan.Tasks), classification.Difficulty)
	return plan
}

func (p *Planner) modelForTier(tier ModelTier) string {
	if tier == TierFast {
		return p.cfg.FastModel
	}
	return p.cfg.QualityModel
}

// parsePlan decodes and validates a model-emitted plan. Missing tasks
// array, unknown agents and cycles are all validation errors.
func (p *Planner) parsePlan(response, objective string, classification TaskClassification) (*Plan, error) {
	var parsed struct {
		Tasks []Task `json:"tasks"`
	}
	if err := jsonx.Unmarshal(response, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Tasks) == 0 {
		return nil, &PlanValidationError{Reason: "missing or empty tasks array"}
	}

	for i := range parsed.Tasks {
		parsed.Tasks[i].Status = TaskPending
		if parsed.Tasks[i].Priority == "" {
			parsed.Tasks[i].Priority = PriorityNormal
		}
		// Route unassigned tasks instead of failing validation on a blank name.
		if strings.TrimSpace(parsed.Tasks[i].AgentName) == "" {
			parsed.Tasks[i].AgentName = p.agents.Route(parsed.Tasks[i].Description).Name
		}
	}

	plan := &Plan{
		Objective:  objective,
		Tasks:      parsed.Tasks,
		Complexity: string(classification.Difficulty),
	}
	if err := plan.Validate(p.agents); err != nil {
		return nil, err
	}
	return plan, nil
}

// FallbackPlan is the minimal safe plan: one task for the generalist.
func (p *Planner) FallbackPlan(objective string, classification TaskClassification) *Plan {
	return &Plan{
		Objective:  objective,
		Complexity: string(classification.Difficulty),
		Tasks: []Task{
			{
				ID:          1,
				Description: objective,
				AgentName:   p.agents.Generalist().Name,
				Status:      TaskPending,
				Priority:    PriorityNormal,
			},
		},
	}
}
