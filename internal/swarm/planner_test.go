package swarm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hydra/internal/config"
	"hydra/internal/llm"
)

func moderateClassification() TaskClassification {
	return TaskClassification{
		Difficulty:           DifficultyModerate,
		RecommendedModelTier: TierQuality,
		Reasoning:            "test",
		EstimatedAgentCount:  3,
	}
}

func TestPlanModelPath(t *testing.T) {
	client := newMockClient(llm.ClassCloud).on("mission planner",
		`Here is the plan:
{"tasks": [
  {"id": 1, "description": "research options", "agent_name": "researcher", "dependencies": [], "priority": "high"},
  {"id": 2, "description": "implement the chosen option", "agent_name": "coder", "dependencies": [1]}
]}`)

	p := NewPlanner(client, testAgents(t), config.DefaultLLMConfig())
	plan := p.Plan(context.Background(), "add caching", moderateClassification())

	require.Len(t, plan.Tasks, 2)
	assert.Equal(t, "researcher", plan.Tasks[0].AgentName)
	assert.Equal(t, TaskPending, plan.Tasks[0].Status)
	assert.Equal(t, PriorityHigh, plan.Tasks[0].Priority)
	assert.Equal(t, PriorityNormal, plan.Tasks[1].Priority)
	assert.Equal(t, []int{1}, plan.Tasks[1].Dependencies)
	assert.Equal(t, "moderate", plan.Complexity)
}

func TestPlanRoutesBlankAgentNames(t *testing.T) {
	client := newMockClient(llm.ClassCloud).on("mission planner",
		`{"tasks": [{"id": 1, "description": "review the security of the auth flow", "agent_name": ""}]}`)

	p := NewPlanner(client, testAgents(t), config.DefaultLLMConfig())
	plan := p.Plan(context.Background(), "check auth", moderateClassification())

	require.Len(t, plan.Tasks, 1)
	assert.Equal(t, "reviewer", plan.Tasks[0].AgentName)
}

func TestPlanFallbackOnUnknownAgent(t *testing.T) {
	client := newMockClient(llm.ClassCloud).on("mission planner",
		`{"tasks": [{"id": 1, "description": "do it", "agent_name": "wizard"}]}`)

	p := NewPlanner(client, testAgents(t), config.DefaultLLMConfig())
	plan := p.Plan(context.Background(), "objective here", moderateClassification())

	require.Len(t, plan.Tasks, 1)
	assert.Equal(t, "generalist", plan.Tasks[0].AgentName)
	assert.Equal(t, "objective here", plan.Tasks[0].Description)
}

func TestPlanFallbackOnCycle(t *testing.T) {
	client := newMockClient(llm.ClassCloud).on("mission planner",
		`{"tasks": [
		  {"id": 1, "description": "a", "agent_name": "coder", "dependencies": [2]},
		  {"id": 2, "description": "b", "agent_name": "coder", "dependencies": [1]}
		]}`)

	p := NewPlanner(client, testAgents(t), config.DefaultLLMConfig())
	plan := p.Plan(context.Background(), "objective", moderateClassification())
	require.Len(t, plan.Tasks, 1)
	assert.Equal(t, "generalist", plan.Tasks[0].AgentName)
}

func TestPlanFallbackOnCallError(t *testing.T) {
	client := newMockClient(llm.ClassCloud).onError("mission planner", errors.New("down"))

	p := NewPlanner(client, testAgents(t), config.DefaultLLMConfig())
	plan := p.Plan(context.Background(), "objective", moderateClassification())
	require.Len(t, plan.Tasks, 1)
}

func TestPlanFallbackOnMissingTasksArray(t *testing.T) {
	client := newMockClient(llm.ClassCloud).on("mission planner", `{"steps": []}`)

	p := NewPlanner(client, testAgents(t), config.DefaultLLMConfig())
	plan := p.Plan(context.Background(), "objective", moderateClassification())
	require.Len(t, plan.Tasks, 1)
	assert.NoError(t, plan.Validate(testAgents(t)))
}
