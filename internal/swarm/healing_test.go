package swarm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hydra/internal/config"
	"hydra/internal/llm"
)

func newTestHealer(t *testing.T, cloud *mockClient, cfg config.HealingConfig) *Healer {
	t.Helper()
	engine := NewEngine(llm.Providers{Cloud: cloud, Local: newMockClient(llm.ClassLocal)},
		testAgents(t), config.DefaultExecutionConfig(), config.DefaultLLMConfig())
	engine.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return NewHealer(engine, cfg)
}

func TestHealingNotNeededOnPassWithHighSuccessRate(t *testing.T) {
	h := newTestHealer(t, newMockClient(llm.ClassCloud), config.DefaultHealingConfig())

	plan := &Plan{Tasks: []Task{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}, {ID: 5}, {ID: 6}, {ID: 7}}}
	results := []ExecutionResult{
		{TaskID: 1, Success: true}, {TaskID: 2, Success: true}, {TaskID: 3, Success: true},
		{TaskID: 4, Success: true}, {TaskID: 5, Success: true}, {TaskID: 6, Success: true},
		{TaskID: 7, Success: false},
	}
	// ~86% success rate with a PASS score of 90.
	assert.False(t, h.Needed(PhaseVerdict{Verdict: VerdictPass, Score: 90}, plan, results))
}

func TestHealingNeededOnNonPassVerdict(t *testing.T) {
	h := newTestHealer(t, newMockClient(llm.ClassCloud), config.DefaultHealingConfig())
	plan := &Plan{Tasks: []Task{{ID: 1}}}
	results := []ExecutionResult{{TaskID: 1, Success: true}}
	assert.True(t, h.Needed(PhaseVerdict{Verdict: VerdictReview, Score: 60}, plan, results))
}

func TestHealingNeededOnLowSuccessRate(t *testing.T) {
	h := newTestHealer(t, newMockClient(llm.ClassCloud), config.DefaultHealingConfig())
	plan := &Plan{Tasks: []Task{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}, {ID: 5}}}
	results := []ExecutionResult{
		{TaskID: 1, Success: true},
		{TaskID: 2, Success: false}, {TaskID: 3, Success: false},
		{TaskID: 4, Success: false}, {TaskID: 5, Success: false},
	}
	// 20% success rate: heal even if the judge passed it.
	assert.True(t, h.Needed(PhaseVerdict{Verdict: VerdictPass, Score: 80}, plan, results))
}

func TestHealRepairsFailedTasks(t *testing.T) {
	// The repair prompt mentions the previous failure; succeed on it.
	cloud := newMockClient(llm.ClassCloud).on("previous attempt at this task failed", "repaired output")
	h := newTestHealer(t, cloud, config.DefaultHealingConfig())

	plan := &Plan{
		Objective: "obj",
		Tasks: []Task{
			{ID: 1, Description: "worked", AgentName: "generalist", Status: TaskCompleted},
			{ID: 2, Description: "broke", AgentName: "generalist", Status: TaskFailed},
		},
	}
	results := []ExecutionResult{
		{TaskID: 1, Success: true, Content: "fine"},
		{TaskID: 2, Success: false, Error: "rate limited"},
	}

	healing, healed := h.Heal(context.Background(), plan, results, moderateClassification())

	assert.Equal(t, 1, healing.RepairCycles)
	assert.Equal(t, []int{2}, healing.RepairedTasks)
	assert.InDelta(t, 0.5, healing.SuccessRateBefore, 0.001)
	assert.InDelta(t, 1.0, healing.SuccessRateAfter, 0.001)
	assert.NotEmpty(t, healing.LessonsLearned)

	// Both the original and repair results are retained.
	require.Len(t, healed, 3)
	latest := LatestResults(healed)
	assert.True(t, latest[2].Success)
	assert.True(t, latest[2].Repaired)
	assert.True(t, plan.Task(2).Repaired)
	assert.Equal(t, TaskCompleted, plan.Task(2).Status)
}

func TestHealBoundedByMaxRepairCycles(t *testing.T) {
	// Repairs never succeed; the loop must stop at the bound.
	cloud := newMockClient(llm.ClassCloud).onError("previous attempt at this task failed", llm.ErrRateLimited)
	cfg := config.DefaultHealingConfig()
	cfg.MaxRepairCycles = 2
	h := newTestHealer(t, cloud, cfg)

	plan := &Plan{
		Objective: "obj",
		Tasks:     []Task{{ID: 1, Description: "doomed", AgentName: "generalist", Status: TaskFailed}},
	}
	results := []ExecutionResult{{TaskID: 1, Success: false, Error: "boom"}}

	healing, healed := h.Heal(context.Background(), plan, results, moderateClassification())

	assert.Equal(t, 2, healing.RepairCycles)
	assert.Empty(t, healing.RepairedTasks)
	assert.InDelta(t, 0.0, healing.SuccessRateBefore, 0.001)
	// successRateAfter recorded even though repair failed.
	assert.InDelta(t, 0.0, healing.SuccessRateAfter, 0.001)
	assert.Len(t, healed, 3) // original + one per cycle
}

func TestHealNothingToRepair(t *testing.T) {
	h := newTestHealer(t, newMockClient(llm.ClassCloud), config.DefaultHealingConfig())

	plan := &Plan{
		Objective: "obj",
		Tasks:     []Task{{ID: 1, Description: "ok", AgentName: "generalist", Status: TaskCompleted}},
	}
	results := []ExecutionResult{{TaskID: 1, Success: true}}

	healing, healed := h.Heal(context.Background(), plan, results, moderateClassification())
	assert.Equal(t, 0, healing.RepairCycles)
	assert.Len(t, healed, 1)
	assert.Equal(t, healing.SuccessRateBefore, healing.SuccessRateAfter)
}

func TestHealPartialRepair(t *testing.T) {
	cloud := newMockClient(llm.ClassCloud)
	// Task "fixable" recovers, task "hopeless" keeps failing.
	cloud.on("Task: fixable", "repaired")
	cloud.onError("Task: hopeless", &llm.StatusError{Provider: "gemini", Status: 400, Body: "nope"})
	cfg := config.DefaultHealingConfig()
	cfg.MaxRepairCycles = 2
	h := newTestHealer(t, cloud, cfg)

	plan := &Plan{
		Objective: "obj",
		Tasks: []Task{
			{ID: 1, Description: "fixable", AgentName: "generalist", Status: TaskFailed},
			{ID: 2, Description: "hopeless", AgentName: "generalist", Status: TaskFailed},
		},
	}
	results := []ExecutionResult{
		{TaskID: 1, Success: false, Error: "x"},
		{TaskID: 2, Success: false, Error: "y"},
	}

	healing, healed := h.Heal(context.Background(), plan, results, moderateClassification())

	assert.Equal(t, []int{1}, healing.RepairedTasks)
	assert.InDelta(t, 0.5, healing.SuccessRateAfter, 0.001)
	latest := LatestResults(healed)
	assert.True(t, latest[1].Success)
	assert.False(t, latest[2].Success)
}
