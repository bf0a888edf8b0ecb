package swarm

import (
	"context"
	"fmt"

	"hydra/internal/config"
	"hydra/internal/logging"
)

// Healer reruns failed and skipped tasks in repair cycles. Bounded by
// maxRepairCycles; exceeding the bound surfaces the best-effort result
// rather than looping.
type Healer struct {
	engine *Engine
	cfg    config.HealingConfig
}

// NewHealer creates the self-healing loop around an engine.
func NewHealer(engine *Engine, cfg config.HealingConfig) *Healer {
	return &Healer{engine: engine, cfg: cfg}
}

// Needed reports whether healing should run: Phase B's verdict was not
// PASS, or the success rate fell below the configured floor.
func (h *Healer) Needed(verdict PhaseVerdict, plan *Plan, results []ExecutionResult) bool {
	if verdict.Verdict != VerdictPass {
		return true
	}
	return SuccessRate(plan, results) < h.cfg.SuccessRateFloor
}

// Heal reruns failed tasks until they all succeed or the cycle bound is
// hit. Repair results are appended to the mission's result list; success
// rates are recomputed from the latest result per task.
func (h *Healer) Heal(ctx context.Context, plan *Plan, results []ExecutionResult, classification TaskClassification) (*HealingResult, []ExecutionResult) {
	healing := &HealingResult{
		SuccessRateBefore: SuccessRate(plan, results),
	}

	maxCycles := h.cfg.MaxRepairCycles
	if maxCycles <= 0 {
		maxCycles = 2
	}

	for cycle := 1; cycle <= maxCycles; cycle++ {
		repairPlan := h.buildRepairPlan(plan, results)
		if repairPlan == nil {
			break
		}
		healing.RepairCycles = cycle
		logging.Heal("[Healer] cycle %d: repairing %d tasks", cycle, len(repairPlan.Tasks))

		repairResults, err := h.engine.Execute(ctx, repairPlan, classification)
		if err != nil {
			// A repair plan derives from an already-validated plan, so this
			// is a hard engine failure; stop healing with what we have.
			logging.HealDebug("[Healer] cycle %d engine error: %v", cycle, err)
			healing.LessonsLearned = append(healing.LessonsLearned, fmt.Sprintf("repair cycle %d aborted: %v", cycle, err))
			break
		}

		for _, r := range repairResults {
			results = append(results, r)
			if r.Success {
				healing.RepairedTasks = append(healing.RepairedTasks, r.TaskID)
				if t := plan.Task(r.TaskID); t != nil {
					t.Status = TaskCompleted
					t.Repaired = true
				}
				healing.LessonsLearned = append(healing.LessonsLearned,
					fmt.Sprintf("task %d recovered on repair cycle %d", r.TaskID, cycle))
			}
		}
	}

	healing.SuccessRateAfter = SuccessRate(plan, results)
	logging.Heal("[Healer] done: cycles=%d repaired=%d success %.0f%% -> %.0f%%",
		healing.RepairCycles, len(healing.RepairedTasks),
		healing.SuccessRateBefore*100, healing.SuccessRateAfter*100)
	return healing, results
}

// buildRepairPlan collects the tasks whose latest result failed into a
// fresh dependency-free plan, re-using the original agent assignment.
// Returns nil when nothing needs repair.
func (h *Healer) buildRepairPlan(plan *Plan, results []ExecutionResult) *Plan {
	latest := LatestResults(results)

	var tasks []Task
	for _, t := range plan.Tasks {
		r, ok := latest[t.ID]
		if ok && r.Success {
			continue
		}
		previousError := ""
		if ok {
			previousError = r.Error
		}
		tasks = append(tasks, Task{
			ID:          t.ID,
			Description: buildRepairPrompt(t, previousError, plan.Objective),
			AgentName:   t.AgentName,
			Status:      TaskPending,
			Priority:    PriorityHigh,
			Repaired:    true,
		})
	}
	if len(tasks) == 0 {
		return nil
	}
	return &Plan{
		Objective:  plan.Objective,
		Tasks:      tasks,
		Complexity: plan.Complexity,
	}
}
