package swarm

import (
	"fmt"
	"strings"
)

const classifyPrompt = `You are a task difficulty classifier for a multi-agent system.

Classify the following objective and respond with ONLY a JSON object:
{
  "difficulty": "simple|moderate|complex|critical",
  "recommended_model_tier": "fast|quality",
  "reasoning": "<one sentence>",
  "estimated_agent_count": <1-8>,
  "requires_research": <bool>,
  "requires_code_generation": <bool>
}

Rubric:
- simple: single factual question or trivial operation, one agent
- moderate: bounded implementation or analysis work, two or three agents
- complex: multi-component design, migration or integration work
- critical: security-sensitive, destructive, or production-impacting work

Objective: %s`

func buildClassifyPrompt(objective string) string {
	return fmt.Sprintf(classifyPrompt, objective)
}

const planPrompt = `You are the mission planner for a multi-agent swarm.

Break the objective into tasks. Respond with ONLY a JSON object:
{
  "tasks": [
    {"id": 1, "description": "...", "agent_name": "<agent>", "dependencies": [], "priority": "low|normal|high"}
  ]
}

Rules:
- ids are consecutive integers starting at 1
- dependencies reference earlier task ids only
- every agent_name must be one of: %s
- prefer %d or fewer tasks; independent tasks run in parallel

Objective: %s
Difficulty: %s
Requires research: %t
Requires code generation: %t`

func buildPlanPrompt(objective string, classification TaskClassification, agentNames []string) string {
	maxTasks := classification.EstimatedAgentCount
	if maxTasks < 1 {
		maxTasks = 3
	}
	return fmt.Sprintf(planPrompt,
		strings.Join(agentNames, ", "),
		maxTasks,
		objective,
		classification.Difficulty,
		classification.RequiresResearch,
		classification.RequiresCodeGeneration)
}

const verdictSchema = `Respond with ONLY a JSON object:
{
  "score": <0-100>,
  "verdict": "PASS|REVIEW|FAIL",
  "issues": ["..."],
  "strengths": ["..."],
  "recommendations": ["..."]
}`

func buildVerifyPlanPrompt(plan *Plan, objective string, unknownAgents int) string {
	var b strings.Builder
	b.WriteString("You are a quality gate judging a task plan.\n\n")
	fmt.Fprintf(&b, "Objective: %s\n", objective)
	fmt.Fprintf(&b, "Task count: %d\n", len(plan.Tasks))
	fmt.Fprintf(&b, "Unknown agent references: %d\n\n", unknownAgents)
	b.WriteString("Tasks:\n")
	for _, t := range plan.Tasks {
		fmt.Fprintf(&b, "- [%d] %s (agent=%s deps=%v)\n", t.ID, t.Description, t.AgentName, t.Dependencies)
	}
	b.WriteString("\nJudge whether the plan covers the objective, has sensible dependencies, and routes tasks to appropriate agents.\n\n")
	b.WriteString(verdictSchema)
	return b.String()
}

func buildVerifyExecutionPrompt(results []ExecutionResult, plan *Plan, objective string) string {
	latest := LatestResults(results)
	succeeded, emptyOrShort := 0, 0
	for _, r := range latest {
		if r.Success {
			succeeded++
		}
		if len(strings.TrimSpace(r.Content)) < 40 {
			emptyOrShort++
		}
	}

	var b strings.Builder
	b.WriteString("You are a quality gate judging the execution results of a task plan.\n\n")
	fmt.Fprintf(&b, "Objective: %s\n", objective)
	fmt.Fprintf(&b, "Tasks: %d, succeeded: %d (success rate %.0f%%)\n", len(plan.Tasks), succeeded, SuccessRate(plan, results)*100)
	fmt.Fprintf(&b, "Empty or very short outputs: %d\n\n", emptyOrShort)
	b.WriteString("Results (latest attempt per task):\n")
	for _, t := range plan.Tasks {
		r, ok := latest[t.ID]
		if !ok {
			fmt.Fprintf(&b, "- [%d] no result\n", t.ID)
			continue
		}
		fmt.Fprintf(&b, "- [%d] success=%t agent=%s: %s\n", t.ID, r.Success, r.Agent, truncate(firstNonEmpty(r.Content, r.Error), 300))
	}
	b.WriteString("\nJudge completeness and whether the outputs actually address their task descriptions.\n\n")
	b.WriteString(verdictSchema)
	return b.String()
}

func buildVerifyHealingPrompt(healing *HealingResult, objective string) string {
	var b strings.Builder
	b.WriteString("You are a quality gate judging a repair pass over failed tasks.\n\n")
	fmt.Fprintf(&b, "Objective: %s\n", objective)
	fmt.Fprintf(&b, "Repair cycles: %d, repaired tasks: %v\n", healing.RepairCycles, healing.RepairedTasks)
	fmt.Fprintf(&b, "Success rate before: %.0f%%, after: %.0f%% (delta %+.0f%%)\n\n",
		healing.SuccessRateBefore*100, healing.SuccessRateAfter*100,
		(healing.SuccessRateAfter-healing.SuccessRateBefore)*100)
	b.WriteString("Judge whether the repair pass meaningfully improved the result set.\n\n")
	b.WriteString(verdictSchema)
	return b.String()
}

func buildVerifySynthesisPrompt(synthesis string, results []ExecutionResult, objective string) string {
	cites := 0
	for _, r := range LatestResults(results) {
		if r.Success && r.Content != "" && strings.Contains(synthesis, firstWords(r.Content, 4)) {
			cites++
		}
	}

	var b strings.Builder
	b.WriteString("You are a quality gate judging a synthesized final answer.\n\n")
	fmt.Fprintf(&b, "Objective: %s\n", objective)
	fmt.Fprintf(&b, "Answer length: %d chars, evidence overlaps with task outputs: %d\n\n", len(synthesis), cites)
	fmt.Fprintf(&b, "Answer:\n%s\n\n", truncate(synthesis, 4000))
	b.WriteString("Judge whether the answer addresses the objective, is grounded in the task outputs, and is complete.\n\n")
	b.WriteString(verdictSchema)
	return b.String()
}

func buildSynthesisPrompt(objective string, plan *Plan, results []ExecutionResult) string {
	latest := LatestResults(results)
	var b strings.Builder
	b.WriteString("Synthesize a single final answer to the objective from the agent outputs below.\n")
	b.WriteString("Integrate the outputs; do not enumerate them task by task. Note gaps where a task failed.\n\n")
	fmt.Fprintf(&b, "Objective: %s\n\n", objective)
	for _, t := range plan.Tasks {
		r, ok := latest[t.ID]
		if !ok || !r.Success {
			fmt.Fprintf(&b, "Task %d (%s): FAILED\n", t.ID, t.Description)
			continue
		}
		fmt.Fprintf(&b, "Task %d (%s):\n%s\n\n", t.ID, t.Description, truncate(r.Content, 2000))
	}
	return b.String()
}

func buildRepairPrompt(task Task, previousError string, objective string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A previous attempt at this task failed. Retry it, avoiding the earlier failure.\n\n")
	fmt.Fprintf(&b, "Mission objective: %s\n", objective)
	fmt.Fprintf(&b, "Task: %s\n", task.Description)
	if previousError != "" {
		fmt.Fprintf(&b, "Previous failure: %s\n", truncate(previousError, 500))
	}
	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func firstWords(s string, n int) string {
	fields := strings.Fields(s)
	if len(fields) > n {
		fields = fields[:n]
	}
	return strings.Join(fields, " ")
}
