// Package swarm implements the mission pipeline: classify an objective,
// plan a task DAG, execute it under bounded concurrency, verify every
// phase with a judge model, repair failures, and synthesize the answer.
package swarm

import (
	"fmt"
	"time"
)

// Difficulty classifies how hard an objective is.
type Difficulty string

const (
	DifficultySimple   Difficulty = "simple"
	DifficultyModerate Difficulty = "moderate"
	DifficultyComplex  Difficulty = "complex"
	DifficultyCritical Difficulty = "critical"
)

// ModelTier picks which model family handles an objective.
type ModelTier string

const (
	TierFast    ModelTier = "fast"
	TierQuality ModelTier = "quality"
)

// TaskClassification is the classifier's assessment of an objective.
// Produced once per mission, immutable afterward.
type TaskClassification struct {
	Difficulty             Difficulty `json:"difficulty"`
	RecommendedModelTier   ModelTier  `json:"recommended_model_tier"`
	Reasoning              string     `json:"reasoning"`
	EstimatedAgentCount    int        `json:"estimated_agent_count"`
	RequiresResearch       bool       `json:"requires_research"`
	RequiresCodeGeneration bool       `json:"requires_code_generation"`
}

// TaskStatus tracks a task through execution.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskRunning   TaskStatus = "running"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
	TaskSkipped   TaskStatus = "skipped"
)

// Terminal reports whether the status is final.
func (s TaskStatus) Terminal() bool {
	return s == TaskCompleted || s == TaskFailed || s == TaskSkipped
}

// TaskPriority orders dispatch among simultaneously-ready tasks.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityNormal TaskPriority = "normal"
	PriorityHigh   TaskPriority = "high"
)

// Task is one node of a plan's dependency graph. Status is written only
// by the engine worker that owns the task.
type Task struct {
	ID           int          `json:"id"`
	Description  string       `json:"description"`
	AgentName    string       `json:"agent_name"`
	Dependencies []int        `json:"dependencies,omitempty"`
	Status       TaskStatus   `json:"status"`
	Priority     TaskPriority `json:"priority,omitempty"`
	Repaired     bool         `json:"repaired,omitempty"`
	Attempts     int          `json:"attempts,omitempty"`
}

// Plan is an objective broken into a task DAG.
type Plan struct {
	Objective  string `json:"objective"`
	Tasks      []Task `json:"tasks"`
	Complexity string `json:"complexity,omitempty"`
}

// Task returns the task with the given id, or nil.
func (p *Plan) Task(id int) *Task {
	for i := range p.Tasks {
		if p.Tasks[i].ID == id {
			return &p.Tasks[i]
		}
	}
	return nil
}

// PlanValidationError marks a structurally broken plan: duplicate ids,
// unknown agents, dangling dependencies, or cycles.
type PlanValidationError struct {
	Reason string
}

func (e *PlanValidationError) Error() string {
	return "invalid plan: " + e.Reason
}

// AgentResolver is the slice of the agent directory plan validation needs.
type AgentResolver interface {
	Has(name string) bool
}

// Validate checks the plan's structural invariants. The dependency set
// must form a DAG; cycles are detected by topological sort failure.
func (p *Plan) Validate(agents AgentResolver) error {
	if len(p.Tasks) == 0 {
		return &PlanValidationError{Reason: "plan has no tasks"}
	}

	seen := make(map[int]bool, len(p.Tasks))
	for _, t := range p.Tasks {
		if seen[t.ID] {
			return &PlanValidationError{Reason: fmt.Sprintf("duplicate task id %d", t.ID)}
		}
		seen[t.ID] = true
		if t.Description == "" {
			return &PlanValidationError{Reason: fmt.Sprintf("task %d has no description", t.ID)}
		}
		if agents != nil && !agents.Has(t.AgentName) {
			return &PlanValidationError{Reason: fmt.Sprintf("task %d references unknown agent %q", t.ID, t.AgentName)}
		}
	}
	for _, t := range p.Tasks {
		for _, dep := range t.Dependencies {
			if !seen[dep] {
				return &PlanValidationError{Reason: fmt.Sprintf("task %d depends on unknown task %d", t.ID, dep)}
			}
			if dep == t.ID {
				return &PlanValidationError{Reason: fmt.Sprintf("task %d depends on itself", t.ID)}
			}
		}
	}

	if _, err := p.TopologicalOrder(); err != nil {
		return err
	}
	return nil
}

// TopologicalOrder returns task ids in dependency order. A cycle is a
// PlanValidationError.
func (p *Plan) TopologicalOrder() ([]int, error) {
	inDegree := make(map[int]int, len(p.Tasks))
	dependents := make(map[int][]int, len(p.Tasks))
	for _, t := range p.Tasks {
		inDegree[t.ID] = len(t.Dependencies)
		for _, dep := range t.Dependencies {
			dependents[dep] = append(dependents[dep], t.ID)
		}
	}

	var queue []int
	for _, t := range p.Tasks {
		if inDegree[t.ID] == 0 {
			queue = append(queue, t.ID)
		}
	}

	order := make([]int, 0, len(p.Tasks))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		for _, dependent := range dependents[id] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(order) != len(p.Tasks) {
		return nil, &PlanValidationError{Reason: "dependency cycle detected"}
	}
	return order, nil
}

// ExecutionResult is the outcome of one task attempt. A repaired task
// produces an additional result; both are retained for audit.
type ExecutionResult struct {
	TaskID     int    `json:"task_id"`
	Agent      string `json:"agent"`
	Success    bool   `json:"success"`
	Content    string `json:"content,omitempty"`
	Error      string `json:"error,omitempty"`
	DurationMs int64  `json:"duration_ms"`
	Repaired   bool   `json:"repaired,omitempty"`
}

// Verdict is a quality gate outcome.
type Verdict string

const (
	VerdictPass   Verdict = "PASS"
	VerdictReview Verdict = "REVIEW"
	VerdictFail   Verdict = "FAIL"
)

// PhaseID names a pipeline phase.
type PhaseID string

const (
	PhaseA PhaseID = "A" // planning
	PhaseB PhaseID = "B" // execution
	PhaseC PhaseID = "C" // healing
	PhaseD PhaseID = "D" // synthesis
)

// PhaseVerdict is the quality gate's score for one phase.
type PhaseVerdict struct {
	Phase              PhaseID  `json:"phase"`
	Score              int      `json:"score"`
	Verdict            Verdict  `json:"verdict"`
	Issues             []string `json:"issues,omitempty"`
	Strengths          []string `json:"strengths,omitempty"`
	Recommendations    []string `json:"recommendations,omitempty"`
	VerificationTimeMs int64    `json:"verification_time_ms"`
	Fallback           bool     `json:"fallback,omitempty"`
}

// HealingResult records one pass of the self-healing loop.
type HealingResult struct {
	RepairCycles      int      `json:"repair_cycles"`
	RepairedTasks     []int    `json:"repaired_tasks"`
	SuccessRateBefore float64  `json:"success_rate_before"`
	SuccessRateAfter  float64  `json:"success_rate_after"`
	LessonsLearned    []string `json:"lessons_learned,omitempty"`
}

// MissionState is the orchestrator's state machine position.
type MissionState string

const (
	StatePreA    MissionState = "PRE_A"
	StateA       MissionState = "A"
	StateB       MissionState = "B"
	StateC       MissionState = "C"
	StateD       MissionState = "D"
	StateDone    MissionState = "DONE"
	StateAborted MissionState = "ABORTED"
)

// MissionVerdict aggregates the phase verdicts into a final judgment.
type MissionVerdict struct {
	OverallScore   int            `json:"overall_score"`
	OverallVerdict Verdict        `json:"overall_verdict"`
	Phases         []PhaseVerdict `json:"phases"`
	CriticalIssues []string       `json:"critical_issues,omitempty"`
	Summary        string         `json:"summary,omitempty"`
	Aborted        bool           `json:"aborted,omitempty"`
	AbortReason    string         `json:"abort_reason,omitempty"`
}

// MissionResult is everything a finished (or aborted) mission returns.
type MissionResult struct {
	ID             string             `json:"id"`
	Objective      string             `json:"objective"`
	State          MissionState       `json:"state"`
	Classification TaskClassification `json:"classification"`
	Plan           *Plan              `json:"plan,omitempty"`
	Results        []ExecutionResult  `json:"results,omitempty"`
	Healing        *HealingResult     `json:"healing,omitempty"`
	Synthesis      string             `json:"synthesis,omitempty"`
	Verdict        MissionVerdict     `json:"verdict"`
	StartedAt      time.Time          `json:"started_at"`
	FinishedAt     time.Time          `json:"finished_at"`
}

// SuccessRate computes the fraction of tasks whose latest result
// succeeded. Tasks without any result count as failures.
func SuccessRate(plan *Plan, results []ExecutionResult) float64 {
	if plan == nil || len(plan.Tasks) == 0 {
		return 0
	}
	latest := LatestResults(results)
	succeeded := 0
	for _, t := range plan.Tasks {
		if r, ok := latest[t.ID]; ok && r.Success {
			succeeded++
		}
	}
	return float64(succeeded) / float64(len(plan.Tasks))
}

// LatestResults maps each task id to its most recent result. Results are
// appended in execution order, so the last entry per id wins.
func LatestResults(results []ExecutionResult) map[int]ExecutionResult {
	latest := make(map[int]ExecutionResult, len(results))
	for _, r := range results {
		latest[r.TaskID] = r
	}
	return latest
}
