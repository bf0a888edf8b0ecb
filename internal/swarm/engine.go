package swarm

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"hydra/internal/agent"
	"hydra/internal/config"
	"hydra/internal/llm"
	"hydra/internal/logging"
)

// Engine runs a plan's tasks under the concurrency budgets, respecting
// the dependency DAG. Per-task failures are captured as data; only a
// structurally broken plan is a fatal error.
type Engine struct {
	providers llm.Providers
	agents    *agent.Directory
	cfg       config.ExecutionConfig
	llmCfg    config.LLMConfig

	// sleep is swappable so retry backoff is instant under test.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewEngine creates an execution engine. Each engine owns its own
// scheduler state, so concurrent pipelines never share budget counters.
func NewEngine(providers llm.Providers, agents *agent.Directory, cfg config.ExecutionConfig, llmCfg config.LLMConfig) *Engine {
	return &Engine{
		providers: providers,
		agents:    agents,
		cfg:       cfg,
		llmCfg:    llmCfg,
		sleep:     sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// wallClockBudget derives the batch budget from the per-task timeout and
// the classifier's estimated agent count, capped by config.
func (e *Engine) wallClockBudget(estimatedAgentCount int) time.Duration {
	if estimatedAgentCount < 1 {
		estimatedAgentCount = 1
	}
	budget := e.cfg.TaskTimeout() * time.Duration(estimatedAgentCount)
	if cap := e.cfg.WallClockCap(); budget > cap {
		budget = cap
	}
	return budget
}

type completion struct {
	taskID int
	result ExecutionResult
}

// Execute runs every task in the plan and returns one ExecutionResult
// per task id. Tasks whose dependencies failed are skipped with a
// synthetic failed result; tasks still pending when the wall-clock
// budget expires are failed with a timeout error.
func (e *Engine) Execute(ctx context.Context, plan *Plan, classification TaskClassification) ([]ExecutionResult, error) {
	if err := plan.Validate(e.agents); err != nil {
		return nil, err
	}

	budget := e.wallClockBudget(classification.EstimatedAgentCount)
	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	logging.Exec("[Engine] executing %d tasks (budget %v, global cap %d)", len(plan.Tasks), budget, e.cfg.MaxConcurrent)

	sched := newScheduler(e.cfg)
	completions := make(chan completion)
	g, gctx := errgroup.WithContext(ctx)

	results := make([]ExecutionResult, 0, len(plan.Tasks))
	running := 0

	record := func(t *Task, status TaskStatus, r ExecutionResult) {
		t.Status = status
		results = append(results, r)
	}

	for {
		// Propagate terminal dependency failures, then dispatch whatever
		// is ready. A completed task may have unblocked dependents, so
		// this runs after every completion.
		for {
			progressed := false
			for i := range plan.Tasks {
				t := &plan.Tasks[i]
				if t.Status != TaskPending {
					continue
				}
				switch e.dependencyState(plan, t) {
				case depFailed:
					logging.ExecWarn("[Engine] task %d skipped: dependency failed", t.ID)
					record(t, TaskSkipped, ExecutionResult{
						TaskID:  t.ID,
						Agent:   t.AgentName,
						Success: false,
						Error:   "skipped: dependency failed",
					})
					progressed = true
				}
			}
			if !progressed {
				break
			}
		}

		for _, t := range e.readyTasks(plan) {
			t.Status = TaskRunning
			running++
			task := *t
			g.Go(func() error {
				result := e.runTask(gctx, sched, task, plan.Objective)
				select {
				case completions <- completion{taskID: task.ID, result: result}:
				case <-ctx.Done():
				}
				return nil
			})
		}

		if running == 0 {
			if e.allTerminal(plan) {
				break
			}
			// Pending tasks remain but nothing is running or ready. With a
			// validated DAG this only happens when the budget expired.
			e.failPending(plan, record)
			break
		}

		select {
		case c := <-completions:
			running--
			t := plan.Task(c.taskID)
			status := TaskFailed
			if c.result.Success {
				status = TaskCompleted
			}
			record(t, status, c.result)
		case <-ctx.Done():
			running = 0
			e.failPending(plan, record)
			cancel()
			g.Wait()
			total, peak := sched.stats()
			logging.ExecError("[Engine] wall-clock budget exhausted: %d dispatches, peak concurrency %d", total, peak)
			return results, nil
		}
	}

	cancel()
	g.Wait()

	total, peak := sched.stats()
	logging.Exec("[Engine] batch complete: %d results, %d dispatches, peak concurrency %d", len(results), total, peak)
	return results, nil
}

type depState int

const (
	depWaiting depState = iota
	depReady
	depFailed
)

func (e *Engine) dependencyState(plan *Plan, t *Task) depState {
	for _, dep := range t.Dependencies {
		depTask := plan.Task(dep)
		switch depTask.Status {
		case TaskFailed, TaskSkipped:
			return depFailed
		case TaskCompleted:
		default:
			return depWaiting
		}
	}
	return depReady
}

// readyTasks returns pending tasks whose dependencies all completed,
// highest priority first.
func (e *Engine) readyTasks(plan *Plan) []*Task {
	var ready []*Task
	for i := range plan.Tasks {
		t := &plan.Tasks[i]
		if t.Status == TaskPending && e.dependencyState(plan, t) == depReady {
			ready = append(ready, t)
		}
	}
	rank := map[TaskPriority]int{PriorityHigh: 0, PriorityNormal: 1, "": 1, PriorityLow: 2}
	sort.SliceStable(ready, func(i, j int) bool {
		return rank[ready[i].Priority] < rank[ready[j].Priority]
	})
	return ready
}

func (e *Engine) allTerminal(plan *Plan) bool {
	for _, t := range plan.Tasks {
		if !t.Status.Terminal() {
			return false
		}
	}
	return true
}

func (e *Engine) failPending(plan *Plan, record func(*Task, TaskStatus, ExecutionResult)) {
	for i := range plan.Tasks {
		t := &plan.Tasks[i]
		if !t.Status.Terminal() {
			record(t, TaskFailed, ExecutionResult{
				TaskID:  t.ID,
				Agent:   t.AgentName,
				Success: false,
				Error:   "aborted: wall-clock budget exhausted",
			})
		}
	}
}

// runTask invokes the task's agent with a per-task timeout and bounded
// retries. Only transient failures are retried.
func (e *Engine) runTask(ctx context.Context, sched *scheduler, task Task, objective string) ExecutionResult {
	start := time.Now()

	persona, err := e.agents.Lookup(task.AgentName)
	if err != nil {
		// Unreachable after plan validation, but never panic a worker.
		return ExecutionResult{TaskID: task.ID, Agent: task.AgentName, Success: false, Error: err.Error(), DurationMs: 0}
	}

	if err := sched.acquire(ctx, persona.Class); err != nil {
		return ExecutionResult{
			TaskID:     task.ID,
			Agent:      task.AgentName,
			Success:    false,
			Error:      fmt.Sprintf("could not acquire execution slot: %v", err),
			DurationMs: time.Since(start).Milliseconds(),
			Repaired:   task.Repaired,
		}
	}
	defer sched.release(persona.Class)

	client := e.providers.For(persona.Class)
	prompt := fmt.Sprintf("Mission objective: %s\n\nYour task: %s", objective, task.Description)
	temperature := persona.DefaultTemperature
	if temperature == 0 {
		phase := agent.PhaseExecute
		if task.Repaired {
			phase = agent.PhaseHeal
		}
		temperature = agent.TemperatureFor(task.Description, phase)
	}

	var lastErr error
	maxRetries := e.cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := e.cfg.RetryBaseBackoff() * time.Duration(1<<uint(attempt-1))
			logging.ExecDebug("[Engine] task %d retry %d after %v: %v", task.ID, attempt, backoff, lastErr)
			if err := e.sleep(ctx, backoff); err != nil {
				break
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, e.cfg.TaskTimeout())
		content, err := client.Generate(attemptCtx, llm.Request{
			Model:        persona.DefaultModel,
			SystemPrompt: persona.Role,
			Prompt:       prompt,
			Temperature:  temperature,
			MaxTokens:    e.llmCfg.MaxOutputTokens,
		})
		cancel()

		if err == nil {
			logging.Exec("[Engine] task %d completed by %s in %v", task.ID, persona.Name, time.Since(start))
			return ExecutionResult{
				TaskID:     task.ID,
				Agent:      persona.Name,
				Success:    true,
				Content:    content,
				DurationMs: time.Since(start).Milliseconds(),
				Repaired:   task.Repaired,
			}
		}

		lastErr = err
		if !llm.IsTransient(err) {
			break
		}
	}

	logging.ExecError("[Engine] task %d failed after %v: %v", task.ID, time.Since(start), lastErr)
	return ExecutionResult{
		TaskID:     task.ID,
		Agent:      persona.Name,
		Success:    false,
		Error:      lastErr.Error(),
		DurationMs: time.Since(start).Milliseconds(),
		Repaired:   task.Repaired,
	}
}
