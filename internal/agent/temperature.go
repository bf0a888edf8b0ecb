package agent

import "strings"

// TaskType categorizes what kind of work a prompt asks for. Used only to
// pick a sampling temperature.
type TaskType string

const (
	TaskTypeCode     TaskType = "code"
	TaskTypeResearch TaskType = "research"
	TaskTypeAnalysis TaskType = "analysis"
	TaskTypeCreative TaskType = "creative"
	TaskTypeGeneral  TaskType = "general"
)

// Phase identifies where in the pipeline a model call happens.
type Phase string

const (
	PhaseClassify  Phase = "classify"
	PhasePlan      Phase = "plan"
	PhaseExecute   Phase = "execute"
	PhaseHeal      Phase = "heal"
	PhaseSynthesis Phase = "synthesis"
	PhaseVerify    Phase = "verify"
)

// baseTemperature per task type. Code and analysis stay cold for
// determinism, creative work runs warm.
var baseTemperature = map[TaskType]float64{
	TaskTypeCode:     0.2,
	TaskTypeResearch: 0.5,
	TaskTypeAnalysis: 0.3,
	TaskTypeCreative: 0.9,
	TaskTypeGeneral:  0.7,
}

// Temperature computes the sampling temperature for a task type in a
// given phase. Pure function: same inputs, same output.
func Temperature(taskType TaskType, phase Phase) float64 {
	switch phase {
	case PhaseClassify:
		return 0.1
	case PhaseVerify:
		return 0.3
	case PhasePlan:
		return 0.4
	}

	temp, ok := baseTemperature[taskType]
	if !ok {
		temp = baseTemperature[TaskTypeGeneral]
	}

	switch phase {
	case PhaseHeal:
		// Repairs rerun failed work; colder sampling reduces repeat failures.
		temp *= 0.75
	case PhaseSynthesis:
		if temp > 0.6 {
			temp = 0.6
		}
	}
	return temp
}

// DetectTaskType infers the task type from prompt text. Keyword scoring
// only; ties resolve in the declared priority order.
func DetectTaskType(prompt string) TaskType {
	lower := strings.ToLower(prompt)

	score := func(keywords ...string) int {
		n := 0
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				n++
			}
		}
		return n
	}

	scores := []struct {
		taskType TaskType
		hits     int
	}{
		{TaskTypeCode, score("code", "implement", "function", "refactor", "debug", "compile", "api", "bug")},
		{TaskTypeResearch, score("research", "investigate", "find", "compare", "what is", "explain", "why")},
		{TaskTypeAnalysis, score("analyze", "analysis", "evaluate", "assess", "measure", "metric")},
		{TaskTypeCreative, score("write a story", "creative", "brainstorm", "imagine", "slogan", "name ideas")},
	}

	best := TaskTypeGeneral
	bestHits := 0
	for _, s := range scores {
		if s.hits > bestHits {
			best = s.taskType
			bestHits = s.hits
		}
	}
	return best
}

// TemperatureFor resolves the temperature for a prompt in a phase,
// detecting the task type from text.
func TemperatureFor(prompt string, phase Phase) float64 {
	return Temperature(DetectTaskType(prompt), phase)
}
