package swarm

import (
	"context"
	"regexp"
	"strings"

	"hydra/internal/agent"
	"hydra/internal/config"
	"hydra/internal/jsonx"
	"hydra/internal/llm"
	"hydra/internal/logging"
)

// Classifier assesses objective difficulty. The model path can fail in
// every way an LLM call can; the keyword heuristic backs it so Classify
// always returns a valid classification.
type Classifier struct {
	client llm.Client
	cfg    config.LLMConfig
}

// NewClassifier creates a classifier backed by the fast model.
func NewClassifier(client llm.Client, cfg config.LLMConfig) *Classifier {
	return &Classifier{client: client, cfg: cfg}
}

// Classify returns a TaskClassification for the objective. Never returns
// an error: model or parse failures fall back to the keyword heuristic.
func (c *Classifier) Classify(ctx context.Context, objective string) TaskClassification {
	if c.client != nil {
		resp, err := c.client.Generate(ctx, llm.Request{
			Model:       c.cfg.FastModel,
			Prompt:      buildClassifyPrompt(objective),
			Temperature: agent.Temperature(agent.TaskTypeGeneral, agent.PhaseClassify),
			MaxTokens:   512,
		})
		if err == nil {
			var parsed TaskClassification
			if perr := jsonx.Unmarshal(resp, &parsed); perr == nil && normalizeClassification(&parsed) {
				logging.Classify("[Classifier] model classified difficulty=%s tier=%s agents=%d",
					parsed.Difficulty, parsed.RecommendedModelTier, parsed.EstimatedAgentCount)
				return parsed
			}
			logging.ClassifyDebug("[Classifier] unparsable model response, using heuristic")
		} else {
			logging.ClassifyDebug("[Classifier] model call failed, using heuristic: %v", err)
		}
	}
	return HeuristicClassify(objective)
}

// normalizeClassification validates enum fields and fills gaps. Returns
// false when the parsed object is too broken to trust.
func normalizeClassification(tc *TaskClassification) bool {
	switch tc.Difficulty {
	case DifficultySimple, DifficultyModerate, DifficultyComplex, DifficultyCritical:
	default:
		return false
	}
	switch tc.RecommendedModelTier {
	case TierFast, TierQuality:
	case "":
		if tc.Difficulty == DifficultySimple {
			tc.RecommendedModelTier = TierFast
		} else {
			tc.RecommendedModelTier = TierQuality
		}
	default:
		return false
	}
	if tc.EstimatedAgentCount < 1 {
		tc.EstimatedAgentCount = 1
	}
	if tc.EstimatedAgentCount > 8 {
		tc.EstimatedAgentCount = 8
	}
	if tc.Reasoning == "" {
		tc.Reasoning = "model classification"
	}
	return true
}

var (
	simplePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^\s*(what|who|when|where|which|how (much|many))\b`),
		regexp.MustCompile(`(?i)^\s*(list|show|print|display|tell me)\b`),
		regexp.MustCompile(`(?i)\b(define|meaning of)\b`),
	}
	moderatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(implement|fix|write|add|update|test|refactor|debug|create)\b`),
		regexp.MustCompile(`(?i)\b(summarize|translate|convert|generate)\b`),
	}
	complexPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(architect(ure)?|migrat\w*|distributed|scalab\w*|redesign)\b`),
		regexp.MustCompile(`(?i)\b(security|authenticat\w*|encrypt\w*|audit)\b`),
		regexp.MustCompile(`(?i)\b(end.to.end|full.stack|multi.service|pipeline)\b`),
	}
	researchPattern = regexp.MustCompile(`(?i)\b(research|investigate|compare|evaluate|find out|survey)\b`)
	codePattern     = regexp.MustCompile(`(?i)\b(code|implement|function|class|api|script|refactor|compile|program)\b`)
)

// HeuristicClassify is the deterministic fallback classifier. Complexity
// wins over moderate, moderate over simple; the default is moderate.
func HeuristicClassify(objective string) TaskClassification {
	difficulty := DifficultyModerate
	matched := false

	for _, re := range simplePatterns {
		if re.MatchString(objective) {
			difficulty = DifficultySimple
			matched = true
			break
		}
	}
	for _, re := range moderatePatterns {
		if re.MatchString(objective) {
			difficulty = DifficultyModerate
			matched = true
			break
		}
	}
	for _, re := range complexPatterns {
		if re.MatchString(objective) {
			difficulty = DifficultyComplex
			matched = true
			break
		}
	}

	tier := TierFast
	agents := 1
	switch difficulty {
	case DifficultyModerate:
		tier = TierQuality
		agents = 2
	case DifficultyComplex:
		tier = TierQuality
		agents = 4
	}

	reason := "heuristic fallback classification"
	if !matched {
		reason = "heuristic fallback classification (no pattern matched, default moderate)"
	}

	tc := TaskClassification{
		Difficulty:             difficulty,
		RecommendedModelTier:   tier,
		Reasoning:              reason,
		EstimatedAgentCount:    agents,
		RequiresResearch:       researchPattern.MatchString(objective),
		RequiresCodeGeneration: codePattern.MatchString(objective),
	}
	logging.Classify("[Classifier] heuristic classified difficulty=%s tier=%s (%s)",
		tc.Difficulty, tc.RecommendedModelTier, strings.TrimSpace(truncate(objective, 60)))
	return tc
}
