package swarm

import (
	"context"
	"fmt"
	"time"

	"hydra/internal/config"
	"hydra/internal/jsonx"
	"hydra/internal/llm"
	"hydra/internal/logging"
)

// Verifier is the inter-phase quality gate. Each phase's artifact is
// scored by a judge model at low temperature; judge failures degrade to a
// deterministic REVIEW verdict rather than aborting the mission.
type Verifier struct {
	client llm.Client
	cfg    config.VerificationConfig
	llmCfg config.LLMConfig
}

// NewVerifier creates the quality gate backed by the judge model.
func NewVerifier(client llm.Client, cfg config.VerificationConfig, llmCfg config.LLMConfig) *Verifier {
	return &Verifier{client: client, cfg: cfg, llmCfg: llmCfg}
}

// VerifyPhaseA scores the plan.
func (v *Verifier) VerifyPhaseA(ctx context.Context, plan *Plan, objective string) PhaseVerdict {
	// Unknown-agent count is always zero for a validated plan; the judge
	// still sees the field so the rubric stays stable.
	return v.judge(ctx, PhaseA, buildVerifyPlanPrompt(plan, objective, 0))
}

// VerifyPhaseB scores the execution result set.
func (v *Verifier) VerifyPhaseB(ctx context.Context, results []ExecutionResult, plan *Plan, objective string) PhaseVerdict {
	return v.judge(ctx, PhaseB, buildVerifyExecutionPrompt(results, plan, objective))
}

// VerifyPhaseC scores a healing pass.
func (v *Verifier) VerifyPhaseC(ctx context.Context, healing *HealingResult, objective string) PhaseVerdict {
	return v.judge(ctx, PhaseC, buildVerifyHealingPrompt(healing, objective))
}

// VerifyPhaseD scores the synthesized answer.
func (v *Verifier) VerifyPhaseD(ctx context.Context, synthesis string, results []ExecutionResult, objective string) PhaseVerdict {
	return v.judge(ctx, PhaseD, buildVerifySynthesisPrompt(synthesis, results, objective))
}

func (v *Verifier) judge(ctx context.Context, phase PhaseID, prompt string) PhaseVerdict {
	start := time.Now()
	if v.client == nil {
		return v.fallbackVerdict(phase, "no judge model configured", start)
	}

	resp, err := v.client.Generate(ctx, llm.Request{
		Model:       v.llmCfg.JudgeModel,
		Prompt:      prompt,
		Temperature: v.cfg.JudgeTemperature,
		MaxTokens:   1024,
	})
	if err != nil {
		logging.VerifyWarn("[Verifier] phase %s judge call failed: %v", phase, err)
		return v.fallbackVerdict(phase, "judge call failure", start)
	}

	verdict, err := v.parseVerdict(phase, resp)
	if err != nil {
		logging.VerifyWarn("[Verifier] phase %s unparsable judge response: %v", phase, err)
		return v.fallbackVerdict(phase, "judge response parse failure", start)
	}
	verdict.VerificationTimeMs = time.Since(start).Milliseconds()

	logging.Verify("[Verifier] phase %s scored %d (%s) in %dms", phase, verdict.Score, verdict.Verdict, verdict.VerificationTimeMs)
	return verdict
}

func (v *Verifier) parseVerdict(phase PhaseID, response string) (PhaseVerdict, error) {
	var parsed struct {
		Score           int      `json:"score"`
		Verdict         string   `json:"verdict"`
		Issues          []string `json:"issues"`
		Strengths       []string `json:"strengths"`
		Recommendations []string `json:"recommendations"`
	}
	if err := jsonx.Unmarshal(response, &parsed); err != nil {
		return PhaseVerdict{}, err
	}

	if parsed.Score < 0 {
		parsed.Score = 0
	}
	if parsed.Score > 100 {
		parsed.Score = 100
	}

	verdict := Verdict(parsed.Verdict)
	switch verdict {
	case VerdictPass, VerdictReview, VerdictFail:
	default:
		// Judge omitted or mangled the verdict field; derive from score.
		verdict = v.verdictForScore(parsed.Score)
	}

	return PhaseVerdict{
		Phase:           phase,
		Score:           parsed.Score,
		Verdict:         verdict,
		Issues:          parsed.Issues,
		Strengths:       parsed.Strengths,
		Recommendations: parsed.Recommendations,
	}, nil
}

func (v *Verifier) verdictForScore(score int) Verdict {
	switch {
	case score >= v.cfg.PassThreshold:
		return VerdictPass
	case score >= v.cfg.ReviewThreshold:
		return VerdictReview
	default:
		return VerdictFail
	}
}

func (v *Verifier) fallbackVerdict(phase PhaseID, reason string, start time.Time) PhaseVerdict {
	return PhaseVerdict{
		Phase:              phase,
		Score:              50,
		Verdict:            VerdictReview,
		Issues:             []string{reason},
		VerificationTimeMs: time.Since(start).Milliseconds(),
		Fallback:           true,
	}
}

// ShouldContinue is the single policy point controlling pipeline abort:
// FAIL always gates; REVIEW gates only when failOnReview is set.
func (v *Verifier) ShouldContinue(verdict PhaseVerdict) bool {
	switch verdict.Verdict {
	case VerdictFail:
		return false
	case VerdictReview:
		return !v.cfg.FailOnReview
	default:
		return true
	}
}

// phaseWeights for mission aggregation. Renormalized over the phases
// that actually executed.
var phaseWeights = map[PhaseID]float64{
	PhaseA: 0.30,
	PhaseB: 0.30,
	PhaseC: 0.15,
	PhaseD: 0.25,
}

// MissionVerdictFrom aggregates phase verdicts into the final judgment.
// Any phase FAIL caps the overall verdict at REVIEW regardless of the
// weighted score; the issues of failed phases surface as critical issues.
func (v *Verifier) MissionVerdictFrom(phases []PhaseVerdict) MissionVerdict {
	if len(phases) == 0 {
		return MissionVerdict{
			OverallScore:   50,
			OverallVerdict: VerdictReview,
			Summary:        "no phases were verified",
		}
	}

	totalWeight := 0.0
	weightedScore := 0.0
	var critical []string
	failedPhases := 0
	for _, p := range phases {
		w := phaseWeights[p.Phase]
		totalWeight += w
		weightedScore += w * float64(p.Score)
		if p.Verdict == VerdictFail {
			failedPhases++
			for _, issue := range p.Issues {
				critical = append(critical, fmt.Sprintf("phase %s: %s", p.Phase, issue))
			}
		}
	}

	score := 0
	if totalWeight > 0 {
		score = int(weightedScore/totalWeight + 0.5)
	}

	overall := v.verdictForScore(score)
	if failedPhases > 0 && overall == VerdictPass {
		overall = VerdictReview
	}

	summary := fmt.Sprintf("%s: weighted score %d across %d verified phases", overall, score, len(phases))
	if failedPhases > 0 {
		summary += fmt.Sprintf(", %d failed", failedPhases)
	}

	return MissionVerdict{
		OverallScore:   score,
		OverallVerdict: overall,
		Phases:         phases,
		CriticalIssues: critical,
		Summary:        summary,
	}
}
