package swarm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"hydra/internal/config"
	"hydra/internal/llm"
)

func TestClassifyModelPath(t *testing.T) {
	client := newMockClient(llm.ClassCloud).on("difficulty classifier",
		"```json\n{\"difficulty\": \"complex\", \"recommended_model_tier\": \"quality\", \"reasoning\": \"multi-component\", \"estimated_agent_count\": 4, \"requires_research\": true, \"requires_code_generation\": true}\n```")

	c := NewClassifier(client, config.DefaultLLMConfig())
	tc := c.Classify(context.Background(), "migrate the auth system to OAuth")

	assert.Equal(t, DifficultyComplex, tc.Difficulty)
	assert.Equal(t, TierQuality, tc.RecommendedModelTier)
	assert.Equal(t, 4, tc.EstimatedAgentCount)
	assert.True(t, tc.RequiresResearch)
}

func TestClassifyFallsBackOnCallError(t *testing.T) {
	client := newMockClient(llm.ClassCloud).onError("difficulty classifier", errors.New("provider down"))

	c := NewClassifier(client, config.DefaultLLMConfig())
	tc := c.Classify(context.Background(), "implement a login endpoint")

	assert.Equal(t, DifficultyModerate, tc.Difficulty)
	assert.Contains(t, tc.Reasoning, "fallback")
	assert.True(t, tc.RequiresCodeGeneration)
}

func TestClassifyFallsBackOnGarbageResponse(t *testing.T) {
	client := newMockClient(llm.ClassCloud).on("difficulty classifier", "I'd rate this a solid 7/10!")

	c := NewClassifier(client, config.DefaultLLMConfig())
	tc := c.Classify(context.Background(), "what is the capital of France")

	assert.Equal(t, DifficultySimple, tc.Difficulty)
	assert.Contains(t, tc.Reasoning, "fallback")
}

func TestClassifyRejectsInvalidEnums(t *testing.T) {
	client := newMockClient(llm.ClassCloud).on("difficulty classifier",
		`{"difficulty": "impossible", "recommended_model_tier": "fast"}`)

	c := NewClassifier(client, config.DefaultLLMConfig())
	tc := c.Classify(context.Background(), "what is 2+2?")
	assert.Equal(t, DifficultySimple, tc.Difficulty)
	assert.Contains(t, tc.Reasoning, "fallback")
}

func TestHeuristicClassify(t *testing.T) {
	tests := []struct {
		objective string
		want      Difficulty
	}{
		{"What is 2+2?", DifficultySimple},
		{"list the files in the repo", DifficultySimple},
		{"implement a cache eviction policy", DifficultyModerate},
		{"fix the flaky test", DifficultyModerate},
		{"design a distributed architecture for ingestion", DifficultyComplex},
		{"audit the security of the session handling", DifficultyComplex},
		{"do the thing", DifficultyModerate},
	}
	for _, tt := range tests {
		tc := HeuristicClassify(tt.objective)
		assert.Equal(t, tt.want, tc.Difficulty, "objective: %s", tt.objective)
		assert.NotEmpty(t, tc.Reasoning)
		assert.GreaterOrEqual(t, tc.EstimatedAgentCount, 1)
	}
}

func TestHeuristicComplexWinsOverModerate(t *testing.T) {
	// Contains both "implement" (moderate) and "architecture" (complex).
	tc := HeuristicClassify("implement the new architecture for the billing service")
	assert.Equal(t, DifficultyComplex, tc.Difficulty)
}

func TestClassifyNilClientNeverPanics(t *testing.T) {
	c := NewClassifier(nil, config.DefaultLLMConfig())
	tc := c.Classify(context.Background(), "What is 2+2?")
	assert.Equal(t, DifficultySimple, tc.Difficulty)
}
