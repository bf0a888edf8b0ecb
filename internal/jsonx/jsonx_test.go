package jsonx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractBareObject(t *testing.T) {
	got, err := Extract(`{"a": 1}`)
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, got)
}

func TestExtractFencedObject(t *testing.T) {
	got, err := Extract("```json\n{\"score\": 85}\n```")
	require.NoError(t, err)
	assert.Equal(t, `{"score": 85}`, got)
}

func TestExtractObjectWithProse(t *testing.T) {
	got, err := Extract("Here is my assessment:\n{\"verdict\": \"PASS\"}\nLet me know if you need more.")
	require.NoError(t, err)
	assert.Equal(t, `{"verdict": "PASS"}`, got)
}

func TestExtractNestedBraces(t *testing.T) {
	resp := `Sure! {"plan": {"tasks": [{"id": "t1"}]}} done`
	got, err := Extract(resp)
	require.NoError(t, err)
	assert.Equal(t, `{"plan": {"tasks": [{"id": "t1"}]}}`, got)
}

func TestExtractNoObject(t *testing.T) {
	_, err := Extract("I cannot produce JSON for this request.")
	assert.Error(t, err)
}

func TestExtractArray(t *testing.T) {
	got, err := ExtractArray("The tasks are:\n[{\"id\": \"t1\"}, {\"id\": \"t2\"}]")
	require.NoError(t, err)
	assert.Equal(t, `[{"id": "t1"}, {"id": "t2"}]`, got)
}

func TestUnmarshal(t *testing.T) {
	var out struct {
		Score   int    `json:"score"`
		Verdict string `json:"verdict"`
	}
	err := Unmarshal("```json\n{\"score\": 72, \"verdict\": \"REVIEW\"}\n```", &out)
	require.NoError(t, err)
	assert.Equal(t, 72, out.Score)
	assert.Equal(t, "REVIEW", out.Verdict)
}

func TestUnmarshalInvalidPayload(t *testing.T) {
	var out map[string]any
	err := Unmarshal(`{"broken": }`, &out)
	assert.Error(t, err)
}
