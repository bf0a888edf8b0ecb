// Package jsonx extracts JSON payloads from LLM responses. Models wrap
// structured output in markdown fences or surrounding prose often enough
// that every caller needs the same cleanup before unmarshaling.
package jsonx

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Extract returns the JSON object embedded in an LLM response. It strips
// markdown code fences, then falls back to slicing from the first '{' to
// the last '}' when the response mixes prose with the payload.
func Extract(response string) (string, error) {
	s := strings.TrimSpace(response)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		return s, nil
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no JSON object found in response")
	}
	return s[start : end+1], nil
}

// ExtractArray is like Extract but for top-level JSON arrays.
func ExtractArray(response string) (string, error) {
	s := strings.TrimSpace(response)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no JSON array found in response")
	}
	return s[start : end+1], nil
}

// Unmarshal extracts the JSON object from an LLM response and decodes it
// into v.
func Unmarshal(response string, v any) error {
	payload, err := Extract(response)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return fmt.Errorf("failed to parse extracted JSON: %w", err)
	}
	return nil
}
