package config

// VerificationConfig configures the quality gate thresholds.
type VerificationConfig struct {
	// PassThreshold: score at or above this is PASS.
	PassThreshold int `json:"pass_threshold,omitempty"`

	// ReviewThreshold: score at or above this (but below pass) is REVIEW.
	ReviewThreshold int `json:"review_threshold,omitempty"`

	// FailOnReview aborts the mission on REVIEW verdicts, not just FAIL.
	FailOnReview bool `json:"fail_on_review,omitempty"`

	// JudgeTemperature used for verification calls. Kept low for consistency.
	JudgeTemperature float64 `json:"judge_temperature,omitempty"`
}

// DefaultVerificationConfig returns the default gate thresholds.
func DefaultVerificationConfig() VerificationConfig {
	return VerificationConfig{
		PassThreshold:    75,
		ReviewThreshold:  50,
		FailOnReview:     false,
		JudgeTemperature: 0.3,
	}
}
