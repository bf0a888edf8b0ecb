package config

import "time"

// ExecutionConfig configures the execution engine budgets.
type ExecutionConfig struct {
	// MaxConcurrent is the global concurrency cap across all providers.
	MaxConcurrent int `json:"max_concurrent,omitempty"`

	// MaxLocal / MaxCloud are per execution-class caps.
	MaxLocal int `json:"max_local,omitempty"`
	MaxCloud int `json:"max_cloud,omitempty"`

	// TaskTimeoutSeconds bounds a single task attempt.
	TaskTimeoutSeconds int `json:"task_timeout_seconds,omitempty"`

	// MaxRetries bounds retries of transient failures per task.
	MaxRetries int `json:"max_retries,omitempty"`

	// RetryBaseBackoffMs is the base for exponential backoff between retries.
	RetryBaseBackoffMs int `json:"retry_base_backoff_ms,omitempty"`

	// WallClockCapMinutes caps the derived batch budget.
	WallClockCapMinutes int `json:"wall_clock_cap_minutes,omitempty"`
}

// DefaultExecutionConfig returns the default engine budgets.
func DefaultExecutionConfig() ExecutionConfig {
	return ExecutionConfig{
		MaxConcurrent:       5,
		MaxLocal:            2,
		MaxCloud:            4,
		TaskTimeoutSeconds:  120,
		MaxRetries:          2,
		RetryBaseBackoffMs:  500,
		WallClockCapMinutes: 30,
	}
}

// TaskTimeout returns the per-task timeout as a duration.
func (c ExecutionConfig) TaskTimeout() time.Duration {
	if c.TaskTimeoutSeconds <= 0 {
		return 2 * time.Minute
	}
	return time.Duration(c.TaskTimeoutSeconds) * time.Second
}

// RetryBaseBackoff returns the base backoff as a duration.
func (c ExecutionConfig) RetryBaseBackoff() time.Duration {
	if c.RetryBaseBackoffMs <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(c.RetryBaseBackoffMs) * time.Millisecond
}

// WallClockCap returns the maximum batch wall-clock budget.
func (c ExecutionConfig) WallClockCap() time.Duration {
	if c.WallClockCapMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.WallClockCapMinutes) * time.Minute
}
