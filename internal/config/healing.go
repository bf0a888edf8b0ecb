package config

// HealingConfig configures the self-healing loop.
type HealingConfig struct {
	// MaxRepairCycles bounds how many repair rounds may run after Phase B.
	MaxRepairCycles int `json:"max_repair_cycles,omitempty"`

	// SuccessRateFloor below which healing triggers regardless of verdict.
	// Expressed as a fraction in [0,1].
	SuccessRateFloor float64 `json:"success_rate_floor,omitempty"`
}

// DefaultHealingConfig returns the default repair bounds.
func DefaultHealingConfig() HealingConfig {
	return HealingConfig{
		MaxRepairCycles:  2,
		SuccessRateFloor: 0.8,
	}
}
