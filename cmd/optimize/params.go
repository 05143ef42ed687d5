package main

import (
	"math"

	"github.com/pthm-cable/forage/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
	Integer bool    // Rounded before it is applied
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Perception
			{Name: "sight", Path: "agent.sight", Min: 5, Max: 60, Default: 20},
			{Name: "sight_multiplier", Path: "agent.sight_multiplier", Min: 1, Max: 10, Default: 5},
			// Metabolism
			{Name: "decay_interval", Path: "clock.decay_interval", Min: 30, Max: 600, Default: 120, Integer: true},
			{Name: "lifespan_uses", Path: "agent.lifespan_uses", Min: 4, Max: 40, Default: 12, Integer: true},
			// Food supply
			{Name: "regrow_chance", Path: "food.regrow_chance", Min: 0.001, Max: 0.1, Default: 0.01},
			// Reproduction
			{Name: "cooldown_ticks", Path: "reproduction.cooldown_ticks", Min: 100, Max: 2000, Default: 600, Integer: true},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds and rounds integer parameters.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := math.Max(spec.Min, math.Min(v[i], spec.Max))
		if spec.Integer {
			val = math.Round(val)
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config and refreshes its
// derived values. Order must match Specs.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) error {
	c := pv.Clamp(values)

	cfg.Agent.Sight = c[0]
	cfg.Agent.SightMultiplier = c[1]
	cfg.Clock.DecayInterval = int(c[2])
	cfg.Agent.LifespanUses = int(c[3])
	cfg.Food.RegrowChance = c[4]
	cfg.Reproduction.CooldownTicks = int(c[5])

	return cfg.Refresh()
}

// ExtractFromConfig extracts current parameter values from a Config.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Agent.Sight,
		cfg.Agent.SightMultiplier,
		float64(cfg.Clock.DecayInterval),
		float64(cfg.Agent.LifespanUses),
		cfg.Food.RegrowChance,
		float64(cfg.Reproduction.CooldownTicks),
	}
}
