package main

import (
	"github.com/pthm-cable/schelling/config"
	"github.com/pthm-cable/schelling/systems"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the eviction parameters, starting from the
// configured defaults.
func NewParamVector(cfg *config.Config) *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "eviction_rate", Path: "eviction.rate", Min: 0, Max: 0.5, Default: cfg.Eviction.Rate},
			{Name: "eviction_probability", Path: "eviction.probability", Min: 0, Max: 1, Default: cfg.Eviction.Probability},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values, clamped into bounds.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return pv.Clamp(v)
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

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// Eviction turns clamped parameter values into eviction parameters.
// Order must match Specs order.
func (pv *ParamVector) Eviction(values []float64, targetClass uint8) systems.EvictionParams {
	clamped := pv.Clamp(values)
	return systems.EvictionParams{
		Rate:        clamped[0],
		Probability: clamped[1],
		TargetClass: targetClass,
	}
}

// ApplyToConfig writes parameter values into the eviction section and
// enables it.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64, targetClass uint8) {
	ev := pv.Eviction(values, targetClass)
	cfg.Eviction.Enabled = true
	cfg.Eviction.Rate = ev.Rate
	cfg.Eviction.Probability = ev.Probability
	cfg.Eviction.TargetClass = int(ev.TargetClass)
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Eviction.Rate,
		cfg.Eviction.Probability,
	}
}
