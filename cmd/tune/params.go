// Package main provides CMA-ES tuning of a single emitter's spawn settings.
package main

import (
	"github.com/pthm-cable/fountain/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the tunable parameters of one emitter.
// Ranges are encoded as a low end plus a non-negative spread so every
// candidate keeps min <= max.
type ParamVector struct {
	Specs []ParamSpec
}

// Parameter order. ApplyToEmitter and ExtractFromEmitter follow it.
const (
	paramRateLo = iota
	paramRateSpread
	paramLifeLo
	paramLifeSpread
	numParams
)

// NewParamVector creates the parameter set with defaults taken from ec.
func NewParamVector(ec config.EmitterConfig) *ParamVector {
	pv := &ParamVector{
		Specs: []ParamSpec{
			paramRateLo:     {Name: "rate_lo", Min: 0.5, Max: 200},
			paramRateSpread: {Name: "rate_spread", Min: 0, Max: 100},
			paramLifeLo:     {Name: "lifetime_lo", Min: 0.1, Max: 20},
			paramLifeSpread: {Name: "lifetime_spread", Min: 0, Max: 10},
		},
	}
	defaults := pv.Clamp(pv.ExtractFromEmitter(ec))
	for i := range pv.Specs {
		pv.Specs[i].Default = defaults[i]
	}
	return pv
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

// ApplyToEmitter writes clamped parameter values into the active mode's ranges.
func (pv *ParamVector) ApplyToEmitter(ec *config.EmitterConfig, values []float64) {
	c := pv.Clamp(values)
	ec.SetRateRange(c[paramRateLo], c[paramRateLo]+c[paramRateSpread])
	ec.SetLifeTimeRange(c[paramLifeLo], c[paramLifeLo]+c[paramLifeSpread])
}

// ExtractFromEmitter reads the current parameter values from ec.
func (pv *ParamVector) ExtractFromEmitter(ec config.EmitterConfig) []float64 {
	v := make([]float64, numParams)
	rateLo, rateHi := ec.RateRange()
	lifeLo, lifeHi := ec.LifeTimeRange()
	v[paramRateLo] = rateLo
	v[paramRateSpread] = rateHi - rateLo
	v[paramLifeLo] = lifeLo
	v[paramLifeSpread] = lifeHi - lifeLo
	return v
}
