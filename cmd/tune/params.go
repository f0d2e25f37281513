package main

import (
	"github.com/pthm-cable/pursuit/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable pursuit parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "path_cell_size", Path: "pursuit.path_cell_size", Min: 0.75, Max: 3.0, Default: 1.5},
			{Name: "path_search_radius", Path: "pursuit.path_search_radius", Min: 6, Max: 16, Default: 12},
			{Name: "path_refresh", Path: "pursuit.path_refresh", Min: 0.2, Max: 2.0, Default: 0.6},
			{Name: "chase_duration", Path: "pursuit.chase_duration", Min: 2, Max: 10, Default: 4.5},
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

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into cfg and refreshes its
// derived values. Order must match Specs.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	cfg.Pursuit.PathCellSize = clamped[0]
	cfg.Pursuit.PathSearchRadius = clamped[1]
	cfg.Pursuit.PathRefresh = clamped[2]
	cfg.Pursuit.ChaseDuration = clamped[3]
	cfg.Rederive()
}

// ExtractFromConfig extracts current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Pursuit.PathCellSize,
		cfg.Pursuit.PathSearchRadius,
		cfg.Pursuit.PathRefresh,
		cfg.Pursuit.ChaseDuration,
	}
}
