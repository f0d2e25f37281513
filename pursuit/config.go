// Package pursuit implements a hunter agent that detects a target, plans a
// short path to it over a bounded local grid, steers around obstacles and
// drains the target's resource when close enough.
package pursuit

import (
	"errors"
	"fmt"
	"math"
)

// Config holds the tunables of an agent. Distances are world units, times are
// seconds. An agent copies its Config at construction.
type Config struct {
	DetectionRange float64 `yaml:"detection_range" toml:"detection_range" csv:"detection_range"`
	ChaseDistance  float64 `yaml:"chase_distance" toml:"chase_distance" csv:"chase_distance"`
	ChaseDuration  float64 `yaml:"chase_duration" toml:"chase_duration" csv:"chase_duration"`
	RunSpeed       float64 `yaml:"run_speed" toml:"run_speed" csv:"run_speed"`
	AttackRange    float64 `yaml:"attack_range" toml:"attack_range" csv:"attack_range"`
	AttackCooldown float64 `yaml:"attack_cooldown" toml:"attack_cooldown" csv:"attack_cooldown"`
	BatteryDamage  float64 `yaml:"battery_damage" toml:"battery_damage" csv:"battery_damage"`
	ColliderRadius float64 `yaml:"collider_radius" toml:"collider_radius" csv:"collider_radius"`

	PathCellSize     float64 `yaml:"path_cell_size" toml:"path_cell_size" csv:"path_cell_size"`
	PathSearchRadius float64 `yaml:"path_search_radius" toml:"path_search_radius" csv:"path_search_radius"`
	PathRefresh      float64 `yaml:"path_refresh" toml:"path_refresh" csv:"path_refresh"`
}

// DefaultConfig returns the stock hunter tuning.
func DefaultConfig() Config {
	return Config{
		DetectionRange:   28,
		ChaseDistance:    22,
		ChaseDuration:    4.5,
		RunSpeed:         5.2,
		AttackRange:      1.8,
		AttackCooldown:   1.5,
		BatteryDamage:    8,
		ColliderRadius:   0.45,
		PathCellSize:     1.5,
		PathSearchRadius: 12,
		PathRefresh:      0.6,
	}
}

// GridSide returns the number of cells along one side of the planning grid.
func (c Config) GridSide() int {
	return int(math.Ceil(2*c.PathSearchRadius/c.PathCellSize)) + 1
}

// GridNodes returns the planning grid cell count. A grid above MaxGridNodes
// is legal but the planner refuses to search it.
func (c Config) GridNodes() int {
	side := c.GridSide()
	return side * side
}

// Validate rejects values the agent cannot run with.
func (c Config) Validate() error {
	var errs []error
	nonNegative := []struct {
		name  string
		value float64
	}{
		{"detection_range", c.DetectionRange},
		{"chase_distance", c.ChaseDistance},
		{"chase_duration", c.ChaseDuration},
		{"run_speed", c.RunSpeed},
		{"attack_range", c.AttackRange},
		{"attack_cooldown", c.AttackCooldown},
		{"battery_damage", c.BatteryDamage},
		{"path_search_radius", c.PathSearchRadius},
		{"path_refresh", c.PathRefresh},
	}
	for _, f := range nonNegative {
		if f.value < 0 || math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			errs = append(errs, fmt.Errorf("%s must be a finite value >= 0, got %v", f.name, f.value))
		}
	}
	if !(c.ColliderRadius > 0) || math.IsInf(c.ColliderRadius, 0) {
		errs = append(errs, fmt.Errorf("collider_radius must be > 0, got %v", c.ColliderRadius))
	}
	if !(c.PathCellSize > 0) || math.IsInf(c.PathCellSize, 0) {
		errs = append(errs, fmt.Errorf("path_cell_size must be > 0, got %v", c.PathCellSize))
	}
	return errors.Join(errs...)
}
