// Package config provides configuration loading and access for the sandbox.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/pursuit/pursuit"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all sandbox configuration parameters.
type Config struct {
	Sim       SimConfig       `yaml:"sim" toml:"sim"`
	Pursuit   pursuit.Config  `yaml:"pursuit" toml:"pursuit"`
	Arena     ArenaConfig     `yaml:"arena" toml:"arena"`
	Hunters   HuntersConfig   `yaml:"hunters" toml:"hunters"`
	Drones    DronesConfig    `yaml:"drones" toml:"drones"`
	Telemetry TelemetryConfig `yaml:"telemetry" toml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-" toml:"-"`
}

// SimConfig holds tick loop parameters.
type SimConfig struct {
	DT           float64 `yaml:"dt" toml:"dt"`
	MaxTicks     int     `yaml:"max_ticks" toml:"max_ticks"` // 0 = run until interrupted
	Seed         int64   `yaml:"seed" toml:"seed"`
	GridCellSize float64 `yaml:"grid_cell_size" toml:"grid_cell_size"` // target lookup bucket size
}

// ArenaConfig describes the static obstacle layout.
type ArenaConfig struct {
	HalfSize float64     `yaml:"half_size" toml:"half_size"` // arena spans [-half_size, half_size] on x and z
	GroundY  float64     `yaml:"ground_y" toml:"ground_y"`
	Walls    bool        `yaml:"walls" toml:"walls"` // perimeter walls
	Crates   CrateConfig `yaml:"crates" toml:"crates"`
	Boxes    []BoxConfig `yaml:"boxes" toml:"boxes"`
}

// CrateConfig controls the noise-placed crate field.
type CrateConfig struct {
	Spacing   float64 `yaml:"spacing" toml:"spacing"`       // lattice step between candidate sites
	Size      float64 `yaml:"size" toml:"size"`             // crate edge length
	Height    float64 `yaml:"height" toml:"height"`         // crate height
	Scale     float64 `yaml:"scale" toml:"scale"`           // noise frequency
	Threshold float64 `yaml:"threshold" toml:"threshold"`   // place a crate where noise > threshold
	ClearZone float64 `yaml:"clear_zone" toml:"clear_zone"` // keep this radius around spawns empty
}

// BoxConfig is an explicit obstacle.
type BoxConfig struct {
	MinX   float64 `yaml:"min_x" toml:"min_x"`
	MinZ   float64 `yaml:"min_z" toml:"min_z"`
	MaxX   float64 `yaml:"max_x" toml:"max_x"`
	MaxZ   float64 `yaml:"max_z" toml:"max_z"`
	Height float64 `yaml:"height" toml:"height"`
}

// PointConfig is a spawn location on the ground plane.
type PointConfig struct {
	X   float64 `yaml:"x" toml:"x"`
	Z   float64 `yaml:"z" toml:"z"`
	Yaw float64 `yaml:"yaw" toml:"yaw"`
}

// HuntersConfig holds hunter spawning parameters.
type HuntersConfig struct {
	Spawns     []PointConfig `yaml:"spawns" toml:"spawns"`
	Count      int           `yaml:"count" toml:"count"` // extra random spawns beyond the list
	BodyHeight float64       `yaml:"body_height" toml:"body_height"`
}

// DronesConfig holds drone spawning and patrol parameters.
type DronesConfig struct {
	Count        int           `yaml:"count" toml:"count"`
	Spawns       []PointConfig `yaml:"spawns" toml:"spawns"`
	Altitude     float64       `yaml:"altitude" toml:"altitude"`
	Speed        float64       `yaml:"speed" toml:"speed"`
	MaxBattery   float64       `yaml:"max_battery" toml:"max_battery"`
	PatrolRadius float64       `yaml:"patrol_radius" toml:"patrol_radius"`
	PatrolPoints int           `yaml:"patrol_points" toml:"patrol_points"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window" toml:"stats_window"` // seconds per stats window
	OutputDir           string  `yaml:"output_dir" toml:"output_dir"`
	PerfCollectorWindow int     `yaml:"perf_collector_window" toml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	TicksPerSecond   float64 // 1 / Sim.DT
	StatsWindowTicks int     // Telemetry.StatsWindow in ticks
	MaxGridSide      int     // planning grid side for Pursuit
	PlannerEnabled   bool    // false when the planning grid exceeds pursuit.MaxGridNodes
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML or TOML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Decoding into the same struct only overwrites keys present in the file
		if err := decode(path, data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg.computeDerived()

	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		_, err := toml.Decode(string(data), cfg)
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks the values the sandbox cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if !(c.Sim.DT > 0) || math.IsInf(c.Sim.DT, 0) {
		errs = append(errs, fmt.Errorf("sim.dt must be > 0, got %v", c.Sim.DT))
	}
	if c.Sim.MaxTicks < 0 {
		errs = append(errs, fmt.Errorf("sim.max_ticks must be >= 0, got %d", c.Sim.MaxTicks))
	}
	if !(c.Sim.GridCellSize > 0) {
		errs = append(errs, fmt.Errorf("sim.grid_cell_size must be > 0, got %v", c.Sim.GridCellSize))
	}
	if err := c.Pursuit.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("pursuit: %w", err))
	}
	if !(c.Arena.HalfSize > 0) {
		errs = append(errs, fmt.Errorf("arena.half_size must be > 0, got %v", c.Arena.HalfSize))
	}
	if c.Arena.Crates.Spacing < 0 || c.Arena.Crates.Size < 0 {
		errs = append(errs, errors.New("arena.crates spacing and size must be >= 0"))
	}
	if c.Hunters.Count < 0 || c.Drones.Count < 0 {
		errs = append(errs, errors.New("hunter and drone counts must be >= 0"))
	}
	if c.Drones.MaxBattery < 0 || c.Drones.Speed < 0 {
		errs = append(errs, errors.New("drones.max_battery and drones.speed must be >= 0"))
	}
	if c.Telemetry.StatsWindow < 0 {
		errs = append(errs, fmt.Errorf("telemetry.stats_window must be >= 0, got %v", c.Telemetry.StatsWindow))
	}
	return errors.Join(errs...)
}

// Rederive recomputes Derived after fields are changed in code.
func (c *Config) Rederive() {
	c.computeDerived()
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.TicksPerSecond = 1 / c.Sim.DT
	c.Derived.StatsWindowTicks = int(math.Round(c.Telemetry.StatsWindow / c.Sim.DT))
	c.Derived.MaxGridSide = c.Pursuit.GridSide()
	c.Derived.PlannerEnabled = c.Pursuit.GridNodes() <= pursuit.MaxGridNodes

	if c.Drones.PatrolPoints < 2 {
		c.Drones.PatrolPoints = 2
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
