// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Maze       MazeConfig       `yaml:"maze"`
	Pheromone  PheromoneConfig  `yaml:"pheromone"`
	Ant        AntConfig        `yaml:"ant"`
	Simulation SimulationConfig `yaml:"simulation"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Optimize   OptimizeConfig   `yaml:"optimize"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// MazeConfig holds maze generation parameters.
type MazeConfig struct {
	Width     int     `yaml:"width"`      // Cells along X
	Depth     int     `yaml:"depth"`      // Cells along Z
	CellDelay float64 `yaml:"cell_delay"` // Seconds between cell visits (0 = generate in one tick)
}

// PheromoneConfig holds pheromone field parameters.
type PheromoneConfig struct {
	BaseStrength float64 `yaml:"base_strength"` // Amount added per deposit at multiplier 1
	DecayAmount  float64 `yaml:"decay_amount"`  // Amount removed per decay period
	DecayPeriod  float64 `yaml:"decay_period"`  // Seconds between decay applications
	FoodLevel    float64 `yaml:"food_level"`    // Concentration set when food is found
	Decay        bool    `yaml:"decay"`         // Enable periodic decay
}

// AntConfig holds ant agent parameters.
type AntConfig struct {
	Count             int     `yaml:"count"`
	BaseSpeed         float64 `yaml:"base_speed"`         // Units per second
	SpeedJitter       float64 `yaml:"speed_jitter"`       // Uniform +- jitter fixed at spawn
	ArrivalThreshold  float64 `yaml:"arrival_threshold"`  // Distance counted as arrival
	VisibilityRadius  float64 `yaml:"visibility_radius"`  // Max distance to a candidate target
	NodeRadius        float64 `yaml:"node_radius"`        // Radius of a target for line-of-sight occlusion
	ExploreMultiplier float64 `yaml:"explore_multiplier"` // Deposit multiplier while seeking
	CarryMultiplier   float64 `yaml:"carry_multiplier"`   // Deposit multiplier while carrying food
}

// SimulationConfig holds loop parameters.
type SimulationConfig struct {
	DT       float64 `yaml:"dt"`        // Seconds per tick
	MaxTicks int     `yaml:"max_ticks"` // 0 = unlimited
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // Seconds per stats window
}

// OptimizeConfig holds parameter search settings for cmd/optimize.
type OptimizeConfig struct {
	Ticks    int `yaml:"ticks"`     // Simulation ticks per evaluation
	Seeds    int `yaml:"seeds"`     // Seeds per evaluation
	MaxEvals int `yaml:"max_evals"` // Evaluation budget
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Cells          int     // Maze.Width * Maze.Depth
	TicksPerWindow int32   // Telemetry.StatsWindow / Simulation.DT
	MinSpeed       float64 // Ant.BaseSpeed - Ant.SpeedJitter, floored at 0
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

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Refresh(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Refresh validates the configuration and recomputes derived values.
// Call it after changing fields in code.
func (c *Config) Refresh() error {
	if err := c.validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// validate rejects values the simulation cannot run with.
func (c *Config) validate() error {
	if c.Maze.Width < 1 || c.Maze.Depth < 1 {
		return fmt.Errorf("maze size must be at least 1x1, got %dx%d", c.Maze.Width, c.Maze.Depth)
	}
	if c.Maze.Width*c.Maze.Depth < 2 {
		return fmt.Errorf("maze needs separate colony and food cells, got %dx%d", c.Maze.Width, c.Maze.Depth)
	}
	if c.Simulation.DT <= 0 {
		return fmt.Errorf("simulation.dt must be positive, got %v", c.Simulation.DT)
	}
	if c.Pheromone.DecayPeriod <= 0 {
		return fmt.Errorf("pheromone.decay_period must be positive, got %v", c.Pheromone.DecayPeriod)
	}
	if c.Ant.SpeedJitter < 0 || c.Ant.SpeedJitter >= c.Ant.BaseSpeed {
		return fmt.Errorf("ant.speed_jitter must be in [0, base_speed), got %v with base_speed %v", c.Ant.SpeedJitter, c.Ant.BaseSpeed)
	}
	if c.Ant.Count < 0 {
		return fmt.Errorf("ant.count must not be negative, got %d", c.Ant.Count)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Cells = c.Maze.Width * c.Maze.Depth

	ticks := int32(c.Telemetry.StatsWindow / c.Simulation.DT)
	if ticks < 1 {
		ticks = 1
	}
	c.Derived.TicksPerWindow = ticks

	c.Derived.MinSpeed = c.Ant.BaseSpeed - c.Ant.SpeedJitter
	if c.Derived.MinSpeed < 0 {
		c.Derived.MinSpeed = 0
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
