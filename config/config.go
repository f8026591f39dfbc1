// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalidConfig is returned by Validate for parameters the engine cannot run with.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all simulation configuration parameters.
type Config struct {
	Grid         GridConfig         `yaml:"grid"`
	Population   PopulationConfig   `yaml:"population"`
	Satisfaction SatisfactionConfig `yaml:"satisfaction"`
	Experiment   ExperimentConfig   `yaml:"experiment"`
	Eviction     EvictionConfig     `yaml:"eviction"`
	Limits       LimitsConfig       `yaml:"limits"`
	Screen       ScreenConfig       `yaml:"screen"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// GridConfig holds grid dimensions and topology.
type GridConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Wraparound bool `yaml:"wraparound"` // Toroidal neighbour lookups
}

// PopulationConfig holds population placement parameters.
type PopulationConfig struct {
	Classes int     `yaml:"classes"`
	Count   int     `yaml:"count"`   // Agents to place (0 = derive from density)
	Density float64 `yaml:"density"` // Fraction of cells occupied when count is 0
}

// SatisfactionConfig holds the relocation rule.
type SatisfactionConfig struct {
	MinNeighbors int `yaml:"min_neighbors"` // Like neighbours needed to stay put
}

// ExperimentConfig holds trial parameters.
type ExperimentConfig struct {
	Trials int   `yaml:"trials"`
	Seed   int64 `yaml:"seed"` // 0 = time-based
}

// EvictionConfig holds default eviction shock parameters.
// These are passed per experiment call, the simulator never stores them.
type EvictionConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Rate        float64 `yaml:"rate"`         // Fraction of total population evicted per shock
	Probability float64 `yaml:"probability"`  // Per-round chance of a shock
	TargetClass int     `yaml:"target_class"` // Class id that gets evicted
}

// LimitsConfig bounds the randomized search procedures.
type LimitsConfig struct {
	MaxRounds      int `yaml:"max_rounds"`      // Relocation rounds per trial (0 = until settled)
	SampleAttempts int `yaml:"sample_attempts"` // Rejection draws before enumerating cells
}

// ScreenConfig holds display settings for the viewer.
type ScreenConfig struct {
	Width      int `yaml:"width"`
	Height     int `yaml:"height"`
	TargetFPS  int `yaml:"target_fps"`
	CellSize   int `yaml:"cell_size"`
	PanelWidth int `yaml:"panel_width"`
}

// TelemetryConfig holds output parameters.
type TelemetryConfig struct {
	LogTrials bool `yaml:"log_trials"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Capacity   int // Grid.Width * Grid.Height
	Population int // Population.Count, or derived from Density
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
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Clone returns an independent copy of the configuration.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Recompute refreshes derived values after fields were changed in code.
func (c *Config) Recompute() {
	c.computeDerived()
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Capacity = c.Grid.Width * c.Grid.Height

	c.Derived.Population = c.Population.Count
	if c.Derived.Population == 0 {
		c.Derived.Population = int(float64(c.Derived.Capacity) * c.Population.Density)
	}
}

// Validate reports parameters that would make the engine stall or misbehave.
// Population above capacity is rejected here instead of being discovered by
// an endless placement loop.
func (c *Config) Validate() error {
	switch {
	case c.Grid.Width <= 0 || c.Grid.Height <= 0:
		return fmt.Errorf("%w: grid must be at least 1x1, got %dx%d", ErrInvalidConfig, c.Grid.Width, c.Grid.Height)
	case c.Population.Classes < 1 || c.Population.Classes > 255:
		return fmt.Errorf("%w: classes must be in [1,255], got %d", ErrInvalidConfig, c.Population.Classes)
	case c.Derived.Population < 0:
		return fmt.Errorf("%w: negative population %d", ErrInvalidConfig, c.Derived.Population)
	case c.Derived.Population > c.Derived.Capacity:
		return fmt.Errorf("%w: only %d cells exist, population is %d", ErrInvalidConfig, c.Derived.Capacity, c.Derived.Population)
	case c.Satisfaction.MinNeighbors < 0:
		return fmt.Errorf("%w: negative min_neighbors %d", ErrInvalidConfig, c.Satisfaction.MinNeighbors)
	case c.Limits.MaxRounds < 0:
		return fmt.Errorf("%w: negative max_rounds %d", ErrInvalidConfig, c.Limits.MaxRounds)
	case c.Limits.SampleAttempts < 1:
		return fmt.Errorf("%w: sample_attempts must be positive, got %d", ErrInvalidConfig, c.Limits.SampleAttempts)
	case c.Eviction.TargetClass < 1 || c.Eviction.TargetClass > c.Population.Classes:
		return fmt.Errorf("%w: eviction target_class must be in [1,%d], got %d", ErrInvalidConfig, c.Population.Classes, c.Eviction.TargetClass)
	case !(c.Eviction.Rate >= 0 && c.Eviction.Rate <= 1):
		return fmt.Errorf("%w: eviction rate must be in [0,1], got %v", ErrInvalidConfig, c.Eviction.Rate)
	case !(c.Eviction.Probability >= 0 && c.Eviction.Probability <= 1):
		return fmt.Errorf("%w: eviction probability must be in [0,1], got %v", ErrInvalidConfig, c.Eviction.Probability)
	}
	return nil
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
