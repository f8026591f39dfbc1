package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults failed: %v", err)
	}

	if cfg.Grid.Width != 50 || cfg.Grid.Height != 50 {
		t.Errorf("grid mismatch: got %dx%d, want 50x50", cfg.Grid.Width, cfg.Grid.Height)
	}
	if cfg.Derived.Capacity != 2500 {
		t.Errorf("capacity mismatch: got %d, want 2500", cfg.Derived.Capacity)
	}
	// 2500 * 0.92
	if cfg.Derived.Population != 2300 {
		t.Errorf("population mismatch: got %d, want 2300", cfg.Derived.Population)
	}
	if cfg.Satisfaction.MinNeighbors != 3 {
		t.Errorf("min_neighbors mismatch: got %d, want 3", cfg.Satisfaction.MinNeighbors)
	}
	if cfg.Limits.MaxRounds != 0 {
		t.Errorf("max_rounds should default to unbounded, got %d", cfg.Limits.MaxRounds)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("grid:\n  width: 10\n  height: 10\npopulation:\n  count: 50\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Derived.Population != 50 {
		t.Errorf("population mismatch: got %d, want 50", cfg.Derived.Population)
	}
	// Untouched sections keep their defaults
	if cfg.Population.Classes != 2 {
		t.Errorf("classes mismatch: got %d, want 2", cfg.Population.Classes)
	}
	if cfg.Grid.Wraparound {
		t.Error("wraparound should stay false")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"population over capacity", func(c *Config) { c.Population.Count = 101 }},
		{"zero width", func(c *Config) { c.Grid.Width = 0 }},
		{"no classes", func(c *Config) { c.Population.Classes = 0 }},
		{"negative threshold", func(c *Config) { c.Satisfaction.MinNeighbors = -1 }},
		{"negative round cap", func(c *Config) { c.Limits.MaxRounds = -5 }},
		{"no sample attempts", func(c *Config) { c.Limits.SampleAttempts = 0 }},
		{"eviction class zero", func(c *Config) { c.Eviction.TargetClass = 0 }},
		{"eviction class above classes", func(c *Config) { c.Eviction.TargetClass = 3 }},
		{"eviction class wraps a byte", func(c *Config) { c.Eviction.TargetClass = 257 }},
		{"eviction rate above one", func(c *Config) { c.Eviction.Rate = 3.5 }},
		{"negative eviction rate", func(c *Config) { c.Eviction.Rate = -0.1 }},
		{"NaN eviction rate", func(c *Config) { c.Eviction.Rate = math.NaN() }},
		{"negative eviction probability", func(c *Config) { c.Eviction.Probability = -2 }},
		{"eviction probability above one", func(c *Config) { c.Eviction.Probability = 1.01 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			if err != nil {
				t.Fatal(err)
			}
			cfg.Grid.Width, cfg.Grid.Height = 10, 10
			cfg.Population.Count = 50
			tt.mutate(cfg)
			cfg.Recompute()

			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoadRejectsBadEviction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("eviction:\n  target_class: 257\n  rate: 3.5\n  probability: -2\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Load() error = %v, want ErrInvalidConfig", err)
	}
}

func TestFullGridIsValid(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Grid.Width, cfg.Grid.Height = 4, 4
	cfg.Population.Count = 16
	cfg.Recompute()

	if err := cfg.Validate(); err != nil {
		t.Errorf("population == capacity should be accepted, got %v", err)
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Eviction.Rate = 0.15
	cfg.Grid.Wraparound = true

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Eviction.Rate != 0.15 {
		t.Errorf("eviction rate mismatch: got %v, want 0.15", loaded.Eviction.Rate)
	}
	if !loaded.Grid.Wraparound {
		t.Error("wraparound lost in round trip")
	}
}
