// Package config provides configuration loading and access for shapenav.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all application configuration.
type Config struct {
	Screen    ScreenConfig          `yaml:"screen"`
	Grid      GridConfig            `yaml:"grid"`
	Planner   PlannerConfig         `yaml:"planner"`
	Motion    MotionConfig          `yaml:"motion"`
	Telemetry TelemetryConfig       `yaml:"telemetry"`
	Obstacles []ObstacleClassConfig `yaml:"obstacles"`
	Shapes    []ShapeConfig         `yaml:"shapes"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// GridConfig holds the navigation grid dimensions.
type GridConfig struct {
	Width      int `yaml:"width"`       // cells
	Height     int `yaml:"height"`      // cells
	CellPixels int `yaml:"cell_pixels"` // rendered size of one cell
}

// PlannerConfig holds pathfinding parameters.
type PlannerConfig struct {
	SafetyMargin int `yaml:"safety_margin"` // Chebyshev inflation radius around blocking obstacles
}

// MotionConfig holds path execution pacing.
type MotionConfig struct {
	StepInterval float64 `yaml:"step_interval"` // seconds between path steps
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow int `yaml:"stats_window"` // plans per latency-stats log line (0 = disabled)
}

// ObstacleClassConfig defines one obstacle class: its display color, the
// topology kinds it blocks, and the kind it forces on proximity (if any).
// Blocking and switching are independent tables.
type ObstacleClassConfig struct {
	Name     string   `yaml:"name"`
	Color    [3]uint8 `yaml:"color"`
	Blocks   []string `yaml:"blocks"`
	SwitchTo string   `yaml:"switch_to"`
}

// ShapeConfig defines one shape topology. Fragile kinds are blocked by every
// obstacle class regardless of the per-class blocks lists.
type ShapeConfig struct {
	Kind    string         `yaml:"kind"`
	Fragile bool           `yaml:"fragile"`
	Center  int            `yaml:"center"`
	Anchors []AnchorConfig `yaml:"anchors"`
	Edges   [][2]int       `yaml:"edges"`
}

// AnchorConfig is one anchor's rest position in the shape's own frame.
type AnchorConfig struct {
	ID int      `yaml:"id"`
	At [2]float64 `yaml:"at"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ClassIndex map[string]uint8 // obstacle class name -> index
	ShapeIndex map[string]int   // shape kind -> index into Shapes
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if
// path is empty. Must be called before Cfg().
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

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// computeDerived validates the policy tables and builds lookup indices.
// Invalid shape or obstacle definitions are configuration errors and fatal
// here, never at use time.
func (c *Config) computeDerived() error {
	if c.Grid.Width <= 0 || c.Grid.Height <= 0 {
		return fmt.Errorf("config: grid size %dx%d invalid", c.Grid.Width, c.Grid.Height)
	}
	if c.Planner.SafetyMargin < 0 {
		return fmt.Errorf("config: negative safety margin %d", c.Planner.SafetyMargin)
	}
	if len(c.Shapes) == 0 {
		return fmt.Errorf("config: no shapes defined")
	}
	if len(c.Obstacles) == 0 {
		return fmt.Errorf("config: no obstacle classes defined")
	}
	if len(c.Obstacles) > 255 {
		return fmt.Errorf("config: %d obstacle classes exceed the class-tag range", len(c.Obstacles))
	}

	c.Derived.ShapeIndex = make(map[string]int, len(c.Shapes))
	for i, s := range c.Shapes {
		if s.Kind == "" {
			return fmt.Errorf("config: shape %d has no kind", i)
		}
		if _, dup := c.Derived.ShapeIndex[s.Kind]; dup {
			return fmt.Errorf("config: duplicate shape kind %q", s.Kind)
		}
		c.Derived.ShapeIndex[s.Kind] = i
	}

	c.Derived.ClassIndex = make(map[string]uint8, len(c.Obstacles))
	for i, o := range c.Obstacles {
		if o.Name == "" {
			return fmt.Errorf("config: obstacle class %d has no name", i)
		}
		if _, dup := c.Derived.ClassIndex[o.Name]; dup {
			return fmt.Errorf("config: duplicate obstacle class %q", o.Name)
		}
		c.Derived.ClassIndex[o.Name] = uint8(i)

		for _, kind := range o.Blocks {
			if _, known := c.Derived.ShapeIndex[kind]; !known {
				return fmt.Errorf("config: obstacle class %q blocks unknown kind %q", o.Name, kind)
			}
		}
		if o.SwitchTo != "" {
			if _, known := c.Derived.ShapeIndex[o.SwitchTo]; !known {
				return fmt.Errorf("config: obstacle class %q switches to unknown kind %q", o.Name, o.SwitchTo)
			}
		}
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
