// Package config provides configuration loading and access for the particle host.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all host configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Simulation SimulationConfig `yaml:"simulation"`
	Camera     CameraConfig     `yaml:"camera"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Emitters   []EmitterConfig  `yaml:"emitters"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// SimulationConfig holds frame stepping parameters.
type SimulationConfig struct {
	DT        float64 `yaml:"dt"`         // Seconds per headless frame
	Seed      int64   `yaml:"seed"`       // 0 = time-based
	MaxFrames int     `yaml:"max_frames"` // 0 = unlimited
}

// CameraConfig holds the initial orbit camera placement.
type CameraConfig struct {
	Target      r3.Vec  `yaml:"target"`
	Distance    float64 `yaml:"distance"`
	MinDistance float64 `yaml:"min_distance"`
	MaxDistance float64 `yaml:"max_distance"`
	YawDeg      float64 `yaml:"yaw_deg"`
	PitchDeg    float64 `yaml:"pitch_deg"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // Seconds of simulated time per stats window
	PerfWindow  int     `yaml:"perf_window"`  // Frames averaged by the perf collector
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32         float32        // Simulation.DT as float32
	EmitterIndex map[string]int // name -> index into Emitters
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

// Default returns the embedded default configuration.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used. An emitters list in the
// file replaces the default list as a whole.
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
		if err := Parse(data, cfg); err != nil {
			return nil, err
		}
	}

	cfg.computeDerived()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Parse unmarshals YAML data over cfg. Only fields present in data are overwritten.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

// Validate checks the whole configuration, reporting every problem found.
func (c *Config) Validate() error {
	var errs []error
	if c.Simulation.DT <= 0 {
		errs = append(errs, fmt.Errorf("%w: got %g", ErrDT, c.Simulation.DT))
	}
	for i := range c.Emitters {
		if err := c.Emitters[i].Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Simulation.DT)

	if c.Telemetry.StatsWindow <= 0 {
		c.Telemetry.StatsWindow = 1.0
	}
	if c.Camera.MaxDistance < c.Camera.MinDistance {
		c.Camera.MaxDistance = c.Camera.MinDistance
	}

	// Unnamed emitters get a positional name so logs and CSV rows stay distinguishable
	for i := range c.Emitters {
		if c.Emitters[i].Name == "" {
			c.Emitters[i].Name = fmt.Sprintf("emitter-%d", i)
		}
	}

	c.Derived.EmitterIndex = make(map[string]int, len(c.Emitters))
	for i, e := range c.Emitters {
		c.Derived.EmitterIndex[e.Name] = i
	}
}

// Emitter returns the emitter with the given name.
func (c *Config) Emitter(name string) (*EmitterConfig, bool) {
	i, ok := c.Derived.EmitterIndex[name]
	if !ok {
		return nil, false
	}
	return &c.Emitters[i], true
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	out := *c
	out.Emitters = make([]EmitterConfig, len(c.Emitters))
	for i, e := range c.Emitters {
		e.Collision = CollisionSettings{
			Planes:   append([]Plane(nil), e.Collision.Planes...),
			Spheres:  append([]Sphere(nil), e.Collision.Spheres...),
			Capsules: append([]Capsule(nil), e.Collision.Capsules...),
		}
		out.Emitters[i] = e
	}
	out.computeDerived()
	return &out
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
