package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/sandtracer/internal/dynamo"
	"github.com/san-kum/sandtracer/internal/integrators"
	"github.com/san-kum/sandtracer/internal/physics"
	"github.com/san-kum/sandtracer/internal/sim"
	"github.com/san-kum/sandtracer/internal/trace"
)

const (
	DefaultDt      = 0.03
	DefaultSteps   = 5000
	DefaultRadius  = 1.0
	DefaultMass    = 0.5
	DefaultDrag    = 0.2
	DefaultGravity = 9.807
)

type Config struct {
	Preset     string          `yaml:"preset,omitempty"`
	Radius     []float64       `yaml:"radius"`
	Mass       float64         `yaml:"mass"`
	Drag       float64         `yaml:"drag"`
	Gravity    float64         `yaml:"gravity"`
	Dt         float64         `yaml:"dt"`
	X0         []float64       `yaml:"x0"`
	Y0         []float64       `yaml:"y0"`
	XAxis      *physics.Params `yaml:"x_axis,omitempty"`
	YAxis      *physics.Params `yaml:"y_axis,omitempty"`
	Integrator string          `yaml:"integrator"`
	Threshold  float64         `yaml:"threshold"`
	Steps      int             `yaml:"steps"`
	History    int             `yaml:"history"`
}

func DefaultConfig() *Config {
	return &Config{
		Radius:     []float64{DefaultRadius, DefaultRadius},
		Mass:       DefaultMass,
		Drag:       DefaultDrag,
		Gravity:    DefaultGravity,
		Dt:         DefaultDt,
		X0:         []float64{0, 1},
		Y0:         []float64{0, -1},
		Integrator: integrators.Default,
		Threshold:  trace.DefaultThreshold,
		Steps:      DefaultSteps,
	}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Radius = append([]float64(nil), c.Radius...)
	out.X0 = append([]float64(nil), c.X0...)
	out.Y0 = append([]float64(nil), c.Y0...)
	if c.XAxis != nil {
		x := *c.XAxis
		out.XAxis = &x
	}
	if c.YAxis != nil {
		y := *c.YAxis
		out.YAxis = &y
	}
	return &out
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads path on top of a copy of base; keys missing from the file
// keep base values.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the driver settings and vector shapes. Physical constants
// are checked when the pendulum is built.
func (c *Config) Validate() error {
	if len(c.Radius) != 2 {
		return fmt.Errorf("radius needs 2 values, got %d: %w", len(c.Radius), dynamo.ErrDimensionMismatch)
	}
	if len(c.X0) != 2 {
		return fmt.Errorf("x0 needs 2 values, got %d: %w", len(c.X0), dynamo.ErrDimensionMismatch)
	}
	if len(c.Y0) != 2 {
		return fmt.Errorf("y0 needs 2 values, got %d: %w", len(c.Y0), dynamo.ErrDimensionMismatch)
	}
	if !(c.Threshold >= 0) {
		return dynamo.InvalidParameter("threshold", c.Threshold, "must be non-negative")
	}
	if c.Steps < 0 {
		return dynamo.InvalidParameter("steps", float64(c.Steps), "must be non-negative")
	}
	if c.History < 0 {
		return dynamo.InvalidParameter("history", float64(c.History), "must be non-negative")
	}
	if _, err := integrators.Lookup(c.Integrator); err != nil {
		return err
	}
	return nil
}

func (c *Config) SimConfig() (sim.Config, error) {
	if err := c.Validate(); err != nil {
		return sim.Config{}, err
	}
	factory, err := integrators.Lookup(c.Integrator)
	if err != nil {
		return sim.Config{}, err
	}

	out := sim.Config{
		Radius:     [2]float64{c.Radius[0], c.Radius[1]},
		Mass:       c.Mass,
		Drag:       c.Drag,
		Gravity:    c.Gravity,
		Dt:         c.Dt,
		X0:         dynamo.State{c.X0[0], c.X0[1]},
		Y0:         dynamo.State{c.Y0[0], c.Y0[1]},
		Integrator: factory,
	}
	if c.XAxis != nil {
		x := *c.XAxis
		out.XAxis = &x
	}
	if c.YAxis != nil {
		y := *c.YAxis
		out.YAxis = &y
	}
	return out, nil
}

// RunnerOptions maps the driver settings onto trace options.
func (c *Config) RunnerOptions() []trace.Option {
	return []trace.Option{
		trace.WithThreshold(c.Threshold),
		trace.WithHistoryLimit(c.History),
	}
}
