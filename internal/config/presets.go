package config

import (
	"math"
	"sort"
)

func preset(name string, edit func(c *Config)) *Config {
	c := DefaultConfig()
	c.Preset = name
	edit(c)
	return c
}

var Presets = map[string]*Config{
	"my2017": preset("my2017", func(c *Config) {
		c.Radius = []float64{math.Sqrt2 / 2, 1}
		c.Drag = 0.03
		c.X0 = []float64{0.9, 0}
		c.Y0 = []float64{-0.9, 0}
	}),
	"a": preset("a", func(c *Config) {
		c.Radius = []float64{2, 1.4}
		c.Drag = 0.01
	}),
	"b": preset("b", func(c *Config) {
		c.Radius = []float64{2, 1.8}
		c.Drag = 0.02
	}),
	"c": preset("c", func(c *Config) {
		c.Radius = []float64{0.8, 0.9}
		c.Drag = 0.02
	}),
	"d": preset("d", func(c *Config) {
		c.Radius = []float64{1, 1}
		c.Drag = 0.02
		c.X0 = []float64{0.25, 0}
		c.Y0 = []float64{0, -0.9}
	}),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
