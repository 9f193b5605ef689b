package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/san-kum/sandtracer/internal/config"
)

// overrides are the command line settings shared by the commands that
// build a pendulum. Only flags the user changed are applied.
type overrides struct {
	configFile string
	integrator string
	dt         float64
	drag       float64
	threshold  float64
	steps      int
	history    int
}

func (o *overrides) register(cmd *cobra.Command) {
	d := config.DefaultConfig()
	cmd.Flags().StringVar(&o.configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&o.integrator, "integrator", d.Integrator, "integrator")
	cmd.Flags().Float64Var(&o.dt, "dt", d.Dt, "timestep")
	cmd.Flags().Float64Var(&o.drag, "drag", d.Drag, "drag coefficient for both axes")
	cmd.Flags().Float64Var(&o.threshold, "threshold", d.Threshold, "reset when energy falls to this fraction of E0")
	cmd.Flags().IntVar(&o.steps, "steps", d.Steps, "frames to pull (run, compare)")
	cmd.Flags().IntVar(&o.history, "history", d.History, "trail length, 0 keeps the whole lap")
}

// resolveConfig layers defaults, the preset, the environment, the config
// file and changed flags, in that order.
func resolveConfig(cmd *cobra.Command, name string, e config.Env, o overrides) (*config.Config, error) {
	if name == "" {
		name = e.Preset
	}

	cfg := config.DefaultConfig()
	if name != "" {
		cfg = config.GetPreset(name)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
	}

	e.Apply(cfg)

	if o.configFile != "" {
		loaded, err := config.LoadOver(o.configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	changed := cmd.Flags().Changed
	if changed("integrator") {
		cfg.Integrator = o.integrator
	}
	if changed("dt") {
		cfg.Dt = o.dt
	}
	if changed("drag") {
		cfg.Drag = o.drag
	}
	if changed("threshold") {
		cfg.Threshold = o.threshold
	}
	if changed("steps") {
		cfg.Steps = o.steps
	}
	if changed("history") {
		cfg.History = o.history
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
