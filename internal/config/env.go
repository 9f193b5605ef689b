package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds the settings read from the environment.
type Env struct {
	DataDir    string `env:"SANDTRACER_DATA_DIR" envDefault:".sandtracer"`
	Integrator string `env:"SANDTRACER_INTEGRATOR"`
	Preset     string `env:"SANDTRACER_PRESET"`
}

func LoadEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

// Apply copies the environment overrides onto cfg.
func (e Env) Apply(cfg *Config) {
	if e.Integrator != "" {
		cfg.Integrator = e.Integrator
	}
}
