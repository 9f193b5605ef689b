package experiment

import (
	"context"
	"time"

	"github.com/san-kum/sandtracer/internal/config"
)

type Comparison struct {
	Integrator  string
	FinalEnergy float64
	EnergyRatio float64
	MaxRise     float64
	Laps        int
	Elapsed     time.Duration
	Err         error
}

// Compare runs cfg once per integrator name. Failures are reported per
// entry rather than aborting the comparison.
func Compare(ctx context.Context, cfg *config.Config, names []string) []Comparison {
	out := make([]Comparison, 0, len(names))
	for _, name := range names {
		c := cfg.Clone()
		c.Integrator = name

		cmp := Comparison{Integrator: name}
		exp, err := New(c)
		if err != nil {
			cmp.Err = err
			out = append(out, cmp)
			continue
		}

		start := time.Now()
		res, err := exp.Run(ctx)
		cmp.Elapsed = time.Since(start)
		cmp.Err = err
		cmp.FinalEnergy = exp.Pendulum().Energy()
		cmp.EnergyRatio = res.Metrics["energy_ratio"]
		cmp.MaxRise = res.Metrics["max_energy_rise"]
		cmp.Laps = res.Laps
		out = append(out, cmp)
	}
	return out
}
