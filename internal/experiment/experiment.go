package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/sandtracer/internal/config"
	"github.com/san-kum/sandtracer/internal/metrics"
	"github.com/san-kum/sandtracer/internal/sim"
	"github.com/san-kum/sandtracer/internal/trace"
)

type Result struct {
	Frames  []trace.Frame
	Laps    int
	E0      float64
	Metrics map[string]float64
}

type Experiment struct {
	cfg    *config.Config
	p      *sim.PlanarPendulum
	runner *trace.Runner
}

// New builds the pendulum and its driver from cfg. Extra options are
// applied after the ones derived from cfg.
func New(cfg *config.Config, opts ...trace.Option) (*Experiment, error) {
	sc, err := cfg.SimConfig()
	if err != nil {
		return nil, err
	}
	p, err := sim.New(sc)
	if err != nil {
		return nil, err
	}

	all := append(cfg.RunnerOptions(), trace.WithMetrics(metrics.Default(p.InitialEnergy())...))
	all = append(all, opts...)

	return &Experiment{
		cfg:    cfg,
		p:      p,
		runner: trace.NewRunner(p, all...),
	}, nil
}

func (e *Experiment) Config() *config.Config       { return e.cfg }
func (e *Experiment) Pendulum() *sim.PlanarPendulum { return e.p }
func (e *Experiment) Runner() *trace.Runner         { return e.runner }

// Run pulls cfg.Steps frames. On cancellation or a failed step the frames
// gathered so far are returned with the error.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	result := &Result{
		Frames: make([]trace.Frame, 0, e.cfg.Steps),
		E0:     e.p.InitialEnergy(),
	}

	var runErr error
	for i := 0; i < e.cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
		}
		if runErr != nil {
			break
		}

		f, err := e.runner.Advance()
		if err != nil {
			runErr = fmt.Errorf("frame %d: %w", i, err)
			break
		}
		result.Frames = append(result.Frames, f)
	}

	result.Laps = e.runner.Lap()
	result.Metrics = e.runner.Metrics()
	return result, runErr
}
