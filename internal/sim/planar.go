package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/sandtracer/internal/dynamo"
	"github.com/san-kum/sandtracer/internal/integrators"
	"github.com/san-kum/sandtracer/internal/physics"
)

// Config describes a planar pendulum. Mass, Drag and Gravity are shared by
// both axes unless XAxis or YAxis replaces that axis' constants.
type Config struct {
	Radius  [2]float64
	Mass    float64
	Drag    float64
	Gravity float64
	Dt      float64

	X0 dynamo.State
	Y0 dynamo.State

	XAxis *physics.Params
	YAxis *physics.Params

	// Integrator builds one solver per axis; nil means DOPRI5.
	Integrator integrators.Factory
}

func DefaultConfig() Config {
	p := physics.DefaultParams()
	return Config{
		Radius:  [2]float64{p.Radius, p.Radius},
		Mass:    p.Mass,
		Drag:    p.Drag,
		Gravity: p.Gravity,
		Dt:      0.1,
		X0:      dynamo.State{0, 1},
		Y0:      dynamo.State{0, -1},
	}
}

// AxisParams returns two independent constant records.
func (c Config) AxisParams() (x, y physics.Params) {
	x = physics.Params{Radius: c.Radius[0], Mass: c.Mass, Drag: c.Drag, Gravity: c.Gravity}
	y = physics.Params{Radius: c.Radius[1], Mass: c.Mass, Drag: c.Drag, Gravity: c.Gravity}
	if c.XAxis != nil {
		x = *c.XAxis
	}
	if c.YAxis != nil {
		y = *c.YAxis
	}
	return x, y
}

// PlanarPendulum evolves two decoupled axis pendulums as one 2D trace.
//
// The initial energy is fixed at construction and serves as the reference
// for the dissipation check; it is never recomputed.
type PlanarPendulum struct {
	px, py *physics.AxisPendulum
	ix, iy dynamo.Integrator

	x, y   dynamo.State
	x0, y0 dynamo.State

	t     float64
	dt    float64
	steps int
	e0    float64
}

func New(cfg Config) (*PlanarPendulum, error) {
	if !(cfg.Dt > 0) {
		return nil, dynamo.InvalidParameter("dt", cfg.Dt, "must be positive")
	}

	xp, yp := cfg.AxisParams()
	px, err := physics.New(xp)
	if err != nil {
		return nil, fmt.Errorf("x axis: %w", err)
	}
	py, err := physics.New(yp)
	if err != nil {
		return nil, fmt.Errorf("y axis: %w", err)
	}

	if len(cfg.X0) != px.StateDim() {
		return nil, fmt.Errorf("x0 has %d components, want %d: %w", len(cfg.X0), px.StateDim(), dynamo.ErrDimensionMismatch)
	}
	if len(cfg.Y0) != py.StateDim() {
		return nil, fmt.Errorf("y0 has %d components, want %d: %w", len(cfg.Y0), py.StateDim(), dynamo.ErrDimensionMismatch)
	}
	if !cfg.X0.IsValid() || !cfg.Y0.IsValid() {
		return nil, fmt.Errorf("initial state contains NaN or Inf: %w", dynamo.ErrInvalidParameter)
	}

	factory := cfg.Integrator
	if factory == nil {
		factory = func() dynamo.Integrator { return integrators.NewDOPRI5() }
	}

	p := &PlanarPendulum{
		px: px,
		py: py,
		ix: factory(),
		iy: factory(),
		x0: cfg.X0.Clone(),
		y0: cfg.Y0.Clone(),
		dt: cfg.Dt,
	}
	p.x = p.x0.Clone()
	p.y = p.y0.Clone()
	p.e0 = px.Energy(p.x0) + py.Energy(p.y0)

	return p, nil
}

// riseTolerance is the largest per-step growth of one axis' energy,
// relative to E0, accepted from a solver. Drag only removes energy.
const riseTolerance = 1e-6

// Step advances both axes by dt. On error nothing moves, checkpointed
// solver state included.
func (p *PlanarPendulum) Step() error {
	restore := checkpoint(p.ix, p.iy)

	nx, err := p.advance("x", p.px, p.ix, p.x)
	if err != nil {
		restore()
		return err
	}
	ny, err := p.advance("y", p.py, p.iy, p.y)
	if err != nil {
		restore()
		return err
	}

	p.x = nx
	p.y = ny
	p.t += p.dt
	p.steps++
	return nil
}

func (p *PlanarPendulum) advance(axis string, sys *physics.AxisPendulum, integ dynamo.Integrator, x dynamo.State) (dynamo.State, error) {
	fail := func(err error) error {
		return &dynamo.StepError{Axis: axis, Step: p.steps, Time: p.t, State: x.Clone(), Wrapped: err}
	}

	next, err := integ.Step(sys, x, p.t, p.dt)
	if err != nil {
		return nil, fail(err)
	}

	before, after := sys.Energy(x), sys.Energy(next)
	if after-before > riseTolerance*math.Abs(p.e0)+1e-12 {
		return nil, fail(fmt.Errorf("energy rose from %g to %g: %w", before, after, dynamo.ErrIntegrationFailure))
	}
	return next, nil
}

func checkpoint(integs ...dynamo.Integrator) func() {
	var restores []func()
	for _, integ := range integs {
		if c, ok := integ.(dynamo.Checkpointer); ok {
			restores = append(restores, c.Checkpoint())
		}
	}
	return func() {
		for _, r := range restores {
			r()
		}
	}
}

// Reset restores the recorded initial state and t = 0. Constants and the
// initial energy are untouched.
func (p *PlanarPendulum) Reset() {
	p.x = p.x0.Clone()
	p.y = p.y0.Clone()
	p.t = 0
	p.steps = 0
	for _, integ := range []dynamo.Integrator{p.ix, p.iy} {
		if r, ok := integ.(dynamo.Resetter); ok {
			r.Reset()
		}
	}
}

// Energy is the current total energy, zero at rest.
func (p *PlanarPendulum) Energy() float64 {
	return p.px.Energy(p.x) + p.py.Energy(p.y)
}

func (p *PlanarPendulum) InitialEnergy() float64 {
	return p.e0
}

// Dissipated reports |Energy()| <= fraction*InitialEnergy(). Acting on the
// answer is left to the caller.
func (p *PlanarPendulum) Dissipated(fraction float64) bool {
	return math.Abs(p.Energy()) <= fraction*p.e0
}

func (p *PlanarPendulum) Time() float64 { return p.t }
func (p *PlanarPendulum) Dt() float64   { return p.dt }
func (p *PlanarPendulum) Steps() int    { return p.steps }

func (p *PlanarPendulum) X() dynamo.State        { return p.x.Clone() }
func (p *PlanarPendulum) Y() dynamo.State        { return p.y.Clone() }
func (p *PlanarPendulum) InitialX() dynamo.State { return p.x0.Clone() }
func (p *PlanarPendulum) InitialY() dynamo.State { return p.y0.Clone() }

func (p *PlanarPendulum) Axes() (x, y *physics.AxisPendulum) {
	return p.px, p.py
}

// Snapshot is the view handed to renderers.
type Snapshot struct {
	T      float64            `json:"t"`
	X      physics.Projection `json:"x"`
	Y      physics.Projection `json:"y"`
	Energy float64            `json:"energy"`
}

func (p *PlanarPendulum) Snapshot() Snapshot {
	return Snapshot{
		T:      p.t,
		X:      p.px.Project(p.x),
		Y:      p.py.Project(p.y),
		Energy: p.Energy(),
	}
}
