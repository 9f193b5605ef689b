package physics

import (
	"math"

	"github.com/san-kum/sandtracer/internal/dynamo"
)

// Params holds the constants of one axis.
type Params struct {
	Radius  float64 `yaml:"radius"`
	Mass    float64 `yaml:"mass"`
	Drag    float64 `yaml:"drag"`
	Gravity float64 `yaml:"gravity"`
}

func DefaultParams() Params {
	return Params{
		Radius:  1.0,
		Mass:    0.5,
		Drag:    0.2,
		Gravity: 9.807,
	}
}

// Validate rejects non-positive radius, mass and gravity and negative drag.
// NaN fails every comparison and is rejected too.
func (p Params) Validate() error {
	if !(p.Radius > 0) {
		return dynamo.InvalidParameter("radius", p.Radius, "must be positive")
	}
	if !(p.Mass > 0) {
		return dynamo.InvalidParameter("mass", p.Mass, "must be positive")
	}
	if !(p.Gravity > 0) {
		return dynamo.InvalidParameter("gravity", p.Gravity, "must be positive")
	}
	if !(p.Drag >= 0) {
		return dynamo.InvalidParameter("drag", p.Drag, "must be non-negative")
	}
	return nil
}

// Projection is an axis state expressed as a linear position and velocity.
type Projection struct {
	Pos float64 `json:"pos"`
	Vel float64 `json:"vel"`
}

// AxisPendulum is a damped angular pendulum with fixed constants.
type AxisPendulum struct {
	p Params
}

func New(p Params) (*AxisPendulum, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &AxisPendulum{p: p}, nil
}

func (a *AxisPendulum) Params() Params {
	return a.p
}

func (a *AxisPendulum) StateDim() int {
	return 2
}

// Derive returns (θ̇, θ̈). The system is autonomous; t is ignored.
func (a *AxisPendulum) Derive(x dynamo.State, t float64) dynamo.State {
	theta := x[0]
	omega := x[1]

	alpha := -(a.p.Gravity/a.p.Radius)*math.Sin(theta) - (a.p.Drag/a.p.Mass)*omega

	return dynamo.State{omega, alpha}
}

func (a *AxisPendulum) Energy(x dynamo.State) float64 {
	// KE = 0.5 * m * (r*omega)^2
	// PE = m * g * r * (1 - cos(theta))
	v := a.p.Radius * x[1]
	ke := 0.5 * a.p.Mass * v * v
	pe := a.p.Mass * a.p.Gravity * a.p.Radius * (1.0 - math.Cos(x[0]))
	return ke + pe
}

// Project maps (θ, θ̇) to (r·sin θ, r·cos θ·θ̇).
func (a *AxisPendulum) Project(x dynamo.State) Projection {
	return Projection{
		Pos: a.p.Radius * math.Sin(x[0]),
		Vel: a.p.Radius * math.Cos(x[0]) * x[1],
	}
}

func (a *AxisPendulum) GetParams() map[string]float64 {
	return map[string]float64{
		"radius":  a.p.Radius,
		"mass":    a.p.Mass,
		"drag":    a.p.Drag,
		"gravity": a.p.Gravity,
	}
}
