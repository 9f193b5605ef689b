package integrators

import (
	"fmt"

	"github.com/san-kum/sandtracer/internal/dynamo"
)

const DefaultSubsteps = 10

// RK4 covers each requested dt with Substeps classical Runge-Kutta steps.
type RK4 struct {
	Substeps int

	k1, k2, k3, k4 dynamo.State
	scratch        dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{Substeps: DefaultSubsteps}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(dynamo.State, n)
		r.k2 = make(dynamo.State, n)
		r.k3 = make(dynamo.State, n)
		r.k4 = make(dynamo.State, n)
		r.scratch = make(dynamo.State, n)
	}
}

func (r *RK4) Step(sys dynamo.System, x dynamo.State, t, dt float64) (dynamo.State, error) {
	substeps := r.Substeps
	if substeps < 1 {
		substeps = 1
	}
	h := dt / float64(substeps)

	out := x.Clone()
	for i := 0; i < substeps; i++ {
		out = r.step(sys, out, t+float64(i)*h, h)
		if !out.IsValid() {
			return nil, fmt.Errorf("rk4: state diverged at substep %d: %w", i, dynamo.ErrIntegrationFailure)
		}
	}
	return out, nil
}

func (r *RK4) step(sys dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	n := len(x)
	r.ensureScratch(n)

	copy(r.k1, sys.Derive(x, t))

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*r.k1[i]
	}
	copy(r.k2, sys.Derive(r.scratch, t+dt*0.5))

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*r.k2[i]
	}
	copy(r.k3, sys.Derive(r.scratch, t+dt*0.5))

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*r.k3[i]
	}
	copy(r.k4, sys.Derive(r.scratch, t+dt))

	result := make(dynamo.State, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		result[i] = x[i] + dt6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}

	return result
}
