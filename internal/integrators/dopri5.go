package integrators

import (
	"fmt"
	"math"

	"github.com/san-kum/sandtracer/internal/dynamo"
)

// Dormand-Prince coefficients (RK45)
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

const (
	DefaultRelTol   = 1e-9
	DefaultAbsTol   = 1e-12
	DefaultMaxSteps = 10000
	DefaultMinStep  = 1e-12
)

// DOPRI5 is an adaptive Dormand-Prince 5(4) solver. Each call to Step
// integrates exactly over [t, t+dt] with as many internal steps as the
// tolerances demand. The last accepted internal step size is carried into
// the next call, so one instance must not be shared between systems.
type DOPRI5 struct {
	RelTol   float64
	AbsTol   float64
	MaxSteps int
	MinStep  float64

	safety   float64
	minScale float64
	maxScale float64

	h float64
}

func NewDOPRI5() *DOPRI5 {
	return &DOPRI5{
		RelTol:   DefaultRelTol,
		AbsTol:   DefaultAbsTol,
		MaxSteps: DefaultMaxSteps,
		MinStep:  DefaultMinStep,
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
	}
}

// Reset forgets the cached step size.
func (d *DOPRI5) Reset() {
	d.h = 0
}

func (d *DOPRI5) Checkpoint() func() {
	h := d.h
	return func() { d.h = h }
}

// StepSize is the cached internal step, 0 before the first call.
func (d *DOPRI5) StepSize() float64 {
	return d.h
}

func (d *DOPRI5) Step(sys dynamo.System, x dynamo.State, t, dt float64) (dynamo.State, error) {
	if !(dt > 0) {
		return nil, dynamo.InvalidParameter("dt", dt, "must be positive")
	}

	h := d.h
	if h <= 0 || h > dt {
		h = dt
	}

	cur := x.Clone()
	elapsed := 0.0
	remaining := dt

	for steps := 0; remaining > 0; steps++ {
		if steps >= d.MaxSteps {
			return nil, fmt.Errorf("dopri5: exceeded %d internal steps: %w", d.MaxSteps, dynamo.ErrIntegrationFailure)
		}

		last := false
		if h >= remaining {
			h = remaining
			last = true
		} else if h < d.MinStep {
			return nil, fmt.Errorf("dopri5: step %g below minimum %g: %w", h, d.MinStep, dynamo.ErrIntegrationFailure)
		}

		next, errNorm := d.attempt(sys, cur, t+elapsed, h)
		if math.IsNaN(errNorm) || !next.IsValid() {
			// Overflowed trial; retry smaller until MinStep gives up.
			h *= d.minScale
			if h < d.MinStep {
				return nil, fmt.Errorf("dopri5: state diverged at t=%g: %w", t+elapsed, dynamo.ErrIntegrationFailure)
			}
			continue
		}

		if errNorm <= 1 {
			cur = next
			if last {
				remaining = 0
			} else {
				elapsed += h
				remaining = dt - elapsed
			}
			// The truncated final step says nothing about the natural size.
			if !last {
				d.h = h
			}
		}

		h *= d.scale(errNorm)
	}

	if d.h == 0 {
		d.h = dt
	}
	return cur, nil
}

func (d *DOPRI5) scale(errNorm float64) float64 {
	if errNorm > 1 {
		return math.Max(d.minScale, d.safety*math.Pow(errNorm, -0.25))
	}
	if errNorm > 0 {
		return math.Min(d.maxScale, d.safety*math.Pow(errNorm, -0.2))
	}
	return d.maxScale
}

// attempt takes one Dormand-Prince step and returns the fifth-order
// solution with the RMS error norm scaled by AbsTol + RelTol*|x|.
func (d *DOPRI5) attempt(sys dynamo.System, x dynamo.State, t, h float64) (dynamo.State, float64) {
	n := len(x)

	k1 := sys.Derive(x, t)

	x2 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x2[i] = x[i] + h*b21*k1[i]
	}
	k2 := sys.Derive(x2, t+a2*h)

	x3 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x3[i] = x[i] + h*(b31*k1[i]+b32*k2[i])
	}
	k3 := sys.Derive(x3, t+a3*h)

	x4 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x4[i] = x[i] + h*(b41*k1[i]+b42*k2[i]+b43*k3[i])
	}
	k4 := sys.Derive(x4, t+a4*h)

	x5 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x5[i] = x[i] + h*(b51*k1[i]+b52*k2[i]+b53*k3[i]+b54*k4[i])
	}
	k5 := sys.Derive(x5, t+a5*h)

	x6 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x6[i] = x[i] + h*(b61*k1[i]+b62*k2[i]+b63*k3[i]+b64*k4[i]+b65*k5[i])
	}
	k6 := sys.Derive(x6, t+h)

	xNew := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		xNew[i] = x[i] + h*(c1*k1[i]+c3*k3[i]+c4*k4[i]+c5*k5[i]+c6*k6[i])
	}

	k7 := sys.Derive(xNew, t+h)

	sum := 0.0
	for i := 0; i < n; i++ {
		errEst := h * (dc1*k1[i] + dc3*k3[i] + dc4*k4[i] + dc5*k5[i] + dc6*k6[i] + dc7*k7[i])
		sc := d.AbsTol + d.RelTol*math.Max(math.Abs(x[i]), math.Abs(xNew[i]))
		sum += (errEst / sc) * (errEst / sc)
	}
	if n == 0 {
		return xNew, 0
	}

	return xNew, math.Sqrt(sum / float64(n))
}
