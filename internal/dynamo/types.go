package dynamo

import "math"

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// Equal reports whether both states hold exactly the same values.
func (s State) Equal(other State) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// System is an autonomous or time-dependent ODE right-hand side.
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

type Hamiltonian interface {
	Energy(x State) float64
}

// Integrator advances x from t to t+dt.
type Integrator interface {
	Step(sys System, x State, t, dt float64) (State, error)
}

// Resetter is implemented by integrators that cache step-size history.
type Resetter interface {
	Reset()
}

// Checkpointer is implemented by integrators that carry state between
// calls. The returned func puts the solver back as it was.
type Checkpointer interface {
	Checkpoint() (restore func())
}

type Configurable interface {
	GetParams() map[string]float64
}
