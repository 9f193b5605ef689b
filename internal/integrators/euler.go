package integrators

import (
	"fmt"

	"github.com/san-kum/sandtracer/internal/dynamo"
)

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys dynamo.System, x dynamo.State, t, dt float64) (dynamo.State, error) {
	dx := sys.Derive(x, t)
	result := make(dynamo.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	if !result.IsValid() {
		return nil, fmt.Errorf("euler: state diverged: %w", dynamo.ErrIntegrationFailure)
	}
	return result, nil
}
