// Package dynamo provides the primitives shared by the pendulum engine.
//
// The package defines the interfaces and types used to advance an
// autonomous ordinary differential equation (dX/dt = f(X, t)):
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems
//   - [Hamiltonian]: systems that report a mechanical energy
//   - [Integrator]: numerical integrator interface
//
// # Example
//
//	axis, _ := physics.New(physics.DefaultParams())
//	integ := integrators.NewDOPRI5()
//	x, err := integ.Step(axis, dynamo.State{0, 1}, 0, 0.05)
//
// # Errors
//
// Construction failures unwrap to [ErrInvalidParameter]; solver failures
// unwrap to [ErrIntegrationFailure]. Use errors.Is to classify them.
package dynamo
