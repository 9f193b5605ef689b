// Package physics provides the one-dimensional axis pendulum.
//
// [AxisPendulum] implements [dynamo.System] and [dynamo.Hamiltonian] for a
// single linearly damped angular degree of freedom. A planar pendulum is
// approximated by two of them, one per Cartesian axis, evolving
// independently.
//
// # Energy Reference
//
// Potential energy is measured from the downward rest position, so a
// pendulum at rest has zero energy:
//
//	axis, _ := physics.New(physics.DefaultParams())
//	axis.Energy(dynamo.State{0, 0}) // 0
package physics
