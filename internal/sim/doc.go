// Package sim composes two axis pendulums into a planar trace.
//
// [PlanarPendulum] owns the live state of both axes, the elapsed time and
// the initial energy E0. [Trace] turns it into an unbounded pull sequence
// of [Snapshot] values for renderers.
//
// # Reset Policy
//
// The pendulum only answers whether it has dissipated; the caller owns the
// threshold and any display history:
//
//	if p.Dissipated(0.05) {
//	    p.Reset()
//	    history.Clear()
//	}
//
// # Thread Safety
//
// PlanarPendulum is NOT thread-safe. A single consumer drives Step and
// Reset.
package sim
