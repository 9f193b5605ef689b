// Package analysis inspects a single axis pendulum outside the live loop.
//
//   - [PhasePortrait]: arrows of the vector field over a (θ, θ̇) grid
//   - [Trajectory]: the path of one integrated run through phase space
//   - [DominantFrequency]: strongest oscillation frequency of a sampled signal
//
// Both phase views render to plain text:
//
//	arrows, _ := analysis.PhasePortrait(p, [2]float64{-3, 3}, [2]float64{-6, 6}, 21)
//	fmt.Print(analysis.FieldASCII(analysis.Normalize(arrows), 21))
package analysis
