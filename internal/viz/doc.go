// Package viz draws a running sand tracer in the terminal with Bubble Tea.
//
// The trail of the current lap is plotted on a braille [Canvas] seen from
// above, next to a panel with time, energy and lap statistics.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Restart the lap
//	+ -   - Frames per tick
//	T     - Cycle colour themes
//	?     - Toggle help
//	Q     - Quit
package viz
