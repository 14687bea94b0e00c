// Package viz draws a running world in the terminal.
//
// The live view steps a [host.World] on every frame and renders the
// particles on a Braille [Canvas] projected onto the x-z plane, next to the
// bridge statistics and a bridge force history.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	+/-   - More/fewer steps per frame
//	Q     - Quit
package viz
