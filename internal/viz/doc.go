// Package viz renders a running gravity simulation in the terminal.
//
// Bodies are projected through a first-person [Camera] onto a braille
// [Canvas] and drawn as filled discs, far to near. The [Model] is a Bubble
// Tea program that owns the simulator and advances it once per frame by the
// wall time since the previous frame.
//
// # Key Bindings
//
//	p, space    pause / resume
//	= -         raise / lower the simulation rate (+ _ coarse, alt fine)
//	r           reset to the configured bodies
//	1 2         select spawn speed / spawn size
//	[ ]         adjust the selected option (also the mouse wheel)
//	f, enter    fire a body along the view direction (also left click)
//	w a s d e c move the camera
//	arrows      turn the camera
//	o           reset the camera
//	g           toggle GIF recording
//	h, ?        toggle help
//
// Losing terminal focus pauses the simulation. Resuming is always explicit.
package viz
