package gui

import (
	"fmt"

	"github.com/san-kum/gravsim/internal/control"
	"github.com/san-kum/gravsim/internal/sim"
)

// Some window managers report the window unfocused for its first frames.
const focusGraceFrames = 6

// focusGuard reports a focus loss once the window has been unfocused for
// more than Grace consecutive frames.
type focusGuard struct {
	Grace     int
	unfocused int
}

// Observe records one frame and reports true on the frame the loss is
// confirmed. It does not fire again until focus returns.
func (g *focusGuard) Observe(focused bool) bool {
	if focused {
		g.unfocused = 0
		return false
	}
	g.unfocused++
	return g.unfocused == g.Grace+1
}

var helpLines = []string{
	"P / SPACE   pause",
	"= / -       rate (shift coarse, alt fine)",
	"R           reset",
	"1 / 2       select speed / size",
	"[ ] WHEEL   adjust selection",
	"F / CLICK   fire",
	"WASD E C    move",
	"ARROWS RMB  look",
	"O           reset camera",
	"G           grid",
	"H           help",
	"ESC / Q     quit",
}

// osdLines describes the simulation state shown in the corner overlay.
func osdLines(f sim.Frame, clock *sim.Clock, merges int, spawn *control.SpawnOptions) []string {
	state := "RUNNING"
	if clock.IsPaused() {
		state = "PAUSED"
	}
	lines := []string{
		fmt.Sprintf("%-8s x%.2f", state, clock.Rate()),
		fmt.Sprintf("t       %.2f", f.Time),
		fmt.Sprintf("bodies  %d", len(f.Bodies)),
		fmt.Sprintf("merges  %d", merges),
	}
	mark := func(m control.SpawnMode) string {
		if spawn.Mode == m {
			return ">"
		}
		return " "
	}
	return append(lines,
		fmt.Sprintf("%sspeed  %.2f", mark(control.ModeSpeed), spawn.Speed),
		fmt.Sprintf("%ssize   %.2f", mark(control.ModeSize), spawn.Radius),
	)
}
