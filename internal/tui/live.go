package tui

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
)

const (
	width       = 70
	height      = 20
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"

	trailLength = 40
	minExtent   = 4.0
)

type point struct{ x, y int }

// LiveRenderer draws a top-down view of the x-z plane to a terminal while a
// batch run is in progress. It is a sim.Observer.
type LiveRenderer struct {
	out        io.Writer
	name       string
	baseRadius float64
	g          float64
	frameRate  int
	lastFrame  time.Time
	canvas     [][]rune
	trails     map[dynamo.ID][]point
	extent     float64
	merges     int
}

// NewLiveRenderer writes at most frameRate frames per second to out. A
// frameRate of zero draws every tick.
func NewLiveRenderer(out io.Writer, name string, baseRadius, g float64, frameRate int) *LiveRenderer {
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
	}
	return &LiveRenderer{
		out:        out,
		name:       name,
		baseRadius: baseRadius,
		g:          g,
		frameRate:  frameRate,
		canvas:     canvas,
		trails:     make(map[dynamo.ID][]point),
		extent:     minExtent,
	}
}

func (r *LiveRenderer) OnTick(f sim.Frame) {
	r.merges += len(f.Merges)
	for _, m := range f.Merges {
		delete(r.trails, m.Absorbed)
	}

	if r.frameRate > 0 {
		if time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
			return
		}
		r.lastFrame = time.Now()
	}

	r.clear()
	r.fit(f.Bodies)
	r.drawBodies(f.Bodies)
	r.render(f)
}

func (r *LiveRenderer) clear() {
	for y := range r.canvas {
		for x := range r.canvas[y] {
			r.canvas[y][x] = ' '
		}
	}
}

func (r *LiveRenderer) set(x, y int, c rune) {
	if x >= 0 && x < width && y >= 0 && y < height {
		r.canvas[y][x] = c
	}
}

// fit grows the view so every body around the centre of mass stays on
// screen. It never shrinks, so the picture does not breathe.
func (r *LiveRenderer) fit(bodies []dynamo.Body) {
	com := physics.CenterOfMass(bodies)
	for _, b := range bodies {
		d := b.Position.Sub(com)
		r.extent = math.Max(r.extent, 1.1*math.Max(math.Abs(d[0]), math.Abs(d[2])))
	}
}

// cell maps world x and z to a canvas cell. Terminal cells are about twice
// as tall as they are wide.
func (r *LiveRenderer) cell(x, z float64) point {
	return point{
		x: width/2 + int(math.Round(x/r.extent*float64(width/2))),
		y: height/2 + int(math.Round(z/r.extent*float64(height/2))),
	}
}

func (r *LiveRenderer) drawBodies(bodies []dynamo.Body) {
	com := physics.CenterOfMass(bodies)
	live := make(map[dynamo.ID]bool, len(bodies))

	for _, b := range bodies {
		live[b.ID] = true
		d := b.Position.Sub(com)
		p := r.cell(d[0], d[2])

		trail := append(r.trails[b.ID], p)
		if len(trail) > trailLength {
			trail = trail[1:]
		}
		r.trails[b.ID] = trail
	}
	for id := range r.trails {
		if !live[id] {
			delete(r.trails, id)
		}
	}

	for _, trail := range r.trails {
		for _, pt := range trail {
			r.set(pt.x, pt.y, '.')
		}
	}
	for _, b := range bodies {
		trail := r.trails[b.ID]
		head := trail[len(trail)-1]
		r.set(head.x, head.y, r.glyph(b))
	}
}

func (r *LiveRenderer) glyph(b dynamo.Body) rune {
	switch rad := b.Radius(r.baseRadius); {
	case rad >= 2*r.baseRadius:
		return '@'
	case rad >= r.baseRadius:
		return 'O'
	default:
		return 'o'
	}
}

func (r *LiveRenderer) render(f sim.Frame) {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  %s  t=%.2f\n", r.name, f.Time))
	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	for _, row := range r.canvas {
		b.WriteString("  ")
		b.WriteString(string(row))
		b.WriteString("\n")
	}

	b.WriteString("  " + strings.Repeat("-", width) + "\n")
	b.WriteString(fmt.Sprintf("  bodies=%d merges=%d E=%.4e span=%.1f\n",
		len(f.Bodies), r.merges, physics.Energy(f.Bodies, r.g), 2*r.extent))

	fmt.Fprint(r.out, b.String())
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }
