package export

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/viz"
)

var trackColors = []string{"#00ff88", "#00ccff", "#ffcc00", "#ff4444", "#cc88ff", "#e0f0ff"}

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	sb.WriteString(svgHeader(width, height))
	sb.WriteString("<g fill=\"#e0f0ff\">\n")

	// braille dot bits, row by row
	pixelMap := [4][2]int{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}

	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r < 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
					}
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

func svgHeader(width, height float64) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)
}

// Tracer records every body's path during a run. It is a sim.Observer.
// Absorbed bodies keep the path they had up to the merge.
type Tracer struct {
	Every  int
	tracks map[dynamo.ID][]mgl64.Vec3
	final  []dynamo.Body
	ticks  int
}

// NewTracer keeps one point every `every` ticks.
func NewTracer(every int) *Tracer {
	if every < 1 {
		every = 1
	}
	return &Tracer{Every: every, tracks: make(map[dynamo.ID][]mgl64.Vec3)}
}

func (t *Tracer) OnTick(f sim.Frame) {
	t.final = f.Bodies
	t.ticks++
	if (t.ticks-1)%t.Every != 0 {
		return
	}
	for _, b := range f.Bodies {
		t.tracks[b.ID] = append(t.tracks[b.ID], b.Position)
	}
}

// Tracks returns the recorded path of each body.
func (t *Tracer) Tracks() map[dynamo.ID][]mgl64.Vec3 { return t.tracks }

// WriteSVG draws the recorded paths projected onto the x-z plane, with a
// disc of the body's radius at the end of every path that survived.
func (t *Tracer) WriteSVG(w io.Writer, size int, baseRadius float64) error {
	if len(t.tracks) == 0 {
		return fmt.Errorf("export: nothing traced")
	}

	ids := make([]dynamo.ID, 0, len(t.tracks))
	minX, maxX := math.Inf(1), math.Inf(-1)
	minZ, maxZ := math.Inf(1), math.Inf(-1)
	for id, track := range t.tracks {
		ids = append(ids, id)
		for _, p := range track {
			minX, maxX = math.Min(minX, p[0]), math.Max(maxX, p[0])
			minZ, maxZ = math.Min(minZ, p[2]), math.Max(maxZ, p[2])
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	// square viewport with 10% padding
	span := math.Max(math.Max(maxX-minX, maxZ-minZ), 1) * 1.2
	cx, cz := (minX+maxX)/2, (minZ+maxZ)/2
	scale := float64(size) / span
	toScreen := func(p mgl64.Vec3) (float64, float64) {
		return (p[0]-cx)*scale + float64(size)/2, (p[2]-cz)*scale + float64(size)/2
	}

	var sb strings.Builder
	sb.WriteString(svgHeader(float64(size), float64(size)))

	for i, id := range ids {
		track := t.tracks[id]
		color := trackColors[i%len(trackColors)]
		fmt.Fprintf(&sb, "<path fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\" d=\"", color)
		for j, p := range track {
			x, y := toScreen(p)
			if j == 0 {
				fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")
	}

	for _, b := range t.final {
		i := sort.Search(len(ids), func(i int) bool { return ids[i] >= b.ID })
		x, y := toScreen(b.Position)
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" fill=\"%s\"/>\n",
			x, y, math.Max(b.Radius(baseRadius)*scale, 1), trackColors[i%len(trackColors)])
	}

	sb.WriteString("</svg>")
	_, err := io.WriteString(w, sb.String())
	return err
}
