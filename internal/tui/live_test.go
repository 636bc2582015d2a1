package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
)

func bodies() []dynamo.Body {
	return []dynamo.Body{
		{ID: 1, Mass: 8, Position: mgl64.Vec3{-1, 0, 0}},
		{ID: 2, Mass: 1, Position: mgl64.Vec3{1, 0, 0}},
	}
}

func TestLiveRendererDrawsBodies(t *testing.T) {
	var out bytes.Buffer
	r := NewLiveRenderer(&out, "binary", 0.5, 8, 0)
	r.OnTick(sim.Frame{Time: 1.25, Bodies: bodies()})

	s := out.String()
	if !strings.Contains(s, "binary  t=1.25") {
		t.Errorf("missing header:\n%s", s)
	}
	if !strings.Contains(s, "bodies=2") {
		t.Errorf("missing body count:\n%s", s)
	}
	if !strings.ContainsRune(s, '@') || !strings.ContainsRune(s, 'O') {
		t.Errorf("heavy and unit bodies should use different glyphs:\n%s", s)
	}
}

func TestLiveRendererTrailsAndMerges(t *testing.T) {
	var out bytes.Buffer
	r := NewLiveRenderer(&out, "x", 0.5, 8, 0)
	b := bodies()
	for i := 0; i < trailLength+10; i++ {
		b[1].Position[2] = float64(i) * 0.01
		r.OnTick(sim.Frame{Bodies: b})
	}
	if got := len(r.trails[2]); got != trailLength {
		t.Errorf("trail length = %d, want %d", got, trailLength)
	}

	r.OnTick(sim.Frame{
		Bodies: b[:1],
		Merges: []physics.Merge{{Survivor: 1, Absorbed: 2, Mass: 9}},
	})
	if _, ok := r.trails[2]; ok {
		t.Error("absorbed body's trail should be dropped")
	}
	if r.merges != 1 {
		t.Errorf("merges = %d, want 1", r.merges)
	}
}

func TestLiveRendererGrowsExtent(t *testing.T) {
	r := NewLiveRenderer(&bytes.Buffer{}, "x", 0.5, 8, 0)
	far := []dynamo.Body{
		{ID: 1, Mass: 1, Position: mgl64.Vec3{-50, 0, 0}},
		{ID: 2, Mass: 1, Position: mgl64.Vec3{50, 0, 0}},
	}
	r.OnTick(sim.Frame{Bodies: far})
	if r.extent < 50 {
		t.Errorf("extent = %v, want at least 50", r.extent)
	}
	r.OnTick(sim.Frame{Bodies: bodies()})
	if r.extent < 50 {
		t.Error("extent should never shrink")
	}
}

func TestLiveRendererThrottles(t *testing.T) {
	var out bytes.Buffer
	r := NewLiveRenderer(&out, "x", 0.5, 8, 1)
	r.OnTick(sim.Frame{Bodies: bodies()})
	n := out.Len()
	r.OnTick(sim.Frame{Bodies: bodies()})
	if out.Len() != n {
		t.Error("second tick within the frame interval should not draw")
	}
}
