package gui

import (
	"strings"
	"testing"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/control"
	"github.com/san-kum/gravsim/internal/sim"
)

func TestFocusGuard(t *testing.T) {
	g := focusGuard{Grace: focusGraceFrames}
	for i := 0; i < focusGraceFrames; i++ {
		if g.Observe(false) {
			t.Fatalf("fired after %d unfocused frames", i+1)
		}
	}
	if !g.Observe(false) {
		t.Fatal("should fire once the grace period is exceeded")
	}
	if g.Observe(false) {
		t.Fatal("should fire only once per loss")
	}

	g.Observe(true)
	for i := 0; i < focusGraceFrames; i++ {
		g.Observe(false)
	}
	if !g.Observe(false) {
		t.Fatal("should fire again after focus returned")
	}
}

func TestFocusGuardFlicker(t *testing.T) {
	g := focusGuard{Grace: focusGraceFrames}
	for i := 0; i < 20; i++ {
		if g.Observe(i%3 != 0) {
			t.Fatal("short focus flicker should not pause")
		}
	}
}

func TestOSDLines(t *testing.T) {
	cfg := config.DefaultConfig()
	clock := sim.NewClock(cfg.MinRate, cfg.MaxRate)
	spawn := control.NewSpawnOptions(cfg.Spawn, cfg.SpeedModifierFactor)
	spawn.Select(control.ModeSize)

	lines := osdLines(sim.Frame{Time: 1.5}, clock, 3, spawn)
	text := strings.Join(lines, "\n")
	for _, want := range []string{"RUNNING", "merges  3", ">size", " speed"} {
		if !strings.Contains(text, want) {
			t.Errorf("OSD missing %q:\n%s", want, text)
		}
	}

	clock.Pause()
	if !strings.HasPrefix(osdLines(sim.Frame{}, clock, 0, spawn)[0], "PAUSED") {
		t.Error("paused clock not shown")
	}
}
