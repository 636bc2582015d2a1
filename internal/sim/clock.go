package sim

import "math"

// Rate bounds used when a Clock is built with unusable limits.
const (
	DefaultMinRate = 0.02
	DefaultMaxRate = 10.0
)

// State is the run state of a Clock.
type State int

const (
	Running State = iota
	Paused
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

// Clock converts real elapsed time into simulated time. It owns the paused
// flag and a rate multiplier kept within [min, max].
type Clock struct {
	rate    float64
	minRate float64
	maxRate float64
	paused  bool
}

// NewClock returns a running clock at rate 1 (clamped). A non-positive or NaN
// minimum falls back to DefaultMinRate and inverted bounds are swapped.
func NewClock(minRate, maxRate float64) *Clock {
	if !(minRate > 0) {
		minRate = DefaultMinRate
	}
	if math.IsNaN(maxRate) {
		maxRate = DefaultMaxRate
	}
	if maxRate < minRate {
		minRate, maxRate = maxRate, minRate
	}
	c := &Clock{minRate: minRate, maxRate: maxRate}
	c.SetRate(1)
	return c
}

func (c *Clock) Pause()         { c.paused = true }
func (c *Clock) Resume()        { c.paused = false }
func (c *Clock) Toggle()        { c.paused = !c.paused }
func (c *Clock) IsPaused() bool { return c.paused }

func (c *Clock) State() State {
	if c.paused {
		return Paused
	}
	return Running
}

func (c *Clock) Rate() float64 { return c.rate }

// Bounds returns the rate limits.
func (c *Clock) Bounds() (lo, hi float64) { return c.minRate, c.maxRate }

// SetRate sets the rate, clamped to the clock's bounds. NaN is ignored.
func (c *Clock) SetRate(rate float64) {
	if math.IsNaN(rate) {
		return
	}
	c.rate = math.Max(c.minRate, math.Min(c.maxRate, rate))
}

// Adjust adds delta to the rate and clamps.
func (c *Clock) Adjust(delta float64) {
	c.SetRate(c.rate + delta)
}

// Tick returns the simulated dt for realDt seconds of wall time: zero while
// paused, realDt*rate otherwise. Negative or NaN input counts as zero.
func (c *Clock) Tick(realDt float64) float64 {
	if c.paused || !(realDt > 0) {
		return 0
	}
	return realDt * c.rate
}
