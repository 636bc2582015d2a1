package metrics

import "github.com/san-kum/gravsim/internal/sim"

// MergeCount counts merges across the observed frames.
type MergeCount struct {
	name  string
	count int
}

func NewMergeCount() *MergeCount {
	return &MergeCount{name: "merges"}
}

func (c *MergeCount) Name() string { return c.name }

func (c *MergeCount) Observe(f sim.Frame) {
	c.count += len(f.Merges)
}

func (c *MergeCount) Value() float64 { return float64(c.count) }

func (c *MergeCount) Reset() { c.count = 0 }
