package physics

import (
	"github.com/san-kum/gravsim/internal/dynamo"
)

// Merge records one absorption performed by the resolver.
type Merge struct {
	Survivor dynamo.ID
	Absorbed dynamo.ID
	// Mass is the survivor's mass after the merge.
	Mass float64
}

// Resolver merges overlapping bodies. Two bodies touch when the distance
// between their centres is at most the sum of their radii.
type Resolver struct {
	BaseRadius float64
}

func NewResolver(baseRadius float64) *Resolver {
	return &Resolver{BaseRadius: baseRadius}
}

// Resolve visits every pair of live bodies once, in arena order, and merges
// the later body into the earlier one on contact. The absorbed body becomes a
// tombstone immediately, so later pairs see it as dead and see the survivor's
// grown state; chains of merges therefore complete within one pass. The
// caller purges tombstones afterwards.
func (r *Resolver) Resolve(bodies []dynamo.Body) []Merge {
	var merges []Merge

	for i := range bodies {
		for j := i + 1; j < len(bodies); j++ {
			bi, bj := &bodies[i], &bodies[j]
			if !bi.Alive() || !bj.Alive() {
				continue
			}
			if !r.Touching(*bi, *bj) {
				continue
			}

			absorb(bi, bj)
			merges = append(merges, Merge{Survivor: bi.ID, Absorbed: bj.ID, Mass: bi.Mass})
		}
	}

	return merges
}

// Touching reports whether a and b are in contact.
func (r *Resolver) Touching(a, b dynamo.Body) bool {
	reach := a.Radius(r.BaseRadius) + b.Radius(r.BaseRadius)
	return b.Position.Sub(a.Position).Len() <= reach
}

// absorb folds b into a as a perfectly inelastic collision and tombstones b.
func absorb(a, b *dynamo.Body) {
	m := a.Mass + b.Mass

	a.Position = a.Position.Mul(a.Mass).Add(b.Position.Mul(b.Mass)).Mul(1 / m)
	a.Velocity = a.Velocity.Mul(a.Mass).Add(b.Velocity.Mul(b.Mass)).Mul(1 / m)
	a.Mass = m

	b.Mass = 0
}
