package physics_test

import (
	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
)

var _ = Describe("Resolver", func() {
	var resolver *physics.Resolver

	BeforeEach(func() {
		resolver = physics.NewResolver(0.5)
	})

	It("merges two touching bodies at their centre of mass", func() {
		bodies := []dynamo.Body{
			body(1, 1, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 1, 0}),
			body(2, 1, mgl64.Vec3{0, 0, 0.1}, mgl64.Vec3{0, -1, 0}),
		}

		merges := resolver.Resolve(bodies)

		Expect(merges).To(Equal([]physics.Merge{{Survivor: 1, Absorbed: 2, Mass: 2}}))
		Expect(bodies[0].Mass).To(Equal(2.0))
		expectVec(bodies[0].Position, mgl64.Vec3{0, 0, 0.05}, 1e-15)
		expectVec(bodies[0].Velocity, mgl64.Vec3{}, 1e-15)
		Expect(bodies[1].Alive()).To(BeFalse())
	})

	It("weights the merged state by mass", func() {
		bodies := []dynamo.Body{
			body(1, 3, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, 0}),
			body(2, 1, mgl64.Vec3{0.4, 0, 0}, mgl64.Vec3{0, 4, 0}),
		}

		resolver.Resolve(bodies)

		Expect(bodies[0].Mass).To(Equal(4.0))
		expectVec(bodies[0].Position, mgl64.Vec3{0.1, 0, 0}, 1e-15)
		expectVec(bodies[0].Velocity, mgl64.Vec3{0, 1, 0}, 1e-15)
	})

	It("treats exact contact as touching", func() {
		a := body(1, 1, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{})
		b := body(2, 1, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{})
		c := body(3, 1, mgl64.Vec3{1.0001, 0, 0}, mgl64.Vec3{})

		Expect(resolver.Touching(a, b)).To(BeTrue())
		Expect(resolver.Touching(a, c)).To(BeFalse())
	})

	It("leaves separated bodies alone", func() {
		bodies := []dynamo.Body{
			body(1, 1, mgl64.Vec3{0, 0, 2}, mgl64.Vec3{0, 1, 0}),
			body(2, 1, mgl64.Vec3{0, 0, -2}, mgl64.Vec3{0, -1, 0}),
		}
		before := append([]dynamo.Body(nil), bodies...)

		Expect(resolver.Resolve(bodies)).To(BeEmpty())
		Expect(bodies).To(Equal(before))
	})

	It("collapses a chain of overlaps in one pass", func() {
		// 1 and 3 are out of reach of each other until 1 absorbs 2
		bodies := []dynamo.Body{
			body(1, 1, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}),
			body(2, 1, mgl64.Vec3{0.9, 0, 0}, mgl64.Vec3{0, 2, 0}),
			body(3, 1, mgl64.Vec3{1.5, 0, 0}, mgl64.Vec3{0, 0, 3}),
		}
		p0 := physics.Momentum(bodies)
		Expect(resolver.Touching(bodies[0], bodies[2])).To(BeFalse())

		merges := resolver.Resolve(bodies)

		Expect(merges).To(HaveLen(2))
		Expect(liveCount(bodies)).To(Equal(1))
		Expect(bodies[0].Mass).To(Equal(3.0))
		expectVec(bodies[0].Position, mgl64.Vec3{0.8, 0, 0}, 1e-12)
		expectVec(physics.Momentum(bodies), p0, 1e-12)
	})

	It("collapses three mutually touching bodies in any arena order", func() {
		masses := []float64{1, 2, 3}
		positions := []mgl64.Vec3{{0, 0, 0}, {0.1, 0, 0}, {0.2, 0, 0}}
		velocities := []mgl64.Vec3{{1, 0, 0}, {0, 2, 0}, {0, 0, 3}}
		orders := [][]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}

		var want mgl64.Vec3
		for i, m := range masses {
			want = want.Add(velocities[i].Mul(m))
		}

		for _, order := range orders {
			bodies := make([]dynamo.Body, 0, len(order))
			for slot, i := range order {
				bodies = append(bodies, body(dynamo.ID(slot+1), masses[i], positions[i], velocities[i]))
			}

			merges := resolver.Resolve(bodies)

			Expect(merges).To(HaveLen(2), "order %v", order)
			Expect(liveCount(bodies)).To(Equal(1), "order %v", order)
			Expect(bodies[0].Alive()).To(BeTrue(), "order %v", order)
			Expect(bodies[0].Mass).To(Equal(6.0), "order %v", order)
			expectVec(physics.Momentum(bodies), want, 1e-12)
		}
	})

	It("conserves mass and momentum across many merges", func() {
		var bodies []dynamo.Body
		for i := 0; i < 6; i++ {
			x := float64(i) * 0.3
			bodies = append(bodies, body(dynamo.ID(i+1), float64(i+1), mgl64.Vec3{x, -x, 0.1 * x}, mgl64.Vec3{x, 1 - x, 2}))
		}
		m0 := physics.TotalMass(bodies)
		p0 := physics.Momentum(bodies)

		resolver.Resolve(bodies)

		Expect(physics.TotalMass(bodies)).To(BeNumerically("~", m0, 1e-12))
		expectVec(physics.Momentum(bodies), p0, 1e-12)
		Expect(liveCount(bodies)).To(Equal(1))
	})

	It("skips tombstones", func() {
		bodies := []dynamo.Body{
			body(1, 1, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{}),
			body(2, 0, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{}),
		}

		Expect(resolver.Resolve(bodies)).To(BeEmpty())
		Expect(bodies[0].Mass).To(Equal(1.0))
	})
})

var _ = Describe("Invariants", func() {
	bodies := []dynamo.Body{
		body(1, 2, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0}),
		body(2, 2, mgl64.Vec3{-1, 0, 0}, mgl64.Vec3{0, -1, 0}),
		body(3, 0, mgl64.Vec3{9, 9, 9}, mgl64.Vec3{9, 9, 9}),
	}

	It("ignores tombstones in totals", func() {
		Expect(physics.TotalMass(bodies)).To(Equal(4.0))
		expectVec(physics.Momentum(bodies), mgl64.Vec3{}, 0)
		expectVec(physics.CenterOfMass(bodies), mgl64.Vec3{}, 0)
	})

	It("computes energy and angular momentum", func() {
		Expect(physics.KineticEnergy(bodies)).To(Equal(2.0))
		Expect(physics.PotentialEnergy(bodies, 8)).To(Equal(-16.0))
		Expect(physics.Energy(bodies, 8)).To(Equal(-14.0))
		expectVec(physics.AngularMomentum(bodies), mgl64.Vec3{0, 0, 4}, 1e-15)
	})

	It("returns the origin for an empty system", func() {
		expectVec(physics.CenterOfMass(nil), mgl64.Vec3{}, 0)
	})
})
