package physics_test

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
)

var _ = Describe("Engine", func() {
	var engine *physics.Engine

	BeforeEach(func() {
		engine = physics.NewEngine(8)
	})

	It("applies equal and opposite accelerations scaled by the other mass", func() {
		bodies := []dynamo.Body{
			body(1, 1, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{}),
			body(2, 3, mgl64.Vec3{2, 0, 0}, mgl64.Vec3{}),
		}

		acc := engine.Accelerations(bodies)

		// G*m/d^2 = 8*3/4 toward +x, 8*1/4 toward -x
		expectVec(acc[0], mgl64.Vec3{6, 0, 0}, 1e-12)
		expectVec(acc[1], mgl64.Vec3{-2, 0, 0}, 1e-12)
		expectVec(acc[0].Mul(1).Add(acc[1].Mul(3)), mgl64.Vec3{}, 1e-12)
	})

	It("updates velocity before position", func() {
		bodies := []dynamo.Body{
			body(1, 1, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{}),
			body(2, 1, mgl64.Vec3{2, 0, 0}, mgl64.Vec3{}),
		}

		engine.Step(bodies, 0.1)

		// a = 2, v = 0.2, x = v*dt = 0.02 with the fresh velocity
		expectVec(bodies[0].Velocity, mgl64.Vec3{0.2, 0, 0}, 1e-12)
		expectVec(bodies[0].Position, mgl64.Vec3{0.02, 0, 0}, 1e-12)
		expectVec(bodies[1].Position, mgl64.Vec3{1.98, 0, 0}, 1e-12)
	})

	It("conserves momentum when no merge happens", func() {
		bodies := []dynamo.Body{
			body(1, 1, mgl64.Vec3{0, 0, 2}, mgl64.Vec3{0, 1, 0}),
			body(2, 1, mgl64.Vec3{0, 0, -2}, mgl64.Vec3{0, -1, 0}),
		}
		initial := physics.Momentum(bodies)

		for i := 0; i < 500; i++ {
			engine.Step(bodies, 0.001)
		}

		expectVec(physics.Momentum(bodies), initial, 1e-12)
	})

	It("is a no-op when dt is zero", func() {
		bodies := []dynamo.Body{
			body(1, 1, mgl64.Vec3{0.3, 0, 2}, mgl64.Vec3{0, 1, 0}),
			body(2, 2, mgl64.Vec3{0, 0.7, -2}, mgl64.Vec3{0, -1, 0.5}),
		}
		before := append([]dynamo.Body(nil), bodies...)

		for i := 0; i < 10; i++ {
			engine.Step(bodies, 0)
		}

		Expect(bodies).To(Equal(before))
	})

	It("skips coincident pairs without producing NaN", func() {
		bodies := []dynamo.Body{
			body(1, 1, mgl64.Vec3{1, 1, 1}, mgl64.Vec3{0, 1, 0}),
			body(2, 1, mgl64.Vec3{1, 1, 1}, mgl64.Vec3{0, -1, 0}),
		}

		engine.Step(bodies, 0.016)

		Expect(physics.Finite(bodies)).To(BeTrue())
		expectVec(bodies[0].Velocity, mgl64.Vec3{0, 1, 0}, 0)
		expectVec(bodies[1].Velocity, mgl64.Vec3{0, -1, 0}, 0)
	})

	It("ignores tombstones", func() {
		bodies := []dynamo.Body{
			body(1, 1, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{}),
			body(2, 0, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{5, 0, 0}),
		}

		engine.Step(bodies, 0.1)

		expectVec(bodies[0].Velocity, mgl64.Vec3{}, 0)
		expectVec(bodies[1].Position, mgl64.Vec3{1, 0, 0}, 0)
	})

	It("does not depend on body order beyond rounding", func() {
		bodies := []dynamo.Body{
			body(1, 1, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{}),
			body(2, 2, mgl64.Vec3{3, 1, 0}, mgl64.Vec3{}),
			body(3, 5, mgl64.Vec3{-1, 4, 2}, mgl64.Vec3{}),
			body(4, 0.5, mgl64.Vec3{2, -2, -3}, mgl64.Vec3{}),
		}
		reversed := []dynamo.Body{bodies[3], bodies[2], bodies[1], bodies[0]}

		forward := append([]mgl64.Vec3(nil), engine.Accelerations(bodies)...)
		backward := append([]mgl64.Vec3(nil), physics.NewEngine(8).Accelerations(reversed)...)

		for i := range forward {
			expectVec(forward[i], backward[len(backward)-1-i], 1e-12)
		}
	})

	It("keeps energy bounded on a circular orbit", func() {
		// v = sqrt(G*M/(4r)) for two equal masses at separation 2r
		r := 2.0
		v := math.Sqrt(8 * 1 / (4 * r))
		bodies := []dynamo.Body{
			body(1, 1, mgl64.Vec3{0, 0, r}, mgl64.Vec3{v, 0, 0}),
			body(2, 1, mgl64.Vec3{0, 0, -r}, mgl64.Vec3{-v, 0, 0}),
		}
		e0 := physics.Energy(bodies, 8)

		for i := 0; i < 2000; i++ {
			engine.Step(bodies, 0.001)
		}

		Expect(math.Abs(physics.Energy(bodies, 8)-e0) / math.Abs(e0)).To(BeNumerically("<", 1e-2))
	})
})
