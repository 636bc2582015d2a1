// Package dynamo provides the core body primitives of the gravity simulation.
//
// The package defines the simulated point masses and the store that owns them:
//
//   - [Body]: a point mass with position, velocity and a mass-derived radius
//   - [Store]: an arena of bodies with stable identifiers and a liveness flag
//   - [Radius] and [MassForRadius]: the cube-root mass/radius mapping
//
// A body with positive mass is live. A body with zero mass is a tombstone: it
// is ignored by every physics pass and removed by [Store.Purge].
//
// # Example
//
//	st := dynamo.NewStore()
//	id, _ := st.Create(1, mgl64.Vec3{0, 0, 2}, mgl64.Vec3{0, 1, 0})
//	for _, b := range st.Live() {
//	    fmt.Println(b.ID, b.Radius(0.5))
//	}
//
// # Thread Safety
//
// Store instances are NOT thread-safe. The tick pipeline owns the store for
// the duration of a tick; external requests are queued and applied between
// ticks by the simulator.
package dynamo
