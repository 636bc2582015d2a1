// Package physics implements the per-tick physics passes of the simulation.
//
//   - [Engine]: pairwise Newtonian gravity with semi-implicit Euler integration
//   - [Resolver]: perfectly inelastic merge-on-contact collision resolution
//
// Both passes operate in place on a [dynamo.Store] arena and ignore tombstones.
//
// # Conservation
//
// Helpers such as [Momentum], [TotalMass] and [Energy] compute the conserved
// quantities of a body set, which is how the passes are checked:
//
//	before := physics.Momentum(st.Live())
//	engine.Step(st.Arena(), dt)
//	after := physics.Momentum(st.Live())
//
// Merges conserve mass and momentum exactly but dissipate kinetic energy.
package physics
