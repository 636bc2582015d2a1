// Package control turns user input into simulation requests.
//
//   - [Modifier]: the coarse/fine multiplier applied to every adjustment
//   - [SpawnOptions]: the spawn size and speed selected with the scroll wheel,
//     and the body a "fire" produces
//
// # Usage
//
//	opts := control.NewSpawnOptions(cfg.Spawn, cfg.SpeedModifierFactor)
//	opts.Select(control.ModeSize)
//	opts.Scroll(1, control.Modifier(shift, alt, cfg.SpeedModifierFactor))
//	if cmd, ok := opts.Fire(cam.Position, cam.Forward(), cfg.BaseSphereRadius); ok {
//		simulator.Enqueue(cmd)
//	}
//
// Nothing here touches the body store directly; the resulting commands are
// queued and applied between ticks.
package control
