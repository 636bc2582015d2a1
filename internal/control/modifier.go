package control

// Modifier returns the multiplier for an adjustment: factor when coarse is
// held, 1/factor when fine is held, 1 when both or neither are.
func Modifier(coarse, fine bool, factor float64) float64 {
	m := 1.0
	if coarse {
		m *= factor
	}
	if fine {
		m /= factor
	}
	return m
}

// RateDelta is the clock rate change for one step up (dir > 0) or down.
func RateDelta(dir int, sensitivity, modifier float64) float64 {
	switch {
	case dir > 0:
		return sensitivity * modifier
	case dir < 0:
		return -sensitivity * modifier
	default:
		return 0
	}
}
