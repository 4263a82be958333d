package blitboard

import "golang.org/x/exp/constraints"

// Clamp restricts v to the inclusive range [low, high].
func Clamp[T constraints.Integer](v, low, high T) T {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}
