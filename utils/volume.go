// SPDX-License-Identifier: EPL-2.0

package utils

// Clamp01 limits a volume factor to [0,1].
func Clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}

	return v
}

// Lerp interpolates linearly between from and to. t is clamped to [0,1],
// so a ramp that overshoots its deadline lands exactly on to.
func Lerp(from, to, t float64) float64 {
	t = Clamp01(t)
	return from + (to-from)*t
}
