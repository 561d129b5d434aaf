package highlights

import "github.com/chewxy/math32"

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampToByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

func isNaN(v float32) bool {
	return math32.IsNaN(v)
}

// Smoothstep is t²(3−2t) with t clamped to [0, 1].
func Smoothstep(t float32) float32 {
	t = clamp01(t)
	return t * t * (3 - 2*t)
}
