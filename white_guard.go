package highlights

// Guard reverts compressed towards original when original is within
// whiteGuard of pure white, reaching original exactly at 1.
// A non-positive whiteGuard disables the guard.
func Guard(compressed, original, whiteGuard float32) float32 {
	if whiteGuard <= 0 {
		return compressed
	}
	width := whiteGuard
	if width < epsilon {
		width = epsilon
	}
	t := Smoothstep((original - (1 - whiteGuard)) / width)
	return compressed*(1-t) + original*t
}

// GuardPlane applies Guard element-wise.
func GuardPlane(compressed, original *Plane, whiteGuard float32) *Plane {
	out := NewPlane(compressed.Width, compressed.Height)
	for i, c := range compressed.Pix {
		out.Pix[i] = Guard(c, original.Pix[i], whiteGuard)
	}
	return out
}
