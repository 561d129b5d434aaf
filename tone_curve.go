package highlights

import "github.com/chewxy/math32"

// Compress applies the highlight knee curve to a normalized base value.
//
// Below knee the value is returned as is. Above knee it is blended towards
// x^(1+3·strength) over a smoothstep transition of width rolloff.
// Rolloff below 1e-6 is treated as 1e-6, which makes the transition a step.
func Compress(x, knee, strength, rolloff float32) float32 {
	x = clamp01(x)
	if rolloff < epsilon {
		rolloff = epsilon
	}
	w := Smoothstep((x - knee) / rolloff)
	if w == 0 {
		return x
	}
	gamma := 1 + 3*strength
	target := math32.Pow(math32.Max(x, epsilon), gamma)
	return (1-w)*x + w*target
}

// CompressPlane applies Compress to every value of a normalized plane.
func CompressPlane(p *Plane, knee, strength, rolloff float32) *Plane {
	out := NewPlane(p.Width, p.Height)
	for i, v := range p.Pix {
		out.Pix[i] = Compress(v, knee, strength, rolloff)
	}
	return out
}
