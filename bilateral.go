package highlights

import (
	"math"

	"github.com/chewxy/math32"
)

// Smoother is an edge-preserving smoothing filter over a single channel.
//
// sigmaColor bounds the tonal difference that still gets averaged,
// sigmaSpace sets the spatial extent of the averaging.
type Smoother interface {
	Smooth(p *Plane, sigmaColor, sigmaSpace float32) *Plane
}

// BilateralFilter is a brute-force bilateral filter with a circular window
// of radius round(1.5·sigmaSpace) and mirrored borders.
type BilateralFilter struct {
	// Workers splits rows across goroutines, values <= 1 keep the filter on the calling goroutine.
	Workers int
}

var _ Smoother = BilateralFilter{}

type bilateralTap struct {
	offset int
	weight float32
}

// Smooth implements Smoother.
func (f BilateralFilter) Smooth(p *Plane, sigmaColor, sigmaSpace float32) *Plane {
	if sigmaColor <= 0 {
		sigmaColor = 1
	}
	if sigmaSpace <= 0 {
		sigmaSpace = 1
	}
	radius := int(math.RoundToEven(float64(sigmaSpace) * 1.5))
	if radius < 1 {
		radius = 1
	}
	colorCoeff := -0.5 / (sigmaColor * sigmaColor)
	spaceCoeff := -0.5 / (sigmaSpace * sigmaSpace)

	w, h := p.Width, p.Height
	padded, pw := padReflect101(p, radius)

	taps := make([]bilateralTap, 0, (2*radius+1)*(2*radius+1))
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			r := math32.Sqrt(float32(dx*dx + dy*dy))
			if r > float32(radius) {
				continue
			}
			taps = append(taps, bilateralTap{
				offset: dy*pw + dx,
				weight: math32.Exp(r * r * spaceCoeff),
			})
		}
	}

	// Range weights for whole-level differences, the common case for 8-bit lightness.
	var colorLUT [256]float32
	for i := range colorLUT {
		d := float32(i)
		colorLUT[i] = math32.Exp(d * d * colorCoeff)
	}
	colorWeight := func(d float32) float32 {
		d = math32.Abs(d)
		if di := int(d); di < len(colorLUT) && float32(di) == d {
			return colorLUT[di]
		}
		return math32.Exp(d * d * colorCoeff)
	}

	out := NewPlane(w, h)
	parallelFor(h, f.Workers, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				c := (y+radius)*pw + x + radius
				center := padded[c]
				var sum, wsum float32
				for _, t := range taps {
					v := padded[c+t.offset]
					wt := t.weight * colorWeight(v-center)
					sum += wt * v
					wsum += wt
				}
				out.Pix[y*w+x] = sum / wsum
			}
		}
	})
	return out
}

// padReflect101 returns a copy of p with radius pixels of mirrored border
// on each side (dcb|abcd|cba) and the padded row width.
func padReflect101(p *Plane, radius int) ([]float32, int) {
	w, h := p.Width, p.Height
	pw, ph := w+2*radius, h+2*radius
	out := make([]float32, pw*ph)
	for y := 0; y < ph; y++ {
		sy := reflect101(y-radius, h)
		src := p.Pix[sy*w : sy*w+w]
		dst := out[y*pw : y*pw+pw]
		copy(dst[radius:radius+w], src)
		for x := 0; x < radius; x++ {
			dst[x] = src[reflect101(x-radius, w)]
			dst[radius+w+x] = src[reflect101(w+x, w)]
		}
	}
	return out, pw
}

func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		} else {
			i = 2*n - 2 - i
		}
	}
	return i
}
