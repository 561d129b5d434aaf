package highlights

// ExtractBase returns the edge-preserving base layer of a lightness plane.
//
// Lightness is clamped to [0, 255] before smoothing. Unless precise is set it is
// also rounded to whole 8-bit levels, and so is the resulting base, which keeps
// the base/detail split on the same grid as an 8-bit smoothing pass.
// A nil Smoother falls back to a single-threaded BilateralFilter.
func ExtractBase(l *Plane, sigmaColor, sigmaSpace float32, s Smoother, precise bool) *Plane {
	if s == nil {
		s = BilateralFilter{}
	}
	src := NewPlane(l.Width, l.Height)
	for i, v := range l.Pix {
		if precise {
			src.Pix[i] = clamp(v, 0, 255)
		} else {
			src.Pix[i] = quantize(v)
		}
	}
	base := s.Smooth(src, sigmaColor, sigmaSpace)
	if !precise {
		for i, v := range base.Pix {
			base.Pix[i] = quantize(v)
		}
	}
	return base
}

// Detail returns l − base.
func Detail(l, base *Plane) *Plane {
	out := NewPlane(l.Width, l.Height)
	for i, v := range l.Pix {
		out.Pix[i] = v - base.Pix[i]
	}
	return out
}

// normalizeBase maps a base plane from [0, 255] to [0, 1].
func normalizeBase(base *Plane) *Plane {
	out := NewPlane(base.Width, base.Height)
	for i, v := range base.Pix {
		out.Pix[i] = v / 255
	}
	return out
}
