package highlights

// Compose rebuilds lightness from a normalized base and the detail layer:
// clamp(base·255 + detail, 0, 255), rounded to whole 8-bit levels.
func Compose(finalBase, detail *Plane) *Plane {
	out := NewPlane(finalBase.Width, finalBase.Height)
	for i, b := range finalBase.Pix {
		out.Pix[i] = quantize(b*255 + detail.Pix[i])
	}
	return out
}
