package highlights

import (
	"cogentcore.org/core/colors/cam/cie"
	"github.com/chewxy/math32"
)

// ColorSpace separates an RGB buffer into lightness and chroma planes and back.
type ColorSpace interface {
	Split(img *Image) (*LabPlanes, error)
	Merge(lab *LabPlanes) (*Image, error)
}

// Lab is the sRGB (D65) <-> CIE L*a*b* ColorSpace quantized like an 8-bit Lab image.
type Lab struct{}

var _ ColorSpace = Lab{}

// Split implements ColorSpace.
func (Lab) Split(img *Image) (*LabPlanes, error) {
	return SplitLab(img)
}

// Merge implements ColorSpace.
func (Lab) Merge(lab *LabPlanes) (*Image, error) {
	return MergeLab(lab)
}

// srgbLinear maps 8-bit sRGB codes to linear light.
var srgbLinear = func() (lut [256]float32) {
	for i := range lut {
		lut[i] = cie.SRGBToLinearComp(float32(i) / 255)
	}
	return lut
}()

// SplitLab converts an RGB image into L, A, B planes on the 8-bit Lab scale.
func SplitLab(img *Image) (*LabPlanes, error) {
	if err := img.validate(); err != nil {
		return nil, err
	}
	w, h := img.Width, img.Height
	lab := &LabPlanes{L: NewPlane(w, h), A: NewPlane(w, h), B: NewPlane(w, h)}
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < w; x++ {
			r := srgbLinear[row[x*3]]
			g := srgbLinear[row[x*3+1]]
			b := srgbLinear[row[x*3+2]]
			cx, cy, cz := cie.SRGBLinToXYZ(r, g, b)
			l, a, bb := cie.XYZToLAB(cx, cy, cz)

			i := y*w + x
			lab.L.Pix[i] = quantize(l * 255 / 100)
			lab.A.Pix[i] = quantize(a + 128)
			lab.B.Pix[i] = quantize(bb + 128)
		}
	}
	return lab, nil
}

// MergeLab converts L, A, B planes on the 8-bit Lab scale back to an RGB image.
func MergeLab(lab *LabPlanes) (*Image, error) {
	if lab == nil || lab.L == nil || lab.A == nil || lab.B == nil {
		return nil, ErrEmpty
	}
	w, h := lab.L.Width, lab.L.Height
	if w <= 0 || h <= 0 {
		return nil, ErrEmpty
	}
	n := w * h
	if len(lab.L.Pix) < n || len(lab.A.Pix) < n || len(lab.B.Pix) < n ||
		lab.A.Width != w || lab.A.Height != h || lab.B.Width != w || lab.B.Height != h {
		return nil, ErrBufferSize
	}
	out := NewImage(w, h)
	for i := 0; i < n; i++ {
		l := quantize(lab.L.Pix[i]) * 100 / 255
		a := quantize(lab.A.Pix[i]) - 128
		b := quantize(lab.B.Pix[i]) - 128
		cx, cy, cz := cie.LABToXYZ(l, a, b)
		rl, gl, bl := cie.XYZToSRGBLin(cx, cy, cz)
		r, g, bb := cie.SRGBFromLinear(clamp01(rl), clamp01(gl), clamp01(bl))
		out.Pix[i*3] = clampToByte(r * 255)
		out.Pix[i*3+1] = clampToByte(g * 255)
		out.Pix[i*3+2] = clampToByte(bb * 255)
	}
	return out, nil
}

// quantize rounds to the nearest 8-bit level.
func quantize(v float32) float32 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return math32.Floor(v + 0.5)
}
