package highlights

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/clone"
)

// Pipeline holds the color space and smoothing capabilities used to adjust highlights.
// Zero value uses Lab and a single-threaded BilateralFilter.
type Pipeline struct {
	ColorSpace ColorSpace
	Smoother   Smoother
}

// Adjust runs split, base/detail, compress, guard and compose on img.
// Parameters are clamped with Params.Normalized. The input is not modified.
func (pl Pipeline) Adjust(img *Image, p Params) (*Image, error) {
	cs := pl.ColorSpace
	if cs == nil {
		cs = Lab{}
	}
	p = p.Normalized()

	lab, err := cs.Split(img)
	if err != nil {
		return nil, fmt.Errorf("split: %w", err)
	}

	base := ExtractBase(lab.L, p.SigmaColor, p.SigmaSpace, pl.Smoother, p.PreciseBase)
	detail := Detail(lab.L, base)

	baseN := normalizeBase(base)
	compressed := CompressPlane(baseN, p.Knee, p.Strength, p.Rolloff)
	guarded := GuardPlane(compressed, baseN, p.WhiteGuard)

	out, err := cs.Merge(&LabPlanes{L: Compose(guarded, detail), A: lab.A, B: lab.B})
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	return out, nil
}

// AdjustHighlights recovers blown highlights of img with the default Pipeline.
func AdjustHighlights(img *Image, p Params) (*Image, error) {
	return Pipeline{}.Adjust(img, p)
}

// Adjust is AdjustHighlights for image.Image values.
// Options are applied on top of DefaultParams.
func Adjust(img image.Image, opts ...func(p *Params)) (*image.RGBA, error) {
	p := DefaultParams()
	for _, applyOpt := range opts {
		applyOpt(&p)
	}
	out, err := AdjustHighlights(FromImage(img), p)
	if err != nil {
		return nil, err
	}
	return out.RGBA(), nil
}

// FromImage copies any image.Image into an RGB buffer, dropping alpha.
func FromImage(img image.Image) *Image {
	rgba := clone.AsRGBA(img)
	b := rgba.Bounds()
	out := NewImage(b.Dx(), b.Dy())
	for y := 0; y < out.Height; y++ {
		src := rgba.Pix[y*rgba.Stride:]
		dst := out.Pix[y*out.Stride:]
		for x := 0; x < out.Width; x++ {
			dst[x*3] = src[x*4]
			dst[x*3+1] = src[x*4+1]
			dst[x*3+2] = src[x*4+2]
		}
	}
	return out
}
