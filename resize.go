package highlights

import (
	"fmt"
	"image"
	"strings"

	"github.com/nfnt/resize"
)

// Interpolation selects the resampling kernel used to downscale outputs.
// Zero value is Lanczos3.
type Interpolation int

const (
	// InterpolationLanczos3 is Lanczos sampling with a=3.
	InterpolationLanczos3 Interpolation = iota
	// InterpolationLanczos2 is Lanczos sampling with a=2.
	InterpolationLanczos2
	// InterpolationMitchellNetravali is Mitchell-Netravali sampling.
	InterpolationMitchellNetravali
	// InterpolationBicubic is cubic sampling.
	InterpolationBicubic
	// InterpolationBilinear is linear sampling.
	InterpolationBilinear
	// InterpolationNearest is nearest-neighbor sampling.
	InterpolationNearest
)

var interpolationNames = map[Interpolation]string{
	InterpolationLanczos3:          "lanczos3",
	InterpolationLanczos2:          "lanczos2",
	InterpolationMitchellNetravali: "mitchell",
	InterpolationBicubic:           "bicubic",
	InterpolationBilinear:          "bilinear",
	InterpolationNearest:           "nearest",
}

func (i Interpolation) String() string {
	if name, ok := interpolationNames[i]; ok {
		return name
	}
	return fmt.Sprintf("Interpolation(%d)", int(i))
}

// ParseInterpolation resolves a kernel name as printed by Interpolation.String.
func ParseInterpolation(name string) (Interpolation, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for interp, n := range interpolationNames {
		if n == name {
			return interp, nil
		}
	}
	return 0, fmt.Errorf("unknown interpolation %q", name)
}

func (i Interpolation) kernel() resize.InterpolationFunction {
	switch i {
	case InterpolationLanczos2:
		return resize.Lanczos2
	case InterpolationMitchellNetravali:
		return resize.MitchellNetravali
	case InterpolationBicubic:
		return resize.Bicubic
	case InterpolationBilinear:
		return resize.Bilinear
	case InterpolationNearest:
		return resize.NearestNeighbor
	default:
		return resize.Lanczos3
	}
}

// fitMaxSide downscales img so that neither side exceeds maxSide, keeping the aspect ratio.
func fitMaxSide(img image.Image, maxSide int, interp Interpolation) image.Image {
	b := img.Bounds()
	if b.Dx() <= maxSide && b.Dy() <= maxSide {
		return img
	}
	return resize.Thumbnail(uint(maxSide), uint(maxSide), img, interp.kernel())
}
