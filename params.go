package highlights

import (
	"errors"
	"fmt"
)

// ErrParam is returned by Params.Validate for values outside their documented range.
var ErrParam = errors.New("parameter out of range")

// Params controls the highlight recovery effect.
type Params struct {
	// Knee is the normalized base level where compression begins, [0, 1].
	Knee float32 `toml:"knee" yaml:"knee"`
	// Strength maps to the curve exponent 1+3·Strength, [0, 1].
	Strength float32 `toml:"strength" yaml:"strength"`
	// Rolloff is the width of the transition above the knee, (0, 1].
	Rolloff float32 `toml:"rolloff" yaml:"rolloff"`
	// WhiteGuard is the width of the protected band below pure white, typically [0, 0.1].
	WhiteGuard float32 `toml:"white_guard" yaml:"white_guard"`
	// SigmaColor is the tonal radius of the edge-preserving smoothing, on the 0..255 lightness scale.
	SigmaColor float32 `toml:"sigma_color" yaml:"sigma_color"`
	// SigmaSpace is the spatial radius of the edge-preserving smoothing, in pixels.
	SigmaSpace float32 `toml:"sigma_space" yaml:"sigma_space"`
	// PreciseBase smooths lightness in float instead of whole 8-bit levels.
	PreciseBase bool `toml:"precise_base" yaml:"precise_base"`
}

// DefaultParams returns the default effect parameters.
func DefaultParams() Params {
	return Params{
		Knee:       defaultKnee,
		Strength:   defaultStrength,
		Rolloff:    defaultRolloff,
		WhiteGuard: defaultWhiteGuard,
		SigmaColor: defaultSigmaColor,
		SigmaSpace: defaultSigmaSpace,
	}
}

// Validate reports every value outside its documented range.
func (p Params) Validate() error {
	var errs []error
	check := func(name string, v float32, ok bool, rng string) {
		if isNaN(v) || !ok {
			errs = append(errs, fmt.Errorf("%w: %s %v outside %s", ErrParam, name, v, rng))
		}
	}
	check("knee", p.Knee, p.Knee >= 0 && p.Knee <= 1, "[0, 1]")
	check("strength", p.Strength, p.Strength >= 0 && p.Strength <= 1, "[0, 1]")
	check("rolloff", p.Rolloff, p.Rolloff > 0 && p.Rolloff <= 1, "(0, 1]")
	check("white guard", p.WhiteGuard, p.WhiteGuard >= 0 && p.WhiteGuard <= 1, "[0, 1]")
	check("sigma color", p.SigmaColor, p.SigmaColor > 0, "(0, inf)")
	check("sigma space", p.SigmaSpace, p.SigmaSpace > 0, "(0, inf)")
	return errors.Join(errs...)
}

// Normalized returns a copy with every value clamped into range.
// NaN values fall back to defaults, non-positive sigmas become 1,
// negative rolloff and white guard become 0.
func (p Params) Normalized() Params {
	def := DefaultParams()
	orDefault := func(v, d float32) float32 {
		if isNaN(v) {
			return d
		}
		return v
	}
	p.Knee = clamp01(orDefault(p.Knee, def.Knee))
	p.Strength = clamp01(orDefault(p.Strength, def.Strength))
	p.Rolloff = clamp01(orDefault(p.Rolloff, def.Rolloff))
	p.WhiteGuard = clamp01(orDefault(p.WhiteGuard, def.WhiteGuard))
	p.SigmaColor = orDefault(p.SigmaColor, def.SigmaColor)
	p.SigmaSpace = orDefault(p.SigmaSpace, def.SigmaSpace)
	if p.SigmaColor <= 0 {
		p.SigmaColor = 1
	}
	if p.SigmaSpace <= 0 {
		p.SigmaSpace = 1
	}
	return p
}
