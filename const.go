package highlights

const (
	defaultKnee       = 0.60
	defaultStrength   = 0.90
	defaultRolloff    = 0.20
	defaultWhiteGuard = 0.03
	defaultSigmaColor = 18.0
	defaultSigmaSpace = 9.0
)

const (
	// epsilon floors the rolloff and white guard denominators.
	epsilon = 1e-6

	defaultSuffix      = "_hl"
	defaultExt         = ".jpg"
	defaultJPEGQuality = 95
)
