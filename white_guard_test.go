package highlights

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuardWhiteLimit(t *testing.T) {
	for _, wg := range []float32{0.01, 0.03, 0.1} {
		for _, c := range []float32{0, 0.3, 0.9, 1} {
			assert.Equal(t, float32(1), Guard(c, 1, wg))
			assert.InDelta(t, 1, Guard(c, 0.99999, wg), 1e-3)
		}
	}
}

func TestGuardBelowBand(t *testing.T) {
	assert.Equal(t, float32(0.5), Guard(0.5, 0.9, 0.03))
	assert.Equal(t, float32(0.5), Guard(0.5, 0.97, 0.03))
}

func TestGuardDisabled(t *testing.T) {
	for _, wg := range []float32{0, -0.2} {
		assert.Equal(t, float32(0.42), Guard(0.42, 1, wg))
		assert.Equal(t, float32(0.42), Guard(0.42, 0.99, wg))
	}
}

func TestGuardHalfway(t *testing.T) {
	// Middle of the band: smoothstep(0.5) = 0.5.
	assert.InDelta(t, 0.5*0.8+0.5*0.95, Guard(0.8, 0.95, 0.1), 1e-6)
}

func TestCompressGuardApproachingWhite(t *testing.T) {
	const (
		knee       = 0.6
		strength   = 0.9
		rolloff    = 0.2
		whiteGuard = 0.03
	)

	values := []float32{0.9, 0.95, 0.99, 1.0}
	deltas := make([]float32, len(values))
	for i, x := range values {
		deltas[i] = x - Guard(Compress(x, knee, strength, rolloff), x, whiteGuard)
	}

	for i := 1; i < len(deltas); i++ {
		assert.Less(t, deltas[i], deltas[i-1], "darkening must shrink towards white: %v", deltas)
	}
	assert.InDelta(t, 0, deltas[len(deltas)-1], 1e-6)
	assert.InDelta(t, 0.2228, deltas[0], 1e-3)
	assert.InDelta(t, 0.0068, deltas[2], 1e-3)
}

func TestGuardPlane(t *testing.T) {
	compressed := &Plane{Width: 2, Height: 1, Pix: []float32{0.5, 0.8}}
	original := &Plane{Width: 2, Height: 1, Pix: []float32{0.7, 1}}

	out := GuardPlane(compressed, original, 0.03)
	assert.Equal(t, []float32{0.5, 1}, out.Pix)
}
