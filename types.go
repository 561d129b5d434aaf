package highlights

import (
	"errors"
	"fmt"
	"image"
)

var (
	// ErrChannels is returned for pixel buffers that are not 3-channel.
	ErrChannels = errors.New("image must have 3 channels")
	// ErrEmpty is returned for zero-sized pixel buffers.
	ErrEmpty = errors.New("image has zero area")
	// ErrBufferSize is returned when Pix is too short for the declared geometry.
	ErrBufferSize = errors.New("pixel buffer too small")
)

// Image is an interleaved 8-bit RGB pixel buffer.
type Image struct {
	Width    int
	Height   int
	Channels int
	Stride   int // bytes per row
	Pix      []uint8
}

// NewImage allocates a zeroed RGB image.
func NewImage(width, height int) *Image {
	return &Image{
		Width:    width,
		Height:   height,
		Channels: 3,
		Stride:   width * 3,
		Pix:      make([]uint8, width*height*3),
	}
}

func (m *Image) validate() error {
	if m == nil {
		return ErrEmpty
	}
	if m.Channels != 3 {
		return fmt.Errorf("%w: got %d", ErrChannels, m.Channels)
	}
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrEmpty, m.Width, m.Height)
	}
	if m.Stride < m.Width*3 || len(m.Pix) < m.Stride*(m.Height-1)+m.Width*3 {
		return fmt.Errorf("%w: %d bytes for %dx%d, stride %d", ErrBufferSize, len(m.Pix), m.Width, m.Height, m.Stride)
	}
	return nil
}

// At returns the RGB triplet at x, y.
func (m *Image) At(x, y int) (r, g, b uint8) {
	i := y*m.Stride + x*3
	return m.Pix[i], m.Pix[i+1], m.Pix[i+2]
}

// Set stores the RGB triplet at x, y.
func (m *Image) Set(x, y int, r, g, b uint8) {
	i := y*m.Stride + x*3
	m.Pix[i], m.Pix[i+1], m.Pix[i+2] = r, g, b
}

// RGBA converts the buffer to an opaque *image.RGBA.
func (m *Image) RGBA() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		src := m.Pix[y*m.Stride:]
		dst := out.Pix[y*out.Stride:]
		for x := 0; x < m.Width; x++ {
			dst[x*4] = src[x*3]
			dst[x*4+1] = src[x*3+1]
			dst[x*4+2] = src[x*3+2]
			dst[x*4+3] = 0xFF
		}
	}
	return out
}

// Plane is a single-channel float32 grid, row-major without padding.
type Plane struct {
	Width  int
	Height int
	Pix    []float32
}

// NewPlane allocates a zeroed plane.
func NewPlane(width, height int) *Plane {
	return &Plane{Width: width, Height: height, Pix: make([]float32, width*height)}
}

// At returns the value at x, y.
func (p *Plane) At(x, y int) float32 {
	return p.Pix[y*p.Width+x]
}

// LabPlanes holds lightness and chroma on the 8-bit Lab scale:
// L in [0, 255] (L*·255/100), A and B offset by 128.
type LabPlanes struct {
	L *Plane
	A *Plane
	B *Plane
}
