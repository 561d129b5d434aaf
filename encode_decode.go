package highlights

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/xfmoulet/qoi"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp" // Register WebP decoder.
)

var (
	// ErrNotImage is returned for files recognized as something other than an image.
	ErrNotImage = errors.New("not an image")
	// ErrUnsupportedFormat is returned for output extensions without an encoder.
	ErrUnsupportedFormat = errors.New("unsupported output format")
)

// EncodeOptions controls output encoding.
type EncodeOptions struct {
	Quality       int    // JPEG quality (1-100), 0 means 95
	MaxSide       int    // if > 0, images with a longer side are downscaled to fit
	Interpolation Interpolation
	Exif          []byte // EXIF APP1 payload to embed into JPEG output
}

// DecodeFile reads and decodes an image file into an RGB buffer.
// For JPEG inputs the EXIF payload is returned as well (nil if absent).
func DecodeFile(path string) (*Image, []byte, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, nil, err
	}
	return Decode(data)
}

// Decode decodes an encoded image into an RGB buffer.
func Decode(data []byte) (*Image, []byte, error) {
	if kind, _ := filetype.Match(data); kind != filetype.Unknown && !filetype.IsImage(data) {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotImage, kind.MIME.Value)
	}
	m, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("decode: %w", err)
	}
	img := FromImage(m)
	if err := img.validate(); err != nil {
		return nil, nil, err
	}

	var exif []byte
	if isJPEG(data) {
		// EXIF is carried over on a best effort basis, a broken segment table is not fatal.
		exif, _ = extractExif(data)
	}
	return img, exif, nil
}

// EncodeFile encodes img in the format implied by the path extension and writes it.
func EncodeFile(path string, img image.Image, opt EncodeOptions) error {
	data, err := Encode(img, formatFromPath(path), opt)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Clean(path), data, 0o644)
}

// Encode encodes img as jpeg, png, gif, bmp, tiff or qoi.
func Encode(img image.Image, format string, opt EncodeOptions) ([]byte, error) {
	if opt.MaxSide > 0 {
		img = fitMaxSide(img, opt.MaxSide, opt.Interpolation)
	}
	var buf bytes.Buffer
	var err error
	switch format {
	case "jpeg":
		quality := opt.Quality
		if quality <= 0 {
			quality = defaultJPEGQuality
		}
		if quality > 100 {
			quality = 100
		}
		if err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			break
		}
		if len(opt.Exif) > 0 {
			return insertExif(buf.Bytes(), opt.Exif)
		}
	case "png":
		err = png.Encode(&buf, img)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	case "bmp":
		err = bmp.Encode(&buf, img)
	case "tiff":
		err = tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Deflate})
	case "qoi":
		err = qoi.Encode(&buf, img)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

func canEncode(format string) bool {
	switch format {
	case "jpeg", "png", "gif", "bmp", "tiff", "qoi":
		return true
	default:
		return false
	}
}

func formatFromPath(path string) string {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".tif", ".tiff":
		return "tiff"
	default:
		return strings.TrimPrefix(ext, ".")
	}
}
