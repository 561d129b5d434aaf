package highlights

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	markerStart = 0xFF
	markerSOI   = 0xD8
	markerEOI   = 0xD9
	markerSOS   = 0xDA
	markerAPP1  = 0xE1
)

var (
	exifSig = []byte{'E', 'x', 'i', 'f', 0, 0}

	errInvalidJPEG = errors.New("invalid jpeg")
)

func isJPEG(data []byte) bool {
	return len(data) >= 4 && data[0] == markerStart && data[1] == markerSOI
}

// extractExif returns the first EXIF APP1 payload of a JPEG, nil if there is none.
func extractExif(jpegData []byte) ([]byte, error) {
	if !isJPEG(jpegData) {
		return nil, errInvalidJPEG
	}
	pos := 2
	for pos+3 < len(jpegData) {
		if jpegData[pos] != markerStart {
			pos++
			continue
		}
		for pos < len(jpegData) && jpegData[pos] == markerStart {
			pos++
		}
		if pos >= len(jpegData) {
			break
		}
		marker := jpegData[pos]
		pos++
		if marker == markerSOS || marker == markerEOI {
			break
		}
		if marker >= 0xD0 && marker <= 0xD7 {
			continue
		}
		if pos+1 >= len(jpegData) {
			return nil, errors.New("truncated marker")
		}
		segLen := int(binary.BigEndian.Uint16(jpegData[pos:]))
		if segLen < 2 || pos+segLen > len(jpegData) {
			return nil, errors.New("invalid segment length")
		}
		seg := jpegData[pos+2 : pos+segLen]
		if marker == markerAPP1 && bytes.HasPrefix(seg, exifSig) {
			return append([]byte(nil), seg...), nil
		}
		pos += segLen
	}
	return nil, nil
}

func writeAppSegment(out *bytes.Buffer, marker byte, payload []byte) {
	out.WriteByte(markerStart)
	out.WriteByte(marker)
	length := uint16(len(payload) + 2)
	out.WriteByte(byte(length >> 8))
	out.WriteByte(byte(length))
	out.Write(payload)
}

// insertExif inserts an EXIF APP1 segment right after SOI.
func insertExif(jpegData, exif []byte) ([]byte, error) {
	if !isJPEG(jpegData) {
		return nil, errInvalidJPEG
	}
	if len(exif)+2 > 0xFFFF {
		return nil, errors.New("exif segment too large")
	}
	var out bytes.Buffer
	out.Grow(len(jpegData) + len(exif) + 4)
	out.WriteByte(markerStart)
	out.WriteByte(markerSOI)
	writeAppSegment(&out, markerAPP1, exif)
	out.Write(jpegData[2:])
	return out.Bytes(), nil
}
