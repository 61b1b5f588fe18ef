package ingest

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// Format is a sniffed image container format.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatGIF  Format = "gif"
	FormatWebP Format = "webp"
	FormatBMP  Format = "bmp"
)

// MIME returns the content type for preview rendering.
func (f Format) MIME() string {
	switch f {
	case FormatJPEG:
		return "image/jpeg"
	case FormatGIF:
		return "image/gif"
	case FormatWebP:
		return "image/webp"
	case FormatBMP:
		return "image/bmp"
	default:
		return "image/png"
	}
}

// ErrCorruptImage indicates the bytes do not parse as the sniffed format.
var ErrCorruptImage = errors.New("image data corrupt or truncated")

var (
	pngMagic  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
	gifMagic  = []byte{0x47, 0x49, 0x46, 0x38}
	riffMagic = []byte{0x52, 0x49, 0x46, 0x46}
	webpTag   = []byte{0x57, 0x45, 0x42, 0x50}
	bmpMagic  = []byte{0x42, 0x4D}
)

// DetectFormat sniffs the container format from the leading magic bytes.
// Unrecognized data defaults to PNG so preview rendering always has a
// content type to work with.
func DetectFormat(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, pngMagic):
		return FormatPNG
	case bytes.HasPrefix(data, jpegMagic):
		return FormatJPEG
	case bytes.HasPrefix(data, gifMagic):
		return FormatGIF
	case len(data) >= 12 && bytes.HasPrefix(data, riffMagic) && bytes.Equal(data[8:12], webpTag):
		return FormatWebP
	case bytes.HasPrefix(data, bmpMagic):
		return FormatBMP
	default:
		return FormatPNG
	}
}

// Dimensions probes width and height in pixels without decoding the full
// image. Used to scale attachment renditions proportionally in generated
// documents.
func Dimensions(data []byte) (width, height uint32, err error) {
	if len(data) == 0 {
		return 0, 0, ErrCorruptImage
	}
	switch DetectFormat(data) {
	case FormatPNG:
		return pngDimensions(data)
	case FormatJPEG:
		return jpegDimensions(data)
	case FormatGIF:
		return gifDimensions(data)
	case FormatWebP:
		return webpDimensions(data)
	case FormatBMP:
		return bmpDimensions(data)
	}
	return 0, 0, ErrCorruptImage
}

// pngDimensions reads the IHDR chunk, which the PNG spec requires first.
func pngDimensions(data []byte) (uint32, uint32, error) {
	if !bytes.HasPrefix(data, pngMagic) || len(data) < 24 {
		return 0, 0, ErrCorruptImage
	}
	pos := len(pngMagic)
	for pos+8 <= len(data) {
		chunkLen := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		if bytes.Equal(data[pos+4:pos+8], []byte("IHDR")) {
			if pos+16 > len(data) {
				return 0, 0, ErrCorruptImage
			}
			w := binary.BigEndian.Uint32(data[pos+8 : pos+12])
			h := binary.BigEndian.Uint32(data[pos+12 : pos+16])
			return checkDimensions(w, h)
		}
		// 8-byte header + data + 4-byte CRC
		next := pos + 8 + chunkLen + 4
		if chunkLen < 0 || next <= pos || next > len(data) {
			break
		}
		pos = next
	}
	return 0, 0, ErrCorruptImage
}

// jpegDimensions walks the marker segments until a start-of-frame marker.
func jpegDimensions(data []byte) (uint32, uint32, error) {
	pos := 2 // past SOI
	for pos+1 < len(data) {
		if data[pos] != 0xFF {
			break
		}
		marker := data[pos+1]
		pos += 2

		if isSOFMarker(marker) {
			if pos+7 > len(data) {
				return 0, 0, ErrCorruptImage
			}
			h := uint32(binary.BigEndian.Uint16(data[pos+3 : pos+5]))
			w := uint32(binary.BigEndian.Uint16(data[pos+5 : pos+7]))
			return checkDimensions(w, h)
		}

		if pos+2 > len(data) {
			break
		}
		segLen := int(binary.BigEndian.Uint16(data[pos : pos+2]))
		if segLen < 2 || pos+segLen > len(data) {
			break
		}
		pos += segLen
	}
	return 0, 0, ErrCorruptImage
}

// isSOFMarker matches SOF0-SOF15 excluding DHT/JPG/DAC (C4, C8, CC).
func isSOFMarker(m byte) bool {
	if m < 0xC0 || m > 0xCF {
		return false
	}
	return m != 0xC4 && m != 0xC8 && m != 0xCC
}

func gifDimensions(data []byte) (uint32, uint32, error) {
	if len(data) < 10 {
		return 0, 0, ErrCorruptImage
	}
	w := uint32(binary.LittleEndian.Uint16(data[6:8]))
	h := uint32(binary.LittleEndian.Uint16(data[8:10]))
	return checkDimensions(w, h)
}

// webpDimensions handles the lossy (VP8) and lossless (VP8L) variants.
func webpDimensions(data []byte) (uint32, uint32, error) {
	if len(data) < 30 {
		return 0, 0, ErrCorruptImage
	}
	pos := 12 // past RIFF size + WEBP tag
	for pos+8 < len(data) {
		chunkType := data[pos : pos+4]
		chunkSize := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		pos += 8

		switch {
		case bytes.Equal(chunkType, []byte("VP8 ")):
			if pos+10 > len(data) {
				return 0, 0, ErrCorruptImage
			}
			w := uint32(binary.LittleEndian.Uint16(data[pos+6:pos+8])) & 0x3FFF
			h := uint32(binary.LittleEndian.Uint16(data[pos+8:pos+10])) & 0x3FFF
			return checkDimensions(w, h)
		case bytes.Equal(chunkType, []byte("VP8L")):
			if pos+5 > len(data) {
				return 0, 0, ErrCorruptImage
			}
			bits := binary.LittleEndian.Uint32(data[pos+1 : pos+5])
			w := (bits & 0x3FFF) + 1
			h := ((bits >> 14) & 0x3FFF) + 1
			return checkDimensions(w, h)
		}

		if chunkSize < 0 || pos+chunkSize > len(data) {
			break
		}
		pos += chunkSize
		if chunkSize%2 == 1 {
			pos++ // chunks are 2-byte aligned
		}
	}
	return 0, 0, ErrCorruptImage
}

func bmpDimensions(data []byte) (uint32, uint32, error) {
	if len(data) < 26 {
		return 0, 0, ErrCorruptImage
	}
	w := binary.LittleEndian.Uint32(data[18:22])
	// Height is signed; top-down bitmaps store it negated.
	h := int32(binary.LittleEndian.Uint32(data[22:26]))
	if h < 0 {
		h = -h
	}
	return checkDimensions(w, uint32(h))
}

func checkDimensions(w, h uint32) (uint32, uint32, error) {
	if w == 0 || h == 0 {
		return 0, 0, fmt.Errorf("%w: zero dimension", ErrCorruptImage)
	}
	return w, h, nil
}
