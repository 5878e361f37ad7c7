package surface

import (
	"encoding/binary"
	"image/color"
)

// Color is an opaque 24-bit color.
type Color struct {
	R uint8
	G uint8
	B uint8
}

// Hex builds a Color from 0xRRGGBB.
func Hex(c uint32) Color {
	return Color{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c)}
}

// RGBA converts c for use with tinyfont/drivers APIs.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}
}

// FromRGBA drops the alpha channel.
func FromRGBA(c color.RGBA) Color {
	return Color{R: c.R, G: c.G, B: c.B}
}

// Format is the in-memory channel order of a pixel. Every format uses
// BytesPerPixel bytes with one trailing padding byte.
type Format uint8

const (
	FormatRGB Format = iota + 1 // [r, g, b, 0]
	FormatBGR                   // [b, g, r, 0]
)

// BytesPerPixel is fixed for every supported format.
const BytesPerPixel = 4

func (f Format) Valid() bool {
	return f == FormatRGB || f == FormatBGR
}

func (f Format) String() string {
	switch f {
	case FormatRGB:
		return "rgb"
	case FormatBGR:
		return "bgr"
	default:
		return "unknown"
	}
}

// Encode writes c into p (len(p) >= BytesPerPixel) in format f.
func (f Format) Encode(p []byte, c Color) {
	_ = p[3]
	if f == FormatBGR {
		p[0], p[1], p[2] = c.B, c.G, c.R
	} else {
		p[0], p[1], p[2] = c.R, c.G, c.B
	}
	p[3] = 0
}

// Decode reads one pixel from p.
func (f Format) Decode(p []byte) Color {
	_ = p[2]
	if f == FormatBGR {
		return Color{R: p[2], G: p[1], B: p[0]}
	}
	return Color{R: p[0], G: p[1], B: p[2]}
}

// Key returns the raw encoded pixel of c as a single word, for transparent
// color comparisons.
func (f Format) Key(c Color) uint32 {
	var p [BytesPerPixel]byte
	f.Encode(p[:], c)
	return binary.LittleEndian.Uint32(p[:])
}
