package surface

import (
	"image/color"

	"tinygo.org/x/drivers"
)

// PixelWriter is anything pixels can be plotted onto.
type PixelWriter interface {
	Write(x, y int, c Color)
	Width() int
	Height() int
}

// Writer plots pixels into a raw buffer in one of the supported formats.
// Writes outside the visible area are dropped.
//
// Writer also satisfies drivers.Displayer so tinyfont can draw straight into
// a Surface.
type Writer struct {
	format Format
	buf    []byte
	stride int
	width  int
	height int
}

var (
	_ PixelWriter       = (*Writer)(nil)
	_ drivers.Displayer = (*Writer)(nil)
)

func newWriter(cfg Config) Writer {
	return Writer{
		format: cfg.Format,
		buf:    cfg.Buffer,
		stride: cfg.Stride,
		width:  cfg.Width,
		height: cfg.Height,
	}
}

func (w *Writer) Width() int     { return w.width }
func (w *Writer) Height() int    { return w.height }
func (w *Writer) Format() Format { return w.format }

// offset returns the byte offset of (x, y): 4 * (stride*y + x).
func (w *Writer) offset(x, y int) int {
	return BytesPerPixel * (w.stride*y + x)
}

func (w *Writer) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < w.width && y < w.height
}

func (w *Writer) Write(x, y int, c Color) {
	if !w.inBounds(x, y) {
		return
	}
	off := w.offset(x, y)
	w.format.Encode(w.buf[off:off+BytesPerPixel], c)
}

// At decodes the pixel at (x, y). Out-of-range reads return the zero Color.
func (w *Writer) At(x, y int) Color {
	if !w.inBounds(x, y) {
		return Color{}
	}
	off := w.offset(x, y)
	return w.format.Decode(w.buf[off : off+BytesPerPixel])
}

func (w *Writer) Size() (x, y int16) {
	return int16(w.width), int16(w.height)
}

func (w *Writer) SetPixel(x, y int16, c color.RGBA) {
	w.Write(int(x), int(y), FromRGBA(c))
}

// Display is a no-op: damage is reported by the Painter, not the writer.
func (w *Writer) Display() error {
	return nil
}
