// Package surface implements pixel buffers ("frame buffers") and the blits the
// compositor is built on.
//
// Pixel (x, y) lives at byte offset 4*(stride*y+x). RGB surfaces store
// [r, g, b, 0], BGR surfaces [b, g, r, 0]. Surfaces never convert between
// formats; mixing them is reported as ErrUnknownPixelFormat.
package surface

import (
	"encoding/binary"
	"errors"
	"fmt"

	"glaze/gfx/geom"
)

var (
	ErrUnknownPixelFormat = errors.New("unknown pixel format")
	ErrInvalidStride      = errors.New("stride smaller than width")
	ErrBufferTooSmall     = errors.New("pixel buffer too small")
)

// Allocator hands out pixel storage for surfaces that own their buffer.
type Allocator interface {
	Alloc(size int) ([]byte, error)
}

// AllocatorFunc adapts a function to Allocator.
type AllocatorFunc func(size int) ([]byte, error)

func (f AllocatorFunc) Alloc(size int) ([]byte, error) { return f(size) }

// HeapAllocator allocates from the Go heap and never fails.
var HeapAllocator Allocator = AllocatorFunc(func(size int) ([]byte, error) {
	return make([]byte, size), nil
})

// Config describes a surface. A nil Buffer makes the surface allocate (and
// own) its storage, in which case Stride is forced to Width. A non-nil Buffer
// is borrowed; Stride defaults to Width when zero.
type Config struct {
	Width  int
	Height int
	Stride int // pixels per scan line
	Format Format

	Buffer    []byte
	Allocator Allocator
}

// ConfigFor is the config of an owned surface of the given size.
func ConfigFor(width, height int, f Format) Config {
	return Config{Width: width, Height: height, Stride: width, Format: f}
}

// Surface is a pixel buffer plus the writer for its format.
type Surface struct {
	cfg   Config
	owned bool
	w     Writer
}

// New builds a surface. Allocation errors are returned unchanged.
func New(cfg Config) (*Surface, error) {
	if !cfg.Format.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPixelFormat, cfg.Format)
	}
	cfg.Width = max(cfg.Width, 0)
	cfg.Height = max(cfg.Height, 0)

	owned := cfg.Buffer == nil
	if owned {
		alloc := cfg.Allocator
		if alloc == nil {
			alloc = HeapAllocator
		}
		size := BytesPerPixel * cfg.Width * cfg.Height
		buf, err := alloc.Alloc(size)
		if err != nil {
			return nil, err
		}
		if len(buf) < size {
			return nil, fmt.Errorf("%w: allocator returned %d bytes, need %d", ErrBufferTooSmall, len(buf), size)
		}
		cfg.Buffer = buf[:size]
		cfg.Stride = cfg.Width
	} else {
		if cfg.Stride == 0 {
			cfg.Stride = cfg.Width
		}
		if cfg.Stride < cfg.Width {
			return nil, fmt.Errorf("%w: stride %d, width %d", ErrInvalidStride, cfg.Stride, cfg.Width)
		}
		need := 0
		if cfg.Height > 0 {
			need = BytesPerPixel * (cfg.Stride*(cfg.Height-1) + cfg.Width)
		}
		if len(cfg.Buffer) < need {
			return nil, fmt.Errorf("%w: have %d bytes, need %d", ErrBufferTooSmall, len(cfg.Buffer), need)
		}
	}

	s := &Surface{cfg: cfg, owned: owned}
	s.w = newWriter(cfg)
	return s, nil
}

func (s *Surface) Size() geom.Vector2D[int] {
	return geom.Vec(s.cfg.Width, s.cfg.Height)
}

func (s *Surface) Format() Format { return s.cfg.Format }
func (s *Surface) Stride() int    { return s.cfg.Stride }

// Owned reports whether the surface allocated its own storage.
func (s *Surface) Owned() bool { return s.owned }

// Bytes exposes the raw pixel storage.
func (s *Surface) Bytes() []byte { return s.cfg.Buffer }

func (s *Surface) Writer() *Writer { return &s.w }

// Config returns the effective configuration (Buffer included).
func (s *Surface) Config() Config { return s.cfg }

func (s *Surface) rowBytes() int { return BytesPerPixel * s.cfg.Stride }

// Fill paints every pixel with c.
func (s *Surface) Fill(c Color) {
	if s.cfg.Width == 0 || s.cfg.Height == 0 {
		return
	}
	var px [BytesPerPixel]byte
	s.cfg.Format.Encode(px[:], c)
	for y := 0; y < s.cfg.Height; y++ {
		row := s.cfg.Buffer[y*s.rowBytes():]
		for x := 0; x < s.cfg.Width; x++ {
			copy(row[x*BytesPerPixel:], px[:])
		}
	}
}

// CopyFrom blits a size-sized block of src at srcPos onto s at toPos. The
// block is clipped so both accesses stay in bounds; a fully clipped block is
// a successful no-op. With transparent set, source pixels whose encoding
// equals the key are skipped.
func (s *Surface) CopyFrom(src *Surface, toPos, srcPos, size geom.Vector2D[int], transparent *Color) error {
	if src.cfg.Format != s.cfg.Format {
		return ErrUnknownPixelFormat
	}

	toPos, srcPos, size = clipCopy(toPos, srcPos, size, src.Size(), s.Size())
	if size.X <= 0 || size.Y <= 0 {
		return nil
	}

	n := BytesPerPixel * size.X
	dstStep, srcStep := s.rowBytes(), src.rowBytes()
	dstOff := s.w.offset(toPos.X, toPos.Y)
	srcOff := src.w.offset(srcPos.X, srcPos.Y)
	rows := size.Y

	// Walk bottom-up when copying downwards within one buffer.
	if src == s && toPos.Y > srcPos.Y {
		dstOff += (rows - 1) * dstStep
		srcOff += (rows - 1) * srcStep
		dstStep, srcStep = -dstStep, -srcStep
	}

	dst, sb := s.cfg.Buffer, src.cfg.Buffer
	if transparent == nil {
		for y := 0; y < rows; y++ {
			copy(dst[dstOff:dstOff+n], sb[srcOff:srcOff+n])
			dstOff += dstStep
			srcOff += srcStep
		}
		return nil
	}

	key := s.cfg.Format.Key(*transparent)
	for y := 0; y < rows; y++ {
		d := dst[dstOff : dstOff+n]
		sr := sb[srcOff : srcOff+n]
		for i := 0; i < n; i += BytesPerPixel {
			px := binary.LittleEndian.Uint32(sr[i:])
			if px != key {
				binary.LittleEndian.PutUint32(d[i:], px)
			}
		}
		dstOff += dstStep
		srcOff += srcStep
	}
	return nil
}

// clipCopy shrinks a blit so it fits inside both the source and destination.
// Negative offsets shrink size and shift the opposite offset by the same
// amount.
func clipCopy(toPos, srcPos, size, srcSize, dstSize geom.Vector2D[int]) (geom.Vector2D[int], geom.Vector2D[int], geom.Vector2D[int]) {
	if srcPos.X < 0 {
		size.X += srcPos.X
		toPos.X -= srcPos.X
		srcPos.X = 0
	}
	if srcPos.Y < 0 {
		size.Y += srcPos.Y
		toPos.Y -= srcPos.Y
		srcPos.Y = 0
	}
	if toPos.X < 0 {
		size.X += toPos.X
		srcPos.X -= toPos.X
		toPos.X = 0
	}
	if toPos.Y < 0 {
		size.Y += toPos.Y
		srcPos.Y -= toPos.Y
		toPos.Y = 0
	}
	size.X = min(size.X, srcSize.X-srcPos.X, dstSize.X-toPos.X)
	size.Y = min(size.Y, srcSize.Y-srcPos.Y, dstSize.Y-toPos.Y)
	return toPos, srcPos, size
}

// CopySelfRows moves rowCount full-width rows starting at srcRow to dstRow.
// Overlapping ranges are handled.
func (s *Surface) CopySelfRows(dstRow, srcRow, rowCount int) {
	if srcRow < 0 {
		rowCount += srcRow
		dstRow -= srcRow
		srcRow = 0
	}
	if dstRow < 0 {
		rowCount += dstRow
		srcRow -= dstRow
		dstRow = 0
	}
	rowCount = min(rowCount, s.cfg.Height-srcRow, s.cfg.Height-dstRow)
	if rowCount <= 0 || dstRow == srcRow || s.cfg.Width == 0 {
		return
	}

	step := s.rowBytes()
	buf := s.cfg.Buffer
	if s.cfg.Stride == s.cfg.Width {
		// Contiguous rows: one move covers everything.
		copy(buf[dstRow*step:(dstRow+rowCount)*step], buf[srcRow*step:(srcRow+rowCount)*step])
		return
	}

	n := BytesPerPixel * s.cfg.Width
	if dstRow < srcRow {
		for i := 0; i < rowCount; i++ {
			d, sr := (dstRow+i)*step, (srcRow+i)*step
			copy(buf[d:d+n], buf[sr:sr+n])
		}
		return
	}
	for i := rowCount - 1; i >= 0; i-- {
		d, sr := (dstRow+i)*step, (srcRow+i)*step
		copy(buf[d:d+n], buf[sr:sr+n])
	}
}

// Forward copies the whole of src onto s.
func (s *Surface) Forward(src *Surface) error {
	if src.cfg.Format != s.cfg.Format {
		return ErrUnknownPixelFormat
	}
	if src.cfg.Width == s.cfg.Width && src.cfg.Height == s.cfg.Height && src.cfg.Stride == s.cfg.Stride {
		copy(s.cfg.Buffer, src.cfg.Buffer)
		return nil
	}
	return s.CopyFrom(src, geom.Vector2D[int]{}, geom.Vector2D[int]{}, src.Size(), nil)
}

// Clone deep-copies s into a newly owned surface with the same size and
// format.
func (s *Surface) Clone() (*Surface, error) {
	c, err := New(Config{
		Width:     s.cfg.Width,
		Height:    s.cfg.Height,
		Format:    s.cfg.Format,
		Allocator: s.cfg.Allocator,
	})
	if err != nil {
		return nil, err
	}
	if err := c.Forward(s); err != nil {
		return nil, err
	}
	return c, nil
}
