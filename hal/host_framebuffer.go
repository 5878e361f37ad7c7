//go:build !tinygo

package hal

import "sync"

type hostFramebuffer struct {
	mu     sync.Mutex
	width  int
	height int
	stride int
	format PixelFormat
	buf    []byte
	frames uint64
}

func newHostFramebuffer(width, height int, format PixelFormat) *hostFramebuffer {
	stride := width * bytesPerPixel
	return &hostFramebuffer{
		width:  width,
		height: height,
		stride: stride,
		format: format,
		buf:    make([]byte, stride*height),
	}
}

func (f *hostFramebuffer) Width() int          { return f.width }
func (f *hostFramebuffer) Height() int         { return f.height }
func (f *hostFramebuffer) Format() PixelFormat { return f.format }
func (f *hostFramebuffer) StrideBytes() int    { return f.stride }
func (f *hostFramebuffer) Buffer() []byte      { return f.buf }

func (f *hostFramebuffer) Present() error {
	f.mu.Lock()
	f.frames++
	f.mu.Unlock()
	return nil
}

func (f *hostFramebuffer) ClearRGB(r, g, b uint8) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p := encodePixel(f.format, r, g, b)
	for i := 0; i+bytesPerPixel <= len(f.buf); i += bytesPerPixel {
		copy(f.buf[i:], p[:])
	}
}

// snapshotRGBA copies the framebuffer into dst as packed RGBA with opaque
// alpha. dst must hold width*height*4 bytes.
func (f *hostFramebuffer) snapshotRGBA(dst []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	toRGBA(dst, f.buf, f.width, f.height, f.stride, f.format)
}
