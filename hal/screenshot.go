package hal

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
)

// Snapshot copies a 32bpp framebuffer into an RGBA image.
func Snapshot(fb Framebuffer) (*image.RGBA, error) {
	switch fb.Format() {
	case PixelFormatRGB8888, PixelFormatBGR8888:
	default:
		return nil, fmt.Errorf("snapshot: unsupported pixel format %s", fb.Format())
	}
	w, h := fb.Width(), fb.Height()
	if need := (h-1)*fb.StrideBytes() + w*bytesPerPixel; h > 0 && len(fb.Buffer()) < need {
		return nil, fmt.Errorf("snapshot: buffer holds %d bytes, need %d", len(fb.Buffer()), need)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	toRGBA(img.Pix, fb.Buffer(), w, h, fb.StrideBytes(), fb.Format())
	return img, nil
}

// WriteScreenshot saves the framebuffer to path, as BMP for a .bmp extension
// and PNG otherwise.
func WriteScreenshot(fb Framebuffer, path string) error {
	img, err := Snapshot(fb)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("screenshot: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".bmp") {
		err = bmp.Encode(f, img)
	} else {
		err = png.Encode(f, img)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("screenshot %s: %w", path, err)
	}
	return nil
}
