package hal

const bytesPerPixel = 4

func encodePixel(f PixelFormat, r, g, b uint8) [4]byte {
	if f == PixelFormatBGR8888 {
		return [4]byte{b, g, r, 0}
	}
	return [4]byte{r, g, b, 0}
}

func decodePixel(f PixelFormat, p []byte) (r, g, b uint8) {
	if f == PixelFormatBGR8888 {
		return p[2], p[1], p[0]
	}
	return p[0], p[1], p[2]
}

// toRGBA converts a 32bpp framebuffer into tightly packed RGBA.
func toRGBA(dst, src []byte, width, height, stride int, f PixelFormat) {
	for y := 0; y < height; y++ {
		row := src[y*stride:]
		out := dst[y*width*4:]
		for x := 0; x < width; x++ {
			r, g, b := decodePixel(f, row[x*bytesPerPixel:])
			j := x * 4
			out[j+0] = r
			out[j+1] = g
			out[j+2] = b
			out[j+3] = 0xFF
		}
	}
}
