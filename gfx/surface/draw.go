package surface

import "glaze/gfx/geom"

// FillRectangle paints a solid size-sized block at pos.
func FillRectangle(w PixelWriter, pos, size geom.Vector2D[int], c Color) {
	for dy := 0; dy < size.Y; dy++ {
		for dx := 0; dx < size.X; dx++ {
			w.Write(pos.X+dx, pos.Y+dy, c)
		}
	}
}

// DrawRectangle paints the one-pixel outline of a size-sized block at pos.
func DrawRectangle(w PixelWriter, pos, size geom.Vector2D[int], c Color) {
	if size.X <= 0 || size.Y <= 0 {
		return
	}
	for dx := 0; dx < size.X; dx++ {
		w.Write(pos.X+dx, pos.Y, c)
		w.Write(pos.X+dx, pos.Y+size.Y-1, c)
	}
	for dy := 0; dy < size.Y; dy++ {
		w.Write(pos.X, pos.Y+dy, c)
		w.Write(pos.X+size.X-1, pos.Y+dy, c)
	}
}
