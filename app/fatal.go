package app

import (
	"strings"
	"unicode/utf8"

	"glaze/gfx/geom"
	"glaze/gfx/layer"
	"glaze/gfx/surface"
	"glaze/hal"
)

// showFatal paints err straight onto the framebuffer, bypassing the
// compositor, so a failed start still leaves something on screen.
func showFatal(fb hal.Framebuffer, err error) {
	fb.ClearRGB(255, 255, 255)
	target, serr := framebufferSurface(fb)
	if serr != nil {
		_ = fb.Present()
		return
	}

	font := layer.DefaultFont
	fontWidth := font.Width("0")
	if fontWidth <= 0 || font.Height <= 0 {
		_ = fb.Present()
		return
	}
	cols := max(fb.Width()/fontWidth, 1)

	lines := append([]string{"glaze failed to start:"}, strings.Split(err.Error(), ": ")...)
	w := target.Writer()
	y := 0
	for _, line := range lines {
		for len(line) > 0 && y+font.Height <= fb.Height() {
			chunk, rest := takeRunes(line, cols)
			drawTextLine(w, font, fontWidth, geom.Vec(0, y), chunk, surface.Color{})
			y += font.Height
			line = strings.TrimLeft(rest, " ")
		}
	}
	_ = fb.Present()
}

// drawTextLine draws s on a fixed-width grid starting at pos.
func drawTextLine(w *surface.Writer, font *layer.TinyFont, fontWidth int, pos geom.Vector2D[int], s string, fg surface.Color) {
	for _, r := range s {
		font.RenderGlyph(w, pos, r, fg)
		pos.X += fontWidth
	}
}

func takeRunes(s string, n int) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if len(s) <= n {
		return s, ""
	}
	var i, count int
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		count++
	}
	return s[:i], s[i:]
}
