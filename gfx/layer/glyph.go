package layer

import (
	"glaze/gfx/geom"
	"glaze/gfx/surface"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// GlyphRenderer rasterizes text into a surface and returns the bounds of the
// pixels it may have touched.
type GlyphRenderer interface {
	RenderGlyph(w *surface.Writer, pos geom.Vector2D[int], ch rune, c surface.Color) geom.Rect[int]
	RenderString(w *surface.Writer, pos geom.Vector2D[int], s string, c surface.Color) geom.Rect[int]
}

// TinyFont renders through tinyfont. Positions name the top-left corner of
// the text cell; Offset is the distance from there down to the baseline.
type TinyFont struct {
	Font   tinyfont.Fonter
	Height int
	Offset int
}

// DefaultFont is proggy TinySZ 8pt on a 10px line.
var DefaultFont = &TinyFont{Font: &proggy.TinySZ8pt7b, Height: 10, Offset: 6}

func (f *TinyFont) RenderGlyph(w *surface.Writer, pos geom.Vector2D[int], ch rune, c surface.Color) geom.Rect[int] {
	tinyfont.DrawChar(w, f.Font, int16(pos.X), int16(pos.Y+f.Offset), ch, c.RGBA())
	return f.bounds(pos, string(ch))
}

func (f *TinyFont) RenderString(w *surface.Writer, pos geom.Vector2D[int], s string, c surface.Color) geom.Rect[int] {
	tinyfont.WriteLine(w, f.Font, int16(pos.X), int16(pos.Y+f.Offset), s, c.RGBA())
	return f.bounds(pos, s)
}

// Width returns the advance of s in pixels.
func (f *TinyFont) Width(s string) int {
	_, outbox := tinyfont.LineWidth(f.Font, s)
	return int(outbox)
}

// bounds covers the text cells plus any ink that overhangs them.
func (f *TinyFont) bounds(pos geom.Vector2D[int], s string) geom.Rect[int] {
	baseline := pos.Y + f.Offset
	r := geom.RectWithSize(pos, geom.Vec(0, f.Height))
	x := pos.X
	for _, ch := range s {
		info := f.Font.GetGlyph(ch).Info()
		ink := geom.RectWithSize(
			geom.Vec(x+int(info.XOffset), baseline+int(info.YOffset)),
			geom.Vec(int(info.Width), int(info.Height)))
		if !ink.Empty() {
			r = r.Merge(ink)
		}
		x += int(info.XAdvance)
	}
	r.BottomRight.X = max(r.BottomRight.X, x)
	return r
}
