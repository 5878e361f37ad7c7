package layer

import (
	"glaze/gfx/geom"
	"glaze/gfx/surface"
)

// Painter draws into one buffer layer and remembers the bounding box of
// everything it touched. End reports that box to the Compositor once; a
// Painter that drew nothing reports nothing.
//
//	p, err := c.StartPaint(id)
//	if err != nil {
//		return err
//	}
//	defer p.End()
type Painter struct {
	c      *Compositor
	id     LayerID
	buf    *surface.Surface
	glyphs GlyphRenderer

	damaged     bool
	ended       bool
	topLeft     geom.Vector2D[int]
	bottomRight geom.Vector2D[int]
}

func newPainter(c *Compositor, l *Layer) *Painter {
	return &Painter{c: c, id: l.id, buf: l.buf, glyphs: c.glyphs}
}

// End reports the accumulated damage. Further calls do nothing.
func (p *Painter) End() {
	if p.ended {
		return
	}
	p.ended = true
	if !p.damaged {
		return
	}
	p.c.DamageLayer(p.id, []geom.Rect[int]{{TopLeft: p.topLeft, BottomRight: p.bottomRight}})
}

// Damaged returns the region drawn so far, in layer coordinates.
func (p *Painter) Damaged() (geom.Rect[int], bool) {
	return geom.Rect[int]{TopLeft: p.topLeft, BottomRight: p.bottomRight}, p.damaged
}

func (p *Painter) Size() geom.Vector2D[int] { return p.buf.Size() }

// CopyRows moves rowCount full-width rows from srcRow to dstRow, for
// scrolling.
func (p *Painter) CopyRows(dstRow, srcRow, rowCount int) {
	p.buf.CopySelfRows(dstRow, srcRow, rowCount)
	p.RawDamage(geom.R(0, dstRow, p.buf.Size().X, dstRow+rowCount))
}

func (p *Painter) DrawRectangle(r geom.Rect[int], c surface.Color) {
	surface.DrawRectangle(p.buf.Writer(), r.TopLeft, r.Size(), c)
	p.RawDamage(r)
}

func (p *Painter) FillRectangle(r geom.Rect[int], c surface.Color) {
	surface.FillRectangle(p.buf.Writer(), r.TopLeft, r.Size(), c)
	p.RawDamage(r)
}

// DrawGlyph draws ch with its cell's top-left corner at pos.
func (p *Painter) DrawGlyph(pos geom.Vector2D[int], ch rune, c surface.Color) {
	p.RawDamage(p.glyphs.RenderGlyph(p.buf.Writer(), pos, ch, c))
}

// DrawString draws a single line of text starting at pos.
func (p *Painter) DrawString(pos geom.Vector2D[int], s string, c surface.Color) {
	if s == "" {
		return
	}
	p.RawDamage(p.glyphs.RenderString(p.buf.Writer(), pos, s, c))
}

// PixelWriter hands out the writer for bulk drawing and damages the whole
// layer.
func (p *Painter) PixelWriter() *surface.Writer {
	p.RawDamage(geom.RectWithSize(geom.Vector2D[int]{}, p.buf.Size()))
	return p.buf.Writer()
}

// RawWriter hands out the writer without recording damage; pair it with
// RawDamage.
func (p *Painter) RawWriter() *surface.Writer { return p.buf.Writer() }

func (p *Painter) RawSurface() *surface.Surface { return p.buf }

// RawDamage adds r (layer coordinates) to the pending damage.
func (p *Painter) RawDamage(r geom.Rect[int]) {
	if !p.damaged {
		p.topLeft = r.TopLeft
		p.bottomRight = r.BottomRight
		p.damaged = true
		return
	}
	p.topLeft = p.topLeft.Min(r.TopLeft)
	p.bottomRight = p.bottomRight.Max(r.BottomRight)
}
