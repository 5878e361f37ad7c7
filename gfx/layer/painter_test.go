package layer

import (
	"errors"
	"testing"

	"glaze/gfx/geom"
	"glaze/gfx/surface"
)

func TestPainterReportsOnceOnEnd(t *testing.T) {
	c := New(surface.FormatRGB)
	if err := c.SetBuffer(newTarget(t, 100, 100)); err != nil {
		t.Fatal(err)
	}
	l := solid(t, c, geom.Vec(30, 40), geom.Vec(20, 20), white)
	c.UpDown(l.ID(), 0)

	var clips []geom.Rect[int]
	c.onDraw = func(_ LayerID, clip geom.Rect[int]) { clips = append(clips, clip) }

	p, err := c.StartPaint(l.ID())
	if err != nil {
		t.Fatalf("StartPaint() error = %v", err)
	}
	p.FillRectangle(geom.R(2, 2, 5, 5), red)
	p.DrawRectangle(geom.R(8, 1, 12, 10), blue)
	if len(clips) != 0 {
		t.Fatalf("drew %d times before End", len(clips))
	}
	p.End()
	p.End()

	want := geom.R(32, 41, 42, 50)
	if len(clips) != 1 || clips[0] != want {
		t.Fatalf("clips = %v, want [%v]", clips, want)
	}
	if got := pixel(c.Target(), 33, 43); got != red {
		t.Fatalf("pixel(33,43) = %v, want red", got)
	}
}

func TestPainterWithoutDrawingReportsNothing(t *testing.T) {
	c := New(surface.FormatRGB)
	if err := c.SetBuffer(newTarget(t, 10, 10)); err != nil {
		t.Fatal(err)
	}
	l := solid(t, c, geom.Vec(0, 0), geom.Vec(10, 10), white)
	c.UpDown(l.ID(), 0)
	draws := countDraws(c)

	p, err := c.StartPaint(l.ID())
	if err != nil {
		t.Fatal(err)
	}
	p.DrawString(geom.Vec(0, 0), "", red)
	if _, ok := p.Damaged(); ok {
		t.Fatalf("empty DrawString recorded damage")
	}
	p.End()
	if len(draws) != 0 {
		t.Fatalf("draws = %v, want none", draws)
	}
}

func TestStartPaintErrors(t *testing.T) {
	c := New(surface.FormatRGB)
	g, err := c.NewGroupLayer(geom.Vec(4, 4))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.StartPaint(g.ID()); !errors.Is(err, ErrNotPaintable) {
		t.Fatalf("StartPaint(group) error = %v, want ErrNotPaintable", err)
	}
	if _, err := c.StartPaint(42); !errors.Is(err, ErrLayerNotFound) {
		t.Fatalf("StartPaint(unknown) error = %v, want ErrLayerNotFound", err)
	}
}

func TestPainterCopyRows(t *testing.T) {
	c := New(surface.FormatRGB)
	l, err := c.NewBufferLayer(geom.Vec(4, 6))
	if err != nil {
		t.Fatal(err)
	}
	p, err := c.StartPaint(l.ID())
	if err != nil {
		t.Fatal(err)
	}
	w := p.RawWriter()
	for y := 0; y < 6; y++ {
		w.Write(0, y, surface.Color{R: uint8(y)})
	}
	p.CopyRows(0, 2, 4)

	got, ok := p.Damaged()
	if want := geom.R(0, 0, 4, 4); !ok || got != want {
		t.Fatalf("Damaged() = %v, %v; want %v", got, ok, want)
	}
	for y, want := range []uint8{2, 3, 4, 5, 4, 5} {
		if r := w.At(0, y).R; r != want {
			t.Fatalf("row %d = %d, want %d", y, r, want)
		}
	}
}

func TestPainterRawDamageUnion(t *testing.T) {
	c := New(surface.FormatRGB)
	l, err := c.NewBufferLayer(geom.Vec(50, 50))
	if err != nil {
		t.Fatal(err)
	}
	p, err := c.StartPaint(l.ID())
	if err != nil {
		t.Fatal(err)
	}
	p.RawDamage(geom.R(10, 20, 15, 25))
	p.RawDamage(geom.R(2, 30, 4, 31))
	if got, want := mustDamaged(t, p), geom.R(2, 20, 15, 31); got != want {
		t.Fatalf("Damaged() = %v, want %v", got, want)
	}
	p.PixelWriter()
	if got, want := mustDamaged(t, p), geom.R(0, 0, 50, 50); got != want {
		t.Fatalf("after PixelWriter Damaged() = %v, want %v", got, want)
	}
}

func mustDamaged(t *testing.T, p *Painter) geom.Rect[int] {
	t.Helper()
	r, ok := p.Damaged()
	if !ok {
		t.Fatalf("Damaged() reported nothing")
	}
	return r
}

type fixedGlyphs struct {
	r     geom.Rect[int]
	calls int
}

func (f *fixedGlyphs) RenderGlyph(w *surface.Writer, pos geom.Vector2D[int], _ rune, c surface.Color) geom.Rect[int] {
	f.calls++
	w.Write(pos.X, pos.Y, c)
	return f.r
}

func (f *fixedGlyphs) RenderString(w *surface.Writer, pos geom.Vector2D[int], _ string, c surface.Color) geom.Rect[int] {
	f.calls++
	w.Write(pos.X, pos.Y, c)
	return f.r
}

func TestPainterUsesGlyphRenderer(t *testing.T) {
	glyphs := &fixedGlyphs{r: geom.R(1, 2, 9, 12)}
	c := New(surface.FormatRGB, WithGlyphRenderer(glyphs))
	l, err := c.NewBufferLayer(geom.Vec(20, 20))
	if err != nil {
		t.Fatal(err)
	}
	p, err := c.StartPaint(l.ID())
	if err != nil {
		t.Fatal(err)
	}
	p.DrawGlyph(geom.Vec(1, 2), 'x', red)
	p.DrawString(geom.Vec(3, 4), "yz", red)
	if glyphs.calls != 2 {
		t.Fatalf("renderer called %d times, want 2", glyphs.calls)
	}
	if got := mustDamaged(t, p); got != glyphs.r {
		t.Fatalf("Damaged() = %v, want %v", got, glyphs.r)
	}

	// Group children inherit the renderer.
	g, err := c.NewGroupLayer(geom.Vec(10, 10))
	if err != nil {
		t.Fatal(err)
	}
	child, err := g.Group().NewBufferLayer(geom.Vec(5, 5))
	if err != nil {
		t.Fatal(err)
	}
	cp, err := g.Group().StartPaint(child.ID())
	if err != nil {
		t.Fatal(err)
	}
	cp.DrawGlyph(geom.Vec(0, 0), 'q', blue)
	if glyphs.calls != 3 {
		t.Fatalf("nested renderer called %d times, want 3", glyphs.calls)
	}
}

func TestTinyFontInkStaysInBounds(t *testing.T) {
	for _, s := range []string{"A", "Hello, gjpqy!", "|_~"} {
		t.Run(s, func(t *testing.T) {
			buf, err := surface.New(surface.ConfigFor(160, 30, surface.FormatRGB))
			if err != nil {
				t.Fatal(err)
			}
			w := buf.Writer()
			r := DefaultFont.RenderString(w, geom.Vec(4, 8), s, white)

			inked := 0
			for y := 0; y < 30; y++ {
				for x := 0; x < 160; x++ {
					if w.At(x, y) == (surface.Color{}) {
						continue
					}
					inked++
					if !r.Contains(geom.Vec(x, y)) {
						t.Fatalf("ink at (%d,%d) outside bounds %v", x, y, r)
					}
				}
			}
			if inked == 0 {
				t.Fatalf("nothing was drawn")
			}
			if got, want := r.Width(), DefaultFont.Width(s); got < want {
				t.Fatalf("bounds width %d narrower than advance %d", got, want)
			}
		})
	}
}
