package console

import (
	"bytes"
	"fmt"
	"testing"

	"glaze/gfx/geom"
	"glaze/gfx/layer"
	"glaze/gfx/surface"
)

var (
	fg = surface.Color{R: 0xFF, G: 0xFF, B: 0xFF}
	bg = surface.Color{B: 0x40}
)

func newConsole(t *testing.T, c *layer.Compositor, size geom.Vector2D[int]) *Console {
	t.Helper()
	con, err := New(c, size, fg, bg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return con
}

func rowBytes(c *layer.Compositor, con *Console, row int) []byte {
	s := c.Layer(con.ID()).Surface()
	h := con.cell.Y
	stride := surface.BytesPerPixel * s.Stride()
	return s.Bytes()[row*h*stride : (row+1)*h*stride]
}

func TestGridFromFont(t *testing.T) {
	c := layer.New(surface.FormatRGB)
	cw := layer.DefaultFont.Width("0")
	con := newConsole(t, c, geom.Vec(cw*8+cw/2, 35))
	cols, rows := con.Grid()
	if cols != 8 || rows != 3 {
		t.Fatalf("Grid() = %d, %d; want 8, 3", cols, rows)
	}
	if _, err := New(c, geom.Vec(1, 1), fg, bg); err == nil {
		t.Fatalf("New() with a sub-cell size succeeded")
	}
}

func TestWriteAdvancesCursor(t *testing.T) {
	c := layer.New(surface.FormatRGB)
	cw := layer.DefaultFont.Width("0")
	con := newConsole(t, c, geom.Vec(cw*4, 30))

	tests := []struct {
		in       string
		col, row int
	}{
		{"ab", 2, 0},
		{"cd", 4, 0},
		{"e", 1, 1},
		{"\r", 0, 1},
		{"x\b", 0, 1},
		{"\t", 4, 1},
		{"\n", 0, 2},
	}
	for _, tt := range tests {
		if _, err := con.WriteString(tt.in); err != nil {
			t.Fatalf("WriteString(%q) error = %v", tt.in, err)
		}
		if col, row := con.Cursor(); col != tt.col || row != tt.row {
			t.Fatalf("after %q Cursor() = %d, %d; want %d, %d", tt.in, col, row, tt.col, tt.row)
		}
	}
}

func TestScrollMovesRowsUp(t *testing.T) {
	c := layer.New(surface.FormatRGB)
	size := geom.Vec(layer.DefaultFont.Width("0")*6, 30)

	scrolled := newConsole(t, c, size)
	fmt.Fprint(scrolled, "X\nY\nZ\nW")

	ref := newConsole(t, c, size)
	fmt.Fprint(ref, "Y\nZ\nW")

	for row := 0; row < 3; row++ {
		if !bytes.Equal(rowBytes(c, scrolled, row), rowBytes(c, ref, row)) {
			t.Fatalf("row %d differs from the reference", row)
		}
	}
	if col, row := scrolled.Cursor(); col != 1 || row != 2 {
		t.Fatalf("Cursor() = %d, %d; want 1, 2", col, row)
	}
}

func TestSplitUTF8AcrossWrites(t *testing.T) {
	c := layer.New(surface.FormatRGB)
	size := geom.Vec(layer.DefaultFont.Width("0")*6, 10)

	split := newConsole(t, c, size)
	b := []byte("é")
	if n, err := split.Write(b[:1]); n != 1 || err != nil {
		t.Fatalf("Write() = %d, %v", n, err)
	}
	if col, _ := split.Cursor(); col != 0 {
		t.Fatalf("partial rune advanced the cursor")
	}
	split.Write(b[1:])

	whole := newConsole(t, c, size)
	whole.Write(b)

	if !bytes.Equal(rowBytes(c, split, 0), rowBytes(c, whole, 0)) {
		t.Fatalf("split rune rendered differently")
	}
	if col, _ := split.Cursor(); col != 1 {
		t.Fatalf("Cursor() col = %d, want 1", col)
	}
}

func TestWriteReachesTarget(t *testing.T) {
	c := layer.New(surface.FormatRGB)
	target, err := surface.New(surface.ConfigFor(100, 40, surface.FormatRGB))
	if err != nil {
		t.Fatal(err)
	}
	if err := c.SetBuffer(target); err != nil {
		t.Fatal(err)
	}
	con := newConsole(t, c, geom.Vec(100, 40))
	c.UpDown(con.ID(), 0)
	if got := target.Writer().At(50, 20); got != bg {
		t.Fatalf("background pixel = %v, want %v", got, bg)
	}

	con.WriteString("HHHH")
	lit := 0
	w := target.Writer()
	for y := 0; y < con.cell.Y; y++ {
		for x := 0; x < 4*con.cell.X; x++ {
			if w.At(x, y) == fg {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Fatalf("no glyph pixels reached the target")
	}

	if err := con.Clear(); err != nil {
		t.Fatal(err)
	}
	for y := 0; y < con.cell.Y; y++ {
		for x := 0; x < 4*con.cell.X; x++ {
			if w.At(x, y) != bg {
				t.Fatalf("pixel (%d,%d) not cleared", x, y)
			}
		}
	}
}
