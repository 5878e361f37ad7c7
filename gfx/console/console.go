// Package console is a text terminal living in a buffer layer.
//
// Bytes written to a Console are laid out on a fixed cell grid, wrapping at
// the right edge and scrolling the layer up when the last row is full. Each
// Write reports its damage once, so a burst of output costs one repaint.
package console

import (
	"fmt"
	"unicode/utf8"

	"glaze/gfx/geom"
	"glaze/gfx/layer"
	"glaze/gfx/surface"
)

const tabWidth = 4

// Console implements io.Writer.
type Console struct {
	c    *layer.Compositor
	id   layer.LayerID
	font *layer.TinyFont

	fg, bg surface.Color

	cell       geom.Vector2D[int]
	cols, rows int
	col, row   int

	// Incomplete UTF-8 sequence left over from the previous Write.
	pending []byte
}

type Option func(*Console)

// WithFont replaces layer.DefaultFont.
func WithFont(f *layer.TinyFont) Option {
	return func(con *Console) { con.font = f }
}

// New creates a hidden buffer layer of the given pixel size in c and clears it
// to bg.
func New(c *layer.Compositor, size geom.Vector2D[int], fg, bg surface.Color, opts ...Option) (*Console, error) {
	con := &Console{c: c, font: layer.DefaultFont, fg: fg, bg: bg}
	for _, opt := range opts {
		opt(con)
	}

	con.cell = geom.Vec(con.font.Width("0"), con.font.Height)
	if con.cell.X <= 0 || con.cell.Y <= 0 {
		return nil, fmt.Errorf("console: font has empty cell %v", con.cell)
	}
	con.cols = size.X / con.cell.X
	con.rows = size.Y / con.cell.Y
	if con.cols == 0 || con.rows == 0 {
		return nil, fmt.Errorf("console: %dx%d too small for a %dx%d cell", size.X, size.Y, con.cell.X, con.cell.Y)
	}

	l, err := c.NewBufferLayer(size)
	if err != nil {
		return nil, fmt.Errorf("console: %w", err)
	}
	con.id = l.ID()
	l.Surface().Fill(bg)
	return con, nil
}

func (con *Console) ID() layer.LayerID { return con.id }

// Grid returns the number of columns and rows.
func (con *Console) Grid() (cols, rows int) { return con.cols, con.rows }

// Cursor returns the cell the next rune goes to.
func (con *Console) Cursor() (col, row int) { return con.col, con.row }

// Clear blanks the console and homes the cursor.
func (con *Console) Clear() error {
	p, err := con.c.StartPaint(con.id)
	if err != nil {
		return err
	}
	defer p.End()
	p.FillRectangle(geom.RectWithSize(geom.Vector2D[int]{}, p.Size()), con.bg)
	con.col, con.row = 0, 0
	con.pending = con.pending[:0]
	return nil
}

func (con *Console) Write(b []byte) (int, error) {
	p, err := con.c.StartPaint(con.id)
	if err != nil {
		return 0, err
	}
	defer p.End()

	n := len(b)
	if len(con.pending) > 0 {
		b = append(con.pending, b...)
		con.pending = nil
	}
	for len(b) > 0 {
		if !utf8.FullRune(b) {
			con.pending = append([]byte(nil), b...)
			break
		}
		r, size := utf8.DecodeRune(b)
		b = b[size:]
		con.put(p, r)
	}
	return n, nil
}

func (con *Console) WriteString(s string) (int, error) {
	return con.Write([]byte(s))
}

func (con *Console) put(p *layer.Painter, r rune) {
	switch r {
	case '\n':
		con.newline(p)
	case '\r':
		con.col = 0
	case '\b':
		if con.col > 0 {
			con.col--
			con.clearCell(p)
		}
	case '\t':
		for {
			con.put(p, ' ')
			if con.col%tabWidth == 0 {
				break
			}
		}
	default:
		if r < ' ' {
			return
		}
		if con.col == con.cols {
			con.newline(p)
		}
		con.clearCell(p)
		pos := geom.Vec(con.col*con.cell.X, con.row*con.cell.Y)
		p.RawDamage(con.font.RenderGlyph(p.RawWriter(), pos, r, con.fg))
		con.col++
	}
}

func (con *Console) clearCell(p *layer.Painter) {
	pos := geom.Vec(con.col*con.cell.X, con.row*con.cell.Y)
	p.FillRectangle(geom.RectWithSize(pos, con.cell), con.bg)
}

func (con *Console) newline(p *layer.Painter) {
	con.col = 0
	if con.row+1 < con.rows {
		con.row++
		return
	}
	h := con.cell.Y
	p.CopyRows(0, h, (con.rows-1)*h)
	p.FillRectangle(geom.R(0, (con.rows-1)*h, p.Size().X, p.Size().Y), con.bg)
}
