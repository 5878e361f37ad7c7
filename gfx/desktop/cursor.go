package desktop

import (
	"glaze/gfx/geom"
	"glaze/gfx/layer"
	"glaze/gfx/surface"
)

var cursorShape = [...]string{
	"@              ",
	"@@             ",
	"@.@            ",
	"@..@           ",
	"@...@          ",
	"@....@         ",
	"@.....@        ",
	"@......@       ",
	"@.......@      ",
	"@........@     ",
	"@.........@    ",
	"@..........@   ",
	"@...........@  ",
	"@............@ ",
	"@......@@@@@@@@",
	"@......@       ",
	"@....@@.@      ",
	"@...@ @.@      ",
	"@..@   @.@     ",
	"@.@    @.@     ",
	"@@      @.@    ",
	"@       @.@    ",
	"         @.@   ",
	"         @@@   ",
}

// cursorKey fills the cells around the arrow and is keyed out.
var cursorKey = surface.Color{R: 0xFF}

func newCursorLayer(c *layer.Compositor) (*layer.Layer, error) {
	l, err := c.NewBufferLayer(geom.Vec(len(cursorShape[0]), len(cursorShape)))
	if err != nil {
		return nil, err
	}
	l.SetTransparentColor(cursorKey)

	p, err := c.StartPaint(l.ID())
	if err != nil {
		return nil, err
	}
	defer p.End()
	w := p.PixelWriter()
	for y, row := range cursorShape {
		for x := 0; x < len(row); x++ {
			switch row[x] {
			case '@':
				w.Write(x, y, surface.Color{})
			case '.':
				w.Write(x, y, surface.Color{R: 0xFF, G: 0xFF, B: 0xFF})
			default:
				w.Write(x, y, cursorKey)
			}
		}
	}
	return l, nil
}
