package desktop

import (
	"glaze/gfx/geom"
	"glaze/gfx/layer"
	"glaze/gfx/surface"
)

var (
	windowBG         = surface.Hex(0xc6c6c6)
	windowFG         = surface.Hex(0x000000)
	windowHighlight1 = surface.Hex(0xc6c6c6)
	windowHighlight2 = surface.Hex(0xffffff)
	windowShadow1    = surface.Hex(0x848484)
	windowShadow2    = surface.Hex(0x000000)
	titleBG          = surface.Hex(0x000084)
	titleFG          = surface.Hex(0xffffff)
)

// TitleBarHeight is the height of the title bar below the 3px frame.
const TitleBarHeight = 18

var closeButton = [...]string{
	"...............@",
	".:::::::::::::$@",
	".:::::::::::::$@",
	".:::@@::::@@::$@",
	".::::@@::@@:::$@",
	".:::::@@@@::::$@",
	".::::::@@:::::$@",
	".:::::@@@@::::$@",
	".::::@@::@@:::$@",
	".:::@@::::@@::$@",
	".:::::::::::::$@",
	".:::::::::::::$@",
	".$$$$$$$$$$$$$$@",
	"@@@@@@@@@@@@@@@@",
}

// DrawWindow paints a bevelled window frame with a title bar and a close box
// over the whole layer.
func DrawWindow(p *layer.Painter, title string) {
	size := p.Size()
	w, h := size.X, size.Y

	p.DrawRectangle(geom.R(0, 0, w, 1), windowHighlight1)
	p.DrawRectangle(geom.R(0, 0, 1, h), windowHighlight1)
	p.DrawRectangle(geom.R(1, 1, w-1, 2), windowHighlight2)
	p.DrawRectangle(geom.R(1, 1, 2, h-1), windowHighlight2)

	p.FillRectangle(geom.R(2, 2, w-2, h-2), windowBG)

	p.FillRectangle(geom.R(1, h-2, w-1, h-1), windowShadow1)
	p.FillRectangle(geom.R(w-2, 1, w-1, h-1), windowShadow1)
	p.DrawRectangle(geom.R(0, h-1, w, h), windowShadow2)
	p.DrawRectangle(geom.R(w-1, 0, w, h), windowShadow2)

	p.FillRectangle(geom.R(3, 3, w-3, 3+TitleBarHeight), titleBG)
	p.DrawString(geom.Vec(24, 8), title, titleFG)

	origin := geom.Vec(w-5-len(closeButton[0]), 5)
	wr := p.RawWriter()
	for y, row := range closeButton {
		for x := 0; x < len(row); x++ {
			c := windowBG
			switch row[x] {
			case '@':
				c = windowFG
			case '.':
				c = windowHighlight2
			case '$':
				c = windowShadow1
			}
			wr.Write(origin.X+x, origin.Y+y, c)
		}
	}
	p.RawDamage(geom.RectWithSize(origin, geom.Vec(len(closeButton[0]), len(closeButton))))
}
