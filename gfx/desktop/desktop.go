// Package desktop builds the initial scene on a root Compositor and routes
// pointer input to it.
package desktop

import (
	"fmt"
	"log/slog"

	"glaze/gfx/console"
	"glaze/gfx/geom"
	"glaze/gfx/layer"
	"glaze/gfx/surface"
)

var (
	DefaultBG = surface.Color{R: 45, G: 118, B: 237}
	DefaultFG = surface.Color{R: 0xFF, G: 0xFF, B: 0xFF}

	consoleBG  = surface.Color{B: 123}
	taskbarBG  = surface.Color{R: 1, G: 8, B: 17}
	startBG    = surface.Color{R: 80, G: 80, B: 80}
	startFrame = surface.Color{R: 160, G: 160, B: 160}

	groupKey  = surface.Color{G: 0xFF}
	testOuter = surface.Color{R: 0xFF, B: 0xFF}
	testInner = surface.Color{R: 0xFF, G: 0xFF}
)

const taskbarHeight = 50

// Buttons is a bit mask of pressed pointer buttons.
type Buttons uint8

const (
	ButtonLeft Buttons = 1 << iota
	ButtonRight
	ButtonMiddle
)

// PointerEvent is one relative pointer report.
type PointerEvent struct {
	Delta   geom.Vector2D[int]
	Buttons Buttons
}

// Config tunes the scene. Zero values select defaults.
type Config struct {
	BG, FG         surface.Color
	DoubleBuffered bool
	WindowTitle    string
	Options        []layer.Option
}

func (c *Config) setDefaults() {
	if c.BG == (surface.Color{}) {
		c.BG = DefaultBG
	}
	if c.FG == (surface.Color{}) {
		c.FG = DefaultFG
	}
	if c.WindowTitle == "" {
		c.WindowTitle = "Hello Window"
	}
}

// Context owns the root Compositor and the ids of the well-known layers.
type Context struct {
	cfg    Config
	c      *layer.Compositor
	screen geom.Vector2D[int]
	con    *console.Console

	bgID, consoleID, groupID, windowID, cursorID layer.LayerID
	testID                                       layer.LayerID

	cursor  geom.Vector2D[int]
	buttons Buttons
	dragID  layer.LayerID
}

// New builds the scene, attaches target and draws the first frame.
func New(target *surface.Surface, cfg Config) (*Context, error) {
	cfg.setDefaults()

	ctx := &Context{cfg: cfg, screen: target.Size()}
	if cfg.DoubleBuffered {
		ctx.c = layer.NewDoubleBuffered(target.Format(), cfg.Options...)
	} else {
		ctx.c = layer.New(target.Format(), cfg.Options...)
	}

	for _, build := range []func() error{
		ctx.buildBackground,
		ctx.buildConsole,
		ctx.buildGroup,
		ctx.buildWindow,
		ctx.buildCursor,
	} {
		if err := build(); err != nil {
			return nil, fmt.Errorf("desktop: %w", err)
		}
	}

	for height, id := range []layer.LayerID{ctx.bgID, ctx.consoleID, ctx.groupID, ctx.windowID, ctx.cursorID} {
		ctx.c.UpDown(id, height)
	}

	if err := ctx.c.SetBuffer(target); err != nil {
		return nil, fmt.Errorf("desktop: %w", err)
	}
	ctx.c.Draw()
	layer.Logger().Info("desktop ready",
		slog.Int("width", ctx.screen.X),
		slog.Int("height", ctx.screen.Y),
		slog.Bool("double_buffered", cfg.DoubleBuffered))
	return ctx, nil
}

func (ctx *Context) buildBackground() error {
	l, err := ctx.c.NewBufferLayer(ctx.screen)
	if err != nil {
		return err
	}
	ctx.bgID = l.ID()

	p, err := ctx.c.StartPaint(l.ID())
	if err != nil {
		return err
	}
	defer p.End()
	w, h := ctx.screen.X, ctx.screen.Y
	p.FillRectangle(geom.R(0, 0, w, h-taskbarHeight), ctx.cfg.BG)
	p.FillRectangle(geom.R(0, h-taskbarHeight, w, h), taskbarBG)
	p.FillRectangle(geom.R(0, h-taskbarHeight, w/5, h), startBG)
	p.DrawRectangle(geom.R(10, h-40, 40, h-10), startFrame)
	return nil
}

func (ctx *Context) buildConsole() error {
	pos := geom.Vec(ctx.screen.X/5, ctx.screen.Y/5)
	size := geom.Vec(min(640, ctx.screen.X-pos.X), min(400, ctx.screen.Y-pos.Y))
	con, err := console.New(ctx.c, size, ctx.cfg.FG, consoleBG)
	if err != nil {
		return err
	}
	ctx.con = con
	ctx.consoleID = con.ID()
	ctx.c.Move(con.ID(), pos)
	return nil
}

// buildGroup nests a keyed-out background and a test square in a group layer.
func (ctx *Context) buildGroup() error {
	size := geom.Vec(min(500, ctx.screen.X), min(500, ctx.screen.Y))
	g, err := ctx.c.NewGroupLayer(size)
	if err != nil {
		return err
	}
	ctx.groupID = g.ID()
	g.SetTransparentColor(groupKey)

	inner := g.Group()
	bg, err := inner.NewBufferLayer(size)
	if err != nil {
		return err
	}
	bg.Surface().Fill(groupKey)

	test, err := inner.NewBufferLayer(geom.Vec(100, 100))
	if err != nil {
		return err
	}
	ctx.testID = test.ID()
	p, err := inner.StartPaint(test.ID())
	if err != nil {
		return err
	}
	p.FillRectangle(geom.R(0, 0, 100, 100), testOuter)
	p.FillRectangle(geom.RectWithSize(geom.Vec(30, 30), geom.Vec(50, 50)), testInner)
	p.End()
	inner.Move(test.ID(), geom.Vec(10, 10))

	inner.UpDown(bg.ID(), 0)
	inner.UpDown(test.ID(), 1)
	return nil
}

func (ctx *Context) buildWindow() error {
	l, err := ctx.c.NewBufferLayer(geom.Vec(160, 68))
	if err != nil {
		return err
	}
	ctx.windowID = l.ID()
	l.SetDraggable(true)

	p, err := ctx.c.StartPaint(l.ID())
	if err != nil {
		return err
	}
	DrawWindow(p, ctx.cfg.WindowTitle)
	p.DrawString(geom.Vec(8, 40), "Drag me around", windowFG)
	p.End()
	ctx.c.Move(l.ID(), geom.Vec(300, 300))
	return nil
}

func (ctx *Context) buildCursor() error {
	l, err := newCursorLayer(ctx.c)
	if err != nil {
		return err
	}
	ctx.cursorID = l.ID()
	ctx.cursor = geom.Vec(ctx.screen.X/2, ctx.screen.Y/2)
	ctx.c.Move(l.ID(), ctx.cursor)
	return nil
}

func (ctx *Context) Compositor() *layer.Compositor { return ctx.c }
func (ctx *Context) Console() *console.Console     { return ctx.con }
func (ctx *Context) Cursor() geom.Vector2D[int]    { return ctx.cursor }
func (ctx *Context) Screen() geom.Vector2D[int]    { return ctx.screen }

// Dragging returns the layer being dragged, or layer.NoLayer.
func (ctx *Context) Dragging() layer.LayerID { return ctx.dragID }

// Layers returns the ids of the scene's well-known layers.
func (ctx *Context) Layers() Layers {
	return Layers{
		Background: ctx.bgID,
		Console:    ctx.consoleID,
		Group:      ctx.groupID,
		Window:     ctx.windowID,
		Cursor:     ctx.cursorID,
		Test:       ctx.testID,
	}
}

// Layers names the scene's layers. Test lives in the group's Compositor.
type Layers struct {
	Background, Console, Group, Window, Cursor, Test layer.LayerID
}

// HandlePointer moves the cursor by ev.Delta, clamped to the screen, and
// drives dragging: pressing the left button over a draggable layer raises it
// just below the cursor, and it follows the cursor until release.
func (ctx *Context) HandlePointer(ev PointerEvent) {
	prev := ctx.cursor
	next := prev.Add(ev.Delta)
	next.X = max(0, min(next.X, ctx.screen.X-1))
	next.Y = max(0, min(next.Y, ctx.screen.Y-1))
	ctx.cursor = next
	diff := next.Sub(prev)
	if diff != (geom.Vector2D[int]{}) {
		ctx.c.Move(ctx.cursorID, next)
	}

	wasDown := ctx.buttons&ButtonLeft != 0
	isDown := ev.Buttons&ButtonLeft != 0
	ctx.buttons = ev.Buttons

	switch {
	case !wasDown && isDown:
		l := ctx.c.FindLayerByPosition(next, ctx.cursorID)
		if l == nil || !l.Draggable() {
			return
		}
		ctx.dragID = l.ID()
		ctx.c.UpDown(ctx.dragID, ctx.c.Height(ctx.cursorID)-1)
		layer.Logger().Debug("drag start", slog.Uint64("id", uint64(ctx.dragID)))
	case wasDown && isDown:
		if ctx.dragID != layer.NoLayer && diff != (geom.Vector2D[int]{}) {
			ctx.c.MoveRelative(ctx.dragID, diff)
		}
	case !isDown:
		ctx.dragID = layer.NoLayer
	}
}

// Redraw recomposites the whole screen.
func (ctx *Context) Redraw() { ctx.c.Draw() }

// SetStatus replaces the text at the right end of the taskbar.
func (ctx *Context) SetStatus(text string) error {
	p, err := ctx.c.StartPaint(ctx.bgID)
	if err != nil {
		return err
	}
	defer p.End()
	w, h := ctx.screen.X, ctx.screen.Y
	p.FillRectangle(geom.R(w-statusWidth, h-taskbarHeight+5, w-5, h-5), taskbarBG)
	p.DrawString(geom.Vec(w-statusWidth+5, h-taskbarHeight/2-5), text, ctx.cfg.FG)
	return nil
}

const statusWidth = 200

// ToggleGroup hides the group layer or puts it back under the window.
func (ctx *Context) ToggleGroup() {
	if ctx.c.Height(ctx.groupID) >= 0 {
		ctx.c.Hide(ctx.groupID)
		return
	}
	ctx.c.UpDown(ctx.groupID, ctx.c.Height(ctx.consoleID)+1)
}
