package layer

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"glaze/gfx/geom"
	"glaze/gfx/surface"
)

var (
	ErrLayerNotFound = errors.New("layer not found")
	ErrNotPaintable  = errors.New("layer cannot be painted directly")
)

// Compositor owns layers and composites its visible stack into a target
// surface. The zero value is not usable; call New or NewDoubleBuffered.
//
// A Compositor is not safe for concurrent use. All calls are expected from a
// single event-dispatch goroutine.
type Compositor struct {
	format surface.Format
	alloc  surface.Allocator
	glyphs GlyphRenderer

	target *surface.Surface

	// Double buffering: every repaint goes to back, and only the damaged
	// region is copied to target afterwards.
	doubleBuffered bool
	back           *surface.Surface

	// Set when this Compositor lives inside a group layer.
	parent   *Compositor
	parentID LayerID

	layers   map[LayerID]*Layer
	stack    []*Layer
	latestID LayerID

	// onDraw observes every layer blit; tests count calls through it.
	onDraw func(id LayerID, clip geom.Rect[int])
}

// Option configures a Compositor.
type Option func(*Compositor)

// WithAllocator makes layer surfaces and back buffers allocate through a.
func WithAllocator(a surface.Allocator) Option {
	return func(c *Compositor) { c.alloc = a }
}

// WithGlyphRenderer replaces the font used by painters.
func WithGlyphRenderer(g GlyphRenderer) Option {
	return func(c *Compositor) { c.glyphs = g }
}

// New returns a Compositor whose layers use format f.
func New(f surface.Format, opts ...Option) *Compositor {
	c := &Compositor{
		format: f,
		alloc:  surface.HeapAllocator,
		glyphs: DefaultFont,
		layers: make(map[LayerID]*Layer),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewDoubleBuffered returns a Compositor that repaints off-screen and copies
// only finished regions to its target.
func NewDoubleBuffered(f surface.Format, opts ...Option) *Compositor {
	c := New(f, opts...)
	c.doubleBuffered = true
	return c
}

func (c *Compositor) Format() surface.Format       { return c.format }
func (c *Compositor) DoubleBuffered() bool         { return c.doubleBuffered }
func (c *Compositor) Target() *surface.Surface     { return c.target }
func (c *Compositor) BackBuffer() *surface.Surface { return c.back }

// SetBuffer sets the surface to composite into. nil detaches the target (and
// drops the back buffer). A double-buffered Compositor allocates a fresh back
// buffer with the target's size, seeded with its current pixels.
func (c *Compositor) SetBuffer(target *surface.Surface) error {
	if target == nil {
		c.target = nil
		c.back = nil
		Logger().Info("compositor target detached")
		return nil
	}
	if target.Format() != c.format {
		return fmt.Errorf("set buffer: %w: target %s, layers %s", surface.ErrUnknownPixelFormat, target.Format(), c.format)
	}
	if !c.doubleBuffered {
		c.target = target
		return nil
	}

	size := target.Size()
	back, err := surface.New(surface.Config{
		Width:     size.X,
		Height:    size.Y,
		Format:    c.format,
		Allocator: c.alloc,
	})
	if err != nil {
		return fmt.Errorf("set buffer: back buffer: %w", err)
	}
	if err := back.Forward(target); err != nil {
		return fmt.Errorf("set buffer: %w", err)
	}
	c.target = target
	c.back = back
	Logger().Info("compositor back buffer armed", slog.Int("width", size.X), slog.Int("height", size.Y))
	return nil
}

// canvas is where layers are blitted: the back buffer when armed.
func (c *Compositor) canvas() *surface.Surface {
	if c.back != nil {
		return c.back
	}
	return c.target
}

// NewBufferLayer creates a hidden layer with its own pixels.
func (c *Compositor) NewBufferLayer(size geom.Vector2D[int]) (*Layer, error) {
	buf, err := c.newSurface(size)
	if err != nil {
		return nil, err
	}
	return c.add(KindBuffer, buf, nil), nil
}

// NewGroupLayer creates a hidden layer hosting a nested Compositor that
// renders into the layer's canvas.
func (c *Compositor) NewGroupLayer(size geom.Vector2D[int]) (*Layer, error) {
	buf, err := c.newSurface(size)
	if err != nil {
		return nil, err
	}
	child := New(c.format, WithAllocator(c.alloc), WithGlyphRenderer(c.glyphs))
	child.target = buf
	l := c.add(KindGroup, buf, child)
	child.parent = c
	child.parentID = l.id
	return l, nil
}

func (c *Compositor) newSurface(size geom.Vector2D[int]) (*surface.Surface, error) {
	return surface.New(surface.Config{
		Width:     size.X,
		Height:    size.Y,
		Format:    c.format,
		Allocator: c.alloc,
	})
}

func (c *Compositor) add(kind Kind, buf *surface.Surface, group *Compositor) *Layer {
	c.latestID++
	l := &Layer{id: c.latestID, kind: kind, buf: buf, group: group}
	c.layers[l.id] = l
	Logger().Info("layer created",
		slog.Uint64("id", uint64(l.id)),
		slog.String("kind", kind.String()),
		slog.Int("width", buf.Size().X),
		slog.Int("height", buf.Size().Y))
	return l
}

// Layer looks up a layer by id. Hidden layers are still found.
func (c *Compositor) Layer(id LayerID) *Layer {
	return c.layers[id]
}

// Move places a layer's top-left corner at pos and redraws both the vacated
// and the newly covered area.
func (c *Compositor) Move(id LayerID, pos geom.Vector2D[int]) {
	l := c.layers[id]
	if l == nil {
		return
	}
	before := l.Area()
	l.pos = pos
	c.Damage(id, []geom.Rect[int]{before, l.Area()})
}

// MoveRelative moves a layer by delta.
func (c *Compositor) MoveRelative(id LayerID, delta geom.Vector2D[int]) {
	l := c.layers[id]
	if l == nil {
		return
	}
	c.Move(id, l.pos.Add(delta))
}

// DamageLayer reports rects in the layer's own coordinates as changed.
func (c *Compositor) DamageLayer(id LayerID, rects []geom.Rect[int]) {
	l := c.layers[id]
	if l == nil || len(rects) == 0 {
		return
	}
	translated := make([]geom.Rect[int], len(rects))
	for i, r := range rects {
		translated[i] = r.Offset(l.pos)
	}
	c.Damage(id, translated)
}

// Damage redraws the bounding box of rects (compositor coordinates) after
// layer id changed there.
//
// Scanning from the top, the first opaque layer covering the whole region
// hides everything beneath it, so only layers from that one upwards are
// redrawn. If id itself is not among them the change is invisible and nothing
// is drawn. A nested Compositor then forwards the region to its parent.
func (c *Compositor) Damage(id LayerID, rects []geom.Rect[int]) {
	if c.target == nil {
		return
	}
	r, ok := geom.MergeAll(rects)
	if !ok {
		return
	}

	from := c.occluder(r)
	if !slices.ContainsFunc(c.stack[from:], func(l *Layer) bool { return l.id == id }) {
		Logger().Debug("damage hidden",
			slog.Uint64("id", uint64(id)),
			slog.Any("rect", r))
		return
	}
	c.repaintFrom(from, r)
}

// repaint redraws r regardless of which layer caused it.
func (c *Compositor) repaint(r geom.Rect[int]) {
	if c.target == nil || r.Empty() {
		return
	}
	c.repaintFrom(c.occluder(r), r)
}

func (c *Compositor) repaintFrom(from int, r geom.Rect[int]) {
	canvas := c.canvas()
	for _, l := range c.stack[from:] {
		c.drawLayer(l, canvas, r)
	}
	if c.back != nil {
		if err := c.target.CopyFrom(c.back, r.TopLeft, r.TopLeft, r.Size(), nil); err != nil {
			Logger().Warn("present back buffer", slog.Any("err", err))
		}
	}
	c.bubble(r)
}

// occluder returns the stack index of the topmost opaque layer that fully
// covers r, or 0 when there is none.
func (c *Compositor) occluder(r geom.Rect[int]) int {
	for i := len(c.stack) - 1; i >= 0; i-- {
		l := c.stack[i]
		if l.Opaque() && l.Area().Includes(r) {
			if i > 0 {
				Logger().Debug("damage occluded",
					slog.Uint64("by", uint64(l.id)),
					slog.Int("skipped", i))
			}
			return i
		}
	}
	return 0
}

func (c *Compositor) bubble(r geom.Rect[int]) {
	if c.parent != nil {
		c.parent.DamageLayer(c.parentID, []geom.Rect[int]{r})
	}
}

func (c *Compositor) drawLayer(l *Layer, dst *surface.Surface, clip geom.Rect[int]) {
	if c.onDraw != nil {
		c.onDraw(l.id, clip)
	}
	if err := l.drawTo(dst, clip); err != nil {
		Logger().Warn("draw layer", slog.Uint64("id", uint64(l.id)), slog.Any("err", err))
	}
}

// Draw recomposites the whole stack. With double buffering the finished
// frame is forwarded to the target in one copy.
func (c *Compositor) Draw() {
	if c.target == nil {
		return
	}
	canvas := c.canvas()
	for _, l := range c.stack {
		c.drawLayer(l, canvas, l.Area())
	}
	if c.back != nil {
		if err := c.target.Forward(c.back); err != nil {
			Logger().Warn("forward back buffer", slog.Any("err", err))
		}
	}
	c.bubble(geom.RectWithSize(geom.Vector2D[int]{}, c.target.Size()))
}

// UpDown moves a layer to z-index height (0 is the bottom). A negative
// height hides it; a height at or past the top places it on top.
func (c *Compositor) UpDown(id LayerID, height int) {
	l := c.layers[id]
	if l == nil {
		return
	}
	if height < 0 {
		c.Hide(id)
		return
	}

	height = min(height, len(c.stack))
	i := c.Height(id)
	if i >= 0 {
		c.stack = slices.Delete(c.stack, i, i+1)
	}
	height = min(height, len(c.stack))
	c.stack = slices.Insert(c.stack, height, l)
	if i >= 0 {
		// The old pixels may now belong to a layer that covers it.
		c.repaint(l.Area())
		return
	}
	c.Damage(id, []geom.Rect[int]{l.Area()})
}

// Hide removes a layer from the stack and uncovers what was beneath it. The
// layer itself is kept. Hiding a hidden layer does nothing.
func (c *Compositor) Hide(id LayerID) {
	i := c.Height(id)
	if i < 0 {
		return
	}
	l := c.stack[i]
	c.stack = slices.Delete(c.stack, i, i+1)
	c.repaint(l.Area())
}

// Height returns the z-index of a visible layer, or -1 if it is hidden.
func (c *Compositor) Height(id LayerID) int {
	return slices.IndexFunc(c.stack, func(l *Layer) bool { return l.id == id })
}

// Stack returns the visible layer ids from bottom to top.
func (c *Compositor) Stack() []LayerID {
	ids := make([]LayerID, len(c.stack))
	for i, l := range c.stack {
		ids[i] = l.id
	}
	return ids
}

// FindLayerByPosition returns the topmost visible layer under pos, ignoring
// exclude, or nil.
func (c *Compositor) FindLayerByPosition(pos geom.Vector2D[int], exclude LayerID) *Layer {
	for i := len(c.stack) - 1; i >= 0; i-- {
		l := c.stack[i]
		if l.id == exclude {
			continue
		}
		if l.Area().Contains(pos) {
			return l
		}
	}
	return nil
}

// StartPaint opens a Painter on a buffer layer. Call End (usually deferred)
// to report what was drawn.
func (c *Compositor) StartPaint(id LayerID) (*Painter, error) {
	l := c.layers[id]
	if l == nil {
		return nil, fmt.Errorf("start paint %d: %w", id, ErrLayerNotFound)
	}
	if l.kind != KindBuffer {
		return nil, fmt.Errorf("start paint %d (%s): %w", id, l.kind, ErrNotPaintable)
	}
	return newPainter(c, l), nil
}
