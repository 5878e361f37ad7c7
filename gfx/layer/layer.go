// Package layer composites independently drawn layers into one surface.
//
// A Compositor owns its layers and keeps a bottom-to-top z-stack of the
// visible ones. Drawing into a layer goes through a Painter, which reports the
// touched region once; the Compositor then redraws only that region, skipping
// layers hidden under an opaque layer that covers it. A group layer hosts a
// nested Compositor whose damage bubbles up to the parent.
//
// Layers never point back at their Compositor. Everything that needs both
// (moving, damage, painting) is a Compositor method keyed by LayerID.
package layer

import (
	"glaze/gfx/geom"
	"glaze/gfx/surface"
)

// LayerID identifies a layer within one Compositor. IDs increase strictly and
// are never reused.
type LayerID uint32

// NoLayer is never assigned to a layer.
const NoLayer LayerID = 0

// Kind tags the layer variant.
type Kind uint8

const (
	// KindBuffer layers are drawn directly through a Painter.
	KindBuffer Kind = iota + 1
	// KindGroup layers render a nested Compositor into their canvas.
	KindGroup
)

func (k Kind) String() string {
	switch k {
	case KindBuffer:
		return "buffer"
	case KindGroup:
		return "group"
	default:
		return "unknown"
	}
}

// Layer is a positioned, sized drawable owned by a Compositor.
type Layer struct {
	id   LayerID
	kind Kind
	pos  geom.Vector2D[int]

	// buf is the layer's pixels; for a group it is the nested
	// Compositor's target.
	buf   *surface.Surface
	group *Compositor

	transparent    surface.Color
	hasTransparent bool
	draggable      bool
}

func (l *Layer) ID() LayerID                  { return l.id }
func (l *Layer) Kind() Kind                   { return l.kind }
func (l *Layer) Position() geom.Vector2D[int] { return l.pos }
func (l *Layer) Size() geom.Vector2D[int]     { return l.buf.Size() }

// Area is the layer's footprint in its Compositor's coordinates.
func (l *Layer) Area() geom.Rect[int] {
	return geom.RectWithSize(l.pos, l.Size())
}

// Surface exposes the layer's backing pixels.
func (l *Layer) Surface() *surface.Surface { return l.buf }

// Group returns the nested Compositor of a group layer, or nil.
func (l *Layer) Group() *Compositor { return l.group }

// SetTransparentColor makes pixels of color c see-through.
func (l *Layer) SetTransparentColor(c surface.Color) {
	l.transparent = c
	l.hasTransparent = true
}

// ClearTransparentColor makes the layer fully opaque.
func (l *Layer) ClearTransparentColor() {
	l.hasTransparent = false
}

func (l *Layer) TransparentColor() (surface.Color, bool) {
	return l.transparent, l.hasTransparent
}

// Opaque reports whether the layer hides everything beneath its footprint.
func (l *Layer) Opaque() bool { return !l.hasTransparent }

// Draggable is a hint for pointer handling; the compositor ignores it.
func (l *Layer) Draggable() bool     { return l.draggable }
func (l *Layer) SetDraggable(v bool) { l.draggable = v }

func (l *Layer) key() *surface.Color {
	if !l.hasTransparent {
		return nil
	}
	c := l.transparent
	return &c
}

// drawTo copies the part of the layer inside clip (compositor coordinates)
// onto dst.
func (l *Layer) drawTo(dst *surface.Surface, clip geom.Rect[int]) error {
	area := l.Area()
	if !clip.IsCrossing(area) {
		return nil
	}
	cross := clip.Cross(area)
	return dst.CopyFrom(l.buf, cross.TopLeft, cross.TopLeft.Sub(l.pos), cross.Size(), l.key())
}
