// Package geom provides the small vector and rectangle types used by the
// compositor. Rectangles are half-open: Left/Top are inclusive, Right/Bottom
// are exclusive. A rectangle with a non-positive width or height is valid and
// simply covers nothing.
package geom

import "golang.org/x/exp/constraints"

// Number is the set of element types a Vector2D or Rect can hold.
type Number interface {
	constraints.Integer | constraints.Float
}

// Vector2D is a point or a size.
type Vector2D[T Number] struct {
	X T
	Y T
}

// Vec is shorthand for Vector2D[T]{x, y}.
func Vec[T Number](x, y T) Vector2D[T] {
	return Vector2D[T]{X: x, Y: y}
}

func (v Vector2D[T]) Add(o Vector2D[T]) Vector2D[T] {
	return Vector2D[T]{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vector2D[T]) Sub(o Vector2D[T]) Vector2D[T] {
	return Vector2D[T]{X: v.X - o.X, Y: v.Y - o.Y}
}

// Min returns the component-wise minimum.
func (v Vector2D[T]) Min(o Vector2D[T]) Vector2D[T] {
	return Vector2D[T]{X: min(v.X, o.X), Y: min(v.Y, o.Y)}
}

// Max returns the component-wise maximum.
func (v Vector2D[T]) Max(o Vector2D[T]) Vector2D[T] {
	return Vector2D[T]{X: max(v.X, o.X), Y: max(v.Y, o.Y)}
}

// Rect is an axis-aligned rectangle.
type Rect[T Number] struct {
	TopLeft     Vector2D[T]
	BottomRight Vector2D[T]
}

// R builds a rectangle from its edges.
func R[T Number](left, top, right, bottom T) Rect[T] {
	return Rect[T]{TopLeft: Vec(left, top), BottomRight: Vec(right, bottom)}
}

// RectWithSize builds a rectangle from its top-left corner and size.
func RectWithSize[T Number](topLeft, size Vector2D[T]) Rect[T] {
	return Rect[T]{TopLeft: topLeft, BottomRight: topLeft.Add(size)}
}

func (r Rect[T]) Left() T   { return r.TopLeft.X }
func (r Rect[T]) Top() T    { return r.TopLeft.Y }
func (r Rect[T]) Right() T  { return r.BottomRight.X }
func (r Rect[T]) Bottom() T { return r.BottomRight.Y }

func (r Rect[T]) Width() T  { return r.BottomRight.X - r.TopLeft.X }
func (r Rect[T]) Height() T { return r.BottomRight.Y - r.TopLeft.Y }

func (r Rect[T]) Size() Vector2D[T] {
	return Vector2D[T]{X: r.Width(), Y: r.Height()}
}

// Empty reports whether r covers no area.
func (r Rect[T]) Empty() bool {
	return r.BottomRight.X <= r.TopLeft.X || r.BottomRight.Y <= r.TopLeft.Y
}

// Offset translates r by d.
func (r Rect[T]) Offset(d Vector2D[T]) Rect[T] {
	return Rect[T]{TopLeft: r.TopLeft.Add(d), BottomRight: r.BottomRight.Add(d)}
}

// Merge returns the bounding rectangle of r and o.
func (r Rect[T]) Merge(o Rect[T]) Rect[T] {
	return Rect[T]{TopLeft: r.TopLeft.Min(o.TopLeft), BottomRight: r.BottomRight.Max(o.BottomRight)}
}

// Cross returns the intersection of r and o. The result is empty (but not
// necessarily zero) when they do not overlap.
func (r Rect[T]) Cross(o Rect[T]) Rect[T] {
	return Rect[T]{TopLeft: r.TopLeft.Max(o.TopLeft), BottomRight: r.BottomRight.Min(o.BottomRight)}
}

// IsCrossing reports whether r and o overlap with positive area.
func (r Rect[T]) IsCrossing(o Rect[T]) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.Left() < o.Right() && r.Top() < o.Bottom() && o.Left() < r.Right() && o.Top() < r.Bottom()
}

// Includes reports whether r fully encloses o.
func (r Rect[T]) Includes(o Rect[T]) bool {
	return r.Left() <= o.Left() && r.Top() <= o.Top() && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// Contains reports whether p lies inside r.
func (r Rect[T]) Contains(p Vector2D[T]) bool {
	return r.Left() <= p.X && r.Top() <= p.Y && p.X < r.Right() && p.Y < r.Bottom()
}

// MergeAll folds rects into one bounding rectangle. ok is false when rects is
// empty.
func MergeAll[T Number](rects []Rect[T]) (merged Rect[T], ok bool) {
	if len(rects) == 0 {
		return Rect[T]{}, false
	}
	merged = rects[0]
	for _, r := range rects[1:] {
		merged = merged.Merge(r)
	}
	return merged, true
}
