package picture

import "math"

// Rect is an axis-aligned rectangle given by its four edges.
//
// Rect is a value type: recorders and pictures copy the edge values and never
// keep a reference to the caller's variable. Edges are not validated. An
// inverted rect (Right < Left or Bottom < Top) is empty.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// LTRB returns a Rect with the given edges.
func LTRB(l, t, r, b float64) Rect {
	return Rect{Left: l, Top: t, Right: r, Bottom: b}
}

// XYWH returns a Rect with origin (x, y) and size w x h.
func XYWH(x, y, w, h float64) Rect {
	return Rect{Left: x, Top: y, Right: x + w, Bottom: y + h}
}

// LargestRect returns a rect that contains every finite point.
// It is used as the bounds of unbounded ops such as Clear.
func LargestRect() Rect {
	return Rect{
		Left:   -math.MaxFloat64,
		Top:    -math.MaxFloat64,
		Right:  math.MaxFloat64,
		Bottom: math.MaxFloat64,
	}
}

// Width returns Right - Left.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height returns Bottom - Top.
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// IsEmpty reports whether r encloses no area.
// NaN edges make a rect empty.
func (r Rect) IsEmpty() bool {
	return !(r.Left < r.Right && r.Top < r.Bottom)
}

// IsFinite reports whether all edges are finite numbers.
func (r Rect) IsFinite() bool {
	for _, v := range [...]float64{r.Left, r.Top, r.Right, r.Bottom} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}

// Sorted returns r with edges swapped as needed so that Left <= Right and
// Top <= Bottom.
func (r Rect) Sorted() Rect {
	if r.Left > r.Right {
		r.Left, r.Right = r.Right, r.Left
	}
	if r.Top > r.Bottom {
		r.Top, r.Bottom = r.Bottom, r.Top
	}
	return r
}

// Intersects reports whether r and o share a region of non-zero area.
func (r Rect) Intersects(o Rect) bool {
	return r.Left < o.Right && o.Left < r.Right &&
		r.Top < o.Bottom && o.Top < r.Bottom
}

// Intersect returns the intersection of r and o.
// The result is empty when they do not intersect.
func (r Rect) Intersect(o Rect) Rect {
	return Rect{
		Left:   math.Max(r.Left, o.Left),
		Top:    math.Max(r.Top, o.Top),
		Right:  math.Min(r.Right, o.Right),
		Bottom: math.Min(r.Bottom, o.Bottom),
	}
}

// Union returns the smallest rect containing both r and o.
// Empty rects are ignored.
func (r Rect) Union(o Rect) Rect {
	if o.IsEmpty() {
		return r
	}
	if r.IsEmpty() {
		return o
	}
	return Rect{
		Left:   math.Min(r.Left, o.Left),
		Top:    math.Min(r.Top, o.Top),
		Right:  math.Max(r.Right, o.Right),
		Bottom: math.Max(r.Bottom, o.Bottom),
	}
}

// Contains reports whether point (x, y) lies inside r.
// The left and top edges are inclusive, right and bottom exclusive.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.Left && x < r.Right && y >= r.Top && y < r.Bottom
}

// Inset returns r shrunk by dx horizontally and dy vertically on each side.
// Negative values grow the rect.
func (r Rect) Inset(dx, dy float64) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right - dx, Bottom: r.Bottom - dy}
}

// Offset returns r translated by (dx, dy).
func (r Rect) Offset(dx, dy float64) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

// RoundOut returns the smallest rect with integer edges that contains r.
func (r Rect) RoundOut() Rect {
	return Rect{
		Left:   math.Floor(r.Left),
		Top:    math.Floor(r.Top),
		Right:  math.Ceil(r.Right),
		Bottom: math.Ceil(r.Bottom),
	}
}
