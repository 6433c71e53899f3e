package picture

import "fmt"

// PaintStyle selects whether geometry is filled, stroked, or both.
type PaintStyle uint8

const (
	// StyleFill fills the interior of the geometry.
	StyleFill PaintStyle = iota
	// StyleStroke strokes the outline of the geometry.
	StyleStroke
	// StyleStrokeAndFill fills, then strokes.
	StyleStrokeAndFill
)

// String returns the style name.
func (s PaintStyle) String() string {
	switch s {
	case StyleFill:
		return "Fill"
	case StyleStroke:
		return "Stroke"
	case StyleStrokeAndFill:
		return "StrokeAndFill"
	}
	return fmt.Sprintf("PaintStyle(%d)", s)
}

// LineCap specifies the shape of open stroke ends.
type LineCap uint8

const (
	LineCapButt LineCap = iota
	LineCapRound
	LineCapSquare
)

// LineJoin specifies the shape of stroke corners.
type LineJoin uint8

const (
	LineJoinMiter LineJoin = iota
	LineJoinRound
	LineJoinBevel
)

// Paint holds the style used by a draw call. It is copied into the
// recording, so later changes do not affect recorded ops.
type Paint struct {
	Color       Color
	Style       PaintStyle
	StrokeWidth float64
	Cap         LineCap
	Join        LineJoin
	MiterLimit  float64
	AntiAlias   bool
}

// NewPaint returns an anti-aliased fill paint of color c.
func NewPaint(c Color) Paint {
	return Paint{
		Color:       c,
		Style:       StyleFill,
		StrokeWidth: 1,
		MiterLimit:  4,
		AntiAlias:   true,
	}
}

// NewStrokePaint returns an anti-aliased stroke paint.
func NewStrokePaint(c Color, width float64) Paint {
	p := NewPaint(c)
	p.Style = StyleStroke
	p.StrokeWidth = width
	return p
}

// Stroke describes stroke geometry, as passed to backends.
type Stroke struct {
	Width      float64
	Cap        LineCap
	Join       LineJoin
	MiterLimit float64
}

// StrokeStyle extracts the stroke geometry of p.
func (p Paint) StrokeStyle() Stroke {
	return Stroke{Width: p.StrokeWidth, Cap: p.Cap, Join: p.Join, MiterLimit: p.MiterLimit}
}

// fills reports whether the paint fills geometry.
func (p Paint) fills() bool { return p.Style != StyleStroke }

// strokes reports whether the paint strokes geometry.
func (p Paint) strokes() bool { return p.Style != StyleFill }

// outset returns how far a stroke with this paint can reach past the
// geometry, in local units.
func (p Paint) outset() float64 {
	if !p.strokes() {
		return 0
	}
	w := p.StrokeWidth
	if w <= 0 {
		w = 1 // hairline
	}
	r := w / 2
	if p.Join == LineJoinMiter && p.MiterLimit > 1 {
		r *= p.MiterLimit
	}
	if p.Cap == LineCapSquare && r < w*0.7072 {
		r = w * 0.7072 // sqrt(2)/2
	}
	return r
}
