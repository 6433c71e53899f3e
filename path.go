package picture

import "math"

// Point is a 2D point.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Verb identifies a path segment.
type Verb uint8

// Path verbs. Each verb consumes a fixed number of points:
// Move 1, Line 1, Quad 2, Cubic 3, Close 0.
const (
	VerbMove Verb = iota
	VerbLine
	VerbQuad
	VerbCubic
	VerbClose
)

var verbNames = [...]string{
	VerbMove:  "Move",
	VerbLine:  "Line",
	VerbQuad:  "Quad",
	VerbCubic: "Cubic",
	VerbClose: "Close",
}

// String returns the verb name.
func (v Verb) String() string {
	if int(v) < len(verbNames) {
		return verbNames[v]
	}
	return "Unknown"
}

// PointCount returns the number of points consumed by the verb.
func (v Verb) PointCount() int {
	switch v {
	case VerbMove, VerbLine:
		return 1
	case VerbQuad:
		return 2
	case VerbCubic:
		return 3
	}
	return 0
}

// FillRule decides which regions of a self-intersecting path are inside.
type FillRule uint8

const (
	// FillRuleNonZero fills regions with a non-zero winding number.
	FillRuleNonZero FillRule = iota
	// FillRuleEvenOdd fills regions crossed an odd number of times.
	FillRuleEvenOdd
)

// String returns the fill rule name.
func (f FillRule) String() string {
	if f == FillRuleEvenOdd {
		return "EvenOdd"
	}
	return "NonZero"
}

// Path is a sequence of contours made of lines and Bézier curves.
// A Path recorded by a Canvas is copied, so callers may keep mutating theirs.
type Path struct {
	verbs    []Verb
	points   []Point
	start    Point
	FillRule FillRule
}

// NewPath creates an empty path.
func NewPath() *Path {
	return &Path{
		verbs:  make([]Verb, 0, 16),
		points: make([]Point, 0, 32),
	}
}

// MoveTo starts a new contour at (x, y).
func (p *Path) MoveTo(x, y float64) {
	p.verbs = append(p.verbs, VerbMove)
	p.points = append(p.points, Pt(x, y))
	p.start = Pt(x, y)
}

// LineTo adds a line. A path without a current point starts at (0, 0).
func (p *Path) LineTo(x, y float64) {
	p.injectMove()
	p.verbs = append(p.verbs, VerbLine)
	p.points = append(p.points, Pt(x, y))
}

// QuadTo adds a quadratic Bézier curve.
func (p *Path) QuadTo(cx, cy, x, y float64) {
	p.injectMove()
	p.verbs = append(p.verbs, VerbQuad)
	p.points = append(p.points, Pt(cx, cy), Pt(x, y))
}

// CubicTo adds a cubic Bézier curve.
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	p.injectMove()
	p.verbs = append(p.verbs, VerbCubic)
	p.points = append(p.points, Pt(c1x, c1y), Pt(c2x, c2y), Pt(x, y))
}

// Close closes the current contour.
func (p *Path) Close() {
	if len(p.verbs) == 0 || p.verbs[len(p.verbs)-1] == VerbClose {
		return
	}
	p.verbs = append(p.verbs, VerbClose)
}

func (p *Path) injectMove() {
	if len(p.verbs) == 0 {
		p.MoveTo(0, 0)
		return
	}
	if p.verbs[len(p.verbs)-1] == VerbClose {
		p.MoveTo(p.start.X, p.start.Y)
	}
}

// AddRect adds a closed rectangular contour.
func (p *Path) AddRect(r Rect) {
	p.MoveTo(r.Left, r.Top)
	p.LineTo(r.Right, r.Top)
	p.LineTo(r.Right, r.Bottom)
	p.LineTo(r.Left, r.Bottom)
	p.Close()
}

// AddOval adds an ellipse inscribed in r, built from four cubic curves.
func (p *Path) AddOval(r Rect) {
	const k = 0.5522847498307936 // 4/3 * (sqrt(2) - 1)
	cx, cy := (r.Left+r.Right)/2, (r.Top+r.Bottom)/2
	rx, ry := r.Width()/2, r.Height()/2
	ox, oy := rx*k, ry*k

	p.MoveTo(cx+rx, cy)
	p.CubicTo(cx+rx, cy+oy, cx+ox, cy+ry, cx, cy+ry)
	p.CubicTo(cx-ox, cy+ry, cx-rx, cy+oy, cx-rx, cy)
	p.CubicTo(cx-rx, cy-oy, cx-ox, cy-ry, cx, cy-ry)
	p.CubicTo(cx+ox, cy-ry, cx+rx, cy-oy, cx+rx, cy)
	p.Close()
}

// AddCircle adds a circle.
func (p *Path) AddCircle(cx, cy, radius float64) {
	p.AddOval(LTRB(cx-radius, cy-radius, cx+radius, cy+radius))
}

// AddRRect adds a rectangle with elliptical corners of radii rx, ry.
// Radii are clamped to half the rect size.
func (p *Path) AddRRect(r Rect, rx, ry float64) {
	rx = math.Min(math.Abs(rx), r.Width()/2)
	ry = math.Min(math.Abs(ry), r.Height()/2)
	if rx <= 0 || ry <= 0 {
		p.AddRect(r)
		return
	}
	const k = 0.5522847498307936
	ox, oy := rx*k, ry*k
	l, t, rt, b := r.Left, r.Top, r.Right, r.Bottom

	p.MoveTo(l+rx, t)
	p.LineTo(rt-rx, t)
	p.CubicTo(rt-rx+ox, t, rt, t+ry-oy, rt, t+ry)
	p.LineTo(rt, b-ry)
	p.CubicTo(rt, b-ry+oy, rt-rx+ox, b, rt-rx, b)
	p.LineTo(l+rx, b)
	p.CubicTo(l+rx-ox, b, l, b-ry+oy, l, b-ry)
	p.LineTo(l, t+ry)
	p.CubicTo(l, t+ry-oy, l+rx-ox, t, l+rx, t)
	p.Close()
}

// IsEmpty reports whether the path has no verbs.
func (p *Path) IsEmpty() bool { return len(p.verbs) == 0 }

// VerbCount returns the number of verbs.
func (p *Path) VerbCount() int { return len(p.verbs) }

// Verbs returns the verbs. The slice must not be modified.
func (p *Path) Verbs() []Verb { return p.verbs }

// Points returns the points. The slice must not be modified.
func (p *Path) Points() []Point { return p.points }

// Bounds returns the bounds of all points, including control points.
// An empty path has empty bounds.
func (p *Path) Bounds() Rect {
	if len(p.points) == 0 {
		return Rect{}
	}
	b := Rect{Left: p.points[0].X, Top: p.points[0].Y, Right: p.points[0].X, Bottom: p.points[0].Y}
	for _, pt := range p.points[1:] {
		b.Left = math.Min(b.Left, pt.X)
		b.Top = math.Min(b.Top, pt.Y)
		b.Right = math.Max(b.Right, pt.X)
		b.Bottom = math.Max(b.Bottom, pt.Y)
	}
	return b
}

// Clone returns a deep copy of the path.
func (p *Path) Clone() *Path {
	return &Path{
		verbs:    append([]Verb(nil), p.verbs...),
		points:   append([]Point(nil), p.points...),
		start:    p.start,
		FillRule: p.FillRule,
	}
}

// Transform returns a copy of the path with every point mapped by m.
func (p *Path) Transform(m Matrix) *Path {
	out := p.Clone()
	for i, pt := range out.points {
		out.points[i].X, out.points[i].Y = m.MapPoint(pt.X, pt.Y)
	}
	out.start.X, out.start.Y = m.MapPoint(p.start.X, p.start.Y)
	return out
}

// Contour is a flattened polyline.
type Contour struct {
	Points []Point
	Closed bool
}

// Flatten converts curves into line segments whose deviation from the true
// curve stays below tolerance (in path units).
func (p *Path) Flatten(tolerance float64) []Contour {
	if tolerance <= 0 {
		tolerance = 0.25
	}
	var (
		out []Contour
		cur Contour
		pi  int
	)
	flush := func() {
		if len(cur.Points) > 1 {
			out = append(out, cur)
		}
		cur = Contour{}
	}
	last := func() Point { return cur.Points[len(cur.Points)-1] }

	for _, v := range p.verbs {
		switch v {
		case VerbMove:
			flush()
			cur.Points = append(cur.Points, p.points[pi])
		case VerbLine:
			cur.Points = append(cur.Points, p.points[pi])
		case VerbQuad:
			p0, p1, p2 := last(), p.points[pi], p.points[pi+1]
			n := segments(math.Hypot(p0.X-2*p1.X+p2.X, p0.Y-2*p1.Y+p2.Y)/4, tolerance)
			for i := 1; i <= n; i++ {
				t := float64(i) / float64(n)
				mt := 1 - t
				cur.Points = append(cur.Points, Pt(
					mt*mt*p0.X+2*mt*t*p1.X+t*t*p2.X,
					mt*mt*p0.Y+2*mt*t*p1.Y+t*t*p2.Y,
				))
			}
		case VerbCubic:
			p0, p1, p2, p3 := last(), p.points[pi], p.points[pi+1], p.points[pi+2]
			dd := math.Max(
				math.Hypot(p0.X-2*p1.X+p2.X, p0.Y-2*p1.Y+p2.Y),
				math.Hypot(p1.X-2*p2.X+p3.X, p1.Y-2*p2.Y+p3.Y),
			)
			n := segments(dd*3/4, tolerance)
			for i := 1; i <= n; i++ {
				t := float64(i) / float64(n)
				mt := 1 - t
				a, b, c, d := mt*mt*mt, 3*mt*mt*t, 3*mt*t*t, t*t*t
				cur.Points = append(cur.Points, Pt(
					a*p0.X+b*p1.X+c*p2.X+d*p3.X,
					a*p0.Y+b*p1.Y+c*p2.Y+d*p3.Y,
				))
			}
		case VerbClose:
			cur.Closed = true
			start := cur.Points[0]
			flush()
			cur.Points = append(cur.Points, start)
		}
		pi += v.PointCount()
	}
	flush()
	return out
}

// segments returns the subdivision count for a curve whose second difference
// has magnitude dd.
func segments(dd, tolerance float64) int {
	n := int(math.Ceil(math.Sqrt(dd / tolerance)))
	if n < 1 {
		return 1
	}
	if n > 256 {
		return 256
	}
	return n
}
