package picture

import "math"

// Matrix is a 2D affine transformation in row-major order:
//
//	| A  B  C |
//	| D  E  F |
//
// which maps (x, y) to (A*x + B*y + C, D*x + E*y + F).
type Matrix struct {
	A, B, C float64
	D, E, F float64
}

// Identity returns the identity matrix.
func Identity() Matrix {
	return Matrix{A: 1, E: 1}
}

// Translate returns a translation matrix.
func Translate(x, y float64) Matrix {
	return Matrix{A: 1, C: x, E: 1, F: y}
}

// Scale returns a scaling matrix.
func Scale(sx, sy float64) Matrix {
	return Matrix{A: sx, E: sy}
}

// Rotate returns a rotation matrix. The angle is in degrees.
func Rotate(degrees float64) Matrix {
	sin, cos := math.Sincos(degrees * math.Pi / 180)
	return Matrix{
		A: cos, B: -sin,
		D: sin, E: cos,
	}
}

// Skew returns a skew matrix.
func Skew(kx, ky float64) Matrix {
	return Matrix{A: 1, B: kx, D: ky, E: 1}
}

// Multiply returns m * other: other is applied first, then m.
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A: m.A*other.A + m.B*other.D,
		B: m.A*other.B + m.B*other.E,
		C: m.A*other.C + m.B*other.F + m.C,
		D: m.D*other.A + m.E*other.D,
		E: m.D*other.B + m.E*other.E,
		F: m.D*other.C + m.E*other.F + m.F,
	}
}

// MapPoint applies the transformation to a point.
func (m Matrix) MapPoint(x, y float64) (float64, float64) {
	return m.A*x + m.B*y + m.C, m.D*x + m.E*y + m.F
}

// MapVector applies the transformation to a vector (no translation).
func (m Matrix) MapVector(x, y float64) (float64, float64) {
	return m.A*x + m.B*y, m.D*x + m.E*y
}

// MapRect returns the bounds of r after transformation.
// Rotation and skew grow the result to the bounding box of the four
// mapped corners.
func (m Matrix) MapRect(r Rect) Rect {
	if m.B == 0 && m.D == 0 {
		x0, y0 := m.MapPoint(r.Left, r.Top)
		x1, y1 := m.MapPoint(r.Right, r.Bottom)
		return Rect{Left: x0, Top: y0, Right: x1, Bottom: y1}.Sorted()
	}
	xs := [4]float64{}
	ys := [4]float64{}
	xs[0], ys[0] = m.MapPoint(r.Left, r.Top)
	xs[1], ys[1] = m.MapPoint(r.Right, r.Top)
	xs[2], ys[2] = m.MapPoint(r.Right, r.Bottom)
	xs[3], ys[3] = m.MapPoint(r.Left, r.Bottom)
	out := Rect{Left: xs[0], Top: ys[0], Right: xs[0], Bottom: ys[0]}
	for i := 1; i < 4; i++ {
		out.Left = math.Min(out.Left, xs[i])
		out.Right = math.Max(out.Right, xs[i])
		out.Top = math.Min(out.Top, ys[i])
		out.Bottom = math.Max(out.Bottom, ys[i])
	}
	return out
}

// Invert returns the inverse matrix and true, or the identity and false if
// m is singular.
func (m Matrix) Invert() (Matrix, bool) {
	det := m.Determinant()
	if math.Abs(det) < 1e-12 {
		return Identity(), false
	}
	inv := 1 / det
	return Matrix{
		A: m.E * inv,
		B: -m.B * inv,
		C: (m.B*m.F - m.C*m.E) * inv,
		D: -m.D * inv,
		E: m.A * inv,
		F: (m.C*m.D - m.A*m.F) * inv,
	}, true
}

// IsIdentity reports whether m is the identity matrix.
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}

// ScaleFactor returns the larger of the two axis scale factors.
// Used to estimate the device-space width of a stroke.
func (m Matrix) ScaleFactor() float64 {
	sx := math.Sqrt(m.A*m.A + m.D*m.D)
	sy := math.Sqrt(m.B*m.B + m.E*m.E)
	return math.Max(sx, sy)
}

// Determinant returns the determinant of the 2x2 linear part.
func (m Matrix) Determinant() float64 {
	return m.A*m.E - m.B*m.D
}
