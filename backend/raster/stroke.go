package raster

import (
	"image/color"
	"math"

	"github.com/gogpu/picture"
)

// flatness is the maximum curve deviation in device pixels.
const flatness = 0.2

func alphaColor(a float64) color.Alpha {
	return color.Alpha{A: uint8(math.Round(math.Max(0, math.Min(1, a)) * 255))}
}

// fillPolygons flattens a device-space path into closed polygons.
func fillPolygons(p *picture.Path) [][]picture.Point {
	contours := p.Flatten(flatness)
	polys := make([][]picture.Point, 0, len(contours))
	for _, c := range contours {
		polys = append(polys, c.Points)
	}
	return polys
}

// strokePolygons outlines a device-space path. Every piece is emitted with
// the same orientation so that overlaps accumulate instead of cancelling in
// the non-zero rasterizer.
func strokePolygons(p *picture.Path, width float64, s picture.Stroke) [][]picture.Point {
	hw := width / 2
	var polys [][]picture.Point
	add := func(poly []picture.Point) {
		if signedArea(poly) < 0 {
			for i, j := 0, len(poly)-1; i < j; i, j = i+1, j-1 {
				poly[i], poly[j] = poly[j], poly[i]
			}
		}
		polys = append(polys, poly)
	}

	for _, c := range p.Flatten(flatness) {
		pts := dedupe(c.Points)
		if len(pts) == 0 {
			continue
		}
		if c.Closed && len(pts) > 1 && pts[0] != pts[len(pts)-1] {
			pts = append(pts, pts[0])
		}
		if len(pts) == 1 {
			// Zero-length contour: only round and square caps show.
			switch s.Cap {
			case picture.LineCapRound:
				add(circle(pts[0], hw))
			case picture.LineCapSquare:
				q := pts[0]
				add([]picture.Point{
					{X: q.X - hw, Y: q.Y - hw}, {X: q.X + hw, Y: q.Y - hw},
					{X: q.X + hw, Y: q.Y + hw}, {X: q.X - hw, Y: q.Y + hw},
				})
			}
			continue
		}

		n := len(pts) - 1
		for i := range n {
			a, b := pts[i], pts[i+1]
			if !c.Closed && s.Cap == picture.LineCapSquare {
				if i == 0 {
					a = extend(b, a, hw)
				}
				if i == n-1 {
					b = extend(a, b, hw)
				}
			}
			add(segment(a, b, hw))
		}

		for i := 1; i < n; i++ {
			add(join(pts[i-1], pts[i], pts[i+1], hw, s.Join))
		}
		if c.Closed && n >= 2 {
			add(join(pts[n-1], pts[0], pts[1], hw, s.Join))
		}

		if !c.Closed && s.Cap == picture.LineCapRound {
			add(circle(pts[0], hw))
			add(circle(pts[n], hw))
		}
	}

	out := polys[:0]
	for _, poly := range polys {
		if len(poly) >= 3 {
			out = append(out, poly)
		}
	}
	return out
}

func dedupe(pts []picture.Point) []picture.Point {
	out := make([]picture.Point, 0, len(pts))
	for _, p := range pts {
		if len(out) > 0 && out[len(out)-1] == p {
			continue
		}
		out = append(out, p)
	}
	return out
}

// normal returns the unit normal of a->b scaled by d.
func normal(a, b picture.Point, d float64) (float64, float64) {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return 0, 0
	}
	return -dy / l * d, dx / l * d
}

// extend moves b away from a by d along a->b.
func extend(a, b picture.Point, d float64) picture.Point {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return b
	}
	return picture.Point{X: b.X + dx/l*d, Y: b.Y + dy/l*d}
}

func segment(a, b picture.Point, hw float64) []picture.Point {
	nx, ny := normal(a, b, hw)
	return []picture.Point{
		{X: a.X + nx, Y: a.Y + ny},
		{X: b.X + nx, Y: b.Y + ny},
		{X: b.X - nx, Y: b.Y - ny},
		{X: a.X - nx, Y: a.Y - ny},
	}
}

// join fills the wedge between two segments meeting at cur.
func join(prev, cur, next picture.Point, hw float64, j picture.LineJoin) []picture.Point {
	if j == picture.LineJoinRound {
		return circle(cur, hw)
	}
	n1x, n1y := normal(prev, cur, hw)
	n2x, n2y := normal(cur, next, hw)
	// Bevel on the outer side; the inner side is covered by the segments.
	cross := (cur.X-prev.X)*(next.Y-cur.Y) - (cur.Y-prev.Y)*(next.X-cur.X)
	if cross > 0 {
		n1x, n1y, n2x, n2y = -n1x, -n1y, -n2x, -n2y
	}
	return []picture.Point{
		cur,
		{X: cur.X + n1x, Y: cur.Y + n1y},
		{X: cur.X + n2x, Y: cur.Y + n2y},
	}
}

func circle(c picture.Point, r float64) []picture.Point {
	n := max(8, int(math.Ceil(r*2)))
	n = min(n, 64)
	pts := make([]picture.Point, n)
	for i := range n {
		s, co := math.Sincos(2 * math.Pi * float64(i) / float64(n))
		pts[i] = picture.Point{X: c.X + r*co, Y: c.Y + r*s}
	}
	return pts
}

func signedArea(poly []picture.Point) float64 {
	var a float64
	for i := range poly {
		p, q := poly[i], poly[(i+1)%len(poly)]
		a += p.X*q.Y - q.X*p.Y
	}
	return a / 2
}
