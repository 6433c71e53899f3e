package picture

import (
	"image"
	"unsafe"
)

// opKind identifies a recorded op.
type opKind uint8

const (
	// State ops
	opSave opKind = iota
	opSaveLayer
	opRestore
	opSetMatrix
	opClipRect
	opClipPath

	// Draw ops
	opClear
	opDrawPaint
	opDrawRect
	opDrawOval
	opDrawRRect
	opDrawPath
	opDrawLine
	opDrawPoints
	opDrawImageRect
	opDrawText
	opDrawPicture

	opKindCount
)

var opNames = [...]string{
	opSave:          "Save",
	opSaveLayer:     "SaveLayer",
	opRestore:       "Restore",
	opSetMatrix:     "SetMatrix",
	opClipRect:      "ClipRect",
	opClipPath:      "ClipPath",
	opClear:         "Clear",
	opDrawPaint:     "DrawPaint",
	opDrawRect:      "DrawRect",
	opDrawOval:      "DrawOval",
	opDrawRRect:     "DrawRRect",
	opDrawPath:      "DrawPath",
	opDrawLine:      "DrawLine",
	opDrawPoints:    "DrawPoints",
	opDrawImageRect: "DrawImageRect",
	opDrawText:      "DrawText",
	opDrawPicture:   "DrawPicture",
}

func (k opKind) String() string {
	if k < opKindCount {
		return opNames[k]
	}
	return "Unknown"
}

// isDraw reports whether the op produces pixels and takes part in culling.
func (k opKind) isDraw() bool { return k >= opClear && k < opKindCount }

// PointMode selects how DrawPoints connects its points.
type PointMode uint8

const (
	// PointModePoints draws each point as a dot of the stroke width.
	PointModePoints PointMode = iota
	// PointModeLines draws each pair of points as a separate segment.
	PointModeLines
	// PointModePolygon draws the points as one open polyline.
	PointModePolygon
)

// op is a single recorded command. Only the fields used by its kind are
// set. Everything an op references is owned by the recording.
type op struct {
	kind   opKind
	bounds Rect // device-space bounds of draw ops

	rect   Rect
	src    Rect
	matrix Matrix
	path   *Path
	paint  Paint
	color  Color
	alpha  float64
	rx, ry float64 // rrect radii
	x, y   float64 // text origin
	x1, y1 float64 // line end
	size   float64 // text size
	mode   PointMode
	points []Point
	text   string
	image  *image.RGBA
	nested *record
}

// byteSize estimates the memory held by the op.
func (o *op) byteSize() int {
	n := int(unsafe.Sizeof(*o))
	if o.path != nil {
		n += len(o.path.verbs) + len(o.path.points)*int(unsafe.Sizeof(Point{}))
	}
	n += len(o.points) * int(unsafe.Sizeof(Point{}))
	n += len(o.text)
	if o.image != nil {
		n += len(o.image.Pix)
	}
	return n
}

// playback issues the op to b. base is the matrix the enclosing picture was
// drawn with, identity at the top level.
func (o *op) playback(b Backend, base Matrix) {
	switch o.kind {
	case opSave:
		b.Save()
	case opSaveLayer:
		b.SaveLayer(o.rect, o.alpha)
	case opRestore:
		b.Restore()
	case opSetMatrix:
		b.SetTransform(base.Multiply(o.matrix))
	case opClipRect:
		b.ClipRect(o.rect)
	case opClipPath:
		b.ClipPath(o.path)
	case opClear:
		b.Clear(o.color)
	case opDrawPaint:
		b.DrawPaint(o.paint)
	case opDrawRect:
		p := NewPath()
		p.AddRect(o.rect)
		drawShape(b, p, o.paint)
	case opDrawOval:
		p := NewPath()
		p.AddOval(o.rect)
		drawShape(b, p, o.paint)
	case opDrawRRect:
		p := NewPath()
		p.AddRRect(o.rect, o.rx, o.ry)
		drawShape(b, p, o.paint)
	case opDrawPath:
		drawShape(b, o.path, o.paint)
	case opDrawLine:
		p := NewPath()
		p.MoveTo(o.x, o.y)
		p.LineTo(o.x1, o.y1)
		b.StrokePath(p, o.paint)
	case opDrawPoints:
		drawPoints(b, o.mode, o.points, o.paint)
	case opDrawImageRect:
		b.DrawImage(o.image, o.src, o.rect, o.paint)
	case opDrawText:
		b.DrawText(o.text, o.x, o.y, o.size, o.paint)
	case opDrawPicture:
		b.Save()
		m := base.Multiply(o.matrix)
		b.SetTransform(m)
		o.nested.playbackAll(b, m)
		b.Restore()
	}
}

func drawShape(b Backend, p *Path, paint Paint) {
	if paint.fills() {
		b.FillPath(p, paint)
	}
	if paint.strokes() {
		b.StrokePath(p, paint)
	}
}

func drawPoints(b Backend, mode PointMode, pts []Point, paint Paint) {
	p := NewPath()
	switch mode {
	case PointModePoints:
		paint.Cap = LineCapRound
		for _, pt := range pts {
			p.MoveTo(pt.X, pt.Y)
			p.LineTo(pt.X, pt.Y)
		}
	case PointModeLines:
		for i := 0; i+1 < len(pts); i += 2 {
			p.MoveTo(pts[i].X, pts[i].Y)
			p.LineTo(pts[i+1].X, pts[i+1].Y)
		}
	case PointModePolygon:
		for i, pt := range pts {
			if i == 0 {
				p.MoveTo(pt.X, pt.Y)
				continue
			}
			p.LineTo(pt.X, pt.Y)
		}
	}
	if !p.IsEmpty() {
		b.StrokePath(p, paint)
	}
}
