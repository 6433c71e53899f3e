package picture

import (
	"image"
	"math"
	"unicode/utf8"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/text/unicode/norm"
)

// canvasState is one level of the canvas save stack.
type canvasState struct {
	matrix Matrix
	clip   Rect // conservative device-space clip bounds
}

// Canvas is the recording surface handed out by Recorder.BeginRecording.
//
// Drawing calls append ops to the recording; nothing is rasterized. The
// canvas is valid until the recording is finished or its recorder is closed.
// After that every method except IsValid panics with ErrCanvasInvalidated.
//
// Arguments are copied: paths, points, strings and images may be reused or
// mutated by the caller once the call returns.
type Canvas struct {
	valid  bool
	bounds Rect
	ops    []op
	state  canvasState
	stack  []canvasState
}

func newCanvas(bounds Rect, capacity int) *Canvas {
	return &Canvas{
		valid:  true,
		bounds: bounds,
		ops:    make([]op, 0, capacity),
		state:  canvasState{matrix: Identity(), clip: LargestRect()},
		stack:  make([]canvasState, 0, 8),
	}
}

// IsValid reports whether the canvas still records.
func (c *Canvas) IsValid() bool { return c.valid }

// check panics if the canvas was invalidated and counts the call.
func (c *Canvas) check() {
	if !c.valid {
		panic(ErrCanvasInvalidated)
	}
	onNativeCall()
}

func (c *Canvas) invalidate() { c.valid = false }

// takeOps closes any open saves and hands the op buffer over to the caller.
// The canvas keeps no reference to the returned slice.
func (c *Canvas) takeOps() []op {
	for range c.stack {
		c.ops = append(c.ops, op{kind: opRestore})
	}
	ops := c.ops
	c.ops = nil
	c.stack = nil
	return ops
}

// Bounds returns the bounds given to BeginRecording.
func (c *Canvas) Bounds() Rect {
	c.check()
	return c.bounds
}

// OpCount returns the number of ops recorded so far.
func (c *Canvas) OpCount() int {
	c.check()
	return len(c.ops)
}

// --------------------------------------------------------------------------
// Save stack
// --------------------------------------------------------------------------

// Save pushes the matrix and clip. It returns the save count before the
// push.
func (c *Canvas) Save() int {
	c.check()
	n := c.saveCount()
	c.stack = append(c.stack, c.state)
	c.ops = append(c.ops, op{kind: opSave})
	return n
}

// SaveLayerAlpha pushes the matrix and clip and starts an offscreen layer.
// Drawing into the layer is composited with alpha on the matching Restore.
// bounds, when non-empty, is a hint for the layer extent in local units.
func (c *Canvas) SaveLayerAlpha(bounds Rect, alpha float64) int {
	c.check()
	n := c.saveCount()
	c.stack = append(c.stack, c.state)
	c.ops = append(c.ops, op{kind: opSaveLayer, rect: bounds, alpha: alpha})
	return n
}

// Restore pops the last Save. Restore without a matching Save is ignored.
func (c *Canvas) Restore() {
	c.check()
	if len(c.stack) == 0 {
		return
	}
	c.state = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	c.ops = append(c.ops, op{kind: opRestore})
}

// RestoreToCount restores until SaveCount equals count.
// Counts below 1 are treated as 1.
func (c *Canvas) RestoreToCount(count int) {
	c.check()
	count = max(count, 1)
	for c.saveCount() > count {
		c.Restore()
	}
}

// SaveCount returns 1 plus the number of saves not yet restored.
func (c *Canvas) SaveCount() int {
	c.check()
	return c.saveCount()
}

func (c *Canvas) saveCount() int { return len(c.stack) + 1 }

// --------------------------------------------------------------------------
// Transform
// --------------------------------------------------------------------------

// Translate pre-concatenates a translation.
func (c *Canvas) Translate(dx, dy float64) { c.Concat(Translate(dx, dy)) }

// Scale pre-concatenates a scale.
func (c *Canvas) Scale(sx, sy float64) { c.Concat(Scale(sx, sy)) }

// Rotate pre-concatenates a rotation by degrees.
func (c *Canvas) Rotate(degrees float64) { c.Concat(Rotate(degrees)) }

// Skew pre-concatenates a skew.
func (c *Canvas) Skew(kx, ky float64) { c.Concat(Skew(kx, ky)) }

// Concat pre-concatenates m with the current matrix.
func (c *Canvas) Concat(m Matrix) {
	c.check()
	c.setMatrix(c.state.matrix.Multiply(m))
}

// SetMatrix replaces the current matrix.
func (c *Canvas) SetMatrix(m Matrix) {
	c.check()
	c.setMatrix(m)
}

// ResetMatrix sets the current matrix to identity.
func (c *Canvas) ResetMatrix() {
	c.check()
	c.setMatrix(Identity())
}

// TotalMatrix returns the current matrix.
func (c *Canvas) TotalMatrix() Matrix {
	c.check()
	return c.state.matrix
}

func (c *Canvas) setMatrix(m Matrix) {
	c.state.matrix = m
	c.ops = append(c.ops, op{kind: opSetMatrix, matrix: m})
}

// --------------------------------------------------------------------------
// Clip
// --------------------------------------------------------------------------

// ClipRect intersects the clip with r in local coordinates.
func (c *Canvas) ClipRect(r Rect) {
	c.check()
	c.state.clip = c.state.clip.Intersect(c.state.matrix.MapRect(r))
	c.ops = append(c.ops, op{kind: opClipRect, rect: r})
}

// ClipPath intersects the clip with the interior of p.
func (c *Canvas) ClipPath(p *Path) {
	c.check()
	cp := p.Clone()
	c.state.clip = c.state.clip.Intersect(c.state.matrix.MapRect(cp.Bounds()))
	c.ops = append(c.ops, op{kind: opClipPath, path: cp})
}

// DeviceClipBounds returns conservative bounds of the clip in device
// coordinates. With no clip set it is unbounded.
func (c *Canvas) DeviceClipBounds() Rect {
	c.check()
	return c.state.clip
}

// LocalClipBounds returns conservative bounds of the clip in local
// coordinates. It is unbounded when the matrix is singular or no clip is set.
func (c *Canvas) LocalClipBounds() Rect {
	c.check()
	inv, ok := c.state.matrix.Invert()
	if !ok || !c.state.clip.IsFinite() || c.state.clip == LargestRect() {
		return LargestRect()
	}
	return inv.MapRect(c.state.clip)
}

// --------------------------------------------------------------------------
// Drawing
// --------------------------------------------------------------------------

// record appends a draw op whose local bounds are local. unbounded ops cover
// the whole clip.
func (c *Canvas) record(o op, local Rect, unbounded bool) {
	if unbounded {
		o.bounds = c.state.clip
	} else {
		o.bounds = c.state.matrix.MapRect(local).Intersect(c.state.clip)
	}
	c.ops = append(c.ops, o)
}

// Clear fills the clip with color, replacing what is underneath.
func (c *Canvas) Clear(color Color) {
	c.check()
	c.record(op{kind: opClear, color: color}, Rect{}, true)
}

// DrawPaint fills the clip with paint.
func (c *Canvas) DrawPaint(paint Paint) {
	c.check()
	c.record(op{kind: opDrawPaint, paint: paint}, Rect{}, true)
}

// DrawRect draws r.
func (c *Canvas) DrawRect(r Rect, paint Paint) {
	c.check()
	c.record(op{kind: opDrawRect, rect: r, paint: paint}, outset(r.Sorted(), paint), false)
}

// DrawOval draws the ellipse inscribed in r.
func (c *Canvas) DrawOval(r Rect, paint Paint) {
	c.check()
	c.record(op{kind: opDrawOval, rect: r, paint: paint}, outset(r.Sorted(), paint), false)
}

// DrawCircle draws a circle. A negative radius draws nothing.
func (c *Canvas) DrawCircle(cx, cy, radius float64, paint Paint) {
	c.check()
	if radius < 0 {
		return
	}
	r := LTRB(cx-radius, cy-radius, cx+radius, cy+radius)
	c.record(op{kind: opDrawOval, rect: r, paint: paint}, outset(r, paint), false)
}

// DrawRRect draws r with corner radii rx and ry.
func (c *Canvas) DrawRRect(r Rect, rx, ry float64, paint Paint) {
	c.check()
	c.record(op{kind: opDrawRRect, rect: r, rx: rx, ry: ry, paint: paint}, outset(r.Sorted(), paint), false)
}

// DrawLine strokes a segment from (x0, y0) to (x1, y1), whatever the paint
// style.
func (c *Canvas) DrawLine(x0, y0, x1, y1 float64, paint Paint) {
	c.check()
	paint.Style = StyleStroke
	local := LTRB(math.Min(x0, x1), math.Min(y0, y1), math.Max(x0, x1), math.Max(y0, y1))
	c.record(op{kind: opDrawLine, x: x0, y: y0, x1: x1, y1: y1, paint: paint}, outset(local, paint), false)
}

// DrawPoints strokes pts according to mode, whatever the paint style.
func (c *Canvas) DrawPoints(mode PointMode, pts []Point, paint Paint) {
	c.check()
	if len(pts) == 0 {
		return
	}
	paint.Style = StyleStroke
	cp := append([]Point(nil), pts...)
	local := Rect{Left: cp[0].X, Top: cp[0].Y, Right: cp[0].X, Bottom: cp[0].Y}
	for _, p := range cp[1:] {
		local.Left = math.Min(local.Left, p.X)
		local.Top = math.Min(local.Top, p.Y)
		local.Right = math.Max(local.Right, p.X)
		local.Bottom = math.Max(local.Bottom, p.Y)
	}
	c.record(op{kind: opDrawPoints, mode: mode, points: cp, paint: paint}, outset(local, paint), false)
}

// DrawPath draws p using its fill rule.
func (c *Canvas) DrawPath(p *Path, paint Paint) {
	c.check()
	cp := p.Clone()
	c.record(op{kind: opDrawPath, path: cp, paint: paint}, outset(cp.Bounds(), paint), false)
}

// DrawImageRect draws the src region of img scaled into dst. A zero src
// selects the whole image. The pixels are copied at call time. An empty
// image draws nothing.
func (c *Canvas) DrawImageRect(img image.Image, src, dst Rect, paint Paint) {
	c.check()
	if img == nil {
		return
	}
	b := img.Bounds()
	if b.Empty() {
		return
	}
	snap := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Copy(snap, image.Point{}, img, b, xdraw.Src, nil)
	if src == (Rect{}) {
		src = XYWH(0, 0, float64(b.Dx()), float64(b.Dy()))
	}
	c.record(op{kind: opDrawImageRect, image: snap, src: src, rect: dst, paint: paint}, dst.Sorted(), false)
}

// DrawImage draws img with its top-left corner at (x, y).
func (c *Canvas) DrawImage(img image.Image, x, y float64, paint Paint) {
	if img == nil {
		c.check()
		return
	}
	b := img.Bounds()
	c.DrawImageRect(img, Rect{}, XYWH(x, y, float64(b.Dx()), float64(b.Dy())), paint)
}

// DrawString draws s with its baseline origin at (x, y) using the default
// sans-serif face at the given size. Text is recorded in Unicode NFC form.
func (c *Canvas) DrawString(s string, x, y, size float64, paint Paint) {
	c.check()
	if s == "" {
		return
	}
	s = norm.NFC.String(s)
	// Each glyph is at most one em wide; descenders stay within a third of
	// an em below the baseline.
	w := float64(utf8.RuneCountInString(s)) * size
	local := LTRB(x, y-size, x+w, y+size/3)
	c.record(op{kind: opDrawText, text: s, x: x, y: y, size: size, paint: paint}, outset(local, paint), false)
}

// DrawPicture replays pic into this recording under matrix m (nil for
// identity), pre-concatenated with the current matrix. Culling uses the
// picture's cull rect. The recording keeps the picture's ops, so pic may be
// closed afterwards.
//
// DrawPicture panics with ErrPictureClosed if pic is already closed.
func (c *Canvas) DrawPicture(pic *Picture, m *Matrix) {
	c.check()
	if pic == nil {
		return
	}
	if pic.IsClosed() {
		panic(ErrPictureClosed)
	}
	mat := Identity()
	if m != nil {
		mat = *m
	}
	rec := pic.rec
	local := mat.MapRect(rec.cull)
	c.record(op{kind: opDrawPicture, nested: rec, matrix: c.state.matrix.Multiply(mat)}, local, false)
}

func outset(r Rect, paint Paint) Rect {
	d := paint.outset()
	if paint.AntiAlias || d > 0 {
		d += 0.5 // anti-aliasing fringe
	}
	return r.Inset(-d, -d)
}
