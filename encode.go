package picture

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"runtime"

	xdraw "golang.org/x/image/draw"
)

// Binary layout (little endian):
//
//	magic   "GPIC"
//	version uint16
//	flags   uint16 (bit 0: bounding-box hierarchy)
//	record
//
// record:
//
//	cull   4 x float64
//	nops   uint32
//	ops    nops x (kind uint8, bounds 4 x float64, kind-specific fields)
//
// Nested pictures are encoded inline as records. Images are PNG blobs.
var magic = [4]byte{'G', 'P', 'I', 'C'}

const (
	flagBBH = 1 << 0

	// Limits applied while decoding untrusted input.
	maxNesting = 32
	maxItems   = 1 << 24
	maxBlob    = 1 << 28

	// maxImagePixels caps the declared size of an image blob. PNG compresses
	// uniform pixels to almost nothing, so the blob limit alone does not
	// bound the decoded size.
	maxImagePixels = 1 << 24
)

// WriteTo serializes the picture to w.
func (p *Picture) WriteTo(w io.Writer) (int64, error) {
	defer runtime.KeepAlive(p)
	if p.h.Released() {
		return 0, ErrPictureClosed
	}
	onNativeCall()

	cw := &countingWriter{w: w}
	bw := bufio.NewWriter(cw)
	e := &encoder{w: bw}
	e.bytes(magic[:])
	e.u16(FormatVersion)
	var flags uint16
	if p.rec.bbh != nil {
		flags |= flagBBH
	}
	e.u16(flags)
	e.record(p.rec)
	if e.err == nil {
		e.err = bw.Flush()
	}
	if e.err != nil {
		return cw.n, fmt.Errorf("picture: encode: %w", e.err)
	}
	return cw.n, nil
}

// Serialize returns the encoded picture.
func (p *Picture) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := p.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MakeFromData decodes a picture serialized with WriteTo.
func MakeFromData(data []byte) (*Picture, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads a picture serialized with WriteTo. The decoded picture gets a
// new UniqueID.
func Decode(r io.Reader) (*Picture, error) {
	onNativeCall()
	d := &decoder{r: bufio.NewReader(r)}

	var m [4]byte
	d.read(m[:])
	if d.err == nil && m != magic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrInvalidData, m[:])
	}
	version := d.u16()
	if d.err == nil && version != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	flags := d.u16()
	rec := d.record(0, flags&flagBBH != 0)
	if d.err != nil {
		if errors.Is(d.err, io.EOF) || errors.Is(d.err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: truncated: %w", ErrInvalidData, d.err)
		}
		return nil, fmt.Errorf("picture: decode: %w", d.err)
	}
	return newPicture(rec), nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// --------------------------------------------------------------------------
// Encoder
// --------------------------------------------------------------------------

// encoder writes fields until the first error, which it keeps.
type encoder struct {
	w   io.Writer
	err error
	buf [8]byte
}

func (e *encoder) bytes(b []byte) {
	if e.err == nil {
		_, e.err = e.w.Write(b)
	}
}

func (e *encoder) u8(v uint8) {
	e.buf[0] = v
	e.bytes(e.buf[:1])
}

func (e *encoder) u16(v uint16) {
	binary.LittleEndian.PutUint16(e.buf[:2], v)
	e.bytes(e.buf[:2])
}

func (e *encoder) u32(v uint32) {
	binary.LittleEndian.PutUint32(e.buf[:4], v)
	e.bytes(e.buf[:4])
}

func (e *encoder) f64(v float64) {
	binary.LittleEndian.PutUint64(e.buf[:8], math.Float64bits(v))
	e.bytes(e.buf[:8])
}

func (e *encoder) count(n int) {
	if n > maxItems {
		e.err = fmt.Errorf("too many items: %d", n)
		return
	}
	e.u32(uint32(n)) // #nosec G115 -- bounded by maxItems
}

func (e *encoder) rect(r Rect) {
	e.f64(r.Left)
	e.f64(r.Top)
	e.f64(r.Right)
	e.f64(r.Bottom)
}

func (e *encoder) matrix(m Matrix) {
	for _, v := range [...]float64{m.A, m.B, m.C, m.D, m.E, m.F} {
		e.f64(v)
	}
}

func (e *encoder) color(c Color) {
	e.f64(c.R)
	e.f64(c.G)
	e.f64(c.B)
	e.f64(c.A)
}

func (e *encoder) paint(p Paint) {
	e.color(p.Color)
	e.u8(uint8(p.Style))
	e.f64(p.StrokeWidth)
	e.u8(uint8(p.Cap))
	e.u8(uint8(p.Join))
	e.f64(p.MiterLimit)
	if p.AntiAlias {
		e.u8(1)
	} else {
		e.u8(0)
	}
}

func (e *encoder) points(pts []Point) {
	e.count(len(pts))
	for _, pt := range pts {
		e.f64(pt.X)
		e.f64(pt.Y)
	}
}

func (e *encoder) path(p *Path) {
	e.u8(uint8(p.FillRule))
	e.count(len(p.verbs))
	for _, v := range p.verbs {
		e.u8(uint8(v))
	}
	e.points(p.points)
}

func (e *encoder) blob(b []byte) {
	if len(b) > maxBlob {
		e.err = fmt.Errorf("blob too large: %d bytes", len(b))
		return
	}
	e.u32(uint32(len(b))) // #nosec G115 -- bounded by maxBlob
	e.bytes(b)
}

func (e *encoder) image(img *image.RGBA) {
	if w, h := img.Rect.Dx(), img.Rect.Dy(); e.err == nil && int64(w)*int64(h) > maxImagePixels {
		e.err = fmt.Errorf("image of %dx%d pixels too large", w, h)
		return
	}
	var buf bytes.Buffer
	if e.err == nil {
		e.err = png.Encode(&buf, img)
	}
	e.blob(buf.Bytes())
}

func (e *encoder) record(r *record) {
	e.rect(r.cull)
	e.count(len(r.ops))
	for i := range r.ops {
		e.op(&r.ops[i])
	}
}

func (e *encoder) op(o *op) {
	e.u8(uint8(o.kind))
	e.rect(o.bounds)
	switch o.kind {
	case opSave, opRestore:
	case opSaveLayer:
		e.rect(o.rect)
		e.f64(o.alpha)
	case opSetMatrix:
		e.matrix(o.matrix)
	case opClipRect:
		e.rect(o.rect)
	case opClipPath:
		e.path(o.path)
	case opClear:
		e.color(o.color)
	case opDrawPaint:
		e.paint(o.paint)
	case opDrawRect, opDrawOval:
		e.rect(o.rect)
		e.paint(o.paint)
	case opDrawRRect:
		e.rect(o.rect)
		e.f64(o.rx)
		e.f64(o.ry)
		e.paint(o.paint)
	case opDrawPath:
		e.path(o.path)
		e.paint(o.paint)
	case opDrawLine:
		e.f64(o.x)
		e.f64(o.y)
		e.f64(o.x1)
		e.f64(o.y1)
		e.paint(o.paint)
	case opDrawPoints:
		e.u8(uint8(o.mode))
		e.points(o.points)
		e.paint(o.paint)
	case opDrawImageRect:
		e.image(o.image)
		e.rect(o.src)
		e.rect(o.rect)
		e.paint(o.paint)
	case opDrawText:
		e.blob([]byte(o.text))
		e.f64(o.x)
		e.f64(o.y)
		e.f64(o.size)
		e.paint(o.paint)
	case opDrawPicture:
		e.matrix(o.matrix)
		e.record(o.nested)
	}
}

// --------------------------------------------------------------------------
// Decoder
// --------------------------------------------------------------------------

// decoder reads fields until the first error, which it keeps. After an
// error every read returns zero values.
type decoder struct {
	r   io.Reader
	err error
	buf [8]byte
}

func (d *decoder) fail(format string, args ...any) {
	if d.err == nil {
		d.err = fmt.Errorf("%w: "+format, append([]any{ErrInvalidData}, args...)...)
	}
}

func (d *decoder) read(b []byte) {
	if d.err == nil {
		_, d.err = io.ReadFull(d.r, b)
	}
}

func (d *decoder) u8() uint8 {
	d.read(d.buf[:1])
	if d.err != nil {
		return 0
	}
	return d.buf[0]
}

func (d *decoder) u16() uint16 {
	d.read(d.buf[:2])
	if d.err != nil {
		return 0
	}
	return binary.LittleEndian.Uint16(d.buf[:2])
}

func (d *decoder) u32() uint32 {
	d.read(d.buf[:4])
	if d.err != nil {
		return 0
	}
	return binary.LittleEndian.Uint32(d.buf[:4])
}

func (d *decoder) f64() float64 {
	d.read(d.buf[:8])
	if d.err != nil {
		return 0
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(d.buf[:8]))
}

func (d *decoder) count() int {
	n := d.u32()
	if n > maxItems {
		d.fail("item count %d exceeds limit", n)
		return 0
	}
	return int(n)
}

func (d *decoder) rect() Rect {
	return Rect{Left: d.f64(), Top: d.f64(), Right: d.f64(), Bottom: d.f64()}
}

func (d *decoder) matrix() Matrix {
	return Matrix{A: d.f64(), B: d.f64(), C: d.f64(), D: d.f64(), E: d.f64(), F: d.f64()}
}

func (d *decoder) color() Color {
	return Color{R: d.f64(), G: d.f64(), B: d.f64(), A: d.f64()}
}

func (d *decoder) paint() Paint {
	p := Paint{Color: d.color()}
	p.Style = PaintStyle(d.u8())
	p.StrokeWidth = d.f64()
	p.Cap = LineCap(d.u8())
	p.Join = LineJoin(d.u8())
	p.MiterLimit = d.f64()
	p.AntiAlias = d.u8() != 0
	if p.Style > StyleStrokeAndFill || p.Cap > LineCapSquare || p.Join > LineJoinBevel {
		d.fail("bad paint enum")
	}
	return p
}

func (d *decoder) points() []Point {
	n := d.count()
	if d.err != nil {
		return nil
	}
	pts := make([]Point, 0, min(n, 1024))
	for range n {
		pts = append(pts, Point{X: d.f64(), Y: d.f64()})
		if d.err != nil {
			return nil
		}
	}
	return pts
}

func (d *decoder) path() *Path {
	p := NewPath()
	p.FillRule = FillRule(d.u8())
	if p.FillRule > FillRuleEvenOdd {
		d.fail("bad fill rule %d", p.FillRule)
	}
	n := d.count()
	need := 0
	for i := range n {
		v := Verb(d.u8())
		if d.err != nil {
			return nil
		}
		if v > VerbClose {
			d.fail("bad path verb %d", v)
			return nil
		}
		if i == 0 && v != VerbMove {
			d.fail("path does not start with a move")
			return nil
		}
		p.verbs = append(p.verbs, v)
		need += v.PointCount()
	}
	p.points = d.points()
	if d.err == nil && len(p.points) != need {
		d.fail("path has %d points, verbs need %d", len(p.points), need)
	}
	return p
}

func (d *decoder) blob() []byte {
	n := d.u32()
	if n > maxBlob {
		d.fail("blob of %d bytes exceeds limit", n)
		return nil
	}
	if d.err != nil {
		return nil
	}
	var buf bytes.Buffer
	if _, err := io.CopyN(&buf, d.r, int64(n)); err != nil {
		d.err = err
		return nil
	}
	return buf.Bytes()
}

func (d *decoder) image() *image.RGBA {
	data := d.blob()
	if d.err != nil {
		return nil
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		d.fail("image: %v", err)
		return nil
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		d.fail("image of %dx%d pixels exceeds limit", cfg.Width, cfg.Height)
		return nil
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		d.fail("image: %v", err)
		return nil
	}
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Copy(rgba, image.Point{}, img, b, xdraw.Src, nil)
	return rgba
}

func (d *decoder) record(depth int, withBBH bool) *record {
	if depth > maxNesting {
		d.fail("pictures nested deeper than %d", maxNesting)
		return nil
	}
	cull := d.rect()
	n := d.count()
	ops := make([]op, 0, min(n, 4096))
	for range n {
		o := d.op(depth, withBBH)
		if d.err != nil {
			return nil
		}
		ops = append(ops, o)
	}
	if d.err != nil {
		return nil
	}
	return seal(ops, cull, withBBH)
}

func (d *decoder) op(depth int, withBBH bool) op {
	o := op{kind: opKind(d.u8())}
	o.bounds = d.rect()
	if d.err != nil {
		return o
	}
	switch o.kind {
	case opSave, opRestore:
	case opSaveLayer:
		o.rect = d.rect()
		o.alpha = d.f64()
	case opSetMatrix:
		o.matrix = d.matrix()
	case opClipRect:
		o.rect = d.rect()
	case opClipPath:
		o.path = d.path()
	case opClear:
		o.color = d.color()
	case opDrawPaint:
		o.paint = d.paint()
	case opDrawRect, opDrawOval:
		o.rect = d.rect()
		o.paint = d.paint()
	case opDrawRRect:
		o.rect = d.rect()
		o.rx = d.f64()
		o.ry = d.f64()
		o.paint = d.paint()
	case opDrawPath:
		o.path = d.path()
		o.paint = d.paint()
	case opDrawLine:
		o.x, o.y = d.f64(), d.f64()
		o.x1, o.y1 = d.f64(), d.f64()
		o.paint = d.paint()
	case opDrawPoints:
		o.mode = PointMode(d.u8())
		if o.mode > PointModePolygon {
			d.fail("bad point mode %d", o.mode)
		}
		o.points = d.points()
		o.paint = d.paint()
	case opDrawImageRect:
		o.image = d.image()
		o.src = d.rect()
		o.rect = d.rect()
		o.paint = d.paint()
	case opDrawText:
		o.text = string(d.blob())
		o.x, o.y = d.f64(), d.f64()
		o.size = d.f64()
		o.paint = d.paint()
	case opDrawPicture:
		o.matrix = d.matrix()
		o.nested = d.record(depth+1, withBBH)
	default:
		d.fail("unknown op kind %d", o.kind)
	}
	return o
}
