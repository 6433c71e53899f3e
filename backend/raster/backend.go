// Package raster provides the reference pixel backend for picture playback.
//
// Paths are scan-converted with golang.org/x/image/vector, images are
// resampled with golang.org/x/image/draw and text is drawn with the Go
// Regular font through golang.org/x/image/font/opentype.
//
// # Limitations
//
//   - Even-odd paths are filled with the non-zero rule.
//   - Miter joins are drawn as bevels.
//   - Text ignores rotation and skew; only the scale of the transform
//     applies to the font size.
//
// # Example
//
//	// Import to register the backend
//	import _ "github.com/gogpu/picture/backend/raster"
//
//	b := raster.NewBackend()
//	if err := pic.Playback(b); err != nil {
//	    return err
//	}
//	b.SavePNG("output.png")
package raster

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/vector"

	"github.com/gogpu/picture"
)

func init() {
	picture.Register("raster", func() picture.Backend {
		return NewBackend()
	})
}

// state is one level of the backend save stack.
type state struct {
	matrix picture.Matrix
	clip   *image.Alpha // nil: no clip
	layer  *layer       // non-nil when pushed by SaveLayer
}

// layer is an offscreen target composited on Restore.
type layer struct {
	below *image.RGBA
	alpha float64
}

// Backend rasterizes pictures into an *image.RGBA.
type Backend struct {
	width, height int
	dst           *image.RGBA // current target, a layer while one is open
	base          *image.RGBA
	st            state
	stack         []state
	fonts         *faceCache
}

var (
	_ picture.Backend       = (*Backend)(nil)
	_ picture.WriterBackend = (*Backend)(nil)
	_ picture.ImageBackend  = (*Backend)(nil)
)

// NewBackend creates a raster backend. Begin must be called before drawing;
// Picture.Playback does that.
func NewBackend() *Backend {
	return &Backend{fonts: newFaceCache()}
}

// Begin allocates a transparent width x height image.
func (b *Backend) Begin(width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("raster: invalid size %dx%d", width, height)
	}
	b.width, b.height = width, height
	b.base = image.NewRGBA(image.Rect(0, 0, width, height))
	b.dst = b.base
	b.st = state{matrix: picture.Identity()}
	b.stack = b.stack[:0]
	return nil
}

// End composites any layers left open.
func (b *Backend) End() error {
	for len(b.stack) > 0 {
		b.Restore()
	}
	return nil
}

// Width returns the width given to Begin.
func (b *Backend) Width() int { return b.width }

// Height returns the height given to Begin.
func (b *Backend) Height() int { return b.height }

// Image returns the rendered image.
func (b *Backend) Image() *image.RGBA { return b.base }

// WriteTo encodes the image as PNG.
func (b *Backend) WriteTo(w io.Writer) (int64, error) {
	if b.base == nil {
		return 0, fmt.Errorf("raster: WriteTo before Begin")
	}
	cw := &countingWriter{w: w}
	err := png.Encode(cw, b.base)
	return cw.n, err
}

// SavePNG writes the image to a PNG file.
func (b *Backend) SavePNG(path string) error {
	f, err := os.Create(path) // #nosec G304 -- path supplied by caller
	if err != nil {
		return err
	}
	if _, err := b.WriteTo(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
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
// State
// --------------------------------------------------------------------------

// Save pushes the transform and clip.
func (b *Backend) Save() {
	saved := b.st
	saved.layer = nil
	b.stack = append(b.stack, saved)
}

// SaveLayer pushes the state and starts drawing into a transparent layer.
func (b *Backend) SaveLayer(_ picture.Rect, alpha float64) {
	saved := b.st
	saved.layer = &layer{below: b.dst, alpha: alpha}
	b.stack = append(b.stack, saved)
	b.dst = image.NewRGBA(b.base.Rect)
}

// Restore pops the state, compositing a layer if one was pushed.
func (b *Backend) Restore() {
	if len(b.stack) == 0 {
		return
	}
	saved := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	if l := saved.layer; l != nil {
		src := b.dst
		b.dst = l.below
		mask := image.NewUniform(alphaColor(l.alpha))
		xdraw.DrawMask(b.dst, b.dst.Rect, src, image.Point{}, mask, image.Point{}, xdraw.Over)
		saved.layer = nil
	}
	b.st = saved
}

// SetTransform replaces the current transform.
func (b *Backend) SetTransform(m picture.Matrix) {
	b.st.matrix = m
}

// ClipRect intersects the clip with r.
func (b *Backend) ClipRect(r picture.Rect) {
	p := picture.NewPath()
	p.AddRect(r)
	b.ClipPath(p)
}

// ClipPath intersects the clip with the interior of p.
func (b *Backend) ClipPath(p *picture.Path) {
	cov := b.coverage(fillPolygons(p.Transform(b.st.matrix)), true)
	if b.st.clip != nil {
		multiply(cov, b.st.clip)
	}
	b.st.clip = cov
}

// --------------------------------------------------------------------------
// Drawing
// --------------------------------------------------------------------------

// Clear replaces the pixels inside the clip.
func (b *Backend) Clear(c picture.Color) {
	src := image.NewUniform(c.NRGBA())
	if b.st.clip == nil {
		xdraw.Draw(b.dst, b.dst.Rect, src, image.Point{}, xdraw.Src)
		return
	}
	xdraw.DrawMask(b.dst, b.dst.Rect, src, image.Point{}, b.st.clip, image.Point{}, xdraw.Src)
}

// DrawPaint fills the clip with the paint color.
func (b *Backend) DrawPaint(paint picture.Paint) {
	full := image.NewAlpha(b.dst.Rect)
	xdraw.Draw(full, full.Rect, image.Opaque, image.Point{}, xdraw.Src)
	b.composite(paint.Color, full)
}

// FillPath fills p with the paint color.
func (b *Backend) FillPath(p *picture.Path, paint picture.Paint) {
	polys := fillPolygons(p.Transform(b.st.matrix))
	b.composite(paint.Color, b.coverage(polys, paint.AntiAlias))
}

// StrokePath strokes p with the paint color and stroke geometry.
func (b *Backend) StrokePath(p *picture.Path, paint picture.Paint) {
	width := paint.StrokeWidth * b.st.matrix.ScaleFactor()
	if paint.StrokeWidth <= 0 {
		width = 1 // hairline
	}
	polys := strokePolygons(p.Transform(b.st.matrix), width, paint.StrokeStyle())
	b.composite(paint.Color, b.coverage(polys, paint.AntiAlias))
}

// DrawImage resamples the src region of img into dst under the transform.
func (b *Backend) DrawImage(img image.Image, src, dst picture.Rect, paint picture.Paint) {
	if src.IsEmpty() || dst.IsEmpty() {
		return
	}
	sx := dst.Width() / src.Width()
	sy := dst.Height() / src.Height()
	local := picture.Matrix{
		A: sx, C: dst.Left - src.Left*sx,
		E: sy, F: dst.Top - src.Top*sy,
	}
	m := b.st.matrix.Multiply(local)
	s2d := f64.Aff3{m.A, m.B, m.C, m.D, m.E, m.F}

	tmp := image.NewRGBA(b.dst.Rect)
	sr := image.Rect(int(src.Left), int(src.Top), int(src.Right+0.5), int(src.Bottom+0.5)).
		Intersect(img.Bounds())
	var interp xdraw.Interpolator = xdraw.BiLinear
	if !paint.AntiAlias {
		interp = xdraw.NearestNeighbor
	}
	interp.Transform(tmp, s2d, img, sr, xdraw.Src, nil)

	mask := image.NewAlpha(b.dst.Rect)
	xdraw.Draw(mask, mask.Rect, image.NewUniform(alphaColor(paint.Color.A)), image.Point{}, xdraw.Src)
	if b.st.clip != nil {
		multiply(mask, b.st.clip)
	}
	xdraw.DrawMask(b.dst, b.dst.Rect, tmp, image.Point{}, mask, image.Point{}, xdraw.Over)
}

// DrawText draws s at the device position of (x, y).
func (b *Backend) DrawText(s string, x, y, size float64, paint picture.Paint) {
	px := size * b.st.matrix.ScaleFactor()
	if px <= 0 {
		return
	}
	dx, dy := b.st.matrix.MapPoint(x, y)
	mask, err := b.fonts.render(s, px, dx, dy, b.dst.Rect)
	if err != nil {
		picture.Logger().Warn("raster: text not drawn", "err", err)
		return
	}
	b.composite(paint.Color, mask)
}

// coverage scan-converts polygons into an alpha mask the size of the target.
func (b *Backend) coverage(polys [][]picture.Point, antiAlias bool) *image.Alpha {
	r := b.dst.Rect
	mask := image.NewAlpha(r)
	if len(polys) == 0 || r.Empty() {
		return mask
	}
	z := vector.NewRasterizer(r.Dx(), r.Dy())
	for _, poly := range polys {
		if len(poly) < 3 {
			continue
		}
		z.MoveTo(float32(poly[0].X), float32(poly[0].Y))
		for _, pt := range poly[1:] {
			z.LineTo(float32(pt.X), float32(pt.Y))
		}
		z.ClosePath()
	}
	z.Draw(mask, r, image.Opaque, image.Point{})
	if !antiAlias {
		for i, a := range mask.Pix {
			if a >= 128 {
				mask.Pix[i] = 255
			} else {
				mask.Pix[i] = 0
			}
		}
	}
	return mask
}

// composite paints color through coverage, restricted to the clip.
func (b *Backend) composite(c picture.Color, coverage *image.Alpha) {
	if b.st.clip != nil {
		multiply(coverage, b.st.clip)
	}
	xdraw.DrawMask(b.dst, b.dst.Rect, image.NewUniform(c.NRGBA()), image.Point{}, coverage, image.Point{}, xdraw.Over)
}

// multiply scales dst coverage by src coverage in place.
func multiply(dst, src *image.Alpha) {
	for i := range dst.Pix {
		dst.Pix[i] = uint8((uint16(dst.Pix[i])*uint16(src.Pix[i]) + 127) / 255)
	}
}
