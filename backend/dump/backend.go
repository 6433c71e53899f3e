// Package dump provides a text backend that lists the calls made during
// picture playback, one per line. It is meant for debugging and for golden
// tests of recordings.
//
//	import _ "github.com/gogpu/picture/backend/dump"
//
//	b := picture.MustBackend("dump")
//	_ = pic.Playback(b)
//	b.(picture.WriterBackend).WriteTo(os.Stdout)
package dump

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"strconv"
	"strings"

	"github.com/gogpu/picture"
)

func init() {
	picture.Register("dump", func() picture.Backend {
		return NewBackend()
	})
}

// Backend records one line per call. Nested saves are indented.
type Backend struct {
	buf   bytes.Buffer
	depth int
}

var _ picture.WriterBackend = (*Backend)(nil)

// NewBackend creates a dump backend.
func NewBackend() *Backend {
	return &Backend{}
}

func (b *Backend) line(format string, args ...any) {
	b.buf.WriteString(strings.Repeat("  ", b.depth))
	fmt.Fprintf(&b.buf, format, args...)
	b.buf.WriteByte('\n')
}

// Begin resets the listing.
func (b *Backend) Begin(width, height int) error {
	b.buf.Reset()
	b.depth = 0
	b.line("Begin %dx%d", width, height)
	return nil
}

// End terminates the listing.
func (b *Backend) End() error {
	b.depth = 0
	b.line("End")
	return nil
}

// String returns the listing.
func (b *Backend) String() string { return b.buf.String() }

// Lines returns the listing split into lines, without indentation.
func (b *Backend) Lines() []string {
	raw := strings.Split(strings.TrimSuffix(b.buf.String(), "\n"), "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// WriteTo writes the listing.
func (b *Backend) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.buf.Bytes())
	return int64(n), err
}

func (b *Backend) Save() {
	b.line("Save")
	b.depth++
}

func (b *Backend) SaveLayer(bounds picture.Rect, alpha float64) {
	b.line("SaveLayer %s alpha=%s", rect(bounds), num(alpha))
	b.depth++
}

func (b *Backend) Restore() {
	if b.depth > 0 {
		b.depth--
	}
	b.line("Restore")
}

func (b *Backend) SetTransform(m picture.Matrix) {
	b.line("SetTransform [%s %s %s %s %s %s]",
		num(m.A), num(m.B), num(m.C), num(m.D), num(m.E), num(m.F))
}

func (b *Backend) ClipRect(r picture.Rect) { b.line("ClipRect %s", rect(r)) }

func (b *Backend) ClipPath(p *picture.Path) {
	b.line("ClipPath %s %s", path(p), p.FillRule)
}

func (b *Backend) Clear(c picture.Color) { b.line("Clear %s", color(c)) }

func (b *Backend) DrawPaint(p picture.Paint) { b.line("DrawPaint %s", paint(p)) }

func (b *Backend) FillPath(p *picture.Path, pt picture.Paint) {
	b.line("FillPath %s %s %s", path(p), p.FillRule, paint(pt))
}

func (b *Backend) StrokePath(p *picture.Path, pt picture.Paint) {
	b.line("StrokePath %s width=%s %s", path(p), num(pt.StrokeWidth), paint(pt))
}

func (b *Backend) DrawImage(img image.Image, src, dst picture.Rect, pt picture.Paint) {
	sz := img.Bounds().Size()
	b.line("DrawImage %dx%d %s -> %s %s", sz.X, sz.Y, rect(src), rect(dst), paint(pt))
}

func (b *Backend) DrawText(s string, x, y, size float64, pt picture.Paint) {
	b.line("DrawText %q at (%s,%s) size=%s %s", s, num(x), num(y), num(size), paint(pt))
}

func num(v float64) string { return strconv.FormatFloat(v, 'g', 6, 64) }

func rect(r picture.Rect) string {
	return "[" + num(r.Left) + " " + num(r.Top) + " " + num(r.Right) + " " + num(r.Bottom) + "]"
}

func color(c picture.Color) string {
	n := c.NRGBA()
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A)
}

func paint(p picture.Paint) string {
	return p.Style.String() + " " + color(p.Color)
}

func path(p *picture.Path) string {
	bnd := p.Bounds()
	return fmt.Sprintf("verbs=%d bounds=%s", p.VerbCount(), rect(bnd))
}
