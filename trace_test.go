package picture

import (
	"errors"
	"fmt"
	"image"
	"strings"
	"testing"
)

// traceBackend records one short line per backend call.
type traceBackend struct {
	calls  []string
	endErr error
}

func (b *traceBackend) add(format string, args ...any) {
	b.calls = append(b.calls, fmt.Sprintf(format, args...))
}

func (b *traceBackend) Begin(w, h int) error { b.add("Begin %dx%d", w, h); return nil }
func (b *traceBackend) End() error           { b.add("End"); return b.endErr }
func (b *traceBackend) Save()                { b.add("Save") }
func (b *traceBackend) Restore()             { b.add("Restore") }

func (b *traceBackend) SaveLayer(r Rect, alpha float64) { b.add("SaveLayer %v %g", r, alpha) }
func (b *traceBackend) SetTransform(m Matrix)           { b.add("SetTransform %v", m) }
func (b *traceBackend) ClipRect(r Rect)                 { b.add("ClipRect %v", r) }
func (b *traceBackend) ClipPath(p *Path)                { b.add("ClipPath %v", p.Bounds()) }
func (b *traceBackend) Clear(c Color)                   { b.add("Clear %v", c) }
func (b *traceBackend) DrawPaint(p Paint)               { b.add("DrawPaint %v", p.Color) }

func (b *traceBackend) FillPath(p *Path, _ Paint) {
	b.add("FillPath %d %v", p.VerbCount(), p.Bounds())
}

func (b *traceBackend) StrokePath(p *Path, paint Paint) {
	b.add("StrokePath %d %v w=%g", p.VerbCount(), p.Bounds(), paint.StrokeWidth)
}

func (b *traceBackend) DrawImage(img image.Image, src, dst Rect, _ Paint) {
	b.add("DrawImage %v %v %v", img.Bounds().Size(), src, dst)
}

func (b *traceBackend) DrawText(s string, x, y, size float64, _ Paint) {
	b.add("DrawText %q %g %g %g", s, x, y, size)
}

func (b *traceBackend) String() string { return strings.Join(b.calls, "\n") }

// count returns how many calls start with prefix.
func (b *traceBackend) count(prefix string) int {
	n := 0
	for _, c := range b.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func playback(t *testing.T, p *Picture) *traceBackend {
	t.Helper()
	b := &traceBackend{}
	if err := p.Playback(b); err != nil {
		t.Fatalf("Playback failed: %v", err)
	}
	return b
}

// mustPanic runs f and checks that it panics with an error matching want.
func mustPanic(t *testing.T, want error, f func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected panic with %v", want)
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, want) {
			t.Fatalf("panic value = %v, want %v", r, want)
		}
	}()
	f()
}

// recordPicture runs draw on a fresh recording and returns the picture.
func recordPicture(t *testing.T, bounds Rect, draw func(c *Canvas), opts ...RecorderOption) *Picture {
	t.Helper()
	r := NewRecorder(opts...)
	t.Cleanup(func() { _ = r.Close() })
	draw(r.BeginRecording(bounds))
	p := r.FinishRecordingAsPicture()
	t.Cleanup(func() { _ = p.Close() })
	return p
}
