package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/gogpu/picture"
)

var red = picture.RGB(1, 0, 0)

func newBackend(t *testing.T, w, h int) *Backend {
	t.Helper()
	b := NewBackend()
	if err := b.Begin(w, h); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	return b
}

func rectPath(r picture.Rect) *picture.Path {
	p := picture.NewPath()
	p.AddRect(r)
	return p
}

func TestBackendRegistration(t *testing.T) {
	if !picture.IsRegistered("raster") {
		t.Fatal("raster backend not registered")
	}
	backend, err := picture.NewBackend("raster")
	if err != nil {
		t.Fatalf("failed to create raster backend: %v", err)
	}
	if _, ok := backend.(*Backend); !ok {
		t.Fatalf("backend is %T, want *raster.Backend", backend)
	}
}

func TestBackendLifecycle(t *testing.T) {
	b := newBackend(t, 100, 80)

	if b.Width() != 100 || b.Height() != 80 {
		t.Errorf("size = %dx%d, want 100x80", b.Width(), b.Height())
	}
	if err := b.End(); err != nil {
		t.Fatalf("End failed: %v", err)
	}
	img := b.Image()
	if img == nil {
		t.Fatal("Image() returned nil")
	}
	if got := img.Bounds(); got != image.Rect(0, 0, 100, 80) {
		t.Errorf("Image bounds = %v, want 100x80", got)
	}
	if got := img.RGBAAt(50, 40); got != (color.RGBA{}) {
		t.Errorf("fresh pixel = %v, want transparent", got)
	}
}

func TestBeginRejectsNegativeSize(t *testing.T) {
	if err := NewBackend().Begin(-1, 10); err == nil {
		t.Error("Begin(-1, 10) should fail")
	}
}

func TestFillPath(t *testing.T) {
	b := newBackend(t, 100, 100)
	b.FillPath(rectPath(picture.LTRB(10, 10, 60, 60)), picture.NewPaint(red))

	img := b.Image()
	if got := img.RGBAAt(30, 30); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("inside pixel = %v, want opaque red", got)
	}
	if got := img.RGBAAt(80, 80); got.A != 0 {
		t.Errorf("outside pixel = %v, want transparent", got)
	}
}

func TestFillPathAliased(t *testing.T) {
	b := newBackend(t, 20, 20)
	paint := picture.NewPaint(red)
	paint.AntiAlias = false
	b.FillPath(rectPath(picture.LTRB(2.5, 2.5, 10.5, 10.5)), paint)

	pix := b.Image().Pix
	for i := 3; i < len(pix); i += 4 {
		if a := pix[i]; a != 0 && a != 255 {
			t.Fatalf("aliased fill produced partial alpha %d", a)
		}
	}
}

func TestTransform(t *testing.T) {
	b := newBackend(t, 100, 100)
	b.SetTransform(picture.Translate(50, 50))
	b.FillPath(rectPath(picture.LTRB(0, 0, 20, 20)), picture.NewPaint(red))

	img := b.Image()
	if got := img.RGBAAt(60, 60); got.A != 255 {
		t.Errorf("translated pixel alpha = %d, want 255", got.A)
	}
	if got := img.RGBAAt(10, 10); got.A != 0 {
		t.Errorf("untranslated pixel alpha = %d, want 0", got.A)
	}
}

func TestClipRect(t *testing.T) {
	b := newBackend(t, 100, 100)
	b.ClipRect(picture.LTRB(0, 0, 50, 50))
	b.DrawPaint(picture.NewPaint(red))

	img := b.Image()
	if got := img.RGBAAt(25, 25); got.A != 255 {
		t.Errorf("pixel inside clip alpha = %d, want 255", got.A)
	}
	if got := img.RGBAAt(75, 75); got.A != 0 {
		t.Errorf("pixel outside clip alpha = %d, want 0", got.A)
	}
}

func TestSaveRestoreClip(t *testing.T) {
	b := newBackend(t, 100, 100)
	b.Save()
	b.ClipRect(picture.LTRB(0, 0, 10, 10))
	b.SetTransform(picture.Scale(2, 2))
	b.Restore()
	b.FillPath(rectPath(picture.LTRB(50, 50, 90, 90)), picture.NewPaint(red))

	if got := b.Image().RGBAAt(70, 70); got.A != 255 {
		t.Errorf("pixel after restore alpha = %d, want 255", got.A)
	}
	// Restore on empty stack is a no-op.
	b.Restore()
}

func TestClear(t *testing.T) {
	b := newBackend(t, 10, 10)
	b.Clear(picture.White)
	b.ClipRect(picture.LTRB(0, 0, 5, 10))
	b.Clear(picture.Transparent)

	img := b.Image()
	if got := img.RGBAAt(2, 5); got.A != 0 {
		t.Errorf("cleared pixel = %v, want transparent", got)
	}
	if got := img.RGBAAt(8, 5); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("unclipped pixel = %v, want white", got)
	}
}

func TestSaveLayerAlpha(t *testing.T) {
	b := newBackend(t, 20, 20)
	b.SaveLayer(picture.Rect{}, 0.5)
	b.FillPath(rectPath(picture.LTRB(0, 0, 20, 20)), picture.NewPaint(red))
	b.Restore()

	got := b.Image().RGBAAt(10, 10)
	if got.A < 120 || got.A > 135 {
		t.Errorf("layer alpha = %d, want ~128", got.A)
	}
}

func TestEndFlattensOpenLayers(t *testing.T) {
	b := newBackend(t, 10, 10)
	b.SaveLayer(picture.Rect{}, 1)
	b.DrawPaint(picture.NewPaint(red))
	if err := b.End(); err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if got := b.Image().RGBAAt(5, 5); got.A != 255 {
		t.Errorf("pixel alpha = %d, want 255", got.A)
	}
}

func TestStrokePath(t *testing.T) {
	b := newBackend(t, 100, 100)
	p := picture.NewPath()
	p.MoveTo(10, 50)
	p.LineTo(90, 50)
	b.StrokePath(p, picture.NewStrokePaint(red, 6))

	img := b.Image()
	if got := img.RGBAAt(50, 50); got.A != 255 {
		t.Errorf("pixel on stroke alpha = %d, want 255", got.A)
	}
	if got := img.RGBAAt(50, 60); got.A != 0 {
		t.Errorf("pixel off stroke alpha = %d, want 0", got.A)
	}
	if got := img.RGBAAt(5, 50); got.A != 0 {
		t.Errorf("pixel past butt cap alpha = %d, want 0", got.A)
	}
}

func TestStrokeRoundCap(t *testing.T) {
	b := newBackend(t, 100, 100)
	p := picture.NewPath()
	p.MoveTo(20, 50)
	p.LineTo(80, 50)
	paint := picture.NewStrokePaint(red, 20)
	paint.Cap = picture.LineCapRound
	b.StrokePath(p, paint)

	if got := b.Image().RGBAAt(13, 50); got.A != 255 {
		t.Errorf("pixel inside round cap alpha = %d, want 255", got.A)
	}
}

func TestStrokeClosedRect(t *testing.T) {
	b := newBackend(t, 100, 100)
	b.StrokePath(rectPath(picture.LTRB(20, 20, 80, 80)), picture.NewStrokePaint(red, 4))

	img := b.Image()
	for _, pt := range []image.Point{{50, 20}, {80, 50}, {50, 80}, {20, 50}} {
		if got := img.RGBAAt(pt.X, pt.Y); got.A == 0 {
			t.Errorf("edge pixel %v not stroked", pt)
		}
	}
	if got := img.RGBAAt(50, 50); got.A != 0 {
		t.Errorf("center pixel alpha = %d, want 0", got.A)
	}
}

func TestDrawImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < len(src.Pix); i += 4 {
		src.Pix[i+2], src.Pix[i+3] = 255, 255
	}
	b := newBackend(t, 40, 40)
	b.DrawImage(src, picture.XYWH(0, 0, 2, 2), picture.LTRB(10, 10, 30, 30), picture.NewPaint(picture.Black))

	img := b.Image()
	if got := img.RGBAAt(20, 20); got != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("image pixel = %v, want opaque blue", got)
	}
	if got := img.RGBAAt(5, 5); got.A != 0 {
		t.Errorf("pixel outside image alpha = %d, want 0", got.A)
	}
}

func TestDrawText(t *testing.T) {
	b := newBackend(t, 200, 60)
	b.DrawText("Hello", 10, 40, 32, picture.NewPaint(picture.Black))

	inked := 0
	img := b.Image()
	for y := 0; y < 60; y++ {
		for x := 0; x < 200; x++ {
			if img.RGBAAt(x, y).A > 0 {
				inked++
			}
		}
	}
	if inked == 0 {
		t.Error("DrawText produced no pixels")
	}
	if got := img.RGBAAt(150, 55); got.A != 0 {
		t.Errorf("pixel far from text alpha = %d, want 0", got.A)
	}
}

func TestWriteTo(t *testing.T) {
	b := newBackend(t, 16, 16)
	b.DrawPaint(picture.NewPaint(red))

	var buf bytes.Buffer
	n, err := b.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	if n != int64(buf.Len()) {
		t.Errorf("WriteTo returned %d, wrote %d", n, buf.Len())
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if img.Bounds().Dx() != 16 {
		t.Errorf("decoded width = %d, want 16", img.Bounds().Dx())
	}
}

func TestWriteToBeforeBegin(t *testing.T) {
	if _, err := NewBackend().WriteTo(&bytes.Buffer{}); err == nil {
		t.Error("WriteTo before Begin should fail")
	}
}
