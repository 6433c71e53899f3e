package dump

import (
	"bytes"
	"image"
	"strings"
	"testing"

	"github.com/gogpu/picture"
)

func TestBackendRegistration(t *testing.T) {
	if !picture.IsRegistered("dump") {
		t.Fatal("dump backend not registered")
	}
	b, err := picture.NewBackend("dump")
	if err != nil {
		t.Fatalf("NewBackend failed: %v", err)
	}
	if _, ok := b.(*Backend); !ok {
		t.Fatalf("backend is %T, want *dump.Backend", b)
	}
}

func TestListing(t *testing.T) {
	b := NewBackend()
	if err := b.Begin(100, 50); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	b.Save()
	b.SetTransform(picture.Translate(10, 20))
	b.ClipRect(picture.LTRB(0, 0, 50, 25))
	p := picture.NewPath()
	p.AddRect(picture.LTRB(1, 2, 3, 4))
	b.FillPath(p, picture.NewPaint(picture.RGB(1, 0, 0)))
	b.Restore()
	b.DrawText("hi", 5, 6, 12, picture.NewPaint(picture.Black))
	if err := b.End(); err != nil {
		t.Fatalf("End failed: %v", err)
	}

	want := []string{
		"Begin 100x50",
		"Save",
		"SetTransform [1 0 10 0 1 20]",
		"ClipRect [0 0 50 25]",
		"FillPath verbs=5 bounds=[1 2 3 4] NonZero Fill #ff0000ff",
		"Restore",
		`DrawText "hi" at (5,6) size=12 Fill #000000ff`,
		"End",
	}
	got := b.Lines()
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(got), len(want), b.String())
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestIndentation(t *testing.T) {
	b := NewBackend()
	_ = b.Begin(1, 1)
	b.SaveLayer(picture.LTRB(0, 0, 1, 1), 0.5)
	b.Clear(picture.White)
	b.Restore()

	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	if lines[1] != "SaveLayer [0 0 1 1] alpha=0.5" {
		t.Errorf("SaveLayer line = %q", lines[1])
	}
	if lines[2] != "  Clear #ffffffff" {
		t.Errorf("nested line = %q, want two-space indent", lines[2])
	}
	if lines[3] != "Restore" {
		t.Errorf("Restore line = %q, want no indent", lines[3])
	}
}

func TestUnbalancedRestore(t *testing.T) {
	b := NewBackend()
	_ = b.Begin(1, 1)
	b.Restore()
	b.DrawPaint(picture.NewPaint(picture.Black))

	if got := b.Lines()[2]; got != "DrawPaint Fill #000000ff" {
		t.Errorf("line = %q", got)
	}
}

func TestDrawImageAndStroke(t *testing.T) {
	b := NewBackend()
	_ = b.Begin(10, 10)
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	b.DrawImage(img, picture.XYWH(0, 0, 4, 3), picture.XYWH(1, 1, 8, 6), picture.NewPaint(picture.Black))
	p := picture.NewPath()
	p.MoveTo(0, 0)
	p.LineTo(5, 5)
	b.StrokePath(p, picture.NewStrokePaint(picture.Black, 2.5))

	lines := b.Lines()
	if want := "DrawImage 4x3 [0 0 4 3] -> [1 1 9 7] Fill #000000ff"; lines[1] != want {
		t.Errorf("image line = %q, want %q", lines[1], want)
	}
	if want := "StrokePath verbs=2 bounds=[0 0 5 5] width=2.5 Stroke #000000ff"; lines[2] != want {
		t.Errorf("stroke line = %q, want %q", lines[2], want)
	}
}

func TestBeginResets(t *testing.T) {
	b := NewBackend()
	_ = b.Begin(1, 1)
	b.Save()
	_ = b.Begin(2, 2)

	if got := b.String(); got != "Begin 2x2\n" {
		t.Errorf("String() = %q, want fresh listing", got)
	}
}

func TestWriteTo(t *testing.T) {
	b := NewBackend()
	_ = b.Begin(3, 4)
	_ = b.End()

	var buf bytes.Buffer
	n, err := b.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	if n != int64(buf.Len()) || buf.String() != "Begin 3x4\nEnd\n" {
		t.Errorf("WriteTo wrote %d bytes %q", n, buf.String())
	}
}
