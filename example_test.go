package picture_test

import (
	"fmt"
	"image/color"
	"os"
	"testing"

	"github.com/gogpu/picture"
	"github.com/gogpu/picture/backend/dump"
	_ "github.com/gogpu/picture/backend/raster"
)

func Example() {
	rec := picture.NewRecorder()
	defer rec.Close()

	canvas := rec.BeginRecording(picture.LTRB(0, 0, 100, 100))
	canvas.DrawRect(picture.LTRB(10, 10, 50, 50), picture.NewPaint(picture.RGB(1, 0, 0)))
	pic := rec.FinishRecordingAsPicture()
	defer pic.Close()

	b := dump.NewBackend()
	if err := pic.Playback(b); err != nil {
		fmt.Println(err)
		return
	}
	_, _ = b.WriteTo(os.Stdout)
	// Output:
	// Begin 100x100
	// FillPath verbs=5 bounds=[10 10 50 50] NonZero Fill #ff0000ff
	// End
}

func ExampleRecorder_FinishRecordingAsPictureWithCull() {
	rec := picture.NewRecorder()
	defer rec.Close()

	canvas := rec.BeginRecording(picture.LTRB(0, 0, 100, 100))
	canvas.DrawCircle(20, 20, 5, picture.NewPaint(picture.Black))
	canvas.DrawCircle(80, 80, 5, picture.NewPaint(picture.Black))
	pic := rec.FinishRecordingAsPictureWithCull(picture.LTRB(0, 0, 50, 50))
	defer pic.Close()

	b := dump.NewBackend()
	_ = pic.Playback(b)
	for _, line := range b.Lines() {
		fmt.Println(line)
	}
	// Output:
	// Begin 50x50
	// FillPath verbs=6 bounds=[15 15 25 25] NonZero Fill #000000ff
	// End
}

func TestMakeImage(t *testing.T) {
	rec := picture.NewRecorder()
	defer rec.Close()

	canvas := rec.BeginRecording(picture.LTRB(0, 0, 40, 40))
	canvas.Clear(picture.White)
	canvas.DrawRect(picture.LTRB(10, 10, 30, 30), picture.NewPaint(picture.RGB(0, 0, 1)))
	pic := rec.FinishRecordingAsPicture()
	defer pic.Close()

	img, err := pic.MakeImage(40, 40)
	if err != nil {
		t.Fatalf("MakeImage failed: %v", err)
	}
	if got := img.RGBAAt(20, 20); got != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("center pixel = %v, want blue", got)
	}
	if got := img.RGBAAt(2, 2); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("corner pixel = %v, want white", got)
	}

	// Cached results are copies: mutating one does not leak into the next.
	img.Pix[0] = 0
	again, err := pic.MakeImage(40, 40)
	if err != nil {
		t.Fatalf("second MakeImage failed: %v", err)
	}
	if again.Pix[0] != 255 {
		t.Error("cached image was modified through a returned copy")
	}

	small, err := pic.MakeImage(20, 20)
	if err != nil {
		t.Fatalf("MakeImage(20, 20) failed: %v", err)
	}
	if b := small.Bounds(); b.Dx() != 20 || b.Dy() != 20 {
		t.Errorf("MakeImage(20, 20) bounds = %v", b)
	}
}

func TestRasterMatchesAfterDecode(t *testing.T) {
	rec := picture.NewRecorder()
	defer rec.Close()

	canvas := rec.BeginRecording(picture.LTRB(0, 0, 64, 64))
	canvas.Translate(32, 32)
	canvas.Rotate(45)
	canvas.DrawRect(picture.LTRB(-10, -10, 10, 10), picture.NewStrokePaint(picture.Black, 3))
	canvas.DrawString("Go", -10, 25, 14, picture.NewPaint(picture.RGB(0, 0.5, 0)))
	pic := rec.FinishRecordingAsPicture()
	defer pic.Close()

	data, err := pic.Serialize()
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	decoded, err := picture.MakeFromData(data)
	if err != nil {
		t.Fatalf("MakeFromData failed: %v", err)
	}
	defer decoded.Close()

	a, err := pic.MakeImage(64, 64)
	if err != nil {
		t.Fatal(err)
	}
	b, err := decoded.MakeImage(64, 64)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("pixel byte %d differs after decode: %d vs %d", i, a.Pix[i], b.Pix[i])
		}
	}
}
