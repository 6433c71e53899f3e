package picture

import (
	"image/color"
	"testing"
)

func TestHex(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#ff0000", color.NRGBA{R: 255, A: 255}},
		{"00ff00", color.NRGBA{G: 255, A: 255}},
		{"#0000ff80", color.NRGBA{B: 255, A: 128}},
		{"#fff", color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
		{"#f008", color.NRGBA{R: 255, A: 136}},
		{"#ABCDEF", color.NRGBA{R: 0xab, G: 0xcd, B: 0xef, A: 255}},
		{"", color.NRGBA{A: 255}},
		{"#12", color.NRGBA{A: 255}},
		{"#gg0000", color.NRGBA{A: 255}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Hex(tt.in).NRGBA(); got != tt.want {
				t.Errorf("Hex(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestColorNRGBAClamps(t *testing.T) {
	got := RGBA(-1, 0.5, 2, 1).NRGBA()
	want := color.NRGBA{R: 0, G: 128, B: 255, A: 255}
	if got != want {
		t.Errorf("NRGBA() = %v, want %v", got, want)
	}
}

func TestFromColor(t *testing.T) {
	c := FromColor(color.RGBA{R: 255, G: 0, B: 0, A: 255})
	if c != RGB(1, 0, 0) {
		t.Errorf("FromColor(red) = %v", c)
	}
	// Premultiplied input is converted to straight alpha.
	half := FromColor(color.RGBA{R: 128, A: 128}).NRGBA()
	if half.R != 255 || half.A != 128 {
		t.Errorf("FromColor(premultiplied) = %v, want R=255 A=128", half)
	}
}

func TestColorAlpha(t *testing.T) {
	if !Black.IsOpaque() || Transparent.IsOpaque() {
		t.Error("IsOpaque wrong for Black or Transparent")
	}
	if got := White.WithAlpha(0.25); got.A != 0.25 || got.R != 1 {
		t.Errorf("WithAlpha(0.25) = %v", got)
	}
}
