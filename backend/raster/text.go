package raster

import (
	"fmt"
	"image"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

var parseRegular = sync.OnceValues(func() (*sfnt.Font, error) {
	return opentype.Parse(goregular.TTF)
})

// faceCache keeps one opentype face per pixel size, rounded to 1/4 px.
type faceCache struct {
	faces map[int]font.Face
}

func newFaceCache() *faceCache {
	return &faceCache{faces: make(map[int]font.Face)}
}

func (c *faceCache) face(px float64) (font.Face, error) {
	key := int(math.Round(px * 4))
	if f, ok := c.faces[key]; ok {
		return f, nil
	}
	f, err := parseRegular()
	if err != nil {
		return nil, fmt.Errorf("raster: parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(key) / 4,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("raster: new face: %w", err)
	}
	c.faces[key] = face
	return face, nil
}

// render draws s into a coverage mask of size bounds with the baseline
// origin at (x, y).
func (c *faceCache) render(s string, px, x, y float64, bounds image.Rectangle) (*image.Alpha, error) {
	face, err := c.face(px)
	if err != nil {
		return nil, err
	}
	mask := image.NewAlpha(bounds)
	d := &font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(math.Round(x * 64)), Y: fixed.Int26_6(math.Round(y * 64))},
	}
	d.DrawString(s)
	return mask, nil
}
