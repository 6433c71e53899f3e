package picture

import (
	"image"
	"io"
)

// Backend receives the ops of a picture during playback and translates them
// to its output (pixels, a text listing, ...).
//
// A Backend manages its own state stack: Save and SaveLayer push the
// transform and clip, Restore pops them.
//
// Backends are created through the registry with NewBackend(name) and
// register themselves in init():
//
//	func init() {
//	    picture.Register("raster", func() picture.Backend {
//	        return NewBackend()
//	    })
//	}
type Backend interface {
	// Begin prepares the backend for output of the given size in pixels.
	Begin(width, height int) error

	// End finishes output. Output accessors are usable after End.
	End() error

	// Save pushes the transform and clip.
	Save()

	// SaveLayer pushes the transform and clip and redirects drawing to an
	// offscreen layer that is composited with alpha on Restore.
	SaveLayer(bounds Rect, alpha float64)

	// Restore pops the last Save or SaveLayer. No-op on an empty stack.
	Restore()

	// SetTransform replaces the current transform.
	SetTransform(m Matrix)

	// ClipRect intersects the clip with r, given in current coordinates.
	ClipRect(r Rect)

	// ClipPath intersects the clip with the interior of p.
	ClipPath(p *Path)

	// Clear replaces every pixel inside the clip with c.
	Clear(c Color)

	// DrawPaint fills the clip with paint.
	DrawPaint(paint Paint)

	// FillPath fills p using p.FillRule.
	FillPath(p *Path, paint Paint)

	// StrokePath strokes p using the stroke geometry of paint.
	StrokePath(p *Path, paint Paint)

	// DrawImage draws the src region of img into dst.
	DrawImage(img image.Image, src, dst Rect, paint Paint)

	// DrawText draws s with its baseline origin at (x, y).
	DrawText(s string, x, y, size float64, paint Paint)
}

// WriterBackend is a Backend whose output can be streamed to an io.Writer.
type WriterBackend interface {
	Backend

	// WriteTo writes the output. Call only after End.
	WriteTo(w io.Writer) (int64, error)
}

// ImageBackend is a Backend that produces pixels.
type ImageBackend interface {
	Backend

	// Image returns the rendered image. Call only after End.
	Image() *image.RGBA
}
