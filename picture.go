package picture

import (
	"fmt"
	"image"
	"runtime"

	"github.com/gogpu/picture/internal/handle"
	"github.com/gogpu/picture/internal/lru"
)

// Picture is an immutable recording of drawing ops.
//
// A Picture is produced by Recorder.FinishRecordingAsPicture or by Decode.
// It owns its ops and does not depend on the recorder that produced it.
// Pictures are safe for concurrent playback.
//
// Close releases the picture. A closed picture returns ErrPictureClosed from
// playback, rasterization and serialization; its accessors keep working.
type Picture struct {
	h       *handle.Handle
	cleanup runtime.Cleanup
	rec     *record
}

func newPicture(rec *record) *Picture {
	p := &Picture{
		h:   handle.New(handle.KindPicture),
		rec: rec,
	}
	p.cleanup = runtime.AddCleanup(p, releaseLeaked, p.h)
	return p
}

// CullRect returns the cull rect given at recording time.
func (p *Picture) CullRect() Rect { return p.rec.cull }

// UniqueID returns a non-zero id that no other picture in the process shares.
func (p *Picture) UniqueID() uint64 { return p.h.ID() }

// ApproximateOpCount returns the number of recorded ops, state ops included.
// Nested pictures count as one op.
func (p *Picture) ApproximateOpCount() int { return len(p.rec.ops) }

// ApproximateBytesUsed estimates the memory held by the picture's ops.
func (p *Picture) ApproximateBytesUsed() int { return p.rec.bytes }

// HasBBH reports whether the picture was built with a bounding-box hierarchy.
func (p *Picture) HasBBH() bool { return p.rec.bbh != nil }

// Playback replays the picture into b. The backend is sized from the cull
// rect's right and bottom edges, each clamped to [0, 8192]. Draw ops entirely
// outside the cull rect are skipped.
//
// A pixel backend allocates width*height*4 bytes for the target, and as much
// again for every open SaveLayer: up to 256 MiB each at the clamp. Use
// MakeImage to render at an explicit size.
func (p *Picture) Playback(b Backend) error {
	w, h := p.rec.size()
	return p.render(b, w, h, p.rec.cull)
}

// PlaybackRect is like Playback, but only replays draw ops that intersect
// query (in device coordinates) as well as the cull rect.
func (p *Picture) PlaybackRect(b Backend, query Rect) error {
	w, h := p.rec.size()
	return p.render(b, w, h, query)
}

func (p *Picture) render(b Backend, width, height int, query Rect) error {
	defer runtime.KeepAlive(p)
	if p.h.Released() {
		return ErrPictureClosed
	}
	onNativeCall()
	if err := b.Begin(width, height); err != nil {
		return fmt.Errorf("picture: begin playback: %w", err)
	}
	p.rec.playback(b, Identity(), query)
	if err := b.End(); err != nil {
		return fmt.Errorf("picture: end playback: %w", err)
	}
	return nil
}

type imageKey struct {
	id   uint64
	w, h int
}

var imageCache = lru.New[imageKey, *image.RGBA](lru.DefaultCapacity, func(k imageKey) uint64 {
	return k.id
})

// MakeImage rasterizes the picture into a width x height image using the
// registered "raster" backend (import github.com/gogpu/picture/backend/raster).
// Results are cached per picture and size; the returned image is a copy the
// caller may modify.
func (p *Picture) MakeImage(width, height int) (*image.RGBA, error) {
	if p.h.Released() {
		return nil, ErrPictureClosed
	}
	key := imageKey{id: p.UniqueID(), w: width, h: height}
	if img, ok := imageCache.Get(key); ok {
		return cloneRGBA(img), nil
	}

	b, err := NewBackend("raster")
	if err != nil {
		return nil, err
	}
	ib, ok := b.(ImageBackend)
	if !ok {
		return nil, fmt.Errorf("picture: raster backend %T does not produce images", b)
	}
	if err := p.render(ib, width, height, p.rec.cull); err != nil {
		return nil, err
	}
	img := ib.Image()
	imageCache.Set(key, img)
	return cloneRGBA(img), nil
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := &image.RGBA{
		Pix:    make([]byte, len(src.Pix)),
		Stride: src.Stride,
		Rect:   src.Rect,
	}
	copy(dst.Pix, src.Pix)
	return dst
}

// Close releases the picture and drops its cached images. Pictures that
// nested this one keep their copy of its ops. Close is idempotent and always
// returns nil.
func (p *Picture) Close() error {
	defer runtime.KeepAlive(p)
	if !p.h.Release() {
		return nil
	}
	p.cleanup.Stop()
	id := p.h.ID()
	imageCache.DeleteFunc(func(k imageKey) bool { return k.id == id })
	Logger().Debug("picture: picture released", "handle", id)
	return nil
}

// IsClosed reports whether Close has been called.
func (p *Picture) IsClosed() bool { return p.h.Released() }
