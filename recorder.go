package picture

import (
	"runtime"

	"github.com/gogpu/picture/internal/handle"
)

// Recorder captures drawing commands into pictures.
//
// BeginRecording returns a Canvas whose calls are recorded instead of
// rasterized. FinishRecordingAsPicture seals them into an immutable Picture.
// A Recorder can run any number of recordings, one at a time.
//
// Callers should Close a Recorder when done with it, typically with defer.
// A Recorder that becomes unreachable without Close is released by the
// runtime.
//
// The Recorder is not safe for concurrent use.
type Recorder struct {
	h       *handle.Handle
	cleanup runtime.Cleanup
	opts    recorderOptions
	canvas  *Canvas
	closed  bool
}

// NewRecorder allocates a Recorder.
func NewRecorder(opts ...RecorderOption) *Recorder {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	onNativeCall()
	r := &Recorder{
		h:    handle.New(handle.KindRecorder),
		opts: o,
	}
	r.cleanup = runtime.AddCleanup(r, releaseLeaked, r.h)
	Logger().Debug("picture: recorder created", "handle", r.h.ID())
	return r
}

// releaseLeaked releases a handle whose owner was never closed.
func releaseLeaked(h *handle.Handle) {
	if h.Release() {
		Logger().Warn("picture: handle released by runtime cleanup",
			"kind", h.Kind().String(), "handle", h.ID())
	}
}

// BeginRecording starts a recording and returns the canvas that records it.
//
// bounds is the cull rect of the recording: drawing that falls outside of it
// is undefined and may or may not appear on playback. The edges are copied
// as given; they are not validated.
//
// BeginRecording panics with ErrRecordingActive if a recording is already in
// progress, and with ErrRecorderClosed after Close.
func (r *Recorder) BeginRecording(bounds Rect) *Canvas {
	defer runtime.KeepAlive(r)
	if r.closed {
		panic(ErrRecorderClosed)
	}
	if r.canvas != nil {
		panic(ErrRecordingActive)
	}

	onNativeCall()
	r.canvas = newCanvas(bounds, r.opts.capacity)
	return r.canvas
}

// RecordingCanvas returns the active canvas, or nil and false when no
// recording is in progress.
func (r *Recorder) RecordingCanvas() (*Canvas, bool) {
	return r.canvas, r.canvas != nil
}

// IsRecording reports whether a recording is in progress.
func (r *Recorder) IsRecording() bool {
	return r.canvas != nil
}

// FinishRecordingAsPicture ends the recording and returns its picture.
//
// The canvas returned by BeginRecording is invalidated. The picture is
// immutable: nested pictures drawn during the recording are captured as
// they were when drawn.
//
// FinishRecordingAsPicture panics with ErrNotRecording if no recording is
// in progress.
func (r *Recorder) FinishRecordingAsPicture() *Picture {
	defer runtime.KeepAlive(r)
	c := r.detach()
	return r.finish(c, c.bounds)
}

// FinishRecordingAsPictureWithCull ends the recording like
// FinishRecordingAsPicture, but uses cull instead of the bounds given to
// BeginRecording as the overall bound for the bounding-box hierarchy and for
// culling on playback.
func (r *Recorder) FinishRecordingAsPictureWithCull(cull Rect) *Picture {
	defer runtime.KeepAlive(r)
	c := r.detach()
	return r.finish(c, cull)
}

// detach invalidates and removes the active canvas.
func (r *Recorder) detach() *Canvas {
	c := r.canvas
	if c == nil {
		panic(ErrNotRecording)
	}
	r.canvas = nil
	c.invalidate()
	return c
}

func (r *Recorder) finish(c *Canvas, cull Rect) *Picture {
	onNativeCall()
	ops := c.takeOps()
	rec := seal(ops, cull, r.opts.bbh)
	p := newPicture(rec)
	Logger().Debug("picture: recording finished",
		"recorder", r.h.ID(), "picture", p.UniqueID(),
		"ops", len(rec.ops), "draws", rec.draws, "bytes", rec.bytes)
	return p
}

// Close invalidates an active canvas and releases the recorder.
// Pictures already produced stay valid. Close is idempotent and always
// returns nil.
func (r *Recorder) Close() error {
	defer runtime.KeepAlive(r)
	if r.closed {
		return nil
	}
	r.closed = true
	if r.canvas != nil {
		Logger().Warn("picture: recorder closed while recording", "handle", r.h.ID())
		r.canvas.invalidate()
		r.canvas = nil
	}
	r.cleanup.Stop()
	if r.h.Release() {
		Logger().Debug("picture: recorder released", "handle", r.h.ID())
	}
	return nil
}
