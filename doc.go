// Package picture records 2D drawing commands into immutable, replayable
// pictures.
//
// # Overview
//
// A Recorder hands out a recording Canvas. Drawing calls made against the
// canvas are captured as ops instead of being rasterized. Finishing the
// recording seals the ops into a Picture, which can be played back to any
// registered Backend, serialized, or rasterized into an image.
//
// # Quick Start
//
//	rec := picture.NewRecorder()
//	defer rec.Close()
//
//	c := rec.BeginRecording(picture.LTRB(0, 0, 256, 256))
//	c.DrawCircle(128, 128, 64, picture.NewPaint(picture.RGB(1, 0, 0)))
//	pic := rec.FinishRecordingAsPicture()
//	defer pic.Close()
//
//	img, err := pic.MakeImage(256, 256) // requires backend/raster
//
// # Recording Lifecycle
//
// A Recorder has at most one active canvas. BeginRecording while a canvas is
// active, or finishing when none is, is a programming error and panics with
// ErrRecordingActive or ErrNotRecording. Finishing (or closing the recorder)
// invalidates the canvas: any later call on it panics with
// ErrCanvasInvalidated.
//
// The Picture returned by a finish call owns its ops. It is unaffected by
// further recordings on, or closing of, the Recorder that produced it.
//
// # Cull Rect
//
// The bounds passed to BeginRecording (or the cull passed to
// FinishRecordingAsPictureWithCull) scope the bounding-box hierarchy built for
// the picture. Drawing outside of the cull rect is undefined: it may or may
// not appear on playback.
//
// # Concurrency
//
// Recorder and Canvas are not safe for concurrent use. Pictures are immutable
// and may be played back from multiple goroutines.
//
// # Coordinate System
//
// Origin (0,0) at top-left, X increases right, Y increases down. Rotation
// angles passed to Canvas.Rotate are in degrees.
package picture

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// FormatVersion is the version of the binary picture encoding.
	FormatVersion = 1
)
