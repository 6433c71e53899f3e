package picture

import "errors"

// Precondition violations. These are programming errors: the methods that
// detect them panic with the error value, which can be matched with
// errors.Is on the recovered value.
var (
	// ErrRecordingActive is raised by BeginRecording while a canvas is active.
	ErrRecordingActive = errors.New("picture: recording already in progress")

	// ErrNotRecording is raised by a finish call without a matching begin.
	ErrNotRecording = errors.New("picture: recording not started")

	// ErrCanvasInvalidated is raised by any Canvas method after the
	// recording it belongs to was finished or its recorder closed.
	ErrCanvasInvalidated = errors.New("picture: canvas used after recording finished")

	// ErrRecorderClosed is raised by BeginRecording after Close.
	ErrRecorderClosed = errors.New("picture: recorder is closed")
)

// Errors returned by playback, serialization and decoding.
var (
	// ErrPictureClosed is returned by operations on a closed Picture.
	// Canvas.DrawPicture panics with it.
	ErrPictureClosed = errors.New("picture: picture is closed")

	// ErrInvalidData is returned by Decode for malformed input.
	ErrInvalidData = errors.New("picture: invalid picture data")

	// ErrUnsupportedVersion is returned by Decode for an unknown format version.
	ErrUnsupportedVersion = errors.New("picture: unsupported format version")

	// ErrUnknownBackend is returned by NewBackend for an unregistered name.
	ErrUnknownBackend = errors.New("picture: unknown backend")
)
