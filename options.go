package picture

// RecorderOption configures a Recorder during creation.
//
// Example:
//
//	// Linear culling instead of an R-tree, for small pictures
//	rec := picture.NewRecorder(picture.WithBBH(false))
type RecorderOption func(*recorderOptions)

// recorderOptions holds optional configuration for Recorder creation.
type recorderOptions struct {
	bbh      bool
	capacity int
}

// defaultOptions returns the default recorder options.
func defaultOptions() recorderOptions {
	return recorderOptions{
		bbh:      true,
		capacity: 64,
	}
}

// WithBBH enables or disables the bounding-box hierarchy built when a
// recording is finished. Without it, playback culls by scanning every op.
// Enabled by default.
func WithBBH(enabled bool) RecorderOption {
	return func(o *recorderOptions) {
		o.bbh = enabled
	}
}

// WithInitialCapacity sets how many ops the recording buffer preallocates.
// Values <= 0 are ignored.
func WithInitialCapacity(n int) RecorderOption {
	return func(o *recorderOptions) {
		if n > 0 {
			o.capacity = n
		}
	}
}
