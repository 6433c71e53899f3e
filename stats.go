package picture

import (
	"sync/atomic"

	"github.com/gogpu/picture/internal/handle"
)

var nativeCalls atomic.Int64

// onNativeCall counts one call into the recording engine.
func onNativeCall() { nativeCalls.Add(1) }

// StatsSnapshot is a point-in-time view of engine counters.
type StatsSnapshot struct {
	// NativeCalls is the number of engine calls made since start or the
	// last ResetStats.
	NativeCalls int64

	// LiveRecorders and LivePictures count handles not yet released.
	LiveRecorders int64
	LivePictures  int64

	// RecordersCreated and PicturesCreated count all allocations.
	RecordersCreated int64
	PicturesCreated  int64
}

// Stats returns the current counters. It is safe for concurrent use.
func Stats() StatsSnapshot {
	return StatsSnapshot{
		NativeCalls:      nativeCalls.Load(),
		LiveRecorders:    handle.Live(handle.KindRecorder),
		LivePictures:     handle.Live(handle.KindPicture),
		RecordersCreated: handle.Total(handle.KindRecorder),
		PicturesCreated:  handle.Total(handle.KindPicture),
	}
}

// ResetStats zeroes the native call counter. Handle counts are not reset.
func ResetStats() { nativeCalls.Store(0) }
