// Package handle tracks ownership of engine resources.
//
// A Handle stands for one allocated resource (a recorder or a picture). It is
// released exactly once, either explicitly by its owner's Close method or by
// a runtime cleanup when the owner becomes unreachable. Live counts per kind
// are kept for leak detection in tests and for stats.
package handle

import (
	"fmt"
	"sync/atomic"
)

// Kind classifies a handle.
type Kind uint8

const (
	KindRecorder Kind = iota
	KindPicture
	kindCount
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindRecorder:
		return "recorder"
	case KindPicture:
		return "picture"
	}
	return fmt.Sprintf("Kind(%d)", k)
}

var (
	nextID uint64
	live   [kindCount]atomic.Int64
	total  [kindCount]atomic.Int64
)

// Handle is an owned engine resource.
type Handle struct {
	id       uint64
	kind     Kind
	released atomic.Bool
}

// New allocates a handle of the given kind.
func New(kind Kind) *Handle {
	h := &Handle{
		id:   atomic.AddUint64(&nextID, 1),
		kind: kind,
	}
	live[kind].Add(1)
	total[kind].Add(1)
	return h
}

// ID returns the process-unique, non-zero handle id.
func (h *Handle) ID() uint64 { return h.id }

// Kind returns the handle kind.
func (h *Handle) Kind() Kind { return h.kind }

// Release marks the handle released. It reports true only for the call that
// performed the release; later calls are no-ops.
func (h *Handle) Release() bool {
	if !h.released.CompareAndSwap(false, true) {
		return false
	}
	live[h.kind].Add(-1)
	return true
}

// Released reports whether Release has been called.
func (h *Handle) Released() bool { return h.released.Load() }

// Live returns the number of unreleased handles of kind.
func Live(kind Kind) int64 { return live[kind].Load() }

// Total returns the number of handles of kind ever allocated.
func Total(kind Kind) int64 { return total[kind].Load() }
