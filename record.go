package picture

import (
	"math"

	"github.com/gogpu/picture/internal/rtree"
)

// record is the sealed, immutable op list behind a Picture.
// It is shared by the Picture and by any recording that nested it.
type record struct {
	ops   []op
	cull  Rect
	bbh   *rtree.Tree // nil when built without a bounding-box hierarchy
	draws int         // number of draw ops
	bytes int
}

// seal builds a record from ops. Draw op bounds are clamped to cull before
// indexing, so the hierarchy is scoped to the cull rect.
func seal(ops []op, cull Rect, withBBH bool) *record {
	r := &record{ops: ops, cull: cull}
	for i := range ops {
		if ops[i].kind.isDraw() {
			r.draws++
		}
		r.bytes += ops[i].byteSize()
	}
	if withBBH {
		boxes := make([]rtree.Box, len(ops))
		for i := range ops {
			if !ops[i].kind.isDraw() {
				continue // empty box: never indexed
			}
			boxes[i] = toBox(ops[i].bounds.Intersect(cull))
		}
		r.bbh = rtree.Build(boxes)
	}
	return r
}

func toBox(r Rect) rtree.Box {
	return rtree.Box{MinX: r.Left, MinY: r.Top, MaxX: r.Right, MaxY: r.Bottom}
}

// visible returns a per-op mask of draw ops that may touch query.
// State ops are always replayed and are not part of the mask.
func (r *record) visible(query Rect) []bool {
	mask := make([]bool, len(r.ops))
	if query.IsEmpty() {
		return mask
	}
	if r.bbh != nil {
		for _, i := range r.bbh.Search(toBox(query)) {
			mask[i] = true
		}
		return mask
	}
	for i := range r.ops {
		o := &r.ops[i]
		mask[i] = o.kind.isDraw() && o.bounds.Intersect(r.cull).Intersects(query)
	}
	return mask
}

// playback replays state ops and the draw ops that intersect query.
func (r *record) playback(b Backend, base Matrix, query Rect) {
	mask := r.visible(query.Intersect(r.cull))
	for i := range r.ops {
		o := &r.ops[i]
		if o.kind.isDraw() && !mask[i] {
			continue
		}
		o.playback(b, base)
	}
}

// playbackAll replays every op without culling. Used for nested pictures,
// whose enclosing op was already culled.
func (r *record) playbackAll(b Backend, base Matrix) {
	for i := range r.ops {
		r.ops[i].playback(b, base)
	}
}

// size returns the backend size derived from the cull rect.
func (r *record) size() (int, int) {
	return cullExtent(r.cull.Right), cullExtent(r.cull.Bottom)
}

// maxExtent caps each playback dimension. A raster target of this size
// holds 256 MiB of RGBA pixels.
const maxExtent = 1 << 13

func cullExtent(v float64) int {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= maxExtent {
		return maxExtent
	}
	return int(math.Ceil(v))
}
