// Package rtree implements a static, bulk-loaded R-tree over axis-aligned
// boxes. It is the bounding-box hierarchy of a picture: entries are op
// indices and queries return the ops that may touch a region, in recording
// order.
package rtree

import (
	"math"
	"slices"
)

// Fanout is the maximum number of children per node.
const Fanout = 6

// Box is an axis-aligned box. A box with MaxX <= MinX or MaxY <= MinY is
// empty and never matches a query.
type Box struct {
	MinX, MinY, MaxX, MaxY float64
}

// Empty reports whether b has no area.
func (b Box) Empty() bool {
	return !(b.MinX < b.MaxX && b.MinY < b.MaxY)
}

func (b Box) intersects(o Box) bool {
	return b.MinX < o.MaxX && o.MinX < b.MaxX && b.MinY < o.MaxY && o.MinY < b.MaxY
}

func (b Box) union(o Box) Box {
	return Box{
		MinX: math.Min(b.MinX, o.MinX),
		MinY: math.Min(b.MinY, o.MinY),
		MaxX: math.Max(b.MaxX, o.MaxX),
		MaxY: math.Max(b.MaxY, o.MaxY),
	}
}

func (b Box) centerX() float64 { return b.MinX/2 + b.MaxX/2 }
func (b Box) centerY() float64 { return b.MinY/2 + b.MaxY/2 }

type branch struct {
	box   Box
	index int   // leaf entry index; -1 for inner branches
	child *node // nil for leaf entries
}

type node struct {
	branches []branch
}

// Tree is an immutable R-tree. The zero value is an empty tree.
type Tree struct {
	root  *node
	count int
}

// Build bulk-loads a tree with Sort-Tile-Recursive packing. boxes[i] is
// stored under index i. Empty boxes are skipped.
func Build(boxes []Box) *Tree {
	level := make([]branch, 0, len(boxes))
	for i, b := range boxes {
		if b.Empty() {
			continue
		}
		level = append(level, branch{box: b, index: i})
	}
	t := &Tree{count: len(level)}
	if len(level) == 0 {
		return t
	}
	for len(level) > Fanout {
		level = pack(level)
	}
	t.root = &node{branches: level}
	return t
}

// pack groups one level of branches into parent branches.
func pack(level []branch) []branch {
	n := len(level)
	leaves := (n + Fanout - 1) / Fanout
	strips := int(math.Ceil(math.Sqrt(float64(leaves))))
	perSlice := strips * Fanout

	sortBy(level, func(b branch) float64 { return b.box.centerX() })

	parents := make([]branch, 0, leaves)
	for s := 0; s < n; s += perSlice {
		slice := level[s:min(s+perSlice, n)]
		sortBy(slice, func(b branch) float64 { return b.box.centerY() })
		for i := 0; i < len(slice); i += Fanout {
			group := slice[i:min(i+Fanout, len(slice))]
			child := &node{branches: append([]branch(nil), group...)}
			box := group[0].box
			for _, g := range group[1:] {
				box = box.union(g.box)
			}
			parents = append(parents, branch{box: box, index: -1, child: child})
		}
	}
	return parents
}

func sortBy(bs []branch, key func(branch) float64) {
	slices.SortStableFunc(bs, func(a, b branch) int {
		ka, kb := key(a), key(b)
		switch {
		case ka < kb:
			return -1
		case ka > kb:
			return 1
		}
		return 0
	})
}

// Len returns the number of indexed entries.
func (t *Tree) Len() int { return t.count }

// Bounds returns the union of all entries, or an empty box.
func (t *Tree) Bounds() Box {
	if t.root == nil {
		return Box{}
	}
	box := t.root.branches[0].box
	for _, b := range t.root.branches[1:] {
		box = box.union(b.box)
	}
	return box
}

// Search returns the indices of entries intersecting q, in ascending order.
func (t *Tree) Search(q Box) []int {
	if t.root == nil || q.Empty() {
		return nil
	}
	var out []int
	t.root.search(q, &out)
	slices.Sort(out)
	return out
}

func (n *node) search(q Box, out *[]int) {
	for i := range n.branches {
		b := &n.branches[i]
		if !b.box.intersects(q) {
			continue
		}
		if b.child == nil {
			*out = append(*out, b.index)
			continue
		}
		b.child.search(q, out)
	}
}

// Depth returns the height of the tree; 0 for an empty tree.
func (t *Tree) Depth() int {
	d := 0
	for n := t.root; n != nil; d++ {
		n = n.branches[0].child
	}
	return d
}
