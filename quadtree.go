package iso

// Quadtree defaults.
const (
	DefaultQuadtreeCapacity = 10
	DefaultQuadtreeMaxDepth = 5
)

// quadEntry is one indexed rectangle and the caller's id for it.
type quadEntry struct {
	rect Rect
	id   int
}

// quadNode is a node in the quadtree arena. Children, once split, are four
// consecutive nodes starting at child: 0 top-right, 1 top-left,
// 2 bottom-left, 3 bottom-right.
type quadNode struct {
	bounds  Rect
	depth   int
	child   int   // index of first child, -1 when a leaf
	entries []int // indices into Quadtree.entries
}

// Quadtree is a transient broad-phase index built fresh for each sort pass.
// Nodes and entries live in flat slices; insertion and retrieval walk the
// tree with explicit stacks rather than recursion.
//
// An entry is pushed to a child only when it lies strictly inside one
// quadrant. Entries touching a midpoint stay at the parent.
type Quadtree struct {
	capacity int
	maxDepth int
	nodes    []quadNode
	entries  []quadEntry

	splitStack []int // nodes awaiting a split check
	walk       []int // retrieval scratch
}

// NewQuadtree creates an empty quadtree over bounds. capacity is the number
// of entries a node holds before splitting; maxDepth bounds splitting.
// A non-positive capacity or negative maxDepth uses the package default.
func NewQuadtree(bounds Rect, capacity, maxDepth int) *Quadtree {
	if capacity <= 0 {
		capacity = DefaultQuadtreeCapacity
	}
	if maxDepth < 0 {
		maxDepth = DefaultQuadtreeMaxDepth
	}
	q := &Quadtree{capacity: capacity, maxDepth: maxDepth}
	q.Reset(bounds)
	return q
}

// Reset empties the tree and sets new root bounds, keeping the node and
// entry arenas for reuse.
func (q *Quadtree) Reset(bounds Rect) {
	q.nodes = append(q.nodes[:0], quadNode{bounds: bounds, child: -1})
	q.entries = q.entries[:0]
}

// Len returns the number of inserted entries.
func (q *Quadtree) Len() int { return len(q.entries) }

// Bounds returns the root bounds.
func (q *Quadtree) Bounds() Rect { return q.nodes[0].bounds }

// quadrant returns which child of a node with the given bounds fully
// contains r, or -1 if r touches or crosses a midpoint.
func quadrant(bounds, r Rect) int {
	vMid := bounds.X + bounds.Width/2
	hMid := bounds.Y + bounds.Height/2

	top := r.Y < hMid && r.Y+r.Height < hMid
	bottom := r.Y > hMid

	switch {
	case r.X < vMid && r.X+r.Width < vMid:
		if top {
			return 1
		} else if bottom {
			return 2
		}
	case r.X > vMid:
		if top {
			return 0
		} else if bottom {
			return 3
		}
	}
	return -1
}

// Insert adds rect under the caller-chosen id.
func (q *Quadtree) Insert(rect Rect, id int) {
	q.entries = append(q.entries, quadEntry{rect: rect, id: id})
	ei := len(q.entries) - 1

	ni := 0
	for q.nodes[ni].child >= 0 {
		idx := quadrant(q.nodes[ni].bounds, rect)
		if idx < 0 {
			break
		}
		ni = q.nodes[ni].child + idx
	}
	q.nodes[ni].entries = append(q.nodes[ni].entries, ei)

	q.splitStack = append(q.splitStack[:0], ni)
	for len(q.splitStack) > 0 {
		n := q.splitStack[len(q.splitStack)-1]
		q.splitStack = q.splitStack[:len(q.splitStack)-1]
		q.split(n)
	}
}

// split divides node ni into quadrants when it is over capacity and
// redistributes entries that fit in exactly one quadrant. Children that
// receive entries are queued for their own split check.
func (q *Quadtree) split(ni int) {
	n := &q.nodes[ni]
	if len(n.entries) <= q.capacity || n.depth >= q.maxDepth {
		return
	}
	if n.child < 0 {
		b := n.bounds
		hw, hh := b.Width/2, b.Height/2
		d := n.depth + 1
		first := len(q.nodes)
		n.child = first
		q.nodes = append(q.nodes,
			quadNode{bounds: Rect{X: b.X + hw, Y: b.Y, Width: hw, Height: hh}, depth: d, child: -1},
			quadNode{bounds: Rect{X: b.X, Y: b.Y, Width: hw, Height: hh}, depth: d, child: -1},
			quadNode{bounds: Rect{X: b.X, Y: b.Y + hh, Width: hw, Height: hh}, depth: d, child: -1},
			quadNode{bounds: Rect{X: b.X + hw, Y: b.Y + hh, Width: hw, Height: hh}, depth: d, child: -1},
		)
		n = &q.nodes[ni] // append may have moved the arena
	}

	bounds := n.bounds
	first := n.child
	kept := n.entries[:0]
	var moved [4]bool
	for _, ei := range n.entries {
		idx := quadrant(bounds, q.entries[ei].rect)
		if idx < 0 {
			kept = append(kept, ei)
			continue
		}
		c := &q.nodes[first+idx]
		c.entries = append(c.entries, ei)
		moved[idx] = true
	}
	q.nodes[ni].entries = kept
	for i, m := range moved {
		if m {
			q.splitStack = append(q.splitStack, first+i)
		}
	}
}

// Retrieve appends to dst the ids of every entry that could intersect rect
// and returns the extended slice. The result is a superset of the entries
// whose rectangles intersect rect; nothing that intersects is dropped.
func (q *Quadtree) Retrieve(rect Rect, dst []int) []int {
	q.walk = append(q.walk[:0], 0)
	for len(q.walk) > 0 {
		ni := q.walk[len(q.walk)-1]
		q.walk = q.walk[:len(q.walk)-1]
		n := &q.nodes[ni]
		for _, ei := range n.entries {
			dst = append(dst, q.entries[ei].id)
		}
		if n.child < 0 {
			continue
		}
		if idx := quadrant(n.bounds, rect); idx >= 0 {
			q.walk = append(q.walk, n.child+idx)
		} else {
			q.walk = append(q.walk, n.child+3, n.child+2, n.child+1, n.child)
		}
	}
	return dst
}
