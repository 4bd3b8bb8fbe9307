package iso

import (
	"sort"

	"github.com/sirupsen/logrus"
)

// DepthRule reports whether a must be drawn before b. It is only consulted
// for pairs whose ground-plane bounds and height ranges overlap.
type DepthRule func(a, b *Sprite) bool

// ByPosition is the default depth rule: the sprite with the smaller
// (Y, X, Z) tuple is drawn first. Because the tuple order is strict and
// total, graphs built with ByPosition never contain cycles.
func ByPosition(a, b *Sprite) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	if a.X != b.X {
		return a.X < b.X
	}
	return a.Z < b.Z
}

// SortOptions configures a sort pass. The zero value is usable.
type SortOptions struct {
	// Rule decides edge direction between overlapping sprites. Nil means
	// ByPosition.
	Rule DepthRule
	// QuadtreeCapacity and QuadtreeMaxDepth configure the broad phase.
	// Zero means the package defaults.
	QuadtreeCapacity int
	QuadtreeMaxDepth int
	// Logger receives the cycle diagnostic. Nil means the package logger.
	Logger logrus.FieldLogger
}

// SortResult is the outcome of a sort pass.
type SortResult struct {
	// Order is the draw order, back to front. Every input sprite appears
	// exactly once.
	Order []*Sprite
	// Edges is the number of occlusion edges found.
	Edges int
	// Cycles is the number of sprites appended by cycle recovery, in no
	// guaranteed order. Zero when the occlusion graph was acyclic.
	Cycles int
}

// node states during emission
const (
	nodeUnvisited uint8 = iota
	nodePending
	nodeEmitted
)

// cascadeFrame is one level of the dependent-release walk.
type cascadeFrame struct {
	node int
	next int
}

// Sorter resolves a draw order for one set of sprites. It builds a fresh
// quadtree and occlusion graph and is discarded after Sort.
type Sorter struct {
	sprites []*Sprite
	rule    DepthRule
	log     logrus.FieldLogger
	tree    *Quadtree

	maxDepth   float64
	deps       [][]int // deps[i]: sprites that must be drawn before i
	dependents [][]int // dependents[i]: sprites waiting on i
	edges      int

	candidates []int
}

// NewSorter indexes sprites for a sort pass.
func NewSorter(sprites []*Sprite, opts SortOptions) *Sorter {
	s := &Sorter{
		sprites:    sprites,
		rule:       opts.Rule,
		log:        opts.Logger,
		deps:       make([][]int, len(sprites)),
		dependents: make([][]int, len(sprites)),
	}
	if s.rule == nil {
		s.rule = ByPosition
	}
	if s.log == nil {
		s.log = defaultLogger
	}
	capacity, maxDepth := opts.QuadtreeCapacity, opts.QuadtreeMaxDepth
	if maxDepth == 0 {
		maxDepth = DefaultQuadtreeMaxDepth
	}

	var bounds Rect
	for i, sp := range sprites {
		if i == 0 {
			bounds = sp.Bounds()
		} else {
			bounds = bounds.Union(sp.Bounds())
		}
		if sp.Depth > s.maxDepth {
			s.maxDepth = sp.Depth
		}
	}
	s.tree = NewQuadtree(bounds, capacity, maxDepth)
	for i, sp := range sprites {
		s.tree.Insert(sp.Bounds(), i)
	}
	return s
}

// SortSprites is shorthand for NewSorter(sprites, opts).Sort().
func SortSprites(sprites []*Sprite, opts SortOptions) SortResult {
	return NewSorter(sprites, opts).Sort()
}

// Sort builds the occlusion graph and emits a topological order of it.
// Sprites are visited in ascending (Y, X, Z); a sprite is emitted once all
// of its dependencies are, and emitting it releases any waiting dependents.
// Sprites still waiting when nothing more can be released sit on a cycle
// and are appended in the order they started waiting.
func (s *Sorter) Sort() SortResult {
	n := len(s.sprites)
	if n == 0 {
		return SortResult{}
	}

	hint := make([]int, n)
	for i := range hint {
		hint[i] = i
	}
	sort.SliceStable(hint, func(a, b int) bool {
		sa, sb := s.sprites[hint[a]], s.sprites[hint[b]]
		if sa.Y != sb.Y {
			return sa.Y < sb.Y
		}
		if sa.X != sb.X {
			return sa.X < sb.X
		}
		return sa.Z < sb.Z
	})

	state := make([]uint8, n)
	unmet := make([]int, n)
	order := make([]*Sprite, 0, n)
	var pending []int
	var frames []cascadeFrame

	push := func(i int) {
		state[i] = nodeEmitted
		order = append(order, s.sprites[i])
		for _, d := range s.dependents[i] {
			unmet[d]--
		}
	}
	// emit appends i and walks its dependents depth-first, emitting each
	// one whose dependencies are now all satisfied.
	emit := func(i int) {
		push(i)
		frames = append(frames[:0], cascadeFrame{node: i})
		for len(frames) > 0 {
			top := len(frames) - 1
			f := &frames[top]
			ds := s.dependents[f.node]
			if f.next >= len(ds) {
				frames = frames[:top]
				continue
			}
			d := ds[f.next]
			f.next++
			if state[d] == nodePending && unmet[d] == 0 {
				push(d)
				frames = append(frames, cascadeFrame{node: d})
			}
		}
	}

	for _, i := range hint {
		if state[i] != nodeUnvisited {
			continue
		}
		s.findDependencies(i)
		for _, d := range s.deps[i] {
			if state[d] != nodeEmitted {
				unmet[i]++
			}
		}
		if unmet[i] == 0 {
			emit(i)
		} else {
			state[i] = nodePending
			pending = append(pending, i)
		}
	}

	// Drain anything the cascade did not release.
	for {
		live := pending[:0]
		for _, p := range pending {
			if state[p] == nodePending {
				live = append(live, p)
			}
		}
		pending = live

		progressed := false
		for _, p := range pending {
			if unmet[p] == 0 {
				emit(p)
				progressed = true
				break
			}
		}
		if !progressed {
			break
		}
	}

	cycles := 0
	if len(pending) > 0 {
		for _, p := range pending {
			push(p)
			cycles++
		}
		s.log.WithFields(logrus.Fields{
			"pending": cycles,
			"emitted": n - cycles,
		}).Warn("iso: cyclic occlusion dependency, appending remaining sprites unordered")
	}

	return SortResult{Order: order, Edges: s.edges, Cycles: cycles}
}

// findDependencies records every overlapping sprite that the depth rule
// places before sprite i. The broad-phase query extends i's bounds upward
// in Y by the largest sprite depth, using Y as a proxy for height.
func (s *Sorter) findDependencies(i int) {
	sp := s.sprites[i]
	b := sp.Bounds()
	area := Rect{X: b.X, Y: b.Y - s.maxDepth, Width: b.Width, Height: b.Height + s.maxDepth}

	s.candidates = s.tree.Retrieve(area, s.candidates[:0])
	for _, j := range s.candidates {
		if j == i {
			continue
		}
		other := s.sprites[j]
		if !occludes(other, sp) || !s.rule(other, sp) {
			continue
		}
		s.deps[i] = append(s.deps[i], j)
		s.dependents[j] = append(s.dependents[j], i)
		s.edges++
	}
}

// occludes reports whether two sprites overlap on the ground plane (open
// intervals) and in height.
func occludes(a, b *Sprite) bool {
	return a.Bounds().Overlaps(b.Bounds()) && a.ZRange().Overlaps(b.ZRange())
}
