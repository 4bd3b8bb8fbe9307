package iso

import (
	"math"
	"sort"
)

// DefaultCellSize is the spatial grid cell size in world units.
const DefaultCellSize = 32.0

// CellKey identifies one grid cell by its integer cell coordinates.
type CellKey struct {
	X, Y int
}

// gridEntry records the cells an object was inserted into.
type gridEntry struct {
	obj   *Object
	cells []CellKey
	seq   uint64 // first-insertion order, for deterministic query results
}

// SpatialGrid is a persistent uniform-bucket index over object bounds. An
// object is stored in every cell its bounding box touches. Queries may return
// objects whose bounds only share a cell with the query (false positives),
// never omit one whose bounds intersect it.
type SpatialGrid struct {
	width, height float64
	cellSize      float64

	cells   map[CellKey]map[*Object]struct{}
	entries map[string]*gridEntry
	nextSeq uint64

	seen map[*Object]struct{} // query scratch
}

// NewSpatialGrid creates a grid for a world of the given size. cellSize <= 0
// uses DefaultCellSize. The world size only sizes the initial cell table;
// objects outside it are indexed normally.
func NewSpatialGrid(width, height, cellSize float64) *SpatialGrid {
	if !(cellSize > 0) || math.IsInf(cellSize, 0) {
		cellSize = DefaultCellSize
	}
	hint := 0
	if width > 0 && height > 0 {
		hint = int(math.Min((width/cellSize+1)*(height/cellSize+1), 4096))
	}
	return &SpatialGrid{
		width:    width,
		height:   height,
		cellSize: cellSize,
		cells:    make(map[CellKey]map[*Object]struct{}, hint),
		entries:  make(map[string]*gridEntry),
		seen:     make(map[*Object]struct{}),
	}
}

// CellSize returns the grid's cell size.
func (g *SpatialGrid) CellSize() float64 { return g.cellSize }

// Size returns the configured world size.
func (g *SpatialGrid) Size() (width, height float64) { return g.width, g.height }

// Len returns the number of indexed objects.
func (g *SpatialGrid) Len() int { return len(g.entries) }

// CellCount returns the number of non-empty cells.
func (g *SpatialGrid) CellCount() int { return len(g.cells) }

// maxCellCoord bounds cell indices so that infinite or huge coordinates
// still convert to a well-defined int.
const maxCellCoord = 1 << 30

// cellCoord floors a world coordinate to its cell index.
func (g *SpatialGrid) cellCoord(v float64) int {
	f := math.Floor(v / g.cellSize)
	switch {
	case math.IsNaN(f):
		return 0
	case f < -maxCellCoord:
		return -maxCellCoord
	case f > maxCellCoord:
		return maxCellCoord
	}
	return int(f)
}

// cellRange returns the inclusive cell index range covered by r.
func (g *SpatialGrid) cellRange(r Rect) (x0, y0, x1, y1 int) {
	return g.cellCoord(r.X), g.cellCoord(r.Y), g.cellCoord(r.MaxX()), g.cellCoord(r.MaxY())
}

// AddObject inserts obj into every cell its current bounds overlap and
// records the cell set for later removal. An object already present is
// re-inserted at its current bounds.
func (g *SpatialGrid) AddObject(obj *Object) {
	seq := g.nextSeq
	if e, ok := g.entries[obj.id]; ok {
		seq = e.seq
		g.removeEntry(e)
	} else {
		g.nextSeq++
	}
	g.insert(obj, seq)
}

func (g *SpatialGrid) insert(obj *Object, seq uint64) {
	x0, y0, x1, y1 := g.cellRange(obj.Bounds())
	e := &gridEntry{obj: obj, seq: seq, cells: make([]CellKey, 0, (x1-x0+1)*(y1-y0+1))}
	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			k := CellKey{x, y}
			cell := g.cells[k]
			if cell == nil {
				cell = make(map[*Object]struct{})
				g.cells[k] = cell
			}
			cell[obj] = struct{}{}
			e.cells = append(e.cells, k)
		}
	}
	g.entries[obj.id] = e
}

// RemoveObject evicts obj from every recorded cell and drops cells that
// become empty. Removing an object that is not indexed is a no-op.
func (g *SpatialGrid) RemoveObject(obj *Object) {
	if e, ok := g.entries[obj.id]; ok {
		g.removeEntry(e)
	}
}

func (g *SpatialGrid) removeEntry(e *gridEntry) {
	for _, k := range e.cells {
		cell := g.cells[k]
		if cell == nil {
			continue
		}
		delete(cell, e.obj)
		if len(cell) == 0 {
			delete(g.cells, k)
		}
	}
	delete(g.entries, e.obj.id)
}

// UpdateObject moves obj to pos: remove, reposition, re-add. It is not
// incremental.
func (g *SpatialGrid) UpdateObject(obj *Object, pos WorldPosition) {
	seq := g.nextSeq
	if e, ok := g.entries[obj.id]; ok {
		seq = e.seq
		g.removeEntry(e)
	} else {
		g.nextSeq++
	}
	obj.setPosition(pos)
	g.insert(obj, seq)
}

// GetObjectsInBounds returns the deduplicated objects stored in any cell
// overlapping r, in insertion order. Exact overlap is not re-checked.
func (g *SpatialGrid) GetObjectsInBounds(r Rect) []*Object {
	if len(g.entries) == 0 || math.IsNaN(r.X) || math.IsNaN(r.Y) ||
		math.IsNaN(r.Width) || math.IsNaN(r.Height) {
		return nil
	}
	clear(g.seen)
	var out []*Object
	collect := func(cell map[*Object]struct{}) {
		for obj := range cell {
			if _, dup := g.seen[obj]; dup {
				continue
			}
			g.seen[obj] = struct{}{}
			out = append(out, obj)
		}
	}

	x0, y0, x1, y1 := g.cellRange(r)
	span := (float64(x1) - float64(x0) + 1) * (float64(y1) - float64(y0) + 1)
	if span > float64(len(g.cells)) {
		// Query covers more cells than exist: walk the populated cells.
		for k, cell := range g.cells {
			if k.X >= x0 && k.X <= x1 && k.Y >= y0 && k.Y <= y1 {
				collect(cell)
			}
		}
	} else {
		for x := x0; x <= x1; x++ {
			for y := y0; y <= y1; y++ {
				if cell := g.cells[CellKey{x, y}]; cell != nil {
					collect(cell)
				}
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return g.entries[out[i].id].seq < g.entries[out[j].id].seq
	})
	return out
}

// Objects returns every indexed object in insertion order.
func (g *SpatialGrid) Objects() []*Object {
	es := make([]*gridEntry, 0, len(g.entries))
	for _, e := range g.entries {
		es = append(es, e)
	}
	sort.Slice(es, func(i, j int) bool { return es[i].seq < es[j].seq })
	out := make([]*Object, len(es))
	for i, e := range es {
		out[i] = e.obj
	}
	return out
}

// Cells returns the cells recorded for the object with the given id, sorted
// by (X, Y).
func (g *SpatialGrid) Cells(id string) []CellKey {
	e, ok := g.entries[id]
	if !ok {
		return nil
	}
	out := make([]CellKey, len(e.cells))
	copy(out, e.cells)
	sort.Slice(out, func(i, j int) bool {
		if out[i].X != out[j].X {
			return out[i].X < out[j].X
		}
		return out[i].Y < out[j].Y
	})
	return out
}

// Clear drops every cell and record.
func (g *SpatialGrid) Clear() {
	clear(g.cells)
	clear(g.entries)
	clear(g.seen)
	g.nextSeq = 0
}
