package iso

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func TestRectContainsEdges(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 10, Height: 5}
	tests := []struct {
		x, y float64
		want bool
	}{
		{0, 0, true},
		{10, 5, true},
		{5, 2.5, true},
		{10.01, 0, false},
		{-0.01, 0, false},
		{0, 5.01, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestRectIntersectsVersusOverlaps(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 1, Height: 1}
	touching := Rect{X: 1, Y: 0, Width: 1, Height: 1}
	inside := Rect{X: 0.5, Y: 0.5, Width: 1, Height: 1}
	apart := Rect{X: 2, Y: 2, Width: 1, Height: 1}

	if !a.Intersects(touching) {
		t.Error("edge-sharing rects should intersect")
	}
	if a.Overlaps(touching) {
		t.Error("edge-sharing rects should not overlap")
	}
	if !a.Intersects(inside) || !a.Overlaps(inside) {
		t.Error("overlapping rects should both intersect and overlap")
	}
	if a.Intersects(apart) || a.Overlaps(apart) {
		t.Error("disjoint rects should neither intersect nor overlap")
	}
}

func TestRectZeroAreaIntersects(t *testing.T) {
	p := Rect{X: 3, Y: 4}
	if !p.Intersects(Rect{X: 3, Y: 4}) {
		t.Error("a point should intersect itself")
	}
	if !p.Intersects(Rect{X: 0, Y: 0, Width: 3, Height: 4}) {
		t.Error("a point on the corner should intersect")
	}
	if p.Intersects(Rect{X: 3.001, Y: 4, Width: 1, Height: 1}) {
		t.Error("a point just outside should not intersect")
	}
}

func TestRectUnionAndExpand(t *testing.T) {
	u := Rect{X: 0, Y: 0, Width: 1, Height: 1}.Union(Rect{X: 2, Y: -1, Width: 1, Height: 1})
	if u != (Rect{X: 0, Y: -1, Width: 3, Height: 2}) {
		t.Errorf("Union = %+v", u)
	}
	e := Rect{X: 1, Y: 1, Width: 2, Height: 2}.Expand(0.5)
	if e != (Rect{X: 0.5, Y: 0.5, Width: 3, Height: 3}) {
		t.Errorf("Expand = %+v", e)
	}
}

func TestRectFromPoints(t *testing.T) {
	r := rectFromPoints(Vec2{1, 5}, Vec2{-2, 3}, Vec2{4, -1})
	if r != (Rect{X: -2, Y: -1, Width: 6, Height: 6}) {
		t.Errorf("rectFromPoints = %+v", r)
	}
	if rectFromPoints() != (Rect{}) {
		t.Error("empty input should give the zero rect")
	}
}

func TestZRangeHalfOpen(t *testing.T) {
	a := ZRange{Min: 0, Max: 1}
	if a.Overlaps(ZRange{Min: 1, Max: 2}) {
		t.Error("stacked ranges should not overlap")
	}
	if !a.Overlaps(ZRange{Min: 0.5, Max: 2}) {
		t.Error("intersecting ranges should overlap")
	}
	if !a.Contains(0) || a.Contains(1) {
		t.Error("Contains should be [Min, Max)")
	}
}
