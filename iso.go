package iso

import "math"

// Vec2 is a 2D vector used for screen positions, offsets, and directions
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// WorldPosition is a point in continuous world space. Z is height above the
// ground plane.
type WorldPosition struct {
	X, Y, Z float64
}

// Add returns p offset by (dx, dy, dz).
func (p WorldPosition) Add(dx, dy, dz float64) WorldPosition {
	return WorldPosition{p.X + dx, p.Y + dy, p.Z + dz}
}

// Rect is an axis-aligned rectangle on the world ground plane (or in screen
// space, depending on context). Y increases downward.
type Rect struct {
	X, Y, Width, Height float64
}

// MaxX returns the right edge of the rectangle.
func (r Rect) MaxX() float64 { return r.X + r.Width }

// MaxY returns the bottom edge of the rectangle.
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Overlaps reports whether the interiors of r and other intersect on both
// axes. Rectangles that only share an edge do not overlap.
func (r Rect) Overlaps(other Rect) bool {
	return r.X < other.X+other.Width &&
		r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height &&
		r.Y+r.Height > other.Y
}

// Expand returns r grown by margin on every side.
func (r Rect) Expand(margin float64) Rect {
	return Rect{
		X:      r.X - margin,
		Y:      r.Y - margin,
		Width:  r.Width + 2*margin,
		Height: r.Height + 2*margin,
	}
}

// Union returns the smallest rectangle containing both r and other.
func (r Rect) Union(other Rect) Rect {
	minX := math.Min(r.X, other.X)
	minY := math.Min(r.Y, other.Y)
	maxX := math.Max(r.MaxX(), other.MaxX())
	maxY := math.Max(r.MaxY(), other.MaxY())
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// rectFromPoints returns the enclosing rectangle of the given points.
func rectFromPoints(pts ...Vec2) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// ZRange is the half-open height interval [Min, Max) occupied by a sprite
// or object.
type ZRange struct {
	Min, Max float64
}

// Overlaps reports whether the two ranges share any interior height.
func (z ZRange) Overlaps(other ZRange) bool {
	return other.Max > z.Min && other.Min < z.Max
}

// Contains reports whether z lies in [Min, Max).
func (z ZRange) Contains(v float64) bool {
	return v >= z.Min && v < z.Max
}
