package iso

import (
	"errors"
	"math"
)

// DefaultTileSize is the on-screen width in pixels of one world unit tile
// before camera zoom.
const DefaultTileSize = 64.0

var (
	// ErrTileSizeLocked is returned by SetTileSize after the tile size has
	// already been set once.
	ErrTileSizeLocked = errors.New("iso: tile size already set")
	// ErrInvalidTileSize is returned by SetTileSize for non-positive or
	// non-finite sizes.
	ErrInvalidTileSize = errors.New("iso: tile size must be positive and finite")
)

// tileSize is process-wide and single-threaded like the rest of the package.
var (
	tileSize       = DefaultTileSize
	tileSizeLocked bool
)

// SetTileSize sets the global tile size used by WorldToScreen and
// ScreenToWorld. It may be called once, before any scene is built.
func SetTileSize(size float64) error {
	if tileSizeLocked {
		return ErrTileSizeLocked
	}
	if !(size > 0) || math.IsInf(size, 0) {
		return ErrInvalidTileSize
	}
	tileSize = size
	tileSizeLocked = true
	return nil
}

// TileSize returns the global tile size.
func TileSize() float64 {
	return tileSize
}

// Projection is the 2:1 isometric projection for a given tile size.
// The zero value is not usable; see CurrentProjection.
type Projection struct {
	TileSize float64
}

// CurrentProjection returns the projection for the global tile size.
func CurrentProjection() Projection {
	return Projection{TileSize: tileSize}
}

// WorldToScreen projects a world point onto the screen plane.
//
//	sx = (x - y) * t/2
//	sy = (x + y) * t/4 - z * t/2
func (p Projection) WorldToScreen(x, y, z float64) Vec2 {
	half := p.TileSize / 2
	quarter := p.TileSize / 4
	return Vec2{
		X: (x - y) * half,
		Y: (x+y)*quarter - z*half,
	}
}

// ScreenToWorld is the inverse of WorldToScreen for a known height z.
func (p Projection) ScreenToWorld(sx, sy, z float64) WorldPosition {
	half := p.TileSize / 2
	quarter := p.TileSize / 4
	// Remove the height term, then solve:
	//   u = x - y = sx / half
	//   v = x + y = sy' / quarter
	ay := sy + z*half
	u := sx / half
	v := ay / quarter
	return WorldPosition{X: (u + v) / 2, Y: (v - u) / 2, Z: z}
}

// WorldToScreen projects a world point using the global tile size.
func WorldToScreen(x, y, z float64) Vec2 {
	return CurrentProjection().WorldToScreen(x, y, z)
}

// ScreenToWorld unprojects a screen point at height z using the global tile
// size.
func ScreenToWorld(sx, sy, z float64) WorldPosition {
	return CurrentProjection().ScreenToWorld(sx, sy, z)
}

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular (determinant ≈ 0).
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}
