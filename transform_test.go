package iso

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func TestProjectionKnownPoints(t *testing.T) {
	p := Projection{TileSize: 64}
	tests := []struct {
		x, y, z float64
		want    Vec2
	}{
		{0, 0, 0, Vec2{0, 0}},
		{1, 0, 0, Vec2{32, 16}},
		{0, 1, 0, Vec2{-32, 16}},
		{1, 1, 0, Vec2{0, 32}},
		{0, 0, 1, Vec2{0, -32}},
	}
	for _, tt := range tests {
		got := p.WorldToScreen(tt.x, tt.y, tt.z)
		if !approxEqual(got.X, tt.want.X, epsilon) || !approxEqual(got.Y, tt.want.Y, epsilon) {
			t.Errorf("WorldToScreen(%v,%v,%v) = %v, want %v", tt.x, tt.y, tt.z, got, tt.want)
		}
	}
}

func TestProjectionRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for _, tile := range []float64{1, 16, 64, 100.5} {
		p := Projection{TileSize: tile}
		for i := 0; i < 500; i++ {
			x := (rng.Float64() - 0.5) * 2000
			y := (rng.Float64() - 0.5) * 2000
			z := (rng.Float64() - 0.5) * 50
			s := p.WorldToScreen(x, y, z)
			w := p.ScreenToWorld(s.X, s.Y, z)
			if !approxEqual(w.X, x, 1e-6) || !approxEqual(w.Y, y, 1e-6) || w.Z != z {
				t.Fatalf("tile %v: round trip (%v,%v,%v) -> %+v", tile, x, y, z, w)
			}
		}
	}
}

func TestFreeFunctionsUseGlobalTileSize(t *testing.T) {
	want := CurrentProjection().WorldToScreen(3, -2, 1)
	if got := WorldToScreen(3, -2, 1); got != want {
		t.Errorf("WorldToScreen = %v, want %v", got, want)
	}
}

func TestSetTileSize(t *testing.T) {
	savedSize, savedLocked := tileSize, tileSizeLocked
	t.Cleanup(func() { tileSize, tileSizeLocked = savedSize, savedLocked })

	tileSize, tileSizeLocked = DefaultTileSize, false
	if err := SetTileSize(0); !errors.Is(err, ErrInvalidTileSize) {
		t.Errorf("SetTileSize(0) = %v, want ErrInvalidTileSize", err)
	}
	if err := SetTileSize(32); err != nil {
		t.Fatalf("SetTileSize(32) = %v", err)
	}
	if TileSize() != 32 {
		t.Errorf("TileSize() = %v, want 32", TileSize())
	}
	if err := SetTileSize(16); !errors.Is(err, ErrTileSizeLocked) {
		t.Errorf("second SetTileSize = %v, want ErrTileSizeLocked", err)
	}
	if TileSize() != 32 {
		t.Errorf("TileSize() changed after rejected set: %v", TileSize())
	}
}

func TestInvertAffine(t *testing.T) {
	m := [6]float64{2, 0, 0, 2, 10, -4}
	inv := invertAffine(m)
	x, y := transformPoint(m, 3, 7)
	bx, by := transformPoint(inv, x, y)
	if !approxEqual(bx, 3, epsilon) || !approxEqual(by, 7, epsilon) {
		t.Errorf("inverse round trip = (%v, %v)", bx, by)
	}
	if invertAffine([6]float64{}) != identityTransform {
		t.Error("singular matrix should invert to identity")
	}
}
