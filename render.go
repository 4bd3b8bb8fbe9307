package iso

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Renderer draws a scene's draw list with ebiten. It owns no scene state;
// everything it needs arrives in DrawItems.
type Renderer struct {
	Textures *TextureSet
	// ClearColor fills the screen before drawing. Nil leaves it as is.
	ClearColor color.Color

	op ebiten.DrawImageOptions
}

// NewRenderer creates a renderer over textures.
func NewRenderer(textures *TextureSet) *Renderer {
	return &Renderer{
		Textures:   textures,
		ClearColor: color.RGBA{R: 0x1a, G: 0x1a, B: 0x2e, A: 0xff},
	}
}

// Draw clears the screen and issues one DrawImage per item, in slice order.
func (r *Renderer) Draw(screen *ebiten.Image, items []DrawItem) {
	if r.ClearColor != nil {
		screen.Fill(r.ClearColor)
	}
	for i := range items {
		r.drawItem(screen, &items[i])
	}
}

// drawItem places the texture so the asset anchor lands on the sprite's
// projected position, scaled by zoom.
func (r *Renderer) drawItem(screen *ebiten.Image, it *DrawItem) {
	tex := r.Textures.Texture(it.Sprite.TextureKey)
	if tex.Image == nil {
		return
	}
	b := tex.Image.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())

	r.op.GeoM.Reset()
	if tex.Rotated {
		// Stored 90 degrees clockwise: rotate back and swap extents.
		r.op.GeoM.Rotate(-math.Pi / 2)
		r.op.GeoM.Translate(0, w)
		w, h = h, w
	}
	r.op.GeoM.Translate(tex.OffsetX-it.AnchorX*w, tex.OffsetY-it.AnchorY*h)
	r.op.GeoM.Scale(it.Scale, it.Scale)
	r.op.GeoM.Translate(it.X, it.Y)
	screen.DrawImage(tex.Image, &r.op)
}

// DrawStats prints the scene stats in the top-left corner.
func (r *Renderer) DrawStats(screen *ebiten.Image, st Stats) {
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"TPS: %.1f FPS: %.1f\nobjects %d/%d sprites %d/%d sorted %d\ncull %v sort %v update %v",
		ebiten.ActualTPS(), ebiten.ActualFPS(),
		st.VisibleObjects, st.TotalObjects,
		st.VisibleSprites, st.TotalSprites, st.SortedSprites,
		st.CullTime, st.SortTime, st.UpdateTime,
	))
}
