package iso

// Sprite is one drawable part of an Object. Its world position is always the
// owning object's position plus the fixed offset from its descriptor; it is
// never set independently.
type Sprite struct {
	// ID is "<objectID>_sprite_<index>".
	ID           string
	Layer        string
	TextureKey   string
	SortPriority int

	// World-space placement, derived from the parent object.
	X, Y, Z              float64
	Width, Height, Depth float64

	// DrawIndex is the sprite's position in the last resolved draw order,
	// or -1 when it was not part of it.
	DrawIndex int
	// Visible is the per-sprite draw flag toggled by level of detail.
	Visible bool

	// Handle is an opaque renderer-owned value. If it implements Releaser it
	// is released when the object is removed from its scene.
	Handle any

	object  *Object
	offsetX float64
	offsetY float64
	offsetZ float64
}

func newSprite(id string, d SpriteDescriptor, obj *Object) *Sprite {
	sp := &Sprite{
		ID:           id,
		Layer:        d.Layer,
		TextureKey:   d.TextureKey,
		SortPriority: d.SortPriority,
		Width:        d.Width,
		Height:       d.Height,
		Depth:        d.Depth,
		DrawIndex:    -1,
		Visible:      true,
		object:       obj,
		offsetX:      d.OffsetX,
		offsetY:      d.OffsetY,
		offsetZ:      d.OffsetZ,
	}
	sp.place(obj.position)
	return sp
}

// place recomputes the sprite's world position from its parent's position.
func (sp *Sprite) place(p WorldPosition) {
	sp.X = p.X + sp.offsetX
	sp.Y = p.Y + sp.offsetY
	sp.Z = p.Z + sp.offsetZ
}

// Object returns the owning object.
func (sp *Sprite) Object() *Object {
	return sp.object
}

// Offset returns the sprite's fixed offset from its object's position.
func (sp *Sprite) Offset() WorldPosition {
	return WorldPosition{sp.offsetX, sp.offsetY, sp.offsetZ}
}

// Bounds returns the sprite's ground-plane bounding box.
func (sp *Sprite) Bounds() Rect {
	return Rect{X: sp.X, Y: sp.Y, Width: sp.Width, Height: sp.Height}
}

// ZRange returns [Z, Z+Depth).
func (sp *Sprite) ZRange() ZRange {
	return ZRange{Min: sp.Z, Max: sp.Z + sp.Depth}
}

// ScreenPosition returns the sprite's projected position before camera
// offset and zoom.
func (sp *Sprite) ScreenPosition() Vec2 {
	return WorldToScreen(sp.X, sp.Y, sp.Z)
}

// contains reports whether the point lies in the sprite's half-open volume.
func (sp *Sprite) contains(x, y, z float64) bool {
	return x >= sp.X && x < sp.X+sp.Width &&
		y >= sp.Y && y < sp.Y+sp.Height &&
		sp.ZRange().Contains(z)
}
