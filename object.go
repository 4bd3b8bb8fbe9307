package iso

import (
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
)

// Releaser is implemented by renderer handles that hold resources. Handles
// attached to objects and sprites are released when the object is removed
// from its scene or the scene is destroyed.
type Releaser interface {
	Release()
}

// Object is a positioned instance of a registered asset. It owns its sprites
// exclusively. Objects are moved only through Scene.MoveObject, which keeps
// the scene's spatial grid consistent.
type Object struct {
	id       string
	assetKey string
	position WorldPosition
	anchorX  float64
	anchorY  float64

	sprites []*Sprite          // descriptor order
	layers  map[string]*Sprite // by layer name

	// Handle is an opaque container-level renderer value.
	Handle any

	visible   bool
	destroyed bool
	cullFrame uint64 // last scene frame the object passed the cull
}

// NewObject builds an object from the asset registered under assetKey.
// It fails with ErrUnknownAsset when the key is not registered; the caller
// must not add anything to a scene in that case.
func NewObject(reg *AssetRegistry, id, assetKey string, pos WorldPosition) (*Object, error) {
	if reg == nil {
		return nil, fmt.Errorf("iso: object %q: nil asset registry", id)
	}
	desc, ok := reg.assets[assetKey]
	if !ok {
		return nil, fmt.Errorf("%w: %q (object %q)", ErrUnknownAsset, assetKey, id)
	}
	obj := &Object{
		id:       id,
		assetKey: assetKey,
		position: pos,
		sprites:  make([]*Sprite, 0, len(desc.Sprites)),
		layers:   make(map[string]*Sprite, len(desc.Sprites)),
	}
	obj.anchorX, obj.anchorY = desc.Anchor()
	for i, sd := range desc.Sprites {
		sp := newSprite(fmt.Sprintf("%s_sprite_%d", id, i), sd, obj)
		obj.sprites = append(obj.sprites, sp)
		obj.layers[sp.Layer] = sp
	}
	return obj, nil
}

// NewObjectID returns a random unique object id.
func NewObjectID() string {
	return uuid.NewString()
}

// ID returns the object's unique identity.
func (o *Object) ID() string { return o.id }

// AssetKey returns the key of the asset the object was built from.
func (o *Object) AssetKey() string { return o.assetKey }

// Position returns the object's world position.
func (o *Object) Position() WorldPosition { return o.position }

// Anchor returns the asset's sprite anchor.
func (o *Object) Anchor() (x, y float64) { return o.anchorX, o.anchorY }

// Visible reports whether the object passed the last frustum cull.
func (o *Object) Visible() bool { return o.visible }

// Destroyed reports whether the object has been removed from its scene.
func (o *Object) Destroyed() bool { return o.destroyed }

// setPosition moves the object and re-derives every sprite's placement.
// Unexported: callers go through Scene.MoveObject.
func (o *Object) setPosition(p WorldPosition) {
	o.position = p
	for _, sp := range o.sprites {
		sp.place(p)
	}
}

// Sprites returns the object's sprites in descriptor order. The returned
// slice MUST NOT be mutated.
func (o *Object) Sprites() []*Sprite {
	return o.sprites
}

// Sprite returns the sprite on the given layer.
func (o *Object) Sprite(layer string) (*Sprite, bool) {
	sp, ok := o.layers[layer]
	return sp, ok
}

// SpritesForSorting returns the sprites ordered by height, then sort
// priority. This is the order the sorter sees them in, so sort priority
// breaks ties between sprites of the same object at the same position.
func (o *Object) SpritesForSorting() []*Sprite {
	out := make([]*Sprite, len(o.sprites))
	copy(out, o.sprites)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Z != out[j].Z {
			return out[i].Z < out[j].Z
		}
		return out[i].SortPriority < out[j].SortPriority
	})
	return out
}

// Bounds returns the union of the sprites' ground-plane bounds. An object
// without sprites has a zero-size box at its position.
func (o *Object) Bounds() Rect {
	if len(o.sprites) == 0 {
		return Rect{X: o.position.X, Y: o.position.Y}
	}
	r := o.sprites[0].Bounds()
	for _, sp := range o.sprites[1:] {
		r = r.Union(sp.Bounds())
	}
	return r
}

// ZRange returns the union of the sprites' height ranges.
func (o *Object) ZRange() ZRange {
	if len(o.sprites) == 0 {
		return ZRange{Min: o.position.Z, Max: o.position.Z}
	}
	z := ZRange{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, sp := range o.sprites {
		r := sp.ZRange()
		z.Min = math.Min(z.Min, r.Min)
		z.Max = math.Max(z.Max, r.Max)
	}
	return z
}

// SpriteAt returns the first sprite whose volume contains the point.
func (o *Object) SpriteAt(x, y, z float64) (*Sprite, bool) {
	for _, sp := range o.sprites {
		if sp.contains(x, y, z) {
			return sp, true
		}
	}
	return nil, false
}

// destroy releases renderer handles and drops the sprites.
func (o *Object) destroy() {
	if o.destroyed {
		return
	}
	for _, sp := range o.sprites {
		if r, ok := sp.Handle.(Releaser); ok {
			r.Release()
		}
		sp.Handle = nil
		sp.DrawIndex = -1
		sp.Visible = false
	}
	if r, ok := o.Handle.(Releaser); ok {
		r.Release()
	}
	o.Handle = nil
	o.sprites = nil
	o.layers = nil
	o.visible = false
	o.destroyed = true
}
