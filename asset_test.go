package iso

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubResolver accepts only the listed keys and records every lookup.
type stubResolver struct {
	known    map[string]bool
	resolved []string
}

func (r *stubResolver) ResolveTexture(key string) error {
	r.resolved = append(r.resolved, key)
	if !r.known[key] {
		return ErrUnknownTexture
	}
	return nil
}

func boxAsset() AssetDescriptor {
	return AssetDescriptor{Sprites: []SpriteDescriptor{
		{TextureKey: "block", Width: 1, Height: 1, Depth: 1, Layer: "base"},
	}}
}

func towerAsset() AssetDescriptor {
	return AssetDescriptor{Sprites: []SpriteDescriptor{
		{TextureKey: "trunk", Width: 1, Height: 1, Depth: 2, Layer: "trunk", SortPriority: 1},
		{TextureKey: "crown", OffsetX: -1, OffsetY: -1, OffsetZ: 2, Width: 3, Height: 3, Depth: 2, Layer: "crown"},
	}}
}

func TestRegisterAndLookup(t *testing.T) {
	reg := NewAssetRegistry(nil)
	require.NoError(t, reg.Register("box", boxAsset()))

	d, ok := reg.Lookup("box")
	require.True(t, ok)
	assert.Equal(t, "block", d.Sprites[0].TextureKey)
	assert.True(t, reg.Has("box"))
	assert.Equal(t, 1, reg.Len())

	// Lookup returns a copy.
	d.Sprites[0].TextureKey = "changed"
	d2, _ := reg.Lookup("box")
	assert.Equal(t, "block", d2.Sprites[0].TextureKey)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	reg := NewAssetRegistry(nil)
	require.NoError(t, reg.Register("box", boxAsset()))
	err := reg.Register("box", towerAsset())
	assert.True(t, errors.Is(err, ErrDuplicateAsset))

	d, _ := reg.Lookup("box")
	assert.Len(t, d.Sprites, 1, "duplicate registration must not overwrite")
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name string
		desc AssetDescriptor
	}{
		{"no sprites", AssetDescriptor{}},
		{"negative size", AssetDescriptor{Sprites: []SpriteDescriptor{{Width: -1}}}},
		{"duplicate layer", AssetDescriptor{Sprites: []SpriteDescriptor{{Layer: "a"}, {Layer: "a"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewAssetRegistry(nil).Register("x", tt.desc)
			assert.ErrorIs(t, err, ErrInvalidAsset)
		})
	}
	assert.ErrorIs(t, NewAssetRegistry(nil).Register("", boxAsset()), ErrInvalidAsset)
}

func TestRegisterDefaultsLayerNames(t *testing.T) {
	reg := NewAssetRegistry(nil)
	require.NoError(t, reg.Register("pair", AssetDescriptor{Sprites: []SpriteDescriptor{
		{TextureKey: "a"}, {TextureKey: "b"},
	}}))
	d, _ := reg.Lookup("pair")
	assert.Equal(t, "sprite_0", d.Sprites[0].Layer)
	assert.Equal(t, "sprite_1", d.Sprites[1].Layer)
}

func TestRegisterResolvesTexturesFirst(t *testing.T) {
	res := &stubResolver{known: map[string]bool{"trunk": true}}
	reg := NewAssetRegistry(res)

	err := reg.Register("tower", towerAsset())
	assert.ErrorIs(t, err, ErrUnknownTexture)
	assert.False(t, reg.Has("tower"), "asset must not be visible when a texture fails")

	res.known["crown"] = true
	require.NoError(t, reg.Register("tower", towerAsset()))
	assert.Equal(t, []string{"trunk", "crown", "trunk", "crown"}, res.resolved)
}

func TestAnchorDefaults(t *testing.T) {
	x, y := boxAsset().Anchor()
	assert.Equal(t, 0.5, x)
	assert.Equal(t, 0.5, y)

	ax := 0.25
	x, y = AssetDescriptor{AnchorX: &ax}.Anchor()
	assert.Equal(t, 0.25, x)
	assert.Equal(t, 0.5, y)
}

func TestLoadAssetManifest(t *testing.T) {
	data := []byte(`
box:
  sprites:
    - texture: block
      width: 1
      height: 1
      depth: 1
      layer: base
tree:
  anchorY: 0.9
  sprites:
    - texture: trunk
      width: 1
      height: 1
      depth: 2
    - texture: crown
      offsetX: -1
      offsetY: -1
      offsetZ: 2
      width: 3
      height: 3
      depth: 2
      sortPriority: 2
`)
	m, err := LoadAssetManifest(data)
	require.NoError(t, err)
	require.Len(t, m, 2)
	assert.Equal(t, 2.0, m["tree"].Sprites[1].OffsetZ)
	assert.Equal(t, 2, m["tree"].Sprites[1].SortPriority)

	reg := NewAssetRegistry(nil)
	require.NoError(t, reg.RegisterManifest(m))
	assert.Equal(t, []string{"box", "tree"}, reg.Keys())
	_, ay := m["tree"].Anchor()
	assert.Equal(t, 0.9, ay)

	_, err = LoadAssetManifest([]byte("box: [not, a, map"))
	assert.Error(t, err)
}
