package iso

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownAsset is returned when an object references an asset key
	// that has not been registered.
	ErrUnknownAsset = errors.New("iso: unknown asset")
	// ErrDuplicateAsset is returned when registering a key twice.
	ErrDuplicateAsset = errors.New("iso: asset already registered")
	// ErrInvalidAsset is returned for descriptors that fail validation.
	ErrInvalidAsset = errors.New("iso: invalid asset descriptor")
)

// defaultAnchor is used for AnchorX/AnchorY when a descriptor leaves them unset.
const defaultAnchor = 0.5

// SpriteDescriptor describes one sprite of an asset: its texture, its offset
// from the owning object's position, and its world-space size.
type SpriteDescriptor struct {
	TextureKey string  `yaml:"texture"`
	OffsetX    float64 `yaml:"offsetX"`
	OffsetY    float64 `yaml:"offsetY"`
	OffsetZ    float64 `yaml:"offsetZ"`
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	Depth      float64 `yaml:"depth"`
	// Layer names the sprite within its object (e.g. "body", "head").
	// Defaults to "sprite_<index>".
	Layer string `yaml:"layer,omitempty"`
	// SortPriority breaks ties between sprites of the same object and gates
	// level-of-detail visibility. Higher values are more important.
	SortPriority int `yaml:"sortPriority,omitempty"`
}

// AssetDescriptor is the immutable definition of an object kind.
type AssetDescriptor struct {
	Sprites []SpriteDescriptor `yaml:"sprites"`
	// AnchorX and AnchorY position sprite images relative to their projected
	// point, as a fraction of image size. Nil means 0.5.
	AnchorX *float64 `yaml:"anchorX,omitempty"`
	AnchorY *float64 `yaml:"anchorY,omitempty"`
}

// Anchor returns the effective anchor, applying defaults.
func (d AssetDescriptor) Anchor() (x, y float64) {
	x, y = defaultAnchor, defaultAnchor
	if d.AnchorX != nil {
		x = *d.AnchorX
	}
	if d.AnchorY != nil {
		y = *d.AnchorY
	}
	return x, y
}

func (d AssetDescriptor) clone() AssetDescriptor {
	out := AssetDescriptor{Sprites: make([]SpriteDescriptor, len(d.Sprites))}
	copy(out.Sprites, d.Sprites)
	if d.AnchorX != nil {
		v := *d.AnchorX
		out.AnchorX = &v
	}
	if d.AnchorY != nil {
		v := *d.AnchorY
		out.AnchorY = &v
	}
	return out
}

// TextureResolver resolves texture keys before an asset is registered.
// A resolver typically loads or looks up the image backing the key.
type TextureResolver interface {
	ResolveTexture(key string) error
}

// AssetRegistry holds the asset descriptors objects are built from. It is an
// explicit value owned by whoever constructs objects; there is no global
// registry.
type AssetRegistry struct {
	resolver TextureResolver
	assets   map[string]AssetDescriptor
}

// NewAssetRegistry creates an empty registry. resolver may be nil, in which
// case texture keys are accepted as-is.
func NewAssetRegistry(resolver TextureResolver) *AssetRegistry {
	return &AssetRegistry{
		resolver: resolver,
		assets:   make(map[string]AssetDescriptor),
	}
}

// Register validates desc, resolves its textures, and stores a copy under
// key. The asset is only visible to Lookup once every texture resolved.
func (r *AssetRegistry) Register(key string, desc AssetDescriptor) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidAsset)
	}
	if _, ok := r.assets[key]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateAsset, key)
	}
	d := desc.clone()
	if err := validateAsset(key, &d); err != nil {
		return err
	}
	if r.resolver != nil {
		for _, sd := range d.Sprites {
			if err := r.resolver.ResolveTexture(sd.TextureKey); err != nil {
				return fmt.Errorf("iso: asset %q: resolve texture %q: %w", key, sd.TextureKey, err)
			}
		}
	}
	r.assets[key] = d
	return nil
}

// validateAsset checks sizes and fills in default layer names.
func validateAsset(key string, d *AssetDescriptor) error {
	if len(d.Sprites) == 0 {
		return fmt.Errorf("%w: %q has no sprites", ErrInvalidAsset, key)
	}
	layers := make(map[string]struct{}, len(d.Sprites))
	for i := range d.Sprites {
		sd := &d.Sprites[i]
		if sd.Layer == "" {
			sd.Layer = fmt.Sprintf("sprite_%d", i)
		}
		if _, dup := layers[sd.Layer]; dup {
			return fmt.Errorf("%w: %q has duplicate layer %q", ErrInvalidAsset, key, sd.Layer)
		}
		layers[sd.Layer] = struct{}{}
		for _, v := range [...]float64{sd.OffsetX, sd.OffsetY, sd.OffsetZ, sd.Width, sd.Height, sd.Depth} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: %q sprite %q has non-finite geometry", ErrInvalidAsset, key, sd.Layer)
			}
		}
		if sd.Width < 0 || sd.Height < 0 || sd.Depth < 0 {
			return fmt.Errorf("%w: %q sprite %q has negative size", ErrInvalidAsset, key, sd.Layer)
		}
	}
	return nil
}

// Lookup returns a copy of the descriptor registered under key.
func (r *AssetRegistry) Lookup(key string) (AssetDescriptor, bool) {
	d, ok := r.assets[key]
	if !ok {
		return AssetDescriptor{}, false
	}
	return d.clone(), true
}

// Has reports whether key is registered.
func (r *AssetRegistry) Has(key string) bool {
	_, ok := r.assets[key]
	return ok
}

// Keys returns the registered keys in sorted order.
func (r *AssetRegistry) Keys() []string {
	keys := make([]string, 0, len(r.assets))
	for k := range r.assets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of registered assets.
func (r *AssetRegistry) Len() int {
	return len(r.assets)
}

// AssetManifest is a set of asset descriptors keyed by asset key, as loaded
// from a YAML manifest.
type AssetManifest map[string]AssetDescriptor

// LoadAssetManifest parses a YAML manifest of the form:
//
//	box:
//	  sprites:
//	    - texture: assets/block.png
//	      width: 1
//	      height: 1
//	      depth: 1
//	      layer: base
func LoadAssetManifest(data []byte) (AssetManifest, error) {
	var m AssetManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("iso: parse asset manifest: %w", err)
	}
	return m, nil
}

// RegisterManifest registers every asset in m in key order. It stops at the
// first failure; assets registered before the failure stay registered.
func (r *AssetRegistry) RegisterManifest(m AssetManifest) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := r.Register(k, m[k]); err != nil {
			return err
		}
	}
	return nil
}
