package iso

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"
)

// ErrUnknownTexture is returned by TextureSet.ResolveTexture for keys that
// were never added.
var ErrUnknownTexture = errors.New("iso: unknown texture")

// Texture is a drawable image plus the atlas trim and rotation it was
// packed with.
type Texture struct {
	Image *ebiten.Image
	// Rotated is true when the image is stored 90 degrees clockwise.
	Rotated bool
	// OffsetX and OffsetY are the trim offset inside the untrimmed frame.
	OffsetX, OffsetY float64
}

// TextureSet maps texture keys to images. It implements TextureResolver so
// an AssetRegistry can check texture keys at registration.
type TextureSet struct {
	textures map[string]Texture
	log      logrus.FieldLogger
}

// NewTextureSet creates an empty set.
func NewTextureSet() *TextureSet {
	return &TextureSet{
		textures: make(map[string]Texture),
		log:      defaultLogger,
	}
}

// SetLogger replaces the logger used for missing-texture warnings.
func (t *TextureSet) SetLogger(l logrus.FieldLogger) {
	if l == nil {
		l = defaultLogger
	}
	t.log = l
}

// Add registers img under key, replacing any previous image.
func (t *TextureSet) Add(key string, img *ebiten.Image) {
	t.textures[key] = Texture{Image: img}
}

// AddSolid registers a w by h image filled with c.
func (t *TextureSet) AddSolid(key string, w, h int, c color.Color) {
	img := ebiten.NewImage(w, h)
	img.Fill(c)
	t.Add(key, img)
}

// Has reports whether key is present.
func (t *TextureSet) Has(key string) bool {
	_, ok := t.textures[key]
	return ok
}

// Len returns the number of textures.
func (t *TextureSet) Len() int { return len(t.textures) }

// Keys returns every texture key, sorted.
func (t *TextureSet) Keys() []string {
	keys := make([]string, 0, len(t.textures))
	for k := range t.textures {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ResolveTexture reports ErrUnknownTexture for keys not in the set.
func (t *TextureSet) ResolveTexture(key string) error {
	if _, ok := t.textures[key]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTexture, key)
	}
	return nil
}

// Texture returns the texture for key. Missing keys log a warning and
// return a 1x1 magenta placeholder.
func (t *TextureSet) Texture(key string) Texture {
	if tex, ok := t.textures[key]; ok {
		return tex
	}
	t.log.WithField("texture", key).Warn("iso: texture not found, using magenta placeholder")
	return Texture{Image: ensureMagentaImage()}
}

var magentaImage *ebiten.Image

func ensureMagentaImage() *ebiten.Image {
	if magentaImage == nil {
		magentaImage = ebiten.NewImage(1, 1)
		magentaImage.Fill(color.RGBA{R: 255, G: 0, B: 255, A: 255})
	}
	return magentaImage
}

// TexturePacker JSON.

type atlasRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type atlasFrame struct {
	Frame            atlasRect `json:"frame"`
	Rotated          bool      `json:"rotated"`
	Trimmed          bool      `json:"trimmed"`
	SpriteSourceSize atlasRect `json:"spriteSourceSize"`
}

type atlasPage struct {
	Image  string                `json:"image"`
	Frames map[string]atlasFrame `json:"frames"`
}

// LoadAtlas reads TexturePacker JSON and adds one sub-image texture per
// frame, keyed by frame name. Both the hash format (a single "frames"
// object) and the multi-page array format ("textures") are accepted; pages
// are indexed in the order they appear.
func (t *TextureSet) LoadAtlas(jsonData []byte, pages []*ebiten.Image) error {
	var probe struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
	}
	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return fmt.Errorf("iso: parse atlas JSON: %w", err)
	}

	var atlas []atlasPage
	switch {
	case probe.Textures != nil:
		if err := json.Unmarshal(probe.Textures, &atlas); err != nil {
			return fmt.Errorf("iso: parse atlas textures: %w", err)
		}
	case probe.Frames != nil:
		var frames map[string]atlasFrame
		if err := json.Unmarshal(probe.Frames, &frames); err != nil {
			return fmt.Errorf("iso: parse atlas frames: %w", err)
		}
		atlas = []atlasPage{{Frames: frames}}
	default:
		return errors.New("iso: atlas JSON has neither \"frames\" nor \"textures\" key")
	}

	if len(atlas) > len(pages) {
		return fmt.Errorf("iso: atlas has %d pages, got %d images", len(atlas), len(pages))
	}
	for i, page := range atlas {
		for name, f := range page.Frames {
			r := image.Rect(f.Frame.X, f.Frame.Y, f.Frame.X+f.Frame.W, f.Frame.Y+f.Frame.H)
			t.textures[name] = Texture{
				Image:   pages[i].SubImage(r).(*ebiten.Image),
				Rotated: f.Rotated,
				OffsetX: float64(f.SpriteSourceSize.X),
				OffsetY: float64(f.SpriteSourceSize.Y),
			}
		}
	}
	return nil
}
