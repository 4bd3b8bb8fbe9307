package iso

import (
	"image/color"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus/hooks/test"
)

func newRenderScene(t *testing.T) (*Scene, *TextureSet) {
	t.Helper()
	ts := NewTextureSet()
	ts.AddSolid("block", 64, 64, color.White)
	reg := NewAssetRegistry(ts)
	if err := reg.Register("box", AssetDescriptor{Sprites: []SpriteDescriptor{
		{TextureKey: "block", Width: 1, Height: 1, Depth: 1},
	}}); err != nil {
		t.Fatal(err)
	}
	s, err := NewScene(DefaultSceneConfig(), reg)
	if err != nil {
		t.Fatal(err)
	}
	return s, ts
}

func TestRendererDrawsDrawList(t *testing.T) {
	s, ts := newRenderScene(t)
	for i := 0; i < 5; i++ {
		if _, err := s.SpawnObject(NewObjectID(), "box", WorldPosition{X: float64(i)}); err != nil {
			t.Fatal(err)
		}
	}
	s.Update()

	logger, hook := test.NewNullLogger()
	ts.SetLogger(logger)
	r := NewRenderer(ts)
	screen := ebiten.NewImage(1280, 720)
	items := s.DrawList(nil)
	if len(items) != 5 {
		t.Fatalf("len(items) = %d, want 5", len(items))
	}
	r.Draw(screen, items)
	if len(hook.AllEntries()) != 0 {
		t.Errorf("renderer logged %v", hook.AllEntries())
	}
}

func TestGameLayoutResizesViewport(t *testing.T) {
	s, ts := newRenderScene(t)
	g := NewGame(s, ts)
	w, h := g.Layout(640, 320)
	if w != 640 || h != 320 {
		t.Errorf("Layout = %d x %d", w, h)
	}
	if vw, vh := s.Camera().ViewportSize(); vw != 640 || vh != 320 {
		t.Errorf("camera viewport = %v x %v", vw, vh)
	}
	if cfg := s.Config(); cfg.ViewportWidth != 640 || cfg.ViewportHeight != 320 {
		t.Errorf("config viewport = %v x %v", cfg.ViewportWidth, cfg.ViewportHeight)
	}
}

func TestGameUpdateReplaysScript(t *testing.T) {
	s, ts := newRenderScene(t)
	g := NewGame(s, ts)
	script, err := LoadInputScript([]byte(`{"steps": [{"action": "pan", "keys": ["left"], "frames": 3}]}`))
	if err != nil {
		t.Fatal(err)
	}
	g.Script = script

	var seen []Stats
	g.StatsHook = func(st Stats) { seen = append(seen, st) }
	if _, err := s.SpawnObject("a", "box", WorldPosition{}); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if err := g.Update(); err != nil {
			t.Fatal(err)
		}
	}
	if len(seen) != 3 || seen[2].VisibleObjects != 1 {
		t.Errorf("stats hook saw %+v", seen)
	}
	tx, ty := s.Camera().Target()
	if tx >= 0 || ty <= 0 {
		t.Errorf("left pan target = (%v,%v)", tx, ty)
	}

	g.Draw(ebiten.NewImage(320, 240))
}
