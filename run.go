package iso

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title         string
	Width, Height int
	// ShowStats overlays the scene stats and TPS/FPS.
	ShowStats bool
	// Resizable lets the user resize the window; the scene viewport follows.
	Resizable bool
}

// Game adapts a Scene to ebiten.Game: input is polled and the scene ticked
// in Update, the draw list rendered in Draw, and window resizes forwarded
// to the scene viewport in Layout.
type Game struct {
	Scene    *Scene
	Renderer *Renderer
	Input    *InputPoller
	// Script, if set, replaces polled input until it is done.
	Script *InputScript
	// UpdateFunc, if set, runs every tick before the scene updates.
	UpdateFunc func() error
	// StatsHook, if set, receives the scene stats after every tick.
	StatsHook func(Stats)
	ShowStats bool

	items []DrawItem
}

// NewGame creates a Game drawing scene with textures.
func NewGame(scene *Scene, textures *TextureSet) *Game {
	return &Game{
		Scene:    scene,
		Renderer: NewRenderer(textures),
		Input:    NewInputPoller(),
	}
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if g.UpdateFunc != nil {
		if err := g.UpdateFunc(); err != nil {
			return err
		}
	}
	in, ok := InputState{}, false
	if g.Script != nil {
		in, ok = g.Script.Next()
	}
	if !ok {
		in = g.Input.Poll()
	}
	g.Scene.Tick(in)
	if g.StatsHook != nil {
		g.StatsHook(g.Scene.Stats())
	}
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	g.items = g.Scene.DrawList(g.items[:0])
	g.Renderer.Draw(screen, g.items)
	if g.ShowStats {
		g.Renderer.DrawStats(screen, g.Scene.Stats())
	}
}

// Layout implements ebiten.Game.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.Scene.SetViewportSize(float64(outsideWidth), float64(outsideHeight))
	return outsideWidth, outsideHeight
}

// Run opens a window and runs g until the window closes or Update fails.
func Run(g *Game, cfg RunConfig) error {
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	if cfg.Width > 0 && cfg.Height > 0 {
		ebiten.SetWindowSize(cfg.Width, cfg.Height)
	}
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	g.ShowStats = g.ShowStats || cfg.ShowStats
	g.Scene.SetTickRate(ebiten.TPS())
	return ebiten.RunGame(g)
}
