// Package iso is an isometric scene engine for [Ebitengine].
//
// It keeps a set of world objects, each built from a registered asset of
// one or more sprites, and every tick turns them into a back-to-front draw
// order: the camera eases toward its input-driven target, objects outside
// the viewport are culled through a uniform spatial grid, the visible
// sprites are depth sorted by an occlusion graph, and level of detail hides
// low-priority sprites when zoomed out.
//
// # Quick start
//
//	textures := iso.NewTextureSet()
//	textures.AddSolid("box", 64, 64, color.White)
//
//	reg := iso.NewAssetRegistry(textures)
//	reg.Register("box", iso.AssetDescriptor{Sprites: []iso.SpriteDescriptor{
//		{TextureKey: "box", Width: 1, Height: 1, Depth: 1},
//	}})
//
//	scene, _ := iso.NewScene(iso.DefaultSceneConfig(), reg)
//	scene.SpawnObject("box_0", "box", iso.WorldPosition{X: 3, Y: 4})
//
//	iso.Run(iso.NewGame(scene, textures), iso.RunConfig{
//		Title: "Boxes", Width: 1280, Height: 720,
//	})
//
// For full control, implement [ebiten.Game] yourself: call [Scene.Tick]
// with an [InputState] in Update and draw [Scene.DrawList] in Draw.
//
// # Coordinates
//
// World space has X and Y on the ground plane and Z up. [WorldToScreen]
// projects with a 2:1 diamond tile of [TileSize] pixels; [ScreenToWorld]
// inverts it for a given height. The tile size may be set once, before
// anything is projected, with [SetTileSize].
//
// # Draw order
//
// Two sprites are ordered only when their ground rectangles and height
// ranges overlap. The [DepthRule] decides which is drawn first; the
// default, [ByPosition], compares (Y, X, Z). If a custom rule produces a
// cycle the affected sprites are appended and a warning is logged.
//
// [Ebitengine]: https://ebitengine.org
package iso
