package iso

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrDuplicateObject is returned by SpawnObject when the id is taken.
var ErrDuplicateObject = errors.New("iso: duplicate object id")

const defaultTickSeconds = float32(1.0 / 60)

// DrawItem is one sprite ready to draw: its place in the draw order, its
// viewport position, and the zoom scale to draw it at.
type DrawItem struct {
	Sprite *Sprite
	// Index is the sprite's position in the resolved draw order. Items
	// returned by DrawList are in ascending Index.
	Index int
	// X and Y are the sprite's viewport position in pixels.
	X, Y  float64
	Scale float64
	// AnchorX and AnchorY are the owning asset's anchor.
	AnchorX, AnchorY float64
}

// Scene owns the objects of one isometric world and turns them into a draw
// order each tick: viewport refresh, frustum cull, depth sort, level of
// detail. Scenes are not safe for concurrent use.
type Scene struct {
	cfg      SceneConfig
	registry *AssetRegistry
	log      logrus.FieldLogger
	debug    bool

	objects map[string]*Object
	grid    *SpatialGrid
	camera  *Camera
	rule    DepthRule

	viewport            Rect
	needsViewportUpdate bool
	needsResort         bool
	tickSeconds         float32

	frame   uint64
	visible []*Object
	sprites []*Sprite // sort input scratch
	order   []*Sprite

	stats     Stats
	destroyed bool
}

// NewScene creates an empty scene. A nil registry gets an empty one with no
// texture resolver.
func NewScene(cfg SceneConfig, registry *AssetRegistry) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if registry == nil {
		registry = NewAssetRegistry(nil)
	}
	s := &Scene{
		cfg:                 cfg,
		registry:            registry,
		log:                 defaultLogger,
		debug:               cfg.Debug,
		objects:             make(map[string]*Object),
		grid:                NewSpatialGrid(cfg.WorldWidth, cfg.WorldHeight, cfg.CellSize),
		camera:              NewCamera(cfg.Camera, cfg.ViewportWidth, cfg.ViewportHeight),
		rule:                ByPosition,
		needsViewportUpdate: true,
		tickSeconds:         defaultTickSeconds,
	}
	s.camera.OnMove(func() { s.needsViewportUpdate = true })
	return s, nil
}

// Config returns the scene's configuration with the current toggles.
func (s *Scene) Config() SceneConfig { return s.cfg }

// Registry returns the asset registry objects are built from.
func (s *Scene) Registry() *AssetRegistry { return s.registry }

// Camera returns the scene's camera.
func (s *Scene) Camera() *Camera { return s.camera }

// SetLogger replaces the scene's logger. Nil restores the package default.
func (s *Scene) SetLogger(l logrus.FieldLogger) {
	if l == nil {
		l = defaultLogger
	}
	s.log = l
}

// SetDebugMode enables per-update debug logging of stats and timings.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	s.cfg.Debug = enabled
}

// SetTickRate sets the ticks per second used to advance camera animations
// in Tick.
func (s *Scene) SetTickRate(tps int) {
	if tps > 0 {
		s.tickSeconds = 1 / float32(tps)
	}
}

// AddObject adds obj to the scene. An object whose id is already present is
// rejected with a warning and the scene is left unchanged.
func (s *Scene) AddObject(obj *Object) bool {
	if obj == nil || obj.destroyed || s.destroyed {
		return false
	}
	if _, dup := s.objects[obj.id]; dup {
		s.log.WithField("object", obj.id).Warn("iso: object already in scene")
		return false
	}
	s.objects[obj.id] = obj
	s.grid.AddObject(obj)
	s.needsResort = true
	return true
}

// SpawnObject builds an object from a registered asset and adds it.
func (s *Scene) SpawnObject(id, assetKey string, pos WorldPosition) (*Object, error) {
	if _, dup := s.objects[id]; dup {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateObject, id)
	}
	obj, err := NewObject(s.registry, id, assetKey, pos)
	if err != nil {
		return nil, err
	}
	if !s.AddObject(obj) {
		return nil, fmt.Errorf("iso: object %q not added", id)
	}
	return obj, nil
}

// RemoveObject removes the object with the given id and releases its
// renderer handles. Unknown ids are ignored.
func (s *Scene) RemoveObject(id string) {
	obj, ok := s.objects[id]
	if !ok {
		return
	}
	s.grid.RemoveObject(obj)
	delete(s.objects, id)
	obj.destroy()
	s.needsResort = true
}

// GetObject returns the object with the given id.
func (s *Scene) GetObject(id string) (*Object, bool) {
	obj, ok := s.objects[id]
	return obj, ok
}

// MoveObject moves an object and reindexes it. Unknown ids are ignored.
func (s *Scene) MoveObject(id string, pos WorldPosition) {
	obj, ok := s.objects[id]
	if !ok {
		return
	}
	s.grid.UpdateObject(obj, pos)
	s.needsResort = true
}

// Len returns the number of objects in the scene.
func (s *Scene) Len() int { return len(s.objects) }

// Objects returns every object sorted by id.
func (s *Scene) Objects() []*Object {
	out := make([]*Object, 0, len(s.objects))
	for _, obj := range s.objects {
		out = append(out, obj)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// GetObjectsInArea returns the objects whose bounds intersect area, edges
// included, in insertion order.
func (s *Scene) GetObjectsInArea(area Rect) []*Object {
	cands := s.grid.GetObjectsInBounds(area)
	out := cands[:0]
	for _, obj := range cands {
		if obj.Bounds().Intersects(area) {
			out = append(out, obj)
		}
	}
	return out
}

// GetObjectAt returns the object under the ground point (x, y). When several
// overlap, the one reaching highest wins; ties go to the earliest added.
func (s *Scene) GetObjectAt(x, y float64) (*Object, bool) {
	var best *Object
	bestTop := 0.0
	for _, obj := range s.GetObjectsInArea(Rect{X: x, Y: y}) {
		top := obj.ZRange().Max
		if best == nil || top > bestTop {
			best, bestTop = obj, top
		}
	}
	return best, best != nil
}

// SetCameraPosition moves the camera immediately.
func (s *Scene) SetCameraPosition(x, y float64) { s.camera.SetPosition(x, y) }

// SetCameraZoom sets the camera zoom immediately.
func (s *Scene) SetCameraZoom(z float64) { s.camera.SetZoom(z) }

// SetViewportSize resizes the viewport, e.g. after a window resize.
func (s *Scene) SetViewportSize(w, h float64) {
	s.cfg.ViewportWidth, s.cfg.ViewportHeight = w, h
	s.camera.SetViewportSize(w, h)
}

// Viewport returns the world rectangle used by the last cull.
func (s *Scene) Viewport() Rect { return s.viewport }

// SetMaxVisibleSprites caps the draw order length. Zero means no cap.
func (s *Scene) SetMaxVisibleSprites(n int) {
	if n < 0 {
		n = 0
	}
	s.cfg.MaxVisibleSprites = n
	s.needsResort = true
}

// SetSortingEnabled toggles depth sorting. While disabled the draw order is
// the visible sprites in object insertion order.
func (s *Scene) SetSortingEnabled(enabled bool) {
	s.cfg.SortingEnabled = enabled
	s.needsResort = true
}

// SetFrustumCullingEnabled toggles culling. While disabled every object is
// visible.
func (s *Scene) SetFrustumCullingEnabled(enabled bool) {
	s.cfg.FrustumCullingEnabled = enabled
}

// SetLODEnabled toggles level of detail. While disabled every sprite of a
// visible object is drawn.
func (s *Scene) SetLODEnabled(enabled bool) {
	s.cfg.LODEnabled = enabled
}

// SetDepthRule replaces the rule deciding which of two overlapping sprites
// is drawn first. Nil restores ByPosition.
func (s *Scene) SetDepthRule(rule DepthRule) {
	if rule == nil {
		rule = ByPosition
	}
	s.rule = rule
	s.needsResort = true
}

// ForceResort makes the next update rebuild the draw order.
func (s *Scene) ForceResort() { s.needsResort = true }

// ForceViewportUpdate makes the next update recompute the viewport.
func (s *Scene) ForceViewportUpdate() { s.needsViewportUpdate = true }

// Stats returns a snapshot of the scene's counters and last-update timings.
func (s *Scene) Stats() Stats {
	st := s.stats
	st.TotalObjects = len(s.objects)
	st.TotalSprites = 0
	for _, obj := range s.objects {
		st.TotalSprites += len(obj.sprites)
	}
	return st
}

// Tick applies one tick of input to the camera, then updates the scene.
func (s *Scene) Tick(in InputState) {
	if s.destroyed {
		return
	}
	s.camera.Update(in, s.tickSeconds)
	s.Update()
}

// Update runs the per-tick pipeline: refresh the viewport if the camera
// moved, cull, resort if anything relevant changed, then apply level of
// detail.
func (s *Scene) Update() {
	if s.destroyed {
		return
	}
	start := time.Now()

	if s.needsViewportUpdate || s.camera.Dirty() {
		s.viewport = s.camera.VisibleBounds(s.cfg.ViewportMargin)
		s.needsViewportUpdate = false
		s.camera.ClearDirty()
	}

	t := time.Now()
	s.cull()
	s.stats.CullTime = time.Since(t)

	if s.needsResort {
		s.resort()
		s.needsResort = false
	}

	t = time.Now()
	s.applyLOD()
	s.stats.LODTime = time.Since(t)

	s.stats.UpdateTime = time.Since(start)
	s.debugLog()
}

// cull rebuilds the visible-object list and flags a resort when the set
// changed.
func (s *Scene) cull() {
	s.frame++
	s.visible = s.visible[:0]
	if s.cfg.FrustumCullingEnabled {
		for _, obj := range s.grid.GetObjectsInBounds(s.viewport) {
			if obj.Bounds().Intersects(s.viewport) {
				s.visible = append(s.visible, obj)
			}
		}
	} else {
		s.visible = append(s.visible, s.grid.Objects()...)
	}

	sprites := 0
	for _, obj := range s.visible {
		obj.cullFrame = s.frame
		sprites += len(obj.sprites)
	}
	for _, obj := range s.objects {
		vis := obj.cullFrame == s.frame
		if vis != obj.visible {
			obj.visible = vis
			s.needsResort = true
		}
	}
	s.stats.VisibleObjects = len(s.visible)
	s.stats.VisibleSprites = sprites
}

// resort rebuilds the draw order from the visible objects' sprites.
func (s *Scene) resort() {
	for _, sp := range s.order {
		sp.DrawIndex = -1
	}

	s.sprites = s.sprites[:0]
	for _, obj := range s.visible {
		s.sprites = append(s.sprites, obj.SpritesForSorting()...)
	}

	var order []*Sprite
	if s.cfg.SortingEnabled {
		t := time.Now()
		res := SortSprites(s.sprites, SortOptions{
			Rule:             s.rule,
			QuadtreeCapacity: s.cfg.QuadtreeCapacity,
			QuadtreeMaxDepth: s.cfg.QuadtreeMaxDepth,
			Logger:           s.log,
		})
		s.stats.SortTime = time.Since(t)
		s.stats.Edges = res.Edges
		s.stats.Cycles = res.Cycles
		order = res.Order
	} else {
		order = make([]*Sprite, len(s.sprites))
		copy(order, s.sprites)
		s.stats.SortTime = 0
		s.stats.Edges = 0
		s.stats.Cycles = 0
	}

	if limit := s.cfg.MaxVisibleSprites; limit > 0 && len(order) > limit {
		order = order[:limit]
	}
	for i, sp := range order {
		sp.DrawIndex = i
	}
	s.order = order
	s.stats.SortedSprites = len(order)
}

// DrawOrder returns the current draw order, back to front. The returned
// slice MUST NOT be mutated.
func (s *Scene) DrawOrder() []*Sprite {
	return s.order
}

// DrawList appends the sprites to draw this frame to dst: the draw order
// minus sprites hidden by level of detail, each with its viewport position
// at the current camera.
func (s *Scene) DrawList(dst []DrawItem) []DrawItem {
	zoom := s.camera.Zoom()
	for _, sp := range s.order {
		obj := sp.object
		if obj.destroyed || !obj.visible || !sp.Visible || sp.DrawIndex < 0 {
			continue
		}
		p := s.camera.WorldToScreen(sp.X, sp.Y, sp.Z)
		dst = append(dst, DrawItem{
			Sprite:  sp,
			Index:   sp.DrawIndex,
			X:       p.X,
			Y:       p.Y,
			Scale:   zoom,
			AnchorX: obj.anchorX,
			AnchorY: obj.anchorY,
		})
	}
	return dst
}

// Destroy removes every object, releasing renderer handles, and detaches
// the camera observer. The scene does nothing afterwards.
func (s *Scene) Destroy() {
	if s.destroyed {
		return
	}
	for _, obj := range s.objects {
		obj.destroy()
	}
	clear(s.objects)
	s.grid.Clear()
	s.visible = nil
	s.sprites = nil
	s.order = nil
	s.camera.OnMove(nil)
	s.destroyed = true
}
