package iso

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Settling thresholds: once current is this close to target it snaps there
// and the camera stops reporting movement.
const (
	positionEpsilon = 0.01
	zoomEpsilon     = 0.001
)

// scrollAnim holds active scroll-to tweens for the target X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera tracks a target position and zoom set from input and eases the
// current position and zoom toward them every tick. Position is in world
// units on the ground plane; the camera centers that point on screen.
//
// Any change to the current position, zoom, or viewport size marks the
// camera dirty and notifies the OnMove observer. The camera never
// recomputes anything for the scene itself.
type Camera struct {
	x, y, zoom                   float64
	targetX, targetY, targetZoom float64

	cfg                       CameraConfig
	viewportW, viewportH      float64
	dirty                     bool
	onMove                    func()
	scrollTween               *scrollAnim
	viewMatrix, invViewMatrix [6]float64
	matrixDirty               bool
}

// NewCamera creates a camera at the world origin with the given viewport
// size in screen pixels. A zero CameraConfig uses the defaults from
// DefaultSceneConfig.
func NewCamera(cfg CameraConfig, viewportW, viewportH float64) *Camera {
	if cfg == (CameraConfig{}) {
		cfg = DefaultSceneConfig().Camera
	}
	c := &Camera{
		cfg:         cfg,
		viewportW:   viewportW,
		viewportH:   viewportH,
		dirty:       true,
		matrixDirty: true,
	}
	z := cfg.InitialZoom
	if z == 0 {
		z = 1
	}
	c.zoom = c.clampZoom(z)
	c.targetZoom = c.zoom
	return c
}

// Config returns the camera's configuration.
func (c *Camera) Config() CameraConfig { return c.cfg }

// Position returns the current (smoothed) camera position.
func (c *Camera) Position() (x, y float64) { return c.x, c.y }

// Zoom returns the current (smoothed) zoom.
func (c *Camera) Zoom() float64 { return c.zoom }

// Target returns the position the camera is easing toward.
func (c *Camera) Target() (x, y float64) { return c.targetX, c.targetY }

// TargetZoom returns the zoom the camera is easing toward.
func (c *Camera) TargetZoom() float64 { return c.targetZoom }

// ViewportSize returns the screen size in pixels.
func (c *Camera) ViewportSize() (w, h float64) { return c.viewportW, c.viewportH }

// OnMove registers fn to be called whenever the camera becomes dirty.
// There is one observer; a later call replaces the earlier one.
func (c *Camera) OnMove(fn func()) {
	c.onMove = fn
}

// Dirty reports whether the camera changed since ClearDirty.
func (c *Camera) Dirty() bool { return c.dirty }

// ClearDirty acknowledges the last change.
func (c *Camera) ClearDirty() { c.dirty = false }

func (c *Camera) markMoved() {
	c.dirty = true
	c.matrixDirty = true
	if c.onMove != nil {
		c.onMove()
	}
}

func (c *Camera) clampZoom(z float64) float64 {
	return math.Max(c.cfg.MinZoom, math.Min(c.cfg.MaxZoom, z))
}

// SetPosition moves the camera immediately, without easing.
func (c *Camera) SetPosition(x, y float64) {
	c.scrollTween = nil
	c.x, c.y = x, y
	c.targetX, c.targetY = x, y
	c.markMoved()
}

// SetZoom sets the zoom immediately, clamped to the configured range.
func (c *Camera) SetZoom(z float64) {
	z = c.clampZoom(z)
	c.zoom, c.targetZoom = z, z
	c.markMoved()
}

// SetTarget sets the position the camera eases toward.
func (c *Camera) SetTarget(x, y float64) {
	c.scrollTween = nil
	c.targetX, c.targetY = x, y
}

// SetTargetZoom sets the zoom the camera eases toward, clamped to the
// configured range.
func (c *Camera) SetTargetZoom(z float64) {
	c.targetZoom = c.clampZoom(z)
}

// ZoomBy adjusts the target zoom by delta.
func (c *Camera) ZoomBy(delta float64) {
	c.SetTargetZoom(c.targetZoom + delta)
}

// SetViewportSize updates the screen size, e.g. after a window resize.
func (c *Camera) SetViewportSize(w, h float64) {
	if w == c.viewportW && h == c.viewportH {
		return
	}
	c.viewportW, c.viewportH = w, h
	c.markMoved()
}

// ScrollTo animates the target position to (x, y) over duration seconds.
// Pan or drag input cancels the animation.
func (c *Camera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	if easeFn == nil {
		easeFn = ease.Linear
	}
	c.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(c.targetX), float32(x), duration, easeFn),
		tweenY: gween.New(float32(c.targetY), float32(y), duration, easeFn),
	}
}

// Scrolling reports whether a ScrollTo animation is running.
func (c *Camera) Scrolling() bool {
	return c.scrollTween != nil
}

// MoveSpeed returns the pan distance per tick at the current zoom. It is
// inversely proportional to zoom so apparent screen speed stays constant.
func (c *Camera) MoveSpeed() float64 {
	return c.cfg.BaseMoveSpeed / c.zoom
}

// Update applies one tick of input and eases current state toward the
// targets. dt is the tick length in seconds and only drives ScrollTo.
// It reports whether the camera moved.
func (c *Camera) Update(in InputState, dt float32) bool {
	prevX, prevY, prevZoom := c.x, c.y, c.zoom

	if in.panning() {
		c.scrollTween = nil
		dx, dy := in.panVector()
		speed := c.MoveSpeed()
		c.targetX += dx * speed
		c.targetY += dy * speed
	}

	if in.DragX != 0 || in.DragY != 0 {
		c.scrollTween = nil
		// The projection is linear, so a screen delta unprojects to a
		// world delta directly.
		d := ScreenToWorld(in.DragX/c.zoom, in.DragY/c.zoom, 0)
		c.targetX -= d.X
		c.targetY -= d.Y
	}

	if in.Wheel > 0 {
		c.ZoomBy(c.cfg.ZoomStep)
	} else if in.Wheel < 0 {
		c.ZoomBy(-c.cfg.ZoomStep)
	}

	if c.scrollTween != nil {
		st := c.scrollTween
		if !st.doneX {
			val, done := st.tweenX.Update(dt)
			c.targetX = float64(val)
			st.doneX = done
		}
		if !st.doneY {
			val, done := st.tweenY.Update(dt)
			c.targetY = float64(val)
			st.doneY = done
		}
		if st.doneX && st.doneY {
			c.scrollTween = nil
		}
	}

	lerp := c.cfg.LerpFactor
	c.x = approach(c.x, c.targetX, lerp, positionEpsilon)
	c.y = approach(c.y, c.targetY, lerp, positionEpsilon)
	c.zoom = approach(c.zoom, c.targetZoom, lerp, zoomEpsilon)

	if c.x != prevX || c.y != prevY || c.zoom != prevZoom {
		c.markMoved()
		return true
	}
	return false
}

// approach moves cur a fraction t of the way to target, snapping once the
// remaining distance is within eps.
func approach(cur, target, t, eps float64) float64 {
	cur += (target - cur) * t
	if math.Abs(target-cur) <= eps {
		return target
	}
	return cur
}

// computeViewMatrix recomputes the cached view matrix if dirty. It maps
// projected (isometric screen-plane) coordinates to viewport pixels:
//
//	viewMatrix = Translate(cx, cy) * Scale(zoom) * Translate(-px, -py)
//
// where (px, py) is the camera position projected at height 0 and
// (cx, cy) the viewport center.
func (c *Camera) computeViewMatrix() [6]float64 {
	if !c.matrixDirty {
		return c.viewMatrix
	}
	c.matrixDirty = false

	p := WorldToScreen(c.x, c.y, 0)
	cx, cy := c.viewportW/2, c.viewportH/2
	z := c.zoom
	c.viewMatrix = [6]float64{z, 0, 0, z, cx - z*p.X, cy - z*p.Y}
	c.invViewMatrix = invertAffine(c.viewMatrix)
	return c.viewMatrix
}

// WorldToScreen converts a world point to viewport pixels.
func (c *Camera) WorldToScreen(x, y, z float64) Vec2 {
	m := c.computeViewMatrix()
	p := WorldToScreen(x, y, z)
	sx, sy := transformPoint(m, p.X, p.Y)
	return Vec2{sx, sy}
}

// ScreenToWorld converts viewport pixels to the world point at height 0
// under them.
func (c *Camera) ScreenToWorld(sx, sy float64) WorldPosition {
	c.computeViewMatrix()
	px, py := transformPoint(c.invViewMatrix, sx, sy)
	return ScreenToWorld(px, py, 0)
}

// VisibleBounds returns the world-space rectangle enclosing the four
// viewport corners at height 0, grown by margin on every side.
func (c *Camera) VisibleBounds(margin float64) Rect {
	w, h := c.viewportW, c.viewportH
	corners := [4]WorldPosition{
		c.ScreenToWorld(0, 0),
		c.ScreenToWorld(w, 0),
		c.ScreenToWorld(0, h),
		c.ScreenToWorld(w, h),
	}
	var pts [4]Vec2
	for i, p := range corners {
		pts[i] = Vec2{p.X, p.Y}
	}
	return rectFromPoints(pts[:]...).Expand(margin)
}
