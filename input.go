package iso

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// InputState is the camera-relevant input for one tick. It is a plain value
// so the camera update can be driven by tests or replayed input as easily
// as by the keyboard.
type InputState struct {
	// Up, Down, Left, Right pan the camera along the screen axes.
	Up, Down, Left, Right bool
	// Wheel is the zoom direction: positive zooms in, negative zooms out.
	// Only the sign is used; one tick moves the target zoom by one step.
	Wheel float64
	// DragX and DragY are the screen-space pointer drag delta this tick.
	DragX, DragY float64
}

// panning reports whether any pan key is held.
func (in InputState) panning() bool {
	return in.Up || in.Down || in.Left || in.Right
}

// panVector maps held keys to a unit world-space direction. Screen up is
// (-1, -1) in world space and screen right is (+1, -1), so diagonal presses
// are normalized to the same speed as single-axis ones.
func (in InputState) panVector() (dx, dy float64) {
	if in.Up {
		dx -= 0.5
		dy -= 0.5
	}
	if in.Down {
		dx += 0.5
		dy += 0.5
	}
	if in.Left {
		dx -= 0.5
		dy += 0.5
	}
	if in.Right {
		dx += 0.5
		dy -= 0.5
	}
	l := math.Hypot(dx, dy)
	if l == 0 {
		return 0, 0
	}
	return dx / l, dy / l
}

// InputPoller reads keyboard, wheel, and mouse drag state from ebiten once
// per tick. It is the only place raw input enters the package.
type InputPoller struct {
	// DragButton pans the camera while held. Defaults to the right button.
	DragButton ebiten.MouseButton

	dragging     bool
	lastX, lastY int
}

// NewInputPoller creates a poller with WASD/arrow panning, wheel zoom, and
// right-button drag.
func NewInputPoller() *InputPoller {
	return &InputPoller{DragButton: ebiten.MouseButtonRight}
}

// Poll samples the current input. Call it once per ebiten Update.
func (p *InputPoller) Poll() InputState {
	in := InputState{
		Up:    ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp),
		Down:  ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown),
		Left:  ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		Right: ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight),
	}

	if _, wy := ebiten.Wheel(); wy > 0 {
		in.Wheel = 1
	} else if wy < 0 {
		in.Wheel = -1
	}

	x, y := ebiten.CursorPosition()
	switch {
	case inpututil.IsMouseButtonJustPressed(p.DragButton):
		p.dragging = true
	case p.dragging && ebiten.IsMouseButtonPressed(p.DragButton):
		in.DragX = float64(x - p.lastX)
		in.DragY = float64(y - p.lastY)
	default:
		p.dragging = false
	}
	p.lastX, p.lastY = x, y
	return in
}
