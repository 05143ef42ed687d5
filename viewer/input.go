package viewer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/forage/ui"
)

// selectSlack is how far outside an agent's body a click still selects it.
const selectSlack = 6

// handleInput processes keyboard and mouse input.
func (v *Viewer) handleInput() {
	v.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		v.paused = !v.paused
	}

	// Steps-per-update control with < > keys (comma and period)
	speed := v.game.StepsPerUpdate()
	if rl.IsKeyPressed(rl.KeyComma) && speed > 1 {
		v.game.SetStepsPerUpdate(speed - 1)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && speed < ui.MaxSpeed {
		v.game.SetStepsPerUpdate(speed + 1)
	}

	v.overlays.HandleKeys()
	v.handleCameraInput()
	v.handleSelection()
}

// handleResize checks for window resize and propagates new dimensions.
func (v *Viewer) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == v.screenWidth && h == v.screenHeight {
		return
	}
	v.screenWidth = w
	v.screenHeight = h

	v.camera.Resize(w, h)
	v.controls.SetPosition(int32(w)-190, 10)
	v.inspector.SetPosition(int32(w)-230, 90)
}

// handleCameraInput processes camera pan/zoom controls.
func (v *Viewer) handleCameraInput() {
	// Pan speed scales inversely with zoom for natural feel
	panSpeed := float32(8.0) / v.camera.Zoom

	if rl.IsKeyDown(rl.KeyRight) {
		v.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		v.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		v.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		v.camera.Pan(0, -panSpeed)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		v.camera.ZoomBy(1 + wheel*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		v.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		v.camera.ZoomBy(0.8)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		v.camera.Reset()
	}
}

// handleSelection selects the agent under a left click, or clears the
// selection when the click hits empty arena.
func (v *Viewer) handleSelection() {
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}
	mouse := rl.GetMousePosition()

	// Clicks on the controls panel belong to raygui
	if mouse.X > v.screenWidth-200 && mouse.Y < 90 {
		return
	}

	wx, wy := v.camera.ScreenToWorld(mouse.X, mouse.Y)
	if a, ok := v.snapshot.AgentAt(float64(wx), float64(wy), selectSlack/float64(v.camera.Zoom)); ok {
		v.selected = a.ID
		return
	}
	v.selected = 0
}
