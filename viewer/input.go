package viewer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Radians of orbit per dragged pixel.
const orbitSpeed = 0.005

// handleInput processes keyboard and mouse input.
func (v *Viewer) handleInput() {
	v.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		v.game.TogglePause()
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) {
		v.game.SetStepsPerUpdate(v.game.StepsPerUpdate() - 1)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		v.game.SetStepsPerUpdate(v.game.StepsPerUpdate() + 1)
	}

	if rl.IsKeyPressed(rl.KeyN) {
		v.step()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		v.reset()
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		v.controls.Toggle()
	}

	v.overlays.HandleKeys()
	v.handleCameraInput()
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
	v.background.Resize(int32(w), int32(h))
	v.inspector.SetPosition(int32(w)-inspectorWidth-10, 10)
	v.perfPanel.SetPosition(10, int32(h)-230)
}

// handleCameraInput processes orbit, pan and zoom controls.
func (v *Viewer) handleCameraInput() {
	mouse := rl.GetMousePosition()

	// Drags that begin on the controls belong to raygui.
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) || rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		v.dragOnPanel = v.controls.Contains(mouse.X, mouse.Y)
	}

	if !v.dragOnPanel {
		delta := rl.GetMouseDelta()
		if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
			v.camera.Orbit(-float64(delta.X)*orbitSpeed, float64(delta.Y)*orbitSpeed)
		}
		if rl.IsMouseButtonDown(rl.MouseButtonRight) {
			v.camera.Pan(delta.X, delta.Y)
		}
	}

	// Arrow keys orbit
	const keyOrbit = 0.03
	if rl.IsKeyDown(rl.KeyRight) {
		v.camera.Orbit(keyOrbit, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		v.camera.Orbit(-keyOrbit, 0)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		v.camera.Orbit(0, keyOrbit)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		v.camera.Orbit(0, -keyOrbit)
	}

	// Zoom controls: mouse wheel or +/- keys
	if wheel := rl.GetMouseWheelMove(); wheel != 0 && !v.controls.Contains(mouse.X, mouse.Y) {
		v.camera.ZoomBy(1 + float64(wheel)*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		v.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		v.camera.ZoomBy(0.8)
	}

	// Home key to reset camera
	if rl.IsKeyPressed(rl.KeyHome) {
		v.camera.Reset()
	}
}
