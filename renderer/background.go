package renderer

import rl "github.com/gen2brain/raylib-go/raylib"

// BackgroundRenderer draws a vertical gradient backdrop and a ground grid.
type BackgroundRenderer struct {
	screenW, screenH int32
	top, bottom      rl.Color

	GridSlices  int32
	GridSpacing float32
	ShowGrid    bool
}

// NewBackgroundRenderer creates a new background renderer.
func NewBackgroundRenderer(screenW, screenH int32) *BackgroundRenderer {
	return &BackgroundRenderer{
		screenW:     screenW,
		screenH:     screenH,
		top:         rl.Color{R: 18, G: 24, B: 38, A: 255},
		bottom:      rl.Color{R: 44, G: 52, B: 66, A: 255},
		GridSlices:  40,
		GridSpacing: 1,
		ShowGrid:    true,
	}
}

// DrawBackdrop fills the screen. Call before rl.BeginMode3D.
func (b *BackgroundRenderer) DrawBackdrop() {
	rl.DrawRectangleGradientV(0, 0, b.screenW, b.screenH, b.top, b.bottom)
}

// DrawGround draws the XZ grid at y=0. Call inside 3D mode.
func (b *BackgroundRenderer) DrawGround() {
	if !b.ShowGrid {
		return
	}
	rl.DrawGrid(b.GridSlices, b.GridSpacing)
}

// Resize updates the backdrop dimensions.
func (b *BackgroundRenderer) Resize(screenW, screenH int32) {
	b.screenW = screenW
	b.screenH = screenH
}
