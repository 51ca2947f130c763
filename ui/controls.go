package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlsState is the host state shown by the controls panel.
type ControlsState struct {
	Paused   bool
	Speed    int
	MaxSpeed int
	Emitters []string
	Visible  []bool
}

// ControlsActions reports what the user clicked this frame.
type ControlsActions struct {
	TogglePause bool
	Step        bool
	Reset       bool
	Dump        bool
	Speed       int          // New speed, equal to the input when unchanged
	Visibility  map[int]bool // Emitter index -> new visibility
}

// ControlsPanel renders raygui buttons, a speed slider, and toggles for
// overlays and emitter visibility.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	height   int32 // Height of the last drawn panel
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Contains reports whether a screen point lies over the visible panel.
func (c *ControlsPanel) Contains(x, y float32) bool {
	if !c.visible {
		return false
	}
	return x >= float32(c.x) && x < float32(c.x+c.width) &&
		y >= float32(c.y) && y < float32(c.y+c.height)
}

// Draw renders the panel and returns the actions taken.
func (c *ControlsPanel) Draw(state ControlsState, overlays *OverlayRegistry) ControlsActions {
	actions := ControlsActions{Speed: state.Speed}
	if !c.visible {
		return actions
	}

	r := c.renderer
	padding := r.Theme.Padding
	rowH := float32(24)

	rows := 4 + len(overlays.All()) + len(state.Emitters)
	height := int32(rows)*int32(rowH) + padding*3 + r.Theme.LineHeight*2
	r.DrawPanel(c.x, c.y, c.width, height)
	c.height = height

	x := float32(c.x + padding)
	y := float32(c.y + padding)
	w := float32(c.width - padding*2)
	half := (w - 6) / 2

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: rowH}, toggleText(state.Paused, "Resume", "Pause")) {
		actions.TogglePause = true
	}
	if gui.Button(rl.Rectangle{X: x + half + 6, Y: y, Width: half, Height: rowH}, "Step") {
		actions.Step = true
	}
	y += rowH + 4

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: rowH}, "Reset") {
		actions.Reset = true
	}
	if gui.Button(rl.Rectangle{X: x + half + 6, Y: y, Width: half, Height: rowH}, "Dump CSV") {
		actions.Dump = true
	}
	y += rowH + 8

	rl.DrawText(fmt.Sprintf("Speed: %dx", state.Speed), int32(x), int32(y), r.Theme.FontSize, r.Theme.LabelColor)
	y += float32(r.Theme.LineHeight)
	newSpeed := gui.SliderBar(
		rl.Rectangle{X: x + 10, Y: y, Width: w - 40, Height: 16},
		"1", fmt.Sprint(state.MaxSpeed),
		float32(state.Speed), 1, float32(state.MaxSpeed),
	)
	actions.Speed = int(newSpeed + 0.5)
	y += rowH

	rl.DrawText("Overlays", int32(x), int32(y), r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	y += float32(r.Theme.LineHeight)
	for _, desc := range overlays.All() {
		label := fmt.Sprintf("%s [%s]", desc.Name, desc.KeyLabel)
		enabled := overlays.IsEnabled(desc.ID)
		if gui.CheckBox(rl.Rectangle{X: x, Y: y + 4, Width: 14, Height: 14}, label, enabled) != enabled {
			overlays.Toggle(desc.ID)
		}
		y += rowH
	}

	if len(state.Emitters) > 0 {
		rl.DrawText("Emitters", int32(x), int32(y), r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += float32(r.Theme.LineHeight)
	}
	for i, name := range state.Emitters {
		visible := i < len(state.Visible) && state.Visible[i]
		if checked := gui.CheckBox(rl.Rectangle{X: x, Y: y + 4, Width: 14, Height: 14}, name, visible); checked != visible {
			if actions.Visibility == nil {
				actions.Visibility = make(map[int]bool)
			}
			actions.Visibility[i] = checked
		}
		y += rowH
	}

	return actions
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
