package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fountain/config"
	"github.com/pthm-cable/fountain/game"
	"github.com/pthm-cable/fountain/renderer"
)

func view(data any) game.EmitterView {
	v, _ := data.(game.EmitterView)
	return v
}

// EmitterPanel describes the per-emitter readout.
func EmitterPanel(width int32) PanelDescriptor {
	return PanelDescriptor{
		ID:    "emitter",
		Width: width,
		Sections: []SectionDescriptor{
			{
				ID: "identity",
				Fields: []FieldDescriptor{
					{ID: "name", Label: "Emitter", Widget: WidgetText, TextGetter: func(d any) string { return view(d).Name }},
					{ID: "mode", Label: "Mode", Widget: WidgetColorSwatch, ColorGetter: func(d any) rl.Color { return renderer.ModeColor(view(d).Mode) }},
					{ID: "mode_name", Label: "", Widget: WidgetText, TextGetter: func(d any) string { return view(d).Mode.String() }},
				},
			},
			{
				ID:    "pool",
				Title: "Pool",
				Fields: []FieldDescriptor{
					{ID: "occupancy", Label: "Occupancy", Widget: WidgetBar, Getter: func(d any) float32 { return float32(view(d).Readout.Occupancy()) }},
					{ID: "active", Label: "Active", Widget: WidgetText, TextGetter: func(d any) string {
						ro := view(d).Readout
						return fmt.Sprintf("%d / %d", ro.Active, ro.Capacity)
					}},
				},
			},
			{
				ID:    "spawning",
				Title: "Spawning",
				Fields: []FieldDescriptor{
					{ID: "interval", Label: "Interval", Widget: WidgetText, TextGetter: func(d any) string { return formatInterval(view(d).Readout.SpawnInterval) }},
					{ID: "spawned", Label: "Spawned", Widget: WidgetText, Format: "%.0f", Getter: func(d any) float32 { return float32(view(d).Readout.Counters.Spawned) }},
					{ID: "skipped", Label: "Skipped", Widget: WidgetText, Format: "%.0f", Getter: func(d any) float32 { return float32(view(d).Readout.Counters.Skipped) }},
					{ID: "retired", Label: "Retired", Widget: WidgetText, Format: "%.0f", Getter: func(d any) float32 { return float32(view(d).Readout.Counters.Retired) }},
				},
			},
			{
				ID:    "collision",
				Title: "Collision (display only)",
				Visible: func(d any) bool {
					c := view(d).Collision
					return len(c.Planes)+len(c.Spheres)+len(c.Capsules) > 0
				},
				Fields: []FieldDescriptor{
					{ID: "shapes", Label: "Shapes", Widget: WidgetText, TextGetter: func(d any) string { return shapeSummary(view(d).Collision) }},
				},
			},
		},
	}
}

// Inspector renders one emitter panel per emitter in a column.
type Inspector struct {
	renderer *Renderer
	x, y     int32
	width    int32
	panel    PanelDescriptor
}

// NewInspector creates a new inspector column.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		panel:    EmitterPanel(width),
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Draw renders a panel for every emitter and returns the Y below the column.
func (ins *Inspector) Draw(views []game.EmitterView) int32 {
	y := ins.y
	for _, v := range views {
		y = ins.renderer.DrawPanelDescriptor(ins.x, y, ins.panel, v) + 6
	}
	return y
}

func formatInterval(sec float64) string {
	if sec <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.3fs (%.0f/s)", sec, 1/sec)
}

func shapeSummary(c config.CollisionSettings) string {
	return fmt.Sprintf("%dP %dS %dC", len(c.Planes), len(c.Spheres), len(c.Capsules))
}
