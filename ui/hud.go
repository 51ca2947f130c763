package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fountain/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title         string
	EmitterCount  int
	TotalActive   int
	TotalCapacity int
	Tick          int32
	SimTime       float64
	Speed         int
	FPS           int32
	Paused        bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Emitters: %d | Particles: %d / %d", data.EmitterCount, data.TotalActive, data.TotalCapacity),
		10, 35, 16, rl.LightGray,
	)

	rl.DrawText(
		fmt.Sprintf("Tick: %d | Time: %.1fs | Speed: %dx | FPS: %d", data.Tick, data.SimTime, data.Speed, data.FPS),
		10, 55, 16, rl.LightGray,
	)

	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 75, 16, rl.Yellow)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanelData holds performance metrics for display.
type PerfPanelData struct {
	Tick       telemetry.PerfStats
	Emitters   []EmitterTime // slowest first
	EmitterSum time.Duration
}

// EmitterTime is one row of the per-emitter timing list.
type EmitterTime struct {
	Name string
	Avg  time.Duration
}

// PerfPanel renders tick phase and per-emitter timings.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(data PerfPanelData) {
	x := p.x
	y := p.y

	rl.DrawText("Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Tick: %s avg  %s max", data.Tick.AvgTickDuration.Round(time.Microsecond),
		data.Tick.MaxTickDuration.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 16

	for _, phase := range telemetry.Phases {
		rl.DrawText(fmt.Sprintf("%-10s %5.1f%%", phase, data.Tick.PhasePct[phase]), x, y, 12, rl.LightGray)
		y += 14
	}
	y += 6

	for i, row := range data.Emitters {
		if i >= 12 {
			break
		}

		avg := row.Avg
		pct := float64(0)
		if data.EmitterSum > 0 {
			pct = float64(avg) / float64(data.EmitterSum) * 100
		}

		color := rl.LightGray
		if pct > 50 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-16s %6s %5.1f%%", row.Name, avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
