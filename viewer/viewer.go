// Package viewer runs the interactive raylib window around a game.
package viewer

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fountain/camera"
	"github.com/pthm-cable/fountain/config"
	"github.com/pthm-cable/fountain/game"
	"github.com/pthm-cable/fountain/renderer"
	"github.com/pthm-cable/fountain/ui"
)

const (
	fieldOfView    = 45
	controlsWidth  = 230
	inspectorWidth = 260
	controlsLegend = "Drag: orbit | Right drag: pan | Wheel: zoom | Space: pause | N: step | R: reset | ,/.: speed | C/E/G/I/P: overlays | Tab: controls"
)

// Viewer owns the window-side state: camera, renderers and panels.
type Viewer struct {
	game *game.Game

	camera     *camera.Camera
	background *renderer.BackgroundRenderer
	particles  *renderer.ParticleRenderer
	debug      *renderer.DebugRenderer

	overlays  *ui.OverlayRegistry
	hud       *ui.HUD
	controls  *ui.ControlsPanel
	inspector *ui.Inspector
	perfPanel *ui.PerfPanel

	screenWidth  float32
	screenHeight float32

	// Drag started over a panel; camera ignores it until release.
	dragOnPanel bool
}

// Run opens a window and drives g until the window closes or maxFrames
// frames have been drawn (0 = unlimited).
func Run(cfg *config.Config, opts game.Options, maxFrames int) error {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Fountain")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGameWithOptions(cfg, opts)
	if err != nil {
		return err
	}
	defer g.Unload()

	v := New(g, float32(cfg.Screen.Width), float32(cfg.Screen.Height))
	for frames := 0; !rl.WindowShouldClose(); frames++ {
		if maxFrames > 0 && frames >= maxFrames {
			slog.Info("max frames reached", "frames", frames, "tick", g.Tick())
			break
		}
		v.Frame()
	}
	return nil
}

// New builds a viewer for g. Requires an open raylib window.
func New(g *game.Game, screenW, screenH float32) *Viewer {
	cfg := g.Config()
	v := &Viewer{
		game:         g,
		camera:       camera.New(cfg.Camera, screenW, screenH),
		background:   renderer.NewBackgroundRenderer(int32(screenW), int32(screenH)),
		particles:    renderer.NewParticleRenderer(),
		debug:        renderer.NewDebugRenderer(),
		overlays:     ui.NewOverlayRegistry(),
		hud:          ui.NewHUD(),
		controls:     ui.NewControlsPanel(10, 100, controlsWidth),
		inspector:    ui.NewInspector(int32(screenW)-inspectorWidth-10, 10, inspectorWidth),
		perfPanel:    ui.NewPerfPanel(10, int32(screenH)-230),
		screenWidth:  screenW,
		screenHeight: screenH,
	}
	return v
}

// Frame handles input, advances the game by the frame time and draws.
func (v *Viewer) Frame() {
	v.handleInput()
	v.game.Update(float64(rl.GetFrameTime()))
	v.draw()
	v.game.RecordFrame()
}

func (v *Viewer) draw() {
	views := v.game.Emitters()

	v.debug.ShowCollision = v.overlays.IsEnabled(ui.OverlayCollision)
	v.debug.ShowEmission = v.overlays.IsEnabled(ui.OverlayEmission)
	v.background.ShowGrid = v.overlays.IsEnabled(ui.OverlayGrid)

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)
	v.background.DrawBackdrop()

	rl.BeginMode3D(v.camera3D())
	v.background.DrawGround()
	v.particles.Draw(views)
	v.debug.Draw(views, v.game.Config().Emitters)
	rl.EndMode3D()

	v.drawUI(views)
	rl.EndDrawing()
}

func (v *Viewer) drawUI(views []game.EmitterView) {
	data := ui.HUDData{
		Title:        "Fountain",
		EmitterCount: len(views),
		Tick:         v.game.Tick(),
		SimTime:      v.game.SimTime(),
		Speed:        v.game.StepsPerUpdate(),
		FPS:          rl.GetFPS(),
		Paused:       v.game.Paused(),
	}
	for _, ev := range views {
		data.TotalActive += ev.Readout.Active
		data.TotalCapacity += ev.Readout.Capacity
	}
	v.hud.Draw(data)
	v.hud.DrawControls(int32(v.screenHeight), controlsLegend)

	if v.overlays.IsEnabled(ui.OverlayInspector) {
		v.inspector.Draw(views)
	}
	if v.overlays.IsEnabled(ui.OverlayPerf) {
		v.perfPanel.Draw(v.perfData())
	}

	state := ui.ControlsState{
		Paused:   v.game.Paused(),
		Speed:    v.game.StepsPerUpdate(),
		MaxSpeed: game.MaxStepsPerUpdate,
	}
	for _, ev := range views {
		state.Emitters = append(state.Emitters, ev.Name)
		state.Visible = append(state.Visible, ev.Visible)
	}
	v.apply(v.controls.Draw(state, v.overlays))
}

func (v *Viewer) perfData() ui.PerfPanelData {
	timings, total := v.game.EmitterTimings()
	rows := make([]ui.EmitterTime, len(timings))
	for i, t := range timings {
		rows[i] = ui.EmitterTime{Name: t.Name, Avg: t.Avg}
	}
	return ui.PerfPanelData{
		Tick:       v.game.Perf(),
		Emitters:   rows,
		EmitterSum: total,
	}
}

// apply performs the actions clicked in the controls panel.
func (v *Viewer) apply(a ui.ControlsActions) {
	if a.TogglePause {
		v.game.TogglePause()
	}
	if a.Step {
		v.step()
	}
	if a.Reset {
		v.reset()
	}
	if a.Dump {
		if err := v.game.DumpParticles(); err != nil {
			slog.Error("failed to dump particles", "error", err)
		}
	}
	if a.Speed != v.game.StepsPerUpdate() {
		v.game.SetStepsPerUpdate(a.Speed)
	}
	for i, visible := range a.Visibility {
		v.game.SetVisible(i, visible)
	}
}

// step advances one fixed-dt tick, used while paused.
func (v *Viewer) step() {
	v.game.Step(v.game.Config().Simulation.DT)
}

func (v *Viewer) reset() {
	if err := v.game.Reset(); err != nil {
		slog.Error("failed to reset", "error", err)
	}
}

// camera3D converts the orbit camera to a raylib camera.
func (v *Viewer) camera3D() rl.Camera3D {
	return rl.Camera3D{
		Position:   renderer.Vec3(v.camera.Position()),
		Target:     renderer.Vec3(v.camera.Target),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       fieldOfView,
		Projection: rl.CameraPerspective,
	}
}
