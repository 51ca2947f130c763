// Emitter preview tool - interactive tuning of one emitter with sliders.
//
// Usage: go run ./cmd/emitterpreview [-config path] [-emitter name]
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/fountain/camera"
	"github.com/pthm-cable/fountain/config"
	"github.com/pthm-cable/fountain/game"
	"github.com/pthm-cable/fountain/renderer"
)

const (
	windowWidth  = 1200
	windowHeight = 760
	panelWidth   = 360
	previewWidth = windowWidth - panelWidth
	sliderWidth  = panelWidth - 110
)

// slider draws a labelled slider and advances y. Returns the new value.
func slider(x float32, y *float32, label, format string, value, lo, hi float32) float32 {
	rl.DrawText(label, int32(x), int32(*y), 14, rl.Gray)
	*y += 18
	v := gui.SliderBar(
		rl.Rectangle{X: x + 30, Y: *y, Width: sliderWidth, Height: 18},
		fmt.Sprintf(format, lo), fmt.Sprintf(format, hi),
		value, lo, hi,
	)
	rl.DrawText(fmt.Sprintf(format, v), int32(x+sliderWidth+60), int32(*y+2), 14, rl.DarkGray)
	*y += 30
	return v
}

// modeRanges returns pointers into the active mode's impulse, rate and lifetime ranges.
func modeRanges(ec *config.EmitterConfig) (impulse, rate, life [2]*float64) {
	if ec.Mode == config.Cannon {
		c := &ec.Cannon
		return [2]*float64{&c.MinImpulse, &c.MaxImpulse},
			[2]*float64{&c.MinParticlesPerSecond, &c.MaxParticlesPerSecond},
			[2]*float64{&c.MinParticlesLifeTime, &c.MaxParticlesLifeTime}
	}
	c := &ec.Cascade
	return [2]*float64{&c.MinImpulse, &c.MaxImpulse},
		[2]*float64{&c.MinParticlesPerSecond, &c.MaxParticlesPerSecond},
		[2]*float64{&c.MinParticlesLifeTime, &c.MaxParticlesLifeTime}
}

// rangeSliders edits a [min, max] pair, keeping min <= max. Returns true on change.
func rangeSliders(x float32, y *float32, name, format string, r [2]*float64, lo, hi float32) bool {
	minV := slider(x, y, name+" min", format, float32(*r[0]), lo, hi)
	maxV := slider(x, y, name+" max", format, float32(*r[1]), lo, hi)
	if maxV < minV {
		maxV = minV
	}
	changed := float64(minV) != *r[0] || float64(maxV) != *r[1]
	*r[0], *r[1] = float64(minV), float64(maxV)
	return changed
}

func buildGame(base *config.Config, ec config.EmitterConfig, seed int64) *game.Game {
	cfg := base.Clone()
	ec.Offset = cfg.Camera.Target
	ec.Offset.Y = 0
	cfg.Emitters = []config.EmitterConfig{ec}
	g, err := game.NewGameWithOptions(cfg.Clone(), game.Options{Seed: seed, StepsPerUpdate: 1})
	if err != nil {
		slog.Error("invalid emitter", "error", err)
		return nil
	}
	return g
}

func emitterYAML(ec config.EmitterConfig) string {
	data, err := yaml.Marshal([]config.EmitterConfig{ec})
	if err != nil {
		return err.Error()
	}
	return string(data)
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	emitterName := flag.String("emitter", "", "Emitter to preview (empty = first)")
	seed := flag.Int64("seed", 12345, "RNG seed")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	base := config.Cfg()
	if len(base.Emitters) == 0 {
		log.Fatal("config has no emitters")
	}

	original := base.Emitters[0]
	if *emitterName != "" {
		ec, ok := base.Emitter(*emitterName)
		if !ok {
			log.Fatalf("unknown emitter %q", *emitterName)
		}
		original = *ec
	}
	edited := original

	rl.SetConfigFlags(rl.FlagMsaa4xHint)
	rl.InitWindow(windowWidth, windowHeight, "Emitter Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	cam := camera.New(base.Camera, previewWidth, windowHeight)
	particles := renderer.NewParticleRenderer()
	debug := renderer.NewDebugRenderer()
	background := renderer.NewBackgroundRenderer(previewWidth, windowHeight)

	g := buildGame(base, edited, *seed)
	needsRegen := false
	paused := false

	for !rl.WindowShouldClose() {
		if needsRegen {
			if next := buildGame(base, edited, *seed); next != nil {
				g = next
			}
			needsRegen = false
		}
		if g != nil && !paused {
			g.Update(float64(rl.GetFrameTime()))
		}

		// Camera: drag inside the preview to orbit, wheel to zoom
		mouse := rl.GetMousePosition()
		if mouse.X < previewWidth {
			if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
				d := rl.GetMouseDelta()
				cam.Orbit(-float64(d.X)*0.005, float64(d.Y)*0.005)
			}
			if wheel := rl.GetMouseWheelMove(); wheel != 0 {
				cam.ZoomBy(1 + float64(wheel)*0.1)
			}
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.BeginScissorMode(0, 0, previewWidth, windowHeight)
		background.DrawBackdrop()
		rl.BeginMode3D(rl.Camera3D{
			Position:   renderer.Vec3(cam.Position()),
			Target:     renderer.Vec3(cam.Target),
			Up:         rl.NewVector3(0, 1, 0),
			Fovy:       45,
			Projection: rl.CameraPerspective,
		})
		background.DrawGround()
		if g != nil {
			views := g.Emitters()
			particles.Draw(views)
			debug.Draw(views, g.Config().Emitters)
		}
		rl.EndMode3D()
		rl.EndScissorMode()

		if g != nil {
			views := g.Emitters()
			if len(views) > 0 {
				ro := views[0].Readout
				rl.DrawText(fmt.Sprintf("Active: %d / %d  Spawned: %d  Skipped: %d  Interval: %.3fs",
					ro.Active, ro.Capacity, ro.Counters.Spawned, ro.Counters.Skipped, ro.SpawnInterval),
					10, windowHeight-25, 16, rl.LightGray)
			}
		}

		// Control panel
		panelX := float32(previewWidth + 15)
		panelY := float32(10)
		rl.DrawRectangle(previewWidth, 0, panelWidth, windowHeight, rl.RayWhite)

		rl.DrawText(fmt.Sprintf("%s (%s)", edited.Name, edited.Mode), int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		impulse, rate, life := modeRanges(&edited)
		changed := false
		changed = rangeSliders(panelX, &panelY, "Rate (particles/s)", "%.1f", rate, 0, 200) || changed
		changed = rangeSliders(panelX, &panelY, "Lifetime (s)", "%.2f", life, 0, 10) || changed
		changed = rangeSliders(panelX, &panelY, "Impulse", "%.1f", impulse, 0, 100) || changed

		newGravity := slider(panelX, &panelY, "Gravity Y", "%.2f", float32(edited.Global.Gravity.Y), -20, 0)
		if float64(newGravity) != edited.Global.Gravity.Y {
			edited.Global.Gravity.Y = float64(newGravity)
			changed = true
		}

		newPool := slider(panelX, &panelY, "Pool size", "%.0f", float32(edited.Global.PoolSize), 1, 1024)
		if int(newPool) != edited.Global.PoolSize {
			edited.Global.PoolSize = int(newPool)
			changed = true
		}
		needsRegen = needsRegen || changed

		panelY += 10
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(paused, "Resume", "Pause")) {
			paused = !paused
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Restart") {
			needsRegen = true
		}
		panelY += 40
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			edited = original
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Home Camera") {
			cam.Reset()
		}
		panelY += 45

		// Output YAML for the rate and lifetime block
		rl.DrawText("YAML:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 22
		doc := emitterYAML(edited)
		for _, line := range strings.Split(doc, "\n") {
			if panelY > windowHeight-40 {
				break
			}
			rl.DrawText(line, int32(panelX), int32(panelY), 10, rl.Gray)
			panelY += 12
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-25), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(doc)
		}

		rl.EndDrawing()
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
