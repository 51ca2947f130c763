package game

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/fountain/config"
	"github.com/pthm-cable/fountain/telemetry"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Simulation.DT = 0.1
	cfg.Telemetry.StatsWindow = 1.0
	return cfg
}

func newTestGame(t *testing.T, opts Options) *Game {
	t.Helper()
	if opts.Seed == 0 {
		opts.Seed = 42
	}
	g, err := NewGameWithOptions(testConfig(), opts)
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	return g
}

func TestNewGameCreatesOneEntityPerEmitter(t *testing.T) {
	g := newTestGame(t, DefaultOptions())
	defer g.Unload()

	cfg := g.Config()
	if len(g.Fields()) != len(cfg.Emitters) {
		t.Fatalf("expected %d fields, got %d", len(cfg.Emitters), len(g.Fields()))
	}

	views := g.Emitters()
	for i, v := range views {
		if v.Index != i {
			t.Errorf("view %d has index %d", i, v.Index)
		}
		if v.Name != cfg.Emitters[i].Name {
			t.Errorf("view %d name %q, want %q", i, v.Name, cfg.Emitters[i].Name)
		}
		if v.Offset != cfg.Emitters[i].Offset {
			t.Errorf("view %d offset %v, want %v", i, v.Offset, cfg.Emitters[i].Offset)
		}
		if !v.Visible {
			t.Errorf("view %d should start visible", i)
		}
		// Pools are allocated lazily on the first step
		if v.Particles != nil {
			t.Errorf("view %d has particles before first step", i)
		}
	}
}

func TestNewGameRejectsInvalidEmitter(t *testing.T) {
	cfg := testConfig()
	cfg.Emitters[0].Global.PoolSize = 0

	if _, err := NewGameWithOptions(cfg, Options{Seed: 1}); err == nil {
		t.Fatal("expected error for zero pool size")
	}
	if _, err := NewGameWithOptions(nil, Options{}); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestStepAdvancesEveryField(t *testing.T) {
	g := newTestGame(t, DefaultOptions())
	defer g.Unload()

	for i := 0; i < 30; i++ {
		g.Step(0.1)
	}

	if g.Tick() != 30 {
		t.Errorf("tick = %d, want 30", g.Tick())
	}
	for _, v := range g.Emitters() {
		if len(v.Particles) != g.Config().Emitters[v.Index].Global.PoolSize {
			t.Errorf("%s: pool length %d", v.Name, len(v.Particles))
		}
		if v.Readout.Counters.Spawned == 0 {
			t.Errorf("%s: nothing spawned after 30 steps", v.Name)
		}
		if v.Readout.Active != v.Readout.Counters.Spawned-v.Readout.Counters.Retired {
			t.Errorf("%s: active %d != spawned %d - retired %d", v.Name,
				v.Readout.Active, v.Readout.Counters.Spawned, v.Readout.Counters.Retired)
		}
	}
}

func TestPauseAndSteps(t *testing.T) {
	g := newTestGame(t, Options{StepsPerUpdate: 3})
	defer g.Unload()

	g.Update(0.1)
	if g.Tick() != 3 {
		t.Fatalf("tick = %d after one update with 3 steps", g.Tick())
	}

	g.TogglePause()
	g.Update(0.1)
	if g.Tick() != 3 {
		t.Errorf("paused update advanced to tick %d", g.Tick())
	}

	// Headless stepping ignores pause
	g.UpdateHeadless()
	if g.Tick() != 6 {
		t.Errorf("headless update: tick = %d, want 6", g.Tick())
	}

	g.SetStepsPerUpdate(100)
	if g.StepsPerUpdate() != MaxStepsPerUpdate {
		t.Errorf("steps = %d, want clamp to %d", g.StepsPerUpdate(), MaxStepsPerUpdate)
	}
	g.SetStepsPerUpdate(0)
	if g.StepsPerUpdate() != 1 {
		t.Errorf("steps = %d, want clamp to 1", g.StepsPerUpdate())
	}
}

func TestSameSeedSameRun(t *testing.T) {
	a := newTestGame(t, Options{Seed: 99})
	b := newTestGame(t, Options{Seed: 99})
	defer a.Unload()
	defer b.Unload()

	for i := 0; i < 50; i++ {
		a.Step(0.05)
		b.Step(0.05)
	}

	va, vb := a.Emitters(), b.Emitters()
	for i := range va {
		for j := range va[i].Particles {
			pa, pb := va[i].Particles[j], vb[i].Particles[j]
			if pa != pb {
				t.Fatalf("emitter %d slot %d differs: %+v vs %+v", i, j, pa, pb)
			}
		}
	}
}

func TestStatsCallbackPerWindow(t *testing.T) {
	g := newTestGame(t, DefaultOptions())
	defer g.Unload()

	var windows [][]telemetry.WindowStats
	g.SetStatsCallback(func(s []telemetry.WindowStats) {
		windows = append(windows, s)
	})

	// 1.0s window at dt 0.1 flushes every 10 steps
	for i := 0; i < 35; i++ {
		g.Step(0.1)
	}

	if len(windows) != 3 {
		t.Fatalf("expected 3 windows, got %d", len(windows))
	}
	for _, w := range windows {
		if len(w) != len(g.Fields()) {
			t.Errorf("window has %d rows, want %d", len(w), len(g.Fields()))
		}
	}
	if got := g.LastStats(); len(got) == 0 || got[0].WindowEndTick != 30 {
		t.Errorf("last stats = %+v", got)
	}
}

func TestSetVisible(t *testing.T) {
	g := newTestGame(t, DefaultOptions())
	defer g.Unload()

	g.SetVisible(0, false)
	g.SetVisible(99, false) // ignored

	views := g.Emitters()
	if views[0].Visible {
		t.Error("emitter 0 should be hidden")
	}
	for _, v := range views[1:] {
		if !v.Visible {
			t.Errorf("%s should stay visible", v.Name)
		}
	}
}

func TestResetRebuildsFields(t *testing.T) {
	g := newTestGame(t, DefaultOptions())
	defer g.Unload()

	for i := 0; i < 20; i++ {
		g.Step(0.1)
	}
	first := g.Emitters()[0].Particles[1]

	if err := g.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if g.Tick() != 0 || g.SimTime() != 0 {
		t.Errorf("tick %d sim time %v after reset", g.Tick(), g.SimTime())
	}
	if n := len(g.Emitters()); n != len(g.Config().Emitters) {
		t.Fatalf("%d emitters after reset", n)
	}
	if g.Emitters()[0].Particles != nil {
		t.Error("pool should be unallocated after reset")
	}

	for i := 0; i < 20; i++ {
		g.Step(0.1)
	}
	// Same seed replays the same first spawn
	if again := g.Emitters()[0].Particles[1]; again != first {
		t.Errorf("replayed slot differs: %+v vs %+v", again, first)
	}
}

func TestOutputDirWritesFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	g := newTestGame(t, Options{OutputDir: dir})

	for i := 0; i < 25; i++ {
		g.Step(0.1)
	}
	g.Unload()

	for _, name := range []string{"config.yaml", "telemetry.csv", "perf.csv", "particles.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	// Header + 2 windows per emitter
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if want := 1 + 2*len(g.Fields()); len(lines) != want {
		t.Errorf("telemetry.csv has %d lines, want %d", len(lines), want)
	}
}

func TestOffsetDoesNotMoveParticles(t *testing.T) {
	cfg := testConfig()
	cfg.Emitters = cfg.Emitters[:1]
	cfg.Emitters[0].Offset = r3.Vec{X: 50}
	cfg.Emitters[0].Global.Gravity = r3.Vec{}
	cfg.Emitters[0].Cascade.MinImpulse = 0
	cfg.Emitters[0].Cascade.MaxImpulse = 0

	g, err := NewGameWithOptions(cfg, Options{Seed: 3})
	if err != nil {
		t.Fatal(err)
	}
	defer g.Unload()

	for i := 0; i < 10; i++ {
		g.Step(0.1)
	}

	a, b := cfg.Emitters[0].Cascade.PointA, cfg.Emitters[0].Cascade.PointB
	for _, p := range g.Emitters()[0].Particles {
		if !p.Active {
			continue
		}
		if p.Position.X < a.X-1e-9 || p.Position.X > b.X+1e-9 {
			t.Errorf("particle at %v left the local segment", p.Position)
		}
	}
}

func TestEmitterClockSmoothsAndOrders(t *testing.T) {
	c := newEmitterClock()
	c.observe("fast", 100*time.Microsecond)
	c.observe("slow", 400*time.Microsecond)
	c.observe("tied", 100*time.Microsecond)

	// A single spike moves the average by timingSmoothing of the gap.
	c.observe("slow", 400*time.Microsecond+32*time.Microsecond)

	rows, total := c.snapshot()
	want := []EmitterTiming{
		{"slow", 401 * time.Microsecond},
		{"fast", 100 * time.Microsecond},
		{"tied", 100 * time.Microsecond},
	}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("row %d = %+v, want %+v", i, rows[i], want[i])
		}
	}
	if total != 601*time.Microsecond {
		t.Errorf("total = %s, want 601µs", total)
	}

	c.clear()
	if rows, total := c.snapshot(); len(rows) != 0 || total != 0 {
		t.Errorf("after clear: %d rows, total %s", len(rows), total)
	}
}

func TestEmitterTimingsCoverEveryEmitter(t *testing.T) {
	g := newTestGame(t, DefaultOptions())
	defer g.Unload()

	if rows, _ := g.EmitterTimings(); len(rows) != 0 {
		t.Fatalf("expected no timings before the first step, got %d", len(rows))
	}
	for i := 0; i < 5; i++ {
		g.Step(0.1)
	}

	rows, total := g.EmitterTimings()
	if len(rows) != len(g.Config().Emitters) {
		t.Fatalf("got %d timings, want %d", len(rows), len(g.Config().Emitters))
	}
	var sum time.Duration
	for i, r := range rows {
		if i > 0 && r.Avg > rows[i-1].Avg {
			t.Errorf("timings not slowest first: %+v", rows)
		}
		sum += r.Avg
	}
	if sum != total {
		t.Errorf("total %s != sum of rows %s", total, sum)
	}

	if err := g.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if rows, _ := g.EmitterTimings(); len(rows) != 0 {
		t.Errorf("expected timings cleared on reset, got %d", len(rows))
	}
}
