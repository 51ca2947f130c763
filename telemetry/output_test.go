package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pthm-cable/fountain/config"
	"github.com/pthm-cable/fountain/systems"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if om != nil {
		t.Fatal("expected nil manager for empty dir")
	}

	// Nil manager is a no-op
	if err := om.WriteTelemetry([]WindowStats{{Emitter: "x"}}); err != nil {
		t.Errorf("WriteTelemetry on nil: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("Close on nil: %v", err)
	}
	if om.Dir() != "" {
		t.Errorf("Dir on nil = %q", om.Dir())
	}
}

func TestOutputManagerWritesHeaderOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	rows := []WindowStats{
		{Emitter: "waterfall", Mode: "cascade", WindowEndTick: 60, Active: 12},
		{Emitter: "mortar", Mode: "cannon", WindowEndTick: 60, Active: 3},
	}
	if err := om.WriteTelemetry(rows); err != nil {
		t.Fatalf("WriteTelemetry: %v", err)
	}
	rows[0].WindowEndTick, rows[1].WindowEndTick = 120, 120
	if err := om.WriteTelemetry(rows); err != nil {
		t.Fatalf("WriteTelemetry: %v", err)
	}

	pc := NewPerfCollector(4)
	pc.StartTick()
	pc.StartPhase(PhaseFields)
	time.Sleep(time.Millisecond)
	pc.EndTick()
	if err := om.WritePerf(pc.Stats(), 120); err != nil {
		t.Fatalf("WritePerf: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatalf("reading telemetry.csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected header + 4 rows, got %d lines:\n%s", len(lines), data)
	}
	if !strings.HasPrefix(lines[0], "emitter,mode,window_end") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if strings.Count(string(data), "emitter,") != 1 {
		t.Error("header written more than once")
	}
	if !strings.HasPrefix(lines[4], "mortar,cannon,120") {
		t.Errorf("unexpected last row %q", lines[4])
	}

	perf, err := os.ReadFile(filepath.Join(dir, "perf.csv"))
	if err != nil {
		t.Fatalf("reading perf.csv: %v", err)
	}
	if !strings.Contains(string(perf), "fields_pct") {
		t.Errorf("perf.csv missing phase column:\n%s", perf)
	}
}

func TestOutputManagerConfigAndParticles(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	defer om.Close()

	cfg := config.Default()
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	loaded, err := config.Load(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("reloading written config: %v", err)
	}
	if len(loaded.Emitters) != len(cfg.Emitters) {
		t.Errorf("reloaded %d emitters, want %d", len(loaded.Emitters), len(cfg.Emitters))
	}

	f := testField(t, "dump", 4)
	f.Update(0.1)
	f.Update(0.1)
	if err := om.WriteParticles(2, []*systems.ParticleField{f}); err != nil {
		t.Fatalf("WriteParticles: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "particles.csv"))
	if err != nil {
		t.Fatalf("reading particles.csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected header + 4 slots, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "tick,emitter,slot,active") {
		t.Errorf("unexpected header %q", lines[0])
	}
}
