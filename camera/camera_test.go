package camera

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/fountain/config"
)

func testCameraConfig() config.CameraConfig {
	return config.CameraConfig{
		Target:      r3.Vec{X: 1, Y: 2, Z: 3},
		Distance:    10,
		MinDistance: 2,
		MaxDistance: 50,
	}
}

func near(a, b r3.Vec) bool {
	return r3.Norm(r3.Sub(a, b)) < 1e-9
}

func TestNew(t *testing.T) {
	cam := New(testCameraConfig(), 1280, 720)

	// Zero yaw and pitch looks down -Z from +Z
	want := r3.Vec{X: 1, Y: 2, Z: 13}
	if !near(cam.Position(), want) {
		t.Errorf("expected eye at %v, got %v", want, cam.Position())
	}
	if !near(cam.Forward(), r3.Vec{Z: -1}) {
		t.Errorf("expected forward -Z, got %v", cam.Forward())
	}
}

func TestDistanceIsPreserved(t *testing.T) {
	cfg := testCameraConfig()
	cfg.YawDeg = 35
	cfg.PitchDeg = 25
	cam := New(cfg, 1280, 720)

	d := r3.Norm(r3.Sub(cam.Position(), cam.Target))
	if math.Abs(d-10) > 1e-9 {
		t.Errorf("eye distance %v, want 10", d)
	}
	if cam.Position().Y <= cam.Target.Y {
		t.Error("positive pitch should raise the eye above the target")
	}
}

func TestPitchClamp(t *testing.T) {
	cam := New(testCameraConfig(), 1280, 720)

	cam.Orbit(0, 10)
	if cam.Pitch != MaxPitch {
		t.Errorf("pitch %v, want clamp to %v", cam.Pitch, MaxPitch)
	}
	cam.Orbit(0, -20)
	if cam.Pitch != -MaxPitch {
		t.Errorf("pitch %v, want clamp to %v", cam.Pitch, -MaxPitch)
	}
}

func TestYawWraps(t *testing.T) {
	tests := []struct {
		name string
		dYaw float64
		want float64
	}{
		{"positive wrap", 2*math.Pi + 0.5, 0.5},
		{"negative wrap", -0.5, 2*math.Pi - 0.5},
		{"no wrap", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := New(testCameraConfig(), 1280, 720)
			cam.Orbit(tt.dYaw, 0)
			if math.Abs(cam.Yaw-tt.want) > 1e-9 {
				t.Errorf("yaw = %v, want %v", cam.Yaw, tt.want)
			}
		})
	}
}

func TestZoomConstraints(t *testing.T) {
	cam := New(testCameraConfig(), 1280, 720)

	cam.ZoomBy(100)
	if cam.Distance != 2 {
		t.Errorf("expected min distance 2, got %v", cam.Distance)
	}

	cam.ZoomBy(0.001)
	if cam.Distance != 50 {
		t.Errorf("expected max distance 50, got %v", cam.Distance)
	}

	cam.ZoomBy(0) // ignored
	if cam.Distance != 50 {
		t.Errorf("zero factor changed distance to %v", cam.Distance)
	}
}

func TestPanMovesTargetInViewPlane(t *testing.T) {
	cam := New(testCameraConfig(), 1280, 720)
	before := cam.Target
	forward := cam.Forward()

	cam.Pan(100, -40)

	moved := r3.Sub(cam.Target, before)
	if r3.Norm(moved) == 0 {
		t.Fatal("pan did not move target")
	}
	if math.Abs(r3.Dot(moved, forward)) > 1e-9 {
		t.Errorf("pan moved along view axis: %v", moved)
	}
	// Dragging right moves the target left
	if r3.Dot(moved, cam.Right()) >= 0 {
		t.Errorf("expected leftward target move, got %v", moved)
	}
	// Orientation is unchanged
	if !near(cam.Forward(), forward) {
		t.Errorf("pan changed forward from %v to %v", forward, cam.Forward())
	}
}

func TestBasisIsOrthonormal(t *testing.T) {
	cfg := testCameraConfig()
	cfg.YawDeg = 120
	cfg.PitchDeg = -30
	cam := New(cfg, 800, 600)

	f, r, u := cam.Forward(), cam.Right(), cam.Up()
	for name, v := range map[string]r3.Vec{"forward": f, "right": r, "up": u} {
		if math.Abs(r3.Norm(v)-1) > 1e-9 {
			t.Errorf("%s not unit: %v", name, r3.Norm(v))
		}
	}
	if math.Abs(r3.Dot(f, r)) > 1e-9 || math.Abs(r3.Dot(f, u)) > 1e-9 || math.Abs(r3.Dot(r, u)) > 1e-9 {
		t.Errorf("basis not orthogonal: f=%v r=%v u=%v", f, r, u)
	}
}

func TestReset(t *testing.T) {
	cam := New(testCameraConfig(), 1280, 720)
	home := cam.Position()

	cam.Orbit(1, 0.3)
	cam.Pan(50, 50)
	cam.ZoomBy(2)
	cam.Reset()

	if !near(cam.Position(), home) {
		t.Errorf("reset eye %v, want %v", cam.Position(), home)
	}
}

func TestResetClampsBadConfig(t *testing.T) {
	cam := New(config.CameraConfig{Distance: 5, MinDistance: 0, MaxDistance: -1}, 100, 100)
	if cam.MinDistance <= 0 || cam.MaxDistance < cam.MinDistance {
		t.Errorf("bad limits: min %v max %v", cam.MinDistance, cam.MaxDistance)
	}
	if cam.Distance != cam.MaxDistance {
		t.Errorf("distance %v should clamp to %v", cam.Distance, cam.MaxDistance)
	}
}
