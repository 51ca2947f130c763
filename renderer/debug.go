package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/fountain/config"
	"github.com/pthm-cable/fountain/game"
)

// Collision shape colors.
var (
	PlaneColor   = rl.Red
	CapsuleColor = rl.Green
	SphereColor  = rl.Blue
)

// DebugRenderer draws emitter collision shapes and emission geometry as
// wireframes. Shapes are visual only; particles pass through them.
type DebugRenderer struct {
	PlaneHalfExtent float64
	NormalLength    float64
	ShowCollision   bool
	ShowEmission    bool
}

// NewDebugRenderer creates a debug renderer with default sizes.
func NewDebugRenderer() *DebugRenderer {
	return &DebugRenderer{
		PlaneHalfExtent: 5,
		NormalLength:    1,
		ShowCollision:   true,
		ShowEmission:    true,
	}
}

// Draw renders debug geometry of every visible emitter.
// Call between rl.BeginMode3D and rl.EndMode3D.
func (d *DebugRenderer) Draw(views []game.EmitterView, settings []config.EmitterConfig) {
	for i := range views {
		v := &views[i]
		if !v.Visible {
			continue
		}
		if d.ShowCollision {
			d.drawCollision(v.Collision, v.Offset)
		}
		if d.ShowEmission && v.Index < len(settings) {
			d.drawEmission(settings[v.Index], v.Offset)
		}
	}
}

func (d *DebugRenderer) drawCollision(cs config.CollisionSettings, offset r3.Vec) {
	for _, p := range cs.Planes {
		corners := p.Corners(d.PlaneHalfExtent)
		for k := range corners {
			a := r3.Add(corners[k], offset)
			b := r3.Add(corners[(k+1)%len(corners)], offset)
			rl.DrawLine3D(Vec3(a), Vec3(b), PlaneColor)
		}
		origin := r3.Add(p.Point, offset)
		tip := r3.Add(origin, r3.Scale(d.NormalLength, planeNormal(p)))
		rl.DrawLine3D(Vec3(origin), Vec3(tip), PlaneColor)
	}

	for _, c := range cs.Capsules {
		rl.DrawCapsuleWires(Vec3(r3.Add(c.A, offset)), Vec3(r3.Add(c.B, offset)), float32(c.Radius), 8, 4, CapsuleColor)
	}

	for _, s := range cs.Spheres {
		rl.DrawSphereWires(Vec3(r3.Add(s.Center, offset)), float32(s.Radius), 8, 8, SphereColor)
	}
}

// drawEmission marks where particles originate: the cascade segment or the
// cannon muzzle with its aim direction.
func (d *DebugRenderer) drawEmission(ec config.EmitterConfig, offset r3.Vec) {
	color := rl.Fade(ModeColor(ec.Mode), 0.6)

	switch ec.Mode {
	case config.Cascade:
		a := r3.Add(ec.Cascade.PointA, offset)
		b := r3.Add(ec.Cascade.PointB, offset)
		rl.DrawLine3D(Vec3(a), Vec3(b), color)
		if n := r3.Norm(ec.Cascade.Direction); n > 0 {
			mid := r3.Scale(0.5, r3.Add(a, b))
			tip := r3.Add(mid, r3.Scale(d.NormalLength/n, ec.Cascade.Direction))
			rl.DrawLine3D(Vec3(mid), Vec3(tip), color)
		}
	case config.Cannon:
		start := r3.Add(ec.Cannon.Start, offset)
		rl.DrawSphereWires(Vec3(start), 0.15, 4, 6, color)
		if n := r3.Norm(ec.Cannon.Direction); n > 0 {
			tip := r3.Add(start, r3.Scale(d.NormalLength/n, ec.Cannon.Direction))
			rl.DrawLine3D(Vec3(start), Vec3(tip), color)
		}
	}
}

func planeNormal(p config.Plane) r3.Vec {
	if r3.Norm(p.Normal) == 0 {
		return r3.Vec{Y: 1}
	}
	return r3.Unit(p.Normal)
}
