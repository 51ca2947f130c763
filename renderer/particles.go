package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/fountain/config"
	"github.com/pthm-cable/fountain/game"
)

// FadeSeconds is the remaining lifetime over which a particle fades out.
const FadeSeconds = 1.0

// MinParticleRadius keeps tiny particles visible.
const MinParticleRadius = 0.02

// ParticleRenderer draws active particles as small spheres.
// Call between rl.BeginMode3D and rl.EndMode3D.
type ParticleRenderer struct {
	rings, slices int32
}

// NewParticleRenderer creates a new particle renderer.
func NewParticleRenderer() *ParticleRenderer {
	return &ParticleRenderer{rings: 4, slices: 6}
}

// Draw renders the active particles of every visible emitter.
func (r *ParticleRenderer) Draw(views []game.EmitterView) {
	for i := range views {
		v := &views[i]
		if !v.Visible {
			continue
		}

		base := ModeColor(v.Mode)
		radius := float32(v.Size)
		if radius < MinParticleRadius {
			radius = MinParticleRadius
		}

		for j := range v.Particles {
			p := &v.Particles[j]
			if !p.Active {
				continue
			}

			alpha := float32(p.LifeTime / FadeSeconds)
			if alpha > 1 {
				alpha = 1
			}
			if alpha < 0.1 {
				alpha = 0.1
			}

			rl.DrawSphereEx(Vec3(r3.Add(p.Position, v.Offset)), radius, r.rings, r.slices, rl.Fade(base, alpha))
		}
	}
}

// ModeColor returns the particle color for an emission mode.
func ModeColor(m config.EmissionMode) rl.Color {
	switch m {
	case config.Cascade:
		return rl.Color{R: 80, G: 170, B: 255, A: 255}
	case config.Cannon:
		return rl.Color{R: 255, G: 150, B: 50, A: 255}
	default:
		return rl.White
	}
}

// Vec3 converts a world vector to a raylib vector.
func Vec3(v r3.Vec) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}
