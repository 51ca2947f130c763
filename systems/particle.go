package systems

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/fountain/config"
)

// ParkedPosition is where inactive slots are moved each frame so a renderer
// that ignores Active still draws them out of view.
var ParkedPosition = r3.Vec{X: 100, Y: 100, Z: 100}

// Particle is one slot of a ParticleField pool.
type Particle struct {
	Active bool

	Mass     float64
	Size     float64
	LifeTime float64 // Seconds remaining; the slot retires once this is observed below zero

	Force        r3.Vec // Accumulator, cleared after every integration step
	Position     r3.Vec
	Velocity     r3.Vec
	Acceleration r3.Vec
}

// InitCommon activates the particle and applies the shared particle settings.
func (p *Particle) InitCommon(s config.ParticleSettings) {
	p.Active = true

	p.Size = s.Size
	p.Mass = s.Mass

	p.Acceleration = r3.Vec{}
	p.Velocity = r3.Vec{}
}

// InitCascade places the particle at a random point on the A-B segment and
// gives it a random per-axis impulse along the cascade direction.
func (p *Particle) InitCascade(s config.CascadeSettings, rng *rand.Rand) {
	p.LifeTime = randTruncRange(rng, s.MinParticlesLifeTime, s.MaxParticlesLifeTime)

	p.Position = lerp(s.PointA, s.PointB, rng.Float64())

	// Negative direction components flip the impulse bounds; randTruncRange reorders them.
	p.Force = r3.Vec{
		X: randTruncRange(rng, s.Direction.X*s.MinImpulse, s.Direction.X*s.MaxImpulse),
		Y: randTruncRange(rng, s.Direction.Y*s.MinImpulse, s.Direction.Y*s.MaxImpulse),
		Z: randTruncRange(rng, s.Direction.Z*s.MinImpulse, s.Direction.Z*s.MaxImpulse),
	}
}

// InitCannon places the particle at the cannon start with no initial force.
func (p *Particle) InitCannon(s config.CannonSettings, rng *rand.Rand) {
	p.LifeTime = randTruncRange(rng, s.MinParticlesLifeTime, s.MaxParticlesLifeTime)

	p.Position = s.Start

	p.Force = r3.Vec{}
}

// IsExpired deactivates the particle and reports true once its lifetime is
// negative. It never decrements the lifetime.
func (p *Particle) IsExpired() bool {
	if p.LifeTime < 0 {
		p.Active = false
		return true
	}
	return false
}

// Integrate advances the particle one explicit Euler step under gravity.
func (p *Particle) Integrate(g config.GlobalSettings, dt float64) {
	p.Force = r3.Add(p.Force, g.Gravity)

	p.Acceleration = r3.Scale(1/p.Mass, p.Force)
	p.Velocity = r3.Add(p.Velocity, r3.Scale(dt, p.Acceleration))
	p.Position = r3.Add(p.Position, r3.Scale(dt, p.Velocity))

	p.Force = r3.Vec{}
}

// Park moves the particle to ParkedPosition.
func (p *Particle) Park() {
	p.Position = ParkedPosition
}
