package systems

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/pthm-cable/fountain/config"
)

// FieldCounters holds cumulative event counts of a ParticleField.
type FieldCounters struct {
	Spawned   int // Slots initialized by a spawn
	Skipped   int // Spawns dropped because the cursor slot was still active
	Retired   int // Particles deactivated by lifetime expiry
	Resamples int // Spawn interval redraws, including the initial one
}

// ParticleField owns a fixed pool of particles and spawns into it at a rate
// resampled once per simulated second.
//
// Each Update performs at most one spawn, so frames longer than the spawn
// interval emit fewer particles than the configured rate. The cursor rotates
// through the pool and a spawn targeting a slot that is still active is
// dropped rather than redirected.
type ParticleField struct {
	cfg config.EmitterConfig
	rng *rand.Rand

	particles []Particle
	started   bool

	// cursor is the slot the last spawn targeted. It is not a live count.
	cursor int

	secondsAccumulator float64
	timeSinceLastSpawn float64
	spawnInterval      float64

	counters FieldCounters
}

// NewParticleField validates cfg and creates a field. The pool is allocated
// on the first Update. A nil rng is replaced with a time-seeded one.
func NewParticleField(cfg config.EmitterConfig, rng *rand.Rand) (*ParticleField, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("creating particle field: %w", err)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &ParticleField{
		cfg: cfg,
		rng: rng,
	}, nil
}

// Update advances the field by dt seconds and returns the pool. The returned
// slice aliases the field's storage and is overwritten by the next Update;
// callers must not modify it.
func (f *ParticleField) Update(dt float64) []Particle {
	if !f.started {
		f.start()
	}

	if f.timeSinceLastSpawn > f.spawnInterval {
		f.spawn()
	}

	for i := range f.particles {
		p := &f.particles[i]
		if p.Active {
			if p.IsExpired() {
				f.counters.Retired++
				continue
			}
			p.LifeTime -= dt
			p.Integrate(f.cfg.Global, dt)
		} else {
			p.Park()
		}
	}

	// Rate changes once per simulated second
	if f.secondsAccumulator > 1.0 {
		f.secondsAccumulator -= 1.0
		f.spawnInterval = f.newSpawnInterval()
	}

	f.secondsAccumulator += dt
	f.timeSinceLastSpawn += dt

	return f.particles
}

// start allocates the pool and draws the first spawn interval.
func (f *ParticleField) start() {
	f.started = true

	f.cursor = 0
	f.particles = make([]Particle, f.cfg.Global.PoolSize)
	for i := range f.particles {
		f.particles[i].Park()
	}

	f.spawnInterval = f.newSpawnInterval()
}

// newSpawnInterval draws a particles-per-second rate and converts it to
// seconds between spawns. A zero rate falls back to one second.
func (f *ParticleField) newSpawnInterval() float64 {
	f.counters.Resamples++

	lo, hi := f.cfg.RateRange()
	perSecond := randIntRange(f.rng, int(lo), int(hi))
	if perSecond != 0 {
		return 1.0 / float64(perSecond)
	}
	return 1.0
}

// spawn consumes one interval and initializes the next cursor slot if it is free.
func (f *ParticleField) spawn() {
	// Carry the remainder so the average rate holds across frames
	f.timeSinceLastSpawn -= f.spawnInterval

	f.cursor++
	if f.cursor >= len(f.particles) {
		f.cursor = 0
	}

	p := &f.particles[f.cursor]
	if p.Active {
		f.counters.Skipped++
		return
	}

	p.InitCommon(f.cfg.Particle)
	switch f.cfg.Mode {
	case config.Cascade:
		p.InitCascade(f.cfg.Cascade, f.rng)
	case config.Cannon:
		p.InitCannon(f.cfg.Cannon, f.rng)
	}
	f.counters.Spawned++
}

// Pool returns the particle slots, or nil before the first Update.
func (f *ParticleField) Pool() []Particle {
	return f.particles
}

// ActiveCount scans the pool for active slots.
func (f *ParticleField) ActiveCount() int {
	n := 0
	for i := range f.particles {
		if f.particles[i].Active {
			n++
		}
	}
	return n
}

// Capacity returns the configured pool size.
func (f *ParticleField) Capacity() int {
	return f.cfg.Global.PoolSize
}

// Cursor returns the slot index targeted by the most recent spawn attempt.
func (f *ParticleField) Cursor() int {
	return f.cursor
}

// SpawnInterval returns the current seconds between spawn attempts.
// Zero before the first Update.
func (f *ParticleField) SpawnInterval() float64 {
	return f.spawnInterval
}

// Counters returns the cumulative event counts.
func (f *ParticleField) Counters() FieldCounters {
	return f.counters
}

// Name returns the emitter name.
func (f *ParticleField) Name() string {
	return f.cfg.Name
}

// Mode returns the emission mode.
func (f *ParticleField) Mode() config.EmissionMode {
	return f.cfg.Mode
}

// Settings returns a copy of the field's configuration.
func (f *ParticleField) Settings() config.EmitterConfig {
	return f.cfg
}

// Collision returns the collision shapes for a debug visualizer. The field
// never resolves particles against them.
func (f *ParticleField) Collision() config.CollisionSettings {
	return f.cfg.Collision
}
