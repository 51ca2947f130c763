// Package components defines ECS components for the emitter world.
package components

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/fountain/systems"
)

// Emitter binds a particle field to an entity.
type Emitter struct {
	Field *systems.ParticleField
	Index int // Position in the config emitter list
}

// Placement positions an emitter in the scene.
// Particle positions are local to the emitter; Offset moves them for drawing.
type Placement struct {
	Offset  r3.Vec
	Visible bool
}

// Readout caches per-emitter values for the HUD, refreshed once per tick.
type Readout struct {
	Active        int
	Capacity      int
	SpawnInterval float64
	Counters      systems.FieldCounters
}

// Occupancy returns the active fraction of the pool.
func (r Readout) Occupancy() float64 {
	if r.Capacity == 0 {
		return 0
	}
	return float64(r.Active) / float64(r.Capacity)
}
