package game

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/fountain/components"
	"github.com/pthm-cable/fountain/config"
	"github.com/pthm-cable/fountain/systems"
)

// EmitterView is a read-only view of one emitter for drawing and the HUD.
// Particles aliases the field's pool and is only valid until the next Step.
type EmitterView struct {
	Index     int
	Name      string
	Mode      config.EmissionMode
	Offset    r3.Vec
	Visible   bool
	Particles []systems.Particle
	Size      float64
	Collision config.CollisionSettings
	Readout   components.Readout
}

// Emitters returns a view per emitter in config order.
func (g *Game) Emitters() []EmitterView {
	views := make([]EmitterView, len(g.fields))

	query := g.emitterFilter.Query()
	for query.Next() {
		em, pl, ro := query.Get()
		f := em.Field
		views[em.Index] = EmitterView{
			Index:     em.Index,
			Name:      f.Name(),
			Mode:      f.Mode(),
			Offset:    pl.Offset,
			Visible:   pl.Visible,
			Particles: f.Pool(),
			Size:      f.Settings().Particle.Size,
			Collision: f.Collision(),
			Readout:   *ro,
		}
	}
	return views
}
