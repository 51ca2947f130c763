package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

// Validation errors. Validate wraps these with the emitter name and joins them.
var (
	ErrPoolSize = errors.New("pool size must be positive")
	ErrMass     = errors.New("particle mass must be positive")
	ErrRange    = errors.New("invalid range")
	ErrMode     = errors.New("unknown emission mode")
	ErrShape    = errors.New("invalid collision shape")
	ErrDT       = errors.New("simulation dt must be positive")
)

// EmissionMode selects the settings block and initializer a spawned particle uses.
type EmissionMode uint8

const (
	Cascade EmissionMode = iota // Line segment source with randomized impulse
	Cannon                      // Point source, zero initial force
)

// String returns the YAML name of the mode.
func (m EmissionMode) String() string {
	switch m {
	case Cascade:
		return "cascade"
	case Cannon:
		return "cannon"
	default:
		return fmt.Sprintf("EmissionMode(%d)", uint8(m))
	}
}

// ParseEmissionMode converts a mode name (case-insensitive) to an EmissionMode.
func ParseEmissionMode(s string) (EmissionMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cascade":
		return Cascade, nil
	case "cannon":
		return Cannon, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrMode, s)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *EmissionMode) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	mode, err := ParseEmissionMode(s)
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (m EmissionMode) MarshalYAML() (any, error) {
	return m.String(), nil
}

// GlobalSettings holds settings shared by both emission modes.
type GlobalSettings struct {
	PoolSize int     `yaml:"pool_size"` // Number of particle slots, fixed for the field's lifetime
	Gravity  r3.Vec  `yaml:"gravity"`
	Bounce   float64 `yaml:"bounce"` // Restitution for an external collision resolver; unused by the field
}

// CascadeSettings describes a line-segment source.
type CascadeSettings struct {
	PointA          r3.Vec `yaml:"point_a"`
	PointB          r3.Vec `yaml:"point_b"`
	Direction       r3.Vec `yaml:"direction"`        // Per-axis impulse sign and scale
	RandomDirection bool   `yaml:"random_direction"` // Carried for external tools; spawn ignores it

	MinImpulse float64 `yaml:"min_impulse"`
	MaxImpulse float64 `yaml:"max_impulse"`

	MinParticlesPerSecond float64 `yaml:"min_particles_per_second"`
	MaxParticlesPerSecond float64 `yaml:"max_particles_per_second"`

	MinParticlesLifeTime float64 `yaml:"min_particles_lifetime"`
	MaxParticlesLifeTime float64 `yaml:"max_particles_lifetime"`
}

// CannonSettings describes a point source.
type CannonSettings struct {
	Start        r3.Vec  `yaml:"start"`
	Direction    r3.Vec  `yaml:"direction"`
	OpeningAngle float64 `yaml:"opening_angle"` // Cone half-angle in degrees; spread is not simulated

	MinImpulse float64 `yaml:"min_impulse"`
	MaxImpulse float64 `yaml:"max_impulse"`

	MinParticlesPerSecond float64 `yaml:"min_particles_per_second"`
	MaxParticlesPerSecond float64 `yaml:"max_particles_per_second"`

	MinParticlesLifeTime float64 `yaml:"min_particles_lifetime"`
	MaxParticlesLifeTime float64 `yaml:"max_particles_lifetime"`
}

// ParticleSettings is applied uniformly to every spawned particle.
type ParticleSettings struct {
	Size float64 `yaml:"size"`
	Mass float64 `yaml:"mass"`
}

// Plane is an infinite plane through Point with the given Normal.
type Plane struct {
	Point  r3.Vec `yaml:"point"`
	Normal r3.Vec `yaml:"normal"`
}

// Corners returns a square patch of the plane centred on Point with the
// given half extent, in order around the patch. A zero normal falls back to +Y.
func (p Plane) Corners(halfExtent float64) [4]r3.Vec {
	n := p.Normal
	if r3.Norm2(n) == 0 {
		n = r3.Vec{Y: 1}
	}
	n = r3.Unit(n)

	// Pick the world axis least aligned with the normal to build a tangent.
	ref := r3.Vec{X: 1}
	if abs(n.X) > abs(n.Y) && abs(n.X) > abs(n.Z) {
		ref = r3.Vec{Y: 1}
	}
	u := r3.Scale(halfExtent, r3.Unit(r3.Cross(n, ref)))
	v := r3.Scale(halfExtent, r3.Unit(r3.Cross(n, u)))

	return [4]r3.Vec{
		r3.Add(p.Point, r3.Add(u, v)),
		r3.Add(p.Point, r3.Sub(u, v)),
		r3.Sub(p.Point, r3.Add(u, v)),
		r3.Add(p.Point, r3.Sub(v, u)),
	}
}

// Sphere is a collision sphere.
type Sphere struct {
	Center r3.Vec  `yaml:"center"`
	Radius float64 `yaml:"radius"`
}

// Capsule is a swept sphere between A and B.
type Capsule struct {
	A      r3.Vec  `yaml:"a"`
	B      r3.Vec  `yaml:"b"`
	Radius float64 `yaml:"radius"`
}

// CollisionSettings lists shapes for an external collision resolver and the
// debug renderer. The particle field forwards them untouched.
type CollisionSettings struct {
	Planes   []Plane   `yaml:"planes"`
	Spheres  []Sphere  `yaml:"spheres"`
	Capsules []Capsule `yaml:"capsules"`
}

// EmitterConfig is the complete configuration of one particle field.
type EmitterConfig struct {
	Name      string            `yaml:"name"`
	Mode      EmissionMode      `yaml:"mode"`
	Offset    r3.Vec            `yaml:"offset"` // World placement used by the host and renderer
	Global    GlobalSettings    `yaml:"global"`
	Cascade   CascadeSettings   `yaml:"cascade"`
	Cannon    CannonSettings    `yaml:"cannon"`
	Particle  ParticleSettings  `yaml:"particle"`
	Collision CollisionSettings `yaml:"collision"`
}

// RateRange returns the particles-per-second range of the active mode.
func (e *EmitterConfig) RateRange() (lo, hi float64) {
	if e.Mode == Cannon {
		return e.Cannon.MinParticlesPerSecond, e.Cannon.MaxParticlesPerSecond
	}
	return e.Cascade.MinParticlesPerSecond, e.Cascade.MaxParticlesPerSecond
}

// LifeTimeRange returns the lifetime range of the active mode.
func (e *EmitterConfig) LifeTimeRange() (lo, hi float64) {
	if e.Mode == Cannon {
		return e.Cannon.MinParticlesLifeTime, e.Cannon.MaxParticlesLifeTime
	}
	return e.Cascade.MinParticlesLifeTime, e.Cascade.MaxParticlesLifeTime
}

// SetRateRange overwrites the particles-per-second range of the active mode.
func (e *EmitterConfig) SetRateRange(lo, hi float64) {
	if e.Mode == Cannon {
		e.Cannon.MinParticlesPerSecond, e.Cannon.MaxParticlesPerSecond = lo, hi
		return
	}
	e.Cascade.MinParticlesPerSecond, e.Cascade.MaxParticlesPerSecond = lo, hi
}

// SetLifeTimeRange overwrites the lifetime range of the active mode.
func (e *EmitterConfig) SetLifeTimeRange(lo, hi float64) {
	if e.Mode == Cannon {
		e.Cannon.MinParticlesLifeTime, e.Cannon.MaxParticlesLifeTime = lo, hi
		return
	}
	e.Cascade.MinParticlesLifeTime, e.Cascade.MaxParticlesLifeTime = lo, hi
}

// Validate checks the emitter for values that would break the simulation.
// All problems are reported together.
func (e *EmitterConfig) Validate() error {
	var errs []error
	fail := func(err error, format string, args ...any) {
		errs = append(errs, fmt.Errorf("emitter %q: %w: %s", e.Name, err, fmt.Sprintf(format, args...)))
	}

	if e.Global.PoolSize <= 0 {
		fail(ErrPoolSize, "got %d", e.Global.PoolSize)
	}
	if !(e.Particle.Mass > 0) || math.IsInf(e.Particle.Mass, 0) {
		fail(ErrMass, "got %g", e.Particle.Mass)
	}

	checkRange := func(name string, lo, hi float64, allowNegative bool) {
		if !inIntRange(lo) || !inIntRange(hi) {
			fail(ErrRange, "%s bounds [%g, %g] must be finite and within ±%d", name, lo, hi, math.MaxInt32)
			return
		}
		if lo > hi {
			fail(ErrRange, "%s min %g > max %g", name, lo, hi)
		}
		if !allowNegative && lo < 0 {
			fail(ErrRange, "%s min %g is negative", name, lo)
		}
	}

	switch e.Mode {
	case Cascade:
		checkRange("cascade particles per second", e.Cascade.MinParticlesPerSecond, e.Cascade.MaxParticlesPerSecond, false)
		checkRange("cascade lifetime", e.Cascade.MinParticlesLifeTime, e.Cascade.MaxParticlesLifeTime, false)
		checkRange("cascade impulse", e.Cascade.MinImpulse, e.Cascade.MaxImpulse, true)
		// Impulse bounds are scaled per axis by the direction before truncation.
		for _, d := range []float64{e.Cascade.Direction.X, e.Cascade.Direction.Y, e.Cascade.Direction.Z} {
			for _, imp := range []float64{e.Cascade.MinImpulse, e.Cascade.MaxImpulse} {
				if !inIntRange(d * imp) {
					fail(ErrRange, "cascade direction %g times impulse %g is out of range", d, imp)
				}
			}
		}
	case Cannon:
		checkRange("cannon particles per second", e.Cannon.MinParticlesPerSecond, e.Cannon.MaxParticlesPerSecond, false)
		checkRange("cannon lifetime", e.Cannon.MinParticlesLifeTime, e.Cannon.MaxParticlesLifeTime, false)
	default:
		fail(ErrMode, "got %d", uint8(e.Mode))
	}

	for i, s := range e.Collision.Spheres {
		if s.Radius < 0 {
			fail(ErrShape, "sphere %d radius %g", i, s.Radius)
		}
	}
	for i, c := range e.Collision.Capsules {
		if c.Radius < 0 {
			fail(ErrShape, "capsule %d radius %g", i, c.Radius)
		}
	}

	return errors.Join(errs...)
}

// inIntRange reports whether x is finite and truncates to an int32.
func inIntRange(x float64) bool {
	return !math.IsNaN(x) && x >= math.MinInt32 && x <= math.MaxInt32
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
