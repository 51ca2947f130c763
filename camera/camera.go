// Package camera provides an orbit camera model for the 3D viewport.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/fountain/config"
)

// MaxPitch keeps the eye off the poles where the up vector degenerates.
const MaxPitch = 89 * math.Pi / 180

// worldUp is the +Y axis.
var worldUp = r3.Vec{Y: 1}

// Camera orbits a target point at a distance.
// Yaw rotates about +Y starting from +Z; pitch raises the eye above the XZ plane.
type Camera struct {
	Target   r3.Vec
	Distance float64
	Yaw      float64 // radians, wrapped to [0, 2pi)
	Pitch    float64 // radians, clamped to [-MaxPitch, MaxPitch]

	// Zoom constraints
	MinDistance, MaxDistance float64

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	home config.CameraConfig
}

// New creates a camera from the configured placement.
func New(cfg config.CameraConfig, viewportW, viewportH float32) *Camera {
	c := &Camera{
		ViewportW: viewportW,
		ViewportH: viewportH,
		home:      cfg,
	}
	c.Reset()
	return c
}

// Reset returns the camera to the configured placement.
func (c *Camera) Reset() {
	c.MinDistance = c.home.MinDistance
	c.MaxDistance = c.home.MaxDistance
	if c.MinDistance <= 0 {
		c.MinDistance = 0.1
	}
	if c.MaxDistance < c.MinDistance {
		c.MaxDistance = c.MinDistance
	}

	c.Target = c.home.Target
	c.SetDistance(c.home.Distance)
	c.Yaw = 0
	c.Pitch = 0
	c.Orbit(c.home.YawDeg*math.Pi/180, c.home.PitchDeg*math.Pi/180)
}

// Position returns the eye position in world coordinates.
func (c *Camera) Position() r3.Vec {
	cp := math.Cos(c.Pitch)
	offset := r3.Vec{
		X: cp * math.Sin(c.Yaw),
		Y: math.Sin(c.Pitch),
		Z: cp * math.Cos(c.Yaw),
	}
	return r3.Add(c.Target, r3.Scale(c.Distance, offset))
}

// Forward returns the unit view direction.
func (c *Camera) Forward() r3.Vec {
	return r3.Unit(r3.Sub(c.Target, c.Position()))
}

// Right returns the unit screen-right direction.
func (c *Camera) Right() r3.Vec {
	return r3.Unit(r3.Cross(c.Forward(), worldUp))
}

// Up returns the unit screen-up direction.
func (c *Camera) Up() r3.Vec {
	return r3.Cross(c.Right(), c.Forward())
}

// Orbit rotates the eye around the target.
func (c *Camera) Orbit(dYaw, dPitch float64) {
	c.Yaw = mod(c.Yaw+dYaw, 2*math.Pi)
	c.Pitch = clamp(c.Pitch+dPitch, -MaxPitch, MaxPitch)
}

// Pan moves the target by the given delta in screen pixels.
// The world distance per pixel grows with orbit distance.
func (c *Camera) Pan(dx, dy float32) {
	perPixel := c.Distance / float64(max(c.ViewportH, 1))
	move := r3.Add(
		r3.Scale(-float64(dx)*perPixel, c.Right()),
		r3.Scale(float64(dy)*perPixel, c.Up()),
	)
	c.Target = r3.Add(c.Target, move)
}

// SetDistance sets the orbit distance, clamped to min/max.
func (c *Camera) SetDistance(d float64) {
	c.Distance = clamp(d, c.MinDistance, c.MaxDistance)
}

// ZoomBy moves the eye toward the target by the given factor (>1 zooms in).
func (c *Camera) ZoomBy(factor float64) {
	if factor <= 0 {
		return
	}
	c.SetDistance(c.Distance / factor)
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// mod computes the positive modulo (Go's math.Mod can return negative).
func mod(x, m float64) float64 {
	r := math.Mod(x, m)
	if r < 0 {
		r += m
	}
	return r
}

// clamp restricts a value to a range.
func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
