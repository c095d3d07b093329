// Package anim advances node positions one step per frame for orbiting and
// path-following animations.
package anim

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/scenekit/pkg/math"
)

// Mode selects the animation handler.
type Mode int

const (
	ModeNone Mode = iota
	ModeOrbit
	ModeTranslate
)

// String returns the mode name used in scene files.
func (m Mode) String() string {
	switch m {
	case ModeOrbit:
		return "orbit"
	case ModeTranslate:
		return "translate"
	default:
		return "none"
	}
}

// ParseMode converts a scene file mode name. Unknown names map to ModeNone.
func ParseMode(s string) Mode {
	switch s {
	case "orbit":
		return ModeOrbit
	case "translate", "translation":
		return ModeTranslate
	default:
		return ModeNone
	}
}

// OrbitVariant selects the orbit path shape.
type OrbitVariant int

const (
	// OrbitSphere rotates the position by a fixed small angle every tick.
	OrbitSphere OrbitVariant = iota
	// OrbitEllipse oscillates along a quarter ellipse centred at the world origin.
	OrbitEllipse
)

// ParseOrbitVariant converts a scene file variant name.
func ParseOrbitVariant(s string) OrbitVariant {
	if s == "ellipse" || s == "ellipsis" {
		return OrbitEllipse
	}
	return OrbitSphere
}

// Axes marks axes of a direction mask. In orbit mode the marked axis is the
// rotation axis; the unmarked ones form the rotation plane.
type Axes struct {
	X bool `yaml:"x"`
	Y bool `yaml:"y"`
	Z bool `yaml:"z"`
}

// unmasked returns the indices of the axes that are not marked, in x, y, z order.
func (a Axes) unmasked() []int {
	var out []int
	for i, masked := range [3]bool{a.X, a.Y, a.Z} {
		if !masked {
			out = append(out, i)
		}
	}
	return out
}

// Config is the mutable animation state attached to one node.
type Config struct {
	Animate        bool
	Mode           Mode
	Variant        OrbitVariant
	ReferencePoint *mgl32.Vec3
	Direction      Axes
	ControlPoints  int
	Rate           float32

	// Counter is the progress along Path in [0, 1].
	Counter float32
	// Path is built on the first active translate tick and dropped on completion.
	Path *math.Curve
}

// DefaultCameraConfig is seeded onto the scene camera at composition so the
// host can start camera motion by setting only a reference point and Animate.
func DefaultCameraConfig() *Config {
	return &Config{
		Animate: false,
		Mode:    ModeTranslate,
		Rate:    2,
	}
}

// Stop disables the animation and clears path progress, so the next
// activation starts from the node's position at that time.
func (c *Config) Stop() {
	c.Animate = false
	c.Counter = 0
	c.Path = nil
}

// MoveTo starts a translate animation towards target through controlPoints
// intermediate waypoints.
func (c *Config) MoveTo(target mgl32.Vec3, controlPoints int) {
	c.Stop()
	t := target
	c.ReferencePoint = &t
	c.ControlPoints = controlPoints
	c.Mode = ModeTranslate
	c.Animate = true
}

// OrbitAround starts an orbit about the masked axis.
func (c *Config) OrbitAround(center mgl32.Vec3, axis Axes, variant OrbitVariant) {
	c.Stop()
	p := center
	c.ReferencePoint = &p
	c.Direction = axis
	c.Variant = variant
	c.Mode = ModeOrbit
	c.Animate = true
}
