// Package lighting builds light nodes and flattens them for the GPU.
package lighting

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/scenekit/internal/engine/node"
)

// DefaultColor is the colour of a light declared without one.
const DefaultColor = "#FFFFFF"

// DefaultPointPosition is where a point light starts when no position is given.
var DefaultPointPosition = mgl32.Vec3{0, 250, 0}

// ParseColor parses "#RGB", "#RRGGBB" or "0xRRGGBB" into a 0-1 RGB vector.
func ParseColor(s string) (mgl32.Vec3, error) {
	h := strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(h, "#"):
		h = h[1:]
	case strings.HasPrefix(h, "0x"), strings.HasPrefix(h, "0X"):
		h = h[2:]
	}
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return mgl32.Vec3{}, fmt.Errorf("lighting: invalid colour %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return mgl32.Vec3{}, fmt.Errorf("lighting: invalid colour %q: %w", s, err)
	}
	return mgl32.Vec3{
		float32(v>>16&0xff) / 255,
		float32(v>>8&0xff) / 255,
		float32(v&0xff) / 255,
	}, nil
}

// NewAmbient creates an ambient light node.
func NewAmbient(color mgl32.Vec3, intensity float32) *node.Node {
	n := node.New("ambient-light")
	n.Light = &node.Light{Type: node.AmbientLight, Color: color, Intensity: intensity}
	return n
}

// NewPoint creates a point light node at position. A zero range means the
// light does not fall off with distance.
func NewPoint(color mgl32.Vec3, intensity, lightRange float32, position mgl32.Vec3) *node.Node {
	n := node.New("point-light")
	n.Light = &node.Light{Type: node.PointLight, Color: color, Intensity: intensity, Range: lightRange}
	n.Position = position
	return n
}

// NewDirectional creates a directional light shining from the direction of
// position towards the origin.
func NewDirectional(color mgl32.Vec3, intensity float32, position mgl32.Vec3) *node.Node {
	n := node.New("directional-light")
	n.Light = &node.Light{Type: node.DirectionalLight, Color: color, Intensity: intensity}
	n.Position = position
	return n
}

// SunPosition converts azimuth and elevation angles in degrees into a unit
// vector pointing towards the sun. Azimuth turns around +Y, elevation is
// measured from the horizon.
func SunPosition(azimuth, elevation float32) mgl32.Vec3 {
	az := mgl32.DegToRad(azimuth)
	el := mgl32.DegToRad(elevation)
	return mgl32.Vec3{
		math32.Cos(el) * math32.Sin(az),
		math32.Sin(el),
		math32.Cos(el) * math32.Cos(az),
	}
}
