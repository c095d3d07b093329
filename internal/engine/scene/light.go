package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/scenekit/internal/engine/lighting"
	"github.com/Faultbox/scenekit/internal/engine/node"
)

// defaultSunDistance places a directional light given by angles.
const defaultSunDistance = 100

// Light is a light node.
type Light struct {
	n *node.Node
}

// Light returns the light node.
func (l *Light) Light() *node.Node { return l.n }

// SetPosition moves the light.
func (l *Light) SetPosition(p mgl32.Vec3) { l.n.Position = p }

// NewLight builds a light of kind k.
func NewLight(k Kind, name string, a *LightAttrs) (*Light, error) {
	hex := a.Color
	if hex == "" {
		hex = lighting.DefaultColor
	}
	c, err := lighting.ParseColor(hex)
	if err != nil {
		return nil, fmt.Errorf("%s %q: %w", k, name, err)
	}
	intensity := float32(1)
	if a.Intensity != nil {
		intensity = *a.Intensity
	}

	var n *node.Node
	switch k {
	case KindAmbientLight:
		n = lighting.NewAmbient(c, intensity)
	case KindPointLight:
		pos := lighting.DefaultPointPosition
		if a.Position != nil {
			pos = *a.Position
		}
		n = lighting.NewPoint(c, intensity, a.Range, pos)
	case KindDirectionalLight:
		pos := mgl32.Vec3{0, 1, 0}
		switch {
		case a.Sun != nil:
			d := a.Sun.Distance
			if d <= 0 {
				d = defaultSunDistance
			}
			pos = lighting.SunPosition(a.Sun.Azimuth, a.Sun.Elevation).Mul(d)
		case a.Position != nil:
			pos = *a.Position
		}
		n = lighting.NewDirectional(c, intensity, pos)
	default:
		return nil, fmt.Errorf("%s %q: %w", k, name, ErrMisplacedNode)
	}
	n.Name = name
	return &Light{n: n}, nil
}
