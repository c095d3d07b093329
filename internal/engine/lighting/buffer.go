package lighting

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/scenekit/internal/engine/node"
)

// Shader array sizes.
const (
	MaxPointLights       = 32
	MaxDirectionalLights = 4
)

// PointLight is a point light flattened for GPU upload.
type PointLight struct {
	Position  [3]float32 // World position
	Color     [3]float32 // RGB color (0-1 range)
	Range     float32    // 0 = no falloff
	Intensity float32
}

// DirectionalLight is a directional light flattened for GPU upload.
type DirectionalLight struct {
	Direction [3]float32 // unit vector from the light towards the scene
	Color     [3]float32 // RGB premultiplied by intensity
}

// PointLightBuffer holds the lights of one frame for GPU upload.
type PointLightBuffer struct {
	Ambient     [3]float32
	Lights      []PointLight
	Directional []DirectionalLight
	Count       int
}

// NewPointLightBuffer creates an empty point light buffer.
func NewPointLightBuffer() *PointLightBuffer {
	return &PointLightBuffer{
		Lights:      make([]PointLight, 0, MaxPointLights),
		Directional: make([]DirectionalLight, 0, MaxDirectionalLights),
	}
}

// Collect refills the buffer from the light nodes of g. Ambient lights are
// summed; lights beyond the shader limits are dropped. It returns the number
// of lights dropped.
func (b *PointLightBuffer) Collect(g *node.Graph) int {
	b.Clear()
	dropped := 0
	for _, n := range g.Lights() {
		if !n.Visible {
			continue
		}
		l := n.Light
		c := l.Color.Mul(l.Intensity)
		switch l.Type {
		case node.AmbientLight:
			for i := 0; i < 3; i++ {
				b.Ambient[i] += c[i]
			}
		case node.PointLight:
			if !b.AddLight(PointLight{
				Position:  n.WorldPosition(),
				Color:     clampColor(l.Color),
				Range:     l.Range,
				Intensity: l.Intensity,
			}) {
				dropped++
			}
		case node.DirectionalLight:
			if len(b.Directional) >= MaxDirectionalLights {
				dropped++
				continue
			}
			dir := n.WorldPosition().Mul(-1)
			if dir.Len() == 0 {
				dir = mgl32.Vec3{0, -1, 0}
			}
			b.Directional = append(b.Directional, DirectionalLight{
				Direction: dir.Normalize(),
				Color:     c,
			})
		}
	}
	return dropped
}

func clampColor(c mgl32.Vec3) [3]float32 {
	for i := 0; i < 3; i++ {
		if c[i] > 1.0 {
			c[i] = 1.0
		}
		if c[i] < 0.0 {
			c[i] = 0.0
		}
	}
	return c
}

// Clear removes all lights from the buffer.
func (b *PointLightBuffer) Clear() {
	b.Ambient = [3]float32{}
	b.Lights = b.Lights[:0]
	b.Directional = b.Directional[:0]
	b.Count = 0
}

// AddLight adds a point light to the buffer.
// Returns false if buffer is full.
func (b *PointLightBuffer) AddLight(light PointLight) bool {
	if b.Count >= MaxPointLights {
		return false
	}
	b.Lights = append(b.Lights, light)
	b.Count++
	return true
}

// GetPositions returns positions as a flat float32 slice for GPU upload.
// Format: [x0, y0, z0, x1, y1, z1, ...]
func (b *PointLightBuffer) GetPositions() []float32 {
	result := make([]float32, MaxPointLights*3)
	for i, light := range b.Lights {
		copy(result[i*3:], light.Position[:])
	}
	return result
}

// GetColors returns colors as a flat float32 slice for GPU upload.
func (b *PointLightBuffer) GetColors() []float32 {
	result := make([]float32, MaxPointLights*3)
	for i, light := range b.Lights {
		copy(result[i*3:], light.Color[:])
	}
	return result
}

// GetRanges returns ranges as a flat float32 slice for GPU upload.
func (b *PointLightBuffer) GetRanges() []float32 {
	result := make([]float32, MaxPointLights)
	for i, light := range b.Lights {
		result[i] = light.Range
	}
	return result
}

// GetIntensities returns intensities as a flat float32 slice for GPU upload.
func (b *PointLightBuffer) GetIntensities() []float32 {
	result := make([]float32, MaxPointLights)
	for i, light := range b.Lights {
		result[i] = light.Intensity
	}
	return result
}

// GetDirections returns directional light directions, flat.
func (b *PointLightBuffer) GetDirections() []float32 {
	result := make([]float32, MaxDirectionalLights*3)
	for i, light := range b.Directional {
		copy(result[i*3:], light.Direction[:])
	}
	return result
}

// GetDirectionalColors returns directional light colours, flat.
func (b *PointLightBuffer) GetDirectionalColors() []float32 {
	result := make([]float32, MaxDirectionalLights*3)
	for i, light := range b.Directional {
		copy(result[i*3:], light.Color[:])
	}
	return result
}
