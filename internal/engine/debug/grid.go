package debug

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/scenekit/pkg/math"
)

// LineVertex is one endpoint of a coloured debug line.
type LineVertex struct {
	X, Y, Z float32 // Position
	R, G, B float32 // Color
}

func lineVertex(p, c mgl32.Vec3) LineVertex {
	return LineVertex{p.X(), p.Y(), p.Z(), c.X(), c.Y(), c.Z()}
}

// GridLines returns line pairs for a square grid of the given size centred at
// the origin in the XY plane at height z. The centre lines are brighter.
func GridLines(size float32, divisions int, z float32) []LineVertex {
	if divisions < 1 || size <= 0 {
		return nil
	}
	half := size / 2
	step := size / float32(divisions)
	gridColor := mgl32.Vec3{0.35, 0.35, 0.35}
	axisColor := mgl32.Vec3{0.6, 0.6, 0.6}

	vertices := make([]LineVertex, 0, 4*(divisions+1))
	for i := 0; i <= divisions; i++ {
		k := -half + float32(i)*step
		c := gridColor
		if 2*i == divisions {
			c = axisColor
		}
		vertices = append(vertices,
			lineVertex(mgl32.Vec3{k, -half, z}, c),
			lineVertex(mgl32.Vec3{k, half, z}, c),
			lineVertex(mgl32.Vec3{-half, k, z}, c),
			lineVertex(mgl32.Vec3{half, k, z}, c),
		)
	}
	return vertices
}

// AxisLines returns red, green and blue segments along +X, +Y and +Z.
func AxisLines(length float32) []LineVertex {
	o := mgl32.Vec3{}
	return []LineVertex{
		lineVertex(o, mgl32.Vec3{1, 0, 0}), lineVertex(mgl32.Vec3{length, 0, 0}, mgl32.Vec3{1, 0, 0}),
		lineVertex(o, mgl32.Vec3{0, 1, 0}), lineVertex(mgl32.Vec3{0, length, 0}, mgl32.Vec3{0, 1, 0}),
		lineVertex(o, mgl32.Vec3{0, 0, 1}), lineVertex(mgl32.Vec3{0, 0, length}, mgl32.Vec3{0, 0, 1}),
	}
}

// PathLines samples a curve into line pairs, fading from blue at the start
// to green at the end.
func PathLines(c *math.Curve, samples int) []LineVertex {
	if c == nil || samples < 1 {
		return nil
	}
	vertices := make([]LineVertex, 0, 2*samples)
	prev := c.Point(0)
	for i := 1; i <= samples; i++ {
		t := float32(i) / float32(samples)
		p := c.Point(t)
		color := mgl32.Vec3{0.2, 0.3 + 0.5*t, 1.0 - 0.8*t}
		vertices = append(vertices, lineVertex(prev, color), lineVertex(p, color))
		prev = p
	}
	return vertices
}

// BoxLines returns the twelve edges of b as line pairs.
func BoxLines(b math.Box3, color mgl32.Vec3) []LineVertex {
	if b.IsEmpty() {
		return nil
	}
	c := b.Corners()
	edges := [12][2]int{
		{0, 1}, {1, 3}, {3, 2}, {2, 0},
		{4, 5}, {5, 7}, {7, 6}, {6, 4},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}
	vertices := make([]LineVertex, 0, 24)
	for _, e := range edges {
		vertices = append(vertices, lineVertex(c[e[0]], color), lineVertex(c[e[1]], color))
	}
	return vertices
}
