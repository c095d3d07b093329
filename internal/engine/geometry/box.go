package geometry

import "github.com/go-gl/mathgl/mgl32"

// Box side order, also used as material indices: +x, -x, +y, -y, +z, -z.
const (
	SidePosX = iota
	SideNegX
	SidePosY
	SideNegY
	SidePosZ
	SideNegZ
)

// NewBox creates a box centred at the origin with two triangles per side.
//
// Each triangle on a side has a mirror triangle on the opposite side obtained
// by reflecting its vertices through the centre, so the face centroids
// average out to the box centre.
func NewBox(width, height, depth float32) *Geometry {
	hx, hy, hz := width/2, height/2, depth/2
	g := &Geometry{Name: "Box"}

	corner := func(i int) mgl32.Vec3 {
		v := mgl32.Vec3{-hx, -hy, -hz}
		if i&1 != 0 {
			v[0] = hx
		}
		if i&2 != 0 {
			v[1] = hy
		}
		if i&4 != 0 {
			v[2] = hz
		}
		return v
	}

	// Quads on the positive sides, counter-clockwise seen from outside.
	positive := []struct {
		side int
		quad [4]int
	}{
		{SidePosX, [4]int{5, 1, 3, 7}},
		{SidePosY, [4]int{3, 2, 6, 7}},
		{SidePosZ, [4]int{4, 5, 7, 6}},
	}
	uvs := [4]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	addQuad := func(side int, q [4]int) {
		base := len(g.Vertices)
		for _, ci := range q {
			g.Vertices = append(g.Vertices, corner(ci))
		}
		g.Faces = append(g.Faces,
			Face{A: base, B: base + 1, C: base + 2, UV: [3]mgl32.Vec2{uvs[0], uvs[1], uvs[2]}, MaterialIndex: side},
			Face{A: base, B: base + 2, C: base + 3, UV: [3]mgl32.Vec2{uvs[0], uvs[2], uvs[3]}, MaterialIndex: side},
		)
	}

	for _, p := range positive {
		addQuad(p.side, p.quad)
		// Reflect through the centre (corner i -> 7-i) and reverse winding.
		m := p.quad
		addQuad(p.side+1, [4]int{7 - m[0], 7 - m[3], 7 - m[2], 7 - m[1]})
	}

	g.ComputeFaceCentroids()
	return g
}
