package geometry

import "github.com/go-gl/mathgl/mgl32"

// NewPlane creates a plane in the XY plane centred at the origin, split into
// widthSegments x heightSegments quads.
func NewPlane(width, height float32, widthSegments, heightSegments int) *Geometry {
	if widthSegments < 1 {
		widthSegments = 1
	}
	if heightSegments < 1 {
		heightSegments = 1
	}

	g := &Geometry{Name: "Plane"}
	cols := widthSegments + 1
	segW := width / float32(widthSegments)
	segH := height / float32(heightSegments)

	for iy := 0; iy <= heightSegments; iy++ {
		y := height/2 - float32(iy)*segH
		for ix := 0; ix <= widthSegments; ix++ {
			x := float32(ix)*segW - width/2
			g.Vertices = append(g.Vertices, mgl32.Vec3{x, y, 0})
		}
	}

	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := ix + cols*iy
			b := ix + cols*(iy+1)
			c := ix + 1 + cols*(iy+1)
			d := ix + 1 + cols*iy

			u0 := float32(ix) / float32(widthSegments)
			u1 := float32(ix+1) / float32(widthSegments)
			v0 := 1 - float32(iy)/float32(heightSegments)
			v1 := 1 - float32(iy+1)/float32(heightSegments)

			g.Faces = append(g.Faces,
				Face{A: a, B: b, C: d, UV: [3]mgl32.Vec2{{u0, v0}, {u0, v1}, {u1, v0}}},
				Face{A: b, B: c, C: d, UV: [3]mgl32.Vec2{{u0, v1}, {u1, v1}, {u1, v0}}},
			)
		}
	}

	g.ComputeFaceCentroids()
	return g
}

// HeightScale maps a raw 16-bit sample to a vertex elevation.
const HeightScale = 2.0 / 65535.0

// NewHeightfield creates a plane of widthPoints x heightPoints vertices and
// sets each vertex z from the matching sample. Missing samples leave z at 0.
func NewHeightfield(width, height float32, widthPoints, heightPoints int, samples []uint16) *Geometry {
	g := NewPlane(width, height, widthPoints-1, heightPoints-1)
	g.Name = "Terrain"
	for i := range g.Vertices {
		if i >= len(samples) {
			break
		}
		g.Vertices[i][2] = float32(samples[i]) * HeightScale
	}
	g.ComputeFaceCentroids()
	return g
}
