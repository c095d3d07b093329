package geometry

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// NewSphere creates a UV sphere centred at the origin.
// widthSegments and heightSegments are clamped to at least 3 and 2.
func NewSphere(radius float32, widthSegments, heightSegments int) *Geometry {
	if widthSegments < 3 {
		widthSegments = 3
	}
	if heightSegments < 2 {
		heightSegments = 2
	}

	g := &Geometry{Name: "Sphere"}
	grid := make([][]int, heightSegments+1)

	for iy := 0; iy <= heightSegments; iy++ {
		v := float32(iy) / float32(heightSegments)
		row := make([]int, widthSegments+1)
		for ix := 0; ix <= widthSegments; ix++ {
			u := float32(ix) / float32(widthSegments)
			phi := u * 2 * math32.Pi
			theta := v * math32.Pi
			g.Vertices = append(g.Vertices, mgl32.Vec3{
				-radius * math32.Cos(phi) * math32.Sin(theta),
				radius * math32.Cos(theta),
				radius * math32.Sin(phi) * math32.Sin(theta),
			})
			row[ix] = len(g.Vertices) - 1
		}
		grid[iy] = row
	}

	for iy := 0; iy < heightSegments; iy++ {
		v0 := float32(iy) / float32(heightSegments)
		v1 := float32(iy+1) / float32(heightSegments)
		for ix := 0; ix < widthSegments; ix++ {
			u0 := float32(ix) / float32(widthSegments)
			u1 := float32(ix+1) / float32(widthSegments)

			a := grid[iy][ix+1]
			b := grid[iy][ix]
			c := grid[iy+1][ix]
			d := grid[iy+1][ix+1]

			if iy != 0 {
				g.Faces = append(g.Faces, Face{A: a, B: b, C: d,
					UV: [3]mgl32.Vec2{{u1, 1 - v0}, {u0, 1 - v0}, {u1, 1 - v1}}})
			}
			if iy != heightSegments-1 {
				g.Faces = append(g.Faces, Face{A: b, B: c, C: d,
					UV: [3]mgl32.Vec2{{u0, 1 - v0}, {u0, 1 - v1}, {u1, 1 - v1}}})
			}
		}
	}

	g.ComputeFaceCentroids()
	return g
}
