// Package geometry builds triangle meshes for primitives, boxes and terrain.
package geometry

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/scenekit/pkg/math"
)

// Face is a triangle referencing three vertices by index.
type Face struct {
	A, B, C       int
	Color         mgl32.Vec3
	Centroid      mgl32.Vec3
	UV            [3]mgl32.Vec2
	MaterialIndex int
}

// Geometry is an indexed triangle mesh.
type Geometry struct {
	Name     string
	Vertices []mgl32.Vec3
	Faces    []Face

	// Version is bumped whenever vertices change so GPU copies can be refreshed.
	Version int
}

// Bounds returns the local-space bounding box of the vertices.
func (g *Geometry) Bounds() math.Box3 {
	b := math.EmptyBox()
	for _, v := range g.Vertices {
		b = b.ExpandByPoint(v)
	}
	return b
}

// Translate moves every vertex by d.
func (g *Geometry) Translate(d mgl32.Vec3) {
	for i := range g.Vertices {
		g.Vertices[i] = g.Vertices[i].Add(d)
	}
	g.Version++
}

// ComputeFaceCentroids stores the mean of each face's three vertices.
func (g *Geometry) ComputeFaceCentroids() {
	for i := range g.Faces {
		f := &g.Faces[i]
		f.Centroid = math.Centroid(g.Vertices[f.A], g.Vertices[f.B], g.Vertices[f.C])
	}
}

// Centroids returns the stored face centroids in face order.
func (g *Geometry) Centroids() []mgl32.Vec3 {
	out := make([]mgl32.Vec3, len(g.Faces))
	for i, f := range g.Faces {
		out[i] = f.Centroid
	}
	return out
}

// FaceNormal returns the unit normal of face i.
func (g *Geometry) FaceNormal(i int) mgl32.Vec3 {
	f := g.Faces[i]
	a, b, c := g.Vertices[f.A], g.Vertices[f.B], g.Vertices[f.C]
	n := b.Sub(a).Cross(c.Sub(a))
	if n.Len() == 0 {
		return mgl32.Vec3{}
	}
	return n.Normalize()
}

// MaterialCount returns one more than the highest material index in use.
func (g *Geometry) MaterialCount() int {
	n := 0
	for _, f := range g.Faces {
		if f.MaterialIndex+1 > n {
			n = f.MaterialIndex + 1
		}
	}
	return n
}
