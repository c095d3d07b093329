package geometry

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/scenekit/pkg/math"
)

func TestBoxFaces(t *testing.T) {
	g := NewBox(2, 4, 6)
	require.Len(t, g.Faces, 12)
	assert.Equal(t, 6, g.MaterialCount())

	b := g.Bounds()
	assert.True(t, b.Size().ApproxEqual(mgl32.Vec3{2, 4, 6}), "size %v", b.Size())
	assert.True(t, b.Center().ApproxEqual(mgl32.Vec3{}), "center %v", b.Center())
}

func TestBoxNormalsPointOutward(t *testing.T) {
	g := NewBox(1, 1, 1)
	for i, f := range g.Faces {
		n := g.FaceNormal(i)
		assert.Greater(t, n.Dot(f.Centroid), float32(0), "face %d normal %v centroid %v", i, n, f.Centroid)
	}
}

func TestBoxCentroidMeanIsCenter(t *testing.T) {
	for _, size := range []mgl32.Vec3{{1, 1, 1}, {2, 5, 0.5}, {300, 10, 42}} {
		g := NewBox(size.X(), size.Y(), size.Z())
		offset := mgl32.Vec3{7, -3, 12}
		g.Translate(offset)
		g.ComputeFaceCentroids()

		mean := math.Centroid(g.Centroids()...)
		assert.True(t, mean.ApproxEqualThreshold(offset, 1e-3), "size %v: mean %v want %v", size, mean, offset)
	}
}

func TestSphereBounds(t *testing.T) {
	g := NewSphere(20, 16, 12)
	require.NotEmpty(t, g.Faces)
	assert.Equal(t, "Sphere", g.Name)

	for _, v := range g.Vertices {
		assert.InDelta(t, 20, v.Len(), 1e-3)
	}
	b := g.Bounds()
	assert.InDelta(t, 40, b.Size().Y(), 1e-3)
}

func TestPlaneGrid(t *testing.T) {
	g := NewPlane(10, 20, 2, 4)
	assert.Len(t, g.Vertices, 3*5)
	assert.Len(t, g.Faces, 2*2*4)

	b := g.Bounds()
	assert.True(t, b.Size().ApproxEqual(mgl32.Vec3{10, 20, 0}), "size %v", b.Size())
}

func TestHeightfield(t *testing.T) {
	samples := []uint16{0, 65535, 32767}
	g := NewHeightfield(4, 4, 2, 2, samples)
	require.Len(t, g.Vertices, 4)

	assert.InDelta(t, 0, g.Vertices[0].Z(), 1e-6)
	assert.InDelta(t, 2, g.Vertices[1].Z(), 1e-6)
	assert.InDelta(t, 1, g.Vertices[2].Z(), 1e-3)
	assert.InDelta(t, 0, g.Vertices[3].Z(), 1e-6, "missing sample stays flat")
}
