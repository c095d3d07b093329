package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/scenekit/internal/engine/controls"
	"github.com/Faultbox/scenekit/internal/engine/debug"
	"github.com/Faultbox/scenekit/internal/engine/geometry"
	"github.com/Faultbox/scenekit/internal/engine/loop"
)

var (
	_ loop.Backend          = (*Renderer)(nil)
	_ controls.StereoTarget = (*Renderer)(nil)
)

func TestBuildVerticesGroupsByMaterial(t *testing.T) {
	g := geometry.NewBox(2, 2, 2)
	data, groups := buildVertices(g)

	require.Len(t, data, len(g.Faces)*3*floatsPerVertex)
	require.Len(t, groups, 6)

	var total int32
	for i, grp := range groups {
		assert.Equal(t, i, grp.material)
		assert.Equal(t, total, grp.first)
		assert.Equal(t, int32(6), grp.count)
		total += grp.count
	}
}

func TestBuildVerticesSortsInterleavedMaterials(t *testing.T) {
	g := &geometry.Geometry{
		Vertices: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Faces: []geometry.Face{
			{A: 0, B: 1, C: 2, MaterialIndex: 1},
			{A: 0, B: 1, C: 2, MaterialIndex: 0, Color: mgl32.Vec3{0.5, 0, 0}},
			{A: 0, B: 1, C: 2, MaterialIndex: 1},
		},
	}
	data, groups := buildVertices(g)

	assert.Equal(t, []drawGroup{{material: 0, first: 0, count: 3}, {material: 1, first: 3, count: 6}}, groups)

	// first vertex: material 0 face, normal +z, colour carried through
	v := data[:floatsPerVertex]
	assert.Equal(t, []float32{0, 0, 0}, v[0:3])
	assert.Equal(t, []float32{0, 0, 1}, v[3:6])
	assert.Equal(t, []float32{0.5, 0, 0}, v[8:11])
}

func TestBuildVerticesCarriesUVs(t *testing.T) {
	g := geometry.NewPlane(1, 1, 1, 1)
	data, _ := buildVertices(g)

	for i, f := range g.Faces {
		for k := 0; k < 3; k++ {
			off := (i*3+k)*floatsPerVertex + 6
			assert.Equal(t, f.UV[k][0], data[off])
			assert.Equal(t, f.UV[k][1], data[off+1])
		}
	}
}

func TestFlattenLines(t *testing.T) {
	a := []debug.LineVertex{{X: 1, Y: 2, Z: 3, R: 1}}
	b := []debug.LineVertex{{X: 4, G: 1}}

	got := flattenLines(nil, a, nil, b)
	assert.Equal(t, []float32{1, 2, 3, 1, 0, 0, 4, 0, 0, 0, 1, 0}, got)
}

func TestEyeRects(t *testing.T) {
	r := eyeRects(1001, 500)
	assert.Equal(t, [4]int32{0, 0, 500, 500}, r[controls.EyeLeft])
	assert.Equal(t, [4]int32{500, 0, 1001, 500}, r[controls.EyeRight])
}
