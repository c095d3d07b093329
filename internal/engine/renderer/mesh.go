package renderer

import (
	"sort"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/scenekit/internal/engine/geometry"
)

// floatsPerVertex is position(3) + normal(3) + uv(2) + colour(3).
const floatsPerVertex = 11

// drawGroup is a run of vertices sharing one material.
type drawGroup struct {
	material int
	first    int32
	count    int32
}

type gpuMesh struct {
	vao     uint32
	vbo     uint32
	groups  []drawGroup
	version int
}

// buildVertices expands the indexed faces of g into flat-shaded triangle
// vertices ordered by material index, and returns the draw group of each
// material in use.
func buildVertices(g *geometry.Geometry) ([]float32, []drawGroup) {
	order := make([]int, len(g.Faces))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return g.Faces[order[a]].MaterialIndex < g.Faces[order[b]].MaterialIndex
	})

	data := make([]float32, 0, len(g.Faces)*3*floatsPerVertex)
	var groups []drawGroup
	for i, fi := range order {
		f := g.Faces[fi]
		if len(groups) == 0 || groups[len(groups)-1].material != f.MaterialIndex {
			groups = append(groups, drawGroup{material: f.MaterialIndex, first: int32(i * 3)})
		}
		groups[len(groups)-1].count += 3

		n := g.FaceNormal(fi)
		for k, vi := range [3]int{f.A, f.B, f.C} {
			p := g.Vertices[vi]
			uv := f.UV[k]
			data = append(data,
				p[0], p[1], p[2],
				n[0], n[1], n[2],
				uv[0], uv[1],
				f.Color[0], f.Color[1], f.Color[2],
			)
		}
	}
	return data, groups
}

func (r *Renderer) mesh(g *geometry.Geometry) *gpuMesh {
	m, ok := r.meshes[g]
	if ok && m.version == g.Version {
		return m
	}
	if !ok {
		m = &gpuMesh{}
		gl.GenVertexArrays(1, &m.vao)
		gl.GenBuffers(1, &m.vbo)
		r.meshes[g] = m
	}

	data, groups := buildVertices(g)
	m.groups = groups
	m.version = g.Version

	gl.BindVertexArray(m.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, unsafe.Pointer(&data[0]), gl.STATIC_DRAW)
	}

	stride := int32(floatsPerVertex * 4)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, 6*4)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointerWithOffset(3, 3, gl.FLOAT, false, stride, 8*4)
	gl.EnableVertexAttribArray(3)

	gl.BindVertexArray(0)
	return m
}

func (m *gpuMesh) destroy() {
	gl.DeleteVertexArrays(1, &m.vao)
	gl.DeleteBuffers(1, &m.vbo)
}
