package renderer

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/scenekit/internal/engine/debug"
)

// lineBatch streams debug line vertices to the GPU each frame.
type lineBatch struct {
	vao      uint32
	vbo      uint32
	capacity int
	data     []float32
}

func newLineBatch() *lineBatch {
	b := &lineBatch{}
	gl.GenVertexArrays(1, &b.vao)
	gl.GenBuffers(1, &b.vbo)

	gl.BindVertexArray(b.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	stride := int32(6 * 4)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)
	gl.BindVertexArray(0)
	return b
}

// flattenLines appends the vertices as position/colour float runs.
func flattenLines(dst []float32, sets ...[]debug.LineVertex) []float32 {
	for _, set := range sets {
		for _, v := range set {
			dst = append(dst, v.X, v.Y, v.Z, v.R, v.G, v.B)
		}
	}
	return dst
}

func (r *Renderer) drawLines(viewProj mgl32.Mat4) {
	b := r.lines
	b.data = flattenLines(b.data[:0], r.grid)
	if r.Overlay != nil {
		b.data = flattenLines(b.data, r.Overlay())
	}
	if len(b.data) == 0 {
		return
	}

	r.lineProgram.Use()
	gl.UniformMatrix4fv(r.lineProgram.Loc("uViewProj"), 1, false, &viewProj[0])

	gl.BindVertexArray(b.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	size := len(b.data) * 4
	if size > b.capacity {
		gl.BufferData(gl.ARRAY_BUFFER, size, unsafe.Pointer(&b.data[0]), gl.DYNAMIC_DRAW)
		b.capacity = size
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, size, unsafe.Pointer(&b.data[0]))
	}
	gl.DrawArrays(gl.LINES, 0, int32(len(b.data)/6))
	gl.BindVertexArray(0)
}

func (b *lineBatch) destroy() {
	gl.DeleteVertexArrays(1, &b.vao)
	gl.DeleteBuffers(1, &b.vbo)
}
