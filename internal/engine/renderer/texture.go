package renderer

import (
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/scenekit/internal/engine/node"
	"github.com/Faultbox/scenekit/internal/engine/texture"
)

type gpuTexture struct {
	id      uint32
	version int
}

// texture returns the GPU texture of mat's map, uploading it when the map
// changed since the last frame. It returns 0 for a material without a map.
func (r *Renderer) texture(mat *node.Material) uint32 {
	if mat.Map == nil {
		return 0
	}
	t, ok := r.textures[mat]
	if ok && t.version == mat.Version {
		return t.id
	}
	if !ok {
		t = &gpuTexture{}
		gl.GenTextures(1, &t.id)
		r.textures[mat] = t
	}
	t.version = mat.Version
	upload(t.id, mat.Map)
	return t.id
}

func upload(id uint32, img image.Image) {
	rgba := texture.ImageToRGBA(img, true)
	w, h := int32(rgba.Rect.Dx()), int32(rgba.Rect.Dy())

	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, w, h, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
}
