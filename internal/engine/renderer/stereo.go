package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/scenekit/internal/engine/camera"
	"github.com/Faultbox/scenekit/internal/engine/controls"
	"github.com/Faultbox/scenekit/internal/engine/debug"
	"github.com/Faultbox/scenekit/internal/engine/framebuffer"
	"github.com/Faultbox/scenekit/internal/engine/node"
)

// SetEyeSize allocates or resizes the per-eye buffers. Sizes are in window
// units.
func (r *Renderer) SetEyeSize(width, height int) {
	r.eyeW, r.eyeH = width, height
	w, h := r.pixels(width, height)
	for i := range r.eyes {
		if r.eyes[i] != nil {
			r.eyes[i].Resize(w, h)
			continue
		}
		fb, err := framebuffer.New(w, h)
		if err != nil {
			r.log.Error("eye buffer", zap.Int("eye", i), zap.Error(err))
			return
		}
		r.eyes[i] = fb
	}
	r.log.Debug("eye buffers sized", zap.Int32("width", w), zap.Int32("height", h))
}

// RenderEye draws g into the buffer of one eye.
func (r *Renderer) RenderEye(eye controls.Eye, g *node.Graph, cam *camera.Perspective) {
	fb := r.eye(eye)
	if fb == nil {
		return
	}
	restore := fb.Bind()
	r.draw(g, cam)
	restore()
}

// PresentEyes copies both eye buffers side by side into the window.
func (r *Renderer) PresentEyes() {
	w, h := r.pixels(r.width, r.height)
	for i, rect := range eyeRects(w, h) {
		if fb := r.eyes[i]; fb != nil {
			fb.BlitTo(rect[0], rect[1], rect[2], rect[3])
		}
	}
}

// eyeRects splits a window of w x h pixels into left and right halves,
// each as x0, y0, x1, y1.
func eyeRects(w, h int32) [2][4]int32 {
	half := w / 2
	return [2][4]int32{
		{0, 0, half, h},
		{half, 0, w, h},
	}
}

func (r *Renderer) eye(e controls.Eye) *framebuffer.Framebuffer {
	i := int(e)
	if i < 0 || i >= len(r.eyes) {
		return nil
	}
	return r.eyes[i]
}

// Screenshot saves the last rendered frame of the window.
func (r *Renderer) Screenshot(s *debug.Screenshots) (string, error) {
	w, h := r.pixels(r.width, r.height)
	pixels := make([]byte, int(w)*int(h)*4)

	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	gl.ReadBuffer(gl.BACK)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, w, h, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))

	name, err := s.FromPixels(pixels, int(w), int(h))
	if err != nil {
		return "", err
	}
	r.log.Info("screenshot saved", zap.String("file", name))
	return name, nil
}

// EyeScreenshot saves the last image of one eye buffer.
func (r *Renderer) EyeScreenshot(s *debug.Screenshots, e controls.Eye) (string, error) {
	fb := r.eye(e)
	if fb == nil {
		return r.Screenshot(s)
	}
	w, h := fb.Size()
	return s.FromPixels(fb.ReadPixels(), int(w), int(h))
}
