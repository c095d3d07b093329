// Package renderer draws a scene graph with OpenGL 4.1.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/scenekit/internal/engine/camera"
	"github.com/Faultbox/scenekit/internal/engine/debug"
	"github.com/Faultbox/scenekit/internal/engine/framebuffer"
	"github.com/Faultbox/scenekit/internal/engine/geometry"
	"github.com/Faultbox/scenekit/internal/engine/lighting"
	"github.com/Faultbox/scenekit/internal/engine/node"
	"github.com/Faultbox/scenekit/internal/engine/renderer/shaders"
	"github.com/Faultbox/scenekit/internal/engine/shader"
	"github.com/Faultbox/scenekit/internal/logger"
)

// Grid defaults.
const (
	DefaultGridSize      = 1000
	DefaultGridDivisions = 20
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	ClearColor mgl32.Vec3

	// Grid draws a reference grid and axes in the XY plane.
	Grid bool
}

// Renderer draws node graphs. It must be created and used on the goroutine
// that owns the GL context.
type Renderer struct {
	// Overlay, when set, returns extra debug lines drawn every frame.
	Overlay func() []debug.LineVertex

	config  Config
	width   int
	height  int
	density float32

	meshProgram *shader.Program
	lineProgram *shader.Program
	meshes      map[*geometry.Geometry]*gpuMesh
	textures    map[*node.Material]*gpuTexture
	lights      *lighting.PointLightBuffer
	lines       *lineBatch
	grid        []debug.LineVertex

	eyes       [2]*framebuffer.Framebuffer
	eyeW, eyeH int

	billboards []*node.Node
	dropped    int
	log        *zap.Logger
}

// New creates a renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config:   cfg,
		width:    cfg.Width,
		height:   cfg.Height,
		density:  1,
		meshes:   make(map[*geometry.Geometry]*gpuMesh),
		textures: make(map[*node.Material]*gpuTexture),
		lights:   lighting.NewPointLightBuffer(),
		log:      logger.Named("renderer"),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.MULTISAMPLE)
	gl.DepthFunc(gl.LESS)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	c := cfg.ClearColor
	gl.ClearColor(c[0], c[1], c[2], 1.0)

	var err error
	if r.meshProgram, err = shader.Compile("mesh", shaders.MeshVertexShader, shaders.MeshFragmentShader); err != nil {
		return nil, err
	}
	if r.lineProgram, err = shader.Compile("line", shaders.LineVertexShader, shaders.LineFragmentShader); err != nil {
		r.meshProgram.Delete()
		return nil, err
	}
	r.lines = newLineBatch()

	if cfg.Grid {
		r.grid = append(debug.GridLines(DefaultGridSize, DefaultGridDivisions, 0), debug.AxisLines(DefaultGridSize/2)...)
	}
	return r, nil
}

// Close releases every GPU resource.
func (r *Renderer) Close() {
	r.log.Info("closing renderer",
		zap.Int("meshes", len(r.meshes)),
		zap.Int("textures", len(r.textures)))
	for _, m := range r.meshes {
		m.destroy()
	}
	for _, t := range r.textures {
		gl.DeleteTextures(1, &t.id)
	}
	r.meshes = nil
	r.textures = nil
	for i, fb := range r.eyes {
		if fb != nil {
			fb.Destroy()
			r.eyes[i] = nil
		}
	}
	if r.lines != nil {
		r.lines.destroy()
	}
	r.meshProgram.Delete()
	r.lineProgram.Delete()
}

// Size returns the render size in window units.
func (r *Renderer) Size() (int, int) {
	return r.width, r.height
}

// SetViewportSize handles window resize.
func (r *Renderer) SetViewportSize(width, height int) {
	r.width = width
	r.height = height
	w, h := r.pixels(width, height)
	gl.Viewport(0, 0, w, h)
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Int32("pixels_x", w),
		zap.Int32("pixels_y", h),
	)
}

// SetPixelDensity sets the ratio of framebuffer pixels to window units.
func (r *Renderer) SetPixelDensity(ratio float32) {
	if ratio <= 0 {
		ratio = 1
	}
	r.density = ratio
}

func (r *Renderer) pixels(width, height int) (int32, int32) {
	return int32(float32(width) * r.density), int32(float32(height) * r.density)
}

// Render draws g as seen by cam into the window.
func (r *Renderer) Render(g *node.Graph, cam *camera.Perspective) {
	w, h := r.pixels(r.width, r.height)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, w, h)
	r.draw(g, cam)
}

func (r *Renderer) draw(g *node.Graph, cam *camera.Perspective) {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	viewProj := cam.Projection().Mul4(cam.View())

	if dropped := r.lights.Collect(g); dropped != r.dropped {
		r.dropped = dropped
		if dropped > 0 {
			r.log.Warn("lights over the shader limit are ignored", zap.Int("dropped", dropped))
		}
	}

	p := r.meshProgram
	p.Use()
	gl.UniformMatrix4fv(p.Loc("uViewProj"), 1, false, &viewProj[0])
	r.uploadLights()
	gl.ActiveTexture(gl.TEXTURE0)
	gl.Uniform1i(p.Loc("uTexture"), 0)
	setBool(p.Loc("uBillboard"), false)

	r.billboards = r.billboards[:0]
	g.Traverse(func(n *node.Node) {
		if !n.Visible || n.Geometry == nil {
			return
		}
		if n.Billboard {
			r.billboards = append(r.billboards, n)
			return
		}
		r.drawNode(n)
	})

	if len(r.billboards) > 0 {
		right, up := cam.Right(), cam.CameraUp()
		gl.Uniform3f(p.Loc("uCamRight"), right[0], right[1], right[2])
		gl.Uniform3f(p.Loc("uCamUp"), up[0], up[1], up[2])
		setBool(p.Loc("uBillboard"), true)

		gl.Enable(gl.BLEND)
		gl.DepthMask(false)
		for _, n := range r.billboards {
			gl.Uniform2f(p.Loc("uBillboardSize"), n.Scale[0], n.Scale[1])
			r.drawNode(n)
		}
		gl.DepthMask(true)
		gl.Disable(gl.BLEND)
		setBool(p.Loc("uBillboard"), false)
	}

	r.drawLines(viewProj)
	gl.BindVertexArray(0)
}

func (r *Renderer) uploadLights() {
	p := r.meshProgram
	b := r.lights
	gl.Uniform3f(p.Loc("uAmbient"), b.Ambient[0], b.Ambient[1], b.Ambient[2])

	gl.Uniform1i(p.Loc("uPointLightCount"), int32(b.Count))
	if b.Count > 0 {
		positions := b.GetPositions()
		colors := b.GetColors()
		ranges := b.GetRanges()
		intensities := b.GetIntensities()
		gl.Uniform3fv(p.Loc("uPointLightPositions"), lighting.MaxPointLights, &positions[0])
		gl.Uniform3fv(p.Loc("uPointLightColors"), lighting.MaxPointLights, &colors[0])
		gl.Uniform1fv(p.Loc("uPointLightRanges"), lighting.MaxPointLights, &ranges[0])
		gl.Uniform1fv(p.Loc("uPointLightIntensities"), lighting.MaxPointLights, &intensities[0])
	}

	gl.Uniform1i(p.Loc("uDirLightCount"), int32(len(b.Directional)))
	if len(b.Directional) > 0 {
		dirs := b.GetDirections()
		colors := b.GetDirectionalColors()
		gl.Uniform3fv(p.Loc("uDirLightDirections"), lighting.MaxDirectionalLights, &dirs[0])
		gl.Uniform3fv(p.Loc("uDirLightColors"), lighting.MaxDirectionalLights, &colors[0])
	}
}

func (r *Renderer) drawNode(n *node.Node) {
	p := r.meshProgram
	model := n.WorldMatrix()
	normal := model.Mat3().Inv().Transpose()
	gl.UniformMatrix4fv(p.Loc("uModel"), 1, false, &model[0])
	gl.UniformMatrix3fv(p.Loc("uNormalMatrix"), 1, false, &normal[0])

	m := r.mesh(n.Geometry)
	gl.BindVertexArray(m.vao)
	for _, grp := range m.groups {
		r.applyMaterial(n.Material(grp.material))
		gl.DrawArrays(gl.TRIANGLES, grp.first, grp.count)
	}
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
}

var defaultMaterial = node.Material{Color: mgl32.Vec3{1, 1, 1}, Repeat: mgl32.Vec2{1, 1}}

func (r *Renderer) applyMaterial(mat *node.Material) {
	if mat == nil {
		mat = &defaultMaterial
	}
	p := r.meshProgram

	gl.Uniform3f(p.Loc("uColor"), mat.Color[0], mat.Color[1], mat.Color[2])
	repeat := mat.Repeat
	if repeat == (mgl32.Vec2{}) {
		repeat = mgl32.Vec2{1, 1}
	}
	gl.Uniform2f(p.Loc("uRepeat"), repeat[0], repeat[1])
	gl.Uniform2f(p.Loc("uOffset"), mat.Offset[0], mat.Offset[1])

	tex := r.texture(mat)
	setBool(p.Loc("uHasTexture"), tex != 0)
	gl.BindTexture(gl.TEXTURE_2D, tex)

	setBool(p.Loc("uVertexColors"), mat.VertexColors)
	setBool(p.Loc("uNormals"), mat.Normals)
	setBool(p.Loc("uUnlit"), mat.Unlit)

	if mat.DoubleSide {
		gl.Disable(gl.CULL_FACE)
	} else {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	}
	if mat.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
}

func setBool(loc int32, v bool) {
	if v {
		gl.Uniform1i(loc, 1)
	} else {
		gl.Uniform1i(loc, 0)
	}
}
