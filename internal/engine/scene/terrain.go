package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/scenekit/internal/engine/geometry"
	"github.com/Faultbox/scenekit/internal/engine/loader"
	"github.com/Faultbox/scenekit/internal/engine/node"
	"github.com/Faultbox/scenekit/pkg/formats"
)

// Terrain defaults.
const (
	DefaultTerrainSize   = 60
	DefaultTerrainPoints = 1
)

// TerrainWireColor is the colour of an untextured terrain (0xdddddd).
var TerrainWireColor = mgl32.Vec3{0xdd / 255.0, 0xdd / 255.0, 0xdd / 255.0}

// TerrainObject is a plane displaced by a 16-bit heightmap.
type TerrainObject struct {
	name  string
	attrs TerrainAttrs
	env   *Env
	annot annotation

	manager *loader.Manager
	samples []uint16
}

// NewTerrainObject resolves a terrain and starts loading its heightmap.
func NewTerrainObject(name string, a *TerrainAttrs, env *Env) *TerrainObject {
	t := &TerrainObject{
		name:    name,
		attrs:   *a,
		env:     env,
		annot:   annotation{enabled: a.Annotate},
		manager: loader.NewManager(name),
	}
	if t.attrs.Width <= 0 {
		t.attrs.Width = DefaultTerrainSize
	}
	if t.attrs.Height <= 0 {
		t.attrs.Height = DefaultTerrainSize
	}
	if t.attrs.WPoints <= 0 {
		t.attrs.WPoints = DefaultTerrainPoints
	}
	if t.attrs.HPoints <= 0 {
		t.attrs.HPoints = DefaultTerrainPoints
	}

	t.manager.OnProgress(func(item string, loaded, total int) {
		env.logger().Debug("terrain progress",
			zap.String("node", name), zap.String("item", item),
			zap.Int("loaded", loaded), zap.Int("total", total))
	})

	if t.attrs.Heightmap != "" {
		hm := loader.Track(t.manager, env.heightmapLoader(t.attrs.WPoints, t.attrs.HPoints))
		hm.Load(t.attrs.Heightmap, func(h *formats.Heightmap, err error) {
			if err == nil {
				t.samples = h.Samples
			}
		})
	}
	return t
}

// Name returns the node name.
func (t *TerrainObject) Name() string { return t.name }

func (t *TerrainObject) annotation() annotation { return t.annot }

// Attach adds the terrain once its heightmap has loaded. A terrain without
// a heightmap is flat; one whose heightmap failed is not added.
func (t *TerrainObject) Attach(g *node.Graph, done func(*node.Node, error)) {
	t.manager.OnLoad(func(err error) {
		if err != nil {
			done(nil, err)
			return
		}
		a := t.attrs
		geo := geometry.NewHeightfield(a.Width, a.Height, a.WPoints, a.HPoints, t.samples)

		mat := &node.Material{Color: mgl32.Vec3{1, 1, 1}, Repeat: mgl32.Vec2{1, 1}}
		if a.Texture != "" {
			loadMap(t.env, t.name, a.Texture, mat)
		} else {
			mat.Color = TerrainWireColor
			mat.Wireframe = true
		}

		n := node.NewMesh(t.name, geo, mat)
		g.Add(n)
		done(n, nil)
	})
}
