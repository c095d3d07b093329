package scene

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/scenekit/internal/engine/geometry"
	"github.com/Faultbox/scenekit/internal/engine/loader"
	"github.com/Faultbox/scenekit/internal/engine/node"
	"github.com/Faultbox/scenekit/internal/engine/texture"
)

// Skybox defaults.
const (
	DefaultSkyboxSize   = 10000
	skyboxPlaceholder   = 128
	skyboxStripSegments = 8
)

// DefaultSkyboxAssets are the side images in box side order: right, left,
// up, down, back, front.
var DefaultSkyboxAssets = []string{
	"assets/skyrt.jpg",
	"assets/skylf.jpg",
	"assets/skyup.jpg",
	"assets/skydn.jpg",
	"assets/skybk.jpg",
	"assets/skyft.jpg",
}

// Skybox is a large inside-out box textured with the sky.
type Skybox struct {
	name      string
	size      float32
	env       *Env
	manager   *loader.Manager
	materials []*node.Material
}

// NewSkybox resolves a skybox and starts loading its images. Sides show a
// black placeholder until their image arrives.
func NewSkybox(name string, a *SkyboxAttrs, env *Env) *Skybox {
	s := &Skybox{
		name:    name,
		size:    a.BoxSize,
		env:     env,
		manager: loader.NewManager(name),
	}
	if s.size <= 0 {
		s.size = DefaultSkyboxSize
	}
	placeholder := texture.Placeholder(skyboxPlaceholder, color.Black)

	useDefaults := a.DefaultAssets == nil || *a.DefaultAssets || a.Texture == ""
	if !useDefaults {
		for i := 0; i < 6; i++ {
			m := skyboxMaterial()
			m.Repeat = mgl32.Vec2{1.0 / skyboxStripSegments, 1}
			m.Offset = mgl32.Vec2{float32(i) / skyboxStripSegments, 0}
			m.SetMap(placeholder)
			s.materials = append(s.materials, m)
		}
		tex := loader.Track(s.manager, env.textureLoader())
		tex.Load(a.Texture, func(img image.Image, err error) {
			if err != nil {
				return
			}
			for _, m := range s.materials {
				m.SetMap(img)
			}
		})
		return s
	}

	assets := DefaultSkyboxAssets
	if len(a.Assets) == 6 {
		assets = a.Assets
	} else if len(a.Assets) > 0 {
		env.logger().Warn("skybox needs six assets, using defaults",
			zap.String("node", name), zap.Int("assets", len(a.Assets)))
	}
	for _, asset := range assets {
		m := skyboxMaterial()
		m.SetMap(placeholder)
		s.materials = append(s.materials, m)

		tex := loader.Track(s.manager, env.textureLoader())
		tex.Load(asset, func(img image.Image, err error) {
			if err == nil {
				m.SetMap(img)
			}
		})
	}
	return s
}

func skyboxMaterial() *node.Material {
	return &node.Material{
		Color:      mgl32.Vec3{1, 1, 1},
		Unlit:      true,
		DoubleSide: true,
		Repeat:     mgl32.Vec2{1, 1},
	}
}

// Name returns the node name.
func (s *Skybox) Name() string { return s.name }

// Materials returns the side materials in box side order.
func (s *Skybox) Materials() []*node.Material { return s.materials }

// Attach adds the box once every side image has finished loading. Failed
// sides keep their placeholder.
func (s *Skybox) Attach(g *node.Graph, done func(*node.Node, error)) {
	s.manager.OnLoad(func(error) {
		n := node.NewMesh(s.name, geometry.NewBox(s.size, s.size, s.size), s.materials...)
		n.RotateOnAxis(mgl32.Vec3{1, 0, 0}, mgl32.DegToRad(90))
		n.Scale = mgl32.Vec3{-1, 1, 1}
		g.Add(n)
		done(n, nil)
	})
}
