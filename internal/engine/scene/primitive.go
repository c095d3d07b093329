package scene

import (
	"errors"
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/scenekit/internal/engine/geometry"
	"github.com/Faultbox/scenekit/internal/engine/node"
)

// Primitive defaults.
const (
	DefaultSphereSize  = 20
	DefaultPlaneSize   = 1000
	DefaultSegments    = 256
	planeTextureRepeat = 2
)

// DefaultPlanePosition keeps a plane just below the origin.
var DefaultPlanePosition = mgl32.Vec3{0, -0.5, 0}

var errNoLabelFactory = errors.New("no label factory configured")

// Primitive is a node built synchronously from its attributes.
type Primitive struct {
	animated
	annot annotation
}

func (p *Primitive) annotation() annotation { return p.annot }

func segments(n int) int {
	if n <= 0 {
		return DefaultSegments
	}
	return n
}

// NewSphere builds a sphere. Without a texture it is shaded by normals.
func NewSphere(name string, a *PrimitiveAttrs, env *Env) *Primitive {
	size := a.Size
	if size <= 0 {
		size = DefaultSphereSize
	}
	geo := geometry.NewSphere(size, segments(a.WSegments), segments(a.HSegments))

	mat := &node.Material{Color: mgl32.Vec3{1, 1, 1}, Repeat: mgl32.Vec2{1, 1}}
	if a.Texture != "" {
		loadMap(env, name, a.Texture, mat)
	} else {
		mat.Normals = true
	}

	n := node.NewMesh(name, geo, mat)
	if a.Position != nil {
		n.Position = *a.Position
	}
	return newPrimitive(name, n, a)
}

// NewPlane builds a plane. A textured plane is unlit and double sided.
func NewPlane(name string, a *PrimitiveAttrs, env *Env) *Primitive {
	w, h := a.Width, a.Height
	if w <= 0 {
		w = DefaultPlaneSize
	}
	if h <= 0 {
		h = DefaultPlaneSize
	}
	geo := geometry.NewPlane(w, h, segments(a.WSegments), segments(a.HSegments))

	mat := &node.Material{Color: mgl32.Vec3{1, 1, 1}, Repeat: mgl32.Vec2{1, 1}}
	if a.Texture != "" {
		mat.Unlit = true
		mat.DoubleSide = true
		mat.Repeat = mgl32.Vec2{planeTextureRepeat, planeTextureRepeat}
		loadMap(env, name, a.Texture, mat)
	} else {
		mat.Normals = true
	}

	n := node.NewMesh(name, geo, mat)
	n.Position = DefaultPlanePosition
	if a.Position != nil {
		n.Position = *a.Position
	}
	return newPrimitive(name, n, a)
}

func newPrimitive(name string, n *node.Node, a *PrimitiveAttrs) *Primitive {
	for _, r := range a.Rotation {
		r.Apply(n)
	}
	return &Primitive{
		animated: animated{name: name, n: n, cfg: a.Animation.Config()},
		annot:    annotation{enabled: a.Annotate, faceLabels: a.FaceLabels},
	}
}

// NewLabel builds a text label billboard.
func NewLabel(name string, a *LabelAttrs, env *Env) (*Primitive, error) {
	if env.Labels == nil {
		return nil, fmt.Errorf("label %q: %w", name, errNoLabelFactory)
	}
	n := env.Labels.Make(a.Text, a.Style.Style(), a.Position)
	n.Name = name
	return &Primitive{
		animated: animated{name: name, n: n, cfg: a.Animation.Config()},
	}, nil
}

// loadMap loads a texture into mat in the background. The node is shown
// untextured until then, and stays so if the load fails.
func loadMap(env *Env, name, file string, mat *node.Material) {
	env.textureLoader().Load(file, func(img image.Image, err error) {
		if err != nil {
			env.logger().Warn("texture load failed",
				zap.String("node", name), zap.String("file", file), zap.Error(err))
			return
		}
		mat.SetMap(img)
	})
}
