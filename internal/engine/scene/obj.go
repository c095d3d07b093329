package scene

import (
	"fmt"
	"image"
	"path"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/scenekit/internal/engine/geometry"
	"github.com/Faultbox/scenekit/internal/engine/loader"
	"github.com/Faultbox/scenekit/internal/engine/node"
	"github.com/Faultbox/scenekit/pkg/formats"
)

// OBJObject is a Wavefront mesh with its material libraries. The libraries
// and their textures are loaded through the object's own manager; the mesh
// is loaded once they have all finished.
type OBJObject struct {
	name  string
	file  string
	env   *Env
	annot annotation

	manager   *loader.Manager
	materials *formats.MTL
	textures  map[string]image.Image
}

// NewOBJObject resolves an obj descriptor and starts loading its mtl
// children.
func NewOBJObject(d *Descriptor, env *Env) (*OBJObject, error) {
	a, err := attrs[*FileAttrs](d)
	if err != nil {
		return nil, err
	}
	o := &OBJObject{
		name:      d.Name,
		file:      a.File,
		env:       env,
		annot:     annotation{enabled: a.Annotate},
		manager:   loader.NewManager(d.Name),
		materials: formats.NewMTL(),
		textures:  make(map[string]image.Image),
	}

	for i := range d.Children {
		c := &d.Children[i]
		if c.Kind != KindMTL {
			return nil, fmt.Errorf("%s %q under obj %q: %w", c.Kind, c.Name, d.Name, ErrMisplacedNode)
		}
		ca, err := attrs[*FileAttrs](c)
		if err != nil {
			return nil, err
		}
		if ca.File != "" {
			o.loadMTL(ca.File)
		}
	}
	return o, nil
}

// Name returns the node name.
func (o *OBJObject) Name() string { return o.name }

func (o *OBJObject) annotation() annotation { return o.annot }

// Materials returns the merged material libraries loaded so far.
func (o *OBJObject) Materials() *formats.MTL { return o.materials }

func (o *OBJObject) loadMTL(file string) {
	mtl := loader.Track(o.manager, o.env.mtlLoader())
	mtl.Load(file, func(m *formats.MTL, err error) {
		if err != nil {
			return
		}
		o.materials.Merge(m)
		dir := path.Dir(file)
		for _, t := range m.Textures() {
			o.loadTexture(path.Join(dir, t), t)
		}
	})
}

func (o *OBJObject) loadTexture(file, key string) {
	if _, ok := o.textures[key]; ok {
		return
	}
	o.textures[key] = nil
	tex := loader.Track(o.manager, o.env.textureLoader())
	tex.Load(file, func(img image.Image, err error) {
		if err == nil {
			o.textures[key] = img
		}
	})
}

// Attach loads the mesh once every material has finished and adds it to g.
// Material failures leave the affected materials untextured.
func (o *OBJObject) Attach(g *node.Graph, done func(*node.Node, error)) {
	if o.file == "" {
		o.env.logger().Warn("obj node without file", zap.String("node", o.name))
		done(nil, nil)
		return
	}
	o.manager.OnLoad(func(error) {
		o.env.objLoader().Load(o.file, func(obj *formats.OBJ, err error) {
			if err != nil {
				done(nil, err)
				return
			}
			for _, w := range obj.Warnings {
				o.env.logger().Debug("obj warning", zap.String("node", o.name), zap.String("warning", w))
			}
			n := BuildOBJ(o.name, obj, o.materials, o.textures)
			g.Add(n)
			done(n, nil)
		})
	})
}

// BuildOBJ converts a parsed mesh into a group with one child mesh per
// object. Faces reference materials from lib by name; unknown names get a
// plain white material.
func BuildOBJ(name string, obj *formats.OBJ, lib *formats.MTL, textures map[string]image.Image) *node.Node {
	group := node.New(name)
	for _, ob := range obj.Objects {
		if len(ob.Faces) == 0 {
			continue
		}

		index := make(map[string]int, len(ob.Materials))
		mats := make([]*node.Material, 0, len(ob.Materials)+1)
		for _, m := range ob.Materials {
			index[m] = len(mats)
			mats = append(mats, objMaterial(lib.Get(m), textures))
		}
		if len(mats) == 0 {
			mats = append(mats, objMaterial(nil, nil))
		}

		geo := &geometry.Geometry{Name: ob.Name}
		for _, f := range ob.Faces {
			base := len(geo.Vertices)
			face := geometry.Face{A: base, B: base + 1, C: base + 2, MaterialIndex: index[f.Material]}
			for i := 0; i < 3; i++ {
				geo.Vertices = append(geo.Vertices, mgl32.Vec3(obj.Positions[f.Vertices[i]]))
				if f.HasUVs() {
					face.UV[i] = mgl32.Vec2(obj.UVs[f.UVs[i]])
				}
			}
			geo.Faces = append(geo.Faces, face)
		}
		geo.ComputeFaceCentroids()
		group.Add(node.NewMesh(ob.Name, geo, mats...))
	}
	return group
}

func objMaterial(m *formats.MTLMaterial, textures map[string]image.Image) *node.Material {
	mat := &node.Material{Color: mgl32.Vec3{1, 1, 1}, Repeat: mgl32.Vec2{1, 1}}
	if m == nil {
		return mat
	}
	mat.Color = mgl32.Vec3(m.Diffuse)
	mat.Repeat = mgl32.Vec2(m.Repeat)
	mat.Offset = mgl32.Vec2(m.Offset)
	if img := textures[m.MapKd]; img != nil {
		mat.SetMap(img)
	}
	return mat
}
