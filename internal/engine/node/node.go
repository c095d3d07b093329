// Package node provides spatial nodes and the scene graph that owns them.
package node

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/scenekit/internal/engine/geometry"
	"github.com/Faultbox/scenekit/pkg/math"
)

// LightType identifies the kind of light a node carries.
type LightType int

const (
	AmbientLight LightType = iota
	PointLight
	DirectionalLight
)

// Light holds the light parameters of a light node.
type Light struct {
	Type      LightType
	Color     mgl32.Vec3
	Intensity float32
	Range     float32
}

// Material describes how a mesh is shaded.
type Material struct {
	Color        mgl32.Vec3
	Map          image.Image
	VertexColors bool
	Normals      bool // shade by surface normal, ignoring lights
	Wireframe    bool
	DoubleSide   bool
	Unlit        bool
	Repeat       mgl32.Vec2
	Offset       mgl32.Vec2

	// Version is bumped when Map changes so the renderer re-uploads it.
	Version int
}

// SetMap replaces the texture image.
func (m *Material) SetMap(img image.Image) {
	m.Map = img
	m.Version++
}

// Node is a positioned, rotatable, scalable entity. A node is owned by the
// component that created it and shared by reference with the graph it is
// attached to.
type Node struct {
	Name     string
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3

	Geometry  *geometry.Geometry
	Materials []*Material
	Light     *Light

	Visible   bool
	Billboard bool

	parent   *Node
	children []*Node
}

// New creates a visible node with identity transform.
func New(name string) *Node {
	return &Node{
		Name:     name,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
		Visible:  true,
	}
}

// NewMesh creates a node carrying geometry and materials.
func NewMesh(name string, g *geometry.Geometry, materials ...*Material) *Node {
	n := New(name)
	n.Geometry = g
	n.Materials = materials
	return n
}

// Add attaches children to n, detaching them from any previous parent.
func (n *Node) Add(children ...*Node) {
	for _, c := range children {
		if c == nil || c == n {
			continue
		}
		if c.parent != nil {
			c.parent.remove(c)
		}
		c.parent = n
		n.children = append(n.children, c)
	}
}

func (n *Node) remove(c *Node) {
	for i, cc := range n.children {
		if cc == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			c.parent = nil
			return
		}
	}
}

// Parent returns the node's parent or nil.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the direct children.
func (n *Node) Children() []*Node {
	return n.children
}

// Traverse calls fn for n and every descendant, depth first.
func (n *Node) Traverse(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Traverse(fn)
	}
}

// Material returns the material at index i, falling back to the first one.
func (n *Node) Material(i int) *Material {
	if i >= 0 && i < len(n.Materials) {
		return n.Materials[i]
	}
	if len(n.Materials) > 0 {
		return n.Materials[0]
	}
	return nil
}

// LocalMatrix returns translation * rotation * scale.
func (n *Node) LocalMatrix() mgl32.Mat4 {
	t := mgl32.Translate3D(n.Position.X(), n.Position.Y(), n.Position.Z())
	r := n.Rotation.Normalize().Mat4()
	s := mgl32.Scale3D(n.Scale.X(), n.Scale.Y(), n.Scale.Z())
	return t.Mul4(r).Mul4(s)
}

// WorldMatrix returns the node's transform composed with all its ancestors.
func (n *Node) WorldMatrix() mgl32.Mat4 {
	m := n.LocalMatrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul4(m)
	}
	return m
}

// WorldPosition returns the node origin in world space.
func (n *Node) WorldPosition() mgl32.Vec3 {
	return mgl32.TransformCoordinate(mgl32.Vec3{}, n.WorldMatrix())
}

// WorldBounds returns the world-space box around every vertex in the subtree.
func (n *Node) WorldBounds() math.Box3 {
	box := math.EmptyBox()
	n.Traverse(func(c *Node) {
		if c.Geometry == nil {
			return
		}
		m := c.WorldMatrix()
		for _, v := range c.Geometry.Vertices {
			box = box.ExpandByPoint(mgl32.TransformCoordinate(v, m))
		}
	})
	return box
}

// RotateOnWorldAxis rotates the node about a world-space axis.
func (n *Node) RotateOnWorldAxis(axis mgl32.Vec3, radians float32) {
	if axis.Len() == 0 {
		return
	}
	q := mgl32.QuatRotate(radians, axis.Normalize())
	n.Rotation = q.Mul(n.Rotation).Normalize()
}

// RotateOnAxis rotates the node about an axis expressed in its own space.
func (n *Node) RotateOnAxis(axis mgl32.Vec3, radians float32) {
	if axis.Len() == 0 {
		return
	}
	q := mgl32.QuatRotate(radians, axis.Normalize())
	n.Rotation = n.Rotation.Mul(q).Normalize()
}
