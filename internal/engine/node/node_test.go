package node

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/scenekit/internal/engine/geometry"
)

func TestWorldMatrixComposesParents(t *testing.T) {
	parent := New("parent")
	parent.Position = mgl32.Vec3{10, 0, 0}
	child := New("child")
	child.Position = mgl32.Vec3{0, 5, 0}
	parent.Add(child)

	assert.True(t, child.WorldPosition().ApproxEqual(mgl32.Vec3{10, 5, 0}), "got %v", child.WorldPosition())
	assert.Same(t, parent, child.Parent())
}

func TestAddReparents(t *testing.T) {
	a, b, c := New("a"), New("b"), New("c")
	a.Add(c)
	b.Add(c)
	assert.Empty(t, a.Children())
	require.Len(t, b.Children(), 1)
	assert.Same(t, c, b.Children()[0])
}

func TestWorldBounds(t *testing.T) {
	n := NewMesh("box", geometry.NewBox(2, 2, 2))
	n.Position = mgl32.Vec3{5, 0, 0}
	n.Scale = mgl32.Vec3{2, 1, 1}

	b := n.WorldBounds()
	assert.True(t, b.Center().ApproxEqual(mgl32.Vec3{5, 0, 0}), "center %v", b.Center())
	assert.True(t, b.Size().ApproxEqual(mgl32.Vec3{4, 2, 2}), "size %v", b.Size())
}

func TestRotateOnWorldAxis(t *testing.T) {
	n := New("n")
	n.Add(func() *Node { c := New("tip"); c.Position = mgl32.Vec3{1, 0, 0}; return c }())
	n.RotateOnWorldAxis(mgl32.Vec3{0, 0, 1}, math32.Pi/2)

	tip := n.Children()[0].WorldPosition()
	assert.True(t, tip.ApproxEqualThreshold(mgl32.Vec3{0, 1, 0}, 1e-5), "tip %v", tip)
}

func TestRotateOnAxisUsesObjectSpace(t *testing.T) {
	n := New("n")
	n.RotateOnWorldAxis(mgl32.Vec3{0, 1, 0}, math32.Pi/2)
	// object x now points along world -z
	n.RotateOnAxis(mgl32.Vec3{1, 0, 0}, math32.Pi/2)

	up := mgl32.TransformNormal(mgl32.Vec3{0, 1, 0}, n.WorldMatrix())
	assert.True(t, up.ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, 1e-5), "up %v", up)
}

func TestGraphLights(t *testing.T) {
	g := NewGraph()
	l := New("light")
	l.Light = &Light{Type: PointLight, Intensity: 1}
	g.Add(l, New("mesh"))

	assert.Equal(t, 2, g.Len())
	assert.Equal(t, []*Node{l}, g.Lights())
}
