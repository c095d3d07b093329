package scene

import (
	"github.com/Faultbox/scenekit/internal/engine/anim"
	"github.com/Faultbox/scenekit/internal/engine/camera"
	"github.com/Faultbox/scenekit/internal/engine/controls"
	"github.com/Faultbox/scenekit/internal/engine/node"
)

// Animated is a node moved by the animation engine.
type Animated interface {
	Node() *node.Node
	Animation() *anim.Config
	SetAnimation(cfg *anim.Config)
}

// CameraLike produces the camera a scene is viewed through.
type CameraLike interface {
	Animated
	Camera() *camera.Perspective
}

// LightLike produces a light node.
type LightLike interface {
	Light() *node.Node
}

// AttachableLike inserts itself into a graph once its own resources have
// loaded. done runs exactly once, with the inserted node or the load error.
type AttachableLike interface {
	Name() string
	Attach(g *node.Graph, done func(*node.Node, error))
}

// PrimitiveLike is built synchronously and attached immediately.
type PrimitiveLike interface {
	Animated
	Name() string
}

// ControlsLike moves the camera from user input.
type ControlsLike = controls.Handler

// annotation is the debug decoration requested for a node.
type annotation struct {
	enabled    bool
	faceLabels string
}

// annotated is implemented by nodes that may carry an annotation.
type annotated interface {
	annotation() annotation
}

// animated is the shared state of Animated implementations.
type animated struct {
	name string
	n    *node.Node
	cfg  *anim.Config
}

func (a *animated) Name() string { return a.name }

func (a *animated) Node() *node.Node { return a.n }

func (a *animated) Animation() *anim.Config { return a.cfg }

func (a *animated) SetAnimation(cfg *anim.Config) { a.cfg = cfg }
