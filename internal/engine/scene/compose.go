package scene

import (
	"go.uber.org/zap"

	"github.com/Faultbox/scenekit/internal/engine/anim"
	"github.com/Faultbox/scenekit/internal/engine/debug"
	"github.com/Faultbox/scenekit/internal/engine/loader"
	"github.com/Faultbox/scenekit/internal/engine/node"
)

// Composition is an assembled scene: the graph, the camera it is viewed
// through and the nodes the render loop drives.
type Composition struct {
	Name       string
	Graph      *node.Graph
	Camera     CameraLike
	Primitives []PrimitiveLike
	Controls   []ControlsLike

	// Objects lists asynchronously attached nodes in insertion order.
	Objects []*node.Node
	// Annotations lists the bounding boxes added for annotated nodes.
	Annotations []*node.Node
	// Skybox is the attached sky node, nil until its images settle.
	Skybox *node.Node

	env     *Env
	pending *loader.Manager
	log     *zap.Logger
}

// Compose assembles the graph from a resolved scene. Lights are attached
// first, then objects start attaching as their loads complete, then
// primitives, then the skybox. The camera gets a stopped translate
// animation. Without a camera nothing is attached and ErrNoCamera returned.
func Compose(r *Resolved) (*Composition, error) {
	if len(r.Cameras) == 0 {
		return nil, ErrNoCamera
	}
	env := r.env
	if env == nil {
		env = &Env{}
	}
	log := env.logger()
	if len(r.Cameras) > 1 {
		log.Warn("several cameras declared, using the first", zap.Int("cameras", len(r.Cameras)))
	}

	c := &Composition{
		Name:       r.Name,
		Graph:      node.NewGraph(),
		Camera:     r.Cameras[0],
		Primitives: r.Primitives,
		Controls:   r.Controls,
		env:        env,
		pending:    loader.NewManager("scene"),
		log:        log,
	}

	for _, l := range r.Lights {
		c.Graph.Add(l.Light())
	}
	for _, o := range r.Objects {
		c.attach(o)
	}
	for _, p := range r.Primitives {
		c.Graph.Add(p.Node())
	}
	if r.Skybox != nil {
		c.attach(r.Skybox)
	}

	c.Camera.SetAnimation(anim.DefaultCameraConfig())

	for _, p := range r.Primitives {
		c.annotate(p, p.Node())
	}

	log.Info("scene composed",
		zap.String("scene", r.Name),
		zap.Int("nodes", c.Graph.Len()),
		zap.Int("pending", c.pending.Pending()))
	return c, nil
}

func (c *Composition) attach(a AttachableLike) {
	name := a.Name()
	c.pending.ItemStart(name)
	a.Attach(c.Graph, func(n *node.Node, err error) {
		if n != nil {
			c.Objects = append(c.Objects, n)
			if _, ok := a.(*Skybox); ok {
				c.Skybox = n
			}
			c.annotate(a, n)
			c.log.Debug("node attached", zap.String("node", name))
		}
		c.pending.ItemEnd(name, err)
	})
}

// annotate adds a bounding box around n when v asks for one or the
// environment annotates everything. Skyboxes are never annotated.
func (c *Composition) annotate(v any, n *node.Node) {
	an, ok := v.(annotated)
	if !ok {
		return
	}
	a := an.annotation()
	if c.env.AnnotateAll {
		a.enabled = true
	}
	if !a.enabled {
		return
	}
	if a.faceLabels == "" {
		a.faceLabels = c.env.FaceLabels
	}
	if c.env.Annotator == nil {
		c.env.Annotator = debug.NewAnnotator(1)
	}
	box, _ := c.env.Annotator.Annotate(n)
	if box == nil {
		return
	}

	if labels := a.faceLabels; labels != "" {
		if c.env.Labels == nil {
			c.log.Warn("face labels need a label factory", zap.String("node", n.Name))
		} else {
			box.Add(debug.FaceLabels(c.env.Labels, box.Geometry, debug.ParseAlignment(labels), nil)...)
		}
	}
	c.Graph.Add(box)
	c.Annotations = append(c.Annotations, box)
}

// OnSettled runs fn once every object has attached or failed. err combines
// the failures.
func (c *Composition) OnSettled(fn func(err error)) {
	c.pending.OnLoad(fn)
}

// Pending returns the number of objects still loading.
func (c *Composition) Pending() int {
	return c.pending.Pending()
}

// Err returns the combined error of every object that failed to load.
func (c *Composition) Err() error {
	return c.pending.Err()
}

// Drain runs the load completions queued for a scene built without a
// dispatcher and returns how many ran. It must be called from the goroutine
// that owns the scene; with a dispatcher it does nothing.
func (c *Composition) Drain() int {
	if c.env.queue == nil {
		return 0
	}
	return c.env.queue.Drain()
}

// Animated returns the primitives followed by the camera.
func (c *Composition) Animated() []Animated {
	out := make([]Animated, 0, len(c.Primitives)+1)
	for _, p := range c.Primitives {
		out = append(out, p)
	}
	return append(out, c.Camera)
}

// Build resolves and composes doc.
func Build(doc *Document, env *Env) (*Composition, error) {
	r, err := Resolve(doc, env)
	if err != nil {
		return nil, err
	}
	return Compose(r)
}
