package scene

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/scenekit/internal/engine/controls"
	"github.com/Faultbox/scenekit/internal/engine/loader"
)

// Resolved is a scene whose descriptors have been turned into capability
// objects. Loads of object sub-resources are already in flight.
type Resolved struct {
	Name       string
	Cameras    []CameraLike
	Lights     []LightLike
	Objects    []AttachableLike
	Primitives []PrimitiveLike
	Skybox     AttachableLike
	Controls   []ControlsLike

	env *Env
}

// Resolve builds the capability object of every descriptor in doc. It is
// the first build phase; Compose is the second. A nil env resolves against
// the working directory. Without a dispatcher, load completions are queued
// and only run when the composition is drained.
func Resolve(doc *Document, env *Env) (*Resolved, error) {
	if env == nil {
		env = &Env{}
	}
	env = env.withBase(doc.BasePath)
	if env.Dispatch == nil {
		env.queue = &loader.Queue{}
		env.Dispatch = env.queue.Post
	}
	r := &Resolved{Name: doc.Name, env: env}
	for i := range doc.Nodes {
		if err := r.add(&doc.Nodes[i]); err != nil {
			return nil, err
		}
	}
	env.logger().Debug("scene resolved",
		zap.String("scene", doc.Name),
		zap.Int("cameras", len(r.Cameras)),
		zap.Int("lights", len(r.Lights)),
		zap.Int("objects", len(r.Objects)),
		zap.Int("primitives", len(r.Primitives)),
		zap.Bool("skybox", r.Skybox != nil),
		zap.Int("controls", len(r.Controls)))
	return r, nil
}

func (r *Resolved) add(d *Descriptor) error {
	if len(d.Children) > 0 && d.Kind != KindOBJ {
		return fmt.Errorf("children of %s %q: %w", d.Kind, d.Name, ErrMisplacedNode)
	}
	env := r.env

	switch {
	case d.Kind == KindCamera:
		a, err := attrs[*CameraAttrs](d)
		if err != nil {
			return err
		}
		r.Cameras = append(r.Cameras, NewCamera(d.Name, a))

	case d.Kind.IsLight():
		a, err := attrs[*LightAttrs](d)
		if err != nil {
			return err
		}
		l, err := NewLight(d.Kind, d.Name, a)
		if err != nil {
			return err
		}
		r.Lights = append(r.Lights, l)

	case d.Kind == KindOBJ:
		o, err := NewOBJObject(d, env)
		if err != nil {
			return err
		}
		r.Objects = append(r.Objects, o)

	case d.Kind == KindTerrain:
		a, err := attrs[*TerrainAttrs](d)
		if err != nil {
			return err
		}
		r.Objects = append(r.Objects, NewTerrainObject(d.Name, a, env))

	case d.Kind == KindSphere || d.Kind == KindPlane:
		a, err := attrs[*PrimitiveAttrs](d)
		if err != nil {
			return err
		}
		if d.Kind == KindSphere {
			r.Primitives = append(r.Primitives, NewSphere(d.Name, a, env))
		} else {
			r.Primitives = append(r.Primitives, NewPlane(d.Name, a, env))
		}

	case d.Kind == KindLabel:
		a, err := attrs[*LabelAttrs](d)
		if err != nil {
			return err
		}
		p, err := NewLabel(d.Name, a, env)
		if err != nil {
			return err
		}
		r.Primitives = append(r.Primitives, p)

	case d.Kind == KindSkybox:
		if r.Skybox != nil {
			env.logger().Warn("extra skybox ignored", zap.String("node", d.Name))
			return nil
		}
		a, err := attrs[*SkyboxAttrs](d)
		if err != nil {
			return err
		}
		r.Skybox = NewSkybox(d.Name, a, env)

	case d.Kind.IsControls():
		a, err := attrs[*ControlsAttrs](d)
		if err != nil {
			return err
		}
		r.Controls = append(r.Controls, newControls(d.Kind, a, env.controlSettings()))

	case d.Kind == KindMTL:
		return fmt.Errorf("mtl %q outside obj: %w", d.Name, ErrMisplacedNode)

	default:
		return fmt.Errorf("%s %q: %w", d.Kind, d.Name, ErrUnknownKind)
	}
	return nil
}

// newControls builds a handler. Trackballs are enabled unless disabled;
// stereo handlers only when enabled explicitly or through VR mode.
func newControls(k Kind, a *ControlsAttrs, set controls.Settings) ControlsLike {
	if a.RotateSpeed > 0 {
		set.RotateSpeed = a.RotateSpeed
	}
	if a.ZoomSpeed > 0 {
		set.ZoomSpeed = a.ZoomSpeed
	}
	if a.PanSpeed > 0 {
		set.PanSpeed = a.PanSpeed
	}
	if a.StaticMoving != nil {
		set.StaticMoving = *a.StaticMoving
	}
	if a.DampingFactor > 0 {
		set.DampingFactor = a.DampingFactor
	}
	if a.EyeSeparation > 0 {
		set.EyeSeparation = a.EyeSeparation
	}

	if k == KindVRControls {
		s := controls.NewStereo(nil)
		s.Configure(set)
		s.Enabled = a.Enabled != nil && *a.Enabled
		return s
	}
	t := controls.NewTrackball()
	t.Configure(set)
	t.Enabled = a.Enabled == nil || *a.Enabled
	return t
}
