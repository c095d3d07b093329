package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/scenekit/internal/engine/camera"
)

// Camera is a perspective camera node.
type Camera struct {
	animated
	cam *camera.Perspective
}

// NewCamera builds a camera and aims it at the look-at point, the origin by
// default.
func NewCamera(name string, a *CameraAttrs) *Camera {
	cam := camera.NewPerspective(a.FOV)
	if a.Position != nil {
		cam.SetPosition(*a.Position)
	}
	if a.Near > 0 {
		cam.Near = a.Near
	}
	if a.Far > cam.Near {
		cam.Far = a.Far
	}
	target := mgl32.Vec3{}
	if a.LookAt != nil {
		target = *a.LookAt
	}
	cam.PointAt(target)

	return &Camera{
		animated: animated{name: name, n: cam.Node},
		cam:      cam,
	}
}

// Camera returns the camera handle.
func (c *Camera) Camera() *camera.Perspective { return c.cam }
