// Package camera provides the perspective camera used to view a scene.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/scenekit/internal/engine/node"
)

// Defaults for a perspective camera.
const (
	DefaultFOV    = 75
	DefaultAspect = 4.0 / 3.0
	DefaultNear   = 0.1
	DefaultFar    = 10000
)

// DefaultPosition is where a camera starts when no position is given.
var DefaultPosition = mgl32.Vec3{0, -10, 10}

// Perspective is a perspective camera carried by a spatial node. The node is
// not part of the scene graph; controls and animation move it directly.
type Perspective struct {
	Node *node.Node

	FOV    float32 // vertical, degrees
	Aspect float32
	Near   float32
	Far    float32
	Up     mgl32.Vec3

	// Target is the point the camera was last aimed at.
	Target mgl32.Vec3
}

// NewPerspective creates a camera at DefaultPosition. Non-positive fov
// selects DefaultFOV.
func NewPerspective(fov float32) *Perspective {
	if fov <= 0 || fov >= 180 {
		fov = DefaultFOV
	}
	n := node.New("camera")
	n.Position = DefaultPosition
	return &Perspective{
		Node:   n,
		FOV:    fov,
		Aspect: DefaultAspect,
		Near:   DefaultNear,
		Far:    DefaultFar,
		Up:     mgl32.Vec3{0, 1, 0},
	}
}

// Position returns the camera position.
func (c *Perspective) Position() mgl32.Vec3 {
	return c.Node.Position
}

// SetPosition moves the camera without changing its orientation.
func (c *Perspective) SetPosition(p mgl32.Vec3) {
	c.Node.Position = p
}

// UpdateRenderSize recomputes the aspect ratio for a viewport.
func (c *Perspective) UpdateRenderSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

// PointAt orients the camera so that it looks at target.
func (c *Perspective) PointAt(target mgl32.Vec3) {
	c.Target = target
	eye := c.Node.WorldPosition()
	if eye.Sub(target).Len() < 1e-6 {
		return
	}
	up := c.Up
	if eye.Sub(target).Normalize().Cross(up).Len() < 1e-6 {
		// looking straight along up; pick any perpendicular
		up = mgl32.Vec3{0, 0, 1}
	}
	view := mgl32.LookAtV(eye, target, up)
	c.Node.Rotation = mgl32.Mat4ToQuat(view.Inv()).Normalize()
}

// View returns the world-to-camera matrix.
func (c *Perspective) View() mgl32.Mat4 {
	return c.Node.WorldMatrix().Inv()
}

// Projection returns the projection matrix for the current aspect.
func (c *Perspective) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// Forward returns the unit viewing direction in world space.
func (c *Perspective) Forward() mgl32.Vec3 {
	return c.Node.Rotation.Rotate(mgl32.Vec3{0, 0, -1}).Normalize()
}

// Right returns the camera's unit right vector in world space.
func (c *Perspective) Right() mgl32.Vec3 {
	return c.Node.Rotation.Rotate(mgl32.Vec3{1, 0, 0}).Normalize()
}

// CameraUp returns the camera's unit up vector in world space.
func (c *Perspective) CameraUp() mgl32.Vec3 {
	return c.Node.Rotation.Rotate(mgl32.Vec3{0, 1, 0}).Normalize()
}
