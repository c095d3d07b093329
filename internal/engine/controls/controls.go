// Package controls moves the camera in response to pointer input or a head
// pose.
package controls

import (
	"github.com/Faultbox/scenekit/internal/engine/camera"
	"github.com/Faultbox/scenekit/internal/engine/node"
)

// RenderTarget is the surface a handler is attached to.
type RenderTarget interface {
	Size() (width, height int)
}

// Handler is a camera control scheme driven once per frame.
type Handler interface {
	// Setup binds the handler to the camera and the surface it renders to.
	Setup(cam *camera.Perspective, target RenderTarget)
	// Update applies pending input to cam. VR handlers also draw g.
	Update(g *node.Graph, cam *camera.Perspective)
	// OnViewportResize resizes any buffers the handler owns.
	OnViewportResize(width, height int)
	// IsVR reports whether the handler renders the scene itself.
	IsVR() bool
}

// Button identifies the pointer button that started a drag.
type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

// PointerHandler is implemented by handlers that consume pointer input.
type PointerHandler interface {
	PointerDown(b Button, x, y int)
	PointerMove(x, y int)
	PointerUp(b Button)
	Wheel(delta float32)
}

// Settings are the tunables of the control handlers. Non-positive values
// keep a handler's defaults.
type Settings struct {
	RotateSpeed   float32
	ZoomSpeed     float32
	PanSpeed      float32
	StaticMoving  bool
	DampingFactor float32
	EyeSeparation float32
}

// DefaultSettings returns the stock handler tunables.
func DefaultSettings() Settings {
	return Settings{
		RotateSpeed:   DefaultRotateSpeed,
		ZoomSpeed:     DefaultZoomSpeed,
		PanSpeed:      DefaultPanSpeed,
		StaticMoving:  true,
		DampingFactor: DefaultDampingFactor,
		EyeSeparation: DefaultEyeSeparation,
	}
}
