package controls

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/scenekit/internal/engine/camera"
	"github.com/Faultbox/scenekit/internal/engine/node"
)

// Trackball defaults.
const (
	DefaultRotateSpeed   = 10.0
	DefaultZoomSpeed     = 0.1
	DefaultPanSpeed      = 0.8
	DefaultDampingFactor = 0.3

	wheelScale = 0.01
)

type trackState int

const (
	stateNone trackState = iota
	stateRotate
	stateZoom
	statePan
)

// Trackball rotates the camera around a target point as if rolling a ball
// under the pointer. Left drag rotates, middle drag and the wheel zoom,
// right drag pans.
type Trackball struct {
	Enabled       bool
	RotateSpeed   float32
	ZoomSpeed     float32
	PanSpeed      float32
	NoRotate      bool
	NoZoom        bool
	NoPan         bool
	StaticMoving  bool
	DampingFactor float32
	MinDistance   float32
	MaxDistance   float32

	cam           *camera.Perspective
	target        mgl32.Vec3
	width, height int

	state               trackState
	moveCurr, movePrev  mgl32.Vec2
	zoomStart, zoomEnd  mgl32.Vec2
	panStart, panEnd    mgl32.Vec2
	lastAxis            mgl32.Vec3
	lastAngle           float32
	initPos, initTarget mgl32.Vec3
	initUp              mgl32.Vec3
}

// NewTrackball creates an enabled trackball with default speeds.
func NewTrackball() *Trackball {
	return &Trackball{
		Enabled:       true,
		RotateSpeed:   DefaultRotateSpeed,
		ZoomSpeed:     DefaultZoomSpeed,
		PanSpeed:      DefaultPanSpeed,
		StaticMoving:  true,
		DampingFactor: DefaultDampingFactor,
		MaxDistance:   math32.Inf(1),
	}
}

// Configure applies s on top of the current tunables.
func (t *Trackball) Configure(s Settings) {
	if s.RotateSpeed > 0 {
		t.RotateSpeed = s.RotateSpeed
	}
	if s.ZoomSpeed > 0 {
		t.ZoomSpeed = s.ZoomSpeed
	}
	if s.PanSpeed > 0 {
		t.PanSpeed = s.PanSpeed
	}
	if s.DampingFactor > 0 && s.DampingFactor < 1 {
		t.DampingFactor = s.DampingFactor
	}
	t.StaticMoving = s.StaticMoving
}

// Setup binds the trackball to cam, orbiting the point cam is aimed at.
func (t *Trackball) Setup(cam *camera.Perspective, target RenderTarget) {
	t.cam = cam
	t.target = cam.Target
	if target != nil {
		t.width, t.height = target.Size()
	}
	t.initPos = cam.Position()
	t.initTarget = t.target
	t.initUp = cam.Up
}

// OnViewportResize updates the screen size used to normalise pointer input.
func (t *Trackball) OnViewportResize(width, height int) {
	t.width, t.height = width, height
}

// IsVR is false; the trackball never draws.
func (t *Trackball) IsVR() bool { return false }

// Target returns the point the camera orbits.
func (t *Trackball) Target() mgl32.Vec3 { return t.target }

// Reset restores the camera placement from Setup.
func (t *Trackball) Reset() {
	if t.cam == nil {
		return
	}
	t.state = stateNone
	t.target = t.initTarget
	t.cam.Up = t.initUp
	t.cam.SetPosition(t.initPos)
	t.cam.PointAt(t.target)
	t.movePrev, t.moveCurr = mgl32.Vec2{}, mgl32.Vec2{}
	t.zoomStart, t.zoomEnd = mgl32.Vec2{}, mgl32.Vec2{}
	t.panStart, t.panEnd = mgl32.Vec2{}, mgl32.Vec2{}
	t.lastAngle = 0
}

// mouseOnScreen maps a pixel to [0,1] screen coordinates.
func (t *Trackball) mouseOnScreen(x, y int) mgl32.Vec2 {
	if t.width == 0 || t.height == 0 {
		return mgl32.Vec2{}
	}
	return mgl32.Vec2{float32(x) / float32(t.width), float32(y) / float32(t.height)}
}

// mouseOnCircle maps a pixel onto the unit ball, y up.
func (t *Trackball) mouseOnCircle(x, y int) mgl32.Vec2 {
	if t.width == 0 {
		return mgl32.Vec2{}
	}
	w, h := float32(t.width), float32(t.height)
	return mgl32.Vec2{
		(float32(x) - w*0.5) / (w * 0.5),
		(h - 2*float32(y)) / w,
	}
}

// PointerDown starts a drag.
func (t *Trackball) PointerDown(b Button, x, y int) {
	if !t.Enabled {
		return
	}
	switch {
	case b == ButtonLeft && !t.NoRotate:
		t.state = stateRotate
		t.moveCurr = t.mouseOnCircle(x, y)
		t.movePrev = t.moveCurr
	case b == ButtonMiddle && !t.NoZoom:
		t.state = stateZoom
		t.zoomStart = t.mouseOnScreen(x, y)
		t.zoomEnd = t.zoomStart
	case b == ButtonRight && !t.NoPan:
		t.state = statePan
		t.panStart = t.mouseOnScreen(x, y)
		t.panEnd = t.panStart
	}
}

// PointerMove continues the current drag.
func (t *Trackball) PointerMove(x, y int) {
	if !t.Enabled {
		return
	}
	switch t.state {
	case stateRotate:
		t.movePrev = t.moveCurr
		t.moveCurr = t.mouseOnCircle(x, y)
	case stateZoom:
		t.zoomEnd = t.mouseOnScreen(x, y)
	case statePan:
		t.panEnd = t.mouseOnScreen(x, y)
	}
}

// PointerUp ends the current drag.
func (t *Trackball) PointerUp(Button) {
	t.state = stateNone
}

// Wheel zooms; positive delta zooms in.
func (t *Trackball) Wheel(delta float32) {
	if !t.Enabled || t.NoZoom {
		return
	}
	t.zoomStart[1] += delta * wheelScale
}

// Update moves the camera by the input gathered since the last frame.
func (t *Trackball) Update(_ *node.Graph, cam *camera.Perspective) {
	if !t.Enabled || cam == nil {
		return
	}
	t.cam = cam
	eye := cam.Position().Sub(t.target)

	if !t.NoRotate {
		eye = t.rotate(eye)
	}
	if !t.NoZoom {
		eye = t.zoom(eye)
	}
	if !t.NoPan {
		t.pan(eye)
	}

	eye = t.clampDistance(eye)
	cam.SetPosition(t.target.Add(eye))
	cam.PointAt(t.target)
}

func (t *Trackball) rotate(eye mgl32.Vec3) mgl32.Vec3 {
	move := t.moveCurr.Sub(t.movePrev)
	angle := move.Len()
	defer func() { t.movePrev = t.moveCurr }()

	if angle > 0 && eye.Len() > 0 {
		eyeDir := eye.Normalize()
		up := t.cam.Up.Normalize()
		side := up.Cross(eyeDir)
		if side.Len() == 0 {
			return eye
		}
		side = side.Normalize()

		dir := up.Mul(move.Y()).Add(side.Mul(move.X()))
		axis := dir.Cross(eye)
		if axis.Len() == 0 {
			return eye
		}
		axis = axis.Normalize()
		angle *= t.RotateSpeed

		q := mgl32.QuatRotate(angle, axis)
		t.cam.Up = q.Rotate(t.cam.Up)
		t.lastAxis, t.lastAngle = axis, angle
		return q.Rotate(eye)
	}

	if !t.StaticMoving && t.lastAngle > 0 {
		t.lastAngle *= math32.Sqrt(1 - t.DampingFactor)
		q := mgl32.QuatRotate(t.lastAngle, t.lastAxis)
		t.cam.Up = q.Rotate(t.cam.Up)
		return q.Rotate(eye)
	}
	return eye
}

func (t *Trackball) zoom(eye mgl32.Vec3) mgl32.Vec3 {
	factor := 1 + (t.zoomEnd.Y()-t.zoomStart.Y())*t.ZoomSpeed
	if factor != 1 && factor > 0 {
		eye = eye.Mul(factor)
	}
	if t.StaticMoving {
		t.zoomStart = t.zoomEnd
	} else {
		t.zoomStart[1] += (t.zoomEnd.Y() - t.zoomStart.Y()) * t.DampingFactor
	}
	return eye
}

func (t *Trackball) pan(eye mgl32.Vec3) {
	change := t.panEnd.Sub(t.panStart)
	if change.Len() == 0 {
		return
	}
	change = change.Mul(eye.Len() * t.PanSpeed)

	side := eye.Cross(t.cam.Up)
	up := t.cam.Up
	var offset mgl32.Vec3
	if side.Len() > 0 {
		offset = side.Normalize().Mul(change.X())
	}
	if up.Len() > 0 {
		offset = offset.Add(up.Normalize().Mul(change.Y()))
	}

	t.cam.SetPosition(t.cam.Position().Add(offset))
	t.target = t.target.Add(offset)

	if t.StaticMoving {
		t.panStart = t.panEnd
	} else {
		t.panStart = t.panStart.Add(t.panEnd.Sub(t.panStart).Mul(t.DampingFactor))
	}
}

func (t *Trackball) clampDistance(eye mgl32.Vec3) mgl32.Vec3 {
	d := eye.Len()
	if d == 0 {
		return eye
	}
	if d > t.MaxDistance {
		return eye.Mul(t.MaxDistance / d)
	}
	if d < t.MinDistance {
		return eye.Mul(t.MinDistance / d)
	}
	return eye
}
