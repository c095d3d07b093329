package controls

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/scenekit/internal/engine/camera"
	"github.com/Faultbox/scenekit/internal/engine/node"
	"github.com/Faultbox/scenekit/internal/logger"
)

// DefaultEyeSeparation is the distance between the two eye cameras.
const DefaultEyeSeparation = 0.064

// Eye selects one half of a stereo frame.
type Eye int

const (
	EyeLeft Eye = iota
	EyeRight
)

// StereoTarget is a render target able to draw into per-eye buffers and
// present them side by side.
type StereoTarget interface {
	RenderTarget
	SetEyeSize(width, height int)
	RenderEye(eye Eye, g *node.Graph, cam *camera.Perspective)
	PresentEyes()
}

// PoseSource reports the viewer's head orientation.
type PoseSource interface {
	Orientation() mgl32.Quat
}

// LookPose is a PoseSource driven by pointer deltas, standing in for a
// head-mounted display.
type LookPose struct {
	Yaw, Pitch  float32
	Sensitivity float32
}

// NewLookPose creates a pose at rest.
func NewLookPose() *LookPose {
	return &LookPose{Sensitivity: 0.005}
}

// Look turns the head by a pointer delta in pixels.
func (p *LookPose) Look(dx, dy float32) {
	p.Yaw -= dx * p.Sensitivity
	p.Pitch -= dy * p.Sensitivity
	const limit = 1.5
	if p.Pitch > limit {
		p.Pitch = limit
	} else if p.Pitch < -limit {
		p.Pitch = -limit
	}
}

// Orientation implements PoseSource.
func (p *LookPose) Orientation() mgl32.Quat {
	yaw := mgl32.QuatRotate(p.Yaw, mgl32.Vec3{0, 1, 0})
	pitch := mgl32.QuatRotate(p.Pitch, mgl32.Vec3{1, 0, 0})
	return yaw.Mul(pitch).Normalize()
}

// Stereo renders the scene once per eye, orienting the camera from a head
// pose. It owns the frame while enabled.
type Stereo struct {
	Enabled       bool
	EyeSeparation float32

	pose       PoseSource
	target     StereoTarget
	base       mgl32.Quat
	zero       mgl32.Quat
	presenting bool
	onPresent  func(bool)

	eyeW, eyeH int
	eyes       [2]*camera.Perspective

	log *zap.Logger
}

// NewStereo creates a stereo handler reading orientation from pose.
func NewStereo(pose PoseSource) *Stereo {
	if pose == nil {
		pose = NewLookPose()
	}
	return &Stereo{
		Enabled:       true,
		EyeSeparation: DefaultEyeSeparation,
		pose:          pose,
		base:          mgl32.QuatIdent(),
		zero:          mgl32.QuatIdent(),
		log:           logger.Named("stereo"),
	}
}

// Pose returns the orientation source.
func (s *Stereo) Pose() PoseSource {
	return s.pose
}

// Configure applies the eye separation from s.
func (s *Stereo) Configure(set Settings) {
	if set.EyeSeparation > 0 {
		s.EyeSeparation = set.EyeSeparation
	}
}

// Setup binds the handler to cam. It stays inert unless Enabled and target
// can render per eye.
func (s *Stereo) Setup(cam *camera.Perspective, target RenderTarget) {
	if !s.Enabled {
		return
	}
	st, ok := target.(StereoTarget)
	if !ok {
		s.log.Warn("render target has no stereo support, VR controls disabled")
		s.Enabled = false
		return
	}
	s.target = st
	s.base = cam.Node.Rotation
	s.OnViewportResize(target.Size())
	s.log.Info("stereo controls ready",
		zap.Int("eye_width", s.eyeW), zap.Int("eye_height", s.eyeH))
}

// IsVR reports whether the handler currently renders the frame.
func (s *Stereo) IsVR() bool {
	return s.Enabled && s.target != nil
}

// OnViewportResize splits the viewport into two eye buffers.
func (s *Stereo) OnViewportResize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.eyeW, s.eyeH = width/2, height
	if s.target != nil {
		s.target.SetEyeSize(s.eyeW, s.eyeH)
	}
}

// EyeSize returns the size of one eye buffer.
func (s *Stereo) EyeSize() (int, int) {
	return s.eyeW, s.eyeH
}

// OnPresent registers a callback run when presentation starts or stops.
func (s *Stereo) OnPresent(fn func(presenting bool)) {
	s.onPresent = fn
}

// RequestPresent asks the host to show the stereo frame fullscreen.
func (s *Stereo) RequestPresent() {
	s.setPresenting(true)
}

// ExitPresent leaves fullscreen presentation.
func (s *Stereo) ExitPresent() {
	s.setPresenting(false)
}

// Presenting reports whether presentation was requested.
func (s *Stereo) Presenting() bool {
	return s.presenting
}

func (s *Stereo) setPresenting(v bool) {
	if !s.IsVR() || s.presenting == v {
		return
	}
	s.presenting = v
	if s.onPresent != nil {
		s.onPresent(v)
	}
}

// ResetPose makes the current head orientation the forward direction.
func (s *Stereo) ResetPose() {
	s.zero = s.pose.Orientation().Inverse()
}

// Update orients cam from the head pose and draws both eyes.
func (s *Stereo) Update(g *node.Graph, cam *camera.Perspective) {
	if !s.IsVR() || cam == nil {
		return
	}
	head := s.zero.Mul(s.pose.Orientation())
	cam.Node.Rotation = s.base.Mul(head).Normalize()

	half := s.EyeSeparation / 2
	s.eyes[EyeLeft] = s.eyeCamera(s.eyes[EyeLeft], cam, -half)
	s.eyes[EyeRight] = s.eyeCamera(s.eyes[EyeRight], cam, half)

	if g != nil {
		s.target.RenderEye(EyeLeft, g, s.eyes[EyeLeft])
		s.target.RenderEye(EyeRight, g, s.eyes[EyeRight])
		s.target.PresentEyes()
	}
}

// Eye returns the camera used for one eye in the last frame.
func (s *Stereo) Eye(e Eye) *camera.Perspective {
	return s.eyes[e]
}

// eyeCamera copies cam shifted sideways by offset.
func (s *Stereo) eyeCamera(dst, cam *camera.Perspective, offset float32) *camera.Perspective {
	if dst == nil {
		dst = camera.NewPerspective(cam.FOV)
	}
	dst.FOV, dst.Near, dst.Far, dst.Up = cam.FOV, cam.Near, cam.Far, cam.Up
	dst.UpdateRenderSize(s.eyeW, s.eyeH)
	dst.Node.Rotation = cam.Node.Rotation
	dst.Node.Position = cam.Node.WorldPosition().Add(cam.Right().Mul(offset))
	return dst
}
