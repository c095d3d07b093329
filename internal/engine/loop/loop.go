// Package loop drives a composed scene frame by frame: it runs load
// completions, updates the controls, advances animations and renders.
package loop

import (
	"context"
	"time"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/scenekit/internal/engine/anim"
	"github.com/Faultbox/scenekit/internal/engine/camera"
	"github.com/Faultbox/scenekit/internal/engine/controls"
	"github.com/Faultbox/scenekit/internal/engine/loader"
	"github.com/Faultbox/scenekit/internal/engine/node"
	"github.com/Faultbox/scenekit/internal/engine/scene"
	"github.com/Faultbox/scenekit/internal/logger"
)

// Backend draws the graph. It doubles as the render target handed to the
// control handlers.
type Backend interface {
	Render(g *node.Graph, cam *camera.Perspective)
	SetViewportSize(width, height int)
	SetPixelDensity(ratio float32)
	Size() (width, height int)
}

// Loop owns a composition and steps it once per frame. All of its methods
// must be called from the same goroutine.
type Loop struct {
	// PixelDensity is the display scale applied on Start. Fractional
	// densities are rounded down; values below 1 count as 1.
	PixelDensity float32
	// OnFrame, when set, runs after every tick.
	OnFrame func(frame uint64, elapsed time.Duration)

	backend Backend
	scene   *scene.Composition
	engine  *anim.Engine
	queue   *loader.Queue

	started bool
	frame   uint64
	log     *zap.Logger
}

// New creates a loop. q must be the queue the scene's loaders dispatch to,
// if any; completions of a scene built without a dispatcher are drained
// from the composition itself. A nil engine uses the default speeds.
func New(b Backend, c *scene.Composition, e *anim.Engine, q *loader.Queue) *Loop {
	if e == nil {
		e = anim.NewEngine(anim.DefaultSettings())
	}
	if q == nil {
		q = &loader.Queue{}
	}
	return &Loop{
		PixelDensity: 1,
		backend:      b,
		scene:        c,
		engine:       e,
		queue:        q,
		log:          logger.Named("loop"),
	}
}

// Scene returns the composition being driven.
func (l *Loop) Scene() *scene.Composition {
	return l.scene
}

// Queue returns the completion queue drained every tick.
func (l *Loop) Queue() *loader.Queue {
	return l.queue
}

// Camera returns the camera the scene is viewed through.
func (l *Loop) Camera() *camera.Perspective {
	return l.scene.Camera.Camera()
}

// Frame returns the number of ticks run so far.
func (l *Loop) Frame() uint64 {
	return l.frame
}

// Start sizes the backend and camera to the render target and sets up
// every control handler. Calling it again is a no-op.
func (l *Loop) Start() {
	if l.started {
		return
	}
	l.started = true

	density := math32.Floor(l.PixelDensity)
	if density < 1 {
		density = 1
	}
	l.backend.SetPixelDensity(density)

	w, h := l.backend.Size()
	l.backend.SetViewportSize(w, h)
	cam := l.Camera()
	cam.UpdateRenderSize(w, h)

	for _, c := range l.scene.Controls {
		c.Setup(cam, l.backend)
	}
	l.log.Info("loop started",
		zap.String("scene", l.scene.Name),
		zap.Int("width", w), zap.Int("height", h),
		zap.Float32("pixel_density", density),
		zap.Int("controls", len(l.scene.Controls)))
}

// Tick runs one frame: pending load completions, control updates, one
// animation step per animated node and, unless a stereo handler draws the
// eyes itself, the main render.
func (l *Loop) Tick(elapsed time.Duration) {
	if !l.started {
		l.Start()
	}
	l.frame++

	if n := l.queue.Drain() + l.scene.Drain(); n > 0 {
		l.log.Debug("completions run", zap.Int("count", n), zap.Int("pending", l.scene.Pending()))
	}

	cam := l.Camera()
	for _, c := range l.scene.Controls {
		c.Update(l.scene.Graph, cam)
	}

	for _, a := range l.scene.Animated() {
		l.engine.Advance(a.Node(), a.Animation(), elapsed)
	}

	if !l.vrActive() {
		l.backend.Render(l.scene.Graph, cam)
	}

	if l.OnFrame != nil {
		l.OnFrame(l.frame, elapsed)
	}
}

// Resize propagates a new render size to the backend, the camera and every
// control handler.
func (l *Loop) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	l.backend.SetViewportSize(width, height)
	l.Camera().UpdateRenderSize(width, height)
	for _, c := range l.scene.Controls {
		c.OnViewportResize(width, height)
	}
	l.log.Debug("viewport resized", zap.Int("width", width), zap.Int("height", height))
}

// SetVRMode enables or disables the scene's stereo handlers. Enabled
// handlers are set up against the backend immediately.
func (l *Loop) SetVRMode(on bool) {
	cam := l.Camera()
	n := 0
	for _, c := range l.scene.Controls {
		s, ok := c.(*controls.Stereo)
		if !ok {
			continue
		}
		n++
		if !on {
			s.ExitPresent()
		}
		s.Enabled = on
		if on && l.started {
			s.Setup(cam, l.backend)
		}
	}
	if n == 0 && on {
		l.log.Warn("VR mode requested but the scene has no vr-controls")
		return
	}
	l.log.Info("VR mode", zap.Bool("enabled", on), zap.Bool("active", l.vrActive()))
}

// VRActive reports whether a stereo handler is rendering the frame.
func (l *Loop) VRActive() bool {
	return l.vrActive()
}

func (l *Loop) vrActive() bool {
	for _, c := range l.scene.Controls {
		if c.IsVR() {
			return true
		}
	}
	return false
}

// Run ticks once per value received from frames until ctx is done or frames
// is closed. The elapsed time passed to Tick is the gap between frames.
func (l *Loop) Run(ctx context.Context, frames <-chan time.Time) error {
	l.Start()
	var last time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now, ok := <-frames:
			if !ok {
				return nil
			}
			var elapsed time.Duration
			if !last.IsZero() {
				elapsed = now.Sub(last)
			}
			last = now
			l.Tick(elapsed)
		}
	}
}
