// Package viewer runs a scene in an SDL2 window: input, the frame loop and
// presentation.
package viewer

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/scenekit/internal/config"
	"github.com/Faultbox/scenekit/internal/engine/anim"
	"github.com/Faultbox/scenekit/internal/engine/controls"
	"github.com/Faultbox/scenekit/internal/engine/debug"
	"github.com/Faultbox/scenekit/internal/engine/input"
	"github.com/Faultbox/scenekit/internal/engine/loader"
	"github.com/Faultbox/scenekit/internal/engine/loop"
	"github.com/Faultbox/scenekit/internal/engine/renderer"
	"github.com/Faultbox/scenekit/internal/engine/scene"
	"github.com/Faultbox/scenekit/internal/engine/window"
	"github.com/Faultbox/scenekit/internal/logger"
)

// Title is the window title prefix.
const Title = "scenekit"

// Viewer is the interactive scene viewer.
type Viewer struct {
	config  *config.Config
	running bool
	capture bool

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	queue    *loader.Queue
	loop     *loop.Loop
	scene    *scene.Composition
	shots    *debug.Screenshots

	trackball *controls.Trackball
	stereo    *controls.Stereo
	look      *controls.LookPose

	log *zap.Logger
}

// New opens the window, builds the configured scene and prepares the loop.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		config: cfg,
		queue:  &loader.Queue{},
		log:    logger.Named("viewer"),
	}
	v.log.Info("initializing viewer",
		zap.String("scene", cfg.Scene.File),
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	var err error
	v.scene, err = LoadScene(cfg, v.queue.Post)
	if err != nil {
		return nil, err
	}
	v.scene.OnSettled(func(err error) {
		if err != nil {
			v.log.Warn("scene loaded with errors", zap.Error(err))
			return
		}
		v.log.Info("scene loaded", zap.Int("nodes", v.scene.Graph.Len()))
	})

	// The window creates the GL context the renderer needs.
	v.window, err = window.New(window.ConfigFrom(cfg.Graphics, v.title()))
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	w, h := v.window.GetSize()
	v.renderer, err = renderer.New(renderer.Config{
		Width:  w,
		Height: h,
		Grid:   cfg.Debug.Grid,
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	var paths, bounds func() []debug.LineVertex
	if cfg.Debug.Paths {
		paths = PathOverlay(v.scene)
	}
	if cfg.Debug.Bounds {
		bounds = BoundsOverlay(v.scene)
	}
	v.renderer.Overlay = Overlays(paths, bounds)

	v.input = input.New()
	v.shots = debug.NewScreenshots(cfg.Debug.ScreenshotDir, v.sceneName())

	v.loop = loop.New(v.renderer, v.scene, anim.NewEngine(AnimSettings(cfg)), v.queue)
	v.loop.PixelDensity = cfg.Graphics.PixelDensity
	if v.loop.PixelDensity <= 0 {
		v.loop.PixelDensity = v.window.PixelDensity()
	}

	v.trackball = Trackball(v.scene)
	if v.stereo = Stereo(v.scene); v.stereo != nil {
		v.look, _ = v.stereo.Pose().(*controls.LookPose)
		v.stereo.OnPresent(func(presenting bool) {
			v.log.Info("stereo presentation", zap.Bool("presenting", presenting))
		})
	}
	if cfg.Scene.VR {
		v.loop.SetVRMode(true)
	}

	v.log.Info("viewer initialized")
	return v, nil
}

// title names the scene and shows loads in flight and the VR mode.
func (v *Viewer) title() string {
	t := Title + " - " + v.sceneName()
	if n := v.scene.Pending(); n > 0 {
		t += fmt.Sprintf(" (loading %d)", n)
	}
	if v.loop != nil && v.loop.VRActive() {
		t += " [VR]"
	}
	return t
}

func (v *Viewer) sceneName() string {
	if v.scene != nil && v.scene.Name != "" {
		return v.scene.Name
	}
	base := filepath.Base(v.config.Scene.File)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Run runs frames until the window closes or Escape is pressed.
func (v *Viewer) Run() error {
	v.running = true
	v.loop.Start()

	frameBudget := time.Duration(0)
	if v.config.Graphics.FPSLimit > 0 {
		frameBudget = time.Second / time.Duration(v.config.Graphics.FPSLimit)
	}

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	v.log.Info("starting frame loop")

	for v.running {
		now := time.Now()
		dt := now.Sub(lastTime)
		lastTime = now

		if v.input.Update() {
			v.running = false
			break
		}
		v.handleEvents(v.input.Events())

		v.loop.Tick(dt)
		if v.capture {
			v.capture = false
			v.screenshot()
		}
		v.window.SwapBuffers()
		v.window.SetTitle(v.title())

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.log.Debug("fps",
				zap.Int("count", frameCount),
				zap.Duration("dt", dt),
				zap.Int("pending", v.scene.Pending()))
			frameCount = 0
			fpsTimer = time.Now()
		}

		if frameBudget > 0 {
			if spent := time.Since(now); spent < frameBudget {
				sdl.Delay(uint32((frameBudget - spent) / time.Millisecond))
			}
		}
	}

	return nil
}

func (v *Viewer) handleEvents(events []input.Event) {
	for _, e := range events {
		switch e.Type {
		case input.EventWindowResize:
			v.loop.Resize(e.Width, e.Height)
		case input.EventKeyDown:
			v.handleKey(e.Key)
		}
	}

	if v.loop.VRActive() {
		input.Look(events, v.look)
		return
	}
	if v.trackball != nil {
		input.Route(events, v.trackball)
	}
}

func (v *Viewer) handleKey(key sdl.Scancode) {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		v.running = false
	case sdl.SCANCODE_F12:
		v.capture = true
	case sdl.SCANCODE_R:
		if v.trackball != nil {
			v.trackball.Reset()
		}
	case sdl.SCANCODE_V:
		v.loop.SetVRMode(!v.loop.VRActive())
	case sdl.SCANCODE_P:
		if v.stereo == nil {
			return
		}
		if v.stereo.Presenting() {
			v.stereo.ExitPresent()
		} else {
			v.stereo.RequestPresent()
		}
	case sdl.SCANCODE_Z:
		if v.stereo != nil {
			v.stereo.ResetPose()
		}
	}
}

func (v *Viewer) screenshot() {
	var err error
	if v.loop.VRActive() {
		_, err = v.renderer.EyeScreenshot(v.shots, controls.EyeLeft)
	} else {
		_, err = v.renderer.Screenshot(v.shots)
	}
	if err != nil {
		v.log.Error("screenshot failed", zap.Error(err))
	}
}

// Close releases the renderer and the window.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
