package viewer

import (
	"fmt"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/scenekit/internal/config"
	"github.com/Faultbox/scenekit/internal/engine/anim"
	"github.com/Faultbox/scenekit/internal/engine/controls"
	"github.com/Faultbox/scenekit/internal/engine/debug"
	"github.com/Faultbox/scenekit/internal/engine/label"
	"github.com/Faultbox/scenekit/internal/engine/loader"
	"github.com/Faultbox/scenekit/internal/engine/scene"
)

// pathSamples is the number of segments a debug path is drawn with.
const pathSamples = 64

var boundsColor = mgl32.Vec3{1, 0.8, 0.1}

// ControlSettings maps the controls section onto handler settings.
func ControlSettings(c config.ControlsConfig) controls.Settings {
	return controls.Settings{
		RotateSpeed:   c.RotateSpeed,
		ZoomSpeed:     c.ZoomSpeed,
		PanSpeed:      c.PanSpeed,
		StaticMoving:  c.StaticMoving,
		DampingFactor: c.DampingFactor,
		EyeSeparation: c.EyeSeparation,
	}
}

// AnimSettings maps the animation section onto engine settings.
func AnimSettings(cfg *config.Config) anim.Settings {
	return anim.Settings{
		RotationSpeed:    cfg.Animation.RotationSpeed,
		TranslationSpeed: cfg.Animation.TranslationSpeed,
		Threshold:        cfg.Animation.Threshold,
		Debug:            cfg.Debug.LogAnimation,
	}
}

// SceneEnv builds the environment scenes are resolved against. Files are
// relative to the scene file unless scene.base_path is set.
func SceneEnv(cfg *config.Config, dispatch loader.Dispatcher) (*scene.Env, error) {
	labels, err := label.NewFactory(label.CanvasSize{
		Width:  cfg.Labels.CanvasWidth,
		Height: cfg.Labels.CanvasHeight,
	})
	if err != nil {
		return nil, err
	}

	base := cfg.Scene.BasePath
	if base == "" {
		base = filepath.Dir(cfg.Scene.File)
	}
	set := ControlSettings(cfg.Controls)

	env := &scene.Env{
		BasePath:    base,
		Dispatch:    dispatch,
		Labels:      labels,
		Annotator:   debug.NewAnnotator(cfg.Debug.Seed),
		Controls:    &set,
		AnnotateAll: cfg.Debug.AnnotateBounds,
	}
	if cfg.Debug.FaceLabels {
		env.FaceLabels = "center"
	}
	return env, nil
}

// LoadScene parses the configured scene file and builds it. Loads of its
// resources complete through dispatch.
func LoadScene(cfg *config.Config, dispatch loader.Dispatcher) (*scene.Composition, error) {
	doc, err := scene.ParseFile(cfg.Scene.File)
	if err != nil {
		return nil, err
	}
	env, err := SceneEnv(cfg, dispatch)
	if err != nil {
		return nil, err
	}
	c, err := scene.Build(doc, env)
	if err != nil {
		return nil, fmt.Errorf("building %s: %w", cfg.Scene.File, err)
	}
	return c, nil
}

// PathOverlay returns debug lines tracing every translate path in flight.
func PathOverlay(c *scene.Composition) func() []debug.LineVertex {
	var lines []debug.LineVertex
	return func() []debug.LineVertex {
		lines = lines[:0]
		for _, a := range c.Animated() {
			if cfg := a.Animation(); cfg != nil && cfg.Path != nil {
				lines = append(lines, debug.PathLines(cfg.Path, pathSamples)...)
			}
		}
		return lines
	}
}

// BoundsOverlay returns debug lines outlining the world bounds of every
// primitive and attached object except the skybox.
func BoundsOverlay(c *scene.Composition) func() []debug.LineVertex {
	var lines []debug.LineVertex
	return func() []debug.LineVertex {
		lines = lines[:0]
		for _, p := range c.Primitives {
			lines = append(lines, debug.BoxLines(p.Node().WorldBounds(), boundsColor)...)
		}
		for _, n := range c.Objects {
			if n == c.Skybox {
				continue
			}
			lines = append(lines, debug.BoxLines(n.WorldBounds(), boundsColor)...)
		}
		return lines
	}
}

// Overlays joins overlays into one; nil entries are skipped. It returns nil
// when none is set.
func Overlays(overlays ...func() []debug.LineVertex) func() []debug.LineVertex {
	var set []func() []debug.LineVertex
	for _, o := range overlays {
		if o != nil {
			set = append(set, o)
		}
	}
	switch len(set) {
	case 0:
		return nil
	case 1:
		return set[0]
	}
	var lines []debug.LineVertex
	return func() []debug.LineVertex {
		lines = lines[:0]
		for _, o := range set {
			lines = append(lines, o()...)
		}
		return lines
	}
}

// Trackball returns the first trackball handler of c, or nil.
func Trackball(c *scene.Composition) *controls.Trackball {
	for _, h := range c.Controls {
		if t, ok := h.(*controls.Trackball); ok {
			return t
		}
	}
	return nil
}

// Stereo returns the first stereo handler of c, or nil.
func Stereo(c *scene.Composition) *controls.Stereo {
	for _, h := range c.Controls {
		if s, ok := h.(*controls.Stereo); ok {
			return s
		}
	}
	return nil
}
