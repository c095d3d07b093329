package viewer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/scenekit/internal/config"
	"github.com/Faultbox/scenekit/internal/engine/anim"
	"github.com/Faultbox/scenekit/internal/engine/controls"
	"github.com/Faultbox/scenekit/internal/engine/debug"
)

func writeScene(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "demo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestControlSettings(t *testing.T) {
	set := ControlSettings(config.Default().Controls)
	assert.Equal(t, controls.DefaultSettings(), set)
}

func TestAnimSettings(t *testing.T) {
	cfg := config.Default()
	cfg.Debug.LogAnimation = true

	s := AnimSettings(cfg)
	assert.Equal(t, float32(anim.DefaultRotationSpeed), s.RotationSpeed)
	assert.Equal(t, float32(anim.DefaultTranslationSpeed), s.TranslationSpeed)
	assert.Equal(t, float32(anim.DefaultThreshold), s.Threshold)
	assert.True(t, s.Debug)
}

func TestSceneEnv(t *testing.T) {
	cfg := config.Default()
	cfg.Scene.File = filepath.Join("scenes", "demo.yaml")
	cfg.Labels.CanvasWidth = 64
	cfg.Labels.CanvasHeight = 128
	cfg.Debug.AnnotateBounds = true
	cfg.Debug.FaceLabels = true

	env, err := SceneEnv(cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, "scenes", env.BasePath)
	assert.Equal(t, 64, env.Labels.CanvasSize().Width)
	assert.NotNil(t, env.Annotator)
	assert.True(t, env.AnnotateAll)
	assert.Equal(t, "center", env.FaceLabels)
	require.NotNil(t, env.Controls)
	assert.Equal(t, float32(10), env.Controls.RotateSpeed)

	cfg.Scene.BasePath = "assets"
	env, err = SceneEnv(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "assets", env.BasePath)

	cfg.Labels.CanvasWidth = 0
	_, err = SceneEnv(cfg, nil)
	assert.Error(t, err)
}

func TestLoadScene(t *testing.T) {
	cfg := config.Default()
	cfg.Scene.File = writeScene(t, `
name: demo
nodes:
  - kind: camera
  - kind: label
    text: hello
  - kind: trackball-controls
  - kind: vr-controls
`)
	cfg.Labels.CanvasWidth = 64
	cfg.Labels.CanvasHeight = 128

	c, err := LoadScene(cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, "demo", c.Name)
	assert.Equal(t, 1, c.Graph.Len())
	assert.NotNil(t, Trackball(c))
	require.NotNil(t, Stereo(c))
	_, ok := Stereo(c).Pose().(*controls.LookPose)
	assert.True(t, ok)
}

func TestLoadSceneErrors(t *testing.T) {
	cfg := config.Default()
	cfg.Scene.File = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := LoadScene(cfg, nil)
	assert.Error(t, err)

	cfg.Scene.File = writeScene(t, "nodes:\n  - kind: ambient-light\n")
	_, err = LoadScene(cfg, nil)
	assert.Error(t, err)
}

func TestPathOverlay(t *testing.T) {
	cfg := config.Default()
	cfg.Scene.File = writeScene(t, "nodes:\n  - kind: camera\n")
	c, err := LoadScene(cfg, nil)
	require.NoError(t, err)

	overlay := PathOverlay(c)
	assert.Empty(t, overlay())

	camCfg := c.Camera.Animation()
	camCfg.MoveTo(mgl32.Vec3{0, 0, 500}, 2)
	anim.NewEngine(anim.DefaultSettings()).Advance(c.Camera.Node(), camCfg, 0)

	require.NotNil(t, camCfg.Path)
	assert.Len(t, overlay(), 2*pathSamples)

	camCfg.Stop()
	assert.Empty(t, overlay())
}

func TestHelpersWithoutControls(t *testing.T) {
	cfg := config.Default()
	cfg.Scene.File = writeScene(t, "nodes:\n  - kind: camera\n")
	c, err := LoadScene(cfg, nil)
	require.NoError(t, err)

	assert.Nil(t, Trackball(c))
	assert.Nil(t, Stereo(c))
}

func TestBoundsOverlay(t *testing.T) {
	cfg := config.Default()
	cfg.Scene.File = writeScene(t, `
nodes:
  - kind: camera
  - kind: sphere
    w_segments: 4
    h_segments: 4
  - kind: plane
    w_segments: 1
    h_segments: 1
  - kind: skybox
    default_assets: false
    texture: missing-sky.png
`)
	c, err := LoadScene(cfg, nil)
	require.NoError(t, err)

	deadline := time.Now().Add(5 * time.Second)
	for c.Pending() > 0 && time.Now().Before(deadline) {
		c.Drain()
		time.Sleep(time.Millisecond)
	}
	require.Zero(t, c.Pending())
	require.NotNil(t, c.Skybox)
	require.Len(t, c.Objects, 1)

	// twelve edges for each primitive, none for the sky
	lines := BoundsOverlay(c)()
	assert.Len(t, lines, 2*2*12)

	sphere := c.Primitives[0].Node().WorldBounds()
	for _, v := range lines[:24] {
		p := mgl32.Vec3{v.X, v.Y, v.Z}
		for i := 0; i < 3; i++ {
			assert.True(t, p[i] == sphere.Min[i] || p[i] == sphere.Max[i], "corner %v off the box", p)
		}
	}
}

func TestOverlays(t *testing.T) {
	assert.Nil(t, Overlays(nil, nil))

	two := func() []debug.LineVertex { return make([]debug.LineVertex, 2) }
	four := func() []debug.LineVertex { return make([]debug.LineVertex, 4) }
	assert.Len(t, Overlays(nil, two)(), 2)

	joined := Overlays(two, nil, four)
	assert.Len(t, joined(), 6)
	assert.Len(t, joined(), 6)
}
