package loop

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/scenekit/internal/engine/anim"
	"github.com/Faultbox/scenekit/internal/engine/camera"
	"github.com/Faultbox/scenekit/internal/engine/controls"
	"github.com/Faultbox/scenekit/internal/engine/loader"
	"github.com/Faultbox/scenekit/internal/engine/node"
	"github.com/Faultbox/scenekit/internal/engine/scene"
)

type fakeBackend struct {
	w, h      int
	density   float32
	viewports [][2]int
	renders   int
	lastCam   *camera.Perspective
}

func (b *fakeBackend) Render(_ *node.Graph, cam *camera.Perspective) {
	b.renders++
	b.lastCam = cam
}

func (b *fakeBackend) SetViewportSize(w, h int) {
	b.w, b.h = w, h
	b.viewports = append(b.viewports, [2]int{w, h})
}

func (b *fakeBackend) SetPixelDensity(r float32) { b.density = r }

func (b *fakeBackend) Size() (int, int) { return b.w, b.h }

// stereoBackend also draws eyes.
type stereoBackend struct {
	fakeBackend
	eyeW, eyeH int
	eyes       []controls.Eye
	presents   int
}

func (b *stereoBackend) SetEyeSize(w, h int) { b.eyeW, b.eyeH = w, h }

func (b *stereoBackend) RenderEye(e controls.Eye, _ *node.Graph, _ *camera.Perspective) {
	b.eyes = append(b.eyes, e)
}

func (b *stereoBackend) PresentEyes() { b.presents++ }

func build(t *testing.T, src string, env *scene.Env) *scene.Composition {
	t.Helper()
	doc, err := scene.Parse([]byte(src))
	require.NoError(t, err)
	c, err := scene.Build(doc, env)
	require.NoError(t, err)
	return c
}

const basicScene = `
nodes:
  - kind: camera
  - kind: ambient-light
  - kind: sphere
    w_segments: 8
    h_segments: 6
    animation:
      animate: true
      mode: orbit
      reference_point: [0, 0, 0]
      direction: {z: true}
  - kind: trackball-controls
`

func TestStartSizesEverything(t *testing.T) {
	c := build(t, basicScene, nil)
	b := &fakeBackend{w: 800, h: 400}
	l := New(b, c, nil, nil)
	l.PixelDensity = 2.6

	l.Start()
	l.Start()

	assert.Equal(t, float32(2), b.density)
	assert.Equal(t, [][2]int{{800, 400}}, b.viewports)
	assert.Equal(t, float32(2), l.Camera().Aspect)

	tb := c.Controls[0].(*controls.Trackball)
	assert.Equal(t, l.Camera().Target, tb.Target())
}

func TestPixelDensityFloor(t *testing.T) {
	c := build(t, basicScene, nil)
	b := &fakeBackend{w: 10, h: 10}
	l := New(b, c, nil, nil)
	l.PixelDensity = 0.5
	l.Start()
	assert.Equal(t, float32(1), b.density)
}

func TestTickAnimatesAndRenders(t *testing.T) {
	c := build(t, basicScene, nil)
	b := &fakeBackend{w: 640, h: 480}
	l := New(b, c, nil, nil)

	sphere := c.Primitives[0].Node()
	sphere.Position = mgl32.Vec3{10, 0, 0}

	var frames []uint64
	l.OnFrame = func(f uint64, _ time.Duration) { frames = append(frames, f) }

	l.Tick(16 * time.Millisecond)
	l.Tick(16 * time.Millisecond)

	assert.Equal(t, 2, b.renders)
	assert.Same(t, l.Camera(), b.lastCam)
	assert.Equal(t, []uint64{1, 2}, frames)
	assert.Equal(t, uint64(2), l.Frame())

	// two orbit steps about z keep the radius and move off the x axis
	assert.InDelta(t, 10, sphere.Position.Len(), 1e-4)
	assert.Less(t, sphere.Position.Y(), float32(0))
}

func TestCameraTranslateConverges(t *testing.T) {
	c := build(t, basicScene, nil)
	l := New(&fakeBackend{w: 100, h: 100}, c, anim.NewEngine(anim.DefaultSettings()), nil)

	cfg := c.Camera.Animation()
	target := mgl32.Vec3{0, 0, 100}
	cfg.MoveTo(target, 3)

	for i := 0; i < 200 && cfg.Animate; i++ {
		l.Tick(time.Millisecond)
	}

	assert.False(t, cfg.Animate)
	assert.Nil(t, cfg.Path)
	pos := l.Camera().Position()
	assert.InDelta(t, 0, pos.Sub(target).Len(), 1e-3)
}

func TestTickRunsCompletions(t *testing.T) {
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.White)
	require.NoError(t, png.Encode(&buf, img))

	tests := []struct {
		name  string
		queue *loader.Queue
	}{
		{"loop queue", &loader.Queue{}},
		{"scene queue", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := &scene.Env{FS: fstest.MapFS{"tex.png": {Data: buf.Bytes()}}}
			if tt.queue != nil {
				env.Dispatch = tt.queue.Post
			}
			c := build(t, `
nodes:
  - kind: camera
  - kind: sphere
    texture: tex.png
    w_segments: 4
    h_segments: 4
`, env)
			l := New(&fakeBackend{w: 10, h: 10}, c, nil, tt.queue)

			mat := c.Primitives[0].Node().Materials[0]
			deadline := time.Now().Add(5 * time.Second)
			for mat.Map == nil && time.Now().Before(deadline) {
				l.Tick(0)
				time.Sleep(time.Millisecond)
			}
			assert.NotNil(t, mat.Map)
		})
	}
}

func TestResize(t *testing.T) {
	c := build(t, basicScene+"  - kind: vr-controls\n    enabled: true\n", nil)
	b := &stereoBackend{fakeBackend: fakeBackend{w: 200, h: 100}}
	l := New(b, c, nil, nil)
	l.Start()

	l.Resize(1000, 500)
	l.Resize(0, 500)

	assert.Equal(t, 1000, b.w)
	assert.Equal(t, float32(2), l.Camera().Aspect)
	assert.Equal(t, 500, b.eyeW)
	assert.Equal(t, 500, b.eyeH)
}

func TestStereoSkipsMainRender(t *testing.T) {
	c := build(t, basicScene+"  - kind: vr-controls\n", nil)
	b := &stereoBackend{fakeBackend: fakeBackend{w: 200, h: 100}}
	l := New(b, c, nil, nil)

	l.Tick(0)
	assert.Equal(t, 1, b.renders)
	assert.False(t, l.VRActive())

	l.SetVRMode(true)
	assert.True(t, l.VRActive())
	l.Tick(0)
	assert.Equal(t, 1, b.renders)
	assert.Equal(t, []controls.Eye{controls.EyeLeft, controls.EyeRight}, b.eyes)
	assert.Equal(t, 1, b.presents)

	l.SetVRMode(false)
	l.Tick(0)
	assert.Equal(t, 2, b.renders)
}

func TestSetVRModeBeforeStart(t *testing.T) {
	c := build(t, basicScene+"  - kind: vr-controls\n", nil)
	b := &stereoBackend{fakeBackend: fakeBackend{w: 200, h: 100}}
	l := New(b, c, nil, nil)

	l.SetVRMode(true)
	assert.False(t, l.VRActive())
	l.Start()
	assert.True(t, l.VRActive())
	assert.Equal(t, 100, b.eyeW)
}

func TestVRNeedsStereoBackend(t *testing.T) {
	c := build(t, basicScene+"  - kind: vr-controls\n    enabled: true\n", nil)
	b := &fakeBackend{w: 200, h: 100}
	l := New(b, c, nil, nil)

	l.Tick(0)
	assert.False(t, l.VRActive())
	assert.Equal(t, 1, b.renders)
}

func TestRun(t *testing.T) {
	c := build(t, basicScene, nil)
	b := &fakeBackend{w: 10, h: 10}
	l := New(b, c, nil, nil)

	var elapsed []time.Duration
	l.OnFrame = func(_ uint64, d time.Duration) { elapsed = append(elapsed, d) }

	frames := make(chan time.Time, 3)
	t0 := time.Unix(0, 0)
	frames <- t0
	frames <- t0.Add(10 * time.Millisecond)
	frames <- t0.Add(30 * time.Millisecond)
	close(frames)

	require.NoError(t, l.Run(context.Background(), frames))
	assert.Equal(t, 3, b.renders)
	assert.Equal(t, []time.Duration{0, 10 * time.Millisecond, 20 * time.Millisecond}, elapsed)
}

func TestRunCancelled(t *testing.T) {
	c := build(t, basicScene, nil)
	l := New(&fakeBackend{w: 10, h: 10}, c, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := l.Run(ctx, make(chan time.Time))
	assert.ErrorIs(t, err, context.Canceled)
}
