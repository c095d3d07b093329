package scene

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/scenekit/internal/engine/anim"
	"github.com/Faultbox/scenekit/internal/engine/controls"
	"github.com/Faultbox/scenekit/internal/engine/geometry"
	"github.com/Faultbox/scenekit/internal/engine/label"
	"github.com/Faultbox/scenekit/internal/engine/node"
)

// queue collects load completions until the test drains them, standing in
// for the render loop.
type queue struct {
	ch chan func()
}

func newQueue() *queue {
	return &queue{ch: make(chan func(), 64)}
}

func (q *queue) post(fn func()) {
	q.ch <- fn
}

// drainUntil runs completions until cond holds.
func (q *queue) drainUntil(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for !cond() {
		select {
		case fn := <-q.ch:
			fn()
		case <-deadline:
			t.Fatal("timed out waiting for loads")
		}
	}
}

func pngBytes(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

const cubeOBJ = `mtllib cube.mtl
o cube
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
usemtl red
f 1/1 2/2 3/3 4/4
`

const cubeMTL = `newmtl red
Kd 1 0 0
map_Kd red.png
`

func testFS(t *testing.T) fstest.MapFS {
	hm := make([]byte, 8)
	for i, v := range []uint16{0, 65535, 32768, 0} {
		binary.LittleEndian.PutUint16(hm[i*2:], v)
	}
	return fstest.MapFS{
		"models/cube.obj": {Data: []byte(cubeOBJ)},
		"models/cube.mtl": {Data: []byte(cubeMTL)},
		"models/red.png":  {Data: pngBytes(t, color.RGBA{255, 0, 0, 255})},
		"terrain.raw":     {Data: hm},
		"sky.png":         {Data: pngBytes(t, color.RGBA{0, 0, 255, 255})},
	}
}

func testEnv(t *testing.T, q *queue) *Env {
	return &Env{FS: testFS(t), Dispatch: q.post}
}

func parse(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := Parse([]byte(src))
	require.NoError(t, err)
	return doc
}

const demoScene = `
name: demo
nodes:
  - kind: perspective-camera
    position: [0, -10, 10]
    look_at: [0, 0, 0]
  - kind: point-light
    name: lamp
    color: "#FF0000"
    intensity: 2
  - kind: obj
    name: cube
    file: models/cube.obj
    children:
      - kind: mtl
        file: models/cube.mtl
  - kind: terrain
    name: ground
    heightmap: terrain.raw
    w_points: 2
    h_points: 2
  - kind: sphere
    name: ball
    size: 5
    w_segments: 8
    h_segments: 6
    animation:
      animate: true
      mode: orbit
      reference_point: [0, 0, 0]
      direction: {z: true}
  - kind: skybox
    default_assets: false
    texture: sky.png
  - kind: trackball-controls
`

func TestParseDocument(t *testing.T) {
	doc := parse(t, demoScene)

	assert.Equal(t, "demo", doc.Name)
	require.Len(t, doc.Nodes, 7)

	kinds := make([]Kind, len(doc.Nodes))
	for i, n := range doc.Nodes {
		kinds[i] = n.Kind
	}
	assert.Equal(t, []Kind{KindCamera, KindPointLight, KindOBJ, KindTerrain, KindSphere, KindSkybox, KindTrackballControls}, kinds)

	cam := doc.Nodes[0]
	assert.Equal(t, "perspective-camera", cam.Name)
	ca, ok := cam.Attrs.(*CameraAttrs)
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{0, -10, 10}, *ca.Position)

	light := doc.Nodes[1].Attrs.(*LightAttrs)
	assert.Equal(t, "#FF0000", light.Color)
	assert.Equal(t, float32(2), *light.Intensity)

	obj := doc.Nodes[2]
	require.Len(t, obj.Children, 1)
	assert.Equal(t, KindMTL, obj.Children[0].Kind)
	assert.Equal(t, "models/cube.mtl", obj.Children[0].Attrs.(*FileAttrs).File)

	sphere := doc.Nodes[4].Attrs.(*PrimitiveAttrs)
	require.NotNil(t, sphere.Animation)
	assert.True(t, sphere.Animation.Direction.Z)
	assert.False(t, sphere.Animation.Direction.X)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown kind", "nodes:\n  - kind: teapot\n"},
		{"bad vector", "nodes:\n  - kind: camera\n    position: [1, 2]\n"},
		{"not yaml", "nodes: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			assert.Error(t, err)
		})
	}

	_, err := Parse([]byte("nodes:\n  - kind: teapot\n"))
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"perspective-camera", KindCamera},
		{"Camera", KindCamera},
		{"sprite", KindLabel},
		{" vr-controls ", KindVRControls},
		{"directional-light", KindDirectionalLight},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	assert.Equal(t, "Kind(99)", Kind(99).String())
}

func TestComposeWithoutCamera(t *testing.T) {
	doc := parse(t, `
nodes:
  - kind: ambient-light
  - kind: sphere
    w_segments: 4
    h_segments: 4
`)
	r, err := Resolve(doc, nil)
	require.NoError(t, err)

	c, err := Compose(r)
	assert.ErrorIs(t, err, ErrNoCamera)
	assert.Nil(t, c)
}

func TestComposeCameraLightSphere(t *testing.T) {
	doc := parse(t, `
nodes:
  - kind: camera
  - kind: ambient-light
  - kind: sphere
    w_segments: 8
    h_segments: 6
`)
	c, err := Build(doc, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, c.Graph.Len())
	assert.NotNil(t, c.Graph.Children()[0].Light)
	assert.Equal(t, "sphere", c.Graph.Children()[1].Name)

	cam := c.Camera.Camera()
	c.Graph.Traverse(func(n *node.Node) {
		assert.NotSame(t, cam.Node, n)
	})

	cfg := c.Camera.Animation()
	require.NotNil(t, cfg)
	assert.False(t, cfg.Animate)
	assert.Equal(t, anim.ModeTranslate, cfg.Mode)
	assert.Equal(t, float32(2), cfg.Rate)

	assert.Zero(t, c.Pending())
	settled := false
	c.OnSettled(func(err error) {
		settled = true
		assert.NoError(t, err)
	})
	assert.True(t, settled)
}

func TestComposeOrderAndAsyncObjects(t *testing.T) {
	q := newQueue()
	c, err := Build(parse(t, demoScene), testEnv(t, q))
	require.NoError(t, err)

	// lights then primitives are attached synchronously
	require.Equal(t, 2, c.Graph.Len())
	assert.Equal(t, "lamp", c.Graph.Children()[0].Name)
	assert.Equal(t, "ball", c.Graph.Children()[1].Name)
	assert.Equal(t, 3, c.Pending())

	var settledErr error
	settled := false
	c.OnSettled(func(err error) {
		settled = true
		settledErr = err
	})
	q.drainUntil(t, func() bool { return settled })

	assert.NoError(t, settledErr)
	assert.Equal(t, 5, c.Graph.Len())
	assert.Len(t, c.Objects, 3)

	names := map[string]bool{}
	for _, n := range c.Graph.Children()[2:] {
		names[n.Name] = true
	}
	assert.Equal(t, map[string]bool{"cube": true, "ground": true, "skybox": true}, names)
	require.NotNil(t, c.Skybox)
	assert.Equal(t, "skybox", c.Skybox.Name)

	require.Len(t, c.Controls, 1)
	tb, ok := c.Controls[0].(*controls.Trackball)
	require.True(t, ok)
	assert.True(t, tb.Enabled)
	assert.Equal(t, float32(controls.DefaultRotateSpeed), tb.RotateSpeed)

	animated := c.Animated()
	require.Len(t, animated, 2)
	assert.Equal(t, anim.ModeOrbit, animated[0].Animation().Mode)
	assert.Same(t, c.Camera.Node(), animated[1].Node())
}

func TestOBJWaitsForMaterials(t *testing.T) {
	q := newQueue()
	r, err := Resolve(parse(t, `
nodes:
  - kind: camera
  - kind: obj
    name: cube
    file: models/cube.obj
    children:
      - kind: mtl
        file: models/cube.mtl
`), testEnv(t, q))
	require.NoError(t, err)
	c, err := Compose(r)
	require.NoError(t, err)

	q.drainUntil(t, func() bool { return len(c.Objects) == 1 })

	group := c.Objects[0]
	require.Len(t, group.Children(), 1)
	mesh := group.Children()[0]
	assert.Len(t, mesh.Geometry.Faces, 2)
	require.Len(t, mesh.Materials, 1)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, mesh.Materials[0].Color)
	require.NotNil(t, mesh.Materials[0].Map, "texture loaded before the mesh")
	assert.Equal(t, mgl32.Vec2{1, 0}, mesh.Geometry.Faces[0].UV[1])

	obj := r.Objects[0].(*OBJObject)
	assert.NotNil(t, obj.Materials().Get("red"))
}

func TestLoadFailureIsIsolated(t *testing.T) {
	q := newQueue()
	c, err := Build(parse(t, `
nodes:
  - kind: camera
  - kind: obj
    name: missing
    file: models/nothere.obj
  - kind: terrain
    name: ground
    heightmap: terrain.raw
    w_points: 2
    h_points: 2
  - kind: ambient-light
`), testEnv(t, q))
	require.NoError(t, err)

	var settledErr error
	settled := false
	c.OnSettled(func(err error) {
		settled = true
		settledErr = err
	})
	q.drainUntil(t, func() bool { return settled })

	assert.Error(t, settledErr)
	assert.ErrorContains(t, settledErr, "missing")
	assert.Equal(t, 2, c.Graph.Len())
	require.Len(t, c.Objects, 1)
	assert.Equal(t, "ground", c.Objects[0].Name)
}

func TestBuildWithoutDispatcherQueuesCompletions(t *testing.T) {
	fsys := testFS(t)
	fsys["models/extra.mtl"] = &fstest.MapFile{Data: []byte("newmtl green\nKd 0 1 0\nmap_Kd red.png\n")}

	var src strings.Builder
	src.WriteString("nodes:\n  - kind: camera\n")
	for i := 0; i < 8; i++ {
		fmt.Fprintf(&src, `  - kind: obj
    name: cube%d
    file: models/cube.obj
    children:
      - kind: mtl
        file: models/cube.mtl
      - kind: mtl
        file: models/extra.mtl
`, i)
	}

	c, err := Build(parse(t, src.String()), &Env{FS: fsys})
	require.NoError(t, err)
	assert.Equal(t, 8, c.Pending())

	// completions only run when the scene owner drains them
	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, c.Graph.Len())

	deadline := time.Now().Add(5 * time.Second)
	for c.Pending() > 0 && time.Now().Before(deadline) {
		c.Drain()
		time.Sleep(time.Millisecond)
	}
	require.Zero(t, c.Pending(), "timed out waiting for loads")
	assert.NoError(t, c.Err())
	assert.Equal(t, 8, c.Graph.Len())
	require.Len(t, c.Objects, 8)

	for _, o := range c.Objects {
		require.Len(t, o.Children(), 1)
		mat := o.Children()[0].Material(0)
		require.NotNil(t, mat)
		assert.Equal(t, mgl32.Vec3{1, 0, 0}, mat.Color)
		assert.NotNil(t, mat.Map)
	}
}

func TestDrainWithDispatcherIsNoop(t *testing.T) {
	q := newQueue()
	c, err := Build(parse(t, demoScene), testEnv(t, q))
	require.NoError(t, err)
	assert.Zero(t, c.Drain())
}

func TestPrimitiveRotation(t *testing.T) {
	r, err := Resolve(parse(t, `
nodes:
  - kind: sphere
    w_segments: 4
    h_segments: 4
    rotation:
      - axis: [0, 0, 1]
        degrees: 90
      - axis: [1, 0, 0]
        degrees: 90
        world: true
  - kind: plane
    w_segments: 1
    h_segments: 1
    rotation:
      - axis: [0, 0, 0]
        degrees: 45
`), nil)
	require.NoError(t, err)
	require.Len(t, r.Primitives, 2)

	sphere := r.Primitives[0].Node()
	want := mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{1, 0, 0}).
		Mul(mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 0, 1}))
	assert.True(t, sphere.Rotation.ApproxEqualThreshold(want, 1e-5), "got %v, want %v", sphere.Rotation, want)

	// object x maps to world z after both steps
	x := sphere.Rotation.Rotate(mgl32.Vec3{1, 0, 0})
	assert.InDelta(t, 0, x.Sub(mgl32.Vec3{0, 0, 1}).Len(), 1e-5)

	// a zero axis is ignored
	assert.Equal(t, mgl32.QuatIdent(), r.Primitives[1].Node().Rotation)
}

func TestTerrainHeights(t *testing.T) {
	q := newQueue()
	c, err := Build(parse(t, `
nodes:
  - kind: camera
  - kind: terrain
    heightmap: terrain.raw
    w_points: 2
    h_points: 2
`), testEnv(t, q))
	require.NoError(t, err)
	q.drainUntil(t, func() bool { return len(c.Objects) == 1 })

	n := c.Objects[0]
	require.Len(t, n.Geometry.Vertices, 4)
	want := []float32{0, 65535, 32768, 0}
	for i, v := range n.Geometry.Vertices {
		assert.InDelta(t, want[i]*geometry.HeightScale, v.Z(), 1e-6)
	}
	assert.InDelta(t, 60, n.Geometry.Bounds().Size().X(), 1e-4)

	mat := n.Materials[0]
	assert.True(t, mat.Wireframe)
	assert.Equal(t, TerrainWireColor, mat.Color)
}

func TestFlatTerrainWithoutHeightmap(t *testing.T) {
	c, err := Build(parse(t, "nodes:\n  - kind: camera\n  - kind: terrain\n"), nil)
	require.NoError(t, err)

	require.Len(t, c.Objects, 1)
	assert.Equal(t, 1, c.Graph.Len())
}

func TestSkyboxStrip(t *testing.T) {
	q := newQueue()
	r, err := Resolve(parse(t, `
nodes:
  - kind: camera
  - kind: skybox
    default_assets: false
    texture: sky.png
`), testEnv(t, q))
	require.NoError(t, err)
	sky := r.Skybox.(*Skybox)

	mats := sky.Materials()
	require.Len(t, mats, 6)
	for i, m := range mats {
		assert.InDelta(t, 1.0/8, m.Repeat.X(), 1e-6)
		assert.InDelta(t, float64(i)/8, m.Offset.X(), 1e-6)
		assert.Equal(t, 128, m.Map.Bounds().Dx(), "placeholder before load")
	}

	c, err := Compose(r)
	require.NoError(t, err)
	q.drainUntil(t, func() bool { return len(c.Objects) == 1 })

	box := c.Objects[0]
	assert.Equal(t, mgl32.Vec3{-1, 1, 1}, box.Scale)
	assert.InDelta(t, 1e4, box.Geometry.Bounds().Size().X(), 1e-2)
	for _, m := range mats {
		assert.Equal(t, 2, m.Map.Bounds().Dx())
	}
}

func TestSkyboxKeepsPlaceholderOnFailure(t *testing.T) {
	q := newQueue()
	c, err := Build(parse(t, `
nodes:
  - kind: camera
  - kind: skybox
`), testEnv(t, q))
	require.NoError(t, err)

	var settledErr error
	settled := false
	c.OnSettled(func(err error) {
		settled = true
		settledErr = err
	})
	q.drainUntil(t, func() bool { return settled })

	assert.NoError(t, settledErr)
	require.Len(t, c.Objects, 1)
	for _, m := range c.Objects[0].Materials {
		assert.Equal(t, 128, m.Map.Bounds().Dx())
	}
}

func TestMisplacedNodes(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"top level mtl", "nodes:\n  - kind: mtl\n    file: a.mtl\n"},
		{"sphere with children", "nodes:\n  - kind: sphere\n    children:\n      - kind: camera\n"},
		{"camera under obj", "nodes:\n  - kind: obj\n    children:\n      - kind: camera\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(parse(t, tt.src), nil)
			assert.ErrorIs(t, err, ErrMisplacedNode)
		})
	}
}

func TestInvalidLightColor(t *testing.T) {
	_, err := Resolve(parse(t, "nodes:\n  - kind: point-light\n    color: blue\n"), nil)
	assert.Error(t, err)
}

func TestLightDefaults(t *testing.T) {
	r, err := Resolve(parse(t, `
nodes:
  - kind: point-light
  - kind: directional-light
    sun: {azimuth: 0, elevation: 90}
`), nil)
	require.NoError(t, err)
	require.Len(t, r.Lights, 2)

	point := r.Lights[0].Light()
	assert.Equal(t, mgl32.Vec3{0, 250, 0}, point.Position)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, point.Light.Color)
	assert.Equal(t, float32(1), point.Light.Intensity)

	sun := r.Lights[1].Light()
	assert.InDelta(t, 100, sun.Position.Y(), 1e-3)
}

func TestPlaneDefaults(t *testing.T) {
	r, err := Resolve(parse(t, "nodes:\n  - kind: plane\n    w_segments: 2\n    h_segments: 2\n"), nil)
	require.NoError(t, err)

	n := r.Primitives[0].Node()
	assert.Equal(t, DefaultPlanePosition, n.Position)
	assert.True(t, n.Materials[0].Normals)
	assert.InDelta(t, 1000, n.Geometry.Bounds().Size().X(), 1e-3)
}

func TestAnnotatedPrimitive(t *testing.T) {
	f, err := label.NewFactory(label.CanvasSize{Width: 64, Height: 128})
	require.NoError(t, err)

	c, err := Build(parse(t, `
nodes:
  - kind: camera
  - kind: sphere
    position: [10, 0, 0]
    w_segments: 8
    h_segments: 6
    annotate: true
    face_labels: center
`), &Env{Labels: f})
	require.NoError(t, err)

	require.Len(t, c.Annotations, 1)
	box := c.Annotations[0]
	assert.Equal(t, 2, c.Graph.Len())
	assert.Len(t, box.Children(), len(box.Geometry.Faces))
	assert.InDelta(t, 10, box.Geometry.Bounds().Center().X(), 1e-3)
}

func TestLabelNeedsFactory(t *testing.T) {
	_, err := Resolve(parse(t, "nodes:\n  - kind: label\n    text: hi\n"), nil)
	assert.Error(t, err)

	f, err := label.NewFactory(label.CanvasSize{Width: 64, Height: 128})
	require.NoError(t, err)
	r, err := Resolve(parse(t, "nodes:\n  - kind: label\n    name: tag\n    text: hi\n    position: [1, 2, 3]\n"), &Env{Labels: f})
	require.NoError(t, err)

	n := r.Primitives[0].Node()
	assert.True(t, n.Billboard)
	assert.Equal(t, "tag", n.Name)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, n.Position)
}

func TestControlsResolve(t *testing.T) {
	set := controls.DefaultSettings()
	set.PanSpeed = 2
	r, err := Resolve(parse(t, `
nodes:
  - kind: trackball-controls
    rotate_speed: 4
  - kind: vr-controls
  - kind: vr-controls
    enabled: true
    eye_separation: 0.1
`), &Env{Controls: &set})
	require.NoError(t, err)
	require.Len(t, r.Controls, 3)

	tb := r.Controls[0].(*controls.Trackball)
	assert.Equal(t, float32(4), tb.RotateSpeed)
	assert.Equal(t, float32(2), tb.PanSpeed)
	assert.True(t, tb.StaticMoving)

	assert.False(t, r.Controls[1].(*controls.Stereo).Enabled)
	vr := r.Controls[2].(*controls.Stereo)
	assert.True(t, vr.Enabled)
	assert.Equal(t, float32(0.1), vr.EyeSeparation)
}

func TestAnimationAttrsConfig(t *testing.T) {
	var none *AnimationAttrs
	assert.Equal(t, float32(1), none.Config().Rate)

	ref := mgl32.Vec3{100, 0, 0}
	a := &AnimationAttrs{Animate: true, Mode: "translate", ReferencePoint: &ref, ControlPoints: 3}
	cfg := a.Config()
	assert.Equal(t, anim.ModeTranslate, cfg.Mode)
	assert.Equal(t, float32(1), cfg.Rate)
	require.NotNil(t, cfg.ReferencePoint)

	// the config owns its reference point
	ref[0] = 5
	assert.Equal(t, float32(100), cfg.ReferencePoint.X())
}

func TestStyleAttrs(t *testing.T) {
	st := StyleAttrs{BackgroundColor: "#6464FF", BorderColor: "nonsense"}.Style()
	assert.Equal(t, color.RGBA{100, 100, 255, 255}, st.BackgroundColor)
	assert.Equal(t, color.RGBA{}, st.BorderColor)
}

func TestBasePath(t *testing.T) {
	fs := fstest.MapFS{"assets/scene/red.png": {Data: pngBytes(t, color.RGBA{255, 0, 0, 255})}}
	q := newQueue()
	r, err := Resolve(parse(t, `
base_path: scene
nodes:
  - kind: sphere
    texture: red.png
    w_segments: 4
    h_segments: 4
`), &Env{FS: fs, BasePath: "assets", Dispatch: q.post})
	require.NoError(t, err)

	mat := r.Primitives[0].Node().Materials[0]
	q.drainUntil(t, func() bool { return mat.Map != nil })
	assert.False(t, mat.Normals)
}

func TestAnnotateAll(t *testing.T) {
	q := newQueue()
	env := testEnv(t, q)
	env.AnnotateAll = true
	c, err := Build(parse(t, `
nodes:
  - kind: camera
  - kind: plane
    w_segments: 1
    h_segments: 1
  - kind: terrain
    heightmap: terrain.raw
    w_points: 2
    h_points: 2
  - kind: skybox
    default_assets: false
    texture: sky.png
`), env)
	require.NoError(t, err)

	settled := false
	c.OnSettled(func(error) { settled = true })
	q.drainUntil(t, func() bool { return settled })

	// plane and terrain, not the skybox
	assert.Len(t, c.Annotations, 2)
	for _, box := range c.Annotations {
		assert.Empty(t, box.Children())
	}
}
