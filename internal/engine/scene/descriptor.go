package scene

import (
	"errors"
	"fmt"
	"image/color"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/scenekit/internal/engine/anim"
	"github.com/Faultbox/scenekit/internal/engine/label"
	"github.com/Faultbox/scenekit/internal/engine/lighting"
	"github.com/Faultbox/scenekit/internal/engine/node"
)

// Document is a parsed scene file.
type Document struct {
	Name     string       `yaml:"name"`
	BasePath string       `yaml:"base_path"`
	Nodes    []Descriptor `yaml:"nodes"`
}

// Descriptor is one declared node. Attrs holds the typed attributes of its
// kind, e.g. *CameraAttrs for KindCamera.
type Descriptor struct {
	Kind     Kind
	Name     string
	Attrs    any
	Children []Descriptor
}

// newAttrs returns a pointer to the zero attributes of k.
func newAttrs(k Kind) any {
	switch k {
	case KindCamera:
		return &CameraAttrs{}
	case KindAmbientLight, KindPointLight, KindDirectionalLight:
		return &LightAttrs{}
	case KindOBJ, KindMTL:
		return &FileAttrs{}
	case KindTerrain:
		return &TerrainAttrs{}
	case KindSphere, KindPlane:
		return &PrimitiveAttrs{}
	case KindLabel:
		return &LabelAttrs{}
	case KindSkybox:
		return &SkyboxAttrs{}
	case KindTrackballControls, KindVRControls:
		return &ControlsAttrs{}
	}
	return nil
}

// UnmarshalYAML decodes the kind first and then the attributes for it.
func (d *Descriptor) UnmarshalYAML(value *yaml.Node) error {
	var head struct {
		Kind     string       `yaml:"kind"`
		Name     string       `yaml:"name"`
		Children []Descriptor `yaml:"children"`
	}
	if err := value.Decode(&head); err != nil {
		return err
	}
	k, err := ParseKind(head.Kind)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	attrs := newAttrs(k)
	if err := value.Decode(attrs); err != nil {
		return fmt.Errorf("line %d: %s attributes: %w", value.Line, k, err)
	}
	d.Kind = k
	d.Name = head.Name
	if d.Name == "" {
		d.Name = k.String()
	}
	d.Attrs = attrs
	d.Children = head.Children
	return nil
}

// Parse decodes a scene document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing scene: %w", err)
	}
	return &doc, nil
}

// ParseFile reads and decodes a scene file.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene: %w", err)
	}
	return Parse(data)
}

// CameraAttrs configures a perspective camera.
type CameraAttrs struct {
	Position *mgl32.Vec3 `yaml:"position"`
	FOV      float32     `yaml:"fov"`
	Near     float32     `yaml:"near"`
	Far      float32     `yaml:"far"`
	LookAt   *mgl32.Vec3 `yaml:"look_at"`
}

// SunAttrs places a directional light by angles instead of a position.
type SunAttrs struct {
	Azimuth   float32 `yaml:"azimuth"`
	Elevation float32 `yaml:"elevation"`
	Distance  float32 `yaml:"distance"`
}

// LightAttrs configures any light kind. Position is ignored by ambient
// lights.
type LightAttrs struct {
	Color     string      `yaml:"color"`
	Intensity *float32    `yaml:"intensity"`
	Position  *mgl32.Vec3 `yaml:"position"`
	Range     float32     `yaml:"range"`
	Sun       *SunAttrs   `yaml:"sun"`
}

// FileAttrs names the file an obj or mtl node loads.
type FileAttrs struct {
	File     string `yaml:"file"`
	Annotate bool   `yaml:"annotate"`
}

// TerrainAttrs configures a heightmap terrain.
type TerrainAttrs struct {
	Heightmap string  `yaml:"heightmap"`
	Texture   string  `yaml:"texture"`
	Width     float32 `yaml:"width"`
	Height    float32 `yaml:"height"`
	WPoints   int     `yaml:"w_points"`
	HPoints   int     `yaml:"h_points"`
	Annotate  bool    `yaml:"annotate"`
}

// AnimationAttrs is the declared animation of a primitive.
type AnimationAttrs struct {
	Animate        bool        `yaml:"animate"`
	Mode           string      `yaml:"mode"`
	Variant        string      `yaml:"variant"`
	ReferencePoint *mgl32.Vec3 `yaml:"reference_point"`
	Direction      anim.Axes   `yaml:"direction"`
	ControlPoints  int         `yaml:"control_points"`
	Rate           float32     `yaml:"rate"`
}

// Config converts the attributes into a fresh animation config. A zero rate
// becomes 1.
func (a *AnimationAttrs) Config() *anim.Config {
	if a == nil {
		return &anim.Config{Rate: 1}
	}
	cfg := &anim.Config{
		Animate:       a.Animate,
		Mode:          anim.ParseMode(a.Mode),
		Variant:       anim.ParseOrbitVariant(a.Variant),
		Direction:     a.Direction,
		ControlPoints: a.ControlPoints,
		Rate:          a.Rate,
	}
	if a.ReferencePoint != nil {
		p := *a.ReferencePoint
		cfg.ReferencePoint = &p
	}
	if cfg.Rate == 0 {
		cfg.Rate = 1
	}
	return cfg
}

// PrimitiveAttrs configures a sphere or plane.
type PrimitiveAttrs struct {
	Texture    string          `yaml:"texture"`
	WSegments  int             `yaml:"w_segments"`
	HSegments  int             `yaml:"h_segments"`
	Position   *mgl32.Vec3     `yaml:"position"`
	Rotation   []RotationAttrs `yaml:"rotation"`
	Size       float32         `yaml:"size"`
	Width      float32         `yaml:"width"`
	Height     float32         `yaml:"height"`
	Animation  *AnimationAttrs `yaml:"animation"`
	Annotate   bool            `yaml:"annotate"`
	FaceLabels string          `yaml:"face_labels"`
}

// RotationAttrs is one initial rotation step. Axis is in object space
// unless World is set.
type RotationAttrs struct {
	Axis    mgl32.Vec3 `yaml:"axis"`
	Degrees float32    `yaml:"degrees"`
	World   bool       `yaml:"world"`
}

// Apply rotates n by the step.
func (r RotationAttrs) Apply(n *node.Node) {
	rad := mgl32.DegToRad(r.Degrees)
	if r.World {
		n.RotateOnWorldAxis(r.Axis, rad)
	} else {
		n.RotateOnAxis(r.Axis, rad)
	}
}

// StyleAttrs is the declared label style. Colours are hex strings; empty or
// malformed values select the defaults.
type StyleAttrs struct {
	FontFace        string  `yaml:"font_face"`
	FontSize        float64 `yaml:"font_size"`
	BorderThickness float64 `yaml:"border_thickness"`
	BorderColor     string  `yaml:"border_color"`
	BackgroundColor string  `yaml:"background_color"`
	TextColor       string  `yaml:"text_color"`
}

// Style converts the attributes to a label style.
func (s StyleAttrs) Style() label.Style {
	return label.Style{
		FontFace:        s.FontFace,
		FontSize:        s.FontSize,
		BorderThickness: s.BorderThickness,
		BorderColor:     parseRGBA(s.BorderColor),
		BackgroundColor: parseRGBA(s.BackgroundColor),
		TextColor:       parseRGBA(s.TextColor),
	}
}

// parseRGBA returns the zero colour for empty or malformed input.
func parseRGBA(s string) color.RGBA {
	if s == "" {
		return color.RGBA{}
	}
	c, err := lighting.ParseColor(s)
	if err != nil {
		return color.RGBA{}
	}
	return color.RGBA{
		R: uint8(c.X()*255 + 0.5),
		G: uint8(c.Y()*255 + 0.5),
		B: uint8(c.Z()*255 + 0.5),
		A: 255,
	}
}

// LabelAttrs configures a free-standing text label.
type LabelAttrs struct {
	Text      string          `yaml:"text"`
	Position  *mgl32.Vec3     `yaml:"position"`
	Style     StyleAttrs      `yaml:"style"`
	Animation *AnimationAttrs `yaml:"animation"`
}

// SkyboxAttrs configures the skybox. DefaultAssets defaults to true; when it
// is false Texture names one strip image holding every side.
type SkyboxAttrs struct {
	DefaultAssets *bool    `yaml:"default_assets"`
	BoxSize       float32  `yaml:"box_size"`
	Texture       string   `yaml:"texture"`
	Assets        []string `yaml:"assets"`
}

// ControlsAttrs configures a control handler. Zero speeds keep the handler
// defaults.
type ControlsAttrs struct {
	Enabled       *bool   `yaml:"enabled"`
	RotateSpeed   float32 `yaml:"rotate_speed"`
	ZoomSpeed     float32 `yaml:"zoom_speed"`
	PanSpeed      float32 `yaml:"pan_speed"`
	StaticMoving  *bool   `yaml:"static_moving"`
	DampingFactor float32 `yaml:"damping_factor"`
	EyeSeparation float32 `yaml:"eye_separation"`
}

// attrs returns d.Attrs as T, or an error naming the descriptor.
func attrs[T any](d *Descriptor) (T, error) {
	a, ok := d.Attrs.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s %q: %w", d.Kind, d.Name, errAttrs)
	}
	return a, nil
}

var errAttrs = errors.New("attributes do not match kind")
