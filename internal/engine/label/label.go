// Package label rasterises text into billboard sprites.
package label

import (
	"fmt"
	"image"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/Faultbox/scenekit/internal/engine/geometry"
	"github.com/Faultbox/scenekit/internal/engine/node"
	"github.com/Faultbox/scenekit/internal/logger"
)

// CanvasSize is the backing canvas every label is drawn onto.
type CanvasSize struct {
	Width  int
	Height int
}

// SpriteScale is the world size of a label quad.
var SpriteScale = mgl32.Vec3{100, 200, 1}

// Built-in faces. Any other family name falls back to the bold face.
var fontFiles = map[string][]byte{
	"bold":      gobold.TTF,
	"regular":   goregular.TTF,
	"mono":      gomonobold.TTF,
	"monospace": gomonobold.TTF,
	"courier":   gomonobold.TTF,
}

type faceKey struct {
	family string
	size   float64
}

// Factory builds label sprites. It caches parsed fonts and is meant to be
// used from the render loop goroutine only.
type Factory struct {
	canvas CanvasSize
	fonts  map[string]*opentype.Font
	faces  map[faceKey]font.Face
	log    *zap.Logger
}

// NewFactory creates a factory drawing onto canvases of the given size.
func NewFactory(size CanvasSize) (*Factory, error) {
	if size.Width <= 0 || size.Height <= 0 {
		return nil, fmt.Errorf("label: invalid canvas size %dx%d", size.Width, size.Height)
	}
	return &Factory{
		canvas: size,
		fonts:  make(map[string]*opentype.Font),
		faces:  make(map[faceKey]font.Face),
		log:    logger.Named("label"),
	}, nil
}

// CanvasSize returns the backing canvas size.
func (f *Factory) CanvasSize() CanvasSize {
	return f.canvas
}

// Make draws text onto a fresh canvas and returns a billboard node carrying
// it as a texture. A nil position leaves the node at the origin.
func (f *Factory) Make(text string, st Style, position *mgl32.Vec3) *node.Node {
	img, _ := f.Rasterize(text, st)

	mat := &node.Material{
		Color:      mgl32.Vec3{1, 1, 1},
		Unlit:      true,
		DoubleSide: true,
		Repeat:     mgl32.Vec2{1, 1},
	}
	mat.SetMap(img)

	n := node.NewMesh("label", geometry.NewPlane(1, 1, 1, 1), mat)
	n.Billboard = true
	n.Scale = SpriteScale
	if position != nil {
		n.Position = *position
	}
	return n
}

// Rasterize draws text and returns the canvas together with the layout used.
func (f *Factory) Rasterize(text string, st Style) (*image.RGBA, Layout) {
	st = st.Resolved()
	face := f.face(st.FontFace, st.FontSize)

	measure := func(s string) float64 {
		return float64(font.MeasureString(face, s)) / 64
	}
	cw, ch := float64(f.canvas.Width), float64(f.canvas.Height)
	l := ComputeLayout(text, st, cw, ch, measure)

	img := image.NewRGBA(image.Rect(0, 0, f.canvas.Width, f.canvas.Height))
	drawBackground(img, l, st)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(st.TextColor),
		Face: face,
	}
	maxWidth := cw - 2*st.BorderThickness
	for i, chunk := range l.Chunks {
		line := " " + chunk + " "
		d.Dot = fixed.Point26_6{
			X: fixed.Int26_6(l.X * 64),
			Y: fixed.Int26_6((l.Y + st.FontSize*float64(i+1) + st.BorderThickness) * 64),
		}
		d.DrawString(clip(line, maxWidth, measure))
	}
	return img, l
}

// clip drops trailing runes until s fits in maxWidth.
func clip(s string, maxWidth float64, measure func(string) float64) string {
	for measure(s) > maxWidth && len(s) > 0 {
		r := []rune(s)
		s = string(r[:len(r)-1])
	}
	return s
}

func (f *Factory) face(family string, size float64) font.Face {
	name := strings.ToLower(strings.TrimSpace(family))
	if _, ok := fontFiles[name]; !ok {
		name = "bold"
	}
	key := faceKey{name, size}
	if face, ok := f.faces[key]; ok {
		return face
	}

	fnt, ok := f.fonts[name]
	if !ok {
		var err error
		fnt, err = opentype.Parse(fontFiles[name])
		if err != nil {
			f.log.Warn("font parse failed", zap.String("family", name), zap.Error(err))
			return basicfont.Face7x13
		}
		f.fonts[name] = fnt
	}

	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		f.log.Warn("font face failed", zap.String("family", name), zap.Float64("size", size), zap.Error(err))
		return basicfont.Face7x13
	}
	f.faces[key] = face
	return face
}

// drawBackground fills the rounded rectangle and strokes its border.
func drawBackground(dst *image.RGBA, l Layout, st Style) {
	half := st.BorderThickness / 2
	outer := roundRect(dst.Bounds().Size(), l.X-half, l.Y-half, l.W+2*half, l.H+2*half, l.Radius+half)
	outer.Draw(dst, dst.Bounds(), image.NewUniform(st.BorderColor), image.Point{})

	r := l.Radius - half
	if r < 0 {
		r = 0
	}
	inner := roundRect(dst.Bounds().Size(), l.X+half, l.Y+half, l.W-2*half, l.H-2*half, r)
	inner.Draw(dst, dst.Bounds(), image.NewUniform(st.BackgroundColor), image.Point{})
}

func roundRect(size image.Point, x, y, w, h, r float64) *vector.Rasterizer {
	ras := vector.NewRasterizer(size.X, size.Y)
	if w <= 0 || h <= 0 {
		return ras
	}
	if r > w/2 {
		r = w / 2
	}
	if r > h/2 {
		r = h / 2
	}
	fx, fy, fw, fh, fr := float32(x), float32(y), float32(w), float32(h), float32(r)

	ras.MoveTo(fx+fr, fy)
	ras.LineTo(fx+fw-fr, fy)
	ras.QuadTo(fx+fw, fy, fx+fw, fy+fr)
	ras.LineTo(fx+fw, fy+fh-fr)
	ras.QuadTo(fx+fw, fy+fh, fx+fw-fr, fy+fh)
	ras.LineTo(fx+fr, fy+fh)
	ras.QuadTo(fx, fy+fh, fx, fy+fh-fr)
	ras.LineTo(fx, fy+fr)
	ras.QuadTo(fx, fy, fx+fr, fy)
	ras.ClosePath()
	return ras
}
