// Package debug provides debug visualization utilities.
package debug

import (
	"fmt"
	"image/color"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/scenekit/internal/engine/geometry"
	"github.com/Faultbox/scenekit/internal/engine/label"
	"github.com/Faultbox/scenekit/internal/engine/node"
)

// Annotator builds bounding-box meshes with per-face colours.
type Annotator struct {
	rng *rand.Rand
}

// NewAnnotator creates an annotator whose face colours are drawn from seed.
func NewAnnotator(seed int64) *Annotator {
	s := uint64(seed)
	return &Annotator{rng: rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))}
}

// Annotate returns a wireframe box around n's current world bounds and the
// centroid of each of its faces. The box is a snapshot; it does not follow
// later movement of n. A node without geometry yields nil.
func (a *Annotator) Annotate(n *node.Node) (*node.Node, []mgl32.Vec3) {
	bounds := n.WorldBounds()
	if bounds.IsEmpty() {
		return nil, nil
	}
	size := bounds.Size()

	g := geometry.NewBox(size.X(), size.Y(), size.Z())
	for i := range g.Faces {
		g.Faces[i].Color = mgl32.Vec3{0, 0, 0.8*a.rng.Float32() + 0.2}
	}
	g.Translate(bounds.Center())
	g.ComputeFaceCentroids()

	mat := &node.Material{
		Color:        mgl32.Vec3{1, 1, 1},
		VertexColors: true,
		Wireframe:    true,
		Unlit:        true,
	}
	box := node.NewMesh(n.Name+".bounds", g, mat)
	return box, g.Centroids()
}

// Alignment selects where face labels are anchored.
type Alignment int

const (
	AlignOrigin Alignment = iota
	AlignCenter
)

// ParseAlignment maps "center" to AlignCenter; anything else anchors at the origin.
func ParseAlignment(s string) Alignment {
	if s == "center" {
		return AlignCenter
	}
	return AlignOrigin
}

// labelOffset pushes labels slightly away from the mesh.
const labelOffset = 1.2

// FaceLabelStyle is the style used for face labels.
var FaceLabelStyle = label.Style{
	FontSize:        32,
	BackgroundColor: color.RGBA{100, 100, 255, 255},
}

// FaceLabels creates one label per face of g. Labels sit on the scaled face
// centroid for AlignCenter and at the origin otherwise. messages[i] replaces
// the default text, which is the label position.
func FaceLabels(f *label.Factory, g *geometry.Geometry, align Alignment, messages []string) []*node.Node {
	if g == nil || len(g.Faces) == 0 {
		return nil
	}
	out := make([]*node.Node, 0, len(g.Faces))
	for i, face := range g.Faces {
		var pos mgl32.Vec3
		if align == AlignCenter {
			pos = face.Centroid
		}
		pos = pos.Mul(labelOffset)

		text := fmt.Sprintf(" %.2f, %.2f, %.2f ", pos.X(), pos.Y(), pos.Z())
		if i < len(messages) {
			text = messages[i]
		}
		out = append(out, f.Make(text, FaceLabelStyle, &pos))
	}
	return out
}
