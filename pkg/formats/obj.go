package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// OBJ format errors.
var (
	ErrInvalidOBJ    = errors.New("invalid OBJ data")
	ErrOBJIndexRange = errors.New("OBJ index out of range")
)

// noIndex marks a missing texture or normal reference in a face.
const noIndex = -1

// OBJFace is one triangle of an OBJ object. Polygons are fanned into
// triangles when parsed.
type OBJFace struct {
	Vertices [3]int // indices into OBJ.Positions
	UVs      [3]int // indices into OBJ.UVs or -1
	Normals  [3]int // indices into OBJ.Normals or -1
	Material string
	Smooth   bool
}

// HasUVs reports whether every corner of the face has a texture coordinate.
func (f OBJFace) HasUVs() bool {
	return f.UVs[0] != noIndex && f.UVs[1] != noIndex && f.UVs[2] != noIndex
}

// OBJObject is a named group of faces ("o" or "g").
type OBJObject struct {
	Name      string
	Faces     []OBJFace
	Materials []string // in order of first use
}

// OBJ is a parsed Wavefront OBJ file.
type OBJ struct {
	MaterialLibs []string
	Positions    [][3]float32
	UVs          [][2]float32
	Normals      [][3]float32
	Objects      []OBJObject
	Warnings     []string
}

// FaceCount returns the number of triangles across all objects.
func (o *OBJ) FaceCount() int {
	n := 0
	for _, ob := range o.Objects {
		n += len(ob.Faces)
	}
	return n
}

type objParser struct {
	obj      *OBJ
	line     int
	current  *OBJObject
	material string
	smooth   bool
}

// ParseOBJ parses an OBJ file from r.
func ParseOBJ(r io.Reader) (*OBJ, error) {
	p := &objParser{obj: &OBJ{}}
	if err := scanLines(r, &p.line, p.parseLine); err != nil {
		return nil, err
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p.obj, nil
}

// ParseOBJFile parses an OBJ file from disk.
func ParseOBJFile(path string) (*OBJ, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening OBJ file: %w", err)
	}
	defer f.Close()
	return ParseOBJ(f)
}

// scanLines calls parse for every non-empty, non-comment line.
func scanLines(r io.Reader, line *int, parse func(fields []string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	*line = 0
	for sc.Scan() {
		*line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if err := parse(fields); err != nil {
			return err
		}
	}
	return sc.Err()
}

func (p *objParser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrInvalidOBJ, p.line, fmt.Sprintf(format, args...))
}

func (p *objParser) warn(msg string) {
	p.obj.Warnings = append(p.obj.Warnings, fmt.Sprintf("obj(%d): %s", p.line, msg))
}

func (p *objParser) parseLine(fields []string) error {
	args := fields[1:]
	switch fields[0] {
	case "mtllib":
		if len(args) < 1 {
			return p.errorf("mtllib with no fields")
		}
		p.obj.MaterialLibs = append(p.obj.MaterialLibs, args...)
	case "o", "g":
		name := "default"
		if len(args) > 0 {
			name = strings.Join(args, " ")
		}
		p.startObject(name)
	case "v":
		v, err := p.floats(args, 3)
		if err != nil {
			return err
		}
		p.obj.Positions = append(p.obj.Positions, [3]float32{v[0], v[1], v[2]})
	case "vn":
		v, err := p.floats(args, 3)
		if err != nil {
			return err
		}
		p.obj.Normals = append(p.obj.Normals, [3]float32{v[0], v[1], v[2]})
	case "vt":
		v, err := p.floats(args, 2)
		if err != nil {
			return err
		}
		p.obj.UVs = append(p.obj.UVs, [2]float32{v[0], v[1]})
	case "f":
		return p.parseFace(args)
	case "usemtl":
		if len(args) < 1 {
			return p.errorf("usemtl with no fields")
		}
		p.material = args[0]
		if p.current != nil {
			p.current.addMaterial(p.material)
		}
	case "s":
		if len(args) > 0 {
			p.smooth = args[0] != "0" && args[0] != "off"
		}
	default:
		p.warn("field not supported: " + fields[0])
	}
	return nil
}

func (p *objParser) startObject(name string) {
	p.obj.Objects = append(p.obj.Objects, OBJObject{Name: name})
	p.current = &p.obj.Objects[len(p.obj.Objects)-1]
	if p.material != "" {
		p.current.addMaterial(p.material)
	}
}

func (o *OBJObject) addMaterial(name string) {
	for _, m := range o.Materials {
		if m == name {
			return
		}
	}
	o.Materials = append(o.Materials, name)
}

func (p *objParser) floats(args []string, n int) ([]float32, error) {
	if len(args) < n {
		return nil, p.errorf("expected %d values, got %d", n, len(args))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(args[i], 32)
		if err != nil {
			return nil, p.errorf("bad number %q", args[i])
		}
		out[i] = float32(v)
	}
	return out, nil
}

// parseFace parses f v1[/vt1][/vn1] v2[/vt2][/vn2] v3[/vt3][/vn3] ...
func (p *objParser) parseFace(args []string) error {
	if len(args) < 3 {
		return p.errorf("face with fewer than 3 vertices")
	}
	if p.current == nil {
		p.startObject("default")
	}

	type corner struct{ v, vt, vn int }
	corners := make([]corner, len(args))
	for i, a := range args {
		parts := strings.Split(a, "/")
		v, err := p.index(parts[0], len(p.obj.Positions))
		if err != nil {
			return err
		}
		c := corner{v: v, vt: noIndex, vn: noIndex}
		if len(parts) > 1 && parts[1] != "" {
			if c.vt, err = p.index(parts[1], len(p.obj.UVs)); err != nil {
				return err
			}
		}
		if len(parts) > 2 && parts[2] != "" {
			if c.vn, err = p.index(parts[2], len(p.obj.Normals)); err != nil {
				return err
			}
		}
		corners[i] = c
	}

	for i := 1; i+1 < len(corners); i++ {
		a, b, c := corners[0], corners[i], corners[i+1]
		p.current.Faces = append(p.current.Faces, OBJFace{
			Vertices: [3]int{a.v, b.v, c.v},
			UVs:      [3]int{a.vt, b.vt, c.vt},
			Normals:  [3]int{a.vn, b.vn, c.vn},
			Material: p.material,
			Smooth:   p.smooth,
		})
	}
	return nil
}

// index converts a 1-based or negative relative OBJ index to 0-based.
func (p *objParser) index(s string, count int) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, p.errorf("bad index %q", s)
	}
	switch {
	case v > 0:
		return v - 1, nil
	case v < 0:
		if count+v < 0 {
			return 0, fmt.Errorf("%w: line %d: relative index %d of %d", ErrOBJIndexRange, p.line, v, count)
		}
		return count + v, nil
	default:
		return 0, p.errorf("index 0")
	}
}

// validate checks that every face index refers to parsed data.
func (p *objParser) validate() error {
	o := p.obj
	check := func(idx, count int, what string) error {
		if idx == noIndex {
			return nil
		}
		if idx < 0 || idx >= count {
			return fmt.Errorf("%w: %s index %d of %d", ErrOBJIndexRange, what, idx+1, count)
		}
		return nil
	}
	for _, ob := range o.Objects {
		for _, f := range ob.Faces {
			for k := 0; k < 3; k++ {
				if f.Vertices[k] < 0 || f.Vertices[k] >= len(o.Positions) {
					return fmt.Errorf("%w: vertex index %d of %d", ErrOBJIndexRange, f.Vertices[k]+1, len(o.Positions))
				}
				if err := check(f.UVs[k], len(o.UVs), "uv"); err != nil {
					return err
				}
				if err := check(f.Normals[k], len(o.Normals), "normal"); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
