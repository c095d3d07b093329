package formats

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// MTL format errors.
var (
	ErrInvalidMTL    = errors.New("invalid MTL data")
	ErrMTLNoMaterial = errors.New("MTL property before newmtl")
)

// MTLMaterial is one material of a Wavefront MTL library.
type MTLMaterial struct {
	Name     string
	Ambient  [3]float32 // Ka
	Diffuse  [3]float32 // Kd
	Specular [3]float32 // Ks
	Emissive [3]float32 // Ke
	Shine    float32    // Ns
	Opacity  float32    // d, or 1-Tr
	Illum    int

	MapKd  string     // diffuse texture, relative to the library
	Repeat [2]float32 // map_Kd -s
	Offset [2]float32 // map_Kd -o
}

// MTL is a parsed material library.
type MTL struct {
	Materials map[string]*MTLMaterial
	Order     []string // names in declaration order
	Warnings  []string
}

// Get returns the named material or nil.
func (m *MTL) Get(name string) *MTLMaterial {
	if m == nil {
		return nil
	}
	return m.Materials[name]
}

// Textures returns the distinct diffuse texture paths in declaration order.
func (m *MTL) Textures() []string {
	seen := make(map[string]bool)
	var out []string
	for _, name := range m.Order {
		t := m.Materials[name].MapKd
		if t != "" && !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// Merge adds the materials of o that m does not define yet.
func (m *MTL) Merge(o *MTL) {
	if o == nil {
		return
	}
	for _, name := range o.Order {
		if _, ok := m.Materials[name]; ok {
			continue
		}
		m.Materials[name] = o.Materials[name]
		m.Order = append(m.Order, name)
	}
	m.Warnings = append(m.Warnings, o.Warnings...)
}

// NewMTL returns an empty library.
func NewMTL() *MTL {
	return &MTL{Materials: make(map[string]*MTLMaterial)}
}

type mtlParser struct {
	mtl     *MTL
	line    int
	current *MTLMaterial
}

// ParseMTL parses an MTL file from r.
func ParseMTL(r io.Reader) (*MTL, error) {
	p := &mtlParser{mtl: NewMTL()}
	if err := scanLines(r, &p.line, p.parseLine); err != nil {
		return nil, err
	}
	return p.mtl, nil
}

// ParseMTLFile parses an MTL file from disk.
func ParseMTLFile(path string) (*MTL, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening MTL file: %w", err)
	}
	defer f.Close()
	return ParseMTL(f)
}

func (p *mtlParser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrInvalidMTL, p.line, fmt.Sprintf(format, args...))
}

func (p *mtlParser) parseLine(fields []string) error {
	key, args := fields[0], fields[1:]
	if key == "newmtl" {
		if len(args) < 1 {
			return p.errorf("newmtl with no name")
		}
		name := strings.Join(args, " ")
		mat, ok := p.mtl.Materials[name]
		if !ok {
			mat = &MTLMaterial{Name: name, Diffuse: [3]float32{1, 1, 1}, Opacity: 1, Repeat: [2]float32{1, 1}}
			p.mtl.Materials[name] = mat
			p.mtl.Order = append(p.mtl.Order, name)
		}
		p.current = mat
		return nil
	}
	if p.current == nil {
		return fmt.Errorf("%w: line %d: %s", ErrMTLNoMaterial, p.line, key)
	}

	var err error
	m := p.current
	switch key {
	case "Ka":
		m.Ambient, err = p.color(args)
	case "Kd":
		m.Diffuse, err = p.color(args)
	case "Ks":
		m.Specular, err = p.color(args)
	case "Ke":
		m.Emissive, err = p.color(args)
	case "Ns":
		m.Shine, err = p.scalar(args)
	case "d":
		m.Opacity, err = p.scalar(args)
	case "Tr":
		var tr float32
		tr, err = p.scalar(args)
		m.Opacity = 1 - tr
	case "illum":
		var v float32
		v, err = p.scalar(args)
		m.Illum = int(v)
	case "map_Kd":
		err = p.parseMapKd(m, args)
	default:
		p.mtl.Warnings = append(p.mtl.Warnings, fmt.Sprintf("mtl(%d): field not supported: %s", p.line, key))
	}
	return err
}

func (p *mtlParser) scalar(args []string) (float32, error) {
	if len(args) < 1 {
		return 0, p.errorf("missing value")
	}
	v, err := strconv.ParseFloat(args[0], 32)
	if err != nil {
		return 0, p.errorf("bad number %q", args[0])
	}
	return float32(v), nil
}

func (p *mtlParser) color(args []string) ([3]float32, error) {
	var c [3]float32
	if len(args) < 3 {
		return c, p.errorf("expected 3 colour components, got %d", len(args))
	}
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(args[i], 32)
		if err != nil {
			return c, p.errorf("bad number %q", args[i])
		}
		c[i] = float32(v)
	}
	return c, nil
}

// parseMapKd parses map_Kd [-s u [v [w]]] [-o u [v [w]]] <filename>.
func (p *mtlParser) parseMapKd(m *MTLMaterial, args []string) error {
	for i := 0; i < len(args); i++ {
		opt := args[i]
		if opt != "-s" && opt != "-o" {
			m.MapKd = strings.Join(args[i:], " ")
			return nil
		}

		// numeric values, always leaving the file name
		var vals []float32
		for len(vals) < 3 && i+2 < len(args) {
			v, err := strconv.ParseFloat(args[i+1], 32)
			if err != nil {
				break
			}
			vals = append(vals, float32(v))
			i++
		}
		if len(vals) == 0 {
			return p.errorf("%s without values", opt)
		}
		pair := [2]float32{vals[0], vals[0]}
		if len(vals) > 1 {
			pair[1] = vals[1]
		}
		if opt == "-s" {
			m.Repeat = pair
		} else {
			m.Offset = pair
		}
	}
	return p.errorf("map_Kd with no file")
}
