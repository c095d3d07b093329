package formats

import (
	"errors"
	"strings"
	"testing"
)

const cubeMTL = `# materials
newmtl red
Ka 0.1 0 0
Kd 1 0 0
Ns 10
d 0.5
illum 2
map_Kd -s 2 3 1 textures/red brick.png

newmtl blue
Kd 0 0 1
Tr 0.25
map_Kd -o 0.5 blue.jpg
bump ignored.png
`

func TestParseMTL_ValidFile(t *testing.T) {
	mtl, err := ParseMTL(strings.NewReader(cubeMTL))
	if err != nil {
		t.Fatalf("ParseMTL failed: %v", err)
	}

	if len(mtl.Order) != 2 || mtl.Order[0] != "red" || mtl.Order[1] != "blue" {
		t.Fatalf("unexpected order %v", mtl.Order)
	}

	red := mtl.Get("red")
	if red.Diffuse != [3]float32{1, 0, 0} {
		t.Errorf("expected red diffuse, got %v", red.Diffuse)
	}
	if red.Opacity != 0.5 || red.Shine != 10 || red.Illum != 2 {
		t.Errorf("unexpected scalars: %+v", red)
	}
	if red.MapKd != "textures/red brick.png" {
		t.Errorf("unexpected map %q", red.MapKd)
	}
	if red.Repeat != [2]float32{2, 3} {
		t.Errorf("expected repeat 2,3, got %v", red.Repeat)
	}

	blue := mtl.Get("blue")
	if blue.Opacity != 0.75 {
		t.Errorf("expected opacity 0.75, got %f", blue.Opacity)
	}
	if blue.Offset != [2]float32{0.5, 0.5} || blue.Repeat != [2]float32{1, 1} {
		t.Errorf("unexpected tiling: offset %v repeat %v", blue.Offset, blue.Repeat)
	}

	if len(mtl.Warnings) != 1 {
		t.Errorf("expected one warning, got %v", mtl.Warnings)
	}

	textures := mtl.Textures()
	if len(textures) != 2 || textures[1] != "blue.jpg" {
		t.Errorf("unexpected textures %v", textures)
	}
	if mtl.Get("green") != nil {
		t.Error("expected nil for unknown material")
	}
}

func TestParseMTL_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"property first", "Kd 1 1 1\n", ErrMTLNoMaterial},
		{"unnamed", "newmtl\n", ErrInvalidMTL},
		{"short colour", "newmtl a\nKd 1 1\n", ErrInvalidMTL},
		{"map without file", "newmtl a\nmap_Kd -s 1\n", ErrInvalidMTL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMTL(strings.NewReader(tt.src))
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestMTLMerge(t *testing.T) {
	a, _ := ParseMTL(strings.NewReader("newmtl red\nKd 1 0 0\n"))
	b, _ := ParseMTL(strings.NewReader("newmtl red\nKd 0 1 0\nnewmtl blue\n"))

	a.Merge(b)
	if len(a.Order) != 2 {
		t.Fatalf("expected 2 materials, got %v", a.Order)
	}
	if a.Get("red").Diffuse != [3]float32{1, 0, 0} {
		t.Error("merge must not replace existing materials")
	}
}
