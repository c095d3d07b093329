package scene

import (
	"errors"
	"fmt"
	"strings"
)

// Composition and descriptor errors.
var (
	ErrNoCamera      = errors.New("scene has no camera")
	ErrUnknownKind   = errors.New("unknown node kind")
	ErrMisplacedNode = errors.New("node kind not allowed here")
)

// Kind is the closed set of node kinds a scene file may declare.
type Kind int

const (
	KindInvalid Kind = iota
	KindCamera
	KindAmbientLight
	KindPointLight
	KindDirectionalLight
	KindOBJ
	KindMTL
	KindTerrain
	KindSphere
	KindPlane
	KindLabel
	KindSkybox
	KindTrackballControls
	KindVRControls
)

var kindNames = map[Kind]string{
	KindCamera:            "perspective-camera",
	KindAmbientLight:      "ambient-light",
	KindPointLight:        "point-light",
	KindDirectionalLight:  "directional-light",
	KindOBJ:               "obj",
	KindMTL:               "mtl",
	KindTerrain:           "terrain",
	KindSphere:            "sphere",
	KindPlane:             "plane",
	KindLabel:             "label",
	KindSkybox:            "skybox",
	KindTrackballControls: "trackball-controls",
	KindVRControls:        "vr-controls",
}

var kindAliases = map[string]Kind{
	"camera": KindCamera,
	"sprite": KindLabel,
}

// String returns the name used in scene files.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind converts a scene file kind name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if k, ok := kindAliases[name]; ok {
		return k, nil
	}
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return KindInvalid, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// IsLight reports whether k is one of the light kinds.
func (k Kind) IsLight() bool {
	return k == KindAmbientLight || k == KindPointLight || k == KindDirectionalLight
}

// IsControls reports whether k is a control handler.
func (k Kind) IsControls() bool {
	return k == KindTrackballControls || k == KindVRControls
}
