package scene

import (
	"image"
	"io/fs"
	"path"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/scenekit/internal/engine/controls"
	"github.com/Faultbox/scenekit/internal/engine/debug"
	"github.com/Faultbox/scenekit/internal/engine/label"
	"github.com/Faultbox/scenekit/internal/engine/loader"
	"github.com/Faultbox/scenekit/internal/logger"
	"github.com/Faultbox/scenekit/pkg/formats"
)

// Env holds the collaborators nodes are resolved against.
type Env struct {
	// BasePath is the directory file names are relative to.
	BasePath string
	// FS, when set, replaces the OS file system for every load.
	FS fs.FS
	// Dispatch delivers load completions, normally onto the render loop.
	// When nil, completions wait in the composition until Drain.
	Dispatch loader.Dispatcher
	// Labels draws label sprites. Label nodes and face labels need it.
	Labels *label.Factory
	// Annotator builds bounding boxes for nodes marked annotate.
	Annotator *debug.Annotator
	// AnnotateAll annotates every primitive and object, as if each were
	// marked annotate. FaceLabels is the face label alignment used for
	// nodes that name none; empty means no face labels.
	AnnotateAll bool
	FaceLabels  string
	// Controls overrides the handler defaults.
	Controls *controls.Settings

	queue *loader.Queue
	log   *zap.Logger
}

func (e *Env) logger() *zap.Logger {
	if e.log == nil {
		e.log = logger.Named("scene")
	}
	return e.log
}

func (e *Env) controlSettings() controls.Settings {
	if e.Controls != nil {
		return *e.Controls
	}
	return controls.DefaultSettings()
}

// withBase returns a copy of e whose base path includes rel.
func (e *Env) withBase(rel string) *Env {
	c := *e
	switch {
	case rel == "":
	case e.FS != nil:
		c.BasePath = path.Join(e.BasePath, rel)
	case filepath.IsAbs(rel) || e.BasePath == "":
		c.BasePath = rel
	default:
		c.BasePath = filepath.Join(e.BasePath, rel)
	}
	return &c
}

func fileLoader[T any](e *Env, l *loader.FileLoader[T]) *loader.FileLoader[T] {
	l.SetBasePath(e.BasePath)
	if e.FS != nil {
		l.SetFS(e.FS)
	}
	return l
}

func (e *Env) objLoader() loader.Loader[*formats.OBJ] {
	return fileLoader(e, loader.NewOBJLoader(e.Dispatch))
}

func (e *Env) mtlLoader() loader.Loader[*formats.MTL] {
	return fileLoader(e, loader.NewMTLLoader(e.Dispatch))
}

func (e *Env) heightmapLoader(width, height int) loader.Loader[*formats.Heightmap] {
	return fileLoader(e, loader.NewHeightmapLoader(e.Dispatch, width, height))
}

func (e *Env) textureLoader() loader.Loader[image.Image] {
	return fileLoader(e, loader.NewTextureLoader(e.Dispatch))
}
