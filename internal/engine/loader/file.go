package loader

import (
	"bytes"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/scenekit/internal/engine/texture"
	"github.com/Faultbox/scenekit/internal/logger"
	"github.com/Faultbox/scenekit/pkg/formats"
)

// ParseFunc turns the bytes of a named file into a resource.
type ParseFunc[T any] func(name string, data []byte) (T, error)

// FileLoader reads files on a goroutine and parses them into T. Completion
// callbacks are delivered through the dispatcher.
type FileLoader[T any] struct {
	kind     string
	basePath string
	fsys     fs.FS
	dispatch Dispatcher
	parse    ParseFunc[T]
	log      *zap.Logger
}

// NewFileLoader creates a loader reading from the OS file system. A nil
// dispatcher delivers completions on the loading goroutine.
func NewFileLoader[T any](kind string, dispatch Dispatcher, parse ParseFunc[T]) *FileLoader[T] {
	if dispatch == nil {
		dispatch = Immediate
	}
	return &FileLoader[T]{
		kind:     kind,
		dispatch: dispatch,
		parse:    parse,
		log:      logger.Named("loader"),
	}
}

// SetBasePath sets the directory names are resolved against.
func (l *FileLoader[T]) SetBasePath(p string) {
	l.basePath = p
}

// SetFS reads from fsys instead of the OS. Paths then use forward slashes.
func (l *FileLoader[T]) SetFS(fsys fs.FS) {
	l.fsys = fsys
}

// Resolve returns the path a name is read from.
func (l *FileLoader[T]) Resolve(name string) string {
	if l.fsys != nil {
		return path.Join(l.basePath, name)
	}
	if filepath.IsAbs(name) || l.basePath == "" {
		return name
	}
	return filepath.Join(l.basePath, name)
}

// Load reads and parses name in the background.
func (l *FileLoader[T]) Load(name string, onComplete func(T, error)) {
	p := l.Resolve(name)
	go func() {
		start := time.Now()
		v, err := l.read(name, p)
		if err != nil {
			err = fmt.Errorf("loading %s %s: %w", l.kind, p, err)
		} else {
			l.log.Debug("loaded",
				zap.String("kind", l.kind),
				zap.String("path", p),
				zap.Duration("took", time.Since(start)))
		}
		l.dispatch(func() { onComplete(v, err) })
	}()
}

func (l *FileLoader[T]) read(name, p string) (T, error) {
	var (
		data []byte
		err  error
		zero T
	)
	if l.fsys != nil {
		data, err = fs.ReadFile(l.fsys, p)
	} else {
		data, err = os.ReadFile(p)
	}
	if err != nil {
		return zero, err
	}
	return l.parse(name, data)
}

// NewOBJLoader loads Wavefront OBJ meshes.
func NewOBJLoader(dispatch Dispatcher) *FileLoader[*formats.OBJ] {
	return NewFileLoader("obj", dispatch, func(_ string, data []byte) (*formats.OBJ, error) {
		return formats.ParseOBJ(bytes.NewReader(data))
	})
}

// NewMTLLoader loads Wavefront MTL material libraries.
func NewMTLLoader(dispatch Dispatcher) *FileLoader[*formats.MTL] {
	return NewFileLoader("mtl", dispatch, func(_ string, data []byte) (*formats.MTL, error) {
		return formats.ParseMTL(bytes.NewReader(data))
	})
}

// NewHeightmapLoader loads raw 16-bit heightmaps of width x height points.
func NewHeightmapLoader(dispatch Dispatcher, width, height int) *FileLoader[*formats.Heightmap] {
	return NewFileLoader("heightmap", dispatch, func(_ string, data []byte) (*formats.Heightmap, error) {
		return formats.ParseHeightmap(data, width, height)
	})
}

// NewTextureLoader loads images.
func NewTextureLoader(dispatch Dispatcher) *FileLoader[image.Image] {
	return NewFileLoader("texture", dispatch, texture.Decode)
}
