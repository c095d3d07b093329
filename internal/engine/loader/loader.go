// Package loader loads scene resources asynchronously and aggregates their
// completion.
//
// Loads run on their own goroutines. Completions are handed to a Dispatcher,
// which in the viewer posts them onto the render loop so that callbacks never
// run concurrently with a frame.
package loader

// Loader loads named resources of one type relative to a base path.
type Loader[T any] interface {
	SetBasePath(path string)
	Load(name string, onComplete func(T, error))
}

// Dispatcher runs fn on the goroutine that owns the scene.
type Dispatcher func(fn func())

// Immediate runs fn on the calling goroutine.
func Immediate(fn func()) { fn() }
