package loader

import (
	"fmt"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/scenekit/internal/logger"
)

// Manager counts the loads issued through the loaders it tracks and runs the
// OnLoad callbacks once all of them have finished.
type Manager struct {
	name string
	log  *zap.Logger

	mu         sync.Mutex
	total      int
	done       int
	errs       error
	onLoad     []func(error)
	onProgress func(item string, loaded, total int)
}

// NewManager creates a manager; name only appears in logs and errors.
func NewManager(name string) *Manager {
	return &Manager{name: name, log: logger.Named("loader")}
}

// Track wraps l so that every load it issues is counted by m.
func Track[T any](m *Manager, l Loader[T]) Loader[T] {
	return &tracked[T]{m: m, inner: l}
}

type tracked[T any] struct {
	m     *Manager
	inner Loader[T]
}

func (t *tracked[T]) SetBasePath(path string) {
	t.inner.SetBasePath(path)
}

func (t *tracked[T]) Load(name string, onComplete func(T, error)) {
	t.m.ItemStart(name)
	t.inner.Load(name, func(v T, err error) {
		if onComplete != nil {
			onComplete(v, err)
		}
		t.m.ItemEnd(name, err)
	})
}

// ItemStart records a load in flight.
func (m *Manager) ItemStart(item string) {
	m.mu.Lock()
	m.total++
	m.mu.Unlock()
	m.log.Debug("load started", zap.String("manager", m.name), zap.String("item", item))
}

// ItemEnd records a finished load. When it was the last one in flight the
// OnLoad callbacks run with the combined error of every failed item.
func (m *Manager) ItemEnd(item string, err error) {
	m.mu.Lock()
	m.done++
	if err != nil {
		m.errs = multierr.Append(m.errs, fmt.Errorf("%s: %w", item, err))
	}
	loaded, total := m.done, m.total
	progress := m.onProgress
	var ready []func(error)
	if loaded == total {
		ready = m.onLoad
		m.onLoad = nil
	}
	errs := m.errs
	m.mu.Unlock()

	if err != nil {
		m.log.Warn("load failed", zap.String("manager", m.name), zap.String("item", item), zap.Error(err))
	}
	if progress != nil {
		progress(item, loaded, total)
	}
	for _, fn := range ready {
		fn(errs)
	}
}

// OnLoad registers fn to run once when no tracked load is in flight. If none
// is in flight at registration, fn runs immediately.
func (m *Manager) OnLoad(fn func(err error)) {
	m.mu.Lock()
	if m.done < m.total {
		m.onLoad = append(m.onLoad, fn)
		m.mu.Unlock()
		return
	}
	errs := m.errs
	m.mu.Unlock()
	fn(errs)
}

// OnProgress sets a callback run after every finished item.
func (m *Manager) OnProgress(fn func(item string, loaded, total int)) {
	m.mu.Lock()
	m.onProgress = fn
	m.mu.Unlock()
}

// Pending returns the number of loads in flight.
func (m *Manager) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.total - m.done
}

// Err returns the combined error of every failed item so far.
func (m *Manager) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errs
}
