package loader

import "sync"

// Queue collects completions posted from loading goroutines and runs them on
// the goroutine that owns the scene. Its zero value is ready to use.
type Queue struct {
	mu    sync.Mutex
	tasks []func()
}

// Post schedules fn for the next Drain. It is safe for concurrent use and
// matches the Dispatcher signature.
func (q *Queue) Post(fn func()) {
	if fn == nil {
		return
	}
	q.mu.Lock()
	q.tasks = append(q.tasks, fn)
	q.mu.Unlock()
}

// Drain runs the tasks posted so far and returns how many ran. Tasks posted
// while draining wait for the next call.
func (q *Queue) Drain() int {
	q.mu.Lock()
	tasks := q.tasks
	q.tasks = nil
	q.mu.Unlock()

	for _, fn := range tasks {
		fn()
	}
	return len(tasks)
}

// Len returns the number of tasks waiting.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}
