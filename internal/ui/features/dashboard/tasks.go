package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Task is a running profiling request.
type Task struct {
	ID        string
	Table     string
	StartedAt time.Time

	cancel context.CancelFunc
}

// Tasks tracks running profiling requests so they can be cancelled from
// another request.
type Tasks struct {
	mu      sync.Mutex
	running map[string]*Task
}

// NewTasks creates an empty task table.
func NewTasks() *Tasks {
	return &Tasks{running: make(map[string]*Task)}
}

// Start registers a task for table and returns it with a context derived
// from parent. Callers must call Finish with the task ID.
func (t *Tasks) Start(parent context.Context, table string) (*Task, context.Context) {
	ctx, cancel := context.WithCancel(parent)
	task := &Task{
		ID:        uuid.NewString(),
		Table:     table,
		StartedAt: time.Now(),
		cancel:    cancel,
	}

	t.mu.Lock()
	t.running[task.ID] = task
	t.mu.Unlock()
	return task, ctx
}

// Finish removes the task and releases its context.
func (t *Tasks) Finish(id string) {
	t.mu.Lock()
	task, ok := t.running[id]
	delete(t.running, id)
	t.mu.Unlock()
	if ok {
		task.cancel()
	}
}

// Cancel cancels a running task. It reports false for unknown IDs.
func (t *Tasks) Cancel(id string) bool {
	t.mu.Lock()
	task, ok := t.running[id]
	t.mu.Unlock()
	if !ok {
		return false
	}
	task.cancel()
	return true
}

// Len returns the number of running tasks.
func (t *Tasks) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.running)
}
