package plugin

import (
	"context"
	"sync"
)

// Scheduler is a deferred entry point run after the build phase against the
// frozen App. The returned message or error is only logged.
type Scheduler func(ctx context.Context, app *App) (string, error)

// Task is a named one-shot Scheduler.
type Task struct {
	Name string
	Run  Scheduler
}

// Order selects which end of a TaskQueue Pop takes from.
type Order int

const (
	FIFO Order = iota // registration order
	LIFO              // reverse registration order
)

// TaskQueue holds one-shot tasks. Each task is removed when popped.
type TaskQueue struct {
	mu    sync.Mutex
	order Order
	tasks []Task
}

// NewTaskQueue creates an empty queue draining in the given order.
func NewTaskQueue(order Order) *TaskQueue {
	return &TaskQueue{order: order}
}

// Push appends a task.
func (q *TaskQueue) Push(name string, run Scheduler) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, Task{Name: name, Run: run})
}

// Pop removes and returns the next task.
func (q *TaskQueue) Pop() (Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.tasks) == 0 {
		return Task{}, false
	}

	var task Task
	if q.order == LIFO {
		last := len(q.tasks) - 1
		task = q.tasks[last]
		q.tasks[last] = Task{}
		q.tasks = q.tasks[:last]
	} else {
		task = q.tasks[0]
		q.tasks[0] = Task{}
		q.tasks = q.tasks[1:]
	}
	return task, true
}

// Len returns the number of queued tasks.
func (q *TaskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Names lists queued task names in the order Pop would return them.
func (q *TaskQueue) Names() []string {
	q.mu.Lock()
	defer q.mu.Unlock()

	names := make([]string, len(q.tasks))
	for i, t := range q.tasks {
		if q.order == LIFO {
			names[len(q.tasks)-1-i] = t.Name
		} else {
			names[i] = t.Name
		}
	}
	return names
}
