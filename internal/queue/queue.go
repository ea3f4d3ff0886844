// Package queue carries product extraction tasks from discovery to the
// worker pool.
package queue

import (
	"context"
	"sync"
)

// Task is one discovered product URL plus the catalog position it was
// found under. Position is the index within the item's result list and
// drives ordered persistence downstream.
type Task struct {
	URL         string
	Category    string
	Subcategory string
	ItemType    string
	Position    int
}

// Queue is a FIFO task channel between discovery and workers.
type Queue interface {
	Enqueue(task Task)
	// Dequeue blocks until a task is available, the queue is closed
	// (ok=false) or ctx is cancelled (ok=false).
	Dequeue(ctx context.Context) (Task, bool)
	Close()
	Len() int
}

// InMemory is a mutex+condvar FIFO queue. Closing wakes all blocked
// consumers; tasks already enqueued are still drained after Close.
type InMemory struct {
	mu     sync.Mutex
	cond   *sync.Cond
	tasks  []Task
	closed bool
}

func NewInMemory() *InMemory {
	q := &InMemory{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *InMemory) Enqueue(task Task) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.tasks = append(q.tasks, task)
	q.cond.Signal()
}

func (q *InMemory) Dequeue(ctx context.Context) (Task, bool) {
	// Wake blocked waiters when the context ends. The broadcast is
	// harmless if Dequeue already returned.
	stop := context.AfterFunc(ctx, func() {
		q.mu.Lock()
		q.cond.Broadcast()
		q.mu.Unlock()
	})
	defer stop()

	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.tasks) == 0 {
		if q.closed || ctx.Err() != nil {
			return Task{}, false
		}
		q.cond.Wait()
	}

	if ctx.Err() != nil {
		return Task{}, false
	}

	task := q.tasks[0]
	q.tasks = q.tasks[1:]
	return task, true
}

func (q *InMemory) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}

func (q *InMemory) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}
