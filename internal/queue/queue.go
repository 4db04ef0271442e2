// Package queue holds rows waiting to be written to a storage backend in batches.
package queue

import (
	"sync"
)

// Queue is a generic thread-safe FIFO batch buffer.
type Queue[T any] struct {
	mu    sync.Mutex
	items []T
}

// New creates a new empty queue.
func New[T any]() *Queue[T] {
	return &Queue[T]{
		items: make([]T, 0),
	}
}

// Push appends items to the queue.
func (q *Queue[T]) Push(items ...T) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, items...)
}

// PopN removes and returns up to n items from the front. n <= 0 takes everything.
func (q *Queue[T]) PopN(n int) []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	if n <= 0 || n > len(q.items) {
		n = len(q.items)
	}
	batch := make([]T, n)
	copy(batch, q.items[:n])
	q.items = q.items[n:]
	if len(q.items) == 0 {
		q.items = make([]T, 0, cap(q.items))
	}
	return batch
}

// Empty returns true if the queue has no items.
func (q *Queue[T]) Empty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) == 0
}

// Len returns the number of items in the queue.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Drain hands the queued items to write in batches of at most size until the
// queue is empty. On error the failed batch is dropped and the rest stays queued.
func (q *Queue[T]) Drain(size int, write func(batch []T) error) error {
	for !q.Empty() {
		if err := write(q.PopN(size)); err != nil {
			return err
		}
	}
	return nil
}
