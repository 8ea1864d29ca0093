package events

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Queue is a message queue scoped to a single tick. Producers push during the tick, consumers
// read or drain before it ends, and the owner clears it at the end of every tick.
// It belongs to the simulation thread and is not safe for concurrent use.
type Queue[T any] struct {
	items []T
}

// NewQueue creates an empty Queue.
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{}
}

// Push appends a message.
func (q *Queue[T]) Push(msg T) {
	q.items = append(q.items, msg)
}

// Len returns the number of queued messages.
func (q *Queue[T]) Len() int {
	return len(q.items)
}

// Read returns the queued messages without consuming them, so several consumers can observe the same tick.
//
// Returns:
//   - []T: the messages in push order; the slice is only valid until the next Push or Clear
func (q *Queue[T]) Read() []T {
	return q.items
}

// Drain returns and removes every queued message.
//
// Returns:
//   - []T: the messages in push order
func (q *Queue[T]) Drain() []T {
	out := q.items
	q.items = nil
	return out
}

// Clear drops every queued message.
func (q *Queue[T]) Clear() {
	q.items = q.items[:0]
}

// PlayerMoved is emitted once for each tick in which the player had non-zero horizontal input.
type PlayerMoved struct {
	Tick         uint64
	Displacement mgl32.Vec3
}
