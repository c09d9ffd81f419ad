// Package ringbuf provides a growable double-ended circular queue.
// The ecs package uses it for the free entity ID pool and for deferred
// deletion queues.
package ringbuf

import (
	"iter"
	"math"

	"github.com/rotisserie/eris"
)

const (
	// DefaultCapacity is used when New is given a non-positive capacity.
	DefaultCapacity = 16
	// MaxCapacity is the largest capacity a Buffer will grow to: the uint32
	// range, clamped to int on 32-bit platforms.
	MaxCapacity = min(math.MaxUint32, math.MaxInt)
)

var (
	ErrEmpty            = eris.New("ring buffer is empty")
	ErrOutOfRange       = eris.New("ring buffer index out of range")
	ErrCapacityExceeded = eris.New("ring buffer is full and its capacity is at the limit")
)

// Buffer is a double-ended queue over a backing slice with wrap-around
// head and tail indices. It grows by doubling when a push finds it full.
// The zero value is not usable, use New.
type Buffer[T any] struct {
	items []T
	head  int
	tail  int
	count int
	limit int
}

// New creates a buffer with the given initial capacity.
func New[T any](capacity int) *Buffer[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer[T]{
		items: make([]T, capacity),
		limit: MaxCapacity,
	}
}

// PushBack appends an item at the tail.
func (b *Buffer[T]) PushBack(item T) error {
	if err := b.grow(); err != nil {
		return err
	}
	b.items[b.tail] = item
	b.tail = (b.tail + 1) % len(b.items)
	b.count++
	return nil
}

// PushFront inserts an item at the head.
func (b *Buffer[T]) PushFront(item T) error {
	if err := b.grow(); err != nil {
		return err
	}
	b.head = (b.head - 1 + len(b.items)) % len(b.items)
	b.items[b.head] = item
	b.count++
	return nil
}

// PopFront removes and returns the first item.
func (b *Buffer[T]) PopFront() (T, error) {
	var zero T
	if b.count == 0 {
		return zero, ErrEmpty
	}
	item := b.items[b.head]
	b.items[b.head] = zero
	b.head = (b.head + 1) % len(b.items)
	b.count--
	return item, nil
}

// PopBack removes and returns the last item.
func (b *Buffer[T]) PopBack() (T, error) {
	var zero T
	if b.count == 0 {
		return zero, ErrEmpty
	}
	b.tail = (b.tail - 1 + len(b.items)) % len(b.items)
	item := b.items[b.tail]
	b.items[b.tail] = zero
	b.count--
	return item, nil
}

// Front returns the first item without removing it.
func (b *Buffer[T]) Front() (T, error) {
	if b.count == 0 {
		var zero T
		return zero, ErrEmpty
	}
	return b.items[b.head], nil
}

// Back returns the last item without removing it.
func (b *Buffer[T]) Back() (T, error) {
	if b.count == 0 {
		var zero T
		return zero, ErrEmpty
	}
	return b.items[(b.tail-1+len(b.items))%len(b.items)], nil
}

// At returns the item at logical position i, counted from the head.
func (b *Buffer[T]) At(i int) (T, error) {
	if i < 0 || i >= b.count {
		var zero T
		return zero, eris.Wrapf(ErrOutOfRange, "index %d, length %d", i, b.count)
	}
	return b.items[(b.head+i)%len(b.items)], nil
}

// Set replaces the item at logical position i.
func (b *Buffer[T]) Set(i int, item T) error {
	if i < 0 || i >= b.count {
		return eris.Wrapf(ErrOutOfRange, "index %d, length %d", i, b.count)
	}
	b.items[(b.head+i)%len(b.items)] = item
	return nil
}

// Len returns the number of live items.
func (b *Buffer[T]) Len() int { return b.count }

// Cap returns the size of the backing slice.
func (b *Buffer[T]) Cap() int { return len(b.items) }

// IsEmpty reports whether the buffer holds no items.
func (b *Buffer[T]) IsEmpty() bool { return b.count == 0 }

// IsFull reports whether the next push has to grow the buffer.
func (b *Buffer[T]) IsFull() bool { return b.count == len(b.items) }

// Clear drops every item and keeps the capacity.
func (b *Buffer[T]) Clear() {
	var zero T
	for i := 0; i < b.count; i++ {
		b.items[(b.head+i)%len(b.items)] = zero
	}
	b.head = 0
	b.tail = 0
	b.count = 0
}

// Resize reallocates the backing slice with the given capacity, moving
// the live items to the front. Capacities smaller than Len are ignored.
func (b *Buffer[T]) Resize(capacity int) {
	if capacity < b.count {
		return
	}
	items := make([]T, capacity)
	b.copyLive(items)
	b.items = items
	b.head = 0
	if capacity == 0 {
		b.tail = 0
	} else {
		b.tail = b.count % capacity
	}
}

// Clone returns a deep copy holding only the live items, laid out from
// index 0. The copy has the same capacity.
func (b *Buffer[T]) Clone() *Buffer[T] {
	items := make([]T, len(b.items))
	b.copyLive(items)
	c := &Buffer[T]{
		items: items,
		count: b.count,
		limit: b.limit,
	}
	if len(items) > 0 {
		c.tail = b.count % len(items)
	}
	return c
}

// All iterates the live items from head to tail.
func (b *Buffer[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < b.count; i++ {
			if !yield(b.items[(b.head+i)%len(b.items)]) {
				return
			}
		}
	}
}

// copyLive copies the live items into dst starting at index 0, handling
// the wrapped case in two segments.
func (b *Buffer[T]) copyLive(dst []T) {
	if b.count == 0 {
		return
	}
	if b.head+b.count <= len(b.items) {
		copy(dst, b.items[b.head:b.head+b.count])
		return
	}
	n := copy(dst, b.items[b.head:])
	copy(dst[n:], b.items[:b.count-n])
}

func (b *Buffer[T]) grow() error {
	if b.count < len(b.items) {
		return nil
	}
	capacity := len(b.items)
	if capacity >= b.limit {
		return eris.Wrapf(ErrCapacityExceeded, "capacity %d", capacity)
	}

	next := capacity * 2
	if next == 0 {
		next = 1
	}
	if next > b.limit || next < capacity {
		next = b.limit
	}
	b.Resize(next)
	return nil
}
