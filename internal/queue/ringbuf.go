package queue

import (
	"sync/atomic"
)

// cacheLinePad keeps the producer and consumer indices on separate lines.
type cacheLinePad [56]byte

// RingBuffer is a lock-free single-producer single-consumer queue.
//
// The sampler uses it when one worker runs every trial. Concurrent Push
// or concurrent Pop calls panic instead of corrupting the ring.
type RingBuffer[T any] struct {
	buf  []T
	mask uint64

	_    cacheLinePad
	head atomic.Uint64 // next slot to write; producer owned
	_    cacheLinePad
	tail atomic.Uint64 // next slot to read; consumer owned
	_    cacheLinePad

	pushing atomic.Bool
	popping atomic.Bool
}

// NewRingBuffer creates a RingBuffer holding at least size items.
// The capacity is rounded up to the next power of two.
func NewRingBuffer[T any](size int) *RingBuffer[T] {
	n := uint64(1)
	for n < uint64(size) {
		n <<= 1
	}
	return &RingBuffer[T]{
		buf:  make([]T, n),
		mask: n - 1,
	}
}

// Push adds an item to the queue.
// Returns false if the queue is full.
func (r *RingBuffer[T]) Push(v T) bool {
	if !r.pushing.CompareAndSwap(false, true) {
		panic("queue: concurrent Push on SPSC RingBuffer")
	}
	defer r.pushing.Store(false)

	head := r.head.Load()
	if head-r.tail.Load() >= uint64(len(r.buf)) {
		return false
	}
	r.buf[head&r.mask] = v
	r.head.Store(head + 1)
	return true
}

// Pop removes and returns an item from the queue.
// Returns false if the queue is empty.
func (r *RingBuffer[T]) Pop() (T, bool) {
	if !r.popping.CompareAndSwap(false, true) {
		panic("queue: concurrent Pop on SPSC RingBuffer")
	}
	defer r.popping.Store(false)

	tail := r.tail.Load()
	if tail >= r.head.Load() {
		var zero T
		return zero, false
	}
	v := r.buf[tail&r.mask]
	r.tail.Store(tail + 1)
	return v, true
}

// Len returns the number of queued items. It may be stale by the time
// the caller reads it.
func (r *RingBuffer[T]) Len() int {
	return int(r.head.Load() - r.tail.Load())
}

// Cap returns the capacity of the queue.
func (r *RingBuffer[T]) Cap() int {
	return len(r.buf)
}
