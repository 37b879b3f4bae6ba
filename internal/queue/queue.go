// Package queue carries timing samples from trial workers to the
// sampler's collector.
//
// Three implementations of the Queue interface are provided:
//   - ChannelQueue: buffered channel, any number of producers
//   - RingBuffer: lock-free SPSC ring, exactly one producer
//   - Sharded: lock-free MPSC ring from go-lock-free-ring, one shard
//     per producer
//
// All implementations are non-blocking. A worker whose Push fails spins
// or yields; the collector drains with Pop.
//
// # RingBuffer Safety
//
// RingBuffer is single-producer single-consumer. It panics if two
// goroutines Push (or Pop) at the same time. New refuses to build one
// for more than one producer.
package queue

import (
	"errors"
	"fmt"
)

// Queue is a non-blocking FIFO.
type Queue[T any] interface {
	// Push adds an item to the queue.
	// Returns false if the queue is full.
	Push(T) bool

	// Pop removes and returns an item from the queue.
	// Returns false if the queue is empty.
	Pop() (T, bool)
}

// MultiProducer is implemented by queues that route each producer to
// its own lane.
type MultiProducer[T any] interface {
	Queue[T]
	PushFrom(producer uint64, v T) bool
}

// Kind selects a Queue implementation.
type Kind string

const (
	KindAuto    Kind = "auto"
	KindChannel Kind = "channel"
	KindRing    Kind = "ring"
	KindSharded Kind = "sharded"
)

// ErrKind is returned by New for unknown kinds or a kind that cannot
// serve the requested number of producers.
var ErrKind = errors.New("queue: unsupported kind")

// New builds a queue of at least size slots for the given number of
// producers. KindAuto picks RingBuffer for one producer and Sharded
// otherwise.
func New[T any](kind Kind, size, producers int) (Queue[T], error) {
	if producers < 1 {
		producers = 1
	}
	if kind == "" || kind == KindAuto {
		kind = KindRing
		if producers > 1 {
			kind = KindSharded
		}
	}

	switch kind {
	case KindChannel:
		return NewChannel[T](size), nil
	case KindRing:
		if producers > 1 {
			return nil, fmt.Errorf("%s with %d producers: %w", kind, producers, ErrKind)
		}
		return NewRingBuffer[T](size), nil
	case KindSharded:
		return NewSharded[T](size, producers)
	default:
		return nil, fmt.Errorf("%q: %w", kind, ErrKind)
	}
}

// Producer returns the push function a given producer should use.
// Queues without lanes share a single Push.
func Producer[T any](q Queue[T], id uint64) func(T) bool {
	if mp, ok := q.(MultiProducer[T]); ok {
		return func(v T) bool { return mp.PushFrom(id, v) }
	}
	return q.Push
}

// Drain pops until q is empty, calling fn for each item, and returns the
// number drained. Call it only once producers have stopped; otherwise it
// returns at the first moment the queue happens to be empty.
func Drain[T any](q Queue[T], fn func(T)) int {
	n := 0
	for {
		v, ok := q.Pop()
		if !ok {
			return n
		}
		fn(v)
		n++
	}
}
