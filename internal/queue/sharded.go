package queue

import (
	"fmt"

	ring "github.com/randomizedcoder/go-lock-free-ring"
)

// Sharded is an MPSC queue backed by go-lock-free-ring's ShardedRing.
//
// Each producer writes to the shard selected by its id, so concurrent
// workers do not contend on one head index. Pop must be called from a
// single consumer.
type Sharded[T any] struct {
	r      *ring.ShardedRing
	shards uint64
}

// NewSharded creates a Sharded queue with one shard per producer,
// rounded up to a power of two. Every shard holds at least size items
// and never fewer than two, since a one-slot shard cannot tell a free
// slot from a written one.
func NewSharded[T any](size, producers int) (*Sharded[T], error) {
	shards := nextPow2(uint64(max(producers, 1)))
	perShard := nextPow2(uint64(max(size, 2)))
	capacity := shards * perShard

	r, err := ring.NewShardedRing(capacity, shards)
	if err != nil {
		return nil, fmt.Errorf("queue: sharded ring (cap=%d shards=%d): %w", capacity, shards, err)
	}
	return &Sharded[T]{r: r, shards: shards}, nil
}

// PushFrom adds v on the lane of the given producer.
// Returns false if that lane is full.
func (s *Sharded[T]) PushFrom(producer uint64, v T) bool {
	return s.r.Write(producer, v)
}

// Push adds v on lane 0.
func (s *Sharded[T]) Push(v T) bool {
	return s.PushFrom(0, v)
}

// Pop removes and returns the next item from any lane.
// Returns false if every lane is empty.
func (s *Sharded[T]) Pop() (T, bool) {
	var zero T
	v, ok := s.r.TryRead()
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}

// Shards returns the number of producer lanes.
func (s *Sharded[T]) Shards() int {
	return int(s.shards)
}

func nextPow2(n uint64) uint64 {
	p := uint64(1)
	for p < n {
		p <<= 1
	}
	return p
}
