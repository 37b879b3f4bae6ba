package queue

// ChannelQueue wraps a buffered channel in the non-blocking Queue
// contract. Any number of workers may push; it is the baseline the lock
// free queues are measured against.
type ChannelQueue[T any] struct {
	ch chan T
}

// NewChannel returns a ChannelQueue buffering up to size samples.
func NewChannel[T any](size int) *ChannelQueue[T] {
	return &ChannelQueue[T]{ch: make(chan T, size)}
}

// Push sends v unless the buffer is full.
func (q *ChannelQueue[T]) Push(v T) bool {
	select {
	case q.ch <- v:
		return true
	default:
	}
	return false
}

// Pop receives the oldest sample if one is buffered.
func (q *ChannelQueue[T]) Pop() (v T, ok bool) {
	select {
	case v = <-q.ch:
		ok = true
	default:
	}
	return v, ok
}

// Len is the number of buffered samples.
func (q *ChannelQueue[T]) Len() int { return len(q.ch) }

// Cap is the buffer size.
func (q *ChannelQueue[T]) Cap() int { return cap(q.ch) }
