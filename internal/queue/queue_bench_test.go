package queue_test

import (
	"testing"
	"time"

	"github.com/randomizedcoder/classic-benchmarks/internal/queue"
)

// Sink variables to prevent compiler from eliminating benchmark loops
var sinkSample sample
var sinkBool bool

func benchPushPop(b *testing.B, q queue.Queue[sample]) {
	b.ReportAllocs()
	b.ResetTimer()

	var val sample
	var ok bool
	for i := 0; i < b.N; i++ {
		q.Push(sample{worker: 0, elapsed: time.Duration(i)})
		val, ok = q.Pop()
	}
	sinkSample = val
	sinkBool = ok
}

func BenchmarkQueue_Channel_PushPop(b *testing.B) {
	benchPushPop(b, queue.NewChannel[sample](1024))
}

func BenchmarkQueue_RingBuffer_PushPop(b *testing.B) {
	benchPushPop(b, queue.NewRingBuffer[sample](1024))
}

func BenchmarkQueue_Sharded_PushPop(b *testing.B) {
	q, err := queue.NewSharded[sample](1024, 1)
	if err != nil {
		b.Fatal(err)
	}
	benchPushPop(b, q)
}
