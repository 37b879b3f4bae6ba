package fib_test

import (
	"fmt"
	"testing"

	"github.com/randomizedcoder/classic-benchmarks/internal/fib"
)

// Sink variable to prevent compiler from eliminating benchmark loops
var sinkInt64 int64

func BenchmarkFib_Recursive(b *testing.B) {
	for _, n := range []int{10, 20, 25} {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()

			var v int64
			for i := 0; i < b.N; i++ {
				v = fib.Recursive(n)
			}
			sinkInt64 = v
		})
	}
}

func BenchmarkFib_Iterative(b *testing.B) {
	b.ReportAllocs()
	b.ResetTimer()

	var v int64
	for i := 0; i < b.N; i++ {
		v = fib.Iterative(fib.DefaultN)
	}
	sinkInt64 = v
}
