package workload

import (
	"github.com/randomizedcoder/classic-benchmarks/internal/bubble"
	"github.com/randomizedcoder/classic-benchmarks/internal/fib"
	"github.com/randomizedcoder/classic-benchmarks/internal/matmul"
)

// Registry names.
const (
	FibonacciName  = "fibonacci"
	MatMulName     = "matmul"
	BubbleSortName = "bubblesort"
)

// Fibonacci computes fib.Recursive(N).
type Fibonacci struct {
	N int
}

// NewFibonacci returns a Fibonacci workload; n <= 0 selects fib.DefaultN.
func NewFibonacci(n int) *Fibonacci {
	if n <= 0 {
		n = fib.DefaultN
	}
	return &Fibonacci{N: n}
}

func (f *Fibonacci) Name() string { return FibonacciName }

func (f *Fibonacci) Run() int64 { return fib.Recursive(f.N) }

func (f *Fibonacci) Want() int64 { return fib.Iterative(f.N) }

// MatMul multiplies a[i][j]=i+j by b[i][j]=i*j and reports c[N-1][N-1].
type MatMul struct {
	N int
}

// NewMatMul returns a MatMul workload; n <= 0 selects matmul.DefaultN.
func NewMatMul(n int) *MatMul {
	if n <= 0 {
		n = matmul.DefaultN
	}
	return &MatMul{N: n}
}

func (m *MatMul) Name() string { return MatMulName }

func (m *MatMul) Run() int64 {
	// N is positive by construction, so New cannot fail.
	a, _ := matmul.New(m.N)
	b, _ := matmul.New(m.N)
	c, _ := matmul.New(m.N)
	a.FillIndexSum()
	b.FillIndexProduct()
	_ = matmul.Multiply(c, a, b)
	return int64(c.Corner())
}

func (m *MatMul) Want() int64 { return int64(matmul.Expected(m.N)) }

// BubbleSort sorts Descending(N) and reports the first element.
type BubbleSort struct {
	N int
}

// NewBubbleSort returns a BubbleSort workload; n <= 0 selects bubble.DefaultN.
func NewBubbleSort(n int) *BubbleSort {
	if n <= 0 {
		n = bubble.DefaultN
	}
	return &BubbleSort{N: n}
}

func (s *BubbleSort) Name() string { return BubbleSortName }

func (s *BubbleSort) Run() int64 {
	arr := bubble.Descending(s.N)
	bubble.Sort(arr)
	return int64(arr[0])
}

func (s *BubbleSort) Want() int64 { return 1 }
