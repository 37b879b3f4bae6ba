// Package fib provides the Fibonacci workload.
//
// Recursive is the benchmark itself: the naive double recursion whose
// cost grows as O(phi^n). Iterative exists only to cross-check results.
package fib

const (
	// DefaultN is the recursion depth used by the fibonacci program.
	DefaultN = 35

	// Want35 is Fibonacci(35).
	Want35 = 9227465
)

// Recursive returns the nth Fibonacci number via naive double recursion.
// n <= 1 returns n.
func Recursive(n int) int64 {
	if n <= 1 {
		return int64(n)
	}
	return Recursive(n-1) + Recursive(n-2)
}

// Iterative returns the nth Fibonacci number in linear time.
func Iterative(n int) int64 {
	if n <= 1 {
		return int64(n)
	}
	var a, b int64 = 0, 1
	for i := 2; i <= n; i++ {
		a, b = b, a+b
	}
	return b
}
