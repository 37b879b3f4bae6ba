// Package workload wraps the classic algorithms behind one interface so the
// harness can run, verify and time them uniformly.
//
// Three implementations are provided:
//   - Fibonacci: naive recursive Fibonacci
//   - MatMul: dense integer matrix multiplication (corner element)
//   - BubbleSort: bubble sort of a descending array (first element)
package workload

import (
	"errors"
	"fmt"
	"slices"
	"sort"
)

var (
	// ErrMismatch is returned when a run produces an unexpected value.
	ErrMismatch = errors.New("workload: result mismatch")

	// ErrUnknown is returned by Select for unregistered names.
	ErrUnknown = errors.New("workload: unknown workload")
)

// Workload is a deterministic computation with a known answer.
//
// Run must be safe to call from several goroutines at once; each call
// allocates its own working data.
type Workload interface {
	// Name is the registry key, also the cmd/ directory of the program.
	Name() string

	// Run executes the algorithm once and returns the number the
	// standalone program prints.
	Run() int64

	// Want is the value Run must return.
	Want() int64
}

// Verify runs w once and checks the result.
func Verify(w Workload) error {
	if got, want := w.Run(), w.Want(); got != want {
		return fmt.Errorf("%s: got %d, want %d: %w", w.Name(), got, want, ErrMismatch)
	}
	return nil
}

var registry = map[string]func() Workload{
	FibonacciName:  func() Workload { return NewFibonacci(0) },
	MatMulName:     func() Workload { return NewMatMul(0) },
	BubbleSortName: func() Workload { return NewBubbleSort(0) },
}

// Names returns the registered workload names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select returns the default-sized workload registered under name.
func Select(name string) (Workload, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%q (have %v): %w", name, Names(), ErrUnknown)
	}
	return ctor(), nil
}

// All returns every registered workload at its default size, in Names order.
func All() []Workload {
	names := Names()
	out := make([]Workload, 0, len(names))
	for _, name := range names {
		w, _ := Select(name)
		out = append(out, w)
	}
	return out
}

// SelectMany resolves names in order; an empty list means All.
func SelectMany(names []string) ([]Workload, error) {
	if len(names) == 0 {
		return All(), nil
	}
	out := make([]Workload, 0, len(names))
	for _, name := range slices.Compact(slices.Clone(names)) {
		w, err := Select(name)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}
