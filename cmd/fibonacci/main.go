// Command fibonacci prints the nth Fibonacci number computed by naive
// double recursion.
//
// Usage:
//
//	go run ./cmd/fibonacci          # prints 9227465
//	go run ./cmd/fibonacci -n 40
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/randomizedcoder/classic-benchmarks/internal/fib"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("fibonacci", flag.ContinueOnError)
	fs.SetOutput(stderr)
	n := fs.Int("n", fib.DefaultN, "recursion depth")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	fmt.Fprintln(stdout, fib.Recursive(*n))
	return 0
}
